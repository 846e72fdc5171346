// Package batch runs the pipeline over a queue of images, strictly one at a
// time, and packages the outputs. One image's failure is recorded against
// that item; the batch always continues.
package batch

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"pbngen/internal/imaging"
	"pbngen/internal/pipeline"
	"pbngen/internal/project"
	"pbngen/internal/render"
)

// Options configures a batch run.
type Options struct {
	Pipeline pipeline.Options
	Render   render.SVGOptions
	OutDir   string // Directory for per-image SVG outputs
	Preview  bool   // Also write a PNG preview per image
	Document bool   // Also write a .pbn.json template document per image
}

// ItemResult records one queue item's outcome. Err is nil on success.
type ItemResult struct {
	Path     string
	SVGPath  string
	PNGPath  string
	JSONPath string
	Regions  int
	Err      error
}

// Run processes the images sequentially in input order. Sequential execution
// bounds peak memory to a single pipeline run and keeps output ordering
// deterministic relative to the input list.
func Run(paths []string, opts Options) []ItemResult {
	results := make([]ItemResult, 0, len(paths))

	for _, path := range paths {
		res := runOne(path, opts)
		if res.Err != nil {
			log.Printf("batch: %s failed: %v", path, res.Err)
		} else {
			log.Printf("batch: %s -> %s (%d regions)", path, res.SVGPath, res.Regions)
		}
		results = append(results, res)
	}
	return results
}

// runOne executes the full pipeline and export for a single image.
func runOne(path string, opts Options) ItemResult {
	item := ItemResult{Path: path}

	img, err := imaging.LoadImage(path)
	if err != nil {
		item.Err = err
		return item
	}

	result, err := pipeline.Run(img, opts.Pipeline)
	if err != nil {
		item.Err = err
		return item
	}
	item.Regions = len(result.Regions)

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	item.SVGPath = filepath.Join(opts.OutDir, base+".svg")
	f, err := os.Create(item.SVGPath)
	if err != nil {
		item.Err = fmt.Errorf("create output: %w", err)
		return item
	}
	if err := render.WriteSVG(f, result, opts.Render); err != nil {
		f.Close()
		item.Err = fmt.Errorf("write svg: %w", err)
		return item
	}
	if err := f.Close(); err != nil {
		item.Err = fmt.Errorf("close output: %w", err)
		return item
	}

	if opts.Preview {
		item.PNGPath = filepath.Join(opts.OutDir, base+"_preview.png")
		if err := imaging.SavePNG(item.PNGPath, render.Preview(result)); err != nil {
			item.Err = err
			return item
		}
	}

	if opts.Document {
		item.JSONPath = filepath.Join(opts.OutDir, base+".pbn.json")
		doc := project.New(result, opts.Pipeline)
		doc.SetSource(item.JSONPath, path)
		if err := doc.Save(item.JSONPath); err != nil {
			item.Err = fmt.Errorf("write document: %w", err)
			return item
		}
	}

	return item
}

// Package zips every successful item's outputs into a single archive.
func Package(zipPath string, results []ItemResult) error {
	f, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	zw := zip.NewWriter(f)
	var werr error
	for _, item := range results {
		if item.Err != nil {
			continue
		}
		for _, p := range []string{item.SVGPath, item.PNGPath, item.JSONPath} {
			if p == "" {
				continue
			}
			if werr = addFile(zw, p); werr != nil {
				break
			}
		}
		if werr != nil {
			break
		}
	}

	if err := zw.Close(); err != nil && werr == nil {
		werr = fmt.Errorf("finalize archive: %w", err)
	}
	if err := f.Close(); err != nil && werr == nil {
		werr = fmt.Errorf("close archive: %w", err)
	}
	return werr
}

// addFile copies one file into the archive under its base name.
func addFile(zw *zip.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer src.Close()

	dst, err := zw.Create(filepath.Base(path))
	if err != nil {
		return fmt.Errorf("archive entry %s: %w", path, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("archive copy %s: %w", path, err)
	}
	return nil
}
