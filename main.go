// Package main provides the pbngen command line tool: it turns photographs
// into paint-by-numbers templates (SVG with numbered regions and a palette
// legend, plus an optional solved PNG preview).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"pbngen/internal/batch"
	"pbngen/internal/pipeline"
	"pbngen/internal/preset"
	"pbngen/internal/render"
	"pbngen/internal/version"
)

const appName = "pbngen"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	presetName := flag.String("preset", "casual", "parameter preset: "+strings.Join(preset.Names(), ", "))
	colors := flag.Int("colors", 0, "palette size K in [6,16] (overrides preset)")
	complexityName := flag.String("complexity", "", "marker complexity: low, medium, high, extreme (overrides preset)")
	minRegion := flag.Int("min-region", 0, "minimum region size in pixels, [50,500] (overrides preset)")
	maxDim := flag.Int("max-dim", 0, "longest-side resize cap in pixels (overrides preset)")
	seed := flag.Int64("seed", 1, "clustering RNG seed; fixed seed gives reproducible output")
	outDir := flag.String("out", ".", "output directory")
	zipPath := flag.String("zip", "", "package outputs into this ZIP archive")
	preview := flag.Bool("preview", false, "also write a solved PNG preview per image")
	solution := flag.Bool("solution", false, "fill SVG regions with their palette colors")
	noFilter := flag.Bool("no-filter", false, "skip the bilateral pre-filter")
	document := flag.Bool("json", false, "also write a .pbn.json template document per image")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s (built %s)\n", appName, version.String(), version.BuildTime)
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] image.png [image2.jpg ...]\n", appName)
		flag.PrintDefaults()
		os.Exit(2)
	}

	p, ok := preset.Lookup(*presetName)
	if !ok {
		log.Fatalf("unknown preset %q (want one of %s)", *presetName, strings.Join(preset.Names(), ", "))
	}

	opts := pipeline.FromPreset(p)
	opts.Seed = *seed
	if *colors > 0 {
		opts.ColorCount = *colors
	}
	if *complexityName != "" {
		c, err := preset.ParseComplexity(*complexityName)
		if err != nil {
			log.Fatal(err)
		}
		opts.Complexity = c
	}
	if *minRegion > 0 {
		opts.MinRegionSize = *minRegion
	}
	if *maxDim > 0 {
		opts.MaxDimension = *maxDim
	}
	if *noFilter {
		opts.Prefilter = false
	}
	if err := opts.Validate(); err != nil {
		log.Fatal(err)
	}

	opts.Progress = func(stage string, done, total int) {
		log.Printf("stage %d/%d: %s done", done, total, stage)
	}

	ropts := render.DefaultSVGOptions()
	ropts.FillRegions = *solution

	log.Printf("%s v%s: %d image(s), %d colors, complexity %s",
		appName, version.Version, flag.NArg(), opts.ColorCount, opts.Complexity)

	results := batch.Run(flag.Args(), batch.Options{
		Pipeline: opts,
		Render:   ropts,
		OutDir:   *outDir,
		Preview:  *preview,
		Document: *document,
	})

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	if *zipPath != "" {
		if err := batch.Package(*zipPath, results); err != nil {
			log.Fatalf("packaging failed: %v", err)
		}
		log.Printf("packaged outputs into %s", *zipPath)
	}

	if failed > 0 {
		log.Printf("%d of %d image(s) failed", failed, len(results))
		os.Exit(1)
	}
}
