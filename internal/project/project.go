// Package project provides template document persistence: the JSON artifact
// pairing a generated template's palette and regions with the settings that
// produced them, so a run can be re-rendered or inspected without redoing the
// segmentation.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pbngen/internal/pipeline"
	"pbngen/internal/quantize"
	"pbngen/internal/region"
)

// documentVersion is bumped when the on-disk schema changes shape.
const documentVersion = 1

// Document is a generated template serialized to a .pbn.json file.
type Document struct {
	Version  int       `json:"version"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`

	// Source image path, relative to the document file when possible.
	SourcePath string `json:"source,omitempty"`

	Width  int `json:"width"`
	Height int `json:"height"`

	Settings Settings                `json:"settings"`
	Palette  []quantize.PaletteEntry `json:"palette"`
	Regions  []region.Region         `json:"regions"`

	// Converged is false when clustering hit its iteration cap; the template
	// is still usable, just possibly not the best palette fit.
	Converged bool `json:"converged"`
}

// Settings records the pipeline options a document was generated with.
type Settings struct {
	ColorCount        int     `json:"color_count"`
	Complexity        string  `json:"complexity"`
	MinRegionSize     int     `json:"min_region_size"`
	MaxDimension      int     `json:"max_dimension,omitempty"`
	Seed              int64   `json:"seed"`
	SimplifyTolerance float64 `json:"simplify_tolerance,omitempty"`
	Prefilter         bool    `json:"prefilter"`
}

// New builds a document from a pipeline result and the options that produced
// it.
func New(res *pipeline.Result, opts pipeline.Options) *Document {
	now := time.Now().UTC()
	return &Document{
		Version:  documentVersion,
		Created:  now,
		Modified: now,
		Width:    res.Width,
		Height:   res.Height,
		Settings: Settings{
			ColorCount:        opts.ColorCount,
			Complexity:        opts.Complexity.String(),
			MinRegionSize:     opts.MinRegionSize,
			MaxDimension:      opts.MaxDimension,
			Seed:              opts.Seed,
			SimplifyTolerance: opts.SimplifyTolerance,
			Prefilter:         opts.Prefilter,
		},
		Palette:   res.Palette,
		Regions:   res.Regions,
		Converged: res.Converged,
	}
}

// SetSource records the source image path, made relative to the document
// location when both share a tree.
func (d *Document) SetSource(documentPath, imagePath string) {
	rel, err := filepath.Rel(filepath.Dir(documentPath), imagePath)
	if err != nil {
		d.SourcePath = imagePath
		return
	}
	d.SourcePath = rel
}

// SourceImagePath resolves the recorded source path against the document
// location.
func (d *Document) SourceImagePath(documentPath string) string {
	if d.SourcePath == "" || filepath.IsAbs(d.SourcePath) {
		return d.SourcePath
	}
	return filepath.Join(filepath.Dir(documentPath), d.SourcePath)
}

// Load reads a document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if doc.Version > documentVersion {
		return nil, fmt.Errorf("%s: document version %d is newer than this build supports", path, doc.Version)
	}
	return &doc, nil
}

// Save writes the document to disk, refreshing the modification time.
func (d *Document) Save(path string) error {
	d.Modified = time.Now().UTC()

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
