// Package pipeline provides the chart processing pipeline for seqsee.
//
// This package implements the complete prepare → render pipeline used by the
// CLI and the HTTP API. Centralizing it keeps both entry points producing
// byte-identical artifacts for the same input.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Prepare: validate a chart, trim it to its declared bounds, resolve its
//     dimensions and node positions, and resolve every node and edge style
//     into a [graph.Layout]
//  2. Render: turn the prepared layouts into HTML, SVG, JSON or DOT
//
// Charts of a collection are prepared in parallel. A chart that fails to
// prepare is reported in [Result.Charts] and left out of the rendered output;
// it never aborts its siblings.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, collection, pipeline.Options{
//	    Formats: []string{"html"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	page := result.Artifacts["html"]
//
// Run individual stages:
//
//	l, err := pipeline.Prepare(c)
//	artifacts, err := pipeline.Render(ctx, doc, opts)
//
// Render layouts saved by an earlier run:
//
//	result, err := runner.RenderFromLayoutData(ctx, data, opts)
package pipeline

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seqsee/pkg/cache"
	"github.com/matzehuels/seqsee/pkg/errors"
	"github.com/matzehuels/seqsee/pkg/graph"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultWorkers bounds parallel chart preparation when Options.Workers is 0.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// Format constants for output formats.
const (
	FormatHTML   = "html"
	FormatSVG    = "svg"
	FormatJSON   = "json"
	FormatDOT    = "dot"
	FormatDOTSVG = "dot-svg"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatHTML

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatHTML:   true,
	FormatSVG:    true,
	FormatJSON:   true,
	FormatDOT:    true,
	FormatDOTSVG: true,
}

// FormatNames lists the supported formats in display order.
var FormatNames = []string{FormatHTML, FormatSVG, FormatJSON, FormatDOT, FormatDOTSVG}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Render options
	Formats  []string `json:"formats,omitempty"`
	NoGrid   bool     `json:"no_grid,omitempty"`
	NoLabels bool     `json:"no_labels,omitempty"`

	// Execution options
	Workers int  `json:"workers,omitempty"`
	Refresh bool `json:"refresh,omitempty"` // Ignore cached layouts and artifacts

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document holds the layouts of every chart that prepared successfully.
	Document graph.Document

	// Charts reports the outcome of every input chart, in input order.
	Charts []ChartResult

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// ChartResult is the outcome of preparing one chart.
type ChartResult struct {
	Index    int
	Name     string
	Layout   *graph.Layout
	Err      error
	CacheHit bool
}

// Failed returns the charts that could not be prepared.
func (r *Result) Failed() []ChartResult {
	var failed []ChartResult
	for _, c := range r.Charts {
		if c.Err != nil {
			failed = append(failed, c)
		}
	}
	return failed
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ChartCount  int
	FailedCount int
	NodeCount   int
	EdgeCount   int
	PrepareTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHits int  // Number of charts whose layout came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: html, svg, json, dot, dot-svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", o.Workers)
	}
	o.validated = true
	return nil
}

// SetDefaults sets default values for unset options.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Grid:   !o.NoGrid,
		Labels: !o.NoLabels,
	}
}
