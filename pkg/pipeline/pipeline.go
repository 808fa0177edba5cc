// Package pipeline provides the load → assign → render pipeline for msaflow.
//
// This package implements the complete pipeline used by both the CLI and the
// HTTP API. By centralizing this logic, both entry points apply the same
// defaults, validation, and caching.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Parse the network file source into a network.Network
//  2. Assign: Run MSA and evaluate the result (UE, AEC, deviations)
//  3. Render: Produce output artifacts (text report, JSON, DOT, SVG)
//
// Assignment results and rendered artifacts are cached by content hash, so
// re-running an unchanged network with the same options is instant.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Name:       "sioux-falls",
//	    Source:     string(networkFile),
//	    Iterations: 1000,
//	    Formats:    []string{"text", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report := result.Artifacts["text"]
//
// For networks built in code, use [Runner.Assign], which skips the load
// stage and the result cache.
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/msaflow/pkg/assign"
	"github.com/matzehuels/msaflow/pkg/cache"
	apperr "github.com/matzehuels/msaflow/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultIterations is the number of MSA iterations when none is given.
	DefaultIterations = 1000

	// DefaultName names networks submitted without a name.
	DefaultName = "network"

	// DefaultOutputDir is where the CLI writes reports.
	DefaultOutputDir = "./results"
)

// Format constants for output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// FormatExt maps a format to the file extension appended to the report
// base name. The text report has no extension.
var FormatExt = map[string]string{
	FormatText: "",
	FormatJSON: ".json",
	FormatDOT:  ".dot",
	FormatSVG:  ".svg",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Name   string `json:"name,omitempty"`
	Source string `json:"network"` // network file contents

	// Assign options
	Iterations int  `json:"iterations,omitempty"`
	Trace      bool `json:"trace,omitempty"`
	Refresh    bool `json:"refresh,omitempty"` // ignore cached results

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger      *log.Logger                 `json:"-"`
	OnIteration func(assign.IterationStats) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Summary is the evaluated assignment.
	Summary *assign.Summary

	// Trace holds per-iteration statistics when Options.Trace is set.
	Trace []assign.IterationStats

	// NetworkHash is the content hash of the network source. Empty for
	// networks passed to Runner.Assign.
	NetworkHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	PairCount  int
	RouteCount int
	LoadTime   time.Duration
	AssignTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	AssignHit bool // Whether the summary came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperr.New(apperr.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: text, json, dot, svg)", format)
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

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Source == "" {
		return apperr.New(apperr.ErrCodeInvalidInput, "network source is required")
	}
	if o.Name == "" {
		o.Name = DefaultName
	}
	if err := apperr.ValidateNetworkName(o.Name); err != nil {
		return err
	}
	if err := o.ValidateForAssign(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForAssign applies the iteration default and validates it.
func (o *Options) ValidateForAssign() error {
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return apperr.ValidateIterations(o.Iterations)
}

// ValidateForRender applies the format default, drops duplicates, and
// validates the formats.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatText}
	}
	var uniq []string
	for _, f := range o.Formats {
		if !slices.Contains(uniq, f) {
			uniq = append(uniq, f)
		}
	}
	o.Formats = uniq
	return ValidateFormats(o.Formats)
}

// AssignOptions returns the options for the assignment engine.
func (o *Options) AssignOptions() assign.Options {
	return assign.Options{
		Iterations:  o.Iterations,
		Logger:      o.Logger,
		Trace:       o.Trace,
		OnIteration: o.OnIteration,
	}
}

// ResultKeyOpts returns cache key options for assignment results.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{Iterations: o.Iterations, Trace: o.Trace, Name: o.Name}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Detailed: o.Detailed}
}
