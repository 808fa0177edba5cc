package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/msaflow/pkg/assign"
	"github.com/matzehuels/msaflow/pkg/cache"
	apperr "github.com/matzehuels/msaflow/pkg/errors"
	"github.com/matzehuels/msaflow/pkg/network"
	"github.com/matzehuels/msaflow/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// AssignResult is the output of the assign stage, also its cached form.
type AssignResult struct {
	Summary *assign.Summary         `json:"summary"`
	Trace   []assign.IterationStats `json:"trace,omitempty"`
	Routes  int                     `json:"routes"`
}

// Execute runs the complete load → assign → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	// Stage 1: Load
	loadStart := time.Now()
	net, err := Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result := &Result{NetworkHash: cache.Hash([]byte(opts.Source))}
	result.Stats.LoadTime = time.Since(loadStart)

	r.Logger.Info("loaded network",
		"name", net.Name(),
		"nodes", net.NodeCount(),
		"edges", net.EdgeCount(),
		"pairs", len(net.ODPairs()),
		"duration", result.Stats.LoadTime)

	return r.finish(ctx, net, result, opts)
}

// Assign runs the assign and render stages on a network built in code.
// Assignment results are not cached because there is no source to hash.
func (r *Runner) Assign(ctx context.Context, net *network.Network, opts Options) (*Result, error) {
	if net == nil {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "network is nil")
	}
	if opts.Name == "" {
		opts.Name = net.Name()
	}
	r.applyLogger(&opts)
	if err := opts.ValidateForAssign(); err != nil {
		return nil, err
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	return r.finish(ctx, net, &Result{}, opts)
}

// finish runs the assign and render stages and fills in result.
func (r *Runner) finish(ctx context.Context, net *network.Network, result *Result, opts Options) (*Result, error) {
	result.Stats.NodeCount = net.NodeCount()
	result.Stats.EdgeCount = net.EdgeCount()
	result.Stats.PairCount = len(net.ODPairs())

	// Stage 2: Assign
	assignStart := time.Now()
	res, hit, err := r.AssignWithCacheInfo(ctx, net, result.NetworkHash, opts)
	if err != nil {
		return nil, fmt.Errorf("assign: %w", err)
	}
	result.Summary = res.Summary
	result.Trace = res.Trace
	result.Stats.RouteCount = res.Routes
	result.Stats.AssignTime = time.Since(assignStart)
	result.CacheInfo.AssignHit = hit

	r.Logger.Info("assigned demand",
		"iterations", opts.Iterations,
		"routes", res.Routes,
		"ue", res.Summary.UE,
		"aec", res.Summary.AEC,
		"cached", hit,
		"duration", result.Stats.AssignTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res.Summary, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// AssignWithCacheInfo runs and evaluates the assignment, consulting the
// cache when networkHash is set. It reports whether the result was cached.
func (r *Runner) AssignWithCacheInfo(ctx context.Context, net *network.Network, networkHash string, opts Options) (*AssignResult, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForAssign(); err != nil {
		return nil, false, err
	}

	var cacheKey string
	if networkHash != "" {
		cacheKey = r.Keyer.ResultKey(networkHash, opts.ResultKeyOpts())
	}

	// Try cache first (unless refresh requested)
	if cacheKey != "" && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached AssignResult
			if err := json.Unmarshal(data, &cached); err == nil && cached.Summary != nil {
				observability.Cache().OnCacheHit(ctx, "result")
				return &cached, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "result")
	}

	res, err := assign.Run(ctx, net, opts.AssignOptions())
	if err != nil {
		return nil, false, err
	}
	sum, err := assign.Evaluate(res)
	if err != nil {
		return nil, false, err
	}
	out := &AssignResult{Summary: sum, Trace: res.Trace, Routes: res.Routes.Len()}

	if cacheKey != "" {
		if data, err := json.Marshal(out); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLResult); err != nil {
				r.Logger.Warn("cache write failed", "error", err)
			} else {
				observability.Cache().OnCacheSet(ctx, "result", len(data))
			}
		}
	}
	return out, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s *assign.Summary, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	summaryData, err := json.Marshal(s)
	if err != nil {
		return nil, false, fmt.Errorf("serialize summary for cache key: %w", err)
	}
	resultHash := cache.Hash(summaryData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(resultHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	rendered, err := Render(ctx, s, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(resultHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
