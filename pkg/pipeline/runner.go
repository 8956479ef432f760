package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seqsee/pkg/cache"
	"github.com/matzehuels/seqsee/pkg/chart"
	"github.com/matzehuels/seqsee/pkg/errors"
	"github.com/matzehuels/seqsee/pkg/graph"
	"github.com/matzehuels/seqsee/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
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

// Execute runs the complete prepare → render pipeline with caching.
//
// Charts that fail to decode, load or prepare are reported in Result.Charts
// and skipped. An error is returned only for invalid options, unresolved
// chart references, render failures, or when every chart failed.
func (r *Runner) Execute(ctx context.Context, coll *chart.Collection, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result := &Result{
		Document:  graph.Document{Title: coll.Title()},
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Prepare
	prepareStart := time.Now()
	charts, err := r.PrepareAll(ctx, coll, opts)
	if err != nil {
		return nil, err
	}
	result.Charts = charts
	result.Stats.PrepareTime = time.Since(prepareStart)
	result.Stats.ChartCount = len(charts)

	for _, c := range result.Charts {
		if c.Err != nil {
			result.Stats.FailedCount++
			r.Logger.Error("chart failed", "chart", c.Name, "err", c.Err)
			continue
		}
		if c.CacheHit {
			result.CacheInfo.LayoutHits++
		}
		for _, w := range c.Layout.Warnings {
			r.Logger.Warn(w, "chart", c.Name)
		}
		result.Stats.NodeCount += len(c.Layout.Nodes)
		result.Stats.EdgeCount += len(c.Layout.Edges)
		result.Document.Charts = append(result.Document.Charts, *c.Layout)
	}

	r.Logger.Info("prepared charts",
		"charts", result.Stats.ChartCount,
		"failed", result.Stats.FailedCount,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.PrepareTime)

	if len(charts) > 0 && len(result.Document.Charts) == 0 {
		return result, result.Charts[0].Err
	}

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result.Document, opts)
	if err != nil {
		return result, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RenderFromLayoutData renders layouts serialized by an earlier run, such as
// the output of the layout command, skipping the prepare stage.
func (r *Runner) RenderFromLayoutData(ctx context.Context, data []byte, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	doc, err := graph.UnmarshalDocument(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse layout")
	}
	if len(doc.Charts) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "layout document has no charts")
	}

	result := &Result{Document: doc}
	result.Stats.ChartCount = len(doc.Charts)
	for i := range doc.Charts {
		l := &doc.Charts[i]
		result.Charts = append(result.Charts, ChartResult{Index: i, Name: l.Title, Layout: l})
		result.Stats.NodeCount += len(l.Nodes)
		result.Stats.EdgeCount += len(l.Edges)
	}
	r.Logger.Debug("loaded layouts", "charts", result.Stats.ChartCount)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return result, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)
	return result, nil
}

// PrepareAll prepares every chart of coll with caching, in parallel.
func (r *Runner) PrepareAll(ctx context.Context, coll *chart.Collection, opts Options) ([]ChartResult, error) {
	opts.SetDefaults()
	return PrepareCollection(ctx, coll, opts.Workers, func(ctx context.Context, i int, c *chart.Chart) (*graph.Layout, bool, error) {
		return r.PrepareWithCacheInfo(ctx, ChartName(c, i), c, opts)
	})
}

// PrepareWithCacheInfo prepares one chart with caching and returns cache hit info.
func (r *Runner) PrepareWithCacheInfo(ctx context.Context, name string, c *chart.Chart, opts Options) (*graph.Layout, bool, error) {
	hooks := observability.Pipeline()
	hooks.OnPrepareStart(ctx, name, c.Nodes.Len())
	start := time.Now()

	l, hit, err := r.prepare(ctx, c, opts)

	var nodes, edges int
	if l != nil {
		nodes, edges = len(l.Nodes), len(l.Edges)
	}
	hooks.OnPrepareComplete(ctx, name, nodes, edges, time.Since(start), err)
	r.Logger.Debug("prepared chart", "chart", name, "nodes", nodes, "edges", edges, "cached", hit)
	return l, hit, err
}

func (r *Runner) prepare(ctx context.Context, c *chart.Chart, opts Options) (*graph.Layout, bool, error) {
	data, err := chart.Encode(c)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "encode chart for cache key")
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(data), cache.LayoutKeyOpts{})

	if !opts.Refresh {
		if l, ok := r.cachedLayout(ctx, cacheKey); ok {
			return l, true, nil
		}
	}

	l, err := Prepare(c)
	if err != nil {
		return nil, false, err
	}

	if data, err := graph.MarshalLayout(*l); err == nil {
		r.store(ctx, cacheKey, data, cache.TTLLayout)
	}
	return l, false, nil
}

func (r *Runner) cachedLayout(ctx context.Context, key string) (*graph.Layout, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, cache.KindLayout)
		return nil, false
	}
	l, err := graph.UnmarshalLayout(data)
	if err != nil {
		r.Logger.Warn("discarding cached layout", "key", key, "err", fmt.Errorf("%w: %v", cache.ErrCorrupt, err))
		observability.Cache().OnCacheMiss(ctx, cache.KindLayout)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, cache.KindLayout)
	return &l, true
}

// Prepare is a convenience wrapper that calls PrepareWithCacheInfo and discards the cache hit info.
func (r *Runner) Prepare(ctx context.Context, c *chart.Chart, opts Options) (*graph.Layout, error) {
	l, _, err := r.PrepareWithCacheInfo(ctx, ChartName(c, 0), c, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc graph.Document, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, hit, err := r.render(ctx, doc, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, hit, err
}

func (r *Runner) render(ctx context.Context, doc graph.Document, opts Options) (map[string][]byte, bool, error) {
	// Compute cache key from layout data
	docData, err := graph.MarshalDocument(doc)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layouts for cache key: %w", err)
	}
	docHash := cache.Hash(docData)

	// Try to get all formats from cache
	if !opts.Refresh {
		artifacts := make(map[string][]byte)
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, cache.KindArtifact)
				break
			}
			observability.Cache().OnCacheHit(ctx, cache.KindArtifact)
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	// Render all formats
	rendered, err := Render(ctx, doc, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		r.store(ctx, r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, doc graph.Document, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, doc, opts)
	return artifacts, err
}

func (r *Runner) store(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cache.KindOf(key), len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
