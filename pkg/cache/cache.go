// Package cache provides artifact caching for the chart pipeline.
//
// Prepared layouts and rendered artifacts are content-addressed: keys are
// derived from a hash of the canonical chart encoding (or of the layouts)
// plus every option that influences the result, so entries never need
// explicit invalidation.
//
// # Backends
//
//   - [FileCache]: per-user directory cache for the CLI
//   - [RedisCache]: shared cache for the HTTP API
//   - [MongoCache]: document-store cache for deployments without Redis
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] builds keys; [ScopedKeyer] prefixes them to isolate tenants or
// versions:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "v1:")
//	key := keyer.LayoutKey(cache.Hash(chartJSON), cache.LayoutKeyOpts{})
package cache

import (
	"context"
	"strings"
	"time"
)

// Default time-to-live per entry kind.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Key namespaces, also used as the key type reported to cache hooks.
const (
	KindLayout   = "layout"
	KindArtifact = "artifact"
)

// LayoutVersion is part of every layout key. Bump it when the prepare
// algorithm changes in a way that alters output for the same input.
const LayoutVersion = "1"

// Cache stores opaque byte blobs under string keys.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the data stored under key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey returns the key for a prepared chart layout.
	LayoutKey(chartHash string, opts LayoutKeyOpts) string

	// ArtifactKey returns the key for a rendered artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the inputs besides the chart that affect a layout.
type LayoutKeyOpts struct {
	Version string `json:"version"`
}

// ArtifactKeyOpts holds the render options that affect an artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Grid   bool   `json:"grid"`
	Labels bool   `json:"labels"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(chartHash string, opts LayoutKeyOpts) string {
	if opts.Version == "" {
		opts.Version = LayoutVersion
	}
	return hashKey(KindLayout, chartHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(KindArtifact, layoutHash, opts)
}

// KindOf returns the namespace of a key built by [DefaultKeyer], ignoring any
// scope prefix.
func KindOf(key string) string {
	i := strings.LastIndex(key, ":")
	if i < 0 {
		return "unknown"
	}
	ns := key[:i]
	if j := strings.LastIndex(ns, ":"); j >= 0 {
		ns = ns[j+1:]
	}
	switch ns {
	case KindLayout, KindArtifact:
		return ns
	}
	return "unknown"
}
