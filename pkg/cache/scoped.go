package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The HTTP API uses it to keep entries of different deployments or layout
// versions apart when they share one Redis or MongoDB instance.
//
// Example usage:
//
//	// Keys for a staging deployment
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
//
//	// Unscoped keys for the CLI
//	local := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(chartHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(chartHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
