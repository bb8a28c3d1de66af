package cache

// ScopedKeyer prefixes every key from an inner Keyer. The CLI scopes keys by
// build version so an upgrade that changes rendering never serves stale
// previews:
//
//	keyer := cache.NewScopedKeyer(nil, "v"+buildinfo.Version+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// Prefix returns the scope prefix.
func (k *ScopedKeyer) Prefix() string { return k.prefix }

// PreviewKey returns the prefixed preview key.
func (k *ScopedKeyer) PreviewKey(opts PreviewKeyOpts) string {
	return k.prefix + k.inner.PreviewKey(opts)
}
