package cache

// ScopedKeyer prefixes every key of an inner Keyer. The server uses it to
// keep its entries apart from other tenants of a shared Redis:
//
//	keyer := cache.NewScopedKeyer(nil, "scatter:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SceneKey returns the prefixed scene key.
func (k *ScopedKeyer) SceneKey(opts SceneKeyOpts) string {
	return k.prefix + k.inner.SceneKey(opts)
}

// LayoutKey returns the prefixed layout key.
func (k *ScopedKeyer) LayoutKey(length, height float64, n int) string {
	return k.prefix + k.inner.LayoutKey(length, height, n)
}
