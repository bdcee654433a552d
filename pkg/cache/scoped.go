package cache

// ScopedKeyer prefixes every key of an inner Keyer. The CLI scopes keys by
// cache generation, giving keys like "g2:layout:<hash>", so entries written
// in an older encoding are never read back.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

var _ Keyer = (*ScopedKeyer)(nil)

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

func (k *ScopedKeyer) LayoutKey(datasetHash string, year int, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(datasetHash, year, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
