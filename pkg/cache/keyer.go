package cache

import "fmt"

// Keyer builds cache keys. Implementations must be deterministic.
type Keyer interface {
	// HTTPKey keys a raw HTTP response body.
	HTTPKey(namespace, key string) string

	// LayoutKey keys a social-map layout of a dataset for one year.
	LayoutKey(datasetHash string, year int, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the options that change a layout.
type LayoutKeyOpts struct {
	RelaxPasses int  `json:"relax_passes"`
	AliveOnly   bool `json:"alive_only,omitempty"`
}

// ArtifactKeyOpts holds the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Selected string `json:"selected,omitempty"`
	Headers  bool   `json:"headers"`
	Images   bool   `json:"images"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return fmt.Sprintf("http:%s:%s", namespace, key)
}

// LayoutKey returns "layout:<hash>" over the dataset hash, year and options.
func (DefaultKeyer) LayoutKey(datasetHash string, year int, opts LayoutKeyOpts) string {
	return hashKey("layout", datasetHash, year, opts)
}

// ArtifactKey returns "artifact:<hash>" over the layout hash and options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
