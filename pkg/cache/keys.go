package cache

// Keyer derives cache keys from run inputs.
type Keyer interface {
	// SceneKey identifies a generated scene.
	SceneKey(opts SceneKeyOpts) string
	// LayoutKey identifies the tiling of a length x height rectangle into
	// n areas.
	LayoutKey(length, height float64, n int) string
}

// SceneKeyOpts are the inputs that fully determine a scene.
type SceneKeyOpts struct {
	ConfigHash  string `json:"config"`
	CatalogHash string `json:"catalog"`
	Seed        uint64 `json:"seed"`
}

// DefaultKeyer produces keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SceneKey returns "scene:" followed by the hash of opts.
func (DefaultKeyer) SceneKey(opts SceneKeyOpts) string {
	return hashKey("scene", opts)
}

// LayoutKey returns "layout:" followed by the hash of the dimensions.
func (DefaultKeyer) LayoutKey(length, height float64, n int) string {
	return hashKey("layout", length, height, n)
}

var _ Keyer = DefaultKeyer{}
