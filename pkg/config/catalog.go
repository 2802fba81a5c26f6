package config

import (
	_ "embed"
	"os"

	"github.com/matzehuels/scatter/pkg/errors"
	"github.com/matzehuels/scatter/pkg/geom"
	"github.com/matzehuels/scatter/pkg/scene"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// CatalogFile is the on-disk form of a blueprint catalog.
type CatalogFile struct {
	Blueprints []Blueprint `json:"blueprints" yaml:"blueprints" toml:"blueprints"`
}

// Blueprint is the on-disk form of a scene.Blueprint.
type Blueprint struct {
	Name      string       `json:"name" yaml:"name" toml:"name"`
	Class     string       `json:"class,omitempty" yaml:"class,omitempty" toml:"class,omitempty"`
	Type      string       `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Shape     string       `json:"shape,omitempty" yaml:"shape,omitempty" toml:"shape,omitempty"`
	Size      [3]float64   `json:"size" yaml:"size" toml:"size"`
	Color     *[4]float64  `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	Rotation  [3]float64   `json:"rotation,omitempty" yaml:"rotation,omitempty" toml:"rotation,omitempty"`
	Footprint string       `json:"footprint,omitempty" yaml:"footprint,omitempty" toml:"footprint,omitempty"`
	Parts     []PartConfig `json:"parts,omitempty" yaml:"parts,omitempty" toml:"parts,omitempty"`
	Tags      []string     `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`
}

// PartConfig is one primitive of a composite blueprint.
type PartConfig struct {
	Name   string     `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Shape  string     `json:"shape" yaml:"shape" toml:"shape"`
	Size   [3]float64 `json:"size" yaml:"size" toml:"size"`
	Offset [3]float64 `json:"offset,omitempty" yaml:"offset,omitempty" toml:"offset,omitempty"`
}

func (b Blueprint) blueprint() scene.Blueprint {
	color := scene.RGBA{0.5, 0.5, 0.5, 1}
	if b.Color != nil {
		color = scene.RGBA(*b.Color)
	}
	parts := make([]scene.Part, len(b.Parts))
	for i, p := range b.Parts {
		parts[i] = scene.Part{
			Name:   p.Name,
			Shape:  scene.Shape(p.Shape),
			Size:   vec(p.Size),
			Offset: vec(p.Offset),
		}
	}
	return scene.Blueprint{
		Name:      b.Name,
		Class:     b.Class,
		Type:      b.Type,
		Shape:     scene.Shape(b.Shape),
		Size:      vec(b.Size),
		Color:     color,
		Rotation:  vec(b.Rotation),
		Footprint: scene.FootprintMode(b.Footprint),
		Parts:     parts,
		Tags:      b.Tags,
	}
}

func vec(a [3]float64) geom.Vec3 { return geom.V3(a[0], a[1], a[2]) }

// LoadCatalog reads a catalog file. An empty path yields the built-in
// catalog.
func LoadCatalog(path string) (*scene.Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read catalog")
	}
	return ParseCatalog(data, format)
}

// ParseCatalog decodes and validates a catalog.
func ParseCatalog(data []byte, format Format) (*scene.Catalog, error) {
	var file CatalogFile
	if err := decode(data, format, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "parse %s catalog", format)
	}
	if len(file.Blueprints) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidCatalog, "catalog has no blueprints")
	}
	bps := make([]scene.Blueprint, len(file.Blueprints))
	for i, b := range file.Blueprints {
		if err := errors.ValidateName("blueprint", b.Name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "blueprints[%d]", i)
		}
		bps[i] = b.blueprint()
	}
	return scene.NewCatalog(bps...)
}

// DefaultCatalog returns the built-in catalog: one blueprint per primitive
// shape plus a Border.
func DefaultCatalog() (*scene.Catalog, error) {
	return ParseCatalog(defaultCatalog, FormatYAML)
}

// DefaultCatalogData returns the raw built-in catalog.
func DefaultCatalogData() []byte { return defaultCatalog }
