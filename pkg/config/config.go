// Package config loads scene configurations and blueprint catalogs.
//
// Both file kinds are accepted as YAML, TOML or JSON, chosen by extension.
// Unknown keys are rejected. Fields that take a range ([Range] types)
// accept either a scalar or a [min, max] pair in every format.
//
// A loaded [Config] is inert until [Config.Validate] passes; the pipeline
// validates before placing anything so that configuration mistakes surface
// as INVALID_CONFIG rather than as placement failures.
package config

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/scatter/pkg/distribution"
	"github.com/matzehuels/scatter/pkg/errors"
	"github.com/matzehuels/scatter/pkg/geom"
	"github.com/matzehuels/scatter/pkg/placement"
	"github.com/matzehuels/scatter/pkg/rule"
)

// Format names a configuration encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// DefaultEnvironmentName names the environment when the config does not.
const DefaultEnvironmentName = "environment"

// DefaultBorderBlueprint is used for borders when no blueprint is named.
const DefaultBorderBlueprint = "Border"

// Config is a complete scene configuration.
type Config struct {
	Seed        *uint64     `json:"seed,omitempty" yaml:"seed,omitempty" toml:"seed,omitempty"`
	MaxTries    int         `json:"max_tries,omitempty" yaml:"max_tries,omitempty" toml:"max_tries,omitempty"`
	Environment Environment `json:"environment" yaml:"environment" toml:"environment"`
	Areas       []Area      `json:"areas,omitempty" yaml:"areas,omitempty" toml:"areas,omitempty"`
}

// Environment configures the root site.
type Environment struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	// Size holds the half extents. Exactly one of Size and SizeRange is set.
	Size      *[3]float64 `json:"size,omitempty" yaml:"size,omitempty" toml:"size,omitempty"`
	SizeRange *SizeRange  `json:"size_range,omitempty" yaml:"size_range,omitempty" toml:"size_range,omitempty"`
	Borders   Borders     `json:"borders,omitempty" yaml:"borders,omitempty" toml:"borders,omitempty"`
	Rules     []rule.Spec `json:"rules,omitempty" yaml:"rules,omitempty" toml:"rules,omitempty"`
	Objects   []Object    `json:"objects,omitempty" yaml:"objects,omitempty" toml:"objects,omitempty"`
}

// SizeRange randomizes the environment half extents per axis.
type SizeRange struct {
	X FloatRange `json:"x" yaml:"x" toml:"x"`
	Y FloatRange `json:"y" yaml:"y" toml:"y"`
	Z FloatRange `json:"z" yaml:"z" toml:"z"`
}

// Borders configures the fence around the environment.
type Borders struct {
	Place     bool   `json:"place" yaml:"place" toml:"place"`
	Blueprint string `json:"blueprint,omitempty" yaml:"blueprint,omitempty" toml:"blueprint,omitempty"`
}

// BlueprintName returns the configured border blueprint or the default.
func (b Borders) BlueprintName() string {
	if b.Blueprint == "" {
		return DefaultBorderBlueprint
	}
	return b.Blueprint
}

// Area configures one sub-region. Areas are tiled in the order given.
type Area struct {
	Name    string      `json:"name" yaml:"name" toml:"name"`
	Rules   []rule.Spec `json:"rules,omitempty" yaml:"rules,omitempty" toml:"rules,omitempty"`
	Objects []Object    `json:"objects,omitempty" yaml:"objects,omitempty" toml:"objects,omitempty"`
}

// Object is the placement spec for one blueprint in one site.
type Object struct {
	Blueprint      string        `json:"blueprint" yaml:"blueprint" toml:"blueprint"`
	Amount         *IntRange     `json:"amount,omitempty" yaml:"amount,omitempty" toml:"amount,omitempty"`
	Coordinates    [][3]float64  `json:"coordinates,omitempty" yaml:"coordinates,omitempty" toml:"coordinates,omitempty"`
	ZRotationRange *FloatRange   `json:"z_rotation_range,omitempty" yaml:"z_rotation_range,omitempty" toml:"z_rotation_range,omitempty"`
	ColorGroups    *IntRange     `json:"color_groups,omitempty" yaml:"color_groups,omitempty" toml:"color_groups,omitempty"`
	SizeGroups     *IntRange     `json:"size_groups,omitempty" yaml:"size_groups,omitempty" toml:"size_groups,omitempty"`
	SizeValueRange *FloatRange   `json:"size_value_range,omitempty" yaml:"size_value_range,omitempty" toml:"size_value_range,omitempty"`
	AssetPool      []string      `json:"asset_pool,omitempty" yaml:"asset_pool,omitempty" toml:"asset_pool,omitempty"`
	Distribution   *Distribution `json:"distribution,omitempty" yaml:"distribution,omitempty" toml:"distribution,omitempty"`
}

// Distribution selects a sampler and its parameters. Parameters that do
// not belong to Kind are ignored.
type Distribution struct {
	Kind   string             `json:"kind" yaml:"kind" toml:"kind"`
	Params DistributionParams `json:"params,omitempty" yaml:"params,omitempty" toml:"params,omitempty"`
}

// DistributionParams is the union of all distribution parameters.
type DistributionParams struct {
	Low   *[2]float64    `json:"low,omitempty" yaml:"low,omitempty" toml:"low,omitempty"`
	High  *[2]float64    `json:"high,omitempty" yaml:"high,omitempty" toml:"high,omitempty"`
	Mean  *[2]float64    `json:"mean,omitempty" yaml:"mean,omitempty" toml:"mean,omitempty"`
	Cov   *[2][2]float64 `json:"cov,omitempty" yaml:"cov,omitempty" toml:"cov,omitempty"`
	Loc   *float64       `json:"loc,omitempty" yaml:"loc,omitempty" toml:"loc,omitempty"`
	Scale *float64       `json:"scale,omitempty" yaml:"scale,omitempty" toml:"scale,omitempty"`
	Step  *[2]float64    `json:"step,omitempty" yaml:"step,omitempty" toml:"step,omitempty"`
	Start *[2]float64    `json:"start,omitempty" yaml:"start,omitempty" toml:"start,omitempty"`
}

// Spec converts d into the typed distribution spec.
func (d *Distribution) Spec() (distribution.Spec, error) {
	if d == nil {
		return distribution.Spec{Kind: distribution.Uniform}, nil
	}
	kind, err := distribution.ParseKind(d.Kind)
	if err != nil {
		return distribution.Spec{}, err
	}
	p := d.Params
	spec := distribution.Spec{Kind: kind}
	switch kind {
	case distribution.Uniform:
		spec.Uniform = distribution.UniformParams{Low: point(p.Low), High: point(p.High)}
	case distribution.Normal:
		spec.Normal = distribution.NormalParams{Mean: point(p.Mean), Cov: p.Cov}
	case distribution.Circular:
		spec.Circular = distribution.CircularParams{Loc: p.Loc, Scale: p.Scale}
	case distribution.RandomWalk:
		spec.RandomWalk = distribution.RandomWalkParams{
			Step: p.Step, Low: point(p.Low), High: point(p.High), Start: point(p.Start),
		}
	}
	return spec, nil
}

func point(v *[2]float64) *geom.Point {
	if v == nil {
		return nil
	}
	return &geom.Point{X: v[0], Y: v[1]}
}

// Placement converts o into a placement spec.
func (o Object) Placement() (placement.Spec, error) {
	dist, err := o.Distribution.Spec()
	if err != nil {
		return placement.Spec{}, err
	}
	coords := make([]geom.Vec3, len(o.Coordinates))
	for i, c := range o.Coordinates {
		coords[i] = geom.V3(c[0], c[1], c[2])
	}
	return placement.Spec{
		Amount:         o.Amount.Placement(),
		Coordinates:    coords,
		ZRotationRange: o.ZRotationRange.Placement(),
		ColorGroups:    o.ColorGroups.Placement(),
		SizeGroups:     o.SizeGroups.Placement(),
		SizeValueRange: o.SizeValueRange.Placement(),
		AssetPool:      o.AssetPool,
		Distribution:   dist,
	}, nil
}

// EnvironmentName returns the configured name or the default.
func (c *Config) EnvironmentName() string {
	if c.Environment.Name == "" {
		return DefaultEnvironmentName
	}
	return c.Environment.Name
}

// Hash returns a stable content hash of the configuration. It fails for
// values JSON cannot carry, such as a NaN read from TOML.
func (c *Config) Hash() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "hash config")
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// FormatFromPath infers the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported config extension %q (use .yaml, .yml, .toml or .json)", filepath.Ext(path))
}

// Load reads and parses a scene configuration file. The result is not
// validated.
func Load(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config")
	}
	return Parse(data, format)
}

// Parse decodes a scene configuration.
func Parse(data []byte, format Format) (*Config, error) {
	var cfg Config
	if err := decode(data, format, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s config", format)
	}
	return &cfg, nil
}

func decode(data []byte, format Format, v any) error {
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		return dec.Decode(v)
	case FormatTOML:
		md, err := toml.Decode(string(data), v)
		if err != nil {
			return err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %v", undecoded)
		}
		return nil
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(v)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
}
