package rule

import (
	"github.com/matzehuels/scatter/pkg/errors"
	"github.com/matzehuels/scatter/pkg/geom"
	"github.com/matzehuels/scatter/pkg/scene"
)

// Type names a configurable rule.
type Type string

const (
	TypeBoundary           Type = "boundary"
	TypeMinDistance        Type = "min_distance"
	TypeHeight             Type = "height"
	TypePhysicsMinDistance Type = "physics_min_distance"
)

// DefaultDistance is the clearance used by the default physics rule.
const DefaultDistance = 1.0

// Spec is the configuration form of a rule.
type Spec struct {
	Type        Type       `json:"type" yaml:"type" toml:"type"`
	Distance    float64    `json:"distance,omitempty" yaml:"distance,omitempty" toml:"distance,omitempty"`
	Classes     []string   `json:"classes,omitempty" yaml:"classes,omitempty" toml:"classes,omitempty"`
	GroundLevel float64    `json:"ground_level,omitempty" yaml:"ground_level,omitempty" toml:"ground_level,omitempty"`
	Rect        *geom.Rect `json:"rect,omitempty" yaml:"-" toml:"-"`
}

// Defaults returns the rules applied to a site that configures none.
func Defaults() []Spec {
	return []Spec{
		{Type: TypeBoundary},
		{Type: TypePhysicsMinDistance, Distance: DefaultDistance},
	}
}

// Validate checks a spec without building it.
func (s Spec) Validate() error {
	switch s.Type {
	case TypeBoundary, TypeHeight:
	case TypeMinDistance, TypePhysicsMinDistance:
		if s.Distance < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s: distance must not be negative", s.Type)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"unknown rule type %q (must be one of: boundary, min_distance, height, physics_min_distance)", s.Type)
	}
	if s.Type == TypeMinDistance {
		if _, err := NewMinDistance(s.Distance, s.Classes...); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "min_distance")
		}
	}
	return nil
}

// Build turns a spec into a rule for site. A boundary rule without an
// explicit rectangle uses the site bounds.
func Build(s Spec, site scene.Site) (Rule, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	switch s.Type {
	case TypeBoundary:
		r := site.Bounds()
		if s.Rect != nil {
			r = *s.Rect
		}
		return Boundary{Rect: r}, nil
	case TypeMinDistance:
		return NewMinDistance(s.Distance, s.Classes...)
	case TypeHeight:
		return Height{GroundLevel: s.GroundLevel}, nil
	default:
		return PhysicsMinDistance{Distance: s.Distance}, nil
	}
}

// BuildAll builds specs in order, falling back to Defaults when specs is empty.
func BuildAll(specs []Spec, site scene.Site) ([]Rule, error) {
	if len(specs) == 0 {
		specs = Defaults()
	}
	rules := make([]Rule, 0, len(specs))
	for i, s := range specs {
		r, err := Build(s, site)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "site %q rule %d", site.Name(), i)
		}
		rules = append(rules, r)
	}
	return rules, nil
}
