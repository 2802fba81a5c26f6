// Package scene defines what gets placed and where: immutable blueprints,
// the objects instantiated from them, and the sites (environment and areas)
// that own committed objects.
//
// # Value semantics
//
// [Object] is a plain value. Placers build a fresh candidate per attempt
// with the With* methods, which copy rather than mutate, so a rejected
// candidate never leaks state into the next attempt or into the blueprint.
//
// # Sites
//
// An [Environment] is the root container centered on (0,0). An [Area] is a
// rectangular sub-region of it with its own origin (the area center) and
// extent. Both share the environment's [SceneGraph], so physics-based rules
// see every committed object regardless of which site owns it.
package scene

import (
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/scatter/pkg/geom"
)

// Shape names a geometry primitive.
type Shape string

const (
	ShapeSphere   Shape = "sphere"
	ShapeBox      Shape = "box"
	ShapeCylinder Shape = "cylinder"
)

// Valid reports whether s is a known primitive.
func (s Shape) Valid() bool {
	switch s {
	case ShapeSphere, ShapeBox, ShapeCylinder:
		return true
	}
	return false
}

// FootprintMode selects how an object is projected for rule checks.
type FootprintMode string

const (
	// FootprintPoint projects the object onto its center position.
	FootprintPoint FootprintMode = "point"
	// FootprintBox projects the object onto its rotated XY bounding box.
	FootprintBox FootprintMode = "box"
)

// RGBA is a color with components in [0,1].
type RGBA [4]float64

// Part is one primitive of a blueprint's geometry. Size holds half extents
// (radius for spheres; radius, radius, half-length for cylinders). Offset is
// relative to the owning object's position.
type Part struct {
	Name   string    `json:"name,omitempty" bson:"name,omitempty" msgpack:"name,omitempty"`
	Shape  Shape     `json:"shape" bson:"shape" msgpack:"shape"`
	Size   geom.Vec3 `json:"size" bson:"size" msgpack:"size"`
	Offset geom.Vec3 `json:"offset" bson:"offset" msgpack:"offset"`
}

// Blueprint is an immutable template for a placeable object. Blueprints are
// loaded once per run and only ever read; use [Blueprint.Instantiate] to get
// an owned [Object].
type Blueprint struct {
	Name      string
	Class     string
	Type      string
	Shape     Shape
	Size      geom.Vec3
	Color     RGBA
	Rotation  geom.Vec3
	Footprint FootprintMode
	Parts     []Part
	Tags      []string
}

// Validate checks that b can be instantiated.
func (b Blueprint) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("blueprint name is required")
	}
	if len(b.Parts) == 0 && !b.Shape.Valid() {
		return fmt.Errorf("blueprint %q: unknown shape %q", b.Name, b.Shape)
	}
	for i, p := range b.Parts {
		if !p.Shape.Valid() {
			return fmt.Errorf("blueprint %q: part %d: unknown shape %q", b.Name, i, p.Shape)
		}
	}
	if b.Size.X < 0 || b.Size.Y < 0 || b.Size.Z < 0 {
		return fmt.Errorf("blueprint %q: size must not be negative", b.Name)
	}
	switch b.Footprint {
	case "", FootprintPoint, FootprintBox:
	default:
		return fmt.Errorf("blueprint %q: unknown footprint mode %q", b.Name, b.Footprint)
	}
	return nil
}

// Instantiate returns a new object with the blueprint's defaults and the
// given id. Slices are copied so the object never aliases blueprint state.
func (b Blueprint) Instantiate(id string) Object {
	class := b.Class
	if class == "" {
		class = b.Name
	}
	mode := b.Footprint
	if mode == "" {
		mode = FootprintPoint
	}

	parts := slices.Clone(b.Parts)
	if len(parts) == 0 {
		parts = []Part{{Shape: b.Shape, Size: b.Size}}
	}

	return Object{
		ID:            id,
		Name:          b.Name,
		Class:         class,
		Type:          b.Type,
		Rotation:      b.Rotation,
		Size:          b.Size,
		Color:         b.Color,
		Tags:          slices.Clone(b.Tags),
		Parts:         parts,
		FootprintMode: mode,
	}
}

// Object is a placed (or candidate) instance of a blueprint.
type Object struct {
	ID            string
	Name          string
	Class         string
	Type          string
	Position      geom.Vec3
	Rotation      geom.Vec3 // degrees
	Size          geom.Vec3 // half extents
	Color         RGBA
	Tags          []string
	Parts         []Part
	FootprintMode FootprintMode
}

// HalfHeight is the z offset at which the object rests on the ground plane.
func (o Object) HalfHeight() float64 { return o.Size.Z }

// WithPosition returns a copy of o at p.
func (o Object) WithPosition(p geom.Vec3) Object {
	o.Position = p
	return o
}

// WithRotationZ returns a copy of o rotated to deg degrees around z.
func (o Object) WithRotationZ(deg float64) Object {
	o.Rotation.Z = deg
	return o
}

// WithColor returns a copy of o with color c.
func (o Object) WithColor(c RGBA) Object {
	o.Color = c
	return o
}

// WithSize returns a copy of o with half extents s. Parts are rescaled
// per axis so composite geometry keeps its proportions.
func (o Object) WithSize(s geom.Vec3) Object {
	rx, ry, rz := ratio(s.X, o.Size.X), ratio(s.Y, o.Size.Y), ratio(s.Z, o.Size.Z)
	parts := make([]Part, len(o.Parts))
	for i, p := range o.Parts {
		p.Size = geom.Vec3{X: p.Size.X * rx, Y: p.Size.Y * ry, Z: p.Size.Z * rz}
		p.Offset = geom.Vec3{X: p.Offset.X * rx, Y: p.Offset.Y * ry, Z: p.Offset.Z * rz}
		parts[i] = p
	}
	o.Parts = parts
	o.Size = s
	return o
}

func ratio(n, d float64) float64 {
	if d == 0 || math.IsNaN(n/d) {
		return 1
	}
	return n / d
}

// Footprint projects o onto the plane according to its footprint mode.
func (o Object) Footprint() geom.Footprint {
	if o.FootprintMode == FootprintBox {
		return geom.BoxFootprint(o.Position.XY(), o.Size.X, o.Size.Y, o.Rotation.Z)
	}
	return geom.PointFootprint(o.Position.XY())
}
