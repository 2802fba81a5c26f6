// Package physics provides a small in-memory scene graph used by the
// physics-based placement rule.
//
// The world does no dynamics. Each attached object contributes one geom per
// part: spheres keep their true shape, boxes and cylinders are approximated
// by their axis-aligned bounding box after the object's z rotation. A single
// [World.Step] computes pairwise separations and reports every pair closer
// than the larger of the two contact margins.
package physics

import (
	"math"
	"slices"

	"github.com/matzehuels/scatter/pkg/errors"
	"github.com/matzehuels/scatter/pkg/geom"
	"github.com/matzehuels/scatter/pkg/scene"
)

type body struct {
	shape  scene.Shape
	center geom.Vec3
	half   geom.Vec3
	margin float64
}

// World is an in-memory [scene.SceneGraph]. It is not safe for concurrent
// use; each run builds its own.
type World struct {
	nextHandle scene.Handle
	nextGeom   scene.GeomID
	bodies     map[scene.GeomID]body
	owners     map[scene.Handle][]scene.GeomID
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{
		bodies: make(map[scene.GeomID]body),
		owners: make(map[scene.Handle][]scene.GeomID),
	}
}

// Attach adds one geom per part of obj.
func (w *World) Attach(obj scene.Object, margin float64) (scene.Handle, error) {
	if margin < 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "negative contact margin %g", margin)
	}
	w.nextHandle++
	h := w.nextHandle

	ids := make([]scene.GeomID, 0, len(obj.Parts))
	for _, p := range obj.Parts {
		if !p.Shape.Valid() {
			w.release(h, ids)
			return 0, errors.New(errors.ErrCodeInvalidInput, "object %q: unknown shape %q", obj.ID, p.Shape)
		}
		w.nextGeom++
		id := w.nextGeom
		w.bodies[id] = newBody(obj, p, margin)
		ids = append(ids, id)
	}
	w.owners[h] = ids
	return h, nil
}

// Detach removes every geom owned by h.
func (w *World) Detach(h scene.Handle) error {
	ids, ok := w.owners[h]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "handle %d is not attached", h)
	}
	w.release(h, ids)
	return nil
}

func (w *World) release(h scene.Handle, ids []scene.GeomID) {
	for _, id := range ids {
		delete(w.bodies, id)
	}
	delete(w.owners, h)
}

// Geoms lists the geoms owned by h.
func (w *World) Geoms(h scene.Handle) []scene.GeomID {
	return slices.Clone(w.owners[h])
}

// Len returns the number of geoms in the world.
func (w *World) Len() int { return len(w.bodies) }

// Step reports every pair of geoms whose separation is below the larger of
// their margins. Overlapping geoms have negative separation. Contacts are
// ordered by geom id.
func (w *World) Step() ([]scene.Contact, error) {
	ids := make([]scene.GeomID, 0, len(w.bodies))
	for id := range w.bodies {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var contacts []scene.Contact
	for i, a := range ids {
		ba := w.bodies[a]
		for _, b := range ids[i+1:] {
			bb := w.bodies[b]
			d := separation(ba, bb)
			if d < math.Max(ba.margin, bb.margin) {
				contacts = append(contacts, scene.Contact{A: a, B: b, Distance: d})
			}
		}
	}
	return contacts, nil
}

func newBody(obj scene.Object, p scene.Part, margin float64) body {
	off := p.Offset.XY().Rotate(obj.Rotation.Z)
	center := obj.Position.Add(geom.Vec3{X: off.X, Y: off.Y, Z: p.Offset.Z})

	var half geom.Vec3
	switch p.Shape {
	case scene.ShapeSphere:
		half = geom.Vec3{X: p.Size.X, Y: p.Size.X, Z: p.Size.X}
	case scene.ShapeCylinder:
		half = geom.Vec3{X: p.Size.X, Y: p.Size.X, Z: p.Size.Z}
	default:
		rad := obj.Rotation.Z * math.Pi / 180
		c, s := math.Abs(math.Cos(rad)), math.Abs(math.Sin(rad))
		half = geom.Vec3{
			X: c*p.Size.X + s*p.Size.Y,
			Y: s*p.Size.X + c*p.Size.Y,
			Z: p.Size.Z,
		}
	}
	return body{shape: p.Shape, center: center, half: half, margin: margin}
}

func separation(a, b body) float64 {
	if a.shape == scene.ShapeSphere && b.shape == scene.ShapeSphere {
		d := math.Sqrt(sq(a.center.X-b.center.X) + sq(a.center.Y-b.center.Y) + sq(a.center.Z-b.center.Z))
		return d - a.half.X - b.half.X
	}

	gx := math.Abs(a.center.X-b.center.X) - a.half.X - b.half.X
	gy := math.Abs(a.center.Y-b.center.Y) - a.half.Y - b.half.Y
	gz := math.Abs(a.center.Z-b.center.Z) - a.half.Z - b.half.Z
	if gx < 0 && gy < 0 && gz < 0 {
		return math.Max(gx, math.Max(gy, gz))
	}
	return math.Sqrt(sq(math.Max(gx, 0)) + sq(math.Max(gy, 0)) + sq(math.Max(gz, 0)))
}

func sq(v float64) float64 { return v * v }

var _ scene.SceneGraph = (*World)(nil)
