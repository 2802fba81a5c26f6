package scene

import (
	"fmt"

	"github.com/matzehuels/scatter/pkg/errors"
	"github.com/matzehuels/scatter/pkg/geom"
)

// Kind distinguishes the two site variants.
type Kind int

const (
	KindEnvironment Kind = iota
	KindArea
)

func (k Kind) String() string {
	if k == KindArea {
		return "area"
	}
	return "environment"
}

// Handle identifies a subtree attached to a scene graph.
type Handle int

// GeomID identifies a single geometry primitive in a scene graph.
type GeomID int

// Contact is a pair of geoms closer than their contact margin.
type Contact struct {
	A, B     GeomID
	Distance float64
}

// SceneGraph is the physics collaborator the engine consults. Sites attach
// committed objects permanently; rules attach candidates transiently.
// Implementations need not be safe for concurrent use.
type SceneGraph interface {
	// Attach adds the object's geometry with the given contact margin.
	Attach(obj Object, margin float64) (Handle, error)
	// Detach removes a previously attached subtree.
	Detach(h Handle) error
	// Geoms lists the geometry owned by the subtree h.
	Geoms(h Handle) []GeomID
	// Step runs one evaluation pass and reports all contacts.
	Step() ([]Contact, error)
}

// Site is a spatial container that owns committed objects.
type Site interface {
	Name() string
	Kind() Kind
	// Origin is the site center in the environment frame.
	Origin() geom.Point
	// Extent holds the half extents along each axis.
	Extent() geom.Vec3
	Bounds() geom.Rect
	Objects() []Object
	Object(id string) (Object, bool)
	Len() int
	Add(obj Object) error
	Remove(id string) error
	SceneGraph() SceneGraph
}

// container carries the state shared by both site variants.
type container struct {
	name    string
	kind    Kind
	origin  geom.Point
	extent  geom.Vec3
	graph   SceneGraph
	objects map[string]Object
	handles map[string]Handle
	order   []string
}

func newContainer(name string, kind Kind, origin geom.Point, extent geom.Vec3, g SceneGraph) container {
	return container{
		name:    name,
		kind:    kind,
		origin:  origin,
		extent:  extent,
		graph:   g,
		objects: make(map[string]Object),
		handles: make(map[string]Handle),
	}
}

func (c *container) Name() string { return c.name }
func (c *container) Kind() Kind { return c.kind }
func (c *container) Origin() geom.Point { return c.origin }
func (c *container) Extent() geom.Vec3 { return c.extent }
func (c *container) SceneGraph() SceneGraph { return c.graph }
func (c *container) Len() int { return len(c.order) }
func (c *container) Object(id string) (Object, bool) {
	o, ok := c.objects[id]
	return o, ok
}

func (c *container) Bounds() geom.Rect {
	return geom.CenteredRect(c.origin, c.extent.X, c.extent.Y)
}

// Objects returns committed objects in commit order.
func (c *container) Objects() []Object {
	out := make([]Object, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.objects[id])
	}
	return out
}

// Add commits obj to the site and attaches it to the scene graph.
func (c *container) Add(obj Object) error {
	if obj.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "object %q has no id", obj.Name)
	}
	if _, exists := c.objects[obj.ID]; exists {
		return errors.New(errors.ErrCodeInvalidInput, "object id %q already exists in site %q", obj.ID, c.name)
	}
	if c.graph != nil {
		h, err := c.graph.Attach(obj, 0)
		if err != nil {
			return fmt.Errorf("attach %s: %w", obj.ID, err)
		}
		c.handles[obj.ID] = h
	}
	c.objects[obj.ID] = obj
	c.order = append(c.order, obj.ID)
	return nil
}

// Remove deletes the object with the given id and detaches its geometry.
func (c *container) Remove(id string) error {
	if _, ok := c.objects[id]; !ok {
		return errors.New(errors.ErrCodeNotFound, "object %q not found in site %q", id, c.name)
	}
	if h, ok := c.handles[id]; ok {
		if err := c.graph.Detach(h); err != nil {
			return fmt.Errorf("detach %s: %w", id, err)
		}
		delete(c.handles, id)
	}
	delete(c.objects, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Environment is the root site. Its frame is centered on (0,0).
type Environment struct {
	container
}

// NewEnvironment creates an environment with half extents size. g may be
// nil when no physics-based rule is configured.
func NewEnvironment(name string, size geom.Vec3, g SceneGraph) *Environment {
	return &Environment{container: newContainer(name, KindEnvironment, geom.Point{}, size, g)}
}

// Area is a rectangular sub-region of an environment.
type Area struct {
	container
	env      *Environment
	boundary geom.Rect
}

// NewArea creates an area covering boundary, expressed in the environment
// frame. The area shares the environment's scene graph.
func NewArea(name string, env *Environment, boundary geom.Rect) *Area {
	hx, hy := boundary.HalfExtent()
	extent := geom.Vec3{X: hx, Y: hy, Z: env.Extent().Z}
	return &Area{
		container: newContainer(name, KindArea, boundary.Center(), extent, env.SceneGraph()),
		env:       env,
		boundary:  boundary,
	}
}

// Environment returns the parent environment.
func (a *Area) Environment() *Environment { return a.env }

// Boundary returns the area rectangle in the environment frame.
func (a *Area) Boundary() geom.Rect { return a.boundary }

var (
	_ Site = (*Environment)(nil)
	_ Site = (*Area)(nil)
)
