package sceneio

import (
	"slices"
	"time"

	"github.com/matzehuels/scatter/pkg/geom"
	"github.com/matzehuels/scatter/pkg/layout"
	"github.com/matzehuels/scatter/pkg/scene"
)

// Document is the serializable form of a placed scene.
type Document struct {
	RunID       string        `json:"run_id" bson:"_id" msgpack:"run_id"`
	Seed        uint64        `json:"seed" bson:"seed" msgpack:"seed"`
	ConfigHash  string        `json:"config_hash,omitempty" bson:"config_hash,omitempty" msgpack:"config_hash,omitempty"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at" msgpack:"created_at"`
	Environment Site          `json:"environment" bson:"environment" msgpack:"environment"`
	Areas       []Site        `json:"areas,omitempty" bson:"areas,omitempty" msgpack:"areas,omitempty"`
	Tiles       []layout.Tile `json:"tiles,omitempty" bson:"tiles,omitempty" msgpack:"tiles,omitempty"`
}

// Site is one environment or area with its committed objects.
type Site struct {
	Name    string     `json:"name" bson:"name" msgpack:"name"`
	Kind    string     `json:"kind" bson:"kind" msgpack:"kind"`
	Origin  geom.Point `json:"origin" bson:"origin" msgpack:"origin"`
	Size    geom.Vec3  `json:"size" bson:"size" msgpack:"size"`
	Bounds  geom.Rect  `json:"bounds" bson:"bounds" msgpack:"bounds"`
	Objects []Object   `json:"objects" bson:"objects" msgpack:"objects"`
}

// Object is a committed object.
type Object struct {
	ID       string       `json:"id" bson:"id" msgpack:"id"`
	Name     string       `json:"name" bson:"name" msgpack:"name"`
	Class    string       `json:"class" bson:"class" msgpack:"class"`
	Type     string       `json:"type,omitempty" bson:"type,omitempty" msgpack:"type,omitempty"`
	Position geom.Vec3    `json:"position" bson:"position" msgpack:"position"`
	Rotation geom.Vec3    `json:"rotation" bson:"rotation" msgpack:"rotation"`
	Color    scene.RGBA   `json:"color" bson:"color" msgpack:"color"`
	Size     geom.Vec3    `json:"size" bson:"size" msgpack:"size"`
	Tags     []string     `json:"tags,omitempty" bson:"tags,omitempty" msgpack:"tags,omitempty"`
	Parts    []scene.Part `json:"parts,omitempty" bson:"parts,omitempty" msgpack:"parts,omitempty"`

	FootprintMode scene.FootprintMode `json:"footprint,omitempty" bson:"footprint,omitempty" msgpack:"footprint,omitempty"`
}

// FromSites snapshots env and areas into a document. Run metadata is left
// for the caller to fill in.
func FromSites(env scene.Site, areas []scene.Site, tiles []layout.Tile) Document {
	doc := Document{
		Environment: fromSite(env),
		Tiles:       slices.Clone(tiles),
	}
	for _, a := range areas {
		doc.Areas = append(doc.Areas, fromSite(a))
	}
	return doc
}

func fromSite(s scene.Site) Site {
	objs := s.Objects()
	out := Site{
		Name:    s.Name(),
		Kind:    s.Kind().String(),
		Origin:  s.Origin(),
		Size:    s.Extent(),
		Bounds:  s.Bounds(),
		Objects: make([]Object, len(objs)),
	}
	for i, o := range objs {
		out.Objects[i] = fromObject(o)
	}
	return out
}

func fromObject(o scene.Object) Object {
	return Object{
		ID:       o.ID,
		Name:     o.Name,
		Class:    o.Class,
		Type:     o.Type,
		Position: o.Position,
		Rotation: o.Rotation,
		Color:    o.Color,
		Size:     o.Size,
		Tags:     slices.Clone(o.Tags),
		Parts:    slices.Clone(o.Parts),

		FootprintMode: o.FootprintMode,
	}
}

// Sites returns the environment followed by the areas.
func (d Document) Sites() []Site {
	return append([]Site{d.Environment}, d.Areas...)
}

// Count returns the number of objects across all sites.
func (d Document) Count() int {
	n := 0
	for _, s := range d.Sites() {
		n += len(s.Objects)
	}
	return n
}

// Site returns the site with the given name.
func (d Document) Site(name string) (Site, bool) {
	for _, s := range d.Sites() {
		if s.Name == name {
			return s, true
		}
	}
	return Site{}, false
}

// Footprint projects o onto the plane the way the placement rules saw it.
func (o Object) Footprint() geom.Footprint {
	if o.FootprintMode == scene.FootprintBox {
		return geom.BoxFootprint(o.Position.XY(), o.Size.X, o.Size.Y, o.Rotation.Z)
	}
	return geom.PointFootprint(o.Position.XY())
}
