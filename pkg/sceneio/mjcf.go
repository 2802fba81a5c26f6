package sceneio

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/scatter/pkg/geom"
	"github.com/matzehuels/scatter/pkg/scene"
)

// MJCF element types. Only the subset needed to describe static scenes is
// modeled.
type (
	mjcfModel struct {
		XMLName   xml.Name      `xml:"mujoco"`
		Model     string        `xml:"model,attr"`
		Compiler  mjcfCompiler  `xml:"compiler"`
		Default   *mjcfDefault  `xml:"default,omitempty"`
		Worldbody mjcfWorldbody `xml:"worldbody"`
	}
	mjcfCompiler struct {
		Angle string `xml:"angle,attr"`
	}
	// mjcfDefault is the root default; every geom class used in the
	// worldbody must appear as a child.
	mjcfDefault struct {
		Classes []mjcfClass `xml:"default"`
	}
	mjcfClass struct {
		Class string `xml:"class,attr"`
	}
	mjcfWorldbody struct {
		Geoms  []mjcfGeom `xml:"geom"`
		Bodies []mjcfBody `xml:"body"`
	}
	mjcfBody struct {
		Name  string     `xml:"name,attr"`
		Pos   string     `xml:"pos,attr"`
		Euler string     `xml:"euler,attr,omitempty"`
		Geoms []mjcfGeom `xml:"geom"`
	}
	mjcfGeom struct {
		Name  string `xml:"name,attr,omitempty"`
		Type  string `xml:"type,attr"`
		Size  string `xml:"size,attr"`
		Pos   string `xml:"pos,attr,omitempty"`
		RGBA  string `xml:"rgba,attr,omitempty"`
		Class string `xml:"class,attr,omitempty"`
	}
)

// WriteMJCF writes doc as an MJCF model: a floor plane covering the
// environment and one body per object. Angles are in degrees.
func WriteMJCF(doc Document, w io.Writer) error {
	env := doc.Environment
	model := mjcfModel{
		Model:    env.Name,
		Compiler: mjcfCompiler{Angle: "degree"},
		Worldbody: mjcfWorldbody{
			Geoms: []mjcfGeom{{
				Name: "floor",
				Type: "plane",
				Size: floats(env.Size.X, env.Size.Y, 0.1),
				Pos:  floats(env.Origin.X, env.Origin.Y, 0),
			}},
		},
	}
	var classes []string
	for _, s := range doc.Sites() {
		for _, o := range s.Objects {
			model.Worldbody.Bodies = append(model.Worldbody.Bodies, mjcfBodyOf(o))
			if o.Class != "" && !slices.Contains(classes, o.Class) {
				classes = append(classes, o.Class)
			}
		}
	}
	if len(classes) > 0 {
		slices.Sort(classes)
		model.Default = &mjcfDefault{}
		for _, c := range classes {
			model.Default.Classes = append(model.Default.Classes, mjcfClass{Class: c})
		}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(model); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	return nil
}

// ExportMJCF writes doc to an MJCF file at path.
func ExportMJCF(doc Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteMJCF(doc, f)
}

func mjcfBodyOf(o Object) mjcfBody {
	b := mjcfBody{
		Name: o.ID,
		Pos:  vec(o.Position),
	}
	if o.Rotation != (geom.Vec3{}) {
		b.Euler = vec(o.Rotation)
	}
	rgba := floats(o.Color[:]...)
	for i, p := range o.Parts {
		g := mjcfGeom{
			Name:  geomName(o.ID, p.Name, i, len(o.Parts)),
			Type:  string(p.Shape),
			Size:  geomSize(p),
			RGBA:  rgba,
			Class: o.Class,
		}
		if p.Offset != (geom.Vec3{}) {
			g.Pos = vec(p.Offset)
		}
		b.Geoms = append(b.Geoms, g)
	}
	return b
}

func geomName(id, part string, i, n int) string {
	switch {
	case n == 1:
		return id + "_geom"
	case part != "":
		return id + "_" + part
	}
	return fmt.Sprintf("%s_geom%d", id, i)
}

// geomSize follows MJCF's size conventions: a radius for spheres, a radius
// and half length for cylinders, half extents for boxes.
func geomSize(p scene.Part) string {
	switch p.Shape {
	case scene.ShapeSphere:
		return floats(p.Size.X)
	case scene.ShapeCylinder:
		return floats(p.Size.X, p.Size.Z)
	}
	return vec(p.Size)
}

func vec(v geom.Vec3) string { return floats(v.X, v.Y, v.Z) }

func floats(vs ...float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}
