package render

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/scatter/pkg/geom"
	"github.com/matzehuels/scatter/pkg/scene"
	"github.com/matzehuels/scatter/pkg/sceneio"
)

const (
	// DefaultScale is the number of pixels per scene unit.
	DefaultScale = 40.0
	// DefaultPadding is the margin around the environment in scene units.
	DefaultPadding = 0.5

	// minRadius keeps point footprints of tiny objects visible.
	minRadius = 2.0
)

const svgStyle = `
    .env { fill: #f7f6f1; stroke: #333; stroke-width: 2; }
    .tile { fill: none; stroke: #888; stroke-width: 1; stroke-dasharray: 6 4; }
    .site-label { font: 14px sans-serif; fill: #555; }
    .obj { stroke: #222; stroke-width: 0.75; }
    .obj-label { font: 10px sans-serif; fill: #111; text-anchor: middle; }`

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	scale   float64
	padding float64
	labels  bool
	tiles   bool
}

// WithScale sets the pixels per scene unit.
func WithScale(s float64) SVGOption { return func(r *svgRenderer) { r.scale = s } }

// WithPadding sets the margin around the environment in scene units.
func WithPadding(p float64) SVGOption { return func(r *svgRenderer) { r.padding = p } }

// WithLabels draws object ids next to their footprints.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithoutTiles hides the layout tiles.
func WithoutTiles() SVGOption { return func(r *svgRenderer) { r.tiles = false } }

// RenderSVG plots doc top-down. Scene y grows upward, so the image is
// flipped vertically.
func RenderSVG(doc sceneio.Document, opts ...SVGOption) []byte {
	r := svgRenderer{scale: DefaultScale, padding: DefaultPadding, tiles: true}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = DefaultScale
	}

	bounds := doc.Environment.Bounds
	f := frame{bounds: bounds, scale: r.scale, pad: r.padding}
	w, h := f.size()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", svgStyle)

	f.rect(&buf, "env", bounds)
	if r.tiles {
		for _, t := range doc.Tiles {
			f.rect(&buf, "tile", t.Rect())
		}
	}
	for _, a := range doc.Areas {
		p := f.point(geom.Point{X: a.Bounds.Min.X, Y: a.Bounds.Max.Y})
		fmt.Fprintf(&buf, `  <text class="site-label" x="%.1f" y="%.1f">%s</text>`+"\n", p.X+4, p.Y+16, html.EscapeString(a.Name))
	}

	for _, s := range doc.Sites() {
		fmt.Fprintf(&buf, `  <g id="site-%s">`+"\n", html.EscapeString(s.Name))
		for _, o := range s.Objects {
			r.renderObject(&buf, f, o)
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r svgRenderer) renderObject(buf *bytes.Buffer, f frame, o sceneio.Object) {
	fill, opacity := hexColor(o.Color)
	id := html.EscapeString(o.ID)
	fp := o.Footprint()
	c := f.point(o.Position.XY())

	switch fp.Kind {
	case geom.KindPoint:
		rad := math.Max(math.Max(o.Size.X, o.Size.Y)*f.scale, minRadius)
		fmt.Fprintf(buf, `    <circle id="obj-%s" class="obj" cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="%.2f"/>`+"\n",
			id, c.X, c.Y, rad, fill, opacity)
	default:
		pts := make([]string, len(fp.Points))
		for i, p := range fp.Points {
			q := f.point(p)
			pts[i] = fmt.Sprintf("%.1f,%.1f", q.X, q.Y)
		}
		fmt.Fprintf(buf, `    <polygon id="obj-%s" class="obj" points="%s" fill="%s" fill-opacity="%.2f"/>`+"\n",
			id, strings.Join(pts, " "), fill, opacity)
	}

	if r.labels {
		fmt.Fprintf(buf, `    <text class="obj-label" x="%.1f" y="%.1f">%s</text>`+"\n", c.X, c.Y-4, id)
	}
}

// hexColor converts an RGBA in [0,1] to a hex string and an opacity.
func hexColor(c scene.RGBA) (string, float64) {
	col := colorful.Color{R: c[0], G: c[1], B: c[2]}.Clamped()
	return col.Hex(), math.Min(math.Max(c[3], 0), 1)
}

// frame maps scene coordinates to image pixels.
type frame struct {
	bounds geom.Rect
	scale  float64
	pad    float64
}

func (f frame) size() (float64, float64) {
	return (f.bounds.Width() + 2*f.pad) * f.scale, (f.bounds.Height() + 2*f.pad) * f.scale
}

func (f frame) point(p geom.Point) geom.Point {
	return geom.Point{
		X: (p.X - f.bounds.Min.X + f.pad) * f.scale,
		Y: (f.bounds.Max.Y - p.Y + f.pad) * f.scale,
	}
}

func (f frame) rect(buf *bytes.Buffer, class string, r geom.Rect) {
	tl := f.point(geom.Point{X: r.Min.X, Y: r.Max.Y})
	fmt.Fprintf(buf, `  <rect class="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n",
		class, tl.X, tl.Y, r.Width()*f.scale, r.Height()*f.scale)
}
