package render

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/scatter/pkg/errors"
	"github.com/matzehuels/scatter/pkg/geom"
	"github.com/matzehuels/scatter/pkg/layout"
	"github.com/matzehuels/scatter/pkg/scene"
	"github.com/matzehuels/scatter/pkg/sceneio"
)

func testDocument() sceneio.Document {
	return sceneio.Document{
		Environment: sceneio.Site{
			Name:   "park",
			Kind:   "environment",
			Size:   geom.V3(5, 3, 1),
			Bounds: geom.NewRect(-5, -3, 5, 3),
			Objects: []sceneio.Object{
				{ID: "Ball_0", Class: "ball", Position: geom.V3(0, 0, 0.5), Size: geom.V3(0.5, 0.5, 0.5), Color: scene.RGBA{1, 0, 0, 1}, FootprintMode: scene.FootprintPoint},
				{ID: "Crate_0", Class: "crate", Position: geom.V3(-4, 2, 0.5), Size: geom.V3(0.5, 0.5, 0.5), Color: scene.RGBA{0, 0, 1, 0.5}, FootprintMode: scene.FootprintBox},
			},
		},
		Areas: []sceneio.Site{{
			Name:   "pond",
			Kind:   "area",
			Bounds: geom.NewRect(0, -3, 5, 3),
			Objects: []sceneio.Object{
				{ID: "Duck_0", Class: "duck", Position: geom.V3(2, 1, 0.1), Size: geom.V3(0.1, 0.1, 0.1), Color: scene.RGBA{1, 1, 0, 1}},
			},
		}},
		Tiles: []layout.Tile{
			{TopLeft: geom.Point{X: -5, Y: -3}, BottomRight: geom.Point{X: 0, Y: 3}},
			{TopLeft: geom.Point{X: 0, Y: -3}, BottomRight: geom.Point{X: 5, Y: 3}},
		},
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testDocument(), WithScale(10), WithPadding(0), WithLabels()))

	checks := []struct {
		name, want string
	}{
		{"size", `width="100" height="60"`},
		{"environment", `<rect class="env" x="0.0" y="0.0" width="100.0" height="60.0"/>`},
		{"second tile", `<rect class="tile" x="50.0" y="0.0" width="50.0" height="60.0"/>`},
		{"ball at center", `<circle id="obj-Ball_0" class="obj" cx="50.0" cy="30.0" r="5.0" fill="#ff0000" fill-opacity="1.00"/>`},
		{"crate polygon", `<polygon id="obj-Crate_0"`},
		{"crate opacity", `fill="#0000ff" fill-opacity="0.50"`},
		{"tiny object radius", `id="obj-Duck_0" class="obj" cx="70.0" cy="20.0" r="2.0"`},
		{"area label", `>pond</text>`},
		{"object label", `>Ball_0</text>`},
		{"site group", `<g id="site-pond">`},
	}
	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			if !strings.Contains(svg, c.want) {
				t.Errorf("svg missing %s\n%s", c.want, svg)
			}
		})
	}
}

func TestRenderSVGWithoutTiles(t *testing.T) {
	svg := string(RenderSVG(testDocument(), WithoutTiles()))
	if strings.Contains(svg, `class="tile"`) {
		t.Error("tiles rendered despite WithoutTiles")
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("svg not closed")
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testDocument())
	for _, want := range []string{
		"graph scene {",
		"layout=neato;",
		`subgraph "cluster_park" {`,
		`subgraph "cluster_pond" {`,
		`"Ball_0" [pos="0,0!", fillcolor="#ff0000"`,
		`"Crate_0" [pos="-4,2!"`,
		"shape=box, width=1, height=1",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("dot missing %q\n%s", want, dot)
		}
	}
}

func TestRenderGraphviz(t *testing.T) {
	svg, err := RenderGraphviz(context.Background(), ToDOT(testDocument()))
	if err != nil {
		t.Fatalf("RenderGraphviz: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Errorf("output is not svg: %.80s", svg)
	}
}

func TestConvertWithoutRsvg(t *testing.T) {
	t.Setenv("PATH", "")
	if Available() {
		t.Skip("rsvg-convert resolvable without PATH")
	}
	_, err := ToPNG(context.Background(), []byte("<svg/>"), 2)
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPNG err = %v, want UNSUPPORTED", err)
	}
	_, err = ToPDF(context.Background(), []byte("<svg/>"))
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPDF err = %v, want UNSUPPORTED", err)
	}
}
