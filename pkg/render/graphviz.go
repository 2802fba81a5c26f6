package render

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/scatter/pkg/scene"
	"github.com/matzehuels/scatter/pkg/sceneio"
)

// ToDOT describes doc as an undirected Graphviz graph for neato. Every
// object becomes a node pinned at its scene position (pos="x,y!", in
// inches) and sized by its footprint; every site becomes a cluster.
func ToDOT(doc sceneio.Document) string {
	var buf bytes.Buffer
	buf.WriteString("graph scene {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, fontsize=8, label=\"\"];\n")
	buf.WriteString("\n")

	for _, s := range doc.Sites() {
		fmt.Fprintf(&buf, "  subgraph %q {\n", "cluster_"+s.Name)
		fmt.Fprintf(&buf, "    label=%q;\n", s.Name)
		for _, o := range s.Objects {
			fmt.Fprintf(&buf, "    %q [%s];\n", o.ID, strings.Join(nodeAttrs(o), ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(o sceneio.Object) []string {
	fill, _ := hexColor(o.Color)
	attrs := []string{
		fmt.Sprintf("pos=\"%g,%g!\"", o.Position.X, o.Position.Y),
		fmt.Sprintf("fillcolor=%q", fill),
		fmt.Sprintf("tooltip=%q", o.ID+" ("+o.Class+")"),
	}
	if o.FootprintMode == scene.FootprintBox {
		return append(attrs, "shape=box", fmt.Sprintf("width=%g", 2*o.Size.X), fmt.Sprintf("height=%g", 2*o.Size.Y))
	}
	return append(attrs, fmt.Sprintf("width=%g", 2*math.Max(o.Size.X, o.Size.Y)))
}

// RenderGraphviz lays out a DOT graph with neato and returns SVG.
func RenderGraphviz(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
