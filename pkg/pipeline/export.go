package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/scatter/pkg/observability"
	"github.com/matzehuels/scatter/pkg/render"
	"github.com/matzehuels/scatter/pkg/sceneio"
)

// Export encodes doc in every format of opts.Formats.
func Export(ctx context.Context, doc sceneio.Document, opts Options) (map[string][]byte, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnExportStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := export(ctx, doc, opts)
	hooks.OnExportComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func export(ctx context.Context, doc sceneio.Document, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)

	// svg is the source for png and pdf, so render it at most once.
	var svg []byte
	drawing := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = renderSVG(ctx, doc, opts)
		return svg, err
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			var buf bytes.Buffer
			err = sceneio.WriteJSON(doc, &buf)
			data = buf.Bytes()
		case FormatMsgpack:
			data, err = sceneio.EncodeMsgpack(doc)
		case FormatMJCF:
			var buf bytes.Buffer
			err = sceneio.WriteMJCF(doc, &buf)
			data = buf.Bytes()
		case FormatDOT:
			data = []byte(render.ToDOT(doc))
		case FormatSVG:
			data, err = drawing()
		case FormatPNG:
			if data, err = drawing(); err == nil {
				data, err = render.ToPNG(ctx, data, opts.Scale)
			}
		case FormatPDF:
			if data, err = drawing(); err == nil {
				data, err = render.ToPDF(ctx, data)
			}
		default:
			err = ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("export %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderSVG(ctx context.Context, doc sceneio.Document, opts Options) ([]byte, error) {
	if opts.Graphviz {
		return render.RenderGraphviz(ctx, render.ToDOT(doc))
	}
	var svgOpts []render.SVGOption
	if opts.Labels {
		svgOpts = append(svgOpts, render.WithLabels())
	}
	return render.RenderSVG(doc, svgOpts...), nil
}
