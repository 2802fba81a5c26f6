package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scatter/pkg/pipeline"
	"github.com/matzehuels/scatter/pkg/sceneio"
)

// exportCommand re-encodes a saved scene document without placing anything.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output   string
		formats  string
		graphviz bool
		labels   bool
	)

	cmd := &cobra.Command{
		Use:   "export <scene.json>",
		Short: "Convert a generated scene.json to other formats",
		Example: `  scatter export park.json -f mjcf,svg
  scatter export park.json -f png --labels -o plots/park`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			doc, err := sceneio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			logger.Debug("loaded scene", "run_id", doc.RunID, "objects", doc.Count())

			prog := newProgress(logger)
			artifacts, err := pipeline.Export(ctx, doc, pipeline.Options{
				Formats:  parseFormats(formats),
				Graphviz: graphviz,
				Labels:   labels,
				Scale:    pipeline.DefaultPNGScale,
			})
			if err != nil {
				return err
			}
			paths, err := writeArtifacts(outputBase(args[0], output), artifacts)
			if err != nil {
				return err
			}
			prog.done("Exported scene")

			printSuccess("Exported %s", StyleTitle.Render(doc.Environment.Name))
			printSceneStats(os.Stdout, doc, 0, false)
			for _, p := range paths {
				printFile(p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: input path without extension)")
	cmd.Flags().StringVarP(&formats, "format", "f", pipeline.FormatMJCF, "comma-separated output formats")
	cmd.Flags().BoolVar(&graphviz, "graphviz", false, "render svg/png/pdf through Graphviz")
	cmd.Flags().BoolVar(&labels, "labels", false, "label objects in rendered plots")

	return cmd
}
