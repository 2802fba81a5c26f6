package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scatter/pkg/geom"
	"github.com/matzehuels/scatter/pkg/render"
	"github.com/matzehuels/scatter/pkg/sceneio"
)

// layoutCommand shows how a rectangle is split into areas.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		length  float64
		height  float64
		areas   int
		svgPath string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Tile a rectangle into near-square areas",
		Long: `Layout runs the area tiling on its own and prints the chosen tiles
together with the four candidate tilings and their divergence.`,
		Example: `  scatter layout --length 40 --height 30 --areas 5
  scatter layout --length 20 --height 10 --areas 3 --svg tiles.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, hit, err := runner.Layout(ctx, length, height, areas)
			if err != nil {
				return err
			}
			logger.Debug("layout", "mode", res.Best.Mode, "count", res.Best.Count, "cached", hit)

			printSuccess("Tiled %s x %s into %s areas", num(length), num(height), StyleNumber.Render(fmt.Sprint(areas)))
			fmt.Println(tileTable(res.Tiles))
			fmt.Println(candidateTable(res.Candidates, res.Best))

			if svgPath != "" {
				doc := sceneio.Document{
					Environment: sceneio.Site{Name: "layout", Bounds: geom.NewRect(0, 0, length, height)},
					Tiles:       res.Tiles,
				}
				if err := os.WriteFile(svgPath, render.RenderSVG(doc), 0o644); err != nil {
					return fmt.Errorf("write svg: %w", err)
				}
				printFile(svgPath)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&length, "length", 0, "rectangle length (x extent)")
	cmd.Flags().Float64Var(&height, "height", 0, "rectangle height (y extent)")
	cmd.Flags().IntVar(&areas, "areas", 1, "number of tiles")
	cmd.Flags().StringVar(&svgPath, "svg", "", "also write the tiling as an SVG plot")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")
	_ = cmd.MarkFlagRequired("length")
	_ = cmd.MarkFlagRequired("height")

	return cmd
}
