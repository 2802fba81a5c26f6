package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scatter/pkg/config"
	"github.com/matzehuels/scatter/pkg/pipeline"
	"github.com/matzehuels/scatter/pkg/scene"
)

// generateOpts holds the flags of the generate command.
type generateOpts struct {
	catalog  string
	seed     uint64
	output   string
	formats  string
	noCache  bool
	refresh  bool
	graphviz bool
	labels   bool
	maxTries int
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate <config>",
		Short: "Place the objects of a scene config and write the result",
		Long: `Generate reads a scene config (YAML, TOML or JSON), lays out its areas,
places every object and writes the scene in the requested formats.

Outputs are written next to the config unless -o is given. The seed used is
always printed so a run can be reproduced with --seed.`,
		Example: `  scatter generate park.yaml
  scatter generate park.yaml -f json,mjcf,svg --seed 42
  scatter generate park.toml --catalog props.yaml -o out/park`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var seed *uint64
			if cmd.Flags().Changed("seed") {
				seed = &opts.seed
			}
			return c.runGenerate(cmd, args[0], seed, opts)
		},
	}

	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "blueprint catalog file (default: built-in catalog)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (default: config seed or random)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default: config path without extension)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.FormatJSON, "comma-separated output formats: json,msgpack,mjcf,svg,png,pdf,dot")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the scene cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached scenes")
	cmd.Flags().BoolVar(&opts.graphviz, "graphviz", false, "render svg/png/pdf through Graphviz")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "label objects in rendered plots")
	cmd.Flags().IntVar(&opts.maxTries, "max-tries", 0, "attempts per object before giving up (default: config value)")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, path string, seed *uint64, opts generateOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	catalog, err := loadCatalog(opts.catalog)
	if err != nil {
		return err
	}
	logger.Debug("loaded config", "path", path, "summary", cfg.String())
	if opts.graphviz && opts.labels {
		printWarning("--labels has no effect with --graphviz")
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, os.Stderr, "Placing objects...")
	spinner.Start()
	prog := newProgress(logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		Config:   cfg,
		Catalog:  catalog,
		Seed:     seed,
		MaxTries: opts.maxTries,
		Formats:  parseFormats(opts.formats),
		Graphviz: opts.graphviz,
		Labels:   opts.labels,
		Refresh:  opts.refresh,
		Logger:   logger,
	})
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Placed %d objects", result.Document.Count()))

	base := outputBase(path, opts.output)
	paths, err := writeArtifacts(base, result.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("Generated %s", StyleTitle.Render(cfg.EnvironmentName()))
	printSceneStats(os.Stdout, result.Document, result.Stats.Attempts, result.CacheInfo.SceneHit)
	for _, p := range paths {
		printFile(p)
	}
	if seed == nil && cfg.Seed == nil {
		printNewline()
		printNextStep("Reproduce", fmt.Sprintf("scatter generate %s --seed %d", path, result.Document.Seed))
	}
	return nil
}

// loadCatalog reads path, or returns the built-in catalog when path is empty.
func loadCatalog(path string) (*scene.Catalog, error) {
	if path == "" {
		return config.DefaultCatalog()
	}
	return config.LoadCatalog(path)
}

// writeArtifacts writes every artifact to base plus its format extension and
// returns the written paths in format display order.
func writeArtifacts(base string, artifacts map[string][]byte) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	var paths []string
	for _, format := range pipeline.FormatNames {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		p := base + "." + pipeline.Extension(format)
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", format, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
