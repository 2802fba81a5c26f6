package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scatter/pkg/config"
)

// validateCommand checks a config without placing anything.
func (c *CLI) validateCommand() *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "validate <config>",
		Short: "Check a scene config against the blueprint catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			catalog, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(catalog); err != nil {
				printError("%s is invalid", args[0])
				return err
			}

			printSuccess("%s is valid", args[0])
			printKeyValue("environment", cfg.EnvironmentName())
			if len(cfg.Areas) > 0 {
				names := make([]string, len(cfg.Areas))
				for i, a := range cfg.Areas {
					names[i] = a.Name
				}
				printKeyValue("areas", strings.Join(names, ", "))
			}
			printKeyValue("blueprints", fmt.Sprintf("%d in catalog", catalog.Len()))
			if cfg.Seed != nil {
				printKeyValue("seed", fmt.Sprint(*cfg.Seed))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "blueprint catalog file (default: built-in catalog)")
	return cmd
}
