package cli

import (
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scatter/pkg/pipeline"
)

// Extensions offered when completing file arguments.
var (
	configExts = []string{"yaml", "yml", "toml", "json"}
	sceneExts  = []string{"json", "msgpack"}
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for scatter.

Besides subcommands and flags, the scripts complete config and catalog
files by extension (yaml, yml, toml, json), scene files for export
(json, msgpack) and comma-separated --format lists such as json,mjcf,svg.

Load completions for the current shell:

  $ source <(scatter completion bash)
  $ scatter completion zsh > "${fpath[1]}/_scatter"
  $ scatter completion fish | source
  PS> scatter completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(cmd.OutOrStdout(), true)
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// registerCompletions attaches argument and flag completion to the
// subcommands of root. Call it after every subcommand was added.
func registerCompletions(root *cobra.Command) {
	for _, cmd := range root.Commands() {
		switch cmd.Name() {
		case "generate", "validate":
			cmd.ValidArgsFunction = completeFiles(configExts)
		case "export":
			cmd.ValidArgsFunction = completeFiles(sceneExts)
		case "layout":
			_ = cmd.MarkFlagFilename("svg", "svg")
		case "serve":
			_ = cmd.MarkFlagDirname("store-dir")
		}
		if cmd.Flags().Lookup("catalog") != nil {
			_ = cmd.MarkFlagFilename("catalog", configExts...)
		}
		if cmd.Flags().Lookup("format") != nil {
			_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
		}
	}
}

// completeFiles completes the single positional argument with files
// carrying one of exts.
func completeFiles(exts []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return exts, cobra.ShellCompDirectiveFilterFileExt
	}
}

// completeFormats completes the last entry of a comma-separated format
// list, skipping formats already listed.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	done, last := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		done, last = toComplete[:i+1], toComplete[i+1:]
	}
	listed := make(map[string]bool)
	for _, f := range strings.Split(done, ",") {
		listed[strings.TrimSpace(f)] = true
	}

	var out []string
	for _, f := range slices.Sorted(maps.Keys(pipeline.ValidFormats)) {
		if !listed[f] && strings.HasPrefix(f, last) {
			out = append(out, done+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
}
