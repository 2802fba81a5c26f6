package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/scatter/pkg/sceneio"
)

const parkYAML = `
environment:
  name: park
  size: [10, 8, 1]
  borders: {place: true}
  objects:
    - blueprint: Rock
      amount: 4
areas:
  - name: meadow
    objects:
      - blueprint: Sphere
        amount: 3
  - name: grove
    objects:
      - blueprint: Tree
        amount: 2
`

func writeConfig(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// runCLI executes the root command with args and returns its output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", appName)},
		{"xdg", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			got, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutputBase(t *testing.T) {
	tests := []struct {
		input, output, want string
	}{
		{"configs/park.yaml", "", "configs/park"},
		{"park.toml", "out/scene", "out/scene"},
		{"park.yaml", "out/scene.json", "out/scene"},
		{"park", "", "park"},
	}
	for _, tt := range tests {
		if got := outputBase(tt.input, tt.output); got != tt.want {
			t.Errorf("outputBase(%q, %q) = %q, want %q", tt.input, tt.output, got, tt.want)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"json"}},
		{"svg", []string{"svg"}},
		{"json, mjcf ,svg", []string{"json", "mjcf", "svg"}},
		{"json,,dot", []string{"json", "dot"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, parseFormats(tt.in)); diff != "" {
			t.Errorf("parseFormats(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestGenerateCommand(t *testing.T) {
	cfgPath := writeConfig(t, "park.yaml", parkYAML)
	base := filepath.Join(t.TempDir(), "out", "park")

	if _, err := runCLI(t, "generate", cfgPath, "--no-cache", "--seed", "7", "-f", "json,mjcf,svg", "-o", base); err != nil {
		t.Fatalf("generate: %v", err)
	}

	for _, ext := range []string{"json", "xml", "svg"} {
		if _, err := os.Stat(base + "." + ext); err != nil {
			t.Errorf("missing %s output: %v", ext, err)
		}
	}

	doc, err := sceneio.ImportJSON(base + ".json")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if doc.Seed != 7 {
		t.Errorf("seed = %d, want 7", doc.Seed)
	}
	counts := map[string]int{}
	for _, s := range doc.Sites() {
		counts[s.Name] = len(s.Objects)
	}
	want := map[string]int{"park": 8, "meadow": 3, "grove": 2}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("objects per site mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateCommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		args    []string
		wantErr string
	}{
		{
			name:    "unknown blueprint",
			config:  "environment: {size: [5, 5, 1], objects: [{blueprint: Unicorn, amount: 1}]}",
			wantErr: "Unicorn",
		},
		{
			name:    "bad format",
			config:  "environment: {size: [5, 5, 1]}",
			args:    []string{"-f", "gif"},
			wantErr: "invalid format",
		},
		{
			name:    "exhausted",
			config:  "environment: {size: [1, 1, 1], objects: [{blueprint: Box, amount: 50}]}",
			args:    []string{"--max-tries", "5"},
			wantErr: "Box",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "scene.yaml", tt.config)
			args := append([]string{"generate", path, "--no-cache", "--seed", "1"}, tt.args...)
			_, err := runCLI(t, args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestExportCommand(t *testing.T) {
	cfgPath := writeConfig(t, "park.yaml", parkYAML)
	if _, err := runCLI(t, "generate", cfgPath, "--no-cache", "--seed", "3"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	scenePath := strings.TrimSuffix(cfgPath, ".yaml") + ".json"

	if _, err := runCLI(t, "export", scenePath, "-f", "mjcf,dot"); err != nil {
		t.Fatalf("export: %v", err)
	}
	mjcf, err := os.ReadFile(strings.TrimSuffix(scenePath, ".json") + ".xml")
	if err != nil {
		t.Fatalf("read mjcf: %v", err)
	}
	if !strings.Contains(string(mjcf), "<mujoco") {
		t.Errorf("mjcf output missing <mujoco> root:\n%s", mjcf)
	}
}

func TestValidateCommand(t *testing.T) {
	good := writeConfig(t, "park.yaml", parkYAML)
	if _, err := runCLI(t, "validate", good); err != nil {
		t.Errorf("validate good config: %v", err)
	}

	bad := writeConfig(t, "bad.yaml", "environment: {size: [0, 5, 1]}")
	if _, err := runCLI(t, "validate", bad); err == nil {
		t.Error("validate accepted a zero size")
	}
}

func TestLayoutCommand(t *testing.T) {
	svg := filepath.Join(t.TempDir(), "tiles.svg")
	if _, err := runCLI(t, "layout", "--length", "40", "--height", "30", "--areas", "5", "--svg", svg); err != nil {
		t.Fatalf("layout: %v", err)
	}
	data, err := os.ReadFile(svg)
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if got := strings.Count(string(data), `class="tile"`); got != 5 {
		t.Errorf("svg has %d tiles, want 5", got)
	}

	if _, err := runCLI(t, "layout", "--length", "40", "--height", "30", "--areas", "0"); err == nil {
		t.Error("layout accepted zero areas")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "version: ") {
		t.Errorf("version output %q missing version line", out)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := runCLI(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, appName) {
		t.Error("bash completion does not mention the command name")
	}
}

func TestCompleteFormats(t *testing.T) {
	tests := []struct {
		toComplete string
		want       []string
	}{
		{"p", []string{"pdf", "png"}},
		{"json,m", []string{"json,mjcf", "json,msgpack"}},
		{"json,mjcf,", []string{"json,mjcf,dot", "json,mjcf,msgpack", "json,mjcf,pdf", "json,mjcf,png", "json,mjcf,svg"}},
		{"gif", nil},
	}
	for _, tt := range tests {
		t.Run(tt.toComplete, func(t *testing.T) {
			got, directive := completeFormats(nil, nil, tt.toComplete)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("completions (-want +got):\n%s", diff)
			}
			if directive&cobra.ShellCompDirectiveNoSpace == 0 {
				t.Error("format completion should not append a space")
			}
		})
	}
}

func TestArgumentCompletion(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"__complete", "validate", ""}, configExts},
		{[]string{"__complete", "export", ""}, sceneExts},
		{[]string{"__complete", "generate", "park.yaml", "--format", "s"}, []string{"svg"}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args[1:], " "), func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			if err != nil {
				t.Fatalf("complete: %v", err)
			}
			var got []string
			for _, line := range strings.Split(out, "\n") {
				if line == "" || strings.HasPrefix(line, ":") || strings.HasPrefix(line, "Completion ended") {
					continue
				}
				got = append(got, line)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("completions (-want +got):\n%s", diff)
			}
		})
	}
}
