package pipeline

import (
	"bytes"
	"context"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/scatter/pkg/cache"
	"github.com/matzehuels/scatter/pkg/config"
	"github.com/matzehuels/scatter/pkg/errors"
	"github.com/matzehuels/scatter/pkg/observability"
	"github.com/matzehuels/scatter/pkg/sceneio"
)

const parkYAML = `
environment:
  name: park
  size: [10, 8, 1]
  borders: {place: true}
  objects:
    - blueprint: Rock
      amount: 6
      z_rotation_range: [0, 360]
    - blueprint: Box
      coordinates: [[50, 50, 0.5]]
areas:
  - name: meadow
    objects:
      - blueprint: Sphere
        amount: [2, 4]
        color_groups: 2
  - name: grove
    rules: [{type: boundary}, {type: min_distance, distance: 1, classes: [tree]}]
    objects:
      - blueprint: Tree
        amount: 3
`

func parseConfig(t *testing.T, src string) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(src), config.FormatYAML)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	return cfg
}

func seed(v uint64) *uint64 { return &v }

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"msgpack", false},
		{"mjcf", false},
		{"dot", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestExtension(t *testing.T) {
	for format, want := range map[string]string{"mjcf": "xml", "json": "json", "msgpack": "msgpack", "svg": "svg"} {
		if got := Extension(format); got != want {
			t.Errorf("Extension(%q) = %q, want %q", format, got, want)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Config: parseConfig(t, parkYAML)}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{FormatJSON}, opts.Formats); diff != "" {
		t.Errorf("default formats (-want +got):\n%s", diff)
	}
	if opts.Catalog == nil || opts.CatalogHash == "" || opts.ConfigHash == "" || opts.Logger == nil {
		t.Errorf("defaults not applied: %+v", opts)
	}
	if opts.Scale != DefaultPNGScale {
		t.Errorf("Scale = %g", opts.Scale)
	}

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no config", Options{}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Config: parseConfig(t, parkYAML), Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"unknown blueprint", Options{Config: parseConfig(t, "environment: {size: [1,1,1], objects: [{blueprint: Ghost}]}")}, errors.ErrCodeUnknownBlueprint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestResolveSeed(t *testing.T) {
	cfg := parseConfig(t, "seed: 5\nenvironment: {size: [1,1,1]}")
	if got := ResolveSeed(Options{Config: cfg, Seed: seed(9)}); got != 9 {
		t.Errorf("options seed ignored: %d", got)
	}
	if got := ResolveSeed(Options{Config: cfg}); got != 5 {
		t.Errorf("config seed ignored: %d", got)
	}
	cfg.Seed = nil
	for range 20 {
		if got := ResolveSeed(Options{Config: cfg}); got > 1<<63-1 {
			t.Fatalf("random seed %d exceeds int64", got)
		}
	}
}

func TestGenerate(t *testing.T) {
	opts := Options{Config: parseConfig(t, parkYAML), Seed: seed(42)}
	doc, stats, err := Generate(context.Background(), opts, 42)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if doc.RunID == "" || doc.Seed != 42 || doc.ConfigHash == "" || doc.CreatedAt.IsZero() {
		t.Errorf("metadata missing: run=%q seed=%d hash=%q at=%v", doc.RunID, doc.Seed, doc.ConfigHash, doc.CreatedAt)
	}
	if doc.Environment.Name != "park" || len(doc.Areas) != 2 || len(doc.Tiles) != 2 {
		t.Fatalf("sites = %s + %d areas, %d tiles", doc.Environment.Name, len(doc.Areas), len(doc.Tiles))
	}
	if stats.Sites != 3 || stats.Objects != doc.Count() || stats.Attempts < 1 {
		t.Errorf("stats = %+v", stats)
	}

	counts := map[string]int{}
	for _, o := range doc.Environment.Objects {
		counts[o.Class]++
	}
	if diff := cmp.Diff(map[string]int{"border": 4, "rock": 6, "box": 1}, counts); diff != "" {
		t.Errorf("environment objects (-want +got):\n%s", diff)
	}
	if meadow, _ := doc.Site("meadow"); len(meadow.Objects) < 2 || len(meadow.Objects) > 4 {
		t.Errorf("meadow has %d spheres", len(meadow.Objects))
	}
	if grove, _ := doc.Site("grove"); len(grove.Objects) != 3 {
		t.Errorf("grove has %d trees", len(grove.Objects))
	}

	for _, o := range doc.Environment.Objects {
		if o.ID == "Box_0" && (math.Abs(o.Position.X) > 1e-9 || math.Abs(o.Position.Y) > 1e-9) {
			t.Errorf("fixed box at %v, want center", o.Position)
		}
	}
}

func TestGenerateAreaContainment(t *testing.T) {
	opts := Options{Config: parseConfig(t, parkYAML)}
	doc, _, err := Generate(context.Background(), opts, 7)
	if err != nil {
		t.Fatal(err)
	}
	approx := cmpopts.EquateApprox(0, 1e-9)
	var covered float64
	for i, area := range doc.Areas {
		if diff := cmp.Diff(doc.Tiles[i].Rect(), area.Bounds, approx); diff != "" {
			t.Errorf("area %s bounds differ from tile (-tile +area):\n%s", area.Name, diff)
		}
		covered += area.Bounds.Area()
		for _, o := range area.Objects {
			p := o.Position.XY()
			if !area.Bounds.Contains(p) {
				t.Errorf("%s at %v outside %s %v", o.ID, p, area.Name, area.Bounds)
			}
		}
	}
	if diff := cmp.Diff(doc.Environment.Bounds.Area(), covered, approx); diff != "" {
		t.Errorf("areas do not cover the environment:\n%s", diff)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := parseConfig(t, parkYAML)
	a, _, err := Generate(context.Background(), Options{Config: cfg}, 1234)
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := Generate(context.Background(), Options{Config: cfg}, 1234)
	if err != nil {
		t.Fatal(err)
	}
	ignore := cmpopts.IgnoreFields(sceneio.Document{}, "RunID", "CreatedAt")
	if diff := cmp.Diff(a, b, ignore, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("same seed produced different scenes (-a +b):\n%s", diff)
	}

	c, _, err := Generate(context.Background(), Options{Config: cfg}, 4321)
	if err != nil {
		t.Fatal(err)
	}
	if cmp.Equal(a.Environment.Objects, c.Environment.Objects) {
		t.Error("different seeds produced identical environments")
	}
}

func TestGenerateSizeRange(t *testing.T) {
	cfg := parseConfig(t, `
environment:
  size_range: {x: [4, 6], y: [3, 5], z: [1, 1]}
  objects: [{blueprint: Sphere, amount: 2}]
`)
	doc, _, err := Generate(context.Background(), Options{Config: cfg}, 3)
	if err != nil {
		t.Fatal(err)
	}
	s := doc.Environment.Size
	if s.X < 4 || s.X > 6 || s.Y < 3 || s.Y > 5 || s.Z != 1 {
		t.Errorf("size %v outside size_range", s)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.Code
	}{
		{
			name: "random placement exhausted",
			src:  "max_tries: 20\nenvironment: {size: [1, 1, 1], objects: [{blueprint: Sphere, amount: 30}]}",
			code: errors.ErrCodePlacementExhausted,
		},
		{
			name: "fixed placement rejected",
			src:  "environment: {size: [5, 5, 1], objects: [{blueprint: Box, coordinates: [[50, 50, 0.5], [50, 50, 0.5]]}]}",
			code: errors.ErrCodePlacementRejected,
		},
		{
			name: "groups exceed amount",
			src:  "environment: {size: [5, 5, 1], objects: [{blueprint: Sphere, amount: [1, 2], color_groups: 3}]}",
			code: errors.ErrCodeGroupsExceedAmount,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Generate(context.Background(), Options{Config: parseConfig(t, tt.src)}, 1)
			if !errors.Is(err, tt.code) {
				t.Fatalf("err = %v, want %s", err, tt.code)
			}
			if !errors.IsPlacementFailure(err) {
				t.Errorf("IsPlacementFailure(%v) = false", err)
			}
		})
	}
}

func TestGenerateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Generate(ctx, Options{Config: parseConfig(t, parkYAML)}, 1)
	if err == nil || !strings.Contains(err.Error(), "context canceled") {
		t.Errorf("err = %v, want context canceled", err)
	}
}

func TestExport(t *testing.T) {
	opts := Options{
		Config:  parseConfig(t, parkYAML),
		Formats: []string{FormatJSON, FormatMsgpack, FormatMJCF, FormatSVG, FormatDOT},
		Labels:  true,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	doc, _, err := Generate(context.Background(), opts, 11)
	if err != nil {
		t.Fatal(err)
	}
	artifacts, err := Export(context.Background(), doc, opts)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(artifacts) != len(opts.Formats) {
		t.Fatalf("got %d artifacts, want %d", len(artifacts), len(opts.Formats))
	}

	back, err := sceneio.ReadJSON(bytes.NewReader(artifacts[FormatJSON]))
	if err != nil {
		t.Fatal(err)
	}
	if back.Count() != doc.Count() {
		t.Errorf("json round trip lost objects: %d != %d", back.Count(), doc.Count())
	}
	if _, err := sceneio.DecodeMsgpack(artifacts[FormatMsgpack]); err != nil {
		t.Errorf("msgpack artifact: %v", err)
	}
	for format, want := range map[string]string{
		FormatMJCF: "<mujoco",
		FormatSVG:  "<svg",
		FormatDOT:  "graph scene {",
	} {
		if !bytes.Contains(artifacts[format], []byte(want)) {
			t.Errorf("%s artifact missing %q", format, want)
		}
	}
}

func TestRunnerCachesScenes(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()
	cfg := parseConfig(t, parkYAML)

	first, err := r.Execute(ctx, Options{Config: cfg, Seed: seed(5)})
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.SceneHit {
		t.Error("first run hit the cache")
	}

	second, err := r.Execute(ctx, Options{Config: cfg, Seed: seed(5)})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.SceneHit {
		t.Error("second run missed the cache")
	}
	if diff := cmp.Diff(first.Document, second.Document, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("cached scene differs (-first +second):\n%s", diff)
	}

	refreshed, err := r.Execute(ctx, Options{Config: cfg, Seed: seed(5), Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.SceneHit || refreshed.Document.RunID == first.Document.RunID {
		t.Error("refresh reused the cached scene")
	}

	other, err := r.Execute(ctx, Options{Config: cfg, Seed: seed(6)})
	if err != nil {
		t.Fatal(err)
	}
	if other.CacheInfo.SceneHit {
		t.Error("different seed hit the cache")
	}
}

func TestRunnerLayout(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)

	res, hit, err := r.Layout(ctx, 20, 10, 5)
	if err != nil || hit {
		t.Fatalf("Layout = hit %v err %v", hit, err)
	}
	if len(res.Tiles) != 5 || len(res.Candidates) != 4 || !res.Best.Feasible() {
		t.Errorf("layout = %+v", res)
	}
	again, hit, err := r.Layout(ctx, 20, 10, 5)
	if err != nil || !hit {
		t.Fatalf("second Layout = hit %v err %v", hit, err)
	}
	if diff := cmp.Diff(res.Tiles, again.Tiles); diff != "" {
		t.Errorf("cached tiles differ:\n%s", diff)
	}

	if _, _, err := r.Layout(ctx, 20, 10, 0); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("n=0 err = %v", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu       sync.Mutex
	placed   map[string]int
	layouts  int
	exported []string
}

func (h *recordingHooks) OnLayoutComplete(context.Context, int, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.layouts++
}

func (h *recordingHooks) OnPlacementComplete(_ context.Context, site, _ string, placed, _ int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.placed[site] += placed
}

func (h *recordingHooks) OnExportComplete(_ context.Context, formats []string, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.exported = append(h.exported, formats...)
}

func TestPipelineHooks(t *testing.T) {
	hooks := &recordingHooks{placed: map[string]int{}}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{
		Config:  parseConfig(t, parkYAML),
		Seed:    seed(8),
		Formats: []string{FormatJSON},
	})
	if err != nil {
		t.Fatal(err)
	}
	if hooks.layouts != 1 {
		t.Errorf("layout hooks = %d", hooks.layouts)
	}
	grove, _ := res.Document.Site("grove")
	if hooks.placed["grove"] != len(grove.Objects) || hooks.placed["park"] != 7 {
		t.Errorf("placement hooks = %v", hooks.placed)
	}
	if diff := cmp.Diff([]string{FormatJSON}, hooks.exported); diff != "" {
		t.Errorf("export hooks (-want +got):\n%s", diff)
	}
}
