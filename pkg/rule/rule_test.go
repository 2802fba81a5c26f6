package rule

import (
	stderrors "errors"
	"testing"

	"github.com/matzehuels/scatter/pkg/errors"
	"github.com/matzehuels/scatter/pkg/geom"
	"github.com/matzehuels/scatter/pkg/physics"
	"github.com/matzehuels/scatter/pkg/scene"
)

func ball(id string, x, y float64) scene.Object {
	bp := scene.Blueprint{Name: "ball", Shape: scene.ShapeSphere, Size: geom.V3(0.5, 0.5, 0.5)}
	return bp.Instantiate(id).WithPosition(geom.V3(x, y, 0.5))
}

func TestBoundary(t *testing.T) {
	r := Boundary{Rect: geom.NewRect(-5, -5, 5, 5)}
	tests := []struct {
		name string
		fp   geom.Footprint
		want bool
	}{
		{"inside", geom.PointFootprint(geom.Point{X: 1, Y: 1}), true},
		{"on edge", geom.PointFootprint(geom.Point{X: 5, Y: 0}), true},
		{"outside", geom.PointFootprint(geom.Point{X: 5.1, Y: 0}), false},
		{"box straddling edge", geom.BoxFootprint(geom.Point{X: 5, Y: 0}, 1, 1, 0), true},
		{"box outside", geom.BoxFootprint(geom.Point{X: 8, Y: 0}, 1, 1, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Evaluate(nil, tt.fp, scene.Object{}, nil); got != tt.want {
				t.Errorf("Evaluate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMinDistance(t *testing.T) {
	idx := Index{
		"tree": {geom.PointFootprint(geom.Point{X: 0, Y: 0})},
		"rock": {geom.PointFootprint(geom.Point{X: 5, Y: 0})},
	}
	tests := []struct {
		name    string
		classes []string
		x       float64
		want    bool
	}{
		{"all classes near tree", nil, 1, false},
		{"all classes clear", nil, 2.5, true},
		{"rock only near tree", []string{"rock"}, 1, true},
		{"prefix filter", []string{"^tr"}, 1, false},
		{"substring filter", []string{"ee"}, 1, false},
		{"near rock", []string{"rock", "tree"}, 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewMinDistance(2, tt.classes...)
			if err != nil {
				t.Fatal(err)
			}
			fp := geom.PointFootprint(geom.Point{X: tt.x, Y: 0})
			if got := r.Evaluate(idx, fp, scene.Object{}, nil); got != tt.want {
				t.Errorf("Evaluate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMinDistanceBadPattern(t *testing.T) {
	if _, err := NewMinDistance(1, "("); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestHeight(t *testing.T) {
	r := Height{GroundLevel: 0}
	if !r.Evaluate(nil, geom.Footprint{}, ball("a", 0, 0), nil) {
		t.Error("object above ground rejected")
	}
	below := ball("a", 0, 0).WithPosition(geom.V3(0, 0, -0.1))
	if r.Evaluate(nil, geom.Footprint{}, below, nil) {
		t.Error("object below ground accepted")
	}
}

func TestPhysicsMinDistance(t *testing.T) {
	world := physics.NewWorld()
	env := scene.NewEnvironment("room", geom.V3(10, 10, 2), world)
	if err := env.Add(ball("ball_1", 0, 0)); err != nil {
		t.Fatal(err)
	}
	r := PhysicsMinDistance{Distance: 1}

	if r.Evaluate(nil, geom.Footprint{}, ball("ball_2", 1.5, 0), env) {
		t.Error("candidate within clearance accepted")
	}
	if !r.Evaluate(nil, geom.Footprint{}, ball("ball_2", 3, 0), env) {
		t.Error("candidate outside clearance rejected")
	}
	if world.Len() != 1 {
		t.Errorf("world has %d geoms after evaluation, want 1", world.Len())
	}
}

func TestPhysicsIgnoresSelfContacts(t *testing.T) {
	world := physics.NewWorld()
	env := scene.NewEnvironment("room", geom.V3(10, 10, 2), world)
	bp := scene.Blueprint{
		Name: "dumbbell",
		Size: geom.V3(1, 0.25, 0.25),
		Parts: []scene.Part{
			{Shape: scene.ShapeSphere, Size: geom.V3(0.25, 0.25, 0.25), Offset: geom.V3(-0.2, 0, 0)},
			{Shape: scene.ShapeSphere, Size: geom.V3(0.25, 0.25, 0.25), Offset: geom.V3(0.2, 0, 0)},
		},
	}
	obj := bp.Instantiate("dumbbell_1").WithPosition(geom.V3(0, 0, 0.25))
	if !(PhysicsMinDistance{Distance: 1}).Evaluate(nil, geom.Footprint{}, obj, env) {
		t.Error("composite object rejected by its own parts")
	}
}

// failingGraph is a scene graph whose Attach or Step fails.
type failingGraph struct {
	attachErr, stepErr error
	detached           int
}

func (g *failingGraph) Attach(scene.Object, float64) (scene.Handle, error) {
	return 1, g.attachErr
}

func (g *failingGraph) Detach(scene.Handle) error {
	g.detached++
	return nil
}

func (g *failingGraph) Geoms(scene.Handle) []scene.GeomID { return []scene.GeomID{1} }

func (g *failingGraph) Step() ([]scene.Contact, error) { return nil, g.stepErr }

func TestPhysicsGraphFailure(t *testing.T) {
	broken := stderrors.New("solver diverged")
	tests := []struct {
		name         string
		graph        *failingGraph
		wantDetached int
	}{
		{"attach", &failingGraph{attachErr: broken}, 0},
		{"step", &failingGraph{stepErr: broken}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := scene.NewEnvironment("room", geom.V3(10, 10, 2), tt.graph)
			r := PhysicsMinDistance{Distance: 1}

			ok, err := r.Check(nil, geom.Footprint{}, ball("a", 0, 0), env)
			if ok || !errors.Is(err, errors.ErrCodeInternal) || !stderrors.Is(err, broken) {
				t.Errorf("Check = %v, %v; want INTERNAL_ERROR wrapping the graph error", ok, err)
			}
			if r.Evaluate(nil, geom.Footprint{}, ball("a", 0, 0), env) {
				t.Error("Evaluate accepted despite a graph failure")
			}
			if tt.graph.detached != 2*tt.wantDetached {
				t.Errorf("detached %d times, want %d", tt.graph.detached, 2*tt.wantDetached)
			}
		})
	}
}

func TestPhysicsWithoutGraph(t *testing.T) {
	env := scene.NewEnvironment("room", geom.V3(10, 10, 2), nil)
	if !(PhysicsMinDistance{Distance: 1}).Evaluate(nil, geom.Footprint{}, ball("a", 0, 0), env) {
		t.Error("site without scene graph should accept")
	}
}

func TestBuild(t *testing.T) {
	env := scene.NewEnvironment("room", geom.V3(4, 3, 1), nil)

	rules, err := BuildAll(nil, env)
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 2 {
		t.Fatalf("default rules = %d, want 2", len(rules))
	}
	b, ok := rules[0].(Boundary)
	if !ok {
		t.Fatalf("first default rule is %T, want Boundary", rules[0])
	}
	if b.Rect != geom.NewRect(-4, -3, 4, 3) {
		t.Errorf("boundary = %v, want site bounds", b.Rect)
	}
	if p, ok := rules[1].(PhysicsMinDistance); !ok || p.Distance != DefaultDistance {
		t.Errorf("second default rule = %#v", rules[1])
	}
}

func TestBuildErrors(t *testing.T) {
	env := scene.NewEnvironment("room", geom.V3(4, 3, 1), nil)
	tests := []struct {
		name string
		spec Spec
	}{
		{"unknown type", Spec{Type: "gravity"}},
		{"negative distance", Spec{Type: TypeMinDistance, Distance: -1}},
		{"bad pattern", Spec{Type: TypeMinDistance, Distance: 1, Classes: []string{"["}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildAll([]Spec{tt.spec}, env)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("BuildAll error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}
