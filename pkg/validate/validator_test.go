package validate

import (
	"testing"

	"github.com/matzehuels/scatter/pkg/geom"
	"github.com/matzehuels/scatter/pkg/rule"
	"github.com/matzehuels/scatter/pkg/scene"
)

func counting(result bool, calls *int) rule.Rule {
	return rule.Func(func(rule.Index, geom.Footprint, scene.Object, scene.Site) bool {
		*calls++
		return result
	})
}

func rock(id string, x, y float64) scene.Object {
	return scene.Blueprint{Name: "rock", Shape: scene.ShapeBox, Size: geom.V3(0.5, 0.5, 0.5)}.
		Instantiate(id).WithPosition(geom.V3(x, y, 0.5))
}

func TestValidateShortCircuit(t *testing.T) {
	var first, second, third int
	v := New("env", counting(true, &first), counting(false, &second), counting(true, &third))

	if v.Validate(rock("rock_1", 0, 0), nil) {
		t.Fatal("Validate accepted despite a rejecting rule")
	}
	if first != 1 || second != 1 || third != 0 {
		t.Errorf("calls = %d,%d,%d, want 1,1,0", first, second, third)
	}
}

func TestValidateEmpty(t *testing.T) {
	if !New("none").Validate(rock("rock_1", 0, 0), nil) {
		t.Error("validator without rules should accept")
	}
}

func TestCommitIndexesByClass(t *testing.T) {
	md, err := rule.NewMinDistance(2)
	if err != nil {
		t.Fatal(err)
	}
	v := New("env", md)

	a := rock("rock_1", 0, 0)
	if !v.Validate(a, nil) {
		t.Fatal("first object rejected")
	}
	Commit([]*Validator{v}, a)

	if got := len(v.Footprints("rock")); got != 1 {
		t.Fatalf("Footprints(rock) = %d, want 1", got)
	}
	if v.Validate(rock("rock_2", 1, 0), nil) {
		t.Error("object within min distance accepted")
	}
	if !v.Validate(rock("rock_2", 3, 0), nil) {
		t.Error("object outside min distance rejected")
	}
}

func TestAddStatic(t *testing.T) {
	md, _ := rule.NewMinDistance(1, "border")
	v := New("env", md)
	v.AddStatic("border", geom.RingFootprint(geom.NewRect(-5, -5, 5, 5)))

	if v.Validate(rock("rock_1", 4.5, 0), nil) {
		t.Error("object near border accepted")
	}
	if !v.Validate(rock("rock_1", 0, 0), nil) {
		t.Error("object in the middle rejected")
	}
	if v.Len() != 1 {
		t.Errorf("Len = %d, want 1", v.Len())
	}
}

func TestAll(t *testing.T) {
	var envCalls, areaCalls int
	env := New("env", counting(false, &envCalls))
	area := New("area", counting(true, &areaCalls))

	if ok, _ := All([]*Validator{env, area}, rock("rock_1", 0, 0), nil); ok {
		t.Error("All accepted despite env rejection")
	}
	if areaCalls != 0 {
		t.Errorf("area validator ran %d times after env rejected", areaCalls)
	}
}
