package scene

import (
	"testing"

	"github.com/matzehuels/scatter/pkg/errors"
	"github.com/matzehuels/scatter/pkg/geom"
)

func TestInstantiateDoesNotAlias(t *testing.T) {
	bp := Blueprint{
		Name:  "Tree",
		Shape: ShapeCylinder,
		Size:  geom.V3(0.5, 0.5, 2),
		Tags:  []string{"plant"},
	}

	obj := bp.Instantiate("Tree_0")
	obj.Tags[0] = "changed"
	obj.Parts[0].Size.X = 99

	if bp.Tags[0] != "plant" {
		t.Errorf("blueprint tags mutated through instance: %v", bp.Tags)
	}
	if len(bp.Parts) != 0 {
		t.Errorf("blueprint parts mutated through instance: %v", bp.Parts)
	}
	if obj.Class != "Tree" {
		t.Errorf("Class = %q, want blueprint name as default", obj.Class)
	}
	if obj.FootprintMode != FootprintPoint {
		t.Errorf("FootprintMode = %q, want point", obj.FootprintMode)
	}
}

func TestWithSizeScalesParts(t *testing.T) {
	bp := Blueprint{
		Name: "Lamp",
		Size: geom.V3(1, 1, 2),
		Parts: []Part{
			{Shape: ShapeCylinder, Size: geom.V3(0.1, 0.1, 1.5), Offset: geom.V3(0, 0, -0.5)},
			{Shape: ShapeSphere, Size: geom.V3(0.5, 0.5, 0.5), Offset: geom.V3(0, 0, 1.5)},
		},
	}
	base := bp.Instantiate("Lamp_0")
	big := base.WithSize(geom.V3(2, 2, 4))

	if big.Parts[1].Offset.Z != 3 {
		t.Errorf("head offset = %v, want 3", big.Parts[1].Offset.Z)
	}
	if big.Parts[0].Size.X != 0.2 {
		t.Errorf("pole radius = %v, want 0.2", big.Parts[0].Size.X)
	}
	if base.Parts[1].Offset.Z != 1.5 {
		t.Error("WithSize mutated the receiver")
	}
}

func TestFootprintModes(t *testing.T) {
	obj := Blueprint{Name: "Crate", Shape: ShapeBox, Size: geom.V3(1, 2, 1)}.
		Instantiate("Crate_0").
		WithPosition(geom.V3(3, 4, 1))

	if fp := obj.Footprint(); fp.Kind != geom.KindPoint || fp.Points[0] != (geom.Point{X: 3, Y: 4}) {
		t.Errorf("point footprint = %+v", fp)
	}

	obj.FootprintMode = FootprintBox
	b := obj.Footprint().Bounds()
	if b.Width() != 2 || b.Height() != 4 {
		t.Errorf("box footprint bounds = %vx%v, want 2x4", b.Width(), b.Height())
	}
}

func TestIDAllocator(t *testing.T) {
	ids := NewIDAllocator()
	got := []string{ids.Next("Tree"), ids.Next("Rock"), ids.Next("Tree")}
	want := []string{"Tree_0", "Rock_0", "Tree_1"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Next()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSiteAddRemove(t *testing.T) {
	env := NewEnvironment("env", geom.V3(10, 5, 1), nil)
	obj := Blueprint{Name: "Rock", Shape: ShapeSphere}.Instantiate("Rock_0")

	if err := env.Add(obj); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := env.Add(obj); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("duplicate Add error = %v, want INVALID_INPUT", err)
	}
	if env.Len() != 1 {
		t.Errorf("Len() = %d, want 1", env.Len())
	}
	if err := env.Remove("Rock_0"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := env.Remove("Rock_0"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("second Remove error = %v, want NOT_FOUND", err)
	}
}

func TestAreaFrame(t *testing.T) {
	env := NewEnvironment("env", geom.V3(10, 5, 2), nil)
	area := NewArea("north", env, geom.NewRect(0, 0, 10, 5))

	if o := area.Origin(); o != (geom.Point{X: 5, Y: 2.5}) {
		t.Errorf("Origin() = %v, want (5,2.5)", o)
	}
	if e := area.Extent(); e != geom.V3(5, 2.5, 2) {
		t.Errorf("Extent() = %v", e)
	}
	if b := area.Bounds(); b != area.Boundary() {
		t.Errorf("Bounds() = %v, want %v", b, area.Boundary())
	}
	if area.Environment() != env {
		t.Error("Environment() should return the parent")
	}
}
