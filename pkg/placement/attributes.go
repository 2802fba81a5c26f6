package placement

import (
	"image/color"
	"math/rand/v2"

	"golang.org/x/image/colornames"

	"github.com/matzehuels/scatter/pkg/errors"
	"github.com/matzehuels/scatter/pkg/geom"
	"github.com/matzehuels/scatter/pkg/scene"
)

// Palette lists the color names grouped randomization draws from. Aliases
// of the same color (aqua and cyan, gray and grey) appear once, so distinct
// names always mean distinct colors.
var Palette = uniqueColorNames()

func uniqueColorNames() []string {
	seen := make(map[color.RGBA]bool)
	var names []string
	for _, name := range colornames.Names {
		c := colornames.Map[name]
		if seen[c] {
			continue
		}
		seen[c] = true
		names = append(names, name)
	}
	return names
}

// Attributes holds the per-object values drawn for one spec. A nil slice
// leaves the blueprint default in place.
type Attributes struct {
	Colors    []scene.RGBA
	Sizes     []geom.Vec3
	Rotations []float64
}

// Apply returns obj with the i-th drawn values.
func (a Attributes) Apply(i int, obj scene.Object) scene.Object {
	if a.Colors != nil {
		obj = obj.WithColor(a.Colors[i])
	}
	if a.Sizes != nil {
		obj = obj.WithSize(a.Sizes[i])
	}
	if a.Rotations != nil {
		obj = obj.WithRotationZ(a.Rotations[i])
	}
	return obj
}

// Randomize draws all attributes for amount objects. Group counts are
// checked against amount before anything is sampled.
func Randomize(spec Spec, amount int, rng *rand.Rand) (Attributes, error) {
	if err := CheckGroups(spec, amount); err != nil {
		return Attributes{}, err
	}

	var attrs Attributes
	var err error
	if spec.ColorGroups != nil {
		if attrs.Colors, err = GroupColors(amount, *spec.ColorGroups, rng); err != nil {
			return Attributes{}, err
		}
	}
	if spec.SizeGroups != nil {
		if spec.SizeValueRange == nil {
			return Attributes{}, errors.New(errors.ErrCodeInvalidConfig, "size_groups requires size_value_range")
		}
		attrs.Sizes = GroupSizes(amount, *spec.SizeGroups, *spec.SizeValueRange, rng)
	}
	if spec.ZRotationRange != nil {
		attrs.Rotations = make([]float64, amount)
		for i := range attrs.Rotations {
			attrs.Rotations[i] = spec.ZRotationRange.Sample(rng)
		}
	}
	return attrs, nil
}

// CheckGroups rejects group ranges that cannot be satisfied by amount
// objects.
func CheckGroups(spec Spec, amount int) error {
	for _, g := range []struct {
		name string
		r    *IntRange
	}{{"color_groups", spec.ColorGroups}, {"size_groups", spec.SizeGroups}} {
		if g.r == nil {
			continue
		}
		if g.r.Min < 1 || g.r.Min > g.r.Max {
			return errors.New(errors.ErrCodeInvalidConfig, "%s [%d, %d] is not a valid range", g.name, g.r.Min, g.r.Max)
		}
		if g.r.Max > amount {
			return errors.New(errors.ErrCodeGroupsExceedAmount,
				"%s maximum %d exceeds the amount of objects %d", g.name, g.r.Max, amount)
		}
	}
	return nil
}

// GroupColors draws g distinct palette colors (g sampled from groups) and
// spreads them over amount objects.
func GroupColors(amount int, groups IntRange, rng *rand.Rand) ([]scene.RGBA, error) {
	g := groups.Sample(rng)
	if g > len(Palette) {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "color_groups %d exceeds the %d available colors", g, len(Palette))
	}
	values := make([]scene.RGBA, g)
	for i, idx := range rng.Perm(len(Palette))[:g] {
		c := colornames.Map[Palette[idx]]
		values[i] = scene.RGBA{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255}
	}
	return spread(values, amount, rng), nil
}

// GroupSizes draws g distinct half-extent vectors with every component in
// values and spreads them over amount objects.
func GroupSizes(amount int, groups IntRange, values FloatRange, rng *rand.Rand) []geom.Vec3 {
	g := groups.Sample(rng)
	sizes := make([]geom.Vec3, 0, g)
	seen := make(map[geom.Vec3]bool, g)
	for len(sizes) < g {
		s := geom.Vec3{X: values.Sample(rng), Y: values.Sample(rng), Z: values.Sample(rng)}
		if seen[s] && values.Min < values.Max {
			continue
		}
		seen[s] = true
		sizes = append(sizes, s)
	}
	return spread(sizes, amount, rng)
}

// spread replicates each value amount/len(values) times, pads the rest
// with existing values and shuffles.
func spread[T any](values []T, amount int, rng *rand.Rand) []T {
	per := amount / len(values)
	out := make([]T, 0, amount)
	for _, v := range values {
		for range per {
			out = append(out, v)
		}
	}
	for len(out) < amount {
		out = append(out, values[rng.IntN(len(values))])
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
