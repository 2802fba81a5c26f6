package config

import (
	"fmt"
	"strings"

	"github.com/matzehuels/scatter/pkg/errors"
	"github.com/matzehuels/scatter/pkg/placement"
	"github.com/matzehuels/scatter/pkg/rule"
	"github.com/matzehuels/scatter/pkg/scene"
)

// Limits on what a single configuration may request. They bound the work
// and the response size of one generation run.
const (
	MaxAreas   = 256
	MaxAmount  = 10000
	MaxObjects = 100000
)

// Validate checks the configuration against catalog before any placement
// starts. A nil catalog skips blueprint lookups.
func (c *Config) Validate(catalog *scene.Catalog) error {
	env := c.Environment
	if err := errors.ValidateName("environment", c.EnvironmentName()); err != nil {
		return err
	}
	if c.MaxTries < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_tries must not be negative")
	}

	switch {
	case env.Size != nil && env.SizeRange != nil:
		return errors.New(errors.ErrCodeInvalidConfig, "environment: set either size or size_range, not both")
	case env.Size != nil:
		for i, v := range env.Size {
			if v <= 0 {
				return errors.New(errors.ErrCodeInvalidConfig, "environment: size[%d] must be positive, got %g", i, v)
			}
		}
	case env.SizeRange != nil:
		for axis, r := range map[string]FloatRange{"x": env.SizeRange.X, "y": env.SizeRange.Y, "z": env.SizeRange.Z} {
			if !r.valid() || r.Min <= 0 {
				return errors.New(errors.ErrCodeInvalidConfig, "environment: size_range.%s [%g, %g] must be positive and ordered", axis, r.Min, r.Max)
			}
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "environment: size or size_range is required")
	}

	if env.Borders.Place && catalog != nil && !catalog.Has(env.Borders.BlueprintName()) {
		return errors.New(errors.ErrCodeUnknownBlueprint, "border blueprint %q not in catalog", env.Borders.BlueprintName())
	}

	if err := validateSite(c.EnvironmentName(), env.Rules, env.Objects, catalog); err != nil {
		return err
	}

	if len(c.Areas) > MaxAreas {
		return errors.New(errors.ErrCodeInvalidInput, "%d areas exceed the limit of %d", len(c.Areas), MaxAreas)
	}
	seen := map[string]bool{c.EnvironmentName(): true}
	for i, a := range c.Areas {
		if err := errors.ValidateName("area", a.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "areas[%d]", i)
		}
		if seen[a.Name] {
			return errors.New(errors.ErrCodeInvalidConfig, "duplicate site name %q", a.Name)
		}
		seen[a.Name] = true
		if err := validateSite(a.Name, a.Rules, a.Objects, catalog); err != nil {
			return err
		}
	}

	// Each amount is capped by now, so the sum cannot overflow.
	if n := c.plannedObjects(); n > MaxObjects {
		return errors.New(errors.ErrCodeInvalidInput, "up to %d objects requested, the limit is %d", n, MaxObjects)
	}
	return nil
}

// plannedObjects is the largest number of objects the object specs can
// produce, borders excluded.
func (c *Config) plannedObjects() int {
	n := 0
	count := func(objects []Object) {
		for _, o := range objects {
			switch {
			case o.Amount != nil:
				n += max(o.Amount.Max, 0)
			case len(o.Coordinates) > 0:
				n += len(o.Coordinates)
			default:
				n++
			}
		}
	}
	count(c.Environment.Objects)
	for _, a := range c.Areas {
		count(a.Objects)
	}
	return n
}

func validateSite(site string, rules []rule.Spec, objects []Object, catalog *scene.Catalog) error {
	for i, r := range rules {
		if err := r.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "site %q rules[%d]", site, i)
		}
	}
	for i, o := range objects {
		if err := o.validate(catalog); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "site %q objects[%d] (%s)", site, i, o.Blueprint)
		}
	}
	return nil
}

func (o Object) validate(catalog *scene.Catalog) error {
	if o.Blueprint == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "blueprint is required")
	}
	if catalog != nil {
		for _, name := range append([]string{o.Blueprint}, o.AssetPool...) {
			if !catalog.Has(strings.TrimSuffix(name, ".xml")) {
				return errors.New(errors.ErrCodeUnknownBlueprint, "unknown blueprint %q", name)
			}
		}
	}

	if o.Amount != nil && o.Amount.Max > MaxAmount {
		return errors.New(errors.ErrCodeInvalidInput, "amount %d exceeds the limit of %d", o.Amount.Max, MaxAmount)
	}
	if len(o.Coordinates) > MaxAmount {
		return errors.New(errors.ErrCodeInvalidInput, "%d coordinates exceed the limit of %d", len(o.Coordinates), MaxAmount)
	}
	for name, r := range map[string]*IntRange{"amount": o.Amount, "color_groups": o.ColorGroups, "size_groups": o.SizeGroups} {
		if r != nil && (!r.valid() || r.Min < 0) {
			return errors.New(errors.ErrCodeInvalidConfig, "%s [%d, %d] must be non-negative and ordered", name, r.Min, r.Max)
		}
	}
	for name, r := range map[string]*FloatRange{"z_rotation_range": o.ZRotationRange, "size_value_range": o.SizeValueRange} {
		if r != nil && !r.valid() {
			return errors.New(errors.ErrCodeInvalidConfig, "%s [%g, %g] is not ordered", name, r.Min, r.Max)
		}
	}
	if o.SizeValueRange != nil && o.SizeValueRange.Min <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "size_value_range must be positive")
	}
	if o.SizeGroups != nil && o.SizeValueRange == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "size_groups requires size_value_range")
	}

	if len(o.Coordinates) > 0 {
		if o.Distribution != nil {
			return errors.New(errors.ErrCodeInvalidConfig, "coordinates and distribution are mutually exclusive")
		}
		if o.Amount != nil && o.Amount.Max > len(o.Coordinates) {
			return errors.New(errors.ErrCodeInvalidConfig, "amount %d exceeds the %d given coordinates", o.Amount.Max, len(o.Coordinates))
		}
	}

	// A fixed amount can be checked against group counts now; ranged
	// amounts are checked again after sampling.
	if o.Amount != nil && o.Amount.Min == o.Amount.Max {
		spec := placement.Spec{ColorGroups: o.ColorGroups.Placement(), SizeGroups: o.SizeGroups.Placement()}
		if err := placement.CheckGroups(spec, o.Amount.Min); err != nil {
			return err
		}
	}

	if _, err := o.Distribution.Spec(); err != nil {
		return err
	}
	return nil
}

// String summarizes the configuration for logs.
func (c *Config) String() string {
	n := len(c.Environment.Objects)
	for _, a := range c.Areas {
		n += len(a.Objects)
	}
	return fmt.Sprintf("%s with %d areas and %d object specs", c.EnvironmentName(), len(c.Areas), n)
}
