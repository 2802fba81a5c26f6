// Package placement turns placement specs into committed objects.
//
// Three placers share one contract: given a blueprint, a target site and
// the validators that must all accept, produce the requested number of
// committed objects or fail with a diagnostic error.
//
//   - [FixedPlacer] resolves user coordinates given in percent of the site
//     and validates each exactly once.
//   - [RandomPlacer] samples positions from a distribution and retries
//     rejected candidates up to [MaxTries] times per object.
//   - [BorderPlacer] fences the environment with four stretched strips.
//
// Every candidate is a fresh [scene.Object] value. Commit is two-phase: an
// object enters its site and then every validator index only after all
// validators accepted that exact value.
package placement

import (
	"context"
	"math/rand/v2"
	"strings"

	"github.com/matzehuels/scatter/pkg/distribution"
	"github.com/matzehuels/scatter/pkg/errors"
	"github.com/matzehuels/scatter/pkg/geom"
	"github.com/matzehuels/scatter/pkg/scene"
	"github.com/matzehuels/scatter/pkg/validate"
)

// MaxTries bounds validation attempts for a single randomly placed object.
const MaxTries = 10000

// IntRange is an inclusive integer range. Min == Max denotes a fixed value.
type IntRange struct {
	Min, Max int
}

// Fixed returns the range containing only n.
func Fixed(n int) IntRange { return IntRange{Min: n, Max: n} }

// Sample draws uniformly from the closed range.
func (r IntRange) Sample(rng *rand.Rand) int {
	if r.Min >= r.Max {
		return r.Min
	}
	return r.Min + rng.IntN(r.Max-r.Min+1)
}

// FloatRange is a real interval [Min, Max).
type FloatRange struct {
	Min, Max float64
}

// Sample draws uniformly from the range.
func (r FloatRange) Sample(rng *rand.Rand) float64 {
	if r.Min >= r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Spec describes how one blueprint is placed into one site.
type Spec struct {
	// Amount defaults to len(Coordinates) for fixed placement and to 1
	// otherwise.
	Amount *IntRange
	// Coordinates are [x%, y%, z] positions relative to the site. A
	// non-empty list selects fixed placement.
	Coordinates    []geom.Vec3
	ZRotationRange *FloatRange
	ColorGroups    *IntRange
	SizeGroups     *IntRange
	SizeValueRange *FloatRange
	// AssetPool lists blueprint names drawn from per object instead of the
	// request blueprint.
	AssetPool    []string
	Distribution distribution.Spec
}

// Fixed reports whether s uses user-given coordinates.
func (s Spec) Fixed() bool { return len(s.Coordinates) > 0 }

func (s Spec) amount(def int, rng *rand.Rand) int {
	if s.Amount == nil {
		return def
	}
	return s.Amount.Sample(rng)
}

// Request bundles everything a placer needs for one spec.
type Request struct {
	Site      scene.Site
	Blueprint scene.Blueprint
	// Validators must all accept a candidate. Order them environment first.
	Validators []*validate.Validator
	Spec       Spec
	// Catalog resolves AssetPool names. It may be nil without an asset pool.
	Catalog *scene.Catalog
	IDs     *scene.IDAllocator
	Rand    *rand.Rand
	// Context, when set, stops a placer between attempts once it is done.
	Context context.Context
}

// canceled reports the request context's error, if any.
func (r Request) canceled() error {
	if r.Context == nil {
		return nil
	}
	return r.Context.Err()
}

func (r Request) check() error {
	if r.Site == nil {
		return errors.New(errors.ErrCodeInvalidInput, "placement request has no site")
	}
	if r.IDs == nil || r.Rand == nil {
		return errors.New(errors.ErrCodeInvalidInput, "placement request needs an id allocator and a random source")
	}
	if len(r.Spec.AssetPool) > 0 && r.Catalog == nil {
		return errors.New(errors.ErrCodeInvalidInput, "asset pool for %q needs a catalog", r.Blueprint.Name)
	}
	return nil
}

// blueprint picks the blueprint for the next object.
func (r Request) blueprint() (scene.Blueprint, error) {
	if len(r.Spec.AssetPool) == 0 {
		return r.Blueprint, nil
	}
	name := r.Spec.AssetPool[r.Rand.IntN(len(r.Spec.AssetPool))]
	return r.Catalog.Get(strings.TrimSuffix(name, ".xml"))
}

// Outcome reports what a placer committed.
type Outcome struct {
	Objects []scene.Object
	// Attempts counts validation attempts across all objects.
	Attempts int
}

// Placer places the objects of a single request.
type Placer interface {
	Place(req Request) (Outcome, error)
}

// For returns the placer matching spec.
func For(spec Spec) Placer {
	if spec.Fixed() {
		return FixedPlacer{}
	}
	return RandomPlacer{}
}

// commit assigns an id and records obj in the site and then in every
// validator.
func commit(req Request, obj scene.Object, name string) (scene.Object, error) {
	obj.ID = req.IDs.Next(name)
	if err := req.Site.Add(obj); err != nil {
		return scene.Object{}, err
	}
	validate.Commit(req.Validators, obj)
	return obj, nil
}
