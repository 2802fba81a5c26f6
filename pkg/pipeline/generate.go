package pipeline

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/scatter/pkg/config"
	"github.com/matzehuels/scatter/pkg/distribution"
	"github.com/matzehuels/scatter/pkg/geom"
	"github.com/matzehuels/scatter/pkg/layout"
	"github.com/matzehuels/scatter/pkg/observability"
	"github.com/matzehuels/scatter/pkg/physics"
	"github.com/matzehuels/scatter/pkg/placement"
	"github.com/matzehuels/scatter/pkg/rule"
	"github.com/matzehuels/scatter/pkg/scene"
	"github.com/matzehuels/scatter/pkg/sceneio"
	"github.com/matzehuels/scatter/pkg/validate"
)

// site pairs a placement site with its validator and config.
type site struct {
	scene.Site
	validator *validate.Validator
	objects   []config.Object
}

// run holds the state of one generation.
type run struct {
	opts  Options
	rng   *rand.Rand
	ids   *scene.IDAllocator
	env   site
	areas []site
	tiles []layout.Tile
	stats Stats
}

// ResolveSeed returns the seed a run with opts uses: the options seed, then
// the config seed, then a fresh random one. Random seeds fit in an int64 so
// every store can keep them.
func ResolveSeed(opts Options) uint64 {
	switch {
	case opts.Seed != nil:
		return *opts.Seed
	case opts.Config != nil && opts.Config.Seed != nil:
		return *opts.Config.Seed
	}
	return rand.Uint64() >> 1
}

// Generate builds and populates the scene described by opts.Config with the
// given seed. It does not touch any cache.
func Generate(ctx context.Context, opts Options, seed uint64) (sceneio.Document, Stats, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return sceneio.Document{}, Stats{}, err
	}
	r := &run{
		opts: opts,
		rng:  distribution.NewRand(seed),
		ids:  scene.NewIDAllocator(),
	}

	if err := r.buildSites(ctx); err != nil {
		return sceneio.Document{}, r.stats, err
	}
	start := time.Now()
	if err := r.populate(ctx); err != nil {
		return sceneio.Document{}, r.stats, err
	}
	r.stats.PlacementTime = time.Since(start)

	areas := make([]scene.Site, len(r.areas))
	for i, a := range r.areas {
		areas[i] = a.Site
	}
	doc := sceneio.FromSites(r.env.Site, areas, r.tiles)
	doc.RunID = uuid.NewString()
	doc.Seed = seed
	doc.ConfigHash = opts.ConfigHash
	doc.CreatedAt = time.Now().UTC()

	r.stats.Sites = 1 + len(r.areas)
	r.stats.Objects = doc.Count()
	return doc, r.stats, nil
}

// size returns the environment half extents, sampling size_range if set.
func (r *run) size() geom.Vec3 {
	env := r.opts.Config.Environment
	if env.Size != nil {
		return geom.V3(env.Size[0], env.Size[1], env.Size[2])
	}
	sr := env.SizeRange
	return geom.V3(
		sr.X.Placement().Sample(r.rng),
		sr.Y.Placement().Sample(r.rng),
		sr.Z.Placement().Sample(r.rng),
	)
}

func (r *run) buildSites(ctx context.Context) error {
	cfg := r.opts.Config
	logger := r.opts.Logger

	ext := r.size()
	env := scene.NewEnvironment(cfg.EnvironmentName(), ext, physics.NewWorld())
	v, err := newValidator(env, cfg.Environment.Rules)
	if err != nil {
		return err
	}
	r.env = site{Site: env, validator: v, objects: cfg.Environment.Objects}
	logger.Debug("environment", "name", env.Name(), "half_extents", fmt.Sprintf("%g x %g x %g", ext.X, ext.Y, ext.Z))

	if len(cfg.Areas) == 0 {
		return nil
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(cfg.Areas))
	start := time.Now()
	tiles, err := layout.Tiling(2*ext.X, 2*ext.Y, len(cfg.Areas))
	r.stats.LayoutTime = time.Since(start)
	hooks.OnLayoutComplete(ctx, len(cfg.Areas), r.stats.LayoutTime, err)
	if err != nil {
		return err
	}

	shift := geom.Point{X: -ext.X, Y: -ext.Y}
	for i, a := range cfg.Areas {
		tile := tiles[i].Translate(shift)
		r.tiles = append(r.tiles, tile)
		area := scene.NewArea(a.Name, env, tile.Rect())
		v, err := newValidator(area, a.Rules)
		if err != nil {
			return err
		}
		r.areas = append(r.areas, site{Site: area, validator: v, objects: a.Objects})
		logger.Debug("area", "name", a.Name, "width", tile.Width(), "height", tile.Height())
	}
	return nil
}

func newValidator(s scene.Site, specs []rule.Spec) (*validate.Validator, error) {
	rules, err := rule.BuildAll(specs, s)
	if err != nil {
		return nil, err
	}
	return validate.New(s.Name(), rules...), nil
}

// populate runs borders, then fixed and random placement, each over the
// environment before the areas.
func (r *run) populate(ctx context.Context) error {
	if err := r.placeBorders(); err != nil {
		return err
	}
	sites := append([]site{r.env}, r.areas...)
	for _, fixed := range []bool{true, false} {
		for _, s := range sites {
			for _, obj := range s.objects {
				if err := ctx.Err(); err != nil {
					return err
				}
				spec, err := obj.Placement()
				if err != nil {
					return err
				}
				if spec.Fixed() != fixed {
					continue
				}
				if err := r.place(ctx, s, obj.Blueprint, spec); err != nil {
					return fmt.Errorf("place %s in %s: %w", obj.Blueprint, s.Name(), err)
				}
			}
		}
	}
	return nil
}

func (r *run) placeBorders() error {
	borders := r.opts.Config.Environment.Borders
	if !borders.Place {
		return nil
	}
	bp, err := r.opts.Catalog.Get(borders.BlueprintName())
	if err != nil {
		return err
	}
	out, err := placement.BorderPlacer{Enabled: true}.Place(placement.Request{
		Site:       r.env.Site,
		Blueprint:  bp,
		Validators: []*validate.Validator{r.env.validator},
		IDs:        r.ids,
		Rand:       r.rng,
	})
	if err != nil {
		return fmt.Errorf("place borders: %w", err)
	}
	r.opts.Logger.Debug("placed borders", "blueprint", bp.Name, "objects", len(out.Objects))
	return nil
}

func (r *run) place(ctx context.Context, s site, name string, spec placement.Spec) error {
	bp, err := r.opts.Catalog.Get(name)
	if err != nil {
		return err
	}
	validators := []*validate.Validator{r.env.validator}
	if s.validator != r.env.validator {
		validators = append(validators, s.validator)
	}

	var placer placement.Placer = placement.RandomPlacer{MaxTries: r.opts.maxTries()}
	if spec.Fixed() {
		placer = placement.FixedPlacer{}
	}

	hooks := observability.Pipeline()
	amount := 0
	if spec.Amount != nil {
		amount = spec.Amount.Max
	}
	hooks.OnPlacementStart(ctx, s.Name(), name, amount)
	start := time.Now()
	out, err := placer.Place(placement.Request{
		Site:       s.Site,
		Blueprint:  bp,
		Validators: validators,
		Spec:       spec,
		Catalog:    r.opts.Catalog,
		IDs:        r.ids,
		Rand:       r.rng,
		Context:    ctx,
	})
	dur := time.Since(start)
	hooks.OnPlacementComplete(ctx, s.Name(), name, len(out.Objects), out.Attempts, dur, err)
	r.stats.Attempts += out.Attempts

	r.opts.Logger.Debug("placed objects",
		"site", s.Name(),
		"blueprint", name,
		"placed", len(out.Objects),
		"attempts", out.Attempts,
		"duration", dur)
	return err
}
