package placement

import (
	"github.com/matzehuels/scatter/pkg/distribution"
	"github.com/matzehuels/scatter/pkg/errors"
	"github.com/matzehuels/scatter/pkg/geom"
	"github.com/matzehuels/scatter/pkg/scene"
	"github.com/matzehuels/scatter/pkg/transform"
	"github.com/matzehuels/scatter/pkg/validate"
)

// cancelCheckInterval is how many attempts pass between context checks.
const cancelCheckInterval = 256

// RandomPlacer places objects by rejection sampling. Positions are drawn in
// the environment frame; for an area they are remapped onto the area's
// boundary before validation, so the validated position is the committed
// one.
type RandomPlacer struct {
	// MaxTries overrides the package default when positive.
	MaxTries int
}

func (p RandomPlacer) Place(req Request) (Outcome, error) {
	if err := req.check(); err != nil {
		return Outcome{}, err
	}
	maxTries := p.MaxTries
	if maxTries <= 0 {
		maxTries = MaxTries
	}

	amount := req.Spec.amount(1, req.Rand)
	attrs, err := Randomize(req.Spec, amount, req.Rand)
	if err != nil {
		return Outcome{}, err
	}

	ref, area := frames(req.Site)
	hx, hy := ref.HalfExtent()
	sampler, err := distribution.New(req.Spec.Distribution, geom.Vec3{X: hx, Y: hy}, req.Rand)
	if err != nil {
		return Outcome{}, err
	}

	var out Outcome
	for i := range amount {
		if err := req.canceled(); err != nil {
			return out, err
		}
		bp, err := req.blueprint()
		if err != nil {
			return out, err
		}
		base := attrs.Apply(i, bp.Instantiate(""))
		z := base.HalfHeight()

		for tries := 1; ; tries++ {
			if tries%cancelCheckInterval == 0 {
				if err := req.canceled(); err != nil {
					return out, err
				}
			}
			xy := sampler.Sample()
			pos := geom.Vec3{X: xy.X, Y: xy.Y, Z: z}
			if area != nil {
				pos = transform.RemapToArea(pos, ref, *area)
			}
			cand := base.WithPosition(pos)

			out.Attempts++
			ok, err := validate.All(req.Validators, cand, req.Site)
			if err != nil {
				return out, err
			}
			if ok {
				obj, err := commit(req, cand, bp.Name)
				if err != nil {
					return out, err
				}
				out.Objects = append(out.Objects, obj)
				break
			}
			if tries >= maxTries {
				return out, errors.New(errors.ErrCodePlacementExhausted,
					"Placement of object '%s' in site '%s' has failed '%d' times",
					bp.Name, req.Site.Name(), tries)
			}
		}
	}
	return out, nil
}

// frames returns the environment rectangle samples are drawn in and, for
// an area, the boundary they are remapped onto.
func frames(site scene.Site) (geom.Rect, *geom.Rect) {
	if a, ok := site.(*scene.Area); ok {
		b := a.Boundary()
		return a.Environment().Bounds(), &b
	}
	return site.Bounds(), nil
}
