package placement

import (
	"github.com/matzehuels/scatter/pkg/errors"
	"github.com/matzehuels/scatter/pkg/transform"
	"github.com/matzehuels/scatter/pkg/validate"
)

// FixedPlacer places objects at user-given coordinates. Each coordinate is
// validated exactly once; a rejection is a configuration error.
type FixedPlacer struct{}

func (FixedPlacer) Place(req Request) (Outcome, error) {
	if err := req.check(); err != nil {
		return Outcome{}, err
	}
	coords := req.Spec.Coordinates
	if len(coords) == 0 {
		return Outcome{}, errors.New(errors.ErrCodeInvalidConfig, "fixed placement of %q needs coordinates", req.Blueprint.Name)
	}
	amount := req.Spec.amount(len(coords), req.Rand)
	if amount > len(coords) {
		return Outcome{}, errors.New(errors.ErrCodeInvalidConfig,
			"amount %d of %q exceeds the %d given coordinates", amount, req.Blueprint.Name, len(coords))
	}

	attrs, err := Randomize(req.Spec, amount, req.Rand)
	if err != nil {
		return Outcome{}, err
	}

	site := req.Site
	ext := site.Extent()
	var out Outcome
	for i := range amount {
		bp, err := req.blueprint()
		if err != nil {
			return out, err
		}
		pos := transform.PercentToAbsolute(coords[i], site.Origin(), ext.X, ext.Y)
		cand := attrs.Apply(i, bp.Instantiate("")).WithPosition(pos)

		out.Attempts++
		ok, err := validate.All(req.Validators, cand, site)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, errors.New(errors.ErrCodePlacementRejected,
				"User specified placement of object '%s' at '%v' in site '%s' could not be satisfied",
				bp.Name, pos.Array(), site.Name())
		}
		obj, err := commit(req, cand, bp.Name)
		if err != nil {
			return out, err
		}
		out.Objects = append(out.Objects, obj)
	}
	return out, nil
}
