package placement

import (
	"github.com/matzehuels/scatter/pkg/errors"
	"github.com/matzehuels/scatter/pkg/geom"
	"github.com/matzehuels/scatter/pkg/scene"
)

// BorderPlacer fences the environment with four copies of a border
// blueprint. The blueprint's half extents give the strip thickness; each
// strip is stretched along its side so the fence closes at the corners.
// Border objects bypass validation. Instead, every validator receives the
// environment outline as a static footprint under the border class.
type BorderPlacer struct {
	Enabled bool
}

func (p BorderPlacer) Place(req Request) (Outcome, error) {
	if !p.Enabled {
		return Outcome{}, nil
	}
	if err := req.check(); err != nil {
		return Outcome{}, err
	}
	env, ok := req.Site.(*scene.Environment)
	if !ok {
		return Outcome{}, errors.New(errors.ErrCodeInvalidInput, "borders can only be placed in the environment, not %q", req.Site.Name())
	}

	bp := req.Blueprint
	ext := env.Extent()
	bx, by, bz := bp.Size.X, bp.Size.Y, bp.Size.Z

	strips := []struct {
		pos  geom.Vec3
		size geom.Vec3
	}{
		{geom.V3(0, ext.Y+by, bz), geom.V3(ext.X+2*bx, by, bz)},  // top
		{geom.V3(0, -ext.Y-by, bz), geom.V3(ext.X+2*bx, by, bz)}, // bottom
		{geom.V3(ext.X+bx, 0, bz), geom.V3(bx, ext.Y, bz)},       // right
		{geom.V3(-ext.X-bx, 0, bz), geom.V3(bx, ext.Y, bz)},      // left
	}

	var out Outcome
	for _, s := range strips {
		obj := bp.Instantiate("").WithSize(s.size).WithPosition(s.pos)
		obj, err := commit(Request{Site: env, IDs: req.IDs}, obj, bp.Name)
		if err != nil {
			return out, err
		}
		out.Objects = append(out.Objects, obj)
	}

	class := out.Objects[0].Class
	ring := geom.RingFootprint(env.Bounds())
	for _, v := range req.Validators {
		v.AddStatic(class, ring)
	}
	return out, nil
}
