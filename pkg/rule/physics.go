package rule

import (
	"fmt"

	"github.com/matzehuels/scatter/pkg/errors"
	"github.com/matzehuels/scatter/pkg/geom"
	"github.com/matzehuels/scatter/pkg/scene"
)

// PhysicsMinDistance checks clearance with the site's scene graph. The
// candidate is attached with a contact margin of Distance, one step is
// evaluated, and the candidate is detached again whatever the outcome.
//
// A contact between two geoms of the candidate itself (parts of a composite
// object) does not count. A site without a scene graph accepts everything.
type PhysicsMinDistance struct {
	Distance float64
}

// Evaluate rejects the candidate when the scene graph fails. Use Check to
// tell a failure apart from a rejection.
func (r PhysicsMinDistance) Evaluate(idx Index, fp geom.Footprint, obj scene.Object, site scene.Site) bool {
	ok, err := r.Check(idx, fp, obj, site)
	return ok && err == nil
}

// Check is Evaluate with scene graph failures reported as INTERNAL_ERROR.
func (r PhysicsMinDistance) Check(_ Index, _ geom.Footprint, obj scene.Object, site scene.Site) (ok bool, err error) {
	g := site.SceneGraph()
	if g == nil {
		return true, nil
	}

	h, err := g.Attach(obj, r.Distance)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInternal, err, "attach %s to scene graph of %s", obj.ID, site.Name())
	}
	defer func() {
		if derr := g.Detach(h); derr != nil && err == nil {
			ok, err = false, errors.Wrap(errors.ErrCodeInternal, derr, "detach %s from scene graph of %s", obj.ID, site.Name())
		}
	}()

	own := make(map[scene.GeomID]bool)
	for _, id := range g.Geoms(h) {
		own[id] = true
	}

	contacts, err := g.Step()
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInternal, err, "step scene graph of %s", site.Name())
	}
	for _, c := range contacts {
		if own[c.A] != own[c.B] {
			return false, nil
		}
	}
	return true, nil
}

func (r PhysicsMinDistance) String() string {
	return fmt.Sprintf("PhysicsMinDistance[%g]", r.Distance)
}
