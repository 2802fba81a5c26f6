// Package rule defines the spatial predicates a candidate placement must
// satisfy.
//
// A [Rule] is a single-method capability: given the footprints already
// committed to a validator, the candidate's footprint, the candidate itself
// and the target site, it accepts or rejects. Rules never mutate the index.
// The physics rule touches the site's scene graph, but always restores it
// before returning.
//
// Rules that can fail implement [Checker].
//
// Rules compose as an ordered list evaluated with short-circuit AND (see
// package validate). Put cheap geometric rules before [PhysicsMinDistance].
package rule

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/matzehuels/scatter/pkg/geom"
	"github.com/matzehuels/scatter/pkg/scene"
)

// Index maps a class name to the footprints committed under it.
type Index map[string][]geom.Footprint

// Rule is a pure predicate over a validator index and a candidate.
type Rule interface {
	Evaluate(idx Index, fp geom.Footprint, obj scene.Object, site scene.Site) bool
}

// Checker is a Rule whose evaluation can fail for reasons unrelated to the
// candidate, such as a broken scene graph. Validators prefer Check so the
// failure aborts placement instead of counting as a rejection.
type Checker interface {
	Rule
	Check(idx Index, fp geom.Footprint, obj scene.Object, site scene.Site) (bool, error)
}

// Func adapts a plain function to the Rule interface.
type Func func(idx Index, fp geom.Footprint, obj scene.Object, site scene.Site) bool

// Evaluate calls f.
func (f Func) Evaluate(idx Index, fp geom.Footprint, obj scene.Object, site scene.Site) bool {
	return f(idx, fp, obj, site)
}

// Boundary accepts points inside Rect (edges included) and other footprints
// that intersect it.
type Boundary struct {
	Rect geom.Rect
}

func (b Boundary) Evaluate(_ Index, fp geom.Footprint, _ scene.Object, _ scene.Site) bool {
	if fp.Kind == geom.KindPoint {
		return fp.Within(b.Rect)
	}
	return fp.Intersects(b.Rect)
}

func (b Boundary) String() string {
	return fmt.Sprintf("Boundary[%g,%g..%g,%g]", b.Rect.Min.X, b.Rect.Min.Y, b.Rect.Max.X, b.Rect.Max.Y)
}

// MinDistance rejects a candidate closer than Distance to any committed
// footprint whose class matches one of the filters. With no filters every
// class is checked.
type MinDistance struct {
	Distance float64
	classes  []*regexp.Regexp
}

// NewMinDistance compiles the class filters. Each filter is a regular
// expression matched anywhere in the class name.
func NewMinDistance(distance float64, classes ...string) (*MinDistance, error) {
	r := &MinDistance{Distance: distance}
	for _, c := range classes {
		re, err := regexp.Compile(c)
		if err != nil {
			return nil, fmt.Errorf("class filter %q: %w", c, err)
		}
		r.classes = append(r.classes, re)
	}
	return r, nil
}

func (r *MinDistance) Evaluate(idx Index, fp geom.Footprint, _ scene.Object, _ scene.Site) bool {
	for class, fps := range idx {
		if !r.matches(class) {
			continue
		}
		for _, other := range fps {
			if geom.Distance(fp, other) < r.Distance {
				return false
			}
		}
	}
	return true
}

func (r *MinDistance) matches(class string) bool {
	if len(r.classes) == 0 {
		return true
	}
	for _, re := range r.classes {
		if re.MatchString(class) {
			return true
		}
	}
	return false
}

func (r *MinDistance) String() string {
	if len(r.classes) == 0 {
		return fmt.Sprintf("MinAllDistance[%g]", r.Distance)
	}
	pats := make([]string, len(r.classes))
	for i, re := range r.classes {
		pats[i] = re.String()
	}
	return fmt.Sprintf("MinDistance[%g %s]", r.Distance, strings.Join(pats, "|"))
}

// Height accepts candidates whose z coordinate is at or above GroundLevel.
type Height struct {
	GroundLevel float64
}

func (h Height) Evaluate(_ Index, _ geom.Footprint, obj scene.Object, _ scene.Site) bool {
	return obj.Position.Z >= h.GroundLevel
}

func (h Height) String() string { return fmt.Sprintf("Height[%g]", h.GroundLevel) }

var (
	_ Rule = Func(nil)
	_ Rule = Boundary{}
	_ Rule = (*MinDistance)(nil)
	_ Rule = Height{}
	_ Rule = PhysicsMinDistance{}
)
