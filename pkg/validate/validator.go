// Package validate evaluates ordered rule lists against candidates and
// keeps the per-class footprint index those rules read.
package validate

import (
	"fmt"
	"strings"

	"github.com/matzehuels/scatter/pkg/geom"
	"github.com/matzehuels/scatter/pkg/rule"
	"github.com/matzehuels/scatter/pkg/scene"
)

// Validator holds an ordered rule list and the footprints of everything
// committed through it.
type Validator struct {
	name  string
	rules []rule.Rule
	index rule.Index
	count int
}

// New returns a validator evaluating rules in order.
func New(name string, rules ...rule.Rule) *Validator {
	return &Validator{name: name, rules: rules, index: make(rule.Index)}
}

// Name identifies the validator in logs.
func (v *Validator) Name() string { return v.name }

// Rules returns the configured rules.
func (v *Validator) Rules() []rule.Rule { return v.rules }

// Validate reports whether obj may be committed to site. Rules are
// evaluated in order and evaluation stops at the first rejection. A rule
// failure counts as a rejection.
func (v *Validator) Validate(obj scene.Object, site scene.Site) bool {
	ok, err := v.Check(obj, site)
	return ok && err == nil
}

// Check is Validate that stops at the first rule failure and returns it.
func (v *Validator) Check(obj scene.Object, site scene.Site) (bool, error) {
	fp := obj.Footprint()
	for _, r := range v.rules {
		ok := false
		if c, isChecker := r.(rule.Checker); isChecker {
			var err error
			if ok, err = c.Check(v.index, fp, obj, site); err != nil {
				return false, fmt.Errorf("%s: %v: %w", v.name, r, err)
			}
		} else {
			ok = r.Evaluate(v.index, fp, obj, site)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Add records obj's footprint under its class. Call it after the object
// has been committed to its site.
func (v *Validator) Add(obj scene.Object) {
	v.AddStatic(obj.Class, obj.Footprint())
}

// AddStatic records a footprint that does not belong to a placed object,
// such as a site border.
func (v *Validator) AddStatic(class string, fp geom.Footprint) {
	v.index[class] = append(v.index[class], fp)
	v.count++
}

// Footprints returns the committed footprints of class.
func (v *Validator) Footprints(class string) []geom.Footprint {
	return v.index[class]
}

// Len returns the number of committed footprints.
func (v *Validator) Len() int { return v.count }

func (v *Validator) String() string {
	names := make([]string, len(v.rules))
	for i, r := range v.rules {
		names[i] = fmt.Sprint(r)
	}
	return fmt.Sprintf("%s[%s]", v.name, strings.Join(names, ", "))
}

// All reports whether every validator accepts obj, stopping at the first
// rejection or rule failure.
func All(validators []*Validator, obj scene.Object, site scene.Site) (bool, error) {
	for _, v := range validators {
		ok, err := v.Check(obj, site)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// Commit records obj in every validator.
func Commit(validators []*Validator, obj scene.Object) {
	for _, v := range validators {
		v.Add(obj)
	}
}
