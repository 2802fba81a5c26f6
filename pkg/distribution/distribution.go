// Package distribution provides the 2D samplers that RandomPlacer draws
// candidate positions from.
//
// The set of kinds is closed: [Uniform], [Normal], [Circular] and
// [RandomWalk]. Each has its own typed parameter record whose nil fields
// fall back to defaults derived from the environment extent, so a bare
// {kind: uniform} spreads objects over the whole environment.
//
// Samplers work in the environment frame (centered on the origin). Placing
// into an area is the caller's job: remap the sample with
// transform.RemapToArea.
package distribution

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/scatter/pkg/errors"
	"github.com/matzehuels/scatter/pkg/geom"
)

// Kind names a distribution.
type Kind string

const (
	Uniform    Kind = "uniform"
	Normal     Kind = "normal"
	Circular   Kind = "circular"
	RandomWalk Kind = "random_walk"
)

// Kinds lists every supported kind in documentation order.
var Kinds = []Kind{Uniform, Normal, Circular, RandomWalk}

// ParseKind converts a configuration string into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidConfig,
		"unknown distribution %q (must be one of: uniform, normal, circular, random_walk)", s)
}

// UniformParams samples x in [Low.X, High.X] and y in [Low.Y, High.Y].
// Defaults: Low = (-hx, -hy), High = (hx, hy).
type UniformParams struct {
	Low  *geom.Point
	High *geom.Point
}

// NormalParams samples from a bivariate normal distribution.
// Defaults: Mean = (0, 0), Cov = diag(hx, hy).
type NormalParams struct {
	Mean *geom.Point
	Cov  *[2][2]float64
}

// CircularParams samples the radius as sqrt(U(Loc, Scale²)) and the angle
// uniformly in [0, 2π). Defaults: Loc = 0, Scale = min(hx, hy).
type CircularParams struct {
	Loc   *float64
	Scale *float64
}

// RandomWalkParams takes a step of length U(Step[0], Step[1]) in a random
// direction from the previous position, clipped to [Low, High].
// Defaults: Step = [5, 10], Low = (-hx, -hy), High = (hx, hy), Start = (0, 0).
type RandomWalkParams struct {
	Step  *[2]float64
	Low   *geom.Point
	High  *geom.Point
	Start *geom.Point
}

// Spec selects a kind and carries its parameters. Only the record matching
// Kind is consulted.
type Spec struct {
	Kind       Kind
	Uniform    UniformParams
	Normal     NormalParams
	Circular   CircularParams
	RandomWalk RandomWalkParams
}

// Sampler draws successive positions.
type Sampler interface {
	Sample() geom.Point
}

// NewRand returns the seeded generator used for every random choice of a run.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// New builds a sampler for spec. extent is the environment half extent that
// defaults are derived from. An empty Kind means Uniform.
func New(spec Spec, extent geom.Vec3, rng *rand.Rand) (Sampler, error) {
	hx, hy := extent.X, extent.Y
	switch spec.Kind {
	case Uniform, "":
		p := spec.Uniform
		low := pointOr(p.Low, geom.Point{X: -hx, Y: -hy})
		high := pointOr(p.High, geom.Point{X: hx, Y: hy})
		if low.X > high.X || low.Y > high.Y {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "uniform: low %v exceeds high %v", low, high)
		}
		return &uniform{low: low, high: high, rng: rng}, nil

	case Normal:
		p := spec.Normal
		mean := pointOr(p.Mean, geom.Point{})
		cov := [2][2]float64{{hx, 0}, {0, hy}}
		if p.Cov != nil {
			cov = *p.Cov
		}
		chol, err := cholesky(cov)
		if err != nil {
			return nil, err
		}
		return &normal{mean: mean, chol: chol, rng: rng}, nil

	case Circular:
		p := spec.Circular
		loc := floatOr(p.Loc, 0)
		scale := floatOr(p.Scale, math.Min(hx, hy))
		if loc < 0 || scale <= 0 || loc > scale*scale {
			return nil, errors.New(errors.ErrCodeInvalidConfig,
				"circular: need 0 <= loc <= scale², got loc=%g scale=%g", loc, scale)
		}
		return &circular{loc: loc, scale: scale, rng: rng}, nil

	case RandomWalk:
		p := spec.RandomWalk
		step := [2]float64{5, 10}
		if p.Step != nil {
			step = *p.Step
		}
		low := pointOr(p.Low, geom.Point{X: -hx, Y: -hy})
		high := pointOr(p.High, geom.Point{X: hx, Y: hy})
		if step[0] < 0 || step[0] > step[1] {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "random_walk: invalid step range %v", step)
		}
		if low.X > high.X || low.Y > high.Y {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "random_walk: low %v exceeds high %v", low, high)
		}
		return &randomWalk{
			step: step, low: low, high: high,
			pos: pointOr(p.Start, geom.Point{}),
			rng: rng,
		}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown distribution %q", spec.Kind)
}

type uniform struct {
	low, high geom.Point
	rng       *rand.Rand
}

func (u *uniform) Sample() geom.Point {
	return geom.Point{
		X: between(u.rng, u.low.X, u.high.X),
		Y: between(u.rng, u.low.Y, u.high.Y),
	}
}

type normal struct {
	mean geom.Point
	chol [2][2]float64 // lower triangular
	rng  *rand.Rand
}

func (n *normal) Sample() geom.Point {
	z1, z2 := n.rng.NormFloat64(), n.rng.NormFloat64()
	return geom.Point{
		X: n.mean.X + n.chol[0][0]*z1,
		Y: n.mean.Y + n.chol[1][0]*z1 + n.chol[1][1]*z2,
	}
}

type circular struct {
	loc, scale float64
	rng        *rand.Rand
}

func (c *circular) Sample() geom.Point {
	r := math.Sqrt(between(c.rng, c.loc, c.scale*c.scale))
	s, co := math.Sincos(between(c.rng, 0, 2*math.Pi))
	return geom.Point{X: r * co, Y: r * s}
}

// randomWalk is stateful: each sample starts from the previous one.
type randomWalk struct {
	step      [2]float64
	low, high geom.Point
	pos       geom.Point
	rng       *rand.Rand
}

func (w *randomWalk) Sample() geom.Point {
	l := between(w.rng, w.step[0], w.step[1])
	s, c := math.Sincos(between(w.rng, 0, 2*math.Pi))
	w.pos.X = clamp(w.pos.X+l*c, w.low.X, w.high.X)
	w.pos.Y = clamp(w.pos.Y+l*s, w.low.Y, w.high.Y)
	return w.pos
}

func cholesky(m [2][2]float64) ([2][2]float64, error) {
	var l [2][2]float64
	if m[0][1] != m[1][0] {
		return l, errors.New(errors.ErrCodeInvalidConfig, "normal: covariance %v is not symmetric", m)
	}
	if m[0][0] <= 0 {
		return l, errors.New(errors.ErrCodeInvalidConfig, "normal: covariance %v is not positive definite", m)
	}
	l[0][0] = math.Sqrt(m[0][0])
	l[1][0] = m[1][0] / l[0][0]
	rest := m[1][1] - l[1][0]*l[1][0]
	if rest < 0 {
		return l, errors.New(errors.ErrCodeInvalidConfig, "normal: covariance %v is not positive semi-definite", m)
	}
	l[1][1] = math.Sqrt(rest)
	return l, nil
}

func between(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func pointOr(p *geom.Point, def geom.Point) geom.Point {
	if p == nil {
		return def
	}
	return *p
}

func floatOr(f *float64, def float64) float64 {
	if f == nil {
		return def
	}
	return *f
}

// String implements fmt.Stringer for log output.
func (s Spec) String() string {
	if s.Kind == "" {
		return string(Uniform)
	}
	return string(s.Kind)
}
