package config

import (
	"encoding/json"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/scatter/pkg/placement"
)

// IntRange is an inclusive integer range written either as a scalar (3) or
// as a pair ([3, 6]).
type IntRange struct {
	Min, Max int
}

// FloatRange is a real range written either as a scalar or as a pair.
type FloatRange struct {
	Min, Max float64
}

func (r *IntRange) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	return r.set(v)
}

func (r *IntRange) UnmarshalTOML(v any) error { return r.set(v) }

func (r *IntRange) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return r.set(v)
}

func (r IntRange) MarshalJSON() ([]byte, error) { return json.Marshal([2]int{r.Min, r.Max}) }

func (r IntRange) MarshalYAML() (any, error) { return []int{r.Min, r.Max}, nil }

func (r *IntRange) set(v any) error {
	lo, hi, err := pair(v)
	if err != nil {
		return err
	}
	if lo != math.Trunc(lo) || hi != math.Trunc(hi) {
		return fmt.Errorf("expected integers, got [%g, %g]", lo, hi)
	}
	r.Min, r.Max = int(lo), int(hi)
	return nil
}

func (r *FloatRange) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	return r.set(v)
}

func (r *FloatRange) UnmarshalTOML(v any) error { return r.set(v) }

func (r *FloatRange) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return r.set(v)
}

func (r FloatRange) MarshalJSON() ([]byte, error) { return json.Marshal([2]float64{r.Min, r.Max}) }

func (r FloatRange) MarshalYAML() (any, error) { return []float64{r.Min, r.Max}, nil }

func (r *FloatRange) set(v any) error {
	lo, hi, err := pair(v)
	if err != nil {
		return err
	}
	r.Min, r.Max = lo, hi
	return nil
}

// Placement converts r, which may be nil, for the placement engine.
func (r *IntRange) Placement() *placement.IntRange {
	if r == nil {
		return nil
	}
	return &placement.IntRange{Min: r.Min, Max: r.Max}
}

// Placement converts r, which may be nil, for the placement engine.
func (r *FloatRange) Placement() *placement.FloatRange {
	if r == nil {
		return nil
	}
	return &placement.FloatRange{Min: r.Min, Max: r.Max}
}

func (r IntRange) valid() bool   { return r.Min <= r.Max }
func (r FloatRange) valid() bool { return r.Min <= r.Max }

// pair decodes a scalar or a one- or two-element list as produced by the
// YAML, TOML and JSON decoders.
func pair(v any) (float64, float64, error) {
	if f, ok := number(v); ok {
		return f, f, nil
	}
	list, ok := v.([]any)
	if !ok {
		return 0, 0, fmt.Errorf("expected a number or [min, max], got %T", v)
	}
	switch len(list) {
	case 1:
		if f, ok := number(list[0]); ok {
			return f, f, nil
		}
	case 2:
		lo, ok1 := number(list[0])
		hi, ok2 := number(list[1])
		if ok1 && ok2 {
			return lo, hi, nil
		}
	}
	return 0, 0, fmt.Errorf("expected a number or [min, max], got %v", v)
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
