package scene

import (
	"github.com/matzehuels/scatter/pkg/errors"
)

// Catalog is a read-only set of blueprints keyed by name.
type Catalog struct {
	blueprints map[string]Blueprint
	order      []string
}

// NewCatalog validates bps and indexes them by name. Names must be unique.
func NewCatalog(bps ...Blueprint) (*Catalog, error) {
	c := &Catalog{blueprints: make(map[string]Blueprint, len(bps))}
	for _, bp := range bps {
		if err := bp.Validate(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "invalid blueprint")
		}
		if _, dup := c.blueprints[bp.Name]; dup {
			return nil, errors.New(errors.ErrCodeInvalidCatalog, "duplicate blueprint %q", bp.Name)
		}
		c.blueprints[bp.Name] = bp
		c.order = append(c.order, bp.Name)
	}
	return c, nil
}

// Get returns the blueprint called name.
func (c *Catalog) Get(name string) (Blueprint, error) {
	bp, ok := c.blueprints[name]
	if !ok {
		return Blueprint{}, errors.New(errors.ErrCodeUnknownBlueprint, "unknown blueprint %q", name)
	}
	return bp, nil
}

// Has reports whether name is in the catalog.
func (c *Catalog) Has(name string) bool {
	_, ok := c.blueprints[name]
	return ok
}

// Names lists blueprint names in load order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

func (c *Catalog) Len() int { return len(c.order) }
