package pipeline

import (
	"context"
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/scatter/pkg/cache"
	"github.com/matzehuels/scatter/pkg/errors"
	"github.com/matzehuels/scatter/pkg/layout"
	"github.com/matzehuels/scatter/pkg/scene"
)

// LayoutResult is the tiling of a rectangle and the candidates it was
// chosen from.
type LayoutResult struct {
	Best       layout.Candidate   `json:"best" msgpack:"best"`
	Candidates []layout.Candidate `json:"candidates" msgpack:"candidates"`
	Tiles      []layout.Tile      `json:"tiles" msgpack:"tiles"`
}

// Layout tiles a length x height rectangle into n areas, using the cache
// for repeated requests. Tiles are in the rectangle's own frame with the
// origin at its corner.
func (r *Runner) Layout(ctx context.Context, length, height float64, n int) (LayoutResult, bool, error) {
	key := r.Keyer.LayoutKey(length, height, n)
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var res LayoutResult
		if err := msgpack.Unmarshal(data, &res); err == nil {
			return res, true, nil
		}
	}

	tiles, err := layout.Tiling(length, height, n)
	if err != nil {
		return LayoutResult{}, false, err
	}
	best, err := layout.Best(length, height, n)
	if err != nil {
		return LayoutResult{}, false, err
	}
	res := LayoutResult{
		Best:       best,
		Candidates: layout.Candidates(length, height, n),
		Tiles:      tiles,
	}
	if data, err := msgpack.Marshal(res); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.LayoutTTL)
	}
	return res, false, nil
}

// CatalogHash fingerprints the blueprints of c for cache keys.
func CatalogHash(c *scene.Catalog) (string, error) {
	bps := make([]scene.Blueprint, 0, c.Len())
	for _, name := range c.Names() {
		bp, err := c.Get(name)
		if err != nil {
			return "", err
		}
		bps = append(bps, bp)
	}
	data, err := json.Marshal(bps)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidCatalog, err, "hash catalog")
	}
	return cache.Hash(data), nil
}
