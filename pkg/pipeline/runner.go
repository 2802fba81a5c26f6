package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scatter/pkg/cache"
	"github.com/matzehuels/scatter/pkg/observability"
	"github.com/matzehuels/scatter/pkg/sceneio"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so scenes are cached the same way.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute generates the scene (or loads it from the cache) and exports it.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}
	doc, hit, stats, err := r.SceneWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.Stats = stats
	result.CacheInfo.SceneHit = hit

	if hit {
		r.Logger.Info("loaded scene from cache", "seed", doc.Seed, "objects", doc.Count())
	} else {
		r.Logger.Info("placed objects",
			"seed", doc.Seed,
			"sites", stats.Sites,
			"objects", stats.Objects,
			"attempts", stats.Attempts,
			"duration", stats.PlacementTime)
	}

	exportStart := time.Now()
	artifacts, err := Export(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)
	result.Stats.Sites = len(doc.Sites())
	result.Stats.Objects = doc.Count()

	r.Logger.Info("exported scene",
		"formats", opts.Formats,
		"duration", result.Stats.ExportTime)
	return result, nil
}

// SceneWithCacheInfo resolves the seed and returns the scene for it,
// reporting whether it came from the cache. Placement failures are not
// cached.
func (r *Runner) SceneWithCacheInfo(ctx context.Context, opts Options) (sceneio.Document, bool, Stats, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return sceneio.Document{}, false, Stats{}, err
	}

	seed := ResolveSeed(opts)
	key := r.Keyer.SceneKey(cache.SceneKeyOpts{
		ConfigHash:  opts.ConfigHash,
		CatalogHash: opts.CatalogHash,
		Seed:        seed,
	})
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			doc, err := sceneio.DecodeMsgpack(data)
			if err == nil {
				hooks.OnCacheHit(ctx, key)
				return doc, true, Stats{Sites: len(doc.Sites()), Objects: doc.Count()}, nil
			}
			r.Logger.Warn("discarding unreadable cache entry", "key", key, "err", err)
		} else if err != nil {
			r.Logger.Warn("cache lookup failed", "key", key, "err", err)
		}
		hooks.OnCacheMiss(ctx, key)
	}

	opts.Seed = &seed
	doc, stats, err := Generate(ctx, opts, seed)
	if err != nil {
		return sceneio.Document{}, false, stats, err
	}

	if data, err := sceneio.EncodeMsgpack(doc); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.SceneTTL); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
		} else {
			hooks.OnCacheSet(ctx, key, len(data))
		}
	}
	return doc, false, stats, nil
}

// Scene is a convenience wrapper that discards the cache hit info.
func (r *Runner) Scene(ctx context.Context, opts Options) (sceneio.Document, error) {
	doc, _, _, err := r.SceneWithCacheInfo(ctx, opts)
	return doc, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

