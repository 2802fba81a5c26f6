// Package pkg holds the libraries behind scatter, a procedural scene
// generator that places objects into an environment and its areas while
// enforcing per-site rules.
//
// # Packages
//
// Geometry and model:
//
//   - [geom]: vectors, rectangles and object footprints
//   - [scene]: blueprints, catalogs, objects, the environment and areas
//   - [layout]: tiling a rectangle into near-square areas
//
// Placement:
//
//   - [distribution]: seeded sampling of positions and values
//   - [transform]: conversion between percent, environment and area frames
//   - [rule]: placement rules (boundary, min distance, height, physics)
//   - [physics]: the collision world backing physics rules
//   - [validate]: per-site rule evaluation and commit
//   - [placement]: random, fixed and border placers
//
// Configuration and output:
//
//   - [config]: scene configs and blueprint catalogs (YAML, TOML, JSON)
//   - [sceneio]: the scene document and its JSON, msgpack and MJCF codecs
//   - [render]: top-down SVG plots, DOT graphs, PNG and PDF conversion
//   - [pipeline]: config to exported scene, with caching
//
// Infrastructure:
//
//   - [cache]: file, Redis and null caches for scenes and layouts
//   - [store]: file and MongoDB storage for generated scenes
//   - [observability]: pipeline, cache and server hooks
//   - [httputil]: JSON request and error helpers for the HTTP API
//   - [errors]: coded errors shared by every package
//   - [buildinfo]: version information from ldflags or the embedded module stamp
//
// # Quick Start
//
//	cfg, err := config.Load("park.yaml")
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Config:  cfg,
//	    Formats: []string{"json", "mjcf"},
//	})
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/scatter/pkg/geom
// [scene]: https://pkg.go.dev/github.com/matzehuels/scatter/pkg/scene
// [layout]: https://pkg.go.dev/github.com/matzehuels/scatter/pkg/layout
// [distribution]: https://pkg.go.dev/github.com/matzehuels/scatter/pkg/distribution
// [transform]: https://pkg.go.dev/github.com/matzehuels/scatter/pkg/transform
// [rule]: https://pkg.go.dev/github.com/matzehuels/scatter/pkg/rule
// [physics]: https://pkg.go.dev/github.com/matzehuels/scatter/pkg/physics
// [validate]: https://pkg.go.dev/github.com/matzehuels/scatter/pkg/validate
// [placement]: https://pkg.go.dev/github.com/matzehuels/scatter/pkg/placement
// [config]: https://pkg.go.dev/github.com/matzehuels/scatter/pkg/config
// [sceneio]: https://pkg.go.dev/github.com/matzehuels/scatter/pkg/sceneio
// [render]: https://pkg.go.dev/github.com/matzehuels/scatter/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/scatter/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/scatter/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/scatter/pkg/store
// [observability]: https://pkg.go.dev/github.com/matzehuels/scatter/pkg/observability
// [httputil]: https://pkg.go.dev/github.com/matzehuels/scatter/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/scatter/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/scatter/pkg/buildinfo
package pkg
