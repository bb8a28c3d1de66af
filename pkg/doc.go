// Package pkg provides the libraries behind zenposter, a generator of calm,
// minimalist wall art that is reproducible from a seed.
//
// # Overview
//
// An artwork is fully determined by its mode, palette, seed and index. The
// same inputs always reproduce the same pixels, so a batch can be rebuilt
// file for file, and a preview server can cache renders by their inputs.
//
// # Architecture
//
//	[scene] mode + palette + seeded rng
//	         ↓
//	[primitive] shapes drawn onto a [canvas]
//	         ↓
//	[texture] grain, wash, vignette, deckle, sharpen
//	         ↓
//	[typography] title and subtitle
//	         ↓
//	[export] web JPEGs, print PNGs at physical sizes, room mockups
//
// [pipeline] wires the stages together, derives per-stage seeds, runs
// batches on a bounded worker pool and writes metadata. [cache] stores
// encoded previews on disk or in Redis.
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, log.Default())
//	res, err := runner.GenerateBatch(ctx, pipeline.BatchOptions{
//	    OutDir: "posters",
//	    Count:  8,
//	    Seed:   4242,
//	})
//	if err != nil {
//	    return err
//	}
//	for _, md := range res.Metadata() {
//	    fmt.Println(md.SKU, md.Title, md.WebMaster)
//	}
//
// # Supporting Packages
//
//   - [colors]: hex parsing, palettes, blending
//   - [fonts]: installed-font lookup with an embedded fallback
//   - [config]: TOML configuration
//   - [errors]: coded errors and input validation
//   - [observability]: hooks for metrics and tracing
//   - [buildinfo]: version stamped at build time
//
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/zenposter/pkg/buildinfo
// [cache]: https://pkg.go.dev/github.com/matzehuels/zenposter/pkg/cache
// [canvas]: https://pkg.go.dev/github.com/matzehuels/zenposter/pkg/canvas
// [colors]: https://pkg.go.dev/github.com/matzehuels/zenposter/pkg/colors
// [config]: https://pkg.go.dev/github.com/matzehuels/zenposter/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/zenposter/pkg/errors
// [export]: https://pkg.go.dev/github.com/matzehuels/zenposter/pkg/export
// [fonts]: https://pkg.go.dev/github.com/matzehuels/zenposter/pkg/fonts
// [observability]: https://pkg.go.dev/github.com/matzehuels/zenposter/pkg/observability
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/zenposter/pkg/pipeline
// [primitive]: https://pkg.go.dev/github.com/matzehuels/zenposter/pkg/primitive
// [scene]: https://pkg.go.dev/github.com/matzehuels/zenposter/pkg/scene
// [texture]: https://pkg.go.dev/github.com/matzehuels/zenposter/pkg/texture
// [typography]: https://pkg.go.dev/github.com/matzehuels/zenposter/pkg/typography
package pkg
