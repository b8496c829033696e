// Package synth generates labeled synthetic detection samples.
//
// Each sample is a square RGB canvas with exactly one filled shape drawn per
// configured class, together with a per-class presence vector and a per-class
// normalized bounding box. Repeated generation from a seeded source produces
// an entire reproducible dataset.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with origin at the top-left corner:
//   - X increases rightward, Y increases downward
//   - A box (x1, y1, x2, y2) has inclusive top-left and exclusive bottom-right
//
// Normalized boxes divide pixel coordinates by the canvas side length, so all
// four components lie in [0, 1] and x1 < x2, y1 < y2 always holds.
//
// # Labeling Convention
//
// The generator draws one instance of every class into every sample, so the
// presence vector is the all-ones vector of length K. Box k always describes
// the shape drawn for class k; there is no matching step downstream. Shapes
// of different classes may overlap; the generator performs no collision
// avoidance, and later classes paint over earlier ones.
//
// # Determinism
//
// A Generator owns a single *rand.Rand. Per sample, classes consume the
// random stream in class order, two draws per class (x1 then y1). Two
// generators seeded identically therefore produce bit-identical datasets.
//
// # Error Handling
//
// Sample generation cannot fail at runtime. The only invalid state is a
// configuration whose placement range is empty (shape too large for the
// canvas), which Config.Validate rejects up front.
package synth
