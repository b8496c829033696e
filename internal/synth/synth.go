package synth

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"

	"github.com/disintegration/imaging"
)

// Kind identifies the geometric shape drawn for a class.
type Kind int

const (
	// KindRectangle is an axis-aligned filled rectangle.
	KindRectangle Kind = iota
	// KindEllipse is a filled ellipse inscribed in the bounding box.
	KindEllipse
)

// String returns a human-readable shape name.
func (k Kind) String() string {
	switch k {
	case KindRectangle:
		return "rectangle"
	case KindEllipse:
		return "ellipse"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ClassSpec describes one object class: its display name, the shape the
// generator draws for it, and the fill color.
type ClassSpec struct {
	Name  string      `json:"name"`
	Shape Kind        `json:"shape"`
	Color color.NRGBA `json:"-"`
}

// edgeSlack is the extra clearance kept between a shape and the far canvas
// edges, on top of the configured margin. With the default 64-pixel canvas,
// 20-pixel shapes and a margin of 5, placements span the closed range [5, 29].
const edgeSlack = 10

// Config carries the generator knobs. Passing it explicitly (rather than
// reading process-wide constants) lets multiple configurations coexist in
// tests.
type Config struct {
	// CanvasSize is the side length S of the square canvas in pixels.
	CanvasSize int
	// ShapeSize is the fixed side length of every shape's bounding box.
	ShapeSize int
	// Margin is the minimum distance from the canvas origin to a shape's
	// top-left corner.
	Margin int
	// Classes lists the object classes, indexed 0..K-1.
	Classes []ClassSpec
}

// DefaultConfig returns the stock two-class configuration: a red square for
// class 0 and a blue circle for class 1 on a 64-pixel canvas.
func DefaultConfig() Config {
	return Config{
		CanvasSize: 64,
		ShapeSize:  20,
		Margin:     5,
		Classes:    DefaultClasses(),
	}
}

// Validate verifies the configuration can place every shape fully inside the
// canvas. A misconfigured shape/canvas combination is a setup error, not a
// runtime failure path.
func (c Config) Validate() error {
	if c.CanvasSize <= 0 {
		return fmt.Errorf("synth: canvas size must be > 0 (got %d)", c.CanvasSize)
	}
	if c.ShapeSize <= 0 {
		return fmt.Errorf("synth: shape size must be > 0 (got %d)", c.ShapeSize)
	}
	if c.Margin < 0 {
		return fmt.Errorf("synth: margin must be >= 0 (got %d)", c.Margin)
	}
	if len(c.Classes) == 0 {
		return fmt.Errorf("synth: at least one class is required")
	}
	if c.placeMax() < c.placeMin() {
		return fmt.Errorf("synth: shape size %d with margin %d does not fit a %d-pixel canvas",
			c.ShapeSize, c.Margin, c.CanvasSize)
	}
	return nil
}

// placeMin and placeMax bound the closed range shapes' top-left corners are
// drawn from.
func (c Config) placeMin() int { return c.Margin }

func (c Config) placeMax() int { return c.CanvasSize - c.ShapeSize - c.Margin - edgeSlack }

// Box is a normalized bounding box: pixel coordinates divided by the canvas
// side length, so every component lies in [0, 1].
type Box struct {
	X1 float64 `json:"x1"` // Left edge
	Y1 float64 `json:"y1"` // Top edge
	X2 float64 `json:"x2"` // Right edge
	Y2 float64 `json:"y2"` // Bottom edge
}

// Width returns the normalized horizontal extent (X2 - X1).
func (b Box) Width() float64 { return b.X2 - b.X1 }

// Height returns the normalized vertical extent (Y2 - Y1).
func (b Box) Height() float64 { return b.Y2 - b.Y1 }

// Sample is one labeled training example.
//
// Presence[k] is 1 if class k's object was drawn (always 1 with this
// generator) and Boxes[k] is the normalized bounding box of class k's shape.
// A sample is never mutated after creation.
type Sample struct {
	Image    *image.NRGBA
	Presence []float64
	Boxes    []Box
}

// Generator produces samples from a configuration and a seeded random
// source. It is not safe for concurrent use; the random stream is the only
// state shared between successive samples.
type Generator struct {
	cfg Config
	rng *rand.Rand
}

// NewGenerator validates cfg and constructs a generator seeded with seed.
func NewGenerator(cfg Config, seed int64) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed))}, nil
}

// Config returns the generator's configuration.
func (g *Generator) Config() Config { return g.cfg }

// Sample generates one labeled example: a black canvas with one shape drawn
// per class, the all-ones presence vector, and one normalized box per class.
//
// Placement is uniform over the closed range [Margin, S-ShapeSize-Margin-10]
// for both coordinates, which keeps every shape fully inside the canvas.
// Shapes of different classes may overlap; no collision avoidance is
// attempted.
func (g *Generator) Sample() Sample {
	corners := make([]image.Point, len(g.cfg.Classes))
	for k := range corners {
		// Per class: x first, then y. Keeping this order fixed makes
		// seeded runs bit-identical.
		x := g.placeCoord()
		y := g.placeCoord()
		corners[k] = image.Point{X: x, Y: y}
	}
	return g.render(corners)
}

// render draws one shape per class with the given top-left corners and
// assembles the labels. Split from Sample so placement arithmetic is
// testable with fixed coordinates.
func (g *Generator) render(corners []image.Point) Sample {
	cfg := g.cfg
	s := float64(cfg.CanvasSize)
	canvas := imaging.New(cfg.CanvasSize, cfg.CanvasSize, color.NRGBA{0, 0, 0, 255})

	presence := make([]float64, len(cfg.Classes))
	boxes := make([]Box, len(cfg.Classes))

	for k, class := range cfg.Classes {
		x1 := corners[k].X
		y1 := corners[k].Y
		x2 := x1 + cfg.ShapeSize
		y2 := y1 + cfg.ShapeSize

		fillShape(canvas, class.Shape, x1, y1, x2, y2, class.Color)

		presence[k] = 1
		boxes[k] = Box{
			X1: float64(x1) / s,
			Y1: float64(y1) / s,
			X2: float64(x2) / s,
			Y2: float64(y2) / s,
		}
	}

	return Sample{Image: canvas, Presence: presence, Boxes: boxes}
}

// placeCoord draws one top-left coordinate uniformly from the closed
// placement range.
func (g *Generator) placeCoord() int {
	lo := g.cfg.placeMin()
	hi := g.cfg.placeMax()
	return lo + g.rng.Intn(hi-lo+1)
}

// fillShape renders a filled shape into img over the pixel region
// [x1,y1)-(x2,y2). Rectangles fill the whole region; ellipses fill the
// inscribed ellipse.
func fillShape(img *image.NRGBA, kind Kind, x1, y1, x2, y2 int, c color.NRGBA) {
	switch kind {
	case KindEllipse:
		// Center and radii of the inscribed ellipse.
		cx := (float64(x1) + float64(x2) - 1) / 2
		cy := (float64(y1) + float64(y2) - 1) / 2
		rx := float64(x2-x1) / 2
		ry := float64(y2-y1) / 2
		for y := y1; y < y2; y++ {
			for x := x1; x < x2; x++ {
				dx := (float64(x) - cx) / rx
				dy := (float64(y) - cy) / ry
				if dx*dx+dy*dy <= 1 {
					img.SetNRGBA(x, y, c)
				}
			}
		}
	default:
		for y := y1; y < y2; y++ {
			for x := x1; x < x2; x++ {
				img.SetNRGBA(x, y, c)
			}
		}
	}
}
