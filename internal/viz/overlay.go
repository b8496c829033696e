package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/MNGARCIA085/shapedetect/internal/dataset"
	"github.com/MNGARCIA085/shapedetect/internal/synth"
)

// Options controls overlay rendering.
type Options struct {
	// Scale is the integer upscale factor applied before drawing.
	// Defaults to 4.
	Scale int
	// ShowLabels draws the class name next to each ground-truth box.
	ShowLabels bool
	// Predicted, when non-nil, holds one predicted box per class to draw
	// in white alongside the ground truth.
	Predicted []synth.Box
}

func (o Options) scale() int {
	if o.Scale <= 0 {
		return 4
	}
	return o.Scale
}

var predictedColor = color.NRGBA{255, 255, 255, 255}

// Overlay returns an upscaled copy of the sample image with its boxes and,
// optionally, predicted boxes and class labels drawn on top.
func Overlay(sample synth.Sample, classes []synth.ClassSpec, opts Options) *image.NRGBA {
	scale := opts.scale()
	side := sample.Image.Bounds().Dx() * scale
	out := imaging.Resize(sample.Image, side, side, imaging.NearestNeighbor)

	for k, box := range sample.Boxes {
		var outline color.NRGBA
		var name string
		if k < len(classes) {
			outline = classes[k].Color
			name = classes[k].Name
		} else {
			outline = predictedColor
			name = fmt.Sprintf("class-%d", k)
		}
		x1, y1, x2, y2 := boxPixels(box, side)
		drawBoxOutline(out, x1, y1, x2, y2, outline)
		if opts.ShowLabels {
			drawLabel(out, x1, y1-2, name, outline)
		}
	}

	for _, box := range opts.Predicted {
		x1, y1, x2, y2 := boxPixels(box, side)
		drawBoxOutline(out, x1, y1, x2, y2, predictedColor)
	}

	return out
}

// ContactSheet lays the set's samples out on a cols-wide grid of overlays.
func ContactSheet(set *dataset.Set, cols int, opts Options) (*image.NRGBA, error) {
	return PredictionSheet(set, nil, cols, opts)
}

// PredictionSheet is ContactSheet with one predicted box set per sample.
// preds may be nil, or shorter than the set; missing entries draw no
// predictions.
func PredictionSheet(set *dataset.Set, preds [][]synth.Box, cols int, opts Options) (*image.NRGBA, error) {
	if set == nil || set.Len() == 0 {
		return nil, fmt.Errorf("viz: no samples to render")
	}
	if cols <= 0 {
		cols = 4
	}
	if cols > set.Len() {
		cols = set.Len()
	}
	rows := (set.Len() + cols - 1) / cols

	tile := set.Config.CanvasSize * opts.scale()
	const gap = 2
	sheet := imaging.New(cols*tile+(cols-1)*gap, rows*tile+(rows-1)*gap, color.NRGBA{32, 32, 32, 255})

	for i, sample := range set.Samples {
		cellOpts := opts
		if i < len(preds) {
			cellOpts.Predicted = preds[i]
		}
		cell := Overlay(sample, set.Config.Classes, cellOpts)
		x := (i % cols) * (tile + gap)
		y := (i / cols) * (tile + gap)
		draw.Draw(sheet, image.Rect(x, y, x+tile, y+tile), cell, image.Point{}, draw.Src)
	}
	return sheet, nil
}

// boxPixels converts a normalized box to pixel corners on a side-length
// square canvas.
func boxPixels(b synth.Box, side int) (x1, y1, x2, y2 int) {
	x1 = int(b.X1 * float64(side))
	y1 = int(b.Y1 * float64(side))
	x2 = int(b.X2 * float64(side))
	y2 = int(b.Y2 * float64(side))
	return clampInt(x1, 0, side-1), clampInt(y1, 0, side-1), clampInt(x2, 0, side-1), clampInt(y2, 0, side-1)
}

// drawBoxOutline draws a one-pixel rectangle outline.
func drawBoxOutline(img *image.NRGBA, x1, y1, x2, y2 int, c color.NRGBA) {
	for x := x1; x <= x2; x++ {
		img.SetNRGBA(x, y1, c)
		img.SetNRGBA(x, y2, c)
	}
	for y := y1; y <= y2; y++ {
		img.SetNRGBA(x1, y, c)
		img.SetNRGBA(x2, y, c)
	}
}

// drawLabel renders text above (x, y) on a dark backing strip so labels stay
// readable over any fill color.
func drawLabel(img *image.NRGBA, x, y int, text string, fg color.NRGBA) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	height := face.Metrics().Height.Ceil()

	top := y - height
	if top < 0 {
		top = 0
	}
	if x+width > img.Bounds().Dx() {
		x = img.Bounds().Dx() - width
		if x < 0 {
			x = 0
		}
	}

	backing := color.NRGBA{0, 0, 0, 180}
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			px, py := x+dx, top+dy
			if image.Pt(px, py).In(img.Bounds()) {
				img.SetNRGBA(px, py, backing)
			}
		}
	}

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(x, top+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
