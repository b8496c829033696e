// Package dataset collects generated samples into ordered, index-aligned
// sets and converts them between in-memory, tensor, and on-disk forms.
package dataset

import (
	"fmt"

	"gorgonia.org/tensor"

	"github.com/MNGARCIA085/shapedetect/internal/synth"
)

// Set is an ordered sequence of independently generated samples. The i-th
// image, presence vector and box set always describe the same example.
type Set struct {
	Config  synth.Config
	Samples []synth.Sample
}

// Build invokes the generator count times and collects the results in call
// order.
func Build(gen *synth.Generator, count int) (*Set, error) {
	if count <= 0 {
		return nil, fmt.Errorf("dataset: count must be > 0 (got %d)", count)
	}
	samples := make([]synth.Sample, 0, count)
	for i := 0; i < count; i++ {
		samples = append(samples, gen.Sample())
	}
	return &Set{Config: gen.Config(), Samples: samples}, nil
}

// Len returns the number of samples in the set.
func (s *Set) Len() int { return len(s.Samples) }

// Tensors packs the whole set into three dense tensors:
//
//	images   [n, S, S, 3]  normalized pixel intensities
//	presence [n, K]        per-class presence flags
//	boxes    [n, K, 4]     normalized (x1, y1, x2, y2) per class
func (s *Set) Tensors() (images, presence, boxes *tensor.Dense, err error) {
	n := s.Len()
	if n == 0 {
		return nil, nil, nil, fmt.Errorf("dataset: empty set")
	}
	size := s.Config.CanvasSize
	k := len(s.Config.Classes)

	imgBacking := make([]float64, 0, n*size*size*3)
	presBacking := make([]float64, 0, n*k)
	boxBacking := make([]float64, 0, n*k*4)

	for i, sample := range s.Samples {
		if len(sample.Presence) != k || len(sample.Boxes) != k {
			return nil, nil, nil, fmt.Errorf("dataset: sample %d has %d classes, want %d",
				i, len(sample.Presence), k)
		}
		imgBacking = append(imgBacking, sample.Pixels()...)
		presBacking = append(presBacking, sample.Presence...)
		for _, b := range sample.Boxes {
			boxBacking = append(boxBacking, b.X1, b.Y1, b.X2, b.Y2)
		}
	}

	images = tensor.New(tensor.WithShape(n, size, size, 3), tensor.WithBacking(imgBacking))
	presence = tensor.New(tensor.WithShape(n, k), tensor.WithBacking(presBacking))
	boxes = tensor.New(tensor.WithShape(n, k, 4), tensor.WithBacking(boxBacking))
	return images, presence, boxes, nil
}
