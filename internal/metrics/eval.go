package metrics

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/MNGARCIA085/shapedetect/internal/dataset"
	"github.com/MNGARCIA085/shapedetect/internal/model"
	"github.com/MNGARCIA085/shapedetect/internal/synth"
)

// IoU returns the intersection-over-union of two normalized boxes in [0, 1].
// Degenerate boxes (zero or negative extent) yield 0.
func IoU(a, b synth.Box) float64 {
	ix1 := max(a.X1, b.X1)
	iy1 := max(a.Y1, b.Y1)
	ix2 := min(a.X2, b.X2)
	iy2 := min(a.Y2, b.Y2)

	iw := ix2 - ix1
	ih := iy2 - iy1
	if iw <= 0 || ih <= 0 {
		return 0
	}
	inter := iw * ih
	union := a.Width()*a.Height() + b.Width()*b.Height() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// BoxFromSlice reads one (x1, y1, x2, y2) quadruple from a flattened box
// head output.
func BoxFromSlice(flat []float64, class int) synth.Box {
	o := 4 * class
	return synth.Box{X1: flat[o], Y1: flat[o+1], X2: flat[o+2], Y2: flat[o+3]}
}

// ClassReport holds per-slot evaluation results.
type ClassReport struct {
	Name             string
	PresenceAccuracy float64
	MeanIoU          float64
}

// Report summarizes model quality over an evaluation set. Each class is
// scored against its own output slot only; there is no cross-slot matching.
type Report struct {
	Samples int
	Classes []ClassReport
	MeanIoU float64
}

// Evaluate runs the model over every sample in the set and scores each class
// slot: presence accuracy at the given probability threshold, and the mean
// IoU between the predicted and ground-truth box for that slot.
func Evaluate(m model.Model, set *dataset.Set, featureGrid int, threshold float64) (*Report, error) {
	if set == nil || set.Len() == 0 {
		return nil, fmt.Errorf("metrics: evaluation set is empty")
	}
	if threshold <= 0 {
		threshold = 0.5
	}
	k := len(set.Config.Classes)

	correct := make([]int, k)
	iouSum := make([]float64, k)

	for _, sample := range set.Samples {
		presence, boxes := m.Predict(sample.Features(featureGrid))
		if len(presence) != k || len(boxes) != 4*k {
			return nil, fmt.Errorf("metrics: model emits %d classes, dataset has %d", len(presence), k)
		}
		for c := 0; c < k; c++ {
			predicted := 0.0
			if presence[c] >= threshold {
				predicted = 1
			}
			if predicted == sample.Presence[c] {
				correct[c]++
			}
			iouSum[c] += IoU(BoxFromSlice(boxes, c), sample.Boxes[c])
		}
	}

	report := &Report{Samples: set.Len()}
	total := 0.0
	n := float64(set.Len())
	for c := 0; c < k; c++ {
		meanIoU := iouSum[c] / n
		total += meanIoU
		report.Classes = append(report.Classes, ClassReport{
			Name:             set.Config.Classes[c].Name,
			PresenceAccuracy: float64(correct[c]) / n,
			MeanIoU:          meanIoU,
		})
	}
	report.MeanIoU = total / float64(k)
	return report, nil
}

// WriteTable renders the report as a text table.
func (r *Report) WriteTable(w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Class", "Presence acc", "Mean IoU"})
	for _, c := range r.Classes {
		table.Append([]string{c.Name, fmt.Sprintf("%.3f", c.PresenceAccuracy), fmt.Sprintf("%.3f", c.MeanIoU)})
	}
	table.Append([]string{"overall", "", fmt.Sprintf("%.3f", r.MeanIoU)})
	if err := table.Render(); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
