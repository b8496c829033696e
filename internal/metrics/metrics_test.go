package metrics

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MNGARCIA085/shapedetect/internal/dataset"
	"github.com/MNGARCIA085/shapedetect/internal/model"
	"github.com/MNGARCIA085/shapedetect/internal/synth"
)

func TestWindowSnapshot(t *testing.T) {
	var w Window
	w.Record(64, 20*time.Millisecond, 10*time.Millisecond, 1.2, 0.4)
	w.Record(64, 10*time.Millisecond, 20*time.Millisecond, 0.8, 0.2)
	snap := w.Snapshot()

	if math.Abs(snap.SamplesPerSec-2133.3333) > 1 {
		t.Fatalf("unexpected throughput %.2f", snap.SamplesPerSec)
	}
	assert.Equal(t, 0.8, snap.LastClsLoss)
	assert.Equal(t, 0.2, snap.LastBoxLoss)
	assert.InDelta(t, 15.0, snap.AvgDataMS, 0.01)

	// Window resets after a snapshot.
	empty := w.Snapshot()
	assert.Zero(t, empty.SamplesPerSec)
}

func TestIoU(t *testing.T) {
	a := synth.Box{X1: 0, Y1: 0, X2: 0.5, Y2: 0.5}

	assert.InDelta(t, 1.0, IoU(a, a), 1e-12, "identical boxes")
	assert.Zero(t, IoU(a, synth.Box{X1: 0.6, Y1: 0.6, X2: 0.9, Y2: 0.9}), "disjoint boxes")

	// Half-overlapping boxes: intersection 0.25x0.5, union 0.375.
	b := synth.Box{X1: 0.25, Y1: 0, X2: 0.75, Y2: 0.5}
	assert.InDelta(t, (0.25*0.5)/0.375, IoU(a, b), 1e-12)

	assert.Zero(t, IoU(a, synth.Box{X1: 0.5, Y1: 0.5, X2: 0.5, Y2: 0.5}), "degenerate box")
}

func TestBoxFromSlice(t *testing.T) {
	flat := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8}
	assert.Equal(t, synth.Box{X1: 0.5, Y1: 0.6, X2: 0.7, Y2: 0.8}, BoxFromSlice(flat, 1))
}

// perfectModel echoes the ground truth of the sample it was built from.
type perfectModel struct {
	presence []float64
	boxes    []float64
}

func (m perfectModel) TrainStep(model.Batch) (float64, float64) { return 0, 0 }

func (m perfectModel) Predict(_ []float64) ([]float64, []float64) {
	return m.presence, m.boxes
}

func TestEvaluatePerfectPredictions(t *testing.T) {
	gen, err := synth.NewGenerator(synth.DefaultConfig(), 3)
	require.NoError(t, err)
	set, err := dataset.Build(gen, 1)
	require.NoError(t, err)

	sample := set.Samples[0]
	flat := make([]float64, 0, 8)
	for _, b := range sample.Boxes {
		flat = append(flat, b.X1, b.Y1, b.X2, b.Y2)
	}

	report, err := Evaluate(perfectModel{presence: sample.Presence, boxes: flat}, set, 16, 0.5)
	require.NoError(t, err)
	require.Len(t, report.Classes, 2)
	assert.Equal(t, 1, report.Samples)
	for _, c := range report.Classes {
		assert.Equal(t, 1.0, c.PresenceAccuracy)
		assert.InDelta(t, 1.0, c.MeanIoU, 1e-9)
	}
	assert.InDelta(t, 1.0, report.MeanIoU, 1e-9)
}

func TestEvaluateEmptySet(t *testing.T) {
	_, err := Evaluate(perfectModel{}, &dataset.Set{}, 16, 0.5)
	require.Error(t, err)
}

func TestReportWriteTable(t *testing.T) {
	report := &Report{
		Samples: 10,
		Classes: []ClassReport{
			{Name: "square", PresenceAccuracy: 1, MeanIoU: 0.8},
			{Name: "circle", PresenceAccuracy: 0.9, MeanIoU: 0.7},
		},
		MeanIoU: 0.75,
	}
	var buf bytes.Buffer
	require.NoError(t, report.WriteTable(&buf))
	out := buf.String()
	assert.Contains(t, out, "square")
	assert.Contains(t, out, "circle")
	assert.Contains(t, out, "0.750")
}
