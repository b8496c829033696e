// Package metrics accumulates training statistics and computes evaluation
// reports for the toy detection pipeline.
package metrics

import "time"

// Window accumulates timing and loss stats across multiple training steps.
type Window struct {
	samples int
	data    time.Duration
	compute time.Duration
	steps   int
	lastCls float64
	lastBox float64
}

// Record adds one step's measurements to the window.
func (w *Window) Record(batchSize int, dataTime, computeTime time.Duration, clsLoss, boxLoss float64) {
	w.samples += batchSize
	w.data += dataTime
	w.compute += computeTime
	w.steps++
	w.lastCls = clsLoss
	w.lastBox = boxLoss
}

// Snapshot returns aggregated metrics and resets the window.
func (w *Window) Snapshot() Snapshot {
	snap := Snapshot{}
	total := w.data + w.compute
	if total > 0 {
		snap.SamplesPerSec = float64(w.samples) / total.Seconds()
	}
	if w.steps > 0 {
		snap.AvgDataMS = (w.data.Seconds() * 1000) / float64(w.steps)
		snap.AvgComputeMS = (w.compute.Seconds() * 1000) / float64(w.steps)
	}
	snap.LastClsLoss = w.lastCls
	snap.LastBoxLoss = w.lastBox

	w.samples = 0
	w.data = 0
	w.compute = 0
	w.steps = 0
	return snap
}

// Snapshot represents loggable training metrics.
type Snapshot struct {
	SamplesPerSec float64
	AvgDataMS     float64
	AvgComputeMS  float64
	LastClsLoss   float64
	LastBoxLoss   float64
}
