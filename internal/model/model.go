// Package model implements a small dual-head network for the toy detection
// task: one head predicts per-class presence, the other regresses one
// normalized bounding box per class. Class k always maps to output slot k,
// so no anchor or matching machinery exists.
package model

// Batch represents a minibatch of features and supervised targets.
//
// Presence[i] has one entry per class; Boxes[i] holds 4 values per class
// (x1, y1, x2, y2) flattened in class order. All three slices are
// index-aligned.
type Batch struct {
	Inputs   [][]float64
	Presence [][]float64
	Boxes    [][]float64
}

// Model is the minimal training interface the trainer requires.
type Model interface {
	TrainStep(batch Batch) (clsLoss, boxLoss float64)
	Predict(input []float64) (presence, boxes []float64)
}
