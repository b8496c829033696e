package model

import (
	"math"
	"math/rand"
)

// Net is a one-hidden-layer network with two output heads.
//
// The shared hidden layer uses ReLU. The presence head applies a sigmoid per
// class and trains with binary cross-entropy; the box head applies a sigmoid
// per coordinate (boxes are normalized to [0, 1]) and trains with mean
// squared error. Updates are plain per-sample SGD.
type Net struct {
	inputSize  int
	hiddenSize int
	numClasses int
	lr         float64

	w1 []float64 // hiddenSize x inputSize
	b1 []float64 // hiddenSize

	wCls []float64 // numClasses x hiddenSize
	bCls []float64 // numClasses

	wBox []float64 // 4*numClasses x hiddenSize
	bBox []float64 // 4*numClasses
}

// NetConfig carries the model hyperparameters.
type NetConfig struct {
	InputSize    int
	HiddenSize   int
	NumClasses   int
	LearningRate float64
	Seed         int64
}

// NewNet constructs the network with small random initialization.
func NewNet(cfg NetConfig) *Net {
	if cfg.InputSize <= 0 {
		cfg.InputSize = 256
	}
	if cfg.HiddenSize <= 0 {
		cfg.HiddenSize = 64
	}
	if cfg.NumClasses <= 0 {
		cfg.NumClasses = 2
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = 0.05
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	initWeights := func(n int, scale float64) []float64 {
		w := make([]float64, n)
		for i := range w {
			w[i] = (rng.Float64()*2 - 1) * scale
		}
		return w
	}

	// Keep early activations in a sane range regardless of input width.
	hiddenScale := 1 / math.Sqrt(float64(cfg.InputSize))
	headScale := 1 / math.Sqrt(float64(cfg.HiddenSize))

	return &Net{
		inputSize:  cfg.InputSize,
		hiddenSize: cfg.HiddenSize,
		numClasses: cfg.NumClasses,
		lr:         cfg.LearningRate,
		w1:         initWeights(cfg.HiddenSize*cfg.InputSize, hiddenScale),
		b1:         make([]float64, cfg.HiddenSize),
		wCls:       initWeights(cfg.NumClasses*cfg.HiddenSize, headScale),
		bCls:       make([]float64, cfg.NumClasses),
		wBox:       initWeights(4*cfg.NumClasses*cfg.HiddenSize, headScale),
		bBox:       make([]float64, 4*cfg.NumClasses),
	}
}

// NumClasses returns the number of output slots per head.
func (n *Net) NumClasses() int { return n.numClasses }

// InputSize returns the expected feature vector length.
func (n *Net) InputSize() int { return n.inputSize }

// forward computes hidden activations and both heads' sigmoid outputs.
func (n *Net) forward(input []float64) (hidden, cls, box []float64) {
	hidden = make([]float64, n.hiddenSize)
	for h := 0; h < n.hiddenSize; h++ {
		sum := n.b1[h]
		wStart := h * n.inputSize
		for j := 0; j < n.inputSize; j++ {
			sum += n.w1[wStart+j] * input[j]
		}
		if sum > 0 {
			hidden[h] = sum
		}
	}

	cls = make([]float64, n.numClasses)
	for c := 0; c < n.numClasses; c++ {
		sum := n.bCls[c]
		wStart := c * n.hiddenSize
		for h := 0; h < n.hiddenSize; h++ {
			sum += n.wCls[wStart+h] * hidden[h]
		}
		cls[c] = sigmoid(sum)
	}

	box = make([]float64, 4*n.numClasses)
	for o := 0; o < 4*n.numClasses; o++ {
		sum := n.bBox[o]
		wStart := o * n.hiddenSize
		for h := 0; h < n.hiddenSize; h++ {
			sum += n.wBox[wStart+h] * hidden[h]
		}
		box[o] = sigmoid(sum)
	}

	return hidden, cls, box
}

// TrainStep runs one SGD pass over the batch and returns the average
// presence (binary cross-entropy) and box (mean squared error) losses.
// Samples whose feature length does not match the input size are skipped.
func (n *Net) TrainStep(batch Batch) (clsLoss, boxLoss float64) {
	if len(batch.Inputs) == 0 {
		return 0, 0
	}

	counted := 0
	for i, input := range batch.Inputs {
		if len(input) != n.inputSize {
			continue
		}
		presence := batch.Presence[i]
		boxes := batch.Boxes[i]
		if len(presence) != n.numClasses || len(boxes) != 4*n.numClasses {
			continue
		}
		counted++

		hidden, cls, box := n.forward(input)

		// Losses.
		for c, p := range cls {
			t := presence[c]
			clsLoss += -(t*math.Log(math.Max(p, 1e-9)) + (1-t)*math.Log(math.Max(1-p, 1e-9)))
		}
		for o, v := range box {
			d := v - boxes[o]
			boxLoss += d * d
		}

		// Output deltas. Sigmoid+BCE collapses to (p - t); the MSE head
		// keeps the sigmoid derivative.
		dCls := make([]float64, n.numClasses)
		for c := range dCls {
			dCls[c] = (cls[c] - presence[c]) / float64(n.numClasses)
		}
		dBox := make([]float64, 4*n.numClasses)
		for o := range dBox {
			dBox[o] = 2 * (box[o] - boxes[o]) * box[o] * (1 - box[o]) / float64(4*n.numClasses)
		}

		// Backprop into the shared hidden layer.
		dHidden := make([]float64, n.hiddenSize)
		for c, g := range dCls {
			wStart := c * n.hiddenSize
			for h := 0; h < n.hiddenSize; h++ {
				dHidden[h] += n.wCls[wStart+h] * g
			}
		}
		for o, g := range dBox {
			wStart := o * n.hiddenSize
			for h := 0; h < n.hiddenSize; h++ {
				dHidden[h] += n.wBox[wStart+h] * g
			}
		}
		for h := range dHidden {
			if hidden[h] <= 0 {
				dHidden[h] = 0
			}
		}

		// SGD updates, head weights first since they read hidden
		// activations, then the hidden layer itself.
		for c, g := range dCls {
			n.bCls[c] -= n.lr * g
			wStart := c * n.hiddenSize
			for h := 0; h < n.hiddenSize; h++ {
				n.wCls[wStart+h] -= n.lr * g * hidden[h]
			}
		}
		for o, g := range dBox {
			n.bBox[o] -= n.lr * g
			wStart := o * n.hiddenSize
			for h := 0; h < n.hiddenSize; h++ {
				n.wBox[wStart+h] -= n.lr * g * hidden[h]
			}
		}
		for h, g := range dHidden {
			if g == 0 {
				continue
			}
			n.b1[h] -= n.lr * g
			wStart := h * n.inputSize
			for j := 0; j < n.inputSize; j++ {
				n.w1[wStart+j] -= n.lr * g * input[j]
			}
		}
	}

	if counted == 0 {
		return 0, 0
	}
	return clsLoss / float64(counted*n.numClasses), boxLoss / float64(counted*4*n.numClasses)
}

// Predict runs a forward pass and returns per-class presence probabilities
// and the flattened (x1, y1, x2, y2) box predictions, both in [0, 1].
func (n *Net) Predict(input []float64) (presence, boxes []float64) {
	_, cls, box := n.forward(input)
	return cls, box
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
