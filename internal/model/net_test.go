package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinyBatch(rng *rand.Rand, samples, inputSize, numClasses int) Batch {
	batch := Batch{}
	for i := 0; i < samples; i++ {
		input := make([]float64, inputSize)
		for j := range input {
			input[j] = rng.Float64()
		}
		presence := make([]float64, numClasses)
		boxes := make([]float64, 4*numClasses)
		for c := 0; c < numClasses; c++ {
			presence[c] = 1
			boxes[4*c+0] = 0.2
			boxes[4*c+1] = 0.3
			boxes[4*c+2] = 0.5
			boxes[4*c+3] = 0.6
		}
		batch.Inputs = append(batch.Inputs, input)
		batch.Presence = append(batch.Presence, presence)
		batch.Boxes = append(batch.Boxes, boxes)
	}
	return batch
}

func TestTrainStepReducesLoss(t *testing.T) {
	net := NewNet(NetConfig{InputSize: 16, HiddenSize: 8, NumClasses: 2, LearningRate: 0.1, Seed: 1})
	batch := tinyBatch(rand.New(rand.NewSource(2)), 4, 16, 2)

	cls1, box1 := net.TrainStep(batch)
	var cls2, box2 float64
	for i := 0; i < 50; i++ {
		cls2, box2 = net.TrainStep(batch)
	}
	assert.Less(t, cls2, cls1, "presence loss should decrease on a fixed batch")
	assert.Less(t, box2, box1, "box loss should decrease on a fixed batch")
}

func TestPredictRanges(t *testing.T) {
	net := NewNet(NetConfig{InputSize: 16, HiddenSize: 8, NumClasses: 3, Seed: 5})
	input := make([]float64, 16)
	for i := range input {
		input[i] = float64(i) / 16
	}

	presence, boxes := net.Predict(input)
	require.Len(t, presence, 3)
	require.Len(t, boxes, 12)
	for _, p := range presence {
		assert.Greater(t, p, 0.0)
		assert.Less(t, p, 1.0)
	}
	for _, b := range boxes {
		assert.Greater(t, b, 0.0)
		assert.Less(t, b, 1.0)
	}
}

func TestTrainStepSkipsMalformedSamples(t *testing.T) {
	net := NewNet(NetConfig{InputSize: 16, HiddenSize: 8, NumClasses: 2, Seed: 1})
	batch := Batch{
		Inputs:   [][]float64{make([]float64, 3)}, // wrong input size
		Presence: [][]float64{{1, 1}},
		Boxes:    [][]float64{make([]float64, 8)},
	}
	cls, box := net.TrainStep(batch)
	assert.Zero(t, cls)
	assert.Zero(t, box)

	cls, box = net.TrainStep(Batch{})
	assert.Zero(t, cls)
	assert.Zero(t, box)
}

func TestNewNetDefaults(t *testing.T) {
	net := NewNet(NetConfig{})
	assert.Equal(t, 256, net.InputSize())
	assert.Equal(t, 2, net.NumClasses())
}

func TestNetDeterministicInit(t *testing.T) {
	a := NewNet(NetConfig{InputSize: 8, HiddenSize: 4, NumClasses: 2, Seed: 7})
	b := NewNet(NetConfig{InputSize: 8, HiddenSize: 4, NumClasses: 2, Seed: 7})
	input := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8}

	pa, ba := a.Predict(input)
	pb, bb := b.Predict(input)
	assert.Equal(t, pa, pb)
	assert.Equal(t, ba, bb)
}
