// Package trainer drives the supervised training loop over the synthetic
// generator: every step draws a fresh batch, so the model never sees the
// same sample twice unless the seed repeats.
package trainer

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/MNGARCIA085/shapedetect/internal/metrics"
	"github.com/MNGARCIA085/shapedetect/internal/model"
	"github.com/MNGARCIA085/shapedetect/internal/synth"
)

// DefaultFeatureGrid is the side length of the downsampled intensity grid
// fed to the model.
const DefaultFeatureGrid = 16

// RunConfig captures the knobs required by the training loop.
type RunConfig struct {
	Synth        synth.Config
	Steps        int
	BatchSize    int
	LogEvery     int
	Seed         int64
	LearningRate float64
	HiddenSize   int
	FeatureGrid  int
}

// Validate verifies the loop configuration is runnable and fills defaults.
func (c *RunConfig) Validate() error {
	if c.Steps <= 0 {
		return errors.New("trainer: steps must be > 0")
	}
	if c.BatchSize <= 0 {
		return errors.New("trainer: batch size must be > 0")
	}
	if c.LogEvery <= 0 {
		c.LogEvery = 50
	}
	if c.FeatureGrid <= 0 {
		c.FeatureGrid = DefaultFeatureGrid
	}
	return c.Synth.Validate()
}

// Run executes the training workload and returns the trained network.
// The context cancels the loop between steps.
func Run(ctx context.Context, cfg RunConfig, logger *zap.Logger) (*model.Net, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	gen, err := synth.NewGenerator(cfg.Synth, cfg.Seed)
	if err != nil {
		return nil, err
	}

	net := model.NewNet(model.NetConfig{
		InputSize:    cfg.FeatureGrid * cfg.FeatureGrid,
		HiddenSize:   cfg.HiddenSize,
		NumClasses:   len(cfg.Synth.Classes),
		LearningRate: cfg.LearningRate,
		Seed:         cfg.Seed,
	})

	var window metrics.Window

	for step := 1; step <= cfg.Steps; step++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		startData := time.Now()
		batch := nextBatch(gen, cfg.BatchSize, cfg.FeatureGrid)
		dataTime := time.Since(startData)

		startCompute := time.Now()
		clsLoss, boxLoss := net.TrainStep(batch)
		computeTime := time.Since(startCompute)

		window.Record(cfg.BatchSize, dataTime, computeTime, clsLoss, boxLoss)

		if step%cfg.LogEvery == 0 {
			snap := window.Snapshot()
			logger.Info("train step",
				zap.Int("step", step),
				zap.Float64("samples_per_sec", snap.SamplesPerSec),
				zap.Float64("data_ms", snap.AvgDataMS),
				zap.Float64("compute_ms", snap.AvgComputeMS),
				zap.Float64("cls_loss", snap.LastClsLoss),
				zap.Float64("box_loss", snap.LastBoxLoss),
			)
		}
	}

	return net, nil
}

// nextBatch draws batchSize fresh samples from the generator and packs their
// features and targets.
func nextBatch(gen *synth.Generator, batchSize, featureGrid int) model.Batch {
	batch := model.Batch{
		Inputs:   make([][]float64, 0, batchSize),
		Presence: make([][]float64, 0, batchSize),
		Boxes:    make([][]float64, 0, batchSize),
	}
	for i := 0; i < batchSize; i++ {
		sample := gen.Sample()
		flat := make([]float64, 0, 4*len(sample.Boxes))
		for _, b := range sample.Boxes {
			flat = append(flat, b.X1, b.Y1, b.X2, b.Y2)
		}
		batch.Inputs = append(batch.Inputs, sample.Features(featureGrid))
		batch.Presence = append(batch.Presence, sample.Presence)
		batch.Boxes = append(batch.Boxes, flat)
	}
	return batch
}
