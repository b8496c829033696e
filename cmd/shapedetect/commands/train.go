package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MNGARCIA085/shapedetect/internal/dataset"
	"github.com/MNGARCIA085/shapedetect/internal/metrics"
	"github.com/MNGARCIA085/shapedetect/internal/synth"
	"github.com/MNGARCIA085/shapedetect/internal/trainer"
	"github.com/MNGARCIA085/shapedetect/internal/viz"
)

func newTrainCommand() *cobra.Command {
	var (
		steps     int
		batchSize int
		lr        float64
		hidden    int
		seed      int64
		logEvery  int
		evalCount int
		renderOut string
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the dual-head model on freshly generated samples",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			runCfg := trainer.RunConfig{
				Synth:        appConfig.SynthConfig(),
				Steps:        resolveInt(steps, appConfig.Steps, 500),
				BatchSize:    resolveInt(batchSize, appConfig.BatchSize, 16),
				LogEvery:     resolveInt(logEvery, appConfig.LogEvery, 50),
				Seed:         resolveInt64(seed, appConfig.Seed),
				LearningRate: resolveFloat(lr, appConfig.LearningRate),
				HiddenSize:   resolveInt(hidden, appConfig.HiddenSize, 64),
				FeatureGrid:  appConfig.FeatureGrid,
			}

			net, err := trainer.Run(ctx, runCfg, logger)
			if err != nil {
				return err
			}

			// Score on a held-out set drawn from a different seed.
			evalGen, err := synth.NewGenerator(runCfg.Synth, runCfg.Seed+1)
			if err != nil {
				return err
			}
			n := evalCount
			if n <= 0 {
				n = 64
			}
			evalSet, err := dataset.Build(evalGen, n)
			if err != nil {
				return err
			}
			report, err := metrics.Evaluate(net, evalSet, runCfg.FeatureGrid, 0.5)
			if err != nil {
				return err
			}
			if err := report.WriteTable(cmd.OutOrStdout()); err != nil {
				return err
			}

			if renderOut != "" {
				preview := &dataset.Set{Config: evalSet.Config, Samples: evalSet.Samples}
				if preview.Len() > 16 {
					preview.Samples = preview.Samples[:16]
				}
				preds := make([][]synth.Box, 0, preview.Len())
				for _, sample := range preview.Samples {
					_, flat := net.Predict(sample.Features(runCfg.FeatureGrid))
					boxes := make([]synth.Box, 0, len(sample.Boxes))
					for c := range sample.Boxes {
						boxes = append(boxes, metrics.BoxFromSlice(flat, c))
					}
					preds = append(preds, boxes)
				}
				sheet, err := viz.PredictionSheet(preview, preds, 4, viz.Options{ShowLabels: true})
				if err != nil {
					return err
				}
				if err := viz.SavePNG(sheet, renderOut); err != nil {
					return err
				}
				logger.Info("prediction sheet written", zap.String("path", renderOut))
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 0, "number of training steps")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "batch size")
	cmd.Flags().Float64Var(&lr, "lr", 0, "learning rate")
	cmd.Flags().IntVar(&hidden, "hidden", 0, "hidden layer size")
	cmd.Flags().Int64Var(&seed, "seed", 0, "PRNG seed (overrides config)")
	cmd.Flags().IntVar(&logEvery, "log-every", 0, "log every N steps")
	cmd.Flags().IntVar(&evalCount, "eval-count", 64, "held-out samples for the final report")
	cmd.Flags().StringVar(&renderOut, "render-out", "", "write a prediction contact sheet PNG here")

	return cmd
}
