package commands

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MNGARCIA085/shapedetect/internal/dataset"
	"github.com/MNGARCIA085/shapedetect/internal/synth"
	"github.com/MNGARCIA085/shapedetect/internal/viz"
)

func newRenderCommand() *cobra.Command {
	var (
		count  int
		cols   int
		scale  int
		labels bool
		seed   int64
		out    string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a contact sheet of generated samples for eyeballing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return errors.New("--out file is required")
			}

			gen, err := synth.NewGenerator(appConfig.SynthConfig(), resolveInt64(seed, appConfig.Seed))
			if err != nil {
				return err
			}
			set, err := dataset.Build(gen, count)
			if err != nil {
				return err
			}

			sheet, err := viz.ContactSheet(set, cols, viz.Options{Scale: scale, ShowLabels: labels})
			if err != nil {
				return err
			}
			if err := viz.SavePNG(sheet, out); err != nil {
				return err
			}

			logger.Info("contact sheet written",
				zap.String("path", out),
				zap.Int("samples", set.Len()),
				zap.Int("cols", cols),
			)
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 16, "number of samples to render")
	cmd.Flags().IntVar(&cols, "cols", 4, "grid columns")
	cmd.Flags().IntVar(&scale, "scale", 4, "integer upscale factor")
	cmd.Flags().BoolVar(&labels, "labels", true, "draw class name labels")
	cmd.Flags().Int64Var(&seed, "seed", 0, "PRNG seed (overrides config)")
	cmd.Flags().StringVar(&out, "out", "", "output PNG path")

	return cmd
}
