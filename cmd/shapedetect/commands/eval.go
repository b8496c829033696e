package commands

import (
	"errors"
	"fmt"
	"math"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gorgonia.org/tensor"

	"github.com/MNGARCIA085/shapedetect/internal/dataset"
	"github.com/MNGARCIA085/shapedetect/internal/synth"
)

func newEvalCommand() *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Check a saved dataset against the generator invariants",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dataDir == "" {
				return errors.New("--data directory is required")
			}

			set, err := dataset.Load(dataDir)
			if err != nil {
				return err
			}

			// Label statistics are computed from the packed tensor
			// representation, the same view the training harness
			// batches from.
			_, presence, boxes, err := set.Tensors()
			if err != nil {
				return err
			}
			violations := checkInvariants(set.Config, presence, boxes)

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header([]string{"Property", "Value"})
			table.Append([]string{"Samples", fmt.Sprintf("%d", presence.Shape()[0])})
			table.Append([]string{"Classes", fmt.Sprintf("%d", len(set.Config.Classes))})
			table.Append([]string{"Canvas size", fmt.Sprintf("%d", set.Config.CanvasSize)})
			table.Append([]string{"Shape size", fmt.Sprintf("%d", set.Config.ShapeSize)})
			table.Append([]string{"Mean box width", fmt.Sprintf("%.4f", meanBoxWidth(boxes))})
			table.Append([]string{"Invariant violations", fmt.Sprintf("%d", violations)})
			if err := table.Render(); err != nil {
				return fmt.Errorf("render report: %w", err)
			}

			if violations > 0 {
				return fmt.Errorf("dataset violates %d generator invariants", violations)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data", "", "dataset directory written by generate")

	return cmd
}

// checkInvariants counts label entries in the packed presence [n, K] and box
// [n, K, 4] tensors that break the generator's contract: presence must be
// all ones, boxes must be ordered, in [0,1], and exactly
// ShapeSize/CanvasSize wide and tall.
func checkInvariants(cfg synth.Config, presence, boxes *tensor.Dense) int {
	const eps = 1e-9
	wantSide := float64(cfg.ShapeSize) / float64(cfg.CanvasSize)

	n := presence.Shape()[0]
	k := presence.Shape()[1]
	pres := presence.Data().([]float64)
	flat := boxes.Data().([]float64)

	violations := 0
	for i := 0; i < n; i++ {
		for c := 0; c < k; c++ {
			if pres[i*k+c] != 1 {
				violations++
			}
			o := (i*k + c) * 4
			x1, y1, x2, y2 := flat[o], flat[o+1], flat[o+2], flat[o+3]
			if x1 < 0 || y1 < 0 || x2 > 1 || y2 > 1 || x1 >= x2 || y1 >= y2 {
				violations++
				continue
			}
			if math.Abs((x2-x1)-wantSide) > eps || math.Abs((y2-y1)-wantSide) > eps {
				violations++
			}
		}
	}
	return violations
}

// meanBoxWidth averages normalized box widths across the box tensor.
func meanBoxWidth(boxes *tensor.Dense) float64 {
	flat := boxes.Data().([]float64)
	count := len(flat) / 4
	if count == 0 {
		return 0
	}
	sum := 0.0
	for o := 0; o < len(flat); o += 4 {
		sum += flat[o+2] - flat[o]
	}
	return sum / float64(count)
}
