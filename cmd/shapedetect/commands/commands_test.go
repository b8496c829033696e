package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MNGARCIA085/shapedetect/internal/dataset"
	"github.com/MNGARCIA085/shapedetect/internal/synth"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.CanvasSize)
	assert.Equal(t, 20, cfg.ShapeSize)
	assert.Equal(t, 2, cfg.Classes)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 0.05, cfg.LearningRate)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("canvas_size: 128\nclasses: 3\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.CanvasSize)
	assert.Equal(t, 3, cfg.Classes)
	// Untouched keys keep their defaults.
	assert.Equal(t, 20, cfg.ShapeSize)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestSynthConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	sc := cfg.SynthConfig()
	require.NoError(t, sc.Validate())
	require.Len(t, sc.Classes, 2)
	assert.Equal(t, "square", sc.Classes[0].Name)
	assert.Equal(t, synth.KindEllipse, sc.Classes[1].Shape)
}

func TestCheckInvariants(t *testing.T) {
	gen, err := synth.NewGenerator(synth.DefaultConfig(), 8)
	require.NoError(t, err)
	set, err := dataset.Build(gen, 10)
	require.NoError(t, err)

	_, presence, boxes, err := set.Tensors()
	require.NoError(t, err)
	assert.Zero(t, checkInvariants(set.Config, presence, boxes))
	assert.InDelta(t, 20.0/64.0, meanBoxWidth(boxes), 1e-9)

	// Corrupt one label and expect violations.
	set.Samples[0].Presence[1] = 0
	set.Samples[1].Boxes[0].X2 = set.Samples[1].Boxes[0].X1
	_, presence, boxes, err = set.Tensors()
	require.NoError(t, err)
	assert.Equal(t, 2, checkInvariants(set.Config, presence, boxes))
}

func TestGenerateAndEvalCommands(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	root := NewRootCommand()
	root.SetArgs([]string{"generate", "--count", "5", "--out", dir, "--seed", "7"})
	root.SetOut(new(bytes.Buffer))
	require.NoError(t, root.Execute())

	paths, err := dataset.Discover(dir)
	require.NoError(t, err)
	assert.Len(t, paths, 5)

	var out bytes.Buffer
	evalRoot := NewRootCommand()
	evalRoot.SetArgs([]string{"eval", "--data", dir})
	evalRoot.SetOut(&out)
	require.NoError(t, evalRoot.Execute())
	assert.Contains(t, out.String(), "Samples")
}

func TestTrainCommand(t *testing.T) {
	sheet := filepath.Join(t.TempDir(), "preds.png")

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetArgs([]string{
		"train", "--verbose",
		"--steps", "5", "--batch-size", "2",
		"--eval-count", "4", "--log-every", "100",
		"--render-out", sheet,
	})
	root.SetOut(&out)
	require.NoError(t, root.Execute())

	// The final report table lists both class rows.
	assert.Contains(t, out.String(), "square")
	assert.Contains(t, out.String(), "circle")

	info, err := os.Stat(sheet)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRenderCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sheet.png")

	root := NewRootCommand()
	root.SetArgs([]string{"render", "--count", "4", "--cols", "2", "--out", out, "--seed", "3"})
	require.NoError(t, root.Execute())

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
