package viz

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MNGARCIA085/shapedetect/internal/dataset"
	"github.com/MNGARCIA085/shapedetect/internal/synth"
)

func buildSet(t *testing.T, count int) *dataset.Set {
	t.Helper()
	gen, err := synth.NewGenerator(synth.DefaultConfig(), 21)
	require.NoError(t, err)
	set, err := dataset.Build(gen, count)
	require.NoError(t, err)
	return set
}

func TestOverlayDimensions(t *testing.T) {
	set := buildSet(t, 1)
	out := Overlay(set.Samples[0], set.Config.Classes, Options{Scale: 4})
	assert.Equal(t, 256, out.Bounds().Dx())
	assert.Equal(t, 256, out.Bounds().Dy())

	// Default scale applies when unset.
	out = Overlay(set.Samples[0], set.Config.Classes, Options{})
	assert.Equal(t, 256, out.Bounds().Dx())
}

func TestOverlayDrawsOutlines(t *testing.T) {
	// Hand-built sample with disjoint boxes so neither outline can paint
	// over the other.
	classes := synth.DefaultClasses()
	sample := synth.Sample{
		Image:    image.NewNRGBA(image.Rect(0, 0, 64, 64)),
		Presence: []float64{1, 1},
		Boxes: []synth.Box{
			{X1: 0.1, Y1: 0.1, X2: 0.3, Y2: 0.3},
			{X1: 0.6, Y1: 0.6, X2: 0.8, Y2: 0.8},
		},
	}
	out := Overlay(sample, classes, Options{Scale: 4})

	side := 256
	assert.Equal(t, classes[0].Color, out.NRGBAAt(int(0.1*float64(side)), int(0.1*float64(side))))
	assert.Equal(t, classes[1].Color, out.NRGBAAt(int(0.6*float64(side)), int(0.6*float64(side))))
}

func TestOverlayDrawsPredictedBoxes(t *testing.T) {
	set := buildSet(t, 1)
	pred := []synth.Box{{X1: 0.1, Y1: 0.1, X2: 0.3, Y2: 0.3}}
	out := Overlay(set.Samples[0], set.Config.Classes, Options{Scale: 2, Predicted: pred})

	side := 128
	x := int(0.1 * float64(side))
	y := int(0.1 * float64(side))
	assert.Equal(t, predictedColor, out.NRGBAAt(x, y))
}

func TestContactSheetLayout(t *testing.T) {
	set := buildSet(t, 5)
	sheet, err := ContactSheet(set, 2, Options{Scale: 1})
	require.NoError(t, err)

	// 2 columns, 3 rows of 64px tiles with 2px gaps.
	assert.Equal(t, 2*64+2, sheet.Bounds().Dx())
	assert.Equal(t, 3*64+4, sheet.Bounds().Dy())

	_, err = ContactSheet(&dataset.Set{}, 2, Options{})
	require.Error(t, err)
}

func TestEncodeAndSavePNG(t *testing.T) {
	set := buildSet(t, 1)
	out := Overlay(set.Samples[0], set.Config.Classes, Options{Scale: 1, ShowLabels: true})

	data, err := EncodePNG(out)
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, out.Bounds(), decoded.Bounds())

	path := filepath.Join(t.TempDir(), "overlay.png")
	require.NoError(t, SavePNG(out, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
