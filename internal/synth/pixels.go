package synth

// Pixels converts the sample image to a normalized intensity array in
// row-major HWC order (height, width, channel), each channel scaled to
// [0, 1]. The slice length is S*S*3.
func (s Sample) Pixels() []float64 {
	img := s.Image
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	out := make([]float64, 0, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			px := img.NRGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
			out = append(out,
				float64(px.R)/255,
				float64(px.G)/255,
				float64(px.B)/255,
			)
		}
	}
	return out
}

// Features downsamples the sample image onto a grid×grid grayscale intensity
// grid, sampling the nearest source pixel for each cell. The result has
// length grid*grid with every value in [0, 1] and preserves coarse spatial
// layout, which is what the box head relies on.
func (s Sample) Features(grid int) []float64 {
	img := s.Image
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	features := make([]float64, grid*grid)
	stepX := float64(width) / float64(grid)
	stepY := float64(height) / float64(grid)
	for gy := 0; gy < grid; gy++ {
		for gx := 0; gx < grid; gx++ {
			px := int(float64(gx) * stepX)
			py := int(float64(gy) * stepY)
			if px >= width {
				px = width - 1
			}
			if py >= height {
				py = height - 1
			}
			c := img.NRGBAAt(bounds.Min.X+px, bounds.Min.Y+py)
			features[gy*grid+gx] = (float64(c.R) + float64(c.G) + float64(c.B)) / (3 * 255)
		}
	}
	return features
}
