package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testW = 64
	testH = 48
)

func newTestDevice(t *testing.T) *SoftDevice {
	t.Helper()
	dev, err := NewSoftDevice(testW, testH, 1)
	require.NoError(t, err)
	return dev
}

func newTestSurface(t *testing.T, dev *SoftDevice) *softSurface {
	t.Helper()
	s, err := dev.CreateSurface(testW, testH)
	require.NoError(t, err)
	return s.(*softSurface)
}

// fillRandom writes reproducible noise into a buffer, alpha kept at 1
func fillRandom(buf *frameBuf, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for i := range buf.pix {
		if i%4 == 3 {
			buf.pix[i] = 1
			continue
		}
		buf.pix[i] = rng.Float32()
	}
}

func defaultTestParams() *PostParams {
	p := PostParams{
		TintColor:      [3]float32{0, 1, 1},
		TintColor2:     [3]float32{1, 1, 0},
		BlurRadius:     5,
		BlurCurve:      1,
		WaterColor:     [3]float32{0, 1, 1},
		WaterColor2:    [3]float32{0, 0.5, 1},
		BloomThreshold: 0.7,
		BitStep:        16,
		GrainSize:      8,
		NoiseScale:     [2]float32{1, 1},
		ViewportWidth:  testW,
		ViewportHeight: testH,
	}
	return &p
}

func TestSoftDeviceRejectsBadSizes(t *testing.T) {
	_, err := NewSoftDevice(0, 10, 1)
	assert.ErrorIs(t, err, ErrResourceCreation)

	dev := newTestDevice(t)
	_, err = dev.CreateSurface(-1, 5)
	assert.ErrorIs(t, err, ErrResourceCreation)
}

func TestRunPassRejectsAliasing(t *testing.T) {
	dev := newTestDevice(t)
	a := newTestSurface(t, dev)

	err := dev.RunPass(ShaderCopy, a, nil, a, defaultTestParams())
	assert.ErrorIs(t, err, ErrPassExecution)

	err = dev.RunPass(ShaderCopy, nil, nil, a, defaultTestParams())
	assert.ErrorIs(t, err, ErrPassExecution)
}

func TestRunPassCombineNeedsSecondInput(t *testing.T) {
	dev := newTestDevice(t)
	a, b := newTestSurface(t, dev), newTestSurface(t, dev)

	err := dev.RunPass(ShaderCombine, a, nil, b, defaultTestParams())
	assert.ErrorIs(t, err, ErrPassExecution)
}

func TestCopyRoundTripIsExact(t *testing.T) {
	dev := newTestDevice(t)
	a, b, c := newTestSurface(t, dev), newTestSurface(t, dev), newTestSurface(t, dev)
	fillRandom(a.buf, 7)

	p := defaultTestParams()
	require.NoError(t, dev.RunPass(ShaderCopy, a, nil, b, p))
	require.NoError(t, dev.RunPass(ShaderCopy, b, nil, c, p))

	assert.Equal(t, a.buf.pix, c.buf.pix)
}

func TestBrightPassExact(t *testing.T) {
	dev := newTestDevice(t)
	in, out := newTestSurface(t, dev), newTestSurface(t, dev)
	fillRandom(in.buf, 3)

	p := defaultTestParams()
	require.NoError(t, dev.RunPass(ShaderBright, in, nil, out, p))

	for y := 0; y < testH; y++ {
		for x := 0; x < testW; x++ {
			r, g, b, _ := in.buf.at(x, y)
			or, og, ob, oa := out.buf.at(x, y)
			assert.Equal(t, float32(1), oa)
			if r+g+b < p.BloomThreshold {
				assert.Zero(t, or+og+ob, "pixel (%d,%d) below threshold must be black", x, y)
			} else {
				assert.Equal(t, [3]float32{r, g, b}, [3]float32{or, og, ob},
					"pixel (%d,%d) above threshold must pass unchanged", x, y)
			}
		}
	}
}

func TestCombineIsAdditiveWithClamp(t *testing.T) {
	dev := newTestDevice(t)
	a, b, out := newTestSurface(t, dev), newTestSurface(t, dev), newTestSurface(t, dev)
	fillRandom(a.buf, 11)
	fillRandom(b.buf, 12)

	require.NoError(t, dev.RunPass(ShaderCombine, a, b, out, defaultTestParams()))

	saturated := 0
	for i, v := range out.buf.pix {
		if i%4 == 3 {
			assert.Equal(t, float32(1), v)
			continue
		}
		sum := a.buf.pix[i] + b.buf.pix[i]
		if sum > 1 {
			sum = 1
			saturated++
		}
		assert.InDelta(t, sum, v, 1e-6)
	}
	// the random inputs must actually exercise the clamp
	assert.Greater(t, saturated, 0)
}

// Two 1D gaussian passes must match one 2D convolution with the separable
// kernel, away from the edges where clamp-to-edge sampling differs. The
// curve-floor case drives sigma into its 1.0 floor.
func TestGaussianSeparability(t *testing.T) {
	tests := []struct {
		name   string
		radius float32
		curve  float32
	}{
		{"default curve", 5, 1},
		{"curve floor", 5, MinBlurCurve},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := newTestDevice(t)
			in, mid, out := newTestSurface(t, dev), newTestSurface(t, dev), newTestSurface(t, dev)
			fillRandom(in.buf, 21)

			p := defaultTestParams()
			p.BlurRadius = tt.radius
			p.BlurCurve = tt.curve
			require.NoError(t, dev.RunPass(ShaderGaussianH, in, nil, mid, p))
			require.NoError(t, dev.RunPass(ShaderGaussianV, mid, nil, out, p))

			radius := int(p.BlurRadius)
			kernel := GaussianKernel(radius, GaussianSigma(p.BlurRadius, p.BlurCurve))

			for y := radius; y < testH-radius; y++ {
				for x := radius; x < testW-radius; x++ {
					var wr, wg, wb float32
					for ky := -radius; ky <= radius; ky++ {
						for kx := -radius; kx <= radius; kx++ {
							w := kernel[kx+radius] * kernel[ky+radius]
							sr, sg, sb, _ := in.buf.at(x+kx, y+ky)
							wr += sr * w
							wg += sg * w
							wb += sb * w
						}
					}
					or, og, ob, _ := out.buf.at(x, y)
					assert.InDelta(t, wr, or, 1e-4, "pixel (%d,%d) r", x, y)
					assert.InDelta(t, wg, og, 1e-4, "pixel (%d,%d) g", x, y)
					assert.InDelta(t, wb, ob, 1e-4, "pixel (%d,%d) b", x, y)
				}
			}
		})
	}
}

func TestBlursPreserveFlatFields(t *testing.T) {
	dev := newTestDevice(t)
	in, out := newTestSurface(t, dev), newTestSurface(t, dev)
	for y := 0; y < testH; y++ {
		for x := 0; x < testW; x++ {
			in.buf.set(x, y, 0.25, 0.5, 0.75, 1)
		}
	}

	p := defaultTestParams()
	for _, kind := range []ShaderKind{ShaderBoxBlur, ShaderGaussianH, ShaderGaussianV} {
		require.NoError(t, dev.RunPass(kind, in, nil, out, p))
		r, g, b, _ := out.buf.at(testW/2, testH/2)
		assert.InDelta(t, 0.25, r, 1e-4, "%s", kind)
		assert.InDelta(t, 0.5, g, 1e-4, "%s", kind)
		assert.InDelta(t, 0.75, b, 1e-4, "%s", kind)
	}
}

func TestPosterizeQuantizes(t *testing.T) {
	dev := newTestDevice(t)
	in, out := newTestSurface(t, dev), newTestSurface(t, dev)
	fillRandom(in.buf, 5)

	p := defaultTestParams()
	require.NoError(t, dev.RunPass(ShaderPosterize, in, nil, out, p))

	step := p.BitStep / 256
	for i, v := range out.buf.pix {
		if i%4 == 3 {
			continue
		}
		// every channel lands on a multiple of the quantization step
		n := v / step
		assert.InDelta(t, float64(int(n+0.5)), float64(n), 1e-4, "channel %d", i)
	}
}

func TestPixelateFlattensCells(t *testing.T) {
	dev := newTestDevice(t)
	in, out := newTestSurface(t, dev), newTestSurface(t, dev)
	fillRandom(in.buf, 9)

	p := defaultTestParams()
	p.NoiseScale = [2]float32{0, 0} // grain off: constant offset per pixel
	p.NoiseOffset = [2]float32{0, 0}
	require.NoError(t, dev.RunPass(ShaderPixelate, in, nil, out, p))

	// neighbouring pixels inside one grain cell are identical
	cell := int(p.GrainSize)
	r0, g0, b0, _ := out.buf.at(cell, cell)
	r1, g1, b1, _ := out.buf.at(cell+1, cell)
	assert.Equal(t, [3]float32{r0, g0, b0}, [3]float32{r1, g1, b1})
}

func TestSpiralCenterFixed(t *testing.T) {
	dev := newTestDevice(t)
	in, out := newTestSurface(t, dev), newTestSurface(t, dev)
	fillRandom(in.buf, 13)

	p := defaultTestParams()
	p.SpiralLevel = 5
	require.NoError(t, dev.RunPass(ShaderSpiral, in, nil, out, p))

	// the rotation angle scales with distance, so the exact center does not
	// move
	cr, cg, cb, _ := in.buf.sample(0.5, 0.5)
	or, og, ob, _ := out.buf.at(testW/2, testH/2)
	assert.InDelta(t, cr, or, 1e-5)
	assert.InDelta(t, cg, og, 1e-5)
	assert.InDelta(t, cb, ob, 1e-5)
}

func TestRenderSceneFillsFrame(t *testing.T) {
	dev := newTestDevice(t)
	dst := newTestSurface(t, dev)

	frame := &FrameParams{
		AmbientColor:   [3]float32{0.3, 0.3, 0.4},
		Light1Color:    [3]float32{1, 0.9, 0.8},
		Light2Color:    [3]float32{0.8, 0.9, 1},
		ViewportWidth:  testW,
		ViewportHeight: testH,
	}
	model := &ModelParams{Color: [3]float32{1, 1, 1}}
	require.NoError(t, dev.RenderScene(dst, frame, model))

	// sky and ground differ, so the frame is not a flat fill
	sr, sg, sb, _ := dst.buf.at(testW/2, 2)
	gr, gg, gb, _ := dst.buf.at(testW/2, testH-2)
	assert.NotEqual(t, [3]float32{sr, sg, sb}, [3]float32{gr, gg, gb})
}
