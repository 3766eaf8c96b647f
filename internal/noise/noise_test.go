package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhite2DDeterministic(t *testing.T) {
	a := NewGenerator(42)
	b := NewGenerator(42)
	c := NewGenerator(43)

	same, diff := 0, 0
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.White2D(i, i*3, 0), b.White2D(i, i*3, 0))
		if a.White2D(i, i*3, 0) == c.White2D(i, i*3, 0) {
			same++
		} else {
			diff++
		}
	}
	assert.Greater(t, diff, same, "different seeds must produce different noise")
}

func TestWhite2DRange(t *testing.T) {
	g := NewGenerator(7)
	for y := -10; y < 10; y++ {
		for x := -10; x < 10; x++ {
			v := g.White2D(x, y, 0)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.Less(t, v, 1.0)
		}
	}
}

func TestValue2DInterpolatesLattice(t *testing.T) {
	g := NewGenerator(3)

	// at integer coordinates value noise matches the lattice sample
	assert.InDelta(t, g.White2D(4, 7, 0), g.Value2D(4, 7, 0), 1e-12)

	// between lattice points the value stays within range
	for i := 0; i < 50; i++ {
		v := g.Value2D(float64(i)*0.37, float64(i)*0.13, 0)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestFBM2DRange(t *testing.T) {
	g := NewGenerator(5)
	for i := 0; i < 100; i++ {
		v := g.FBM2D(float64(i)*0.21, float64(i)*0.17, 3, 0)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestGrainImage(t *testing.T) {
	g := NewGenerator(1)
	img := g.GrainImage(32, 16)

	require.Equal(t, 32, img.Bounds().Dx())
	require.Equal(t, 16, img.Bounds().Dy())

	// grayscale with full alpha, and not a flat fill
	flat := true
	first := img.Pix[0]
	for i := 0; i < len(img.Pix); i += 4 {
		assert.Equal(t, img.Pix[i], img.Pix[i+1])
		assert.Equal(t, img.Pix[i], img.Pix[i+2])
		assert.Equal(t, uint8(255), img.Pix[i+3])
		if img.Pix[i] != first {
			flat = false
		}
	}
	assert.False(t, flat)
}

func TestDistortImageSmoothVectors(t *testing.T) {
	g := NewGenerator(2)
	img := g.DistortImage(64, 64, 24)

	// neighbouring displacement vectors never jump far: the field is
	// smooth enough for glass distortion
	for y := 0; y < 64; y++ {
		for x := 1; x < 64; x++ {
			i := img.PixOffset(x, y)
			j := img.PixOffset(x-1, y)
			dr := int(img.Pix[i]) - int(img.Pix[j])
			dg := int(img.Pix[i+1]) - int(img.Pix[j+1])
			assert.LessOrEqual(t, abs(dr), 40, "R jump at (%d,%d)", x, y)
			assert.LessOrEqual(t, abs(dg), 40, "G jump at (%d,%d)", x, y)
			assert.Equal(t, uint8(128), img.Pix[i+2])
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
