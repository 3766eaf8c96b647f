package noise

import (
	"image"
	"image/color"
	"math"
)

// Generator produces deterministic 2D noise from a seed
type Generator struct {
	seed int64
}

// NewGenerator creates a noise generator for the given seed
func NewGenerator(seed int64) *Generator {
	return &Generator{seed: seed}
}

// hash combines the coordinates and seed to create a unique hash
func hash(x, y, channel int, seed int64) int {
	h := int(seed) + x*374761393 + y*668265263 + channel*1442695041
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}

// hashToFloat converts a hash to a float in range [0, 1)
func hashToFloat(h int) float64 {
	return float64(h&0xFFFFFF) / 16777216.0
}

// White2D returns uncorrelated noise in [0, 1) for a lattice point
func (g *Generator) White2D(x, y, channel int) float64 {
	return hashToFloat(hash(x, y, channel, g.seed))
}

// Value2D returns smooth value noise in [0, 1) at an arbitrary point
func (g *Generator) Value2D(x, y float64, channel int) float64 {
	ix := int(math.Floor(x))
	iy := int(math.Floor(y))
	fx := x - float64(ix)
	fy := y - float64(iy)

	// Smooth the interpolation factors
	fx = fx * fx * (3 - 2*fx)
	fy = fy * fy * (3 - 2*fy)

	v00 := g.White2D(ix, iy, channel)
	v10 := g.White2D(ix+1, iy, channel)
	v01 := g.White2D(ix, iy+1, channel)
	v11 := g.White2D(ix+1, iy+1, channel)

	top := v00 + (v10-v00)*fx
	bottom := v01 + (v11-v01)*fx
	return top + (bottom-top)*fy
}

// FBM2D layers several octaves of value noise, result in [0, 1)
func (g *Generator) FBM2D(x, y float64, octaves int, channel int) float64 {
	result := 0.0
	amplitude := 1.0
	frequency := 1.0
	max := 0.0

	for i := 0; i < octaves; i++ {
		result += g.Value2D(x*frequency, y*frequency, channel+i) * amplitude
		max += amplitude
		amplitude *= 0.5
		frequency *= 2.0
	}

	return result / max
}

// GrainImage builds a grayscale static image, one random level per pixel.
// Used as the film-grain lookup for the retro effect.
func (g *Generator) GrainImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(g.White2D(x, y, 0) * 255)
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

// DistortImage builds a smooth 2D vector field encoded in the R and G
// channels, 128 meaning zero displacement. Used by the glass-distortion
// effect in place of a shipped texture asset.
func (g *Generator) DistortImage(width, height int, scale float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			nx := g.FBM2D(float64(x)/scale, float64(y)/scale, 3, 0)
			ny := g.FBM2D(float64(x)/scale, float64(y)/scale, 3, 16)
			img.Set(x, y, color.RGBA{
				uint8(nx * 255),
				uint8(ny * 255),
				128,
				255,
			})
		}
	}
	return img
}
