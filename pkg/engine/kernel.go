package engine

import "github.com/chewxy/math32"

// Host-side twins of the kernel formulas the shaders evaluate. The software
// device samples with these; the tests check their normalization
// guarantees.

// GaussianKernel returns a normalized 1D kernel of length 2*radius+1 with
// weights exp(-(x*x)/(2*sigma*sigma)). The center weight is always 1 before
// normalization, so the weight sum can not be zero.
func GaussianKernel(radius int, sigma float32) []float32 {
	if radius < 1 {
		radius = 1
	}
	if sigma <= 0 {
		sigma = 1
	}

	weights := make([]float32, 2*radius+1)
	sum := float32(0)
	for x := -radius; x <= radius; x++ {
		w := math32.Exp(-float32(x*x) / (2 * sigma * sigma))
		weights[x+radius] = w
		sum += w
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// GaussianSigma derives the bell width from the staged blur parameters,
// floored at 1.0 exactly like the gaussian fragment shaders so both devices
// build the same kernel
func GaussianSigma(radius, curve float32) float32 {
	s := radius * curve / 3
	if s < 1 {
		s = 1
	}
	return s
}

// BoxKernel returns a normalized 2D kernel over a square neighborhood of
// the given radius, row-major with side 2*radius+1. Weights fall off
// linearly with distance from the center: w = radius - distance, floored at
// zero, with the center tap kept strictly positive.
func BoxKernel(radius int) []float32 {
	if radius < 1 {
		radius = 1
	}

	side := 2*radius + 1
	weights := make([]float32, side*side)
	sum := float32(0)
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			d := math32.Sqrt(float32(x*x + y*y))
			w := float32(radius) - d
			if w < 0 {
				w = 0
			}
			weights[(y+radius)*side+(x+radius)] = w
			sum += w
		}
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// KernelSum adds up a weight slice
func KernelSum(weights []float32) float32 {
	sum := float32(0)
	for _, w := range weights {
		sum += w
	}
	return sum
}
