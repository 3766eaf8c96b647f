package util

import (
	"github.com/chewxy/math32"
)

// Clamp restricts a value to be between min and max
func Clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampMin restricts a value to be at least min
func ClampMin(v, min float32) float32 {
	if v < min {
		return min
	}
	return v
}

// ClampMinInt restricts an int to be at least min
func ClampMinInt(v, min int) int {
	if v < min {
		return min
	}
	return v
}

// Lerp performs linear interpolation between a and b with t in [0,1]
func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

// Wrap wraps a value into [0, period)
func Wrap(v, period float32) float32 {
	v = math32.Mod(v, period)
	if v < 0 {
		v += period
	}
	return v
}

// SmoothStep performs cubic interpolation between a and b
func SmoothStep(a, b, t float32) float32 {
	t = Clamp(t, 0, 1)
	t = t * t * (3 - 2*t)
	return a + t*(b-a)
}

// HSVToRGB converts a hue (degrees), saturation and value to RGB components in [0,1]
func HSVToRGB(h, s, v float32) (r, g, b float32) {
	h = Wrap(h, 360)
	c := v * s
	x := c * (1 - math32.Abs(math32.Mod(h/60, 2)-1))
	m := v - c

	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return r + m, g + m, b + m
}
