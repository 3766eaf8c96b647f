package engine

import (
	"math/rand"

	"github.com/chewxy/math32"

	"prism/internal/util"
)

// Animation speeds, in units per second
const (
	hueSpeed    = 40.0 // degrees
	wiggleSpeed = 1.0  // radians
	orbitSpeed  = 0.7  // radians
	orbitRadius = 20.0
)

// AnimState holds every process-wide evolving value, advanced exactly once
// per frame. Hue angles wrap at 360 degrees; the other accumulators grow
// monotonically.
type AnimState struct {
	Time        float32
	Hue1        float32
	Hue2        float32
	WavePhaseH  float32
	WavePhaseV  float32
	Wiggle      float32
	OrbitAngle  float32
	NoiseOffset [2]float32

	rng *rand.Rand
}

// NewAnimState creates animation state. Hues start at cyan and yellow, the
// original tint pair.
func NewAnimState(seed int64) *AnimState {
	return &AnimState{
		Hue1: 180,
		Hue2: 60,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Advance moves every accumulator forward by one frame of dt seconds
func (a *AnimState) Advance(dt float32) {
	a.Time += dt
	a.Hue1 = util.Wrap(a.Hue1+hueSpeed*dt, 360)
	a.Hue2 = util.Wrap(a.Hue2+hueSpeed*dt, 360)

	// Two independent wave channels, the vertical one at half rate
	a.WavePhaseH = a.Time
	a.WavePhaseV = a.Time / 2

	a.Wiggle += wiggleSpeed * dt
	a.OrbitAngle -= orbitSpeed * dt

	// Re-randomized every frame for a TV-static grain
	a.NoiseOffset = [2]float32{a.rng.Float32(), a.rng.Float32()}
}

// SpiralLevel is the animated spiral strength, a damped cosine ramp
func (a *AnimState) SpiralLevel() float32 {
	return (1 - math32.Cos(a.Wiggle)) * 4
}

// Stage writes the animated values into a post-processing parameter block
func (a *AnimState) Stage(p *PostParams) {
	r, g, b := util.HSVToRGB(a.Hue1, 1, 1)
	p.TintColor = [3]float32{r, g, b}
	r, g, b = util.HSVToRGB(a.Hue2, 1, 1)
	p.TintColor2 = [3]float32{r, g, b}

	p.HWave = a.WavePhaseH
	p.VWave = a.WavePhaseV
	p.SpiralLevel = a.SpiralLevel()
	p.NoiseOffset = a.NoiseOffset
}

// OrbitPos places the orbiting light around a fixed hub
func (a *AnimState) OrbitPos() [3]float32 {
	return [3]float32{
		20 + math32.Cos(a.OrbitAngle)*orbitRadius,
		10,
		20 + math32.Sin(a.OrbitAngle)*orbitRadius,
	}
}
