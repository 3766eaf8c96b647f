package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"prism/pkg/config"
)

func TestNewPostParamsDefaults(t *testing.T) {
	p := NewPostParams(config.DefaultConfig().Pipeline)

	assert.Equal(t, float32(10), p.BlurRadius)
	assert.Equal(t, float32(1), p.BlurCurve)
	assert.Equal(t, float32(0.7), p.BloomThreshold)
	assert.Equal(t, float32(16), p.BitStep)
	assert.Equal(t, float32(8), p.GrainSize)
}

func TestNewPostParamsClampsBadConfig(t *testing.T) {
	p := NewPostParams(config.PipelineConfig{
		BlurRadius: -40,
		BlurCurve:  0,
		BitStep:    0,
		GrainSize:  -1,
	})

	assert.Equal(t, float32(MinBlurRadius), p.BlurRadius)
	assert.Equal(t, float32(MinBlurCurve), p.BlurCurve)
	assert.Equal(t, float32(MinBitStep), p.BitStep)
	assert.Equal(t, float32(MinGrainSize), p.GrainSize)
}

func TestParamAdjustmentFloors(t *testing.T) {
	p := NewPostParams(config.DefaultConfig().Pipeline)

	// hammer decrement past the floor, then come back up
	for i := 0; i < 100; i++ {
		p.AdjustBlurRadius(-1)
	}
	assert.Equal(t, float32(MinBlurRadius), p.BlurRadius)
	p.AdjustBlurRadius(3)
	assert.Equal(t, float32(MinBlurRadius+3), p.BlurRadius)

	for i := 0; i < 200; i++ {
		p.ScaleBlurCurve(1 / 1.1)
	}
	assert.Equal(t, float32(MinBlurCurve), p.BlurCurve)
	p.ScaleBlurCurve(1.1)
	assert.Greater(t, p.BlurCurve, float32(MinBlurCurve))

	for i := 0; i < 50; i++ {
		p.AdjustBitStep(-1)
		p.AdjustGrainSize(-1)
	}
	assert.Equal(t, float32(MinBitStep), p.BitStep)
	assert.Equal(t, float32(MinGrainSize), p.GrainSize)
}

func TestAnimHueWraps(t *testing.T) {
	a := NewAnimState(1)
	assert.Equal(t, float32(180), a.Hue1)
	assert.Equal(t, float32(60), a.Hue2)

	// 40 degrees per second: after 9 seconds of frames Hue1 crosses 360
	for i := 0; i < 900; i++ {
		a.Advance(0.01)
	}
	assert.GreaterOrEqual(t, a.Hue1, float32(0))
	assert.Less(t, a.Hue1, float32(360))
	assert.GreaterOrEqual(t, a.Hue2, float32(0))
	assert.Less(t, a.Hue2, float32(360))
	assert.InDelta(t, 9.0, a.Time, 1e-2)
}

func TestAnimStage(t *testing.T) {
	a := NewAnimState(1)
	a.Advance(0.5)

	var p PostParams
	a.Stage(&p)

	assert.Equal(t, a.WavePhaseH, p.HWave)
	assert.Equal(t, a.WavePhaseV, p.VWave)
	assert.InDelta(t, a.WavePhaseH/2, p.VWave, 1e-6)
	assert.Equal(t, a.SpiralLevel(), p.SpiralLevel)
	assert.Equal(t, a.NoiseOffset, p.NoiseOffset)

	// staged tints are live HSV colors, not black
	assert.NotEqual(t, [3]float32{}, p.TintColor)
	assert.NotEqual(t, [3]float32{}, p.TintColor2)
}

func TestAnimSpiralLevelRange(t *testing.T) {
	a := NewAnimState(7)
	for i := 0; i < 1000; i++ {
		a.Advance(0.016)
		level := a.SpiralLevel()
		assert.GreaterOrEqual(t, level, float32(0))
		assert.LessOrEqual(t, level, float32(8.0001))
	}
}

func TestAnimNoiseOffsetDeterministic(t *testing.T) {
	a, b := NewAnimState(42), NewAnimState(42)
	for i := 0; i < 10; i++ {
		a.Advance(0.016)
		b.Advance(0.016)
	}
	assert.Equal(t, a.NoiseOffset, b.NoiseOffset)

	c := NewAnimState(43)
	c.Advance(0.016)
	a2 := NewAnimState(42)
	a2.Advance(0.016)
	assert.NotEqual(t, a2.NoiseOffset, c.NoiseOffset)
}
