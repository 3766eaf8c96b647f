package engine

import (
	"prism/internal/util"
	"prism/pkg/config"
)

// Parameter floors. Clamps are applied host-side before a block reaches a
// pass, never inside the shader stage, so kernel weight sums can not reach
// zero.
const (
	MinBlurRadius = 5
	MinBlurCurve  = 0.1
	MinBitStep    = 1
	MinGrainSize  = 1
)

// FrameParams is the per-frame constant block shared by every pass in a
// frame: camera, lights and timing for the scene pass, viewport and time for
// the post-processing passes.
type FrameParams struct {
	CameraPos   [3]float32
	CameraYaw   float32
	CameraPitch float32

	Light1Pos   [3]float32
	Light1Color [3]float32
	Light2Pos   [3]float32
	Light2Color [3]float32

	AmbientColor  [3]float32
	SpecularPower float32

	ViewportWidth  float32
	ViewportHeight float32
	FrameTime      float32
	Time           float32
}

// ModelParams is the per-model constant block. Mesh rendering (world
// matrices) lives outside this module; the scene collaborator only consumes
// an overall tint here.
type ModelParams struct {
	Color [3]float32
}

// PostParams is the per-pass constant block for post-processing. Only the
// subset relevant to the bound shader is read by a pass; the remaining
// fields are stale but harmless.
type PostParams struct {
	TintColor  [3]float32
	TintColor2 [3]float32

	BlurRadius float32
	BlurCurve  float32

	NoiseScale  [2]float32
	NoiseOffset [2]float32

	SpiralLevel float32

	WaterColor  [3]float32
	WaterColor2 [3]float32
	HWave       float32
	VWave       float32

	BloomThreshold float32
	BitStep        float32
	GrainSize      float32

	ViewportWidth  float32
	ViewportHeight float32
}

// NewPostParams seeds a parameter block from configuration defaults
func NewPostParams(cfg config.PipelineConfig) PostParams {
	p := PostParams{
		TintColor:      [3]float32{0, 1, 1},
		TintColor2:     [3]float32{1, 1, 0},
		BlurRadius:     cfg.BlurRadius,
		BlurCurve:      cfg.BlurCurve,
		WaterColor:     [3]float32{0, 1, 1},
		WaterColor2:    [3]float32{0, 0.5, 1},
		BloomThreshold: cfg.BloomThreshold,
		BitStep:        cfg.BitStep,
		GrainSize:      cfg.GrainSize,
	}
	p.ClampRanges()
	return p
}

// ClampRanges enforces every parameter floor. Called whenever the block is
// staged for upload.
func (p *PostParams) ClampRanges() {
	p.BlurRadius = util.ClampMin(p.BlurRadius, MinBlurRadius)
	p.BlurCurve = util.ClampMin(p.BlurCurve, MinBlurCurve)
	p.BitStep = util.ClampMin(p.BitStep, MinBitStep)
	p.GrainSize = util.ClampMin(p.GrainSize, MinGrainSize)
}

// AdjustBlurRadius changes the blur radius by delta, respecting the floor
func (p *PostParams) AdjustBlurRadius(delta float32) {
	p.BlurRadius = util.ClampMin(p.BlurRadius+delta, MinBlurRadius)
}

// ScaleBlurCurve scales the blur bell-curve width, respecting the floor
func (p *PostParams) ScaleBlurCurve(factor float32) {
	p.BlurCurve = util.ClampMin(p.BlurCurve*factor, MinBlurCurve)
}

// AdjustBitStep changes the color quantization step, respecting the floor
func (p *PostParams) AdjustBitStep(delta float32) {
	p.BitStep = util.ClampMin(p.BitStep+delta, MinBitStep)
}

// AdjustGrainSize changes the pixelation grain size, respecting the floor
func (p *PostParams) AdjustGrainSize(delta float32) {
	p.GrainSize = util.ClampMin(p.GrainSize+delta, MinGrainSize)
}
