package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prism/internal/logger"
	"prism/pkg/config"
)

// countingDevice wraps the software device and records every submission
type countingDevice struct {
	*SoftDevice

	sceneRenders  int
	sceneToTarget int
	passes        []ShaderKind
	failOn        ShaderKind
	failArmed     bool
}

func (d *countingDevice) RenderScene(dst Surface, frame *FrameParams, model *ModelParams) error {
	d.sceneRenders++
	if dst == nil {
		d.sceneToTarget++
	}
	return d.SoftDevice.RenderScene(dst, frame, model)
}

func (d *countingDevice) RunPass(kind ShaderKind, src, src2 Surface, dst Surface, post *PostParams) error {
	if d.failArmed && kind == d.failOn {
		return fmt.Errorf("%s: simulated failure: %w", kind, ErrPassExecution)
	}
	d.passes = append(d.passes, kind)
	return d.SoftDevice.RunPass(kind, src, src2, dst, post)
}

// failingSurfaceDevice refuses the second surface allocation
type failingSurfaceDevice struct {
	*SoftDevice
	created int
}

func (d *failingSurfaceDevice) CreateSurface(width, height int) (Surface, error) {
	d.created++
	if d.created > 1 {
		return nil, fmt.Errorf("out of memory: %w", ErrResourceCreation)
	}
	return d.SoftDevice.CreateSurface(width, height)
}

func testLogger() *logger.Logger {
	return logger.New("error")
}

func newTestPipeline(t *testing.T, dev Device, cfg config.PipelineConfig) *Pipeline {
	t.Helper()
	pl, err := NewPipeline(dev, cfg, testW, testH, 1, testLogger())
	require.NoError(t, err)
	t.Cleanup(pl.Release)
	return pl
}

func TestPipelineFastPathSkipsPasses(t *testing.T) {
	dev := &countingDevice{SoftDevice: newTestDevice(t)}
	pl := newTestPipeline(t, dev, config.DefaultConfig().Pipeline)

	require.True(t, pl.Effects.None())
	require.NoError(t, pl.RenderFrame(0.016))

	assert.Equal(t, 1, dev.sceneRenders)
	assert.Equal(t, 1, dev.sceneToTarget, "scene must go straight to the presentation target")
	assert.Empty(t, dev.passes)
}

func TestPipelineRunsScheduledPasses(t *testing.T) {
	dev := &countingDevice{SoftDevice: newTestDevice(t)}
	pl := newTestPipeline(t, dev, config.DefaultConfig().Pipeline)

	pl.Toggle(EffectBloom)
	require.NoError(t, pl.RenderFrame(0.016))

	assert.Equal(t, 1, dev.sceneRenders)
	assert.Zero(t, dev.sceneToTarget, "scene must render offscreen when effects are active")
	assert.Equal(t,
		[]ShaderKind{ShaderBright, ShaderGaussianH, ShaderGaussianV, ShaderCombine, ShaderCopy},
		dev.passes)
}

func TestPipelineConfigEffects(t *testing.T) {
	cfg := config.DefaultConfig().Pipeline
	cfg.Effects = []string{"tint", "bogus", "bloom"}

	dev := &countingDevice{SoftDevice: newTestDevice(t)}
	pl := newTestPipeline(t, dev, cfg)

	assert.True(t, pl.Effects.Enabled(EffectTint))
	assert.True(t, pl.Effects.Enabled(EffectBloom))
	assert.False(t, pl.Effects.Enabled(EffectSpiral))
}

func TestPipelineToggle(t *testing.T) {
	dev := newTestDevice(t)
	pl := newTestPipeline(t, dev, config.DefaultConfig().Pipeline)

	pl.Toggle(EffectSpiral)
	assert.True(t, pl.Effects.Enabled(EffectSpiral))
	pl.Toggle(EffectSpiral)
	assert.True(t, pl.Effects.None())
}

func TestPipelinePassErrorPropagates(t *testing.T) {
	dev := &countingDevice{SoftDevice: newTestDevice(t), failOn: ShaderGaussianV, failArmed: true}
	pl := newTestPipeline(t, dev, config.DefaultConfig().Pipeline)

	pl.Toggle(EffectGaussianBlur)
	err := pl.RenderFrame(0.016)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPassExecution)
	assert.Contains(t, err.Error(), "gaussian-v")
}

func TestPipelineSurfaceFailureAborts(t *testing.T) {
	dev := &failingSurfaceDevice{SoftDevice: newTestDevice(t)}
	_, err := NewPipeline(dev, config.DefaultConfig().Pipeline, testW, testH, 1, testLogger())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResourceCreation))
}

func TestPipelineStagesAnimatedParams(t *testing.T) {
	dev := newTestDevice(t)
	pl := newTestPipeline(t, dev, config.DefaultConfig().Pipeline)

	pl.Toggle(EffectUnderwater)
	require.NoError(t, pl.RenderFrame(0.5))
	firstWave := pl.Post.HWave
	firstLight := pl.Frame.Light1Pos

	require.NoError(t, pl.RenderFrame(0.5))
	assert.Greater(t, pl.Post.HWave, firstWave, "wave phase advances with time")
	assert.NotEqual(t, firstLight, pl.Frame.Light1Pos, "orbit light moves")
	assert.Equal(t, float32(1), pl.Frame.Time)
	assert.InDelta(t, float64(testW)/(8*64), float64(pl.Post.NoiseScale[0]), 1e-5)
}

func TestPipelineFullChainProducesFrame(t *testing.T) {
	soft := newTestDevice(t)
	pl := newTestPipeline(t, soft, config.DefaultConfig().Pipeline)

	for _, e := range []Effect{EffectTint, EffectGaussianBlur, EffectRetro, EffectBloom} {
		pl.Toggle(e)
	}
	require.NoError(t, pl.RenderFrame(0.016))

	img := soft.Frame()
	bounds := img.Bounds()
	require.Equal(t, testW, bounds.Dx())
	require.Equal(t, testH, bounds.Dy())

	// the presentation target received actual content
	flat := true
	first := img.Pix[0:3]
	for i := 4; i < len(img.Pix); i += 4 {
		if img.Pix[i] != first[0] || img.Pix[i+1] != first[1] || img.Pix[i+2] != first[2] {
			flat = false
			break
		}
	}
	assert.False(t, flat, "frame must not be a flat fill")
}
