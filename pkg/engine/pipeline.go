package engine

import (
	"fmt"

	"prism/internal/logger"
	"prism/pkg/config"
)

// Pipeline owns the post-processing state for one viewport: the three
// offscreen surfaces, the staged parameter blocks, the animation state and
// the active effect set. All of its methods run on the render thread.
type Pipeline struct {
	dev    Device
	log    *logger.Logger
	width  int
	height int

	scene Surface
	post  Surface
	bloom Surface

	Effects EffectSet
	Frame   FrameParams
	Model   ModelParams
	Post    PostParams
	Anim    *AnimState
}

// NewPipeline creates the pipeline and its offscreen surfaces. Any creation
// failure releases what was already allocated and aborts startup.
func NewPipeline(dev Device, cfg config.PipelineConfig, width, height int, seed int64, log *logger.Logger) (*Pipeline, error) {
	pl := &Pipeline{
		dev:    dev,
		log:    log,
		width:  width,
		height: height,
		Model:  ModelParams{Color: [3]float32{1, 1, 1}},
		Post:   NewPostParams(cfg),
		Anim:   NewAnimState(seed),
	}

	for _, s := range []struct {
		name string
		dst  *Surface
	}{
		{"scene", &pl.scene},
		{"postprocess", &pl.post},
		{"bloom", &pl.bloom},
	} {
		surf, err := dev.CreateSurface(width, height)
		if err != nil {
			pl.Release()
			return nil, fmt.Errorf("%s surface: %w", s.name, err)
		}
		*s.dst = surf
	}

	for _, name := range cfg.Effects {
		e, ok := ParseEffect(name)
		if !ok {
			log.Warnf("unknown effect %q in config, ignoring", name)
			continue
		}
		pl.Effects = pl.Effects.With(e)
	}

	pl.Frame.AmbientColor = [3]float32{0.3, 0.3, 0.4}
	pl.Frame.SpecularPower = 256
	pl.Frame.CameraPos = [3]float32{25, 18, -45}
	pl.Frame.Light1Color = [3]float32{8, 8, 10}
	pl.Frame.Light2Pos = [3]float32{-70, 30, 100}
	pl.Frame.Light2Color = [3]float32{40, 32, 8}

	return pl, nil
}

// Release frees the offscreen surfaces. Safe on a partially constructed
// pipeline.
func (pl *Pipeline) Release() {
	for _, s := range []Surface{pl.scene, pl.post, pl.bloom} {
		if s != nil {
			s.Release()
		}
	}
	pl.scene, pl.post, pl.bloom = nil, nil, nil
}

// Toggle flips one effect. The change is picked up by the next frame's
// schedule decision.
func (pl *Pipeline) Toggle(e Effect) {
	pl.Effects = pl.Effects.Toggled(e)
	pl.log.Infof("effects: %s", pl.Effects)
}

// surface maps a schedule slot to a device surface. The presentation target
// is represented as nil.
func (pl *Pipeline) surface(s Slot) Surface {
	switch s {
	case SlotScene:
		return pl.scene
	case SlotPost:
		return pl.post
	case SlotBloom:
		return pl.bloom
	default:
		return nil
	}
}

// stage advances animation and refreshes the parameter blocks for the frame
func (pl *Pipeline) stage(dt float32) {
	pl.Anim.Advance(dt)

	pl.Frame.FrameTime = dt
	pl.Frame.Time = pl.Anim.Time
	pl.Frame.ViewportWidth = float32(pl.width)
	pl.Frame.ViewportHeight = float32(pl.height)
	pl.Frame.Light1Pos = pl.Anim.OrbitPos()

	pl.Anim.Stage(&pl.Post)
	pl.Post.ViewportWidth = float32(pl.width)
	pl.Post.ViewportHeight = float32(pl.height)
	pl.Post.NoiseScale = [2]float32{
		float32(pl.width) / (pl.Post.GrainSize * 64),
		float32(pl.height) / (pl.Post.GrainSize * 64),
	}
	pl.Post.ClampRanges()
}

// RenderFrame runs one full frame: scene render, the scheduled effect
// chain, and the copy to the presentation target. With no active effect the
// scene is rendered straight to the presentation target and no
// post-processing pass runs.
func (pl *Pipeline) RenderFrame(dt float32) error {
	pl.stage(dt)

	if pl.Effects.None() {
		if err := pl.dev.RenderScene(nil, &pl.Frame, &pl.Model); err != nil {
			return fmt.Errorf("scene render: %w", err)
		}
		return nil
	}

	if err := pl.dev.RenderScene(pl.scene, &pl.Frame, &pl.Model); err != nil {
		return fmt.Errorf("scene render: %w", err)
	}

	for _, p := range BuildSchedule(pl.Effects) {
		err := pl.dev.RunPass(p.Kind, pl.surface(p.Src), pl.surface(p.Src2), pl.surface(p.Dst), &pl.Post)
		if err != nil {
			return fmt.Errorf("%s pass (%s->%s): %w", p.Kind, p.Src, p.Dst, err)
		}
	}
	return nil
}
