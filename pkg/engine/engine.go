package engine

import (
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"prism/internal/logger"
	"prism/pkg/config"
)

// Engine owns the window, the frame loop and the pipeline
type Engine struct {
	window   *glfw.Window
	cfg      *config.Config
	log      *logger.Logger
	device   *GLDevice
	pipeline *Pipeline
	input    *InputHandler
	audio    *AudioEngine

	isRunning  bool
	vsync      bool
	lastUpdate time.Time

	// FPS averaging for the window title, refreshed twice a second
	fpsAccum  float64
	fpsFrames int
}

// NewEngine creates the window, GL device and pipeline
func NewEngine(cfg *config.Config, log *logger.Logger) (*Engine, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %v", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	var monitor *glfw.Monitor
	if cfg.Graphics.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	window, err := glfw.CreateWindow(cfg.Graphics.Width, cfg.Graphics.Height, "Prism", monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %v", err)
	}
	window.MakeContextCurrent()

	seed := cfg.Pipeline.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	device, err := NewGLDevice(cfg.Graphics.Width, cfg.Graphics.Height, seed, log)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize GL device: %w", err)
	}

	pipeline, err := NewPipeline(device, cfg.Pipeline, cfg.Graphics.Width, cfg.Graphics.Height, seed, log)
	if err != nil {
		device.Release()
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize pipeline: %w", err)
	}

	e := &Engine{
		window:   window,
		cfg:      cfg,
		log:      log,
		device:   device,
		pipeline: pipeline,
		input:    NewInputHandler(window),
		vsync:    cfg.Graphics.VSync,
	}
	e.applyVSync()

	if cfg.Audio.Enabled {
		audio, err := NewAudioEngine(cfg.Audio, log)
		if err != nil {
			log.Warnf("audio disabled: %v", err)
		} else {
			e.audio = audio
		}
	}

	return e, nil
}

func (e *Engine) applyVSync() {
	if e.vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
}

// Run starts the frame loop and blocks until the window closes
func (e *Engine) Run() {
	e.isRunning = true
	e.lastUpdate = time.Now()

	for e.isRunning && !e.window.ShouldClose() {
		frameStart := time.Now()
		dt := frameStart.Sub(e.lastUpdate).Seconds()
		e.lastUpdate = frameStart

		e.input.Update()
		e.processInput()

		if err := e.pipeline.RenderFrame(float32(dt)); err != nil {
			// Pass failures are reported but the loop keeps running;
			// the next frame rebuilds the schedule from scratch
			e.log.Errorf("frame dropped: %v", err)
		}

		if e.audio != nil {
			e.audio.SetMuffled(e.pipeline.Effects.Enabled(EffectUnderwater))
		}

		e.window.SwapBuffers()
		glfw.PollEvents()

		e.updateTitle(dt)

		// Cap the frame rate when not vsync-locked
		if !e.vsync && e.cfg.Graphics.FrameRate > 0 {
			elapsed := time.Since(frameStart)
			target := time.Second / time.Duration(e.cfg.Graphics.FrameRate)
			if elapsed < target {
				time.Sleep(target - elapsed)
			}
		}
	}

	e.cleanup()
}

// updateTitle shows averaged frame time and FPS in the window title
func (e *Engine) updateTitle(dt float64) {
	e.fpsAccum += dt
	e.fpsFrames++
	if e.fpsAccum < 0.5 {
		return
	}
	avg := e.fpsAccum / float64(e.fpsFrames)
	e.window.SetTitle(fmt.Sprintf("Prism [%s] - %.2fms, %d FPS",
		e.pipeline.Effects, avg*1000, int(1/avg+0.5)))
	e.fpsAccum = 0
	e.fpsFrames = 0
}

// processInput applies the frame's key events: edge-triggered toggles,
// held-key parameter adjustments
func (e *Engine) processInput() {
	in := e.input

	if in.Pressed(glfw.KeyEscape) {
		e.isRunning = false
		return
	}

	for key, effect := range effectKeys {
		if in.Pressed(key) {
			e.pipeline.Toggle(effect)
		}
	}
	if in.Pressed(glfw.Key0) {
		e.pipeline.Effects = 0
		e.log.Infof("effects: none")
	}

	post := &e.pipeline.Post
	if in.Down(glfw.KeyComma) {
		post.AdjustBlurRadius(-1)
	}
	if in.Down(glfw.KeyPeriod) {
		post.AdjustBlurRadius(1)
	}
	if in.Down(glfw.KeyK) {
		post.ScaleBlurCurve(1 / 1.1)
	}
	if in.Down(glfw.KeyL) {
		post.ScaleBlurCurve(1.1)
	}
	if in.Down(glfw.KeyMinus) {
		post.AdjustBitStep(-1)
	}
	if in.Down(glfw.KeyEqual) {
		post.AdjustBitStep(1)
	}
	if in.Down(glfw.KeyLeftBracket) {
		post.AdjustGrainSize(-1)
	}
	if in.Down(glfw.KeyRightBracket) {
		post.AdjustGrainSize(1)
	}

	if in.Pressed(glfw.KeyP) {
		e.vsync = !e.vsync
		e.applyVSync()
		e.log.Infof("vsync lock: %v", e.vsync)
	}
	if in.Pressed(glfw.KeyF12) {
		if err := e.screenshot(); err != nil {
			e.log.Errorf("screenshot: %v", err)
		}
	}
}

// screenshot saves the presented frame as a PNG next to the binary
func (e *Engine) screenshot() error {
	name := fmt.Sprintf("prism-%s.png", time.Now().Format("20060102-150405"))
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, e.device.ReadFrame()); err != nil {
		return err
	}
	e.log.Infof("saved %s", name)
	return nil
}

// cleanup releases everything on the way out
func (e *Engine) cleanup() {
	e.log.Infof("shutting down")
	if e.audio != nil {
		e.audio.Shutdown()
	}
	e.pipeline.Release()
	e.device.Release()
	glfw.Terminate()
}
