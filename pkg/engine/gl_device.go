package engine

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/go-gl/gl/v4.1-core/gl"

	"prism/internal/logger"
	"prism/internal/noise"
)

// GLDevice renders through OpenGL 4.1 core. It owns one linked program per
// catalog entry, the scene program, the procedural lookup textures and an
// empty VAO for the synthesized full-screen quad.
type GLDevice struct {
	log        *logger.Logger
	programs   [shaderKindCount]uint32
	sceneProg  uint32
	quadVAO    uint32
	noiseTex   uint32
	distortTex uint32
	width      int
	height     int
	background [3]float32
}

type glSurface struct {
	tex    uint32
	fbo    uint32
	width  int
	height int
}

func (s *glSurface) Size() (int, int) { return s.width, s.height }

func (s *glSurface) Release() {
	gl.DeleteTextures(1, &s.tex)
	gl.DeleteFramebuffers(1, &s.fbo)
}

// NewGLDevice initializes OpenGL state, compiles every pass program and
// builds the noise and distortion lookup textures. The caller must have a
// current GL context on this thread.
func NewGLDevice(width, height int, seed int64, log *logger.Logger) (*GLDevice, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %v: %w", err, ErrResourceLoad)
	}

	d := &GLDevice{
		log:        log,
		width:      width,
		height:     height,
		background: [3]float32{0.3, 0.3, 0.4},
	}

	for kind := ShaderKind(0); kind < shaderKindCount; kind++ {
		prog, err := newProgram(fullscreenVertexShader, fragmentSources[kind])
		if err != nil {
			d.Release()
			return nil, fmt.Errorf("%s program: %w", kind, err)
		}
		d.programs[kind] = prog
	}

	sceneProg, err := newProgram(fullscreenVertexShader, sceneFragmentShader)
	if err != nil {
		d.Release()
		return nil, fmt.Errorf("scene program: %w", err)
	}
	d.sceneProg = sceneProg

	// Core profile needs a bound VAO even for bufferless draws
	gl.GenVertexArrays(1, &d.quadVAO)

	gen := noise.NewGenerator(seed)
	d.noiseTex = uploadTexture(gen.GrainImage(256, 256), gl.REPEAT)
	d.distortTex = uploadTexture(gen.DistortImage(256, 256, 24), gl.REPEAT)

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)

	log.Debugf("GL device ready, %d pass programs", shaderKindCount)
	return d, nil
}

// uploadTexture creates a GL texture from an RGBA image
func uploadTexture(img *image.RGBA, wrap int32) uint32 {
	// Re-draw to guarantee a tightly packed pixel slice
	bounds := img.Bounds()
	packed := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(packed, packed.Bounds(), img, bounds.Min, draw.Src)

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(bounds.Dx()), int32(bounds.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(packed.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

// CreateSurface allocates a render-to texture with its framebuffer binding
func (d *GLDevice) CreateSurface(width, height int) (Surface, error) {
	s := &glSurface{width: width, height: height}

	gl.GenTextures(1, &s.tex)
	gl.BindTexture(gl.TEXTURE_2D, s.tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.GenFramebuffers(1, &s.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, s.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, s.tex, 0)

	if gl.CheckFramebufferStatus(gl.FRAMEBUFFER) != gl.FRAMEBUFFER_COMPLETE {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		s.Release()
		return nil, fmt.Errorf("framebuffer incomplete: %w", ErrResourceCreation)
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return s, nil
}

// bindTarget selects dst, or the default framebuffer when dst is nil
func (d *GLDevice) bindTarget(dst Surface) {
	if dst == nil {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, int32(d.width), int32(d.height))
		return
	}
	s := dst.(*glSurface)
	gl.BindFramebuffer(gl.FRAMEBUFFER, s.fbo)
	gl.Viewport(0, 0, int32(s.width), int32(s.height))
}

func uniformLoc(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}

// uploadPostParams stages the whole parameter block; programs that do not
// declare a field simply report location -1 and the upload is skipped by GL
func uploadPostParams(prog uint32, p *PostParams) {
	gl.Uniform3f(uniformLoc(prog, "tintColor"), p.TintColor[0], p.TintColor[1], p.TintColor[2])
	gl.Uniform3f(uniformLoc(prog, "tintColor2"), p.TintColor2[0], p.TintColor2[1], p.TintColor2[2])
	gl.Uniform1f(uniformLoc(prog, "blurRadius"), p.BlurRadius)
	gl.Uniform1f(uniformLoc(prog, "blurCurve"), p.BlurCurve)
	gl.Uniform2f(uniformLoc(prog, "noiseScale"), p.NoiseScale[0], p.NoiseScale[1])
	gl.Uniform2f(uniformLoc(prog, "noiseOffset"), p.NoiseOffset[0], p.NoiseOffset[1])
	gl.Uniform1f(uniformLoc(prog, "spiralLevel"), p.SpiralLevel)
	gl.Uniform3f(uniformLoc(prog, "waterColor"), p.WaterColor[0], p.WaterColor[1], p.WaterColor[2])
	gl.Uniform3f(uniformLoc(prog, "waterColor2"), p.WaterColor2[0], p.WaterColor2[1], p.WaterColor2[2])
	gl.Uniform1f(uniformLoc(prog, "hWave"), p.HWave)
	gl.Uniform1f(uniformLoc(prog, "vWave"), p.VWave)
	gl.Uniform1f(uniformLoc(prog, "bloomThreshold"), p.BloomThreshold)
	gl.Uniform1f(uniformLoc(prog, "bitStep"), p.BitStep)
	gl.Uniform1f(uniformLoc(prog, "grainSize"), p.GrainSize)
	gl.Uniform2f(uniformLoc(prog, "viewportSize"), p.ViewportWidth, p.ViewportHeight)
}

// RunPass executes one full-screen pass: exactly one 4-vertex
// triangle-strip draw with no vertex buffer
func (d *GLDevice) RunPass(kind ShaderKind, src, src2 Surface, dst Surface, post *PostParams) error {
	prog := d.programs[kind]
	gl.UseProgram(prog)
	d.bindTarget(dst)

	if src != nil {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, src.(*glSurface).tex)
		gl.Uniform1i(uniformLoc(prog, "sourceImage"), 0)
	}

	// Secondary input: the scene for the bloom combine, otherwise the
	// device-owned lookup texture some passes need
	secondary := uint32(0)
	secondaryName := ""
	switch {
	case src2 != nil:
		secondary, secondaryName = src2.(*glSurface).tex, "sceneImage"
	case kind == ShaderPixelate:
		secondary, secondaryName = d.noiseTex, "noiseImage"
	case kind == ShaderDistort:
		secondary, secondaryName = d.distortTex, "distortImage"
	}
	if secondary != 0 {
		gl.ActiveTexture(gl.TEXTURE1)
		gl.BindTexture(gl.TEXTURE_2D, secondary)
		gl.Uniform1i(uniformLoc(prog, secondaryName), 1)
	}

	uploadPostParams(prog, post)

	gl.BindVertexArray(d.quadVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)

	// Unbind the read inputs so the next pass can render into them
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if e := gl.GetError(); e != gl.NO_ERROR {
		return fmt.Errorf("%s: gl error 0x%04x: %w", kind, e, ErrPassExecution)
	}
	return nil
}

// RenderScene draws the procedural lit scene
func (d *GLDevice) RenderScene(dst Surface, frame *FrameParams, model *ModelParams) error {
	prog := d.sceneProg
	gl.UseProgram(prog)
	d.bindTarget(dst)

	gl.ClearColor(d.background[0], d.background[1], d.background[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.Uniform3f(uniformLoc(prog, "cameraPos"), frame.CameraPos[0], frame.CameraPos[1], frame.CameraPos[2])
	gl.Uniform1f(uniformLoc(prog, "cameraYaw"), frame.CameraYaw)
	gl.Uniform1f(uniformLoc(prog, "cameraPitch"), frame.CameraPitch)
	gl.Uniform3f(uniformLoc(prog, "light1Pos"), frame.Light1Pos[0], frame.Light1Pos[1], frame.Light1Pos[2])
	gl.Uniform3f(uniformLoc(prog, "light1Color"), frame.Light1Color[0], frame.Light1Color[1], frame.Light1Color[2])
	gl.Uniform3f(uniformLoc(prog, "light2Pos"), frame.Light2Pos[0], frame.Light2Pos[1], frame.Light2Pos[2])
	gl.Uniform3f(uniformLoc(prog, "light2Color"), frame.Light2Color[0], frame.Light2Color[1], frame.Light2Color[2])
	gl.Uniform3f(uniformLoc(prog, "ambientColor"), frame.AmbientColor[0], frame.AmbientColor[1], frame.AmbientColor[2])
	gl.Uniform1f(uniformLoc(prog, "specularPower"), frame.SpecularPower)
	gl.Uniform2f(uniformLoc(prog, "viewportSize"), frame.ViewportWidth, frame.ViewportHeight)
	gl.Uniform1f(uniformLoc(prog, "time"), frame.Time)
	gl.Uniform3f(uniformLoc(prog, "objectColor"), model.Color[0], model.Color[1], model.Color[2])

	gl.BindVertexArray(d.quadVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)

	if e := gl.GetError(); e != gl.NO_ERROR {
		return fmt.Errorf("scene: gl error 0x%04x: %w", e, ErrPassExecution)
	}
	return nil
}

// ReadFrame copies the presentation target back into an image, bottom row
// first as GL stores it, flipped on the way out. Used for screenshots.
func (d *GLDevice) ReadFrame() *image.RGBA {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	raw := make([]uint8, d.width*d.height*4)
	gl.ReadPixels(0, 0, int32(d.width), int32(d.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(raw))

	img := image.NewRGBA(image.Rect(0, 0, d.width, d.height))
	for y := 0; y < d.height; y++ {
		srcRow := raw[(d.height-1-y)*d.width*4 : (d.height-y)*d.width*4]
		copy(img.Pix[y*img.Stride:y*img.Stride+d.width*4], srcRow)
	}
	return img
}

// Release frees every device-owned GL object
func (d *GLDevice) Release() {
	for _, prog := range d.programs {
		if prog != 0 {
			gl.DeleteProgram(prog)
		}
	}
	if d.sceneProg != 0 {
		gl.DeleteProgram(d.sceneProg)
	}
	if d.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &d.quadVAO)
	}
	if d.noiseTex != 0 {
		gl.DeleteTextures(1, &d.noiseTex)
	}
	if d.distortTex != 0 {
		gl.DeleteTextures(1, &d.distortTex)
	}
}
