package engine

import "errors"

// Error taxonomy. Initialization failures (creation/load) are fatal to
// pipeline startup; pass execution failures are surfaced per pass and
// reported by the frame loop.
var (
	ErrResourceCreation = errors.New("resource creation failed")
	ErrResourceLoad     = errors.New("resource load failed")
	ErrPassExecution    = errors.New("pass execution failed")
)

// ShaderKind identifies one full-screen shader pass program
type ShaderKind int

// The pass catalog
const (
	ShaderCopy ShaderKind = iota
	ShaderTint
	ShaderBoxBlur
	ShaderGaussianH
	ShaderGaussianV
	ShaderBright
	ShaderCombine
	ShaderPixelate
	ShaderPosterize
	ShaderUnderwater
	ShaderSpiral
	ShaderDistort

	shaderKindCount
)

var shaderKindNames = [shaderKindCount]string{
	ShaderCopy:       "copy",
	ShaderTint:       "tint",
	ShaderBoxBlur:    "box-blur",
	ShaderGaussianH:  "gaussian-h",
	ShaderGaussianV:  "gaussian-v",
	ShaderBright:     "bright-pass",
	ShaderCombine:    "bloom-combine",
	ShaderPixelate:   "pixelate",
	ShaderPosterize:  "posterize",
	ShaderUnderwater: "underwater",
	ShaderSpiral:     "spiral",
	ShaderDistort:    "distort",
}

func (k ShaderKind) String() string {
	if k >= 0 && k < shaderKindCount {
		return shaderKindNames[k]
	}
	return "unknown"
}

// Surface is an offscreen render target that can also be read as a shader
// input. A surface must never be bound as source and destination of the
// same pass.
type Surface interface {
	Size() (width, height int)
	Release()
}

// Device abstracts the rendering backend. Two implementations exist: the
// OpenGL device used on screen and a software device used headless and in
// tests. All submission is single-threaded; pass ordering is the only
// dependency mechanism.
type Device interface {
	// CreateSurface allocates a viewport-sized offscreen surface.
	// Errors wrap ErrResourceCreation.
	CreateSurface(width, height int) (Surface, error)

	// RenderScene draws the lit scene into dst, or into the presentation
	// target when dst is nil. The destination is cleared first.
	RenderScene(dst Surface, frame *FrameParams, model *ModelParams) error

	// RunPass binds the shader kind, reads src (and src2 for two-input
	// passes), uploads the parameter block and issues exactly one
	// full-screen draw into dst. A nil dst selects the presentation
	// target. Sources are unbound afterwards. Errors wrap
	// ErrPassExecution.
	RunPass(kind ShaderKind, src, src2 Surface, dst Surface, post *PostParams) error

	// Release frees all device-owned resources
	Release()
}
