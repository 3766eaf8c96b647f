package engine

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"
	xdraw "golang.org/x/image/draw"

	"prism/internal/noise"
	"prism/internal/util"
)

// SoftDevice executes the whole pass catalog on the CPU over float32
// frames. It backs headless rendering and is the pixel-level reference the
// tests run against.
type SoftDevice struct {
	width   int
	height  int
	target  *frameBuf
	noise   *frameBuf
	distort *frameBuf
}

// frameBuf is a float32 RGBA pixel buffer with clamp-to-edge sampling
type frameBuf struct {
	w, h int
	pix  []float32
}

func newFrameBuf(w, h int) *frameBuf {
	return &frameBuf{w: w, h: h, pix: make([]float32, w*h*4)}
}

func (f *frameBuf) at(x, y int) (r, g, b, a float32) {
	if x < 0 {
		x = 0
	} else if x >= f.w {
		x = f.w - 1
	}
	if y < 0 {
		y = 0
	} else if y >= f.h {
		y = f.h - 1
	}
	i := (y*f.w + x) * 4
	return f.pix[i], f.pix[i+1], f.pix[i+2], f.pix[i+3]
}

// sample reads at UV coordinates in [0,1) with point filtering
func (f *frameBuf) sample(u, v float32) (r, g, b, a float32) {
	return f.at(int(u*float32(f.w)), int(v*float32(f.h)))
}

func (f *frameBuf) set(x, y int, r, g, b, a float32) {
	i := (y*f.w + x) * 4
	f.pix[i], f.pix[i+1], f.pix[i+2], f.pix[i+3] = r, g, b, a
}

func (f *frameBuf) copyFrom(src *frameBuf) {
	copy(f.pix, src.pix)
}

// toImage converts to 8-bit RGBA with clamping
func (f *frameBuf) toImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.w, f.h))
	for i, v := range f.pix {
		img.Pix[i] = uint8(util.Clamp(v, 0, 1)*255 + 0.5)
	}
	return img
}

// fromImage loads an 8-bit RGBA image
func (f *frameBuf) fromImage(img *image.RGBA) {
	for i := range f.pix {
		f.pix[i] = float32(img.Pix[i]) / 255
	}
}

type softSurface struct {
	buf *frameBuf
}

func (s *softSurface) Size() (int, int) { return s.buf.w, s.buf.h }
func (s *softSurface) Release()         {}

// NewSoftDevice creates a software device with the presentation target and
// the procedural lookup frames ready
func NewSoftDevice(width, height int, seed int64) (*SoftDevice, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d: %w", width, height, ErrResourceCreation)
	}

	d := &SoftDevice{
		width:   width,
		height:  height,
		target:  newFrameBuf(width, height),
		noise:   newFrameBuf(256, 256),
		distort: newFrameBuf(256, 256),
	}
	gen := noise.NewGenerator(seed)
	d.noise.fromImage(gen.GrainImage(256, 256))
	d.distort.fromImage(gen.DistortImage(256, 256, 24))
	return d, nil
}

// CreateSurface allocates an offscreen frame
func (d *SoftDevice) CreateSurface(width, height int) (Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d: %w", width, height, ErrResourceCreation)
	}
	return &softSurface{buf: newFrameBuf(width, height)}, nil
}

// Frame returns the current presentation target contents
func (d *SoftDevice) Frame() *image.RGBA {
	return d.target.toImage()
}

// Release implements Device; the software device holds no external
// resources
func (d *SoftDevice) Release() {}

func (d *SoftDevice) buf(s Surface) *frameBuf {
	if s == nil {
		return d.target
	}
	return s.(*softSurface).buf
}

// RenderScene draws a simplified stand-in scene: sky gradient, shaded
// ground band and the two light glows, enough signal for every effect to
// act on
func (d *SoftDevice) RenderScene(dst Surface, frame *FrameParams, model *ModelParams) error {
	out := d.buf(dst)
	horizon := 0.55

	for y := 0; y < out.h; y++ {
		v := float32(y) / float32(out.h)
		for x := 0; x < out.w; x++ {
			u := float32(x) / float32(out.w)

			var r, g, b float32
			if float64(v) < horizon {
				// sky, darker toward the top
				t := v / float32(horizon)
				r = util.Lerp(frame.AmbientColor[0]*0.4, frame.AmbientColor[0], t)
				g = util.Lerp(frame.AmbientColor[1]*0.4, frame.AmbientColor[1], t)
				b = util.Lerp(frame.AmbientColor[2]*0.4, frame.AmbientColor[2], t)
			} else {
				// ground checker
				checker := (int(u*8) + int(v*8)) % 2
				shade := float32(0.25 + 0.1*float32(checker))
				r, g, b = shade, shade*1.2, shade*0.8
			}

			// light glows
			for i, lp := range [2][2]float32{
				{0.3 + 0.1*math32.Cos(frame.Time*0.7), 0.35},
				{0.75, 0.25},
			} {
				dx := (u - lp[0]) * float32(out.w) / float32(out.h)
				dy := v - lp[1]
				glow := math32.Exp(-(dx*dx + dy*dy) * 300)
				lc := frame.Light1Color
				if i == 1 {
					lc = frame.Light2Color
				}
				r += lc[0] * glow * 0.05
				g += lc[1] * glow * 0.05
				b += lc[2] * glow * 0.05
			}

			out.set(x, y, r*model.Color[0], g*model.Color[1], b*model.Color[2], 1)
		}
	}
	return nil
}

// RunPass executes one catalog pass on the CPU
func (d *SoftDevice) RunPass(kind ShaderKind, src, src2 Surface, dst Surface, post *PostParams) error {
	if src == nil {
		return fmt.Errorf("%s: nil source: %w", kind, ErrPassExecution)
	}
	in := d.buf(src)
	out := d.buf(dst)
	if in == out {
		return fmt.Errorf("%s: source aliases destination: %w", kind, ErrPassExecution)
	}

	switch kind {
	case ShaderCopy:
		out.copyFrom(in)
	case ShaderTint:
		passTint(in, out, post)
	case ShaderBoxBlur:
		passBoxBlur(in, out, post)
	case ShaderGaussianH:
		passGaussian(in, out, post, true)
	case ShaderGaussianV:
		passGaussian(in, out, post, false)
	case ShaderBright:
		passBright(in, out, post)
	case ShaderCombine:
		if src2 == nil {
			return fmt.Errorf("%s: missing scene input: %w", kind, ErrPassExecution)
		}
		passCombine(in, d.buf(src2), out)
	case ShaderPixelate:
		passPixelate(in, d.noise, out, post)
	case ShaderPosterize:
		passPosterize(in, out, post)
	case ShaderUnderwater:
		passUnderwater(in, out, post)
	case ShaderSpiral:
		passSpiral(in, out, post)
	case ShaderDistort:
		passDistort(in, d.distort, out)
	default:
		return fmt.Errorf("unknown shader kind %d: %w", kind, ErrPassExecution)
	}
	return nil
}

func passTint(in, out *frameBuf, p *PostParams) {
	for y := 0; y < out.h; y++ {
		t := float32(y) / float32(out.h)
		tint := [3]float32{
			util.Lerp(p.TintColor[0], p.TintColor2[0], t),
			util.Lerp(p.TintColor[1], p.TintColor2[1], t),
			util.Lerp(p.TintColor[2], p.TintColor2[2], t),
		}
		for x := 0; x < out.w; x++ {
			r, g, b, a := in.at(x, y)
			out.set(x, y, r*tint[0], g*tint[1], b*tint[2], a)
		}
	}
}

func passBoxBlur(in, out *frameBuf, p *PostParams) {
	radius := int(p.BlurRadius)
	kernel := BoxKernel(radius)
	side := 2*radius + 1

	for y := 0; y < out.h; y++ {
		for x := 0; x < out.w; x++ {
			var r, g, b float32
			for ky := -radius; ky <= radius; ky++ {
				for kx := -radius; kx <= radius; kx++ {
					w := kernel[(ky+radius)*side+(kx+radius)]
					if w == 0 {
						continue
					}
					sr, sg, sb, _ := in.at(x+kx, y+ky)
					r += sr * w
					g += sg * w
					b += sb * w
				}
			}
			out.set(x, y, r, g, b, 1)
		}
	}
}

func passGaussian(in, out *frameBuf, p *PostParams, horizontal bool) {
	radius := int(p.BlurRadius)
	kernel := GaussianKernel(radius, GaussianSigma(p.BlurRadius, p.BlurCurve))

	for y := 0; y < out.h; y++ {
		for x := 0; x < out.w; x++ {
			var r, g, b float32
			for k := -radius; k <= radius; k++ {
				w := kernel[k+radius]
				var sr, sg, sb float32
				if horizontal {
					sr, sg, sb, _ = in.at(x+k, y)
				} else {
					sr, sg, sb, _ = in.at(x, y+k)
				}
				r += sr * w
				g += sg * w
				b += sb * w
			}
			out.set(x, y, r, g, b, 1)
		}
	}
}

func passBright(in, out *frameBuf, p *PostParams) {
	for y := 0; y < out.h; y++ {
		for x := 0; x < out.w; x++ {
			r, g, b, a := in.at(x, y)
			if r+g+b < p.BloomThreshold {
				out.set(x, y, 0, 0, 0, 1)
			} else {
				out.set(x, y, r, g, b, a)
			}
		}
	}
}

// passCombine adds the blurred highlights onto the scene, clamped at 1.0
// the way an 8-bit render target clamps on write
func passCombine(in, scene, out *frameBuf) {
	for i := range out.pix {
		s := in.pix[i] + scene.pix[i]
		if s > 1 {
			s = 1
		}
		out.pix[i] = s
	}
	for i := 3; i < len(out.pix); i += 4 {
		out.pix[i] = 1
	}
}

// passPixelate snaps sampling to a coarse grid by scaling down and back up
// with nearest-neighbour filtering, then layers static grain on top
func passPixelate(in, grain, out *frameBuf, p *PostParams) {
	grainSize := int(p.GrainSize)
	smallW := util.ClampMinInt(in.w/grainSize, 1)
	smallH := util.ClampMinInt(in.h/grainSize, 1)

	src := in.toImage()
	small := image.NewRGBA(image.Rect(0, 0, smallW, smallH))
	xdraw.NearestNeighbor.Scale(small, small.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	big := image.NewRGBA(image.Rect(0, 0, in.w, in.h))
	xdraw.NearestNeighbor.Scale(big, big.Bounds(), small, small.Bounds(), xdraw.Src, nil)
	out.fromImage(big)

	for y := 0; y < out.h; y++ {
		v := float32(y) / float32(out.h)
		for x := 0; x < out.w; x++ {
			u := float32(x) / float32(out.w)
			gu := util.Wrap(u*p.NoiseScale[0]+p.NoiseOffset[0], 1)
			gv := util.Wrap(v*p.NoiseScale[1]+p.NoiseOffset[1], 1)
			n, _, _, _ := grain.sample(gu, gv)
			r, g, b, a := out.at(x, y)
			delta := (n - 0.5) * 0.15
			out.set(x, y, r+delta, g+delta, b+delta, a)
		}
	}
}

func passPosterize(in, out *frameBuf, p *PostParams) {
	step := p.BitStep
	for i, v := range in.pix {
		if i%4 == 3 {
			out.pix[i] = v
			continue
		}
		out.pix[i] = math32.Round(v*256/step) * step / 256
	}
}

func passUnderwater(in, out *frameBuf, p *PostParams) {
	for y := 0; y < out.h; y++ {
		v := float32(y) / float32(out.h)
		tint := [3]float32{
			util.Lerp(p.WaterColor[0], p.WaterColor2[0], v),
			util.Lerp(p.WaterColor[1], p.WaterColor2[1], v),
			util.Lerp(p.WaterColor[2], p.WaterColor2[2], v),
		}
		for x := 0; x < out.w; x++ {
			u := float32(x) / float32(out.w)
			su := u + math32.Sin(v*20+p.HWave*3)*0.01
			sv := v + math32.Sin(u*15+p.VWave*3)*0.01
			r, g, b, a := in.sample(su, sv)
			out.set(x, y,
				util.Lerp(r, r*tint[0], 0.6),
				util.Lerp(g, g*tint[1], 0.6),
				util.Lerp(b, b*tint[2], 0.6),
				a)
		}
	}
}

func passSpiral(in, out *frameBuf, p *PostParams) {
	for y := 0; y < out.h; y++ {
		v := float32(y)/float32(out.h) - 0.5
		for x := 0; x < out.w; x++ {
			u := float32(x)/float32(out.w) - 0.5
			dist := math32.Hypot(u, v)
			angle := dist * p.SpiralLevel
			s, c := math32.Sincos(angle)
			ru := u*c - v*s + 0.5
			rv := u*s + v*c + 0.5
			r, g, b, a := in.sample(util.Clamp(ru, 0, 1), util.Clamp(rv, 0, 1))
			out.set(x, y, r, g, b, a)
		}
	}
}

func passDistort(in, field, out *frameBuf) {
	const distortLevel = 0.03
	lightU, lightV := float32(0.707), float32(0.707)

	for y := 0; y < out.h; y++ {
		v := float32(y) / float32(out.h)
		for x := 0; x < out.w; x++ {
			u := float32(x) / float32(out.w)
			dr, dg, _, _ := field.sample(u, v)
			du, dv := dr-0.5, dg-0.5

			r, g, b, a := in.sample(
				util.Clamp(u+du*distortLevel, 0, 1),
				util.Clamp(v+dv*distortLevel, 0, 1))

			mag := math32.Hypot(du, dv)
			light := float32(0)
			if mag > 0 {
				light = util.Clamp((du/mag*lightU+dv/mag*lightV), 0, 1) * 0.15
			}
			out.set(x, y, r+light, g+light, b+light, a)
		}
	}
}
