package engine

// Slot names one of the pipeline-owned surfaces a pass can read or write
type Slot uint8

// Surface slots
const (
	SlotNone Slot = iota
	SlotScene
	SlotPost
	SlotBloom
	SlotTarget // the presentation target, write-only
)

var slotNames = [...]string{
	SlotNone:   "-",
	SlotScene:  "scene",
	SlotPost:   "post",
	SlotBloom:  "bloom",
	SlotTarget: "target",
}

func (s Slot) String() string {
	if int(s) < len(slotNames) {
		return slotNames[s]
	}
	return "unknown"
}

// Pass is one scheduled full-screen draw: a shader kind plus the slots it
// reads and writes. Src2 is set only for two-input passes (bloom combine).
type Pass struct {
	Kind ShaderKind
	Src  Slot
	Src2 Slot
	Dst  Slot
}

// other returns the ping-pong partner of a working slot
func other(s Slot) Slot {
	if s == SlotScene {
		return SlotPost
	}
	return SlotScene
}

// BuildSchedule decides the ordered pass list for one frame. The canonical
// image starts in the Scene slot; single-pass effects bounce it to the
// partner slot, pass pairs bounce and return, and every pass reads the slot
// the previous pass wrote. Bloom needs the canonical image in the Scene
// slot proper (its combine adds the blurred highlights back onto it), so a
// Copy settles the chain there first when stacking put it elsewhere. The
// final pass copies the result to the presentation target.
//
// An empty effect set yields an empty schedule: the caller renders the
// scene straight to the presentation target instead.
func BuildSchedule(set EffectSet) []Pass {
	if set.None() {
		return nil
	}

	var passes []Pass
	cur := SlotScene

	bounce := func(kind ShaderKind) {
		passes = append(passes, Pass{Kind: kind, Src: cur, Dst: other(cur)})
		cur = other(cur)
	}
	roundTrip := func(first, second ShaderKind) {
		passes = append(passes,
			Pass{Kind: first, Src: cur, Dst: other(cur)},
			Pass{Kind: second, Src: other(cur), Dst: cur},
		)
	}

	for _, e := range effectOrder {
		if !set.Enabled(e) {
			continue
		}
		switch e {
		case EffectTint:
			bounce(ShaderTint)
		case EffectBlur:
			bounce(ShaderBoxBlur)
		case EffectGaussianBlur:
			roundTrip(ShaderGaussianH, ShaderGaussianV)
		case EffectRetro:
			roundTrip(ShaderPixelate, ShaderPosterize)
		case EffectUnderwater:
			bounce(ShaderUnderwater)
		case EffectSpiral:
			bounce(ShaderSpiral)
		case EffectDistort:
			bounce(ShaderDistort)
		case EffectBloom:
			if cur != SlotScene {
				passes = append(passes, Pass{Kind: ShaderCopy, Src: cur, Dst: SlotScene})
				cur = SlotScene
			}
			passes = append(passes,
				Pass{Kind: ShaderBright, Src: SlotScene, Dst: SlotBloom},
				Pass{Kind: ShaderGaussianH, Src: SlotBloom, Dst: SlotPost},
				Pass{Kind: ShaderGaussianV, Src: SlotPost, Dst: SlotBloom},
				Pass{Kind: ShaderCombine, Src: SlotBloom, Src2: SlotScene, Dst: SlotPost},
			)
			cur = SlotPost
		}
	}

	passes = append(passes, Pass{Kind: ShaderCopy, Src: cur, Dst: SlotTarget})
	return passes
}
