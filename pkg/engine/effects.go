package engine

import "strings"

// Effect identifies one post-processing effect that can be toggled on or off.
// Effects are independent and stack: the output of one becomes the input of
// the next in a fixed priority order.
type Effect uint8

// Available effects
const (
	EffectTint Effect = iota
	EffectBlur
	EffectGaussianBlur
	EffectRetro
	EffectUnderwater
	EffectSpiral
	EffectDistort
	EffectBloom

	effectCount
)

var effectNames = [effectCount]string{
	EffectTint:         "tint",
	EffectBlur:         "blur",
	EffectGaussianBlur: "gaussian",
	EffectRetro:        "retro",
	EffectUnderwater:   "underwater",
	EffectSpiral:       "spiral",
	EffectDistort:      "distort",
	EffectBloom:        "bloom",
}

func (e Effect) String() string {
	if e < effectCount {
		return effectNames[e]
	}
	return "unknown"
}

// ParseEffect resolves an effect name from configuration. The boolean ok is
// false for unknown names.
func ParseEffect(name string) (Effect, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for e := Effect(0); e < effectCount; e++ {
		if effectNames[e] == name {
			return e, true
		}
	}
	return 0, false
}

// effectOrder is the fixed priority in which active effects run each frame.
// Bloom runs last so its highlight extraction sees the styled image.
var effectOrder = [...]Effect{
	EffectTint,
	EffectBlur,
	EffectGaussianBlur,
	EffectRetro,
	EffectUnderwater,
	EffectSpiral,
	EffectDistort,
	EffectBloom,
}

// EffectSet is a set of independently toggled effects
type EffectSet uint16

// Enabled reports whether an effect is in the set
func (s EffectSet) Enabled(e Effect) bool {
	return s&(1<<e) != 0
}

// With returns the set with the effect enabled
func (s EffectSet) With(e Effect) EffectSet {
	return s | 1<<e
}

// Without returns the set with the effect disabled
func (s EffectSet) Without(e Effect) EffectSet {
	return s &^ (1 << e)
}

// Toggled returns the set with the effect flipped
func (s EffectSet) Toggled(e Effect) EffectSet {
	return s ^ 1<<e
}

// None reports whether no effect is active
func (s EffectSet) None() bool {
	return s == 0
}

func (s EffectSet) String() string {
	if s.None() {
		return "none"
	}
	var names []string
	for _, e := range effectOrder {
		if s.Enabled(e) {
			names = append(names, e.String())
		}
	}
	return strings.Join(names, "+")
}
