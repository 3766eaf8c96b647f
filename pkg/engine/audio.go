package engine

import (
	"fmt"
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"

	"prism/internal/logger"
	"prism/pkg/config"
)

const (
	sampleRate      = 44100
	framesPerBuffer = 1024
)

// AudioEngine plays a quiet procedural drone under the demo. When the
// underwater effect is active the drone is low-pass filtered so the sound
// matches the muffled visuals.
type AudioEngine struct {
	log    *logger.Logger
	stream *portaudio.Stream
	volume float32

	mu      sync.Mutex
	muffled bool

	// oscillator and filter state, touched only by the audio callback
	phase1   float64
	phase2   float64
	lowpass  float32
	lpTarget float32
	filtered float32
}

// NewAudioEngine opens the default output stream
func NewAudioEngine(cfg config.AudioConfig, log *logger.Logger) (*AudioEngine, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %v", err)
	}

	ae := &AudioEngine{
		log:      log,
		volume:   float32(cfg.Volume),
		lpTarget: 1,
		lowpass:  1,
	}

	stream, err := portaudio.OpenDefaultStream(0, 2, sampleRate, framesPerBuffer, ae.callback)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open audio stream: %v", err)
	}
	ae.stream = stream

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to start audio stream: %v", err)
	}

	log.Debugf("audio stream started at %d Hz", sampleRate)
	return ae, nil
}

// SetMuffled fades the drone toward a darker, filtered timbre
func (ae *AudioEngine) SetMuffled(muffled bool) {
	ae.mu.Lock()
	if ae.muffled != muffled {
		ae.muffled = muffled
		if muffled {
			ae.lpTarget = 0.08
		} else {
			ae.lpTarget = 1
		}
	}
	ae.mu.Unlock()
}

// callback fills the output buffer with two detuned sines through a
// one-pole low-pass whose coefficient eases toward the current target
func (ae *AudioEngine) callback(out [][]float32) {
	ae.mu.Lock()
	target := ae.lpTarget
	ae.mu.Unlock()

	const f1, f2 = 55.0, 55.7

	for i := range out[0] {
		s := float32(math.Sin(ae.phase1))*0.6 + float32(math.Sin(ae.phase2))*0.4
		ae.phase1 += 2 * math.Pi * f1 / sampleRate
		ae.phase2 += 2 * math.Pi * f2 / sampleRate

		ae.lowpass += (target - ae.lowpass) * 0.0005
		ae.filtered += (s - ae.filtered) * ae.lowpass

		sample := ae.filtered * ae.volume * 0.2
		out[0][i] = sample
		out[1][i] = sample
	}

	if ae.phase1 > 2*math.Pi {
		ae.phase1 -= 2 * math.Pi
	}
	if ae.phase2 > 2*math.Pi {
		ae.phase2 -= 2 * math.Pi
	}
}

// Shutdown stops and closes the stream
func (ae *AudioEngine) Shutdown() {
	if ae.stream != nil {
		ae.stream.Stop()
		ae.stream.Close()
		ae.stream = nil
	}
	portaudio.Terminate()
}
