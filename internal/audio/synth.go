// Package audio produces the short audible cue whose pitch communicates
// alert severity. One output-device handle is acquired lazily on first use
// and kept for the life of the process; a machine without audio hardware
// degrades silently.
package audio

import (
	"bytes"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/netsentry/netsentry/internal/logger"
	"github.com/netsentry/netsentry/internal/models"
)

const (
	sampleRate   = 44100
	toneDuration = 500 * time.Millisecond
	startGain    = 0.3
	endGain      = 0.01
)

// severityFrequencies maps severity to tone pitch in Hz, monotonic in
// severity order.
var severityFrequencies = map[models.Severity]float64{
	models.SeverityCritical: 880,
	models.SeverityHigh:     660,
	models.SeverityMedium:   440,
	models.SeverityLow:      330,
}

// Synthesizer renders and plays severity-pitched tones.
type Synthesizer struct {
	once    sync.Once
	ctx     *oto.Context
	initErr error
}

// NewSynthesizer returns a synthesizer. The output device is not touched
// until the first Play call.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{}
}

// Play synthesizes a single tone at the frequency for the given severity.
// Unknown severities fall back to the Medium pitch. Playback is not queued;
// overlapping tones from rapid alerts are acceptable. Device failures are
// logged and swallowed.
func (s *Synthesizer) Play(severity models.Severity) {
	ctx, err := s.device()
	if err != nil {
		logger.WithComponent("audio").WithError(err).Debug("audio device unavailable, skipping tone")
		return
	}

	pcm := renderTone(frequencyFor(severity))
	player := ctx.NewPlayer(bytes.NewReader(pcm))
	player.Play()

	// Release the player once the tone has drained.
	go func() {
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		if err := player.Close(); err != nil {
			logger.WithComponent("audio").WithError(err).Debug("close tone player")
		}
	}()
}

func (s *Synthesizer) device() (*oto.Context, error) {
	s.once.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 1,
			Format:       oto.FormatSignedInt16LE,
		}
		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			s.initErr = err
			return
		}
		<-ready
		s.ctx = ctx
	})
	return s.ctx, s.initErr
}

// frequencyFor returns the tone pitch for a severity, falling back to the
// Medium frequency for unknown values.
func frequencyFor(severity models.Severity) float64 {
	if f, ok := severityFrequencies[severity]; ok {
		return f
	}
	return severityFrequencies[models.SeverityMedium]
}

// renderTone produces 16-bit little-endian mono PCM for a sine tone with an
// exponential amplitude decay from startGain toward endGain over the tone
// duration.
func renderTone(freq float64) []byte {
	samples := int(float64(sampleRate) * toneDuration.Seconds())
	buf := make([]byte, samples*2)

	decay := math.Log(endGain / startGain)
	for i := 0; i < samples; i++ {
		t := float64(i) / sampleRate
		progress := float64(i) / float64(samples)
		gain := startGain * math.Exp(decay*progress)
		v := gain * math.Sin(2*math.Pi*freq*t)

		sample := int16(v * math.MaxInt16)
		buf[2*i] = byte(sample)
		buf[2*i+1] = byte(sample >> 8)
	}

	return buf
}
