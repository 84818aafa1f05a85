// Package tone synthesizes the short audio cues played after a scan is
// resolved and provides emitters that deliver them to a speaker.
//
// Emitters are best effort: the dispatcher ignores their errors, and none of
// them blocks until playback ends.
package tone

import (
	"context"
	"math"
	"time"
)

// Waveform is the oscillator shape of a cue.
type Waveform string

const (
	WaveSine     Waveform = "sine"
	WaveSawtooth Waveform = "sawtooth"
)

// Cue describes a single tone with an exponential gain ramp.
type Cue struct {
	Name      string
	Waveform  Waveform
	Frequency float64 // Hz
	Duration  time.Duration
	StartGain float64
	EndGain   float64
}

var (
	// Success is played when a scan resolves to a product.
	Success = Cue{ //nolint: gochecknoglobals
		Name:      "success",
		Waveform:  WaveSine,
		Frequency: 800,
		Duration:  200 * time.Millisecond,
		StartGain: 0.1,
		EndGain:   0.01,
	}
	// Failure is played when a scan does not match any product.
	Failure = Cue{ //nolint: gochecknoglobals
		Name:      "failure",
		Waveform:  WaveSawtooth,
		Frequency: 400,
		Duration:  300 * time.Millisecond,
		StartGain: 0.1,
		EndGain:   0.01,
	}
)

// DefaultSampleRate is used when an emitter is configured without one.
const DefaultSampleRate = 44100

// Emitter plays cues.
type Emitter interface {
	Emit(ctx context.Context, cue Cue) error
}

// Render synthesizes the cue as signed 16 bit mono PCM.
func (c Cue) Render(sampleRate int) []int16 {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	n := int(c.Duration.Seconds() * float64(sampleRate))
	if n <= 0 {
		return nil
	}

	start, end := c.StartGain, c.EndGain
	if start <= 0 {
		start = 0.1
	}
	if end <= 0 || end > start {
		end = start
	}

	samples := make([]int16, n)
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		progress := float64(i) / float64(n)
		gain := start * math.Pow(end/start, progress)

		var v float64
		switch c.Waveform {
		case WaveSawtooth:
			phase := t * c.Frequency
			v = 2 * (phase - math.Floor(phase+0.5))
		default:
			v = math.Sin(2 * math.Pi * c.Frequency * t)
		}

		samples[i] = int16(v * gain * math.MaxInt16)
	}

	return samples
}
