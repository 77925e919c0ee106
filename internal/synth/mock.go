package synth

import (
	"context"
	"math"
)

type mockSynth struct {
	sampleRate int
}

// NewMockSynth returns a synthesizer producing a short deterministic tone at
// the configured rate, used in development and tests.
func NewMockSynth(sampleRate int) Synthesizer {
	return &mockSynth{sampleRate: sampleRate}
}

func (m *mockSynth) Synthesize(ctx context.Context, text, voice string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	// 250ms of a quiet 440Hz sine regardless of input.
	n := m.sampleRate / 4
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = 0.3 * float32(math.Sin(2*math.Pi*440*float64(i)/float64(m.sampleRate)))
	}
	return Result{Samples: samples, SampleRate: m.sampleRate}, nil
}
