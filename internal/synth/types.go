package synth

import "context"

// Result is one synthesis engine response: normalized float samples plus the
// rate the engine produced them at. The rate is reported per call and is not
// guaranteed stable across calls.
type Result struct {
	Samples    []float32
	SampleRate int
}

// Synthesizer is the contract for turning one sentence into audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) (Result, error)
}
