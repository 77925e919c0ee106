package audio

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/loqalabs/narrated/internal/synth"
)

// DefaultSampleRate tags an assembled waveform when no sentence was
// synthesized to report one.
const DefaultSampleRate = 22050

// Job is one waveform assembly request: the ordered sentences of a single
// input item, the voice to render them with, and the gap between them.
type Job struct {
	Sentences    []string
	Voice        string
	PauseSeconds float64
}

// Waveform is the assembled buffer tagged with its effective sample rate:
// the rate reported by the last sentence synthesized.
type Waveform struct {
	Samples    []float32
	SampleRate int
}

// Assembler renders jobs through a synthesizer, one sentence at a time.
type Assembler struct {
	synth  synth.Synthesizer
	logger *slog.Logger
}

func NewAssembler(s synth.Synthesizer, log *slog.Logger) *Assembler {
	return &Assembler{
		synth:  s,
		logger: log.With(slog.String("component", "assembler")),
	}
}

// Assemble synthesizes each sentence in order and interleaves silence gaps,
// including one after the final sentence. The working rate follows whatever
// the engine last reported: it sizes this gap and all later ones, and the
// final value tags the whole buffer. Earlier segments may therefore have been
// produced at a different native rate than the one declared; the engine is
// expected to be rate-stable in practice and drift is logged, not resampled.
func (a *Assembler) Assemble(ctx context.Context, job Job) (Waveform, error) {
	rate := DefaultSampleRate
	var parts [][]float32
	total := 0

	for i, sentence := range job.Sentences {
		res, err := a.synth.Synthesize(ctx, sentence, job.Voice)
		if err != nil {
			return Waveform{}, fmt.Errorf("synthesize sentence %d: %w", i, err)
		}
		if i > 0 && res.SampleRate != rate {
			a.logger.Warn("engine sample rate drifted mid-job",
				slog.Int("sentence", i),
				slog.Int("previous", rate),
				slog.Int("reported", res.SampleRate))
		}
		rate = res.SampleRate

		gap := Silence(rate, job.PauseSeconds)
		parts = append(parts, res.Samples, gap)
		total += len(res.Samples) + len(gap)
	}

	samples := make([]float32, 0, total)
	for _, p := range parts {
		samples = append(samples, p...)
	}
	return Waveform{Samples: samples, SampleRate: rate}, nil
}
