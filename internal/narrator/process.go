package narrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/loqalabs/narrated/internal/audio"
	"github.com/loqalabs/narrated/internal/protocol"
	"github.com/loqalabs/narrated/internal/synth"
)

const (
	wavChannels      = 1
	wavBitsPerSample = 16
)

// ItemResult is the in-order outcome of one item: WAV bytes or an error.
type ItemResult struct {
	Index int
	Input protocol.NarrationItem
	WAV   []byte
	Err   error
}

func (r ItemResult) Failed() bool { return r.Err != nil }

// Pipeline renders narration items into WAV payloads.
type Pipeline struct {
	assembler    *audio.Assembler
	defaultVoice string
	defaultPause float64
}

func NewPipeline(assembler *audio.Assembler, defaultVoice string, defaultPause float64) *Pipeline {
	return &Pipeline{
		assembler:    assembler,
		defaultVoice: defaultVoice,
		defaultPause: defaultPause,
	}
}

// RenderItem runs one item through the full pipeline: segment, synthesize
// with gaps, quantize, encode.
func (p *Pipeline) RenderItem(ctx context.Context, item protocol.NarrationItem) ([]byte, error) {
	sentences := audio.SplitSentences(item.Text)
	if len(sentences) == 0 {
		return nil, ErrEmptyText
	}

	voice := item.Voice
	if voice == "" {
		voice = p.defaultVoice
	}
	pause := p.defaultPause
	if item.PauseSeconds != nil {
		pause = *item.PauseSeconds
	}

	wave, err := p.assembler.Assemble(ctx, audio.Job{
		Sentences:    sentences,
		Voice:        voice,
		PauseSeconds: pause,
	})
	if err != nil {
		return nil, err
	}

	pcm := audio.QuantizePCM16(wave.Samples)
	return audio.EncodeWAV(pcm, wave.SampleRate, wavChannels, wavBitsPerSample), nil
}

// ProcessJob renders every item strictly in order. An engine load failure is
// fatal and aborts before any item is attempted. Other failures either stop
// the job (carrying the item index) or, with continueOnFailure, are recorded
// and processing moves on.
func (p *Pipeline) ProcessJob(ctx context.Context, items []protocol.NarrationItem, continueOnFailure bool) ([]ItemResult, error) {
	results := make([]ItemResult, 0, len(items))
	for i, item := range items {
		wav, err := p.RenderItem(ctx, item)
		if err != nil {
			if errors.Is(err, synth.ErrModelLoad) {
				return nil, err
			}
			if !continueOnFailure {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			results = append(results, ItemResult{Index: i, Input: item, Err: err})
			continue
		}
		results = append(results, ItemResult{Index: i, Input: item, WAV: wav})
	}
	return results, nil
}

// partitionResults moves failed items to the tail while successes keep their
// original relative positions. This reordering is a deliberate, explicit
// post-processing step, not a side effect of error handling.
func partitionResults(results []ItemResult) []ItemResult {
	ordered := make([]ItemResult, 0, len(results))
	for _, r := range results {
		if !r.Failed() {
			ordered = append(ordered, r)
		}
	}
	for _, r := range results {
		if r.Failed() {
			ordered = append(ordered, r)
		}
	}
	return ordered
}
