package narrator

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/loqalabs/narrated/internal/audio"
	"github.com/loqalabs/narrated/internal/protocol"
	"github.com/loqalabs/narrated/internal/synth"
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// flakySynth returns 1000 flat samples at 22050 Hz, failing any sentence
// containing "boom".
type flakySynth struct {
	calls int
}

func (s *flakySynth) Synthesize(ctx context.Context, text, voice string) (synth.Result, error) {
	s.calls++
	if strings.Contains(text, "boom") {
		return synth.Result{}, errors.New("synthesis rejected")
	}
	return synth.Result{Samples: make([]float32, 1000), SampleRate: 22050}, nil
}

func newTestPipeline(s synth.Synthesizer) *Pipeline {
	return NewPipeline(audio.NewAssembler(s, newLogger()), "af_heart", 0.5)
}

func TestRenderItemProducesWav(t *testing.T) {
	p := newTestPipeline(&flakySynth{})
	wav, err := p.RenderItem(context.Background(), protocol.NarrationItem{Text: "Hello\nWorld"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	// 1000 + 11025 + 1000 + 11025 samples at 2 bytes each, plus the header.
	if len(wav) != 44+24050*2 {
		t.Fatalf("expected %d bytes, got %d", 44+24050*2, len(wav))
	}
	if string(wav[0:4]) != "RIFF" {
		t.Fatalf("expected RIFF payload, got %q", wav[0:4])
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != 22050 {
		t.Fatalf("expected rate 22050 in header, got %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != 24050*2 {
		t.Fatalf("expected data subchunk of %d bytes, got %d", 24050*2, got)
	}
}

func TestRenderItemEmptyText(t *testing.T) {
	stub := &flakySynth{}
	p := newTestPipeline(stub)
	_, err := p.RenderItem(context.Background(), protocol.NarrationItem{Text: "  \n\t"})
	if !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
	if stub.calls != 0 {
		t.Fatalf("expected no synthesis for empty text, got %d calls", stub.calls)
	}
}

func TestRenderItemPauseOverride(t *testing.T) {
	p := newTestPipeline(&flakySynth{})
	zero := 0.0
	wav, err := p.RenderItem(context.Background(), protocol.NarrationItem{Text: "a\nb", PauseSeconds: &zero})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(wav) != 44+2000*2 {
		t.Fatalf("expected gapless payload of %d bytes, got %d", 44+2000*2, len(wav))
	}
}

func TestProcessJobContinueOnFailure(t *testing.T) {
	p := newTestPipeline(&flakySynth{})
	items := []protocol.NarrationItem{
		{Text: "one"},
		{Text: "boom"},
		{Text: "three"},
	}

	results, err := p.ProcessJob(context.Background(), items, true)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Failed() || results[2].Failed() {
		t.Fatal("expected items 0 and 2 to succeed")
	}
	if !results[1].Failed() {
		t.Fatal("expected item 1 to fail")
	}

	ordered := partitionResults(results)
	if ordered[0].Index != 0 || ordered[1].Index != 2 || ordered[2].Index != 1 {
		t.Fatalf("expected failures relocated to tail, got %d %d %d",
			ordered[0].Index, ordered[1].Index, ordered[2].Index)
	}
	if !ordered[2].Failed() {
		t.Fatal("expected trailing result to carry the error")
	}
}

func TestProcessJobStopsWithoutContinue(t *testing.T) {
	stub := &flakySynth{}
	p := newTestPipeline(stub)
	items := []protocol.NarrationItem{
		{Text: "one"},
		{Text: "boom"},
		{Text: "three"},
	}

	_, err := p.ProcessJob(context.Background(), items, false)
	if err == nil {
		t.Fatal("expected processing to abort")
	}
	if !strings.Contains(err.Error(), "item 1") {
		t.Fatalf("expected item index in error, got %v", err)
	}
	if stub.calls != 2 {
		t.Fatalf("expected processing to stop after the failure, got %d calls", stub.calls)
	}
}

func TestProcessJobModelLoadIsFatal(t *testing.T) {
	engine := synth.NewEngine(func() (synth.Synthesizer, error) {
		return nil, errors.New("model file corrupt")
	}, newLogger())
	p := newTestPipeline(engine)

	_, err := p.ProcessJob(context.Background(), []protocol.NarrationItem{{Text: "one"}, {Text: "two"}}, true)
	if !errors.Is(err, synth.ErrModelLoad) {
		t.Fatalf("expected ErrModelLoad to abort the job, got %v", err)
	}
}
