package synth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrModelLoad marks an engine that could not be initialized. It is fatal for
// the whole run, never scoped to a single item.
var ErrModelLoad = errors.New("synthesis engine failed to load")

// Loader constructs the underlying synthesizer. Invoked at most once.
type Loader func() (Synthesizer, error)

// Engine is the load-once handle around an engine implementation. The first
// use triggers the load; concurrent first use is serialized by sync.Once and
// a load failure is sticky. There is no teardown, the process exit reclaims
// the engine.
type Engine struct {
	load   Loader
	once   sync.Once
	impl   Synthesizer
	err    error
	logger *slog.Logger
}

func NewEngine(load Loader, log *slog.Logger) *Engine {
	return &Engine{
		load:   load,
		logger: log.With(slog.String("component", "synth-engine")),
	}
}

// Warm forces the load without synthesizing anything.
func (e *Engine) Warm() error {
	e.init()
	return e.err
}

func (e *Engine) init() {
	e.once.Do(func() {
		start := time.Now()
		impl, err := e.load()
		if err != nil {
			e.err = fmt.Errorf("%w: %v", ErrModelLoad, err)
			e.logger.Error("engine load failed", slog.String("error", err.Error()))
			return
		}
		e.impl = impl
		e.logger.Info("engine loaded", slog.Duration("took", time.Since(start)))
	})
}

func (e *Engine) Synthesize(ctx context.Context, text, voice string) (Result, error) {
	e.init()
	if e.err != nil {
		return Result{}, e.err
	}
	return e.impl.Synthesize(ctx, text, voice)
}

type timeoutSynth struct {
	inner   Synthesizer
	timeout time.Duration
}

// WithTimeout bounds every synthesis call. A hung engine call fails that call
// instead of blocking the job forever.
func WithTimeout(s Synthesizer, timeout time.Duration) Synthesizer {
	if timeout <= 0 {
		return s
	}
	return &timeoutSynth{inner: s, timeout: timeout}
}

func (t *timeoutSynth) Synthesize(ctx context.Context, text, voice string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Synthesize(ctx, text, voice)
}
