package narrator

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/loqalabs/narrated/internal/bus"
	"github.com/loqalabs/narrated/internal/config"
	"github.com/loqalabs/narrated/internal/jobstore"
	"github.com/loqalabs/narrated/internal/protocol"
	"github.com/loqalabs/narrated/internal/synth"
)

// Service consumes narration jobs from the bus, renders them through the
// pipeline and publishes ordered results.
type Service struct {
	cfg      config.JobsConfig
	bus      *bus.Client
	engine   *synth.Engine
	pipeline *Pipeline
	store    *jobstore.Store
	sub      *nats.Subscription
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	logger   *slog.Logger

	itemsRendered metric.Int64Counter
	jobDuration   metric.Float64Histogram
}

func NewService(parent context.Context, cfg config.JobsConfig, busClient *bus.Client, engine *synth.Engine, pipeline *Pipeline, store *jobstore.Store, log *slog.Logger) *Service {
	ctx, cancel := context.WithCancel(parent)
	meter := otel.Meter("narrated/narrator")
	itemsRendered, _ := meter.Int64Counter("narrator.items.rendered",
		metric.WithDescription("Narration items processed, by status"))
	jobDuration, _ := meter.Float64Histogram("narrator.job.duration",
		metric.WithDescription("Wall time per narration job"),
		metric.WithUnit("s"))
	return &Service{
		cfg:           cfg,
		bus:           busClient,
		engine:        engine,
		pipeline:      pipeline,
		store:         store,
		ctx:           ctx,
		cancel:        cancel,
		logger:        log.With(slog.String("component", "narrator")),
		itemsRendered: itemsRendered,
		jobDuration:   jobDuration,
	}
}

func (s *Service) Start() error {
	if !s.cfg.Enabled {
		return nil
	}
	sub, err := s.bus.Conn().Subscribe(protocol.SubjectJobRequest, s.handleJob)
	if err != nil {
		return err
	}
	s.sub = sub
	return nil
}

func (s *Service) Close() {
	s.cancel()
	if s.sub != nil {
		_ = s.sub.Drain()
	}
	s.wg.Wait()
}

func (s *Service) Healthy() bool { return !s.cfg.Enabled || s.sub != nil }

func (s *Service) handleJob(msg *nats.Msg) {
	var job protocol.NarrationJob
	if err := json.Unmarshal(msg.Data, &job); err != nil {
		s.logger.Warn("failed to decode narration job", slogError(err))
		return
	}
	if job.JobID == "" {
		job.JobID = uuid.NewString()
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		start := time.Now()
		result := s.runJob(s.ctx, job)
		s.jobDuration.Record(s.ctx, time.Since(start).Seconds())
		s.publishResult(result)
	}()
}

// runJob processes one job sequentially. Items never interleave: each item
// fully completes or fails before the next begins.
func (s *Service) runJob(ctx context.Context, job protocol.NarrationJob) protocol.NarrationResult {
	logger := s.logger.With(slog.String("job_id", job.JobID))

	if err := validateJob(job); err != nil {
		logger.Warn("rejected invalid job", slogError(err))
		return jobFailure(job.JobID, KindInvalidJob, err.Error())
	}

	// Load the engine up front so a broken model aborts before any item's
	// segmentation runs.
	if err := s.engine.Warm(); err != nil {
		logger.Error("engine load failed", slogError(err))
		s.recordJob(ctx, job, nil, err)
		return jobFailure(job.JobID, KindModelLoad, err.Error())
	}

	results, err := s.pipeline.ProcessJob(ctx, job.Items, s.cfg.ContinueOnFailure)
	if err != nil {
		logger.Error("job aborted", slogError(err))
		s.recordJob(ctx, job, nil, err)
		return jobFailure(job.JobID, errorKind(err), err.Error())
	}
	if s.cfg.RelocateFailures {
		results = partitionResults(results)
	}

	s.recordJob(ctx, job, results, nil)

	out := protocol.NarrationResult{
		JobID:     job.JobID,
		Items:     make([]protocol.ResultItem, 0, len(results)),
		Timestamp: time.Now().UTC(),
	}
	for _, r := range results {
		out.Items = append(out.Items, s.resultItem(ctx, r))
	}
	logger.Info("job complete",
		slog.Int("items", len(results)),
		slog.Int("failed", countFailed(results)))
	return out
}

func (s *Service) resultItem(ctx context.Context, r ItemResult) protocol.ResultItem {
	if r.Failed() {
		s.itemsRendered.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "error")))
		return protocol.ResultItem{
			Index:        r.Index,
			Status:       protocol.StatusError,
			Text:         r.Input.Text,
			Voice:        r.Input.Voice,
			PauseSeconds: r.Input.PauseSeconds,
			Error:        &protocol.ItemError{Kind: errorKind(r.Err), Message: r.Err.Error()},
		}
	}
	s.itemsRendered.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "success")))
	return protocol.ResultItem{
		Index:  r.Index,
		Status: protocol.StatusSuccess,
		Audio: &protocol.Attachment{
			Name:     "audio",
			MIMEType: "audio/wav",
			FileName: "result.wav",
			Data:     base64.StdEncoding.EncodeToString(r.WAV),
		},
	}
}

func (s *Service) recordJob(ctx context.Context, job protocol.NarrationJob, results []ItemResult, jobErr error) {
	if s.store == nil {
		return
	}
	if err := s.store.AppendJob(ctx, job.JobID, len(job.Items)); err != nil {
		s.logger.Warn("failed to record job", slogError(err))
		return
	}
	if jobErr != nil {
		rec := jobstore.ItemRecord{JobID: job.JobID, ItemIndex: -1, Status: "aborted", ErrorKind: errorKind(jobErr), ErrorMessage: jobErr.Error()}
		if err := s.store.AppendItem(ctx, rec); err != nil {
			s.logger.Warn("failed to record job failure", slogError(err))
		}
		return
	}
	for _, r := range results {
		rec := jobstore.ItemRecord{JobID: job.JobID, ItemIndex: r.Index, Status: "success", ByteSize: len(r.WAV)}
		if r.Failed() {
			rec.Status = "error"
			rec.ErrorKind = errorKind(r.Err)
			rec.ErrorMessage = r.Err.Error()
			rec.ByteSize = 0
		}
		if err := s.store.AppendItem(ctx, rec); err != nil {
			s.logger.Warn("failed to record item", slogError(err))
		}
	}
}

func (s *Service) publishResult(result protocol.NarrationResult) {
	data, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn("failed to marshal job result", slogError(err))
		return
	}
	if err := s.bus.Conn().Publish(protocol.SubjectJobResult, data); err != nil {
		s.logger.Warn("failed to publish job result", slogError(err))
	}
}

func validateJob(job protocol.NarrationJob) error {
	for i, item := range job.Items {
		if item.PauseSeconds != nil && *item.PauseSeconds < 0 {
			return fmt.Errorf("item %d: pause_seconds must be >= 0", i)
		}
	}
	return nil
}

func jobFailure(jobID, kind, message string) protocol.NarrationResult {
	return protocol.NarrationResult{
		JobID:     jobID,
		Error:     &protocol.ItemError{Kind: kind, Message: message},
		Timestamp: time.Now().UTC(),
	}
}

func countFailed(results []ItemResult) int {
	n := 0
	for _, r := range results {
		if r.Failed() {
			n++
		}
	}
	return n
}

func slogError(err error) slog.Attr {
	return slog.String("error", err.Error())
}
