package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/loqalabs/narrated/internal/audio"
	"github.com/loqalabs/narrated/internal/bus"
	"github.com/loqalabs/narrated/internal/config"
	"github.com/loqalabs/narrated/internal/jobstore"
	"github.com/loqalabs/narrated/internal/narrator"
	"github.com/loqalabs/narrated/internal/natsserver"
	"github.com/loqalabs/narrated/internal/runtime"
	"github.com/loqalabs/narrated/internal/synth"
)

var version = "0.1.0-dev"

func main() {
	var (
		configPath  string
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "narrated.yaml", "Path to configuration file")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(version)
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		bootstrap := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		bootstrap.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.Telemetry.LogLevel)}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	embedded, err := natsserver.Start(cfg.Bus, logger)
	if err != nil {
		logger.Error("failed to start embedded NATS server", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer embedded.Shutdown()

	busClient, err := bus.Connect(cfg.Bus, logger)
	if err != nil {
		logger.Error("failed to connect to bus", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer busClient.Close()

	store, err := jobstore.Open(ctx, cfg.JobStore, logger)
	if err != nil {
		logger.Error("failed to open job store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	engine := synth.NewEngine(engineLoader(cfg.Synth), logger)
	synthesizer := synth.WithTimeout(engine, time.Duration(cfg.Synth.TimeoutMS)*time.Millisecond)
	assembler := audio.NewAssembler(synthesizer, logger)
	pipeline := narrator.NewPipeline(assembler, cfg.Synth.DefaultVoice, cfg.Jobs.PauseSeconds)

	service := narrator.NewService(ctx, cfg.Jobs, busClient, engine, pipeline, store, logger)
	if err := service.Start(); err != nil {
		logger.Error("failed to start narrator service", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer service.Close()

	rt := runtime.New(cfg, logger, busClient.Healthy, service.Healthy)
	if err := rt.Start(ctx); err != nil {
		logger.Error("runtime exited with error", slog.String("error", err.Error()))
		time.Sleep(1 * time.Second)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}

func engineLoader(cfg config.SynthConfig) synth.Loader {
	return func() (synth.Synthesizer, error) {
		switch cfg.Mode {
		case "exec":
			return synth.NewExecSynth(cfg.Command)
		default:
			return synth.NewMockSynth(cfg.SampleRate), nil
		}
	}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
