package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Bus.Servers[0] != "nats://localhost:4222" {
		t.Fatalf("expected default server, got %v", cfg.Bus.Servers)
	}
	if cfg.Jobs.PauseSeconds != 0.5 {
		t.Fatalf("expected default pause 0.5, got %v", cfg.Jobs.PauseSeconds)
	}
	if cfg.Synth.SampleRate != 22050 {
		t.Fatalf("expected default sample rate 22050, got %d", cfg.Synth.SampleRate)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NARRATED_BUS_SERVERS", "nats://one:4222, nats://two:4222")
	t.Setenv("NARRATED_BUS_USERNAME", "alice")
	t.Setenv("NARRATED_BUS_PASSWORD", "secret")
	t.Setenv("NARRATED_BUS_TLS_INSECURE", "true")
	t.Setenv("NARRATED_BUS_CONNECT_TIMEOUT_MS", "5000")
	t.Setenv("NARRATED_SYNTH_MODE", "exec")
	t.Setenv("NARRATED_SYNTH_COMMAND", "kokoro-cli --stream")
	t.Setenv("NARRATED_SYNTH_DEFAULT_VOICE", "bm_daniel")
	t.Setenv("NARRATED_SYNTH_TIMEOUT_MS", "10000")
	t.Setenv("NARRATED_JOBS_PAUSE_SECONDS", "0.25")
	t.Setenv("NARRATED_JOBS_CONTINUE_ON_FAILURE", "false")
	t.Setenv("NARRATED_JOB_STORE_PATH", "./tmp.db")
	t.Setenv("NARRATED_JOB_STORE_RETENTION_MODE", "persistent")
	t.Setenv("NARRATED_JOB_STORE_RETENTION_DAYS", "7")
	t.Setenv("NARRATED_JOB_STORE_MAX_JOBS", "123")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Bus.Servers) != 2 {
		t.Fatalf("expected 2 servers, got %v", cfg.Bus.Servers)
	}
	if cfg.Bus.Username != "alice" || cfg.Bus.Password != "secret" {
		t.Fatalf("expected credentials override")
	}
	if !cfg.Bus.TLSInsecure {
		t.Fatal("expected tls insecure override true")
	}
	if cfg.Bus.ConnectTimeout != 5000 {
		t.Fatalf("expected timeout 5000, got %d", cfg.Bus.ConnectTimeout)
	}
	if cfg.Synth.Mode != "exec" || cfg.Synth.Command != "kokoro-cli --stream" {
		t.Fatalf("expected synth exec override, got %q %q", cfg.Synth.Mode, cfg.Synth.Command)
	}
	if cfg.Synth.DefaultVoice != "bm_daniel" {
		t.Fatalf("expected voice override")
	}
	if cfg.Synth.TimeoutMS != 10000 {
		t.Fatalf("expected synth timeout override")
	}
	if cfg.Jobs.PauseSeconds != 0.25 {
		t.Fatalf("expected pause override, got %v", cfg.Jobs.PauseSeconds)
	}
	if cfg.Jobs.ContinueOnFailure {
		t.Fatalf("expected continue_on_failure override false")
	}
	if cfg.JobStore.Path != "./tmp.db" {
		t.Fatalf("expected job store path override")
	}
	if cfg.JobStore.RetentionMode != "persistent" {
		t.Fatalf("expected job store retention mode override")
	}
	if cfg.JobStore.RetentionDays != 7 {
		t.Fatalf("expected job store retention days override")
	}
	if cfg.JobStore.MaxJobs != 123 {
		t.Fatalf("expected job store max jobs override")
	}
}

func TestValidateRejectsNegativePause(t *testing.T) {
	t.Setenv("NARRATED_JOBS_PAUSE_SECONDS", "-0.1")
	if _, err := Load(""); err == nil {
		t.Fatal("expected validation error for negative pause")
	}
}

func TestValidateRequiresExecCommand(t *testing.T) {
	t.Setenv("NARRATED_SYNTH_MODE", "exec")
	if _, err := Load(""); err == nil {
		t.Fatal("expected validation error for exec mode without command")
	}
}
