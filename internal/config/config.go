package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type TelemetryConfig struct {
	LogLevel       string `yaml:"log_level"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
	OTLPInsecure   bool   `yaml:"otlp_insecure"`
	PrometheusBind string `yaml:"prometheus_bind"`
}

type HTTPConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

type Config struct {
	RuntimeName string          `yaml:"runtime_name"`
	Environment string          `yaml:"environment"`
	HTTP        HTTPConfig      `yaml:"http"`
	Telemetry   TelemetryConfig `yaml:"telemetry"`
	Bus         BusConfig       `yaml:"bus"`
	Synth       SynthConfig     `yaml:"synth"`
	Jobs        JobsConfig      `yaml:"jobs"`
	JobStore    JobStoreConfig  `yaml:"job_store"`
}

type BusConfig struct {
	Embedded       bool     `yaml:"embedded"`
	Port           int      `yaml:"port"`
	Servers        []string `yaml:"servers"`
	Username       string   `yaml:"username"`
	Password       string   `yaml:"password"`
	Token          string   `yaml:"token"`
	TLSInsecure    bool     `yaml:"tls_insecure"`
	ConnectTimeout int      `yaml:"connect_timeout_ms"`
	StoreDir       string   `yaml:"store_dir"`
}

type SynthConfig struct {
	Mode         string `yaml:"mode"` // mock, exec
	Command      string `yaml:"command"`
	DefaultVoice string `yaml:"default_voice"`
	SampleRate   int    `yaml:"sample_rate"`
	TimeoutMS    int    `yaml:"timeout_ms"`
}

type JobsConfig struct {
	Enabled           bool    `yaml:"enabled"`
	PauseSeconds      float64 `yaml:"pause_seconds"`
	ContinueOnFailure bool    `yaml:"continue_on_failure"`
	RelocateFailures  bool    `yaml:"relocate_failures"`
}

type JobStoreConfig struct {
	Path          string `yaml:"path"`
	RetentionMode string `yaml:"retention_mode"`
	RetentionDays int    `yaml:"retention_days"`
	MaxJobs       int    `yaml:"max_jobs"`
	VacuumOnStart bool   `yaml:"vacuum_on_start"`
}

func Default() Config {
	return Config{
		RuntimeName: "narrated",
		Environment: "development",
		HTTP: HTTPConfig{
			Bind: "0.0.0.0",
			Port: 8080,
		},
		Telemetry: TelemetryConfig{
			LogLevel:       "info",
			OTLPEndpoint:   "",
			OTLPInsecure:   true,
			PrometheusBind: ":9091",
		},
		Bus: BusConfig{
			Embedded:       true,
			Port:           4222,
			Servers:        []string{"nats://localhost:4222"},
			ConnectTimeout: 2000,
			StoreDir:       "./data/nats",
		},
		Synth: SynthConfig{
			Mode:         "mock",
			DefaultVoice: "af_heart",
			SampleRate:   22050,
			TimeoutMS:    45000,
		},
		Jobs: JobsConfig{
			Enabled:           true,
			PauseSeconds:      0.5,
			ContinueOnFailure: true,
			RelocateFailures:  true,
		},
		JobStore: JobStoreConfig{
			Path:          "./data/narrated-jobs.db",
			RetentionMode: "session",
			RetentionDays: 30,
			MaxJobs:       10000,
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.RuntimeName, "NARRATED_RUNTIME_NAME")
	overrideString(&cfg.Environment, "NARRATED_RUNTIME_ENVIRONMENT")
	overrideString(&cfg.HTTP.Bind, "NARRATED_HTTP_BIND")
	overrideInt(&cfg.HTTP.Port, "NARRATED_HTTP_PORT")
	overrideString(&cfg.Telemetry.LogLevel, "NARRATED_TELEMETRY_LOG_LEVEL")
	overrideString(&cfg.Telemetry.OTLPEndpoint, "NARRATED_TELEMETRY_OTLP_ENDPOINT")
	overrideBool(&cfg.Telemetry.OTLPInsecure, "NARRATED_TELEMETRY_OTLP_INSECURE")
	overrideString(&cfg.Telemetry.PrometheusBind, "NARRATED_TELEMETRY_PROMETHEUS_BIND")
	overrideBool(&cfg.Bus.Embedded, "NARRATED_BUS_EMBEDDED")
	overrideInt(&cfg.Bus.Port, "NARRATED_BUS_PORT")
	overrideStringSlice(&cfg.Bus.Servers, "NARRATED_BUS_SERVERS")
	overrideString(&cfg.Bus.Username, "NARRATED_BUS_USERNAME")
	overrideString(&cfg.Bus.Password, "NARRATED_BUS_PASSWORD")
	overrideString(&cfg.Bus.Token, "NARRATED_BUS_TOKEN")
	overrideBool(&cfg.Bus.TLSInsecure, "NARRATED_BUS_TLS_INSECURE")
	overrideInt(&cfg.Bus.ConnectTimeout, "NARRATED_BUS_CONNECT_TIMEOUT_MS")
	overrideString(&cfg.Bus.StoreDir, "NARRATED_BUS_STORE_DIR")
	overrideString(&cfg.Synth.Mode, "NARRATED_SYNTH_MODE")
	overrideString(&cfg.Synth.Command, "NARRATED_SYNTH_COMMAND")
	overrideString(&cfg.Synth.DefaultVoice, "NARRATED_SYNTH_DEFAULT_VOICE")
	overrideInt(&cfg.Synth.SampleRate, "NARRATED_SYNTH_SAMPLE_RATE")
	overrideInt(&cfg.Synth.TimeoutMS, "NARRATED_SYNTH_TIMEOUT_MS")
	overrideBool(&cfg.Jobs.Enabled, "NARRATED_JOBS_ENABLED")
	overrideFloat(&cfg.Jobs.PauseSeconds, "NARRATED_JOBS_PAUSE_SECONDS")
	overrideBool(&cfg.Jobs.ContinueOnFailure, "NARRATED_JOBS_CONTINUE_ON_FAILURE")
	overrideBool(&cfg.Jobs.RelocateFailures, "NARRATED_JOBS_RELOCATE_FAILURES")
	overrideString(&cfg.JobStore.Path, "NARRATED_JOB_STORE_PATH")
	overrideString(&cfg.JobStore.RetentionMode, "NARRATED_JOB_STORE_RETENTION_MODE")
	overrideInt(&cfg.JobStore.RetentionDays, "NARRATED_JOB_STORE_RETENTION_DAYS")
	overrideInt(&cfg.JobStore.MaxJobs, "NARRATED_JOB_STORE_MAX_JOBS")
	overrideBool(&cfg.JobStore.VacuumOnStart, "NARRATED_JOB_STORE_VACUUM_ON_START")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func overrideStringSlice(target *[]string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		parts := strings.Split(value, ",")
		var trimmed []string
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				trimmed = append(trimmed, s)
			}
		}
		if len(trimmed) > 0 {
			*target = trimmed
		}
	}
}

func overrideFloat(target *float64, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			*target = parsed
		}
	}
}

func validate(cfg Config) error {
	if cfg.RuntimeName == "" {
		return errors.New("runtime_name must not be empty")
	}
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return errors.New("http.port must be between 1 and 65535")
	}
	if cfg.Bus.Embedded {
		if cfg.Bus.Port <= 0 || cfg.Bus.Port > 65535 {
			return errors.New("bus.port must be between 1 and 65535 when embedded mode is enabled")
		}
	} else {
		if len(cfg.Bus.Servers) == 0 {
			return errors.New("bus.servers must not be empty when embedded mode is disabled")
		}
	}
	if cfg.Telemetry.PrometheusBind == "" {
		return errors.New("telemetry.prometheus_bind must not be empty")
	}
	switch cfg.Synth.Mode {
	case "mock", "exec":
	default:
		return errors.New("synth.mode must be one of mock|exec")
	}
	if cfg.Synth.Mode == "exec" && cfg.Synth.Command == "" {
		return errors.New("synth.command must be set when mode=exec")
	}
	if cfg.Synth.SampleRate <= 0 {
		return errors.New("synth.sample_rate must be positive")
	}
	if cfg.Synth.TimeoutMS <= 0 {
		return errors.New("synth.timeout_ms must be positive")
	}
	if cfg.Jobs.PauseSeconds < 0 {
		return errors.New("jobs.pause_seconds must be >= 0")
	}
	if cfg.JobStore.Path == "" {
		return errors.New("job_store.path must not be empty")
	}
	switch cfg.JobStore.RetentionMode {
	case "ephemeral", "session", "persistent":
		// ok
	default:
		return errors.New("job_store.retention_mode must be one of ephemeral|session|persistent")
	}
	if cfg.JobStore.RetentionDays < 0 {
		return errors.New("job_store.retention_days must be >= 0")
	}
	return nil
}
