// Package environment loads grader configuration: a TOML file for the
// session toggles and environment variables (optionally via .env) for the
// queue endpoints.
package environment

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config is the grader configuration file plus queue endpoints from the
// environment. Zero values fall back to defaults.
type Config struct {
	// SpecPath is the assignment spec file.
	SpecPath string `toml:"spec"`
	// SubmissionsDir holds one directory per student.
	SubmissionsDir string `toml:"submissions"`
	// DataDir holds input files and expected output files; defaults to the
	// spec file's directory.
	DataDir string `toml:"data_dir"`

	StartAt       string `toml:"start_at"`
	IgnoreSpacing bool   `toml:"ignore_spacing"`
	Partners      bool   `toml:"partners"`

	// RunCommand launches a submission; the submission path is appended.
	RunCommand []string `toml:"run_command"`
	TimeoutMs  int      `toml:"timeout_ms"`

	CsvPath        string `toml:"csv"`
	TranscriptPath string `toml:"transcript"`

	// Queue endpoints come from the environment, not the TOML file.
	SqsQueueUrl string `toml:"-"`
	NatsUrl     string `toml:"-"`
	NatsSubject string `toml:"-"`
}

const defaultTimeout = 10 * time.Second

func (c *Config) Timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return defaultTimeout
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Load reads the TOML config at path (optional, empty path skips it) and
// overlays queue endpoints from the environment. A .env file is honored
// when present.
func Load(path string) (*Config, error) {
	// missing .env is fine; explicit env vars still apply
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config TOML: %w", err)
		}
	}

	cfg.SqsQueueUrl = os.Getenv("GRADER_SQS_QUEUE_URL")
	cfg.NatsUrl = os.Getenv("GRADER_NATS_URL")
	cfg.NatsSubject = os.Getenv("GRADER_NATS_SUBJECT")
	if cfg.NatsSubject == "" {
		cfg.NatsSubject = "grader.records"
	}

	if len(cfg.RunCommand) == 0 {
		cfg.RunCommand = []string{"python3"}
	}

	return cfg, nil
}
