package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the immutable configuration surface loaded once at startup.
// Components receive the values they need at construction; nothing mutates
// this after Load returns.
type Config struct {
	Server struct {
		Addr       string `yaml:"addr"`
		DevLogging bool   `yaml:"devLogging"`
	} `yaml:"server"`

	Worker struct {
		PythonPath     string `yaml:"pythonPath"`
		ScriptPath     string `yaml:"scriptPath"`
		ModelPath      string `yaml:"modelPath"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
		WorkingDir     string `yaml:"workingDir"`
	} `yaml:"worker"`

	Storage struct {
		TempDir       string `yaml:"tempDir"`
		MaxFileSizeMB int64  `yaml:"maxFileSizeMB"`
	} `yaml:"storage"`

	AcceptedFormats []string `yaml:"acceptedFormats"`

	History struct {
		DatabaseURL string `yaml:"databaseUrl"`
	} `yaml:"history"`

	Events struct {
		NatsURL string `yaml:"natsUrl"`
	} `yaml:"events"`
}

// Load reads a yaml config file and applies env overrides and defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.History.DatabaseURL = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		c.Events.NatsURL = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Worker.PythonPath == "" {
		c.Worker.PythonPath = "python3"
	}
	if c.Worker.TimeoutSeconds <= 0 {
		c.Worker.TimeoutSeconds = 120
	}
	if c.Storage.TempDir == "" {
		c.Storage.TempDir = "./temp"
	}
	if c.Storage.MaxFileSizeMB <= 0 {
		c.Storage.MaxFileSizeMB = 50
	}
	if len(c.AcceptedFormats) == 0 {
		c.AcceptedFormats = []string{"mp3", "wav", "flac", "ogg", "m4a"}
	}
}

// Validate reports missing required values. These are fatal at startup,
// never per-request.
func (c *Config) Validate() error {
	if c.Worker.ScriptPath == "" {
		return fmt.Errorf("config: worker.scriptPath is required")
	}
	if c.Worker.ModelPath == "" {
		return fmt.Errorf("config: worker.modelPath is required")
	}
	return nil
}

// WorkerTimeout returns the configured inference timeout as a duration.
func (c *Config) WorkerTimeout() time.Duration {
	return time.Duration(c.Worker.TimeoutSeconds) * time.Second
}

// FormatAccepted reports whether the declared audio format is on the
// accepted list. Comparison is exact; callers lowercase beforehand.
func (c *Config) FormatAccepted(format string) bool {
	for _, f := range c.AcceptedFormats {
		if f == format {
			return true
		}
	}
	return false
}

// MaxFileSizeBytes converts the configured megabyte limit.
func (c *Config) MaxFileSizeBytes() int64 {
	return c.Storage.MaxFileSizeMB << 20
}
