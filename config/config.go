package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Signalflow SignalflowConfig `yaml:"signalflow"`
	Server     ServerConfig     `yaml:"server"`
	Stream     StreamConfig     `yaml:"stream"`
	Poll       PollConfig       `yaml:"poll"`
	Tape       TapeConfig       `yaml:"tape"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

type SignalflowConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type ServerConfig struct {
	BaseURL          string        `yaml:"base_url"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
}

type StreamConfig struct {
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
	RawBuffer      int           `yaml:"raw_buffer"`
}

type PollConfig struct {
	Interval          time.Duration `yaml:"interval"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond int           `yaml:"requests_per_second"`
	BurstSize         int           `yaml:"burst_size"`
}

type TapeConfig struct {
	Capacity int `yaml:"capacity"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"`
}

type MetricsConfig struct {
	ReportInterval time.Duration    `yaml:"report_interval"`
	CloudWatch     CloudWatchConfig `yaml:"cloudwatch"`
}

type CloudWatchConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Region    string `yaml:"region"`
	Namespace string `yaml:"namespace"`
}

// Endpoint resolves a REST path against the configured base address.
func (s ServerConfig) Endpoint(path string) string {
	return strings.TrimRight(s.BaseURL, "/") + path
}

// WebsocketURL derives the duplex stream URL from the base address: the
// scheme flips http->ws / https->wss and the stream path is appended. The
// result is resolved once at subsystem construction.
func (s ServerConfig) WebsocketURL() (string, error) {
	parsed, err := url.Parse(s.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid server base_url: %w", err)
	}
	switch parsed.Scheme {
	case "http", "ws":
		parsed.Scheme = "ws"
	case "https", "wss":
		parsed.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q in server base_url", parsed.Scheme)
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/") + "/api/ws"
	return parsed.String(), nil
}

func LoadConfig(path string) (*Config, error) {
	// Read configuration file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Config{
		Server: ServerConfig{
			HandshakeTimeout: 10 * time.Second,
		},
		Stream: StreamConfig{
			ReconnectDelay: 3 * time.Second,
			RawBuffer:      256,
		},
		Poll: PollConfig{
			Interval:          5 * time.Second,
			Timeout:           4 * time.Second,
			RequestsPerSecond: 10,
			BurstSize:         3,
		},
		Tape: TapeConfig{
			Capacity: 50,
		},
		Metrics: MetricsConfig{
			ReportInterval: 30 * time.Second,
		},
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override server address from the environment if available
	if v := os.Getenv("SIGNALFLOW_SERVER_URL"); v != "" {
		config.Server.BaseURL = strings.TrimSpace(v)
	}

	config.Server.BaseURL = strings.TrimSpace(config.Server.BaseURL)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Signalflow.Name == "" {
		return fmt.Errorf("signalflow.name is required")
	}

	if cfg.Signalflow.Version == "" {
		return fmt.Errorf("signalflow.version is required")
	}

	if cfg.Server.BaseURL == "" {
		return fmt.Errorf("server.base_url is required")
	}
	if _, err := cfg.Server.WebsocketURL(); err != nil {
		return err
	}

	if cfg.Stream.ReconnectDelay <= 0 {
		return fmt.Errorf("stream.reconnect_delay must be greater than 0")
	}
	if cfg.Stream.RawBuffer <= 0 {
		return fmt.Errorf("stream.raw_buffer must be greater than 0")
	}

	if cfg.Poll.Interval <= 0 {
		return fmt.Errorf("poll.interval must be greater than 0")
	}
	if cfg.Poll.Timeout <= 0 {
		return fmt.Errorf("poll.timeout must be greater than 0")
	}
	if cfg.Poll.RequestsPerSecond <= 0 {
		return fmt.Errorf("poll.requests_per_second must be greater than 0")
	}
	if cfg.Poll.BurstSize <= 0 {
		return fmt.Errorf("poll.burst_size must be greater than 0")
	}

	if cfg.Tape.Capacity <= 0 {
		return fmt.Errorf("tape.capacity must be greater than 0")
	}

	if cfg.Metrics.ReportInterval <= 0 {
		return fmt.Errorf("metrics.report_interval must be greater than 0")
	}
	if cfg.Metrics.CloudWatch.Enabled && cfg.Metrics.CloudWatch.Namespace == "" {
		return fmt.Errorf("metrics.cloudwatch.namespace is required when CloudWatch is enabled")
	}

	return nil
}
