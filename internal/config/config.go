// ABOUTME: Configuration loading and parsing for the agora server
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete agora server configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Session SessionConfig `yaml:"session"`
	Content ContentConfig `yaml:"content"`
	Catalog CatalogConfig `yaml:"catalog"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds server address configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

// SessionConfig holds session lifetime and turn scheduling configuration.
// Duration fields are parsed from their *Raw YAML counterparts.
type SessionConfig struct {
	MaxUptime     time.Duration `yaml:"-"`
	AutoGap       time.Duration `yaml:"-"`
	SettleMin     time.Duration `yaml:"-"`
	SettleMax     time.Duration `yaml:"-"`
	HumanCooldown time.Duration `yaml:"-"`
	RetryBackoff  time.Duration `yaml:"-"`

	MaxUptimeRaw     string `yaml:"max_uptime"`
	AutoGapRaw       string `yaml:"auto_gap"`
	SettleMinRaw     string `yaml:"settle_min"`
	SettleMaxRaw     string `yaml:"settle_max"`
	HumanCooldownRaw string `yaml:"human_cooldown"`
	RetryBackoffRaw  string `yaml:"retry_backoff"`

	// MinTurnsPerTopic/MaxTurnsPerTopic bound the randomized per-topic
	// turn budget (inclusive).
	MinTurnsPerTopic int `yaml:"min_turns_per_topic"`
	MaxTurnsPerTopic int `yaml:"max_turns_per_topic"`

	// Seed makes the session's random source deterministic when non-zero.
	Seed int64 `yaml:"seed"`
}

// ContentConfig holds content source (LLM) configuration
type ContentConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	BackupModel string  `yaml:"backup_model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	MaxWords    int     `yaml:"max_words"`
}

// CatalogConfig holds the optional persona/topic catalog override
type CatalogConfig struct {
	// Path points at a TOML catalog file. Empty means built-in catalog.
	Path string `yaml:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Five hours fifty-five minutes keeps the session inside a six-hour
// hosting window.
const (
	DefaultMaxUptime     = 21300 * time.Second
	DefaultAutoGap       = 25 * time.Second
	DefaultSettleMin     = 3 * time.Second
	DefaultSettleMax     = 6 * time.Second
	DefaultHumanCooldown = 15 * time.Second
	DefaultRetryBackoff  = 3 * time.Second

	DefaultMinTurnsPerTopic = 20
	DefaultMaxTurnsPerTopic = 30

	DefaultBaseURL     = "https://api.groq.com/openai/v1"
	DefaultModel       = "llama-3.1-8b-instant"
	DefaultBackupModel = "meta-llama/llama-4-scout-17b-16e-instruct"
	DefaultMaxWords    = 80
)

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Default returns a config populated entirely from defaults, suitable for
// tests and for `agora init` to serialize.
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{HTTPAddr: "0.0.0.0:8080"},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	s := &c.Session
	if s.MaxUptime == 0 {
		s.MaxUptime = DefaultMaxUptime
	}
	if s.AutoGap == 0 {
		s.AutoGap = DefaultAutoGap
	}
	if s.SettleMin == 0 {
		s.SettleMin = DefaultSettleMin
	}
	if s.SettleMax == 0 {
		s.SettleMax = DefaultSettleMax
	}
	if s.HumanCooldown == 0 {
		s.HumanCooldown = DefaultHumanCooldown
	}
	if s.RetryBackoff == 0 {
		s.RetryBackoff = DefaultRetryBackoff
	}
	if s.MinTurnsPerTopic == 0 {
		s.MinTurnsPerTopic = DefaultMinTurnsPerTopic
	}
	if s.MaxTurnsPerTopic == 0 {
		s.MaxTurnsPerTopic = DefaultMaxTurnsPerTopic
	}

	cc := &c.Content
	if cc.BaseURL == "" {
		cc.BaseURL = DefaultBaseURL
	}
	if cc.Model == "" {
		cc.Model = DefaultModel
	}
	if cc.BackupModel == "" {
		cc.BackupModel = DefaultBackupModel
	}
	if cc.Temperature == 0 {
		cc.Temperature = 0.85
	}
	if cc.MaxTokens == 0 {
		cc.MaxTokens = 150
	}
	if cc.MaxWords == 0 {
		cc.MaxWords = DefaultMaxWords
	}
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}

	s := c.Session
	if s.MinTurnsPerTopic < 1 {
		return fmt.Errorf("session.min_turns_per_topic must be at least 1")
	}
	if s.MaxTurnsPerTopic < s.MinTurnsPerTopic {
		return fmt.Errorf("session.max_turns_per_topic must be >= min_turns_per_topic")
	}
	if s.SettleMax < s.SettleMin {
		return fmt.Errorf("session.settle_max must be >= settle_min")
	}
	if s.MaxUptime <= 0 {
		return fmt.Errorf("session.max_uptime must be positive")
	}

	if c.Content.MaxWords < 1 {
		return fmt.Errorf("content.max_words must be at least 1")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	fields := []struct {
		raw  string
		name string
		dst  *time.Duration
	}{
		{cfg.Session.MaxUptimeRaw, "max_uptime", &cfg.Session.MaxUptime},
		{cfg.Session.AutoGapRaw, "auto_gap", &cfg.Session.AutoGap},
		{cfg.Session.SettleMinRaw, "settle_min", &cfg.Session.SettleMin},
		{cfg.Session.SettleMaxRaw, "settle_max", &cfg.Session.SettleMax},
		{cfg.Session.HumanCooldownRaw, "human_cooldown", &cfg.Session.HumanCooldown},
		{cfg.Session.RetryBackoffRaw, "retry_backoff", &cfg.Session.RetryBackoff},
	}

	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", f.name, f.raw, err)
		}
		*f.dst = d
	}

	return nil
}
