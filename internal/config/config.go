// Package config loads the tutor configuration: YAML file, then DIDI_*
// environment overrides, then validation.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/didi/internal/enforcer"
	"github.com/abhisek/didi/internal/fsm"
	"github.com/abhisek/didi/internal/llm"
	"github.com/abhisek/didi/internal/phrasing"
	"github.com/abhisek/didi/internal/session"
)

// Config is the complete configuration.
type Config struct {
	Tutor    TutorConfig    `yaml:"tutor"`
	Enforcer EnforcerConfig `yaml:"enforcer"`
	LLM      llm.Config     `yaml:"llm"`
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Content  ContentConfig  `yaml:"content"`
	Log      LogConfig      `yaml:"log"`
}

// TutorConfig holds the tutoring loop thresholds.
type TutorConfig struct {
	ReteachCap            int     `yaml:"reteach_cap"`
	HintLevels            int     `yaml:"hint_levels"`
	MaxAttemptsBeforeHint int     `yaml:"max_attempts_before_hint"`
	QuestionsTarget       int     `yaml:"questions_target"`
	HistoryWindow         int     `yaml:"history_window"`
	ConfidenceThreshold   float64 `yaml:"confidence_threshold"`
	DecimalTolerance      float64 `yaml:"decimal_tolerance"`
}

// EnforcerConfig holds the response rule limits.
type EnforcerConfig struct {
	MaxWords         int     `yaml:"max_words"`
	MaxSentences     int     `yaml:"max_sentences"`
	MaxAttempts      int     `yaml:"max_attempts"`
	OverlapThreshold float64 `yaml:"overlap_threshold"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type StoreConfig struct {
	// Path is the SQLite database file. Empty uses DIDI_DB, then the XDG
	// data home.
	Path string `yaml:"path"`
}

type ContentConfig struct {
	// Path is a content pack file. Empty uses the embedded pack.
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the product defaults.
func DefaultConfig() Config {
	f := fsm.DefaultConfig()
	e := enforcer.DefaultConfig()
	return Config{
		Tutor: TutorConfig{
			ReteachCap:            f.ReteachCap,
			HintLevels:            f.HintLevels,
			MaxAttemptsBeforeHint: f.MaxAttemptsBeforeHint,
			QuestionsTarget:       f.QuestionsTarget,
			HistoryWindow:         session.DefaultHistoryWindow,
			ConfidenceThreshold:   f.ConfidenceThreshold,
			DecimalTolerance:      f.DecimalTolerance,
		},
		Enforcer: EnforcerConfig{
			MaxWords:         e.MaxWords,
			MaxSentences:     e.MaxSentences,
			MaxAttempts:      phrasing.DefaultMaxAttempts,
			OverlapThreshold: e.OverlapThreshold,
		},
		LLM: llm.DefaultConfig(),
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("config: open %q: %w", path, err)
		}
		defer f.Close()
		if err := decode(f, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromReader decodes YAML from r over the defaults and validates. The
// environment is not consulted.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if err := decode(r, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: decode yaml: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with DIDI_* variables. LLM keys and models are
// read by llm.ApplyEnv.
func ApplyEnv(cfg *Config) error {
	var errs []error
	str := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	num := func(dst *int, key string) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	dur := func(dst *time.Duration, key string) {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	num(&cfg.Tutor.ReteachCap, "DIDI_RETEACH_CAP")
	num(&cfg.Tutor.HintLevels, "DIDI_HINT_LEVELS")
	num(&cfg.Tutor.QuestionsTarget, "DIDI_QUESTIONS_TARGET")
	num(&cfg.Enforcer.MaxWords, "DIDI_MAX_WORDS")
	num(&cfg.Enforcer.MaxAttempts, "DIDI_MAX_ATTEMPTS")
	str(&cfg.Server.Addr, "DIDI_ADDR")
	str(&cfg.Store.Path, "DIDI_DB")
	str(&cfg.Content.Path, "DIDI_CONTENT")
	str(&cfg.Log.Level, "DIDI_LOG_LEVEL")
	str(&cfg.Log.Format, "DIDI_LOG_FORMAT")
	dur(&cfg.LLM.Timeout, "DIDI_LLM_TIMEOUT")
	llm.ApplyEnv(&cfg.LLM)

	return errors.Join(errs...)
}

// Validate returns every problem found, joined.
func (c Config) Validate() error {
	var errs []error
	t := c.Tutor
	if t.ReteachCap < 1 {
		errs = append(errs, fmt.Errorf("tutor.reteach_cap must be at least 1, got %d", t.ReteachCap))
	}
	if t.HintLevels < 1 || t.HintLevels > 2 {
		errs = append(errs, fmt.Errorf("tutor.hint_levels must be 1 or 2, got %d", t.HintLevels))
	}
	if t.MaxAttemptsBeforeHint < 1 {
		errs = append(errs, fmt.Errorf("tutor.max_attempts_before_hint must be at least 1, got %d", t.MaxAttemptsBeforeHint))
	}
	if t.QuestionsTarget < 1 {
		errs = append(errs, fmt.Errorf("tutor.questions_target must be at least 1, got %d", t.QuestionsTarget))
	}
	if t.HistoryWindow < 1 {
		errs = append(errs, fmt.Errorf("tutor.history_window must be at least 1, got %d", t.HistoryWindow))
	}
	if t.ConfidenceThreshold < 0 || t.ConfidenceThreshold > 1 {
		errs = append(errs, fmt.Errorf("tutor.confidence_threshold must be in [0, 1], got %v", t.ConfidenceThreshold))
	}
	if t.DecimalTolerance <= 0 {
		errs = append(errs, fmt.Errorf("tutor.decimal_tolerance must be positive, got %v", t.DecimalTolerance))
	}

	e := c.Enforcer
	if e.MaxWords < 1 {
		errs = append(errs, fmt.Errorf("enforcer.max_words must be at least 1, got %d", e.MaxWords))
	}
	if e.MaxSentences < 1 {
		errs = append(errs, fmt.Errorf("enforcer.max_sentences must be at least 1, got %d", e.MaxSentences))
	}
	if e.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("enforcer.max_attempts must be at least 1, got %d", e.MaxAttempts))
	}
	if e.OverlapThreshold <= 0 || e.OverlapThreshold > 1 {
		errs = append(errs, fmt.Errorf("enforcer.overlap_threshold must be in (0, 1], got %v", e.OverlapThreshold))
	}

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is invalid; valid values: debug, info, warn, error", c.Log.Level))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is invalid; valid values: console, json", c.Log.Format))
	}
	if err := c.LLM.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("llm: %w", err))
	}
	return errors.Join(errs...)
}

// FSM returns the state machine configuration.
func (c Config) FSM() fsm.Config {
	return fsm.Config{
		ReteachCap:            c.Tutor.ReteachCap,
		HintLevels:            c.Tutor.HintLevels,
		MaxAttemptsBeforeHint: c.Tutor.MaxAttemptsBeforeHint,
		QuestionsTarget:       c.Tutor.QuestionsTarget,
		ConfidenceThreshold:   c.Tutor.ConfidenceThreshold,
		DecimalTolerance:      c.Tutor.DecimalTolerance,
	}
}

// EnforcerLimits returns the enforcer configuration.
func (c Config) EnforcerLimits() enforcer.Config {
	return enforcer.Config{
		MaxWords:         c.Enforcer.MaxWords,
		MaxSentences:     c.Enforcer.MaxSentences,
		OverlapThreshold: c.Enforcer.OverlapThreshold,
	}
}
