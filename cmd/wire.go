package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/abhisek/didi/internal/config"
	"github.com/abhisek/didi/internal/content"
	"github.com/abhisek/didi/internal/enforcer"
	"github.com/abhisek/didi/internal/fsm"
	"github.com/abhisek/didi/internal/llm"
	"github.com/abhisek/didi/internal/logger"
	"github.com/abhisek/didi/internal/observe"
	"github.com/abhisek/didi/internal/phrasing"
	"github.com/abhisek/didi/internal/store"
	"github.com/abhisek/didi/internal/tutor"
)

// deps is everything a command needs to run turns.
type deps struct {
	cfg     *config.Config
	log     *logger.Logger
	store   *store.Store
	pack    *content.Pack
	engine  *fsm.Engine
	metrics *observe.Metrics
	tutor   *tutor.Service

	// provider is nil when generation is disabled.
	provider llm.Provider
}

func (d *deps) Close() {
	if d.store != nil {
		d.store.Close()
	}
	d.log.Sync()
}

// openStore opens the configured database.
func openStore(cfg *config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// loadPack returns the configured content pack or the embedded one.
func loadPack(cfg *config.Config) (*content.Pack, error) {
	if cfg.Content.Path == "" {
		return content.Default()
	}
	return content.LoadFile(cfg.Content.Path)
}

// buildDeps opens the store, loads content and wires the tutor service.
// An LLM provider that fails to initialise is reported and replaced by the
// canned lines.
func buildDeps(ctx context.Context, cfg *config.Config, log *logger.Logger) (*deps, error) {
	d := &deps{cfg: cfg, log: log, metrics: observe.DefaultMetrics()}

	pack, err := loadPack(cfg)
	if err != nil {
		return nil, err
	}
	d.pack = pack
	d.engine = fsm.New(pack, cfg.FSM())

	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	d.store = st
	events := st.Events()

	provider, err := llm.NewProvider(ctx, cfg.LLM, events, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Replies will use the built-in lines.")
		provider = nil
	}
	d.provider = provider

	var phraser phrasing.Phraser = phrasing.TemplatePhraser{}
	if provider != nil {
		phraser = phrasing.NewLLMPhraser(provider, phrasing.LLMConfig{
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
		})
		log.Info("phrasing with LLM", "provider", cfg.LLM.Provider, "model", provider.ModelID())
	}
	responder := phrasing.NewResponder(phraser, enforcer.New(cfg.EnforcerLimits()), cfg.Enforcer.MaxAttempts, log)

	d.tutor = tutor.New(d.engine, responder, st.Sessions(),
		tutor.WithEvents(events),
		tutor.WithHistoryWindow(cfg.Tutor.HistoryWindow),
		tutor.WithMetrics(d.metrics),
		tutor.WithLogger(log),
	)
	return d, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
