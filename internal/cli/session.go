package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pleimann/rebinder/internal/config"
	"github.com/pleimann/rebinder/internal/discovery"
	"github.com/pleimann/rebinder/internal/logging"
	"github.com/pleimann/rebinder/internal/mapping"
	"github.com/pleimann/rebinder/internal/persist"
	"github.com/pleimann/rebinder/internal/rebind"
)

// Session holds one reconciled view of the contexts and the pack store.
// It is not safe for concurrent use.
type Session struct {
	Config     *config.Config
	Log        zerolog.Logger
	Contexts   mapping.Contexts
	Store      *rebind.Store
	Engine     *rebind.Engine
	Controller *rebind.Controller
	Report     rebind.Report

	backend persist.Backend
	hooked  map[*mapping.Context]bool
}

func newLogger(cfg *config.Config, verbose bool) (zerolog.Logger, error) {
	log, err := logging.NewFromConfigValues(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return log, fmt.Errorf("invalid logging config: %w", err)
	}
	if verbose {
		log = log.Level(zerolog.DebugLevel)
	}
	return log, nil
}

// openSession loads config, discovers contexts, opens the pack backend and
// runs the engine's begin and reconcile passes
func openSession(ctx context.Context, configPath string, verbose bool) (*Session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := newLogger(cfg, verbose)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("config", configPath).Bool("persist", cfg.Persist()).Msg("configuration loaded")

	return newSession(ctx, cfg, log)
}

func newSession(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Session, error) {
	contexts, err := discovery.Discover(cfg.ContextsDir(), cfg.Contexts.Pattern)
	if err != nil {
		return nil, err
	}

	backend, err := persist.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := rebind.NewStore()
	s := &Session{
		Config:  cfg,
		Log:     log,
		Store:   store,
		backend: backend,
	}

	// The engine logs through s.Log so a reloaded logger takes effect
	opts := rebind.Options{
		PersistAcrossSessions: cfg.Persist(),
		Persister:             backend,
		Logger:                &s.Log,
	}
	s.Engine = rebind.NewEngine(store, opts)
	s.Controller = rebind.NewController(store, opts)

	if err := s.Engine.Begin(); err != nil {
		_ = backend.Close()
		return nil, err
	}
	if err := s.Reconcile(contexts); err != nil {
		_ = backend.Close()
		return nil, err
	}

	return s, nil
}

// Reconcile makes contexts the live configuration and reconciles the store
// against it
func (s *Session) Reconcile(contexts mapping.Contexts) error {
	for _, v := range contexts {
		if c, ok := v.(*mapping.Context); ok && !s.hooked[c] {
			if s.hooked == nil {
				s.hooked = make(map[*mapping.Context]bool)
			}
			c.OnCommit(s.logCommit)
			s.hooked[c] = true
		}
	}

	report, err := s.Engine.Reconcile(contexts)
	if err != nil {
		return err
	}

	s.Contexts = contexts
	s.Report = report
	return nil
}

func (s *Session) logCommit(c *mapping.Context) {
	s.Log.Debug().Str("context", c.ID()).Int("revision", c.Revision()).Msg("context rebuilt")
}

// Close ends the session. Without persistence every rebind is undone first
// so the session leaves the live configuration as it found it.
func (s *Session) Close() error {
	if !s.Config.Persist() {
		if err := s.Controller.RestoreAll(s.Contexts); err != nil {
			s.Log.Warn().Err(err).Msg("failed to restore default keys")
		}
	}
	return s.backend.Close()
}
