package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/pleimann/rebinder/internal/config"
	"github.com/pleimann/rebinder/internal/discovery"
	"github.com/pleimann/rebinder/internal/mapping"
	"github.com/pleimann/rebinder/internal/ui"
)

func newWatchCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep bindings reconciled while context files change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.withSession(cmd, func(s *Session) error {
				return watch(cmd.Context(), cmd.OutOrStdout(), o, s)
			})
		},
	}
}

// latest replaces any pending value in a one-slot channel with v
func latest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// watch reconciles s every time the contexts change until ctx is done.
// Only this goroutine touches the session; watchers hand results over
// through channels.
func watch(ctx context.Context, out io.Writer, o *rootOptions, s *Session) error {
	cw, err := config.NewWatcher(o.configPath, s.Log)
	if err != nil {
		return err
	}
	defer cw.Stop()

	dw, err := discovery.NewWatcher(s.Config.ContextsDir(), s.Config.Contexts.Pattern, s.Log)
	if err != nil {
		return err
	}
	defer dw.Stop()

	contextsCh := make(chan mapping.Contexts, 1)
	configCh := make(chan *config.Config, 1)
	dw.OnChange(func(cs mapping.Contexts) { latest(contextsCh, cs) })
	cw.OnReload(func(cfg *config.Config) { latest(configCh, cfg) })

	cw.Start()
	dw.Start()

	ui.PrintReport(out, s.Report)
	ui.PrintPacks(out, "Bindings", s.Store.Packs(), nil)
	s.Log.Info().Str("dir", s.Config.ContextsDir()).Msg("watching mapping contexts")

	for {
		select {
		case <-ctx.Done():
			s.Log.Info().Msg("received shutdown signal")
			return nil

		case cs := <-contextsCh:
			if err := s.Reconcile(cs); err != nil {
				return err
			}
			ui.PrintReport(out, s.Report)

		case cfg := <-configCh:
			applyReload(s, cfg, o.verbose)
		}
	}
}

// applyReload applies the parts of a reloaded config that can change while
// running. Everything else needs a restart.
func applyReload(s *Session, cfg *config.Config, verbose bool) {
	if cfg.Logging != s.Config.Logging {
		log, err := newLogger(cfg, verbose)
		if err != nil {
			s.Log.Warn().Err(err).Msg("ignoring logging change")
		} else {
			s.Log = log
			s.Config.Logging = cfg.Logging
			s.Log.Info().Str("level", cfg.Logging.Level).Msg("logging reconfigured")
		}
	}

	if cfg.Contexts != s.Config.Contexts ||
		cfg.Persistence.Backend != s.Config.Persistence.Backend ||
		cfg.StorePath() != s.Config.StorePath() ||
		cfg.Persist() != s.Config.Persist() {
		s.Log.Warn().Msg("contexts or persistence settings changed, restart to apply")
	}
}
