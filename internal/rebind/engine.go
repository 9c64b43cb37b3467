package rebind

import (
	"fmt"

	"github.com/pleimann/rebinder/internal/mapping"
)

// Report summarizes one Reconcile pass
type Report struct {
	Contexts   int
	Restored   int
	Pruned     int
	Discovered int
}

// Engine reconciles the pack store with the live mapping contexts
type Engine struct {
	store *Store
	opts  Options
}

// NewEngine creates an engine over store
func NewEngine(store *Store, opts Options) *Engine {
	return &Engine{
		store: store,
		opts:  opts.withDefaults(),
	}
}

// Begin prepares the store for a new session: stored packs are loaded when
// persistence is enabled, otherwise the store is cleared.
func (e *Engine) Begin() error {
	if !e.opts.PersistAcrossSessions || e.opts.Persister == nil {
		e.store.Clear()
		return nil
	}

	packs, err := e.opts.Persister.Load()
	if err != nil {
		return fmt.Errorf("failed to load rebind packs: %w", err)
	}

	e.store.Clear()
	for _, p := range packs {
		if err := p.Validate(); err != nil {
			e.opts.Logger.Warn().Err(err).Msg("discarding corrupted rebind pack")
			continue
		}
		e.store.InsertIfNew(p)
	}

	e.opts.Logger.Debug().Int("packs", e.store.Len()).Msg("rebind packs loaded")
	return nil
}

// Reconcile restores stored keys into live, drops packs whose entry no
// longer exists, and starts tracking newly remappable entries. It must run
// once per session before any Controller operation.
func (e *Engine) Reconcile(live mapping.Contexts) (Report, error) {
	valid := validContexts(live)
	if len(valid) == 0 {
		return Report{}, ErrNoRemappableContexts
	}

	// Every listing is checked before the first live key is written, so a
	// malformed entry leaves live and the store untouched.
	var candidates []Pack
	for _, v := range valid {
		for _, l := range v.Remappable() {
			candidate, err := newPack(v.ID(), l)
			if err != nil {
				return Report{}, err
			}
			candidates = append(candidates, candidate)
		}
	}

	report := Report{Contexts: len(valid)}
	written := make([]bool, len(valid))

	// Pruning runs first so a new pack never collides with a stale one at
	// the same position.
	before := e.store.Len()
	e.store.RetainWhere(func(p *Pack) bool {
		for i, v := range valid {
			if !p.matches(v) {
				continue
			}
			if err := v.SetKey(p.Position, p.CustomKey); err != nil {
				e.opts.Logger.Warn().Err(err).Str("pack", p.String()).Msg("failed to restore stored key")
				return false
			}
			written[i] = true
			return true
		}
		e.opts.Logger.Info().Str("pack", p.String()).Msg("dropping obsolete rebind pack")
		return false
	})
	report.Restored = e.store.Len()
	report.Pruned = before - report.Restored

	for _, candidate := range candidates {
		if e.store.InsertIfNew(candidate) {
			report.Discovered++
		}
	}

	for i, v := range valid {
		if written[i] {
			v.Commit()
		}
	}

	e.opts.Logger.Debug().
		Int("contexts", report.Contexts).
		Int("restored", report.Restored).
		Int("pruned", report.Pruned).
		Int("discovered", report.Discovered).
		Msg("reconciled rebind packs")

	e.opts.save(e.store)

	return report, nil
}

func validContexts(live mapping.Contexts) mapping.Contexts {
	var valid mapping.Contexts
	for _, v := range live {
		if v == nil || len(v.Remappable()) == 0 {
			continue
		}
		valid = append(valid, v)
	}
	return valid
}
