package rebind

import (
	"github.com/rs/zerolog"

	"github.com/pleimann/rebinder/internal/key"
)

// Persister loads and saves the pack store between sessions
type Persister interface {
	Load() ([]Pack, error)
	Save(packs []Pack) error
}

// Options configures an Engine or Controller
type Options struct {
	// PersistAcrossSessions keeps packs between sessions. When false every
	// session starts from an empty store and nothing is saved.
	PersistAcrossSessions bool
	Persister             Persister
	Classifier            key.Classifier
	Logger                *zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.Classifier == nil {
		o.Classifier = key.Classify
	}
	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
	return o
}

// save writes the store when persistence is enabled. Failures are logged
// and otherwise ignored.
func (o Options) save(store *Store) {
	if !o.PersistAcrossSessions || o.Persister == nil {
		return
	}
	if err := o.Persister.Save(store.Packs()); err != nil {
		o.Logger.Warn().Err(err).Msg("failed to save rebind packs")
		return
	}
	o.Logger.Debug().Int("packs", store.Len()).Msg("rebind packs saved")
}
