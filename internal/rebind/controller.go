package rebind

import (
	"errors"
	"fmt"

	"github.com/pleimann/rebinder/internal/key"
	"github.com/pleimann/rebinder/internal/mapping"
)

// Controller applies user rebinds to the live contexts and the pack store.
// Every mutation writes the live context first, then the stored pack.
type Controller struct {
	store *Store
	opts  Options
}

// NewController creates a controller over store
func NewController(store *Store, opts Options) *Controller {
	return &Controller{
		store: store,
		opts:  opts.withDefaults(),
	}
}

// Remap binds the pack's entry to k in its live context, then records k as
// the pack's custom key in p and in the matching stored pack.
func (c *Controller) Remap(live mapping.Contexts, p *Pack, k key.Key) error {
	if !k.IsValid() {
		return fmt.Errorf("%w: %q", key.ErrUnknownKey, k)
	}

	v, ok := live.Lookup(p.ContextID)
	if !ok {
		return fmt.Errorf("%w: context %s", mapping.ErrNotFound, p.ContextID)
	}
	if err := v.SetKey(p.Position, k); err != nil {
		return fmt.Errorf("failed to rebind %s: %w", p.DisplayName, err)
	}

	// p may itself be the stored pack
	if stored := c.store.Find(*p); stored != nil {
		stored.CustomKey = k
	}
	p.CustomKey = k

	v.Commit()

	c.opts.Logger.Info().
		Str("context", p.ContextID).
		Int("position", p.Position).
		Str("action", p.DisplayName).
		Str("key", k.String()).
		Msg("key rebound")

	c.opts.save(c.store)
	return nil
}

// RestoreDefault rebinds the pack's entry to its default key
func (c *Controller) RestoreDefault(live mapping.Contexts, p *Pack) error {
	return c.Remap(live, p, p.DefaultKey)
}

// RestoreAll restores every stored pack to its default key. Packs whose
// entry cannot be written are skipped and reported together.
func (c *Controller) RestoreAll(live mapping.Contexts) error {
	var errs []error
	for i := 0; i < c.store.Len(); i++ {
		p, _ := c.store.At(i)
		if !p.HasCustomKey() {
			continue
		}
		if err := c.RestoreDefault(live, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HasCustomKey reports whether p is bound to something other than its default
func (c *Controller) HasCustomKey(p Pack) bool {
	return p.HasCustomKey()
}

// Unpack returns the display name and effective key of p
func (c *Controller) Unpack(p Pack) (string, key.Key, error) {
	if err := p.Validate(); err != nil {
		return "", key.None, err
	}
	return p.DisplayName, p.CustomKey, nil
}

// PacksForMode returns the stored packs usable with the named input mode
func (c *Controller) PacksForMode(mode string) ([]Pack, error) {
	m, err := key.ParseMode(mode)
	if err != nil {
		return nil, err
	}
	return c.store.ForMode(m, c.opts.Classifier)
}
