package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pleimann/rebinder/internal/key"
	"github.com/pleimann/rebinder/internal/rebind"
	"github.com/pleimann/rebinder/internal/ui"
)

var (
	errNoSuchPack    = errors.New("no such action")
	errAmbiguousPack = errors.New("ambiguous action name")
)

// resolvePack finds a pack by 1-based index or by display name, ignoring
// case. It returns the index into packs.
func resolvePack(packs []rebind.Pack, arg string) (int, error) {
	arg = strings.TrimSpace(arg)

	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(packs) {
			return 0, fmt.Errorf("%w: %d is outside 1..%d", errNoSuchPack, n, len(packs))
		}
		return n - 1, nil
	}

	found := -1
	var contexts []string
	for i, p := range packs {
		if !strings.EqualFold(p.DisplayName, arg) {
			continue
		}
		if found < 0 {
			found = i
		}
		contexts = append(contexts, fmt.Sprintf("%d (%s)", i+1, p.ContextID))
	}

	switch {
	case found < 0:
		return 0, fmt.Errorf("%w: %q", errNoSuchPack, arg)
	case len(contexts) > 1:
		return 0, fmt.Errorf("%w: %q matches %s, use a number", errAmbiguousPack, arg, strings.Join(contexts, ", "))
	}
	return found, nil
}

// pickPack resolves args[0] or, when absent and interactive, asks the user
func pickPack(packs []rebind.Pack, args []string, interactive bool) (int, error) {
	if len(args) > 0 {
		return resolvePack(packs, args[0])
	}
	if !interactive {
		return 0, fmt.Errorf("an action number or name is required")
	}
	return ui.SelectPack(packs)
}

// pickKey parses args[1] or, when absent and interactive, asks the user
func pickKey(p rebind.Pack, args []string, interactive bool) (key.Key, error) {
	if len(args) > 1 {
		return key.Parse(args[1])
	}
	if !interactive {
		return key.None, fmt.Errorf("a key is required")
	}
	return ui.InputKey(p)
}
