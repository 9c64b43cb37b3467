package utils

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
)

const defaultName = "rebinder"

// ExecutableName returns the base name of the running binary, without a
// Windows .exe suffix
func ExecutableName() string {
	executable, err := os.Executable()
	if err != nil || executable == "" {
		return defaultName
	}

	return strings.TrimSuffix(filepath.Base(executable), ".exe")
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
