// Package cli provides the command-line interface for rebinder.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/pleimann/rebinder/internal/rebind"
	"github.com/pleimann/rebinder/internal/ui"
	"github.com/pleimann/rebinder/internal/utils"
)

const defaultConfigPath = "config.yaml"

type rootOptions struct {
	configPath  string
	verbose     bool
	interactive func() bool
}

// withSession runs fn against a freshly reconciled session and closes it
func (o *rootOptions) withSession(cmd *cobra.Command, fn func(*Session) error) (err error) {
	s, err := openSession(cmd.Context(), o.configPath, o.verbose)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return fn(s)
}

// NewRootCmd creates the root command for rebinder
func NewRootCmd(version string) *cobra.Command {
	return newRootCmd(version, func() bool { return utils.IsTerminal(os.Stdin) })
}

func newRootCmd(version string, interactive func() bool) *cobra.Command {
	o := &rootOptions{interactive: interactive}

	rootCmd := &cobra.Command{
		Use:           utils.ExecutableName(),
		Short:         "Runtime key rebinding for input mapping contexts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&o.configPath, "config", defaultConfigPath, "path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&o.verbose, "verbose", false, "enable verbose logging")

	rootCmd.AddCommand(
		newListCmd(o),
		newRemapCmd(o),
		newRestoreCmd(o),
		newRestoreAllCmd(o),
		newResetCmd(o),
		newExportCmd(o),
		newWatchCmd(o),
		newInitCmd(o),
		newPersistCmd(o),
		newVersionCmd(version),
	)

	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != rootCmd {
			defaultHelp(cmd, args)
			return
		}
		printRootUsage(cmd, version)
	})

	return rootCmd
}

func printRootUsage(root *cobra.Command, version string) {
	var commands []ui.CommandHelp
	for _, c := range root.Commands() {
		if !c.IsAvailableCommand() {
			continue
		}
		commands = append(commands, ui.CommandHelp{Use: c.Use, Short: c.Short})
	}

	var flags []ui.FlagHelp
	for _, name := range []string{"config", "verbose"} {
		f := root.PersistentFlags().Lookup(name)
		usage := "--" + f.Name
		if f.Value.Type() != "bool" {
			usage += " " + f.Value.Type()
		}
		flags = append(flags, ui.FlagHelp{Usage: usage, Desc: f.Usage})
	}

	ui.PrintUsage(root.OutOrStdout(), version, commands, flags)
}

// Execute runs the CLI and returns the process exit code
func Execute(ctx context.Context, version string) int {
	err := NewRootCmd(version).ExecuteContext(ctx)

	switch {
	case err == nil, errors.Is(err, ui.ErrAborted):
		return 0
	case errors.Is(err, rebind.ErrInvariant):
		ui.PrintFatalError(os.Stderr, "Rebind state is inconsistent", err.Error())
		return 1
	default:
		ui.PrintError(os.Stderr, err.Error())
		return 1
	}
}
