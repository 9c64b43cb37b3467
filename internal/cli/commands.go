package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pleimann/rebinder/internal/config"
	"github.com/pleimann/rebinder/internal/export"
	"github.com/pleimann/rebinder/internal/key"
	"github.com/pleimann/rebinder/internal/persist"
	"github.com/pleimann/rebinder/internal/rebind"
	"github.com/pleimann/rebinder/internal/ui"
)

func newListCmd(o *rootOptions) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rebindable actions and their keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.withSession(cmd, func(s *Session) error {
				out := cmd.OutOrStdout()
				ui.PrintReport(out, s.Report)

				all := s.Store.Packs()
				if mode == "" {
					ui.PrintPacks(out, "Bindings", all, nil)
					return nil
				}

				m, err := key.ParseMode(mode)
				if err != nil {
					return err
				}
				packs, err := s.Controller.PacksForMode(mode)
				if errors.Is(err, rebind.ErrNoPacksForMode) {
					ui.PrintPacks(out, m.String()+" bindings", nil, nil)
					return nil
				}
				if err != nil {
					return err
				}

				ui.PrintPacks(out, m.String()+" bindings", packs, numbersOf(all, packs))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "only show actions bound for an input mode (keyboardandmouse, gamepad, touch, gesture)")

	return cmd
}

// numbersOf returns the 1-based position in all of each pack in subset
func numbersOf(all, subset []rebind.Pack) []int {
	numbers := make([]int, len(subset))
	for i, p := range subset {
		for j, q := range all {
			if q.Equal(p) {
				numbers[i] = j + 1
				break
			}
		}
	}
	return numbers
}

func newRemapCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remap [action] [key]",
		Short: "Bind an action to a new key",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withSession(cmd, func(s *Session) error {
				interactive := o.interactive()

				i, err := pickPack(s.Store.Packs(), args, interactive)
				if err != nil {
					return err
				}
				p, _ := s.Store.At(i)

				k, err := pickKey(*p, args, interactive)
				if err != nil {
					return err
				}

				previous := p.CustomKey
				if err := s.Controller.Remap(s.Contexts, p, k); err != nil {
					return err
				}

				ui.PrintRemapped(cmd.OutOrStdout(), *p, previous)
				if !s.Config.Persist() {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Muted("Persistence is off: the rebind ends with this session"))
				}
				return nil
			})
		},
	}
}

func newRestoreCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore [action]",
		Short: "Restore an action's default key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withSession(cmd, func(s *Session) error {
				i, err := pickPack(s.Store.Packs(), args, o.interactive())
				if err != nil {
					return err
				}
				p, _ := s.Store.At(i)

				if !s.Controller.HasCustomKey(*p) {
					ui.PrintRestored(cmd.OutOrStdout(), 0)
					return nil
				}
				if err := s.Controller.RestoreDefault(s.Contexts, p); err != nil {
					return err
				}

				ui.PrintRestored(cmd.OutOrStdout(), 1)
				return nil
			})
		},
	}
}

func newRestoreAllCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore-all",
		Short: "Restore every action's default key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.withSession(cmd, func(s *Session) error {
				count := 0
				for _, p := range s.Store.Packs() {
					if s.Controller.HasCustomKey(p) {
						count++
					}
				}

				if err := s.Controller.RestoreAll(s.Contexts); err != nil {
					return err
				}

				ui.PrintRestored(cmd.OutOrStdout(), count)
				return nil
			})
		},
	}
}

func newResetCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget every saved rebind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(o.configPath)
			if err != nil {
				return err
			}
			return reset(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
}

func reset(ctx context.Context, cfg *config.Config, out io.Writer) error {
	backend, err := persist.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	if err := backend.Save(nil); err != nil {
		return err
	}

	fmt.Fprintln(out, ui.Success("Saved rebinds cleared"))
	fmt.Fprintf(out, "  %s %s\n", ui.Muted("Store:"), cfg.StorePath())
	return nil
}

func newExportCmd(o *rootOptions) *cobra.Command {
	var format, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the effective binding table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.withSession(cmd, func(s *Session) error {
				bindings := export.Bindings(s.Store.Packs(), nil)

				if outPath == "" {
					return export.Write(cmd.OutOrStdout(), format, bindings)
				}

				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("failed to create export file: %w", err)
				}
				if err := export.Write(f, format, bindings); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("failed to write export file: %w", err)
				}

				fmt.Fprintln(cmd.ErrOrStderr(), ui.Success(fmt.Sprintf("Exported %d binding(s) to %s", len(bindings), outPath)))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", export.FormatTOML, "output format (toml, yaml)")
	cmd.Flags().StringVar(&outPath, "out", "", "write to a file instead of stdout")

	return cmd
}

func newInitCmd(o *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [contexts-dir]",
		Short: "Create a configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contextsDir := "contexts"
			if len(args) > 0 {
				contextsDir = args[0]
			}

			if config.Exists(o.configPath) && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", o.configPath)
			}
			if err := config.CreateDefaultConfig(o.configPath, contextsDir); err != nil {
				return err
			}

			ui.PrintConfigCreated(cmd.OutOrStdout(), o.configPath, contextsDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")

	return cmd
}

func newPersistCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "persist on|off",
		Short:     "Keep or discard rebinds between sessions",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled := args[0] == "on"
			if err := config.SetPersist(o.configPath, enabled); err != nil {
				return err
			}

			ui.PrintPersistChanged(cmd.OutOrStdout(), o.configPath, enabled)
			return nil
		},
	}
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			ui.PrintVersion(cmd.OutOrStdout(), version)
		},
	}
}
