package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pleimann/rebinder/internal/utils"
)

// CommandHelp is one line of the commands section
type CommandHelp struct {
	Use   string
	Short string
}

// FlagHelp is one line of the flags section
type FlagHelp struct {
	Usage string
	Desc  string
}

// PrintUsage displays the styled help/usage text
func PrintUsage(w io.Writer, version string, commands []CommandHelp, flags []FlagHelp) {
	printBanner(w, version, ColorMuted)
	fmt.Fprintln(w, Muted("Runtime key rebinding for input mapping contexts"))
	fmt.Fprintln(w)

	fmt.Fprintln(w, Bold("Usage"))
	fmt.Fprintf(w, "  %s <command> [flags]\n", utils.ExecutableName())
	fmt.Fprintln(w)

	fmt.Fprintln(w, Bold("Commands"))
	cmdStyle := lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)
	printColumns(w, len(commands), func(i int) (string, string) {
		return commands[i].Use, commands[i].Short
	}, cmdStyle)

	fmt.Fprintln(w, Bold("Flags"))
	printColumns(w, len(flags), func(i int) (string, string) {
		return flags[i].Usage, flags[i].Desc
	}, SubtitleStyle)

	printExamplesSection(w)
}

func printColumns(w io.Writer, n int, row func(int) (string, string), style lipgloss.Style) {
	maxLen := 0
	for i := 0; i < n; i++ {
		left, _ := row(i)
		maxLen = max(maxLen, len(left))
	}

	for i := 0; i < n; i++ {
		left, right := row(i)
		padding := strings.Repeat(" ", maxLen-len(left)+2)
		fmt.Fprintf(w, "  %s%s%s\n", style.Render(left), padding, right)
	}
	fmt.Fprintln(w)
}

func printExamplesSection(w io.Writer) {
	fmt.Fprintln(w, Bold("Examples"))

	name := utils.ExecutableName()
	examples := []struct {
		cmd  string
		desc string
	}{
		{name + " init ./contexts", "Create config.yaml for a contexts directory"},
		{name + " list --mode gamepad", "List gamepad bindings"},
		{name + " remap", "Interactive rebind"},
		{name + " remap Jump e", "Bind the Jump action to E"},
		{name + " restore 3", "Restore the third action's default key"},
		{name + " export --format yaml --out keys.yaml", "Write the binding table"},
	}

	cmdStyle := lipgloss.NewStyle().
		Foreground(ColorSecondary)

	maxLen := 0
	for _, ex := range examples {
		maxLen = max(maxLen, len(ex.cmd))
	}

	for _, ex := range examples {
		padding := strings.Repeat(" ", maxLen-len(ex.cmd)+2)
		fmt.Fprintf(w, "  %s%s%s\n", cmdStyle.Render(ex.cmd), padding, Muted(ex.desc))
	}
	fmt.Fprintln(w)
}

func printBanner(w io.Writer, version string, versionColor lipgloss.Color) {
	banner := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Render(utils.ExecutableName())

	versionTag := lipgloss.NewStyle().
		Foreground(versionColor).
		Render("v" + version)

	fmt.Fprintf(w, "%s %s\n", banner, versionTag)
}

// PrintVersion displays the styled version information
func PrintVersion(w io.Writer, version string) {
	printBanner(w, version, ColorSuccess)
}

// PrintError displays a styled error message
func PrintError(w io.Writer, message string) {
	fmt.Fprintln(w, Error(message))
}

// PrintFatalError displays a styled fatal error message with context
func PrintFatalError(w io.Writer, context, message string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, Error(context))
	fmt.Fprintf(w, "  %s\n", Muted(message))
	fmt.Fprintln(w)
}
