package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/pleimann/rebinder/internal/key"
	"github.com/pleimann/rebinder/internal/rebind"
	"github.com/pleimann/rebinder/internal/utils"
)

// PrintPacks writes a styled, numbered list of packs. numbers holds the
// 1-based number shown for each pack; nil numbers them in order.
func PrintPacks(w io.Writer, title string, packs []rebind.Pack, numbers []int) {
	if len(packs) == 0 {
		fmt.Fprintln(w, Warning("No rebindable actions found"))
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, Title(title))
	fmt.Fprintln(w, Subtitle(fmt.Sprintf("%d action(s)", len(packs))))
	fmt.Fprintln(w)

	if numbers == nil {
		numbers = make([]int, len(packs))
		for i := range packs {
			numbers[i] = i + 1
		}
	}

	width := 0
	for _, n := range numbers {
		width = max(width, len(fmt.Sprint(n)))
	}
	nameWidth := 0
	for _, p := range packs {
		nameWidth = max(nameWidth, len(p.DisplayName))
	}

	for i, p := range packs {
		index := PackIndexStyle.Render(fmt.Sprintf("%*d", width, numbers[i]))
		name := PackNameStyle.Render(p.DisplayName + strings.Repeat(" ", nameWidth-len(p.DisplayName)))

		binding := KeyStyle.Render(p.CustomKey.String())
		if p.HasCustomKey() {
			binding = CustomKeyStyle.Render(p.CustomKey.String()) + " " + SubtleStyle.Render("(default "+p.DefaultKey.String()+")")
		}

		fmt.Fprintf(w, "  %s  %s  %s  %s\n", index, name, PackContextStyle.Render(fmt.Sprintf("%s[%d]", p.ContextID, p.Position)), binding)
	}
	fmt.Fprintln(w)
}

// PrintReport summarizes a reconcile pass in a box, highlighted when
// rebinds were dropped
func PrintReport(w io.Writer, r rebind.Report) {
	parts := []string{fmt.Sprintf("%d context(s)", r.Contexts)}
	if r.Restored > 0 {
		parts = append(parts, fmt.Sprintf("%d restored", r.Restored))
	}
	if r.Pruned > 0 {
		parts = append(parts, WarningStyle.Render(fmt.Sprintf("%d dropped", r.Pruned)))
	}
	if r.Discovered > 0 {
		parts = append(parts, fmt.Sprintf("%d new", r.Discovered))
	}

	box := BoxStyle
	if r.Pruned > 0 {
		box = HighlightBoxStyle
	}
	fmt.Fprintln(w, box.Render(Muted("Reconciled:")+" "+strings.Join(parts, ", ")))
}

// PrintRemapped confirms a rebind
func PrintRemapped(w io.Writer, p rebind.Pack, previous key.Key) {
	fmt.Fprintln(w, Success(fmt.Sprintf("%s rebound", p.DisplayName)))
	fmt.Fprintf(w, "  %s %s → %s\n", Muted("Key:"), previous, KeyStyle.Render(p.CustomKey.String()))
}

// PrintRestored confirms a restore of one or more packs
func PrintRestored(w io.Writer, count int) {
	if count == 0 {
		fmt.Fprintln(w, Muted("Nothing to restore: every action uses its default key"))
		return
	}
	fmt.Fprintln(w, Success(fmt.Sprintf("Restored %d action(s) to default keys", count)))
}

// PrintConfigCreated shows where a new config file was written
func PrintConfigCreated(w io.Writer, configPath, contextsDir string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, Success("Configuration created"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %s\n", Muted("Config:"), configPath)
	fmt.Fprintf(w, "  %s %s\n", Muted("Contexts:"), contextsDir)
	fmt.Fprintln(w)

	name := utils.ExecutableName()
	fmt.Fprintln(w, Bold("Next steps"))
	fmt.Fprintf(w, "  %s  %s\n", Code(name+" list"), Muted("show rebindable actions"))
	fmt.Fprintf(w, "  %s  %s\n", Code(name+" remap <action> <key>"), Muted("bind an action to a new key"))
	fmt.Fprintln(w)
}

// PrintPersistChanged confirms the persistence flag was written
func PrintPersistChanged(w io.Writer, configPath string, persist bool) {
	state := "disabled"
	if persist {
		state = "enabled"
	}
	fmt.Fprintln(w, Success("Persistence across sessions "+state))
	fmt.Fprintf(w, "  %s %s\n", Muted("Config:"), configPath)
}
