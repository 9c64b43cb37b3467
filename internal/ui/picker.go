package ui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/pleimann/rebinder/internal/key"
	"github.com/pleimann/rebinder/internal/rebind"
)

// ErrAborted is returned when the user cancels a picker
var ErrAborted = errors.New("selection cancelled")

// formModel wraps a huh form in Bubble Tea for proper escape handling
type formModel struct {
	form    *huh.Form
	aborted bool
}

func (m formModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, tea.Quit
	}

	return m, cmd
}

func (m formModel) View() string {
	if m.form.State == huh.StateCompleted {
		return ""
	}
	return m.form.View()
}

func runForm(form *huh.Form) error {
	finalModel, err := tea.NewProgram(formModel{form: form}).Run()
	if err != nil {
		return err
	}
	if finalModel.(formModel).aborted {
		return ErrAborted
	}
	return nil
}

// SelectPack presents the packs and returns the index of the chosen one
func SelectPack(packs []rebind.Pack) (int, error) {
	if len(packs) == 0 {
		return 0, fmt.Errorf("no packs to select from")
	}

	options := make([]huh.Option[int], len(packs))
	for i, p := range packs {
		options[i] = huh.NewOption(packLabel(p), i)
	}

	var selected int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Select Action").
				Description("Choose the action to rebind (esc to cancel)").
				Options(options...).
				Value(&selected),
		),
	).WithTheme(customTheme()).WithShowHelp(false)

	if err := runForm(form); err != nil {
		return 0, err
	}
	return selected, nil
}

// InputKey prompts for a key name for p, validated with key.Parse
func InputKey(p rebind.Pack) (key.Key, error) {
	var value string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("New key for %s", p.DisplayName)).
				Description(fmt.Sprintf("Currently %s, default %s (esc to cancel)", p.CustomKey, p.DefaultKey)).
				Placeholder(p.CustomKey.String()).
				Value(&value).
				Validate(func(s string) error {
					_, err := key.Parse(s)
					return err
				}),
		),
	).WithTheme(customTheme()).WithShowHelp(false)

	if err := runForm(form); err != nil {
		return key.None, err
	}
	return key.Parse(value)
}

func packLabel(p rebind.Pack) string {
	keyStyle := KeyStyle
	if p.HasCustomKey() {
		keyStyle = CustomKeyStyle
	}
	return fmt.Sprintf("%s  %s  %s",
		PackNameStyle.Render(p.DisplayName),
		keyStyle.Render(p.CustomKey.String()),
		PackContextStyle.Render(fmt.Sprintf("%s[%d]", p.ContextID, p.Position)),
	)
}

// customTheme returns a huh theme matching our style palette
func customTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = t.Focused.Title.Foreground(ColorPrimary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(ColorMuted)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(ColorPrimary)
	t.Focused.UnselectedOption = t.Focused.UnselectedOption.Foreground(lipgloss.Color("#F9FAFB"))
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(ColorPrimary)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(ColorError)

	return t
}
