package modals

import (
	"image/color"

	"charm.land/bubbles/v2/help"
	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"

	"github.com/rtiagent/rtichat/internal/keys"
)

// newForm builds a single-group form in the modal theme and initializes it,
// so the first frame already shows its fields.
func newForm(width int, fields ...huh.Field) *huh.Form {
	form := huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(ModalTheme()).
		WithShowHelp(false).
		WithWidth(width).
		WithLayout(huh.LayoutStack)
	form.Init()
	return form
}

// huhFormUpdate forwards msg to form. Enter and Esc are left to the app,
// which decides whether the modal submits or closes.
func huhFormUpdate(form *huh.Form, msg tea.Msg) (*huh.Form, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok && (k.String() == keys.Enter || k.String() == keys.Escape) {
		return form, nil
	}
	m, cmd := form.Update(msg)
	if f, ok := m.(*huh.Form); ok {
		form = f
	}
	return form, cmd
}

func fg(c color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// ModalTheme returns a huh theme drawn from the current palette. Forms call it
// when they are built, so a theme change applies to the next modal opened.
func ModalTheme() huh.Theme {
	return huh.ThemeFunc(func(isDark bool) *huh.Styles {
		t := huh.ThemeBase(isDark)
		f := &t.Focused

		f.Base = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderForeground(pal.Primary)
		f.Card = f.Base
		f.Title = fg(pal.Text).Bold(true)
		f.Description = fg(pal.Muted)
		f.ErrorIndicator = fg(pal.Warning).SetString(" !")
		f.ErrorMessage = fg(pal.Warning)

		f.SelectSelector = fg(pal.Primary).SetString("› ")
		f.MultiSelectSelector = f.SelectSelector
		f.Option = fg(pal.Text)
		f.SelectedOption = fg(pal.Secondary)
		f.SelectedPrefix = fg(pal.Secondary).SetString("[✓] ")
		f.UnselectedOption = fg(pal.Text)
		f.UnselectedPrefix = fg(pal.Muted).SetString("[ ] ")

		f.TextInput.Cursor = fg(pal.Primary)
		f.TextInput.Prompt = fg(pal.Primary)
		f.TextInput.Placeholder = fg(pal.Muted)
		f.TextInput.Text = fg(pal.Text)

		t.Blurred = t.Focused
		t.Blurred.Base = lipgloss.NewStyle().PaddingLeft(2)
		t.Blurred.Card = t.Blurred.Base
		t.Blurred.Title = fg(pal.Muted)

		t.Group.Title = fg(pal.Secondary).Bold(true)
		t.Group.Description = fg(pal.Muted)
		t.FieldSeparator = lipgloss.NewStyle().SetString("\n")
		t.Help = help.New().Styles
		return t
	})
}
