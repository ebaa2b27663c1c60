// Package keys names the key strings the client matches on. Every value is
// produced by tea.KeyPressMsg.String(), so a comparison against msg.String()
// can never drift from what Bubble Tea reports ("esc", not "escape").
//
// Printable single characters ("?", "/", "q") are written inline.
package keys

import tea "charm.land/bubbletea/v2"

func key(code rune, mod tea.KeyMod) string {
	return tea.KeyPressMsg{Code: code, Mod: mod}.String()
}

func ctrl(code rune) string { return key(code, tea.ModCtrl) }

// Movement in the session list and the thread.
var (
	Up       = key(tea.KeyUp, 0)
	Down     = key(tea.KeyDown, 0)
	Home     = key(tea.KeyHome, 0)
	End      = key(tea.KeyEnd, 0)
	PgUp     = key(tea.KeyPgUp, 0)
	PgDown   = key(tea.KeyPgDown, 0)
	CtrlUp   = ctrl(tea.KeyUp)
	CtrlDown = ctrl(tea.KeyDown)
)

// Input and focus.
var (
	Enter  = key(tea.KeyEnter, 0)
	Tab    = key(tea.KeyTab, 0)
	Escape = key(tea.KeyEscape, 0)

	// Newline keys insert a line break in the message instead of sending it.
	ShiftEnter = key(tea.KeyEnter, tea.ModShift)
	AltEnter   = key(tea.KeyEnter, tea.ModAlt)
	CtrlJ      = ctrl('j')
)

// Commands.
var (
	CtrlC     = ctrl('c') // quit
	CtrlL     = ctrl('l') // reload history
	CtrlN     = ctrl('n') // new chat
	CtrlS     = ctrl('s') // save draft
	CtrlT     = ctrl('t') // settings
	CtrlY     = ctrl('y') // copy draft
	CtrlSlash = ctrl('/') // help
)
