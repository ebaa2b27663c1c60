package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/rtiagent/rtichat/internal/ui"
)

// flash shows text in the footer. The returned command clears it once
// ui.FlashDuration has passed.
func (m *Model) flash(text string, kind ui.FlashType) tea.Cmd {
	m.footer.SetFlash(text, kind)
	return ui.FlashTick()
}
