package modals

import (
	"errors"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
)

// SaveDraftState asks for the directory the RTI draft is written to.
type SaveDraftState struct {
	dir      string
	fileName string
	preview  string // first line of the draft

	form *huh.Form
}

func (*SaveDraftState) modalState() {}

func (s *SaveDraftState) Title() string { return "Download RTI Draft" }

func (s *SaveDraftState) Help() string {
	return "Enter: save  Esc: cancel"
}

func (s *SaveDraftState) Render() string {
	parts := []string{pal.Title.Render(s.Title())}
	if s.preview != "" {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(pal.Muted).
			Italic(true).
			Render(TruncateString(s.preview, pal.InputWidth)))
	}
	parts = append(parts, s.form.View())

	target := lipgloss.NewStyle().
		Foreground(pal.Secondary).
		Render("-> " + TruncatePath(s.TargetPath(), pal.InputWidth-3))
	parts = append(parts, target)

	parts = append(parts, pal.Help.Render(s.Help()))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (s *SaveDraftState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	return s, cmd
}

// GetDir returns the trimmed directory value.
func (s *SaveDraftState) GetDir() string {
	return strings.TrimSpace(s.dir)
}

// TargetPath returns the file the draft will be written to.
func (s *SaveDraftState) TargetPath() string {
	dir := s.GetDir()
	if dir == "" {
		return s.fileName
	}
	return filepath.Join(dir, s.fileName)
}

// Validate reports whether the directory field can be used.
func (s *SaveDraftState) Validate() error {
	return validateDir(s.dir)
}

func validateDir(v string) error {
	if strings.TrimSpace(v) == "" {
		return errors.New("directory is required")
	}
	return nil
}

// NewSaveDraftState creates the modal. draft is only used for the preview line.
func NewSaveDraftState(defaultDir, fileName, draft string) *SaveDraftState {
	s := &SaveDraftState{
		dir:      defaultDir,
		fileName: fileName,
	}
	if line, _, _ := strings.Cut(strings.TrimSpace(draft), "\n"); line != "" {
		s.preview = line
	}

	s.form = newForm(pal.InputWidth,
		huh.NewInput().
			Title("Save to directory").
			Description("The file is named "+fileName).
			CharLimit(pal.InputCharLimit).
			Validate(validateDir).
			Value(&s.dir),
	)
	return s
}
