package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/branchline/internal/styles"
)

// DialogButton is one action in a Dialog.
type DialogButton struct {
	Label  string
	ID     string
	Danger bool
}

// Dialog is a keyboard-driven modal with a message and a row of buttons.
// Tab/arrows cycle focus, enter triggers the focused button, esc cancels.
type Dialog struct {
	Title   string
	Message string
	Buttons []DialogButton
	Danger  bool // danger border

	focus int
}

// NewDialog builds a dialog. The first button is focused initially.
func NewDialog(title, message string, buttons ...DialogButton) *Dialog {
	return &Dialog{Title: title, Message: message, Buttons: buttons}
}

// HandleKey routes a key press. Returns the triggered button ID, "cancel" on
// esc, or "" when the dialog consumed the key without a decision.
func (d *Dialog) HandleKey(msg tea.KeyMsg) string {
	switch msg.String() {
	case "esc":
		return "cancel"
	case "tab", "right", "l":
		d.focus = (d.focus + 1) % len(d.Buttons)
	case "shift+tab", "left", "h":
		d.focus = (d.focus - 1 + len(d.Buttons)) % len(d.Buttons)
	case "enter":
		return d.Buttons[d.focus].ID
	}
	return ""
}

// View renders the dialog box.
func (d *Dialog) View() string {
	var b strings.Builder
	b.WriteString(styles.ModalTitle.Render(d.Title))
	b.WriteString("\n\n")
	b.WriteString(d.Message)
	b.WriteString("\n\n")

	for i, btn := range d.Buttons {
		style := styles.Button
		switch {
		case i == d.focus && btn.Danger:
			style = styles.ButtonDangerFocused
		case i == d.focus:
			style = styles.ButtonFocused
		case btn.Danger:
			style = styles.ButtonDanger
		}
		b.WriteString(style.Render(btn.Label))
		if i < len(d.Buttons)-1 {
			b.WriteString("  ")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(styles.Muted.Render("tab to switch • enter to confirm • esc to cancel"))

	box := styles.ModalBox
	if d.Danger {
		box = styles.ModalBoxDanger
	}
	return box.Render(b.String())
}
