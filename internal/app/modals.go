package app

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"

	"github.com/marcus/branchline/internal/status"
	"github.com/marcus/branchline/internal/styles"
	"github.com/marcus/branchline/internal/tracker"
)

// settingsForm is the connection settings modal: instance URL and access
// token inputs plus save/cancel buttons.
type settingsForm struct {
	urlInput   textinput.Model
	tokenInput textinput.Model
	focus      int // 0=url 1=token 2=save 3=cancel
	errText    string
}

func newSettingsForm(url, token string) *settingsForm {
	ui := textinput.New()
	ui.Placeholder = "https://tracker.example.com/org"
	ui.Prompt = ""
	ui.CharLimit = 256
	ui.SetValue(url)
	ui.Focus()

	ti := textinput.New()
	ti.Placeholder = "access token"
	ti.Prompt = ""
	ti.CharLimit = 256
	ti.EchoMode = textinput.EchoPassword
	ti.SetValue(token)

	return &settingsForm{urlInput: ui, tokenInput: ti}
}

func (f *settingsForm) values() (string, string) {
	return strings.TrimSpace(f.urlInput.Value()), strings.TrimSpace(f.tokenInput.Value())
}

func (f *settingsForm) setFocus(i int) {
	f.focus = i
	f.urlInput.Blur()
	f.tokenInput.Blur()
	switch i {
	case 0:
		f.urlInput.Focus()
	case 1:
		f.tokenInput.Focus()
	}
}

// HandleKey routes a key press. Returns "save", "cancel", or "".
func (f *settingsForm) HandleKey(msg tea.KeyMsg) (string, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return "cancel", nil
	case "tab", "down":
		f.setFocus((f.focus + 1) % 4)
		return "", nil
	case "shift+tab", "up":
		f.setFocus((f.focus + 3) % 4)
		return "", nil
	case "enter":
		switch f.focus {
		case 3:
			return "cancel", nil
		default:
			url, token := f.values()
			if url == "" || token == "" {
				f.errText = "both fields are required"
				return "", nil
			}
			return "save", nil
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case 0:
		f.urlInput, cmd = f.urlInput.Update(msg)
	case 1:
		f.tokenInput, cmd = f.tokenInput.Update(msg)
	}
	return "", cmd
}

func (f *settingsForm) View() string {
	var b strings.Builder
	b.WriteString(styles.ModalTitle.Render("Connection Settings"))
	b.WriteString("\n\n")
	b.WriteString(styles.Subtitle.Render("Instance URL"))
	b.WriteString("\n")
	b.WriteString(f.urlInput.View())
	b.WriteString("\n\n")
	b.WriteString(styles.Subtitle.Render("Access Token"))
	b.WriteString("\n")
	b.WriteString(f.tokenInput.View())
	b.WriteString("\n\n")

	save := styles.Button
	cancel := styles.Button
	if f.focus == 2 {
		save = styles.ButtonFocused
	}
	if f.focus == 3 {
		cancel = styles.ButtonFocused
	}
	b.WriteString(save.Render(" Save "))
	b.WriteString("  ")
	b.WriteString(cancel.Render(" Cancel "))

	if f.errText != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.ToastError.Render(f.errText))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.Muted.Render("saving clears the member/team selection and status colors"))
	return styles.ModalBox.Render(b.String())
}

// statusEditor edits the persisted status configuration: colors, hidden
// flags, and the dev-in-progress marker. It works on a copy; the caller
// persists on close.
type statusEditor struct {
	cfg    status.ConfigMap
	ids    []string // display order
	cursor int
	dirty  bool
}

func newStatusEditor(cfg status.ConfigMap) *statusEditor {
	ids := make([]string, 0, len(cfg))
	for id := range cfg {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := cfg[ids[i]], cfg[ids[j]]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Name < b.Name
	})
	return &statusEditor{cfg: cfg, ids: ids}
}

// cycleColor advances an entry's color through the default palette. A color
// outside the palette (a translated named color, or a hand-edited hex) enters
// the cycle at the palette head.
func (e *statusEditor) cycleColor(id string, delta int) {
	entry := e.cfg[id]
	idx := -1
	for i, c := range status.DefaultPalette {
		if strings.EqualFold(c, entry.Color) {
			idx = i
			break
		}
	}
	n := len(status.DefaultPalette)
	target := 0
	if idx >= 0 {
		target = ((idx+delta)%n + n) % n
	}
	next, err := status.SetColor(e.cfg, id, status.PaletteColor(target))
	if err != nil {
		return
	}
	e.cfg = next
	e.dirty = true
}

// HandleKey routes a key press. Returns "close" when done, "" otherwise.
func (e *statusEditor) HandleKey(msg tea.KeyMsg) string {
	if len(e.ids) == 0 {
		if s := msg.String(); s == "esc" || s == "enter" || s == "q" {
			return "close"
		}
		return ""
	}
	id := e.ids[e.cursor]
	switch msg.String() {
	case "esc", "enter", "q":
		return "close"
	case "up", "k":
		if e.cursor > 0 {
			e.cursor--
		}
	case "down", "j":
		if e.cursor < len(e.ids)-1 {
			e.cursor++
		}
	case "h":
		if next, err := status.ToggleHidden(e.cfg, id); err == nil {
			e.cfg = next
			e.dirty = true
		}
	case "d":
		e.cfg = status.SetDevInProgress(e.cfg, id)
		e.dirty = true
	case "right", "l":
		e.cycleColor(id, 1)
	case "left":
		e.cycleColor(id, -1)
	}
	return ""
}

func (e *statusEditor) View() string {
	var b strings.Builder
	b.WriteString(styles.ModalTitle.Render("Status Configuration"))
	b.WriteString("\n\n")

	if len(e.ids) == 0 {
		b.WriteString(styles.Muted.Render("No statuses yet. They appear after the first ticket fetch"))
		b.WriteString("\n")
		b.WriteString(styles.Muted.Render("or the first branch workflow run."))
	}

	for i, id := range e.ids {
		entry := e.cfg[id]
		name := runewidth.Truncate(entry.Name, 28, "…")

		var flags []string
		if entry.DevInProgress {
			flags = append(flags, "dev")
		}
		if entry.Hidden {
			flags = append(flags, "hidden")
		}
		suffix := ""
		if len(flags) > 0 {
			suffix = " " + styles.Muted.Render("["+strings.Join(flags, ",")+"]")
		}

		line := styles.StatusDot(entry.Color) + " " + name + suffix
		if i == e.cursor {
			b.WriteString(styles.ListCursor.Render("> "))
			b.WriteString(line)
		} else {
			b.WriteString("  ")
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("←/→ color • h hide • d dev-in-progress • esc close"))
	return styles.ModalBox.Render(b.String())
}

// renderPreview renders a ticket's description for the preview modal.
func renderPreview(ticket tracker.TicketData, width int) string {
	body := strings.TrimSpace(ticket.Description)
	if body == "" {
		return styles.Muted.Render("no description")
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return body
	}
	out, err := r.Render(body)
	if err != nil {
		return body
	}
	return strings.TrimSpace(out)
}
