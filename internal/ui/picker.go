package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/marcus/branchline/internal/styles"
)

// PickerItem is one selectable row.
type PickerItem struct {
	ID     string
	Label  string
	Detail string // optional, rendered muted after the label
}

// PickerAction is the outcome of a key press routed to a picker.
type PickerAction int

const (
	PickerNone   PickerAction = iota
	PickerCancel              // dismissed without choosing
	PickerChoose              // an item was chosen
)

const pickerMaxRows = 12

// Picker is a filterable, keyboard-driven list modal. Typing filters, arrows
// or ctrl+n/p move the cursor, enter chooses, esc dismisses.
type Picker struct {
	Title string

	items    []PickerItem
	filtered []PickerItem
	input    textinput.Model
	cursor   int
	scroll   int
	width    int
}

// NewPicker builds a picker over the given items.
func NewPicker(title string, items []PickerItem) *Picker {
	ti := textinput.New()
	ti.Placeholder = "type to filter"
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 64

	p := &Picker{Title: title, items: items, input: ti, width: 48}
	p.applyFilter()
	return p
}

// HandleKey routes a key press. On PickerChoose the returned id is the chosen
// item's ID.
func (p *Picker) HandleKey(msg tea.KeyMsg) (action PickerAction, id string, cmd tea.Cmd) {
	switch msg.String() {
	case "esc":
		return PickerCancel, "", nil
	case "enter":
		if len(p.filtered) == 0 {
			return PickerNone, "", nil
		}
		return PickerChoose, p.filtered[p.cursor].ID, nil
	case "up", "ctrl+p":
		p.moveCursor(-1)
		return PickerNone, "", nil
	case "down", "ctrl+n":
		p.moveCursor(1)
		return PickerNone, "", nil
	}

	var c tea.Cmd
	p.input, c = p.input.Update(msg)
	p.applyFilter()
	return PickerNone, "", c
}

func (p *Picker) moveCursor(delta int) {
	if len(p.filtered) == 0 {
		return
	}
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor >= len(p.filtered) {
		p.cursor = len(p.filtered) - 1
	}
	if p.cursor < p.scroll {
		p.scroll = p.cursor
	}
	if p.cursor >= p.scroll+pickerMaxRows {
		p.scroll = p.cursor - pickerMaxRows + 1
	}
}

func (p *Picker) applyFilter() {
	needle := strings.ToLower(strings.TrimSpace(p.input.Value()))
	p.filtered = p.filtered[:0]
	for _, it := range p.items {
		if needle == "" ||
			strings.Contains(strings.ToLower(it.Label), needle) ||
			strings.Contains(strings.ToLower(it.Detail), needle) {
			p.filtered = append(p.filtered, it)
		}
	}
	if p.cursor >= len(p.filtered) {
		p.cursor = 0
		p.scroll = 0
	}
}

// View renders the picker box.
func (p *Picker) View() string {
	var b strings.Builder
	b.WriteString(styles.ModalTitle.Render(p.Title))
	b.WriteString("\n")
	b.WriteString(p.input.View())
	b.WriteString("\n\n")

	if len(p.filtered) == 0 {
		b.WriteString(styles.Muted.Render("no matches"))
	}

	end := p.scroll + pickerMaxRows
	if end > len(p.filtered) {
		end = len(p.filtered)
	}
	for i := p.scroll; i < end; i++ {
		it := p.filtered[i]
		line := runewidth.Truncate(it.Label, p.width, "…")
		if it.Detail != "" {
			line += " " + styles.Muted.Render(runewidth.Truncate(it.Detail, 20, "…"))
		}
		if i == p.cursor {
			b.WriteString(styles.ListCursor.Render("> "))
			b.WriteString(styles.ListItemSelected.Render(line))
		} else {
			b.WriteString("  ")
			b.WriteString(styles.ListItemNormal.Render(line))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(styles.Muted.Render("↑/↓ move • enter select • esc cancel"))
	return styles.ModalBox.Render(b.String())
}
