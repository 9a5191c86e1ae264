package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestDialog_EnterTriggersFocused(t *testing.T) {
	d := NewDialog("Branch exists", "what now?",
		DialogButton{Label: " Switch ", ID: "switch"},
		DialogButton{Label: " Delete ", ID: "delete", Danger: true},
		DialogButton{Label: " Cancel ", ID: "cancel"},
	)

	if got := d.HandleKey(key("enter")); got != "switch" {
		t.Errorf("got %q, want switch", got)
	}

	d.HandleKey(key("tab"))
	if got := d.HandleKey(key("enter")); got != "delete" {
		t.Errorf("got %q, want delete", got)
	}
}

func TestDialog_FocusWraps(t *testing.T) {
	d := NewDialog("t", "m",
		DialogButton{Label: "a", ID: "a"},
		DialogButton{Label: "b", ID: "b"},
	)
	d.HandleKey(key("tab"))
	d.HandleKey(key("tab"))
	if got := d.HandleKey(key("enter")); got != "a" {
		t.Errorf("focus should wrap back, got %q", got)
	}
}

func TestDialog_EscCancels(t *testing.T) {
	d := NewDialog("t", "m", DialogButton{Label: "a", ID: "a"})
	if got := d.HandleKey(key("esc")); got != "cancel" {
		t.Errorf("got %q, want cancel", got)
	}
}

func TestDialog_ViewContainsButtons(t *testing.T) {
	d := NewDialog("Branch exists", "what now?",
		DialogButton{Label: " Switch ", ID: "switch"},
		DialogButton{Label: " Cancel ", ID: "cancel"},
	)
	out := d.View()
	for _, want := range []string{"Branch exists", "what now?", "Switch", "Cancel"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPicker_FilterAndChoose(t *testing.T) {
	p := NewPicker("Select member", []PickerItem{
		{ID: "Member:20", Label: "Ada Lovelace", Detail: "ada"},
		{ID: "Member:21", Label: "Brian Kernighan", Detail: "bwk"},
	})

	for _, r := range "brian" {
		p.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	action, id, _ := p.HandleKey(key("enter"))
	if action != PickerChoose || id != "Member:21" {
		t.Errorf("got %v/%q", action, id)
	}
}

func TestPicker_EnterOnNoMatchesIsNoop(t *testing.T) {
	p := NewPicker("Select member", []PickerItem{{ID: "x", Label: "Ada"}})
	for _, r := range "zzz" {
		p.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	action, _, _ := p.HandleKey(key("enter"))
	if action != PickerNone {
		t.Errorf("got %v, want PickerNone", action)
	}
}

func TestPicker_EscCancels(t *testing.T) {
	p := NewPicker("Select member", []PickerItem{{ID: "x", Label: "Ada"}})
	action, _, _ := p.HandleKey(key("esc"))
	if action != PickerCancel {
		t.Errorf("got %v, want PickerCancel", action)
	}
}

func TestPicker_CursorClampedAfterFilter(t *testing.T) {
	p := NewPicker("t", []PickerItem{
		{ID: "a", Label: "alpha"},
		{ID: "b", Label: "beta"},
		{ID: "c", Label: "gamma"},
	})
	p.HandleKey(tea.KeyMsg{Type: tea.KeyDown})
	p.HandleKey(tea.KeyMsg{Type: tea.KeyDown})
	for _, r := range "alpha" {
		p.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	action, id, _ := p.HandleKey(key("enter"))
	if action != PickerChoose || id != "a" {
		t.Errorf("got %v/%q, want choose a", action, id)
	}
}
