package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/marcus/branchline/internal/grouping"
	"github.com/marcus/branchline/internal/styles"
	"github.com/marcus/branchline/internal/tracker"
	"github.com/marcus/branchline/internal/ui"
	"github.com/marcus/branchline/internal/viewstate"
)

const (
	headerHeight = 2
	footerHeight = 1
	minWidth     = 60
	minHeight    = 16
)

// View renders the entire application UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.width < minWidth || m.height < minHeight {
		msg := fmt.Sprintf("Terminal too small (%dx%d)\nMinimum: %dx%d",
			m.width, m.height, minWidth, minHeight)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			styles.ToastError.Render(msg))
	}

	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderContent(contentHeight))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	bg := b.String()
	switch m.modal {
	case ModalSettings:
		return ui.Overlay(bg, m.settingsForm.View(), m.width, m.height)
	case ModalPicker:
		return ui.Overlay(bg, m.picker.View(), m.width, m.height)
	case ModalStatusEditor:
		return ui.Overlay(bg, m.statusEditor.View(), m.width, m.height)
	case ModalPreview:
		return ui.Overlay(bg, m.renderPreviewModal(), m.width, m.height)
	case ModalBranchPrompt:
		if m.picker != nil {
			return ui.Overlay(bg, m.picker.View(), m.width, m.height)
		}
		if m.dialog != nil {
			return ui.Overlay(bg, m.dialog.View(), m.width, m.height)
		}
	case ModalHelp:
		return ui.Overlay(bg, m.renderHelpModal(), m.width, m.height)
	}
	return bg
}

func (m Model) renderHeader() string {
	var parts []string
	parts = append(parts, styles.BarTitle.Render(" branchline "))
	for t := Tab(0); t < tabCount; t++ {
		parts = append(parts, styles.RenderTab(t.String(), t == m.activeTab))
	}

	left := strings.Join(parts, " ")

	right := ""
	if m.statusMsg != "" {
		if m.statusIsError {
			right = styles.ToastError.Render(m.statusMsg)
		} else {
			right = styles.ToastSuccess.Render(m.statusMsg)
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderContent(height int) string {
	state := m.states[m.activeTab]

	var body string
	switch state.Phase {
	case viewstate.PhaseUnconfigured:
		body = m.renderUnconfigured()
	case viewstate.PhaseLoading:
		body = m.spin.View() + " " + styles.Muted.Render("loading…")
	case viewstate.PhaseAwaitingSelection:
		body = m.renderAwaitingSelection(state)
	case viewstate.PhaseError:
		body = styles.ToastError.Render(" fetch failed ") + "\n\n" +
			styles.Body.Render(state.Message) + "\n\n" +
			styles.Muted.Render("press r to retry")
	case viewstate.PhaseReady:
		body = m.renderTickets(state, height)
	}

	lines := strings.Split(body, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderUnconfigured() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Not connected"))
	b.WriteString("\n\n")
	b.WriteString(styles.Muted.Render("Configure the tracker instance URL and access token to load tickets."))
	b.WriteString("\n\n")
	b.WriteString(styles.KeyHint.Render("S"))
	b.WriteString(styles.Muted.Render(" open connection settings"))
	return b.String()
}

func (m Model) renderAwaitingSelection(state viewstate.State) string {
	var b strings.Builder
	if state.Message != "" {
		b.WriteString(styles.ToastWarning.Render(state.Message))
		b.WriteString("\n\n")
	}
	if state.DirectoryLoaded && len(state.Directory) == 0 {
		b.WriteString(styles.Muted.Render("No results found."))
		b.WriteString("\n\n")
		b.WriteString(styles.KeyHint.Render("r"))
		b.WriteString(styles.Muted.Render(" refresh"))
		return b.String()
	}
	subject := "a member"
	if m.activeTab == TabTeam {
		subject = "a team"
	}
	b.WriteString(styles.Muted.Render("Select " + subject + " to load tickets."))
	b.WriteString("\n\n")
	b.WriteString(styles.KeyHint.Render("m"))
	b.WriteString(styles.Muted.Render(" open selection"))
	return b.String()
}

// renderTickets renders the grouped ticket list with the cursor row
// highlighted and scrolled into view.
func (m Model) renderTickets(state viewstate.State, height int) string {
	groups := grouping.Build(state.Tickets, m.store.StatusConfig(), state.Filter)

	var b strings.Builder
	if m.filtering || state.Filter != "" {
		if m.filtering {
			b.WriteString(m.filterInput.View())
		} else {
			b.WriteString(styles.Muted.Render("filter: " + state.Filter))
		}
		b.WriteString("\n\n")
	}

	if len(groups) == 0 {
		if state.Filter != "" {
			b.WriteString(styles.Muted.Render("No tickets match the filter."))
		} else {
			b.WriteString(styles.Muted.Render("No tickets."))
		}
		return b.String()
	}

	var lines []string
	cursorLine := 0
	row := 0
	for _, g := range groups {
		header := styles.GroupHeader(g.Status, g.Color) +
			styles.Muted.Render(fmt.Sprintf(" (%d)", len(g.Tickets)))
		lines = append(lines, header)
		for _, t := range g.Tickets {
			line := m.renderTicketRow(t, row == m.cursor[m.activeTab])
			if row == m.cursor[m.activeTab] {
				cursorLine = len(lines)
			}
			lines = append(lines, line)
			row++
		}
		lines = append(lines, "")
	}

	// Scroll the cursor row into the viewport.
	avail := height - strings.Count(b.String(), "\n") - 1
	if avail < 1 {
		avail = 1
	}
	start := 0
	if cursorLine >= avail {
		start = cursorLine - avail + 1
	}
	if start > len(lines)-1 {
		start = len(lines) - 1
	}
	end := start + avail
	if end > len(lines) {
		end = len(lines)
	}
	b.WriteString(strings.Join(lines[start:end], "\n"))
	return b.String()
}

func (m Model) renderTicketRow(t tracker.TicketData, selected bool) string {
	number := styles.Code.Render(t.Number)
	label := runewidth.Truncate(t.Label, m.width-24, "…")
	project := ""
	if t.Project != "" {
		project = " " + styles.Subtle.Render(t.Project)
	}
	line := "  " + number + " " + label + project
	if selected {
		return styles.ListCursor.Render("▸") + styles.ListItemSelected.Render(line[1:])
	}
	return " " + line[1:]
}

func (m Model) renderFooter() string {
	hints := []string{
		"enter branch", "p preview", "/ filter", "r refresh",
		"m select", "s statuses", "S settings", "? help", "q quit",
	}
	line := " " + strings.Join(hints, "  ")
	return styles.Footer.Width(m.width).Render(runewidth.Truncate(line, m.width, "…"))
}

func (m Model) renderPreviewModal() string {
	var b strings.Builder
	b.WriteString(styles.ModalTitle.Render(runewidth.Truncate(m.previewTitle, previewWidth(m.width), "…")))
	b.WriteString("\n\n")
	b.WriteString(m.previewBody)
	b.WriteString("\n\n")
	b.WriteString(styles.Muted.Render("esc close"))
	return styles.ModalBox.Render(b.String())
}

func (m Model) renderHelpModal() string {
	rows := [][2]string{
		{"tab / 1 / 2", "switch between my tickets and team tickets"},
		{"↑/↓ j/k", "move the cursor"},
		{"enter / b", "create a branch for the selected ticket"},
		{"p / space", "preview the ticket description"},
		{"c", "copy the ticket URL"},
		{"y", "copy the derived branch name"},
		{"/", "filter tickets"},
		{"r", "refresh"},
		{"m", "change the selected member/team"},
		{"x", "clear the selection"},
		{"s", "edit status colors and visibility"},
		{"S", "connection settings"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(styles.ModalTitle.Render("Keys"))
	b.WriteString("\n\n")
	for _, r := range rows {
		b.WriteString(styles.KeyHint.Render(r[0]))
		b.WriteString(" ")
		b.WriteString(styles.Muted.Render(r[1]))
		b.WriteString("\n")
	}
	return styles.ModalBox.Render(b.String())
}
