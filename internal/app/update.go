package app

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/branchline/internal/branch"
	"github.com/marcus/branchline/internal/branchname"
	"github.com/marcus/branchline/internal/grouping"
	"github.com/marcus/branchline/internal/tracker"
	"github.com/marcus/branchline/internal/ui"
	"github.com/marcus/branchline/internal/viewstate"
)

const toastDuration = 3 * time.Second

// Update is the root message handler.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case activateMsg:
		cmd := (&m).activateTab(m.activeTab)
		return m, cmd

	case directoryLoadedMsg:
		return m.handleDirectoryLoaded(msg)

	case ticketsLoadedMsg:
		return m.handleTicketsLoaded(msg)

	case settingsChangedMsg:
		return m.handleSettingsChanged()

	case toastExpiredMsg:
		if !m.statusExpiry.After(time.Now()) {
			m.statusMsg = ""
		}
		return m, nil

	case branchPromptMsg:
		(&m).openBranchPrompt(msg)
		return m, nil

	case branchDoneMsg:
		return m.handleBranchDone(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// activateTab runs the re-entrant activation transition for a tab.
func (m *Model) activateTab(tab Tab) tea.Cmd {
	state, eff := viewstate.Activate(m.states[tab], m.configured(), m.targetID(tab))
	m.states[tab] = state
	return m.applyEffect(tab, eff)
}

// applyEffect turns a state machine effect into UI work.
func (m *Model) applyEffect(tab Tab, eff viewstate.Effect) tea.Cmd {
	switch eff {
	case viewstate.EffectLoadDirectory:
		return m.loadDirectoryCmd(tab)
	case viewstate.EffectLoadTickets:
		return m.loadTicketsCmd(tab, m.targetID(tab))
	case viewstate.EffectOpenPicker:
		m.openDirectoryPicker(tab)
		return nil
	}
	return nil
}

// openDirectoryPicker opens the member/team selection for a tab.
func (m *Model) openDirectoryPicker(tab Tab) {
	title := "Select Member"
	if tab == TabTeam {
		title = "Select Team"
	}
	items := make([]ui.PickerItem, 0, len(m.states[tab].Directory))
	for _, e := range m.states[tab].Directory {
		items = append(items, ui.PickerItem{ID: e.ID, Label: e.Name})
	}
	m.picker = ui.NewPicker(title, items)
	m.modal = ModalPicker
}

func (m Model) handleDirectoryLoaded(msg directoryLoadedMsg) (tea.Model, tea.Cmd) {
	var eff viewstate.Effect
	if msg.err != nil {
		m.logger.Warn("directory fetch failed", "tab", msg.tab.String(), "err", msg.err)
		m.states[msg.tab], eff = viewstate.DirectoryFailed(m.states[msg.tab], "directory unavailable: "+msg.err.Error())
	} else {
		m.states[msg.tab], eff = viewstate.DirectoryLoaded(m.states[msg.tab], msg.entries)
	}
	// Only the visible tab opens its picker.
	if eff == viewstate.EffectOpenPicker && msg.tab != m.activeTab {
		m.states[msg.tab], _ = viewstate.SelectionCancelled(m.states[msg.tab])
		return m, nil
	}
	cmd := (&m).applyEffect(msg.tab, eff)
	return m, cmd
}

func (m Model) handleTicketsLoaded(msg ticketsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn("ticket fetch failed", "tab", msg.tab.String(), "err", msg.err)
		m.states[msg.tab], _ = viewstate.TicketsFailed(m.states[msg.tab], msg.err.Error())
		return m, nil
	}

	unchanged := m.fingerprints[msg.tab] != 0 && m.fingerprints[msg.tab] == msg.fingerprint
	m.fingerprints[msg.tab] = msg.fingerprint
	m.states[msg.tab], _ = viewstate.TicketsLoaded(m.states[msg.tab], msg.tickets)
	if m.cursor[msg.tab] >= len(msg.tickets) {
		m.cursor[msg.tab] = 0
	}
	if msg.tab == m.activeTab && !unchanged {
		return m, (&m).toast("tickets updated", false)
	}
	return m, nil
}

func (m Model) handleSettingsChanged() (tea.Model, tea.Cmd) {
	// The watcher also fires for this process's own saves; only a changed
	// connection invalidates the presentations.
	oldURL, oldToken := m.store.Connection()
	if err := m.store.Reload(); err != nil {
		m.logger.Warn("settings reload failed", "err", err)
		return m, m.watchSettingsCmd()
	}
	newURL, newToken := m.store.Connection()
	if newURL == oldURL && newToken == oldToken {
		return m, m.watchSettingsCmd()
	}

	(&m).rebuildClient()
	for i := range m.states {
		m.states[i], _ = viewstate.ConnectionChanged(m.states[i])
		m.fingerprints[i] = 0
		m.cursor[i] = 0
	}
	cmd := (&m).activateTab(m.activeTab)
	return m, tea.Batch(cmd, m.watchSettingsCmd())
}

func (m Model) handleBranchDone(msg branchDoneMsg) (tea.Model, tea.Cmd) {
	m.flow = nil
	m.flowResp = nil
	if m.modal == ModalBranchPrompt {
		m.modal = ModalNone
		m.picker = nil
		m.dialog = nil
	}

	var cmds []tea.Cmd
	switch {
	case msg.err != nil:
		cmds = append(cmds, (&m).toast("branch for "+m.flowTicket+" failed: "+msg.err.Error(), true))
	case msg.res.Cancelled:
		// Backed out; nothing to report.
	case msg.res.SwitchedToExist:
		cmds = append(cmds, (&m).toast("switched to "+msg.res.BranchName, false))
	case msg.res.StatusErr != nil:
		cmds = append(cmds, (&m).toast("created "+msg.res.BranchName+" (status update failed)", true))
	case msg.res.Created && msg.res.StatusUpdated:
		cmds = append(cmds, (&m).toast("created "+msg.res.BranchName+", status updated", false))
	case msg.res.Created:
		cmds = append(cmds, (&m).toast("created "+msg.res.BranchName, false))
	}

	// The transition may have changed the ticket's status; refetch.
	if msg.err == nil && msg.res.StatusUpdated {
		state, eff := viewstate.Refresh(m.states[m.activeTab])
		m.states[m.activeTab] = state
		if cmd := (&m).applyEffect(m.activeTab, eff); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

// openBranchPrompt maps a workflow prompt onto a modal.
func (m *Model) openBranchPrompt(msg branchPromptMsg) {
	m.flowResp = msg.resp
	m.modal = ModalBranchPrompt

	switch msg.kind {
	case promptTeam:
		items := make([]ui.PickerItem, 0, len(msg.teams))
		for _, t := range msg.teams {
			items = append(items, ui.PickerItem{ID: t.ID, Label: t.Name})
		}
		m.picker = ui.NewPicker("Select Team", items)

	case promptStatus:
		items := make([]ui.PickerItem, 0, len(msg.statuses))
		for _, s := range msg.statuses {
			items = append(items, ui.PickerItem{ID: s.ID, Label: s.Name})
		}
		m.picker = ui.NewPicker("Pick the in-development status", items)

	case promptExisting:
		m.dialog = ui.NewDialog("Branch exists",
			"Branch "+msg.branchName+" already exists.",
			ui.DialogButton{Label: " Switch to it ", ID: "switch"},
			ui.DialogButton{Label: " Recreate ", ID: "delete", Danger: true},
			ui.DialogButton{Label: " Cancel ", ID: "cancel"},
		)
		m.dialog.Danger = true

	case promptEmptyRepo:
		m.dialog = ui.NewDialog("Repository has no commits",
			"A branch needs at least one commit to start from.",
			ui.DialogButton{Label: " Commit everything ", ID: "commit"},
			ui.DialogButton{Label: " Orphan branch ", ID: "orphan"},
			ui.DialogButton{Label: " Cancel ", ID: "cancel"},
		)
	}
}

// answerBranchPrompt sends the user's answer back to the workflow goroutine
// and resumes waiting for its next event.
func (m *Model) answerBranchPrompt(resp promptResponse) tea.Cmd {
	m.modal = ModalNone
	m.picker = nil
	m.dialog = nil
	if m.flowResp != nil {
		m.flowResp <- resp
		m.flowResp = nil
	}
	if m.flow != nil {
		return m.flow.next()
	}
	return nil
}

// toast shows a transient status message.
func (m *Model) toast(text string, isError bool) tea.Cmd {
	m.statusMsg = text
	m.statusIsError = isError
	m.statusExpiry = time.Now().Add(toastDuration)
	return toastCmd(toastDuration)
}

// visibleTickets flattens the grouped, filtered view of a tab into cursor
// order.
func (m Model) visibleTickets(tab Tab) []tracker.TicketData {
	state := m.states[tab]
	groups := grouping.Build(state.Tickets, m.store.StatusConfig(), state.Filter)
	var flat []tracker.TicketData
	for _, g := range groups {
		flat = append(flat, g.Tickets...)
	}
	return flat
}

// selectedTicket returns the ticket under the cursor, if any.
func (m Model) selectedTicket(tab Tab) (tracker.TicketData, bool) {
	flat := m.visibleTickets(tab)
	if len(flat) == 0 {
		return tracker.TicketData{}, false
	}
	i := m.cursor[tab]
	if i >= len(flat) {
		i = len(flat) - 1
	}
	return flat[i], true
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.modal {
	case ModalBranchPrompt:
		return m.handleBranchPromptKey(msg)
	case ModalSettings:
		return m.handleSettingsKey(msg)
	case ModalPicker:
		return m.handlePickerKey(msg)
	case ModalStatusEditor:
		return m.handleStatusEditorKey(msg)
	case ModalPreview, ModalHelp:
		switch msg.String() {
		case "esc", "q", "enter", "?", "p":
			m.modal = ModalNone
			m.previewBody = ""
		}
		return m, nil
	}

	if m.filtering {
		return m.handleFilterKey(msg)
	}
	return m.handleNormalKey(msg)
}

func (m Model) handleBranchPromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.picker != nil {
		action, id, cmd := m.picker.HandleKey(msg)
		switch action {
		case ui.PickerChoose:
			return m, (&m).answerBranchPrompt(promptResponse{id: id, ok: true})
		case ui.PickerCancel:
			return m, (&m).answerBranchPrompt(promptResponse{})
		}
		return m, cmd
	}
	if m.dialog != nil {
		switch m.dialog.HandleKey(msg) {
		case "switch":
			return m, (&m).answerBranchPrompt(promptResponse{existing: branch.ExistingSwitch})
		case "delete":
			return m, (&m).answerBranchPrompt(promptResponse{existing: branch.ExistingDelete})
		case "commit":
			return m, (&m).answerBranchPrompt(promptResponse{empty: branch.EmptyInitialCommit})
		case "orphan":
			return m, (&m).answerBranchPrompt(promptResponse{empty: branch.EmptyOrphanBranch})
		case "cancel":
			return m, (&m).answerBranchPrompt(promptResponse{})
		}
	}
	return m, nil
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, cmd := m.settingsForm.HandleKey(msg)
	switch action {
	case "cancel":
		m.modal = ModalNone
		m.settingsForm = nil
		return m, nil
	case "save":
		url, token := m.settingsForm.values()
		m.modal = ModalNone
		m.settingsForm = nil
		if err := m.store.SetConnection(url, token); err != nil {
			return m, (&m).toast("saving settings failed: "+err.Error(), true)
		}
		(&m).rebuildClient()
		for i := range m.states {
			m.states[i], _ = viewstate.ConnectionChanged(m.states[i])
			m.fingerprints[i] = 0
			m.cursor[i] = 0
		}
		return m, (&m).activateTab(m.activeTab)
	}
	return m, cmd
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tab := m.activeTab
	action, id, cmd := m.picker.HandleKey(msg)
	switch action {
	case ui.PickerChoose:
		m.modal = ModalNone
		m.picker = nil
		if err := (&m).setTargetID(tab, id); err != nil {
			m.logger.Warn("persisting selection failed", "err", err)
		}
		var eff viewstate.Effect
		m.states[tab], eff = viewstate.SelectionMade(m.states[tab], id)
		m.cursor[tab] = 0
		return m, (&m).applyEffect(tab, eff)
	case ui.PickerCancel:
		m.modal = ModalNone
		m.picker = nil
		var eff viewstate.Effect
		m.states[tab], eff = viewstate.SelectionCancelled(m.states[tab])
		return m, (&m).applyEffect(tab, eff)
	}
	return m, cmd
}

func (m Model) handleStatusEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.statusEditor.HandleKey(msg) != "close" {
		return m, nil
	}
	editor := m.statusEditor
	m.modal = ModalNone
	m.statusEditor = nil
	if !editor.dirty {
		return m, nil
	}
	if err := m.store.SetStatusConfig(editor.cfg); err != nil {
		return m, (&m).toast("saving status config failed: "+err.Error(), true)
	}
	return m, (&m).toast("status configuration saved", false)
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filterInput.SetValue("")
		m.filterInput.Blur()
		m.states[m.activeTab] = viewstate.SetFilter(m.states[m.activeTab], "")
		m.cursor[m.activeTab] = 0
		return m, nil
	case "enter":
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.states[m.activeTab] = viewstate.SetFilter(m.states[m.activeTab], m.filterInput.Value())
	m.cursor[m.activeTab] = 0
	return m, cmd
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tab := m.activeTab

	// Everything below the connection keys needs a configured client.
	if !m.configured() {
		switch msg.String() {
		case "q":
			return m.quit()
		case "S":
			url, token := m.store.Connection()
			m.settingsForm = newSettingsForm(url, token)
			m.modal = ModalSettings
		case "?":
			m.modal = ModalHelp
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m.quit()

	case "tab", "shift+tab":
		m.activeTab = (m.activeTab + 1) % tabCount
		m.filterInput.SetValue(m.states[m.activeTab].Filter)
		return m, (&m).activateTab(m.activeTab)

	case "1":
		m.activeTab = TabMine
		return m, (&m).activateTab(TabMine)

	case "2":
		m.activeTab = TabTeam
		return m, (&m).activateTab(TabTeam)

	case "up", "k":
		if m.cursor[tab] > 0 {
			m.cursor[tab]--
		}
		return m, nil

	case "down", "j":
		if flat := m.visibleTickets(tab); m.cursor[tab] < len(flat)-1 {
			m.cursor[tab]++
		}
		return m, nil

	case "r":
		state, eff := viewstate.Refresh(m.states[tab])
		m.states[tab] = state
		return m, (&m).applyEffect(tab, eff)

	case "/":
		if m.states[tab].Phase == viewstate.PhaseReady {
			m.filtering = true
			m.filterInput.SetValue(m.states[tab].Filter)
			m.filterInput.Focus()
		}
		return m, nil

	case "m":
		state, eff := viewstate.ChangeTarget(m.states[tab])
		m.states[tab] = state
		return m, (&m).applyEffect(tab, eff)

	case "x":
		state, eff := viewstate.ClearTarget(m.states[tab])
		if state.Loading {
			return m, nil // fetch in flight; the clear was rejected
		}
		m.states[tab] = state
		// The persisted selection must clear too, or the next activation
		// re-installs the old target.
		if err := (&m).setTargetID(tab, ""); err != nil {
			m.logger.Warn("clearing selection failed", "err", err)
		}
		m.cursor[tab] = 0
		m.fingerprints[tab] = 0
		return m, (&m).applyEffect(tab, eff)

	case "enter", "b":
		if m.flow != nil {
			return m, nil // workflow already running
		}
		ticket, ok := m.selectedTicket(tab)
		if !ok {
			return m, nil
		}
		return m, (&m).startBranchFlow(ticket)

	case "c":
		ticket, ok := m.selectedTicket(tab)
		if !ok {
			return m, nil
		}
		if err := clipboard.WriteAll(ticket.URL); err != nil {
			return m, (&m).toast("clipboard unavailable", true)
		}
		return m, (&m).toast("ticket URL copied", false)

	case "y":
		ticket, ok := m.selectedTicket(tab)
		if !ok {
			return m, nil
		}
		name := branchname.Generate(ticket.Number, ticket.Label)
		if err := clipboard.WriteAll(name); err != nil {
			return m, (&m).toast("clipboard unavailable", true)
		}
		return m, (&m).toast("branch name copied", false)

	case "p", " ":
		ticket, ok := m.selectedTicket(tab)
		if !ok {
			return m, nil
		}
		m.previewTitle = ticket.Label
		m.previewBody = renderPreview(ticket, previewWidth(m.width))
		m.modal = ModalPreview
		return m, nil

	case "s":
		m.statusEditor = newStatusEditor(m.store.StatusConfig())
		m.modal = ModalStatusEditor
		return m, nil

	case "S":
		url, token := m.store.Connection()
		m.settingsForm = newSettingsForm(url, token)
		m.modal = ModalSettings
		return m, nil

	case "?":
		m.modal = ModalHelp
		return m, nil
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.flow != nil {
		m.flow.stop()
	}
	if !m.quitting {
		m.quitting = true
		close(m.stopWatch)
	}
	return m, tea.Quit
}

func previewWidth(total int) int {
	w := total - 12
	if w > 80 {
		w = 80
	}
	if w < 20 {
		w = 20
	}
	return w
}
