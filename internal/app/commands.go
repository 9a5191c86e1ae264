package app

import (
	"context"
	"time"

	"github.com/cespare/xxhash/v2"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/branchline/internal/tracker"
	"github.com/marcus/branchline/internal/viewstate"
)

const fetchTimeout = 30 * time.Second

// loadDirectoryCmd fetches the member or team directory for a tab.
func (m Model) loadDirectoryCmd(tab Tab) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		var entries []viewstate.Entry
		if tab == TabMine {
			members, err := client.Members(ctx)
			if err != nil {
				return directoryLoadedMsg{tab: tab, err: err}
			}
			for _, member := range members {
				entries = append(entries, viewstate.Entry{ID: member.ID, Name: member.Name})
			}
		} else {
			teams, err := client.Teams(ctx)
			if err != nil {
				return directoryLoadedMsg{tab: tab, err: err}
			}
			for _, team := range teams {
				entries = append(entries, viewstate.Entry{ID: team.ID, Name: team.Name})
			}
		}
		return directoryLoadedMsg{tab: tab, entries: entries}
	}
}

// loadTicketsCmd fetches tickets for a tab's target.
func (m Model) loadTicketsCmd(tab Tab, targetID string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		var tickets []tracker.TicketData
		var err error
		if tab == TabMine {
			tickets, err = client.TicketsForMember(ctx, targetID)
		} else {
			tickets, err = client.TicketsForTeam(ctx, targetID)
		}
		if err != nil {
			return ticketsLoadedMsg{tab: tab, err: err}
		}
		return ticketsLoadedMsg{tab: tab, tickets: tickets, fingerprint: ticketFingerprint(tickets)}
	}
}

// ticketFingerprint hashes the render-relevant fields of a fetch so refreshes
// can tell "nothing changed" apart from a real update.
func ticketFingerprint(tickets []tracker.TicketData) uint64 {
	h := xxhash.New()
	for _, t := range tickets {
		h.WriteString(t.AssetID)
		h.WriteString("\x00")
		h.WriteString(t.Label)
		h.WriteString("\x00")
		h.WriteString(t.Status)
		h.WriteString("\x00")
		h.WriteString(t.Project)
		h.WriteString("\x1e")
	}
	return h.Sum64()
}

// watchSettingsCmd blocks until the watcher reports an external edit, then
// re-arms from Update.
func (m Model) watchSettingsCmd() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return settingsChangedMsg{}
	}
}

// toastCmd schedules the toast expiry.
func toastCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return toastExpiredMsg{} })
}
