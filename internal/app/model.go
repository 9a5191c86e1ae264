// Package app is the root Bubble Tea model: two ticket presentations on tabs,
// the modal stack, and the glue between the view state machine, the tracker
// client, and the branch workflow.
package app

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/branchline/internal/settings"
	"github.com/marcus/branchline/internal/styles"
	"github.com/marcus/branchline/internal/tracker"
	"github.com/marcus/branchline/internal/ui"
	"github.com/marcus/branchline/internal/viewstate"
)

// Tab identifies one of the two ticket presentations.
type Tab int

const (
	TabMine Tab = iota // tickets owned by the configured member
	TabTeam            // tickets belonging to the configured team
)

const tabCount = 2

func (t Tab) String() string {
	if t == TabMine {
		return "My Tickets"
	}
	return "Team Tickets"
}

// ModalKind identifies an app-level modal with explicit priority ordering.
type ModalKind int

const (
	ModalNone         ModalKind = iota
	ModalSettings               // connection settings form
	ModalPicker                 // member/team selection
	ModalStatusEditor           // status configuration editor
	ModalPreview                // ticket description preview
	ModalBranchPrompt           // branch workflow decision
	ModalHelp
)

// Model is the root Bubble Tea model.
type Model struct {
	store   *settings.Store
	logger  *slog.Logger
	repoDir string

	// client is nil while connection settings are missing.
	client *tracker.Client

	width, height int
	ready         bool

	activeTab Tab
	states    [tabCount]viewstate.State
	cursor    [tabCount]int

	// Refresh fingerprints per tab; an unchanged fetch skips the toast.
	fingerprints [tabCount]uint64

	filterInput textinput.Model
	filtering   bool

	spin spinner.Model

	modal        ModalKind
	picker       *ui.Picker
	dialog       *ui.Dialog
	settingsForm *settingsForm
	statusEditor *statusEditor
	previewBody  string
	previewTitle string

	// In-flight branch workflow, nil when idle.
	flow        *branchFlow
	flowResp    chan promptResponse
	flowTicket  string

	statusMsg     string
	statusExpiry  time.Time
	statusIsError bool

	watchCh   <-chan struct{}
	stopWatch chan struct{}
	quitting  bool
}

// New creates the application model. repoDir is the git working directory
// branches are created in.
func New(store *settings.Store, repoDir string, logger *slog.Logger) Model {
	fi := textinput.New()
	fi.Placeholder = "filter tickets"
	fi.Prompt = "/ "
	fi.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.ListCursor

	m := Model{
		store:       store,
		logger:      logger,
		repoDir:     repoDir,
		filterInput: fi,
		spin:        sp,
		stopWatch:   make(chan struct{}),
	}
	for i := range m.states {
		m.states[i] = viewstate.New()
	}
	m.rebuildClient()

	// Missing a watcher only disables live reload of external edits.
	watchCh, err := settings.Watch(store.Path(), logger, m.stopWatch)
	if err != nil {
		logger.Warn("settings watcher unavailable", "err", err)
	} else {
		m.watchCh = watchCh
	}
	return m
}

// rebuildClient recreates the tracker client from the current connection
// settings. A missing configuration leaves the client nil; the presentations
// stay in their unconfigured phase.
func (m *Model) rebuildClient() {
	url, token := m.store.Connection()
	client, err := tracker.NewClient(url, token, m.logger)
	if err != nil {
		m.client = nil
		return
	}
	m.client = client
}

func (m *Model) configured() bool { return m.client != nil }

// targetID returns the persisted selection backing a tab.
func (m *Model) targetID(tab Tab) string {
	if tab == TabMine {
		return m.store.MemberID()
	}
	return m.store.TeamID()
}

// setTargetID persists a tab's selection.
func (m *Model) setTargetID(tab Tab, id string) error {
	if tab == TabMine {
		return m.store.SetMemberID(id)
	}
	return m.store.SetTeamID(id)
}

// Init starts the spinner and settings watcher, then activates the first tab
// via activateMsg so the transition runs through Update.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		m.watchSettingsCmd(),
		func() tea.Msg { return activateMsg{} },
	)
}
