package app

import (
	"github.com/marcus/branchline/internal/branch"
	"github.com/marcus/branchline/internal/status"
	"github.com/marcus/branchline/internal/tracker"
	"github.com/marcus/branchline/internal/viewstate"
)

// directoryLoadedMsg carries a member/team directory fetch result.
type directoryLoadedMsg struct {
	tab     Tab
	entries []viewstate.Entry
	err     error
}

// ticketsLoadedMsg carries a ticket fetch result. fingerprint is a hash of
// the payload so an unchanged refresh can skip the re-render toast.
type ticketsLoadedMsg struct {
	tab         Tab
	tickets     []tracker.TicketData
	fingerprint uint64
	err         error
}

// activateMsg (re)activates the current tab's presentation.
type activateMsg struct{}

// settingsChangedMsg reports an external edit to the settings file.
type settingsChangedMsg struct{}

// toastExpiredMsg clears the transient status message.
type toastExpiredMsg struct{}

// promptKind identifies which decision the branch workflow is waiting on.
type promptKind int

const (
	promptTeam promptKind = iota
	promptStatus
	promptExisting
	promptEmptyRepo
)

// promptResponse is the user's answer to a workflow prompt.
type promptResponse struct {
	id       string
	ok       bool
	existing branch.ExistingDecision
	empty    branch.EmptyRepoDecision
}

// branchPromptMsg asks the UI to open a modal for an in-flight branch
// workflow. The answer goes back over resp.
type branchPromptMsg struct {
	kind       promptKind
	teams      []tracker.TeamInfo
	statuses   []status.Config
	branchName string
	resp       chan promptResponse
}

// branchDoneMsg reports the finished branch workflow.
type branchDoneMsg struct {
	res branch.Result
	err error
}
