// Package viewstate is the state machine behind each ticket presentation
// ("my tickets" scoped by member, "team tickets" scoped by team). It
// reconciles what the user selected, what was fetched, and what filter is
// active into a single phase the view can render, and structurally rejects
// re-entrant fetches and duplicate selection prompts: transitions are pure
// functions over an explicit State value, so the host can call the render
// path as often as it likes.
package viewstate

import "github.com/marcus/branchline/internal/tracker"

// Phase is what the presentation should currently show.
type Phase int

const (
	// PhaseUnconfigured prompts for connection settings.
	PhaseUnconfigured Phase = iota
	// PhaseAwaitingSelection needs a member/team choice (or has an empty
	// directory and shows a "no results" leaf).
	PhaseAwaitingSelection
	// PhaseLoading has a fetch in flight.
	PhaseLoading
	// PhaseReady has tickets (possibly zero) to render.
	PhaseReady
	// PhaseError shows a fetch failure; only an explicit refresh leaves it.
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseUnconfigured:
		return "unconfigured"
	case PhaseAwaitingSelection:
		return "awaiting-selection"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Effect tells the host what asynchronous work a transition requires.
// Transitions never perform I/O themselves.
type Effect int

const (
	EffectNone Effect = iota
	// EffectLoadDirectory fetches the member/team directory.
	EffectLoadDirectory
	// EffectLoadTickets fetches tickets for the current target.
	EffectLoadTickets
	// EffectOpenPicker opens the selection prompt over the directory.
	EffectOpenPicker
)

// Entry is one selectable directory row (a member or a team).
type Entry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// State is the full, serializable presentation state. The zero value is
// PhaseUnconfigured with nothing cached.
type State struct {
	Phase    Phase  `json:"phase"`
	TargetID string `json:"targetId"` // selected member/team id, "" = awaiting choice

	Directory       []Entry `json:"directory,omitempty"`
	DirectoryLoaded bool    `json:"directoryLoaded"`

	Tickets       []tracker.TicketData `json:"tickets,omitempty"`
	TicketsLoaded bool                 `json:"ticketsLoaded"` // Ready with zero tickets is valid

	Filter  string `json:"filter"`
	Message string `json:"message,omitempty"` // warning or error text for the view

	// In-flight tags. While either is set, competing triggers are rejected
	// structurally: the transition returns the state unchanged.
	Selecting bool `json:"selecting"`
	Loading   bool `json:"loading"`
}

// New returns the initial state.
func New() State { return State{Phase: PhaseUnconfigured} }

// Activate is the re-entrant render entry point. configured reports whether
// connection settings exist; targetID is the persisted selection, if any.
// Concurrent calls while a prompt is open or a fetch is in flight return the
// state unchanged, so the caller renders a placeholder instead of opening a
// second prompt or starting a second fetch.
func Activate(s State, configured bool, targetID string) (State, Effect) {
	if !configured {
		return State{Phase: PhaseUnconfigured}, EffectNone
	}
	if s.Loading || s.Selecting {
		return s, EffectNone
	}
	if s.Phase == PhaseError {
		return s, EffectNone // recoverable only via explicit refresh
	}

	if targetID == "" {
		return selectionFlow(s)
	}

	s.TargetID = targetID
	if s.TicketsLoaded {
		s.Phase = PhaseReady
		return s, EffectNone
	}
	s.Phase = PhaseLoading
	s.Loading = true
	return s, EffectLoadTickets
}

// selectionFlow drives the no-target path: fetch the directory once, then
// either prompt or show the empty-directory leaf.
func selectionFlow(s State) (State, Effect) {
	if !s.DirectoryLoaded {
		s.Phase = PhaseLoading
		s.Loading = true
		return s, EffectLoadDirectory
	}
	s.Phase = PhaseAwaitingSelection
	if len(s.Directory) == 0 {
		return s, EffectNone // "no results found" leaf, no picker
	}
	s.Selecting = true
	return s, EffectOpenPicker
}

// DirectoryLoaded records a directory fetch result and opens the picker when
// there is anything to pick.
func DirectoryLoaded(s State, entries []Entry) (State, Effect) {
	s.Loading = false
	s.DirectoryLoaded = true
	s.Directory = entries
	s.Message = ""
	s.Phase = PhaseAwaitingSelection
	if len(entries) == 0 {
		return s, EffectNone
	}
	s.Selecting = true
	return s, EffectOpenPicker
}

// DirectoryFailed degrades to a warning plus an empty list rather than a
// terminal error: the user can still refresh.
func DirectoryFailed(s State, message string) (State, Effect) {
	s.Loading = false
	s.DirectoryLoaded = true
	s.Directory = nil
	s.Message = message
	s.Phase = PhaseAwaitingSelection
	return s, EffectNone
}

// SelectionMade commits a picker choice and starts the ticket fetch. The
// caller persists the id alongside.
func SelectionMade(s State, id string) (State, Effect) {
	s.Selecting = false
	s.TargetID = id
	s.Tickets = nil
	s.TicketsLoaded = false
	s.Message = ""
	s.Phase = PhaseLoading
	s.Loading = true
	return s, EffectLoadTickets
}

// SelectionCancelled closes the picker without touching the prior selection.
// A previously persisted target resumes; otherwise the presentation stays in
// the awaiting state until the next activation.
func SelectionCancelled(s State) (State, Effect) {
	s.Selecting = false
	if s.TargetID == "" {
		s.Phase = PhaseAwaitingSelection
		return s, EffectNone
	}
	if s.TicketsLoaded {
		s.Phase = PhaseReady
		return s, EffectNone
	}
	s.Phase = PhaseLoading
	s.Loading = true
	return s, EffectLoadTickets
}

// TicketsLoaded enters Ready. Zero tickets is a valid Ready state.
func TicketsLoaded(s State, tickets []tracker.TicketData) (State, Effect) {
	s.Loading = false
	s.TicketsLoaded = true
	s.Tickets = tickets
	s.Message = ""
	s.Phase = PhaseReady
	return s, EffectNone
}

// TicketsFailed enters the terminal error phase with a human-readable
// message.
func TicketsFailed(s State, message string) (State, Effect) {
	s.Loading = false
	s.TicketsLoaded = false
	s.Tickets = nil
	s.Message = message
	s.Phase = PhaseError
	return s, EffectNone
}

// Refresh clears cached tickets and re-enters Loading. It is rejected while
// a fetch is already in flight.
func Refresh(s State) (State, Effect) {
	if s.Loading {
		return s, EffectNone
	}
	s.Tickets = nil
	s.TicketsLoaded = false
	s.Message = ""
	if s.TargetID == "" {
		s.DirectoryLoaded = false
		s.Directory = nil
		if s.Selecting {
			return s, EffectNone
		}
		s.Phase = PhaseLoading
		s.Loading = true
		return s, EffectLoadDirectory
	}
	s.Phase = PhaseLoading
	s.Loading = true
	return s, EffectLoadTickets
}

// ChangeTarget reopens the selection prompt, keeping the already fetched
// directory and clearing cached tickets. The current target stays until a
// new choice is committed, so cancelling changes nothing.
func ChangeTarget(s State) (State, Effect) {
	if s.Selecting || s.Loading {
		return s, EffectNone
	}
	s.Tickets = nil
	s.TicketsLoaded = false
	s.Message = ""
	if !s.DirectoryLoaded {
		s.Phase = PhaseLoading
		s.Loading = true
		return s, EffectLoadDirectory
	}
	s.Phase = PhaseAwaitingSelection
	if len(s.Directory) == 0 {
		return s, EffectNone
	}
	s.Selecting = true
	return s, EffectOpenPicker
}

// ClearTarget drops the selection and cached tickets, keeping the directory.
func ClearTarget(s State) (State, Effect) {
	if s.Loading {
		return s, EffectNone
	}
	s.TargetID = ""
	s.Tickets = nil
	s.TicketsLoaded = false
	s.Message = ""
	s.Phase = PhaseAwaitingSelection
	return s, EffectNone
}

// ConnectionChanged resets everything: new instance means the directory,
// selection, tickets, and any in-flight flags are meaningless.
func ConnectionChanged(State) (State, Effect) {
	return State{Phase: PhaseUnconfigured}, EffectNone
}

// SetFilter updates the text filter. Filtering is a view over Ready, not a
// fetch state.
func SetFilter(s State, filter string) State {
	s.Filter = filter
	return s
}
