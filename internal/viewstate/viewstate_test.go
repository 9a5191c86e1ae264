package viewstate

import (
	"testing"

	"github.com/marcus/branchline/internal/tracker"
)

func TestActivate_Unconfigured(t *testing.T) {
	s, eff := Activate(New(), false, "Member:20")
	if s.Phase != PhaseUnconfigured || eff != EffectNone {
		t.Errorf("got %v/%v, want unconfigured with no effect", s.Phase, eff)
	}
}

func TestActivate_NoTarget_LoadsDirectoryOnce(t *testing.T) {
	s, eff := Activate(New(), true, "")
	if eff != EffectLoadDirectory {
		t.Fatalf("got effect %v, want LoadDirectory", eff)
	}
	if s.Phase != PhaseLoading || !s.Loading {
		t.Errorf("got %v loading=%v", s.Phase, s.Loading)
	}

	// Re-entrant activation while the fetch is in flight does nothing.
	s2, eff2 := Activate(s, true, "")
	if eff2 != EffectNone {
		t.Errorf("re-entrant activation started a second fetch: %v", eff2)
	}
	if s2.Phase != PhaseLoading {
		t.Errorf("got %v", s2.Phase)
	}
}

func TestDirectoryLoaded_OpensPicker(t *testing.T) {
	s, _ := Activate(New(), true, "")
	s, eff := DirectoryLoaded(s, []Entry{{ID: "Member:20", Name: "Ada"}})
	if eff != EffectOpenPicker {
		t.Fatalf("got effect %v, want OpenPicker", eff)
	}
	if !s.Selecting {
		t.Error("selecting tag should be set while the prompt is open")
	}

	// A concurrent render while the prompt is open must not open a second
	// prompt; it gets the unchanged state (placeholder view).
	s2, eff2 := Activate(s, true, "")
	if eff2 != EffectNone {
		t.Errorf("second prompt opened: %v", eff2)
	}
	if !s2.Selecting {
		t.Error("selecting tag lost")
	}
}

func TestDirectoryLoaded_EmptyShowsLeaf(t *testing.T) {
	s, _ := Activate(New(), true, "")
	s, eff := DirectoryLoaded(s, nil)
	if eff != EffectNone {
		t.Errorf("empty directory must not open a picker, got %v", eff)
	}
	if s.Phase != PhaseAwaitingSelection || s.Selecting {
		t.Errorf("got %v selecting=%v", s.Phase, s.Selecting)
	}

	// Re-activation must not re-fetch or prompt.
	_, eff = Activate(s, true, "")
	if eff != EffectNone {
		t.Errorf("empty directory re-activation caused %v", eff)
	}
}

func TestDirectoryFailed_DegradesToWarning(t *testing.T) {
	s, _ := Activate(New(), true, "")
	s, eff := DirectoryFailed(s, "boom")
	if eff != EffectNone || s.Phase != PhaseAwaitingSelection {
		t.Errorf("got %v/%v", s.Phase, eff)
	}
	if s.Message != "boom" {
		t.Errorf("got message %q", s.Message)
	}
}

func TestSelectionCancelled_PreservesPriorSelection(t *testing.T) {
	s := New()
	s.DirectoryLoaded = true
	s.Directory = []Entry{{ID: "Member:20", Name: "Ada"}, {ID: "Member:21", Name: "Brian"}}
	s.TargetID = "Member:20" // previously persisted choice
	s.TicketsLoaded = true

	s, eff := ChangeTarget(s)
	if eff != EffectOpenPicker {
		t.Fatalf("got %v", eff)
	}
	s, eff = SelectionCancelled(s)
	if s.TargetID != "Member:20" {
		t.Errorf("cancel cleared the persisted selection: %q", s.TargetID)
	}
	if s.Selecting {
		t.Error("prompt should be closed")
	}
	// Tickets were cleared by ChangeTarget, so cancelling resumes with a
	// fresh fetch for the old target.
	if eff != EffectLoadTickets {
		t.Errorf("got effect %v, want LoadTickets", eff)
	}
}

func TestSelectionCancelled_NoPriorSelection(t *testing.T) {
	s := New()
	s.DirectoryLoaded = true
	s.Directory = []Entry{{ID: "Team:5", Name: "Platform"}}
	s, _ = Activate(s, true, "")
	s, eff := SelectionCancelled(s)
	if s.TargetID != "" || eff != EffectNone {
		t.Errorf("got target %q effect %v", s.TargetID, eff)
	}
	if s.Phase != PhaseAwaitingSelection {
		t.Errorf("got %v", s.Phase)
	}
}

func TestSelectionMade_FetchesTickets(t *testing.T) {
	s := New()
	s.DirectoryLoaded = true
	s.Directory = []Entry{{ID: "Team:5", Name: "Platform"}}
	s, _ = Activate(s, true, "")
	s, eff := SelectionMade(s, "Team:5")
	if eff != EffectLoadTickets {
		t.Fatalf("got %v", eff)
	}
	if s.TargetID != "Team:5" || s.Phase != PhaseLoading || s.Selecting {
		t.Errorf("got %+v", s)
	}
}

func TestTicketsLoaded_ZeroIsReady(t *testing.T) {
	s := New()
	s.TargetID = "Member:20"
	s, _ = Activate(s, true, "Member:20")
	s, _ = TicketsLoaded(s, nil)
	if s.Phase != PhaseReady {
		t.Errorf("zero tickets should be Ready, got %v", s.Phase)
	}
	if !s.TicketsLoaded {
		t.Error("TicketsLoaded flag should distinguish empty from unfetched")
	}
}

func TestTicketsFailed_ErrorRecoverableOnlyByRefresh(t *testing.T) {
	s := New()
	s, _ = Activate(s, true, "Member:20")
	s, _ = TicketsFailed(s, "HTTP 500")
	if s.Phase != PhaseError || s.Message != "HTTP 500" {
		t.Fatalf("got %v %q", s.Phase, s.Message)
	}

	// Re-activation does not retry by itself.
	s2, eff := Activate(s, true, "Member:20")
	if eff != EffectNone || s2.Phase != PhaseError {
		t.Errorf("error state should be sticky: %v/%v", s2.Phase, eff)
	}

	// Explicit refresh does.
	s3, eff := Refresh(s)
	if eff != EffectLoadTickets || s3.Phase != PhaseLoading {
		t.Errorf("refresh should retry: %v/%v", s3.Phase, eff)
	}
	if s3.Message != "" {
		t.Errorf("refresh should clear the error message, got %q", s3.Message)
	}
}

func TestRefresh_GuardedWhileLoading(t *testing.T) {
	s := New()
	s, _ = Activate(s, true, "Member:20")
	if !s.Loading {
		t.Fatal("expected in-flight fetch")
	}
	_, eff := Refresh(s)
	if eff != EffectNone {
		t.Errorf("refresh during fetch must be rejected, got %v", eff)
	}
}

func TestRefresh_ClearsTickets(t *testing.T) {
	s := New()
	s.TargetID = "Team:5"
	s.Tickets = []tracker.TicketData{{Number: "S-1"}}
	s.TicketsLoaded = true
	s.Phase = PhaseReady

	s, eff := Refresh(s)
	if eff != EffectLoadTickets {
		t.Fatalf("got %v", eff)
	}
	if s.Tickets != nil || s.TicketsLoaded {
		t.Error("refresh must clear cached tickets")
	}
}

func TestRefresh_NoTarget_RefetchesDirectory(t *testing.T) {
	s := New()
	s.DirectoryLoaded = true
	s.Directory = []Entry{{ID: "Team:5"}}
	s.Phase = PhaseAwaitingSelection

	s, eff := Refresh(s)
	if eff != EffectLoadDirectory {
		t.Fatalf("got %v", eff)
	}
	if s.DirectoryLoaded {
		t.Error("refresh without a target refetches the directory")
	}
}

func TestChangeTarget_PreservesDirectory(t *testing.T) {
	s := New()
	s.TargetID = "Team:5"
	s.DirectoryLoaded = true
	s.Directory = []Entry{{ID: "Team:5"}, {ID: "Team:6"}}
	s.Tickets = []tracker.TicketData{{Number: "S-1"}}
	s.TicketsLoaded = true
	s.Phase = PhaseReady

	s, eff := ChangeTarget(s)
	if eff != EffectOpenPicker {
		t.Fatalf("got %v", eff)
	}
	if len(s.Directory) != 2 || !s.DirectoryLoaded {
		t.Error("changing target must preserve the fetched directory")
	}
	if s.Tickets != nil {
		t.Error("changing target must clear cached tickets")
	}
}

func TestChangeTarget_GuardedWhileSelecting(t *testing.T) {
	s := New()
	s.Selecting = true
	_, eff := ChangeTarget(s)
	if eff != EffectNone {
		t.Errorf("second prompt opened: %v", eff)
	}
}

func TestClearTarget(t *testing.T) {
	s := New()
	s.TargetID = "Member:20"
	s.Tickets = []tracker.TicketData{{Number: "S-1"}}
	s.TicketsLoaded = true
	s.DirectoryLoaded = true
	s.Directory = []Entry{{ID: "Member:20"}}

	s, _ = ClearTarget(s)
	if s.TargetID != "" || s.Tickets != nil {
		t.Errorf("got %+v", s)
	}
	if !s.DirectoryLoaded {
		t.Error("clearing the target keeps the directory")
	}
}

func TestConnectionChanged_ResetsEverything(t *testing.T) {
	s := New()
	s.TargetID = "Member:20"
	s.Directory = []Entry{{ID: "Member:20"}}
	s.DirectoryLoaded = true
	s.Tickets = []tracker.TicketData{{Number: "S-1"}}
	s.TicketsLoaded = true
	s.Filter = "login"
	s.Phase = PhaseReady

	s, _ = ConnectionChanged(s)
	if s.Phase != PhaseUnconfigured {
		t.Errorf("got %v", s.Phase)
	}
	if s.TargetID != "" || s.Directory != nil || s.Tickets != nil || s.Filter != "" {
		t.Errorf("stale state survived connection change: %+v", s)
	}
}

func TestSetFilter_IsViewOnly(t *testing.T) {
	s := New()
	s.Phase = PhaseReady
	s.TicketsLoaded = true
	s = SetFilter(s, "login")
	if s.Filter != "login" || s.Phase != PhaseReady {
		t.Errorf("filter must not change phase: %+v", s)
	}
}
