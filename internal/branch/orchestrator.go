// Package branch drives git branch creation for a ticket: resolving the
// dev-in-progress status, handling pre-existing branches and repositories
// with no history, and finally transitioning the ticket's remote status.
package branch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/marcus/branchline/internal/branchname"
	"github.com/marcus/branchline/internal/status"
	"github.com/marcus/branchline/internal/tracker"
)

// Git is the capability the orchestrator needs from a repository.
type Git interface {
	BranchExists(name string) (bool, error)
	HasCommits() bool
	Checkout(name string) error
	CreateBranch(name string, checkout bool) error
	DeleteBranch(name string, force bool) error
	CommitAll(message string) error
	OrphanBranch(name string) error
}

// ExistingDecision answers the pre-existing branch prompt.
type ExistingDecision int

const (
	ExistingCancel ExistingDecision = iota
	ExistingSwitch                  // check out the existing branch and stop
	ExistingDelete                  // delete it and continue creating
)

// EmptyRepoDecision answers the no-commit-history prompt.
type EmptyRepoDecision int

const (
	EmptyCancel        EmptyRepoDecision = iota
	EmptyInitialCommit                   // stage all, commit, then continue normally
	EmptyOrphanBranch                    // orphan branch with an empty commit, terminal
)

// Prompter carries the user decisions the workflow needs. Any prompt may
// report ok=false for a dismissal; dismissal is cancellation, not an error.
type Prompter interface {
	PickTeam(ctx context.Context, teams []tracker.TeamInfo) (id string, ok bool, err error)
	PickStatus(ctx context.Context, statuses []status.Config) (id string, ok bool, err error)
	ResolveExistingBranch(ctx context.Context, name string) (ExistingDecision, error)
	ResolveEmptyRepo(ctx context.Context) (EmptyRepoDecision, error)
}

// Tracker is the remote capability: directory/status fetches plus the status
// transition itself.
type Tracker interface {
	Teams(ctx context.Context) ([]tracker.TeamInfo, error)
	StatusesForTeam(ctx context.Context, teamID string) ([]tracker.StatusInfo, error)
	UpdateStatus(ctx context.Context, ticketID, statusID string, assetType tracker.AssetType, ownerID string) error
}

// Settings is the slice of the persisted store the workflow touches.
type Settings interface {
	TeamID() string
	SetTeamID(id string) error
	MemberID() string
	StatusConfig() status.ConfigMap
	SetStatusConfig(m status.ConfigMap) error
}

// Result reports what the workflow actually did. StatusErr is the one
// non-fatal slot: a branch that exists with a failed remote transition is a
// valid partial success.
type Result struct {
	BranchName      string
	Created         bool // a new branch was created and checked out
	SwitchedToExist bool // user chose to check out the pre-existing branch
	Cancelled       bool // user backed out; nothing to report
	StatusUpdated   bool
	StatusErr       error // non-fatal: branch work succeeded, transition did not
}

// Orchestrator wires the collaborators together.
type Orchestrator struct {
	Git      Git
	Tracker  Tracker
	Prompter Prompter
	Settings Settings
	Logger   *slog.Logger
}

// Create runs the full workflow for one ticket.
func (o *Orchestrator) Create(ctx context.Context, ticket tracker.TicketData) (Result, error) {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}

	statusID, err := o.resolveDevStatus(ctx)
	if err != nil {
		return Result{}, err
	}

	name := branchname.Generate(ticket.Number, ticket.Label)
	res := Result{BranchName: name}

	exists, err := o.Git.BranchExists(name)
	if err != nil {
		return res, err
	}
	if exists {
		decision, err := o.Prompter.ResolveExistingBranch(ctx, name)
		if err != nil {
			return res, err
		}
		switch decision {
		case ExistingSwitch:
			if err := o.Git.Checkout(name); err != nil {
				return res, err
			}
			res.SwitchedToExist = true
			return res, nil
		case ExistingDelete:
			if err := o.Git.DeleteBranch(name, true); err != nil {
				return res, err
			}
		default:
			res.Cancelled = true
			return res, nil
		}
	}

	if !o.Git.HasCommits() {
		decision, err := o.Prompter.ResolveEmptyRepo(ctx)
		if err != nil {
			return res, err
		}
		switch decision {
		case EmptyInitialCommit:
			if err := o.Git.CommitAll("Initial commit"); err != nil {
				return res, err
			}
		case EmptyOrphanBranch:
			if err := o.Git.OrphanBranch(name); err != nil {
				return res, err
			}
			// Already on the new branch with no normal history; the
			// remote transition is deliberately skipped.
			res.Created = true
			return res, nil
		default:
			res.Cancelled = true
			return res, nil
		}
	}

	if err := o.Git.CreateBranch(name, true); err != nil {
		return res, err
	}
	res.Created = true

	if statusID == "" {
		return res, nil
	}
	if err := o.Tracker.UpdateStatus(ctx, ticket.AssetID, statusID, ticket.AssetType, o.Settings.MemberID()); err != nil {
		// The branch exists and is checked out; report the transition
		// failure separately instead of unwinding.
		logger.Warn("status transition failed after branch creation",
			"ticket", ticket.AssetID, "status", statusID, "err", err)
		res.StatusErr = err
		return res, nil
	}
	res.StatusUpdated = true
	return res, nil
}

// resolveDevStatus returns the status id to transition tickets to, prompting
// the user to designate one when none is configured. An empty id with no
// error means the user skipped; branch creation proceeds without a
// transition.
func (o *Orchestrator) resolveDevStatus(ctx context.Context) (string, error) {
	cfg := o.Settings.StatusConfig()
	if id := status.DevInProgressID(cfg); id != "" {
		return id, nil
	}

	teamID := o.Settings.TeamID()
	if teamID == "" {
		teams, err := o.Tracker.Teams(ctx)
		if err != nil {
			return "", fmt.Errorf("load teams: %w", err)
		}
		id, ok, err := o.Prompter.PickTeam(ctx, teams)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", nil // skipped
		}
		if err := o.Settings.SetTeamID(id); err != nil {
			return "", err
		}
		teamID = id
	}

	fetched, err := o.Tracker.StatusesForTeam(ctx, teamID)
	if err != nil {
		return "", fmt.Errorf("load statuses: %w", err)
	}
	infos := make([]status.Info, len(fetched))
	for i, f := range fetched {
		infos[i] = status.Info{ID: f.ID, Name: f.Name, Order: f.Order, ColorName: f.ColorName}
	}
	cfg = status.Merge(cfg, infos)

	choices := make([]status.Config, 0, len(fetched))
	for _, f := range fetched {
		choices = append(choices, cfg[f.ID])
	}
	id, ok, err := o.Prompter.PickStatus(ctx, choices)
	if err != nil {
		return "", err
	}
	if !ok {
		// Persist the merge even on skip so the fetched statuses keep
		// their reconciled colors next time.
		if err := o.Settings.SetStatusConfig(cfg); err != nil {
			return "", err
		}
		return "", nil
	}

	cfg = status.SetDevInProgress(cfg, id)
	if err := o.Settings.SetStatusConfig(cfg); err != nil {
		return "", err
	}
	return id, nil
}
