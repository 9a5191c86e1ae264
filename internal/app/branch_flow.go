package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/branchline/internal/branch"
	"github.com/marcus/branchline/internal/gitops"
	"github.com/marcus/branchline/internal/status"
	"github.com/marcus/branchline/internal/tracker"
)

// branchFlow bridges the synchronous branch workflow to the event loop. The
// orchestrator runs in a goroutine; prompts and the final result arrive as
// messages on events, and modal answers go back over each prompt's resp
// channel.
type branchFlow struct {
	events chan tea.Msg
	cancel context.CancelFunc
}

// next waits for the workflow's next event (a prompt or completion).
func (f *branchFlow) next() tea.Cmd {
	return func() tea.Msg { return <-f.events }
}

// stop aborts the workflow. Pending prompt waits unblock via the context.
func (f *branchFlow) stop() { f.cancel() }

// flowPrompter implements branch.Prompter by round-tripping each decision
// through the UI.
type flowPrompter struct {
	events chan<- tea.Msg
}

func (p *flowPrompter) ask(ctx context.Context, msg branchPromptMsg) (promptResponse, error) {
	msg.resp = make(chan promptResponse, 1)
	select {
	case p.events <- msg:
	case <-ctx.Done():
		return promptResponse{}, ctx.Err()
	}
	select {
	case r := <-msg.resp:
		return r, nil
	case <-ctx.Done():
		return promptResponse{}, ctx.Err()
	}
}

func (p *flowPrompter) PickTeam(ctx context.Context, teams []tracker.TeamInfo) (string, bool, error) {
	r, err := p.ask(ctx, branchPromptMsg{kind: promptTeam, teams: teams})
	if err != nil {
		return "", false, err
	}
	return r.id, r.ok, nil
}

func (p *flowPrompter) PickStatus(ctx context.Context, statuses []status.Config) (string, bool, error) {
	r, err := p.ask(ctx, branchPromptMsg{kind: promptStatus, statuses: statuses})
	if err != nil {
		return "", false, err
	}
	return r.id, r.ok, nil
}

func (p *flowPrompter) ResolveExistingBranch(ctx context.Context, name string) (branch.ExistingDecision, error) {
	r, err := p.ask(ctx, branchPromptMsg{kind: promptExisting, branchName: name})
	if err != nil {
		return branch.ExistingCancel, err
	}
	return r.existing, nil
}

func (p *flowPrompter) ResolveEmptyRepo(ctx context.Context) (branch.EmptyRepoDecision, error) {
	r, err := p.ask(ctx, branchPromptMsg{kind: promptEmptyRepo})
	if err != nil {
		return branch.EmptyCancel, err
	}
	return r.empty, nil
}

// startBranchFlow launches the workflow for a ticket and returns the command
// that waits for its first event.
func (m *Model) startBranchFlow(ticket tracker.TicketData) tea.Cmd {
	repo, err := gitops.Open(m.repoDir)
	if err != nil {
		return func() tea.Msg { return branchDoneMsg{err: err} }
	}

	ctx, cancel := context.WithCancel(context.Background())
	flow := &branchFlow{events: make(chan tea.Msg), cancel: cancel}

	orch := &branch.Orchestrator{
		Git:      repo,
		Tracker:  m.client,
		Prompter: &flowPrompter{events: flow.events},
		Settings: m.store,
		Logger:   m.logger,
	}

	go func() {
		res, err := orch.Create(ctx, ticket)
		select {
		case flow.events <- branchDoneMsg{res: res, err: err}:
		case <-ctx.Done():
		}
	}()

	m.flow = flow
	m.flowTicket = ticket.Number
	return flow.next()
}
