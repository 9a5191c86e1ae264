// Package gitops wraps the git commands branch creation needs. Every
// operation shells out the way the rest of the tool does, returning the
// command output on failure so the UI can surface git's own message.
package gitops

import (
	"bufio"
	"bytes"
	"os/exec"
	"strings"
)

// GitError wraps a failed git command with its combined output.
type GitError struct {
	Output string
	Err    error
}

func (e *GitError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return e.Err.Error()
	}
	return out
}

func (e *GitError) Unwrap() error { return e.Err }

// Repo is a git capability scoped to one working directory.
type Repo struct {
	Dir string
}

// Open verifies dir is inside a git repository.
func Open(dir string) (*Repo, error) {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = dir
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, &GitError{Output: string(output), Err: err}
	}
	return &Repo{Dir: dir}, nil
}

func (r *Repo) run(args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	if output, err := cmd.CombinedOutput(); err != nil {
		return &GitError{Output: string(output), Err: err}
	}
	return nil
}

// Branches returns the local branch names.
func (r *Repo) Branches() ([]string, error) {
	cmd := exec.Command("git", "branch", "--format=%(refname:short)")
	cmd.Dir = r.Dir
	output, err := cmd.Output()
	if err != nil {
		return nil, &GitError{Output: string(output), Err: err}
	}

	var branches []string
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			branches = append(branches, name)
		}
	}
	return branches, nil
}

// BranchExists reports whether a local branch with the given name exists.
func (r *Repo) BranchExists(name string) (bool, error) {
	branches, err := r.Branches()
	if err != nil {
		return false, err
	}
	for _, b := range branches {
		if b == name {
			return true, nil
		}
	}
	return false, nil
}

// HasCommits reports whether HEAD resolves, i.e. the repository has at least
// one commit.
func (r *Repo) HasCommits() bool {
	cmd := exec.Command("git", "rev-parse", "--verify", "HEAD")
	cmd.Dir = r.Dir
	return cmd.Run() == nil
}

// Checkout switches to an existing branch.
func (r *Repo) Checkout(name string) error {
	return r.run("checkout", name)
}

// CreateBranch creates a branch from HEAD, optionally checking it out.
func (r *Repo) CreateBranch(name string, checkout bool) error {
	if checkout {
		return r.run("checkout", "-b", name)
	}
	return r.run("branch", name)
}

// DeleteBranch deletes a local branch.
func (r *Repo) DeleteBranch(name string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	return r.run("branch", flag, name)
}

// CommitAll stages everything and creates a commit, giving an empty
// repository the history branch creation needs.
func (r *Repo) CommitAll(message string) error {
	if err := r.run("add", "-A"); err != nil {
		return err
	}
	return r.run("commit", "-m", message)
}

// OrphanBranch creates and checks out an orphan branch with a single empty
// commit. The caller ends up on the new branch.
func (r *Repo) OrphanBranch(name string) error {
	if err := r.run("checkout", "--orphan", name); err != nil {
		return err
	}
	if err := r.run("reset", "--hard"); err != nil {
		return err
	}
	return r.run("commit", "--allow-empty", "-m", "Initial commit")
}
