// Package settings is the persisted key-value store for tracker credentials,
// the current member/team selection, and the workflow status configuration.
// Values are read and written wholesale to a JSON file; concurrent writers in
// other processes are last-writer-wins.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/marcus/branchline/internal/status"
)

// data is the on-disk shape.
type data struct {
	InstanceURL  string           `json:"instanceUrl,omitempty"`
	AccessToken  string           `json:"accessToken,omitempty"`
	MemberID     string           `json:"memberId,omitempty"`
	TeamID       string           `json:"teamId,omitempty"`
	StatusConfig status.ConfigMap `json:"statusConfig,omitempty"`
}

// Store holds the settings for one configuration directory.
type Store struct {
	mu   sync.RWMutex
	path string
	d    data
}

// Open loads settings from the default location (~/.config/branchline).
func Open() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return OpenDir(filepath.Join(home, ".config", "branchline"))
}

// OpenDir loads settings from a specific directory. Primarily for tests.
func OpenDir(dir string) (*Store, error) {
	s := &Store{path: filepath.Join(dir, "settings.json")}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the settings file location.
func (s *Store) Path() string { return s.path }

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.d = data{}
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil // no settings yet, start empty
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, &s.d)
}

// Reload re-reads the file, discarding in-memory values. Used when the
// watcher reports an external edit.
func (s *Store) Reload() error { return s.load() }

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(s.d, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0600)
}

// Connection returns the instance URL and access token.
func (s *Store) Connection() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.d.InstanceURL, s.d.AccessToken
}

// SetConnection stores new connection settings and clears everything scoped
// to the old instance: selections and the status configuration.
func (s *Store) SetConnection(instanceURL, token string) error {
	s.mu.Lock()
	s.d.InstanceURL = instanceURL
	s.d.AccessToken = token
	s.d.MemberID = ""
	s.d.TeamID = ""
	s.d.StatusConfig = nil
	err := s.save()
	s.mu.Unlock()
	return err
}

// MemberID returns the persisted member selection, "" when unset.
func (s *Store) MemberID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.d.MemberID
}

// SetMemberID persists the member selection.
func (s *Store) SetMemberID(id string) error {
	s.mu.Lock()
	s.d.MemberID = id
	err := s.save()
	s.mu.Unlock()
	return err
}

// TeamID returns the persisted team selection, "" when unset.
func (s *Store) TeamID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.d.TeamID
}

// SetTeamID persists the team selection.
func (s *Store) SetTeamID(id string) error {
	s.mu.Lock()
	s.d.TeamID = id
	err := s.save()
	s.mu.Unlock()
	return err
}

// StatusConfig returns a copy of the persisted status configuration map.
func (s *Store) StatusConfig() status.ConfigMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(status.ConfigMap, len(s.d.StatusConfig))
	for k, v := range s.d.StatusConfig {
		out[k] = v
	}
	return out
}

// SetStatusConfig replaces the persisted status configuration wholesale.
func (s *Store) SetStatusConfig(m status.ConfigMap) error {
	s.mu.Lock()
	s.d.StatusConfig = m
	err := s.save()
	s.mu.Unlock()
	return err
}
