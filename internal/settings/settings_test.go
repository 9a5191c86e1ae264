package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/marcus/branchline/internal/status"
)

func TestOpenDir_Empty(t *testing.T) {
	s, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDir failed: %v", err)
	}
	if url, token := s.Connection(); url != "" || token != "" {
		t.Errorf("fresh store should be empty, got %q %q", url, token)
	}
	if s.MemberID() != "" || s.TeamID() != "" {
		t.Error("fresh store should have no selection")
	}
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.SetConnection("https://v1.example.com", "tok"); err != nil {
		t.Fatalf("SetConnection failed: %v", err)
	}
	if err := s.SetMemberID("Member:20"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetTeamID("Team:5"); err != nil {
		t.Fatal(err)
	}
	cfg := status.ConfigMap{
		"StoryStatus:1": {ID: "StoryStatus:1", Name: "Future", Color: "#3B82F6", Order: 1},
	}
	if err := s.SetStatusConfig(cfg); err != nil {
		t.Fatal(err)
	}

	// Fresh store over the same directory sees everything.
	s2, err := OpenDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if url, token := s2.Connection(); url != "https://v1.example.com" || token != "tok" {
		t.Errorf("connection not persisted: %q %q", url, token)
	}
	if s2.MemberID() != "Member:20" || s2.TeamID() != "Team:5" {
		t.Errorf("selection not persisted: %q %q", s2.MemberID(), s2.TeamID())
	}
	got := s2.StatusConfig()
	if got["StoryStatus:1"].Color != "#3B82F6" {
		t.Errorf("status config not persisted: %+v", got)
	}
}

func TestSetConnection_ClearsScopedState(t *testing.T) {
	s, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s.SetConnection("https://old.example.com", "old")
	s.SetMemberID("Member:20")
	s.SetTeamID("Team:5")
	s.SetStatusConfig(status.ConfigMap{"x": {ID: "x"}})

	if err := s.SetConnection("https://new.example.com", "new"); err != nil {
		t.Fatal(err)
	}
	if s.MemberID() != "" || s.TeamID() != "" {
		t.Error("changing connection must clear selections")
	}
	if len(s.StatusConfig()) != 0 {
		t.Error("changing connection must clear status config")
	}
}

func TestStatusConfig_ReturnsCopy(t *testing.T) {
	s, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s.SetStatusConfig(status.ConfigMap{"x": {ID: "x", Color: "#111111"}})

	got := s.StatusConfig()
	entry := got["x"]
	entry.Color = "#999999"
	got["x"] = entry

	if s.StatusConfig()["x"].Color != "#111111" {
		t.Error("StatusConfig must return a copy, not the live map")
	}
}

func TestReload(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	// Simulate an external edit.
	content := []byte(`{"instanceUrl":"https://edited.example.com","accessToken":"t2"}`)
	if err := os.WriteFile(filepath.Join(dir, "settings.json"), content, 0600); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if url, _ := s.Connection(); url != "https://edited.example.com" {
		t.Errorf("got %q after reload", url)
	}
}

func TestOpenDir_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "settings.json"), []byte("{bad"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenDir(dir); err == nil {
		t.Error("corrupt settings should surface an error")
	}
}
