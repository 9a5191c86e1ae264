package grouping

import (
	"testing"

	"github.com/marcus/branchline/internal/status"
	"github.com/marcus/branchline/internal/tracker"
)

func ticket(number, label, statusName string) tracker.TicketData {
	return tracker.TicketData{Number: number, Label: label, Status: statusName}
}

func testConfig() status.ConfigMap {
	return status.ConfigMap{
		"StoryStatus:1": {ID: "StoryStatus:1", Name: "A", Order: 2, Color: "#111111"},
		"StoryStatus:2": {ID: "StoryStatus:2", Name: "B", Order: 1, Color: "#222222"},
	}
}

func TestBuild_OrderAndUnknownLast(t *testing.T) {
	tickets := []tracker.TicketData{
		ticket("S-1", "one", "A"),
		ticket("S-2", "two", "B"),
		ticket("S-3", "three", ""),
		ticket("S-4", "four", "A"),
	}

	groups := Build(tickets, testConfig(), "")

	want := []string{"B", "A", UnknownGroup}
	if len(groups) != len(want) {
		t.Fatalf("got %d groups, want %d", len(groups), len(want))
	}
	for i, name := range want {
		if groups[i].Status != name {
			t.Errorf("group[%d] = %q, want %q", i, groups[i].Status, name)
		}
	}
	if len(groups[1].Tickets) != 2 {
		t.Errorf("group A has %d tickets, want 2", len(groups[1].Tickets))
	}
	if groups[2].Color != status.UnknownColor {
		t.Errorf("Unknown color = %q, want neutral", groups[2].Color)
	}
}

func TestBuild_HiddenExcluded(t *testing.T) {
	cfg := testConfig()
	entry := cfg["StoryStatus:1"]
	entry.Hidden = true
	cfg["StoryStatus:1"] = entry

	groups := Build([]tracker.TicketData{
		ticket("S-1", "one", "A"),
		ticket("S-2", "two", "B"),
	}, cfg, "")

	for _, g := range groups {
		if g.Status == "A" {
			t.Error("hidden status A must not appear")
		}
	}
}

func TestBuild_UnknownNeverHidden(t *testing.T) {
	cfg := status.ConfigMap{
		"x": {ID: "x", Name: UnknownGroup, Hidden: true, Order: 1, Color: "#333333"},
	}
	groups := Build([]tracker.TicketData{ticket("S-1", "one", "")}, cfg, "")
	if len(groups) != 1 || groups[0].Status != UnknownGroup {
		t.Fatalf("got %+v, want a single Unknown group", groups)
	}
	if groups[0].Color != status.UnknownColor {
		t.Errorf("Unknown uses fixed neutral color, got %q", groups[0].Color)
	}
}

func TestBuild_UnconfiguredSortsAfterConfigured(t *testing.T) {
	groups := Build([]tracker.TicketData{
		ticket("S-1", "one", "Zeta"),
		ticket("S-2", "two", "Alpha"),
		ticket("S-3", "three", "B"),
	}, testConfig(), "")

	want := []string{"B", "Alpha", "Zeta"}
	for i, name := range want {
		if groups[i].Status != name {
			t.Errorf("group[%d] = %q, want %q", i, groups[i].Status, name)
		}
	}
}

func TestBuild_UnconfiguredColorsCycle(t *testing.T) {
	groups := Build([]tracker.TicketData{
		ticket("S-1", "one", "Alpha"),
		ticket("S-2", "two", "Beta"),
	}, status.ConfigMap{}, "")

	if groups[0].Color != status.PaletteColor(0) || groups[1].Color != status.PaletteColor(1) {
		t.Errorf("got colors %q, %q", groups[0].Color, groups[1].Color)
	}
}

func TestBuild_Filter(t *testing.T) {
	tickets := []tracker.TicketData{
		{Number: "S-1", Label: "Fix login", Status: "A", Project: "Checkout"},
		{Number: "S-2", Label: "Add search", Status: "B", Project: "Catalog"},
		{Number: "D-77", Label: "Crash", Status: "B", Project: "Checkout"},
	}

	tests := []struct {
		filter string
		want   int
	}{
		{"", 3},
		{"LOGIN", 1},
		{"checkout", 2},
		{"d-77", 1},
		{"b", 2}, // matches status B
		{"zzz", 0},
	}
	for _, tc := range tests {
		groups := Build(tickets, testConfig(), tc.filter)
		total := 0
		for _, g := range groups {
			total += len(g.Tickets)
		}
		if total != tc.want {
			t.Errorf("filter %q matched %d tickets, want %d", tc.filter, total, tc.want)
		}
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	if groups := Build(nil, testConfig(), ""); len(groups) != 0 {
		t.Errorf("got %d groups for no tickets, want 0", len(groups))
	}
}
