// Package grouping turns a flat ticket fetch into the ordered, colored status
// groups the presentation renders.
package grouping

import (
	"sort"
	"strings"

	"github.com/marcus/branchline/internal/status"
	"github.com/marcus/branchline/internal/tracker"
)

// UnknownGroup is the bucket for tickets whose status is empty or blank.
const UnknownGroup = "Unknown"

// Group is one rendered status bucket.
type Group struct {
	Status  string
	Color   string
	Tickets []tracker.TicketData
}

// Build groups tickets by status, applies the text filter, drops hidden
// statuses, and orders groups by the configured display order. The Unknown
// group is never hidden and always sorts last.
func Build(tickets []tracker.TicketData, cfg status.ConfigMap, filter string) []Group {
	buckets := make(map[string][]tracker.TicketData)
	for _, t := range tickets {
		if !matches(t, filter) {
			continue
		}
		name := t.Status
		if strings.TrimSpace(name) == "" {
			name = UnknownGroup
		}
		buckets[name] = append(buckets[name], t)
	}

	names := make([]string, 0, len(buckets))
	for name := range buckets {
		if name == UnknownGroup {
			continue
		}
		if entry, ok := status.ByName(cfg, name); ok && entry.Hidden {
			continue
		}
		names = append(names, name)
	}

	sort.SliceStable(names, func(i, j int) bool {
		oi, iOK := orderFor(cfg, names[i])
		oj, jOK := orderFor(cfg, names[j])
		switch {
		case iOK && jOK && oi != oj:
			return oi < oj
		case iOK != jOK:
			return iOK // configured statuses come before unconfigured ones
		default:
			return names[i] < names[j]
		}
	})

	groups := make([]Group, 0, len(names)+1)
	for i, name := range names {
		color := status.PaletteColor(i)
		if entry, ok := status.ByName(cfg, name); ok {
			color = entry.Color
		}
		groups = append(groups, Group{Status: name, Color: color, Tickets: buckets[name]})
	}
	if unknown, ok := buckets[UnknownGroup]; ok {
		groups = append(groups, Group{Status: UnknownGroup, Color: status.UnknownColor, Tickets: unknown})
	}
	return groups
}

func orderFor(cfg status.ConfigMap, name string) (int, bool) {
	entry, ok := status.ByName(cfg, name)
	if !ok {
		return 0, false
	}
	return entry.Order, true
}

// matches is a case-insensitive substring match over the renderable fields.
// An empty filter matches everything.
func matches(t tracker.TicketData, filter string) bool {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		return true
	}
	for _, field := range []string{t.Label, t.Number, t.Status, t.Project} {
		if strings.Contains(strings.ToLower(field), filter) {
			return true
		}
	}
	return false
}
