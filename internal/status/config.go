// Package status holds the persisted, user-customizable workflow status
// configuration and the reconciliation that merges it with freshly fetched
// status definitions. The remote service is authoritative for names and
// ordering; the user is authoritative for colors, visibility, and the single
// dev-in-progress designation.
package status

import "fmt"

// Config is the persisted record for one workflow status.
type Config struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Color         string `json:"color"` // always a 6-digit hex string
	Order         int    `json:"order"`
	DevInProgress bool   `json:"isDevInProgress,omitempty"`
	Hidden        bool   `json:"hidden,omitempty"`
}

// ConfigMap maps status id to its configuration. Entries are only ever
// overwritten in place; reconciliation never deletes them, so an entry whose
// status disappeared upstream simply goes stale.
type ConfigMap map[string]Config

// Info mirrors tracker.StatusInfo without importing the transport package,
// keeping this package dependency-free for reuse by the grouping engine.
type Info struct {
	ID        string
	Name      string
	Order     int
	ColorName string
}

// Merge reconciles fetched status definitions into an existing configuration.
// New statuses get a deterministic color (remote color name when translatable,
// otherwise the palette cycled by the fetch position, which makes repeated
// merges of the same fetch idempotent). Pre-existing entries keep their color,
// hidden flag, and dev-in-progress flag, and take fresh name and order from
// the fetch. Entries absent from the fetch pass through unchanged.
func Merge(existing ConfigMap, fetched []Info) ConfigMap {
	merged := make(ConfigMap, len(existing)+len(fetched))
	for id, cfg := range existing {
		merged[id] = cfg
	}

	for i, info := range fetched {
		if prev, ok := merged[info.ID]; ok {
			prev.Name = info.Name
			prev.Order = info.Order
			merged[info.ID] = prev
			continue
		}

		color, ok := translateColorName(info.ColorName)
		if !ok {
			color = PaletteColor(i)
		}
		merged[info.ID] = Config{
			ID:    info.ID,
			Name:  info.Name,
			Color: color,
			Order: info.Order,
		}
	}

	return merged
}

// SetDevInProgress marks id as the branch-creation status, clearing the flag
// everywhere else so at most one entry carries it.
func SetDevInProgress(m ConfigMap, id string) ConfigMap {
	out := make(ConfigMap, len(m))
	for k, cfg := range m {
		cfg.DevInProgress = k == id
		out[k] = cfg
	}
	return out
}

// DevInProgressID returns the id flagged for branch creation, or "".
func DevInProgressID(m ConfigMap) string {
	for id, cfg := range m {
		if cfg.DevInProgress {
			return id
		}
	}
	return ""
}

// SetColor replaces the color of id. Malformed hex is rejected.
func SetColor(m ConfigMap, id, hex string) (ConfigMap, error) {
	if !ValidHex(hex) {
		return m, fmt.Errorf("invalid color %q: want #RRGGBB", hex)
	}
	cfg, ok := m[id]
	if !ok {
		return m, fmt.Errorf("unknown status id %q", id)
	}
	out := make(ConfigMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	cfg.Color = hex
	out[id] = cfg
	return out, nil
}

// ToggleHidden flips the visibility of id. A missing hidden value counts as
// visible.
func ToggleHidden(m ConfigMap, id string) (ConfigMap, error) {
	cfg, ok := m[id]
	if !ok {
		return m, fmt.Errorf("unknown status id %q", id)
	}
	out := make(ConfigMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	cfg.Hidden = !cfg.Hidden
	out[id] = cfg
	return out, nil
}

// ByName returns the config entry whose display name matches, if any.
// Grouping matches by name because tickets only carry a status name. When
// two entries share a name, the lowest id wins, keeping the result stable
// across map iterations.
func ByName(m ConfigMap, name string) (Config, bool) {
	var best Config
	bestID := ""
	found := false
	for id, cfg := range m {
		if cfg.Name != name {
			continue
		}
		if !found || id < bestID {
			best, bestID = cfg, id
			found = true
		}
	}
	return best, found
}
