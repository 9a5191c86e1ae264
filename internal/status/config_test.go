package status

import (
	"reflect"
	"testing"
)

func TestMerge_NewStatuses(t *testing.T) {
	fetched := []Info{
		{ID: "StoryStatus:1", Name: "Future", Order: 1, ColorName: "blue"},
		{ID: "StoryStatus:2", Name: "In Progress", Order: 2, ColorName: "nonsense"},
		{ID: "StoryStatus:3", Name: "Done", Order: 3},
	}

	merged := Merge(ConfigMap{}, fetched)

	if len(merged) != 3 {
		t.Fatalf("got %d entries, want 3", len(merged))
	}
	if merged["StoryStatus:1"].Color != "#3B82F6" {
		t.Errorf("known color name should translate, got %q", merged["StoryStatus:1"].Color)
	}
	if merged["StoryStatus:2"].Color != PaletteColor(1) {
		t.Errorf("untranslatable name should cycle palette by fetch position, got %q",
			merged["StoryStatus:2"].Color)
	}
	if merged["StoryStatus:3"].Color != PaletteColor(2) {
		t.Errorf("missing color should cycle palette, got %q", merged["StoryStatus:3"].Color)
	}
	for id, cfg := range merged {
		if cfg.DevInProgress {
			t.Errorf("new entry %s should not be flagged dev-in-progress", id)
		}
		if cfg.Hidden {
			t.Errorf("new entry %s should not be hidden", id)
		}
		if !ValidHex(cfg.Color) {
			t.Errorf("entry %s has malformed color %q", id, cfg.Color)
		}
	}
}

func TestMerge_PreservesUserCustomization(t *testing.T) {
	existing := ConfigMap{
		"StoryStatus:1": {
			ID: "StoryStatus:1", Name: "Old Name", Color: "#ABCDEF",
			Order: 9, DevInProgress: true, Hidden: true,
		},
	}
	fetched := []Info{{ID: "StoryStatus:1", Name: "New Name", Order: 4}}

	merged := Merge(existing, fetched)

	got := merged["StoryStatus:1"]
	if got.Color != "#ABCDEF" || !got.DevInProgress || !got.Hidden {
		t.Errorf("user customization lost: %+v", got)
	}
	if got.Name != "New Name" || got.Order != 4 {
		t.Errorf("remote name/order not taken: %+v", got)
	}
}

func TestMerge_PassesThroughOrphans(t *testing.T) {
	existing := ConfigMap{
		"StoryStatus:9": {ID: "StoryStatus:9", Name: "Retired", Color: "#111111"},
	}
	merged := Merge(existing, []Info{{ID: "StoryStatus:1", Name: "Future", Order: 1}})

	if _, ok := merged["StoryStatus:9"]; !ok {
		t.Error("entry absent from fetch must not be deleted")
	}
	if !reflect.DeepEqual(merged["StoryStatus:9"], existing["StoryStatus:9"]) {
		t.Errorf("orphan entry changed: %+v", merged["StoryStatus:9"])
	}
}

func TestMerge_Idempotent(t *testing.T) {
	existing := ConfigMap{
		"StoryStatus:1": {ID: "StoryStatus:1", Name: "Future", Color: "#ABCDEF", Order: 1},
	}
	fetched := []Info{
		{ID: "StoryStatus:1", Name: "Future", Order: 1},
		{ID: "StoryStatus:2", Name: "In Progress", Order: 2},
		{ID: "StoryStatus:3", Name: "Done", Order: 3, ColorName: "green"},
	}

	once := Merge(existing, fetched)
	twice := Merge(once, fetched)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merge not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	existing := ConfigMap{
		"StoryStatus:1": {ID: "StoryStatus:1", Name: "Future", Color: "#ABCDEF", Order: 1},
	}
	Merge(existing, []Info{{ID: "StoryStatus:1", Name: "Renamed", Order: 5}})

	if existing["StoryStatus:1"].Name != "Future" {
		t.Error("Merge mutated its input map")
	}
}

func TestSetDevInProgress_AtMostOne(t *testing.T) {
	m := ConfigMap{
		"a": {ID: "a", DevInProgress: true},
		"b": {ID: "b"},
		"c": {ID: "c", DevInProgress: true}, // corrupted input: two flags
	}

	m = SetDevInProgress(m, "b")

	var flagged []string
	for id, cfg := range m {
		if cfg.DevInProgress {
			flagged = append(flagged, id)
		}
	}
	if len(flagged) != 1 || flagged[0] != "b" {
		t.Errorf("got flagged %v, want exactly [b]", flagged)
	}
	if DevInProgressID(m) != "b" {
		t.Errorf("DevInProgressID = %q, want b", DevInProgressID(m))
	}
}

func TestSetColor(t *testing.T) {
	m := ConfigMap{"a": {ID: "a", Color: "#111111"}}

	m2, err := SetColor(m, "a", "#AbCdEf")
	if err != nil {
		t.Fatalf("SetColor rejected valid hex: %v", err)
	}
	if m2["a"].Color != "#AbCdEf" {
		t.Errorf("got color %q", m2["a"].Color)
	}

	for _, bad := range []string{"", "red", "#12345", "#1234567", "123456", "#12345G"} {
		if _, err := SetColor(m, "a", bad); err == nil {
			t.Errorf("SetColor(%q) should fail", bad)
		}
	}

	if _, err := SetColor(m, "missing", "#112233"); err == nil {
		t.Error("SetColor on unknown id should fail")
	}
}

func TestToggleHidden(t *testing.T) {
	m := ConfigMap{"a": {ID: "a"}}

	m, err := ToggleHidden(m, "a")
	if err != nil {
		t.Fatalf("ToggleHidden failed: %v", err)
	}
	if !m["a"].Hidden {
		t.Error("first toggle should hide")
	}
	m, _ = ToggleHidden(m, "a")
	if m["a"].Hidden {
		t.Error("second toggle should unhide")
	}

	if _, err := ToggleHidden(m, "missing"); err == nil {
		t.Error("ToggleHidden on unknown id should fail")
	}
}

func TestByName(t *testing.T) {
	m := ConfigMap{"a": {ID: "a", Name: "In Progress"}}
	if cfg, ok := ByName(m, "In Progress"); !ok || cfg.ID != "a" {
		t.Errorf("ByName miss: %+v %v", cfg, ok)
	}
	if _, ok := ByName(m, "Nope"); ok {
		t.Error("ByName should miss for unknown name")
	}
}

func TestByName_DuplicateNamesAreDeterministic(t *testing.T) {
	m := ConfigMap{
		"StoryStatus:2": {ID: "StoryStatus:2", Name: "Done", Color: "#111111"},
		"StoryStatus:1": {ID: "StoryStatus:1", Name: "Done", Color: "#222222"},
		"StoryStatus:3": {ID: "StoryStatus:3", Name: "Other"},
	}

	// Two entries share a display name; the lowest id must win every time.
	for i := 0; i < 20; i++ {
		cfg, ok := ByName(m, "Done")
		if !ok || cfg.ID != "StoryStatus:1" {
			t.Fatalf("iteration %d: got %+v %v, want StoryStatus:1", i, cfg, ok)
		}
	}
}
