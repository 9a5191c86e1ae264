package branchname

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"[Urgent] S-12345: Fix login bug", "fix_login_bug"},
		{"Fix login bug", "fix_login_bug"},
		{"S-100 Update docs", "update_docs"},
		{"D_42: crash on save", "crash_on_save"},
		{"12345 plain number prefix", "plain_number_prefix"},
		{"[tag][other] keep the rest", "keep_the_rest"},
		{"Weird   spacing & punctuation!!", "weird_spacing_punctuation"},
		{"___", ""},
		{"", ""},
		{"Ärger mit Umlauten", "rger_mit_umlauten"},
	}
	for _, tc := range tests {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		number string
		title  string
		want   string
	}{
		{"S-12345", "[Urgent] S-12345: Fix login bug", "S-12345/fix_login_bug"},
		{"D-99", "", "D-99/ticket"},
		{"S-12345", "S-12345 s-12345 12345", "S-12345/ticket"},
		{"S-7", "Mentions S-7 twice, S-7 honest", "S-7/mentions_twice_honest"},
		{"D-100", "Crash in parser", "D-100/crash_in_parser"},
		{"s-55", "Lowercase number kept as-is", "s-55/lowercase_number_kept_as_is"},
	}
	for _, tc := range tests {
		if got := Generate(tc.number, tc.title); got != tc.want {
			t.Errorf("Generate(%q, %q) = %q, want %q", tc.number, tc.title, got, tc.want)
		}
	}
}
