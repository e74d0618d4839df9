package contacts

import "testing"

func TestPreferredName(t *testing.T) {
	cases := []struct {
		current   string
		candidate string
		want      string
	}{
		{"", "Maria Silva", "Maria Silva"},
		{"Maria Silva", "Other Name", "Maria Silva"}, // first real name wins
		{"+55 11 98765-4321", "Maria Silva", "Maria Silva"},
		{"123456789@g.us", "Maria Silva", "Maria Silva"},
		{"Maria Silva", "", "Maria Silva"},
		{"Maria Silva", "11987654321", "Maria Silva"},
		{"", "+55 11 98765-4321", ""}, // identifier-shaped candidates are never stored
		{"", "", ""},
	}
	for _, tc := range cases {
		if got := PreferredName(tc.current, tc.candidate); got != tc.want {
			t.Errorf("PreferredName(%q, %q) = %q, want %q", tc.current, tc.candidate, got, tc.want)
		}
	}
}
