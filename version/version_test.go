package version

import "testing"

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		build    string
		expected string
	}{
		{"", "0.1.0"},
		{"abc-12", "0.1.0+abc-12"},
		{"bad build!", "0.1.0"},
	}
	for _, test := range tests {
		formatted := formatVersion(0, 1, 0, test.build)
		if formatted != test.expected {
			t.Errorf("TestFormatVersion: build %q: expected %s, got %s", test.build, test.expected, formatted)
		}
	}
}
