package inventory

import "testing"

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "led", "led"},
		{"trailing space", "Arduino Uno ", "arduino-uno"},
		{"internal run", "arduino   uno", "arduino-uno"},
		{"upper case", "ARDUINO UNO", "arduino-uno"},
		{"tabs and newlines", "arduino\tuno\n", "arduino-uno"},
		{"empty", "", "unnamed"},
		{"whitespace only", "   \t", "unnamed"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.input); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeEquivalentSpellings(t *testing.T) {
	spellings := []string{"Arduino Uno ", "arduino   uno", "ARDUINO UNO"}
	for _, s := range spellings {
		if got := Normalize(s); got != "arduino-uno" {
			t.Errorf("Normalize(%q) = %q, want arduino-uno", s, got)
		}
	}
}
