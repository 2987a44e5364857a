package domain

import "testing"

func TestNormalizeDefinition(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase with trailing period", "a domesticated carnivore.", "A domesticated carnivore"},
		{"already clean", "A greeting", "A greeting"},
		{"surrounding whitespace", "  to move quickly.  ", "To move quickly"},
		{"only one period stripped", "etc..", "Etc."},
		{"empty", "", ""},
		{"single period", ".", ""},
		{"single letter", "x", "X"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDefinition(tt.in); got != tt.want {
				t.Errorf("NormalizeDefinition(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidWord(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"apple", true},
		{"o'clock", true},
		{"self-aware", true},
		{"", false},
		{"'-", false},
		{"abc123", false},
		{"hello world", false},
	}

	for _, tt := range tests {
		if got := ValidWord(tt.token); got != tt.want {
			t.Errorf("ValidWord(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestNormalizeText(t *testing.T) {
	if got := NormalizeText("  Zebra "); got != "zebra" {
		t.Errorf("NormalizeText = %q, want %q", got, "zebra")
	}
}
