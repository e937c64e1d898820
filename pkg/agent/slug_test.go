package agent

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{"simple", "a phone stand", "a_phone_stand"},
		{"mixed case and punctuation", "A Cool Bracket! (v2)", "a_cool_bracket_v2"},
		{"leading and trailing junk", "  --gear--  ", "gear"},
		{"unicode stripped", "café tränenkrug", "caf_tr_nenkrug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.description); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.description, got, tt.want)
			}
		})
	}
}

func TestSlugifyCapsLength(t *testing.T) {
	got := Slugify(strings.Repeat("parametric gearbox ", 10))
	if len(got) > 40 {
		t.Errorf("len = %d, want <= 40", len(got))
	}
	if strings.HasSuffix(got, "_") || strings.HasPrefix(got, "_") {
		t.Errorf("slug %q has dangling underscores", got)
	}
}

func TestSlugifyEmptyGetsRandomStem(t *testing.T) {
	got := Slugify("!!!")
	if !strings.HasPrefix(got, "design_") {
		t.Errorf("Slugify(%q) = %q, want design_ prefix", "!!!", got)
	}
}
