package classify

import (
	"strings"
	"testing"
)

func TestProgramName_PatternMatches(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			"trigger after capitalized phrase",
			"Funding for the Transition 2 Success program increased to $12 million.",
			"Funding for the Transition 2 Success",
		},
		{
			"centre trigger",
			"$85.3 million for Cleveland Youth Detention Centre operations",
			"Cleveland Youth Detention",
		},
		{
			"youth justice funding pattern",
			"youth justice early intervention funding of $5 million",
			"early intervention",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProgramName(tt.text)
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestProgramName_FallbackLeadingWords(t *testing.T) {
	got := ProgramName("Bail support expansion $4.5 million statewide")
	if got != "Bail support expansion" {
		t.Errorf("expected leading words fallback, got %q", got)
	}
}

func TestProgramName_NeverEmpty(t *testing.T) {
	inputs := []string{"", "   ", "$450,000", "12345"}
	for _, in := range inputs {
		if got := ProgramName(in); strings.TrimSpace(got) == "" {
			t.Errorf("expected non-empty name for %q, got %q", in, got)
		}
	}
}

func TestProgramName_UnspecifiedConstant(t *testing.T) {
	if got := ProgramName(""); got != "unspecified" {
		t.Errorf("expected %q, got %q", "unspecified", got)
	}
}

func TestDepartment(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Department of Youth Justice and Victorian counterparts", "Youth Justice and Victorian counterparts"},
		{"the Communities department tabled its answer", "the Communities"},
		{"Ministry of Justice annual report", "Justice annual report"},
		{"no recognizable agency here", "Unknown"},
	}

	for _, tt := range tests {
		if got := Department(tt.text); got != tt.want {
			t.Errorf("Department(%q): expected %q, got %q", tt.text, tt.want, got)
		}
	}
}
