package utils

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{
			name:   "non-positive limit hides the prompt",
			input:  "Rate this resume against the job description",
			limit:  0,
			expect: "",
		},
		{
			name:   "short response kept",
			input:  `{"must_have": ["Go"]}`,
			limit:  40,
			expect: `{"must_have": ["Go"]}`,
		},
		{
			name:   "long prompt truncated with ellipsis",
			input:  "Extract must-have skills from this job description",
			limit:  7,
			expect: "Extract...",
		},
		{
			name:   "surrounding whitespace trimmed before counting",
			input:  "\n  Senior Go engineer  \n",
			limit:  6,
			expect: "Senior...",
		},
		{
			name:   "counts runes not bytes",
			input:  "Ingénieur logiciel",
			limit:  9,
			expect: "Ingénieur...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestExcerpt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{name: "zero limit", input: "Python developer", limit: 0, expect: ""},
		{name: "shorter than limit", input: "Go", limit: 500, expect: "Go"},
		{name: "cut without decoration", input: "Python developer", limit: 6, expect: "Python"},
		{name: "whitespace preserved", input: "  SQL  ", limit: 4, expect: "  SQ"},
		{name: "leading whitespace with accents", input: "  héllo  ", limit: 4, expect: "  hé"},
		{name: "multibyte runes", input: "Résumé review", limit: 6, expect: "Résumé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Excerpt(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
