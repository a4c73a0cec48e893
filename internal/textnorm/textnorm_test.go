package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "collapses spaces", in: "Senior   Go\t\tEngineer  ", want: "Senior Go Engineer"},
		{name: "drops page numbers", in: "Experience\n12\nBuilt things", want: "Experience\nBuilt things"},
		{name: "drops short upper fragments", in: "AB\nSkills: Go", want: "Skills: Go"},
		{name: "keeps short mixed case", in: "Go\nRust", want: "Go\nRust"},
		{name: "strips control characters", in: "Py\x00thon\x07 developer", want: "Python developer"},
		{name: "normalizes crlf", in: "line one\r\nline two\r\n\r\n\r\nline three", want: "line one\nline two\nline three"},
		{name: "drops blank lines", in: "Summary\n\n\n\nExperience\n \nSkills", want: "Summary\nExperience\nSkills"},
		{name: "keeps bullets and symbols", in: "• Reduced cost by 30% ($2M)", want: "• Reduced cost by 30% ($2M)"},
		{name: "drops unsupported symbols", in: "Python ★ expert ✓", want: "Python expert"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "mixed punctuation",
			in:   "Required: Python. Nice to have: AWS!! Bonus? yes",
			want: []string{"Required: Python", " Nice to have: AWS", " Bonus", " yes"},
		},
		{
			name: "trailing break keeps empty fragment",
			in:   "Led a team. Shipped v2!! Hired 3?",
			want: []string{"Led a team", " Shipped v2", " Hired 3", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sentences(tt.in))
		})
	}
}

func TestIsUpper(t *testing.T) {
	assert.True(t, IsUpper("EXPERIENCE"))
	assert.True(t, IsUpper("SKILLS & TOOLS"))
	assert.False(t, IsUpper("Experience"))
	assert.False(t, IsUpper("2020 - 2023"))
}

func TestLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Lines(" a \n\n  \nb"))
}
