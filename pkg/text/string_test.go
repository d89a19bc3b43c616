package text_test

import (
	"testing"

	"github.com/julien-sobczak/rnotebook/pkg/text"
	"github.com/stretchr/testify/assert"
)

func TestIsBlank(t *testing.T) {
	assert.True(t, text.IsBlank(""))
	assert.True(t, text.IsBlank(" \n\t"))
	assert.False(t, text.IsBlank(" a "))
}

func TestNormalizeNewlines(t *testing.T) {
	assert.Equal(t, "a\nb\nc\n", text.NormalizeNewlines("a\r\nb\rc\n"))
}

func TestRStripLines(t *testing.T) {
	var tests = []struct {
		name     string // name
		input    string // input
		expected string // expected result
	}{
		{
			"TrailingSpaces",
			"a  \nb\t\n\n",
			"a\nb",
		},
		{
			"LeadingSpacesPreserved",
			"  print(1)\n    print(2)  \n",
			"  print(1)\n    print(2)",
		},
		{
			"Empty",
			"",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := text.RStripLines(tt.input)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestJoinLines(t *testing.T) {
	assert.Equal(t, "a\nb", text.JoinLines([]string{"a\n", "b"}))
	assert.Equal(t, "", text.JoinLines(nil))
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, "notes/analysis", text.TrimExtension("notes/analysis.Rmd"))
	assert.Equal(t, "notes/analysis.nb.html", text.ReplaceExtension("notes/analysis.Rmd", ".nb.html"))
	assert.True(t, text.HasExtension("notes/analysis.rmd", ".Rmd"))
	assert.False(t, text.HasExtension("notes/analysis.md", ".Rmd"))
	assert.True(t, text.HasExtension("notes/analysis.NB.html", ".nb.html"))
	assert.False(t, text.HasExtension("html", ".nb.html"))
}
