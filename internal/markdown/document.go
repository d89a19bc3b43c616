package markdown

import (
	"strings"

	"github.com/julien-sobczak/rnotebook/pkg/text"
)

// Document represents a Markdown document (can be a whole file, or just a snippet)
type Document string

// Lines returns the lines present in the Markdown document
func (m Document) Lines() []string {
	return strings.Split(string(m), "\n")
}

func (m Document) IsBlank() bool {
	return text.IsBlank(string(m))
}

func (m Document) String() string {
	return string(m)
}

// TrimSpace removes spaces at the start and end of a markdown document.
func (m Document) TrimSpace() Document {
	return Document(strings.TrimSpace(string(m)))
}

// Title returns the text of the first heading of the document, if any.
func (m Document) Title() (string, bool) {
	insideCodeBlock := false
	for _, line := range m.Lines() {
		if strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~") {
			insideCodeBlock = !insideCodeBlock
			continue
		}
		if insideCodeBlock {
			continue
		}
		if ok, title, _ := IsHeading(line); ok {
			return strings.TrimSpace(title), true
		}
	}
	return "", false
}

/*
 * Helpers
 */

// IsHeading returns if a given line is a Markdown heading and its level.
func IsHeading(line string) (bool, string, int) {
	if !strings.HasPrefix(line, "#") {
		return false, "", 0
	}
	for level := 6; level >= 1; level-- {
		prefix := strings.Repeat("#", level) + " "
		if strings.HasPrefix(line, prefix) {
			return true, strings.TrimPrefix(line, prefix), level
		}
	}
	return false, "", 0
}
