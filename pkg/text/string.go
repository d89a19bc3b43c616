package text

import (
	"path/filepath"
	"strings"
	"unicode"
)

// IsBlank returns if a text is blank.
func IsBlank(text string) bool {
	return len(strings.TrimSpace(text)) == 0
}

// NormalizeNewlines converts Windows and old Mac line endings to \n.
func NormalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// TrimTrailingSpace removes trailing whitespace characters (including newlines).
func TrimTrailingSpace(text string) string {
	return strings.TrimRightFunc(text, unicode.IsSpace)
}

// RStripLines removes trailing whitespace on every line and at the end of the text.
//
// Ex:
//
//	"a  \nb\t\n\n" => "a\nb"
func RStripLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = TrimTrailingSpace(line)
	}
	return TrimTrailingSpace(strings.Join(lines, "\n"))
}

// JoinLines concatenates a multi-line source given as a list of lines.
// Lines are expected to contain their own trailing \n like in Jupyter notebooks.
func JoinLines(lines []string) string {
	return strings.Join(lines, "")
}

// TrimExtension removes the extension from a file name or file path.
func TrimExtension(path string) string {
	path = strings.TrimSuffix(path, string(filepath.Separator))
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// ReplaceExtension replaces the extension of a file path.
//
// Ex: ("notes/analysis.Rmd", ".nb.html") => "notes/analysis.nb.html"
func ReplaceExtension(path string, newExtension string) string {
	return TrimExtension(path) + newExtension
}

// HasExtension checks if a path ends with the given extension (case-insensitive).
// Extensions with several dots like ".nb.html" are supported.
func HasExtension(path string, extension string) bool {
	if len(path) < len(extension) {
		return false
	}
	return strings.EqualFold(path[len(path)-len(extension):], extension)
}
