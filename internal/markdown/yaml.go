package markdown

import (
	"bytes"
	"regexp"
	"strings"
)

// Default indentation in front matter
const Indent int = 2

var sequenceItemRegex = regexp.MustCompile(`^(\s*)  (- .*)$`)

// CompactYAML removes leading spaces in front of sequences.
//
// Ex:
//
//	doc:
//	  - toto: tata
//
// Becomes
//
//	doc:
//	- toto: tata
func CompactYAML(doc string) string {
	// Identing sequences using zero-space (compact form) is not supported:
	// https://github.com/go-yaml/yaml/issues/661
	var buf bytes.Buffer
	insideSequence := false
	var leadingSpaces string // the spaces prefix for successive lines in the sequence
	for _, line := range strings.Split(strings.TrimSuffix(doc, "\n"), "\n") {
		if rs := sequenceItemRegex.FindStringSubmatch(line); rs != nil {
			buf.WriteString(rs[1] + rs[2])
			buf.WriteString("\n")
			insideSequence = true
			leadingSpaces = rs[1] + "    "
		} else if insideSequence && strings.HasPrefix(line, leadingSpaces) {
			buf.WriteString(line[Indent:])
			buf.WriteString("\n")
		} else {
			buf.WriteString(line)
			buf.WriteString("\n")
			insideSequence = false
			leadingSpaces = ""
		}
	}
	return buf.String()
}
