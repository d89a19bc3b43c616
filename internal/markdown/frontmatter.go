package markdown

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"
)

// Delimiter of the front matter
const FrontMatterDelimiter = "---"

// FrontMatter represents the YAML content of a Front Matter (without delimiters).
type FrontMatter string

// NewFrontMatter formats attributes in YAML. Keys are sorted.
func NewFrontMatter(attributes map[string]any) (FrontMatter, error) {
	if len(attributes) == 0 {
		return "", nil
	}
	var buf bytes.Buffer
	bufEncoder := yaml.NewEncoder(&buf)
	bufEncoder.SetIndent(Indent)
	if err := bufEncoder.Encode(attributes); err != nil {
		return "", err
	}
	if err := bufEncoder.Close(); err != nil {
		return "", err
	}
	return FrontMatter(CompactYAML(buf.String())), nil
}

func (f FrontMatter) IsBlank() bool {
	return strings.TrimSpace(string(f)) == ""
}

// AsMap decodes the attributes. A blank front matter returns an empty map.
func (f FrontMatter) AsMap() (map[string]any, error) {
	var attributes = make(map[string]any)
	if err := yaml.Unmarshal([]byte(f), &attributes); err != nil {
		return nil, err
	}
	if attributes == nil { // ex: "~"
		attributes = make(map[string]any)
	}
	return attributes, nil
}

// Block returns the front matter surrounded by its delimiters.
//
// Ex:
//
//	---
//	title: Analysis
//	---
func (f FrontMatter) Block() string {
	return FrontMatterDelimiter + "\n" + strings.TrimRight(string(f), "\n") + "\n" + FrontMatterDelimiter
}
