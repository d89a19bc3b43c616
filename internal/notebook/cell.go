package notebook

import "fmt"

// CellType identifies the variant of a cell.
type CellType string

const (
	CellTypeMarkdown CellType = "markdown"
	CellTypeCode     CellType = "code"
)

// Cell is a unit of a notebook: either prose or executable code with its outputs.
// Implemented by *MarkdownCell and *CodeCell only.
type Cell interface {
	Type() CellType
	// Text returns the source of the cell.
	Text() string
	// Meta returns the cell metadata.
	Meta() Metadata
	isCell()
}

// MarkdownCell contains prose.
type MarkdownCell struct {
	Source   string
	Metadata Metadata
}

func (c *MarkdownCell) Type() CellType { return CellTypeMarkdown }
func (c *MarkdownCell) Text() string   { return c.Source }
func (c *MarkdownCell) Meta() Metadata { return c.Metadata }
func (c *MarkdownCell) isCell()        {}

func (c *MarkdownCell) String() string {
	return fmt.Sprintf("markdown cell %q", abbreviate(c.Source))
}

// CodeCell contains code in a given language.
type CodeCell struct {
	Source   string
	Language string
	// Name is the optional chunk label ("" when absent).
	Name string
	// Metadata contains chunk options except the language and the name.
	Metadata Metadata
	Outputs  []Output
	// ExecutionCount is 0 when unknown.
	ExecutionCount int
}

func (c *CodeCell) Type() CellType { return CellTypeCode }
func (c *CodeCell) Text() string   { return c.Source }
func (c *CodeCell) Meta() Metadata { return c.Metadata }
func (c *CodeCell) isCell()        {}

func (c *CodeCell) String() string {
	return fmt.Sprintf("%s code cell %q", c.Language, abbreviate(c.Source))
}

// NewMarkdownCell creates a new Markdown cell.
func NewMarkdownCell(source string, metadata Metadata) *MarkdownCell {
	return &MarkdownCell{
		Source:   source,
		Metadata: metadata,
	}
}

// NewCodeCell creates a new code cell without outputs.
func NewCodeCell(source string, language string) *CodeCell {
	return &CodeCell{
		Source:   source,
		Language: language,
	}
}

// CellTypes returns the sequence of cell types.
func CellTypes(cells []Cell) []CellType {
	result := make([]CellType, 0, len(cells))
	for _, cell := range cells {
		result = append(result, cell.Type())
	}
	return result
}

func abbreviate(s string) string {
	const maxLength = 30
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	return string(runes[:maxLength]) + "…"
}
