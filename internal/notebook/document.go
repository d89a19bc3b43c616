package notebook

import (
	"sort"
)

// DefaultLanguage is used when neither the cell nor the notebook defines a language.
const DefaultLanguage = "python"

// Document is a notebook: an ordered sequence of cells with global metadata.
type Document struct {
	Metadata map[string]any
	Cells    []Cell
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{
		Metadata: make(map[string]any),
	}
}

// CellTypes returns the sequence of cell types.
func (d *Document) CellTypes() []CellType {
	return CellTypes(d.Cells)
}

// CodeCells returns only the code cells.
func (d *Document) CodeCells() []*CodeCell {
	var result []*CodeCell
	for _, cell := range d.Cells {
		if code, ok := cell.(*CodeCell); ok {
			result = append(result, code)
		}
	}
	return result
}

// KernelLanguage returns the language declared in the kernelspec metadata if any.
func (d *Document) KernelLanguage() (string, bool) {
	kernelspec, ok := d.Metadata["kernelspec"].(map[string]any)
	if !ok {
		return "", false
	}
	language, ok := kernelspec["language"].(string)
	if !ok || language == "" {
		return "", false
	}
	return language, true
}

// LanguageOf returns the language of a code cell, falling back to the kernel language
// or the given default.
func (d *Document) LanguageOf(cell *CodeCell, defaultLanguage string) string {
	if cell.Language != "" {
		return cell.Language
	}
	if language, ok := d.KernelLanguage(); ok {
		return language
	}
	if defaultLanguage != "" {
		return defaultLanguage
	}
	return DefaultLanguage
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
