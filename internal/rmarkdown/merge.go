package rmarkdown

import (
	"strings"

	"github.com/julien-sobczak/rnotebook/internal/core"
	"github.com/julien-sobczak/rnotebook/internal/notebook"
)

// MarkdownSeparator joins the sources of merged Markdown cells.
const MarkdownSeparator = "\n\n"

// MergeMarkdownCells joins consecutive Markdown cells into a single cell.
// Metadata are combined, later keys overwriting earlier ones. In strict mode,
// a key defined with different values returns ErrMetadataConflict.
//
// Input cells are never modified.
func MergeMarkdownCells(cells []notebook.Cell, strict bool) ([]notebook.Cell, error) {
	var result []notebook.Cell
	var pending *notebook.MarkdownCell
	for i, cell := range cells {
		var err error
		result, pending, err = mergeStep(result, pending, cell, i, strict)
		if err != nil {
			return nil, err
		}
	}
	return flushPending(result, pending), nil
}

// mergeStep folds one cell into the accumulated list. A Markdown cell stays
// pending until a code cell (or the end) flushes it.
func mergeStep(result []notebook.Cell, pending *notebook.MarkdownCell, cell notebook.Cell, index int, strict bool) ([]notebook.Cell, *notebook.MarkdownCell, error) {
	md, ok := cell.(*notebook.MarkdownCell)
	if !ok {
		return append(flushPending(result, pending), cell), nil, nil
	}
	if pending == nil {
		return result, notebook.NewMarkdownCell(md.Source, md.Metadata.Clone()), nil
	}

	metadata := pending.Metadata.Clone()
	conflicts := metadata.Merge(md.Metadata)
	if len(conflicts) > 0 {
		if strict {
			return nil, nil, &CellError{
				Cell:   index,
				Reason: "keys " + strings.Join(conflicts, ", ") + " already defined",
				Err:    ErrMetadataConflict,
			}
		}
		core.CurrentLogger().Warnf("Cell %d overrides metadata %s of the previous Markdown cell", index, strings.Join(conflicts, ", "))
	}
	return result, notebook.NewMarkdownCell(joinSources(pending.Source, md.Source), metadata), nil
}

func flushPending(result []notebook.Cell, pending *notebook.MarkdownCell) []notebook.Cell {
	if pending == nil {
		return result
	}
	return append(result, pending)
}

func joinSources(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + MarkdownSeparator + b
}
