package rmarkdown

import (
	"github.com/julien-sobczak/rnotebook/internal/core"
	"github.com/julien-sobczak/rnotebook/internal/notebook"
	"golang.org/x/exp/slices"
)

// Reconcile transplants the outputs of the rendered cells onto the source cells.
//
// Both sequences must have the same cell types after merging consecutive
// Markdown cells. Otherwise, the rendered cells are ignored and code cells
// are returned without outputs. The second value reports if the rendered
// cells were used.
func Reconcile(source []notebook.Cell, rendered []notebook.Cell) ([]notebook.Cell, bool) {
	// Merging never fails when not strict
	source, _ = MergeMarkdownCells(source, false)
	rendered, _ = MergeMarkdownCells(rendered, false)

	sourceTypes := notebook.CellTypes(source)
	renderedTypes := notebook.CellTypes(rendered)
	core.CurrentLogger().Debugf("Cells in source file: %v", sourceTypes)
	core.CurrentLogger().Debugf("Cells in rendered file: %v", renderedTypes)

	if !slices.Equal(sourceTypes, renderedTypes) {
		core.CurrentLogger().Warnf("Ignoring outputs as the rendered file is inconsistent with the source file (%v != %v)", sourceTypes, renderedTypes)
		for _, cell := range source {
			if code, ok := cell.(*notebook.CodeCell); ok {
				code.Outputs = nil
			}
		}
		return source, false
	}

	for i, cell := range source {
		code, ok := cell.(*notebook.CodeCell)
		if !ok {
			continue
		}
		renderedCode := rendered[i].(*notebook.CodeCell)
		code.Outputs = renderedCode.Outputs
		code.ExecutionCount = renderedCode.ExecutionCount
	}
	return source, true
}
