package rmarkdown

import (
	"fmt"

	"github.com/julien-sobczak/rnotebook/internal/chunk"
	"github.com/julien-sobczak/rnotebook/internal/core"
	"github.com/julien-sobczak/rnotebook/internal/markdown"
	"github.com/julien-sobczak/rnotebook/internal/notebook"
	"gopkg.in/yaml.v3"
)

// ReadSource parses a source file. Code cells have no outputs.
func (r *Reader) ReadSource(source string) (*notebook.Document, error) {
	doc := notebook.NewDocument()

	var cells []notebook.Cell
	var pending notebook.Metadata
	for _, block := range ScanBlocks(source) {
		switch block.Kind {

		case BlockFrontMatter:
			attributes, err := markdown.FrontMatter(block.Content).AsMap()
			if err != nil {
				return nil, fmt.Errorf("invalid front matter: %w", err)
			}
			doc.Metadata = attributes

		case BlockCellMetadata:
			var metadata notebook.Metadata
			if err := yaml.Unmarshal([]byte(block.Content), &metadata); err != nil {
				return nil, &CellError{
					Cell:   len(cells),
					Reason: "invalid cell metadata",
					Err:    fmt.Errorf("%w: %v", notebook.ErrSchema, err),
				}
			}
			pending.Merge(metadata)

		case BlockChunk:
			header, err := chunk.ParseHeader(block.Info)
			if err != nil {
				return nil, &CellError{
					Cell: len(cells),
					Err:  err,
				}
			}
			cell := notebook.NewCodeCell(block.Content, header.Language)
			cell.Name = header.Name
			options := pending.Clone()
			options.Merge(header.Options)
			cell.Metadata = options
			cells = append(cells, cell)
			pending = notebook.Metadata{}

		default:
			cells = append(cells, notebook.NewMarkdownCell(block.Text, pending))
			pending = notebook.Metadata{}
		}
	}
	if !pending.IsEmpty() {
		core.CurrentLogger().Warnf("Ignoring cell metadata %s at the end of the file", pending)
	}

	merged, err := MergeMarkdownCells(cells, r.Strict)
	if err != nil {
		return nil, err
	}
	doc.Cells = merged
	return doc, nil
}
