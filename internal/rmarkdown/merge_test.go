package rmarkdown_test

import (
	"testing"

	"github.com/julien-sobczak/rnotebook/internal/notebook"
	"github.com/julien-sobczak/rnotebook/internal/rmarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeMarkdownCells(t *testing.T) {
	code := notebook.NewCodeCell("x <- 1", "r")

	var tests = []struct {
		name     string
		cells    []notebook.Cell
		expected []notebook.Cell
	}{
		{
			name:     "Empty",
			cells:    nil,
			expected: nil,
		},
		{
			name: "Single cell",
			cells: []notebook.Cell{
				notebook.NewMarkdownCell("A", notebook.Metadata{}),
			},
			expected: []notebook.Cell{
				notebook.NewMarkdownCell("A", notebook.Metadata{}),
			},
		},
		{
			name: "Consecutive cells",
			cells: []notebook.Cell{
				notebook.NewMarkdownCell("A", notebook.NewMetadata("a", 1)),
				notebook.NewMarkdownCell("B", notebook.NewMetadata("b", 2)),
				code,
				notebook.NewMarkdownCell("C", notebook.Metadata{}),
				notebook.NewMarkdownCell("", notebook.Metadata{}),
			},
			expected: []notebook.Cell{
				notebook.NewMarkdownCell("A\n\nB", notebook.NewMetadata("a", 1, "b", 2)),
				code,
				notebook.NewMarkdownCell("C", notebook.Metadata{}),
			},
		},
		{
			name: "Only code",
			cells: []notebook.Cell{
				code,
				code,
			},
			expected: []notebook.Cell{
				code,
				code,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := rmarkdown.MergeMarkdownCells(tt.cells, true)
			require.NoError(t, err)
			require.Len(t, actual, len(tt.expected))
			for i := range tt.expected {
				assert.Equal(t, tt.expected[i].Type(), actual[i].Type())
				assert.Equal(t, tt.expected[i].Text(), actual[i].Text())
				assert.True(t, tt.expected[i].Meta().Equal(actual[i].Meta()), "got %s", actual[i].Meta())
			}

			// Merging again changes nothing
			again, err := rmarkdown.MergeMarkdownCells(actual, true)
			require.NoError(t, err)
			assert.Equal(t, actual, again)
		})
	}
}

func TestMergeMarkdownCellsDoesNotModifyInput(t *testing.T) {
	first := notebook.NewMarkdownCell("A", notebook.NewMetadata("a", 1))
	second := notebook.NewMarkdownCell("B", notebook.NewMetadata("a", 2))

	merged, err := rmarkdown.MergeMarkdownCells([]notebook.Cell{first, second}, false)
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.True(t, notebook.NewMetadata("a", 2).Equal(merged[0].Meta()))
	assert.Equal(t, "A", first.Source)
	assert.True(t, notebook.NewMetadata("a", 1).Equal(first.Metadata))

	_, err = rmarkdown.MergeMarkdownCells([]notebook.Cell{first, second}, true)
	assert.ErrorIs(t, err, rmarkdown.ErrMetadataConflict)
}
