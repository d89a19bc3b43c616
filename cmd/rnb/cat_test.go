package main

import (
	"testing"

	"github.com/julien-sobczak/rnotebook/internal/notebook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentValue(t *testing.T) {
	doc := notebook.NewDocument()
	doc.Metadata["title"] = "Analysis"
	doc.Cells = []notebook.Cell{
		notebook.NewMarkdownCell("# Analysis", notebook.Metadata{}),
	}

	value, err := documentValue(doc)
	require.NoError(t, err)
	nb, ok := value.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(4), nb["nbformat"])
	assert.Equal(t, map[string]any{"title": "Analysis"}, nb["metadata"])
	require.Len(t, nb["cells"], 1)
}

func TestDumpDocumentUnsupportedFormat(t *testing.T) {
	outputFormat = "toml"
	defer func() { outputFormat = "json" }()

	err := dumpDocument(notebook.NewDocument())
	assert.ErrorContains(t, err, `unsupported output format "toml"`)
}
