package rmarkdown_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/julien-sobczak/rnotebook/internal/notebook"
	"github.com/julien-sobczak/rnotebook/internal/rmarkdown"
	"github.com/julien-sobczak/rnotebook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRStudioNotebook(t *testing.T) {
	dir := testutil.SetUpFromGoldenFilesNamed(t, "analysis.Rmd", "analysis.nb.html")
	pair := rmarkdown.NewPair(filepath.Join(dir, "analysis.Rmd"), ".nb.html")
	assert.Equal(t, filepath.Join(dir, "analysis.nb.html"), pair.RenderedPath)

	contents, err := pair.Load()
	require.NoError(t, err)
	doc, err := rmarkdown.NewReader(true).Read(contents)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"title": "Analysis", "output": "html_notebook"}, doc.Metadata)
	require.Equal(t, []notebook.CellType{
		notebook.CellTypeMarkdown,
		notebook.CellTypeCode,
		notebook.CellTypeCode,
		notebook.CellTypeMarkdown,
	}, doc.CellTypes())

	assert.Equal(t, "This is an [R Markdown](http://rmarkdown.rstudio.com) Notebook.", doc.Cells[0].Text())

	compute := doc.Cells[1].(*notebook.CodeCell)
	assert.Equal(t, "x <- c(1, 2, 3)\nx * 2", compute.Source)
	assert.Equal(t, 1, compute.ExecutionCount)
	require.Len(t, compute.Outputs, 2)
	assert.Equal(t, notebook.MimeBundle{"text/plain": "Attaching package"}, compute.Outputs[0].(*notebook.ResultOutput).Data)
	assert.Equal(t, notebook.MimeBundle{"text/plain": "[1] 2 4 6"}, compute.Outputs[1].(*notebook.ResultOutput).Data)

	plot := doc.Cells[2].(*notebook.CodeCell)
	assert.Equal(t, "plot", plot.Name)
	assert.True(t, notebook.NewMetadata("fig.width", 7).Equal(plot.Metadata))
	assert.Equal(t, 2, plot.ExecutionCount)
	require.Len(t, plot.Outputs, 1)
	assert.Equal(t, []string{"image/png"}, plot.Outputs[0].(*notebook.ResultOutput).Data.Mimes())

	assert.Equal(t, "Done.", doc.Cells[3].Text())
}

func TestReadWithoutRenderedFile(t *testing.T) {
	filename := testutil.SetUpFromGoldenFileNamed(t, "analysis.Rmd")

	contents, err := rmarkdown.NewPair(filename, "").Load()
	require.NoError(t, err)
	assert.Empty(t, contents.Rendered)

	doc, err := rmarkdown.NewReader(false).Read(contents)
	require.NoError(t, err)
	for _, cell := range doc.CodeCells() {
		assert.Empty(t, cell.Outputs)
		assert.Equal(t, 0, cell.ExecutionCount)
	}
}

func TestReadStaleRenderedFile(t *testing.T) {
	dir := testutil.SetUpFromGoldenFilesNamed(t, "analysis.Rmd", "analysis.nb.html")
	source := filepath.Join(dir, "analysis.Rmd")
	// A new chunk was added since the last rendering
	err := os.WriteFile(source, append(testutil.GoldenFileNamed(t, "analysis.Rmd"), []byte("\n```{r}\nsummary(x)\n```\n")...), 0644)
	require.NoError(t, err)

	contents, err := rmarkdown.NewPair(source, ".nb.html").Load()
	require.NoError(t, err)
	doc, err := rmarkdown.NewReader(false).Read(contents)
	require.NoError(t, err)
	require.Len(t, doc.CodeCells(), 3)
	for _, cell := range doc.CodeCells() {
		assert.Empty(t, cell.Outputs)
	}
}

func TestRecoverMissingSource(t *testing.T) {
	dir := testutil.SetUpFromGoldenFilesNamed(t, "analysis.nb.html")

	contents, err := rmarkdown.NewPair(filepath.Join(dir, "analysis.Rmd"), ".nb.html").Load()
	require.NoError(t, err)
	assert.Equal(t, string(testutil.GoldenFileNamed(t, "analysis.Rmd")), contents.Source)

	_, err = rmarkdown.NewPair(filepath.Join(dir, "missing.Rmd"), ".nb.html").Load()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExtractSourceMissing(t *testing.T) {
	_, err := rmarkdown.ExtractSource("<html><body><p>Nothing</p></body></html>")
	assert.ErrorIs(t, err, rmarkdown.ErrNoEmbeddedSource)
}

func TestRoundTrip(t *testing.T) {
	compute := notebook.NewCodeCell("x <- c(1, 2, 3)\nx * 2", "r")
	compute.Name = "compute"
	compute.Metadata = notebook.NewMetadata("echo", false, "fig.width", 7.5, "label", "it's", "cache", nil)
	compute.ExecutionCount = 1
	compute.Outputs = []notebook.Output{
		notebook.NewResult(notebook.MimeBundle{"text/plain": "[1] 2 4 6"}, nil, 1),
	}

	plot := notebook.NewCodeCell("plot(x)", "r")
	plot.ExecutionCount = 2
	plot.Outputs = []notebook.Output{
		notebook.NewResult(notebook.MimeBundle{"image/png": "iVBORw0KGgo=", "text/plain": "<Figure>"}, map[string]any{"width": 640}, 2),
		notebook.NewDisplayData(notebook.MimeBundle{"text/html": "<b>hi</b>"}, nil),
		notebook.NewError("simpleError", "boom", []string{"Error: boom", "  at <top>"}),
	}

	doc := notebook.NewDocument()
	doc.Metadata["title"] = "Round trip"
	doc.Metadata["kernelspec"] = map[string]any{"language": "r", "name": "ir"}
	doc.Cells = []notebook.Cell{
		notebook.NewMarkdownCell("# Round trip\n\nSome *text* with <!-- a comment -->.", notebook.Metadata{}),
		compute,
		notebook.NewMarkdownCell("Conclusion", notebook.NewMetadata("slideshow", "fragment")),
		plot,
	}

	contents, err := rmarkdown.NewWriter().Write(doc)
	require.NoError(t, err)

	actual, err := rmarkdown.NewReader(true).Read(contents)
	require.NoError(t, err)
	assert.Empty(t, notebook.Diff(doc, actual, notebook.DiffOptions{}))

	// Writing again is stable
	again, err := rmarkdown.NewWriter().Write(actual)
	require.NoError(t, err)
	assert.Equal(t, contents, again)

	// Through files
	pair := rmarkdown.NewPair(filepath.Join(t.TempDir(), "round-trip.Rmd"), ".nb.html")
	require.NoError(t, pair.Save(contents))
	loaded, err := pair.Load()
	require.NoError(t, err)
	assert.Equal(t, contents, loaded)
}
