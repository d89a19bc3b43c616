package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetUpFromGoldenFileNamed(t *testing.T) {
	filename := SetUpFromGoldenFileNamed(t, "golden.Rmd")

	assert.Equal(t, "golden.Rmd", filepath.Base(filename))
	assertFileContains(t, filename, "---\ntitle: Golden\n---\n\n# Golden\n")
}

func TestSetUpFromGoldenFilesNamed(t *testing.T) {
	dirname := SetUpFromGoldenFilesNamed(t, "golden.Rmd", "golden.nb.html")

	require.FileExists(t, filepath.Join(dirname, "golden.Rmd"))
	require.FileExists(t, filepath.Join(dirname, "golden.nb.html"))
	assertFileContains(t, filepath.Join(dirname, "golden.nb.html"), string(GoldenFileNamed(t, "golden.nb.html")))
}

func TestSetUpFromFileContent(t *testing.T) {
	filename := SetUpFromFileContent(t, "notebook.Rmd", "# Notebook\n")
	assertFileContains(t, filename, "# Notebook\n")
}

func TestGoldenFileNamed(t *testing.T) {
	content := GoldenFileNamed(t, "golden.Rmd")
	assert.Equal(t, "---\ntitle: Golden\n---\n\n# Golden\n", string(content))
}

/* Test Assertions */

func assertFileContains(t *testing.T, filename string, expected string) {
	actual, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, expected, string(actual))
}
