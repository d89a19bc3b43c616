package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfigFromDirectory(t *testing.T) {

	t.Run("Config present", func(t *testing.T) {
		dir := populate(t, map[string]string{
			".rnb/config": `
[core]
language = "r"
strict = true

[rmarkdown]
title = "Analysis"`,

			"reports/2023/analysis.Rmd": "# Analysis",
		})

		c, err := ReadConfigFromDirectory(filepath.Join(dir, "reports", "2023"))
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, dir, c.RootDirectory)
		assert.Equal(t, "r", c.ConfigFile.Core.Language)
		assert.True(t, c.ConfigFile.Core.Strict)
		assert.Equal(t, "Analysis", c.ConfigFile.RMarkdown.Title)
		// Default values
		assert.Equal(t, ".Rmd", c.ConfigFile.RMarkdown.SourceExtension)
		assert.Equal(t, ".nb.html", c.ConfigFile.RMarkdown.RenderedExtension)
		assert.Equal(t, []string{"tables", "fenced-code", "autolink", "strikethrough"}, c.ConfigFile.HTML.Extensions)
	})

	t.Run("Config missing", func(t *testing.T) {
		dir := populate(t, map[string]string{
			// missing .rnb directory
			"analysis.Rmd": "# Analysis",
		})

		c, err := ReadConfigFromDirectory(dir)
		require.NoError(t, err)
		require.Nil(t, c)
	})

	t.Run("Default files", func(t *testing.T) {
		dir := populate(t, map[string]string{
			".rnb/.keep": "",
		})

		c, err := ReadConfigFromDirectory(dir)
		require.NoError(t, err)
		require.NotNil(t, c)

		defaults, err := DefaultSettings()
		require.NoError(t, err)
		assert.Equal(t, defaults.ConfigFile, c.ConfigFile)
		assert.Equal(t, "python", c.ConfigFile.Core.Language)
		assert.False(t, c.ConfigFile.Core.Strict)
		assert.Equal(t, "RNB Notebook", c.ConfigFile.RMarkdown.Title)
	})

	t.Run("Invalid config", func(t *testing.T) {
		dir := populate(t, map[string]string{
			".rnb/config": `
[core]
unknown = "value"`,
		})
		_, err := ReadConfigFromDirectory(dir)
		assert.ErrorContains(t, err, "failed to parse .rnb/config file")

		dir = populate(t, map[string]string{
			".rnb/config": `
[rmarkdown]
source_extension = "Rmd"`,
		})
		_, err = ReadConfigFromDirectory(dir)
		assert.ErrorContains(t, err, "rmarkdown.source_extension must start with a dot")
	})
}

func TestOverrides(t *testing.T) {
	c, err := DefaultSettings()
	require.NoError(t, err)
	c.SetStrict(true)
	c.SetLanguage("r")
	assert.True(t, c.ConfigFile.Core.Strict)
	assert.Equal(t, "r", c.ConfigFile.Core.Language)
}

/* Test Helpers */

func populate(t *testing.T, files map[string]string) string {
	dir := t.TempDir()

	for relpath, content := range files {
		dirpath := filepath.Join(dir, filepath.Dir(relpath))
		err := os.MkdirAll(dirpath, 0755)
		require.NoError(t, err)

		abspath := filepath.Join(dir, relpath)
		t.Logf("Create text file %s", abspath)
		err = os.WriteFile(abspath, []byte(content), 0644)
		require.NoError(t, err)
	}

	return dir
}
