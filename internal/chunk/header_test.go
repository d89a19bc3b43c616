package chunk_test

import (
	"testing"

	"github.com/julien-sobczak/rnotebook/internal/chunk"
	"github.com/julien-sobczak/rnotebook/internal/notebook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeader(t *testing.T) {

	t.Run("Complete", func(t *testing.T) {
		header, err := chunk.ParseHeader(`{r chunk_name, foo='bar', cat="gold", horse=9, bool_val=TRUE}`)
		require.NoError(t, err)
		assert.Equal(t, "r", header.Language)
		assert.Equal(t, "chunk_name", header.Name)
		expected := notebook.NewMetadata("foo", "bar", "cat", "gold", "horse", 9, "bool_val", true)
		assert.True(t, expected.Equal(header.Options), "got %s", header.Options)
	})

	t.Run("Language and option", func(t *testing.T) {
		header, err := chunk.ParseHeader(`{r test, horse=9}`)
		require.NoError(t, err)
		assert.Equal(t, "r", header.Language)
		assert.Equal(t, "test", header.Name)
		assert.True(t, notebook.NewMetadata("horse", 9).Equal(header.Options))
	})

	t.Run("No name", func(t *testing.T) {
		header, err := chunk.ParseHeader(`{python, echo=FALSE}`)
		require.NoError(t, err)
		assert.Equal(t, "python", header.Language)
		assert.Equal(t, "", header.Name)
		assert.Equal(t, []string{"echo"}, header.Options.Keys())
	})

	t.Run("Duplicate options", func(t *testing.T) {
		header, err := chunk.ParseHeader(`{r, a=1, b=2, a=3}`)
		require.NoError(t, err)
		assert.True(t, notebook.NewMetadata("a", 3, "b", 2).Equal(header.Options), "got %s", header.Options)
	})
}

func TestParseHeaderInvalid(t *testing.T) {
	var tests = []struct {
		name    string
		header  string
		literal bool // ErrUnknownLiteral expected
	}{
		{"Option before language", `{echo=FALSE, r}`, false},
		{"Empty", `{}`, false},
		{"Too many terms", `{r name other}`, false},
		{"Reserved option", `{r, lang="python"}`, false},
		{"Unknown literal", `{r, echo=yes}`, true},
		{"Unterminated", `{r, a='x}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := chunk.ParseHeader(tt.header)
			require.ErrorIs(t, err, chunk.ErrChunkHeader)
			var headerErr *chunk.HeaderError
			require.ErrorAs(t, err, &headerErr)
			assert.Equal(t, tt.header, headerErr.Header)
			if tt.literal {
				assert.ErrorIs(t, err, chunk.ErrUnknownLiteral)
			} else {
				assert.NotErrorIs(t, err, chunk.ErrUnknownLiteral)
			}
		})
	}
}

func TestHeaderFormat(t *testing.T) {
	header := chunk.Header{
		Language: "r",
		Name:     "test",
		Options:  notebook.NewMetadata("horse", 9, "bool_val", true, "null_type", nil),
	}
	text, err := header.Format()
	require.NoError(t, err)
	assert.Equal(t, "r test, horse=9, bool_val=TRUE, null_type=NULL", text)

	// Round trip
	parsed, err := chunk.ParseHeader("{" + text + "}")
	require.NoError(t, err)
	assert.Equal(t, header.Language, parsed.Language)
	assert.Equal(t, header.Name, parsed.Name)
	assert.True(t, header.Options.Equal(parsed.Options))

	assert.Equal(t, "python", chunk.Header{Language: "python"}.String())
}

func TestHeaderFormatInvalid(t *testing.T) {
	var tests = []struct {
		name   string
		header chunk.Header
	}{
		{"Missing language", chunk.Header{}},
		{"Language with spaces", chunk.Header{Language: "r lang"}},
		{"Name with spaces", chunk.Header{Language: "r", Name: "my chunk"}},
		{"Name with comma", chunk.Header{Language: "r", Name: "a,b"}},
		{"Key with spaces", chunk.Header{Language: "r", Options: notebook.NewMetadata("fig width", 7)}},
		{"Key with equal sign", chunk.Header{Language: "r", Options: notebook.NewMetadata("a=b", 7)}},
		{"Key with braces", chunk.Header{Language: "r", Options: notebook.NewMetadata("{a}", 7)}},
		{"Reserved key", chunk.Header{Language: "r", Options: notebook.NewMetadata("name", "x")}},
		{"Multiline value", chunk.Header{Language: "r", Options: notebook.NewMetadata("fig.cap", "line1\nline2")}},
		{"Both quotes", chunk.Header{Language: "r", Options: notebook.NewMetadata("label", `it's "x"`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.header.Format()
			assert.ErrorIs(t, err, chunk.ErrChunkHeader)
		})
	}
}

func TestIsExecutable(t *testing.T) {
	assert.True(t, chunk.IsExecutable("{r}"))
	assert.True(t, chunk.IsExecutable(" {r test, echo=FALSE} "))
	assert.False(t, chunk.IsExecutable("r"))
	assert.False(t, chunk.IsExecutable(""))
	assert.False(t, chunk.IsExecutable("{r"))
}
