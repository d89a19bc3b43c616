package rmarkdown_test

import (
	"testing"

	"github.com/julien-sobczak/rnotebook/internal/rmarkdown"
	"github.com/julien-sobczak/rnotebook/pkg/text"
	"github.com/stretchr/testify/assert"
)

func TestScanBlocks(t *testing.T) {
	var tests = []struct {
		name     string
		source   string // ” are replaced by backticks
		expected []rmarkdown.Block
	}{
		{
			name:   "Executable chunk",
			source: "”””{r test, horse=9}\nprint(1:3)\n”””\n",
			expected: []rmarkdown.Block{
				{Kind: rmarkdown.BlockChunk, Text: "```{r test, horse=9}\nprint(1:3)\n```", Info: "{r test, horse=9}", Content: "print(1:3)"},
			},
		},
		{
			name:   "Empty chunk",
			source: "”””{r}\n”””",
			expected: []rmarkdown.Block{
				{Kind: rmarkdown.BlockChunk, Text: "```{r}\n```", Info: "{r}", Content: ""},
			},
		},
		{
			name:   "Longer fence",
			source: "””””{r}\ncat('\n”””\n')\n””””\n",
			expected: []rmarkdown.Block{
				{Kind: rmarkdown.BlockChunk, Text: "````{r}\ncat('\n```\n')\n````", Info: "{r}", Content: "cat('\n```\n')"},
			},
		},
		{
			name:   "Documentation code",
			source: "”””python\nx = 1\n”””\n\nSome text",
			expected: []rmarkdown.Block{
				{Kind: rmarkdown.BlockCode, Text: "```python\nx = 1\n```", Info: "python", Content: "x = 1"},
				{Kind: rmarkdown.BlockText, Text: "Some text"},
			},
		},
		{
			name:   "Text followed by a chunk",
			source: "Some text\n”””{r}\nx <- 1\n”””",
			expected: []rmarkdown.Block{
				{Kind: rmarkdown.BlockText, Text: "Some text"},
				{Kind: rmarkdown.BlockChunk, Text: "```{r}\nx <- 1\n```", Info: "{r}", Content: "x <- 1"},
			},
		},
		{
			name:   "Unclosed chunk",
			source: "”””{r}\nx",
			expected: []rmarkdown.Block{
				{Kind: rmarkdown.BlockText, Text: "```{r}\nx"},
			},
		},
		{
			name:   "Indented code",
			source: "    x = 1\n    y = 2\n\nText",
			expected: []rmarkdown.Block{
				{Kind: rmarkdown.BlockCode, Text: "    x = 1\n    y = 2"},
				{Kind: rmarkdown.BlockText, Text: "Text"},
			},
		},
		{
			name:   "Front matter",
			source: "---\ntitle: Test\n---\n\n# Intro\n",
			expected: []rmarkdown.Block{
				{Kind: rmarkdown.BlockFrontMatter, Text: "---\ntitle: Test\n---", Content: "title: Test\n"},
				{Kind: rmarkdown.BlockText, Text: "# Intro"},
			},
		},
		{
			name:   "Cell metadata",
			source: "---\necho: false\n...\nSome text\n",
			expected: []rmarkdown.Block{
				{Kind: rmarkdown.BlockCellMetadata, Text: "---\necho: false\n...", Content: "echo: false\n"},
				{Kind: rmarkdown.BlockText, Text: "Some text"},
			},
		},
		{
			name:   "Horizontal rule",
			source: "Intro\n\n---\n\nOutro",
			expected: []rmarkdown.Block{
				{Kind: rmarkdown.BlockText, Text: "Intro"},
				{Kind: rmarkdown.BlockText, Text: "---"},
				{Kind: rmarkdown.BlockText, Text: "Outro"},
			},
		},
		{
			name:   "HTML comment",
			source: "<!-- comment -->\n\nText",
			expected: []rmarkdown.Block{
				{Kind: rmarkdown.BlockHTML, Text: "<!-- comment -->"},
				{Kind: rmarkdown.BlockText, Text: "Text"},
			},
		},
		{
			name:   "HTML element",
			source: "<div class=\"note\">\nHello\n</div>\n\nText",
			expected: []rmarkdown.Block{
				{Kind: rmarkdown.BlockHTML, Text: "<div class=\"note\">\nHello\n</div>"},
				{Kind: rmarkdown.BlockText, Text: "Text"},
			},
		},
		{
			name:   "HTML single tag",
			source: "<hr class='a>b' />\n\nText",
			expected: []rmarkdown.Block{
				{Kind: rmarkdown.BlockHTML, Text: "<hr class='a>b' />"},
				{Kind: rmarkdown.BlockText, Text: "Text"},
			},
		},
		{
			name:   "Inline HTML",
			source: "<span>hi</span>\n\nText",
			expected: []rmarkdown.Block{
				{Kind: rmarkdown.BlockText, Text: "<span>hi</span>"},
				{Kind: rmarkdown.BlockText, Text: "Text"},
			},
		},
		{
			name:   "Email",
			source: "<john@doe.com>\n\nText",
			expected: []rmarkdown.Block{
				{Kind: rmarkdown.BlockText, Text: "<john@doe.com>"},
				{Kind: rmarkdown.BlockText, Text: "Text"},
			},
		},
		{
			name:   "Windows newlines",
			source: "A\r\n\r\nB\r\n",
			expected: []rmarkdown.Block{
				{Kind: rmarkdown.BlockText, Text: "A"},
				{Kind: rmarkdown.BlockText, Text: "B"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := rmarkdown.ScanBlocks(text.UnescapeTestContent(tt.source))
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestBlockKindString(t *testing.T) {
	assert.Equal(t, "chunk", rmarkdown.BlockChunk.String())
	assert.Equal(t, "cell_metadata", rmarkdown.BlockCellMetadata.String())
	assert.Equal(t, "unknown", rmarkdown.BlockKind(42).String())
}
