package markdown_test

import (
	"testing"

	"github.com/julien-sobczak/rnotebook/internal/markdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLRenderer(t *testing.T) {

	t.Run("Basic", func(t *testing.T) {
		renderer, err := markdown.NewHTMLRenderer(nil)
		require.NoError(t, err)
		html, err := renderer.Render("# Title\n\nSome *text*")
		require.NoError(t, err)
		assert.Contains(t, html, "<h1>Title</h1>")
		assert.Contains(t, html, "<p>Some <em>text</em></p>")
	})

	t.Run("Extensions", func(t *testing.T) {
		md := markdown.Document("~~old~~ new")

		renderer, err := markdown.NewHTMLRenderer([]string{"strikethrough"})
		require.NoError(t, err)
		html, err := renderer.Render(md)
		require.NoError(t, err)
		assert.Contains(t, html, "<del>old</del>")

		renderer, err = markdown.NewHTMLRenderer(nil)
		require.NoError(t, err)
		html, err = renderer.Render(md)
		require.NoError(t, err)
		assert.NotContains(t, html, "<del>")
	})

	t.Run("Comments are stripped", func(t *testing.T) {
		renderer, err := markdown.NewHTMLRenderer([]string{"Tables", "fenced-code"})
		require.NoError(t, err)
		html, err := renderer.Render("Text <!-- rnb-chunk-begin --> more")
		require.NoError(t, err)
		assert.NotContains(t, html, "<!--")
	})

	t.Run("Unknown extension", func(t *testing.T) {
		_, err := markdown.NewHTMLRenderer([]string{"emoji"})
		assert.ErrorContains(t, err, `unknown markdown extension "emoji"`)
	})

	t.Run("RendererFunc", func(t *testing.T) {
		var renderer markdown.Renderer = markdown.RendererFunc(func(md markdown.Document) (string, error) {
			return "<pre>" + md.String() + "</pre>", nil
		})
		html, err := renderer.Render("x")
		require.NoError(t, err)
		assert.Equal(t, "<pre>x</pre>", html)
	})
}
