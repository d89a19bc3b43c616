package markdown

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Renderer converts prose to HTML.
type Renderer interface {
	Render(md Document) (string, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(md Document) (string, error)

func (f RendererFunc) Render(md Document) (string, error) {
	return f(md)
}

// Extensions lists the supported Markdown extensions by name.
var Extensions = map[string]parser.Extensions{
	"tables":            parser.Tables,
	"fenced-code":       parser.FencedCode,
	"autolink":          parser.Autolink,
	"strikethrough":     parser.Strikethrough,
	"footnotes":         parser.Footnotes,
	"heading-ids":       parser.HeadingIDs,
	"auto-heading-ids":  parser.AutoHeadingIDs,
	"definition-lists":  parser.DefinitionLists,
	"mathjax":           parser.MathJax,
	"hard-line-break":   parser.HardLineBreak,
	"no-intra-emphasis": parser.NoIntraEmphasis,
	"space-headings":    parser.SpaceHeadings,
	"super-subscript":   parser.SuperSubscript,
}

// HTMLRenderer renders Markdown using the configured extensions.
type HTMLRenderer struct {
	extensions parser.Extensions
}

// NewHTMLRenderer creates a renderer enabling the given extensions (see Extensions).
func NewHTMLRenderer(names []string) (*HTMLRenderer, error) {
	var extensions parser.Extensions
	for _, name := range names {
		extension, ok := Extensions[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("unknown markdown extension %q (supported: %s)", name, strings.Join(extensionNames(), ", "))
		}
		extensions |= extension
	}
	return &HTMLRenderer{
		extensions: extensions,
	}, nil
}

// NewDefaultRenderer creates a renderer enabling the common extensions of the Markdown parser.
func NewDefaultRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		extensions: parser.CommonExtensions,
	}
}

// Render converts a Markdown document to HTML. HTML comments are removed first
// so that the result never contains comments.
func (r *HTMLRenderer) Render(md Document) (string, error) {
	md, err := md.Transform(StripHTMLComments())
	if err != nil {
		return "", err
	}
	// Parsers cannot be reused
	p := parser.NewWithExtensions(r.extensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags,
	})
	html := markdown.ToHTML([]byte(md), p, renderer)
	return strings.TrimSpace(string(html)), nil
}

func extensionNames() []string {
	var names []string
	for name := range Extensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
