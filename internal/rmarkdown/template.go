package rmarkdown

import (
	"encoding/base64"
	"fmt"
	"html"
	"io"
	"strings"
	"text/template"

	"github.com/gosimple/slug"
	"github.com/julien-sobczak/rnotebook/internal/markdown"
	"github.com/julien-sobczak/rnotebook/internal/notebook"
	nethtml "golang.org/x/net/html"

	_ "embed"
)

//go:embed notebook.nb.html.tmpl
var renderedTemplateRaw string

// DefaultTitle is used when a notebook has no title.
const DefaultTitle = "RNB Notebook"

// Attribute of the element embedding the source file
const sourceElementID = "rmd-source-code"

var renderedTemplate = template.Must(template.New("nb.html").Funcs(template.FuncMap{
	"escape": html.EscapeString,
}).Parse(renderedTemplateRaw))

// page contains the placeholders of the outer template.
type page struct {
	Title         string
	Filename      string
	Body          string
	EncodedSource string
}

func renderPage(p page) (string, error) {
	var sb strings.Builder
	if err := renderedTemplate.Execute(&sb, p); err != nil {
		return "", fmt.Errorf("unable to render the page: %w", err)
	}
	return sb.String(), nil
}

// notebookTitle returns the "title" metadata, or the first heading, or the default.
func notebookTitle(doc *notebook.Document, defaultTitle string) string {
	if title, ok := doc.Metadata["title"].(string); ok && title != "" {
		return title
	}
	for _, cell := range doc.Cells {
		md, ok := cell.(*notebook.MarkdownCell)
		if !ok {
			continue
		}
		if title, ok := markdown.Document(md.Source).Title(); ok {
			return title
		}
	}
	if defaultTitle != "" {
		return defaultTitle
	}
	return DefaultTitle
}

// sourceFilename derives a file name from the title (ex: "My Analysis" => "my-analysis.Rmd").
func sourceFilename(title string, extension string) string {
	name := slug.Make(title)
	if name == "" {
		name = "notebook"
	}
	return name + extension
}

// ExtractSource returns the source file embedded in a rendered file.
func ExtractSource(rendered string) (string, error) {
	tokenizer := nethtml.NewTokenizer(strings.NewReader(rendered))
	for {
		switch tokenizer.Next() {
		case nethtml.ErrorToken:
			if err := tokenizer.Err(); err != nil && err != io.EOF {
				return "", err
			}
			return "", ErrNoEmbeddedSource
		case nethtml.StartTagToken:
			token := tokenizer.Token()
			if token.Data != "div" || attribute(token, "id") != sourceElementID {
				continue
			}
			if tokenizer.Next() != nethtml.TextToken {
				// Empty element
				return "", nil
			}
			encoded := strings.Join(strings.Fields(string(tokenizer.Text())), "")
			source, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				return "", fmt.Errorf("invalid embedded source: %w", err)
			}
			return string(source), nil
		}
	}
}

func attribute(token nethtml.Token, key string) string {
	for _, attr := range token.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
