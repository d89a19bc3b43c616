package rmarkdown

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/julien-sobczak/rnotebook/internal/chunk"
	"github.com/julien-sobczak/rnotebook/internal/core"
	"github.com/julien-sobczak/rnotebook/internal/markdown"
	"github.com/julien-sobczak/rnotebook/internal/notebook"
	"github.com/julien-sobczak/rnotebook/pkg/text"
	"gopkg.in/yaml.v3"
)

// Default extension of source files
const DefaultSourceExtension = ".Rmd"

// Mime types rendered visibly, by order of priority
var visibleMimes = []string{notebook.MimePNG, notebook.MimeHTML, notebook.MimePlain}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// Writer generates the files of a notebook.
type Writer struct {
	// DefaultLanguage is used for code cells without language when the notebook has no kernel.
	DefaultLanguage string
	// Title is used when the notebook has no title or heading.
	Title string
	// Filename is the name of the source file as mentioned in the rendered file.
	// When empty, the name is derived from the title.
	Filename string
	// Renderer converts Markdown cells to HTML.
	Renderer markdown.Renderer
}

// NewWriter creates a writer using the default Markdown renderer.
func NewWriter() *Writer {
	return &Writer{
		DefaultLanguage: notebook.DefaultLanguage,
		Title:           DefaultTitle,
		Renderer:        markdown.NewDefaultRenderer(),
	}
}

// Write generates both files of a notebook.
func (w *Writer) Write(doc *notebook.Document) (Contents, error) {
	source, err := w.WriteSource(doc)
	if err != nil {
		return Contents{}, err
	}
	rendered, err := w.WriteRendered(doc, source)
	if err != nil {
		return Contents{}, err
	}
	return Contents{
		Source:   source,
		Rendered: rendered,
	}, nil
}

// WriteSource generates the source file. Outputs are ignored.
func (w *Writer) WriteSource(doc *notebook.Document) (string, error) {
	var blocks []string

	frontMatter, err := markdown.NewFrontMatter(doc.Metadata)
	if err != nil {
		return "", fmt.Errorf("invalid notebook metadata: %w", err)
	}
	if !frontMatter.IsBlank() {
		blocks = append(blocks, frontMatter.Block())
	}

	for i, cell := range doc.Cells {
		switch c := cell.(type) {
		case *notebook.MarkdownCell:
			if isBlankCell(c) {
				continue
			}
			block, err := markdownBlock(c)
			if err != nil {
				return "", &CellError{Cell: i, Reason: "invalid metadata", Err: err}
			}
			blocks = append(blocks, block)
		case *notebook.CodeCell:
			block, err := w.chunkBlock(doc, c)
			if err != nil {
				return "", &CellError{Cell: i, Err: err}
			}
			blocks = append(blocks, block)
		}
	}

	return text.TrimTrailingSpace(strings.Join(blocks, "\n\n")) + "\n", nil
}

// isBlankCell reports a Markdown cell that leaves no block in the source file.
// Such cells are skipped in both files so that their cells stay aligned.
func isBlankCell(cell *notebook.MarkdownCell) bool {
	if !text.IsBlank(cell.Source) {
		return false
	}
	if !cell.Metadata.IsEmpty() {
		core.CurrentLogger().Warnf("Ignoring metadata %s of a blank Markdown cell", cell.Metadata)
	}
	return true
}

// visibleHTML removes HTML comments and neutralizes unterminated ones
// so that no payload can be read as a sentinel tag.
func visibleHTML(html string) string {
	html = string(markdown.Document(html).MustTransform(markdown.StripHTMLComments()))
	return strings.ReplaceAll(html, "<!--", "&lt;!--")
}

// markdownBlock writes the Markdown verbatim, preceded by its metadata if any.
//
// Ex:
//
//	---
//	slideshow: fragment
//	...
//	Some *text*
func markdownBlock(cell *notebook.MarkdownCell) (string, error) {
	source := text.TrimTrailingSpace(cell.Source)
	if cell.Metadata.IsEmpty() {
		return source, nil
	}
	metadata, err := yaml.Marshal(cell.Metadata)
	if err != nil {
		return "", err
	}
	return markdown.FrontMatterDelimiter + "\n" + string(metadata) + "...\n" + source, nil
}

// chunkBlock writes an executable code chunk.
//
// Ex:
//
//	```{r test, echo=FALSE}
//	print(1:3)
//	```
func (w *Writer) chunkBlock(doc *notebook.Document, cell *notebook.CodeCell) (string, error) {
	header := chunk.Header{
		Language: doc.LanguageOf(cell, w.DefaultLanguage),
		Name:     cell.Name,
		Options:  cell.Metadata,
	}
	info, err := header.Format()
	if err != nil {
		return "", err
	}
	code := text.TrimTrailingSpace(cell.Source)
	fence := fenceFor(code)
	return fence + "{" + info + "}\n" + code + "\n" + fence, nil
}

// fenceFor returns a fence longer than every fence-like line of the code.
func fenceFor(code string) string {
	fence := "```"
	for {
		re := regexp.MustCompile(`(?m)^ *` + regexp.QuoteMeta(fence) + ` *$`)
		if !re.MatchString(code) {
			return fence
		}
		fence += "`"
	}
}

// WriteRendered generates the rendered file, embedding the given source file.
func (w *Writer) WriteRendered(doc *notebook.Document, source string) (string, error) {
	var body strings.Builder
	for i, cell := range doc.Cells {
		switch c := cell.(type) {
		case *notebook.MarkdownCell:
			if isBlankCell(c) {
				continue
			}
			html, err := w.Renderer.Render(markdown.Document(c.Source))
			if err != nil {
				return "", &CellError{Cell: i, Reason: "unable to render Markdown", Err: err}
			}
			tag, err := sentinelTag(TagText, nil, visibleHTML(html)+"\n")
			if err != nil {
				return "", &CellError{Cell: i, Err: err}
			}
			body.WriteString(tag + "\n")
		case *notebook.CodeCell:
			tag, err := w.chunkTag(doc, c)
			if err != nil {
				return "", &CellError{Cell: i, Err: err}
			}
			body.WriteString(tag + "\n")
		}
	}

	title := notebookTitle(doc, w.Title)
	filename := w.Filename
	if filename == "" {
		filename = sourceFilename(title, DefaultSourceExtension)
	}
	return renderPage(page{
		Title:         title,
		Filename:      filename,
		Body:          body.String(),
		EncodedSource: base64.StdEncoding.EncodeToString([]byte(source)),
	})
}

// chunkTag writes a code cell with a source tag followed by a tag per output.
func (w *Writer) chunkTag(doc *notebook.Document, cell *notebook.CodeCell) (string, error) {
	language := doc.LanguageOf(cell, w.DefaultLanguage)
	code := text.TrimTrailingSpace(cell.Source)

	source, err := sentinelTag(TagSource, map[string]any{
		keyData: "```" + language + "\n" + code + "\n```",
	}, fmt.Sprintf("<pre class=\"%s\"><code>%s</code></pre>\n", htmlEscaper.Replace(language), htmlEscaper.Replace(code)))
	if err != nil {
		return "", err
	}

	tags := []string{source}
	for j, output := range cell.Outputs {
		tag, err := outputTag(output)
		if err != nil {
			return "", fmt.Errorf("output %d: %w", j, err)
		}
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return sentinelTag(TagChunk, nil, strings.Join(tags, "\n")+"\n")
}

// outputTag writes an output. The first supported mime type is rendered
// visibly and every payload is kept in the side channel.
// A result without payloads returns an empty text.
func outputTag(output notebook.Output) (string, error) {
	switch o := output.(type) {

	case *notebook.ErrorOutput:
		traceback := o.Traceback
		if traceback == nil {
			traceback = []string{}
		}
		return sentinelTag(TagErr, map[string]any{
			keyErrorName:  o.Name,
			keyErrorValue: o.Value,
			keyTraceback:  traceback,
		}, "<pre class=\"error\">"+htmlEscaper.Replace(strings.Join(o.Traceback, "\n"))+"</pre>\n")

	case *notebook.ResultOutput:
		if len(o.Data) == 0 {
			return "", nil
		}
		mime, ok := visibleMime(o.Data)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedMimeType, strings.Join(o.Data.Mimes(), ", "))
		}
		metadata := o.Metadata
		if metadata == nil {
			metadata = make(map[string]any)
		}
		outputType := o.OutputType
		if outputType == "" || outputType == notebook.OutputStream {
			outputType = notebook.OutputExecuteResult
		}
		channel := map[string]any{
			keyData:            o.Data[notebook.MimePlain],
			keyIPymdData:       o.Data,
			keyIPymdMetadata:   metadata,
			keyIPymdOutputType: string(outputType),
		}
		payload := o.Data[mime]
		switch mime {
		case notebook.MimePNG:
			return sentinelTag(TagPlot, channel, "<p><img src=\"data:image/png;base64,"+htmlEscaper.Replace(text.TrimTrailingSpace(payload))+"\" /></p>\n")
		case notebook.MimeHTML:
			return sentinelTag(TagOutput, channel, visibleHTML(payload)+"\n")
		default:
			return sentinelTag(TagOutput, channel, "<pre><code>"+htmlEscaper.Replace(payload)+"</code></pre>\n")
		}
	}

	return "", fmt.Errorf("%w: %T", ErrUnsupportedMimeType, output)
}

func visibleMime(data notebook.MimeBundle) (string, bool) {
	for _, mime := range visibleMimes {
		if _, ok := data[mime]; ok {
			return mime, true
		}
	}
	return "", false
}

// sentinelTag surrounds contents with a begin and an end comment.
//
// Ex:
//
//	<!-- rnb-output-begin eyJkYXRhIjoiaGkifQ== -->
//	<pre><code>hi</code></pre>
//	<!-- rnb-output-end -->
func sentinelTag(tag string, channel map[string]any, contents string) (string, error) {
	encoded, err := encodeSideChannel(channel)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSideChannel, err)
	}
	begin := "<!-- rnb-" + tag + "-begin -->"
	if encoded != "" {
		begin = "<!-- rnb-" + tag + "-begin " + encoded + " -->"
	}
	return begin + "\n" + contents + "<!-- rnb-" + tag + "-end -->", nil
}
