package rmarkdown

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/julien-sobczak/rnotebook/internal/notebook"
	"github.com/julien-sobczak/rnotebook/pkg/text"
	"golang.org/x/net/html"
)

// SourceNotDerivable is the source of code cells read from a rendered file.
// The code only exists in the source file.
const SourceNotDerivable = "# <source not derivable from the rendered file>"

// ImageErrorMessage replaces a plot whose image cannot be read.
const ImageErrorMessage = "Error reading image."

// Names of sentinel tags
const (
	TagText    = "text"
	TagChunk   = "chunk"
	TagSource  = "source"
	TagPlot    = "plot"
	TagOutput  = "output"
	TagWarning = "warning"
	TagErr     = "error"
	TagMessage = "message"
)

var (
	outerTagRegex = regexp.MustCompile(`<!--\s*rnb-(text|chunk)-(begin|end)\b([^>]*?)-->`)
	innerTagRegex = regexp.MustCompile(`<!--\s*rnb-(source|plot|output|warning|error|message)-(begin|end)\b([^>]*?)-->`)
)

// taggedBlock is the text between a begin tag and its end tag.
type taggedBlock struct {
	Tag         string
	SideChannel string // base64, "" when absent
	Content     string // without surrounding whitespace
}

// scanTags finds the blocks delimited by the tags matched by re. Tags of the
// same level cannot nest. Blocks are numbered from 0 when cell is negative,
// otherwise errors report the given cell.
func scanTags(rendered string, re *regexp.Regexp, cell int) ([]taggedBlock, error) {
	var blocks []taggedBlock
	var open *taggedBlock
	contentStart := 0
	for _, loc := range re.FindAllStringSubmatchIndex(rendered, -1) {
		tag := rendered[loc[2]:loc[3]]
		delimiter := rendered[loc[4]:loc[5]]
		index := cell
		if index < 0 {
			index = len(blocks)
		}

		if delimiter == "begin" {
			if open != nil {
				return nil, &TagError{
					Tag:    tag,
					Cell:   index,
					Reason: fmt.Sprintf("begins before the end of %q", open.Tag),
					Err:    ErrMalformedNesting,
				}
			}
			open = &taggedBlock{
				Tag:         tag,
				SideChannel: strings.TrimSpace(rendered[loc[6]:loc[7]]),
			}
			contentStart = loc[1]
			continue
		}

		if open == nil {
			return nil, &TagError{Tag: tag, Cell: index, Reason: "ends without beginning", Err: ErrMalformedNesting}
		}
		if open.Tag != tag {
			return nil, &TagError{
				Tag:    tag,
				Cell:   index,
				Reason: fmt.Sprintf("ends before the end of %q", open.Tag),
				Err:    ErrMalformedNesting,
			}
		}
		open.Content = strings.TrimSpace(rendered[contentStart:loc[0]])
		blocks = append(blocks, *open)
		open = nil
	}

	if open != nil {
		index := cell
		if index < 0 {
			index = len(blocks)
		}
		return nil, &TagError{Tag: open.Tag, Cell: index, Reason: "never ends", Err: ErrMalformedNesting}
	}
	return blocks, nil
}

// ReadRendered parses a rendered file. Markdown cells contain HTML and code
// cells contain SourceNotDerivable with their outputs.
func (r *Reader) ReadRendered(rendered string) ([]notebook.Cell, error) {
	rendered = text.NormalizeNewlines(rendered)

	blocks, err := scanTags(rendered, outerTagRegex, -1)
	if err != nil {
		return nil, err
	}

	var cells []notebook.Cell
	counter := 0
	for i, block := range blocks {
		switch block.Tag {
		case TagText:
			cells = append(cells, notebook.NewMarkdownCell(block.Content, notebook.Metadata{}))
		case TagChunk:
			counter++
			cell, err := readChunk(block, i, counter)
			if err != nil {
				return nil, err
			}
			cells = append(cells, cell)
		}
	}
	return cells, nil
}

// readChunk converts the inner tags of a chunk into a code cell.
func readChunk(block taggedBlock, index int, counter int) (*notebook.CodeCell, error) {
	tags, err := scanTags(block.Content, innerTagRegex, index)
	if err != nil {
		return nil, err
	}

	cell := &notebook.CodeCell{
		Source:         SourceNotDerivable,
		ExecutionCount: counter,
	}
	sourceFound := false
	for _, tag := range tags {
		if tag.Tag == TagSource {
			sourceFound = true
			continue
		}
		if !sourceFound {
			return nil, &TagError{
				Tag:    tag.Tag,
				Cell:   index,
				Reason: "no source tag before",
				Err:    ErrMissingSourceTag,
			}
		}
		output, err := readOutput(tag, counter)
		if err != nil {
			return nil, &TagError{Tag: tag.Tag, Cell: index, Err: err}
		}
		cell.Outputs = append(cell.Outputs, output)
	}
	return cell, nil
}

func readOutput(tag taggedBlock, counter int) (notebook.Output, error) {
	switch tag.Tag {

	case TagErr:
		channel, err := decodeSideChannel(tag.SideChannel)
		if err != nil {
			return nil, err
		}
		return notebook.NewError(channel.ErrorName, channel.ErrorValue, channel.traceback()), nil

	case TagPlot:
		channel, err := decodeSideChannel(tag.SideChannel)
		if err != nil {
			return nil, err
		}
		data := channel.bundle()
		if data == nil {
			mime, image, ok := extractImage(tag.Content)
			if !ok {
				mime, image = notebook.MimePlain, ImageErrorMessage
			}
			data = notebook.MimeBundle{mime: image}
		}
		return channel.result(data, counter)

	default: // output, warning, message
		if tag.SideChannel == "" {
			return nil, fmt.Errorf("%w: missing side channel", ErrInvalidSideChannel)
		}
		channel, err := decodeSideChannel(tag.SideChannel)
		if err != nil {
			return nil, err
		}
		data := channel.bundle()
		if data == nil {
			if channel.Data == nil {
				return nil, fmt.Errorf("%w: missing key %q", ErrInvalidSideChannel, keyData)
			}
			mime := channel.Mime
			if mime == "" {
				mime = notebook.MimePlain
			}
			data = notebook.MimeBundle{mime: text.TrimTrailingSpace(*channel.Data)}
		}
		return channel.result(data, counter)
	}
}

// extractImage returns the mime type and the base64 data of the first
// embedded image (ex: <img src="data:image/png;base64,iVBOR..." />).
func extractImage(content string) (string, string, bool) {
	tokenizer := html.NewTokenizer(strings.NewReader(content))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return "", "", false
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := tokenizer.TagName()
			if string(name) != "img" {
				continue
			}
			for hasAttr {
				var key, value []byte
				key, value, hasAttr = tokenizer.TagAttr()
				if string(key) != "src" {
					continue
				}
				return parseDataURI(string(value))
			}
		}
	}
}

// parseDataURI parses "data:<mime>;base64,<data>".
func parseDataURI(uri string) (string, string, bool) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", "", false
	}
	mime, data, ok := strings.Cut(rest, ";base64,")
	if !ok || mime == "" {
		return "", "", false
	}
	return mime, text.TrimTrailingSpace(data), true
}
