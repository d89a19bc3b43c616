package rmarkdown

import (
	"regexp"
	"strings"

	"github.com/julien-sobczak/rnotebook/internal/chunk"
	"github.com/julien-sobczak/rnotebook/internal/core"
	"github.com/julien-sobczak/rnotebook/pkg/text"
)

// BlockKind is the kind of a raw block found in a source file.
type BlockKind int

const (
	BlockText BlockKind = iota
	BlockHTML
	// BlockCode is documentation code (indented or fenced without braces).
	BlockCode
	// BlockChunk is executable code (ex: ```{r}).
	BlockChunk
	// BlockFrontMatter is the notebook metadata at the start of the file.
	BlockFrontMatter
	// BlockCellMetadata is a YAML block closed by "..." applying to the next cell.
	BlockCellMetadata
)

func (k BlockKind) String() string {
	switch k {
	case BlockText:
		return "text"
	case BlockHTML:
		return "html"
	case BlockCode:
		return "code"
	case BlockChunk:
		return "chunk"
	case BlockFrontMatter:
		return "front_matter"
	case BlockCellMetadata:
		return "cell_metadata"
	}
	return "unknown"
}

// Block is a raw block of a source file.
type Block struct {
	Kind BlockKind
	// Text is the matched text without trailing whitespace.
	Text string
	// Info is the info string of fenced code (ex: "{r test, echo=FALSE}").
	Info string
	// Content is the code of a fenced block or the YAML of a metadata block.
	Content string
}

var (
	newlinesRegex     = regexp.MustCompile(`^\n+`)
	indentedCodeRegex = regexp.MustCompile(`^(?: {4}[^\n]+\n*)+`)
	fenceOpeningRegex = regexp.MustCompile("^ *(`{3,}|~{3,}) *(\\{[^\\n]*\\}|\\S+)? *\\n")
	chunkOpeningRegex = regexp.MustCompile("^ *(?:`{3,}|~{3,}) *\\{")
	metadataRegex     = regexp.MustCompile(`^---[ \t]*\n((?:[^\n]+\n)+?)(---|\.\.\.)[ \t]*(?:\n+|$)`)
)

// ScanBlocks splits a source file into raw blocks.
//
// Rules are tried in order at the current position and the first match
// consumes its text: blank lines, indented code, fenced code, metadata,
// raw HTML, and finally text up to the next blank line.
func ScanBlocks(source string) []Block {
	source = text.NormalizeNewlines(source)

	var blocks []Block
	pos := 0
	for pos < len(source) {
		rest := source[pos:]
		block, n := scanBlock(rest, pos == 0)
		pos += n
		if block == nil {
			continue
		}
		core.CurrentLogger().Tracef("Found %s block %q", block.Kind, abbreviate(block.Text))
		blocks = append(blocks, *block)
	}
	return blocks
}

// scanBlock matches the first rule at the start of rest and returns the
// consumed length. The returned block is nil when only blank lines were consumed.
func scanBlock(rest string, start bool) (*Block, int) {
	if loc := newlinesRegex.FindStringIndex(rest); loc != nil {
		return nil, loc[1]
	}

	if loc := indentedCodeRegex.FindStringIndex(rest); loc != nil {
		return &Block{
			Kind: BlockCode,
			Text: text.TrimTrailingSpace(rest[:loc[1]]),
		}, loc[1]
	}

	if block, n := scanFence(rest); block != nil {
		return block, n
	}

	if match := metadataRegex.FindStringSubmatchIndex(rest); match != nil {
		closing := rest[match[4]:match[5]]
		content := rest[match[2]:match[3]]
		switch {
		case closing == "...":
			return &Block{
				Kind:    BlockCellMetadata,
				Text:    text.TrimTrailingSpace(rest[:match[1]]),
				Content: content,
			}, match[1]
		case start:
			return &Block{
				Kind:    BlockFrontMatter,
				Text:    text.TrimTrailingSpace(rest[:match[1]]),
				Content: content,
			}, match[1]
		}
	}

	if n := scanHTMLBlock(rest); n > 0 {
		return &Block{
			Kind: BlockHTML,
			Text: text.TrimTrailingSpace(rest[:n]),
		}, n
	}

	n := scanText(rest)
	raw := text.TrimTrailingSpace(rest[:n])
	if raw == "" {
		return nil, n
	}
	return &Block{
		Kind: BlockText,
		Text: raw,
	}, n
}

// scanFence matches a fenced code block. The closing fence must use the
// same marker as the opening fence on its own line.
func scanFence(rest string) (*Block, int) {
	opening := fenceOpeningRegex.FindStringSubmatchIndex(rest)
	if opening == nil {
		return nil, 0
	}
	fence := rest[opening[2]:opening[3]]
	var info string
	if opening[4] >= 0 {
		info = rest[opening[4]:opening[5]]
	}

	body := rest[opening[1]:]
	closingRegex := regexp.MustCompile(`(?m)^ *` + regexp.QuoteMeta(fence) + ` *$`)
	closing := closingRegex.FindStringIndex(body)
	if closing == nil {
		return nil, 0
	}

	end := opening[1] + closing[1]
	for end < len(rest) && rest[end] == '\n' {
		end++
	}
	code := text.TrimTrailingSpace(body[:closing[0]])
	raw := text.TrimTrailingSpace(rest[:end])

	if chunk.IsExecutable(info) {
		return &Block{
			Kind:    BlockChunk,
			Text:    raw,
			Info:    info,
			Content: code,
		}, end
	}
	return &Block{
		Kind:    BlockCode,
		Text:    raw,
		Info:    info,
		Content: code,
	}, end
}

// scanText consumes lines up to the next blank line. A line opening an
// executable chunk also ends the text.
func scanText(rest string) int {
	pos := 0
	for {
		i := strings.IndexByte(rest[pos:], '\n')
		if i < 0 {
			return len(rest)
		}
		next := pos + i + 1
		if next < len(rest) && rest[next] == '\n' {
			return next + 1
		}
		if chunkOpeningRegex.MatchString(rest[next:]) {
			return next
		}
		pos = next
	}
}

// Tags that are not considered as HTML blocks
var inlineTags = map[string]bool{
	"a": true, "em": true, "strong": true, "small": true, "s": true, "cite": true,
	"q": true, "dfn": true, "abbr": true, "data": true, "time": true, "code": true,
	"var": true, "samp": true, "kbd": true, "sub": true, "sup": true, "i": true,
	"b": true, "u": true, "mark": true, "ruby": true, "rt": true, "rp": true,
	"bdi": true, "bdo": true, "span": true, "br": true, "wbr": true, "ins": true,
	"del": true, "img": true,
}

// scanHTMLBlock returns the length of the raw HTML block at the start of rest,
// or 0. A block is a comment, an element with its closing tag, or a single tag,
// followed by a blank line or the end of the file.
func scanHTMLBlock(rest string) int {
	indent := len(rest) - len(strings.TrimLeft(rest, " "))
	s := rest[indent:]
	if !strings.HasPrefix(s, "<") {
		return 0
	}

	if strings.HasPrefix(s, "<!--") {
		for from := 4; from < len(s); {
			i := strings.Index(s[from:], "-->")
			if i < 0 {
				break
			}
			end := from + i + len("-->")
			if n, ok := htmlBlockEnd(s[end:]); ok {
				return indent + end + n
			}
			from += i + 1
		}
		return 0
	}

	name := htmlTagName(s[1:])
	if name == "" {
		return 0
	}
	afterName := 1 + len(name)

	// Element with its closing tag
	closingTag := "</" + name + ">"
	for from := afterName + 1; from < len(s); {
		i := strings.Index(s[from:], closingTag)
		if i < 0 {
			break
		}
		end := from + i + len(closingTag)
		if n, ok := htmlBlockEnd(s[end:]); ok {
			return indent + end + n
		}
		from += i + 1
	}

	// Single tag
	for i := afterName; i < len(s); i++ {
		switch s[i] {
		case '"', '\'':
			j := strings.IndexByte(s[i+1:], s[i])
			if j < 0 {
				return 0
			}
			i += j + 1
		case '>':
			if n, ok := htmlBlockEnd(s[i+1:]); ok {
				return indent + i + 1 + n
			}
			return 0
		}
	}
	return 0
}

// htmlTagName returns the name of the tag starting s, or "" for inline tags,
// URLs (ex: <http://...>), and emails (ex: <john@doe.com>).
func htmlTagName(s string) string {
	n := 0
	for n < len(s) && isWordChar(s[n]) {
		n++
	}
	if n == 0 {
		return ""
	}
	name := s[:n]
	if inlineTags[name] {
		return ""
	}
	after := s[n:]
	if strings.HasPrefix(after, ":/") {
		return ""
	}
	i := 0
	for i < len(after) && !isWordChar(after[i]) && !isSpaceChar(after[i]) && after[i] != '@' {
		i++
	}
	if i < len(after) && after[i] == '@' {
		return ""
	}
	return name
}

// htmlBlockEnd matches trailing spaces followed by a blank line or the end of the file.
func htmlBlockEnd(s string) (int, bool) {
	i := 0
	for i < len(s) && s[i] == ' ' {
		i++
	}
	j := i
	for j < len(s) && s[j] == '\n' {
		j++
	}
	if j-i >= 2 {
		return j, true
	}
	if strings.TrimSpace(s[i:]) == "" {
		return len(s), true
	}
	return 0, false
}

func isWordChar(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isSpaceChar(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func abbreviate(s string) string {
	const maxLength = 40
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	return string(runes[:maxLength]) + "…"
}
