package chunk

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/julien-sobczak/rnotebook/internal/notebook"
	"golang.org/x/exp/slices"
)

// Header is the parsed info string of an executable code chunk.
//
// Ex: {r chunk_name, foo='bar', horse=9, bool_val=TRUE}
type Header struct {
	Language string
	Name     string // "" when absent
	Options  notebook.Metadata
}

// Options that cannot be used as they are represented by dedicated fields.
var reservedOptions = []string{"lang", "name"}

// IsExecutable returns if the info string of a fenced block designates executable code
// (ex: "{r}") or documentation code (ex: "r").
func IsExecutable(info string) bool {
	info = strings.TrimSpace(info)
	return strings.HasPrefix(info, "{") && strings.HasSuffix(info, "}")
}

// ParseHeader parses the info string of a chunk, with or without surrounding braces.
//
// The first term is the language, an optional second term is the chunk name,
// and every key=value are options in order of appearance. When an option is
// repeated, the last value is kept at the position of the first occurrence.
func ParseHeader(info string) (*Header, error) {
	tokens, err := Tokenize(info)
	if err != nil {
		return nil, err
	}

	header := &Header{}
	var args []string
	for _, token := range tokens {
		switch token.Kind {
		case TokenArg:
			if len(args) >= 2 {
				return nil, headerErrorf(info, "unexpected term %q (only a language and a name are allowed)", token.Text)
			}
			args = append(args, token.Text)
		case TokenKwarg:
			if len(args) == 0 {
				return nil, headerErrorf(info, "option %q found before the language", token.Key)
			}
			for _, reserved := range reservedOptions {
				if token.Key == reserved {
					return nil, headerErrorf(info, "reserved option %q", token.Key)
				}
			}
			value, err := ParseValue(token.Value)
			if err != nil {
				return nil, &HeaderError{
					Header: info,
					Reason: fmt.Sprintf("%v %q for option %q", ErrUnknownLiteral, token.Value, token.Key),
					Err:    ErrUnknownLiteral,
				}
			}
			header.Options.Set(token.Key, value)
		}
	}

	if len(args) == 0 {
		return nil, headerErrorf(info, "missing language")
	}
	header.Language = args[0]
	if len(args) > 1 {
		header.Name = args[1]
	}
	return header, nil
}

// Format encodes the header without braces. Headers that ParseHeader
// could not read back are rejected with ErrChunkHeader.
//
// Ex: r chunk_name, horse=9, bool_val=TRUE
func (h Header) Format() (string, error) {
	if !isTerm(h.Language) {
		return "", fmt.Errorf("%w: invalid language %q", ErrChunkHeader, h.Language)
	}
	if h.Name != "" && !isTerm(h.Name) {
		return "", fmt.Errorf("%w: invalid chunk name %q", ErrChunkHeader, h.Name)
	}

	var sb strings.Builder
	sb.WriteString(h.Language)
	if h.Name != "" {
		sb.WriteString(" ")
		sb.WriteString(h.Name)
	}
	for _, key := range h.Options.Keys() {
		if !isTerm(key) {
			return "", fmt.Errorf("%w: invalid option %q", ErrChunkHeader, key)
		}
		if slices.Contains(reservedOptions, key) {
			return "", fmt.Errorf("%w: reserved option %q", ErrChunkHeader, key)
		}
		value, _ := h.Options.Get(key)
		if strings.ContainsAny(value.AsString(), "\r\n") {
			return "", fmt.Errorf("%w: option %q spans several lines", ErrChunkHeader, key)
		}
		text, err := FormatValue(value)
		if err != nil {
			return "", err
		}
		sb.WriteString(", ")
		sb.WriteString(key)
		sb.WriteString("=")
		sb.WriteString(text)
	}
	return sb.String(), nil
}

// isTerm reports if a text is read back as a single term.
func isTerm(s string) bool {
	return s != "" && !strings.ContainsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(`{},="'`, r)
	})
}

func (h Header) String() string {
	text, err := h.Format()
	if err != nil {
		return h.Language
	}
	return text
}
