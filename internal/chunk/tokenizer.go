package chunk

import (
	"fmt"
	"strings"
	"unicode"
)

// TokenKind identifies a lexical unit of a chunk header.
type TokenKind int

const (
	// TokenArg is a bare term like the language "r" or the chunk name.
	TokenArg TokenKind = iota
	// TokenKwarg is an option "key=value".
	TokenKwarg
	// TokenOpen is the literal "{".
	TokenOpen
	// TokenClose is the literal "}".
	TokenClose
	// TokenDelim is the literal ",".
	TokenDelim
)

func (k TokenKind) String() string {
	switch k {
	case TokenArg:
		return "ARG"
	case TokenKwarg:
		return "KWARG"
	case TokenOpen:
		return "OPEN"
	case TokenClose:
		return "CLOSE"
	case TokenDelim:
		return "DELIM"
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is a lexical unit of a chunk header.
type Token struct {
	Kind TokenKind
	Text string // Text as present in the header
	// Key and Value are set for TokenKwarg only.
	// Value is trimmed but quotes are kept.
	Key   string
	Value string
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
}

type tokenizer struct {
	header string
	input  []rune
	pos    int
}

// Tokenize breaks a chunk header like `{r chunk_name, foo='bar', horse=9}` into tokens.
// Whitespace separates tokens and is never returned.
func Tokenize(header string) ([]Token, error) {
	t := &tokenizer{
		header: header,
		input:  []rune(header),
	}

	var tokens []Token
	for {
		t.skipSpaces()
		if t.eof() {
			return tokens, nil
		}

		start := t.pos
		switch r := t.peek(); r {
		case '{':
			t.pos++
			tokens = append(tokens, Token{Kind: TokenOpen, Text: "{"})
		case '}':
			t.pos++
			tokens = append(tokens, Token{Kind: TokenClose, Text: "}"})
		case ',':
			t.pos++
			tokens = append(tokens, Token{Kind: TokenDelim, Text: ","})
		case '=', '"', '\'':
			return nil, headerErrorf(header, "unexpected %q at position %d", r, start)
		default:
			term := t.scanTerm()

			// A term followed by = is the key of an option
			t.skipSpaces()
			if t.eof() || t.peek() != '=' {
				tokens = append(tokens, Token{Kind: TokenArg, Text: term})
				continue
			}
			t.pos++ // advance =
			t.skipSpaces()

			value, err := t.scanValue(term)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, Token{
				Kind:  TokenKwarg,
				Text:  strings.TrimSpace(string(t.input[start:t.pos])),
				Key:   term,
				Value: value,
			})
		}
	}
}

func (t *tokenizer) eof() bool {
	return t.pos >= len(t.input)
}

func (t *tokenizer) peek() rune {
	return t.input[t.pos]
}

func (t *tokenizer) skipSpaces() {
	for !t.eof() && unicode.IsSpace(t.peek()) {
		t.pos++
	}
}

// scanTerm reads a run of characters with no special meaning.
func (t *tokenizer) scanTerm() string {
	start := t.pos
	for !t.eof() {
		r := t.peek()
		if unicode.IsSpace(r) || strings.ContainsRune(`{},="'`, r) {
			break
		}
		t.pos++
	}
	return string(t.input[start:t.pos])
}

// scanValue reads the value of an option. Quoted values end at the matching quote.
// Bare values end at the next , or }.
func (t *tokenizer) scanValue(key string) (string, error) {
	if t.eof() {
		return "", headerErrorf(t.header, "missing value for option %q", key)
	}

	quote := t.peek()
	if quote == '"' || quote == '\'' {
		start := t.pos
		t.pos++
		for !t.eof() && t.peek() != quote {
			t.pos++
		}
		if t.eof() {
			return "", headerErrorf(t.header, "unterminated string for option %q", key)
		}
		t.pos++ // advance closing quote
		value := string(t.input[start:t.pos])

		t.skipSpaces()
		if !t.eof() && t.peek() != ',' && t.peek() != '}' {
			return "", headerErrorf(t.header, "unexpected %q after the value of option %q", t.peek(), key)
		}
		return value, nil
	}

	start := t.pos
	for !t.eof() && t.peek() != ',' && t.peek() != '}' {
		t.pos++
	}
	value := strings.TrimSpace(string(t.input[start:t.pos]))
	if value == "" {
		return "", headerErrorf(t.header, "missing value for option %q", key)
	}
	return value, nil
}
