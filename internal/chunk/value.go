package chunk

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julien-sobczak/rnotebook/internal/notebook"
)

// Literals recognized in unquoted option values.
var literals = map[string]notebook.Value{
	"NULL":  notebook.Null(),
	"None":  notebook.Null(),
	"FALSE": notebook.Bool(false),
	"False": notebook.Bool(false),
	"TRUE":  notebook.Bool(true),
	"True":  notebook.Bool(true),
}

// ParseValue decodes the value of a chunk option.
//
// Quoted values are returned verbatim as strings. Unquoted values are matched against
// the literals NULL/None, FALSE/False, TRUE/True, then parsed as an integer, then as a float.
func ParseValue(raw string) (notebook.Value, error) {
	raw = strings.TrimSpace(raw)
	if unquoted, ok := unquote(raw); ok {
		return notebook.String(unquoted), nil
	}
	if value, ok := literals[raw]; ok {
		return value, nil
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return notebook.Int(i), nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return notebook.Float(f), nil
	}
	return notebook.Null(), &HeaderError{
		Header: raw,
		Reason: fmt.Sprintf("%v %q", ErrUnknownLiteral, raw),
		Err:    ErrUnknownLiteral,
	}
}

func unquote(raw string) (string, bool) {
	if len(raw) < 2 {
		return "", false
	}
	first, last := raw[0], raw[len(raw)-1]
	if (first == '"' || first == '\'') && first == last {
		return raw[1 : len(raw)-1], true
	}
	return "", false
}

// FormatValue encodes the value of a chunk option so that ParseValue returns it unchanged.
//
// Ex: true => TRUE, nil => NULL, "gold" => "gold" (quoted), 42.0 => 42.0
func FormatValue(value notebook.Value) (string, error) {
	switch value.Kind() {
	case notebook.KindNull:
		return "NULL", nil
	case notebook.KindBool:
		if value.AsBool() {
			return "TRUE", nil
		}
		return "FALSE", nil
	case notebook.KindInt:
		return strconv.FormatInt(value.AsInt(), 10), nil
	case notebook.KindFloat:
		return notebook.FormatFloat(value.AsFloat()), nil
	case notebook.KindString:
		s := value.AsString()
		if !strings.Contains(s, `"`) {
			return `"` + s + `"`, nil
		}
		// Strings are double-quoted unless impossible
		if !strings.Contains(s, `'`) {
			return `'` + s + `'`, nil
		}
		return "", fmt.Errorf("%w: string %q contains both single and double quotes", ErrChunkHeader, s)
	}
	return "", fmt.Errorf("%w: unsupported value %v", ErrChunkHeader, value)
}
