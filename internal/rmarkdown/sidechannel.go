package rmarkdown

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/julien-sobczak/rnotebook/internal/notebook"
)

// Keys of the side channel. "data" is also understood by RStudio.
const (
	keyData            = "data"
	keyIPymdData       = "ipymd.data"
	keyIPymdMetadata   = "ipymd.metadata"
	keyIPymdOutputType = "ipymd.output_type"
	keyErrorName       = "ename"
	keyErrorValue      = "evalue"
	keyTraceback       = "traceback"
)

// sideChannel is the decoded JSON attached to a begin tag.
type sideChannel struct {
	Data            *string            `json:"data"`
	Mime            string             `json:"mime"`
	IPymdData       map[string]payload `json:"ipymd.data"`
	IPymdMetadata   map[string]any     `json:"ipymd.metadata"`
	IPymdOutputType string             `json:"ipymd.output_type"`
	ErrorName       string             `json:"ename"`
	ErrorValue      string             `json:"evalue"`
	Traceback       []any              `json:"traceback"`
}

// payload accepts a string or a list of lines.
type payload string

func (p *payload) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = payload(s)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("payload must be a string or a list of strings: %w", err)
	}
	*p = payload(strings.Join(lines, ""))
	return nil
}

// bundle returns the mime payloads, or nil when absent.
func (c *sideChannel) bundle() notebook.MimeBundle {
	if len(c.IPymdData) == 0 {
		return nil
	}
	result := make(notebook.MimeBundle, len(c.IPymdData))
	for mime, data := range c.IPymdData {
		result[mime] = string(data)
	}
	return result
}

// result creates the output for the given payloads. Outputs without a type
// are execution results numbered with the chunk counter.
func (c *sideChannel) result(data notebook.MimeBundle, executionCount int) (notebook.Output, error) {
	switch notebook.OutputType(c.IPymdOutputType) {
	case "", notebook.OutputExecuteResult:
		return notebook.NewResult(data, c.IPymdMetadata, executionCount), nil
	case notebook.OutputDisplayData:
		return notebook.NewDisplayData(data, c.IPymdMetadata), nil
	}
	return nil, fmt.Errorf("%w: unsupported output type %q", ErrInvalidSideChannel, c.IPymdOutputType)
}

// traceback returns the traceback lines coerced to text.
func (c *sideChannel) traceback() []string {
	result := make([]string, 0, len(c.Traceback))
	for _, line := range c.Traceback {
		if s, ok := line.(string); ok {
			result = append(result, s)
			continue
		}
		result = append(result, fmt.Sprint(line))
	}
	return result
}

// decodeSideChannel decodes a base64 JSON object. A blank text returns an empty side channel.
func decodeSideChannel(encoded string) (*sideChannel, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return &sideChannel{}, nil
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSideChannel, err)
	}
	var result sideChannel
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSideChannel, err)
	}
	return &result, nil
}

// encodeSideChannel encodes an object in base64 JSON with sorted keys.
// An empty object returns an empty text.
func encodeSideChannel(values map[string]any) (string, error) {
	if len(values) == 0 {
		return "", nil
	}
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(values); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
