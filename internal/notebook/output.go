package notebook

import (
	"fmt"
	"sort"

	"github.com/julien-sobczak/rnotebook/pkg/text"
)

// OutputType is the nbformat output type.
type OutputType string

const (
	OutputExecuteResult OutputType = "execute_result"
	OutputDisplayData   OutputType = "display_data"
	OutputStream        OutputType = "stream"
	OutputError         OutputType = "error"
)

// Well-known mime types
const (
	MimePNG   = "image/png"
	MimeJPEG  = "image/jpeg"
	MimeHTML  = "text/html"
	MimePlain = "text/plain"
)

// Output is a result of a code cell execution.
// Implemented by *ResultOutput and *ErrorOutput only.
type Output interface {
	Type() OutputType
	isOutput()
}

// MimeBundle maps mime types to payloads (text or base64 encoded binaries).
type MimeBundle map[string]string

// Mimes returns the mime types in alphabetical order.
func (b MimeBundle) Mimes() []string {
	var result []string
	for mime := range b {
		result = append(result, mime)
	}
	sort.Strings(result)
	return result
}

// Clone returns an independent copy.
func (b MimeBundle) Clone() MimeBundle {
	result := make(MimeBundle, len(b))
	for k, v := range b {
		result[k] = v
	}
	return result
}

// ResultOutput is a rich output (execute_result or display_data).
type ResultOutput struct {
	OutputType OutputType
	Data       MimeBundle
	Metadata   map[string]any
	// ExecutionCount is 0 when unset (= "don't care" when comparing).
	ExecutionCount int
}

func (o *ResultOutput) Type() OutputType { return o.OutputType }
func (o *ResultOutput) isOutput()        {}

func (o *ResultOutput) String() string {
	return fmt.Sprintf("%s %v", o.OutputType, o.Data.Mimes())
}

// ErrorOutput is an exception raised during the execution.
type ErrorOutput struct {
	Name      string
	Value     string
	Traceback []string
}

func (o *ErrorOutput) Type() OutputType { return OutputError }
func (o *ErrorOutput) isOutput()        {}

func (o *ErrorOutput) String() string {
	return fmt.Sprintf("error %s: %s", o.Name, o.Value)
}

// NewResult creates an execute_result output.
func NewResult(data MimeBundle, metadata map[string]any, executionCount int) *ResultOutput {
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return &ResultOutput{
		OutputType:     OutputExecuteResult,
		Data:           data,
		Metadata:       metadata,
		ExecutionCount: executionCount,
	}
}

// NewDisplayData creates a display_data output.
func NewDisplayData(data MimeBundle, metadata map[string]any) *ResultOutput {
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return &ResultOutput{
		OutputType: OutputDisplayData,
		Data:       data,
		Metadata:   metadata,
	}
}

// NewStreamResult normalizes a stream output (stdout/stderr) into a result
// whose only payload is the text without trailing whitespace.
func NewStreamResult(streamText string) *ResultOutput {
	return NewResult(MimeBundle{
		MimePlain: text.TrimTrailingSpace(streamText),
	}, nil, 0)
}

// NewError creates an error output.
func NewError(name, value string, traceback []string) *ErrorOutput {
	return &ErrorOutput{
		Name:      name,
		Value:     value,
		Traceback: traceback,
	}
}
