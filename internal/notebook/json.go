package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/julien-sobczak/rnotebook/pkg/text"
)

// Version of the nbformat schema read and written.
const (
	NBFormat      = 4
	NBFormatMinor = 4
)

// multiline accepts a JSON string or a list of strings (joined).
type multiline string

func (m *multiline) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*m = multiline(single)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("expected a string or a list of strings: %w", err)
	}
	*m = multiline(text.JoinLines(lines))
	return nil
}

type jsonNotebook struct {
	Cells         []jsonCell     `json:"cells"`
	Metadata      map[string]any `json:"metadata"`
	NBFormat      int            `json:"nbformat"`
	NBFormatMinor int            `json:"nbformat_minor"`
}

type jsonCell struct {
	CellType       string          `json:"cell_type"`
	ExecutionCount *int            `json:"execution_count"`
	Metadata       json.RawMessage `json:"metadata"`
	Source         multiline       `json:"source"`
	Outputs        []jsonOutput    `json:"outputs"`
}

type jsonOutput struct {
	OutputType     OutputType           `json:"output_type"`
	Data           map[string]multiline `json:"data"`
	Metadata       map[string]any       `json:"metadata"`
	ExecutionCount *int                 `json:"execution_count"`
	Text           multiline            `json:"text"`
	EName          string               `json:"ename"`
	EValue         string               `json:"evalue"`
	Traceback      []string             `json:"traceback"`
}

// ReadJSON parses a notebook in the canonical JSON model (nbformat 4).
// The language and the name of code cells are read from the cell metadata keys "lang" and "name".
func ReadJSON(data []byte) (*Document, error) {
	var nb jsonNotebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if nb.NBFormat != NBFormat {
		return nil, &SchemaError{Cell: -1, Reason: fmt.Sprintf("unsupported nbformat %d (expected %d)", nb.NBFormat, NBFormat)}
	}

	doc := NewDocument()
	if nb.Metadata != nil {
		doc.Metadata = nb.Metadata
	}

	for i, rawCell := range nb.Cells {
		var metadata Metadata
		if len(rawCell.Metadata) > 0 {
			if err := json.Unmarshal(rawCell.Metadata, &metadata); err != nil {
				return nil, &SchemaError{Cell: i, Reason: err.Error()}
			}
		}

		switch CellType(rawCell.CellType) {
		case CellTypeMarkdown:
			doc.Cells = append(doc.Cells, NewMarkdownCell(string(rawCell.Source), metadata))
		case CellTypeCode:
			cell := NewCodeCell(string(rawCell.Source), "")
			if lang, ok := metadata.Get("lang"); ok {
				cell.Language = lang.AsString()
				metadata.Delete("lang")
			}
			if name, ok := metadata.Get("name"); ok {
				cell.Name = name.AsString()
				metadata.Delete("name")
			}
			cell.Metadata = metadata
			if rawCell.ExecutionCount != nil {
				cell.ExecutionCount = *rawCell.ExecutionCount
			}
			for j, rawOutput := range rawCell.Outputs {
				output, err := rawOutput.toOutput()
				if err != nil {
					return nil, &SchemaError{Cell: i, Reason: fmt.Sprintf("output %d: %v", j, err)}
				}
				cell.Outputs = append(cell.Outputs, output)
			}
			doc.Cells = append(doc.Cells, cell)
		default:
			return nil, &SchemaError{Cell: i, Reason: fmt.Sprintf("unsupported cell type %q", rawCell.CellType)}
		}
	}

	return doc, nil
}

func (o jsonOutput) toOutput() (Output, error) {
	switch o.OutputType {
	case OutputStream:
		return NewStreamResult(string(o.Text)), nil
	case OutputExecuteResult, OutputDisplayData:
		data := make(MimeBundle, len(o.Data))
		for mime, payload := range o.Data {
			data[mime] = string(payload)
		}
		result := &ResultOutput{
			OutputType: o.OutputType,
			Data:       data,
			Metadata:   o.Metadata,
		}
		if result.Metadata == nil {
			result.Metadata = make(map[string]any)
		}
		if o.ExecutionCount != nil && o.OutputType == OutputExecuteResult {
			result.ExecutionCount = *o.ExecutionCount
		}
		return result, nil
	case OutputError:
		return NewError(o.EName, o.EValue, o.Traceback), nil
	}
	return nil, fmt.Errorf("unsupported output type %q", o.OutputType)
}

type jsonMarkdownCellOut struct {
	CellType CellType `json:"cell_type"`
	Metadata Metadata `json:"metadata"`
	Source   string   `json:"source"`
}

type jsonCodeCellOut struct {
	CellType       CellType `json:"cell_type"`
	ExecutionCount int      `json:"execution_count"`
	Metadata       Metadata `json:"metadata"`
	Outputs        []any    `json:"outputs"`
	Source         string   `json:"source"`
}

type jsonResultOut struct {
	Data           MimeBundle     `json:"data"`
	ExecutionCount *int           `json:"execution_count,omitempty"`
	Metadata       map[string]any `json:"metadata"`
	OutputType     OutputType     `json:"output_type"`
}

type jsonErrorOut struct {
	EName      string     `json:"ename"`
	EValue     string     `json:"evalue"`
	OutputType OutputType `json:"output_type"`
	Traceback  []string   `json:"traceback"`
}

// WriteJSON serializes a notebook in the canonical JSON model (nbformat 4.4).
// Code cells are numbered by position.
func WriteJSON(doc *Document) ([]byte, error) {
	cells := make([]any, 0, len(doc.Cells))
	executionCount := 0
	for i, cell := range doc.Cells {
		switch c := cell.(type) {
		case *MarkdownCell:
			cells = append(cells, jsonMarkdownCellOut{
				CellType: CellTypeMarkdown,
				Metadata: c.Metadata,
				Source:   c.Source,
			})
		case *CodeCell:
			executionCount++
			var metadata Metadata
			if c.Language != "" {
				metadata.Set("lang", String(c.Language))
			}
			if c.Name != "" {
				metadata.Set("name", String(c.Name))
			}
			metadata.Merge(c.Metadata)

			outputs := make([]any, 0, len(c.Outputs))
			for _, output := range c.Outputs {
				switch o := output.(type) {
				case *ResultOutput:
					out := jsonResultOut{
						Data:       o.Data,
						Metadata:   o.Metadata,
						OutputType: o.OutputType,
					}
					if out.Data == nil {
						out.Data = MimeBundle{}
					}
					if out.Metadata == nil {
						out.Metadata = make(map[string]any)
					}
					if o.OutputType == OutputExecuteResult {
						count := executionCount
						out.ExecutionCount = &count
					}
					outputs = append(outputs, out)
				case *ErrorOutput:
					traceback := o.Traceback
					if traceback == nil {
						traceback = []string{}
					}
					outputs = append(outputs, jsonErrorOut{
						EName:      o.Name,
						EValue:     o.Value,
						OutputType: OutputError,
						Traceback:  traceback,
					})
				default:
					return nil, &SchemaError{Cell: i, Reason: fmt.Sprintf("unsupported output %T", output)}
				}
			}

			cells = append(cells, jsonCodeCellOut{
				CellType:       CellTypeCode,
				ExecutionCount: executionCount,
				Metadata:       metadata,
				Outputs:        outputs,
				Source:         c.Source,
			})
		default:
			return nil, &SchemaError{Cell: i, Reason: fmt.Sprintf("unsupported cell %T", cell)}
		}
	}

	metadata := doc.Metadata
	if metadata == nil {
		metadata = make(map[string]any)
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", " ")
	err := encoder.Encode(struct {
		Cells         []any          `json:"cells"`
		Metadata      map[string]any `json:"metadata"`
		NBFormat      int            `json:"nbformat"`
		NBFormatMinor int            `json:"nbformat_minor"`
	}{
		Cells:         cells,
		Metadata:      metadata,
		NBFormat:      NBFormat,
		NBFormatMinor: NBFormatMinor,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
