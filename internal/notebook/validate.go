package notebook

import (
	"errors"
	"fmt"
)

// ErrSchema is returned when a document does not satisfy the notebook schema.
var ErrSchema = errors.New("invalid notebook")

// SchemaError localizes a schema violation.
type SchemaError struct {
	Cell   int // -1 when the error concerns the whole document
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Cell < 0 {
		return fmt.Sprintf("%v: %s", ErrSchema, e.Reason)
	}
	return fmt.Sprintf("%v: cell %d: %s", ErrSchema, e.Cell, e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return ErrSchema
}

// Validator checks a document before it is returned to callers.
type Validator interface {
	Validate(doc *Document) error
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(doc *Document) error

func (f ValidatorFunc) Validate(doc *Document) error {
	return f(doc)
}

// Reserved keys that cannot appear in code cell metadata as they are stored separately.
var reservedCodeKeys = []string{"lang", "name"}

// SchemaValidator checks the structural invariants of a document.
type SchemaValidator struct{}

func (SchemaValidator) Validate(doc *Document) error {
	if doc == nil {
		return &SchemaError{Cell: -1, Reason: "missing document"}
	}
	executionCounts := make(map[int]int)
	for i, cell := range doc.Cells {
		switch c := cell.(type) {
		case nil:
			return &SchemaError{Cell: i, Reason: "missing cell"}
		case *MarkdownCell:
			// Nothing to check
		case *CodeCell:
			for _, key := range reservedCodeKeys {
				if c.Metadata.Has(key) {
					return &SchemaError{Cell: i, Reason: fmt.Sprintf("reserved metadata key %q", key)}
				}
			}
			if c.ExecutionCount < 0 {
				return &SchemaError{Cell: i, Reason: "negative execution count"}
			}
			if c.ExecutionCount > 0 {
				if previous, ok := executionCounts[c.ExecutionCount]; ok {
					return &SchemaError{Cell: i, Reason: fmt.Sprintf("execution count %d already used by cell %d", c.ExecutionCount, previous)}
				}
				executionCounts[c.ExecutionCount] = i
			}
			for j, output := range c.Outputs {
				if err := validateOutput(output); err != nil {
					return &SchemaError{Cell: i, Reason: fmt.Sprintf("output %d: %v", j, err)}
				}
			}
		default:
			return &SchemaError{Cell: i, Reason: fmt.Sprintf("unsupported cell %T", cell)}
		}
	}
	return nil
}

func validateOutput(output Output) error {
	switch o := output.(type) {
	case nil:
		return errors.New("missing output")
	case *ResultOutput:
		if o.OutputType != OutputExecuteResult && o.OutputType != OutputDisplayData {
			return fmt.Errorf("unsupported output type %q", o.OutputType)
		}
		if o.ExecutionCount < 0 {
			return errors.New("negative execution count")
		}
	case *ErrorOutput:
		// Nothing to check
	default:
		return fmt.Errorf("unsupported output %T", output)
	}
	return nil
}

// Validate checks a document using the default validator.
func Validate(doc *Document) error {
	return SchemaValidator{}.Validate(doc)
}
