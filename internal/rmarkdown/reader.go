package rmarkdown

import (
	"github.com/julien-sobczak/rnotebook/internal/notebook"
)

// Contents are the two files of a notebook.
type Contents struct {
	Source   string
	Rendered string // "" when the notebook was never rendered
}

// Reader parses the files of a notebook.
type Reader struct {
	// Strict fails on conflicting metadata between merged Markdown cells.
	Strict bool
	// Validator checks the document before returning it (nil = no validation).
	Validator notebook.Validator
}

// NewReader creates a reader validating the documents against the notebook schema.
func NewReader(strict bool) *Reader {
	return &Reader{
		Strict:    strict,
		Validator: notebook.SchemaValidator{},
	}
}

// Read parses the source file and completes code cells with the outputs
// present in the rendered file.
func (r *Reader) Read(contents Contents) (*notebook.Document, error) {
	doc, err := r.ReadSource(contents.Source)
	if err != nil {
		return nil, err
	}

	if contents.Rendered != "" {
		rendered, err := r.ReadRendered(contents.Rendered)
		if err != nil {
			return nil, err
		}
		doc.Cells, _ = Reconcile(doc.Cells, rendered)
	}

	if r.Validator != nil {
		if err := r.Validator.Validate(doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}
