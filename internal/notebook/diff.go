package notebook

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/julien-sobczak/rnotebook/pkg/text"
)

// DiffOptions controls which parts of the documents are compared.
type DiffOptions struct {
	IgnoreNotebookMetadata bool
	IgnoreCellMetadata     bool
	IgnoreOutputs          bool
}

// Diff compares two documents on their content and returns the differences found.
//
// Sources and text payloads are compared without trailing whitespace.
// Execution counts are compared only when set on both sides.
func Diff(a, b *Document, opts DiffOptions) []string {
	var diffs []string
	report := func(format string, args ...any) {
		diffs = append(diffs, fmt.Sprintf(format, args...))
	}

	if !opts.IgnoreNotebookMetadata && !sameJSON(a.Metadata, b.Metadata) {
		report("metadata: %v != %v", a.Metadata, b.Metadata)
	}

	if len(a.Cells) != len(b.Cells) {
		report("cells: %d cells != %d cells", len(a.Cells), len(b.Cells))
		return diffs
	}

	for i := range a.Cells {
		cellA, cellB := a.Cells[i], b.Cells[i]
		if cellA.Type() != cellB.Type() {
			report("cells[%d]: %s != %s", i, cellA.Type(), cellB.Type())
			continue
		}
		if text.RStripLines(cellA.Text()) != text.RStripLines(cellB.Text()) {
			report("cells[%d].source: %q != %q", i, cellA.Text(), cellB.Text())
		}
		if !opts.IgnoreCellMetadata && !cellA.Meta().Equal(cellB.Meta()) {
			report("cells[%d].metadata: %s != %s", i, cellA.Meta(), cellB.Meta())
		}

		codeA, ok := cellA.(*CodeCell)
		if !ok {
			continue
		}
		codeB := cellB.(*CodeCell)
		if !opts.IgnoreCellMetadata {
			if codeA.Language != codeB.Language {
				report("cells[%d].lang: %q != %q", i, codeA.Language, codeB.Language)
			}
			if codeA.Name != codeB.Name {
				report("cells[%d].name: %q != %q", i, codeA.Name, codeB.Name)
			}
		}
		if opts.IgnoreOutputs {
			continue
		}
		if len(codeA.Outputs) != len(codeB.Outputs) {
			report("cells[%d].outputs: %d outputs != %d outputs", i, len(codeA.Outputs), len(codeB.Outputs))
			continue
		}
		for j := range codeA.Outputs {
			for _, d := range diffOutput(codeA.Outputs[j], codeB.Outputs[j], opts) {
				report("cells[%d].outputs[%d]%s", i, j, d)
			}
		}
	}

	return diffs
}

func diffOutput(a, b Output, opts DiffOptions) []string {
	var diffs []string
	if a.Type() != b.Type() {
		return []string{fmt.Sprintf(".output_type: %s != %s", a.Type(), b.Type())}
	}
	switch outA := a.(type) {
	case *ResultOutput:
		outB := b.(*ResultOutput)
		for _, mime := range unionKeys(outA.Data, outB.Data) {
			payloadA, okA := outA.Data[mime]
			payloadB, okB := outB.Data[mime]
			if !okA || !okB || text.RStripLines(payloadA) != text.RStripLines(payloadB) {
				diffs = append(diffs, fmt.Sprintf(".data[%q]: %q != %q", mime, payloadA, payloadB))
			}
		}
		if !opts.IgnoreCellMetadata && !sameJSON(outA.Metadata, outB.Metadata) {
			diffs = append(diffs, fmt.Sprintf(".metadata: %v != %v", outA.Metadata, outB.Metadata))
		}
		if outA.ExecutionCount != 0 && outB.ExecutionCount != 0 && outA.ExecutionCount != outB.ExecutionCount {
			diffs = append(diffs, fmt.Sprintf(".execution_count: %d != %d", outA.ExecutionCount, outB.ExecutionCount))
		}
	case *ErrorOutput:
		outB := b.(*ErrorOutput)
		if outA.Name != outB.Name {
			diffs = append(diffs, fmt.Sprintf(".ename: %q != %q", outA.Name, outB.Name))
		}
		if outA.Value != outB.Value {
			diffs = append(diffs, fmt.Sprintf(".evalue: %q != %q", outA.Value, outB.Value))
		}
		if !reflect.DeepEqual(emptyIfNil(outA.Traceback), emptyIfNil(outB.Traceback)) {
			diffs = append(diffs, fmt.Sprintf(".traceback: %q != %q", outA.Traceback, outB.Traceback))
		}
	}
	return diffs
}

// sameJSON compares two values once normalized through JSON
// (ex: YAML integers and JSON float64 are equivalent).
func sameJSON(a, b any) bool {
	normalize := func(v any) any {
		data, err := json.Marshal(v)
		if err != nil {
			return v
		}
		var result any
		if err := json.Unmarshal(data, &result); err != nil {
			return v
		}
		if m, ok := result.(map[string]any); ok && len(m) == 0 {
			return nil
		}
		return result
	}
	return reflect.DeepEqual(normalize(a), normalize(b))
}

func unionKeys(a, b MimeBundle) []string {
	union := a.Clone()
	for k, v := range b {
		union[k] = v
	}
	return union.Mimes()
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
