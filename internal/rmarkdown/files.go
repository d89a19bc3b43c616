package rmarkdown

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/julien-sobczak/rnotebook/internal/core"
	"github.com/julien-sobczak/rnotebook/pkg/text"
)

// Default extension of rendered files
const DefaultRenderedExtension = ".nb.html"

// Pair locates the two files of a notebook.
type Pair struct {
	SourcePath   string
	RenderedPath string
}

// NewPair derives the path of the rendered file from the path of the source file.
//
// Ex: ("notes/analysis.Rmd", ".nb.html") => "notes/analysis.nb.html"
func NewPair(sourcePath string, renderedExtension string) Pair {
	if renderedExtension == "" {
		renderedExtension = DefaultRenderedExtension
	}
	return Pair{
		SourcePath:   sourcePath,
		RenderedPath: text.ReplaceExtension(sourcePath, renderedExtension),
	}
}

// Load reads both files. The rendered file is optional. When the source file
// is missing, the source is recovered from the rendered file.
func (p Pair) Load() (Contents, error) {
	var contents Contents

	rendered, err := os.ReadFile(p.RenderedPath)
	switch {
	case err == nil:
		core.CurrentLogger().Debugf("Loaded rendered file %s", p.RenderedPath)
		contents.Rendered = string(rendered)
	case !errors.Is(err, fs.ErrNotExist):
		return Contents{}, err
	}

	source, err := os.ReadFile(p.SourcePath)
	switch {
	case err == nil:
		core.CurrentLogger().Debugf("Loaded source file %s", p.SourcePath)
		contents.Source = string(source)
	case errors.Is(err, fs.ErrNotExist) && contents.Rendered != "":
		recovered, err := ExtractSource(contents.Rendered)
		if err != nil {
			return Contents{}, fmt.Errorf("unable to recover %s from %s: %w", p.SourcePath, p.RenderedPath, err)
		}
		core.CurrentLogger().Infof("Recovered missing source file %s from %s", p.SourcePath, p.RenderedPath)
		contents.Source = recovered
	default:
		return Contents{}, err
	}

	return contents, nil
}

// Save writes both files. The rendered file is not written when empty.
func (p Pair) Save(contents Contents) error {
	if err := os.WriteFile(p.SourcePath, []byte(contents.Source), 0644); err != nil {
		return err
	}
	core.CurrentLogger().Debugf("Saved source file %s", p.SourcePath)
	if contents.Rendered == "" {
		return nil
	}
	if err := os.WriteFile(p.RenderedPath, []byte(contents.Rendered), 0644); err != nil {
		return err
	}
	core.CurrentLogger().Debugf("Saved rendered file %s", p.RenderedPath)
	return nil
}
