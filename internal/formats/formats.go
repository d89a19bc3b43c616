package formats

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/julien-sobczak/rnotebook/internal/core"
	"github.com/julien-sobczak/rnotebook/internal/markdown"
	"github.com/julien-sobczak/rnotebook/internal/notebook"
	"github.com/julien-sobczak/rnotebook/internal/rmarkdown"
	"github.com/julien-sobczak/rnotebook/pkg/text"
	godiffpatch "github.com/sourcegraph/go-diff-patch"
)

// Names of the built-in formats
const (
	NotebookFormat  = "notebook"
	RMarkdownFormat = "rmarkdown"
)

// Extension of the canonical JSON files
const NotebookExtension = ".ipynb"

// ErrUnknownFormat is returned for unregistered format names or file extensions.
var ErrUnknownFormat = errors.New("unknown format")

var (
	// Lazy-load the formats and ensure a single initialization
	managerOnce      sync.Once
	managerSingleton *Manager
)

// Format describes how a notebook is stored.
type Format struct {
	Name      string
	Extension string
	Load      func(path string) (*notebook.Document, error)
	Save      func(path string, doc *notebook.Document) error
}

// Manager is a registry of formats.
type Manager struct {
	formats map[string]*Format
}

// CurrentManager returns the formats configured for the current workspace.
func CurrentManager() *Manager {
	managerOnce.Do(func() {
		var err error
		managerSingleton, err = NewManager(core.CurrentConfig())
		if err != nil {
			core.CurrentLogger().Fatalf("Unable to register formats: %v", err)
		}
	})
	return managerSingleton
}

// NewManager creates a registry containing the built-in formats.
func NewManager(config *core.Config) (*Manager, error) {
	m := &Manager{
		formats: make(map[string]*Format),
	}
	if err := m.Register(NewNotebookFormat()); err != nil {
		return nil, err
	}
	format, err := NewRMarkdownFormat(config)
	if err != nil {
		return nil, err
	}
	if err := m.Register(format); err != nil {
		return nil, err
	}
	return m, nil
}

// Register adds a new format.
func (m *Manager) Register(format *Format) error {
	if format.Name == "" || format.Extension == "" {
		return fmt.Errorf("format must have a name and an extension")
	}
	if _, ok := m.formats[format.Name]; ok {
		return fmt.Errorf("format %q already registered", format.Name)
	}
	for _, existing := range m.formats {
		if strings.EqualFold(existing.Extension, format.Extension) {
			return fmt.Errorf("extension %q already used by format %q", format.Extension, existing.Name)
		}
	}
	m.formats[format.Name] = format
	return nil
}

// Formats returns the registered formats sorted by name.
func (m *Manager) Formats() []*Format {
	var result []*Format
	for _, format := range m.formats {
		result = append(result, format)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Format returns the format registered with the given name.
func (m *Manager) Format(name string) (*Format, error) {
	format, ok := m.formats[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, name)
	}
	return format, nil
}

// FormatOf returns the format of a file based on its extension.
func (m *Manager) FormatOf(path string) (*Format, error) {
	var result *Format
	for _, format := range m.formats {
		if !text.HasExtension(path, format.Extension) {
			continue
		}
		// Prefer the most specific extension
		if result == nil || len(format.Extension) > len(result.Extension) {
			result = format
		}
	}
	if result == nil {
		return nil, fmt.Errorf("%w for file %q", ErrUnknownFormat, path)
	}
	return result, nil
}

// Load reads a notebook in the format matching the file extension.
func (m *Manager) Load(path string) (*notebook.Document, error) {
	format, err := m.FormatOf(path)
	if err != nil {
		return nil, err
	}
	core.CurrentLogger().Debugf("Loading %s as %s", path, format.Name)
	doc, err := format.Load(path)
	if err != nil {
		return nil, fmt.Errorf("unable to load %s: %w", path, err)
	}
	return doc, nil
}

// Save writes a notebook in the format matching the file extension.
func (m *Manager) Save(path string, doc *notebook.Document) error {
	format, err := m.FormatOf(path)
	if err != nil {
		return err
	}
	core.CurrentLogger().Debugf("Saving %s as %s", path, format.Name)
	if err := format.Save(path, doc); err != nil {
		return fmt.Errorf("unable to save %s: %w", path, err)
	}
	return nil
}

// Convert loads a notebook and saves it in another format next to the original file.
// The path of the new file is returned.
func (m *Manager) Convert(path string, to string) (string, error) {
	target, err := m.Format(to)
	if err != nil {
		return "", err
	}
	source, err := m.FormatOf(path)
	if err != nil {
		return "", err
	}
	if source.Name == target.Name {
		return "", fmt.Errorf("%s is already in format %q", path, to)
	}

	doc, err := m.Load(path)
	if err != nil {
		return "", err
	}
	newPath := path[:len(path)-len(source.Extension)] + target.Extension
	if err := m.Save(newPath, doc); err != nil {
		return "", err
	}
	core.CurrentLogger().Infof("Converted %s to %s", path, newPath)
	return newPath, nil
}

// Check loads a notebook and saves it again in a temporary directory.
// The returned patch is empty when the file is reproduced identically.
func (m *Manager) Check(path string) (string, error) {
	doc, err := m.Load(path)
	if err != nil {
		return "", err
	}

	dir, err := os.MkdirTemp("", "rnb-check")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(dir)

	newPath := filepath.Join(dir, filepath.Base(path))
	if err := m.Save(newPath, doc); err != nil {
		return "", err
	}

	before, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	after, err := os.ReadFile(newPath)
	if err != nil {
		return "", err
	}
	if bytes.Equal(before, after) {
		core.CurrentLogger().Infof("%s is stable", path)
		return "", nil
	}
	return godiffpatch.GeneratePatch(filepath.Base(path), string(before), string(after)), nil
}

// Convert converts a file using the formats of the current workspace.
func Convert(path string, to string) (string, error) {
	return CurrentManager().Convert(path, to)
}

// Check checks a file using the formats of the current workspace.
func Check(path string) (string, error) {
	return CurrentManager().Check(path)
}

/* Built-in formats */

// NewNotebookFormat supports the canonical JSON model.
func NewNotebookFormat() *Format {
	return &Format{
		Name:      NotebookFormat,
		Extension: NotebookExtension,
		Load: func(path string) (*notebook.Document, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			doc, err := notebook.ReadJSON(data)
			if err != nil {
				return nil, err
			}
			if err := notebook.Validate(doc); err != nil {
				return nil, err
			}
			return doc, nil
		},
		Save: func(path string, doc *notebook.Document) error {
			data, err := notebook.WriteJSON(doc)
			if err != nil {
				return err
			}
			return os.WriteFile(path, data, 0644)
		},
	}
}

// NewRMarkdownFormat supports pairs of source and rendered files.
func NewRMarkdownFormat(config *core.Config) (*Format, error) {
	settings := config.ConfigFile
	renderer, err := markdown.NewHTMLRenderer(settings.HTML.Extensions)
	if err != nil {
		return nil, err
	}

	return &Format{
		Name:      RMarkdownFormat,
		Extension: settings.RMarkdown.SourceExtension,
		Load: func(path string) (*notebook.Document, error) {
			contents, err := rmarkdown.NewPair(path, settings.RMarkdown.RenderedExtension).Load()
			if err != nil {
				return nil, err
			}
			return rmarkdown.NewReader(settings.Core.Strict).Read(contents)
		},
		Save: func(path string, doc *notebook.Document) error {
			pair := rmarkdown.NewPair(path, settings.RMarkdown.RenderedExtension)
			writer := &rmarkdown.Writer{
				DefaultLanguage: settings.Core.Language,
				Title:           settings.RMarkdown.Title,
				Filename:        filepath.Base(path),
				Renderer:        renderer,
			}
			contents, err := writer.Write(doc)
			if err != nil {
				return err
			}
			return pair.Save(contents)
		},
	}, nil
}
