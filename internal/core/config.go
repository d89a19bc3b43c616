package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// How many parent directories to traverse before considering a directory as not a notebook workspace
const maxDepth = 10

// Default .rnb/config content
const DefaultConfig = `
[core]
language = "python"
strict = false

[rmarkdown]
source_extension = ".Rmd"
rendered_extension = ".nb.html"
title = "RNB Notebook"

[html]
extensions = ["tables", "fenced-code", "autolink", "strikethrough"]
`

var (
	// Lazy-load configuration and ensure a single read
	configOnce      sync.Once
	configSingleton *Config
)

// Note: Fields must be public for toml package to unmarshall
type ConfigFile struct {
	Core      ConfigCore
	RMarkdown ConfigRMarkdown `toml:"rmarkdown"`
	HTML      ConfigHTML      `toml:"html"`
}
type ConfigCore struct {
	// Language of code cells when neither the cell nor the kernelspec defines one
	Language string
	// Raise an error when merged Markdown cells define the same metadata differently
	Strict bool
}
type ConfigRMarkdown struct {
	SourceExtension   string `toml:"source_extension"`
	RenderedExtension string `toml:"rendered_extension"`
	// Default <title> of rendered files
	Title string
}
type ConfigHTML struct {
	// Markdown extensions enabled when rendering prose to HTML
	Extensions []string
}

/* Main config */

type Config struct {
	// Absolute top directory containing the .rnb sub-directory ("" when using default settings)
	RootDirectory string

	// .rnb/config content
	ConfigFile ConfigFile
}

// SetStrict overrides the strict mode read from the configuration file.
func (c *Config) SetStrict(strict bool) {
	c.ConfigFile.Core.Strict = strict
}

// SetLanguage overrides the default language read from the configuration file.
func (c *Config) SetLanguage(language string) {
	c.ConfigFile.Core.Language = language
}

// CurrentConfig returns the configuration of the current workspace
// or the default configuration when outside a workspace.
func CurrentConfig() *Config {
	configOnce.Do(func() {
		var err error
		configSingleton, err = ReadConfigFromDirectory(currentHome())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to read current configuration: %v\n", err)
			os.Exit(1)
		}
		if configSingleton == nil {
			configSingleton, err = DefaultSettings()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Unable to read default configuration: %v\n", err)
				os.Exit(1)
			}
		}
	})
	return configSingleton
}

// DefaultSettings returns the configuration used outside a workspace.
func DefaultSettings() (*Config, error) {
	configFile, err := parseConfigFile(DefaultConfig)
	if err != nil {
		return nil, fmt.Errorf("default configuration is broken: %v", err)
	}
	return &Config{
		ConfigFile: *configFile,
	}, nil
}

func currentHome() string {
	// Supports overriding the root directory mainly for testing purposes. Ex:
	//
	//   $ env RNB_HOME=./notebooks go run ./cmd/rnb convert analysis.Rmd
	if path, ok := os.LookupEnv("RNB_HOME"); ok {
		abspath, err := filepath.Abs(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to evaluate $RNB_HOME")
			os.Exit(1)
		}
		if _, err := os.Stat(abspath); os.IsNotExist(err) {
			fmt.Fprintln(os.Stderr, "Path in $RNB_HOME undefined")
			os.Exit(1)
		}
		return abspath
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to determine current directory: %v\n", err)
		os.Exit(1)
	}
	return cwd
}

// ReadConfigFromDirectory loads the configuration by searching for a .rnb directory in the given directory
// or any parent directories. It returns nil when no such directory exists.
func ReadConfigFromDirectory(path string) (*Config, error) {
	rootPath := path
	i := 0 // Safeguard to not go up too far
	for {
		i++
		if i > maxDepth {
			return nil, nil
		}
		rnbPath := filepath.Join(rootPath, ".rnb")
		_, err := os.Stat(rnbPath)
		if os.IsNotExist(err) {
			if len(strings.Split(rootPath, string(os.PathSeparator))) <= 2 {
				// Root directory detected
				return nil, nil
			}
			rootPath = filepath.Clean(filepath.Join(rootPath, ".."))
		} else if err != nil {
			return nil, fmt.Errorf("error while searching for configuration directory: %v", err)
		} else {
			break
		}
	}

	// Check for .rnb/config
	rnbConfigPath := filepath.Join(rootPath, ".rnb", "config")
	_, err := os.Stat(rnbConfigPath)
	var configFile *ConfigFile
	if os.IsNotExist(err) {
		configFile, err = parseConfigFile(DefaultConfig)
		if err != nil {
			return nil, fmt.Errorf("default configuration is broken: %v", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to check for .rnb/config file: %v", err)
	} else {
		content, err := os.ReadFile(rnbConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read .rnb/config file: %v", err)
		}
		configFile, err = parseConfigFile(string(content))
		if err != nil {
			return nil, fmt.Errorf("failed to parse .rnb/config file: %v", err)
		}
	}

	return &Config{
		RootDirectory: rootPath,
		ConfigFile:    *configFile,
	}, nil
}

// parseConfigFile reads a TOML configuration. Missing settings keep their default value.
func parseConfigFile(content string) (*ConfigFile, error) {
	r := strings.NewReader(content)
	d := toml.NewDecoder(r)
	d.DisallowUnknownFields()
	var result ConfigFile
	if err := d.Decode(&result); err != nil {
		return nil, err
	}
	if content != DefaultConfig {
		defaults, err := parseConfigFile(DefaultConfig)
		if err != nil {
			return nil, err
		}
		result.applyDefaults(defaults)
	}
	if err := result.Check(); err != nil {
		return nil, err
	}
	return &result, nil
}

func (f *ConfigFile) applyDefaults(defaults *ConfigFile) {
	if f.Core.Language == "" {
		f.Core.Language = defaults.Core.Language
	}
	if f.RMarkdown.SourceExtension == "" {
		f.RMarkdown.SourceExtension = defaults.RMarkdown.SourceExtension
	}
	if f.RMarkdown.RenderedExtension == "" {
		f.RMarkdown.RenderedExtension = defaults.RMarkdown.RenderedExtension
	}
	if f.RMarkdown.Title == "" {
		f.RMarkdown.Title = defaults.RMarkdown.Title
	}
	if f.HTML.Extensions == nil {
		f.HTML.Extensions = defaults.HTML.Extensions
	}
}

// Check validates the settings.
func (f *ConfigFile) Check() error {
	if strings.TrimSpace(f.Core.Language) == "" {
		return errors.New("core.language must not be empty")
	}
	for name, extension := range map[string]string{
		"rmarkdown.source_extension":   f.RMarkdown.SourceExtension,
		"rmarkdown.rendered_extension": f.RMarkdown.RenderedExtension,
	} {
		if !strings.HasPrefix(extension, ".") {
			return fmt.Errorf("%s must start with a dot, got %q", name, extension)
		}
	}
	if strings.EqualFold(f.RMarkdown.SourceExtension, f.RMarkdown.RenderedExtension) {
		return errors.New("source and rendered extensions must differ")
	}
	return nil
}
