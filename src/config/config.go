package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const defaultConfigFile = ".badgetag.yml"

// DefaultTarget is the build target used when neither the flag nor the
// config file names one.
const DefaultTarget = "html"

// Config is the top-level badgetag configuration.
type Config struct {
	Target  string       `yaml:"target" toml:"target"`     // default build target (html, pdf, docx, ...)
	GitVars bool         `yaml:"git_vars" toml:"git_vars"` // seed vars from the git repository
	Badges  Options      `yaml:"badges" toml:"badges"`     // global badge option layer
	Source  SourceConfig `yaml:"source" toml:"source"`
}

// SourceConfig controls which documents are scanned for badge tags.
type SourceConfig struct {
	Include   []string `yaml:"include" toml:"include"`     // globs of documents to process
	Exclude   []string `yaml:"exclude" toml:"exclude"`     // globs removed from the include set
	SkipCode  bool     `yaml:"skip_code" toml:"skip_code"` // leave tags inside markdown code untouched
	Gitignore bool     `yaml:"gitignore" toml:"gitignore"` // honor the root .gitignore
}

// DefaultSourceConfig returns the default document selection.
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		Include:   []string{"**/*.md"},
		SkipCode:  true,
		Gitignore: true,
	}
}

// Load reads configuration from a YAML or TOML file.
// If path is empty, it tries the default file and returns defaults when
// that file doesn't exist. An explicitly named file must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return defaults(), nil
		}
		return nil, err
	}

	cfg := defaults()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Target: DefaultTarget,
		Source: DefaultSourceConfig(),
	}
}
