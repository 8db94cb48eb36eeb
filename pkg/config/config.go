// Package config loads the optional ivy.yaml project configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-ivy/ivy/pkg/binding"
	ivyerrors "github.com/go-ivy/ivy/pkg/errors"
)

// FileName is the configuration file looked up in a project directory.
const FileName = "ivy.yaml"

// DefaultVersion is the schema version assumed when ivy.yaml omits one.
const DefaultVersion = "v1.0.0"

// Config represents the optional ivy.yaml configuration.
type Config struct {
	Version string        `yaml:"version,omitempty"`
	Binding BindingConfig `yaml:"binding"`
	Log     LogConfig     `yaml:"log"`
}

// BindingConfig contains walker settings.
type BindingConfig struct {
	Attribute         string   `yaml:"attribute,omitempty"`
	BooleanAttributes []string `yaml:"boolean_attributes,omitempty"`
}

// LogConfig contains diagnostic output settings.
type LogConfig struct {
	Verbose bool `yaml:"verbose,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root              string
	Version           string
	Attribute         string
	BooleanAttributes []string
	Verbose           bool
}

// LoadOptional reads ivy.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}
	return Parse(data)
}

// Parse decodes ivy.yaml contents. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	return &cfg, nil
}

// Resolve loads ivy.yaml from dir (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	r, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	r.Root = dir
	return r, nil
}

// Resolve validates cfg and fills in defaults.
func (cfg *Config) Resolve() (*Resolved, error) {
	version, err := resolveVersion(cfg.Version)
	if err != nil {
		return nil, err
	}

	attribute := strings.TrimSpace(cfg.Binding.Attribute)
	if attribute == "" {
		attribute = binding.DefaultAttribute
	}
	if strings.ContainsAny(attribute, " \t\n=\"'") {
		return nil, fmt.Errorf("binding.attribute is not a valid attribute name (%q)", attribute)
	}

	boolean := binding.DefaultBooleanAttributes
	if cfg.Binding.BooleanAttributes != nil {
		boolean = nil
		for _, name := range cfg.Binding.BooleanAttributes {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				return nil, fmt.Errorf("binding.boolean_attributes contains an empty name")
			}
			boolean = append(boolean, name)
		}
	}

	return &Resolved{
		Version:           version,
		Attribute:         strings.ToLower(attribute),
		BooleanAttributes: boolean,
		Verbose:           cfg.Log.Verbose,
	}, nil
}

// WalkerOptions returns the walker options the configuration describes.
func (r *Resolved) WalkerOptions() []binding.Option {
	return []binding.Option{
		binding.WithAttribute(r.Attribute),
		binding.WithBooleanAttributes(r.BooleanAttributes...),
	}
}

// Handler returns a log handler writing to out with the configured
// verbosity.
func (r *Resolved) Handler(out io.Writer) *ivyerrors.LogHandler {
	return &ivyerrors.LogHandler{Verbose: r.Verbose, Out: out}
}

// FindProjectRoot walks up from dir to the nearest directory holding
// ivy.yaml. It returns dir itself when none is found.
func FindProjectRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for d := abs; ; {
		if _, err := os.Stat(filepath.Join(d, FileName)); err == nil {
			return d, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			return abs, nil
		}
		d = parent
	}
}

func resolveVersion(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return DefaultVersion, nil
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("version is not a semantic version (%q)", v)
	}
	if semver.Major(v) != "v1" {
		return "", fmt.Errorf("unsupported config version %s (want v1.x)", v)
	}
	return semver.Canonical(v), nil
}
