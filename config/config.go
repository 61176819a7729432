// Package config reads the optional harness configuration file of a project.
//
// The file is named uimock.yaml and lives at the module root. Every setting has a default, so a
// project without the file gets the conventional layout: frontend/ and node_modules/ at the root.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file at the module root.
const FileName = "uimock.yaml"

const (
	defaultFrontendDir    = "frontend"
	defaultNodeModulesDir = "node_modules"
	defaultLocation       = "http://localhost:8080"
)

// Config is the contents of uimock.yaml.
type Config struct {
	FrontendDir    string          `yaml:"frontendDir,omitempty"`
	NodeModulesDir string          `yaml:"nodeModulesDir,omitempty"`
	ResourceDirs   []string        `yaml:"resourceDirs,omitempty"`
	Location       string          `yaml:"location,omitempty"`
	Session        SessionConfig   `yaml:"session"`
	Templates      []TemplateCheck `yaml:"templates,omitempty"`
}

// SessionConfig configures the mock session.
type SessionConfig struct {
	MaxInactiveSeconds *int `yaml:"maxInactiveSeconds,omitempty"`
}

// TemplateCheck names a template the diagnostic suite should be able to resolve.
type TemplateCheck struct {
	Tag string `yaml:"tag"`
	URL string `yaml:"url"`
}

// Resolved is the configuration with defaults applied and directories made absolute.
type Resolved struct {
	Root                string
	ModulePath          string
	FrontendDir         string
	NodeModulesDir      string
	ResourceDirs        []string
	Location            string
	MaxInactiveInterval time.Duration
	Templates           []TemplateCheck
}

// LoadOptional reads dir/uimock.yaml if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	return &cfg, nil
}

// Resolve finds the project root above dir, loads its configuration and applies defaults.
func Resolve(dir string) (*Resolved, error) {
	root, err := FindProjectRoot(dir)
	if err != nil {
		return nil, err
	}
	modulePath, err := ModulePath(root)
	if err != nil {
		return nil, err
	}
	cfg, err := LoadOptional(root)
	if err != nil {
		return nil, err
	}

	r := &Resolved{
		Root:           root,
		ModulePath:     modulePath,
		FrontendDir:    anchor(root, cfg.FrontendDir, defaultFrontendDir),
		NodeModulesDir: anchor(root, cfg.NodeModulesDir, defaultNodeModulesDir),
		Location:       strings.TrimSpace(cfg.Location),
		Templates:      cfg.Templates,
	}
	if r.Location == "" {
		r.Location = defaultLocation
	}
	for _, d := range cfg.ResourceDirs {
		r.ResourceDirs = append(r.ResourceDirs, anchor(root, d, d))
	}
	if s := cfg.Session.MaxInactiveSeconds; s != nil {
		if *s < 0 {
			return nil, fmt.Errorf("%s: session.maxInactiveSeconds must not be negative", FileName)
		}
		r.MaxInactiveInterval = time.Duration(*s) * time.Second
	}
	for i, tc := range r.Templates {
		if tc.Tag == "" || tc.URL == "" {
			return nil, fmt.Errorf("%s: templates[%d] needs both tag and url", FileName, i)
		}
	}
	return r, nil
}

func anchor(root, value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		value = fallback
	}
	if filepath.IsAbs(value) {
		return value
	}
	return filepath.Join(root, value)
}
