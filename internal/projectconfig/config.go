// Package projectconfig provides the ProjectConfig struct and loader for
// .siteselect.yaml configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up from the working directory.
const FileName = ".siteselect.yaml"

// Default values for project configuration. These are the single source of
// truth. New() references them and no other code should duplicate them.
const (
	DefaultSolverURL     = "http://localhost:8080"
	DefaultSolverTimeout = 120

	DefaultCriteria = "child_mortality"
	DefaultBudget   = 100000
	DefaultFormat   = "text"

	DefaultServerPort = 3000

	DefaultPublishContainer = "siteselect-reports"
)

// SolverConfig points at the optimization backend.
type SolverConfig struct {
	URL     string `yaml:"url,omitempty"`
	Timeout int    `yaml:"timeout,omitempty"`
}

// DefaultsConfig holds default run parameters.
type DefaultsConfig struct {
	Criteria string `yaml:"criteria,omitempty"`
	Budget   int    `yaml:"budget,omitempty"`
	Format   string `yaml:"format,omitempty"`
}

// ServerConfig holds web page server settings.
type ServerConfig struct {
	Port      int   `yaml:"port,omitempty"`
	NoBrowser *bool `yaml:"no_browser,omitempty"`
}

// PublishConfig holds blob storage settings for uploaded reports.
type PublishConfig struct {
	AccountURL  string `yaml:"account_url,omitempty"`
	Container   string `yaml:"container,omitempty"`
	IncludeXLSX *bool  `yaml:"include_xlsx,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .siteselect.yaml.
type ProjectConfig struct {
	Solver   SolverConfig   `yaml:"solver,omitempty"`
	Defaults DefaultsConfig `yaml:"defaults,omitempty"`
	Server   ServerConfig   `yaml:"server,omitempty"`
	Publish  PublishConfig  `yaml:"publish,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Solver: SolverConfig{
			URL:     DefaultSolverURL,
			Timeout: DefaultSolverTimeout,
		},
		Defaults: DefaultsConfig{
			Criteria: DefaultCriteria,
			Budget:   DefaultBudget,
			Format:   DefaultFormat,
		},
		Server: ServerConfig{
			Port:      DefaultServerPort,
			NoBrowser: boolPtr(false),
		},
		Publish: PublishConfig{
			Container:   DefaultPublishContainer,
			IncludeXLSX: boolPtr(false),
		},
	}
}

// Load finds .siteselect.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .siteselect.yaml (max 10 levels).
// Returns os.ErrNotExist if no config file is found.
func findConfigFile(dir string) ([]byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Solver
	if src.Solver.URL != "" {
		dst.Solver.URL = src.Solver.URL
	}
	if src.Solver.Timeout != 0 {
		dst.Solver.Timeout = src.Solver.Timeout
	}

	// Defaults
	if src.Defaults.Criteria != "" {
		dst.Defaults.Criteria = src.Defaults.Criteria
	}
	if src.Defaults.Budget != 0 {
		dst.Defaults.Budget = src.Defaults.Budget
	}
	if src.Defaults.Format != "" {
		dst.Defaults.Format = src.Defaults.Format
	}

	// Server
	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}
	if src.Server.NoBrowser != nil {
		dst.Server.NoBrowser = src.Server.NoBrowser
	}

	// Publish
	if src.Publish.AccountURL != "" {
		dst.Publish.AccountURL = src.Publish.AccountURL
	}
	if src.Publish.Container != "" {
		dst.Publish.Container = src.Publish.Container
	}
	if src.Publish.IncludeXLSX != nil {
		dst.Publish.IncludeXLSX = src.Publish.IncludeXLSX
	}
}

func boolPtr(b bool) *bool {
	return &b
}
