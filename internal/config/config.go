package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWorkspace  = "."
	DefaultStore      = "file"
	DefaultIgnoreFile = ".driftignore"
	DefaultModel      = "haiku"
	DefaultLogLevel   = "info"
	DefaultDebounce   = 300 * time.Millisecond

	// StateDir holds the plan document and config inside a workspace
	StateDir = ".driftmap"
	// ConfigFile is the config file name inside StateDir
	ConfigFile = "config.yaml"
)

// Config holds the settings shared by every driftmap entry point
type Config struct {
	Workspace     string        `yaml:"-" validate:"required"`
	Store         string        `yaml:"store" validate:"oneof=file sqlite"`
	DatabasePath  string        `yaml:"database"`
	IgnoreFile    string        `yaml:"ignore_file" validate:"required"`
	Ignore        []string      `yaml:"ignore"`
	Model         string        `yaml:"model" validate:"required"`
	LogLevel      string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFile       string        `yaml:"log_file"`
	WatchDebounce time.Duration `yaml:"watch_debounce" validate:"gte=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// WorkspacePath returns the workspace from DRIFTMAP_WORKSPACE,
// falling back to DefaultWorkspace.
func WorkspacePath() string {
	if env := os.Getenv("DRIFTMAP_WORKSPACE"); env != "" {
		return env
	}
	return DefaultWorkspace
}

// Default returns the built-in configuration for a workspace
func Default(workspace string) *Config {
	return &Config{
		Workspace:     ExpandHome(workspace),
		Store:         DefaultStore,
		IgnoreFile:    DefaultIgnoreFile,
		Model:         DefaultModel,
		LogLevel:      DefaultLogLevel,
		WatchDebounce: DefaultDebounce,
	}
}

// Load builds the configuration for workspace. Values are layered:
// defaults, then the YAML file, then environment variables. An empty path
// means <workspace>/.driftmap/config.yaml, which may be absent; an explicit
// path must exist.
func Load(workspace, path string) (*Config, error) {
	cfg := Default(workspace)

	explicit := path != ""
	if !explicit {
		path = filepath.Join(cfg.Workspace, StateDir, ConfigFile)
	}

	data, err := os.ReadFile(ExpandHome(path))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// No config file is fine
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DRIFTMAP_STORE"); v != "" {
		cfg.Store = v
	}
	if v := os.Getenv("DRIFTMAP_DATABASE"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("DRIFTMAP_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("DRIFTMAP_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("DRIFTMAP_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			var msgs []string
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// PlanPath returns the JSON plan document location
func (c *Config) PlanPath() string {
	return filepath.Join(c.Workspace, StateDir, "plan.json")
}

// IgnoreFilePath returns the ignore file location inside the workspace
func (c *Config) IgnoreFilePath() string {
	if filepath.IsAbs(c.IgnoreFile) {
		return c.IgnoreFile
	}
	return filepath.Join(c.Workspace, c.IgnoreFile)
}

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
