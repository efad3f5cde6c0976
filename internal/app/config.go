package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultStateLimit bounds the search states one word may expand in the daemon.
const DefaultStateLimit = 200000

// Environment variables that override config.yaml.
const (
	EnvDB             = "RADIKO_DB"
	EnvLexiconDir     = "RADIKO_LEXICON_DIR"
	EnvLogLevel       = "RADIKO_LOG_LEVEL"
	EnvStateLimit     = "RADIKO_STATE_LIMIT"
	EnvDefaultLexicon = "RADIKO_DEFAULT_LEXICON"
)

// Config holds initialization parameters for the App.
// Relative paths are resolved against Workspace.
type Config struct {
	Workspace      string `yaml:"-"`
	DBPath         string `yaml:"db"`
	LexiconDir     string `yaml:"lexicon_dir"`
	DefaultLexicon string `yaml:"default_lexicon"`
	StateLimit     int    `yaml:"state_limit"` // 0 = unbounded
	LogLevel       string `yaml:"log_level"`
	Watch          bool   `yaml:"watch"` // reimport lexicon files when they change
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig(workspace string) Config {
	p := NewPaths(workspace)
	return Config{
		Workspace:  workspace,
		DBPath:     p.DB,
		LexiconDir: p.LexiconDir,
		StateLimit: DefaultStateLimit,
		LogLevel:   "info",
		Watch:      true,
	}
}

// LoadConfig resolves the configuration for workspace: defaults, then
// .radiko/config.yaml, then the environment. A workspace .env file is loaded
// into the environment first; variables already set win over it.
func LoadConfig(workspace string) (Config, error) {
	cfg := DefaultConfig(workspace)
	p := NewPaths(workspace)

	data, err := os.ReadFile(p.Config)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", p.Config, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := godotenv.Load(p.Env); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load %s: %w", p.Env, err)
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	cfg.DBPath = resolve(workspace, cfg.DBPath)
	cfg.LexiconDir = resolve(workspace, cfg.LexiconDir)
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDB); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvLexiconDir); v != "" {
		c.LexiconDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvDefaultLexicon); v != "" {
		c.DefaultLexicon = v
	}
	if v := os.Getenv(EnvStateLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStateLimit, err)
		}
		c.StateLimit = n
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Workspace == "" {
		return fmt.Errorf("workspace required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db path required")
	}
	if c.StateLimit < 0 {
		return fmt.Errorf("state_limit must not be negative, got %d", c.StateLimit)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Save writes c to the workspace config file.
func (c Config) Save() error {
	p := NewPaths(c.Workspace)
	if err := os.MkdirAll(p.Root, 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(p.Config, data, 0644)
}

func resolve(workspace, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workspace, path)
}
