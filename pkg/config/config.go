// Package config handles loading and saving mandal configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/mandal/config.yaml
//   - Data:    ~/.local/share/mandal/ (exported images)
//   - State:   ~/.local/state/mandal/ (board storage, debug log)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const appName = "mandal"

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// StorageConfig selects where the board is persisted.
type StorageConfig struct {
	Backend string `yaml:"backend,omitempty"` // file, sqlite, memory
	Path    string `yaml:"path,omitempty"`    // directory (file) or database file (sqlite)
}

// ExportConfig controls image export.
type ExportConfig struct {
	Dir         string `yaml:"dir,omitempty"`
	Format      string `yaml:"format,omitempty"`       // png or svg
	FontRegular string `yaml:"font_regular,omitempty"` // TrueType file; needed for Hangul glyphs
	FontBold    string `yaml:"font_bold,omitempty"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	StartPane string `yaml:"start_pane,omitempty"` // overview or detail
}

// Config is the top-level configuration for mandal.
type Config struct {
	Storage StorageConfig `yaml:"storage,omitempty"`
	Export  ExportConfig  `yaml:"export,omitempty"`
	UI      UIConfig      `yaml:"ui,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Backend: BackendFile,
			Path:    filepath.Join(StateDir(), "store"),
		},
		Export: ExportConfig{
			Dir:    DataDir(),
			Format: "png",
		},
		UI: UIConfig{
			StartPane: "overview",
		},
	}
}

// ConfigDir returns the XDG config directory for mandal.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the XDG data directory for mandal.
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// StateDir returns the XDG state directory for mandal.
func StateDir() string {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func xdgDir(env, homeRel string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, homeRel, appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// DebugLogPath is where the TUI writes debug output.
func DebugLogPath() string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "debug.log")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return applyEnv(DefaultConfig()), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return applyEnv(cfg), nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}

	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	cfg.Export.Dir = expandHome(cfg.Export.Dir)
	cfg.Export.FontRegular = expandHome(cfg.Export.FontRegular)
	cfg.Export.FontBold = expandHome(cfg.Export.FontBold)

	cfg = applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// applyEnv lets MANDAL_STORAGE and MANDAL_EXPORT_DIR override the file.
func applyEnv(cfg Config) Config {
	if v := strings.TrimSpace(os.Getenv("MANDAL_STORAGE")); v != "" {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("MANDAL_EXPORT_DIR")); v != "" {
		cfg.Export.Dir = expandHome(v)
	}
	return cfg
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("invalid storage backend %q (want file, sqlite or memory)", c.Storage.Backend)
	}
	switch strings.ToLower(c.Export.Format) {
	case "png", "svg":
	default:
		return fmt.Errorf("invalid export format %q (want png or svg)", c.Export.Format)
	}
	switch c.UI.StartPane {
	case "overview", "detail":
	default:
		return fmt.Errorf("invalid start pane %q (want overview or detail)", c.UI.StartPane)
	}
	return nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
