package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level tool configuration.
type Config struct {
	// StorePath is the YAML file holding the medication list. If empty,
	// it defaults to "medications.yaml" next to the config file.
	StorePath string `yaml:"store_path" json:"store_path"`

	// OutputDir is where exported calendar files are written.
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// Filename is the default name for exported calendar files.
	Filename string `yaml:"filename" json:"filename"`

	// UserAgent is the user-agent style string fed to platform
	// classification when selecting a delivery strategy. If empty, a
	// desktop classification is assumed.
	UserAgent string `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`

	// LogLevel is one of debug/info/warn/error.
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		StorePath: "",
		OutputDir: ".",
		Filename:  "medication_schedule.ics",
		UserAgent: "",
		LogLevel:  "info",
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.Filename == "" {
		c.Filename = "medication_schedule.ics"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist: create the parent directory, write a
//     default config with 0600 perms, and return the default config.
//   - If the file exists: read YAML, unmarshal, normalize defaults.
//
// A relative StorePath is resolved against the config file's directory.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			cfg.resolveStorePath(path)
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	cfg.resolveStorePath(path)

	return &cfg, nil
}

func (c *Config) resolveStorePath(configPath string) {
	if c.StorePath == "" {
		c.StorePath = filepath.Join(filepath.Dir(configPath), "medications.yaml")
		return
	}
	if !filepath.IsAbs(c.StorePath) {
		c.StorePath = filepath.Join(filepath.Dir(configPath), c.StorePath)
	}
}

// Save writes the given configuration to the specified path.
//
//   - Ensures the parent directory exists (0700).
//   - Writes atomically via a temp file + rename.
//   - Final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".pillbox-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Clean up the temp file on any error path.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
