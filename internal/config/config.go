package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"imgfilter/internal/errors"

	"github.com/go-playground/validator"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Collision strategies understood by the transfer engine.
const (
	CollisionOverwrite = "overwrite"
	CollisionRename    = "rename"
	CollisionSkip      = "skip"
	CollisionError     = "error"
)

// Config represents the application configuration structure.
// It defines which files count as images, how copies are made and how a
// sorting session lays out its output folders.
type Config struct {
	Images struct {
		Extensions []string `yaml:"extensions" validate:"min=1,dive,required"` // Image extensions, without the dot
	} `yaml:"images"`
	Settings struct {
		Collision    string `yaml:"collision" validate:"oneof=overwrite rename skip error"` // Collision strategy
		CreateDirs   bool   `yaml:"create_dirs"`                                             // Create destination directories
		DryRun       bool   `yaml:"dry_run"`                                                 // If true, simulate file operations
		ConfirmPurge bool   `yaml:"confirm_purge"`                                           // Offer to delete originals at the end; false always keeps them
	} `yaml:"settings"`
	Session struct {
		FolderPrefix    string `yaml:"folder_prefix" validate:"required"`    // Output folder name prefix
		TimestampFormat string `yaml:"timestamp_format" validate:"required"` // Go time layout appended to the prefix
		Folders         struct {
			Favorite string `yaml:"favorite" validate:"required"`
			Keep     string `yaml:"keep" validate:"required"`
			Delete   string `yaml:"delete" validate:"required"`
		} `yaml:"folders"`
	} `yaml:"session"`
	Watch struct {
		Enabled bool `yaml:"enabled"` // Report images added to or removed from the source folder
	} `yaml:"watch"`
	Log struct {
		Debug bool   `yaml:"debug"`
		JSON  bool   `yaml:"json"`
		File  string `yaml:"file"` // Optional log file; the TUI always needs one to keep the screen clean
	} `yaml:"log"`
}

// DefaultPath returns ~/.config/imgfilter/config.yaml.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "imgfilter", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.NewConfigError("invalid config path", path, errors.InvalidConfig, err)
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.FileErrorFromOS("error reading config file", expanded, err)
	}

	// Keys absent from the file keep their defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", expanded, errors.InvalidConfig, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Images.Extensions = []string{"jpg", "png", "jpeg"}

	cfg.Settings.Collision = CollisionOverwrite
	cfg.Settings.CreateDirs = true
	cfg.Settings.DryRun = false
	cfg.Settings.ConfirmPurge = true

	cfg.Session.FolderPrefix = "Image Filter"
	cfg.Session.TimestampFormat = "20060102150405"
	cfg.Session.Folders.Favorite = "Favorites"
	cfg.Session.Folders.Keep = "Keep"
	cfg.Session.Folders.Delete = "Delete"

	cfg.Watch.Enabled = true

	return cfg
}

// normalize lower-cases extensions and strips leading dots.
func (c *Config) normalize() {
	for i, ext := range c.Images.Extensions {
		c.Images.Extensions[i] = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	}
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return errors.NewConfigError("invalid config path", path, errors.InvalidConfig, err)
	}

	if err := os.MkdirAll(filepath.Dir(expanded), 0755); err != nil {
		return errors.FileErrorFromOS("failed to create config directory", filepath.Dir(expanded), err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(expanded, data, 0644); err != nil {
		return errors.FileErrorFromOS("failed to write config file", expanded, err)
	}

	return nil
}

var validate = validator.New()

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			first := verrs[0]
			return errors.NewConfigError("invalid configuration", first.Namespace(), errors.InvalidConfig,
				fmt.Errorf("failed %q check (value %v)", first.Tag(), first.Value()))
		}
		return errors.NewConfigError("invalid configuration", "", errors.InvalidConfig, err)
	}

	for _, ext := range c.Images.Extensions {
		if strings.ContainsAny(ext, "*?[]{},/\\") {
			return errors.NewConfigError("invalid configuration", "images.extensions", errors.InvalidConfig,
				fmt.Errorf("extension %q contains pattern or path characters", ext))
		}
	}

	// The session folder is "<prefix> <timestamp>" directly inside the source
	for param, value := range map[string]string{
		"session.folder_prefix":    c.Session.FolderPrefix,
		"session.timestamp_format": c.Session.TimestampFormat,
	} {
		if strings.ContainsAny(value, `/\`) {
			return errors.NewConfigError("invalid configuration", param, errors.InvalidConfig,
				fmt.Errorf("%q must not contain path separators", value))
		}
	}

	folders := []string{c.Session.Folders.Favorite, c.Session.Folders.Keep, c.Session.Folders.Delete}
	seen := make(map[string]bool, len(folders))
	for _, name := range folders {
		if strings.ContainsAny(name, `/\`) {
			return errors.NewConfigError("invalid configuration", "session.folders", errors.InvalidConfig,
				fmt.Errorf("folder name %q must not contain path separators", name))
		}
		if seen[name] {
			return errors.NewConfigError("invalid configuration", "session.folders", errors.InvalidConfig,
				fmt.Errorf("folder name %q used for more than one category", name))
		}
		seen[name] = true
	}

	return nil
}

// LogFile returns the configured log file with ~ expanded, or "".
func (c *Config) LogFile() (string, error) {
	if c.Log.File == "" {
		return "", nil
	}
	return homedir.Expand(c.Log.File)
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// NewTestConfig creates a configuration instance for testing purposes.
func NewTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Watch.Enabled = false
	return cfg
}
