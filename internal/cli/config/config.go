package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the project configuration
type Config struct {
	ProjectName  string       `mapstructure:"project_name"`
	Declarations string       `mapstructure:"declarations"`
	Output       OutputConfig `mapstructure:"output"`
	NoColor      bool         `mapstructure:"no_color"`

	// Root is the directory holding the config file, empty when none was found
	Root string `mapstructure:"-"`
}

// OutputConfig represents where and how rendered snapshots are written
type OutputConfig struct {
	Path   string `mapstructure:"path"`
	Indent int    `mapstructure:"indent"`
}

// Load loads the configuration from collections.yml or collections.yaml in the
// project root found by GetProjectRoot, falling back to the current directory.
// Environment variables prefixed with COLLECTIONS_ override file values
// (COLLECTIONS_OUTPUT_PATH overrides output.path).
func Load() (*Config, error) {
	return load("")
}

// LoadFile loads the configuration from an explicit file path
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("declarations", "collections.schema.yaml")
	v.SetDefault("output.path", "")
	v.SetDefault("output.indent", 2)
	v.SetDefault("no_color", false)

	var root string
	if path != "" {
		v.SetConfigFile(path)
		root = filepath.Dir(path)
	} else {
		v.SetConfigName("collections")
		v.SetConfigType("yaml")
		if dir, err := GetProjectRoot(); err == nil {
			root = dir
			v.AddConfigPath(dir)
		} else {
			v.AddConfigPath(".")
		}
	}

	v.SetEnvPrefix("collections")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	config.Root = root
	return &config, nil
}

// Resolve interprets a configured path relative to the project root.
// Absolute paths, and any path when no config file was found, are returned unchanged.
func (c *Config) Resolve(path string) string {
	if path == "" || c.Root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Root, path)
}

// GetProjectRoot walks up from the working directory to the first directory
// holding collections.yml or collections.yaml
func GetProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, name := range []string{"collections.yml", "collections.yaml"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a collections project (no collections.yml found)")
		}
		dir = parent
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Declarations == "" {
		return fmt.Errorf("declarations must not be empty")
	}
	if cfg.Output.Indent < 0 || cfg.Output.Indent > 8 {
		return fmt.Errorf("output.indent must be between 0 and 8, got: %d", cfg.Output.Indent)
	}
	return nil
}
