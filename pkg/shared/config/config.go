package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// DefaultConfigFile is looked up in the working directory when no path is given.
const DefaultConfigFile = "config.yml"

// ConfigEnv names the environment variable that points at a configuration file.
const ConfigEnv = "AEGISCAN_CONFIG"

// ValidateConfigPath checks that path exists and is not a directory.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes the YAML file at configPath into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// LoadConfig resolves the configuration file and decodes it.
// Resolution order: configPath, then $AEGISCAN_CONFIG, then config.yml.
// A missing default file yields an empty configuration; a missing explicit one is an error.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	explicit := true
	if configPath == "" {
		configPath = os.Getenv(ConfigEnv)
	}
	if configPath == "" {
		configPath = DefaultConfigFile
		explicit = false
	}

	if err := LoadYAML(configPath, config); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		// an empty file decodes to io.EOF
		if errors.Is(err, io.EOF) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to load config %q: %w", configPath, err)
	}

	return config, nil
}
