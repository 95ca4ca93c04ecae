package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LocalConfig is the bootstrap subset of .wend/config.yaml, read directly
// from the file rather than through the viper singleton. Useful when the
// working directory has changed since Initialize ran, or when a value is
// needed before it has.
type LocalConfig struct {
	Tracker string `yaml:"tracker"`
	Store   string `yaml:"store"`
}

// LoadLocalConfig reads and parses config.yaml from the given .wend
// directory. Returns an empty LocalConfig (not nil) if the file is missing
// or unparsable.
func LoadLocalConfig(wendDir string) *LocalConfig {
	configPath := filepath.Join(wendDir, "config.yaml")
	data, err := os.ReadFile(configPath) // #nosec G304 - config file path from wendDir
	if err != nil {
		return &LocalConfig{}
	}

	var cfg LocalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return &LocalConfig{}
	}

	return &cfg
}

// FindProjectDir walks up from the working directory to the first directory
// containing a .wend directory and returns that directory.
func FindProjectDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
		if info, err := os.Stat(filepath.Join(dir, ".wend")); err == nil && info.IsDir() {
			return dir, nil
		}
	}

	return "", fmt.Errorf("no .wend directory found above %s", cwd)
}
