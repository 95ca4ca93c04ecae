// Package config provides wend's configuration through a viper singleton.
// Precedence: command-line flags (the CLI merges viper values into flags
// the user did not set, so a changed flag always wins) > WEND_* environment
// variables > .wend/config.yaml > defaults.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// v is the package-level viper instance. Nil until Initialize runs; the
// getters treat nil as "nothing configured" rather than panicking.
var v *viper.Viper

// Initialize builds the viper instance: defaults, WEND_* environment
// binding, and the nearest .wend/config.yaml above the working directory.
// Safe to call again; the instance is rebuilt from scratch.
func Initialize() error {
	nv := viper.New()

	nv.SetDefault("json", false)
	nv.SetDefault("tracker", "jira")
	nv.SetDefault("store", "")
	nv.SetDefault("timeout", time.Duration(0))
	nv.SetDefault("verbose", false)
	nv.SetDefault("quiet", false)
	nv.SetDefault("validate.done-states", []string{})

	// WEND_JSON, WEND_TRACKER, WEND_VALIDATE_DONE_STATES, ...
	nv.SetEnvPrefix("WEND")
	nv.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	nv.AutomaticEnv()

	if dir := findConfigDir(); dir != "" {
		nv.SetConfigName("config")
		nv.SetConfigType("yaml")
		nv.AddConfigPath(dir)
		if err := nv.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return err
			}
		}
	}

	v = nv
	return nil
}

// findConfigDir walks up from the working directory to the first .wend
// directory containing a config.yaml. Empty when there is none.
func findConfigDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
		if _, err := os.Stat(filepath.Join(dir, ".wend", "config.yaml")); err == nil {
			return filepath.Join(dir, ".wend")
		}
	}
	return ""
}

// GetString returns the string value for key, or "" before Initialize.
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool returns the bool value for key, or false before Initialize.
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt returns the int value for key, or 0 before Initialize.
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// GetDuration returns the duration value for key, or 0 before Initialize.
func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// GetStringSlice returns the string-slice value for key. Never nil.
func GetStringSlice(key string) []string {
	if v == nil {
		return []string{}
	}
	return v.GetStringSlice(key)
}

// Set overrides a value at the highest precedence level. The CLI uses this
// to push changed flag values over everything else. No-op before Initialize.
func Set(key string, value interface{}) {
	if v == nil {
		return
	}
	v.Set(key, value)
}

// AllSettings returns every effective setting. Never nil.
func AllSettings() map[string]interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	return v.AllSettings()
}
