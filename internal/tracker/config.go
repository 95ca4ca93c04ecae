package tracker

import (
	"fmt"
	"os"
	"strings"
)

// Config holds configuration for one tracker integration. Settings come
// from the credentials file section matching the tracker's prefix;
// environment variables named WEND_<PREFIX>_<KEY> override them.
type Config struct {
	// Prefix is the tracker's config key prefix (e.g. "jira").
	Prefix string

	// Settings holds the tracker's section of the credentials file.
	// May be nil when everything comes from the environment.
	Settings map[string]string
}

// NewConfig creates a tracker config with the given prefix and settings.
func NewConfig(prefix string, settings map[string]string) *Config {
	return &Config{Prefix: prefix, Settings: settings}
}

// Get retrieves a config value by key, environment first so a deploy can
// override the file. Example: for prefix "jira" and key "api_token",
// checks WEND_JIRA_API_TOKEN then the [jira] api_token setting. Returns
// "" when the key is set nowhere.
func (c *Config) Get(key string) string {
	if value := os.Getenv(c.envVarName(key)); value != "" {
		return value
	}
	if c.Settings != nil {
		return c.Settings[key]
	}
	return ""
}

// GetRequired is like Get but fails with a configuration hint when the
// value is empty.
func (c *Config) GetRequired(key string) (string, error) {
	if value := c.Get(key); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("%s.%s not configured\nSet %s in the [%s] section of %s\nOr: export %s=VALUE",
		c.Prefix, key, key, c.Prefix, CredentialsPath(), c.envVarName(key))
}

// envVarName converts a config key to its environment variable name:
// prefix "jira", key "api_token" becomes "WEND_JIRA_API_TOKEN".
func (c *Config) envVarName(key string) string {
	envKey := strings.ToUpper("WEND_" + c.Prefix + "_" + key)
	return strings.ReplaceAll(envKey, ".", "_")
}
