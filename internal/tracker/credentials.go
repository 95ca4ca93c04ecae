package tracker

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// credentialsEnv overrides the default credentials file location.
const credentialsEnv = "WEND_CREDENTIALS_FILE"

// CredentialsPath returns the credentials file location:
// $WEND_CREDENTIALS_FILE if set, else ~/.config/wend/credentials.toml
// (per os.UserConfigDir).
func CredentialsPath() string {
	if path := os.Getenv(credentialsEnv); path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "wend", "credentials.toml")
}

// LoadCredentials reads the credentials file into one map per tracker
// section:
//
//	[jira]
//	url = "https://team.atlassian.net"
//	username = "me@example.com"
//	api_token = "..."
//
// A missing file is not an error (every setting can come from WEND_*
// environment variables instead), but a file that exists and fails to
// parse is.
func LoadCredentials() (map[string]map[string]string, error) {
	path := CredentialsPath()
	if path == "" {
		return map[string]map[string]string{}, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[string]map[string]string{}, nil
	}

	var sections map[string]map[string]string
	if _, err := toml.DecodeFile(path, &sections); err != nil {
		return nil, fmt.Errorf("parsing credentials file %s: %w", path, err)
	}
	if sections == nil {
		sections = map[string]map[string]string{}
	}
	return sections, nil
}
