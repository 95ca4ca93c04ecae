package tracker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigGet(t *testing.T) {
	cfg := NewConfig("jira", map[string]string{
		"url":      "https://team.atlassian.net",
		"username": "probe@example.com",
	})

	tests := []struct {
		key  string
		want string
	}{
		{"url", "https://team.atlassian.net"},
		{"username", "probe@example.com"},
		{"api_token", ""},
	}
	for _, tt := range tests {
		if got := cfg.Get(tt.key); got != tt.want {
			t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestConfigEnvOverridesSettings(t *testing.T) {
	t.Setenv("WEND_JIRA_URL", "https://override.example.com")

	cfg := NewConfig("jira", map[string]string{"url": "https://file.example.com"})
	if got := cfg.Get("url"); got != "https://override.example.com" {
		t.Errorf("Get(url) = %q, want env override", got)
	}
}

func TestConfigEnvOnly(t *testing.T) {
	t.Setenv("WEND_JIRA_API_TOKEN", "tok-123")

	cfg := NewConfig("jira", nil)
	if got := cfg.Get("api_token"); got != "tok-123" {
		t.Errorf("Get(api_token) = %q, want tok-123", got)
	}
}

func TestGetRequired(t *testing.T) {
	cfg := NewConfig("jira", map[string]string{"url": "https://team.atlassian.net"})

	if _, err := cfg.GetRequired("url"); err != nil {
		t.Errorf("GetRequired(url) error = %v, want nil", err)
	}

	_, err := cfg.GetRequired("api_token")
	if err == nil {
		t.Fatal("GetRequired(api_token) error = nil, want configuration hint")
	}
	if !strings.Contains(err.Error(), "WEND_JIRA_API_TOKEN") {
		t.Errorf("GetRequired error %q does not name the env var", err)
	}
}

func TestLoadCredentials(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.toml")
	content := `[jira]
url = "https://team.atlassian.net"
username = "probe@example.com"
api_token = "tok-456"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(credentialsEnv, path)

	creds, err := LoadCredentials()
	if err != nil {
		t.Fatalf("LoadCredentials() error = %v", err)
	}
	jira := creds["jira"]
	if jira == nil {
		t.Fatalf("LoadCredentials() missing [jira] section: %v", creds)
	}
	if jira["api_token"] != "tok-456" {
		t.Errorf("jira.api_token = %q, want tok-456", jira["api_token"])
	}
}

func TestLoadCredentialsMissingFile(t *testing.T) {
	t.Setenv(credentialsEnv, filepath.Join(t.TempDir(), "nope.toml"))

	creds, err := LoadCredentials()
	if err != nil {
		t.Fatalf("LoadCredentials() with missing file error = %v, want nil", err)
	}
	if len(creds) != 0 {
		t.Errorf("LoadCredentials() with missing file = %v, want empty", creds)
	}
}

func TestLoadCredentialsBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.toml")
	if err := os.WriteFile(path, []byte("[jira\nnot toml"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(credentialsEnv, path)

	if _, err := LoadCredentials(); err == nil {
		t.Error("LoadCredentials() with malformed file error = nil, want parse failure")
	}
}
