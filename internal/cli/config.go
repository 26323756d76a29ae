package cli

import (
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL   string
	SessionFile string
	Output      string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:   getEnvOrDefault("BIRTHDAYS_SERVER", "http://localhost:8080"),
		SessionFile: getEnvOrDefault("BIRTHDAYS_SESSION_FILE", defaultSessionFile()),
		Output:      "text",
	}
}

// LoadSession reads the saved session cookie. A missing file means no session.
func (c *Config) LoadSession() (string, error) {
	data, err := os.ReadFile(c.SessionFile)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// SaveSession stores the session cookie, or removes the file when value is empty.
func (c *Config) SaveSession(value string) error {
	if value == "" {
		err := os.Remove(c.SessionFile)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(c.SessionFile), 0700); err != nil {
		return err
	}
	return os.WriteFile(c.SessionFile, []byte(value), 0600)
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".birthdays/session"
	}
	return filepath.Join(home, ".birthdays", "session")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
