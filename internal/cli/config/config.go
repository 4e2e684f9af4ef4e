// Package config keeps the CLI session between runs. The server issues no
// credentials, so a session is just the server URL and the username that last
// logged in successfully.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const DefaultURL = "http://localhost:3000"

// DirEnv overrides the directory the session file is kept in.
const DirEnv = "FILEHOST_CONFIG_DIR"

const sessionFile = "session.json"

type Config struct {
	ServerURL string `json:"server_url"`
	Username  string `json:"username,omitempty"`

	path string
}

// Dir returns $FILEHOST_CONFIG_DIR, or filehost/ under the user config dir.
func Dir() (string, error) {
	if dir := os.Getenv(DirEnv); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(base, "filehost"), nil
}

func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadFile(filepath.Join(dir, sessionFile))
}

// LoadFile reads the session at path. A missing file is an empty session
// pointed at DefaultURL.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading session: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing session %s: %w", path, err)
		}
	}

	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultURL
	}
	return cfg, nil
}

func (c *Config) Path() string {
	return c.path
}

func (c *Config) LoggedIn() bool {
	return c.Username != ""
}

// Login remembers username together with the current server URL.
func (c *Config) Login(username string) error {
	c.Username = username
	return c.write()
}

// Logout forgets the username. The server URL is kept for the next login.
func (c *Config) Logout() error {
	if !c.LoggedIn() {
		return nil
	}
	c.Username = ""
	return c.write()
}

func (c *Config) write() error {
	if c.path == "" {
		return errors.New("session has no file")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}
