package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Token resolution order: explicit config/env token, then the token file
// written by `wandermage login`.

// ResolveToken returns the bearer token to use, or "" when not logged in.
func (c *Config) ResolveToken() string {
	if c.Auth.Token != "" {
		return c.Auth.Token
	}
	path, err := c.tokenPath()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SaveToken writes the bearer token to the token file (0600).
func (c *Config) SaveToken(token string) error {
	path, err := c.tokenPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return eris.Wrap(err, "config: create token dir")
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return eris.Wrap(err, "config: write token")
	}
	return nil
}

// DeleteToken removes the stored token. Missing file is not an error.
func (c *Config) DeleteToken() error {
	path, err := c.tokenPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return eris.Wrap(err, "config: delete token")
	}
	return nil
}

func (c *Config) tokenPath() (string, error) {
	if c.Auth.TokenPath != "" {
		return c.Auth.TokenPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", eris.Wrap(err, "config: resolve home dir")
	}
	return filepath.Join(home, ".wandermage", "token"), nil
}
