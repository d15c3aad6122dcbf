package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileCredentials reads the AI provider key from the plaintext credential
// record in the data dir. It is passed into the orchestrator explicitly;
// nothing in the pipeline reads credentials from ambient state.
type FileCredentials struct {
	Path string
}

type credentialFile struct {
	APIKey string `json:"api_key"`
}

// APIKey returns the stored key, or an error when no usable key exists.
func (c *FileCredentials) APIKey() (string, error) {
	if c == nil || strings.TrimSpace(c.Path) == "" {
		return "", errors.New("credential path is empty")
	}
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", errors.New("no API key configured; run `snipai config set-key`")
		}
		return "", err
	}
	var cf credentialFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return "", fmt.Errorf("parse credential file: %w", err)
	}
	key := strings.TrimSpace(cf.APIKey)
	if key == "" {
		return "", errors.New("credential file has no api_key")
	}
	return key, nil
}

// SaveAPIKey stores the key for later runs.
func (c *FileCredentials) SaveAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("api key is empty")
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(credentialFile{APIKey: key}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.Path, data, 0o600)
}
