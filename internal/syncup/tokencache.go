package syncup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

// FileTokenSource serves the locally cached authorization token written by
// the interactive consent flow. It does not refresh: once the cached token
// expires, uploads are skipped until the consent flow is run again.
type FileTokenSource struct {
	Path string
}

func (s *FileTokenSource) Token() (*oauth2.Token, error) {
	if s == nil || s.Path == "" {
		return nil, errors.New("token cache path is empty")
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parse token cache: %w", err)
	}
	if !tok.Valid() {
		return nil, errors.New("cached token expired")
	}
	return &tok, nil
}

// HasCachedToken reports whether a token cache file exists at all; a missing
// cache means the consent flow was never run and upload should be skipped
// silently.
func HasCachedToken(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// SaveToken persists a token for later runs. Called by the consent flow
// owner, not by the pipeline.
func SaveToken(path string, tok *oauth2.Token) error {
	if tok == nil {
		return errors.New("nil token")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
