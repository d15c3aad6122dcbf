package syncup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const DefaultEndpoint = "https://www.googleapis.com/upload/drive/v3/files"

// Uploader mirrors a finished artifact to the remote store with a Drive-style
// multipart upload. Failures are the caller's to swallow: local success has
// already been committed by the time an upload runs.
type Uploader struct {
	Endpoint   string
	Tokens     oauth2.TokenSource
	HTTPClient *http.Client
}

func NewUploader(endpoint string, tokens oauth2.TokenSource) *Uploader {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultEndpoint
	}
	return &Uploader{
		Endpoint: strings.TrimSpace(endpoint),
		Tokens:   tokens,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Enabled reports whether an upload can even be attempted.
func (u *Uploader) Enabled() bool {
	return u != nil && u.Tokens != nil
}

// Upload pushes one file and returns the remote identifier assigned by the
// store.
func (u *Uploader) Upload(ctx context.Context, filePath, mimeType string) (string, error) {
	if !u.Enabled() {
		return "", errors.New("uploader is not configured")
	}
	tok, err := u.Tokens.Token()
	if err != nil {
		return "", fmt.Errorf("storage credential: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := mw.CreatePart(metaHeader)
	if err != nil {
		return "", err
	}
	meta, err := json.Marshal(map[string]string{"name": filepath.Base(filePath)})
	if err != nil {
		return "", err
	}
	if _, err := metaPart.Write(meta); err != nil {
		return "", err
	}

	mediaHeader := textproto.MIMEHeader{}
	mediaHeader.Set("Content-Type", mimeType)
	mediaPart, err := mw.CreatePart(mediaHeader)
	if err != nil {
		return "", err
	}
	if _, err := mediaPart.Write(data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	url := u.Endpoint + "?uploadType=multipart&fields=id"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	req.Header.Set("Content-Type", "multipart/related; boundary="+mw.Boundary())

	client := u.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("remote store error: %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if strings.TrimSpace(out.ID) == "" {
		return "", errors.New("remote store returned no file id")
	}
	return out.ID, nil
}
