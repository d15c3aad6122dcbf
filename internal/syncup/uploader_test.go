package syncup

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

type staticTokens struct {
	tok *oauth2.Token
	err error
}

func (s staticTokens) Token() (*oauth2.Token, error) {
	return s.tok, s.err
}

func writeArtifact(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestUploadReturnsRemoteID(t *testing.T) {
	var gotAuth string
	var gotMeta, gotMedia string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/related" {
			t.Errorf("unexpected content type: %q (%v)", r.Header.Get("Content-Type"), err)
		}
		mr := multipart.NewReader(r.Body, params["boundary"])
		for i := 0; ; i++ {
			part, err := mr.NextPart()
			if err != nil {
				break
			}
			data, _ := io.ReadAll(part)
			if i == 0 {
				gotMeta = string(data)
			} else {
				gotMedia = string(data)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "remote-123"}`))
	}))
	defer server.Close()

	artifact := writeArtifact(t, "report.xlsx", "artifact-bytes")
	up := NewUploader(server.URL, staticTokens{tok: &oauth2.Token{AccessToken: "tok-1"}})

	id, err := up.Upload(context.Background(), artifact, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if id != "remote-123" {
		t.Fatalf("unexpected remote id: %q", id)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if !strings.Contains(gotMeta, `"name":"report.xlsx"`) {
		t.Fatalf("metadata part missing file name: %q", gotMeta)
	}
	if gotMedia != "artifact-bytes" {
		t.Fatalf("media part mismatch: %q", gotMedia)
	}
}

func TestUploadServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "storage quota exceeded", http.StatusForbidden)
	}))
	defer server.Close()

	artifact := writeArtifact(t, "out.txt", "x")
	up := NewUploader(server.URL, staticTokens{tok: &oauth2.Token{AccessToken: "tok"}})
	if _, err := up.Upload(context.Background(), artifact, "text/plain"); err == nil {
		t.Fatalf("expected error on non-2xx response")
	}
}

func TestUploadWithoutTokens(t *testing.T) {
	up := NewUploader("", nil)
	if up.Enabled() {
		t.Fatalf("uploader without token source must not be enabled")
	}
	if _, err := up.Upload(context.Background(), "whatever", "text/plain"); err == nil {
		t.Fatalf("expected error when not configured")
	}
}

func TestFileTokenSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token.json")

	src := &FileTokenSource{Path: path}
	if _, err := src.Token(); err == nil {
		t.Fatalf("expected error for missing cache")
	}
	if HasCachedToken(path) {
		t.Fatalf("expected no cached token")
	}

	valid := &oauth2.Token{AccessToken: "tok", Expiry: time.Now().Add(time.Hour)}
	if err := SaveToken(path, valid); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	if !HasCachedToken(path) {
		t.Fatalf("expected cached token after save")
	}
	got, err := src.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if got.AccessToken != "tok" {
		t.Fatalf("unexpected access token: %q", got.AccessToken)
	}

	expired := &oauth2.Token{AccessToken: "old", Expiry: time.Now().Add(-time.Hour)}
	if err := SaveToken(path, expired); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	if _, err := src.Token(); err == nil {
		t.Fatalf("expected error for expired token")
	}
}
