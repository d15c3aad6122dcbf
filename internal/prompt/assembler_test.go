package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"snipai/internal/record"
)

func TestInstructionPerFormat(t *testing.T) {
	cases := []struct {
		format string
		want   string
	}{
		{record.FormatWord, "structured report"},
		{record.FormatExcel, "tab-delimited"},
		{record.FormatPowerPoint, "slide outline"},
		{record.FormatText, "plain text"},
	}
	for _, tc := range cases {
		got := Instruction("Summarize", tc.format)
		if !strings.HasPrefix(got, "Purpose: Summarize\n") {
			t.Fatalf("instruction missing purpose line: %q", got)
		}
		if !strings.Contains(got, tc.want) {
			t.Fatalf("instruction for %q missing %q: %q", tc.format, tc.want, got)
		}
	}
}

func TestAssembleSkipsMissingCaptures(t *testing.T) {
	dir := t.TempDir()
	capturesDir := filepath.Join(dir, "captures", "run1")
	if err := os.MkdirAll(capturesDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(capturesDir, "001.png"), []byte("png-bytes"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(capturesDir, "003.jpg"), []byte("jpg-bytes"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	asm := New(func(runID string) string {
		return filepath.Join(dir, "captures", runID)
	})
	rec := record.RunRecord{
		RunID:    "run1",
		Purpose:  "Summarize",
		Captures: []string{"001.png", "002.png", "003.jpg"},
	}

	parts, err := asm.Assemble(rec)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(parts) != 3 {
		t.Fatalf("expected instruction + 2 images, got %d parts", len(parts))
	}
	if parts[0].IsImage() {
		t.Fatalf("expected first part to be the instruction")
	}
	if string(parts[1].ImageData) != "png-bytes" || parts[1].ImageMIME != "image/png" {
		t.Fatalf("unexpected first image: %q %q", parts[1].ImageMIME, parts[1].ImageData)
	}
	if string(parts[2].ImageData) != "jpg-bytes" || parts[2].ImageMIME != "image/jpeg" {
		t.Fatalf("unexpected second image: %q %q", parts[2].ImageMIME, parts[2].ImageData)
	}
}

func TestAssembleAllCapturesMissing(t *testing.T) {
	asm := New(func(runID string) string {
		return filepath.Join(t.TempDir(), "captures", runID)
	})
	rec := record.RunRecord{RunID: "run1", Purpose: "p", Captures: []string{"001.png"}}
	parts, err := asm.Assemble(rec)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(parts) != 1 {
		t.Fatalf("expected only the instruction part, got %d", len(parts))
	}
}
