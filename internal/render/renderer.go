package render

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"snipai/internal/record"
)

const (
	MIMEText       = "text/plain"
	MIMEWord       = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEExcel      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMEPowerPoint = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
)

// Renderer writes one artifact variant. Render returns the final artifact
// path; a failed render must not leave a partial artifact at that path.
type Renderer interface {
	Render(purpose, aiText, destDir, basename string) (string, error)
	Extension() string
	MIME() string
}

// ForFormat returns the renderer for a document format. The empty format
// means plain text.
func ForFormat(docFormat string) (Renderer, error) {
	switch docFormat {
	case record.FormatText:
		return PlainText{}, nil
	case record.FormatWord:
		return WordDoc{}, nil
	case record.FormatExcel:
		return ExcelSheet{}, nil
	case record.FormatPowerPoint:
		return SlideDeck{}, nil
	default:
		return nil, fmt.Errorf("unsupported document format: %q", docFormat)
	}
}

// writeFileAtomic writes data to path via a temp file in the same directory,
// so an interrupted render never leaves a partial artifact under the final
// name.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := fmt.Sprintf("%s.tmp-%d", path, time.Now().UTC().UnixNano())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
