package record

import (
	"regexp"
	"strings"
	"time"
)

const (
	StatusReady = "ready"
	StatusDone  = "done"
)

const (
	FormatText       = ""
	FormatWord       = "Word"
	FormatExcel      = "Excel"
	FormatPowerPoint = "PowerPoint"
)

// RunRecord is the persisted unit of work: one user request to analyze a set
// of captured screenshots and produce an artifact.
type RunRecord struct {
	RunID          string   `json:"run_id"`
	CreatedAt      string   `json:"created_at"`
	Purpose        string   `json:"purpose"`
	DocFormat      string   `json:"doc_format,omitempty"`
	SaveTarget     string   `json:"save_target"`
	Captures       []string `json:"captures"`
	Status         string   `json:"status"`
	OutputBasename string   `json:"output_basename"`
	OutputFile     string   `json:"output_file"`
}

// HistoryEntry is an append-only snapshot of a RunRecord taken at save/run
// time. It is never mutated after being written.
type HistoryEntry struct {
	ID string `json:"id"`
	RunRecord
}

var forbiddenChars = regexp.MustCompile(`[\\/:*?"<>|]`)

const defaultBasename = "result"

// SanitizeBasename replaces filesystem-forbidden characters with underscores
// and falls back to a fixed default when nothing usable remains.
func SanitizeBasename(raw string) string {
	out := forbiddenChars.ReplaceAllString(strings.TrimSpace(raw), "_")
	if out == "" {
		return defaultBasename
	}
	return out
}

// Extension returns the artifact file extension for a document format.
func Extension(docFormat string) string {
	switch docFormat {
	case FormatWord:
		return ".docx"
	case FormatExcel:
		return ".xlsx"
	case FormatPowerPoint:
		return ".pptx"
	default:
		return ".txt"
	}
}

// ValidFormat reports whether docFormat names one of the supported output
// variants. The empty string means plain text.
func ValidFormat(docFormat string) bool {
	switch docFormat {
	case FormatText, FormatWord, FormatExcel, FormatPowerPoint:
		return true
	default:
		return false
	}
}

// NewRunID derives a run identifier from the creation time.
func NewRunID(now time.Time) string {
	return now.Format("20060102_150405")
}

// New builds a Ready RunRecord with derived fields filled in.
func New(runID string, now time.Time, purpose, docFormat, outputName string, captures []string) RunRecord {
	base := SanitizeBasename(outputName)
	return RunRecord{
		RunID:          strings.TrimSpace(runID),
		CreatedAt:      now.Format("2006-01-02T15:04:05"),
		Purpose:        strings.TrimSpace(purpose),
		DocFormat:      docFormat,
		SaveTarget:     "local",
		Captures:       append([]string(nil), captures...),
		Status:         StatusReady,
		OutputBasename: base,
		OutputFile:     base + Extension(docFormat),
	}
}

// Snapshot returns the history entry for the record's current state.
func (r RunRecord) Snapshot() HistoryEntry {
	return HistoryEntry{ID: r.RunID, RunRecord: r}
}
