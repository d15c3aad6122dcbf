package prompt

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"snipai/internal/llm"
	"snipai/internal/record"
)

// Assembler turns a run's purpose and document format into the ordered
// multimodal payload for the AI backend: one instruction part followed by
// the capture images that could be loaded, in capture order.
type Assembler struct {
	CapturesDir func(runID string) string
}

func New(capturesDir func(runID string) string) *Assembler {
	return &Assembler{CapturesDir: capturesDir}
}

// Instruction builds the textual instruction for a purpose/format pair.
func Instruction(purpose, docFormat string) string {
	var sb strings.Builder
	sb.WriteString("Purpose: ")
	sb.WriteString(strings.TrimSpace(purpose))
	sb.WriteString("\n")
	switch docFormat {
	case record.FormatWord:
		sb.WriteString("Instruction: produce a structured report.")
	case record.FormatExcel:
		sb.WriteString("Instruction: produce tab-delimited tabular content.")
	case record.FormatPowerPoint:
		sb.WriteString("Instruction: produce a slide outline.")
	default:
		sb.WriteString("Instruction: produce plain text without decoration markers.")
	}
	return sb.String()
}

// Assemble resolves the record's captures and returns the prompt parts.
// Captures whose files are missing are skipped silently; a stale entry is
// not an error.
func (a *Assembler) Assemble(rec record.RunRecord) ([]llm.Part, error) {
	if a == nil || a.CapturesDir == nil {
		return nil, errors.New("assembler is not configured")
	}
	parts := []llm.Part{llm.TextPart(Instruction(rec.Purpose, rec.DocFormat))}
	dir := a.CapturesDir(rec.RunID)
	for _, name := range rec.Captures {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		parts = append(parts, llm.ImagePart(imageMIME(name), data))
	}
	return parts, nil
}

func imageMIME(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
