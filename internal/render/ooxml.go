package render

import (
	"archive/zip"
	"bytes"
	"strings"
)

// Word and PowerPoint artifacts are written as minimal OOXML packages: a zip
// of fixed relationship/content-type parts plus one generated document part.

type packagePart struct {
	name string
	data string
}

func writeOOXML(path string, parts []packagePart) error {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			_ = zw.Close()
			return err
		}
		if _, err := w.Write([]byte(part.data)); err != nil {
			_ = zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return writeFileAtomic(path, buf.Bytes())
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// escapeXML escapes markup characters and drops code points outside the
// XML 1.0 character range; model output can carry stray control bytes that
// would make the document part unparseable.
func escapeXML(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return r
		case r >= 0x20 && r <= 0xD7FF:
			return r
		case r >= 0xE000 && r <= 0xFFFD:
			return r
		case r >= 0x10000 && r <= 0x10FFFF:
			return r
		}
		return -1
	}, s)
	return xmlEscaper.Replace(s)
}

// splitLines normalizes line endings and splits text into lines for
// paragraph-per-line emission.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}
