package render

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"snipai/internal/record"
)

func TestFlattenDropsDecorationMarkers(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"emphasis and heading", "**Summary**\n# Title\nHello", "Summary\nTitle\nHello"},
		{"plain passthrough", "just text", "just text"},
		{"surrounding whitespace", "  \n hello \n ", "hello"},
		{"inline stray markers", "a ** b # c", "a  b  c"},
		{"nested heading levels", "## Section\nbody", "Section\nbody"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Flatten(tc.in); got != tc.want {
				t.Fatalf("Flatten(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFlattenOutputNeverContainsMarkers(t *testing.T) {
	inputs := []string{
		"**bold** and ****",
		"# a\n## b\n### c",
		"text with ** inline and # inline",
	}
	for _, in := range inputs {
		got := Flatten(in)
		if strings.Contains(got, "**") || strings.Contains(got, "#") {
			t.Fatalf("Flatten(%q) = %q still contains markers", in, got)
		}
	}
}

func TestForFormatDispatch(t *testing.T) {
	cases := map[string]string{
		record.FormatText:       ".txt",
		record.FormatWord:       ".docx",
		record.FormatExcel:      ".xlsx",
		record.FormatPowerPoint: ".pptx",
	}
	for format, ext := range cases {
		r, err := ForFormat(format)
		if err != nil {
			t.Fatalf("ForFormat(%q): %v", format, err)
		}
		if r.Extension() != ext {
			t.Fatalf("ForFormat(%q).Extension() = %q, want %q", format, r.Extension(), ext)
		}
		if r.MIME() == "" {
			t.Fatalf("ForFormat(%q) has empty MIME", format)
		}
	}
	if _, err := ForFormat("Markdown"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestPlainTextRender(t *testing.T) {
	dir := t.TempDir()
	path, err := PlainText{}.Render("Summarize", "**Summary**\n# Title\nHello", dir, "out")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if filepath.Base(path) != "out.txt" {
		t.Fatalf("unexpected artifact name: %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "Summary\nTitle\nHello" {
		t.Fatalf("unexpected artifact content: %q", data)
	}
}

func TestExcelRenderFirstCellVerbatim(t *testing.T) {
	dir := t.TempDir()
	aiText := "col1\tcol2\nv1\tv2"
	path, err := ExcelSheet{}.Render("Summarize", aiText, dir, "report")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if filepath.Base(path) != "report.xlsx" {
		t.Fatalf("unexpected artifact name: %q", path)
	}

	wb, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer wb.Close()
	sheet := wb.GetSheetName(wb.GetActiveSheetIndex())
	got, err := wb.GetCellValue(sheet, "A1")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if got != aiText {
		t.Fatalf("A1 = %q, want %q", got, aiText)
	}
}

func readZipPart(t *testing.T, path, part string) string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name != part {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open part %s: %v", part, err)
		}
		defer rc.Close()
		var sb strings.Builder
		buf := make([]byte, 4096)
		for {
			n, err := rc.Read(buf)
			sb.Write(buf[:n])
			if err != nil {
				break
			}
		}
		return sb.String()
	}
	t.Fatalf("part %s not found in %s", part, path)
	return ""
}

func TestWordRender(t *testing.T) {
	dir := t.TempDir()
	path, err := WordDoc{}.Render("Quarterly <summary>", "line one\nline two", dir, "doc")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if filepath.Base(path) != "doc.docx" {
		t.Fatalf("unexpected artifact name: %q", path)
	}

	body := readZipPart(t, path, "word/document.xml")
	if !strings.Contains(body, "Quarterly &lt;summary&gt;") {
		t.Fatalf("title missing or unescaped: %s", body)
	}
	if !strings.Contains(body, "line one") || !strings.Contains(body, "line two") {
		t.Fatalf("body text missing: %s", body)
	}
	if !strings.Contains(body, "<w:br/>") {
		t.Fatalf("expected line break between body lines: %s", body)
	}
	if ct := readZipPart(t, path, "[Content_Types].xml"); !strings.Contains(ct, "wordprocessingml.document.main") {
		t.Fatalf("content types missing document override: %s", ct)
	}
}

func TestEscapeXMLDropsIllegalControlCharacters(t *testing.T) {
	got := escapeXML("a\x0Bb\x0Cc\x00d & e\tf\ng")
	if got != "abcd &amp; e\tf\ng" {
		t.Fatalf("escapeXML = %q", got)
	}
}

func TestWordRenderFiltersControlCharacters(t *testing.T) {
	dir := t.TempDir()
	path, err := WordDoc{}.Render("p", "before\x0Bafter\x0C", dir, "doc")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	body := readZipPart(t, path, "word/document.xml")
	if strings.ContainsAny(body, "\x0B\x0C") {
		t.Fatalf("document part carries XML-illegal bytes: %q", body)
	}
	if !strings.Contains(body, "beforeafter") {
		t.Fatalf("surrounding text lost: %s", body)
	}
}

func TestSlideDeckRender(t *testing.T) {
	dir := t.TempDir()
	path, err := SlideDeck{}.Render("Roadmap", "point one\npoint two", dir, "deck")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if filepath.Base(path) != "deck.pptx" {
		t.Fatalf("unexpected artifact name: %q", path)
	}

	slide := readZipPart(t, path, "ppt/slides/slide1.xml")
	if !strings.Contains(slide, `<p:ph type="title"/>`) || !strings.Contains(slide, "Roadmap") {
		t.Fatalf("title placeholder missing: %s", slide)
	}
	if !strings.Contains(slide, `<p:ph type="body" idx="1"/>`) || !strings.Contains(slide, "point one") {
		t.Fatalf("body placeholder missing: %s", slide)
	}

	// Every relationship target must exist in the package.
	for _, part := range []string{
		"ppt/presentation.xml",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/theme/theme1.xml",
	} {
		_ = readZipPart(t, path, part)
	}
}

func TestRenderLeavesNoTempResidue(t *testing.T) {
	dir := t.TempDir()
	renderers := []Renderer{PlainText{}, WordDoc{}, ExcelSheet{}, SlideDeck{}}
	for _, r := range renderers {
		if _, err := r.Render("p", "text", dir, "artifact"); err != nil {
			t.Fatalf("Render %s: %v", r.Extension(), err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp-") {
			t.Fatalf("temp residue left behind: %s", entry.Name())
		}
	}
	if len(entries) != len(renderers) {
		t.Fatalf("expected %d artifacts, got %d", len(renderers), len(entries))
	}
}
