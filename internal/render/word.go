package render

import (
	"path/filepath"
	"strings"
)

// WordDoc renders the AI response as a .docx with the purpose as title and
// the response text as the document body.
type WordDoc struct{}

func (WordDoc) Extension() string { return ".docx" }
func (WordDoc) MIME() string      { return MIMEWord }

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const docxRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

func (WordDoc) Render(purpose, aiText, destDir, basename string) (string, error) {
	target := filepath.Join(destDir, basename+".docx")
	parts := []packagePart{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRootRels},
		{"word/document.xml", wordDocument(purpose, aiText)},
	}
	if err := writeOOXML(target, parts); err != nil {
		return "", err
	}
	return target, nil
}

func wordDocument(purpose, aiText string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	sb.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	// Title paragraph.
	sb.WriteString(`<w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr><w:r><w:t xml:space="preserve">`)
	sb.WriteString(escapeXML(purpose))
	sb.WriteString(`</w:t></w:r></w:p>`)

	// Single body paragraph; newlines become line breaks within the run.
	sb.WriteString(`<w:p><w:r>`)
	for i, line := range splitLines(aiText) {
		if i > 0 {
			sb.WriteString(`<w:br/>`)
		}
		sb.WriteString(`<w:t xml:space="preserve">`)
		sb.WriteString(escapeXML(line))
		sb.WriteString(`</w:t>`)
	}
	sb.WriteString(`</w:r></w:p>`)

	sb.WriteString(`<w:sectPr/></w:body></w:document>`)
	return sb.String()
}
