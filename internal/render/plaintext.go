package render

import (
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// PlainText renders the AI response as undecorated text: the Markdown
// structure is flattened and emphasis/heading markers are dropped.
type PlainText struct{}

func (PlainText) Extension() string { return ".txt" }
func (PlainText) MIME() string      { return MIMEText }

func (PlainText) Render(purpose, aiText, destDir, basename string) (string, error) {
	target := filepath.Join(destDir, basename+".txt")
	if err := writeFileAtomic(target, []byte(Flatten(aiText))); err != nil {
		return "", err
	}
	return target, nil
}

// Flatten parses text as Markdown and returns its plain-text projection,
// one line per block. Decoration characters the parser leaves behind (inline
// "**" or "#" that are not markup) are removed as well, so the output never
// contains them.
func Flatten(input string) string {
	source := []byte(input)
	doc := goldmark.New().Parser().Parse(gmtext.NewReader(source))

	var sb strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			switch t := n.(type) {
			case *ast.Text:
				sb.Write(t.Segment.Value(source))
				if t.SoftLineBreak() || t.HardLineBreak() {
					sb.WriteString("\n")
				}
			case *ast.FencedCodeBlock, *ast.CodeBlock:
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					sb.Write(seg.Value(source))
				}
			}
			return ast.WalkContinue, nil
		}
		if n.Type() == ast.TypeBlock && n.Kind() != ast.KindDocument {
			if s := sb.String(); s != "" && !strings.HasSuffix(s, "\n") {
				sb.WriteString("\n")
			}
		}
		return ast.WalkContinue, nil
	})

	out := sb.String()
	out = strings.ReplaceAll(out, "**", "")
	out = strings.ReplaceAll(out, "#", "")
	return strings.TrimSpace(out)
}
