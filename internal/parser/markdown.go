package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/openaudit/spendscan/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown media statements using goldmark.
// Pipe tables are enabled so published data tables surface as row
// blocks alongside narrative paragraphs.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	reader := text.NewReader(src)
	root := md.Parser().Parse(reader)

	doc := &doctree.Document{
		Title: titleFromFilename(filename, ".md", ".markdown"),
	}

	row := 0
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if t := string(node.Text(src)); t != "" {
				doc.Blocks = append(doc.Blocks, doctree.Block{
					Kind: doctree.KindHeading,
					Text: t,
				})
			}

		case *east.Table:
			for tr := node.FirstChild(); tr != nil; tr = tr.NextSibling() {
				var cells []string
				for cell := tr.FirstChild(); cell != nil; cell = cell.NextSibling() {
					if t := extractText(cell, src); t != "" {
						cells = append(cells, t)
					}
				}
				rowText := strings.Join(cells, " | ")
				if rowText == "" {
					continue
				}
				doc.Blocks = append(doc.Blocks, doctree.Block{
					Kind: doctree.KindRow,
					Text: rowText,
					Row:  row,
				})
				row++
			}

		default:
			if t := extractText(n, src); t != "" {
				doc.Blocks = append(doc.Blocks, doctree.Block{
					Kind: doctree.KindText,
					Text: t,
				})
			}
		}
	}

	return doc, nil
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	// Also handle inline children.
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			// Recurse for nested inlines.
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
