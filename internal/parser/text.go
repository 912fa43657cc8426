package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/openaudit/spendscan/internal/doctree"
)

// TextParser handles plain text files and transcript dumps.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	doc := &doctree.Document{
		Title: titleFromFilename(filename, ".txt"),
	}

	// Each paragraph becomes a text block.
	for _, para := range paragraphs {
		doc.Blocks = append(doc.Blocks, doctree.Block{
			Kind: doctree.KindText,
			Text: para,
		})
	}

	return doc, nil
}
