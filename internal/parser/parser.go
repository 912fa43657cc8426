package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/openaudit/spendscan/internal/doctree"
	"github.com/openaudit/spendscan/internal/document"
)

// Parser converts raw document bytes into a flat block document.
type Parser interface {
	Parse(r io.Reader, name string) (*doctree.Document, error)
}

// SupportedExtensions lists file extensions this pipeline can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForContentType returns the parser for a document's declared type.
func ForContentType(ct document.ContentType) (Parser, error) {
	switch ct {
	case document.TypeText:
		return &TextParser{}, nil
	case document.TypeMarkdown:
		return &MarkdownParser{}, nil
	case document.TypeCSV:
		return &CSVParser{}, nil
	case document.TypeHTML:
		return &HTMLParser{}, nil
	case document.TypePDF:
		return &PDFParser{FallbackPdftotext: true}, nil
	case document.TypeDOCX:
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported content type: %s", ct)
	}
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ct, ok := document.TypeForFilename(filename)
	if !ok {
		return nil, fmt.Errorf("unsupported file extension: %s", filepath.Ext(filename))
	}
	return ForContentType(ct)
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

func titleFromFilename(filename string, exts ...string) string {
	for _, ext := range exts {
		filename = strings.TrimSuffix(filename, ext)
	}
	return filename
}
