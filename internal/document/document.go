package document

import (
	"crypto/sha256"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// ContentType identifies the format of a fetched document.
type ContentType string

const (
	TypeHTML     ContentType = "html"
	TypePDF      ContentType = "pdf"
	TypeText     ContentType = "text"
	TypeMarkdown ContentType = "markdown"
	TypeCSV      ContentType = "csv"
	TypeDOCX     ContentType = "docx"
)

// Valid reports whether ct is a supported content type.
func (ct ContentType) Valid() bool {
	switch ct {
	case TypeHTML, TypePDF, TypeText, TypeMarkdown, TypeCSV, TypeDOCX:
		return true
	}
	return false
}

// RawDocument is one fetched source document handed to the pipeline.
// It is immutable once fetched and owned by the caller.
type RawDocument struct {
	SourceURL      string
	Title          string
	FiscalYearHint string
	ContentType    ContentType
	Content        []byte
}

// ContentHash returns the SHA-256 of the raw content as a hex string,
// identifying fetched content in logs across runs.
func (d *RawDocument) ContentHash() string {
	h := sha256.Sum256(d.Content)
	return fmt.Sprintf("%x", h[:])
}

// TypeForFilename infers a content type from a file extension.
func TypeForFilename(name string) (ContentType, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return TypeHTML, true
	case ".pdf":
		return TypePDF, true
	case ".txt":
		return TypeText, true
	case ".md", ".markdown":
		return TypeMarkdown, true
	case ".csv":
		return TypeCSV, true
	case ".docx":
		return TypeDOCX, true
	}
	return "", false
}

// TypeForMIME infers a content type from a Content-Type header value.
func TypeForMIME(header string) (ContentType, bool) {
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return "", false
	}
	switch mediaType {
	case "text/html", "application/xhtml+xml":
		return TypeHTML, true
	case "application/pdf":
		return TypePDF, true
	case "text/plain":
		return TypeText, true
	case "text/markdown":
		return TypeMarkdown, true
	case "text/csv":
		return TypeCSV, true
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return TypeDOCX, true
	}
	return "", false
}
