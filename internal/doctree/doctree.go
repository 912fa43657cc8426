package doctree

import "strings"

// Kind classifies a parsed block.
type Kind string

const (
	KindText    Kind = "text"    // Narrative text (paragraph or page).
	KindHeading Kind = "heading" // Section heading.
	KindRow     Kind = "row"     // One table row, cells joined verbatim.
)

// Block is one unit of parsed document content with provenance.
type Block struct {
	Kind Kind
	Text string
	Page int // Source page (0 if N/A).
	Row  int // Table row index within the document (0 if N/A).
}

// Document is the flat, typed output of every parser: whatever the
// source format, downstream consumers see the same block shapes.
type Document struct {
	Title  string // Document title (from metadata or filename).
	Blocks []Block
}

// FullText joins all block text in document order. Used for
// document-wide scans that need narrative context, not structure.
func (d *Document) FullText() string {
	var sb strings.Builder
	for _, b := range d.Blocks {
		if b.Text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(b.Text)
	}
	return sb.String()
}
