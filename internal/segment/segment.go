package segment

import (
	"strings"

	"github.com/openaudit/spendscan/internal/doctree"
)

// Candidate is a fragment of a document worth extracting from: a table
// row or a sentence that mentions at least one subject keyword. It
// carries provenance back to the source document and is never persisted.
type Candidate struct {
	SourceURL   string
	Page        int
	Row         int
	Text        string
	KeywordHits []string
	FromTable   bool
}

// Locator finds candidate segments in parsed documents.
type Locator struct {
	subjects []string
}

// NewLocator builds a Locator over the given subject keyword set.
// Keywords are matched as lowercase substrings.
func NewLocator(subjects []string) *Locator {
	lowered := make([]string, 0, len(subjects))
	for _, s := range subjects {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			lowered = append(lowered, s)
		}
	}
	return &Locator{subjects: lowered}
}

// Locate walks the document blocks and returns candidates in document
// order. Row blocks are tested whole; text blocks are split into
// sentences and each sentence tested individually. Blocks with no
// keyword occurrence at all are skipped without sentence splitting.
func (l *Locator) Locate(doc *doctree.Document, sourceURL string) []Candidate {
	var candidates []Candidate

	for _, block := range doc.Blocks {
		switch block.Kind {
		case doctree.KindRow:
			hits := l.hits(block.Text)
			if len(hits) == 0 {
				continue
			}
			candidates = append(candidates, Candidate{
				SourceURL:   sourceURL,
				Page:        block.Page,
				Row:         block.Row,
				Text:        block.Text,
				KeywordHits: hits,
				FromTable:   true,
			})

		case doctree.KindText:
			// Cheap prefilter: no keyword anywhere in the block
			// means no sentence can match.
			if len(l.hits(block.Text)) == 0 {
				continue
			}
			for _, sentence := range splitSentences(block.Text) {
				hits := l.hits(sentence)
				if len(hits) == 0 {
					continue
				}
				candidates = append(candidates, Candidate{
					SourceURL:   sourceURL,
					Page:        block.Page,
					Text:        sentence,
					KeywordHits: hits,
				})
			}
		}
	}

	return candidates
}

// hits returns the subject keywords present in text, in keyword order.
func (l *Locator) hits(text string) []string {
	lowered := strings.ToLower(text)
	var hits []string
	for _, kw := range l.subjects {
		if strings.Contains(lowered, kw) {
			hits = append(hits, kw)
		}
	}
	return hits
}

// splitSentences does basic sentence splitting on terminal punctuation
// followed by whitespace.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && isSpace(text[i+1]) {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}
