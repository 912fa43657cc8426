package segment

import (
	"testing"

	"github.com/openaudit/spendscan/internal/doctree"
)

var testSubjects = []string{"youth justice", "youth detention", "detention centre", "youth crime"}

func TestLocator_RowBlocks(t *testing.T) {
	doc := &doctree.Document{
		Blocks: []doctree.Block{
			{Kind: doctree.KindRow, Text: "Cleveland Youth Detention Centre | $85.3 million", Row: 0},
			{Kind: doctree.KindRow, Text: "Road maintenance | $200 million", Row: 1},
			{Kind: doctree.KindRow, Text: "Youth justice reform | $12.1 million", Row: 2},
		},
	}

	l := NewLocator(testSubjects)
	got := l.Locate(doc, "https://example.gov/sds.html")

	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if !got[0].FromTable {
		t.Errorf("expected FromTable=true for row candidate")
	}
	if got[0].Row != 0 || got[1].Row != 2 {
		t.Errorf("expected rows 0 and 2, got %d and %d", got[0].Row, got[1].Row)
	}
	if got[0].SourceURL != "https://example.gov/sds.html" {
		t.Errorf("expected source URL carried through, got %q", got[0].SourceURL)
	}
}

func TestLocator_SentenceSplitting(t *testing.T) {
	doc := &doctree.Document{
		Blocks: []doctree.Block{
			{
				Kind: doctree.KindText,
				Text: "The budget funds many areas. Youth justice programs receive $45 million! Roads get more. What about youth detention? It is funded too.",
				Page: 3,
			},
		},
	}

	l := NewLocator(testSubjects)
	got := l.Locate(doc, "doc.pdf")

	if len(got) != 2 {
		t.Fatalf("expected 2 sentence candidates, got %d", len(got))
	}
	if got[0].Text != "Youth justice programs receive $45 million!" {
		t.Errorf("expected verbatim sentence, got %q", got[0].Text)
	}
	if got[1].Text != "What about youth detention?" {
		t.Errorf("expected question sentence, got %q", got[1].Text)
	}
	if got[0].Page != 3 {
		t.Errorf("expected page 3 carried through, got %d", got[0].Page)
	}
	if got[0].FromTable {
		t.Errorf("expected FromTable=false for sentence candidate")
	}
}

func TestLocator_KeywordHits(t *testing.T) {
	doc := &doctree.Document{
		Blocks: []doctree.Block{
			{Kind: doctree.KindRow, Text: "Youth justice and youth detention spending combined"},
		},
	}

	l := NewLocator(testSubjects)
	got := l.Locate(doc, "x")

	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if len(got[0].KeywordHits) != 2 {
		t.Fatalf("expected 2 keyword hits, got %v", got[0].KeywordHits)
	}
	if got[0].KeywordHits[0] != "youth justice" || got[0].KeywordHits[1] != "youth detention" {
		t.Errorf("unexpected hits %v", got[0].KeywordHits)
	}
}

func TestLocator_CaseInsensitive(t *testing.T) {
	doc := &doctree.Document{
		Blocks: []doctree.Block{
			{Kind: doctree.KindText, Text: "YOUTH JUSTICE funding was announced."},
		},
	}

	l := NewLocator(testSubjects)
	if got := l.Locate(doc, "x"); len(got) != 1 {
		t.Fatalf("expected 1 candidate for uppercase text, got %d", len(got))
	}
}

func TestLocator_NoKeywordsNoCandidates(t *testing.T) {
	doc := &doctree.Document{
		Blocks: []doctree.Block{
			{Kind: doctree.KindText, Text: "Transport budget grows. Health spending too."},
			{Kind: doctree.KindRow, Text: "Hospitals | $4 billion"},
			{Kind: doctree.KindHeading, Text: "Youth Justice Services"},
		},
	}

	l := NewLocator(testSubjects)
	if got := l.Locate(doc, "x"); len(got) != 0 {
		t.Errorf("expected no candidates, got %d", len(got))
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("One. Two! Three? Trailing fragment")
	want := []string{"One.", "Two!", "Three?", "Trailing fragment"}
	if len(got) != len(want) {
		t.Fatalf("expected %d sentences, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence[%d]: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSplitSentences_DecimalNotSplit(t *testing.T) {
	// A period inside a number is not followed by a space, so it must
	// not end a sentence.
	got := splitSentences("Funding of $85.3 million was allocated. More follows.")
	if len(got) != 2 {
		t.Fatalf("expected 2 sentences, got %d: %v", len(got), got)
	}
	if got[0] != "Funding of $85.3 million was allocated." {
		t.Errorf("unexpected first sentence %q", got[0])
	}
}
