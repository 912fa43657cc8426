package document

import "testing"

func TestTypeForFilename(t *testing.T) {
	cases := []struct {
		name string
		want ContentType
		ok   bool
	}{
		{"budget-paper-3.pdf", TypePDF, true},
		{"statement.HTML", TypeHTML, true},
		{"transcript.txt", TypeText, true},
		{"allocations.csv", TypeCSV, true},
		{"release.md", TypeMarkdown, true},
		{"minutes.docx", TypeDOCX, true},
		{"archive.zip", "", false},
		{"noextension", "", false},
	}
	for _, c := range cases {
		got, ok := TypeForFilename(c.name)
		if ok != c.ok || got != c.want {
			t.Errorf("TypeForFilename(%q): expected (%q, %v), got (%q, %v)", c.name, c.want, c.ok, got, ok)
		}
	}
}

func TestTypeForMIME(t *testing.T) {
	cases := []struct {
		header string
		want   ContentType
		ok     bool
	}{
		{"text/html; charset=utf-8", TypeHTML, true},
		{"application/pdf", TypePDF, true},
		{"text/csv", TypeCSV, true},
		{"application/octet-stream", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := TypeForMIME(c.header)
		if ok != c.ok || got != c.want {
			t.Errorf("TypeForMIME(%q): expected (%q, %v), got (%q, %v)", c.header, c.want, c.ok, got, ok)
		}
	}
}

func TestContentHash_Consistency(t *testing.T) {
	d := &RawDocument{Content: []byte("hello world")}
	h1 := d.ContentHash()
	h2 := d.ContentHash()
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}
