package parser

import "testing"

func TestIsSupportedExtension(t *testing.T) {
	cases := []struct {
		filename string
		want     bool
	}{
		{"sds-2024-25.pdf", true},
		{"estimates.CSV", true},
		{"media-statement.html", true},
		{"notes.md", true},
		{"notes.markdown", true},
		{"budget.docx", true},
		{"archive.zip", false},
		{"no-extension", false},
	}
	for _, c := range cases {
		if got := IsSupportedExtension(c.filename); got != c.want {
			t.Errorf("IsSupportedExtension(%q) = %v, want %v", c.filename, got, c.want)
		}
	}
}

func TestForFile_MarkdownVariants(t *testing.T) {
	for _, name := range []string{"briefing.md", "briefing.markdown"} {
		p, err := ForFile(name)
		if err != nil {
			t.Fatalf("ForFile(%q): %v", name, err)
		}
		if _, ok := p.(*MarkdownParser); !ok {
			t.Errorf("ForFile(%q) = %T, want *MarkdownParser", name, p)
		}
	}
}
