package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/openaudit/spendscan/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML pages: budget index pages, media statements,
// and tabled reports. Narrative text and table rows become separate
// block kinds so the locator can apply row-level and sentence-level
// keyword tests independently.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &doctree.Document{
		Title: titleFromFilename(filename, ".html", ".htm"),
	}
	if title := findTitle(root); title != "" {
		doc.Title = title
	}

	// Walk for narrative blocks, excluding table content (captured
	// separately below) and non-content chrome.
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				if t := textContent(n); t != "" {
					doc.Blocks = append(doc.Blocks, doctree.Block{
						Kind: doctree.KindHeading,
						Text: t,
					})
				}
				return
			}

			switch n.Data {
			case "script", "style", "nav", "footer", "header", "table":
				return
			case "p", "li", "blockquote":
				if t := textContent(n); t != "" {
					doc.Blocks = append(doc.Blocks, doctree.Block{
						Kind: doctree.KindText,
						Text: t,
					})
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	body := findBody(root)
	if body != nil {
		walk(body)
	} else {
		walk(root)
	}

	// Second pass over the same parse tree: every table row becomes a
	// row block with cells joined verbatim.
	gq := goquery.NewDocumentFromNode(root)
	row := 0
	gq.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		text := strings.TrimSpace(strings.Join(cells, " | "))
		if text == "" {
			return
		}
		doc.Blocks = append(doc.Blocks, doctree.Block{
			Kind: doctree.KindRow,
			Text: text,
			Row:  row,
		})
		row++
	})

	return doc, nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
