package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/openaudit/spendscan/internal/doctree"
)

// CSVParser handles CSV exports of budget line items. Each data row
// becomes one row block with "header: value" cells, mirroring how a
// table row reads in a budget paper.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &doctree.Document{
		Title: titleFromFilename(filename, ".csv"),
	}

	if len(records) == 0 {
		return doc, nil
	}

	// First row is headers.
	headers := records[0]

	for i, row := range records[1:] {
		var cells []string
		for j, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			if j < len(headers) && strings.TrimSpace(headers[j]) != "" {
				cells = append(cells, strings.TrimSpace(headers[j])+": "+cell)
			} else {
				cells = append(cells, cell)
			}
		}
		text := strings.Join(cells, ", ")
		if text == "" {
			continue
		}
		doc.Blocks = append(doc.Blocks, doctree.Block{
			Kind: doctree.KindRow,
			Text: text,
			Row:  i,
		})
	}

	return doc, nil
}
