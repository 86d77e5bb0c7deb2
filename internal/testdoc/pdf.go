// Package testdoc builds small PDF and DOCX documents for tests.
package testdoc

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"
)

const (
	// FontSize used for every generated line
	FontSize = 10.0
	// LineSpacing separates lines of one block
	LineSpacing = 12.0
	// BlockSpacing separates consecutive blocks
	BlockSpacing = 36.0

	topMargin  = 72.0
	leftMargin = 56.0
)

// Block is a paragraph of one or more lines drawn as a unit
type Block []string

// Page lists the blocks of one page from top to bottom
type Page []Block

// PDF renders pages into a PDF document. Each line is drawn with its own
// text operator so that line and block spacing follow the constants above.
func PDF(pages ...Page) ([]byte, error) {
	doc := gofpdf.New("P", "pt", "A4", "")
	doc.SetCompression(false)
	doc.SetFont("Helvetica", "", FontSize)

	for _, page := range pages {
		doc.AddPage()
		y := topMargin
		for _, block := range page {
			for _, line := range block {
				doc.Text(leftMargin, y, line)
				y += LineSpacing
			}
			y += BlockSpacing - LineSpacing
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SingleBlocks is a convenience for a page made of one-line blocks
func SingleBlocks(lines ...string) Page {
	page := make(Page, 0, len(lines))
	for _, l := range lines {
		page = append(page, Block{l})
	}
	return page
}
