package pdf

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"

	"github.com/a3tai/mcp-pdf-keymatch/internal/failure"
	"github.com/a3tai/mcp-pdf-keymatch/internal/match"
)

// Extract scans every text block of the PDF in data and returns the blocks
// containing keyword, in page then block order. A document that cannot be
// parsed yields an error wrapping failure.ErrExtraction; a readable document
// without occurrences yields an empty slice and no error.
func Extract(data []byte, keyword string) ([]match.Record, error) {
	matches, _, err := extract(data, keyword)
	return matches, err
}

// extract is Extract that also reports the page count of the document
func extract(data []byte, keyword string) ([]match.Record, int, error) {
	blocks, pages, err := readDocument(data)
	if err != nil {
		log.Error().Err(err).Str("op", "extract").Msgf("PDF Analysis Error: %v", err)
		return nil, 0, err
	}

	matches := []match.Record{}
	for _, b := range blocks {
		if !match.Contains(b.Text, keyword) {
			continue
		}
		matches = append(matches, match.Record{Page: b.Page, Text: match.Normalize(b.Text)})
	}

	log.Debug().
		Int("pages", pages).
		Int("blocks", len(blocks)).
		Int("matches", len(matches)).
		Str("keyword", keyword).
		Msg("keyword extraction complete")

	return matches, pages, nil
}

// ReadBlocks parses data as a PDF and returns all non-empty text blocks in
// reading order
func ReadBlocks(data []byte) ([]TextBlock, error) {
	blocks, _, err := readDocument(data)
	return blocks, err
}

func readDocument(data []byte) (blocks []TextBlock, total int, err error) {
	if len(data) == 0 {
		return nil, 0, failure.New(failure.KindExtraction, "open", "empty PDF content")
	}

	pageNum := 0
	// ledongthuc/pdf panics on malformed objects and content streams
	defer func() {
		if r := recover(); r != nil {
			blocks, total = nil, 0
			err = failure.Wrap(failure.KindExtraction, "read",
				fmt.Errorf("malformed PDF near page %d: %v", pageNum, r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, 0, failure.Wrap(failure.KindExtraction, "open", err)
	}

	total = reader.NumPage()
	for pageNum = 1; pageNum <= total; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		blocks = append(blocks, pageBlocks(page, pageNum)...)
	}

	return blocks, total, nil
}
