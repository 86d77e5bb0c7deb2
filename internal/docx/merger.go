package docx

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/a3tai/mcp-pdf-keymatch/internal/failure"
	"github.com/a3tai/mcp-pdf-keymatch/internal/match"
)

const (
	// BulletStyle is the paragraph style used for match entries when the
	// destination defines it
	BulletStyle = "List Bullet"
	// BulletGlyph prefixes match entries in documents without BulletStyle
	BulletGlyph = "•"
)

// HeadingText is the heading of the appended section
func HeadingText(keyword string) string {
	return fmt.Sprintf("Extracted Occurrences: '%s'", keyword)
}

// NoMatchesText is the notice written when there are no matches
func NoMatchesText(keyword string) string {
	return fmt.Sprintf("No occurrences of '%s' found in the PDF.", keyword)
}

// Merge appends a page break, a heading and the match list to the
// word-processing document in data and returns the re-serialized package.
// Any failure is logged and returned as an error wrapping failure.ErrMerge;
// no partial output is ever returned.
func Merge(data []byte, matches []match.Record, keyword string) ([]byte, error) {
	out, err := merge(data, matches, keyword)
	if err != nil {
		log.Error().Err(err).Str("op", "merge").Msgf("Word Update Error: %v", err)
		return nil, err
	}
	return out, nil
}

func merge(data []byte, matches []match.Record, keyword string) ([]byte, error) {
	doc, err := Open(data)
	if err != nil {
		return nil, failure.Wrap(failure.KindMerge, "open", err)
	}

	doc.AddPageBreak()
	doc.AddHeading(HeadingText(keyword), 1)

	if len(matches) == 0 {
		doc.AddParagraph(NoMatchesText(keyword), "")
	} else {
		appendEntries(doc, matches)
	}

	out, err := doc.Bytes()
	if err != nil {
		return nil, failure.Wrap(failure.KindMerge, "serialize", err)
	}

	log.Debug().
		Int("entries", len(matches)).
		Int("size", len(out)).
		Msg("document merge complete")

	return out, nil
}

// appendEntries writes one list paragraph per record. The bullet style is
// looked up once for the whole list.
func appendEntries(doc *Document, matches []match.Record) {
	style, native := doc.Styles().Lookup(BulletStyle)

	for _, m := range matches {
		if native {
			doc.Add(Paragraph{Text: m.String(), StyleID: style.ID})
			continue
		}
		doc.Add(Paragraph{Text: BulletGlyph + " " + m.String()})
	}
}
