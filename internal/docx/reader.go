package docx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// BodyParagraph is a paragraph read back from a main document part
type BodyParagraph struct {
	StyleID      string
	Text         string
	PageBreak    bool
	OutlineLevel string
}

// Paragraphs returns the top-level body paragraphs of the package in data,
// in document order
func Paragraphs(data []byte) ([]BodyParagraph, error) {
	d, err := Open(data)
	if err != nil {
		return nil, err
	}
	return parseParagraphs(d.main)
}

func parseParagraphs(doc []byte) ([]BodyParagraph, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))

	var (
		out   []BodyParagraph
		cur   *BodyParagraph
		text  strings.Builder
		depth int
		inT   bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch {
			case depth == 3 && t.Name.Local == "p":
				cur = &BodyParagraph{}
				text.Reset()
			case cur == nil:
			case t.Name.Local == "pStyle":
				cur.StyleID = attr(t, "val")
			case t.Name.Local == "outlineLvl":
				cur.OutlineLevel = attr(t, "val")
			case t.Name.Local == "br" && attr(t, "type") == "page":
				cur.PageBreak = true
			case t.Name.Local == "t":
				inT = true
			case t.Name.Local == "tab":
				text.WriteByte('\t')
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inT = false
			}
			if depth == 3 && t.Name.Local == "p" && cur != nil {
				cur.Text = text.String()
				out = append(out, *cur)
				cur = nil
			}
			depth--
		case xml.CharData:
			if inT && cur != nil {
				text.Write(t)
			}
		}
	}

	return out, nil
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
