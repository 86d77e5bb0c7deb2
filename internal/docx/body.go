package docx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// WordprocessingML main namespaces, transitional and strict
const (
	nsW       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsWStrict = "http://purl.oclc.org/ooxml/wordprocessingml/main"
)

// namespace describes how generated elements are written
type namespace struct {
	prefix  string
	declare string // URI to declare on each generated paragraph, if unbound
}

func (n namespace) name(local string) string {
	return n.prefix + ":" + local
}

// bodyLayout records where new paragraphs go in the main document part
type bodyLayout struct {
	ns namespace
	// insertAt is the offset of the body-level sectPr, or of </body> when
	// the document has none.
	insertAt int64
	// selfClosing is set for an empty <w:body/>; closeAt is the offset just
	// after it.
	selfClosing bool
	closeAt     int64
	bodyTag     string
}

// scanBody walks the main document part and finds the insertion point for
// appended paragraphs. Only the raw token stream is used so the original
// bytes can be spliced without re-encoding.
func scanBody(doc []byte) (*bodyLayout, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))

	var (
		stack      []xml.Name
		layout     bodyLayout
		prefixes   = map[string]string{}
		defaultNS  string
		inBody     bool
		bodyFound  bool
		sectPrAt   int64 = -1
		bodyPrefix string
	)

	for {
		off := dec.InputOffset()
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing main document: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name)
			depth := len(stack)

			switch {
			case depth == 1:
				if t.Name.Local != "document" {
					return nil, fmt.Errorf("unexpected root element <%s>", t.Name.Local)
				}
				collectNamespaces(t, prefixes, &defaultNS)
			case depth == 2 && t.Name.Local == "body" && !bodyFound:
				// Declarations on the body are in scope for the appended paragraphs
				collectNamespaces(t, prefixes, &defaultNS)
				inBody = true
				bodyFound = true
				bodyPrefix = t.Name.Space
				end := dec.InputOffset()
				if end >= 2 && string(doc[end-2:end]) == "/>" {
					layout.selfClosing = true
					layout.closeAt = end
				}
			case depth == 3 && inBody && t.Name.Local == "sectPr" && sectPrAt < 0:
				sectPrAt = off
			}

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unexpected closing tag </%s>", t.Name.Local)
			}
			open := stack[len(stack)-1]
			if open != t.Name {
				return nil, fmt.Errorf("element <%s> closed by </%s>", qualified(open), qualified(t.Name))
			}
			if len(stack) == 2 && inBody {
				inBody = false
				if !layout.selfClosing {
					layout.insertAt = off
				}
			}
			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) != 0 {
		return nil, fmt.Errorf("unexpected end of main document inside <%s>", qualified(stack[len(stack)-1]))
	}
	if !bodyFound {
		return nil, errors.New("main document has no body")
	}
	if sectPrAt >= 0 && !layout.selfClosing {
		layout.insertAt = sectPrAt
	}

	switch {
	case prefixes[nsW] != "":
		layout.ns = namespace{prefix: prefixes[nsW]}
	case prefixes[nsWStrict] != "":
		layout.ns = namespace{prefix: prefixes[nsWStrict]}
	case defaultNS == nsW || defaultNS == nsWStrict:
		layout.ns = namespace{prefix: "w", declare: defaultNS}
	default:
		return nil, errors.New("main document is not WordprocessingML")
	}
	layout.bodyTag = qualified(xml.Name{Space: bodyPrefix, Local: "body"})

	return &layout, nil
}

// collectNamespaces records the xmlns declarations of el. A prefix bound
// again on an inner element shadows its outer binding.
func collectNamespaces(el xml.StartElement, prefixes map[string]string, defaultNS *string) {
	for _, a := range el.Attr {
		switch {
		case a.Name.Space == "xmlns":
			for uri, prefix := range prefixes {
				if prefix == a.Name.Local {
					delete(prefixes, uri)
				}
			}
			prefixes[a.Value] = a.Name.Local
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			*defaultNS = a.Value
		}
	}
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// splice returns a copy of doc with fragment inserted at the layout's
// insertion point
func (l *bodyLayout) splice(doc, fragment []byte) []byte {
	out := make([]byte, 0, len(doc)+len(fragment)+32)
	if l.selfClosing {
		// <w:body/> becomes <w:body>fragment</w:body>
		out = append(out, doc[:l.closeAt-2]...)
		out = append(out, '>')
		out = append(out, fragment...)
		out = append(out, "</"+l.bodyTag+">"...)
		out = append(out, doc[l.closeAt:]...)
		return out
	}
	out = append(out, doc[:l.insertAt]...)
	out = append(out, fragment...)
	out = append(out, doc[l.insertAt:]...)
	return out
}
