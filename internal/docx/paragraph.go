package docx

import (
	"bytes"
	"encoding/xml"
	"strconv"
)

// Paragraph is a paragraph to be appended to a document body
type Paragraph struct {
	Text      string
	StyleID   string
	PageBreak bool
	// OutlineLevel marks a paragraph as a heading when no heading style is
	// available; 0 means none, 1 is a top-level heading.
	OutlineLevel int
	Bold         bool
	HalfPoints   int // run font size in half-points, 0 keeps the default
}

// render writes the paragraph as WordprocessingML using ns
func (p Paragraph) render(buf *bytes.Buffer, ns namespace) {
	buf.WriteString("<" + ns.name("p"))
	if ns.declare != "" {
		buf.WriteString(` xmlns:` + ns.prefix + `="`)
		_ = xml.EscapeText(buf, []byte(ns.declare))
		buf.WriteString(`"`)
	}
	buf.WriteString(">")

	if p.StyleID != "" || p.OutlineLevel > 0 {
		buf.WriteString("<" + ns.name("pPr") + ">")
		if p.StyleID != "" {
			writeValElement(buf, ns, "pStyle", p.StyleID)
		}
		if p.OutlineLevel > 0 {
			writeValElement(buf, ns, "outlineLvl", strconv.Itoa(p.OutlineLevel-1))
		}
		buf.WriteString("</" + ns.name("pPr") + ">")
	}

	buf.WriteString("<" + ns.name("r") + ">")
	if p.Bold || p.HalfPoints > 0 {
		buf.WriteString("<" + ns.name("rPr") + ">")
		if p.Bold {
			buf.WriteString("<" + ns.name("b") + "/>")
		}
		if p.HalfPoints > 0 {
			writeValElement(buf, ns, "sz", strconv.Itoa(p.HalfPoints))
		}
		buf.WriteString("</" + ns.name("rPr") + ">")
	}
	if p.PageBreak {
		buf.WriteString("<" + ns.name("br") + " " + ns.name("type") + `="page"/>`)
	}
	if p.Text != "" {
		buf.WriteString("<" + ns.name("t") + ` xml:space="preserve">`)
		_ = xml.EscapeText(buf, []byte(p.Text))
		buf.WriteString("</" + ns.name("t") + ">")
	}
	buf.WriteString("</" + ns.name("r") + ">")

	buf.WriteString("</" + ns.name("p") + ">")
}

func writeValElement(buf *bytes.Buffer, ns namespace, local, val string) {
	buf.WriteString("<" + ns.name(local) + " " + ns.name("val") + `="`)
	_ = xml.EscapeText(buf, []byte(val))
	buf.WriteString(`"/>`)
}
