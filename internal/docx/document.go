// Package docx appends content to Office Open XML word-processing packages
// while leaving every existing part byte-for-byte intact.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
)

// MIMEType is the content type of a word-processing package
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const (
	relTypeOfficeDocument = "/officeDocument"
	relTypeStyles         = "/styles"
	defaultMainPart       = "word/document.xml"
)

// relationshipsXML represents _rels/*.rels files
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

// relationshipXML represents a single relationship.
type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// Document is a word-processing package loaded in memory. Paragraphs added
// to it are kept aside and spliced into the main part by Bytes.
type Document struct {
	zr       *zip.Reader
	mainPart string
	main     []byte
	layout   *bodyLayout
	styles   *StyleCatalog
	appended bytes.Buffer
}

// Open parses data as a word-processing package. The input slice is never
// modified.
func Open(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening package: %w", err)
	}

	d := &Document{zr: zr}

	d.mainPart, err = d.resolveMainPart()
	if err != nil {
		return nil, err
	}

	d.main, err = d.readPart(d.mainPart)
	if err != nil {
		return nil, fmt.Errorf("reading main document: %w", err)
	}

	d.layout, err = scanBody(d.main)
	if err != nil {
		return nil, err
	}

	if err := d.loadStyles(); err != nil {
		return nil, err
	}

	return d, nil
}

// findFile returns a zip.File by name.
func (d *Document) findFile(name string) *zip.File {
	for _, f := range d.zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (d *Document) readPart(name string) ([]byte, error) {
	f := d.findFile(name)
	if f == nil {
		return nil, fmt.Errorf("missing part: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// readRels parses the relationships part for source, if present
func (d *Document) readRels(source string) (*relationshipsXML, error) {
	dir, file := path.Split(source)
	relsName := path.Join(dir, "_rels", file+".rels")
	if d.findFile(relsName) == nil {
		return nil, nil
	}
	data, err := d.readPart(relsName)
	if err != nil {
		return nil, err
	}
	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", relsName, err)
	}
	return &rels, nil
}

// resolveTarget turns a relationship target into a part name relative to
// the package root
func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(source), target)
}

func (d *Document) resolveMainPart() (string, error) {
	rels, err := d.readRels("")
	if err != nil {
		return "", err
	}
	if rels != nil {
		for _, r := range rels.Relationships {
			if strings.HasSuffix(r.Type, relTypeOfficeDocument) && r.TargetMode != "External" {
				name := resolveTarget("", r.Target)
				if d.findFile(name) == nil {
					return "", fmt.Errorf("missing main document part: %s", name)
				}
				return name, nil
			}
		}
	}
	if d.findFile(defaultMainPart) == nil {
		return "", fmt.Errorf("missing required file: %s", defaultMainPart)
	}
	return defaultMainPart, nil
}

// loadStyles reads the style catalog of the main part. A package without a
// styles part has an empty catalog.
func (d *Document) loadStyles() error {
	name := ""
	rels, err := d.readRels(d.mainPart)
	if err != nil {
		return err
	}
	if rels != nil {
		for _, r := range rels.Relationships {
			if strings.HasSuffix(r.Type, relTypeStyles) && r.TargetMode != "External" {
				name = resolveTarget(d.mainPart, r.Target)
				break
			}
		}
	}
	if name == "" {
		name = path.Join(path.Dir(d.mainPart), "styles.xml")
	}
	if d.findFile(name) == nil {
		return nil
	}

	data, err := d.readPart(name)
	if err != nil {
		return fmt.Errorf("reading styles: %w", err)
	}
	d.styles, err = ParseStyles(data)
	return err
}

// Styles returns the document's style catalog
func (d *Document) Styles() *StyleCatalog {
	return d.styles
}

// MainPart returns the name of the main document part
func (d *Document) MainPart() string {
	return d.mainPart
}

// Add appends a paragraph to the end of the body
func (d *Document) Add(p Paragraph) {
	p.render(&d.appended, d.layout.ns)
}

// AddPageBreak appends a paragraph holding a page break
func (d *Document) AddPageBreak() {
	d.Add(Paragraph{PageBreak: true})
}

// AddParagraph appends a plain paragraph, styled with the named paragraph
// style when the document defines it
func (d *Document) AddParagraph(text, styleName string) {
	p := Paragraph{Text: text}
	if s, ok := d.styles.Lookup(styleName); ok {
		p.StyleID = s.ID
	}
	d.Add(p)
}

// AddHeading appends a heading of the given level (1-9). Documents without
// the matching "Heading N" style get a bold paragraph with the same outline
// level.
func (d *Document) AddHeading(text string, level int) {
	if level < 1 {
		level = 1
	}
	if s, ok := d.styles.Lookup(fmt.Sprintf("Heading %d", level)); ok {
		d.Add(Paragraph{Text: text, StyleID: s.ID})
		return
	}
	d.Add(Paragraph{
		Text:         text,
		OutlineLevel: level,
		Bold:         true,
		HalfPoints:   headingHalfPoints(level),
	})
}

func headingHalfPoints(level int) int {
	switch level {
	case 1:
		return 32
	case 2:
		return 26
	default:
		return 24
	}
}

// Bytes serializes the package with the appended paragraphs. Parts other
// than the main document are copied without recompression.
func (d *Document) Bytes() ([]byte, error) {
	main := d.main
	if d.appended.Len() > 0 {
		main = d.layout.splice(d.main, d.appended.Bytes())
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, f := range d.zr.File {
		if f.Name != d.mainPart {
			if err := zw.Copy(f); err != nil {
				return nil, fmt.Errorf("copying %s: %w", f.Name, err)
			}
			continue
		}

		method := f.Method
		if method != zip.Store {
			method = zip.Deflate
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   method,
			Modified: f.Modified,
			Comment:  f.Comment,
		})
		if err != nil {
			return nil, fmt.Errorf("writing %s: %w", f.Name, err)
		}
		if _, err := w.Write(main); err != nil {
			return nil, fmt.Errorf("writing %s: %w", f.Name, err)
		}
	}

	if d.zr.Comment != "" {
		if err := zw.SetComment(d.zr.Comment); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing package: %w", err)
	}
	return buf.Bytes(), nil
}
