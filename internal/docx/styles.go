package docx

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// stylesXML represents the structure of word/styles.xml
type stylesXML struct {
	XMLName xml.Name      `xml:"styles"`
	Styles  []styleDefXML `xml:"style"`
}

// styleDefXML represents a style definition.
type styleDefXML struct {
	Type    string     `xml:"type,attr"` // paragraph, character, table, numbering
	StyleID string     `xml:"styleId,attr"`
	Name    valAttrXML `xml:"name"`
	BasedOn valAttrXML `xml:"basedOn"`
}

type valAttrXML struct {
	Val string `xml:"val,attr"`
}

// Style is a named entry of a document's style catalog
type Style struct {
	ID      string
	Name    string
	Type    string
	BasedOn string
}

// StyleCatalog indexes the styles defined by one document. A nil catalog is
// valid and defines nothing.
type StyleCatalog struct {
	byName map[string]Style
}

// ParseStyles parses the content of a styles part
func ParseStyles(data []byte) (*StyleCatalog, error) {
	var doc stylesXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing styles: %w", err)
	}

	c := &StyleCatalog{byName: make(map[string]Style, len(doc.Styles))}
	for _, s := range doc.Styles {
		if s.StyleID == "" {
			continue
		}
		name := s.Name.Val
		if name == "" {
			name = s.StyleID
		}
		key := styleKey(name)
		// First definition wins, as in Word.
		if _, dup := c.byName[key]; dup {
			continue
		}
		c.byName[key] = Style{
			ID:      s.StyleID,
			Name:    name,
			Type:    s.Type,
			BasedOn: s.BasedOn.Val,
		}
	}
	return c, nil
}

// Built-in styles are stored lowercase ("heading 1") but shown capitalized
// ("Heading 1"), so names compare case-insensitively.
func styleKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Lookup returns the paragraph style with the given display name
func (c *StyleCatalog) Lookup(name string) (Style, bool) {
	if c == nil {
		return Style{}, false
	}
	s, ok := c.byName[styleKey(name)]
	if !ok || (s.Type != "" && s.Type != "paragraph") {
		return Style{}, false
	}
	return s, true
}

// Has reports whether a paragraph style with the given name is defined
func (c *StyleCatalog) Has(name string) bool {
	_, ok := c.Lookup(name)
	return ok
}

// Len returns the number of named styles
func (c *StyleCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byName)
}
