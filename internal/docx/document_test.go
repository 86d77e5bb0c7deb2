package docx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-pdf-keymatch/internal/testdoc"
)

func TestScanBody(t *testing.T) {
	tests := []struct {
		name        string
		doc         string
		wantPrefix  string
		wantDeclare string
		wantBefore  string // text expected right after the insertion point
		selfClosing bool
	}{
		{
			name:       "section properties",
			doc:        `<w:document xmlns:w="` + nsW + `"><w:body><w:p/><w:sectPr><w:pgSz/></w:sectPr></w:body></w:document>`,
			wantPrefix: "w",
			wantBefore: "<w:sectPr>",
		},
		{
			name:       "paragraph-level section break is skipped",
			doc:        `<w:document xmlns:w="` + nsW + `"><w:body><w:p><w:pPr><w:sectPr/></w:pPr></w:p><w:p/></w:body></w:document>`,
			wantPrefix: "w",
			wantBefore: "</w:body>",
		},
		{
			name:       "custom prefix",
			doc:        `<ns0:document xmlns:ns0="` + nsW + `"><ns0:body><ns0:p/></ns0:body></ns0:document>`,
			wantPrefix: "ns0",
			wantBefore: "</ns0:body>",
		},
		{
			name:       "strict namespace",
			doc:        `<w:document xmlns:w="` + nsWStrict + `"><w:body></w:body></w:document>`,
			wantPrefix: "w",
			wantBefore: "</w:body>",
		},
		{
			name:        "default namespace",
			doc:         `<document xmlns="` + nsW + `"><body><p/></body></document>`,
			wantPrefix:  "w",
			wantDeclare: nsW,
			wantBefore:  "</body>",
		},
		{
			name:       "namespace declared on the body",
			doc:        `<x:document xmlns:x="urn:other"><w:body xmlns:w="` + nsW + `"><w:p/></w:body></x:document>`,
			wantPrefix: "w",
			wantBefore: "</w:body>",
		},
		{
			name:       "body rebinds the root prefix",
			doc:        `<w:document xmlns:w="urn:other" xmlns:v="` + nsW + `"><w:body xmlns:w="` + nsW + `"><w:p/></w:body></w:document>`,
			wantPrefix: "w",
			wantBefore: "</w:body>",
		},
		{
			name:        "default namespace declared on the body",
			doc:         `<document xmlns="urn:other"><body xmlns="` + nsW + `"><p/></body></document>`,
			wantPrefix:  "w",
			wantDeclare: nsW,
			wantBefore:  "</body>",
		},
		{
			name:        "empty body",
			doc:         `<w:document xmlns:w="` + nsW + `"><w:body/></w:document>`,
			wantPrefix:  "w",
			selfClosing: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, err := scanBody([]byte(tt.doc))
			require.NoError(t, err)

			assert.Equal(t, tt.wantPrefix, layout.ns.prefix)
			assert.Equal(t, tt.wantDeclare, layout.ns.declare)
			assert.Equal(t, tt.selfClosing, layout.selfClosing)
			if tt.wantBefore != "" {
				assert.True(t, strings.HasPrefix(tt.doc[layout.insertAt:], tt.wantBefore),
					"insertion point at %q", tt.doc[layout.insertAt:])
			}
		})
	}
}

func TestScanBody_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not xml", "\x00\x01garbage"},
		{"wrong root", `<w:hdr xmlns:w="` + nsW + `"/>`},
		{"no body", `<w:document xmlns:w="` + nsW + `"></w:document>`},
		{"truncated", `<w:document xmlns:w="` + nsW + `"><w:body><w:p>`},
		{"mismatched", `<w:document xmlns:w="` + nsW + `"><w:body></w:p></w:document>`},
		{"foreign namespace", `<x:document xmlns:x="urn:other"><x:body><x:p/></x:body></x:document>`},
		{"word namespace below the body", `<x:document xmlns:x="urn:other"><x:body><w:p xmlns:w="` + nsW + `"/></x:body></x:document>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scanBody([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestSplice_SelfClosingBody(t *testing.T) {
	doc := []byte(`<w:document xmlns:w="` + nsW + `"><w:body/></w:document>`)
	layout, err := scanBody(doc)
	require.NoError(t, err)

	out := layout.splice(doc, []byte("<w:p/>"))
	assert.Equal(t, `<w:document xmlns:w="`+nsW+`"><w:body><w:p/></w:body></w:document>`, string(out))
}

func TestDocument_DefaultNamespaceDeclaresPrefix(t *testing.T) {
	data, err := testdoc.Zip(map[string]string{
		"word/document.xml": `<document xmlns="` + nsW + `"><body><p><r><t>hello</t></r></p></body></document>`,
	}, "word/document.xml")
	require.NoError(t, err)

	doc, err := Open(data)
	require.NoError(t, err)
	doc.AddParagraph("appended", "")

	out, err := doc.Bytes()
	require.NoError(t, err)

	paras, err := Paragraphs(out)
	require.NoError(t, err)
	require.Len(t, paras, 2)
	assert.Equal(t, "hello", paras[0].Text)
	assert.Equal(t, "appended", paras[1].Text)
}

func TestDocument_NamespaceOnBody(t *testing.T) {
	data, err := testdoc.Zip(map[string]string{
		"word/document.xml": `<x:document xmlns:x="urn:other"><w:body xmlns:w="` + nsW + `">` +
			`<w:p><w:r><w:t>hello</w:t></w:r></w:p></w:body></x:document>`,
	}, "word/document.xml")
	require.NoError(t, err)

	doc, err := Open(data)
	require.NoError(t, err)
	doc.AddParagraph("appended", "")

	out, err := doc.Bytes()
	require.NoError(t, err)

	paras, err := Paragraphs(out)
	require.NoError(t, err)
	require.Len(t, paras, 2)
	assert.Equal(t, "hello", paras[0].Text)
	assert.Equal(t, "appended", paras[1].Text)
}

func TestDocument_MainPartFromRelationships(t *testing.T) {
	parts := map[string]string{
		"_rels/.rels": `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="/content/main.xml"/>` +
			`</Relationships>`,
		"content/main.xml": `<w:document xmlns:w="` + nsW + `"><w:body><w:p/></w:body></w:document>`,
		"content/_rels/main.xml.rels": `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="catalog.xml"/>` +
			`</Relationships>`,
		"content/catalog.xml": testdoc.StylesXML(testdoc.DOCXOptions{BulletStyle: true}),
	}
	data, err := testdoc.Zip(parts, "_rels/.rels", "content/main.xml", "content/_rels/main.xml.rels", "content/catalog.xml")
	require.NoError(t, err)

	doc, err := Open(data)
	require.NoError(t, err)
	assert.Equal(t, "content/main.xml", doc.MainPart())
	assert.True(t, doc.Styles().Has("List Bullet"))
	assert.True(t, doc.Styles().Has("list bullet"))
	assert.False(t, doc.Styles().Has("Heading 1"))
}

func TestDocument_BytesWithoutChanges(t *testing.T) {
	data, err := testdoc.DOCX(testdoc.DOCXOptions{Paragraphs: []string{"unchanged"}})
	require.NoError(t, err)

	doc, err := Open(data)
	require.NoError(t, err)
	out, err := doc.Bytes()
	require.NoError(t, err)

	assert.Equal(t, testdoc.DocumentXML(testdoc.DOCXOptions{Paragraphs: []string{"unchanged"}}),
		string(readZipPart(t, out, "word/document.xml")))
}

func TestStyleCatalog(t *testing.T) {
	catalog, err := ParseStyles([]byte(testdoc.StylesXML(testdoc.DOCXOptions{BulletStyle: true, HeadingStyle: true})))
	require.NoError(t, err)

	s, ok := catalog.Lookup("Heading 1")
	require.True(t, ok)
	assert.Equal(t, "Heading1", s.ID)
	assert.Equal(t, "Normal", s.BasedOn)

	assert.False(t, catalog.Has("Strong"), "character styles are not paragraph styles")
	assert.Equal(t, 4, catalog.Len())

	var empty *StyleCatalog
	assert.False(t, empty.Has("List Bullet"))
	assert.Equal(t, 0, empty.Len())
}
