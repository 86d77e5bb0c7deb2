// Package report renders keyword extraction results for the command line.
package report

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/a3tai/mcp-pdf-keymatch/internal/match"
)

// Supported formats
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// Report is the printable outcome of one extraction
type Report struct {
	Source     string         `yaml:"source"`
	Keyword    string         `yaml:"keyword"`
	Pages      int            `yaml:"pages"`
	MatchCount int            `yaml:"match_count"`
	Matches    []match.Record `yaml:"matches"`
}

// New builds a report for the matches found in source
func New(source, keyword string, pages int, matches []match.Record) Report {
	if matches == nil {
		matches = []match.Record{}
	}
	return Report{
		Source:     source,
		Keyword:    keyword,
		Pages:      pages,
		MatchCount: len(matches),
		Matches:    matches,
	}
}

// Formats lists the names accepted by Write
func Formats() []string {
	return []string{FormatText, FormatYAML}
}

// Write renders r to w in the named format
func Write(w io.Writer, r Report, format string) error {
	switch strings.ToLower(format) {
	case FormatText, "":
		return writeText(w, r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown report format %q (want one of %s)", format, strings.Join(Formats(), ", "))
	}
}

// writeText prints the lines the merger would append to a template
func writeText(w io.Writer, r Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Extracted Occurrences: '%s'\n", r.Keyword)
	if len(r.Matches) == 0 {
		fmt.Fprintf(&b, "No occurrences of '%s' found in the PDF.\n", r.Keyword)
	}
	for _, m := range r.Matches {
		b.WriteString("• ")
		b.WriteString(m.String())
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
