// Package match holds the keyword match record shared by the extractor and
// the merger.
package match

import (
	"fmt"
	"strings"
)

// Record is a text block that contains the keyword, tagged with the 1-based
// page it was found on. Text is whitespace-collapsed with the original case.
type Record struct {
	Page int    `json:"page" yaml:"page"`
	Text string `json:"text" yaml:"text"`
}

// String renders the record as a list entry
func (r Record) String() string {
	return fmt.Sprintf("(Page %d): %s", r.Page, r.Text)
}

// Normalize collapses every run of whitespace into a single space and trims
// both ends. Letter case is preserved.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Contains reports whether keyword occurs in text, ignoring case. An empty
// keyword is contained in every text.
func Contains(text, keyword string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(keyword))
}

// Strings renders every record in order
func Strings(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.String()
	}
	return out
}
