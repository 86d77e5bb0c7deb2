package descriptions

import "sort"

// Tool descriptions with practical examples and use cases

const (
	KeymatchExtractDescription = `Find every text block of a PDF that contains a keyword.

**When to use:** Preview what a merge would add, or answer "where is X mentioned in this PDF?".

**How it matches:** The PDF is split into text blocks (paragraph-like regions). A block matches when it contains the keyword, ignoring case. Each match is reported once per block with its 1-based page number and whitespace collapsed to single spaces.

**Examples:**
• Contract review: "Which clauses of lease.pdf mention 'termination'?"
• Audit prep: "List every block of annual-report.pdf containing 'impairment'"

**Output:** match_count, pages, and matches as {page, text} in page order.

**Best practices:** Run keymatch_inspect first on unfamiliar files. Scanned PDFs without a text layer return no matches.`

	KeymatchMergeDescription = `Append all occurrences of a keyword in a PDF to a copy of a Word (.docx) template.

**When to use:** Produce an updated report from a template, with a new section listing where a keyword appears in a source PDF.

**What is added:** A page break, a heading "Extracted Occurrences: '<keyword>'", then one entry per match in the form "(Page n): text". Entries use the template's "List Bullet" style when it exists, otherwise a "• " prefix. When nothing matches, a single notice "No occurrences of '<keyword>' found in the PDF." is added instead.

**Safety:** The template is never modified. Existing content, styles, headers and other parts are carried over unchanged. No file is written if the PDF cannot be read or the template cannot be updated.

**Examples:**
• "Merge every mention of 'warranty' from supplier-terms.pdf into review-template.docx"
• "Update summary.docx with the 'deadline' lines from tender.pdf and save it as out/summary-final.docx"

**Output path:** Defaults to Updated_<template name> next to the template.`

	KeymatchInspectDescription = `Check that a PDF can be opened and report its structure.

**When to use:** Before extraction, to confirm a file is a readable PDF and learn its page count, PDF version and whether it is encrypted.

**Examples:**
• "Is upload-3.pdf a valid PDF?"
• "How many pages does board-minutes.pdf have?"`

	KeymatchServerInfoDescription = `Get server information and the PDF and Word files available for processing.

**When to use:** At the start of a session, to discover the working directory, size limits and candidate input files.

**Output:** Server name and version, the working directory, max file size, the tool list with parameters, and up to 100 .pdf/.docx files found below the working directory.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"keymatch_extract":     KeymatchExtractDescription,
	"keymatch_merge":       KeymatchMergeDescription,
	"keymatch_inspect":     KeymatchInspectDescription,
	"keymatch_server_info": KeymatchServerInfoDescription,
}

// GetToolDescription returns the description for a specific tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the names of all described tools, sorted
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
