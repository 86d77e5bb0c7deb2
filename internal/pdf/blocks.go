package pdf

import (
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// Glyphs whose baselines differ by less than this fraction of the font
	// size belong to the same line.
	baselineTolerance = 0.3

	// A horizontal gap wider than this fraction of the font size between two
	// glyphs on one line is rendered as a space.
	spaceGapFactor = 0.2

	// Consecutive lines further apart than this multiple of the font size
	// start a new block.
	blockGapFactor = 1.5

	// A glyph raised or lowered by less than this multiple of the font size
	// stays on the current line when it continues rightwards, as footnote
	// markers and superscripts do.
	riseFactor = 1.0

	defaultFontSize = 10.0
)

// TextBlock is a contiguous text region on a page. Lines are separated by
// newlines in Text.
type TextBlock struct {
	Page int
	Text string
}

type textLine struct {
	y        float64
	fontSize float64
	text     strings.Builder
	lastX    float64
	lastEnd  float64
	started  bool
}

func (l *textLine) add(t pdf.Text) {
	size := glyphSize(t)
	if l.started {
		gap := t.X - l.lastEnd
		// A jump backwards also separates words, e.g. a second Tj
		// positioned before the previous one.
		if (gap > spaceGapFactor*size || t.X < l.lastX-spaceGapFactor*size) && !endsWithSpace(&l.text) && !startsWithSpace(t.S) {
			l.text.WriteByte(' ')
		}
	} else {
		l.y = t.Y
		l.started = true
	}
	if size > l.fontSize {
		l.fontSize = size
	}
	l.text.WriteString(t.S)
	l.lastX = t.X
	l.lastEnd = t.X + t.W
}

func glyphSize(t pdf.Text) float64 {
	if t.FontSize > 0 {
		return t.FontSize
	}
	if t.FontSize < 0 {
		return -t.FontSize
	}
	return defaultFontSize
}

func endsWithSpace(b *strings.Builder) bool {
	s := b.String()
	return s != "" && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t' || s[len(s)-1] == '\n')
}

func startsWithSpace(s string) bool {
	return s != "" && (s[0] == ' ' || s[0] == '\t' || s[0] == '\n')
}

// continues reports whether t belongs to the line: on its baseline, or
// shifted by less than a line height while carrying on to the right. The
// line keeps the baseline of its first glyph.
func (l *textLine) continues(t pdf.Text) bool {
	dy := math.Abs(t.Y - l.y)
	if dy <= baselineTolerance*glyphSize(t) {
		return true
	}
	// Superscripts are often set smaller than the text they follow
	size := math.Max(glyphSize(t), l.fontSize)
	return dy < riseFactor*size && t.X >= l.lastEnd-spaceGapFactor*size
}

// groupLines splits the glyph stream into lines, keeping content-stream
// order. A change of baseline starts a new line unless the glyph is a
// raised or lowered continuation of it.
func groupLines(texts []pdf.Text) []*textLine {
	var lines []*textLine
	var cur *textLine

	for _, t := range texts {
		if t.S == "" {
			continue
		}
		if cur == nil || !cur.continues(t) {
			cur = &textLine{}
			lines = append(lines, cur)
		}
		cur.add(t)
	}

	return lines
}

// groupBlocks merges consecutive lines into blocks. A new block starts when
// the next baseline is further down than blockGapFactor times the font size,
// or when the layout jumps back up the page by a line height or more (a new
// column or region).
func groupBlocks(pageNum int, lines []*textLine) []TextBlock {
	var blocks []TextBlock
	var parts []string
	var prev *textLine

	flush := func() {
		if len(parts) == 0 {
			return
		}
		text := strings.Join(parts, "\n")
		if strings.TrimSpace(text) != "" {
			blocks = append(blocks, TextBlock{Page: pageNum, Text: text})
		}
		parts = nil
	}

	for _, line := range lines {
		if prev != nil {
			drop := prev.y - line.y
			size := math.Max(prev.fontSize, line.fontSize)
			if drop <= -riseFactor*size || drop > blockGapFactor*size {
				flush()
			}
		}
		parts = append(parts, line.text.String())
		prev = line
	}
	flush()

	return blocks
}

// pageBlocks returns the text blocks of a single page in layout order
func pageBlocks(page pdf.Page, pageNum int) []TextBlock {
	content := page.Content()
	return groupBlocks(pageNum, groupLines(content.Text))
}
