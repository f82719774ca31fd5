package structure

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/docweave/docweave/internal/model"
)

// joinMode is the decision for one consecutive line pair.
type joinMode int

const (
	joinSpace  joinMode = iota // ordinary join with a single space
	joinTight                  // mid-word fragment, no separator
	joinHyphen                 // strip the trailing hyphen, concatenate
	joinBreak                  // hard paragraph break
)

// hyphenSuffixes are the trailing hyphen variants eligible for repair:
// ASCII hyphen-minus, soft hyphen, Unicode hyphen, non-breaking hyphen.
var hyphenSuffixes = []string{"-", "­", "‐", "‑"}

// JoinedBlock is the output of joining one block: paragraph text, the exact
// offset range each input line occupies in it, and a font index over it.
type JoinedBlock struct {
	Text string

	// Spans holds, per input line, its half-open offset range in Text.
	Spans []Span

	// FontRanges covers Text with the font in effect over each range.
	FontRanges []model.FontRange
}

// Joiner turns a block's lines into paragraph text while recording exact
// position information for every destructive transform that follows.
type Joiner struct {
	cfg JoinerConfig
}

// NewJoiner creates a joiner with the default configuration.
func NewJoiner() *Joiner {
	return NewJoinerWithConfig(DefaultJoinerConfig())
}

// NewJoinerWithConfig creates a joiner with a custom configuration.
func NewJoinerWithConfig(cfg JoinerConfig) *Joiner {
	return &Joiner{cfg: cfg}
}

// Join builds the block's paragraph text. bodyFont is the page body-text
// signature, used to keep multi-line headings together.
func (j *Joiner) Join(block model.Block, bodyFont model.FontSignature) JoinedBlock {
	lines := block.Lines
	if len(lines) == 0 {
		return JoinedBlock{}
	}

	maxWidth := maxLineWidth(lines)

	var sb strings.Builder
	spans := make([]Span, len(lines))
	var fonts []model.FontRange

	for i, cur := range lines {
		text := strings.TrimRight(cur.Text, "\n")
		trimmed := strings.TrimSpace(text)

		if i == 0 {
			spans[0] = appendLine(&sb, trimmed, joinBreak)
		} else {
			prev := lines[i-1]
			mode := j.decide(prev, cur, maxWidth, block.BBox.W, bodyFont)
			if mode == joinHyphen {
				cut := stripTrailingHyphen(&sb)
				if cut > 0 && spans[i-1].End > sb.Len() {
					spans[i-1].End = sb.Len()
					if n := len(fonts); n > 0 && fonts[n-1].End > sb.Len() {
						fonts[n-1].End = sb.Len()
					}
				}
			}
			spans[i] = appendLine(&sb, trimmed, mode)
		}

		if spans[i].Len() > 0 {
			fonts = appendFontRange(fonts, model.FontRange{
				Start:  spans[i].Start,
				End:    spans[i].End,
				Size:   cur.Font.Size,
				Weight: cur.Font.Weight,
				Italic: cur.Font.Italic,
			})
		}
	}

	out := JoinedBlock{Text: sb.String(), Spans: spans, FontRanges: fonts}
	return repairLigatures(out)
}

// decide applies the join rules to one consecutive (prev, cur) pair. The
// rule order is load-bearing: same-row grouping wins over everything, and
// hyphen repair must run before the break rules see the trailing hyphen as
// a non-sentence ending.
func (j *Joiner) decide(prev, cur model.Line, maxWidth, blockWidth float64, bodyFont model.FontSignature) joinMode {
	prevText := strings.TrimRight(prev.Text, "\n")
	curText := strings.TrimSpace(cur.Text)

	// Rule 1: same visual row never breaks. A tiny X gap means the
	// extractor split a word mid-glyph.
	smaller := prev.BBox.H
	if cur.BBox.H < smaller {
		smaller = cur.BBox.H
	}
	if smaller > 0 && prev.BBox.VerticalOverlap(cur.BBox) > j.cfg.RowOverlapRatio*smaller {
		gap := cur.BBox.X - prev.BBox.Right()
		if cur.Font.Size > 0 && gap >= 0 && gap < j.cfg.FragmentGapRatio*cur.Font.Size {
			return joinTight
		}
		return joinSpace
	}

	// Rule 2: shared non-body signature means a multi-line heading.
	if prev.Font.Signature() == cur.Font.Signature() && prev.Font.Signature() != bodyFont {
		return joinSpace
	}

	// Rule 3: hyphen repair.
	if hyph, trailingSpace := trailingHyphen(prevText); hyph {
		fullWidth := maxWidth > 0 && prev.BBox.W >= j.cfg.FullWidthRatio*maxWidth
		if trailingSpace || fullWidth || startsLower(curText) {
			return joinHyphen
		}
	}

	// Rule 4: list items start their own paragraph.
	if reListItem.MatchString(curText) {
		return joinBreak
	}

	// Rule 5: a bare keyword heading closes its paragraph.
	if reHeadingKeyword.MatchString(strings.TrimSpace(prevText)) {
		return joinBreak
	}

	// Rule 6: large vertical gap.
	lineHeight := (prev.BBox.H + cur.BBox.H) / 2
	if lineHeight > 0 && cur.BBox.Y-prev.BBox.Bottom() > j.cfg.GapHeightRatio*lineHeight {
		return joinBreak
	}

	// Rule 7: material font change.
	if j.fontChanged(prev, cur) {
		return joinBreak
	}

	// Rule 8: indentation shift on a new row.
	if blockWidth > 0 && cur.BBox.X-prev.BBox.X > j.cfg.IndentBreakRatio*blockWidth {
		return joinBreak
	}

	// Rule 9: sentence end on a non-full-width line.
	if reSentenceEnd.MatchString(prevText) &&
		(maxWidth <= 0 || prev.BBox.W < j.cfg.FullWidthRatio*maxWidth) {
		return joinBreak
	}

	return joinSpace
}

// fontChanged reports a font change strong enough to break a paragraph.
func (j *Joiner) fontChanged(prev, cur model.Line) bool {
	if prev.Font.Size > 0 && cur.Font.Size > 0 {
		delta := prev.Font.Size - cur.Font.Size
		if delta < 0 {
			delta = -delta
		}
		if delta > j.cfg.FontSizeBreakDelta {
			return true
		}
	}

	prevBold := prev.Font.Weight == model.WeightBold
	curBold := cur.Font.Weight == model.WeightBold
	prevShort := utf8.RuneCountInString(strings.TrimSpace(prev.Text)) <= j.cfg.ShortLineRunes
	curShort := utf8.RuneCountInString(strings.TrimSpace(cur.Text)) <= j.cfg.ShortLineRunes

	if prevBold && !curBold && (prevShort || reSentenceEnd.MatchString(strings.TrimRight(prev.Text, " "))) {
		return true
	}
	if !prevBold && curBold && curShort {
		return true
	}
	return false
}

// appendLine writes one line's text with the given join mode and returns
// the span it occupies.
func appendLine(sb *strings.Builder, text string, mode joinMode) Span {
	if text == "" {
		return Span{Start: sb.Len(), End: sb.Len()}
	}
	if sb.Len() > 0 {
		switch mode {
		case joinSpace:
			sb.WriteByte(' ')
		case joinBreak:
			sb.WriteByte('\n')
		}
	}
	start := sb.Len()
	sb.WriteString(text)
	return Span{Start: start, End: sb.Len()}
}

// trailingHyphen reports whether the text ends in a repairable hyphen, and
// whether a space followed it (the strongest signal the hyphen was a
// line-break artifact).
func trailingHyphen(text string) (found, trailingSpace bool) {
	trimmed := strings.TrimRight(text, " \t")
	trailingSpace = len(trimmed) < len(text)
	for _, h := range hyphenSuffixes {
		if strings.HasSuffix(trimmed, h) {
			return true, trailingSpace
		}
	}
	return false, false
}

// stripTrailingHyphen removes a trailing hyphen variant from the builder
// and returns how many bytes were cut.
func stripTrailingHyphen(sb *strings.Builder) int {
	s := sb.String()
	for _, h := range hyphenSuffixes {
		if strings.HasSuffix(s, h) {
			sb.Reset()
			sb.WriteString(s[:len(s)-len(h)])
			return len(h)
		}
	}
	return 0
}

// startsLower reports whether the first letter of the text is lowercase.
func startsLower(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) {
			return unicode.IsLower(r)
		}
		return false
	}
	return false
}

// maxLineWidth returns the widest line of the block.
func maxLineWidth(lines []model.Line) float64 {
	var m float64
	for _, ln := range lines {
		if ln.BBox.W > m {
			m = ln.BBox.W
		}
	}
	return m
}

// appendFontRange appends a range, coalescing with the previous one when
// the style is identical and the ranges touch.
func appendFontRange(fonts []model.FontRange, r model.FontRange) []model.FontRange {
	if n := len(fonts); n > 0 {
		last := &fonts[n-1]
		if last.Size == r.Size && last.Weight == r.Weight && last.Italic == r.Italic && r.Start <= last.End+1 {
			if r.End > last.End {
				last.End = r.End
			}
			return fonts
		}
	}
	return append(fonts, r)
}
