package structure

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/docweave/docweave/internal/model"
)

// SuperscriptDetector is the font-size citation pass. Extractors emit
// superscript marks as separate small lines on the same visual row; the
// detector accepts a small span only when its geometry says "raised next
// to normal text" and its content does not explain the small size some
// other way (decimals, ordinal suffixes, uniformly small regions).
type SuperscriptDetector struct {
	cfg CitationConfig
}

// NewSuperscriptDetector creates a detector with the default configuration.
func NewSuperscriptDetector() *SuperscriptDetector {
	return NewSuperscriptDetectorWithConfig(DefaultCitationConfig())
}

// NewSuperscriptDetectorWithConfig creates a detector with a custom configuration.
func NewSuperscriptDetectorWithConfig(cfg CitationConfig) *SuperscriptDetector {
	return &SuperscriptDetector{cfg: cfg}
}

// Detect finds superscript reference marks in one block. Returned offsets
// are into the block's joined text.
func (d *SuperscriptDetector) Detect(block model.Block, joined JoinedBlock) []model.Highlight {
	dominant := dominantFontSize(block.Lines)
	if dominant <= 0 {
		return nil
	}

	var out []model.Highlight
	for i, line := range block.Lines {
		if line.Font.Size <= 0 || line.Font.Size >= d.cfg.SuperscriptSizeRatio*dominant {
			continue
		}
		text := strings.TrimSpace(line.Text)
		if text == "" || utf8.RuneCountInString(text) > d.cfg.MaxSuperscriptRunes {
			continue
		}

		left, right := rowNeighbors(block.Lines, i, d.cfg.SuperscriptSizeRatio*dominant)
		if left == nil && right == nil {
			// A uniformly small region, not a raised mark.
			continue
		}

		anchor := left
		if anchor == nil {
			anchor = right
		}
		if !raisedAbove(line.BBox, anchor.BBox) {
			// At or below the anchor baseline: a subscript.
			continue
		}

		if left != nil {
			leftText := strings.TrimRight(left.Text, " ")
			if isDigitFragment(text, leftText) {
				continue
			}
			if reOrdinalSuffix.MatchString(text) && endsWithDigit(leftText) {
				continue
			}
			if w := lastWord(leftText); w != "" && utf8.RuneCountInString(w) <= 2 {
				continue
			}
		}

		if span := joined.Spans[i]; span.Len() > 0 {
			out = append(out, model.Highlight{Start: span.Start, End: span.End, Type: model.HighlightReference})
		}
	}
	return out
}

// dominantFontSize returns the block's own most common font size, weighted
// by text length. Each block is judged against itself, not the page.
func dominantFontSize(lines []model.Line) float64 {
	weights := make(map[float64]int)
	for _, ln := range lines {
		if ln.Font.Size > 0 {
			weights[ln.Font.Size] += len(strings.TrimSpace(ln.Text))
		}
	}
	var best float64
	bestWeight := -1
	for size, w := range weights {
		if w > bestWeight || (w == bestWeight && size > best) {
			best = size
			bestWeight = w
		}
	}
	return best
}

// rowNeighbors finds the nearest normal-sized lines on the same visual row,
// to the left and right of line i.
func rowNeighbors(lines []model.Line, i int, minNormalSize float64) (left, right *model.Line) {
	cand := lines[i]
	for j := range lines {
		if j == i {
			continue
		}
		other := &lines[j]
		if other.Font.Size < minNormalSize || !cand.BBox.SameRow(other.BBox) {
			continue
		}
		if other.BBox.Right() <= cand.BBox.X+1 {
			if left == nil || other.BBox.Right() > left.BBox.Right() {
				left = other
			}
		} else if other.BBox.X >= cand.BBox.Right()-1 {
			if right == nil || other.BBox.X < right.BBox.X {
				right = other
			}
		}
	}
	return left, right
}

// raisedAbove reports whether the candidate sits at or above the anchor's
// baseline. The baseline is approximated as the anchor bottom minus a
// descender allowance.
func raisedAbove(cand, anchor model.BBox) bool {
	baseline := anchor.Bottom() - 0.15*anchor.H
	return cand.Bottom() <= baseline
}

// isDigitFragment rejects digit candidates that continue a number in the
// neighboring text: decimals, thousands separators, or digits the
// extractor split out of a larger number.
func isDigitFragment(text, leftText string) bool {
	if !allDigits(text) {
		return false
	}
	if leftText == "" {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(leftText)
	if unicode.IsDigit(r) {
		return true
	}
	if (r == '.' || r == ',') && len(leftText) >= 2 {
		prev, _ := utf8.DecodeLastRuneInString(leftText[:len(leftText)-1])
		return unicode.IsDigit(prev)
	}
	return false
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func endsWithDigit(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsDigit(r)
}

func lastWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
