package structure

import (
	"regexp"
	"strings"
)

// TocBibResult carries the detected ranges in clean-text coordinates.
// Either range is nil when nothing scored above the acceptance threshold.
type TocBibResult struct {
	TOC          *Span
	Bibliography *Span
}

// TocBibDetector locates table-of-contents and bibliography regions by
// density-blob scoring: paragraphs are scored individually, maximal
// positive runs are concatenated and re-scored as one blob, and the best
// blob wins. A lexical header lowers the bar; without one the detector
// searches the typical region and demands a higher score.
type TocBibDetector struct {
	cfg TocBibConfig
}

// NewTocBibDetector creates a detector with the default configuration.
func NewTocBibDetector() *TocBibDetector {
	return NewTocBibDetectorWithConfig(DefaultTocBibConfig())
}

// NewTocBibDetectorWithConfig creates a detector with a custom configuration.
func NewTocBibDetectorWithConfig(cfg TocBibConfig) *TocBibDetector {
	return &TocBibDetector{cfg: cfg}
}

// Detect runs both detections over the cleaned text.
func (d *TocBibDetector) Detect(text string) TocBibResult {
	paras := splitParagraphs(text)
	return TocBibResult{
		TOC:          d.detectRegion(text, paras, scoreTocText, reTocHeader, false),
		Bibliography: d.detectRegion(text, paras, scoreBibText, reBibHeader, true),
	}
}

// paragraph is one newline-delimited unit of the cleaned text.
type paragraph struct {
	span Span
	text string
}

// splitParagraphs splits the cleaned text into paragraphs with offsets.
func splitParagraphs(text string) []paragraph {
	var out []paragraph
	offset := 0
	for _, part := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			lead := strings.Index(part, trimmed)
			out = append(out, paragraph{
				span: Span{Start: offset + lead, End: offset + lead + len(trimmed)},
				text: trimmed,
			})
		}
		offset += len(part) + 1
	}
	return out
}

// detectRegion finds the best-scoring blob for one scorer. tailSearch
// selects the trailing document region as fallback search area (the
// bibliography home); otherwise the leading region is searched (the TOC
// home).
func (d *TocBibDetector) detectRegion(
	text string,
	paras []paragraph,
	score func(string) float64,
	headerRe *regexp.Regexp,
	tailSearch bool,
) *Span {
	headerIdx := -1
	for i, p := range paras {
		if headerRe.MatchString(p.text) {
			headerIdx = i
			break
		}
	}

	var candidates []paragraph
	threshold := d.cfg.AcceptWithoutHeader
	if headerIdx >= 0 {
		candidates = paras[headerIdx+1:]
		threshold = d.cfg.AcceptWithHeader
	} else {
		var regionStart, regionEnd int
		if tailSearch {
			regionStart = int(float64(len(text)) * (1 - d.cfg.SearchTailRatio))
			regionEnd = len(text)
		} else {
			regionStart = 0
			regionEnd = int(float64(len(text)) * d.cfg.SearchTailRatio)
		}
		for _, p := range paras {
			if p.span.Start >= regionStart && p.span.End <= regionEnd {
				candidates = append(candidates, p)
			}
		}
	}

	// Without a header, a short dense region is more likely a numbered
	// heading or a stray list than a real TOC or reference section.
	minLen := 0
	if headerIdx < 0 {
		minLen = d.cfg.MinRegionChars
	}

	best := d.bestBlob(text, candidates, score)
	if best != nil && best.Len() >= minLen && score(text[best.Start:best.End]) >= threshold {
		if headerIdx >= 0 {
			return &Span{Start: paras[headerIdx].span.Start, End: best.End}
		}
		return best
	}

	// Fallback: one isolated paragraph scoring high on its own.
	for _, p := range candidates {
		if p.span.Len() >= minLen && score(p.text) >= d.cfg.SingleParagraph {
			span := p.span
			if headerIdx >= 0 {
				span.Start = paras[headerIdx].span.Start
			}
			return &span
		}
	}
	return nil
}

// bestBlob builds maximal runs of positive-scoring paragraphs, tolerating
// one interior zero-score paragraph per run, and returns the span of the
// best-scoring concatenated blob.
func (d *TocBibDetector) bestBlob(text string, paras []paragraph, score func(string) float64) *Span {
	type run struct{ first, last int }
	var runs []run
	cur := run{first: -1}
	zeros := 0

	flush := func() {
		if cur.first >= 0 {
			runs = append(runs, cur)
		}
		cur = run{first: -1}
		zeros = 0
	}

	for i, p := range paras {
		if score(p.text) > 0 {
			if cur.first < 0 {
				cur.first = i
			}
			cur.last = i
			zeros = 0
			continue
		}
		if cur.first >= 0 && zeros == 0 {
			zeros++ // tolerate one interior gap
			continue
		}
		flush()
	}
	flush()

	var bestSpan *Span
	bestScore := 0.0
	for _, r := range runs {
		span := Span{Start: paras[r.first].span.Start, End: paras[r.last].span.End}
		s := score(text[span.Start:span.End])
		if s > bestScore {
			bestScore = s
			bestSpan = &Span{Start: span.Start, End: span.End}
		}
	}
	return bestSpan
}

// bibSignal weights, applied per occurrence and normalized per 1000
// characters of scored text.
var bibSignals = []struct {
	re     *regexp.Regexp
	weight float64
}{
	{reDOI, 0.05},
	{reISxN, 0.05},
	{reEtAl, 0.04},
	{reNumberedEntry, 0.04},
	{reSurnameInit, 0.03},
	{reCoAuthors, 0.03},
	{reURL, 0.03},
	{reInitSurname, 0.02},
	{reJournalWords, 0.02},
	{reYear, 0.02},
}

// scoreBibText scores reference-entry density per 1000 characters.
func scoreBibText(text string) float64 {
	if text == "" {
		return 0
	}
	var raw float64
	for _, sig := range bibSignals {
		raw += float64(len(sig.re.FindAllStringIndex(text, -1))) * sig.weight
	}
	return raw * 1000 / float64(len(text))
}

// tocSignal weights, same normalization as the bibliography signals.
var tocSignals = []struct {
	re     *regexp.Regexp
	weight float64
}{
	{reTocLeader, 0.08},
	{reTocPageEnd, 0.04},
	{reNumberedEntry, 0.02},
}

// scoreTocText scores contents-entry density per 1000 characters.
func scoreTocText(text string) float64 {
	if text == "" {
		return 0
	}
	var raw float64
	for _, line := range strings.Split(text, "\n") {
		for _, sig := range tocSignals {
			if sig.re.MatchString(line) {
				raw += sig.weight
			}
		}
	}
	return raw * 1000 / float64(len(text))
}
