package structure

import (
	"regexp"
	"sort"

	"github.com/docweave/docweave/internal/model"
)

// citationPatterns is the fixed lexical battery, checked in order. Earlier
// entries win overlaps; URLs and emails keep their own highlight type.
var citationPatterns = []struct {
	re  *regexp.Regexp
	typ model.HighlightType
}{
	{reURL, model.HighlightURL},
	{reEmail, model.HighlightEmail},
	{reSuperscriptUni, model.HighlightReference},
	{reBracketCite, model.HighlightReference},
	{reParenCite, model.HighlightReference},
	{reCrossRef, model.HighlightReference},
}

// CitationDetector is the lexical reference/URL/email pass. It runs once
// per page and once more on the assembled document, catching citations the
// page boundary split in two; overlap merging makes the double pass safe.
type CitationDetector struct {
	cfg CitationConfig
}

// NewCitationDetector creates a detector with the default configuration.
func NewCitationDetector() *CitationDetector {
	return NewCitationDetectorWithConfig(DefaultCitationConfig())
}

// NewCitationDetectorWithConfig creates a detector with a custom configuration.
func NewCitationDetectorWithConfig(cfg CitationConfig) *CitationDetector {
	return &CitationDetector{cfg: cfg}
}

// Detect runs the pattern battery over the text. Offsets are into text.
func (d *CitationDetector) Detect(text string) []model.Highlight {
	var found []model.Highlight
	for _, pat := range citationPatterns {
		for _, loc := range pat.re.FindAllStringIndex(text, -1) {
			found = append(found, model.Highlight{Start: loc[0], End: loc[1], Type: pat.typ})
		}
	}
	return mergeOverlapping(found)
}

// mergeOverlapping sorts the matches and drops any match overlapping an
// earlier-accepted one; battery order already encoded pattern priority, so
// within one position the longer match wins.
func mergeOverlapping(hs []model.Highlight) []model.Highlight {
	if len(hs) == 0 {
		return nil
	}
	sort.SliceStable(hs, func(i, j int) bool {
		if hs[i].Start != hs[j].Start {
			return hs[i].Start < hs[j].Start
		}
		return hs[i].End > hs[j].End
	})
	out := hs[:0]
	lastEnd := -1
	for _, h := range hs {
		if h.Start < lastEnd {
			continue
		}
		out = append(out, h)
		lastEnd = h.End
	}
	return out
}
