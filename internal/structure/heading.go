package structure

import (
	"strings"
	"unicode/utf8"

	"github.com/docweave/docweave/internal/model"
)

// HeadingCandidate is a block-local stage-1 candidate: a run of consecutive
// lines sharing one font signature, scored additively. Offsets refer into
// the block's joined text.
type HeadingCandidate struct {
	TextStart int
	TextEnd   int
	Text      string
	Score     float64
	Tags      []string
	FontSize  float64
	Weight    model.FontWeight
	Italic    bool
	GapBefore float64
	LineCount int

	// Verified is set only by a positional match against a supplied
	// document outline entry.
	Verified bool
}

// headingSignals is the evidence one candidate presents to the rule battery.
type headingSignals struct {
	text         string
	runes        int
	fontRatio    float64
	bold         bool
	italic       bool
	gapRatio     float64
	outlineMatch bool
}

// HeadingScorer is the stage-1 (block-level, pre-assembly) heading detector.
type HeadingScorer struct {
	cfg   HeadingConfig
	rules []Rule[headingSignals]
}

// NewHeadingScorer creates a scorer with the default configuration.
func NewHeadingScorer() *HeadingScorer {
	return NewHeadingScorerWithConfig(DefaultHeadingConfig())
}

// NewHeadingScorerWithConfig creates a scorer with a custom configuration.
func NewHeadingScorerWithConfig(cfg HeadingConfig) *HeadingScorer {
	s := &HeadingScorer{cfg: cfg}
	s.rules = []Rule[headingSignals]{
		{Tag: "numbered_pattern", Weight: cfg.NumberedScore, Match: func(h headingSignals) bool {
			return isNumberedHeading(h.text)
		}},
		{Tag: "keyword_pattern", Weight: cfg.KeywordScore, Match: func(h headingSignals) bool {
			return !isNumberedHeading(h.text) && reHeadingKeyword.MatchString(h.text)
		}},
		{Tag: "large_font", Weight: cfg.LargeFontScore, Match: func(h headingSignals) bool {
			return h.fontRatio >= cfg.LargeFontRatio
		}},
		{Tag: "moderate_font", Weight: cfg.ModerateFontScore, Match: func(h headingSignals) bool {
			return h.fontRatio >= cfg.ModerateFontRatio && h.fontRatio < cfg.LargeFontRatio
		}},
		{Tag: "bold", Weight: cfg.BoldScore, Match: func(h headingSignals) bool {
			return h.bold
		}},
		{Tag: "italic", Weight: cfg.ItalicScore, Match: func(h headingSignals) bool {
			return h.italic
		}},
		{Tag: "large_gap", Weight: cfg.LargeGapScore, Match: func(h headingSignals) bool {
			return h.gapRatio > cfg.LargeGapRatio
		}},
		{Tag: "moderate_gap", Weight: cfg.ModerateGapScore, Match: func(h headingSignals) bool {
			return h.gapRatio > cfg.ModerateGapRatio && h.gapRatio <= cfg.LargeGapRatio
		}},
		{Tag: "short_text", Weight: cfg.ShortTextScore, Match: func(h headingSignals) bool {
			return h.runes < cfg.ShortTextRunes
		}},
		{Tag: "outline_match", Weight: cfg.OutlineMatchScore, Match: func(h headingSignals) bool {
			return h.outlineMatch
		}},
	}
	return s
}

// ScoreBlock scores one split block. joined is the block's joiner output,
// bodyFontSize the page body text size, gapBefore the vertical gap between
// this block and the previous one, and outline the subset of outline
// entries naming this page.
func (s *HeadingScorer) ScoreBlock(
	block model.Block,
	joined JoinedBlock,
	bodyFontSize float64,
	gapBefore float64,
	outline []model.OutlineEntry,
) []HeadingCandidate {
	if len(block.Lines) == 0 {
		return nil
	}

	var candidates []HeadingCandidate
	for _, run := range signatureRuns(block.Lines) {
		first, last := run[0], run[len(run)-1]
		span := Span{Start: joined.Spans[first].Start, End: joined.Spans[last].End}
		if span.Len() <= 0 {
			continue
		}
		text := strings.TrimSpace(joined.Text[span.Start:span.End])
		if text == "" {
			continue
		}
		runes := utf8.RuneCountInString(text)
		if runes > s.cfg.MaxTitleRunes {
			continue
		}

		line := block.Lines[first]
		gap := gapBefore
		if first > 0 {
			gap = line.BBox.Y - block.Lines[first-1].BBox.Bottom()
		}
		lineHeight := line.BBox.H

		sig := headingSignals{
			text:         text,
			runes:        runes,
			bold:         line.Font.Weight == model.WeightBold,
			italic:       line.Font.Italic,
			outlineMatch: matchesOutline(text, outline),
		}
		if bodyFontSize > 0 && line.Font.Size > 0 {
			sig.fontRatio = line.Font.Size / bodyFontSize
		}
		if lineHeight > 0 {
			sig.gapRatio = gap / lineHeight
		}

		score, tags := evalRules(s.rules, sig)
		if score < s.cfg.AcceptScore {
			continue
		}

		candidates = append(candidates, HeadingCandidate{
			TextStart: span.Start,
			TextEnd:   span.End,
			Text:      text,
			Score:     score,
			Tags:      tags,
			FontSize:  line.Font.Size,
			Weight:    line.Font.Weight,
			Italic:    line.Font.Italic,
			GapBefore: gap,
			LineCount: len(run),
			Verified:  sig.outlineMatch,
		})
	}
	return candidates
}

// signatureRuns groups consecutive line indexes sharing an exact font
// signature; multi-line headings extend across such runs.
func signatureRuns(lines []model.Line) [][]int {
	var runs [][]int
	var cur []int
	for i, ln := range lines {
		if len(cur) > 0 && lines[cur[len(cur)-1]].Font.Signature() != ln.Font.Signature() {
			runs = append(runs, cur)
			cur = nil
		}
		cur = append(cur, i)
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}

// isNumberedHeading matches the numbered heading families.
func isNumberedHeading(text string) bool {
	return reHeadingDecimal.MatchString(text) ||
		reHeadingNumeric.MatchString(text) ||
		reHeadingRoman.MatchString(text) ||
		reHeadingLetter.MatchString(text) ||
		reHeadingNamed.MatchString(text)
}

// matchesOutline reports a positional title match against the outline
// entries of the candidate's page.
func matchesOutline(text string, outline []model.OutlineEntry) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	for _, entry := range outline {
		title := strings.ToLower(strings.TrimSpace(entry.Title))
		if title == "" {
			continue
		}
		if normalized == title || strings.HasPrefix(normalized, title) || strings.HasSuffix(normalized, title) {
			return true
		}
	}
	return false
}
