package structure

import (
	"sort"
	"strings"

	"github.com/docweave/docweave/internal/model"
)

// headingKind is the lexical family of a stage-2 occurrence.
type headingKind int

const (
	kindNone headingKind = iota
	kindDecimal
	kindNumeric
	kindRoman
	kindLetter
	kindNamed
	kindKeyword
)

// ConfirmedHeading is a stage-2 confirmed heading in clean-text coordinates.
type ConfirmedHeading struct {
	Span  Span
	Title string
	Level int
}

// occurrence is one lexical heading match awaiting confirmation.
type occurrence struct {
	span    Span
	title   string
	kind    headingKind
	sig     model.FontSignature
	implied int
}

// HeadingConfirmer is the stage-2 (document-level, post-assembly) pass. It
// runs on the cleaned text after artifact removal, and only after the
// TOC/bibliography ranges are known: numbered reference lists otherwise
// confirm as heading sequences.
type HeadingConfirmer struct {
	cfg HeadingConfig
}

// NewHeadingConfirmer creates a confirmer with the default configuration.
func NewHeadingConfirmer() *HeadingConfirmer {
	return NewHeadingConfirmerWithConfig(DefaultHeadingConfig())
}

// NewHeadingConfirmerWithConfig creates a confirmer with a custom configuration.
func NewHeadingConfirmerWithConfig(cfg HeadingConfig) *HeadingConfirmer {
	return &HeadingConfirmer{cfg: cfg}
}

// Confirm scans the cleaned text for heading sequences and merges in the
// non-overlapping stage-1 candidates. fonts must be in clean coordinates;
// exclude carries the TOC/bibliography spans; candidates carry clean-text
// spans in HeadingCandidate.TextStart/TextEnd.
func (c *HeadingConfirmer) Confirm(
	text string,
	fonts []model.FontRange,
	bodySig model.FontSignature,
	exclude []Span,
	candidates []HeadingCandidate,
) []ConfirmedHeading {
	occurrences := c.collect(text, fonts, exclude)

	// An occurrence survives when its font differs from the body signature
	// and it belongs to a same-kind-and-font sequence of the required
	// length. Bare keywords are exempt from the sequence requirement.
	groupSize := make(map[groupKey]int)
	for _, occ := range occurrences {
		groupSize[groupKey{occ.kind, occ.sig}]++
	}

	var confirmed []occurrence
	for _, occ := range occurrences {
		if occ.sig == bodySig {
			continue
		}
		if occ.kind != kindKeyword && groupSize[groupKey{occ.kind, occ.sig}] < c.cfg.MinSequenceLen {
			continue
		}
		confirmed = append(confirmed, occ)
	}

	levelBySig := rankSignatures(confirmed)

	headings := make([]ConfirmedHeading, 0, len(confirmed))
	for _, occ := range confirmed {
		level := occ.implied
		if rank, ok := levelBySig[occ.sig]; ok && rank > level {
			level = rank
		}
		headings = append(headings, ConfirmedHeading{Span: occ.span, Title: occ.title, Level: level})
	}

	headings = c.mergeCandidates(headings, candidates, exclude, levelBySig)

	sort.Slice(headings, func(i, j int) bool { return headings[i].Span.Start < headings[j].Span.Start })
	return c.suppressClusters(headings, len(text))
}

type groupKey struct {
	kind headingKind
	sig  model.FontSignature
}

// collect finds every lexical heading occurrence at a line start outside
// the excluded spans.
func (c *HeadingConfirmer) collect(text string, fonts []model.FontRange, exclude []Span) []occurrence {
	var out []occurrence
	offset := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		lead := strings.Index(line, trimmed)
		if lead < 0 {
			lead = 0
		}
		start := offset + lead
		offset += len(line) + 1

		if trimmed == "" {
			continue
		}
		kind, implied := classifyHeadingLine(trimmed)
		if kind == kindNone {
			continue
		}
		span := Span{Start: start, End: start + len(trimmed)}
		if spanExcluded(span, exclude) {
			continue
		}
		out = append(out, occurrence{
			span:    span,
			title:   trimmed,
			kind:    kind,
			sig:     fontAt(fonts, span.Start),
			implied: implied,
		})
	}
	return out
}

// mergeCandidates adds stage-1 candidates that do not overlap an already
// confirmed heading or an excluded range.
func (c *HeadingConfirmer) mergeCandidates(
	headings []ConfirmedHeading,
	candidates []HeadingCandidate,
	exclude []Span,
	levelBySig map[model.FontSignature]int,
) []ConfirmedHeading {
	for _, cand := range candidates {
		span := Span{Start: cand.TextStart, End: cand.TextEnd}
		if span.Len() <= 0 || spanExcluded(span, exclude) {
			continue
		}
		overlaps := false
		for _, h := range headings {
			if h.Span.Overlaps(span) {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}

		_, implied := classifyHeadingLine(cand.Text)
		if implied == 0 {
			implied = 2
		}
		level := implied
		sig := model.Font{Size: cand.FontSize, Weight: cand.Weight}.Signature()
		if rank, ok := levelBySig[sig]; ok && rank > level {
			level = rank
		}
		headings = append(headings, ConfirmedHeading{Span: span, Title: cand.Text, Level: level})
	}
	return headings
}

// suppressClusters drops dense heading clusters in the leading and trailing
// regions of the document: residual TOC or bibliography leakage.
func (c *HeadingConfirmer) suppressClusters(headings []ConfirmedHeading, textLen int) []ConfirmedHeading {
	if textLen == 0 || len(headings) == 0 {
		return headings
	}
	headEnd := int(float64(textLen) * c.cfg.HeadClusterRatio)
	tailStart := int(float64(textLen) * (1 - c.cfg.TailClusterRatio))

	headCount, tailCount := 0, 0
	for _, h := range headings {
		if h.Span.End <= headEnd {
			headCount++
		}
		if h.Span.Start >= tailStart {
			tailCount++
		}
	}

	if headCount < c.cfg.ClusterSuppress && tailCount < c.cfg.ClusterSuppress {
		return headings
	}

	out := headings[:0]
	for _, h := range headings {
		if headCount >= c.cfg.ClusterSuppress && h.Span.End <= headEnd {
			continue
		}
		if tailCount >= c.cfg.ClusterSuppress && h.Span.Start >= tailStart {
			continue
		}
		out = append(out, h)
	}
	return out
}

// rankSignatures orders the distinct confirmed signatures by prominence
// (size, then boldness) and assigns section levels starting at 2.
func rankSignatures(confirmed []occurrence) map[model.FontSignature]int {
	seen := make(map[model.FontSignature]bool)
	var sigs []model.FontSignature
	for _, occ := range confirmed {
		if occ.sig.Size > 0 && !seen[occ.sig] {
			seen[occ.sig] = true
			sigs = append(sigs, occ.sig)
		}
	}
	sort.Slice(sigs, func(i, j int) bool {
		if sigs[i].Size != sigs[j].Size {
			return sigs[i].Size > sigs[j].Size
		}
		return sigs[i].Weight == model.WeightBold && sigs[j].Weight != model.WeightBold
	})

	levels := make(map[model.FontSignature]int, len(sigs))
	for i, sig := range sigs {
		levels[sig] = i + 2
	}
	return levels
}

// classifyHeadingLine returns the lexical family of a line and the section
// level the family implies (0 when the line is not a heading form).
func classifyHeadingLine(text string) (headingKind, int) {
	switch {
	case reHeadingDecimal.MatchString(text):
		depth := strings.Count(strings.Fields(text)[0], ".")
		if strings.HasSuffix(strings.Fields(text)[0], ".") {
			depth--
		}
		return kindDecimal, depth + 2
	case reHeadingNumeric.MatchString(text):
		return kindNumeric, 2
	case reHeadingRoman.MatchString(text):
		return kindRoman, 2
	case reHeadingNamed.MatchString(text):
		return kindNamed, 2
	case reHeadingLetter.MatchString(text):
		return kindLetter, 3
	case reHeadingKeyword.MatchString(text):
		return kindKeyword, 2
	}
	return kindNone, 0
}

// fontAt returns the font signature in effect at an offset.
func fontAt(fonts []model.FontRange, off int) model.FontSignature {
	i := sort.Search(len(fonts), func(i int) bool { return fonts[i].End > off })
	if i < len(fonts) && fonts[i].Start <= off {
		return fonts[i].Signature()
	}
	return model.FontSignature{}
}

// spanExcluded reports whether the span overlaps any excluded range.
func spanExcluded(span Span, exclude []Span) bool {
	for _, ex := range exclude {
		if span.Overlaps(ex) {
			return true
		}
	}
	return false
}
