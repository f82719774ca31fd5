package structure

import (
	"fmt"
	"sort"
	"strings"

	"github.com/docweave/docweave/internal/model"
)

// Assembler orchestrates the whole pipeline. The stage order is
// load-bearing: artifact ranges must be known before the position map is
// built, TOC/bibliography detection must run on the cleaned text, and
// stage-2 heading confirmation must run after it with those ranges
// excluded, or numbered reference lists confirm as heading sequences.
type Assembler struct {
	cfg       Config
	splitter  *Splitter
	joiner    *Joiner
	artifacts *ArtifactDetector
	scorer    *HeadingScorer
	confirmer *HeadingConfirmer
	tocbib    *TocBibDetector
	author    *AuthorDetector
	citations *CitationDetector
	supers    *SuperscriptDetector
}

// NewAssembler creates an assembler with the default configuration.
func NewAssembler() *Assembler {
	return NewAssemblerWithConfig(DefaultConfig())
}

// NewAssemblerWithConfig creates an assembler with a custom configuration.
func NewAssemblerWithConfig(cfg Config) *Assembler {
	return &Assembler{
		cfg:       cfg,
		splitter:  NewSplitterWithConfig(cfg.Splitter),
		joiner:    NewJoinerWithConfig(cfg.Joiner),
		artifacts: NewArtifactDetectorWithConfig(cfg.Artifact),
		scorer:    NewHeadingScorerWithConfig(cfg.Heading),
		confirmer: NewHeadingConfirmerWithConfig(cfg.Heading),
		tocbib:    NewTocBibDetectorWithConfig(cfg.TocBib),
		author:    NewAuthorDetectorWithConfig(cfg.Author),
		citations: NewCitationDetectorWithConfig(cfg.Citation),
		supers:    NewSuperscriptDetectorWithConfig(cfg.Citation),
	}
}

// pageAssembly is the per-page intermediate state, all offsets page-local.
type pageAssembly struct {
	text       string
	blockSpans []Span
	fonts      []model.FontRange
	candidates []HeadingCandidate
	highlights []model.Highlight // superscripts, citations, page classes
	artifacts  []model.Highlight // header/footer/page_number spans
}

// Assemble runs the pipeline over one document.
func (a *Assembler) Assemble(doc model.Document) (*model.StructuredDocument, error) {
	if err := model.ValidateDocument(doc); err != nil {
		return nil, fmt.Errorf("invalid input document: %w", err)
	}

	pages := a.preparePages(doc.Pages)
	classifier := NewPageClassifierWithConfig(a.cfg.PageClass, pages)
	artifactsByPage := groupArtifacts(a.artifacts.Detect(pages))

	bodySize := doc.AvgFontSize
	if bodySize <= 0 {
		bodySize = documentAverageFontSize(pages)
	}

	blockCount := 0
	assemblies := make([]pageAssembly, len(pages))
	for i := range pages {
		assemblies[i] = a.assemblePage(pages[i], i, doc.Outline, classifier, artifactsByPage[i], bodySize)
		blockCount += len(pages[i].Blocks)
	}

	// Stage 1 of the orchestration order: one text stream, everything in
	// document-global original coordinates.
	text, highlights, fonts, candidates, artifactSpans := stitchPages(assemblies)

	// Stage 2: position map over the artifact ranges.
	pm := NewPositionMap(len(text), artifactSpans)
	cleanText := pm.Apply(text)

	cleanFonts := make([]model.FontRange, 0, len(fonts))
	for _, r := range fonts {
		mapped := pm.SpanToClean(Span{Start: r.Start, End: r.End})
		if mapped.Len() > 0 {
			r.Start, r.End = mapped.Start, mapped.End
			cleanFonts = append(cleanFonts, r)
		}
	}

	cleanCandidates := make([]HeadingCandidate, 0, len(candidates))
	for _, cand := range candidates {
		mapped := pm.SpanToClean(Span{Start: cand.TextStart, End: cand.TextEnd})
		if mapped.Len() > 0 {
			cand.TextStart, cand.TextEnd = mapped.Start, mapped.End
			cleanCandidates = append(cleanCandidates, cand)
		}
	}

	// Stage 3: TOC and bibliography on the cleaned text.
	tocBib := a.tocbib.Detect(cleanText)
	var exclude []Span
	if tocBib.TOC != nil {
		exclude = append(exclude, *tocBib.TOC)
		orig := pm.SpanToOriginal(*tocBib.TOC)
		highlights = append(highlights, model.Highlight{Start: orig.Start, End: orig.End, Type: model.HighlightTOC})
	}
	if tocBib.Bibliography != nil {
		exclude = append(exclude, *tocBib.Bibliography)
		orig := pm.SpanToOriginal(*tocBib.Bibliography)
		highlights = append(highlights, model.Highlight{Start: orig.Start, End: orig.End, Type: model.HighlightBibliography})
	}

	// Stage 4: heading confirmation, TOC/bibliography excluded.
	bodySig := dominantSignature(cleanFonts)
	for _, h := range a.confirmer.Confirm(cleanText, cleanFonts, bodySig, exclude, cleanCandidates) {
		orig := pm.SpanToOriginal(h.Span)
		highlights = append(highlights, model.Highlight{
			Start:        orig.Start,
			End:          orig.End,
			Type:         model.HighlightHeading,
			SectionLevel: h.Level,
			SectionTitle: h.Title,
		})
	}

	// Author blocks live on the cleaned text too: removed running headers
	// would otherwise shift the leading region.
	for _, ab := range a.author.Detect(cleanText, doc.Author) {
		orig := pm.SpanToOriginal(ab.Span)
		highlights = append(highlights, model.Highlight{Start: orig.Start, End: orig.End, Type: model.HighlightAuthor})
	}

	// Second citation pass over the assembled text catches citations the
	// page boundary split; overlap merging dedupes against the page pass.
	highlights = append(highlights, a.citations.Detect(text)...)

	// Stage 6: anomaly-cluster expansion, then the final merge.
	highlights = expandAnomalyClusters(highlights, pm, a.cfg.PageClass.ClusterMergeGap)
	highlights = finalizeHighlights(highlights, len(text))

	headings := make([]model.Highlight, 0)
	for _, h := range highlights {
		if h.Type == model.HighlightHeading {
			headings = append(headings, h)
		}
	}

	return &model.StructuredDocument{
		Text:       text,
		Highlights: highlights,
		Sections:   buildSectionTree(headings, len(text)),
		Stats: model.DocumentStats{
			PageCount:       len(pages),
			BlockCount:      blockCount,
			CharCount:       len(text),
			HighlightCounts: countHighlights(highlights),
		},
	}, nil
}

// preparePages filters degenerate geometry and splits merged blocks. The
// input document is never mutated.
func (a *Assembler) preparePages(in []model.Page) []model.Page {
	pages := make([]model.Page, len(in))
	for i, page := range in {
		out := page
		out.Blocks = nil
		for _, block := range page.Blocks {
			var lines []model.Line
			for _, ln := range block.Lines {
				if !ln.BBox.IsValid() || strings.TrimSpace(ln.Text) == "" {
					continue
				}
				lines = append(lines, ln)
			}
			if len(lines) == 0 {
				continue
			}
			out.Blocks = append(out.Blocks, a.splitter.Split(model.Block{BBox: block.BBox, Lines: lines})...)
		}
		pages[i] = out
	}
	return pages
}

// assemblePage joins one page's blocks and collects every page-local
// detection result.
func (a *Assembler) assemblePage(
	page model.Page,
	pageIndex int,
	outline []model.OutlineEntry,
	classifier *PageClassifier,
	artifacts []Artifact,
	bodySize float64,
) pageAssembly {
	var pa pageAssembly
	var sb strings.Builder
	pa.blockSpans = make([]Span, len(page.Blocks))

	bodySig := pageBodySignature(page)
	pageOutline := outlineForPage(outline, page.PageNumber)

	prevBottom := 0.0
	for bi, block := range page.Blocks {
		joined := a.joiner.Join(block, bodySig)
		if sb.Len() > 0 && joined.Text != "" {
			sb.WriteByte('\n')
		}
		blockStart := sb.Len()
		sb.WriteString(joined.Text)
		pa.blockSpans[bi] = Span{Start: blockStart, End: sb.Len()}

		for _, r := range joined.FontRanges {
			r.Start += blockStart
			r.End += blockStart
			pa.fonts = append(pa.fonts, r)
		}

		gapBefore := block.BBox.Y - prevBottom
		if bi == 0 {
			gapBefore = block.BBox.Y
		}
		if block.BBox.IsValid() {
			prevBottom = block.BBox.Bottom()
		}

		for _, cand := range a.scorer.ScoreBlock(block, joined, bodySize, gapBefore, pageOutline) {
			cand.TextStart += blockStart
			cand.TextEnd += blockStart
			pa.candidates = append(pa.candidates, cand)
		}

		for _, h := range a.supers.Detect(block, joined) {
			h.Start += blockStart
			h.End += blockStart
			pa.highlights = append(pa.highlights, h)
		}
	}
	pa.text = sb.String()

	for _, h := range a.citations.Detect(pa.text) {
		pa.highlights = append(pa.highlights, h)
	}

	for _, bc := range classifier.Classify(pageIndex) {
		span := pa.blockSpans[bc.BlockIndex]
		if span.Len() > 0 {
			pa.highlights = append(pa.highlights, model.Highlight{Start: span.Start, End: span.End, Type: bc.Type})
		}
	}

	for _, art := range artifacts {
		span := pa.blockSpans[art.BlockIndex]
		if span.Len() == 0 {
			continue
		}
		// Take the following block separator with the artifact so removal
		// leaves no blank line behind.
		if span.End < len(pa.text) && pa.text[span.End] == '\n' {
			span.End++
		} else if span.Start > 0 && pa.text[span.Start-1] == '\n' {
			span.Start--
		}
		pa.artifacts = append(pa.artifacts, model.Highlight{Start: span.Start, End: span.End, Type: art.Type})
	}

	return pa
}

// stitchPages joins the per-page texts applying the line-join rules at
// page boundaries, and translates every page-local result into global
// original-document offsets.
func stitchPages(assemblies []pageAssembly) (
	text string,
	highlights []model.Highlight,
	fonts []model.FontRange,
	candidates []HeadingCandidate,
	artifactSpans []Span,
) {
	var sb strings.Builder
	var prev *pageAssembly

	for i := range assemblies {
		pa := &assemblies[i]
		if pa.text == "" {
			continue
		}
		offset := sb.Len()
		if offset > 0 && prev != nil {
			// The join decision must look past trailing page numbers and
			// footers: a "- 3 -" footer is not a hyphenated word.
			tail, tailIsArtifact := lastContentLine(prev)
			head, _ := firstContentLine(pa)
			mode := pageJoinMode(tail, head)
			if mode == joinHyphen && tailIsArtifact {
				// The hyphen sits before a trailing artifact and cannot be
				// stripped from the end of the stream.
				mode = joinBreak
			}
			switch mode {
			case joinHyphen:
				cut := stripTrailingHyphen(&sb)
				if cut > 0 {
					newLen := sb.Len()
					highlights = clampHighlightEnds(highlights, newLen)
					fonts = clampFontEnds(fonts, newLen)
					artifactSpans = clampSpanEnds(artifactSpans, newLen)
				}
			case joinSpace:
				sb.WriteByte(' ')
			default:
				sb.WriteByte('\n')
			}
			offset = sb.Len()
		}
		sb.WriteString(pa.text)
		prev = pa

		for _, h := range pa.highlights {
			h.Start += offset
			h.End += offset
			highlights = append(highlights, h)
		}
		for _, h := range pa.artifacts {
			globalSpan := Span{Start: h.Start + offset, End: h.End + offset}
			artifactSpans = append(artifactSpans, globalSpan)
			highlights = append(highlights, model.Highlight{Start: globalSpan.Start, End: globalSpan.End, Type: h.Type})
		}
		for _, r := range pa.fonts {
			r.Start += offset
			r.End += offset
			fonts = append(fonts, r)
		}
		for _, cand := range pa.candidates {
			cand.TextStart += offset
			cand.TextEnd += offset
			candidates = append(candidates, cand)
		}
	}

	return sb.String(), highlights, fonts, candidates, artifactSpans
}

// pageJoinMode decides how the tail of the assembled text meets the head
// of the next page: hyphen carry-over, mid-sentence continuation, or a
// hard break.
func pageJoinMode(tail, head string) joinMode {
	lastLine := tail
	if i := strings.LastIndexByte(tail, '\n'); i >= 0 {
		lastLine = tail[i+1:]
	}
	firstLine := head
	if i := strings.IndexByte(head, '\n'); i >= 0 {
		firstLine = head[:i]
	}
	firstLine = strings.TrimSpace(firstLine)

	if hyph, _ := trailingHyphen(lastLine); hyph && startsLower(firstLine) {
		return joinHyphen
	}
	if !reSentenceEnd.MatchString(lastLine) && startsLower(firstLine) {
		return joinSpace
	}
	return joinBreak
}

// lastContentLine returns the last line of the page text not covered by an
// artifact span, and whether the page physically ends with an artifact.
func lastContentLine(pa *pageAssembly) (line string, tailIsArtifact bool) {
	end := len(pa.text)
	first := true
	for end > 0 {
		start := strings.LastIndexByte(pa.text[:end], '\n') + 1
		if !artifactCovers(pa.artifacts, start, end) {
			return pa.text[start:end], tailIsArtifact
		}
		if first {
			tailIsArtifact = true
		}
		first = false
		end = start - 1
		if end < 0 {
			end = 0
		}
	}
	return "", tailIsArtifact
}

// firstContentLine returns the first line of the page text not covered by
// an artifact span, and whether the page physically starts with an artifact.
func firstContentLine(pa *pageAssembly) (line string, headIsArtifact bool) {
	start := 0
	first := true
	for start < len(pa.text) {
		end := len(pa.text)
		if i := strings.IndexByte(pa.text[start:], '\n'); i >= 0 {
			end = start + i
		}
		if !artifactCovers(pa.artifacts, start, end) {
			return pa.text[start:end], headIsArtifact
		}
		if first {
			headIsArtifact = true
		}
		first = false
		start = end + 1
	}
	return "", headIsArtifact
}

// artifactCovers reports whether some artifact span contains [start, end).
func artifactCovers(artifacts []model.Highlight, start, end int) bool {
	for _, a := range artifacts {
		if a.Start <= start && end <= a.End {
			return true
		}
	}
	return false
}

// clampSpanEnds truncates span ends beyond the given length.
func clampSpanEnds(spans []Span, maxEnd int) []Span {
	for i := range spans {
		if spans[i].End > maxEnd {
			spans[i].End = maxEnd
		}
	}
	return spans
}

// clampHighlightEnds truncates highlight ends beyond the given length.
func clampHighlightEnds(hs []model.Highlight, maxEnd int) []model.Highlight {
	for i := range hs {
		if hs[i].End > maxEnd {
			hs[i].End = maxEnd
		}
	}
	return hs
}

// clampFontEnds truncates font-range ends beyond the given length.
func clampFontEnds(fonts []model.FontRange, maxEnd int) []model.FontRange {
	for i := range fonts {
		if fonts[i].End > maxEnd {
			fonts[i].End = maxEnd
		}
	}
	return fonts
}

// expandAnomalyClusters merges adjacent anomaly/legend highlights whose
// gap is small enough, without ever crossing a heading, TOC, or
// bibliography boundary. The gap is measured on the cleaned text, so
// removed headers and page numbers between two blocks do not count
// against it. Merged clusters become one anomaly highlight.
func expandAnomalyClusters(hs []model.Highlight, pm *PositionMap, maxGap int) []model.Highlight {
	var cluster []int
	var boundaries []Span
	for i, h := range hs {
		switch h.Type {
		case model.HighlightAnomaly, model.HighlightLegend:
			cluster = append(cluster, i)
		case model.HighlightHeading, model.HighlightTOC, model.HighlightBibliography:
			boundaries = append(boundaries, Span{Start: h.Start, End: h.End})
		}
	}
	if len(cluster) < 2 {
		return hs
	}

	sort.Slice(cluster, func(i, j int) bool { return hs[cluster[i]].Start < hs[cluster[j]].Start })

	crossesBoundary := func(from, to int) bool {
		gap := Span{Start: from, End: to}
		for _, b := range boundaries {
			if gap.Overlaps(b) {
				return true
			}
		}
		return false
	}

	out := make([]model.Highlight, 0, len(hs))
	for _, h := range hs {
		if h.Type != model.HighlightAnomaly && h.Type != model.HighlightLegend {
			out = append(out, h)
		}
	}

	current := hs[cluster[0]]
	merged := false
	flush := func() {
		if merged {
			current.Type = model.HighlightAnomaly
		}
		out = append(out, current)
	}
	for _, idx := range cluster[1:] {
		next := hs[idx]
		cleanGap := pm.ToClean(next.Start) - pm.ToClean(current.End)
		if cleanGap < maxGap && !crossesBoundary(current.End, next.Start) {
			if next.End > current.End {
				current.End = next.End
			}
			merged = true
			continue
		}
		flush()
		current = next
		merged = false
	}
	flush()

	return out
}
