package structure

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/docweave/docweave/internal/model"
)

// BlockClass is one classified block of a page.
type BlockClass struct {
	BlockIndex int
	Type       model.HighlightType // anomaly, legend, footnote, or figure_label
	Score      float64
	Tags       []string
}

// PageClassifier runs the column/reading-order based per-page
// classification. The column set is computed once over the whole document;
// individual pages are then classified against it.
type PageClassifier struct {
	cfg     PageClassConfig
	pages   []model.Page
	columns []float64
}

// NewPageClassifier creates a classifier over the document's page set,
// using the default configuration.
func NewPageClassifier(pages []model.Page) *PageClassifier {
	return NewPageClassifierWithConfig(DefaultPageClassConfig(), pages)
}

// NewPageClassifierWithConfig creates a classifier with a custom configuration.
func NewPageClassifierWithConfig(cfg PageClassConfig, pages []model.Page) *PageClassifier {
	return &PageClassifier{
		cfg:     cfg,
		pages:   pages,
		columns: detectColumns(pages, cfg),
	}
}

// Columns exposes the detected column X positions, sorted ascending.
func (c *PageClassifier) Columns() []float64 {
	out := make([]float64, len(c.columns))
	copy(out, c.columns)
	return out
}

// blockState carries the per-block scan state of one page.
type blockState struct {
	text      string
	runes     int
	col       int
	colDist   float64
	violation bool
	inZone    bool
	baseScore float64
	baseTags  []string
}

// Classify classifies one page's blocks. It returns at most one class per
// block; anomaly wins over legend for the same block.
func (c *PageClassifier) Classify(pageIndex int) []BlockClass {
	if pageIndex < 0 || pageIndex >= len(c.pages) {
		return nil
	}
	page := c.pages[pageIndex]
	states := c.scanReadingOrder(page)

	// Base anomaly scores, then the adjacency bonus in a second pass so
	// flagged neighbors reinforce each other without order dependence.
	for i := range states {
		states[i].baseScore, states[i].baseTags = c.scoreBlock(&states[i])
	}

	var out []BlockClass
	avgFont := pageAverageFontSize(page)

	for i, block := range page.Blocks {
		st := &states[i]

		score := st.baseScore
		tags := st.baseTags
		bonus := 0.0
		if i > 0 && states[i-1].baseScore >= c.cfg.AcceptScore {
			bonus++
		}
		if i+1 < len(states) && states[i+1].baseScore >= c.cfg.AcceptScore {
			bonus++
		}
		if bonus > 0 {
			score += bonus
			tags = append(append([]string{}, tags...), "adjacent_flagged")
		}

		switch {
		case score >= c.cfg.AcceptScore:
			out = append(out, BlockClass{BlockIndex: i, Type: model.HighlightAnomaly, Score: score, Tags: tags})
		case reCaptionDelim.MatchString(st.text):
			out = append(out, BlockClass{BlockIndex: i, Type: model.HighlightLegend, Score: score, Tags: tags})
		case c.isFootnote(block, page, avgFont):
			out = append(out, BlockClass{BlockIndex: i, Type: model.HighlightFootnote, Score: score, Tags: tags})
		}
	}

	out = append(out, c.labelClusters(page, states, out)...)
	return out
}

// scanReadingOrder walks the page's blocks tracking column positions,
// reading-order violations, and violation zones. A zone opens at a
// violation and persists across blocks whose Y stays behind the zone's
// reference Y; it closes only when a block both returns to a main column
// and resumes forward order.
func (c *PageClassifier) scanReadingOrder(page model.Page) []blockState {
	states := make([]blockState, len(page.Blocks))

	lastNormalY := math.Inf(-1)
	lastNormalX := math.Inf(-1)
	haveNormal := false
	zoneActive := false
	zoneRefY := 0.0

	for i, block := range page.Blocks {
		text := strings.TrimSpace(block.Text())
		col, dist := c.nearestColumn(block.BBox.X)
		st := blockState{
			text:    text,
			runes:   utf8.RuneCountInString(text),
			col:     col,
			colDist: dist,
		}

		// A block above the last normal block violates reading order only
		// when it did not advance into a column further right.
		advancedRight := block.BBox.X > lastNormalX+c.cfg.ColumnBinWidth
		if haveNormal && block.BBox.Y < lastNormalY && !advancedRight {
			st.violation = true
			if !zoneActive {
				zoneActive = true
				zoneRefY = lastNormalY
			}
		}

		if zoneActive && !st.violation {
			if block.BBox.Y < zoneRefY {
				st.inZone = true
			} else if col >= 0 {
				zoneActive = false
			} else {
				st.inZone = true
			}
		}
		if st.violation {
			st.inZone = true
		}

		if !st.violation && !st.inZone && block.BBox.IsValid() {
			lastNormalY = block.BBox.Y
			lastNormalX = block.BBox.X
			haveNormal = true
		}

		states[i] = st
	}
	return states
}

// scoreBlock applies the additive anomaly battery to one scanned block.
func (c *PageClassifier) scoreBlock(st *blockState) (float64, []string) {
	rules := []Rule[*blockState]{
		{Tag: "far_from_column", Weight: 4, Match: func(s *blockState) bool {
			return s.colDist > c.cfg.FarColumnDistance
		}},
		{Tag: "off_column", Weight: 2, Match: func(s *blockState) bool {
			return s.colDist > c.cfg.NearColumnDistance && s.colDist <= c.cfg.FarColumnDistance
		}},
		{Tag: "caption_delimited", Weight: 3, Match: func(s *blockState) bool {
			return reCaptionDelim.MatchString(s.text)
		}},
		{Tag: "caption_prefix", Weight: 1, Match: func(s *blockState) bool {
			return !reCaptionDelim.MatchString(s.text) && reCaptionPrefix.MatchString(s.text)
		}},
		{Tag: "short_block", Weight: 2, Match: func(s *blockState) bool {
			return s.runes < c.cfg.ShortBlockRunes && !s.inZone
		}},
		{Tag: "long_block", Weight: -2, Match: func(s *blockState) bool {
			return s.runes > c.cfg.LongBlockRunes
		}},
		{Tag: "order_violation", Weight: 3, Match: func(s *blockState) bool {
			return s.violation
		}},
		{Tag: "violation_zone", Weight: 4, Match: func(s *blockState) bool {
			return s.inZone
		}},
	}
	return evalRules(rules, st)
}

// isFootnote applies the footnote rule: noticeably small font in the
// bottom slice of the page.
func (c *PageClassifier) isFootnote(block model.Block, page model.Page, pageAvgFont float64) bool {
	if pageAvgFont <= 0 || page.Height <= 0 {
		return false
	}
	blockFont := pageAverageFontSize(model.Page{Blocks: []model.Block{block}})
	if blockFont <= 0 || blockFont >= c.cfg.FootnoteFontRatio*pageAvgFont {
		return false
	}
	return block.BBox.Y >= page.Height*(1-c.cfg.FootnoteZoneRatio)
}

// labelClusters finds page-wide clusters of short non-heading non-sentence
// blocks: axis labels and figure annotations the extractor turned into
// text blocks.
func (c *PageClassifier) labelClusters(page model.Page, states []blockState, already []BlockClass) []BlockClass {
	taken := make(map[int]bool, len(already))
	for _, bc := range already {
		taken[bc.BlockIndex] = true
	}

	var short []int
	for i, st := range states {
		if taken[i] || st.text == "" {
			continue
		}
		if st.runes >= c.cfg.LabelMaxRunes {
			continue
		}
		if isNumberedHeading(st.text) || reHeadingKeyword.MatchString(st.text) {
			continue
		}
		if reSentenceEnd.MatchString(st.text) {
			continue
		}
		short = append(short, i)
	}
	if len(short) < c.cfg.LabelClusterCount {
		return nil
	}

	out := make([]BlockClass, 0, len(short))
	for _, i := range short {
		out = append(out, BlockClass{BlockIndex: i, Type: model.HighlightFigureLabel, Tags: []string{"label_cluster"}})
	}
	return out
}

// nearestColumn returns the index of the closest detected column and the
// distance to it. Without any detected columns the distance is zero: a
// sparse document has no column discipline to violate.
func (c *PageClassifier) nearestColumn(x float64) (int, float64) {
	if len(c.columns) == 0 {
		return -1, 0
	}
	best := -1
	bestDist := math.Inf(1)
	for i, col := range c.columns {
		d := math.Abs(x - col)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	if bestDist > c.cfg.ColumnBinWidth {
		// Off every column: report the distance but no membership.
		return -1, bestDist
	}
	return best, bestDist
}

// detectColumns bins block X positions document-wide and keeps the bins
// dense enough to be column starts.
func detectColumns(pages []model.Page, cfg PageClassConfig) []float64 {
	if cfg.ColumnBinWidth <= 0 {
		return nil
	}
	counts := make(map[int]int)
	total := 0
	for _, page := range pages {
		for _, block := range page.Blocks {
			if !block.BBox.IsValid() {
				continue
			}
			counts[int(math.Round(block.BBox.X/cfg.ColumnBinWidth))]++
			total++
		}
	}
	if total == 0 {
		return nil
	}

	minCount := int(float64(total) * cfg.ColumnMinBlockRatio)
	if minCount < 1 {
		minCount = 1
	}
	var cols []float64
	for bin, count := range counts {
		if count >= minCount {
			cols = append(cols, float64(bin)*cfg.ColumnBinWidth)
		}
	}
	sort.Float64s(cols)
	return cols
}

// pageAverageFontSize returns the text-length weighted mean font size.
func pageAverageFontSize(page model.Page) float64 {
	var total, weight float64
	for _, block := range page.Blocks {
		for _, ln := range block.Lines {
			n := float64(len(strings.TrimSpace(ln.Text)))
			if n > 0 && ln.Font.Size > 0 {
				total += ln.Font.Size * n
				weight += n
			}
		}
	}
	if weight == 0 {
		return 0
	}
	return total / weight
}
