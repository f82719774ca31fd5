package structure

import (
	"math"
	"strings"

	"github.com/docweave/docweave/internal/model"
)

// Splitter pre-segments blocks the upstream extractor merged across a real
// styling boundary, so the joiner and the heading scorer see one style per
// block. Splitting never drops or reorders lines, and re-running on already
// split output changes nothing: every boundary test uses only the two lines
// on each side of it.
type Splitter struct {
	cfg SplitterConfig
}

// NewSplitter creates a splitter with the default configuration.
func NewSplitter() *Splitter {
	return NewSplitterWithConfig(DefaultSplitterConfig())
}

// NewSplitterWithConfig creates a splitter with a custom configuration.
func NewSplitterWithConfig(cfg SplitterConfig) *Splitter {
	return &Splitter{cfg: cfg}
}

// SplitAll splits every block of a page in order.
func (s *Splitter) SplitAll(blocks []model.Block) []model.Block {
	var out []model.Block
	for _, b := range blocks {
		out = append(out, s.Split(b)...)
	}
	return out
}

// Split scans consecutive line pairs of one block and cuts it at every
// styling boundary. Lines below the super/subscript size threshold never
// act as a boundary reference; they attach to the current segment.
func (s *Splitter) Split(block model.Block) []model.Block {
	if len(block.Lines) < 2 {
		return []model.Block{block}
	}

	var cuts []int // line indexes that start a new segment

	// Reference line for pair comparisons: the last line large enough to
	// carry real style information.
	refIdx := -1
	// Minimum X of the current visual row, correcting for extractors that
	// fragment one row into several "lines".
	rowMinX := math.Inf(1)

	for i, cur := range block.Lines {
		if cur.Font.Size > 0 && cur.Font.Size < s.cfg.MinScriptFontSize {
			continue
		}
		if refIdx < 0 {
			refIdx = i
			rowMinX = cur.BBox.X
			continue
		}
		prev := block.Lines[refIdx]
		if prev.BBox.SameRow(cur.BBox) {
			rowMinX = math.Min(rowMinX, cur.BBox.X)
			refIdx = i
			continue
		}
		if s.isBoundary(prev, cur, rowMinX) {
			cuts = append(cuts, i)
		}
		refIdx = i
		rowMinX = cur.BBox.X
	}

	if len(cuts) == 0 {
		return []model.Block{block}
	}

	var out []model.Block
	start := 0
	for _, cut := range cuts {
		out = append(out, makeBlock(block.Lines[start:cut]))
		start = cut
	}
	out = append(out, makeBlock(block.Lines[start:]))
	return out
}

// isBoundary tests one vertically separated line pair for a style boundary.
func (s *Splitter) isBoundary(prev, cur model.Line, rowMinX float64) bool {
	sizeDelta := math.Abs(cur.Font.Size - prev.Font.Size)
	if prev.Font.Size > 0 && cur.Font.Size > 0 && sizeDelta >= s.cfg.FontSizeDelta {
		return true
	}

	prevBold := prev.Font.Weight == model.WeightBold
	curBold := cur.Font.Weight == model.WeightBold
	if !prevBold && curBold && reHeadingStart.MatchString(strings.TrimSpace(cur.Text)) {
		return true
	}
	if prevBold && !curBold {
		return true
	}

	lineHeight := (prev.BBox.H + cur.BBox.H) / 2
	gap := cur.BBox.Y - prev.BBox.Bottom()
	if lineHeight > 0 && gap > s.cfg.GapHeightRatio*lineHeight {
		return true
	}

	shift := cur.BBox.X - rowMinX
	if shift > s.cfg.IndentShiftPt || (cur.BBox.W > 0 && shift > s.cfg.IndentShiftRatio*cur.BBox.W) {
		return true
	}

	if reCaptionPrefix.MatchString(strings.TrimSpace(cur.Text)) &&
		lineHeight > 0 && gap >= s.cfg.CaptionGapRatio*lineHeight {
		return true
	}

	return false
}

// makeBlock wraps a line slice into a block with a recomputed bounding box.
func makeBlock(lines []model.Line) model.Block {
	var bbox model.BBox
	first := true
	for _, ln := range lines {
		if !ln.BBox.IsValid() {
			continue
		}
		if first {
			bbox = ln.BBox
			first = false
			continue
		}
		bbox = bbox.Union(ln.BBox)
	}
	return model.Block{BBox: bbox, Lines: lines}
}
