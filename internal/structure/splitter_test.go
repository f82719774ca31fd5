package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/docweave/internal/model"
)

func makeLine(text string, x, y, w, h, size float64, weight model.FontWeight) model.Line {
	return model.Line{
		Text: text,
		BBox: model.BBox{X: x, Y: y, W: w, H: h},
		Font: model.Font{Size: size, Weight: weight},
	}
}

func blockOf(lines ...model.Line) model.Block {
	return makeBlock(lines)
}

func TestNewSplitter(t *testing.T) {
	s := NewSplitter()
	assert.NotNil(t, s)
	assert.Equal(t, DefaultSplitterConfig(), s.cfg)
}

func TestSplitter_SingleLineUnchanged(t *testing.T) {
	s := NewSplitter()
	b := blockOf(makeLine("only line", 72, 100, 200, 12, 11, model.WeightNormal))

	out := s.Split(b)
	require.Len(t, out, 1)
	assert.Equal(t, b.Lines, out[0].Lines)
}

func TestSplitter_UniformBlockUnchanged(t *testing.T) {
	s := NewSplitter()
	b := blockOf(
		makeLine("first line of the paragraph", 72, 100, 400, 12, 11, model.WeightNormal),
		makeLine("second line of the paragraph", 72, 114, 400, 12, 11, model.WeightNormal),
		makeLine("third line of the paragraph", 72, 128, 400, 12, 11, model.WeightNormal),
	)

	out := s.Split(b)
	require.Len(t, out, 1)
	assert.Len(t, out[0].Lines, 3)
}

func TestSplitter_FontSizeJump(t *testing.T) {
	s := NewSplitter()
	b := blockOf(
		makeLine("Results", 72, 100, 120, 16, 16, model.WeightBold),
		makeLine("Body text follows the heading here.", 72, 130, 400, 12, 11, model.WeightNormal),
	)

	out := s.Split(b)
	require.Len(t, out, 2)
	assert.Equal(t, "Results", out[0].Lines[0].Text)
	assert.Len(t, out[1].Lines, 1)
}

func TestSplitter_BoldToNormal(t *testing.T) {
	s := NewSplitter()
	b := blockOf(
		makeLine("Key finding", 72, 100, 120, 12, 11, model.WeightBold),
		makeLine("regular explanation text", 72, 114, 400, 12, 11, model.WeightNormal),
	)

	out := s.Split(b)
	require.Len(t, out, 2)
}

func TestSplitter_NormalToBoldNeedsHeadingShape(t *testing.T) {
	s := NewSplitter()

	// Bold continuation that does not look like a heading start stays put.
	noSplit := blockOf(
		makeLine("text ending with emphasis on", 72, 100, 400, 12, 11, model.WeightNormal),
		makeLine("…continued emphasis", 72, 114, 200, 12, 11, model.WeightBold),
	)
	assert.Len(t, s.Split(noSplit), 1)

	// Bold line shaped like a numbered heading cuts.
	split := blockOf(
		makeLine("text ending the previous paragraph", 72, 100, 400, 12, 11, model.WeightNormal),
		makeLine("2. Methods", 72, 114, 150, 12, 11, model.WeightBold),
	)
	assert.Len(t, s.Split(split), 2)
}

func TestSplitter_LargeGap(t *testing.T) {
	s := NewSplitter()
	b := blockOf(
		makeLine("paragraph one text", 72, 100, 400, 12, 11, model.WeightNormal),
		makeLine("paragraph two text", 72, 160, 400, 12, 11, model.WeightNormal),
	)

	// Gap of 48 against a 12pt line height exceeds the ratio.
	out := s.Split(b)
	require.Len(t, out, 2)
}

func TestSplitter_TinyScriptLinesIgnored(t *testing.T) {
	s := NewSplitter()
	b := blockOf(
		makeLine("body text with a footnote mark", 72, 100, 400, 12, 11, model.WeightNormal),
		makeLine("3", 470, 98, 5, 6, 5, model.WeightNormal), // superscript, below size floor
		makeLine("continued body text on next line", 72, 114, 400, 12, 11, model.WeightNormal),
	)

	out := s.Split(b)
	require.Len(t, out, 1)
}

func TestSplitter_Idempotent(t *testing.T) {
	s := NewSplitter()
	b := blockOf(
		makeLine("1. Introduction", 72, 100, 180, 16, 16, model.WeightBold),
		makeLine("Opening paragraph of the section text.", 72, 132, 400, 12, 11, model.WeightNormal),
		makeLine("Second line of the same paragraph.", 72, 146, 400, 12, 11, model.WeightNormal),
	)

	first := s.Split(b)
	var second []model.Block
	for _, blk := range first {
		second = append(second, s.Split(blk)...)
	}

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Lines, second[i].Lines)
	}
}

func TestSplitter_SplitAllPreservesOrder(t *testing.T) {
	s := NewSplitter()
	blocks := []model.Block{
		blockOf(makeLine("alpha", 72, 100, 100, 12, 11, model.WeightNormal)),
		blockOf(makeLine("beta", 72, 130, 100, 12, 11, model.WeightNormal)),
	}

	out := s.SplitAll(blocks)
	require.Len(t, out, 2)
	assert.Equal(t, "alpha", out[0].Lines[0].Text)
	assert.Equal(t, "beta", out[1].Lines[0].Text)
}

func TestMakeBlock_UnionBBox(t *testing.T) {
	b := makeBlock([]model.Line{
		makeLine("a", 72, 100, 100, 12, 11, model.WeightNormal),
		makeLine("b", 80, 114, 200, 12, 11, model.WeightNormal),
	})

	assert.Equal(t, 72.0, b.BBox.X)
	assert.Equal(t, 100.0, b.BBox.Y)
	assert.Equal(t, 280.0-72.0, b.BBox.W)
	assert.Equal(t, 126.0-100.0, b.BBox.H)
}
