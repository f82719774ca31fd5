package docsource

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/docweave/internal/model"
)

const testPageHeight = 792.0

func TestNewExtractor(t *testing.T) {
	e := NewExtractor(1024)
	require.NotNil(t, e)
	assert.Equal(t, int64(1024), e.maxFileSize)
}

func TestBuildBlocks_Empty(t *testing.T) {
	assert.Nil(t, buildBlocks(nil, testPageHeight))
	assert.Nil(t, buildBlocks([]pdf.Text{}, testPageHeight))
}

func TestBuildBlocks_RowsAndBlocks(t *testing.T) {
	texts := []pdf.Text{
		{Font: "Helvetica", FontSize: 12, X: 72, Y: 700, W: 30, S: "Hello"},
		{Font: "Helvetica", FontSize: 12, X: 106, Y: 700, W: 32, S: "world"},
		{Font: "Helvetica", FontSize: 12, X: 72, Y: 686, W: 30, S: "again"},
		{Font: "Helvetica", FontSize: 12, X: 72, Y: 600, W: 40, S: "Footer"},
	}

	blocks := buildBlocks(texts, testPageHeight)
	require.Len(t, blocks, 2)

	first := blocks[0]
	require.Len(t, first.Lines, 2)
	assert.Equal(t, "Hello world", first.Lines[0].Text)
	assert.Equal(t, "again", first.Lines[1].Text)

	// PDF Y grows upward, so Y=700 with size 12 lands at 792-700-12.
	assert.InDelta(t, 80.0, first.Lines[0].BBox.Y, 0.001)
	assert.InDelta(t, 94.0, first.Lines[1].BBox.Y, 0.001)
	assert.InDelta(t, 72.0, first.Lines[0].BBox.X, 0.001)
	assert.InDelta(t, 66.0, first.Lines[0].BBox.W, 0.001)
	assert.InDelta(t, 12.0, first.Lines[0].BBox.H, 0.001)

	// Block bbox covers both lines.
	assert.InDelta(t, 80.0, first.BBox.Y, 0.001)
	assert.InDelta(t, 26.0, first.BBox.H, 0.001)

	second := blocks[1]
	require.Len(t, second.Lines, 1)
	assert.Equal(t, "Footer", second.Lines[0].Text)
	assert.InDelta(t, 180.0, second.Lines[0].BBox.Y, 0.001)
}

func TestBuildBlocks_UnsortedInput(t *testing.T) {
	// Same page as above fed bottom-up and right-to-left.
	texts := []pdf.Text{
		{Font: "Helvetica", FontSize: 12, X: 72, Y: 686, W: 30, S: "again"},
		{Font: "Helvetica", FontSize: 12, X: 106, Y: 700, W: 32, S: "world"},
		{Font: "Helvetica", FontSize: 12, X: 72, Y: 700, W: 30, S: "Hello"},
	}

	blocks := buildBlocks(texts, testPageHeight)
	require.Len(t, blocks, 1)
	require.Len(t, blocks[0].Lines, 2)
	assert.Equal(t, "Hello world", blocks[0].Lines[0].Text)
	assert.Equal(t, "again", blocks[0].Lines[1].Text)
}

func TestBuildBlocks_SkipsWhitespaceItems(t *testing.T) {
	texts := []pdf.Text{
		{Font: "Helvetica", FontSize: 12, X: 72, Y: 700, W: 10, S: "\n"},
		{Font: "Helvetica", FontSize: 12, X: 90, Y: 700, W: 10, S: "\t "},
	}
	assert.Nil(t, buildBlocks(texts, testPageHeight))
}

func TestBuildBlocks_ZeroFontSizeFallsBack(t *testing.T) {
	texts := []pdf.Text{
		{Font: "Helvetica", FontSize: 0, X: 72, Y: 700, W: 30, S: "Hello"},
	}

	blocks := buildBlocks(texts, testPageHeight)
	require.Len(t, blocks, 1)
	require.Len(t, blocks[0].Lines, 1)
	line := blocks[0].Lines[0]
	assert.InDelta(t, defaultFontSize, line.Font.Size, 0.001)
	assert.InDelta(t, testPageHeight-700-defaultFontSize, line.BBox.Y, 0.001)
}

func TestRowToLines_FontChangeSplits(t *testing.T) {
	row := []pdf.Text{
		{Font: "Helvetica-Bold", FontSize: 12, X: 72, Y: 700, W: 28, S: "Note"},
		{Font: "Helvetica", FontSize: 12, X: 106, Y: 700, W: 60, S: "body text"},
	}

	lines := rowToLines(row, testPageHeight)
	require.Len(t, lines, 2)
	assert.Equal(t, "Note", lines[0].Text)
	assert.Equal(t, model.WeightBold, lines[0].Font.Weight)
	assert.Equal(t, "body text", lines[1].Text)
	assert.Equal(t, model.WeightNormal, lines[1].Font.Weight)
}

func TestRowToLines_WideGapSplits(t *testing.T) {
	// Gap of 28pt exceeds one font size, so the row is two lines even
	// though the font never changes.
	row := []pdf.Text{
		{Font: "Helvetica", FontSize: 12, X: 72, Y: 700, W: 30, S: "Left"},
		{Font: "Helvetica", FontSize: 12, X: 130, Y: 700, W: 34, S: "Right"},
	}

	lines := rowToLines(row, testPageHeight)
	require.Len(t, lines, 2)
	assert.Equal(t, "Left", lines[0].Text)
	assert.Equal(t, "Right", lines[1].Text)
}

func TestRowToLines_SmallGapJoinsWithoutSpace(t *testing.T) {
	// Gap of 1pt is below the word gap threshold, so the fragments
	// concatenate directly.
	row := []pdf.Text{
		{Font: "Helvetica", FontSize: 12, X: 72, Y: 700, W: 30, S: "frag"},
		{Font: "Helvetica", FontSize: 12, X: 103, Y: 700, W: 36, S: "ment"},
	}

	lines := rowToLines(row, testPageHeight)
	require.Len(t, lines, 1)
	assert.Equal(t, "fragment", lines[0].Text)
	assert.InDelta(t, 67.0, lines[0].BBox.W, 0.001)
}

func TestLinesToBlock_Union(t *testing.T) {
	lines := []model.Line{
		{Text: "a", BBox: model.BBox{X: 72, Y: 100, W: 100, H: 12}},
		{Text: "b", BBox: model.BBox{X: 80, Y: 116, W: 120, H: 12}},
	}

	block := linesToBlock(lines)
	assert.InDelta(t, 72.0, block.BBox.X, 0.001)
	assert.InDelta(t, 100.0, block.BBox.Y, 0.001)
	assert.InDelta(t, 128.0, block.BBox.W, 0.001)
	assert.InDelta(t, 28.0, block.BBox.H, 0.001)
	assert.Len(t, block.Lines, 2)
}

func TestFontWeight(t *testing.T) {
	tests := []struct {
		name string
		want model.FontWeight
	}{
		{"Helvetica-Bold", model.WeightBold},
		{"TimesNewRoman,BoldItalic", model.WeightBold},
		{"ABCDEF+NimbusSans-bold", model.WeightBold},
		{"Helvetica", model.WeightNormal},
		{"Times-Italic", model.WeightNormal},
		{"", model.WeightNormal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fontWeight(tt.name), tt.name)
	}
}

func TestFontItalic(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Times-Italic", true},
		{"Helvetica-Oblique", true},
		{"TimesNewRoman,BoldItalic", true},
		{"Helvetica-Bold", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fontItalic(tt.name), tt.name)
	}
}

func TestExtractor_ValidateFile_Missing(t *testing.T) {
	e := NewExtractor(0)
	err := e.ValidateFile("/nonexistent/file.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot access file")
}

func TestExtractor_ValidateFile_Directory(t *testing.T) {
	e := NewExtractor(0)
	err := e.ValidateFile(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is a directory")
}
