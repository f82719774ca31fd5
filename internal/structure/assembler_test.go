package structure

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/docweave/internal/model"
)

func reportPage(number int, headingText, bodyLine1, bodyLine2 string) model.Page {
	return makePage(number,
		blockOf(makeLine("ACME Annual Report", 72, 40, 150, 12, 9, model.WeightNormal)),
		blockOf(makeLine(headingText, 72, 100, 120, 14, 14, model.WeightBold)),
		blockOf(
			makeLine(bodyLine1, 72, 130, 400, 12, 11, model.WeightNormal),
			makeLine(bodyLine2, 72, 144, 400, 12, 11, model.WeightNormal),
		),
		blockOf(makeLine(pageNumText(number), 300, 750, 10, 12, 11, model.WeightNormal)),
	)
}

func pageNumText(n int) string {
	return string(rune('0' + n))
}

func TestAssembler_EndToEnd(t *testing.T) {
	doc := model.Document{Pages: []model.Page{
		reportPage(1, "1. Overview",
			"The company grew steadily across all regions.",
			"Margins improved in every quarter of this period."),
		reportPage(2, "2. Performance",
			"Latency fell sharply while throughput rose",
			"in the busiest clusters during testing."),
	}}

	sd, err := NewAssembler().Assemble(doc)
	require.NoError(t, err)
	require.NotNil(t, sd)

	assert.Contains(t, sd.Text, "1. Overview")
	assert.Contains(t, sd.Text, "2. Performance")
	assert.Contains(t, sd.Text, "The company grew steadily across all regions. Margins improved")

	headings := sd.HighlightsOfType(model.HighlightHeading)
	require.Len(t, headings, 2)
	assert.Equal(t, "1. Overview", sd.Text[headings[0].Start:headings[0].End])
	assert.Equal(t, "1. Overview", headings[0].SectionTitle)
	assert.Equal(t, 2, headings[0].SectionLevel)
	assert.Equal(t, "2. Performance", sd.Text[headings[1].Start:headings[1].End])

	headers := sd.HighlightsOfType(model.HighlightHeader)
	require.Len(t, headers, 2)
	for _, h := range headers {
		assert.True(t, strings.HasPrefix(sd.Text[h.Start:h.End], "ACME Annual Report"))
	}
	assert.Len(t, sd.HighlightsOfType(model.HighlightPageNumber), 2)

	assert.Empty(t, sd.HighlightsOfType(model.HighlightTOC))
	assert.Empty(t, sd.HighlightsOfType(model.HighlightBibliography))

	require.Len(t, sd.Sections, 2)
	assert.Equal(t, "1. Overview", sd.Sections[0].Title)
	assert.Equal(t, headings[0].Start, sd.Sections[0].Start)
	assert.Equal(t, headings[1].Start, sd.Sections[0].End)
	assert.Equal(t, len(sd.Text), sd.Sections[1].End)

	assert.Equal(t, 2, sd.Stats.PageCount)
	assert.Equal(t, 8, sd.Stats.BlockCount)
	assert.Equal(t, len(sd.Text), sd.Stats.CharCount)
	assert.Equal(t, 2, sd.Stats.HighlightCounts[model.HighlightHeading])
}

func TestAssembler_HighlightInvariants(t *testing.T) {
	doc := model.Document{Pages: []model.Page{
		reportPage(1, "1. Overview",
			"The company grew steadily across all regions.",
			"Margins improved in every quarter of this period."),
		reportPage(2, "2. Performance",
			"Latency fell sharply while throughput rose",
			"in the busiest clusters during testing."),
	}}

	sd, err := NewAssembler().Assemble(doc)
	require.NoError(t, err)

	lastEndByType := make(map[model.HighlightType]int)
	for _, h := range sd.Highlights {
		assert.GreaterOrEqual(t, h.Start, 0)
		assert.Less(t, h.Start, h.End)
		assert.LessOrEqual(t, h.End, len(sd.Text))
		assert.GreaterOrEqual(t, h.Start, lastEndByType[h.Type], "type %s overlaps", h.Type)
		lastEndByType[h.Type] = h.End
	}
}

func TestAssembler_PageBoundaryHyphen(t *testing.T) {
	doc := model.Document{Pages: []model.Page{
		makePage(1, blockOf(makeLine("every quar-", 72, 100, 80, 12, 11, model.WeightNormal))),
		makePage(2, blockOf(makeLine("ter of the year passed quietly.", 72, 100, 220, 12, 11, model.WeightNormal))),
	}}

	sd, err := NewAssembler().Assemble(doc)
	require.NoError(t, err)
	assert.Equal(t, "every quarter of the year passed quietly.", sd.Text)
}

func TestAssembler_PageBoundaryContinuation(t *testing.T) {
	doc := model.Document{Pages: []model.Page{
		makePage(1, blockOf(makeLine("the trend continued into", 72, 100, 180, 12, 11, model.WeightNormal))),
		makePage(2, blockOf(makeLine("the following year as well.", 72, 100, 200, 12, 11, model.WeightNormal))),
	}}

	sd, err := NewAssembler().Assemble(doc)
	require.NoError(t, err)
	assert.Equal(t, "the trend continued into the following year as well.", sd.Text)
}

func TestAssembler_PageBoundaryBreak(t *testing.T) {
	doc := model.Document{Pages: []model.Page{
		makePage(1, blockOf(makeLine("The first page ends with a sentence.", 72, 100, 260, 12, 11, model.WeightNormal))),
		makePage(2, blockOf(makeLine("The second page starts fresh.", 72, 100, 210, 12, 11, model.WeightNormal))),
	}}

	sd, err := NewAssembler().Assemble(doc)
	require.NoError(t, err)
	assert.Equal(t, "The first page ends with a sentence.\nThe second page starts fresh.", sd.Text)
}

func TestAssembler_DashedPageNumberSurvivesPageJoin(t *testing.T) {
	doc := model.Document{Pages: []model.Page{
		makePage(1,
			blockOf(makeLine("The results of the experiment were", 72, 100, 250, 12, 11, model.WeightNormal)),
			blockOf(makeLine("- 1 -", 290, 750, 30, 12, 11, model.WeightNormal)),
		),
		makePage(2,
			blockOf(makeLine("continued on the following page.", 72, 100, 240, 12, 11, model.WeightNormal)),
			blockOf(makeLine("- 2 -", 290, 750, 30, 12, 11, model.WeightNormal)),
		),
	}}

	sd, err := NewAssembler().Assemble(doc)
	require.NoError(t, err)

	assert.Contains(t, sd.Text, "- 1 -")
	assert.Contains(t, sd.Text, "- 2 -")

	pageNums := sd.HighlightsOfType(model.HighlightPageNumber)
	require.Len(t, pageNums, 2)

	// Removing the page-number spans must leave the sentence whole: the
	// trailing dash of the footer is not a hyphenated word.
	var removed []Span
	for _, h := range pageNums {
		removed = append(removed, Span{Start: h.Start, End: h.End})
	}
	clean := NewPositionMap(len(sd.Text), removed).Apply(sd.Text)
	assert.Equal(t, "The results of the experiment were continued on the following page.", clean)
}

func TestAssembler_HyphenBeforeFooterKept(t *testing.T) {
	doc := model.Document{Pages: []model.Page{
		makePage(1,
			blockOf(makeLine("margins rose in every quar-", 72, 100, 200, 12, 11, model.WeightNormal)),
			blockOf(makeLine("- 1 -", 290, 750, 30, 12, 11, model.WeightNormal)),
		),
		makePage(2,
			blockOf(makeLine("ter of the year under review.", 72, 100, 210, 12, 11, model.WeightNormal)),
			blockOf(makeLine("- 2 -", 290, 750, 30, 12, 11, model.WeightNormal)),
		),
	}}

	sd, err := NewAssembler().Assemble(doc)
	require.NoError(t, err)

	// The hyphen sits before the footer and cannot be stripped from the
	// end of the stream, so nothing may be cut.
	assert.Contains(t, sd.Text, "quar-")
	assert.Contains(t, sd.Text, "- 1 -")
	assert.Len(t, sd.HighlightsOfType(model.HighlightPageNumber), 2)
}

func TestExpandAnomalyClusters_GapMeasuredOnCleanText(t *testing.T) {
	hs := []model.Highlight{
		{Start: 0, End: 40, Type: model.HighlightAnomaly},
		{Start: 190, End: 230, Type: model.HighlightAnomaly},
	}

	// 150 characters apart in the original text, but 120 of them are a
	// removed artifact run, leaving a 30-character gap.
	pm := NewPositionMap(300, []Span{{Start: 50, End: 170}})
	out := expandAnomalyClusters(hs, pm, 100)
	require.Len(t, out, 1)
	assert.Equal(t, model.Highlight{Start: 0, End: 230, Type: model.HighlightAnomaly}, out[0])

	identity := NewPositionMap(300, nil)
	out = expandAnomalyClusters(hs, identity, 100)
	assert.Len(t, out, 2)
}

func TestAssembler_InvalidDocument(t *testing.T) {
	doc := model.Document{Pages: []model.Page{{PageNumber: 1, Width: 0, Height: 792}}}

	sd, err := NewAssembler().Assemble(doc)
	assert.Error(t, err)
	assert.Nil(t, sd)
	assert.Contains(t, err.Error(), "invalid input document")
}

func TestAssembler_EmptyDocument(t *testing.T) {
	sd, err := NewAssembler().Assemble(model.Document{})
	require.NoError(t, err)
	assert.Empty(t, sd.Text)
	assert.Empty(t, sd.Highlights)
	assert.Zero(t, sd.Stats.PageCount)
}

func TestAssembler_DegenerateGeometryFiltered(t *testing.T) {
	bad := model.Line{Text: "ghost", BBox: model.BBox{X: 72, Y: 100, W: -5, H: 12}, Font: model.Font{Size: 11, Weight: model.WeightNormal}}
	doc := model.Document{Pages: []model.Page{
		makePage(1,
			model.Block{BBox: model.BBox{X: 72, Y: 100, W: 400, H: 12}, Lines: []model.Line{bad}},
			blockOf(makeLine("a surviving ordinary paragraph of text.", 72, 130, 280, 12, 11, model.WeightNormal)),
		),
	}}

	sd, err := NewAssembler().Assemble(doc)
	require.NoError(t, err)
	assert.Equal(t, "a surviving ordinary paragraph of text.", sd.Text)
	assert.NotContains(t, sd.Text, "ghost")
}
