package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/docweave/internal/model"
)

func TestFinalizeHighlights_ClampAndDrop(t *testing.T) {
	hs := []model.Highlight{
		{Start: -5, End: 10, Type: model.HighlightHeading},
		{Start: 90, End: 150, Type: model.HighlightFooter},
		{Start: 20, End: 20, Type: model.HighlightURL},
		{Start: 30, End: 25, Type: model.HighlightEmail},
	}

	out := finalizeHighlights(hs, 100)
	require.Len(t, out, 2)
	assert.Equal(t, model.Highlight{Start: 0, End: 10, Type: model.HighlightHeading}, out[0])
	assert.Equal(t, model.Highlight{Start: 90, End: 100, Type: model.HighlightFooter}, out[1])
}

func TestFinalizeHighlights_MergesWithinType(t *testing.T) {
	hs := []model.Highlight{
		{Start: 10, End: 30, Type: model.HighlightReference},
		{Start: 25, End: 40, Type: model.HighlightReference},
		{Start: 50, End: 60, Type: model.HighlightReference},
	}

	out := finalizeHighlights(hs, 100)
	require.Len(t, out, 2)
	assert.Equal(t, 10, out[0].Start)
	assert.Equal(t, 40, out[0].End)
	assert.Equal(t, 50, out[1].Start)
}

func TestFinalizeHighlights_KeepsCrossTypeOverlap(t *testing.T) {
	hs := []model.Highlight{
		{Start: 10, End: 30, Type: model.HighlightBibliography},
		{Start: 15, End: 25, Type: model.HighlightURL},
	}

	out := finalizeHighlights(hs, 100)
	require.Len(t, out, 2)
	assert.Equal(t, model.HighlightBibliography, out[0].Type)
	assert.Equal(t, model.HighlightURL, out[1].Type)
}

func TestFinalizeHighlights_SortedOutput(t *testing.T) {
	hs := []model.Highlight{
		{Start: 50, End: 60, Type: model.HighlightURL},
		{Start: 10, End: 20, Type: model.HighlightHeading},
		{Start: 30, End: 45, Type: model.HighlightEmail},
	}

	out := finalizeHighlights(hs, 100)
	require.Len(t, out, 3)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i].Start, out[i-1].Start)
	}
}

func TestBuildSectionTree_Nesting(t *testing.T) {
	headings := []model.Highlight{
		{Start: 0, End: 5, Type: model.HighlightHeading, SectionLevel: 2, SectionTitle: "A"},
		{Start: 20, End: 25, Type: model.HighlightHeading, SectionLevel: 3, SectionTitle: "A1"},
		{Start: 40, End: 45, Type: model.HighlightHeading, SectionLevel: 3, SectionTitle: "A2"},
		{Start: 60, End: 65, Type: model.HighlightHeading, SectionLevel: 2, SectionTitle: "B"},
	}

	roots := buildSectionTree(headings, 100)
	require.Len(t, roots, 2)

	a := roots[0]
	assert.Equal(t, "A", a.Title)
	assert.Equal(t, 0, a.Start)
	assert.Equal(t, 60, a.End)
	require.Len(t, a.Children, 2)
	assert.Equal(t, "A1", a.Children[0].Title)
	assert.Equal(t, 40, a.Children[0].End)
	assert.Equal(t, "A2", a.Children[1].Title)
	assert.Equal(t, 60, a.Children[1].End)

	b := roots[1]
	assert.Equal(t, "B", b.Title)
	assert.Equal(t, 60, b.Start)
	assert.Equal(t, 100, b.End)
	assert.Empty(t, b.Children)
}

func TestBuildSectionTree_IgnoresOtherTypes(t *testing.T) {
	headings := []model.Highlight{
		{Start: 0, End: 5, Type: model.HighlightFooter},
		{Start: 10, End: 15, Type: model.HighlightHeading, SectionLevel: 2, SectionTitle: "Only"},
	}

	roots := buildSectionTree(headings, 50)
	require.Len(t, roots, 1)
	assert.Equal(t, "Only", roots[0].Title)
}

func TestCountHighlights(t *testing.T) {
	hs := []model.Highlight{
		{Start: 0, End: 5, Type: model.HighlightHeading},
		{Start: 10, End: 15, Type: model.HighlightHeading},
		{Start: 20, End: 25, Type: model.HighlightURL},
	}

	counts := countHighlights(hs)
	assert.Equal(t, 2, counts[model.HighlightHeading])
	assert.Equal(t, 1, counts[model.HighlightURL])
	assert.Nil(t, countHighlights(nil))
}
