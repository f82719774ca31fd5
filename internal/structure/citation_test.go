package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/docweave/internal/model"
)

func highlightTexts(text string, hs []model.Highlight, typ model.HighlightType) []string {
	var out []string
	for _, h := range hs {
		if h.Type == typ {
			out = append(out, text[h.Start:h.End])
		}
	}
	return out
}

func TestCitationDetector_BracketCitations(t *testing.T) {
	text := "Prior systems [3] and surveys [12, 14] cover the area."

	hs := NewCitationDetector().Detect(text)
	refs := highlightTexts(text, hs, model.HighlightReference)
	assert.Equal(t, []string{"[3]", "[12, 14]"}, refs)
}

func TestCitationDetector_ParenCitations(t *testing.T) {
	text := "The effect was first described (Smith & Jones, 2019) in detail."

	hs := NewCitationDetector().Detect(text)
	refs := highlightTexts(text, hs, model.HighlightReference)
	require.Len(t, refs, 1)
	assert.Equal(t, "(Smith & Jones, 2019)", refs[0])
}

func TestCitationDetector_URLsAndEmails(t *testing.T) {
	text := "See https://example.org/docs or write to team@example.org today."

	hs := NewCitationDetector().Detect(text)
	assert.Equal(t, []string{"https://example.org/docs"}, highlightTexts(text, hs, model.HighlightURL))
	assert.Equal(t, []string{"team@example.org"}, highlightTexts(text, hs, model.HighlightEmail))
}

func TestCitationDetector_CrossReferences(t *testing.T) {
	text := "As Figure 3 and Section 2.1 show, the trend holds."

	hs := NewCitationDetector().Detect(text)
	refs := highlightTexts(text, hs, model.HighlightReference)
	assert.Equal(t, []string{"Figure 3", "Section 2.1"}, refs)
}

func TestCitationDetector_UnicodeSuperscripts(t *testing.T) {
	text := "as reported earlier¹ and confirmed²³"

	hs := NewCitationDetector().Detect(text)
	refs := highlightTexts(text, hs, model.HighlightReference)
	assert.Equal(t, []string{"¹", "²³"}, refs)
}

func TestCitationDetector_NoMatches(t *testing.T) {
	hs := NewCitationDetector().Detect("plain prose with nothing to annotate")
	assert.Empty(t, hs)
}

func TestCitationDetector_OffsetsValid(t *testing.T) {
	text := "See Table 2, Smith et al. (Smith, 2020), and [7] at https://example.org/x."

	hs := NewCitationDetector().Detect(text)
	require.NotEmpty(t, hs)
	lastEnd := 0
	for _, h := range hs {
		assert.GreaterOrEqual(t, h.Start, lastEnd)
		assert.Less(t, h.Start, h.End)
		assert.LessOrEqual(t, h.End, len(text))
		lastEnd = h.End
	}
}

func TestMergeOverlapping(t *testing.T) {
	hs := []model.Highlight{
		{Start: 10, End: 20, Type: model.HighlightReference},
		{Start: 15, End: 25, Type: model.HighlightReference},
		{Start: 25, End: 30, Type: model.HighlightURL},
		{Start: 10, End: 12, Type: model.HighlightEmail},
	}

	out := mergeOverlapping(hs)
	require.Len(t, out, 2)
	assert.Equal(t, 10, out[0].Start)
	assert.Equal(t, 20, out[0].End)
	assert.Equal(t, 25, out[1].Start)
}

func TestMergeOverlapping_Empty(t *testing.T) {
	assert.Nil(t, mergeOverlapping(nil))
}
