package structure

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/docweave/internal/model"
)

var (
	headingSig = model.FontSignature{Size: 14, Weight: model.WeightBold}
	bodyText11 = model.FontSignature{Size: 11, Weight: model.WeightNormal}
)

// headingFonts builds font ranges marking each given heading line bold 14pt.
func headingFonts(text string, headings ...string) []model.FontRange {
	var fonts []model.FontRange
	for _, h := range headings {
		start := strings.Index(text, h)
		if start < 0 {
			continue
		}
		fonts = append(fonts, model.FontRange{
			Start: start, End: start + len(h), Size: 14, Weight: model.WeightBold,
		})
	}
	return fonts
}

func TestHeadingConfirmer_NumericSequence(t *testing.T) {
	text := strings.Join([]string{
		"1. Introduction",
		"Opening text of the document.",
		"2. Methods",
		"How the work was done in detail.",
		"4. Results",
		"What came out of the experiments.",
	}, "\n")
	fonts := headingFonts(text, "1. Introduction", "2. Methods", "4. Results")

	headings := NewHeadingConfirmer().Confirm(text, fonts, bodyText11, nil, nil)
	require.Len(t, headings, 3)
	assert.Equal(t, "1. Introduction", headings[0].Title)
	assert.Equal(t, "2. Methods", headings[1].Title)
	assert.Equal(t, "4. Results", headings[2].Title)
	for _, h := range headings {
		assert.Equal(t, 2, h.Level)
		assert.Equal(t, h.Title, text[h.Span.Start:h.Span.End])
	}
}

func TestHeadingConfirmer_LoneNumericRejected(t *testing.T) {
	text := strings.Join([]string{
		"7. Discussion",
		"A paragraph that happens to follow a lone numbered line.",
	}, "\n")
	fonts := headingFonts(text, "7. Discussion")

	headings := NewHeadingConfirmer().Confirm(text, fonts, bodyText11, nil, nil)
	assert.Empty(t, headings)
}

func TestHeadingConfirmer_LoneKeywordConfirmed(t *testing.T) {
	text := strings.Join([]string{
		"Abstract",
		"This work studies the recovery of document structure.",
	}, "\n")
	fonts := headingFonts(text, "Abstract")

	headings := NewHeadingConfirmer().Confirm(text, fonts, bodyText11, nil, nil)
	require.Len(t, headings, 1)
	assert.Equal(t, "Abstract", headings[0].Title)
	assert.Equal(t, 2, headings[0].Level)
}

func TestHeadingConfirmer_BodyFontRejected(t *testing.T) {
	text := strings.Join([]string{
		"1. First point raised in the running text",
		"2. Second point raised in the running text",
	}, "\n")
	fonts := []model.FontRange{{Start: 0, End: len(text), Size: 11, Weight: model.WeightNormal}}

	headings := NewHeadingConfirmer().Confirm(text, fonts, bodyText11, nil, nil)
	assert.Empty(t, headings)
}

func TestHeadingConfirmer_ExcludedSpansSkipped(t *testing.T) {
	text := strings.Join([]string{
		"1. Introduction",
		"Body of the introduction section.",
		"2. Methods",
		"Body of the methods section.",
	}, "\n")
	fonts := headingFonts(text, "1. Introduction", "2. Methods")
	exclude := []Span{{Start: 0, End: len(text)}}

	headings := NewHeadingConfirmer().Confirm(text, fonts, bodyText11, exclude, nil)
	assert.Empty(t, headings)
}

func TestHeadingConfirmer_DecimalLevels(t *testing.T) {
	text := strings.Join([]string{
		"2.1 Data collection",
		"Where the data came from.",
		"2.2 Model training",
		"How the models were fit.",
	}, "\n")
	fonts := headingFonts(text, "2.1 Data collection", "2.2 Model training")

	headings := NewHeadingConfirmer().Confirm(text, fonts, bodyText11, nil, nil)
	require.Len(t, headings, 2)
	assert.Equal(t, 3, headings[0].Level)
	assert.Equal(t, 3, headings[1].Level)
}

func TestHeadingConfirmer_MergesCandidates(t *testing.T) {
	text := strings.Join([]string{
		"Experimental Setup",
		"The rig consisted of four nodes behind one switch.",
	}, "\n")

	cand := HeadingCandidate{
		TextStart: 0,
		TextEnd:   len("Experimental Setup"),
		Text:      "Experimental Setup",
		Score:     60,
		FontSize:  14,
		Weight:    model.WeightBold,
	}

	headings := NewHeadingConfirmer().Confirm(text, nil, bodyText11, nil, []HeadingCandidate{cand})
	require.Len(t, headings, 1)
	assert.Equal(t, "Experimental Setup", headings[0].Title)
	assert.Equal(t, 2, headings[0].Level)
}

func TestHeadingConfirmer_SuppressTailCluster(t *testing.T) {
	c := NewHeadingConfirmer()

	headings := []ConfirmedHeading{{Span: Span{Start: 10, End: 30}, Title: "early", Level: 2}}
	for i := 0; i < 10; i++ {
		start := 850 + i*12
		headings = append(headings, ConfirmedHeading{
			Span: Span{Start: start, End: start + 8}, Title: "entry", Level: 2,
		})
	}

	out := c.suppressClusters(headings, 1000)
	require.Len(t, out, 1)
	assert.Equal(t, "early", out[0].Title)
}

func TestClassifyHeadingLine(t *testing.T) {
	tests := []struct {
		text  string
		kind  headingKind
		level int
	}{
		{"1. Introduction", kindNumeric, 2},
		{"2.3 Evaluation setup", kindDecimal, 3},
		{"2.3.1 Dataset details", kindDecimal, 4},
		{"2.3. Trailing dot form", kindDecimal, 3},
		{"IV. Related Work", kindRoman, 2},
		{"A. Proof details", kindLetter, 3},
		{"Chapter 2", kindNamed, 2},
		{"References", kindKeyword, 2},
		{"An ordinary sentence of prose text", kindNone, 0},
	}

	for _, tt := range tests {
		kind, level := classifyHeadingLine(tt.text)
		assert.Equal(t, tt.kind, kind, "text %q", tt.text)
		assert.Equal(t, tt.level, level, "text %q", tt.text)
	}
}

func TestFontAt(t *testing.T) {
	fonts := []model.FontRange{
		{Start: 0, End: 10, Size: 14, Weight: model.WeightBold},
		{Start: 10, End: 40, Size: 11, Weight: model.WeightNormal},
	}

	assert.Equal(t, headingSig, fontAt(fonts, 0))
	assert.Equal(t, headingSig, fontAt(fonts, 9))
	assert.Equal(t, bodyText11, fontAt(fonts, 10))
	assert.Equal(t, model.FontSignature{}, fontAt(fonts, 50))
}
