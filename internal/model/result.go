package model

// HighlightType represents the semantic type of an annotated range.
type HighlightType string

const (
	HighlightHeading      HighlightType = "heading"
	HighlightTOC          HighlightType = "toc"
	HighlightBibliography HighlightType = "bibliography"
	HighlightAuthor       HighlightType = "author"
	HighlightFootnote     HighlightType = "footnote"
	HighlightFigureLabel  HighlightType = "figure_label"
	HighlightLegend       HighlightType = "legend"
	HighlightAnomaly      HighlightType = "anomaly"
	HighlightHeader       HighlightType = "header"
	HighlightFooter       HighlightType = "footer"
	HighlightPageNumber   HighlightType = "page_number"
	HighlightReference    HighlightType = "reference"
	HighlightURL          HighlightType = "url"
	HighlightEmail        HighlightType = "email"
)

// Highlight is an offset range in the final assembled text tagged with a
// semantic type. Offsets are half-open ([Start, End)) byte offsets.
// Within a type, ranges are sorted and non-overlapping after merge, and
// 0 <= Start < End <= len(text) always holds.
type Highlight struct {
	Start int           `json:"start"`
	End   int           `json:"end"`
	Type  HighlightType `json:"type"`

	// SectionLevel is set for headings only; levels start at 2.
	SectionLevel int `json:"section_level,omitempty"`

	// SectionTitle is set for headings only.
	SectionTitle string `json:"section_title,omitempty"`
}

// FontRange records the font in effect over an offset range of a joined
// text. It is the auxiliary index that lets headings be re-scored on the
// assembled document without the original geometry.
type FontRange struct {
	Start  int        `json:"start"`
	End    int        `json:"end"`
	Size   float64    `json:"size"`
	Weight FontWeight `json:"weight"`
	Italic bool       `json:"italic,omitempty"`
}

// Signature derives the style clustering key for the range.
func (r FontRange) Signature() FontSignature {
	return Font{Size: r.Size, Weight: r.Weight}.Signature()
}

// SectionNode is one node of the navigable outline built from confirmed
// headings. Children nest by section level.
type SectionNode struct {
	Title    string         `json:"title"`
	Level    int            `json:"level"`
	Start    int            `json:"start"`
	End      int            `json:"end"`
	Children []*SectionNode `json:"children,omitempty"`
}

// DocumentStats summarizes a structuring run.
type DocumentStats struct {
	PageCount       int                   `json:"page_count"`
	BlockCount      int                   `json:"block_count"`
	CharCount       int                   `json:"char_count"`
	HighlightCounts map[HighlightType]int `json:"highlight_counts,omitempty"`
}

// StructuredDocument is the final output of the engine: one assembled text
// stream plus the offset-indexed annotations over it.
type StructuredDocument struct {
	Text       string         `json:"text"`
	Highlights []Highlight    `json:"highlights"`
	Sections   []*SectionNode `json:"section_tree"`
	Stats      DocumentStats  `json:"stats"`
}

// HighlightsOfType returns the highlights of one type in document order.
func (d *StructuredDocument) HighlightsOfType(t HighlightType) []Highlight {
	var out []Highlight
	for _, h := range d.Highlights {
		if h.Type == t {
			out = append(out, h)
		}
	}
	return out
}
