package structure

import "sort"

// Span is a half-open [Start, End) offset range.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the span length.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether the offset falls inside the span.
func (s Span) Contains(off int) bool {
	return off >= s.Start && off < s.End
}

// Overlaps reports whether two spans share at least one offset.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// PositionMap is an invertible mapping between offsets in a text before and
// after a destructive removal transform. It holds the removed intervals in
// sorted, merged form plus a prefix sum of removed lengths, so both
// directions are a binary search.
//
// ToOriginal(ToClean(x)) == x for every x outside a removed interval; an x
// inside a removed interval maps to the clean offset of the interval start.
type PositionMap struct {
	removed []Span
	prefix  []int // prefix[i] = total removed length of removed[:i+1]
	origLen int
}

// NewPositionMap builds a map over a text of origLen bytes from which the
// given spans are removed. Spans are clamped to the text, sorted, and merged;
// empty and inverted spans are dropped.
func NewPositionMap(origLen int, removed []Span) *PositionMap {
	clean := make([]Span, 0, len(removed))
	for _, s := range removed {
		if s.Start < 0 {
			s.Start = 0
		}
		if s.End > origLen {
			s.End = origLen
		}
		if s.End > s.Start {
			clean = append(clean, s)
		}
	}
	sort.Slice(clean, func(i, j int) bool { return clean[i].Start < clean[j].Start })

	merged := make([]Span, 0, len(clean))
	for _, s := range clean {
		if n := len(merged); n > 0 && s.Start <= merged[n-1].End {
			if s.End > merged[n-1].End {
				merged[n-1].End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}

	prefix := make([]int, len(merged))
	total := 0
	for i, s := range merged {
		total += s.Len()
		prefix[i] = total
	}

	return &PositionMap{removed: merged, prefix: prefix, origLen: origLen}
}

// OriginalLen returns the length of the text before removal.
func (m *PositionMap) OriginalLen() int {
	return m.origLen
}

// CleanLen returns the length of the text after removal.
func (m *PositionMap) CleanLen() int {
	if len(m.prefix) == 0 {
		return m.origLen
	}
	return m.origLen - m.prefix[len(m.prefix)-1]
}

// Removed returns the merged removed intervals in original coordinates.
func (m *PositionMap) Removed() []Span {
	out := make([]Span, len(m.removed))
	copy(out, m.removed)
	return out
}

// ToClean maps an original offset to the cleaned text. Offsets inside a
// removed interval collapse to the clean position of the interval start,
// the nearest valid boundary.
func (m *PositionMap) ToClean(orig int) int {
	if orig < 0 {
		return 0
	}
	if orig > m.origLen {
		orig = m.origLen
	}
	// Number of removed intervals starting at or before orig.
	i := sort.Search(len(m.removed), func(i int) bool { return m.removed[i].Start > orig })
	if i == 0 {
		return orig
	}
	last := m.removed[i-1]
	removedBefore := m.prefix[i-1]
	if orig < last.End {
		// Inside a removed interval: snap to its start.
		return last.Start - (removedBefore - last.Len())
	}
	return orig - removedBefore
}

// ToOriginal maps a cleaned offset back to the original text.
func (m *PositionMap) ToOriginal(clean int) int {
	if clean < 0 {
		return 0
	}
	if clean > m.CleanLen() {
		clean = m.CleanLen()
	}
	// Find how many removed intervals lie entirely before the original
	// position corresponding to clean.
	i := sort.Search(len(m.removed), func(i int) bool {
		removedBefore := 0
		if i > 0 {
			removedBefore = m.prefix[i-1]
		}
		return m.removed[i].Start-removedBefore > clean
	})
	if i == 0 {
		return clean
	}
	return clean + m.prefix[i-1]
}

// SpanToClean maps an original span into clean coordinates. Spans fully
// inside a removed interval collapse to an empty span at the boundary.
func (m *PositionMap) SpanToClean(s Span) Span {
	return Span{Start: m.ToClean(s.Start), End: m.ToClean(s.End)}
}

// SpanToOriginal maps a clean span back into original coordinates.
func (m *PositionMap) SpanToOriginal(s Span) Span {
	return Span{Start: m.ToOriginal(s.Start), End: m.ToOriginal(s.End)}
}

// Apply removes the mapped intervals from the text, producing the cleaned
// stream the map describes.
func (m *PositionMap) Apply(text string) string {
	if len(m.removed) == 0 {
		return text
	}
	out := make([]byte, 0, m.CleanLen())
	pos := 0
	for _, s := range m.removed {
		if s.Start > len(text) {
			break
		}
		out = append(out, text[pos:s.Start]...)
		pos = s.End
		if pos > len(text) {
			pos = len(text)
		}
	}
	out = append(out, text[pos:]...)
	return string(out)
}
