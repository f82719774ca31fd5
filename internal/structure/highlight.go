package structure

import (
	"sort"

	"github.com/docweave/docweave/internal/model"
)

// finalizeHighlights clamps every range to the text, drops empty ranges,
// and merges overlapping ranges within each type. The result is sorted by
// start offset, then by type for stable equal-start ordering.
func finalizeHighlights(hs []model.Highlight, textLen int) []model.Highlight {
	byType := make(map[model.HighlightType][]model.Highlight)
	for _, h := range hs {
		if h.Start < 0 {
			h.Start = 0
		}
		if h.End > textLen {
			h.End = textLen
		}
		if h.Start >= h.End {
			continue
		}
		byType[h.Type] = append(byType[h.Type], h)
	}

	var out []model.Highlight
	for _, group := range byType {
		sort.Slice(group, func(i, j int) bool { return group[i].Start < group[j].Start })
		merged := group[:0]
		for _, h := range group {
			if n := len(merged); n > 0 && h.Start <= merged[n-1].End {
				if h.End > merged[n-1].End {
					merged[n-1].End = h.End
				}
				// Keep the earlier section metadata on merge.
				continue
			}
			merged = append(merged, h)
		}
		out = append(out, merged...)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		if out[i].End != out[j].End {
			return out[i].End < out[j].End
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// buildSectionTree nests confirmed headings into the navigable outline.
// Each section runs from its heading to the next heading of the same or a
// shallower level, or the end of the text.
func buildSectionTree(headings []model.Highlight, textLen int) []*model.SectionNode {
	var roots []*model.SectionNode
	var stack []*model.SectionNode

	for _, h := range headings {
		if h.Type != model.HighlightHeading {
			continue
		}
		node := &model.SectionNode{
			Title: h.SectionTitle,
			Level: h.SectionLevel,
			Start: h.Start,
			End:   textLen,
		}

		// Close every section at the same or a deeper level.
		for len(stack) > 0 && stack[len(stack)-1].Level >= node.Level {
			stack[len(stack)-1].End = h.Start
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
		}
		stack = append(stack, node)
	}

	return roots
}

// countHighlights tallies highlights per type.
func countHighlights(hs []model.Highlight) map[model.HighlightType]int {
	if len(hs) == 0 {
		return nil
	}
	counts := make(map[model.HighlightType]int)
	for _, h := range hs {
		counts[h.Type]++
	}
	return counts
}
