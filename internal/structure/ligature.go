package structure

import (
	"strings"

	"github.com/docweave/docweave/internal/model"
)

// ligatureReplacer expands typographic ligature codepoints that extractors
// leak through into their letter sequences.
var ligatureReplacer = strings.NewReplacer(
	"ﬀ", "ff",
	"ﬁ", "fi",
	"ﬂ", "fl",
	"ﬃ", "ffi",
	"ﬄ", "ffl",
	"ﬅ", "ft",
	"ﬆ", "st",
	"Ĳ", "IJ",
	"ĳ", "ij",
	"Œ", "OE",
	"œ", "oe",
)

// repairLigatures expands ligatures in the joined text. A byte-for-byte
// replacement keeps every recorded offset valid; when the length changes,
// every span and font range is proportionally remapped onto the new text.
func repairLigatures(jb JoinedBlock) JoinedBlock {
	repaired := ligatureReplacer.Replace(jb.Text)
	if repaired == jb.Text {
		return jb
	}

	oldLen := len(jb.Text)
	newLen := len(repaired)
	jb.Text = repaired
	if oldLen == newLen || oldLen == 0 {
		return jb
	}

	scale := func(off int) int {
		mapped := off * newLen / oldLen
		if mapped > newLen {
			mapped = newLen
		}
		return mapped
	}

	spans := make([]Span, len(jb.Spans))
	for i, s := range jb.Spans {
		spans[i] = Span{Start: scale(s.Start), End: scale(s.End)}
	}
	jb.Spans = spans

	fonts := make([]model.FontRange, len(jb.FontRanges))
	for i, r := range jb.FontRanges {
		fonts[i] = r
		fonts[i].Start = scale(r.Start)
		fonts[i].End = scale(r.End)
	}
	jb.FontRanges = fonts

	return jb
}
