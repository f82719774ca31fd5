package model

import (
	"fmt"
	"math"
	"strings"
)

// FontWeight represents the weight component of a font signature.
type FontWeight string

const (
	WeightNormal FontWeight = "normal"
	WeightBold   FontWeight = "bold"
)

// Font describes the styling of a single line of text.
type Font struct {
	Size   float64    `json:"size"`
	Weight FontWeight `json:"weight"`
	Italic bool       `json:"italic,omitempty"`
	Name   string     `json:"name,omitempty"`
}

// FontSignature is the exact-match key used for style clustering: the font
// size rounded to 0.1pt plus the weight. Signatures are compared with ==,
// never fuzzily.
type FontSignature struct {
	Size   float64    `json:"size"`
	Weight FontWeight `json:"weight"`
}

// Signature derives the clustering key for the font.
func (f Font) Signature() FontSignature {
	return FontSignature{
		Size:   math.Round(f.Size*10) / 10,
		Weight: f.Weight,
	}
}

// Line is one visual row of text as produced by the upstream extractor.
// Lines are immutable inputs; the pipeline never mutates them.
type Line struct {
	Text        string `json:"text"`
	BBox        BBox   `json:"bbox"`
	Font        Font   `json:"font"`
	WritingMode string `json:"writing_mode,omitempty"`
}

// Block is an ordered group of lines sharing a bounding box.
type Block struct {
	BBox  BBox   `json:"bbox"`
	Lines []Line `json:"lines"`
}

// Text joins the block's line texts with single spaces. Used for
// pattern matching where exact offsets are not needed.
func (b Block) Text() string {
	parts := make([]string, 0, len(b.Lines))
	for _, ln := range b.Lines {
		if t := strings.TrimSpace(ln.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// Page is one page of the document: ordered blocks plus page geometry.
type Page struct {
	PageNumber int     `json:"page_number"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Blocks     []Block `json:"blocks"`
	RawText    string  `json:"raw_text,omitempty"`
}

// OutlineEntry is one entry of an optional document outline supplied by the
// caller (for example from PDF bookmarks).
type OutlineEntry struct {
	Title string `json:"title"`
	Page  int    `json:"page"`
	Level int    `json:"level"`
}

// Document is the full input to the structuring engine.
type Document struct {
	Pages []Page `json:"pages"`

	// AvgFontSize optionally carries a document-wide average font size
	// computed upstream. Zero means "compute it here".
	AvgFontSize float64 `json:"avg_font_size,omitempty"`

	// Outline optionally carries the document outline; outline matches are
	// the only source of "verified" heading candidates.
	Outline []OutlineEntry `json:"outline,omitempty"`

	// Author optionally carries a declared author string from metadata.
	Author string `json:"author,omitempty"`
}

// ValidateDocument checks the page/block/line contract. This is the only
// hard failure of the engine: it runs at the boundary, never deep inside
// the pipeline. Degenerate geometry on individual blocks is tolerated and
// filtered later; structurally invalid pages are not.
func ValidateDocument(doc Document) error {
	for i, page := range doc.Pages {
		if page.Width <= 0 || page.Height <= 0 ||
			math.IsNaN(page.Width) || math.IsNaN(page.Height) ||
			math.IsInf(page.Width, 0) || math.IsInf(page.Height, 0) {
			return fmt.Errorf("page %d: invalid dimensions %gx%g", i, page.Width, page.Height)
		}
		for j, block := range page.Blocks {
			for k, line := range block.Lines {
				if line.Font.Size < 0 || math.IsNaN(line.Font.Size) {
					return fmt.Errorf("page %d block %d line %d: invalid font size %g", i, j, k, line.Font.Size)
				}
				if line.Font.Weight != "" && line.Font.Weight != WeightNormal && line.Font.Weight != WeightBold {
					return fmt.Errorf("page %d block %d line %d: invalid font weight %q", i, j, k, line.Font.Weight)
				}
			}
		}
	}
	return nil
}
