package structure

import (
	"strings"

	"github.com/docweave/docweave/internal/model"
)

// groupArtifacts indexes detected artifacts by page.
func groupArtifacts(artifacts []Artifact) map[int][]Artifact {
	if len(artifacts) == 0 {
		return nil
	}
	byPage := make(map[int][]Artifact)
	for _, a := range artifacts {
		byPage[a.PageIndex] = append(byPage[a.PageIndex], a)
	}
	return byPage
}

// outlineForPage filters the outline entries naming one page.
func outlineForPage(outline []model.OutlineEntry, pageNumber int) []model.OutlineEntry {
	var out []model.OutlineEntry
	for _, entry := range outline {
		if entry.Page == pageNumber {
			out = append(out, entry)
		}
	}
	return out
}

// documentAverageFontSize returns the text-length weighted mean font size
// over the whole page set.
func documentAverageFontSize(pages []model.Page) float64 {
	var total, weight float64
	for _, page := range pages {
		for _, block := range page.Blocks {
			for _, ln := range block.Lines {
				n := float64(len(strings.TrimSpace(ln.Text)))
				if n > 0 && ln.Font.Size > 0 {
					total += ln.Font.Size * n
					weight += n
				}
			}
		}
	}
	if weight == 0 {
		return 0
	}
	return total / weight
}

// pageBodySignature returns the page's body-text font signature: the
// signature carrying the most text.
func pageBodySignature(page model.Page) model.FontSignature {
	weights := make(map[model.FontSignature]int)
	for _, block := range page.Blocks {
		for _, ln := range block.Lines {
			if n := len(strings.TrimSpace(ln.Text)); n > 0 && ln.Font.Size > 0 {
				weights[ln.Font.Signature()] += n
			}
		}
	}
	var best model.FontSignature
	bestWeight := -1
	for sig, w := range weights {
		if w > bestWeight || (w == bestWeight && sig.Size > best.Size) {
			best = sig
			bestWeight = w
		}
	}
	return best
}

// dominantSignature returns the signature covering the most bytes of a
// font-range index: the assembled document's body text signature.
func dominantSignature(fonts []model.FontRange) model.FontSignature {
	weights := make(map[model.FontSignature]int)
	for _, r := range fonts {
		if r.End > r.Start {
			weights[r.Signature()] += r.End - r.Start
		}
	}
	var best model.FontSignature
	bestWeight := -1
	for sig, w := range weights {
		if w > bestWeight || (w == bestWeight && sig.Size > best.Size) {
			best = sig
			bestWeight = w
		}
	}
	return best
}
