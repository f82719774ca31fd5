package structure

import (
	"strings"
	"unicode/utf8"

	"github.com/docweave/docweave/internal/model"
)

// Artifact marks one block as removable boilerplate.
type Artifact struct {
	PageIndex  int
	BlockIndex int
	Type       model.HighlightType // header, footer, or page_number
}

// ArtifactDetector finds repeating headers, footers, and page numbers
// across the whole page set. Position alone never condemns a block: a
// one-off caption in the footer zone stays; only blocks matching a
// page-number layout or a pattern repeating at a stable Y across enough
// pages are removed.
type ArtifactDetector struct {
	cfg ArtifactConfig
}

// NewArtifactDetector creates a detector with the default configuration.
func NewArtifactDetector() *ArtifactDetector {
	return NewArtifactDetectorWithConfig(DefaultArtifactConfig())
}

// NewArtifactDetectorWithConfig creates a detector with a custom configuration.
func NewArtifactDetectorWithConfig(cfg ArtifactConfig) *ArtifactDetector {
	return &ArtifactDetector{cfg: cfg}
}

// zoneBlock is one header/footer-zone block considered for grouping.
type zoneBlock struct {
	pageIndex  int
	blockIndex int
	normalized string
	y          float64
	inHeader   bool
}

// Detect scans all pages and returns every confirmed artifact block.
// pages must already be block-split; indices refer into the given slices.
func (d *ArtifactDetector) Detect(pages []model.Page) []Artifact {
	var artifacts []Artifact
	var zoned []zoneBlock

	for pi, page := range pages {
		headerLimit := page.Height * d.cfg.HeaderZoneRatio
		footerLimit := page.Height * (1 - d.cfg.FooterZoneRatio)

		for bi, block := range page.Blocks {
			if !block.BBox.IsValid() {
				continue
			}
			inHeader := block.BBox.Bottom() <= headerLimit
			inFooter := block.BBox.Y >= footerLimit
			if !inHeader && !inFooter {
				continue
			}

			text := strings.TrimSpace(block.Text())
			if text == "" {
				continue
			}

			if d.isPageNumber(text) {
				artifacts = append(artifacts, Artifact{PageIndex: pi, BlockIndex: bi, Type: model.HighlightPageNumber})
				continue
			}

			zoned = append(zoned, zoneBlock{
				pageIndex:  pi,
				blockIndex: bi,
				normalized: normalizeArtifactText(text),
				y:          block.BBox.Y,
				inHeader:   inHeader,
			})
		}
	}

	artifacts = append(artifacts, d.confirmRepeating(zoned, len(pages))...)
	return artifacts
}

// isPageNumber matches the literal page-number layout set.
func (d *ArtifactDetector) isPageNumber(text string) bool {
	if utf8.RuneCountInString(text) > d.cfg.PageNumberMaxLen {
		return false
	}
	return rePageNumBare.MatchString(text) ||
		rePageNumRoman.MatchString(text) ||
		rePageNumWord.MatchString(text) ||
		rePageNumDashed.MatchString(text) ||
		rePageNumBracket.MatchString(text) ||
		rePageNumSlash.MatchString(text) ||
		rePageNumPrefix.MatchString(text)
}

// confirmRepeating groups zone blocks by normalized text and confirms the
// groups that repeat often enough at a stable vertical position.
func (d *ArtifactDetector) confirmRepeating(zoned []zoneBlock, pageCount int) []Artifact {
	if pageCount == 0 {
		return nil
	}

	groups := make(map[string][]zoneBlock)
	for _, zb := range zoned {
		groups[zb.normalized] = append(groups[zb.normalized], zb)
	}

	minOccurrences := int(float64(pageCount)*d.cfg.MinRepeatRatio + 0.999)
	if minOccurrences < d.cfg.MinRepeatCount {
		minOccurrences = d.cfg.MinRepeatCount
	}

	var artifacts []Artifact
	for _, group := range groups {
		pagesSeen := make(map[int]bool)
		for _, zb := range group {
			pagesSeen[zb.pageIndex] = true
		}
		if len(pagesSeen) < minOccurrences {
			continue
		}

		var meanY float64
		for _, zb := range group {
			meanY += zb.y
		}
		meanY /= float64(len(group))

		stable := true
		for _, zb := range group {
			drift := zb.y - meanY
			if drift < 0 {
				drift = -drift
			}
			if drift > d.cfg.MaxYDrift {
				stable = false
				break
			}
		}
		if !stable {
			continue
		}

		for _, zb := range group {
			t := model.HighlightFooter
			if zb.inHeader {
				t = model.HighlightHeader
			}
			artifacts = append(artifacts, Artifact{PageIndex: zb.pageIndex, BlockIndex: zb.blockIndex, Type: t})
		}
	}
	return artifacts
}

// normalizeArtifactText folds case, collapses whitespace, and replaces
// digit runs with a placeholder so "Chapter 3" and "Chapter 12" group
// together.
func normalizeArtifactText(text string) string {
	text = strings.ToLower(text)
	text = reDigitRun.ReplaceAllString(text, "#")
	text = reWhitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
