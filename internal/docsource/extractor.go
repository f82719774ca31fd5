// Package docsource adapts text-based PDF files into the page/block/line
// shape the structuring engine consumes. It is the upstream collaborator of
// the engine, not part of it: the core pipeline never imports this package.
package docsource

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfcpumodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/docweave/docweave/internal/model"
)

const (
	// Row grouping tolerance relative to font size.
	rowToleranceRatio = 0.4
	// Horizontal gap, in font sizes, splitting a row into separate lines.
	lineGapRatio = 1.0
	// Horizontal gap, in font sizes, that still inserts a space.
	wordGapRatio = 0.25
	// Vertical gap, in line heights, splitting consecutive rows into
	// separate blocks.
	blockGapRatio = 1.6
	// Fallback when the PDF reports no usable font size.
	defaultFontSize = 12.0
)

// Extractor turns PDF files into model.Document values.
type Extractor struct {
	maxFileSize int64
}

// NewExtractor creates an extractor enforcing the given file size cap.
func NewExtractor(maxFileSize int64) *Extractor {
	return &Extractor{maxFileSize: maxFileSize}
}

// ValidateFile checks that the path names a readable PDF within the size
// cap. Validation runs relaxed: the goal is "can we extract text", not
// spec conformance.
func (e *Extractor) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory: %s", path)
	}
	if e.maxFileSize > 0 && info.Size() > e.maxFileSize {
		return fmt.Errorf("file size %d exceeds maximum %d", info.Size(), e.maxFileSize)
	}

	conf := pdfcpumodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfcpumodel.ValidationRelaxed
	if err := api.ValidateFile(path, conf); err != nil {
		return fmt.Errorf("not a valid PDF: %w", err)
	}
	return nil
}

// ExtractPages reads the file and produces the engine input shape.
func (e *Extractor) ExtractPages(path string) (model.Document, error) {
	if err := e.ValidateFile(path); err != nil {
		return model.Document{}, err
	}

	dims, err := api.PageDimsFile(path)
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to read page dimensions: %w", err)
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	doc := model.Document{}
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		width, height := 612.0, 792.0
		if pageNum-1 < len(dims) {
			width = dims[pageNum-1].Width
			height = dims[pageNum-1].Height
		}

		blocks := buildBlocks(page.Content().Text, height)
		doc.Pages = append(doc.Pages, model.Page{
			PageNumber: pageNum,
			Width:      width,
			Height:     height,
			Blocks:     blocks,
		})
	}
	return doc, nil
}

// fragment accumulates adjacent text items of one line.
type fragment struct {
	text  strings.Builder
	x, y  float64
	right float64
	size  float64
	font  string
}

// buildBlocks groups raw text items into rows, rows into lines, and
// vertically adjacent rows into blocks. PDF coordinates grow upward; the
// engine's grow downward, so Y flips against the page height here.
func buildBlocks(texts []pdf.Text, pageHeight float64) []model.Block {
	if len(texts) == 0 {
		return nil
	}

	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y // top of page first
		}
		return sorted[i].X < sorted[j].X
	})

	// Group into rows by baseline proximity.
	var rows [][]pdf.Text
	for _, t := range sorted {
		if strings.TrimSpace(t.S) == "" && t.S != " " {
			continue
		}
		size := t.FontSize
		if size <= 0 {
			size = defaultFontSize
		}
		if n := len(rows); n > 0 {
			last := rows[n-1][0]
			if math.Abs(t.Y-last.Y) <= rowToleranceRatio*size {
				rows[n-1] = append(rows[n-1], t)
				continue
			}
		}
		rows = append(rows, []pdf.Text{t})
	}

	// Rows into lines, lines into blocks.
	var blocks []model.Block
	var current []model.Line
	prevBottom := math.Inf(-1)

	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, linesToBlock(current))
			current = nil
		}
	}

	for _, row := range rows {
		lines := rowToLines(row, pageHeight)
		if len(lines) == 0 {
			continue
		}
		top := lines[0].BBox.Y
		height := lines[0].BBox.H
		if prevBottom > math.Inf(-1) && top-prevBottom > blockGapRatio*height {
			flush()
		}
		current = append(current, lines...)
		prevBottom = lines[0].BBox.Bottom()
	}
	flush()

	return blocks
}

// rowToLines merges one row's items left to right, splitting on wide gaps
// and font changes.
func rowToLines(row []pdf.Text, pageHeight float64) []model.Line {
	sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })

	var lines []model.Line
	var frag *fragment

	flush := func() {
		if frag == nil {
			return
		}
		text := frag.text.String()
		if strings.TrimSpace(text) != "" {
			lines = append(lines, model.Line{
				Text: text,
				BBox: model.BBox{
					X: frag.x,
					Y: pageHeight - frag.y - frag.size,
					W: frag.right - frag.x,
					H: frag.size,
				},
				Font: model.Font{
					Size:   frag.size,
					Weight: fontWeight(frag.font),
					Italic: fontItalic(frag.font),
					Name:   frag.font,
				},
			})
		}
		frag = nil
	}

	for _, t := range row {
		size := t.FontSize
		if size <= 0 {
			size = defaultFontSize
		}
		if frag != nil {
			gap := t.X - frag.right
			sameFont := t.Font == frag.font && math.Abs(size-frag.size) < 0.1
			switch {
			case !sameFont || gap > lineGapRatio*size:
				flush()
			case gap > wordGapRatio*size:
				frag.text.WriteByte(' ')
			}
		}
		if frag == nil {
			frag = &fragment{x: t.X, y: t.Y, size: size, font: t.Font}
		}
		frag.text.WriteString(t.S)
		if r := t.X + t.W; r > frag.right {
			frag.right = r
		}
	}
	flush()

	return lines
}

// linesToBlock wraps lines into a block with a covering bounding box.
func linesToBlock(lines []model.Line) model.Block {
	bbox := lines[0].BBox
	for _, ln := range lines[1:] {
		bbox = bbox.Union(ln.BBox)
	}
	return model.Block{BBox: bbox, Lines: lines}
}

// fontWeight derives the weight from the font name, the only weight signal
// the extractor exposes.
func fontWeight(name string) model.FontWeight {
	if strings.Contains(strings.ToLower(name), "bold") {
		return model.WeightBold
	}
	return model.WeightNormal
}

// fontItalic derives the italic flag from the font name.
func fontItalic(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "italic") || strings.Contains(lower, "oblique")
}
