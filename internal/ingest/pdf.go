package ingest

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"

	apierrors "fundx/internal/errors"
)

// lineTolerance is how far, in points, a glyph's baseline may drift before
// it is treated as the start of a new line.
const lineTolerance = 1.0

// PDFTextExtractor reads the embedded text layer of a PDF. Scanned
// (image-only) documents yield no text.
type PDFTextExtractor struct {
	logger *slog.Logger
}

// NewPDFTextExtractor creates a PDF text extractor
func NewPDFTextExtractor(logger *slog.Logger) *PDFTextExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFTextExtractor{logger: logger.With(slog.String("component", "pdf_extractor"))}
}

// ExtractText returns the text of every page joined by newlines.
func (e *PDFTextExtractor) ExtractText(ctx context.Context, name string, data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", ErrEmptyDocument
	}

	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", apierrors.NewParsingError("failed to read pdf", fmt.Errorf("%v", r)).WithContext("file", name)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apierrors.NewParsingError("failed to open pdf", err).WithContext("file", name)
	}

	numPages := r.NumPage()
	pages := make([]string, 0, numPages)

	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		pages = append(pages, joinGlyphs(p.Content().Text))
	}

	e.logger.DebugContext(ctx, "extracted pdf text",
		slog.String("file", name),
		slog.Int("pages", numPages),
	)

	return strings.Join(pages, "\n"), nil
}

// joinGlyphs rebuilds page lines from positioned glyphs in content order.
// A baseline change starts a new line, so rows moved with Td, TD or Tm
// inside one text object stay separate.
func joinGlyphs(glyphs []pdf.Text) string {
	var b strings.Builder
	for i, g := range glyphs {
		if i > 0 && g.S != "\n" && math.Abs(g.Y-glyphs[i-1].Y) > lineTolerance {
			b.WriteByte('\n')
		}
		b.WriteString(g.S)
	}
	return b.String()
}
