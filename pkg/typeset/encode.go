package typeset

import (
	"bytes"
	"time"

	"github.com/lvillar/gofpdf"

	"github.com/aretw0/vellum/pkg/domain"
)

// Renders of the same template and data must be byte-identical, so the
// encoder pins the PDF creation date instead of using wall time.
var fixedCreation = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// paperSizes maps the option values the service accepts to gofpdf page
// format names. Anything else falls back to A4.
var paperSizes = map[string]string{
	"a3":     "A3",
	"a4":     "A4",
	"a5":     "A5",
	"letter": "Letter",
	"legal":  "Legal",
}

func pageFormat(name string) string {
	if format, ok := paperSizes[name]; ok {
		return format
	}
	return "A4"
}

// Encode serializes a compiled document to PDF bytes. Unsupported paper
// sizes fall back to A4 rather than failing the render; a genuine
// encoding failure surfaces as *EncodeError.
func (e *Engine) Encode(doc *Document, opts domain.RenderOptions) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", pageFormat(opts.PaperSize), "")
	pdf.SetCompression(opts.Compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(fixedCreation)
	pdf.SetModificationDate(fixedCreation)
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, block := range doc.Blocks {
		switch block.Kind {
		case BlockHeading:
			size := 18.0 - 2.5*float64(block.Level-1)
			pdf.SetFont("Helvetica", "B", size)
			pdf.MultiCell(0, size*0.55, tr(block.Text), "", "L", false)
			pdf.Ln(2)
		case BlockListItem:
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 6, tr("- "+block.Text), "", "L", false)
		default:
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 6, tr(block.Text), "", "L", false)
			pdf.Ln(3)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &EncodeError{Err: err}
	}
	return buf.Bytes(), nil
}
