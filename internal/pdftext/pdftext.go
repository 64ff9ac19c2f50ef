// Package pdftext extracts per-page plain text from statement PDFs. Only
// text-layer PDFs are supported; scanned statements needing OCR are out of
// scope.
package pdftext

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extract returns the plain text of the first maxPages pages of the PDF at
// path, in document order. maxPages <= 0 means all pages.
func Extract(path string, maxPages int) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pdftext: open %q: %w", path, err)
	}
	defer f.Close()

	return pages(r, maxPages)
}

// ExtractFromReader is the in-memory variant of Extract.
func ExtractFromReader(ra io.ReaderAt, size int64, maxPages int) ([]string, error) {
	r, err := pdf.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("pdftext: read document: %w", err)
	}
	return pages(r, maxPages)
}

func pages(r *pdf.Reader, maxPages int) ([]string, error) {
	n := r.NumPage()
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}

	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			out = append(out, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			// One undecodable page is not fatal; downstream treats an empty
			// page as "no transactions on this page".
			out = append(out, "")
			continue
		}
		out = append(out, strings.TrimSpace(text))
	}
	return out, nil
}
