package ingest

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfPages extracts plain text per page, skipping pages that are empty or
// unreadable. One passage per page mirrors how policy documents cite
// sections.
func pdfPages(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		text = strings.TrimSpace(text)
		if text != "" {
			pages = append(pages, text)
		}
	}

	return pages, nil
}
