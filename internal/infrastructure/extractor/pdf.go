package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/avelichko/faq-assistant/internal/core/domain"
)

// extractPDF yields one section per non-blank page, tagged with the 1-based
// page number.
func extractPDF(raw []byte) ([]domain.Section, error) {
	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	sections := make([]domain.Section, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract pdf page %d: %w", i, err)
		}
		content = strings.TrimSpace(content)
		if content == "" {
			continue
		}
		pageNum := i
		sections = append(sections, domain.Section{Text: content, Page: &pageNum})
	}
	return sections, nil
}
