package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/avelichko/faq-assistant/internal/core/domain"
)

// extractXLSX reads question/answer pairs from the first two columns of the
// first sheet. A header row is skipped when its first cell says "question".
func extractXLSX(raw []byte) ([]domain.Section, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.WrapError(
			domain.ErrUnsupportedFormat,
			"extract xlsx",
			errors.New("workbook has no sheets"),
		)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read xlsx rows: %w", err)
	}

	sections := make([]domain.Section, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		q := strings.TrimSpace(row[0])
		a := strings.TrimSpace(row[1])
		if q == "" || a == "" {
			continue
		}
		if i == 0 && strings.EqualFold(q, "question") {
			continue
		}
		sections = append(sections, domain.Section{
			Text: fmt.Sprintf("Q: %s\nA: %s", q, a),
		})
	}
	return sections, nil
}
