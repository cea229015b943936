package extractor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/avelichko/faq-assistant/internal/core/domain"
)

func extractPlaintext(raw []byte, filename string) ([]domain.Section, error) {
	if !utf8.Valid(raw) {
		return nil, domain.WrapError(
			domain.ErrUnsupportedFormat,
			"extract plaintext",
			fmt.Errorf("invalid utf-8 in %s", filename),
		)
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return nil, nil
	}
	return []domain.Section{{Text: text}}, nil
}
