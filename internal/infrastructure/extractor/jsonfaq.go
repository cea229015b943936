package extractor

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/avelichko/faq-assistant/internal/core/domain"
)

type faqItem struct {
	Question string `json:"question"`
	Q        string `json:"q"`
	Answer   string `json:"answer"`
	A        string `json:"a"`
	Source   string `json:"source"`
}

func (it faqItem) question() string {
	if it.Question != "" {
		return it.Question
	}
	return it.Q
}

func (it faqItem) answer() string {
	if it.Answer != "" {
		return it.Answer
	}
	return it.A
}

// extractJSONFAQ accepts either {"faqs": [...]} or a bare list of items.
// Each item becomes one "Q: ...\nA: ..." section; an item may carry its own
// source attribution, otherwise the document filename applies.
func extractJSONFAQ(raw []byte) ([]domain.Section, error) {
	var wrapper struct {
		FAQs []faqItem `json:"faqs"`
	}
	var items []faqItem
	if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.FAQs != nil {
		items = wrapper.FAQs
	} else {
		var list []faqItem
		if listErr := json.Unmarshal(raw, &list); listErr != nil {
			return nil, domain.WrapError(
				domain.ErrUnsupportedFormat,
				"extract json faq",
				errors.New("expected {\"faqs\": [...]} or a list of items"),
			)
		}
		items = list
	}

	sections := make([]domain.Section, 0, len(items))
	for _, item := range items {
		q, a := item.question(), item.answer()
		if q == "" || a == "" {
			continue
		}
		sections = append(sections, domain.Section{
			Text:   fmt.Sprintf("Q: %s\nA: %s", q, a),
			Source: item.Source,
		})
	}
	return sections, nil
}
