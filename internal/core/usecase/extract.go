package usecase

import (
	"regexp"
	"strings"

	"github.com/avelichko/faq-assistant/internal/core/domain"
)

const maxBullets = 8

var (
	// "1. item" / "2) item" markers preceded by start-of-text or whitespace.
	numberedItemRe = regexp.MustCompile(`(?:^|\s)\d+[.)]\s+([^\n\r]+)`)
	// A stray list-number artifact left after marker stripping ("7", "3.", "2)").
	listNumberRe = regexp.MustCompile(`^\d+[.)]?$`)
)

// extractStructuredAnswer derives a summary-plus-bullets view from free text.
// Deterministic and side-effect free; this is the fallback when the model's
// schema-constrained output is unavailable.
//
// Precedence: numbered-list markers, then "-"/"•" lines, then sentence
// splitting. Empty input yields nil.
func extractStructuredAnswer(answer string) *domain.StructuredAnswer {
	text := strings.TrimSpace(answer)
	if text == "" {
		return nil
	}

	matches := numberedItemRe.FindAllStringSubmatchIndex(text, -1)
	bullets := make([]string, 0, len(matches))
	for _, m := range matches {
		bullets = append(bullets, strings.TrimSpace(text[m[2]:m[3]]))
	}

	if len(bullets) == 0 {
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") {
				bullets = append(bullets, strings.TrimLeft(line, "-• "))
			}
		}
	}

	var summary string
	if len(bullets) > 0 {
		// Preamble is everything before the first numbered marker, or the
		// whole text when only "-"/"•" bullets were found.
		preamble := text
		if len(matches) > 0 {
			preamble = text[:matches[0][0]]
		}
		summary = firstSentenceOr(strings.TrimSpace(preamble))
	} else {
		sentences := splitSentences(strings.ReplaceAll(text, "\n", " "))
		if len(sentences) == 0 {
			return &domain.StructuredAnswer{Summary: text, Bullets: []string{}}
		}
		summary = strings.TrimRight(sentences[0], ".")
		for _, s := range sentences[1:] {
			bullets = append(bullets, strings.TrimRight(s, "."))
		}
	}

	return &domain.StructuredAnswer{
		Summary: summary,
		Bullets: cleanBullets(bullets),
	}
}

// firstSentenceOr returns the first sentence of text, or text itself when no
// sentence boundary exists, with trailing periods stripped.
func firstSentenceOr(text string) string {
	sentences := splitSentences(text)
	if len(sentences) > 0 && sentences[0] != "" {
		return strings.TrimRight(sentences[0], ".")
	}
	return strings.TrimRight(text, ".")
}

// splitSentences splits on "."/"!"/"?" followed by whitespace, keeping the
// terminator attached to the preceding sentence and dropping blank pieces.
func splitSentences(text string) []string {
	out := make([]string, 0, 4)
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if (r == '.' || r == '!' || r == '?') && i+1 < len(runes) && isSpaceRune(runes[i+1]) {
			if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

func isSpaceRune(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// cleanBullets strips residual markers, drops empty and numeric-only items,
// dedupes by exact string keeping first occurrence, and caps the list.
func cleanBullets(bullets []string) []string {
	cleaned := make([]string, 0, len(bullets))
	seen := make(map[string]struct{}, len(bullets))
	for _, b := range bullets {
		b = strings.Trim(strings.TrimSpace(b), "-• ")
		if b == "" || listNumberRe.MatchString(b) {
			continue
		}
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		cleaned = append(cleaned, b)
		if len(cleaned) == maxBullets {
			break
		}
	}
	return cleaned
}
