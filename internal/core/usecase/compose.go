package usecase

import (
	"context"
	"strings"

	"github.com/avelichko/faq-assistant/internal/core/domain"
	"github.com/avelichko/faq-assistant/internal/core/ports"
)

// composeAnswer runs the free-text and schema-constrained generations over
// the same prompt. The free-text result is authoritative: its failure fails
// the request. The structured attempt is speculative and runs concurrently;
// any failure, invalid payload, or result arriving after the free-text call
// completes is treated as absent and replaced by the deterministic extractor.
func composeAnswer(
	ctx context.Context,
	generator ports.AnswerGenerator,
	prompt string,
) (string, *domain.StructuredAnswer, error) {
	structuredCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	attempt := make(chan *domain.StructuredAnswer, 1)
	go func() {
		structured, err := generator.GenerateStructured(structuredCtx, prompt)
		if err != nil {
			attempt <- nil
			return
		}
		attempt <- sanitizeStructured(structured)
	}()

	text, err := generator.GenerateText(ctx, prompt)
	if err != nil {
		return "", nil, err
	}
	text = strings.TrimSpace(text)

	var structured *domain.StructuredAnswer
	select {
	case structured = <-attempt:
	default:
		// Still in flight: do not block on the optional path.
	}
	if structured == nil {
		structured = extractStructuredAnswer(text)
	}
	return text, structured, nil
}

// sanitizeStructured enforces the StructuredAnswer invariants on model
// output: bullets trimmed of markers, no empties, no numeric-only artifacts,
// no duplicates, at most eight. A payload with nothing usable is absent.
func sanitizeStructured(structured *domain.StructuredAnswer) *domain.StructuredAnswer {
	if structured == nil {
		return nil
	}
	summary := strings.TrimSpace(structured.Summary)
	bullets := cleanBullets(structured.Bullets)
	if summary == "" && len(bullets) == 0 {
		return nil
	}
	return &domain.StructuredAnswer{Summary: summary, Bullets: bullets}
}
