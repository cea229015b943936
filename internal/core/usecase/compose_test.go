package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/avelichko/faq-assistant/internal/core/domain"
)

type generatorFake struct {
	text          string
	textErr       error
	structured    *domain.StructuredAnswer
	structuredErr error
	// structuredDelay simulates a structured call still in flight when the
	// free-text call returns.
	structuredDelay time.Duration
	prompts         []string
}

func (f *generatorFake) GenerateText(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.textErr != nil {
		return "", f.textErr
	}
	return f.text, nil
}

func (f *generatorFake) GenerateStructured(ctx context.Context, _ string) (*domain.StructuredAnswer, error) {
	if f.structuredDelay > 0 {
		select {
		case <-time.After(f.structuredDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.structuredErr != nil {
		return nil, f.structuredErr
	}
	return f.structured, nil
}

func TestComposePrefersModelStructuredOutput(t *testing.T) {
	gen := &generatorFake{
		text: "  Two rules apply.\n1. A\n2. B  ",
		structured: &domain.StructuredAnswer{
			Summary: "Two rules apply",
			Bullets: []string{"A", "B"},
		},
	}

	text, structured, err := composeAnswer(context.Background(), gen, "prompt")
	if err != nil {
		t.Fatalf("composeAnswer() error = %v", err)
	}
	if text != "Two rules apply.\n1. A\n2. B" {
		t.Fatalf("text = %q", text)
	}
	if structured == nil || structured.Summary != "Two rules apply" {
		t.Fatalf("structured = %+v", structured)
	}
	if !reflect.DeepEqual(structured.Bullets, []string{"A", "B"}) {
		t.Fatalf("bullets = %v", structured.Bullets)
	}
}

func TestComposeFallsBackToExtractorOnStructuredError(t *testing.T) {
	gen := &generatorFake{
		text:          "Here is the policy.\n1. Do not share passwords",
		structuredErr: errors.New("schema generation unsupported"),
	}

	_, structured, err := composeAnswer(context.Background(), gen, "prompt")
	if err != nil {
		t.Fatalf("composeAnswer() error = %v", err)
	}
	if structured == nil {
		t.Fatalf("expected extractor fallback")
	}
	if structured.Summary != "Here is the policy" {
		t.Fatalf("summary = %q", structured.Summary)
	}
	if !reflect.DeepEqual(structured.Bullets, []string{"Do not share passwords"}) {
		t.Fatalf("bullets = %v", structured.Bullets)
	}
}

func TestComposeDoesNotBlockOnSlowStructuredCall(t *testing.T) {
	gen := &generatorFake{
		text:            "Quick answer. With a detail.",
		structured:      &domain.StructuredAnswer{Summary: "ignored", Bullets: []string{"late"}},
		structuredDelay: 5 * time.Second,
	}

	start := time.Now()
	_, structured, err := composeAnswer(context.Background(), gen, "prompt")
	if err != nil {
		t.Fatalf("composeAnswer() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("composer blocked on structured call for %v", elapsed)
	}
	// Fallback extractor result, not the late model payload.
	if structured == nil || structured.Summary != "Quick answer" {
		t.Fatalf("structured = %+v", structured)
	}
}

func TestComposeFreeTextFailureIsFatal(t *testing.T) {
	gen := &generatorFake{textErr: errors.New("model down")}

	_, _, err := composeAnswer(context.Background(), gen, "prompt")
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestSanitizeStructuredEnforcesInvariants(t *testing.T) {
	got := sanitizeStructured(&domain.StructuredAnswer{
		Summary: "  summary  ",
		Bullets: []string{" - a ", "a", "12.", "", "b", "c", "d", "e", "f", "g", "h", "i"},
	})
	if got == nil {
		t.Fatalf("expected sanitized answer")
	}
	if got.Summary != "summary" {
		t.Fatalf("summary = %q", got.Summary)
	}
	if len(got.Bullets) > maxBullets {
		t.Fatalf("bullets over cap: %v", got.Bullets)
	}
	if got.Bullets[0] != "a" || got.Bullets[1] != "b" {
		t.Fatalf("unexpected bullet cleaning: %v", got.Bullets)
	}

	if sanitizeStructured(&domain.StructuredAnswer{Summary: " ", Bullets: []string{"3."}}) != nil {
		t.Fatalf("expected empty payload to be absent")
	}
}
