package usecase

import (
	"context"
	"fmt"

	"github.com/avelichko/faq-assistant/internal/core/domain"
	"github.com/avelichko/faq-assistant/internal/core/ports"
)

const (
	defaultTopK            = 6
	defaultAugmentPerChunk = 3
)

// AnswerConfig tunes the retrieval-augmentation pipeline.
type AnswerConfig struct {
	// TopK is the MMR retrieval breadth and the augmentation trigger count.
	TopK int
	// AugmentPerChunk is how many same-page siblings to fetch per retrieved
	// paged chunk.
	AugmentPerChunk int
	// MaxContextChunks caps the augmented context size. 0 means 4*TopK.
	MaxContextChunks int
}

func (c AnswerConfig) normalize() AnswerConfig {
	out := c
	if out.TopK <= 0 {
		out.TopK = defaultTopK
	}
	if out.AugmentPerChunk <= 0 {
		out.AugmentPerChunk = defaultAugmentPerChunk
	}
	if out.MaxContextChunks <= 0 {
		out.MaxContextChunks = 4 * out.TopK
	}
	return out
}

// AnswerUseCase turns a raw query into a grounded answer envelope:
// MMR retrieval, same-page augmentation, prompt assembly, free-text plus
// structured generation, confidence scoring.
type AnswerUseCase struct {
	embedder  ports.Embedder
	store     ports.ContextStore
	generator ports.AnswerGenerator
	cfg       AnswerConfig
}

func NewAnswerUseCase(
	embedder ports.Embedder,
	store ports.ContextStore,
	generator ports.AnswerGenerator,
	cfg AnswerConfig,
) *AnswerUseCase {
	return &AnswerUseCase{
		embedder:  embedder,
		store:     store,
		generator: generator,
		cfg:       cfg.normalize(),
	}
}

// Answer runs the pipeline for one query. Empty retrieval is a defined
// terminal state returning a fixed envelope without any model call.
// Augmentation and structured-generation failures are recovered internally;
// embedding, retrieval, and free-text generation failures fail the request.
func (uc *AnswerUseCase) Answer(ctx context.Context, query string) (*domain.AnswerEnvelope, error) {
	queryVector, err := uc.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	retrieved, err := uc.store.MMRSearch(ctx, queryVector, uc.cfg.TopK)
	if err != nil {
		return nil, fmt.Errorf("mmr search: %w", err)
	}
	if len(retrieved) == 0 {
		return domain.EmptyRetrievalEnvelope(), nil
	}

	contextChunks := augmentSamePage(
		ctx, uc.store, queryVector, retrieved,
		uc.cfg.AugmentPerChunk, uc.cfg.MaxContextChunks,
	)

	texts := make([]string, len(contextChunks))
	for i, chunk := range contextChunks {
		texts[i] = chunk.Text
	}
	prompt := buildAnswerPrompt(texts, query)

	answerText, structured, err := composeAnswer(ctx, uc.generator, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.AnswerEnvelope{
		Answer:     answerText,
		Structured: structured,
		Sources:    sourceLabels(contextChunks),
		Confidence: domain.Confidence(len(contextChunks)),
	}, nil
}

// sourceLabels renders per-chunk provenance strings, deduplicated by exact
// value with first occurrence preserved.
func sourceLabels(chunks []domain.Chunk) []string {
	seen := make(map[string]struct{}, len(chunks))
	out := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		label := chunk.SourceLabel()
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}
