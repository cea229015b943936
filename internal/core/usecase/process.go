package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/avelichko/faq-assistant/internal/core/domain"
	"github.com/avelichko/faq-assistant/internal/core/ports"
)

type ProcessDocumentUseCase struct {
	repo      ports.DocumentRepository
	extractor ports.TextExtractor
	chunker   ports.Chunker
	embedder  ports.Embedder
	store     ports.ContextStore
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	extractor ports.TextExtractor,
	chunker ports.Chunker,
	embedder ports.Embedder,
	store ports.ContextStore,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		repo:      repo,
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
	}
}

// ProcessByID extracts, chunks, embeds, and indexes one uploaded document,
// driving its status through processing to ready or failed.
func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	if err := uc.processPipeline(ctx, documentID); err != nil {
		if failErr := uc.repo.UpdateStatus(ctx, documentID, domain.StatusFailed, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) processPipeline(ctx context.Context, documentID string) error {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}

	sections, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return fmt.Errorf("extract sections: %w", err)
	}
	if len(sections) == 0 {
		return domain.WrapError(domain.ErrInvalidInput, "extract sections", errors.New("no extractable text"))
	}

	chunks := uc.chunkSections(doc, sections)
	if len(chunks) == 0 {
		return domain.WrapError(domain.ErrInvalidInput, "chunk document", errors.New("chunking produced zero chunks"))
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	vectors, err := uc.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return domain.WrapError(
			domain.ErrInvalidInput,
			"embed chunks",
			fmt.Errorf("vectors/chunks mismatch: %d/%d", len(vectors), len(chunks)),
		)
	}

	if err := uc.store.IndexChunks(ctx, doc, chunks, vectors); err != nil {
		return fmt.Errorf("index chunks in vector store: %w", err)
	}

	if err := uc.repo.SaveIndexStats(ctx, doc.ID, countPages(sections), len(chunks)); err != nil {
		return fmt.Errorf("save index stats: %w", err)
	}
	return nil
}

// chunkSections splits each section and carries its provenance onto every
// resulting chunk, so page-tagged content survives splitting.
func (uc *ProcessDocumentUseCase) chunkSections(doc *domain.Document, sections []domain.Section) []domain.Chunk {
	out := make([]domain.Chunk, 0, len(sections))
	index := 0
	for _, section := range sections {
		source := section.Source
		if source == "" {
			source = doc.Filename
		}
		for _, text := range uc.chunker.Split(section.Text) {
			out = append(out, domain.Chunk{
				DocumentID: doc.ID,
				Source:     source,
				Page:       section.Page,
				ChunkIndex: index,
				Text:       text,
			})
			index++
		}
	}
	return out
}

func countPages(sections []domain.Section) int {
	pages := make(map[int]struct{}, len(sections))
	for _, section := range sections {
		if section.Page != nil {
			pages[*section.Page] = struct{}{}
		}
	}
	return len(pages)
}
