package usecase

import (
	"context"
	"sync"

	"github.com/avelichko/faq-assistant/internal/core/domain"
	"github.com/avelichko/faq-assistant/internal/core/ports"
)

// augmentSamePage widens a retrieved set with sibling chunks from the same
// (source, page), regardless of their similarity to the query. Enumerable
// content is often split across chunks, and a pure-similarity top-k can
// retrieve only a partial list.
//
// Augmentation is best-effort: a failed or unsupported filtered search
// contributes no extras and is never surfaced. The original retrieval order
// is preserved; extras follow in input order and duplicates are dropped by
// dedup key, first occurrence winning. The deduped result is capped at
// maxTotal chunks (0 disables the cap).
func augmentSamePage(
	ctx context.Context,
	store ports.ContextStore,
	queryVector []float32,
	retrieved []domain.Chunk,
	perChunk, maxTotal int,
) []domain.Chunk {
	if perChunk <= 0 || len(retrieved) == 0 {
		return domain.DedupeChunks(retrieved)
	}

	// One filtered search per paged input chunk, issued concurrently.
	// Each goroutine writes only its own slot, keeping output deterministic.
	extras := make([][]domain.Chunk, len(retrieved))
	var wg sync.WaitGroup
	for i, chunk := range retrieved {
		if chunk.Source == "" || chunk.Page == nil {
			continue
		}
		wg.Add(1)
		go func(i int, filter domain.SearchFilter) {
			defer wg.Done()
			siblings, err := store.FilteredSearch(ctx, queryVector, perChunk, filter)
			if err != nil {
				return
			}
			extras[i] = siblings
		}(i, domain.SearchFilter{Source: chunk.Source, Page: chunk.Page})
	}
	wg.Wait()

	augmented := make([]domain.Chunk, 0, len(retrieved)*(perChunk+1))
	augmented = append(augmented, retrieved...)
	for _, siblings := range extras {
		augmented = append(augmented, siblings...)
	}

	out := domain.DedupeChunks(augmented)
	if maxTotal > 0 && len(out) > maxTotal {
		out = out[:maxTotal]
	}
	return out
}
