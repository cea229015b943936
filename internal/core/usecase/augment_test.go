package usecase

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/avelichko/faq-assistant/internal/core/domain"
)

type augmentStoreFake struct {
	mu       sync.Mutex
	filters  []domain.SearchFilter
	siblings map[string][]domain.Chunk
	err      error
}

func (f *augmentStoreFake) IndexChunks(context.Context, *domain.Document, []domain.Chunk, [][]float32) error {
	return errors.New("not implemented")
}

func (f *augmentStoreFake) Search(context.Context, []float32, int) ([]domain.Chunk, error) {
	return nil, errors.New("not implemented")
}

func (f *augmentStoreFake) MMRSearch(context.Context, []float32, int) ([]domain.Chunk, error) {
	return nil, errors.New("not implemented")
}

func (f *augmentStoreFake) FilteredSearch(_ context.Context, _ []float32, _ int, filter domain.SearchFilter) ([]domain.Chunk, error) {
	f.mu.Lock()
	f.filters = append(f.filters, filter)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	page := "-"
	if filter.Page != nil {
		page = fmt.Sprintf("%d", *filter.Page)
	}
	return f.siblings[filter.Source+"|"+page], nil
}

func pageOf(n int) *int { return &n }

func TestAugmentAddsSamePageSiblings(t *testing.T) {
	retrieved := []domain.Chunk{
		{Source: "handbook.pdf", Page: pageOf(3), Text: "rule one"},
		{Source: "faq.md", Text: "unpaged entry"},
	}
	store := &augmentStoreFake{
		siblings: map[string][]domain.Chunk{
			"handbook.pdf|3": {
				{Source: "handbook.pdf", Page: pageOf(3), Text: "rule two"},
				{Source: "handbook.pdf", Page: pageOf(3), Text: "rule one"}, // duplicate of retrieved
			},
		},
	}

	out := augmentSamePage(context.Background(), store, []float32{0.1}, retrieved, 3, 0)

	wantTexts := []string{"rule one", "unpaged entry", "rule two"}
	gotTexts := chunkTexts(out)
	if !reflect.DeepEqual(gotTexts, wantTexts) {
		t.Fatalf("texts = %v, want %v", gotTexts, wantTexts)
	}
	// Only the paged chunk triggers a filtered search.
	if len(store.filters) != 1 {
		t.Fatalf("expected 1 filtered search, got %d", len(store.filters))
	}
	if store.filters[0].Source != "handbook.pdf" || store.filters[0].Page == nil || *store.filters[0].Page != 3 {
		t.Fatalf("unexpected filter %+v", store.filters[0])
	}
}

func TestAugmentFallsBackSilentlyOnStoreError(t *testing.T) {
	retrieved := []domain.Chunk{
		{Source: "handbook.pdf", Page: pageOf(1), Text: "only hit"},
	}
	store := &augmentStoreFake{err: errors.New("filter unsupported")}

	out := augmentSamePage(context.Background(), store, []float32{0.1}, retrieved, 3, 0)
	if !reflect.DeepEqual(chunkTexts(out), []string{"only hit"}) {
		t.Fatalf("expected unaugmented set, got %v", chunkTexts(out))
	}
}

func TestAugmentPreservesRetrievalOrder(t *testing.T) {
	retrieved := []domain.Chunk{
		{Source: "b.pdf", Page: pageOf(2), Text: "second"},
		{Source: "a.pdf", Page: pageOf(1), Text: "first"},
	}
	store := &augmentStoreFake{}

	out := augmentSamePage(context.Background(), store, []float32{0.1}, retrieved, 3, 0)
	if !reflect.DeepEqual(chunkTexts(out), []string{"second", "first"}) {
		t.Fatalf("retrieval order changed: %v", chunkTexts(out))
	}
}

func TestAugmentCapsTotalContextSize(t *testing.T) {
	retrieved := []domain.Chunk{{Source: "big.pdf", Page: pageOf(1), Text: "seed"}}
	siblings := make([]domain.Chunk, 0, 10)
	for i := 0; i < 10; i++ {
		siblings = append(siblings, domain.Chunk{
			Source: "big.pdf",
			Page:   pageOf(1),
			Text:   fmt.Sprintf("sibling %d", i),
		})
	}
	store := &augmentStoreFake{siblings: map[string][]domain.Chunk{"big.pdf|1": siblings}}

	out := augmentSamePage(context.Background(), store, []float32{0.1}, retrieved, 10, 4)
	if len(out) != 4 {
		t.Fatalf("expected capped context of 4, got %d", len(out))
	}
	if out[0].Text != "seed" {
		t.Fatalf("expected original chunk first, got %q", out[0].Text)
	}
}

func TestDedupeChunksIdempotent(t *testing.T) {
	chunks := []domain.Chunk{
		{Source: "a.pdf", Page: pageOf(1), Text: "x"},
		{Source: "a.pdf", Page: pageOf(1), Text: "x"},
		{Source: "a.pdf", Page: pageOf(2), Text: "x"},
		{Source: "a.pdf", Text: "x"},
	}
	once := domain.DedupeChunks(chunks)
	twice := domain.DedupeChunks(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("dedupe not idempotent: %v vs %v", once, twice)
	}
	if len(once) != 3 {
		t.Fatalf("expected 3 unique chunks, got %d", len(once))
	}
}

func chunkTexts(chunks []domain.Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}
