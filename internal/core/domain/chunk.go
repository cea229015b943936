package domain

import (
	"fmt"
	"strconv"
)

const dedupPrefixLen = 200

// Chunk is a unit of indexed text with source/page provenance.
// Page is nil for sources without page structure (markdown, FAQ entries).
type Chunk struct {
	DocumentID string            `json:"document_id,omitempty"`
	Source     string            `json:"source"`
	Page       *int              `json:"page,omitempty"`
	ChunkIndex int               `json:"chunk_index"`
	Text       string            `json:"text"`
	Score      float64           `json:"score,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// SearchFilter restricts a search to chunks with exactly matching metadata.
type SearchFilter struct {
	Source string
	Page   *int
}

// DedupKey identifies a chunk for deduplication: same source, same page,
// same first 200 characters of text.
func (c Chunk) DedupKey() string {
	page := "-"
	if c.Page != nil {
		page = strconv.Itoa(*c.Page)
	}
	prefix := c.Text
	if runes := []rune(prefix); len(runes) > dedupPrefixLen {
		prefix = string(runes[:dedupPrefixLen])
	}
	return fmt.Sprintf("%s|%s|%s", c.Source, page, prefix)
}

// SourceLabel renders the chunk's provenance for the answer envelope:
// "handbook.pdf (p.12)" when a page is known, "handbook.pdf" otherwise.
func (c Chunk) SourceLabel() string {
	if c.Page != nil {
		return fmt.Sprintf("%s (p.%d)", c.Source, *c.Page)
	}
	return c.Source
}

// DedupeChunks removes duplicates by DedupKey, keeping the first occurrence
// and preserving input order. Applying it twice yields the same result.
func DedupeChunks(chunks []Chunk) []Chunk {
	seen := make(map[string]struct{}, len(chunks))
	out := make([]Chunk, 0, len(chunks))
	for _, c := range chunks {
		key := c.DedupKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
