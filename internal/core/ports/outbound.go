package ports

import (
	"context"
	"io"

	"github.com/avelichko/faq-assistant/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveIndexStats(ctx context.Context, id string, pageCount, chunkCount int) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts page-tagged sections from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) ([]domain.Section, error)
}

// Embedder builds vectors for chunks and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Chunker splits section text into indexable chunks.
type Chunker interface {
	Split(text string) []string
}

// ContextStore is the vector index over knowledge-base chunks. Search order
// is similarity (or MMR) rank. FilteredSearch restricts results to an exact
// metadata match and is allowed to fail on stores without filter support;
// callers treat it as best-effort.
type ContextStore interface {
	IndexChunks(ctx context.Context, doc *domain.Document, chunks []domain.Chunk, vectors [][]float32) error
	Search(ctx context.Context, queryVector []float32, k int) ([]domain.Chunk, error)
	MMRSearch(ctx context.Context, queryVector []float32, k int) ([]domain.Chunk, error)
	FilteredSearch(ctx context.Context, queryVector []float32, k int, filter domain.SearchFilter) ([]domain.Chunk, error)
}

// AnswerGenerator invokes the language model. GenerateText is the primary,
// mandatory capability; GenerateStructured targets the StructuredAnswer
// schema and may fail without consequence for the request.
type AnswerGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateStructured(ctx context.Context, prompt string) (*domain.StructuredAnswer, error)
}
