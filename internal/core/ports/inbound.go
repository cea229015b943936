package ports

import (
	"context"
	"io"

	"github.com/avelichko/faq-assistant/internal/core/domain"
)

// AnswerService is the inbound contract for answering a question against
// the knowledge base.
type AnswerService interface {
	Answer(ctx context.Context, query string) (*domain.AnswerEnvelope, error)
}

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous document
// processing.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}
