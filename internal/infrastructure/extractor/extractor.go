package extractor

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/avelichko/faq-assistant/internal/core/domain"
	"github.com/avelichko/faq-assistant/internal/core/ports"
)

// Extractor dispatches by file extension to a format-specific section loader.
// Supported: .md/.markdown/.txt, .pdf, .json (FAQ schema), .xlsx.
type Extractor struct {
	storage ports.ObjectStorage
}

func New(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, doc *domain.Document) ([]domain.Section, error) {
	reader, err := e.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read source document: %w", err)
	}

	switch strings.ToLower(filepath.Ext(doc.Filename)) {
	case ".md", ".markdown", ".txt":
		return extractPlaintext(raw, doc.Filename)
	case ".pdf":
		return extractPDF(raw)
	case ".json":
		return extractJSONFAQ(raw)
	case ".xlsx":
		return extractXLSX(raw)
	default:
		return nil, domain.WrapError(
			domain.ErrUnsupportedFormat,
			"extract document",
			fmt.Errorf("unsupported file type: %s", doc.Filename),
		)
	}
}
