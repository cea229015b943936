package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

// Document tracks one uploaded knowledge-base file through the ingestion
// lifecycle. The filename doubles as the source label on indexed chunks.
type Document struct {
	ID          string         `json:"id"`
	Filename    string         `json:"filename"`
	MimeType    string         `json:"mime_type"`
	StoragePath string         `json:"storage_path"`
	Status      DocumentStatus `json:"status"`
	Error       string         `json:"error,omitempty"`
	PageCount   int            `json:"page_count,omitempty"`
	ChunkCount  int            `json:"chunk_count,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Section is a page-tagged span of extracted text. PDF extraction yields one
// section per page; unpaged formats yield sections with a nil Page. A section
// may override the document filename as the chunk source (JSON FAQ entries
// carry their own source attribution).
type Section struct {
	Text   string
	Page   *int
	Source string
}
