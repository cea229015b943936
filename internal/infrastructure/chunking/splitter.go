package chunking

import "strings"

// Splitter cuts section text into fixed-size rune windows with overlap.
// It is applied per extracted section, never across section boundaries, so
// a chunk always belongs to exactly one page of the source document.
type Splitter struct {
	ChunkSize int
	Overlap   int
}

const defaultChunkSize = 900

func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	// An overlap at or above the window size would make the scan stall.
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Splitter{
		ChunkSize: chunkSize,
		Overlap:   overlap,
	}
}

// Split windows over runes rather than bytes so multibyte text never gets
// cut mid-character. Whitespace-only windows are dropped.
func (s *Splitter) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := s.ChunkSize - s.Overlap
	if step <= 0 {
		step = s.ChunkSize
	}

	chunks := make([]string, 0, len(runes)/step+1)
	start := 0
	for start < len(runes) {
		end := start + s.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		if window := strings.TrimSpace(string(runes[start:end])); window != "" {
			chunks = append(chunks, window)
		}
		if end == len(runes) {
			break
		}
		start += step
	}
	return chunks
}
