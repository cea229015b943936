package domain

// StructuredAnswer is a summary-plus-bullets view of a free-text answer,
// produced either by the model's schema-constrained output or by the
// deterministic extractor fallback.
type StructuredAnswer struct {
	Summary string   `json:"summary"`
	Bullets []string `json:"bullets"`
}

// AnswerEnvelope is the terminal artifact of one answer request.
// It is constructed fresh per request and has no persisted lifecycle.
type AnswerEnvelope struct {
	Answer     string            `json:"answer"`
	Structured *StructuredAnswer `json:"structured,omitempty"`
	Sources    []string          `json:"sources"`
	Confidence float64           `json:"confidence"`
}

// NoAnswerText is returned verbatim when retrieval yields zero chunks.
const NoAnswerText = "I couldn't find an answer in the knowledge base. Please contact support."

// EmptyRetrievalEnvelope is the fixed envelope for the empty-retrieval
// terminal state. No model call is made on this path.
func EmptyRetrievalEnvelope() *AnswerEnvelope {
	return &AnswerEnvelope{
		Answer:     NoAnswerText,
		Sources:    []string{},
		Confidence: 0.0,
	}
}

// Confidence is a monotonic proxy for retrieval support volume:
// min(1.0, 0.5 + 0.05*n) for n context chunks. It is a named placeholder
// policy, not a calibrated probability.
func Confidence(contextChunks int) float64 {
	c := 0.5 + 0.05*float64(contextChunks)
	if c > 1.0 {
		return 1.0
	}
	return c
}
