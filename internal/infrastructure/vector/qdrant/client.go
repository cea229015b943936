package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avelichko/faq-assistant/internal/core/domain"
	"github.com/avelichko/faq-assistant/internal/infrastructure/resilience"
)

const (
	// mmrLambda weights relevance against diversity when re-selecting the
	// candidate pool. 0 is maximum diversity, 1 is plain similarity ranking.
	mmrLambda = 0.3
	// mmrFetchMultiplier sizes the candidate pool fetched before selection.
	mmrFetchMultiplier = 5
	mmrFetchFloor      = 20
)

type Client struct {
	baseURL    string
	collection string
	httpClient *http.Client
	executor   *resilience.Executor

	ensureMu          sync.Mutex
	ensuredCollection bool
	ensuredVectorSize int
}

type Options struct {
	HTTPTimeout        time.Duration
	ResilienceExecutor *resilience.Executor
}

func New(baseURL, collection string) *Client {
	return NewWithOptions(baseURL, collection, Options{})
}

func NewWithOptions(baseURL, collection string, options Options) *Client {
	timeout := options.HTTPTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		httpClient: &http.Client{Timeout: timeout},
		executor:   options.ResilienceExecutor,
	}
}

// execute routes a Qdrant call through the retry/circuit-breaker executor
// when one is configured. Exhausted transient failures come back wrapped as
// the temporary error kind.
func (c *Client) execute(ctx context.Context, operation string, fn func(context.Context) error) error {
	if c.executor == nil {
		return fn(ctx)
	}
	err := c.executor.Execute(ctx, operation, fn, classifyQdrantError)
	return wrapTemporaryIfNeeded(operation, err)
}

func (c *Client) IndexChunks(ctx context.Context, doc *domain.Document, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) == 0 || len(vectors) == 0 {
		return nil
	}
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks/vectors mismatch")
	}

	if err := c.ensureCollection(ctx, len(vectors[0])); err != nil {
		return err
	}

	type point struct {
		ID      string         `json:"id"`
		Vector  []float32      `json:"vector"`
		Payload map[string]any `json:"payload"`
	}

	points := make([]point, 0, len(chunks))
	for i, chunk := range chunks {
		payload := map[string]any{
			"doc_id":      doc.ID,
			"source":      chunk.Source,
			"chunk_index": chunk.ChunkIndex,
			"text":        chunk.Text,
		}
		if chunk.Page != nil {
			payload["page"] = *chunk.Page
		}
		points = append(points, point{
			ID:      uuid.NewString(),
			Vector:  vectors[i],
			Payload: payload,
		})
	}

	reqBody := map[string]any{"points": points}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal upsert body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points?wait=true", c.baseURL, c.collection)
	return c.execute(ctx, "qdrant.upsert", func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create upsert request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("qdrant upsert request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			return &statusError{op: "upsert", code: resp.StatusCode, status: resp.Status}
		}
		return nil
	})
}

// Search runs a plain similarity search without a payload filter.
func (c *Client) Search(ctx context.Context, queryVector []float32, limit int) ([]domain.Chunk, error) {
	results, err := c.search(ctx, queryVector, limit, nil, false)
	if err != nil {
		return nil, err
	}
	return resultsToChunks(results), nil
}

// FilteredSearch restricts the similarity search to points matching the given
// source (and page, when set) payload values.
func (c *Client) FilteredSearch(
	ctx context.Context,
	queryVector []float32,
	limit int,
	filter domain.SearchFilter,
) ([]domain.Chunk, error) {
	must := []map[string]any{
		{"key": "source", "match": map[string]any{"value": filter.Source}},
	}
	if filter.Page != nil {
		must = append(must, map[string]any{
			"key":   "page",
			"match": map[string]any{"value": *filter.Page},
		})
	}
	results, err := c.search(ctx, queryVector, limit, map[string]any{"must": must}, false)
	if err != nil {
		return nil, err
	}
	return resultsToChunks(results), nil
}

// MMRSearch fetches a candidate pool and selects k chunks by maximal marginal
// relevance, trading similarity to the query against similarity to chunks
// already picked. Qdrant has no server-side MMR, so selection happens here
// over vectors returned with the candidates.
func (c *Client) MMRSearch(ctx context.Context, queryVector []float32, k int) ([]domain.Chunk, error) {
	if k <= 0 {
		return nil, nil
	}
	fetchK := k * mmrFetchMultiplier
	if fetchK < mmrFetchFloor {
		fetchK = mmrFetchFloor
	}

	candidates, err := c.search(ctx, queryVector, fetchK, nil, true)
	if err != nil {
		return nil, err
	}
	selected := selectMMR(queryVector, candidates, k, mmrLambda)
	return resultsToChunks(selected), nil
}

type searchResult struct {
	Score   float64        `json:"score"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

func (c *Client) search(
	ctx context.Context,
	queryVector []float32,
	limit int,
	filter map[string]any,
	withVector bool,
) ([]searchResult, error) {
	reqBody := map[string]any{
		"vector":       queryVector,
		"limit":        limit,
		"with_payload": true,
	}
	if withVector {
		reqBody["with_vector"] = true
	}
	if filter != nil {
		reqBody["filter"] = filter
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", c.baseURL, c.collection)
	var searchResp struct {
		Result []searchResult `json:"result"`
	}
	err = c.execute(ctx, "qdrant.search", func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create search request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("qdrant search request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			return &statusError{op: "search", code: resp.StatusCode, status: resp.Status}
		}

		searchResp.Result = nil
		if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
			return fmt.Errorf("decode search response: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return searchResp.Result, nil
}

// selectMMR greedily picks k results maximizing
// lambda*sim(query, candidate) - (1-lambda)*max sim(candidate, picked).
func selectMMR(queryVector []float32, candidates []searchResult, k int, lambda float64) []searchResult {
	if len(candidates) <= k {
		out := make([]searchResult, len(candidates))
		copy(out, candidates)
		sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
		return out
	}

	querySim := make([]float64, len(candidates))
	for i, cand := range candidates {
		querySim[i] = cosineSimilarity(queryVector, cand.Vector)
	}

	selected := make([]searchResult, 0, k)
	selectedIdx := make([]int, 0, k)
	remaining := make(map[int]struct{}, len(candidates))
	for i := range candidates {
		remaining[i] = struct{}{}
	}

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := -1
		bestScore := math.Inf(-1)
		for i := range remaining {
			redundancy := 0.0
			for _, j := range selectedIdx {
				if sim := cosineSimilarity(candidates[i].Vector, candidates[j].Vector); sim > redundancy {
					redundancy = sim
				}
			}
			score := lambda*querySim[i] - (1-lambda)*redundancy
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		selected = append(selected, candidates[bestIdx])
		selectedIdx = append(selectedIdx, bestIdx)
		delete(remaining, bestIdx)
	}
	return selected
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func resultsToChunks(results []searchResult) []domain.Chunk {
	out := make([]domain.Chunk, 0, len(results))
	for _, r := range results {
		out = append(out, domain.Chunk{
			DocumentID: getStringPayload(r.Payload, "doc_id"),
			Source:     getStringPayload(r.Payload, "source"),
			Page:       getIntPayload(r.Payload, "page"),
			ChunkIndex: intPayloadOrZero(r.Payload, "chunk_index"),
			Text:       getStringPayload(r.Payload, "text"),
			Score:      r.Score,
		})
	}
	return out
}

func (c *Client) ensureCollection(ctx context.Context, vectorSize int) error {
	c.ensureMu.Lock()
	if c.ensuredCollection && c.ensuredVectorSize == vectorSize {
		c.ensureMu.Unlock()
		return nil
	}
	c.ensureMu.Unlock()

	reqBody := map[string]any{
		"vectors": map[string]any{
			"size":     vectorSize,
			"distance": "Cosine",
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal create collection body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s", c.baseURL, c.collection)
	err = c.execute(ctx, "qdrant.ensure_collection", func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create collection request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("qdrant ensure collection request: %w", err)
		}
		defer resp.Body.Close()

		// 200/201 for create, 409 if already exists (depends on version/config).
		if resp.StatusCode == http.StatusConflict || resp.StatusCode < 300 {
			return nil
		}
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &statusError{
			op:     "ensure collection",
			code:   resp.StatusCode,
			status: resp.Status,
			body:   strings.TrimSpace(string(respBody)),
		}
	})
	if err != nil {
		return err
	}
	c.markCollectionEnsured(vectorSize)
	return nil
}

func (c *Client) markCollectionEnsured(vectorSize int) {
	c.ensureMu.Lock()
	defer c.ensureMu.Unlock()
	c.ensuredCollection = true
	c.ensuredVectorSize = vectorSize
}

func getStringPayload(payload map[string]any, key string) string {
	v, ok := payload[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func getIntPayload(payload map[string]any, key string) *int {
	v, ok := payload[key]
	if !ok {
		return nil
	}
	switch n := v.(type) {
	case float64:
		i := int(n)
		return &i
	case int:
		i := n
		return &i
	default:
		return nil
	}
}

func intPayloadOrZero(payload map[string]any, key string) int {
	if p := getIntPayload(payload, key); p != nil {
		return *p
	}
	return 0
}
