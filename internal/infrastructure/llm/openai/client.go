package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/avelichko/faq-assistant/internal/core/domain"
	"github.com/avelichko/faq-assistant/internal/infrastructure/resilience"
)

type Client struct {
	api        openai.Client
	genModel   string
	embedModel string
	executor   *resilience.Executor
}

type Options struct {
	APIKey     string
	BaseURL    string
	GenModel   string
	EmbedModel string
	Executor   *resilience.Executor
}

func New(opts Options) *Client {
	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	return &Client{
		api:        openai.NewClient(reqOpts...),
		genModel:   opts.GenModel,
		embedModel: opts.EmbedModel,
		executor:   opts.Executor,
	}
}

func (c *Client) execute(ctx context.Context, operation string, fn func(context.Context) error) error {
	if c.executor == nil {
		return wrapTemporaryIfNeeded(operation, fn(ctx))
	}
	err := c.executor.Execute(ctx, operation, fn, classifyOpenAIError)
	return wrapTemporaryIfNeeded(operation, err)
}

type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var resp *openai.CreateEmbeddingResponse
	err := e.client.execute(ctx, "embed", func(ctx context.Context) error {
		var callErr error
		resp, callErr = e.client.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Input: openai.EmbeddingNewParamsInputUnion{
				OfArrayOfStrings: texts,
			},
			Model:          e.client.embedModel,
			EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
		})
		return callErr
	})
	if err != nil {
		return nil, err
	}

	out := make([][]float32, len(texts))
	for _, data := range resp.Data {
		idx := int(data.Index)
		if idx < 0 || idx >= len(out) {
			return nil, fmt.Errorf("embedding index %d out of range", idx)
		}
		vector := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			vector[j] = float32(v)
		}
		out[idx] = vector
	}
	return out, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	return vectors[0], nil
}

type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) GenerateText(ctx context.Context, prompt string) (string, error) {
	var completion *openai.ChatCompletion
	err := g.client.execute(ctx, "generate_text", func(ctx context.Context) error {
		var callErr error
		completion, callErr = g.client.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model: shared.ChatModel(g.client.genModel),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(prompt),
			},
			Temperature: openai.Float(0.2),
		})
		return callErr
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("empty completion result")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// structuredAnswerSchema constrains the model to the answer payload shape.
var structuredAnswerSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"summary": map[string]any{
			"type":        "string",
			"description": "One-sentence summary of the answer.",
		},
		"bullets": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Key points, at most eight.",
		},
	},
	"required":             []string{"summary", "bullets"},
	"additionalProperties": false,
}

func (g *Generator) GenerateStructured(ctx context.Context, prompt string) (*domain.StructuredAnswer, error) {
	var completion *openai.ChatCompletion
	err := g.client.execute(ctx, "generate_structured", func(ctx context.Context) error {
		var callErr error
		completion, callErr = g.client.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model: shared.ChatModel(g.client.genModel),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(prompt),
			},
			Temperature: openai.Float(0.2),
			ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
					JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
						Name:   "structured_answer",
						Schema: structuredAnswerSchema,
						Strict: openai.Bool(true),
					},
				},
			},
		})
		return callErr
	})
	if err != nil {
		return nil, err
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("empty completion result")
	}

	var answer domain.StructuredAnswer
	raw := completion.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(raw), &answer); err != nil {
		return nil, fmt.Errorf("parse structured answer json: %w", err)
	}
	return &answer, nil
}
