package bootstrap

import (
	"context"
	"fmt"

	"github.com/avelichko/faq-assistant/internal/config"
	"github.com/avelichko/faq-assistant/internal/core/ports"
	"github.com/avelichko/faq-assistant/internal/core/usecase"
	"github.com/avelichko/faq-assistant/internal/infrastructure/chunking"
	"github.com/avelichko/faq-assistant/internal/infrastructure/extractor"
	openaillm "github.com/avelichko/faq-assistant/internal/infrastructure/llm/openai"
	"github.com/avelichko/faq-assistant/internal/infrastructure/queue/nats"
	"github.com/avelichko/faq-assistant/internal/infrastructure/repository/postgres"
	"github.com/avelichko/faq-assistant/internal/infrastructure/resilience"
	"github.com/avelichko/faq-assistant/internal/infrastructure/storage/localfs"
	"github.com/avelichko/faq-assistant/internal/infrastructure/vector/qdrant"
)

type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	Repo      ports.DocumentRepository
	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor
	AnswerUC  ports.AnswerService

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	llmClient := openaillm.New(openaillm.Options{
		APIKey:     cfg.OpenAIAPIKey,
		BaseURL:    cfg.OpenAIBaseURL,
		GenModel:   cfg.OpenAIGenModel,
		EmbedModel: cfg.OpenAIEmbedModel,
		Executor:   executor,
	})
	embedder := openaillm.NewEmbedder(llmClient)
	generator := openaillm.NewGenerator(llmClient)

	vectorDB := qdrant.NewWithOptions(cfg.QdrantURL, cfg.QdrantCollection, qdrant.Options{
		ResilienceExecutor: executor,
	})
	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	textExtractor := extractor.New(storage)

	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(repo, textExtractor, chunker, embedder, vectorDB)
	answerUC := usecase.NewAnswerUseCase(embedder, vectorDB, generator, usecase.AnswerConfig{
		TopK:             cfg.RAGTopK,
		AugmentPerChunk:  cfg.RAGAugmentPerChunk,
		MaxContextChunks: cfg.RAGMaxContextChunks,
	})

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		IngestUC:  ingestUC,
		ProcessUC: processUC,
		AnswerUC:  answerUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
