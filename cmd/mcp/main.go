package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/avelichko/faq-assistant/internal/bootstrap"
	"github.com/avelichko/faq-assistant/internal/config"
	"github.com/avelichko/faq-assistant/internal/core/ports"
	"github.com/avelichko/faq-assistant/internal/observability/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	// Warn level keeps the JSON log off the MCP stdio channel unless it matters.
	slog.SetDefault(logging.NewJSONLogger("faq-mcp", "warn"))

	ctx := context.Background()
	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	mcpServer := server.NewMCPServer(
		"faq-assistant",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	mcpServer.AddTool(askKnowledgeBaseTool(), handleAskKnowledgeBase(app.AnswerUC))

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("mcp server error: %v", err)
	}
}

func askKnowledgeBaseTool() mcp.Tool {
	return mcp.NewTool("ask_knowledge_base",
		mcp.WithDescription("Answer a question from the ingested FAQ knowledge base, with cited sources and a confidence score"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The question to answer"),
		),
	)
}

func handleAskKnowledgeBase(answerUC ports.AnswerService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil || query == "" {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("Error: query parameter is required"),
				},
			}, nil
		}

		envelope, err := answerUC.Answer(ctx, query)
		if err != nil {
			slog.Error("ask_knowledge_base_failed", "error", err)
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf("Answer error: %v", err)),
				},
			}, nil
		}

		payload, err := json.MarshalIndent(envelope, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal answer envelope: %w", err)
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(string(payload)),
			},
		}, nil
	}
}
