package googleEmbedding

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/agentdoc/agentdoc/internal/config"
	"github.com/agentdoc/agentdoc/internal/rag/embedding"
	"github.com/agentdoc/agentdoc/pkg/logger_i"
)

var dimension = int32(config.EmbeddingDimension)

type client struct {
	genAi  *genai.Client
	model  string
	logger *logger_i.Logger
}

// NewClient builds the Gemini backed embedder, the alternative to OpenAI when
// LLM_PROVIDER=gemini. Dimensionality is pinned to the shared collection size.
func NewClient(ctx context.Context, modelName string, apiKey string) (embedding.Client, error) {
	logger := logger_i.NewLogger("google_embedding")

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		logger.Error("Error creating Google Embedding client", "error", err)
		return nil, err
	}
	logger.Info("Google Embedding client created", "model", modelName)
	return &client{genAi: c, model: modelName, logger: logger}, nil
}

func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	result, err := withRetry(ctx, c.logger, func() (*genai.EmbedContentResponse, error) {
		return c.genAi.Models.EmbedContent(ctx, c.model, genai.Text(text),
			&genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: "RETRIEVAL_DOCUMENT"})
	})
	if err != nil {
		c.logger.Error("Error getting embedding from Google", "error", err.Error())
		return nil, err
	}
	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("google returned no embeddings")
	}
	return result.Embeddings[0].Values, nil
}

func (c *client) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	var contents []*genai.Content
	for _, t := range texts {
		contents = append(contents, genai.Text(t)...)
	}

	result, err := withRetry(ctx, c.logger, func() (*genai.EmbedContentResponse, error) {
		return c.genAi.Models.EmbedContent(ctx, c.model, contents,
			&genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: "RETRIEVAL_DOCUMENT"})
	})
	if err != nil {
		c.logger.Error("Error getting batch embeddings from Google", "error", err.Error())
		return nil, err
	}
	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("mismatch: sent %d texts, got %d embeddings", len(texts), len(result.Embeddings))
	}

	var vectors [][]float32
	for _, r := range result.Embeddings {
		vectors = append(vectors, r.Values)
	}
	return vectors, nil
}
