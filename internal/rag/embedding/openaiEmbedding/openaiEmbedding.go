package openaiEmbedding

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/agentdoc/agentdoc/internal/config"
	"github.com/agentdoc/agentdoc/internal/rag/embedding"
	"github.com/agentdoc/agentdoc/pkg/logger_i"
)

type client struct {
	openAI openai.Client
	model  openai.EmbeddingModel
	logger *logger_i.Logger
}

// NewClient builds the ada-002 backed embedder. A missing API key is not an
// error here: the returned client fails per call and the Degradable wrapper
// turns those failures into fallback vectors.
func NewClient(apiKey string, httpClient *http.Client) embedding.Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &client{
		openAI: openai.NewClient(opts...),
		model:  openai.EmbeddingModel(config.OpenAIEmbeddingModel),
		logger: logger_i.NewLogger("openai_embedding"),
	}
}

func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.openAI.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: c.model,
	})
	if err != nil {
		c.logger.Error("Error getting embedding from OpenAI", "error", err.Error())
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai returned no embedding data")
	}
	return toFloat32(resp.Data[0].Embedding)
}

func (c *client) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := c.openAI.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: c.model,
	})
	if err != nil {
		c.logger.Error("Error getting batch embeddings from OpenAI", "error", err.Error())
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("mismatch: sent %d texts, got %d embeddings", len(texts), len(resp.Data))
	}

	vectors := make([][]float32, len(resp.Data))
	for _, item := range resp.Data {
		vec, err := toFloat32(item.Embedding)
		if err != nil {
			return nil, err
		}
		vectors[item.Index] = vec
	}
	return vectors, nil
}

func toFloat32(raw []float64) ([]float32, error) {
	if len(raw) != config.EmbeddingDimension {
		return nil, fmt.Errorf("unexpected embedding dimension %d, want %d", len(raw), config.EmbeddingDimension)
	}
	vec := make([]float32, len(raw))
	for i, v := range raw {
		vec[i] = float32(v)
	}
	return vec, nil
}
