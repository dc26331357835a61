package embedding

import "context"

// Client produces fixed dimension dense vectors (config.EmbeddingDimension).
type Client interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedMany(ctx context.Context, texts []string) ([][]float32, error)
}
