package embedding

import (
	"context"
	"math/rand"

	"github.com/agentdoc/agentdoc/internal/config"
	"github.com/agentdoc/agentdoc/pkg/logger_i"
)

// Degradable never fails: when the wrapped client errors it substitutes a
// non-semantic vector of the same shape and reports degraded=true. Retrieval and
// best-effort ingestion paths use this so an embedding outage costs fidelity, not
// availability. The caller owns logging the degradation.
type Degradable struct {
	inner  Client
	logger *logger_i.Logger
}

func NewDegradable(inner Client) *Degradable {
	return &Degradable{
		inner:  inner,
		logger: logger_i.NewLogger("embedding_degradable"),
	}
}

func (d *Degradable) Embed(ctx context.Context, text string) ([]float32, bool) {
	if d.inner != nil {
		vec, err := d.inner.Embed(ctx, text)
		if err == nil {
			return vec, false
		}
		d.logger.Warn("embedding failed, substituting fallback vector", "degraded", true, "error", err)
	}
	return FallbackVector(config.EmbeddingDimension), true
}

func (d *Degradable) EmbedMany(ctx context.Context, texts []string) ([][]float32, bool) {
	if d.inner != nil {
		vecs, err := d.inner.EmbedMany(ctx, texts)
		if err == nil && len(vecs) == len(texts) {
			return vecs, false
		}
		d.logger.Warn("batch embedding failed, substituting fallback vectors", "degraded", true, "count", len(texts), "error", err)
	}
	vecs := make([][]float32, len(texts))
	for i := range vecs {
		vecs[i] = FallbackVector(config.EmbeddingDimension)
	}
	return vecs, true
}

// FallbackVector samples each element uniformly from [-1, 1). It carries no
// semantics but is indistinguishable in shape from a real embedding.
func FallbackVector(dim int) []float32 {
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = rand.Float32()*2 - 1
	}
	return vec
}
