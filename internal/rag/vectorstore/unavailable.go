package vectorstore

import (
	"context"

	"github.com/agentdoc/agentdoc/internal/domain/docmodel"
	"github.com/agentdoc/agentdoc/pkg/logger_i"
)

// Unavailable stands in when qdrant is unreachable or unconfigured. Reads come
// back empty without error so retrieval moves on to its fallback tier; Upsert is
// the one operation that must fail loudly, because ingestion needs to know it
// should run its minimal pipeline instead.
type Unavailable struct {
	logger *logger_i.Logger
}

func NewUnavailable() *Unavailable {
	return &Unavailable{logger: logger_i.NewLogger("VectorStore Unavailable")}
}

func (u *Unavailable) EnsureCollection(ctx context.Context, name string, dimension int) error {
	u.logger.Warn("vector store unavailable, skipping collection creation", "collection", name)
	return nil
}

func (u *Unavailable) Upsert(ctx context.Context, collection string, points []Point) error {
	return docmodel.ErrVectorStoreUnavailable
}

func (u *Unavailable) Search(ctx context.Context, collection string, vector []float32, filter Filter, limit int) ([]ScoredPoint, error) {
	u.logger.Warn("vector store unavailable, returning empty search result")
	return nil, nil
}

func (u *Unavailable) DeleteByFilter(ctx context.Context, collection string, filter Filter) error {
	u.logger.Warn("vector store unavailable, skipping delete")
	return nil
}
