package retrieval

import (
	"context"
	"time"

	"github.com/agentdoc/agentdoc/internal/config"
	"github.com/agentdoc/agentdoc/internal/domain/docmodel"
	"github.com/agentdoc/agentdoc/internal/metrics"
	"github.com/agentdoc/agentdoc/internal/rag/embedding"
	"github.com/agentdoc/agentdoc/internal/rag/vectorstore"
	"github.com/agentdoc/agentdoc/internal/store"
	"github.com/agentdoc/agentdoc/pkg/logger_i"
)

// Retrieval tiers, surfaced in logs and metrics.
const (
	TierVector     = "vector"
	TierRelational = "relational"
	TierStatic     = "static"
)

// Service answers "which passages back this query" with a strict three tier
// fallback: semantic search in the vector store, then raw chunk rows from the
// relational store, then fixed demo passages. A tier is skipped on error or on
// an empty result; the caller always receives at least one passage.
type Service struct {
	store    store.Store
	vectors  vectorstore.Store
	embedder *embedding.Degradable
	logger   *logger_i.Logger
}

func NewService(st store.Store, vectors vectorstore.Store, embedder *embedding.Degradable) *Service {
	return &Service{
		store:    st,
		vectors:  vectors,
		embedder: embedder,
		logger:   logger_i.NewLogger("Passage Retrieval"),
	}
}

// Retrieve resolves the scope exactly once, before any tier runs. A scope the
// user does not own fails with ErrScopeNotOwned regardless of which tiers would
// have produced results.
func (s *Service) Retrieve(ctx context.Context, scope docmodel.Scope, query string) ([]docmodel.Passage, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("passage_retrieval", time.Since(start)) }()

	documentIds, err := s.resolveScope(ctx, scope)
	if err != nil {
		return nil, err
	}

	if len(documentIds) > 0 {
		if passages := s.vectorTier(ctx, documentIds, query); len(passages) > 0 {
			metrics.CaptureRetrievalTier(TierVector)
			return passages, nil
		}
		if passages := s.relationalTier(ctx, documentIds); len(passages) > 0 {
			metrics.CaptureRetrievalTier(TierRelational)
			return passages, nil
		}
	}

	s.logger.Warn("no stored passages found, using static tier", "tier", TierStatic, "documents", len(documentIds))
	metrics.CaptureRetrievalTier(TierStatic)
	return StaticPassages(), nil
}

// resolveScope maps the scope to the concrete list of document ids it covers.
func (s *Service) resolveScope(ctx context.Context, scope docmodel.Scope) ([]string, error) {
	switch {
	case scope.AllDocuments():
		return s.store.ListDocumentIdsByOwner(ctx, scope.UserId)

	case scope.DocumentId != "":
		_, found, err := s.store.GetDocument(ctx, scope.DocumentId, scope.UserId)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, docmodel.ErrScopeNotOwned
		}
		return []string{scope.DocumentId}, nil

	default:
		_, found, err := s.store.GetCollection(ctx, scope.CollectionId, scope.UserId)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, docmodel.ErrScopeNotOwned
		}
		return s.store.ListCollectionDocumentIds(ctx, scope.CollectionId)
	}
}

func (s *Service) vectorTier(ctx context.Context, documentIds []string, query string) []docmodel.Passage {
	vector, degraded := s.embedder.Embed(ctx, query)
	if degraded {
		metrics.CaptureEmbeddingDegraded()
	}

	filter := vectorstore.Filter{
		Must: []vectorstore.Match{{Key: "documentId", Values: documentIds}},
	}
	hits, err := s.vectors.Search(ctx, config.VectorCollection, vector, filter, config.RetrievalLimit)
	if err != nil {
		s.logger.Warn("vector search failed, falling through", "error", err)
		return nil
	}

	passages := make([]docmodel.Passage, 0, len(hits))
	for _, hit := range hits {
		passages = append(passages, docmodel.Passage{
			Id:         hit.Id,
			Text:       hit.Payload.Text,
			DocumentId: hit.Payload.DocumentId,
			Page:       hit.Payload.Metadata.Page,
			Title:      hit.Payload.Metadata.Title,
			File:       hit.Payload.Metadata.File,
		})
	}
	return passages
}

func (s *Service) relationalTier(ctx context.Context, documentIds []string) []docmodel.Passage {
	chunks, err := s.store.ListChunks(ctx, documentIds, config.RetrievalLimit)
	if err != nil {
		s.logger.Warn("relational chunk read failed, falling through", "error", err)
		return nil
	}

	passages := make([]docmodel.Passage, 0, len(chunks))
	for _, c := range chunks {
		passages = append(passages, docmodel.Passage{
			Id:         c.Chunk.Id,
			Text:       c.Chunk.Text,
			DocumentId: c.Chunk.DocumentId,
			Page:       c.Chunk.Page,
			Title:      c.DocTitle,
			File:       c.DocFile,
		})
	}
	return passages
}
