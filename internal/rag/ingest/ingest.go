package ingest

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/agentdoc/agentdoc/internal/config"
	"github.com/agentdoc/agentdoc/internal/domain/docmodel"
	"github.com/agentdoc/agentdoc/internal/metrics"
	"github.com/agentdoc/agentdoc/internal/rag/embedding"
	"github.com/agentdoc/agentdoc/internal/rag/extract"
	"github.com/agentdoc/agentdoc/internal/rag/vectorstore"
	"github.com/agentdoc/agentdoc/internal/store"
	"github.com/agentdoc/agentdoc/pkg/logger_i"
)

// Pipeline modes, surfaced in logs and the ingest outcome metric.
const (
	ModeReal    = "real"
	ModeMinimal = "minimal"
	ModeFailed  = "failed"
)

// Orchestrator drives one document through extraction, embedding, vector upsert
// and chunk persistence. Two-attempt policy: if the real pipeline fails at any
// step the attempt is discarded and a minimal pipeline writes a single
// placeholder chunk so the user still gets a document they can chat with. Only
// when both attempts fail does the document end up FAILED. One shot, no retries.
type Orchestrator struct {
	store     store.Store
	vectors   vectorstore.Store
	embedder  embedding.Client
	extractFn extractFunc
	logger    *logger_i.Logger
}

// extractFunc matches extract.Extract.
type extractFunc func(path string, fileName string, docType extract.DocType, logger *logger_i.Logger) ([]extract.RawChunk, int, error)

func NewOrchestrator(st store.Store, vectors vectorstore.Store, embedder embedding.Client) *Orchestrator {
	return &Orchestrator{
		store:     st,
		vectors:   vectors,
		embedder:  embedder,
		extractFn: extract.Extract,
		logger:    logger_i.NewLogger("Document Ingestion"),
	}
}

// Run is the detached entry point: the upload handler calls it in its own
// goroutine and never awaits it. The document row already exists in PROCESSING.
func (o *Orchestrator) Run(ctx context.Context, doc docmodel.Document, filePath string) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()
	defer func() {
		if filePath != "" {
			if err := os.Remove(filePath); err != nil {
				o.logger.Error("Error removing uploaded file", "error", err)
			}
		}
	}()

	log := o.logger.With("documentId", doc.Id)

	mode := ModeReal
	err := o.runReal(ctx, doc, filePath, log)
	if err != nil {
		log.Warn("real pipeline failed, running minimal pipeline", "mode", ModeMinimal, "error", err)
		mode = ModeMinimal
		err = o.runMinimal(ctx, doc, log)
	}
	if err != nil {
		mode = ModeFailed
		log.Error("minimal pipeline failed, marking document FAILED", "error", err)
		if stErr := o.store.SetDocumentStatus(ctx, doc.Id, docmodel.StatusFailed, nil); stErr != nil {
			log.Error("could not persist FAILED status", "error", stErr)
		}
	}

	metrics.CaptureIngestOutcome(mode)
	log.Info("ingestion finished", "mode", mode)
}

// runReal executes extraction -> embedding -> vector upsert -> chunk rows ->
// COMPLETED. Any error discards the whole attempt.
func (o *Orchestrator) runReal(ctx context.Context, doc docmodel.Document, filePath string, log *logger_i.Logger) error {
	if o.embedder == nil {
		return errors.New("no embedding client configured")
	}
	docType := extract.DetectType(doc.FileName)

	rawChunks, pageCount, err := o.extractFn(filePath, doc.FileName, docType, log)
	if err != nil {
		return err
	}
	log.Debug("extraction complete", "chunks", len(rawChunks), "pages", pageCount)

	chunks, points, err := o.buildRecords(ctx, doc, rawChunks)
	if err != nil {
		return err
	}

	if err := o.vectors.EnsureCollection(ctx, config.VectorCollection, config.EmbeddingDimension); err != nil {
		return err
	}
	if err := o.vectors.Upsert(ctx, config.VectorCollection, points); err != nil {
		return err
	}
	if err := o.store.CreateChunks(ctx, chunks); err != nil {
		return err
	}

	return o.store.SetDocumentStatus(ctx, doc.Id, docmodel.StatusCompleted, &pageCount)
}

// buildRecords embeds every chunk with bounded fan-out and pairs each chunk row
// with its vector point. Embedding calls are independent and idempotent by
// vector id, so ordering within the group does not matter.
func (o *Orchestrator) buildRecords(ctx context.Context, doc docmodel.Document, rawChunks []extract.RawChunk) ([]docmodel.Chunk, []vectorstore.Point, error) {
	chunks := make([]docmodel.Chunk, len(rawChunks))
	points := make([]vectorstore.Point, len(rawChunks))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(config.EmbedConcurrency)

	for i, raw := range rawChunks {
		g.Go(func() error {
			vector, err := o.embedder.Embed(groupCtx, raw.Text)
			if err != nil {
				return err
			}

			vectorId := docmodel.VectorId(doc.Id, i)
			chunks[i] = docmodel.Chunk{
				Id:         "chunk_" + uuid.New().String(),
				DocumentId: doc.Id,
				Text:       raw.Text,
				Page:       raw.Page,
				Section:    raw.Section,
				Keywords:   extract.Keywords(raw.Text),
				VectorId:   vectorId,
				CreatedAt:  time.Now().UTC(),
			}
			points[i] = vectorstore.Point{
				Id:     vectorId,
				Vector: vector,
				Payload: vectorstore.Payload{
					Text:       raw.Text,
					DocumentId: doc.Id,
					Metadata: vectorstore.Metadata{
						Page:    raw.Page,
						Section: raw.Section,
						Title:   doc.Title,
						File:    doc.FileName,
					},
				},
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return chunks, points, nil
}

func placeholderKeywords(fileName string) []string {
	keywords := []string{"mock", "document"}
	if idx := strings.LastIndex(fileName, "."); idx >= 0 && idx < len(fileName)-1 {
		keywords = append(keywords, strings.ToLower(fileName[idx+1:]))
	}
	return keywords
}

// runMinimal writes exactly one placeholder chunk/point pair for the document.
// The vector upsert here is best-effort: the placeholder is still chattable
// through the relational tier when the vector store is down.
func (o *Orchestrator) runMinimal(ctx context.Context, doc docmodel.Document, log *logger_i.Logger) error {
	text := "This is a mock representation of " + doc.FileName +
		". The original content could not be processed."
	vectorId := docmodel.VectorId(doc.Id, 0)

	chunk := docmodel.Chunk{
		Id:         "chunk_" + uuid.New().String(),
		DocumentId: doc.Id,
		Text:       text,
		Page:       1,
		Section:    extract.SectionUnprocessed,
		Keywords:   placeholderKeywords(doc.FileName),
		VectorId:   vectorId,
		CreatedAt:  time.Now().UTC(),
	}
	point := vectorstore.Point{
		Id:     vectorId,
		Vector: embedding.FallbackVector(config.EmbeddingDimension),
		Payload: vectorstore.Payload{
			Text:       text,
			DocumentId: doc.Id,
			Metadata: vectorstore.Metadata{
				Page:    1,
				Section: extract.SectionUnprocessed,
				Title:   doc.Title,
				File:    doc.FileName,
			},
		},
	}

	if err := o.vectors.EnsureCollection(ctx, config.VectorCollection, config.EmbeddingDimension); err != nil {
		log.Warn("skipping vector upsert for placeholder", "error", err)
	} else if err := o.vectors.Upsert(ctx, config.VectorCollection, []vectorstore.Point{point}); err != nil {
		log.Warn("placeholder vector upsert failed", "error", err)
	}

	if err := o.store.CreateChunks(ctx, []docmodel.Chunk{chunk}); err != nil {
		return err
	}

	pageCount := 1
	return o.store.SetDocumentStatus(ctx, doc.Id, docmodel.StatusCompleted, &pageCount)
}
