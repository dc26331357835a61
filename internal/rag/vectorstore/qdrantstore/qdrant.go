package qdrantstore

import (
	"context"
	"errors"
	"os"
	"strconv"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"

	"github.com/agentdoc/agentdoc/internal/config"
	"github.com/agentdoc/agentdoc/internal/rag/vectorstore"
	"github.com/agentdoc/agentdoc/pkg/logger_i"
)

type ClientHolder struct {
	qObj   *qdrant.Client
	logger *logger_i.Logger
}

// NewClient dials qdrant over gRPC. On any failure the caller should fall back
// to vectorstore.NewUnavailable rather than treat the store as mandatory.
func NewClient(ctx context.Context) (*ClientHolder, error) {
	logger := logger_i.NewLogger("Qdrant")

	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))
	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		APIKey:   os.Getenv("QDRANT_KEY"),
		PoolSize: uint(config.QdrantPoolSize),
		GrpcOptions: []grpc.DialOption{
			grpc.WithKeepaliveParams(keepalive.ClientParameters{
				Time:                config.QdrantKeepAliveTimeout,
				Timeout:             config.QdrantKeepAliveTimeout,
				PermitWithoutStream: true,
			}),
		},
	})
	if err != nil {
		logger.Error("could not instantiate qdrant client", "error", err)
		return nil, err
	}

	holder := &ClientHolder{qObj: client, logger: logger}
	go holder.closeOnDone(ctx)
	return holder, nil
}

func (db *ClientHolder) closeOnDone(ctx context.Context) {
	<-ctx.Done()
	db.logger.Info("Shutting down Qdrant")
	if err := db.qObj.Close(); err != nil {
		db.logger.Error("could not close Qdrant", "error", err)
	}
}

func (db *ClientHolder) EnsureCollection(ctx context.Context, name string, dimension int) error {
	if name == "" {
		return errors.New("empty collection name")
	}

	exists, err := db.qObj.CollectionExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	db.logger.Info("Creating collection", "collection", name, "dimension", dimension)
	return db.qObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

func (db *ClientHolder) Upsert(ctx context.Context, collection string, points []vectorstore.Point) error {
	if len(points) == 0 {
		return nil
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(points))
	for i, p := range points {
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(p.Id),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: qdrant.NewValueMap(map[string]any{
				"text":       p.Payload.Text,
				"documentId": p.Payload.DocumentId,
				"metadata": map[string]any{
					"page":    p.Payload.Metadata.Page,
					"section": p.Payload.Metadata.Section,
					"title":   p.Payload.Metadata.Title,
					"file":    p.Payload.Metadata.File,
				},
			}),
		}
	}

	_, err := db.qObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		db.logger.Error("qdrant upsert failed", "error", err)
		return err
	}
	return nil
}

func (db *ClientHolder) Search(ctx context.Context, collection string, vector []float32, filter vectorstore.Filter, limit int) ([]vectorstore.ScoredPoint, error) {
	loggr := db.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	result, err := db.qObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		Filter:         toQdrantFilter(filter),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Error("Error querying Qdrant", "error", err)
		return nil, err
	}

	var hits []vectorstore.ScoredPoint
	for _, hit := range result {
		hits = append(hits, vectorstore.ScoredPoint{
			Id:      hit.Id.GetUuid(),
			Score:   hit.Score,
			Payload: payloadFromValues(hit.Payload),
		})
	}

	loggr.Debug("qdrant search complete", "hits", len(hits))
	return hits, nil
}

func (db *ClientHolder) DeleteByFilter(ctx context.Context, collection string, filter vectorstore.Filter) error {
	qFilter := toQdrantFilter(filter)

	// Scroll-then-delete: enumerate ids first, the store's filtered delete is
	// not assumed atomic.
	for {
		points, err := db.qObj.Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: collection,
			Filter:         qFilter,
			Limit:          qdrant.PtrOf(uint32(config.QdrantScrollBatchSize)),
			WithPayload:    qdrant.NewWithPayload(false),
		})
		if err != nil {
			return err
		}
		if len(points) == 0 {
			return nil
		}

		ids := make([]*qdrant.PointId, len(points))
		for i, p := range points {
			ids[i] = p.Id
		}
		_, err = db.qObj.Delete(ctx, &qdrant.DeletePoints{
			CollectionName: collection,
			Points:         qdrant.NewPointsSelector(ids...),
			Wait:           qdrant.PtrOf(true),
		})
		if err != nil {
			return err
		}
	}
}

func toQdrantFilter(filter vectorstore.Filter) *qdrant.Filter {
	if len(filter.Must) == 0 && len(filter.MustNot) == 0 {
		return nil
	}
	return &qdrant.Filter{
		Must:    toConditions(filter.Must),
		MustNot: toConditions(filter.MustNot),
	}
}

func toConditions(matches []vectorstore.Match) []*qdrant.Condition {
	var conditions []*qdrant.Condition
	for _, m := range matches {
		if len(m.Values) > 0 {
			conditions = append(conditions, qdrant.NewMatchKeywords(m.Key, m.Values...))
			continue
		}
		conditions = append(conditions, qdrant.NewMatch(m.Key, m.Value))
	}
	return conditions
}

func payloadFromValues(values map[string]*qdrant.Value) vectorstore.Payload {
	payload := vectorstore.Payload{
		Text:       values["text"].GetStringValue(),
		DocumentId: values["documentId"].GetStringValue(),
	}
	meta := values["metadata"].GetStructValue()
	if meta == nil {
		return payload
	}
	fields := meta.GetFields()
	payload.Metadata = vectorstore.Metadata{
		Page:    int(fields["page"].GetIntegerValue()),
		Section: fields["section"].GetStringValue(),
		Title:   fields["title"].GetStringValue(),
		File:    fields["file"].GetStringValue(),
	}
	return payload
}
