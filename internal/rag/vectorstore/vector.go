package vectorstore

import "context"

// Metadata travels in the point payload next to the text so retrieval can cite
// without a relational lookup.
type Metadata struct {
	Page    int
	Section string
	Title   string
	File    string
}

type Payload struct {
	Text       string
	DocumentId string
	Metadata   Metadata
}

type Point struct {
	Id      string
	Vector  []float32
	Payload Payload
}

type ScoredPoint struct {
	Id      string
	Score   float32
	Payload Payload
}

// Match is one filter clause: exact match when Value is set, any-of when Values
// is set.
type Match struct {
	Key    string
	Value  string
	Values []string
}

// Filter is a conjunction of Must clauses with optional MustNot exclusions.
type Filter struct {
	Must    []Match
	MustNot []Match
}

type Store interface {
	// EnsureCollection creates the collection if absent; no-op when it exists.
	EnsureCollection(ctx context.Context, name string, dimension int) error
	// Upsert inserts or replaces points by id.
	Upsert(ctx context.Context, collection string, points []Point) error
	// Search returns up to limit points by decreasing similarity.
	Search(ctx context.Context, collection string, vector []float32, filter Filter, limit int) ([]ScoredPoint, error)
	// DeleteByFilter enumerates matching ids then deletes them; the store's own
	// delete-by-filter is not assumed atomic.
	DeleteByFilter(ctx context.Context, collection string, filter Filter) error
}
