package store

import (
	"context"

	"github.com/agentdoc/agentdoc/internal/domain/docmodel"
)

// RetrievedChunk is a chunk row joined with the owning document's display
// fields, enough to build a citable passage without a second query.
type RetrievedChunk struct {
	Chunk    docmodel.Chunk
	DocTitle string
	DocFile  string
}

// Store is the relational persistence boundary. The CRUD layer above it owns
// uniqueness constraints; the pipeline only reads/writes through these methods.
type Store interface {
	CreateDocument(ctx context.Context, doc docmodel.Document) error
	// GetDocument enforces ownership: a document owned by someone else reads as
	// absent.
	GetDocument(ctx context.Context, id string, userId string) (docmodel.Document, bool, error)
	SetDocumentStatus(ctx context.Context, id string, status docmodel.DocStatus, pageCount *int) error
	DeleteDocument(ctx context.Context, id string) error
	ListDocumentIdsByOwner(ctx context.Context, userId string) ([]string, error)

	CreateChunks(ctx context.Context, chunks []docmodel.Chunk) error
	// ListChunks reads up to limit chunk rows across the given documents in
	// storage order. No relevance ranking: this is the vector-less fallback.
	ListChunks(ctx context.Context, documentIds []string, limit int) ([]RetrievedChunk, error)

	CreateCollection(ctx context.Context, c docmodel.Collection) error
	GetCollection(ctx context.Context, id string, userId string) (docmodel.Collection, bool, error)
	AddDocumentToCollection(ctx context.Context, documentId string, collectionId string) error
	ListCollectionDocumentIds(ctx context.Context, collectionId string) ([]string, error)

	CreateChatHistory(ctx context.Context, h docmodel.ChatHistory) error
	AppendChatMessage(ctx context.Context, m docmodel.ChatMessage) error
	ListChatHistories(ctx context.Context, userId string) ([]docmodel.ChatHistory, error)
	ListChatMessages(ctx context.Context, chatHistoryId string) ([]docmodel.ChatMessage, error)
}
