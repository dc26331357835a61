package docmodel

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type DocStatus string

const (
	StatusProcessing DocStatus = "PROCESSING"
	StatusCompleted  DocStatus = "COMPLETED"
	StatusFailed     DocStatus = "FAILED"
)

type Document struct {
	Id        string    `json:"id"`
	UserId    string    `json:"user_id"`
	Title     string    `json:"title"`
	FileName  string    `json:"file_name"`
	FileSize  int64     `json:"file_size"`
	FileType  string    `json:"file_type"`
	Status    DocStatus `json:"status"`
	PageCount *int      `json:"page_count,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Chunk is one page/section scoped slice of extracted text plus its keywords.
// Immutable once written; deleted together with its Document.
type Chunk struct {
	Id         string    `json:"id"`
	DocumentId string    `json:"document_id"`
	Text       string    `json:"text"`
	Page       int       `json:"page"`
	Section    string    `json:"section"`
	Keywords   []string  `json:"keywords"`
	VectorId   string    `json:"vector_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type Collection struct {
	Id        string    `json:"id"`
	UserId    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatHistory struct {
	Id           string    `json:"id"`
	UserId       string    `json:"user_id"`
	DocumentId   string    `json:"document_id,omitempty"`
	CollectionId string    `json:"collection_id,omitempty"`
	Query        string    `json:"query"`
	CreatedAt    time.Time `json:"created_at"`
}

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	Id            string    `json:"id"`
	ChatHistoryId string    `json:"chat_history_id"`
	Role          ChatRole  `json:"role"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
}

// Passage is what retrieval hands to generation: one citable excerpt.
type Passage struct {
	Id         string `json:"id"`
	Text       string `json:"text"`
	DocumentId string `json:"document_id"`
	Page       int    `json:"page"`
	Title      string `json:"title"`
	File       string `json:"file"`
}

// nsChunkVector namespaces the deterministic vector point ids.
var nsChunkVector = uuid.MustParse("9f2c1d4e-7b7a-4f7e-9c31-5a8d0d6b2f11")

// VectorId derives the vector index id for a chunk. Qdrant only accepts UUIDs or
// unsigned integers as point ids, so the id is a SHA1 UUID over documentId:ordinal.
// It stays unique across the index and reconstructible from its inputs.
func VectorId(documentId string, ordinal int) string {
	return uuid.NewSHA1(nsChunkVector, []byte(fmt.Sprintf("%s:%d", documentId, ordinal))).String()
}
