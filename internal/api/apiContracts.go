package api

import "time"

type UploadResponse struct {
	DocumentId string `json:"document_id" example:"doc_a9f3"`
	StatusURL  string `json:"status_url" example:"documents/doc_a9f3"`
}

type DocumentResponse struct {
	Id        string    `json:"id" example:"doc_a9f3"`
	Title     string    `json:"title" example:"Employee Handbook"`
	FileName  string    `json:"file_name" example:"handbook.pdf"`
	FileType  string    `json:"file_type" example:"application/pdf"`
	FileSize  int64     `json:"file_size" example:"204800"`
	Status    string    `json:"status" example:"COMPLETED"`
	PageCount *int      `json:"page_count,omitempty" example:"12"`
	CreatedAt time.Time `json:"created_at"`
}

type ErrorResponse struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"unsupported file format"`
	Id      string `json:"id,omitempty" example:"doc_a9f3"`
}

type ChatHistoryResponse struct {
	Id           string    `json:"id" example:"chat_7c21"`
	DocumentId   string    `json:"document_id,omitempty" example:"doc_a9f3"`
	CollectionId string    `json:"collection_id,omitempty"`
	Query        string    `json:"query" example:"How much vacation carries over?"`
	CreatedAt    time.Time `json:"created_at"`
}

// requests---------------------

type ChatMessage struct {
	Role    string `json:"role" validate:"required" example:"user"`
	Content string `json:"content" validate:"required" example:"How much vacation carries over?"`
}

type ChatRequest struct {
	Messages     []ChatMessage `json:"messages" validate:"required"`
	DocumentId   string        `json:"document_id,omitempty" example:"doc_a9f3"`
	CollectionId string        `json:"collection_id,omitempty"`
}

// SSE payloads---------------------

type StreamSourceEvent struct {
	SourceId   int    `json:"source_id" example:"1"`
	Text       string `json:"text"`
	DocumentId string `json:"document_id"`
	Page       int    `json:"page" example:"4"`
	Title      string `json:"title" example:"Employee Handbook"`
	File       string `json:"file" example:"handbook.pdf"`
}

type StreamDoneEvent struct {
	ChatHistoryId string `json:"chat_history_id" example:"chat_7c21"`
}

type StreamErrorEvent struct {
	Message string `json:"message" example:"generation backend unavailable"`
}
