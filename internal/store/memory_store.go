package store

import (
	"context"
	"sort"
	"sync"

	"github.com/agentdoc/agentdoc/internal/domain/docmodel"
	"github.com/agentdoc/agentdoc/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem Store")

// MemoryStore is the in-process Store used when no database DSN is configured,
// and as the test double. Chunk order is insertion order, matching the
// "storage order, no ranking" contract of the relational fallback tier.
type MemoryStore struct {
	mu sync.RWMutex

	documents   map[string]docmodel.Document
	chunks      []docmodel.Chunk
	collections map[string]docmodel.Collection
	links       map[string]map[string]struct{} // collectionId -> documentIds
	histories   map[string]docmodel.ChatHistory
	messages    []docmodel.ChatMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		documents:   make(map[string]docmodel.Document),
		collections: make(map[string]docmodel.Collection),
		links:       make(map[string]map[string]struct{}),
		histories:   make(map[string]docmodel.ChatHistory),
	}
}

func (s *MemoryStore) CreateDocument(ctx context.Context, doc docmodel.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.Id] = doc
	inMemLogger.Debug("saved document", "id", doc.Id)
	return nil
}

func (s *MemoryStore) GetDocument(ctx context.Context, id string, userId string) (docmodel.Document, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, found := s.documents[id]
	if !found || doc.UserId != userId {
		return docmodel.Document{}, false, nil
	}
	return doc, true, nil
}

func (s *MemoryStore) SetDocumentStatus(ctx context.Context, id string, status docmodel.DocStatus, pageCount *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, found := s.documents[id]
	if !found {
		return docmodel.ErrNotFound
	}
	doc.Status = status
	if pageCount != nil {
		doc.PageCount = pageCount
	}
	s.documents[id] = doc
	return nil
}

func (s *MemoryStore) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)

	kept := s.chunks[:0]
	for _, c := range s.chunks {
		if c.DocumentId != id {
			kept = append(kept, c)
		}
	}
	s.chunks = kept

	for _, docs := range s.links {
		delete(docs, id)
	}
	return nil
}

func (s *MemoryStore) ListDocumentIdsByOwner(ctx context.Context, userId string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for id, doc := range s.documents {
		if doc.UserId == userId {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) CreateChunks(ctx context.Context, chunks []docmodel.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunks...)
	return nil
}

func (s *MemoryStore) ListChunks(ctx context.Context, documentIds []string, limit int) ([]RetrievedChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed := make(map[string]struct{}, len(documentIds))
	for _, id := range documentIds {
		allowed[id] = struct{}{}
	}

	var res []RetrievedChunk
	for _, c := range s.chunks {
		if _, ok := allowed[c.DocumentId]; !ok {
			continue
		}
		doc := s.documents[c.DocumentId]
		res = append(res, RetrievedChunk{Chunk: c, DocTitle: doc.Title, DocFile: doc.FileName})
		if len(res) == limit {
			break
		}
	}
	return res, nil
}

func (s *MemoryStore) CreateCollection(ctx context.Context, c docmodel.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[c.Id] = c
	return nil
}

func (s *MemoryStore) GetCollection(ctx context.Context, id string, userId string) (docmodel.Collection, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, found := s.collections[id]
	if !found || c.UserId != userId {
		return docmodel.Collection{}, false, nil
	}
	return c, true, nil
}

func (s *MemoryStore) AddDocumentToCollection(ctx context.Context, documentId string, collectionId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.links[collectionId] == nil {
		s.links[collectionId] = make(map[string]struct{})
	}
	s.links[collectionId][documentId] = struct{}{}
	return nil
}

func (s *MemoryStore) ListCollectionDocumentIds(ctx context.Context, collectionId string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for id := range s.links[collectionId] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) CreateChatHistory(ctx context.Context, h docmodel.ChatHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histories[h.Id] = h
	return nil
}

func (s *MemoryStore) AppendChatMessage(ctx context.Context, m docmodel.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, m)
	return nil
}

func (s *MemoryStore) ListChatHistories(ctx context.Context, userId string) ([]docmodel.ChatHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []docmodel.ChatHistory
	for _, h := range s.histories {
		if h.UserId == userId {
			res = append(res, h)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

func (s *MemoryStore) ListChatMessages(ctx context.Context, chatHistoryId string) ([]docmodel.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []docmodel.ChatMessage
	for _, m := range s.messages {
		if m.ChatHistoryId == chatHistoryId {
			res = append(res, m)
		}
	}
	return res, nil
}
