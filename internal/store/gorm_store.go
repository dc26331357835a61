package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agentdoc/agentdoc/internal/domain/docmodel"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(
		&DocumentModel{}, &ChunkModel{}, &CollectionModel{},
		&DocumentCollectionModel{}, &ChatHistoryModel{}, &ChatMessageModel{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) CreateDocument(ctx context.Context, doc docmodel.Document) error {
	model := documentToModel(doc)
	return s.db.WithContext(ctx).Create(&model).Error
}

func (s *GormStore) GetDocument(ctx context.Context, id string, userId string) (docmodel.Document, bool, error) {
	var model DocumentModel
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userId).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return docmodel.Document{}, false, nil
	}
	if err != nil {
		return docmodel.Document{}, false, err
	}
	return documentFromModel(model), true, nil
}

func (s *GormStore) SetDocumentStatus(ctx context.Context, id string, status docmodel.DocStatus, pageCount *int) error {
	updates := map[string]any{"status": string(status)}
	if pageCount != nil {
		updates["page_count"] = *pageCount
	}
	return s.db.WithContext(ctx).Model(&DocumentModel{}).Where("id = ?", id).Updates(updates).Error
}

// DeleteDocument cascades to chunks and collection links in one transaction.
// The vector index twin is cleaned up by the caller, best-effort.
func (s *GormStore) DeleteDocument(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&ChunkModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("document_id = ?", id).Delete(&DocumentCollectionModel{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&DocumentModel{}).Error
	})
}

func (s *GormStore) ListDocumentIdsByOwner(ctx context.Context, userId string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&DocumentModel{}).
		Where("user_id = ?", userId).Order("created_at ASC").Pluck("id", &ids).Error
	return ids, err
}

func (s *GormStore) CreateChunks(ctx context.Context, chunks []docmodel.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]ChunkModel, 0, len(chunks))
	for _, c := range chunks {
		models = append(models, chunkToModel(c))
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&models).Error
}

func (s *GormStore) ListChunks(ctx context.Context, documentIds []string, limit int) ([]RetrievedChunk, error) {
	if len(documentIds) == 0 {
		return nil, nil
	}

	q := s.db.WithContext(ctx).Where("document_id IN ?", documentIds)
	if limit > 0 {
		q = q.Limit(limit)
	}
	var models []ChunkModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}

	docMeta := make(map[string]DocumentModel)
	var docs []DocumentModel
	if err := s.db.WithContext(ctx).Where("id IN ?", documentIds).Find(&docs).Error; err != nil {
		return nil, err
	}
	for _, d := range docs {
		docMeta[d.ID] = d
	}

	res := make([]RetrievedChunk, 0, len(models))
	for _, m := range models {
		meta := docMeta[m.DocumentID]
		res = append(res, RetrievedChunk{
			Chunk:    chunkFromModel(m),
			DocTitle: meta.Title,
			DocFile:  meta.FileName,
		})
	}
	return res, nil
}

func (s *GormStore) CreateCollection(ctx context.Context, c docmodel.Collection) error {
	model := CollectionModel{ID: c.Id, UserID: c.UserId, Name: c.Name, CreatedAt: c.CreatedAt}
	return s.db.WithContext(ctx).Create(&model).Error
}

func (s *GormStore) GetCollection(ctx context.Context, id string, userId string) (docmodel.Collection, bool, error) {
	var model CollectionModel
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userId).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return docmodel.Collection{}, false, nil
	}
	if err != nil {
		return docmodel.Collection{}, false, err
	}
	return docmodel.Collection{Id: model.ID, UserId: model.UserID, Name: model.Name, CreatedAt: model.CreatedAt}, true, nil
}

func (s *GormStore) AddDocumentToCollection(ctx context.Context, documentId string, collectionId string) error {
	link := DocumentCollectionModel{DocumentID: documentId, CollectionID: collectionId, CreatedAt: time.Now().UTC()}
	// unique per (document, collection) pair
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

func (s *GormStore) ListCollectionDocumentIds(ctx context.Context, collectionId string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&DocumentCollectionModel{}).
		Where("collection_id = ?", collectionId).Pluck("document_id", &ids).Error
	return ids, err
}

func (s *GormStore) CreateChatHistory(ctx context.Context, h docmodel.ChatHistory) error {
	model := chatHistoryToModel(h)
	return s.db.WithContext(ctx).Create(&model).Error
}

func (s *GormStore) AppendChatMessage(ctx context.Context, m docmodel.ChatMessage) error {
	model := ChatMessageModel{
		ID:            m.Id,
		ChatHistoryID: m.ChatHistoryId,
		Role:          string(m.Role),
		Content:       m.Content,
		CreatedAt:     m.CreatedAt,
	}
	return s.db.WithContext(ctx).Create(&model).Error
}

func (s *GormStore) ListChatHistories(ctx context.Context, userId string) ([]docmodel.ChatHistory, error) {
	var models []ChatHistoryModel
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userId).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]docmodel.ChatHistory, 0, len(models))
	for _, m := range models {
		res = append(res, chatHistoryFromModel(m))
	}
	return res, nil
}

func (s *GormStore) ListChatMessages(ctx context.Context, chatHistoryId string) ([]docmodel.ChatMessage, error) {
	var models []ChatMessageModel
	if err := s.db.WithContext(ctx).
		Where("chat_history_id = ?", chatHistoryId).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]docmodel.ChatMessage, 0, len(models))
	for _, m := range models {
		res = append(res, docmodel.ChatMessage{
			Id:            m.ID,
			ChatHistoryId: m.ChatHistoryID,
			Role:          docmodel.ChatRole(m.Role),
			Content:       m.Content,
			CreatedAt:     m.CreatedAt,
		})
	}
	return res, nil
}

// --- model conversion ---

func documentToModel(d docmodel.Document) DocumentModel {
	return DocumentModel{
		ID:        d.Id,
		UserID:    d.UserId,
		Title:     d.Title,
		FileName:  d.FileName,
		FileSize:  d.FileSize,
		FileType:  d.FileType,
		Status:    string(d.Status),
		PageCount: d.PageCount,
		CreatedAt: d.CreatedAt,
	}
}

func documentFromModel(m DocumentModel) docmodel.Document {
	return docmodel.Document{
		Id:        m.ID,
		UserId:    m.UserID,
		Title:     m.Title,
		FileName:  m.FileName,
		FileSize:  m.FileSize,
		FileType:  m.FileType,
		Status:    docmodel.DocStatus(m.Status),
		PageCount: m.PageCount,
		CreatedAt: m.CreatedAt,
	}
}

func chunkToModel(c docmodel.Chunk) ChunkModel {
	return ChunkModel{
		ID:         c.Id,
		DocumentID: c.DocumentId,
		Text:       c.Text,
		Page:       c.Page,
		Section:    c.Section,
		Keywords:   datatypes.NewJSONSlice(c.Keywords),
		VectorID:   c.VectorId,
		CreatedAt:  c.CreatedAt,
	}
}

func chunkFromModel(m ChunkModel) docmodel.Chunk {
	return docmodel.Chunk{
		Id:         m.ID,
		DocumentId: m.DocumentID,
		Text:       m.Text,
		Page:       m.Page,
		Section:    m.Section,
		Keywords:   []string(m.Keywords),
		VectorId:   m.VectorID,
		CreatedAt:  m.CreatedAt,
	}
}

func chatHistoryToModel(h docmodel.ChatHistory) ChatHistoryModel {
	model := ChatHistoryModel{
		ID:        h.Id,
		UserID:    h.UserId,
		Query:     h.Query,
		CreatedAt: h.CreatedAt,
	}
	if h.DocumentId != "" {
		model.DocumentID = &h.DocumentId
	}
	if h.CollectionId != "" {
		model.CollectionID = &h.CollectionId
	}
	return model
}

func chatHistoryFromModel(m ChatHistoryModel) docmodel.ChatHistory {
	h := docmodel.ChatHistory{
		Id:        m.ID,
		UserId:    m.UserID,
		Query:     m.Query,
		CreatedAt: m.CreatedAt,
	}
	if m.DocumentID != nil {
		h.DocumentId = *m.DocumentID
	}
	if m.CollectionID != nil {
		h.CollectionId = *m.CollectionID
	}
	return h
}
