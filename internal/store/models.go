package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence.
type DocumentModel struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"not null;index"`
	Title     string `gorm:"not null"`
	FileName  string `gorm:"not null"`
	FileSize  int64  `gorm:"not null"`
	FileType  string `gorm:"not null"`
	Status    string `gorm:"not null"`
	PageCount *int
	CreatedAt time.Time `gorm:"not null"`
}

type ChunkModel struct {
	ID         string `gorm:"primaryKey"`
	DocumentID string `gorm:"not null;index"`
	Text       string `gorm:"not null"`
	Page       int    `gorm:"not null"`
	Section    string
	Keywords   datatypes.JSONSlice[string]
	VectorID   string    `gorm:"uniqueIndex;not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

type CollectionModel struct {
	ID        string    `gorm:"primaryKey"`
	UserID    string    `gorm:"not null;index"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// DocumentCollectionModel is the many-to-many link, unique per pair.
type DocumentCollectionModel struct {
	DocumentID   string    `gorm:"primaryKey"`
	CollectionID string    `gorm:"primaryKey"`
	CreatedAt    time.Time `gorm:"not null"`
}

type ChatHistoryModel struct {
	ID           string `gorm:"primaryKey"`
	UserID       string `gorm:"not null;index"`
	DocumentID   *string
	CollectionID *string
	Query        string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

type ChatMessageModel struct {
	ID            string    `gorm:"primaryKey"`
	ChatHistoryID string    `gorm:"not null;index"`
	Role          string    `gorm:"not null"`
	Content       string    `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null;index"`
}
