// Package model provides the data models for StudyMate.
package model

import (
	"time"
)

// Session status values.
const (
	SessionStatusActive   = "active"
	SessionStatusDeleting = "deleting"
)

// Session represents one study session. Documents, chunks, and the
// vector index all hang off a session and share its lifetime.
type Session struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	UserID       string    `json:"user_id" gorm:"type:varchar(64);index;not null"`
	Title        string    `json:"title" gorm:"type:varchar(255)"`
	Status       string    `json:"status" gorm:"type:varchar(32);default:'active'"`
	MessageCount int       `json:"message_count" gorm:"default:0"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Session.
func (Session) TableName() string {
	return "sessions"
}

// SessionStats summarizes a session's retrieval state.
type SessionStats struct {
	SessionID        string `json:"session_id"`
	DocumentCount    int64  `json:"document_count"`
	ProcessedCount   int64  `json:"processed_count"`
	FailedCount      int64  `json:"failed_count"`
	ChunkCount       int64  `json:"chunk_count"`
	TotalTextLength  int64  `json:"total_text_length"`
	IndexVectors     int    `json:"index_vectors"`
	EmbeddingVersion string `json:"embedding_version"`
}
