package model

import (
	"encoding/binary"
	"math"
	"time"
)

// Document status values. A document is pending from upload until its
// chunks are committed, then processed; failures carry a detail.
const (
	DocumentStatusPending   = "pending"
	DocumentStatusProcessed = "processed"
	DocumentStatusFailed    = "failed"
)

// Document represents one uploaded file within a session.
type Document struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	SessionID   string    `json:"session_id" gorm:"type:varchar(64);index;not null"`
	Filename    string    `json:"filename" gorm:"type:varchar(512);not null"`
	Format      string    `json:"format" gorm:"type:varchar(16);not null"`
	ByteSize    int64     `json:"byte_size" gorm:"default:0"`
	PageCount   int       `json:"page_count" gorm:"default:0"`
	TextLength  int       `json:"text_length" gorm:"default:0"`
	ChunkCount  int       `json:"chunk_count" gorm:"default:0"`
	Status      string    `json:"status" gorm:"type:varchar(32);default:'pending'"`
	ErrorDetail string    `json:"error_detail,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Document.
func (Document) TableName() string {
	return "documents"
}

// Chunk represents one text chunk of a processed document. The
// embedding is persisted alongside the row so session indexes can be
// rebuilt after a restart without re-embedding the corpus.
type Chunk struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	DocumentID  string    `json:"document_id" gorm:"type:varchar(64);index;not null"`
	SessionID   string    `json:"session_id" gorm:"type:varchar(64);index;not null"`
	Ordinal     int       `json:"ordinal" gorm:"not null"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	StartOffset int       `json:"start_offset" gorm:"default:0"`
	EndOffset   int       `json:"end_offset" gorm:"default:0"`
	Embedding   []byte    `json:"-" gorm:"type:blob"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for Chunk.
func (Chunk) TableName() string {
	return "chunks"
}

// EncodeEmbedding packs a vector into the chunk embedding column as
// little-endian IEEE 754 floats.
func EncodeEmbedding(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, x := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(x))
	}
	return buf
}

// DecodeEmbedding unpacks an embedding column value. A nil or
// truncated value yields nil.
func DecodeEmbedding(buf []byte) []float32 {
	if len(buf) == 0 || len(buf)%4 != 0 {
		return nil
	}
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return vec
}
