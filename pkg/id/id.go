// Package id generates identifiers for sessions, documents, and chunks.
//
// Sessions use UUID v4. Documents and chunks use ULIDs so IDs sort by
// creation time, which keeps chunk listings in ingestion order without
// an extra sort column.
package id

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewSessionID returns a new UUID v4 session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// NewDocumentID returns a new ULID document identifier.
func NewDocumentID() string {
	return newULID()
}

// NewChunkID returns a new ULID chunk identifier. Chunk IDs generated in
// sequence are strictly increasing.
func NewChunkID() string {
	return newULID()
}

func newULID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// IsValidSessionID reports whether s is a well-formed UUID.
func IsValidSessionID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// IsValidULID reports whether s is a well-formed ULID.
func IsValidULID(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}

// ULIDTime returns the embedded timestamp of a ULID identifier.
func ULIDTime(s string) (time.Time, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(int64(u.Time())), nil
}
