package model

import "time"

// Turn is one prior exchange in the session's conversation, supplied
// by the caller as read-only history.
type Turn struct {
	Role      string    `json:"role" binding:"required,oneof=user assistant"`
	Content   string    `json:"content" binding:"required"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// RetrievedChunk is one retrieval unit after adjacent-chunk merging.
// Ordinals lists the source chunk ordinals the unit spans; Score is
// the best score among them.
type RetrievedChunk struct {
	ChunkID     string  `json:"chunk_id"`
	DocumentID  string  `json:"document_id"`
	Filename    string  `json:"filename"`
	Ordinals    []int   `json:"ordinals"`
	Content     string  `json:"content"`
	Score       float32 `json:"score"`
	StartOffset int     `json:"start_offset"`
	EndOffset   int     `json:"end_offset"`
}

// RetrievalResult is the output of one retrieval run.
type RetrievalResult struct {
	Query  string           `json:"query"`
	Mode   string           `json:"mode"`
	Chunks []RetrievedChunk `json:"chunks"`
}

// PassagePart is one document passage included in an assembled context.
type PassagePart struct {
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	Content    string  `json:"content"`
	Score      float32 `json:"score"`
}

// ContextPayload is the assembled prompt context handed to the LLM
// client. Assembly is deterministic: the same retrieval result,
// history, and budget always produce the same payload.
type ContextPayload struct {
	Mode        string        `json:"mode"`
	Instruction string        `json:"instruction"`
	Passages    []PassagePart `json:"passages"`
	History     []Turn        `json:"history"`
	Message     string        `json:"message"`
	TokenCount  int           `json:"token_count"`
	TokenBudget int           `json:"token_budget"`
}
