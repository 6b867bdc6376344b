// Package biz implements the StudyMate retrieval engine: document
// ingestion, per-session retrieval, mode routing, context assembly,
// and session lifecycle.
package biz
