package biz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rayyan1704/StudyMate/internal/model"
	"github.com/Rayyan1704/StudyMate/pkg/errors"
)

func chatProfile() *ModeProfile {
	p, _ := Route(ModeChat)
	return p
}

func retrievalOf(chunks ...model.RetrievedChunk) *model.RetrievalResult {
	return &model.RetrievalResult{Query: "q", Mode: ModeChat, Chunks: chunks}
}

func TestAssembleBudgetTooSmall(t *testing.T) {
	a := NewAssembler(10, 20)

	_, err := a.Assemble(chatProfile(), nil, nil, "hello")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrBudgetTooSmall.Code))
}

func TestAssembleNeverTruncatesInstructionOrMessage(t *testing.T) {
	a := NewAssembler(4096, 20)

	payload, err := a.Assemble(chatProfile(), nil, nil, "explain the calvin cycle")
	require.NoError(t, err)
	assert.Equal(t, chatProfile().Instruction, payload.Instruction)
	assert.Equal(t, "explain the calvin cycle", payload.Message)
	assert.LessOrEqual(t, payload.TokenCount, payload.TokenBudget)
}

func TestAssembleDropsHistoryOldestFirst(t *testing.T) {
	a := NewAssembler(200, 20)

	// the long turns are ~60 tokens each; the full window cannot fit
	history := []model.Turn{
		{Role: "user", Content: strings.Repeat("old ", 60)},
		{Role: "assistant", Content: strings.Repeat("mid ", 60)},
		{Role: "user", Content: "newest question"},
	}
	payload, err := a.Assemble(chatProfile(), nil, history, "go on")
	require.NoError(t, err)
	require.NotEmpty(t, payload.History)
	assert.Less(t, len(payload.History), len(history))
	assert.Equal(t, "newest question", payload.History[len(payload.History)-1].Content)
	assert.LessOrEqual(t, payload.TokenCount, 200)

	// the survivors are a suffix of the input, in order
	for i, turn := range payload.History {
		assert.Equal(t, history[len(history)-len(payload.History)+i].Content, turn.Content)
	}
}

func TestAssembleDropsLowestScoringPassagesFirst(t *testing.T) {
	a := NewAssembler(300, 20)

	big := strings.Repeat("content ", 60) // ~120 tokens each
	retrieval := retrievalOf(
		model.RetrievedChunk{ChunkID: "best", Content: big, Score: 0.9, Ordinals: []int{0}},
		model.RetrievedChunk{ChunkID: "good", Content: big, Score: 0.7, Ordinals: []int{1}},
		model.RetrievedChunk{ChunkID: "weak", Content: big, Score: 0.3, Ordinals: []int{2}},
	)
	payload, err := a.Assemble(chatProfile(), retrieval, nil, "q")
	require.NoError(t, err)
	require.NotEmpty(t, payload.Passages)
	assert.InDelta(t, 0.9, float64(payload.Passages[0].Score), 1e-6)
	assert.Less(t, len(payload.Passages), 3)
	assert.LessOrEqual(t, payload.TokenCount, 300)
}

func TestAssembleUnusedHistoryShareFlowsToPassages(t *testing.T) {
	a := NewAssembler(400, 20)

	// no history at all: passages may spend the whole variable budget
	big := strings.Repeat("content ", 80) // ~160 tokens
	retrieval := retrievalOf(
		model.RetrievedChunk{ChunkID: "c1", Content: big, Score: 0.9, Ordinals: []int{0}},
		model.RetrievedChunk{ChunkID: "c2", Content: big, Score: 0.8, Ordinals: []int{1}},
	)
	payload, err := a.Assemble(chatProfile(), retrieval, nil, "q")
	require.NoError(t, err)

	// the chat passage share alone (~55% of the remainder) fits only one
	// of these chunks; with the history share folded in, both fit
	assert.Len(t, payload.Passages, 2)
}

func TestAssembleEmptyRetrievalIsValid(t *testing.T) {
	a := NewAssembler(4096, 20)

	payload, err := a.Assemble(chatProfile(), retrievalOf(), []model.Turn{
		{Role: "user", Content: "hi"},
	}, "just chatting")
	require.NoError(t, err)
	assert.Empty(t, payload.Passages)
	assert.Len(t, payload.History, 1)
}

func TestAssembleHonorsHistoryWindow(t *testing.T) {
	a := NewAssembler(4096, 2)

	history := []model.Turn{
		{Role: "user", Content: "one"},
		{Role: "assistant", Content: "two"},
		{Role: "user", Content: "three"},
	}
	payload, err := a.Assemble(chatProfile(), nil, history, "q")
	require.NoError(t, err)
	require.Len(t, payload.History, 2)
	assert.Equal(t, "two", payload.History[0].Content)
	assert.Equal(t, "three", payload.History[1].Content)
}

func TestAssembleDeterministic(t *testing.T) {
	a := NewAssembler(500, 20)

	history := []model.Turn{
		{Role: "user", Content: strings.Repeat("alpha ", 30)},
		{Role: "assistant", Content: strings.Repeat("beta ", 30)},
	}
	retrieval := retrievalOf(
		model.RetrievedChunk{ChunkID: "c1", Content: strings.Repeat("gamma ", 40), Score: 0.8, Ordinals: []int{0}},
		model.RetrievedChunk{ChunkID: "c2", Content: strings.Repeat("delta ", 40), Score: 0.6, Ordinals: []int{1}},
	)

	first, err := a.Assemble(chatProfile(), retrieval, history, "question")
	require.NoError(t, err)
	second, err := a.Assemble(chatProfile(), retrieval, history, "question")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
