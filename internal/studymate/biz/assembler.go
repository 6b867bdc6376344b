package biz

import (
	"github.com/Rayyan1704/StudyMate/internal/model"
	"github.com/Rayyan1704/StudyMate/internal/pkg/textutil"
	"github.com/Rayyan1704/StudyMate/pkg/errors"
)

// Assembler packs the mode instruction, retrieved passages, and recent
// history into a token-bounded payload. The budget is a hard ceiling:
// the instruction and user message are never truncated, history is
// dropped oldest-first beyond its share, and passages are dropped
// lowest-score-first beyond theirs. Unused share from one part flows
// to the other before anything is dropped.
type Assembler struct {
	tokenBudget   int
	historyWindow int
}

// NewAssembler creates an assembler with the given total token budget
// and maximum history window (in turns).
func NewAssembler(tokenBudget, historyWindow int) *Assembler {
	return &Assembler{
		tokenBudget:   tokenBudget,
		historyWindow: historyWindow,
	}
}

// Assemble builds the context payload for one chat turn. The result
// is deterministic: identical inputs always produce an identical
// payload.
func (a *Assembler) Assemble(profile *ModeProfile, retrieval *model.RetrievalResult, history []model.Turn, message string) (*model.ContextPayload, error) {
	fixed := textutil.EstimateTokens(profile.Instruction) + textutil.EstimateTokens(message)
	if fixed > a.tokenBudget {
		return nil, errors.ErrBudgetTooSmall.WithMessagef(
			"instruction and message need %d tokens, budget is %d", fixed, a.tokenBudget)
	}

	remaining := a.tokenBudget - fixed

	// Split the remainder by the mode's shares, ignoring the
	// instruction share already consumed by the fixed part.
	variable := profile.PassageShare + profile.HistoryShare
	historyBudget := int(float32(remaining) * profile.HistoryShare / variable)
	passageBudget := remaining - historyBudget

	if len(history) > a.historyWindow {
		history = history[len(history)-a.historyWindow:]
	}

	// Unused history share flows to passages up front.
	historyNeed := 0
	for i := range history {
		historyNeed += textutil.EstimateTokens(history[i].Content)
	}
	if historyNeed < historyBudget {
		passageBudget += historyBudget - historyNeed
		historyBudget = historyNeed
	}

	passages, passageUsed := a.packPassages(retrieval, passageBudget)

	// And unused passage share flows back to history.
	historyBudget += passageBudget - passageUsed
	kept, historyUsed := a.packHistory(history, historyBudget)

	return &model.ContextPayload{
		Mode:        profile.Name,
		Instruction: profile.Instruction,
		Passages:    passages,
		History:     kept,
		Message:     message,
		TokenCount:  fixed + passageUsed + historyUsed,
		TokenBudget: a.tokenBudget,
	}, nil
}

// packPassages keeps the highest-scoring retrieval units that fit in
// the budget. Retrieval results arrive in descending score order, so
// the lowest-scoring units are dropped first.
func (a *Assembler) packPassages(retrieval *model.RetrievalResult, budget int) ([]model.PassagePart, int) {
	if retrieval == nil || len(retrieval.Chunks) == 0 {
		return nil, 0
	}

	var parts []model.PassagePart
	used := 0
	for i := range retrieval.Chunks {
		c := &retrieval.Chunks[i]
		cost := textutil.EstimateTokens(c.Content)
		if used+cost > budget {
			break
		}
		used += cost
		parts = append(parts, model.PassagePart{
			DocumentID: c.DocumentID,
			Filename:   c.Filename,
			Content:    c.Content,
			Score:      c.Score,
		})
	}
	return parts, used
}

// packHistory keeps the most recent turns that fit, dropping
// oldest-first, and returns them in chronological order.
func (a *Assembler) packHistory(history []model.Turn, budget int) ([]model.Turn, int) {
	if len(history) == 0 {
		return nil, 0
	}

	used := 0
	start := len(history)
	for i := len(history) - 1; i >= 0; i-- {
		cost := textutil.EstimateTokens(history[i].Content)
		if used+cost > budget {
			break
		}
		used += cost
		start = i
	}
	if start == len(history) {
		return nil, 0
	}
	kept := make([]model.Turn, len(history)-start)
	copy(kept, history[start:])
	return kept, used
}
