package biz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rayyan1704/StudyMate/pkg/errors"
)

func TestRouteKnownModes(t *testing.T) {
	for _, mode := range Modes() {
		p, err := Route(mode)
		require.NoError(t, err, mode)
		assert.Equal(t, mode, p.Name)
		assert.NotEmpty(t, p.Instruction)
		assert.Greater(t, p.TopK, 0)
	}
}

func TestRouteEmptyModeMeansChat(t *testing.T) {
	p, err := Route("")
	require.NoError(t, err)
	assert.Equal(t, ModeChat, p.Name)
}

func TestRouteUnknownMode(t *testing.T) {
	_, err := Route("karaoke")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrUnknownMode.Code))
}

func TestRouteOrChatFallsBack(t *testing.T) {
	p := RouteOrChat("karaoke")
	assert.Equal(t, ModeChat, p.Name)

	p = RouteOrChat(ModeQuiz)
	assert.Equal(t, ModeQuiz, p.Name)
}

func TestBudgetSharesSumToOne(t *testing.T) {
	for _, mode := range Modes() {
		p, err := Route(mode)
		require.NoError(t, err)
		sum := p.InstructionShare + p.PassageShare + p.HistoryShare
		assert.InDelta(t, 1.0, float64(sum), 1e-6, mode)
	}
}

func TestNotesAndTutorFavorPassages(t *testing.T) {
	chat, _ := Route(ModeChat)
	tutor, _ := Route(ModeTutor)
	notes, _ := Route(ModeNotes)

	assert.Greater(t, tutor.PassageShare, chat.PassageShare)
	assert.Greater(t, notes.PassageShare, chat.PassageShare)
	assert.Greater(t, notes.TopK, chat.TopK)
}
