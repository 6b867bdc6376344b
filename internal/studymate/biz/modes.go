package biz

import (
	"github.com/kart-io/logger"

	"github.com/Rayyan1704/StudyMate/pkg/errors"
)

// Interaction modes.
const (
	ModeChat  = "chat"
	ModeTutor = "tutor"
	ModeNotes = "notes"
	ModeQuiz  = "quiz"
)

// ModeProfile drives retrieval and assembly for one interaction mode.
// Budget shares sum to 1.0; the assembler lets unused history share
// flow to passages and vice versa before dropping anything.
type ModeProfile struct {
	Name        string
	Instruction string
	TopK        int
	// Budget shares of the total token budget.
	InstructionShare float32
	PassageShare     float32
	HistoryShare     float32
}

const instructionPreamble = "You are StudyMate AI, a personalized learning companion. "

var modeProfiles = map[string]*ModeProfile{
	ModeChat: {
		Name: ModeChat,
		Instruction: instructionPreamble +
			"Provide a conversational, helpful response. Answer the student's " +
			"question using the provided study material; explain concepts in " +
			"simple, clear terms and mention what additional information would " +
			"help if the material does not fully answer the question.",
		TopK:             5,
		InstructionShare: 0.10,
		PassageShare:     0.55,
		HistoryShare:     0.35,
	},
	ModeTutor: {
		Name: ModeTutor,
		Instruction: instructionPreamble +
			"Act as an educational tutor. Explain concepts clearly with " +
			"examples, break down complex topics step by step, and encourage " +
			"learning. Ground every explanation in the provided study material.",
		TopK:             8,
		InstructionShare: 0.10,
		PassageShare:     0.60,
		HistoryShare:     0.30,
	},
	ModeNotes: {
		Name: ModeNotes,
		Instruction: instructionPreamble +
			"Create structured, well-organized study notes with headings and " +
			"bullet points from the provided material. Cover the material " +
			"thoroughly rather than answering conversationally.",
		TopK:             10,
		InstructionShare: 0.10,
		PassageShare:     0.80,
		HistoryShare:     0.10,
	},
	ModeQuiz: {
		Name: ModeQuiz,
		Instruction: instructionPreamble +
			"Generate relevant practice questions with answers and short " +
			"explanations based on the provided material. Vary question types " +
			"and difficulty.",
		TopK:             5,
		InstructionShare: 0.10,
		PassageShare:     0.70,
		HistoryShare:     0.20,
	},
}

// Route returns the profile for a mode, or UnknownMode for anything
// unrecognized. The empty mode means chat.
func Route(mode string) (*ModeProfile, error) {
	if mode == "" {
		return modeProfiles[ModeChat], nil
	}
	if p, ok := modeProfiles[mode]; ok {
		return p, nil
	}
	return nil, errors.ErrUnknownMode.WithMessagef("unknown mode %q", mode)
}

// RouteOrChat resolves a mode, logging and falling back to chat when
// the mode is unrecognized. Returns the effective profile.
func RouteOrChat(mode string) *ModeProfile {
	p, err := Route(mode)
	if err != nil {
		logger.Warnw("unknown interaction mode, falling back to chat", "mode", mode)
		return modeProfiles[ModeChat]
	}
	return p
}

// Modes lists the recognized mode names.
func Modes() []string {
	return []string{ModeChat, ModeTutor, ModeNotes, ModeQuiz}
}
