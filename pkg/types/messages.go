package types

import (
	"strings"

	"github.com/quizwall/backend/internal/game"
)

// Server -> client event names. Payloads are full-state replacements where
// a list is involved, so a client can apply a re-delivered or reordered
// event and land on the same state.
const (
	EventState            = "state"
	EventNewAnswer        = "new_answer"
	EventNewVote          = "new_vote"
	EventRevealVotes      = "reveal_votes"
	EventClearVotes       = "clear_votes"
	EventGameReset        = "game_reset"
	EventNextQuestion     = "next_question"
	EventAnswerVisibility = "answer_visibility_changed"
	EventUpdatedAnswers   = "updated_answers"
)

// ServerEvent is the envelope pushed over the websocket.
type ServerEvent struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// AnswerView is the wire shape of one answer.
type AnswerView struct {
	ID         int      `json:"id"`
	QuestionID int      `json:"question_id"`
	UserID     string   `json:"user_id"`
	Text       string   `json:"text"`
	Avatar     string   `json:"avatar"`
	Votes      []string `json:"votes"`
	Visible    bool     `json:"visible"`
	Correct    bool     `json:"is_correct"`
}

// NewAnswerView copies an answer into its wire shape. Avatar names are
// normalized with a .png suffix so clients can use the value as a file name
// directly.
func NewAnswerView(a *game.Answer) AnswerView {
	votes := make([]string, len(a.Votes))
	copy(votes, a.Votes)
	return AnswerView{
		ID:         a.ID,
		QuestionID: a.QuestionID,
		UserID:     a.AuthorID,
		Text:       a.Text,
		Avatar:     normalizeAvatar(a.Avatar),
		Votes:      votes,
		Visible:    a.Visible,
		Correct:    a.Correct,
	}
}

func AnswerViews(answers []*game.Answer) []AnswerView {
	out := make([]AnswerView, len(answers))
	for i, a := range answers {
		out[i] = NewAnswerView(a)
	}
	return out
}

func normalizeAvatar(avatar string) string {
	if avatar == "" || strings.HasSuffix(avatar, ".png") {
		return avatar
	}
	return avatar + ".png"
}

// GameState is the pull snapshot served to late joiners and returned by
// GET /get_game_state.
type GameState struct {
	CurrentQuestion game.Question `json:"current_question"`
	Answers         []AnswerView  `json:"answers"`
	Reveal          bool          `json:"reveal"`
}

// RevealedAnswer is one entry of the reveal_votes payload: the answer text
// with full per-voter attribution.
type RevealedAnswer struct {
	Text    string   `json:"text"`
	VotedBy []string `json:"votedBy"`
	Correct bool     `json:"is_correct"`
}

type NewAnswerPayload struct {
	Answers []AnswerView `json:"answers"`
}

type NewVotePayload struct {
	AnswerID int `json:"answer_id"`
	Votes    int `json:"votes"`
}

type RevealPayload struct {
	Reveal  bool             `json:"reveal"`
	Answers []RevealedAnswer `json:"answers"`
}

type MessagePayload struct {
	Message string `json:"message"`
}

type NextQuestionPayload struct {
	Question game.Question `json:"question"`
}

type AnswerVisibilityPayload struct {
	AnswerID int  `json:"answer_id"`
	Visible  bool `json:"visible"`
}

type UpdatedAnswersPayload struct {
	Answers []AnswerView `json:"answers"`
}
