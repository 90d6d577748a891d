package game

import (
	"errors"
	"strings"
)

var ErrStaleQuestion = errors.New("question is no longer active")
var ErrAlreadyRevealed = errors.New("votes already revealed")
var ErrEmptyAnswer = errors.New("answer text is empty")
var ErrAnswerNotFound = errors.New("answer not found")

// Question is one entry of the catalog; exactly one is active per round.
type Question struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Session is the state machine for one live round: the active question, the
// answers collected so far, and whether votes have been revealed. It is not
// safe for concurrent use; the room actor is its single writer.
type Session struct {
	question Question
	answers  *AnswerStore
	revealed bool
	nextID   int
}

func NewSession(q Question) *Session {
	return &Session{
		question: q,
		answers:  NewAnswerStore(),
		nextID:   1,
	}
}

func (s *Session) Question() Question { return s.question }
func (s *Session) Revealed() bool     { return s.revealed }

// Answers returns the collected answers in submission order. The order is
// never re-sorted by vote count: first submitted keeps the first slot.
func (s *Session) Answers() []*Answer { return s.answers.All() }

// SubmitAnswer records a new answer for the active question. Answer ids are
// monotonically increasing for the whole session, including across resets,
// so a re-delivered event can never alias a different answer.
func (s *Session) SubmitAnswer(participantID string, questionID int, text, avatar string) (*Answer, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyAnswer
	}
	if questionID != s.question.ID {
		return nil, ErrStaleQuestion
	}
	if s.revealed {
		return nil, ErrAlreadyRevealed
	}

	a := newAnswer(s.nextID, questionID, participantID, text, avatar)
	s.nextID++
	s.answers.Insert(a)
	return a, nil
}

// CastVote adds participantID to the answer's voter set and returns the
// resulting count. A repeat vote by the same participant is a successful
// no-op: the count is returned unchanged and no error is reported.
func (s *Session) CastVote(participantID string, answerID int) (int, error) {
	if s.revealed {
		return 0, ErrAlreadyRevealed
	}
	a, ok := s.answers.Get(answerID)
	if !ok {
		return 0, ErrAnswerNotFound
	}
	s.answers.AddVote(answerID, participantID)
	return len(a.Votes), nil
}

// Reveal freezes voting and returns the answers with their voter sets.
// Calling it again while already revealed returns the same snapshot.
func (s *Session) Reveal() []*Answer {
	s.revealed = true
	return s.answers.All()
}

// ClearVotes empties every answer's voter set without touching the answers
// themselves or the revealed flag.
func (s *Session) ClearVotes() {
	s.answers.ClearVotes()
}

// Reset drops all answers and re-enters the collecting phase. If next is
// non-nil the active question rotates to it.
func (s *Session) Reset(next *Question) {
	s.answers.Clear()
	s.revealed = false
	if next != nil {
		s.question = *next
	}
}

// SetQuestion activates a new question. Answers from the previous question
// are purged so that every stored answer always belongs to the active one,
// and voting re-opens.
func (s *Session) SetQuestion(q Question) {
	s.question = q
	s.answers.Clear()
	s.revealed = false
}

// ToggleVisibility flips the answer's visible flag and returns the new value.
func (s *Session) ToggleVisibility(answerID int) (bool, error) {
	a, ok := s.answers.Get(answerID)
	if !ok {
		return false, ErrAnswerNotFound
	}
	a.Visible = !a.Visible
	return a.Visible, nil
}

// MarkCorrect flips the answer's correctness flag and returns the new value.
func (s *Session) MarkCorrect(answerID int) (bool, error) {
	a, ok := s.answers.Get(answerID)
	if !ok {
		return false, ErrAnswerNotFound
	}
	a.Correct = !a.Correct
	return a.Correct, nil
}
