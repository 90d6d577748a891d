package game

// Answer is one submitted answer and its votes. Votes keeps cast order for
// stable votedBy rendering; voterSet backs O(1) duplicate detection.
type Answer struct {
	ID         int      `json:"id"`
	QuestionID int      `json:"question_id"`
	AuthorID   string   `json:"user_id"`
	Text       string   `json:"text"`
	Avatar     string   `json:"avatar"`
	Votes      []string `json:"votes"`
	Visible    bool     `json:"visible"`
	Correct    bool     `json:"is_correct"`

	voterSet map[string]struct{}
}

func newAnswer(id, questionID int, authorID, text, avatar string) *Answer {
	return &Answer{
		ID:         id,
		QuestionID: questionID,
		AuthorID:   authorID,
		Text:       text,
		Avatar:     avatar,
		Votes:      []string{},
		voterSet:   map[string]struct{}{},
	}
}

// HasVote reports whether participantID already voted for this answer.
func (a *Answer) HasVote(participantID string) bool {
	_, ok := a.voterSet[participantID]
	return ok
}

// AnswerStore holds the answers of the current round keyed by id while
// preserving submission order, which is the canonical display order.
type AnswerStore struct {
	byID  map[int]*Answer
	order []*Answer
}

func NewAnswerStore() *AnswerStore {
	return &AnswerStore{byID: map[int]*Answer{}}
}

func (s *AnswerStore) Get(id int) (*Answer, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// All returns the answers in submission order.
func (s *AnswerStore) All() []*Answer {
	out := make([]*Answer, len(s.order))
	copy(out, s.order)
	return out
}

func (s *AnswerStore) Len() int { return len(s.order) }

func (s *AnswerStore) Insert(a *Answer) {
	s.byID[a.ID] = a
	s.order = append(s.order, a)
}

// AddVote records participantID's vote on the given answer. added is false
// when the participant had already voted (the set is unchanged); ok is false
// when the answer does not exist.
func (s *AnswerStore) AddVote(id int, participantID string) (added, ok bool) {
	a, ok := s.byID[id]
	if !ok {
		return false, false
	}
	if a.HasVote(participantID) {
		return false, true
	}
	a.voterSet[participantID] = struct{}{}
	a.Votes = append(a.Votes, participantID)
	return true, true
}

// ClearVotes empties every answer's voter set.
func (s *AnswerStore) ClearVotes() {
	for _, a := range s.order {
		a.Votes = []string{}
		a.voterSet = map[string]struct{}{}
	}
}

// Clear drops all answers.
func (s *AnswerStore) Clear() {
	s.byID = map[int]*Answer{}
	s.order = nil
}
