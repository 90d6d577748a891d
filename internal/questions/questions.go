package questions

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/quizwall/backend/internal/game"
)

var ErrNotFound = errors.New("question not found")

// Defaults seed the catalog when it is empty, so a freshly reset game
// always has something to ask.
var Defaults = []string{
	"What is your favorite color?",
	"What is your favorite animal?",
}

// Repository is the question catalog. The session core only ever reads one
// active question at a time; the catalog is the admin-facing pool it is
// drawn from.
type Repository interface {
	List(ctx context.Context) ([]game.Question, error)
	Get(ctx context.Context, id int) (game.Question, error)
	Add(ctx context.Context, text string) (game.Question, error)
	Remove(ctx context.Context, id int) error
	// Seed inserts the given texts only when the catalog is empty.
	Seed(ctx context.Context, texts []string) error
}

// Memory is the in-process catalog used for DSN-less runs and tests.
type Memory struct {
	mu        sync.Mutex
	questions map[int]game.Question
}

func NewMemory() *Memory {
	return &Memory{questions: map[int]game.Question{}}
}

func (m *Memory) List(ctx context.Context) ([]game.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]game.Question, 0, len(m.questions))
	for _, q := range m.questions {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) Get(ctx context.Context, id int) (game.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.questions[id]
	if !ok {
		return game.Question{}, ErrNotFound
	}
	return q, nil
}

func (m *Memory) Add(ctx context.Context, text string) (game.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q := game.Question{ID: m.nextID(), Text: text}
	m.questions[q.ID] = q
	return q, nil
}

func (m *Memory) Remove(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.questions[id]; !ok {
		return ErrNotFound
	}
	delete(m.questions, id)
	return nil
}

func (m *Memory) Seed(ctx context.Context, texts []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.questions) > 0 {
		return nil
	}
	for _, text := range texts {
		q := game.Question{ID: m.nextID(), Text: text}
		m.questions[q.ID] = q
	}
	return nil
}

// nextID follows the original catalog numbering: max existing id plus one.
// Callers must hold mu.
func (m *Memory) nextID() int {
	next := 1
	for id := range m.questions {
		if id >= next {
			next = id + 1
		}
	}
	return next
}
