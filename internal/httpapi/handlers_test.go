package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quizwall/backend/internal/game"
	"github.com/quizwall/backend/internal/identity"
	"github.com/quizwall/backend/internal/questions"
	"github.com/quizwall/backend/internal/room"
	"github.com/quizwall/backend/pkg/types"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	catalog := questions.NewMemory()
	require.NoError(t, catalog.Seed(ctx, questions.Defaults))
	list, err := catalog.List(ctx)
	require.NoError(t, err)

	rm := room.NewRoom(ctx, game.NewSession(list[0]), zap.NewNop())
	srv := NewServer(rm, catalog, identity.UUIDIssuer{}, zap.NewNop())

	noWS := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotImplemented) }
	return SetupRoutes(srv, noWS)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func gameState(t *testing.T, h http.Handler) types.GameState {
	t.Helper()
	rec := doJSON(t, h, http.MethodGet, "/get_game_state", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var state types.GameState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	return state
}

func TestSubmitAnswerAndState(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/submit_answer", map[string]any{
		"answer": "blue", "user_id": "alice", "question_id": 1, "avatar": "cat",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	state := gameState(t, h)
	require.Len(t, state.Answers, 1)
	assert.Equal(t, "blue", state.Answers[0].Text)
	assert.Equal(t, "alice", state.Answers[0].UserID)
	assert.Equal(t, "cat.png", state.Answers[0].Avatar)
	assert.False(t, state.Reveal)
}

func TestSubmitAnswer_Rejections(t *testing.T) {
	h := newTestHandler(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"empty text", map[string]any{"answer": "", "user_id": "alice", "question_id": 1}},
		{"stale question", map[string]any{"answer": "blue", "user_id": "alice", "question_id": 99}},
		{"missing user id", map[string]any{"answer": "blue", "question_id": 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/submit_answer", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"success":false`)
		})
	}

	assert.Empty(t, gameState(t, h).Answers)
}

func TestVote_Flow(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/submit_answer", map[string]any{
		"answer": "blue", "user_id": "alice", "question_id": 1, "avatar": "cat",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/vote", map[string]any{"answer_id": 1, "user_id": "u1"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Repeat vote is accepted and the count stays at one.
	rec = doJSON(t, h, http.MethodPost, "/vote", map[string]any{"answer_id": 1, "user_id": "u1"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"u1"}, gameState(t, h).Answers[0].Votes)

	rec = doJSON(t, h, http.MethodPost, "/vote", map[string]any{"answer_id": 42, "user_id": "u1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/reveal_votes_admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gameState(t, h).Reveal)

	rec = doJSON(t, h, http.MethodPost, "/vote", map[string]any{"answer_id": 1, "user_id": "u2"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"u1"}, gameState(t, h).Answers[0].Votes)
}

func TestClearVotesAndClearData(t *testing.T) {
	h := newTestHandler(t)

	doJSON(t, h, http.MethodPost, "/submit_answer", map[string]any{
		"answer": "blue", "user_id": "alice", "question_id": 1, "avatar": "cat",
	})
	doJSON(t, h, http.MethodPost, "/vote", map[string]any{"answer_id": 1, "user_id": "u1"})

	rec := doJSON(t, h, http.MethodPost, "/clear_votes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	state := gameState(t, h)
	require.Len(t, state.Answers, 1)
	assert.Empty(t, state.Answers[0].Votes)

	rec = doJSON(t, h, http.MethodPost, "/clear_data", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	state = gameState(t, h)
	assert.Empty(t, state.Answers)
	assert.False(t, state.Reveal)
}

func TestQuestionCatalog(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/add_question", map[string]any{"text": "What is your favorite food?"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/get_questions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Questions []game.Question `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Questions, 3)
	assert.Equal(t, "What is your favorite food?", list.Questions[2].Text)

	rec = doJSON(t, h, http.MethodPost, "/remove_question", map[string]any{"id": list.Questions[2].ID})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/remove_question", map[string]any{"id": 99})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/add_question", map[string]any{"text": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetNextQuestion(t *testing.T) {
	h := newTestHandler(t)

	doJSON(t, h, http.MethodPost, "/submit_answer", map[string]any{
		"answer": "blue", "user_id": "alice", "question_id": 1, "avatar": "cat",
	})

	rec := doJSON(t, h, http.MethodPost, "/set_next_question", map[string]any{"question_id": 2})
	require.Equal(t, http.StatusOK, rec.Code)

	state := gameState(t, h)
	assert.Equal(t, 2, state.CurrentQuestion.ID)
	assert.Empty(t, state.Answers, "answers of the previous question must be purged")

	rec = doJSON(t, h, http.MethodPost, "/set_next_question", map[string]any{"question_id": 99})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToggleVisibilityAndMarkCorrect(t *testing.T) {
	h := newTestHandler(t)

	doJSON(t, h, http.MethodPost, "/submit_answer", map[string]any{
		"answer": "blue", "user_id": "alice", "question_id": 1, "avatar": "cat",
	})

	rec := doJSON(t, h, http.MethodPost, "/toggle_answer_visibility", map[string]any{"answer_id": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gameState(t, h).Answers[0].Visible)

	rec = doJSON(t, h, http.MethodPost, "/mark_correct", map[string]any{"answer_id": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gameState(t, h).Answers[0].Correct)

	rec = doJSON(t, h, http.MethodPost, "/mark_correct", map[string]any{"answer_id": 9})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIssueIdentity(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/identity", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		UserID string `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.UserID)
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(t)
	rec := doJSON(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
