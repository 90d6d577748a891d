package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes(s *Server, wsHandler http.HandlerFunc) http.Handler {
	r := chi.NewRouter()

	// Participant routes
	r.Post("/submit_answer", s.SubmitAnswer)
	r.Post("/vote", s.Vote)
	r.Get("/get_game_state", s.GetGameState)
	r.Post("/identity", s.IssueIdentity)

	// Admin routes
	r.Post("/reveal_votes_admin", s.RevealVotes)
	r.Post("/clear_votes", s.ClearVotes)
	r.Post("/clear_data", s.ClearData)
	r.Post("/set_next_question", s.SetNextQuestion)
	r.Post("/toggle_answer_visibility", s.ToggleAnswerVisibility)
	r.Post("/mark_correct", s.MarkCorrect)
	r.Get("/get_questions", s.GetQuestions)
	r.Post("/add_question", s.AddQuestion)
	r.Post("/remove_question", s.RemoveQuestion)

	r.Get("/healthz", Healthz)
	r.Get("/ws", wsHandler)
	return r
}
