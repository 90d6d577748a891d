package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/quizwall/backend/internal/game"
	"github.com/quizwall/backend/internal/identity"
	"github.com/quizwall/backend/internal/questions"
	"github.com/quizwall/backend/internal/room"
)

// Server is the command gateway: it validates requests, hands them to the
// room (which serializes them), and translates domain failures into JSON
// error responses.
type Server struct {
	room    *room.Room
	catalog questions.Repository
	ids     identity.Issuer
	log     *zap.Logger
}

func NewServer(r *room.Room, catalog questions.Repository, ids identity.Issuer, log *zap.Logger) *Server {
	return &Server{room: r, catalog: catalog, ids: ids, log: log}
}

type statusResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, statusResponse{Success: true})
}

// writeDomainError maps the session core's failures onto the boundary. Every
// member of the taxonomy is a request-level failure: state is untouched and
// the next request proceeds normally.
func writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, game.ErrAnswerNotFound) || errors.Is(err, questions.ErrNotFound) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, statusResponse{Success: false, Error: err.Error()})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{Success: false, Error: "invalid json"})
		return false
	}
	return true
}

type submitAnswerRequest struct {
	Answer     string `json:"answer"`
	UserID     string `json:"user_id"`
	QuestionID int    `json:"question_id"`
	Avatar     string `json:"avatar"`
}

func (s *Server) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if !decode(w, r, &req) {
		return
	}
	if !s.ids.Validate(req.UserID) {
		writeJSON(w, http.StatusBadRequest, statusResponse{Success: false, Error: "invalid user id"})
		return
	}

	reply := make(chan error, 1)
	s.room.Inbox() <- room.SubmitAnswer{
		ParticipantID: req.UserID,
		QuestionID:    req.QuestionID,
		Text:          req.Answer,
		Avatar:        req.Avatar,
		Reply:         reply,
	}
	if err := <-reply; err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w)
}

type voteRequest struct {
	AnswerID int    `json:"answer_id"`
	UserID   string `json:"user_id"`
}

func (s *Server) Vote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if !decode(w, r, &req) {
		return
	}
	if !s.ids.Validate(req.UserID) {
		writeJSON(w, http.StatusBadRequest, statusResponse{Success: false, Error: "invalid user id"})
		return
	}

	reply := make(chan error, 1)
	s.room.Inbox() <- room.CastVote{ParticipantID: req.UserID, AnswerID: req.AnswerID, Reply: reply}
	if err := <-reply; err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w)
}

func (s *Server) GetGameState(w http.ResponseWriter, r *http.Request) {
	reply := make(chan room.View, 1)
	s.room.Inbox() <- room.GetState{Reply: reply}
	view := <-reply
	writeJSON(w, http.StatusOK, view.State)
}

func (s *Server) RevealVotes(w http.ResponseWriter, r *http.Request) {
	reply := make(chan error, 1)
	s.room.Inbox() <- room.Reveal{Reply: reply}
	<-reply
	writeSuccess(w)
}

func (s *Server) ClearVotes(w http.ResponseWriter, r *http.Request) {
	reply := make(chan error, 1)
	s.room.Inbox() <- room.ClearVotes{Reply: reply}
	<-reply
	writeSuccess(w)
}

func (s *Server) ClearData(w http.ResponseWriter, r *http.Request) {
	// An empty catalog is reseeded so a reset game always has questions to
	// rotate to.
	if err := s.catalog.Seed(r.Context(), questions.Defaults); err != nil {
		s.log.Error("seed questions", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, statusResponse{Success: false, Error: "catalog unavailable"})
		return
	}

	reply := make(chan error, 1)
	s.room.Inbox() <- room.ResetGame{Reply: reply}
	<-reply
	writeSuccess(w)
}

type setNextQuestionRequest struct {
	QuestionID int `json:"question_id"`
}

type setNextQuestionResponse struct {
	Success  bool          `json:"success"`
	Question game.Question `json:"question"`
}

func (s *Server) SetNextQuestion(w http.ResponseWriter, r *http.Request) {
	var req setNextQuestionRequest
	if !decode(w, r, &req) {
		return
	}

	q, err := s.catalog.Get(r.Context(), req.QuestionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	reply := make(chan error, 1)
	s.room.Inbox() <- room.SetQuestion{Question: q, Reply: reply}
	<-reply
	writeJSON(w, http.StatusOK, setNextQuestionResponse{Success: true, Question: q})
}

type answerIDRequest struct {
	AnswerID int `json:"answer_id"`
}

func (s *Server) ToggleAnswerVisibility(w http.ResponseWriter, r *http.Request) {
	var req answerIDRequest
	if !decode(w, r, &req) {
		return
	}

	reply := make(chan error, 1)
	s.room.Inbox() <- room.ToggleVisibility{AnswerID: req.AnswerID, Reply: reply}
	if err := <-reply; err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w)
}

func (s *Server) MarkCorrect(w http.ResponseWriter, r *http.Request) {
	var req answerIDRequest
	if !decode(w, r, &req) {
		return
	}

	reply := make(chan error, 1)
	s.room.Inbox() <- room.MarkCorrect{AnswerID: req.AnswerID, Reply: reply}
	if err := <-reply; err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w)
}

type questionListResponse struct {
	Questions []game.Question `json:"questions"`
}

func (s *Server) GetQuestions(w http.ResponseWriter, r *http.Request) {
	list, err := s.catalog.List(r.Context())
	if err != nil {
		s.log.Error("list questions", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, statusResponse{Success: false, Error: "catalog unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, questionListResponse{Questions: list})
}

type addQuestionRequest struct {
	Text string `json:"text"`
}

func (s *Server) AddQuestion(w http.ResponseWriter, r *http.Request) {
	var req addQuestionRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, statusResponse{Success: false, Error: "question text is empty"})
		return
	}

	if _, err := s.catalog.Add(r.Context(), req.Text); err != nil {
		s.log.Error("add question", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, statusResponse{Success: false, Error: "catalog unavailable"})
		return
	}
	writeSuccess(w)
}

type removeQuestionRequest struct {
	ID int `json:"id"`
}

func (s *Server) RemoveQuestion(w http.ResponseWriter, r *http.Request) {
	var req removeQuestionRequest
	if !decode(w, r, &req) {
		return
	}

	if err := s.catalog.Remove(r.Context(), req.ID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w)
}

type identityResponse struct {
	UserID string `json:"user_id"`
}

func (s *Server) IssueIdentity(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, identityResponse{UserID: s.ids.Issue()})
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
