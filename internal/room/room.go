package room

import (
	"context"

	"go.uber.org/zap"

	"github.com/quizwall/backend/internal/game"
	"github.com/quizwall/backend/pkg/types"
)

type Msg interface{ isRoomMsg() }

// Join registers a viewer. The room immediately delivers a full state event
// on the outbox, which is how a late joiner converges without event replay.
type Join struct {
	ClientID string
	Outbox   chan types.ServerEvent
}

func (Join) isRoomMsg() {}

type Leave struct{ ClientID string }

func (Leave) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

// GetState replies with the current snapshot, the same view a joining
// client receives.
type GetState struct {
	Reply chan View
}

func (GetState) isRoomMsg() {}

type SubmitAnswer struct {
	ParticipantID string
	QuestionID    int
	Text          string
	Avatar        string
	Reply         chan error
}

func (SubmitAnswer) isRoomMsg() {}

type CastVote struct {
	ParticipantID string
	AnswerID      int
	Reply         chan error
}

func (CastVote) isRoomMsg() {}

type Reveal struct {
	Reply chan error
}

func (Reveal) isRoomMsg() {}

type ClearVotes struct {
	Reply chan error
}

func (ClearVotes) isRoomMsg() {}

// ResetGame drops all answers and re-opens voting. Next, when non-nil,
// rotates the active question as part of the same state transition.
type ResetGame struct {
	Next  *game.Question
	Reply chan error
}

func (ResetGame) isRoomMsg() {}

// SetQuestion activates a new question and purges the previous question's
// answers.
type SetQuestion struct {
	Question game.Question
	Reply    chan error
}

func (SetQuestion) isRoomMsg() {}

type ToggleVisibility struct {
	AnswerID int
	Reply    chan error
}

func (ToggleVisibility) isRoomMsg() {}

type MarkCorrect struct {
	AnswerID int
	Reply    chan error
}

func (MarkCorrect) isRoomMsg() {}

// View is the reply to GetState.
type View struct {
	State      types.GameState
	NumClients int
}

// Room owns the live session. All mutations go through the mailbox and are
// applied one at a time, so commands are totally ordered and a broadcast is
// only ever emitted after the mutation it describes is in place.
type Room struct {
	inbox   chan Msg
	session *game.Session
	clients map[string]chan types.ServerEvent
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewRoom(parent context.Context, session *game.Session, log *zap.Logger) *Room {
	ctx, cancel := context.WithCancel(parent)

	r := &Room{
		inbox:   make(chan Msg, 64),
		session: session,
		clients: make(map[string]chan types.ServerEvent),
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}

	go r.loop()
	return r
}

// Inbox exposes the mailbox to the ws and http layers.
func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				// Same send-or-drop discipline as broadcast: a joiner whose
				// outbox cannot take the snapshot must not stall the loop.
				select {
				case msg.Outbox <- types.ServerEvent{Event: types.EventState, Payload: r.snapshot()}:
					r.clients[msg.ClientID] = msg.Outbox
					r.log.Debug("client joined", zap.String("client_id", msg.ClientID))
				default:
					close(msg.Outbox)
					r.log.Warn("dropping client with full outbox on join", zap.String("client_id", msg.ClientID))
				}

			case Leave:
				// Closing here is safe: sends only happen in this loop, so
				// none can follow the delete. Without the close the ws
				// writer goroutine ranging the outbox never exits.
				if ch, ok := r.clients[msg.ClientID]; ok {
					close(ch)
					delete(r.clients, msg.ClientID)
				}
				r.log.Debug("client left", zap.String("client_id", msg.ClientID))

			case SubmitAnswer:
				_, err := r.session.SubmitAnswer(msg.ParticipantID, msg.QuestionID, msg.Text, msg.Avatar)
				msg.Reply <- err
				if err != nil {
					break
				}
				r.broadcast(types.ServerEvent{
					Event:   types.EventNewAnswer,
					Payload: types.NewAnswerPayload{Answers: types.AnswerViews(r.session.Answers())},
				})

			case CastVote:
				count, err := r.session.CastVote(msg.ParticipantID, msg.AnswerID)
				msg.Reply <- err
				if err != nil {
					break
				}
				// Repeat votes are accepted no-ops and still rebroadcast the
				// unchanged count, so each client converges regardless.
				r.broadcast(types.ServerEvent{
					Event:   types.EventNewVote,
					Payload: types.NewVotePayload{AnswerID: msg.AnswerID, Votes: count},
				})

			case Reveal:
				answers := r.session.Reveal()
				msg.Reply <- nil
				r.broadcast(types.ServerEvent{
					Event:   types.EventRevealVotes,
					Payload: types.RevealPayload{Reveal: true, Answers: revealedAnswers(answers)},
				})

			case ClearVotes:
				r.session.ClearVotes()
				msg.Reply <- nil
				r.broadcast(types.ServerEvent{
					Event:   types.EventClearVotes,
					Payload: types.MessagePayload{Message: "All votes have been cleared."},
				})

			case ResetGame:
				r.session.Reset(msg.Next)
				msg.Reply <- nil
				r.broadcast(types.ServerEvent{
					Event:   types.EventGameReset,
					Payload: types.MessagePayload{Message: "Game has been reset and all data cleared."},
				})

			case SetQuestion:
				r.session.SetQuestion(msg.Question)
				msg.Reply <- nil
				r.broadcast(types.ServerEvent{
					Event:   types.EventNextQuestion,
					Payload: types.NextQuestionPayload{Question: msg.Question},
				})

			case ToggleVisibility:
				visible, err := r.session.ToggleVisibility(msg.AnswerID)
				msg.Reply <- err
				if err != nil {
					break
				}
				r.broadcast(types.ServerEvent{
					Event:   types.EventAnswerVisibility,
					Payload: types.AnswerVisibilityPayload{AnswerID: msg.AnswerID, Visible: visible},
				})

			case MarkCorrect:
				_, err := r.session.MarkCorrect(msg.AnswerID)
				msg.Reply <- err
				if err != nil {
					break
				}
				r.broadcast(types.ServerEvent{
					Event:   types.EventUpdatedAnswers,
					Payload: types.UpdatedAnswersPayload{Answers: types.AnswerViews(r.session.Answers())},
				})

			case GetState:
				msg.Reply <- View{
					State:      r.snapshot(),
					NumClients: len(r.clients),
				}

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) snapshot() types.GameState {
	return types.GameState{
		CurrentQuestion: r.session.Question(),
		Answers:         types.AnswerViews(r.session.Answers()),
		Reveal:          r.session.Revealed(),
	}
}

func revealedAnswers(answers []*game.Answer) []types.RevealedAnswer {
	out := make([]types.RevealedAnswer, len(answers))
	for i, a := range answers {
		votedBy := make([]string, len(a.Votes))
		copy(votedBy, a.Votes)
		out[i] = types.RevealedAnswer{Text: a.Text, VotedBy: votedBy, Correct: a.Correct}
	}
	return out
}

func (r *Room) broadcast(ev types.ServerEvent) {
	for id, ch := range r.clients {
		select {
		case ch <- ev:
			// ok
		default:
			// Client is slow/full - drop them. The mutation already
			// succeeded; delivery failures never roll it back.
			close(ch)
			delete(r.clients, id)
			r.log.Warn("dropping slow client", zap.String("client_id", id), zap.String("event", ev.Event))
		}
	}
}

func (r *Room) shutdown() {
	for id, ch := range r.clients {
		close(ch) // Tell client no more events
		delete(r.clients, id)
	}
	r.cancel()
}
