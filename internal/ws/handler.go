package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/quizwall/backend/internal/identity"
	"github.com/quizwall/backend/internal/room"
	"github.com/quizwall/backend/pkg/types"
)

// Handler upgrades a viewer connection and streams room events to it. The
// socket is push-only: commands travel over the HTTP routes, and a viewer
// that (re)connects converges by applying the state event delivered on
// join. The reader loop exists only to notice the peer going away.
func Handler(rm *room.Room, ids identity.Issuer, originPatterns []string, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan types.ServerEvent, 16)
		clientID := ids.Issue()

		rm.Inbox() <- room.Join{ClientID: clientID, Outbox: out}
		defer func() { rm.Inbox() <- room.Leave{ClientID: clientID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for ev := range out {
				payload, err := json.Marshal(ev)
				if err != nil {
					log.Error("marshal event", zap.String("event", ev.Event), zap.Error(err))
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
					// The mutation behind this event already succeeded; a
					// failed delivery is log-only and the snapshot pull
					// covers the gap on reconnect.
					log.Debug("write event", zap.String("client_id", clientID), zap.Error(err))
				}
				cancel()
			}
		}()

		// Reader loop: discard anything the client sends and exit on close.
		for {
			if _, _, err := conn.Read(r.Context()); err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}
		}
	}
}
