package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/syllabusmaster/planner/internal/session"
)

// wsFrame is one message on the live stream. Every frame carries the
// server clock and the active festival, so the client never computes
// "today" from its own timezone; progress is attached when it changed.
type wsFrame struct {
	Type     string `json:"type"`
	Time     string `json:"time"`
	Date     string `json:"date"`
	Festival string `json:"festival,omitempty"`
	Progress any    `json:"progress,omitempty"`
}

// handleWS streams snapshots and a one-second clock tick to a logged-in
// client. The connection is read-only for the client; all mutations go
// through the JSON API.
func (a *app) handleWS(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(r.URL.Query().Get("identifier"))
	if !ok {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("websocket accept failed", "error", err)
		return
	}
	clientID := uuid.NewString()
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	slog.Info("stream opened", "client", clientID, "identifier", s.Identifier)
	defer slog.Info("stream closed", "client", clientID)

	ctx := r.Context()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	// First frame carries the full current snapshot so a reconnecting
	// client does not wait for the next change.
	if err := writeFrame(ctx, conn, s, true); err != nil {
		return
	}

	updates, stop := s.Store.Updates()
	defer stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := writeFrame(ctx, conn, s, false); err != nil {
				return
			}
		case <-updates:
			if err := writeFrame(ctx, conn, s, true); err != nil {
				return
			}
		}
	}
}

func writeFrame(ctx context.Context, conn *websocket.Conn, s *session.Session, withProgress bool) error {
	now := time.Now()
	frame := wsFrame{
		Type: "tick",
		Time: now.Format("15:04:05"),
		Date: now.Format("2006-01-02"),
	}
	if name, ok := session.FestivalOn(now); ok {
		frame.Festival = name
	}
	if withProgress {
		frame.Type = "snapshot"
		frame.Progress = s.Store.Snapshot()
	}

	wctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return wsjson.Write(wctx, conn, frame)
}
