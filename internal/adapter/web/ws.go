package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsReadLimit   = 4096
	wsWriteWait   = 10 * time.Second
	wsIdleTimeout = 2 * time.Minute
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// wsRequest — одно сообщение клиента: {"animal":"dog"}.
type wsRequest struct {
	Animal string `json:"animal"`
}

// handleWS обслуживает websocket: на каждое сообщение клиента — один Fetch и один ответ.
// Запросы одного соединения выполняются строго по очереди.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		s.logger.Warnw("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsReadLimit)

	ctx := r.Context()
	s.logger.Infow("websocket client connected", "remote", r.RemoteAddr)
	for {
		_ = conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warnw("websocket read error", "remote", r.RemoteAddr, "error", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var req wsRequest
		var resp imageResponse
		if err := json.Unmarshal(data, &req); err != nil || req.Animal == "" {
			resp = imageResponse{Error: `expected {"animal":"<category>"}`}
		} else {
			resp = s.resolve(ctx, req.Animal)
		}

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Warnw("websocket write error", "remote", r.RemoteAddr, "error", err)
			return
		}
	}
}
