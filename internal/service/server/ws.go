package server

import (
	"net/http"

	"secure_chat/internal/utils/log"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// HandleStream upgrades the connection and pushes newly relayed envelopes
// to the authenticated recipient as they arrive. The push is best effort:
// a client that misses frames recovers through GET /messages with its
// cursor, since the log never drops anything.
//
// Browsers cannot set headers on websocket dials, so the token is also
// accepted as a ?token= query parameter.
func (s *HttpServer) HandleStream() http.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			if token := r.URL.Query().Get("token"); token != "" {
				header = "Bearer " + token
			}
		}

		username, err := s.authService.Authenticate(r.Context(), header)
		if err != nil {
			writeError(w, http.StatusUnauthorized, authDetail(err))
			return
		}

		// Subscribe before the handshake completes, so an envelope sent
		// right after a successful dial cannot slip past the stream.
		envs, cancel := s.relayService.Subscribe(username)
		defer cancel()

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("websocket upgrade failed", zap.Error(err))
			return
		}
		defer conn.Close()

		// Drain the read side so close frames are processed; the client
		// never sends data frames.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					cancel()
					return
				}
			}
		}()

		for env := range envs {
			if err := conn.WriteJSON(env); err != nil {
				log.Debug("stream closed", zap.String("user", username), zap.Error(err))
				return
			}
		}
	}
}
