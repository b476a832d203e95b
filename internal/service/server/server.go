package server

import (
	"context"
	"net/http"
	"time"

	"secure_chat/internal/service/auth"
	"secure_chat/internal/service/credential"
	"secure_chat/internal/service/directory"
	"secure_chat/internal/service/relay"
	"secure_chat/internal/utils/log"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type (
	HttpServer struct {
		addr string

		credentialService *credential.Service
		authService       *auth.Service
		directoryService  *directory.Service
		relayService      *relay.Service

		srv *http.Server
	}
)

func NewHttpServer(
	addr string,
	credentialService *credential.Service,
	authService *auth.Service,
	directoryService *directory.Service,
	relayService *relay.Service,
) *HttpServer {
	return &HttpServer{
		addr:              addr,
		credentialService: credentialService,
		authService:       authService,
		directoryService:  directoryService,
		relayService:      relayService,
	}
}

// Router builds the API handler. Exposed separately from Run so tests can
// drive it through httptest without binding a listener.
func (s *HttpServer) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/register", s.HandleRegister()).Methods(http.MethodPost)
	r.HandleFunc("/login", s.HandleLogin()).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.HandleLogout()).Methods(http.MethodPost)
	r.HandleFunc("/users/{username}/public-key", s.HandleGetPublicKey()).Methods(http.MethodGet)
	r.HandleFunc("/messages", s.HandleSendMessage()).Methods(http.MethodPost)
	r.HandleFunc("/messages", s.HandleGetMessages()).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.HandleStream()).Methods(http.MethodGet)

	return r
}

// Run blocks serving the API until Shutdown is called.
func (s *HttpServer) Run() error {
	s.srv = &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
	}

	log.Info("server listening", zap.String("addr", s.addr))
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *HttpServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *HttpServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()

		next.ServeHTTP(w, r)

		log.Debug("request",
			zap.String("request_id", reqID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
