package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"secure_chat/internal/model"
	"secure_chat/internal/repository/user"
	"secure_chat/internal/service/auth"
	"secure_chat/internal/service/credential"
	"secure_chat/internal/service/relay"
	"secure_chat/internal/utils/log"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("write response failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, &model.ErrorResponse{Detail: detail})
}

// authDetail maps authentication failures to the wire detail strings.
// Missing, malformed and invalid-token are distinct on purpose.
func authDetail(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingAuth):
		return "Missing Authorization header"
	case errors.Is(err, auth.ErrMalformedAuth):
		return "Invalid Authorization header"
	default:
		return "Invalid or expired token"
	}
}

// authenticate resolves the bearer credential on protected endpoints. On
// failure it has already written the 401 response.
func (s *HttpServer) authenticate(w http.ResponseWriter, r *http.Request) (string, bool) {
	username, err := s.authService.Authenticate(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		writeError(w, http.StatusUnauthorized, authDetail(err))
		return "", false
	}
	return username, true
}

func (s *HttpServer) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		err := s.credentialService.Register(r.Context(), req.Username, req.Password, req.IdentityPublicKey)
		switch {
		case errors.Is(err, credential.ErrUsernameTaken):
			writeError(w, http.StatusBadRequest, "Username already exists")
			return
		case errors.Is(err, credential.ErrInvalidKey):
			writeError(w, http.StatusBadRequest, "identity_public_key required")
			return
		case err != nil:
			log.Error("register failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "registration failed")
			return
		}

		writeJSON(w, http.StatusOK, &model.RegisterResponse{Status: "ok", Message: "User created"})
	}
}

func (s *HttpServer) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		token, err := s.authService.Login(r.Context(), req.Username, req.Password)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		if err != nil {
			log.Error("login failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "login failed")
			return
		}

		writeJSON(w, http.StatusOK, &model.LoginResponse{Status: "ok", Token: token})
	}
}

func (s *HttpServer) HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.authenticate(w, r); !ok {
			return
		}

		// Authenticate accepted the header, so it is exactly two fields.
		token := strings.Fields(r.Header.Get("Authorization"))[1]
		if err := s.authService.Logout(r.Context(), token); err != nil {
			log.Error("logout failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "logout failed")
			return
		}

		writeJSON(w, http.StatusOK, &model.RegisterResponse{Status: "ok", Message: "Logged out"})
	}
}

func (s *HttpServer) HandleGetPublicKey() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		name := vars["username"]

		resp, err := s.directoryService.GetPublicKey(r.Context(), name)
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		if err != nil {
			log.Error("public key lookup failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "lookup failed")
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *HttpServer) HandleSendMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sender, ok := s.authenticate(w, r)
		if !ok {
			return
		}

		var req model.SendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		id, err := s.relayService.Send(r.Context(), sender, req.To, req.Ciphertext, req.Nonce, req.Timestamp)
		if errors.Is(err, relay.ErrRecipientNotFound) {
			writeError(w, http.StatusNotFound, "Target user not found")
			return
		}
		if err != nil {
			log.Error("send failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "send failed")
			return
		}

		writeJSON(w, http.StatusOK, &model.SendMessageResponse{Status: "ok", MessageID: id})
	}
}

func (s *HttpServer) HandleGetMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipient, ok := s.authenticate(w, r)
		if !ok {
			return
		}

		var sinceID int64
		if raw := r.URL.Query().Get("since_id"); raw != "" {
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "since_id must be an integer")
				return
			}
			sinceID = v
		}

		msgs, err := s.relayService.Fetch(r.Context(), recipient, sinceID)
		if err != nil {
			log.Error("fetch failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "fetch failed")
			return
		}

		writeJSON(w, http.StatusOK, &model.GetMessagesResponse{Messages: msgs})
	}
}
