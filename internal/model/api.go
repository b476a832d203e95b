package model

type (
	// Wire types for the JSON API. []byte fields travel as base64 strings,
	// which is what encoding/json produces for byte slices.

	RegisterRequest struct {
		Username          string `json:"username"`
		Password          string `json:"password"`
		IdentityPublicKey []byte `json:"identity_public_key"`
	}

	RegisterResponse struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}

	LoginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	LoginResponse struct {
		Status string `json:"status"`
		Token  string `json:"token"`
	}

	PublicKeyResponse struct {
		Username          string `json:"username"`
		IdentityPublicKey []byte `json:"identity_public_key"`
	}

	SendMessageRequest struct {
		To         string `json:"to"`
		Ciphertext []byte `json:"ciphertext"`
		Nonce      []byte `json:"nonce"`
		Timestamp  int64  `json:"timestamp,omitempty"`
	}

	SendMessageResponse struct {
		Status    string `json:"status"`
		MessageID int64  `json:"message_id"`
	}

	GetMessagesResponse struct {
		Messages []*Envelope `json:"messages"`
	}

	// ErrorResponse mirrors the {"detail": ...} error body shape.
	ErrorResponse struct {
		Detail string `json:"detail"`
	}
)
