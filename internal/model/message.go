package model

type (
	// Envelope is one relayed message. Ciphertext and Nonce are opaque to
	// the server: they are produced and consumed by the clients' encryption
	// scheme and stored/forwarded unchanged.
	//
	// ID is assigned by the relay at append time and is strictly increasing
	// with no gaps or reuse. Timestamp is sender-supplied and taken as-is
	// (no clock-skew validation); a zero timestamp is replaced with server
	// time at append.
	Envelope struct {
		ID         int64  `json:"id"`
		From       string `json:"from"`
		To         string `json:"to"`
		Ciphertext []byte `json:"ciphertext"`
		Nonce      []byte `json:"nonce"`
		Timestamp  int64  `json:"timestamp"`
	}
)
