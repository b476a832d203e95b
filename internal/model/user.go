package model

import "time"

type (
	// User is a registered account. The server never sees key material in
	// the clear beyond the public identity key the client chose to publish;
	// PasswordHash is a salted bcrypt verifier, never the password itself.
	User struct {
		Username          string    `json:"username" bson:"username"`
		PasswordHash      []byte    `json:"-" bson:"password_hash"`
		IdentityPublicKey []byte    `json:"identity_public_key" bson:"identity_public_key"`
		CreatedAt         time.Time `json:"created_at" bson:"created_at"`
	}
)
