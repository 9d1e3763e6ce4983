package relay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidState is returned when a state token fails decoding or
	// signature verification.
	ErrInvalidState = errors.New("invalid state token")
	// ErrStateExpired is returned when a state token is older than the
	// configured maximum age.
	ErrStateExpired = errors.New("state token expired")
)

// StatePayload is the context round-tripped opaquely through the
// provider as the OAuth state parameter. The relay holds nothing
// between the two legs of the flow besides this token, which is why it
// must be signed: an unsigned state would let anyone mint callbacks
// with an attacker-chosen appRedirect.
type StatePayload struct {
	AppRedirect string `json:"appRedirect"`
	Nonce       string `json:"nonce"`
	IssuedAt    int64  `json:"issuedAt"` // epoch milliseconds
}

// EncodeState serializes and signs a state payload. The token is
// base64url(json) + "." + base64url(hmac-sha256).
func EncodeState(payload StatePayload, secret []byte) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode state payload: %w", err)
	}
	encoded := base64.RawURLEncoding.EncodeToString(data)
	return encoded + "." + sign(encoded, secret), nil
}

// DecodeState verifies and parses a state token produced by
// EncodeState. Tokens older than maxAge are rejected.
func DecodeState(token string, secret []byte, now time.Time, maxAge time.Duration) (StatePayload, error) {
	encoded, sig, found := strings.Cut(token, ".")
	if !found {
		return StatePayload{}, ErrInvalidState
	}
	if !hmac.Equal([]byte(sign(encoded, secret)), []byte(sig)) {
		return StatePayload{}, ErrInvalidState
	}

	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return StatePayload{}, ErrInvalidState
	}

	var payload StatePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return StatePayload{}, ErrInvalidState
	}

	issued := time.UnixMilli(payload.IssuedAt)
	if maxAge > 0 && now.Sub(issued) > maxAge {
		return StatePayload{}, ErrStateExpired
	}

	return payload, nil
}

func sign(encoded string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
