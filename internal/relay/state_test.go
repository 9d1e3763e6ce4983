package relay

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestStateRoundTrip(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	payload := StatePayload{
		AppRedirect: "http://127.0.0.1:43210/oauth/google-callback",
		Nonce:       "test-nonce",
		IssuedAt:    now.UnixMilli(),
	}

	token, err := EncodeState(payload, testSecret)
	if err != nil {
		t.Fatalf("EncodeState() failed: %v", err)
	}

	decoded, err := DecodeState(token, testSecret, now.Add(time.Minute), 15*time.Minute)
	if err != nil {
		t.Fatalf("DecodeState() failed: %v", err)
	}
	if decoded != payload {
		t.Errorf("DecodeState() = %+v, want %+v", decoded, payload)
	}
}

func TestDecodeStateTampered(t *testing.T) {
	now := time.Now()
	token, err := EncodeState(StatePayload{
		AppRedirect: "http://127.0.0.1:1234/cb",
		Nonce:       "n",
		IssuedAt:    now.UnixMilli(),
	}, testSecret)
	if err != nil {
		t.Fatalf("EncodeState() failed: %v", err)
	}

	t.Run("flipped payload byte", func(t *testing.T) {
		parts := strings.SplitN(token, ".", 2)
		tampered := "x" + parts[0][1:] + "." + parts[1]
		if _, err := DecodeState(tampered, testSecret, now, 15*time.Minute); !errors.Is(err, ErrInvalidState) {
			t.Errorf("DecodeState(tampered) error = %v, want ErrInvalidState", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := []byte("ffffffffffffffffffffffffffffffff")
		if _, err := DecodeState(token, other, now, 15*time.Minute); !errors.Is(err, ErrInvalidState) {
			t.Errorf("DecodeState(wrong secret) error = %v, want ErrInvalidState", err)
		}
	})

	t.Run("missing signature", func(t *testing.T) {
		parts := strings.SplitN(token, ".", 2)
		if _, err := DecodeState(parts[0], testSecret, now, 15*time.Minute); !errors.Is(err, ErrInvalidState) {
			t.Errorf("DecodeState(no signature) error = %v, want ErrInvalidState", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if _, err := DecodeState("not-a-token", testSecret, now, 15*time.Minute); !errors.Is(err, ErrInvalidState) {
			t.Errorf("DecodeState(garbage) error = %v, want ErrInvalidState", err)
		}
	})
}

func TestDecodeStateExpired(t *testing.T) {
	issued := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	token, err := EncodeState(StatePayload{
		AppRedirect: "http://127.0.0.1:1234/cb",
		Nonce:       "n",
		IssuedAt:    issued.UnixMilli(),
	}, testSecret)
	if err != nil {
		t.Fatalf("EncodeState() failed: %v", err)
	}

	if _, err := DecodeState(token, testSecret, issued.Add(16*time.Minute), 15*time.Minute); !errors.Is(err, ErrStateExpired) {
		t.Errorf("DecodeState(expired) error = %v, want ErrStateExpired", err)
	}

	// Just inside the window still verifies
	if _, err := DecodeState(token, testSecret, issued.Add(14*time.Minute), 15*time.Minute); err != nil {
		t.Errorf("DecodeState(fresh) error = %v, want nil", err)
	}
}
