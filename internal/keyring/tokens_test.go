package keyring

import (
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/peptalk/peptalk-cli/internal/constants"
	"github.com/peptalk/peptalk-cli/internal/models"
)

func testBundle() models.CalendarTokenBundle {
	return models.CalendarTokenBundle{
		AccessToken: "ya29.test-token",
		ExpiresAt:   1756728000000,
		Scope:       "https://www.googleapis.com/auth/calendar.readonly",
		TokenType:   "Bearer",
		Test: &models.CalendarTestResult{
			CalendarCount: 2,
			ResponseText:  `{"items":[]}`,
		},
	}
}

func TestSetAndGetTokens(t *testing.T) {
	gokeyring.MockInit()

	bundle := testBundle()
	if err := SetTokens(constants.ProviderGoogle, bundle); err != nil {
		t.Fatalf("SetTokens() failed: %v", err)
	}

	got, err := Tokens(constants.ProviderGoogle)
	if err != nil {
		t.Fatalf("Tokens() failed: %v", err)
	}
	if got.AccessToken != bundle.AccessToken {
		t.Errorf("AccessToken = %q, want %q", got.AccessToken, bundle.AccessToken)
	}
	if got.ExpiresAt != bundle.ExpiresAt {
		t.Errorf("ExpiresAt = %d, want %d", got.ExpiresAt, bundle.ExpiresAt)
	}
	if got.Test == nil || got.Test.CalendarCount != 2 {
		t.Errorf("Test = %+v, want calendar count 2", got.Test)
	}
}

func TestTokensNotFound(t *testing.T) {
	gokeyring.MockInit()

	if _, err := Tokens(constants.ProviderApple); err != ErrNotFound {
		t.Errorf("Tokens() error = %v, want %v", err, ErrNotFound)
	}
}

func TestTokensCorruptBundle(t *testing.T) {
	gokeyring.MockInit()

	// Write garbage directly under the provider key
	if err := gokeyring.Set(constants.AppName, tokenKey(constants.ProviderGoogle), "{not json"); err != nil {
		t.Fatalf("failed to seed corrupt bundle: %v", err)
	}

	if _, err := Tokens(constants.ProviderGoogle); err != ErrNotFound {
		t.Errorf("Tokens() with corrupt bundle error = %v, want %v", err, ErrNotFound)
	}
}

func TestTokensPerProviderIsolation(t *testing.T) {
	gokeyring.MockInit()

	if err := SetTokens(constants.ProviderGoogle, testBundle()); err != nil {
		t.Fatalf("SetTokens() failed: %v", err)
	}

	if _, err := Tokens(constants.ProviderApple); err != ErrNotFound {
		t.Errorf("Tokens(apple) error = %v, want %v after storing google tokens", err, ErrNotFound)
	}
}

func TestClearTokens(t *testing.T) {
	gokeyring.MockInit()

	if err := SetTokens(constants.ProviderGoogle, testBundle()); err != nil {
		t.Fatalf("SetTokens() failed: %v", err)
	}

	ClearTokens(constants.ProviderGoogle)

	if _, err := Tokens(constants.ProviderGoogle); err != ErrNotFound {
		t.Errorf("Tokens() after clear error = %v, want %v", err, ErrNotFound)
	}
}

func TestClearTokensMissingIsNoop(t *testing.T) {
	gokeyring.MockInit()

	// Must not panic or log a failure for a provider never connected
	ClearTokens(constants.ProviderApple)
}
