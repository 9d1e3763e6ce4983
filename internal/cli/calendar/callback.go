package calendar

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/peptalk/peptalk-cli/internal/keyring"
	"github.com/peptalk/peptalk-cli/internal/models"
	"github.com/peptalk/peptalk-cli/internal/storage"
)

// CallbackError is a terminal, user-visible failure of the OAuth
// callback. It never leaves partial state behind: the token store is
// untouched and the provider stays marked disconnected.
type CallbackError struct {
	Message string
}

func (e *CallbackError) Error() string {
	return e.Message
}

// ParseCallbackParams consumes the relay's redirect parameters and
// returns the decoded token bundle.
func ParseCallbackParams(params url.Values) (models.CalendarTokenBundle, error) {
	if msg := params.Get("error"); msg != "" {
		return models.CalendarTokenBundle{}, &CallbackError{Message: msg}
	}
	if params.Get("status") == "error" {
		return models.CalendarTokenBundle{}, &CallbackError{Message: "calendar connection failed"}
	}

	payload := params.Get("payload")
	if payload == "" {
		return models.CalendarTokenBundle{}, &CallbackError{Message: "missing calendar payload"}
	}

	decoded, err := decodeBase64URL(payload)
	if err != nil {
		return models.CalendarTokenBundle{}, &CallbackError{Message: fmt.Sprintf("invalid calendar payload: %v", err)}
	}

	var bundle models.CalendarTokenBundle
	if err := json.Unmarshal(decoded, &bundle); err != nil {
		return models.CalendarTokenBundle{}, &CallbackError{Message: fmt.Sprintf("invalid calendar payload: %v", err)}
	}

	return bundle, nil
}

// Finalize persists a successfully decoded bundle: the token store is
// written exactly once, then the settings record marks the provider
// connected.
func Finalize(store storage.Provider, provider string, bundle models.CalendarTokenBundle) error {
	if err := keyring.SetTokens(provider, bundle); err != nil {
		return fmt.Errorf("failed to store calendar tokens: %w", err)
	}

	settings, err := store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	markConnected(&settings, provider, true)
	if err := store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}

func markConnected(settings *models.Settings, provider string, connected bool) {
	switch provider {
	case "google":
		settings.GoogleCalendarConnected = connected
	case "apple":
		settings.AppleCalendarConnected = connected
	}
	if connected {
		settings.CalendarIntegrationEnabled = true
	}
}

// decodeBase64URL accepts both raw and padded base64url input.
func decodeBase64URL(value string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(value, "="))
}
