package keyring

import (
	"encoding/json"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/peptalk/peptalk-cli/internal/constants"
	"github.com/peptalk/peptalk-cli/internal/logger"
	"github.com/peptalk/peptalk-cli/internal/models"
)

// Token bundles live in the OS keyring under one key per calendar
// provider, so more providers than the two modeled today slot in
// without new storage calls. The keyring is the platform's
// confidential store; on systems without one, go-keyring fails and the
// caller sees the provider as "not connected".

func tokenKey(provider string) string {
	return provider + "-calendar-tokens"
}

// Tokens retrieves the stored token bundle for a provider. A missing
// record and an unparseable record both return ErrNotFound: a corrupt
// bundle degrades to "please reconnect", never a hard failure.
func Tokens(provider string) (models.CalendarTokenBundle, error) {
	raw, err := keyring.Get(constants.AppName, tokenKey(provider))
	if err != nil {
		if err == keyring.ErrNotFound {
			return models.CalendarTokenBundle{}, ErrNotFound
		}
		return models.CalendarTokenBundle{}, fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}

	var bundle models.CalendarTokenBundle
	if err := json.Unmarshal([]byte(raw), &bundle); err != nil {
		logger.Warn("Stored token bundle is corrupt, treating as disconnected", "provider", provider, "error", err)
		return models.CalendarTokenBundle{}, ErrNotFound
	}
	return bundle, nil
}

// SetTokens stores a token bundle for a provider, overwriting any
// previous bundle. Storage errors propagate so the caller can offer a
// retry or reconnect.
func SetTokens(provider string, bundle models.CalendarTokenBundle) error {
	data, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("failed to serialize token bundle: %w", err)
	}
	if err := keyring.Set(constants.AppName, tokenKey(provider), string(data)); err != nil {
		return fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return nil
}

// ClearTokens removes the stored bundle for a provider. Failures are
// logged, not raised: disconnect always succeeds from the user's
// perspective.
func ClearTokens(provider string) {
	err := keyring.Delete(constants.AppName, tokenKey(provider))
	if err != nil && err != keyring.ErrNotFound {
		logger.Warn("Failed to clear token bundle", "provider", provider, "error", err)
	}
}
