package storage

import (
	"errors"

	"github.com/peptalk/peptalk-cli/internal/models"
)

// ErrNoQuote is returned when the current quote slot is empty.
var ErrNoQuote = errors.New("no current quote stored")

// Provider is the persistence surface for user preferences and quote
// history. Two implementations exist: a local SQLite file (default)
// and a remote PostgreSQL database.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Current quote slot
	GetCurrentQuote() (models.Quote, error)
	SetCurrentQuote(models.Quote) error

	// Quote history, newest first, trimmed to QuoteHistoryCapacity on insert
	AddQuoteToHistory(models.Quote) error
	GetQuoteHistory(limit int) ([]models.Quote, error)
	ClearQuoteHistory() error

	// Utils
	GetConfigPath() string
}
