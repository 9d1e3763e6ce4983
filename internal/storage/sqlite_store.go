package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/peptalk/peptalk-cli/internal/constants"
	"github.com/peptalk/peptalk-cli/internal/models"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: expandPath(path),
	}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.createSchema(); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// Seed default settings if not present
	if _, err := s.GetSettings(); err != nil {
		if err := s.SaveSettings(models.DefaultSettings()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		// First run: initialize transparently rather than failing,
		// matching the app's create-with-defaults-on-first-load model.
		return s.Init()
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	return s.createSchema()
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

func (s *SQLiteStore) createSchema() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS current_quote (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			text TEXT NOT NULL,
			author TEXT NOT NULL,
			timestamp INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS quote_history (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			author TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			inserted_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_quote_history_inserted ON quote_history(inserted_at DESC)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) GetSettings() (models.Settings, error) {
	if s.db == nil {
		return models.Settings{}, fmt.Errorf("storage not loaded")
	}

	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, fmt.Errorf("failed to scan setting: %w", err)
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}
	if len(data) == 0 {
		return models.Settings{}, fmt.Errorf("no settings stored")
	}

	settings, err := models.MapToSettings(data)
	if err != nil {
		return models.Settings{}, err
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

func (s *SQLiteStore) SaveSettings(settings models.Settings) error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for key, value := range models.SettingsToMap(settings) {
		if _, err := tx.Exec(
			`INSERT INTO settings (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value,
		); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetCurrentQuote() (models.Quote, error) {
	if s.db == nil {
		return models.Quote{}, fmt.Errorf("storage not loaded")
	}

	var q models.Quote
	err := s.db.QueryRow(`SELECT text, author, timestamp FROM current_quote WHERE id = 1`).
		Scan(&q.Text, &q.Author, &q.Timestamp)
	if err == sql.ErrNoRows {
		return models.Quote{}, ErrNoQuote
	}
	if err != nil {
		return models.Quote{}, fmt.Errorf("failed to read current quote: %w", err)
	}
	return q, nil
}

func (s *SQLiteStore) SetCurrentQuote(quote models.Quote) error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}

	_, err := s.db.Exec(
		`INSERT INTO current_quote (id, text, author, timestamp) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET text = excluded.text, author = excluded.author, timestamp = excluded.timestamp`,
		quote.Text, quote.Author, quote.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to save current quote: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AddQuoteToHistory(quote models.Quote) error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO quote_history (id, text, author, timestamp, inserted_at)
		 VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(inserted_at), 0) + 1 FROM quote_history))`,
		uuid.NewString(), quote.Text, quote.Author, quote.Timestamp,
	); err != nil {
		return fmt.Errorf("failed to insert quote: %w", err)
	}

	// Evict everything beyond capacity, oldest first
	if _, err := tx.Exec(
		`DELETE FROM quote_history WHERE id NOT IN (
			SELECT id FROM quote_history ORDER BY inserted_at DESC LIMIT ?
		)`,
		constants.QuoteHistoryCapacity,
	); err != nil {
		return fmt.Errorf("failed to trim quote history: %w", err)
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetQuoteHistory(limit int) ([]models.Quote, error) {
	if s.db == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	if limit <= 0 || limit > constants.QuoteHistoryCapacity {
		limit = constants.QuoteHistoryCapacity
	}

	rows, err := s.db.Query(
		`SELECT text, author, timestamp FROM quote_history ORDER BY inserted_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read quote history: %w", err)
	}
	defer rows.Close()

	var history []models.Quote
	for rows.Next() {
		var q models.Quote
		if err := rows.Scan(&q.Text, &q.Author, &q.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		history = append(history, q)
	}
	return history, rows.Err()
}

func (s *SQLiteStore) ClearQuoteHistory() error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}
	if _, err := s.db.Exec(`DELETE FROM quote_history`); err != nil {
		return fmt.Errorf("failed to clear quote history: %w", err)
	}
	return nil
}

func expandPath(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
