package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/peptalk/peptalk-cli/internal/constants"
	"github.com/peptalk/peptalk-cli/internal/logger"
	"github.com/peptalk/peptalk-cli/internal/models"
)

// PostgresStore persists the same records as SQLiteStore against a
// hosted PostgreSQL database, inside a peptalk schema. Credentials are
// never embedded in the connection string; they come from the OS
// keyring, the environment, or .pgpass.
type PostgresStore struct {
	connStr string
	db      *sql.DB
}

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

func NewPostgresStore(connStr string) *PostgresStore {
	s := &PostgresStore{connStr: connStr}
	s.ensureSearchPath()
	return s
}

func (s *PostgresStore) ensureSearchPath() {
	if strings.HasPrefix(s.connStr, "postgres://") || strings.HasPrefix(s.connStr, "postgresql://") {
		u, err := url.Parse(s.connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
			s.connStr = u.String()
		}
	} else if !hasParam(s.connStr, "search_path") {
		s.connStr = strings.TrimSpace(s.connStr) + " search_path=" + constants.AppName
	}
}

func hasParam(connStr, name string) bool {
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], name) {
			return true
		}
	}
	return false
}

// HasEmbeddedCredentials reports whether a connection string carries a
// password inline (URL userinfo password or DSN password= parameter).
func HasEmbeddedCredentials(connStr string) bool {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			return false
		}
		if u.User != nil {
			if _, set := u.User.Password(); set {
				return true
			}
		}
		return false
	}
	return hasParam(connStr, "password")
}

// ValidateConnString checks that a connection string is a valid
// PostgreSQL URI or DSN and carries no embedded password.
func ValidateConnString(connStr string) (bool, error) {
	if strings.TrimSpace(connStr) == "" {
		return false, fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if _, err := pq.NewConnector(connStr); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}
	if HasEmbeddedCredentials(connStr) {
		return false, ErrEmbeddedCredentials
	}
	return true, nil
}

func (s *PostgresStore) Init() error {
	if err := s.open(); err != nil {
		return err
	}
	if err := s.createSchema(); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := s.GetSettings(); err != nil {
		if err := s.SaveSettings(models.DefaultSettings()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Load() error {
	if s.db != nil {
		return nil
	}
	if err := s.open(); err != nil {
		return err
	}
	return s.createSchema()
}

func (s *PostgresStore) open() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	return nil
}

func (s *PostgresStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *PostgresStore) GetConfigPath() string {
	return s.connStr
}

func (s *PostgresStore) createSchema() error {
	schema := []string{
		fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, constants.AppName),
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS current_quote (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			text TEXT NOT NULL,
			author TEXT NOT NULL,
			timestamp BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS quote_history (
			id UUID PRIMARY KEY,
			text TEXT NOT NULL,
			author TEXT NOT NULL,
			timestamp BIGINT NOT NULL,
			inserted_at BIGSERIAL
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

func (s *PostgresStore) GetSettings() (models.Settings, error) {
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

func (s *PostgresStore) SaveSettings(settings models.Settings) error {
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
			`INSERT INTO settings (key, value) VALUES ($1, $2)
			 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
			key, value,
		); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}

	return tx.Commit()
}

func (s *PostgresStore) GetCurrentQuote() (models.Quote, error) {
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

func (s *PostgresStore) SetCurrentQuote(quote models.Quote) error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}

	_, err := s.db.Exec(
		`INSERT INTO current_quote (id, text, author, timestamp) VALUES (1, $1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET text = EXCLUDED.text, author = EXCLUDED.author, timestamp = EXCLUDED.timestamp`,
		quote.Text, quote.Author, quote.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to save current quote: %w", err)
	}
	return nil
}

func (s *PostgresStore) AddQuoteToHistory(quote models.Quote) error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO quote_history (id, text, author, timestamp) VALUES (gen_random_uuid(), $1, $2, $3)`,
		quote.Text, quote.Author, quote.Timestamp,
	); err != nil {
		return fmt.Errorf("failed to insert quote: %w", err)
	}

	if _, err := tx.Exec(
		`DELETE FROM quote_history WHERE id NOT IN (
			SELECT id FROM quote_history ORDER BY inserted_at DESC LIMIT $1
		)`,
		constants.QuoteHistoryCapacity,
	); err != nil {
		return fmt.Errorf("failed to trim quote history: %w", err)
	}

	return tx.Commit()
}

func (s *PostgresStore) GetQuoteHistory(limit int) ([]models.Quote, error) {
	if s.db == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	if limit <= 0 || limit > constants.QuoteHistoryCapacity {
		limit = constants.QuoteHistoryCapacity
	}

	rows, err := s.db.Query(
		`SELECT text, author, timestamp FROM quote_history ORDER BY inserted_at DESC LIMIT $1`,
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

func (s *PostgresStore) ClearQuoteHistory() error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}
	if _, err := s.db.Exec(`DELETE FROM quote_history`); err != nil {
		return fmt.Errorf("failed to clear quote history: %w", err)
	}
	return nil
}
