package store

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	chat_id      INTEGER PRIMARY KEY,
	default_city TEXT NOT NULL DEFAULT '',
	sub_time     TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS cities (
	chat_id    INTEGER NOT NULL,
	city       TEXT NOT NULL,
	created_at TEXT NOT NULL,
	UNIQUE(chat_id, city)
);`

// SQLiteStore persists chat profiles using the pure Go modernc.org/sqlite driver.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and applies the schema.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL lets the scheduler read while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		log.Println("warning: could not set WAL mode:", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// DefaultCity returns the chat's default city or ErrNotFound.
func (s *SQLiteStore) DefaultCity(ctx context.Context, chatID int64) (string, error) {
	var city string
	err := s.db.QueryRowContext(ctx, `SELECT default_city FROM profiles WHERE chat_id = ?`, chatID).Scan(&city)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && city == "") {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return city, nil
}

// SetDefaultCity sets or replaces the chat's default city.
func (s *SQLiteStore) SetDefaultCity(ctx context.Context, chatID int64, city string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles(chat_id, default_city) VALUES(?, ?)
		 ON CONFLICT(chat_id) DO UPDATE SET default_city = excluded.default_city`,
		chatID, city)
	return err
}

// AddCity appends a city to the chat's saved list; duplicates are ignored.
func (s *SQLiteStore) AddCity(ctx context.Context, chatID int64, city string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO cities(chat_id, city, created_at) VALUES(?, ?, ?)`,
		chatID, city, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// Cities returns the chat's saved cities in insertion order.
func (s *SQLiteStore) Cities(ctx context.Context, chatID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT city FROM cities WHERE chat_id = ? ORDER BY rowid`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return nil, err
		}
		out = append(out, city)
	}
	return out, rows.Err()
}

// SetSubscription sets the daily delivery time (HH:MM) for a chat.
func (s *SQLiteStore) SetSubscription(ctx context.Context, chatID int64, hhmm string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles(chat_id, sub_time) VALUES(?, ?)
		 ON CONFLICT(chat_id) DO UPDATE SET sub_time = excluded.sub_time`,
		chatID, hhmm)
	return err
}

// Subscription returns the chat's delivery time or ErrNotFound.
func (s *SQLiteStore) Subscription(ctx context.Context, chatID int64) (string, error) {
	var hhmm string
	err := s.db.QueryRowContext(ctx, `SELECT sub_time FROM profiles WHERE chat_id = ?`, chatID).Scan(&hhmm)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && hhmm == "") {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return hhmm, nil
}

// DeleteSubscription cancels the chat's daily delivery.
func (s *SQLiteStore) DeleteSubscription(ctx context.Context, chatID int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE profiles SET sub_time = '' WHERE chat_id = ?`, chatID)
	return err
}

// Subscriptions lists every subscription ordered by chat id.
func (s *SQLiteStore) Subscriptions(ctx context.Context) ([]Subscription, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT chat_id, sub_time FROM profiles WHERE sub_time <> '' ORDER BY chat_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Subscription
	for rows.Next() {
		var sub Subscription
		if err := rows.Scan(&sub.ChatID, &sub.Time); err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
