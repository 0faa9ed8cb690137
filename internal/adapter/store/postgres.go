package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/studenthub/tutor-engine/internal/domain"
	"github.com/studenthub/tutor-engine/internal/port"
)

// PostgresStore handles all relational database operations.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection and returns a store instance.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

// --- Daily chat quota ---

// ConsumeQuota atomically counts one tutor request against the caller's
// daily quota. Returns port.ErrQuotaExceeded once the limit is reached.
func (s *PostgresStore) ConsumeQuota(ctx context.Context, userID string, day string, limit int) error {
	query := `
		INSERT INTO chat_quotas (user_id, day, count)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_id, day) DO UPDATE SET count = chat_quotas.count + 1
		WHERE chat_quotas.count < $3
		RETURNING count`

	var count int
	err := s.db.QueryRowContext(ctx, query, userID, day, limit).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return port.ErrQuotaExceeded
	}
	if err != nil {
		return fmt.Errorf("consume quota: %w", err)
	}
	return nil
}

// --- Chat usage log ---

// WriteChatLog persists one usage record. Called asynchronously by the
// usage middleware.
func (s *PostgresStore) WriteChatLog(userID, route string, status int, durationMs int64, ip, userAgent string) error {
	query := `INSERT INTO chat_logs (user_id, route, status, duration_ms, ip, user_agent)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.Exec(query, userID, route, status, durationMs, ip, userAgent)
	if err != nil {
		return fmt.Errorf("write chat log: %w", err)
	}
	return nil
}

// ListChatLogs returns the most recent usage records.
func (s *PostgresStore) ListChatLogs(ctx context.Context, limit int) ([]domain.ChatLog, error) {
	query := `SELECT id, user_id, route, status, duration_ms, ip, user_agent, created_at
	          FROM chat_logs ORDER BY created_at DESC LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list chat logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.ChatLog
	for rows.Next() {
		var l domain.ChatLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Route, &l.Status, &l.DurationMs, &l.IP, &l.UserAgent, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
