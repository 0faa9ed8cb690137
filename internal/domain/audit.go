package domain

import "time"

// ChatLog records one tutor request for usage tracking and ops debugging.
type ChatLog struct {
	ID         string    `json:"id"          db:"id"`
	UserID     string    `json:"user_id"     db:"user_id"`
	Route      string    `json:"route"       db:"route"`
	Status     int       `json:"status"      db:"status"`
	DurationMs int64     `json:"duration_ms" db:"duration_ms"`
	IP         string    `json:"ip"          db:"ip"`
	UserAgent  string    `json:"user_agent"  db:"user_agent"`
	CreatedAt  time.Time `json:"created_at"  db:"created_at"`
}
