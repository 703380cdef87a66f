package models

import "time"

// ActivityLog rows are append-only; nothing ever updates or deletes them.
type ActivityLog struct {
	ID         int       `json:"id" db:"id"`
	Username   string    `json:"username" db:"username"`
	Keterangan string    `json:"keterangan" db:"keterangan"`
	Aktifitas  string    `json:"aktifitas" db:"aktifitas"`
	UserRole   string    `json:"user_role" db:"user_role"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
