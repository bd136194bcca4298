package domain

import "time"

// User is a registered account holder. Records are written once at
// registration and only ever read afterwards.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
