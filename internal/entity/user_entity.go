package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id             uuid.UUID
	Passcode       string
	LastLogin      *time.Time
	ContextSummary *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Summary returns the long-term memory digest, or "" when none was written yet.
func (u *User) Summary() string {
	if u == nil || u.ContextSummary == nil {
		return ""
	}
	return *u.ContextSummary
}
