package contract

import (
	"context"
	"time"

	"fubot-be/internal/entity"
	"fubot-be/internal/repository/specification"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	// Upsert inserts the user or, when the passcode already exists, only
	// refreshes last_login.
	Upsert(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	ListPasscodes(ctx context.Context) ([]string, error)

	UpdateLastLogin(ctx context.Context, passcode string, at time.Time) error
	// UpdateContextSummary reports whether a row was changed; false means the
	// user no longer exists.
	UpdateContextSummary(ctx context.Context, passcode string, summary string) (bool, error)
	DeleteByPasscode(ctx context.Context, passcode string) (int64, error)
}
