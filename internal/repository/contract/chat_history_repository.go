package contract

import (
	"context"

	"fubot-be/internal/entity"
	"fubot-be/internal/repository/specification"
)

type ChatHistoryRepository interface {
	Create(ctx context.Context, turn *entity.ChatTurn) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatTurn, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteByPasscode(ctx context.Context, passcode string) (int64, error)
}
