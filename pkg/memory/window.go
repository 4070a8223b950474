package memory

import (
	"context"

	"fubot-be/internal/entity"
	"fubot-be/internal/repository/contract"
	"fubot-be/internal/repository/specification"
)

// LoadRecent returns the k most recent turns for passcode, oldest first.
func LoadRecent(ctx context.Context, repo contract.ChatHistoryRepository, passcode string, k int) ([]*entity.ChatTurn, error) {
	if k <= 0 {
		return []*entity.ChatTurn{}, nil
	}

	turns, err := repo.FindAll(ctx,
		specification.ByPasscode{Passcode: passcode},
		specification.MostRecentFirst(),
		specification.Pagination{Limit: k},
	)
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}
