package memory

import (
	"context"
	"errors"
	"strings"

	"fubot-be/internal/pkg/logger"
	"fubot-be/internal/repository/specification"
	"fubot-be/internal/repository/unitofwork"
)

// ErrUserGone means the passcode was deleted before its refresh ran.
var ErrUserGone = errors.New("user no longer exists")

// Summarizer rewrites a user's long-term summary from the stored summary and
// the latest window of turns.
type Summarizer struct {
	uowFactory  unitofwork.RepositoryFactory
	generator   *Generator
	windowTurns int
	maxWords    int
	logger      logger.ILogger
}

func NewSummarizer(
	uowFactory unitofwork.RepositoryFactory,
	generator *Generator,
	windowTurns int,
	maxWords int,
	logger logger.ILogger,
) *Summarizer {
	return &Summarizer{
		uowFactory:  uowFactory,
		generator:   generator,
		windowTurns: windowTurns,
		maxWords:    maxWords,
		logger:      logger,
	}
}

// Refresh runs one pass. On any failure the stored summary is left as is.
func (s *Summarizer) Refresh(ctx context.Context, passcode string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByPasscode{Passcode: passcode})
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserGone
	}

	window, err := LoadRecent(ctx, uow.ChatHistoryRepository(), passcode, s.windowTurns)
	if err != nil {
		return err
	}
	if len(window) == 0 {
		return nil
	}

	summary, err := s.generator.Complete(ctx, BuildSummaryRequest(user.Summary(), window, s.maxWords))
	if err != nil {
		return err
	}
	summary = TruncateWords(summary, s.maxWords)

	updated, err := uow.UserRepository().UpdateContextSummary(ctx, passcode, summary)
	if err != nil {
		return err
	}
	if !updated {
		return ErrUserGone
	}

	s.logger.Debug("MEMORY", "Context summary refreshed", map[string]interface{}{
		"passcode_len": len(passcode),
		"turns":        len(window),
		"words":        len(strings.Fields(summary)),
	})
	return nil
}
