package service

import (
	"context"
	"time"

	"fubot-be/internal/dto"
	"fubot-be/internal/entity"
	"fubot-be/internal/pkg/logger"
	"fubot-be/internal/repository/specification"
	"fubot-be/internal/repository/unitofwork"
	"fubot-be/pkg/events"
)

type IPasscodeService interface {
	Authenticate(ctx context.Context, passcode string) (*entity.User, error)
	Register(ctx context.Context, passcode string) (*dto.RegistrationResult, error)
	List(ctx context.Context) ([]string, error)
	Remove(ctx context.Context, passcode string) error
}

type passcodeService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher events.Publisher
	retainHistory  bool
	logger         logger.ILogger
	now            func() time.Time
}

func NewPasscodeService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher events.Publisher,
	retainHistory bool,
	logger logger.ILogger,
) IPasscodeService {
	if eventPublisher == nil {
		eventPublisher = events.Nop{}
	}
	return &passcodeService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		retainHistory:  retainHistory,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *passcodeService) Authenticate(ctx context.Context, passcode string) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByPasscode{Passcode: passcode})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidPasscode
	}

	// last_login only moves forward
	now := s.now()
	if user.LastLogin == nil || now.After(*user.LastLogin) {
		if err := uow.UserRepository().UpdateLastLogin(ctx, passcode, now); err != nil {
			return nil, err
		}
		user.LastLogin = &now
	}

	return user, nil
}

func (s *passcodeService) Register(ctx context.Context, passcode string) (*dto.RegistrationResult, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByPasscode{Passcode: passcode})
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &entity.User{Passcode: passcode, LastLogin: &now}
	if err := uow.UserRepository().Upsert(ctx, user); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	result := &dto.RegistrationResult{Passcode: passcode, Created: existing == nil}

	s.logger.Info("IDENTITY", "Passcode registered", map[string]interface{}{
		"created": result.Created,
	})
	s.publish(ctx, events.New(events.PasscodeRegistered, map[string]interface{}{
		"created": result.Created,
	}))

	return result, nil
}

func (s *passcodeService) List(ctx context.Context) ([]string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserRepository().ListPasscodes(ctx)
}

func (s *passcodeService) Remove(ctx context.Context, passcode string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	removed, err := uow.UserRepository().DeleteByPasscode(ctx, passcode)
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrPasscodeNotFound
	}

	var turns int64
	if !s.retainHistory {
		turns, err = uow.ChatHistoryRepository().DeleteByPasscode(ctx, passcode)
		if err != nil {
			return err
		}
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.logger.Info("IDENTITY", "Passcode deleted", map[string]interface{}{
		"turns_deleted": turns,
		"retained":      s.retainHistory,
	})
	s.publish(ctx, events.New(events.PasscodeDeleted, map[string]interface{}{
		"turns_deleted": turns,
	}))

	return nil
}

// Events are auxiliary; a failed publish never fails the request.
func (s *passcodeService) publish(ctx context.Context, evt events.Event) {
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("EVENTS", "Failed to publish event", map[string]interface{}{
			"type":  evt.EventType(),
			"error": err.Error(),
		})
	}
}
