package drafts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	draftRepo "github.com/amrteam/AMR-BookingService/internal/infra/storage/draft"
	"github.com/amrteam/AMR-BookingService/internal/service/drafts/models"
)

// Service сервис черновиков бронирований.
// Черновик хранит промежуточное состояние мастера бронирования по uuid-токену
// и автоматически истекает через заданный TTL.
type Service struct {
	draftRepo    DraftRepository
	ttl          time.Duration
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса черновиков
func NewService(draftRepo DraftRepository, ttl time.Duration, logger Logger) *Service {
	return &Service{
		draftRepo:    draftRepo,
		ttl:          ttl,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider заменяет провайдер времени (для тестирования)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Save создает или обновляет черновик.
// При пустом токене генерируется новый, каждое сохранение продлевает TTL.
func (s *Service) Save(ctx context.Context, req *models.SaveDraftRequest) (*models.DraftResponse, error) {
	if req.CustomerID <= 0 {
		return nil, fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	draft, err := req.ToDomainDraft()
	if err != nil {
		s.logger.Warn("Save: invalid draft payload: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	draft.Token = req.Token
	if draft.Token == "" {
		draft.Token = uuid.NewString()
	}
	draft.ExpiresAt = s.timeProvider.Now().Add(s.ttl)

	saved, err := s.draftRepo.Upsert(ctx, draft)
	if err != nil {
		s.logger.Error("Save: repository error for token=%s: %v", draft.Token, err)
		return nil, fmt.Errorf("%w: Save - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Save: draft token=%s saved for customer=%d, expires=%s",
		saved.Token, saved.CustomerID, saved.ExpiresAt.Format(time.RFC3339))
	return models.FromDomainDraft(saved), nil
}

// Get возвращает черновик по токену.
// Истекший черновик неотличим от несуществующего.
func (s *Service) Get(ctx context.Context, token string, customerID int64) (*models.DraftResponse, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}

	draft, err := s.draftRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, draftRepo.ErrDraftNotFound) {
			s.logger.Warn("Get: draft token=%s not found", token)
			return nil, ErrDraftNotFound
		}
		s.logger.Error("Get: repository error for token=%s: %v", token, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	if draft.IsExpired(s.timeProvider.Now()) {
		s.logger.Info("Get: draft token=%s expired at %s", token, draft.ExpiresAt.Format(time.RFC3339))
		// Ленивая очистка, фоновый janitor подчистит остальное
		if err := s.draftRepo.Delete(ctx, token); err != nil {
			s.logger.Warn("Get: failed to delete expired draft token=%s: %v", token, err)
		}
		return nil, ErrDraftNotFound
	}

	if draft.CustomerID != customerID {
		s.logger.Warn("Get: access denied for customer=%d to draft token=%s", customerID, token)
		return nil, ErrAccessDenied
	}

	return models.FromDomainDraft(draft), nil
}

// Delete удаляет черновик (после успешного создания бронирования)
func (s *Service) Delete(ctx context.Context, token string, customerID int64) error {
	draft, err := s.draftRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, draftRepo.ErrDraftNotFound) {
			return ErrDraftNotFound
		}
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	if draft.CustomerID != customerID {
		return ErrAccessDenied
	}

	if err := s.draftRepo.Delete(ctx, token); err != nil {
		s.logger.Error("Delete: repository error for token=%s: %v", token, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: draft token=%s deleted", token)
	return nil
}
