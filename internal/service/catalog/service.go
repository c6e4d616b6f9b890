package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/amrteam/AMR-BookingService/internal/domain"
	serviceRepo "github.com/amrteam/AMR-BookingService/internal/infra/storage/service"
	"github.com/amrteam/AMR-BookingService/internal/service/catalog/models"
)

// Service сервис витрины каталога услуг
type Service struct {
	serviceRepo ServiceRepository
	schedule    domain.ScheduleConfig
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(serviceRepo ServiceRepository, schedule domain.ScheduleConfig, logger Logger) *Service {
	return &Service{
		serviceRepo: serviceRepo,
		schedule:    schedule,
		logger:      logger,
	}
}

// List возвращает активные услуги, опционально отфильтрованные по категории
func (s *Service) List(ctx context.Context, category *string) (*models.ServiceListResponse, error) {
	s.logger.Info("List: fetching services, category=%v", category)

	var domainCategory *domain.ServiceCategory
	if category != nil {
		parsed, err := domain.ParseServiceCategory(*category)
		if err != nil {
			s.logger.Warn("List: invalid category=%s", *category)
			return nil, fmt.Errorf("%w: invalid category", ErrInvalidInput)
		}
		domainCategory = &parsed
	}

	services, err := s.serviceRepo.GetActive(ctx, domainCategory)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d services", len(services))
	return models.FromDomainServiceList(services), nil
}

// GetByID возвращает услугу по ID. Неактивные услуги не видны на витрине.
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ServiceResponse, error) {
	s.logger.Info("GetByID: fetching service id=%d", id)

	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("GetByID: service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetByID: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !svc.IsActive {
		s.logger.Warn("GetByID: service id=%d is inactive", id)
		return nil, ErrServiceNotFound
	}

	return models.FromDomainService(svc), nil
}

// GetScheduleConfig возвращает публичные параметры расписания для фронтенда
func (s *Service) GetScheduleConfig(_ context.Context) *models.ScheduleConfigResponse {
	return models.FromDomainSchedule(s.schedule)
}
