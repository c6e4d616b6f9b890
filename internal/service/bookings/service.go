package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/amrteam/AMR-BookingService/internal/domain"
	bookingRepo "github.com/amrteam/AMR-BookingService/internal/infra/storage/booking"
	"github.com/amrteam/AMR-BookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID.
// Клиент может видеть только свое бронирование, админ - любое.
func (s *Service) GetByID(ctx context.Context, id, requesterID int64, isAdmin bool) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, requesterID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !isAdmin && booking.CustomerID != requesterID {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", requesterID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований клиента.
// Опционально фильтрует по статусу.
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for customer=%d, status=%v", req.CustomerID, req.Status)

	// Чужую историю может смотреть только админ
	if !req.IsAdmin && req.CustomerID != req.RequesterID {
		s.logger.Warn("GetUserBookings: access denied for user=%d to customer=%d history",
			req.RequesterID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	filter := domain.BookingsFilter{
		CustomerID: &req.CustomerID,
		// История включает завершенные и отмененные бронирования
		IncludeInactive: true,
	}

	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	bookings, err := s.bookingRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for customer=%d", len(bookings), req.CustomerID)
	return models.FromDomainBookingList(bookings), nil
}

// GetAdminBookings получает бронирования для админ-панели с гибкой фильтрацией.
// Поддерживает фильтрацию по статусу, конкретной дате и периоду.
func (s *Service) GetAdminBookings(ctx context.Context, req *models.GetAdminBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetAdminBookings: status=%v, date=%v", req.Status, req.Date)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetAdminBookings: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetAdminBookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetAdminBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetAdminBookings: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus обновляет статус бронирования (только админ).
// Переходы между статусами намеренно не ограничены: админ может
// вернуть отмененное бронирование в работу или закрыть его задним числом.
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: booking id=%d, new status=%s", bookingID, req.Status)

	status, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return nil, ErrInvalidStatus
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, status); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		s.logger.Error("UpdateStatus: failed to reload booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - failed to reload booking: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: booking id=%d is now %s", bookingID, booking.Status)
	return models.FromDomainBooking(booking), nil
}
