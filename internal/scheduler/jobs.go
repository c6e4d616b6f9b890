package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/amrteam/AMR-BookingService/internal/domain"
	serviceStore "github.com/amrteam/AMR-BookingService/internal/infra/storage/service"
	"github.com/amrteam/AMR-BookingService/internal/integrations/notifyservice"
	"github.com/amrteam/AMR-BookingService/internal/usecase/get_available_slots"
	"github.com/amrteam/AMR-BookingService/pkg/types"
)

const jobTimeout = 2 * time.Minute

// SpawnRecurringBookings порождает бронирования из шаблонов, чей срок наступил.
// Предпочтительное время берется из шаблона; если оно занято, выбирается
// первый свободный слот дня. Полностью занятый день пропускается без ошибки.
func (s *Scheduler) SpawnRecurringBookings() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	now := s.timeProvider.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	due, err := s.recurringRepo.GetDue(ctx, today)
	if err != nil {
		s.logger.Error("SpawnRecurringBookings: failed to get due templates: %v", err)
		return
	}

	s.logger.Info("SpawnRecurringBookings: %d templates due", len(due))

	for _, tpl := range due {
		if err := s.spawnOne(ctx, tpl, now); err != nil {
			s.logger.Error("SpawnRecurringBookings: template id=%d failed: %v", tpl.ID, err)
		}
	}
}

func (s *Scheduler) spawnOne(ctx context.Context, tpl *domain.RecurringBooking, now time.Time) error {
	svc, err := s.serviceRepo.GetByID(ctx, tpl.ServiceID)
	if err != nil {
		if errors.Is(err, serviceStore.ErrServiceNotFound) {
			// Услуга исчезла из каталога - шаблон больше не имеет смысла
			s.logger.Warn("SpawnRecurringBookings: service id=%d not found, deactivating template id=%d",
				tpl.ServiceID, tpl.ID)
			return s.recurringRepo.Deactivate(ctx, tpl.ID)
		}
		// Временный сбой: шаблон остается в очереди до следующего запуска
		return fmt.Errorf("get service id=%d: %w", tpl.ServiceID, err)
	}
	if !svc.IsActive {
		s.logger.Warn("SpawnRecurringBookings: service id=%d is inactive, deactivating template id=%d",
			tpl.ServiceID, tpl.ID)
		return s.recurringRepo.Deactivate(ctx, tpl.ID)
	}

	// Контактные данные копируются из последнего бронирования клиента
	contact, err := s.latestBookingFor(ctx, tpl)
	if err != nil {
		// Временный сбой: шаблон остается в очереди до следующего запуска
		return fmt.Errorf("get booking history for customer=%d: %w", tpl.CustomerID, err)
	}
	if contact == nil {
		s.logger.Warn("SpawnRecurringBookings: no booking history for customer=%d, deactivating template id=%d",
			tpl.CustomerID, tpl.ID)
		return s.recurringRepo.Deactivate(ctx, tpl.ID)
	}

	var created *domain.Booking

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		bookings, err := s.bookingRepo.GetWithFilter(txCtx, domain.BookingsFilter{
			Date:            &tpl.NextDueDate,
			IncludeInactive: false,
		})
		if err != nil {
			return err
		}

		slots, err := get_available_slots.ComputeAvailableSlots(
			tpl.NextDueDate, svc.BlockingMinutes(), bookings, now, s.schedule)
		if err != nil {
			return err
		}

		startTime, ok := pickSlot(slots, tpl.StartTime)
		if !ok {
			s.logger.Warn("SpawnRecurringBookings: no free slots on %s for template id=%d",
				tpl.NextDueDate.Format(domain.DateFormat), tpl.ID)
			return nil
		}

		endTime, err := startTime.AddMinutes(svc.DurationMinutes())
		if err != nil {
			return err
		}

		status := domain.StatusConfirmed
		if svc.IsCustom {
			status = domain.StatusPending
		}

		// Описание работ переносится только на кастомные бронирования
		var customDescription *string
		if svc.IsCustom {
			customDescription = contact.CustomDescription
		}

		created, err = s.bookingRepo.Create(txCtx, &domain.Booking{
			ServiceID:         tpl.ServiceID,
			CustomerID:        tpl.CustomerID,
			BookingDate:       tpl.NextDueDate,
			StartTime:         startTime,
			EndTime:           endTime,
			Status:            status,
			CustomerName:      contact.CustomerName,
			CustomerEmail:     contact.CustomerEmail,
			CustomerPhone:     contact.CustomerPhone,
			ServiceAddress:    contact.ServiceAddress,
			ServiceName:       svc.Name,
			ServiceCategory:   svc.Category,
			CustomDescription: customDescription,
		})
		return err
	})
	if err != nil {
		return err
	}

	// Срок сдвигается в любом случае, даже если день оказался занят
	next := nextOccurrence(tpl, now)
	if err := s.recurringRepo.UpdateNextDueDate(ctx, tpl.ID, next); err != nil {
		return err
	}

	if created != nil {
		s.logger.Info("SpawnRecurringBookings: created booking id=%d from template id=%d, next due %s",
			created.ID, tpl.ID, next.Format(domain.DateFormat))
		s.notify(ctx, created, s.notifyClient.SendBookingConfirmation)
	}

	return nil
}

// SendReminders отправляет напоминания о завтрашних активных бронированиях
func (s *Scheduler) SendReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	now := s.timeProvider.Now()
	tomorrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)

	bookings, err := s.bookingRepo.GetWithFilter(ctx, domain.BookingsFilter{
		Date:            &tomorrow,
		IncludeInactive: false,
	})
	if err != nil {
		s.logger.Error("SendReminders: failed to get bookings: %v", err)
		return
	}

	s.logger.Info("SendReminders: %d bookings scheduled for %s", len(bookings), tomorrow.Format(domain.DateFormat))

	for _, b := range bookings {
		s.notify(ctx, b, s.notifyClient.SendBookingReminder)
	}
}

// CleanupDrafts удаляет истекшие черновики мастера бронирования
func (s *Scheduler) CleanupDrafts() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	deleted, err := s.draftRepo.DeleteExpired(ctx, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("CleanupDrafts: failed to delete expired drafts: %v", err)
		return
	}

	if deleted > 0 {
		s.logger.Info("CleanupDrafts: deleted %d expired drafts", deleted)
	}
}

// latestBookingFor возвращает последнее бронирование клиента, предпочитая
// бронирования той же услуги. nil без ошибки означает пустую историю.
func (s *Scheduler) latestBookingFor(ctx context.Context, tpl *domain.RecurringBooking) (*domain.Booking, error) {
	history, err := s.bookingRepo.GetWithFilter(ctx, domain.BookingsFilter{
		CustomerID:      &tpl.CustomerID,
		IncludeInactive: true,
	})
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, nil
	}

	for _, b := range history {
		if b.ServiceID == tpl.ServiceID {
			return b, nil
		}
	}
	return history[0], nil
}

// pickSlot выбирает предпочтительное время, если оно свободно, иначе первый слот дня
func pickSlot(slots []types.TimeString, preferred types.TimeString) (types.TimeString, bool) {
	if len(slots) == 0 {
		return "", false
	}
	for _, slot := range slots {
		if slot == preferred {
			return slot, true
		}
	}
	return slots[0], true
}

// nextOccurrence вычисляет следующую дату срабатывания шаблона после текущей
func nextOccurrence(tpl *domain.RecurringBooking, now time.Time) time.Time {
	freq := rrule.DAILY
	switch tpl.FrequencyType {
	case domain.FrequencyWeeks:
		freq = rrule.WEEKLY
	case domain.FrequencyMonths:
		freq = rrule.MONTHLY
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:     freq,
		Interval: tpl.FrequencyValue,
		Dtstart:  tpl.StartDate,
	})
	if err != nil {
		// Некорректный шаблон, двигаем вперед простым сложением
		return tpl.NextDueDate.AddDate(0, 0, tpl.FrequencyValue)
	}

	// Отсчитываем от более позднего из (срок, сегодня), чтобы догнать пропущенные запуски
	after := tpl.NextDueDate
	if now.After(after) {
		after = now
	}

	return rule.After(after, false)
}

// notify отправляет уведомление, не прерывая задачу при сбое доставки
func (s *Scheduler) notify(ctx context.Context, b *domain.Booking, send func(context.Context, *notifyservice.BookingNotification) error) {
	n := &notifyservice.BookingNotification{
		BookingID:         b.ID,
		CustomerName:      b.CustomerName,
		CustomerEmail:     b.CustomerEmail,
		ServiceName:       b.ServiceName,
		ServiceCategory:   string(b.ServiceCategory),
		BookingDate:       b.BookingDate.Format(domain.DateFormat),
		StartTime:         string(b.StartTime),
		EndTime:           string(b.EndTime),
		Status:            string(b.Status),
		ServiceAddress:    b.ServiceAddress,
		CustomDescription: b.CustomDescription,
	}

	if err := send(ctx, n); err != nil {
		s.logger.Warn("scheduler: failed to notify booking id=%d: %v", b.ID, err)
	}
}
