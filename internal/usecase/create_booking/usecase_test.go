package create_booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amrteam/AMR-BookingService/internal/domain"
	bookingStore "github.com/amrteam/AMR-BookingService/internal/infra/storage/booking"
	"github.com/amrteam/AMR-BookingService/internal/integrations/notifyservice"
	"github.com/amrteam/AMR-BookingService/pkg/ptr"
	"github.com/amrteam/AMR-BookingService/pkg/types"
)

type fakeBookingRepo struct {
	bookings  []*domain.Booking
	createErr error
	created   *domain.Booking
	nextID    int64
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	out := *b
	out.ID = f.nextID
	out.CreatedAt = time.Now()
	out.UpdatedAt = out.CreatedAt
	f.created = &out
	return &out, nil
}

func (f *fakeBookingRepo) GetWithFilter(_ context.Context, _ domain.BookingsFilter) ([]*domain.Booking, error) {
	return f.bookings, nil
}

type fakeServiceRepo struct {
	service *domain.ServiceType
	err     error
}

func (f *fakeServiceRepo) GetByID(_ context.Context, _ int64) (*domain.ServiceType, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.service, nil
}

type fakeRecurringRepo struct {
	created *domain.RecurringBooking
}

func (f *fakeRecurringRepo) Create(_ context.Context, tpl *domain.RecurringBooking) (*domain.RecurringBooking, error) {
	out := *tpl
	out.ID = 77
	f.created = &out
	return &out, nil
}

type fakeNotifyClient struct {
	mu   sync.Mutex
	sent []*notifyservice.BookingNotification
	done chan struct{}
}

func newFakeNotifyClient() *fakeNotifyClient {
	return &fakeNotifyClient{done: make(chan struct{}, 1)}
}

func (f *fakeNotifyClient) SendBookingConfirmation(_ context.Context, n *notifyservice.BookingNotification) error {
	f.mu.Lock()
	f.sent = append(f.sent, n)
	f.mu.Unlock()
	f.done <- struct{}{}
	return nil
}

func (f *fakeNotifyClient) waitSent(t *testing.T) *notifyservice.BookingNotification {
	t.Helper()
	select {
	case <-f.done:
	case <-time.After(time.Second):
		t.Fatal("notification was not sent")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	require.Len(t, f.sent, 1)
	return f.sent[0]
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func standardService() *domain.ServiceType {
	return &domain.ServiceType{
		ID:            1,
		Name:          "Lawn Mowing",
		Category:      domain.CategoryLandscaping,
		DurationHours: 1.5,
		IsCustom:      false,
		IsActive:      true,
	}
}

func customService() *domain.ServiceType {
	return &domain.ServiceType{
		ID:            2,
		Name:          "Custom Landscaping Project",
		Category:      domain.CategoryLandscaping,
		DurationHours: 4.0,
		IsCustom:      true,
		IsActive:      true,
	}
}

func validRequest() *Request {
	return &Request{
		CustomerID:     10,
		ServiceID:      1,
		Date:           time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		StartTime:      "10:00",
		CustomerName:   "Jane Smith",
		CustomerEmail:  "jane@example.com",
		CustomerPhone:  "+1-555-0100",
		ServiceAddress: "12 Oak Street",
	}
}

func newTestUseCase(bookingRepo *fakeBookingRepo, serviceRepo *fakeServiceRepo) (*UseCase, *fakeRecurringRepo, *fakeNotifyClient) {
	recurringRepo := &fakeRecurringRepo{}
	notify := newFakeNotifyClient()
	uc := NewUseCase(
		bookingRepo,
		serviceRepo,
		recurringRepo,
		notify,
		fakeTxManager{},
		domain.DefaultScheduleConfig(),
		nopLogger{},
	).WithTimeProvider(fixedTime{time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)})
	return uc, recurringRepo, notify
}

func TestExecute_StandardServiceConfirmed(t *testing.T) {
	bookingRepo := &fakeBookingRepo{}
	uc, _, notify := newTestUseCase(bookingRepo, &fakeServiceRepo{service: standardService()})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	// EndTime = начало + полная номинальная длительность
	assert.Equal(t, "11:30", string(resp.EndTime))
	assert.Equal(t, "Lawn Mowing", resp.ServiceName)
	assert.Nil(t, resp.RecurringID)

	n := notify.waitSent(t)
	assert.Equal(t, resp.ID, n.BookingID)
	assert.Equal(t, "2024-03-02", n.BookingDate)
	assert.Equal(t, "confirmed", n.Status)
}

func TestExecute_StandardServiceDropsStrayDescription(t *testing.T) {
	bookingRepo := &fakeBookingRepo{}
	uc, _, notify := newTestUseCase(bookingRepo, &fakeServiceRepo{service: standardService()})

	req := validRequest()
	req.CustomDescription = ptr.Ptr("please also trim the hedges")

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Описание работ хранится только у кастомных бронирований: по нему
	// хранилище отличает часовой буфер от полной длительности
	require.NotNil(t, bookingRepo.created)
	assert.Nil(t, bookingRepo.created.CustomDescription)

	notify.waitSent(t)
}

func TestExecute_CustomServiceKeepsDescription(t *testing.T) {
	bookingRepo := &fakeBookingRepo{}
	uc, _, notify := newTestUseCase(bookingRepo, &fakeServiceRepo{service: customService()})

	req := validRequest()
	req.ServiceID = 2
	req.CustomDescription = ptr.Ptr("Full backyard redesign")

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, bookingRepo.created)
	require.NotNil(t, bookingRepo.created.CustomDescription)
	assert.Equal(t, "Full backyard redesign", *bookingRepo.created.CustomDescription)

	notify.waitSent(t)
}

func TestExecute_CustomServicePendingWithFullNominalEnd(t *testing.T) {
	bookingRepo := &fakeBookingRepo{}
	uc, _, notify := newTestUseCase(bookingRepo, &fakeServiceRepo{service: customService()})

	req := validRequest()
	req.ServiceID = 2
	req.CustomDescription = ptr.Ptr("Full backyard redesign")

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Кастомные услуги требуют ручного подтверждения
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	// EndTime хранит полную номинальную длительность (4ч), а не часовой буфер
	assert.Equal(t, "14:00", string(resp.EndTime))

	notify.waitSent(t)
}

func TestExecute_CustomServiceRequiresDescription(t *testing.T) {
	uc, _, _ := newTestUseCase(&fakeBookingRepo{}, &fakeServiceRepo{service: customService()})

	req := validRequest()
	req.ServiceID = 2

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_CustomServiceBlocksOnlyOneHour(t *testing.T) {
	// Существующее бронирование 11:30-12:30: 4-часовая номинальная длительность
	// пересекалась бы, но часовой буфер 10:00-11:00 свободен
	bookingRepo := &fakeBookingRepo{
		bookings: []*domain.Booking{
			{ID: 5, StartTime: "11:30", EndTime: "12:30", Status: domain.StatusConfirmed},
		},
	}
	uc, _, notify := newTestUseCase(bookingRepo, &fakeServiceRepo{service: customService()})

	req := validRequest()
	req.ServiceID = 2
	req.CustomDescription = ptr.Ptr("Patio cleanup")

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), resp.Status)

	notify.waitSent(t)
}

func TestExecute_SlotConflict(t *testing.T) {
	bookingRepo := &fakeBookingRepo{
		bookings: []*domain.Booking{
			{ID: 5, StartTime: "10:30", EndTime: "12:00", Status: domain.StatusConfirmed},
		},
	}
	uc, _, _ := newTestUseCase(bookingRepo, &fakeServiceRepo{service: standardService()})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestExecute_CancelledBookingDoesNotConflict(t *testing.T) {
	bookingRepo := &fakeBookingRepo{
		bookings: []*domain.Booking{
			{ID: 5, StartTime: "10:00", EndTime: "11:30", Status: domain.StatusCancelled},
		},
	}
	uc, _, notify := newTestUseCase(bookingRepo, &fakeServiceRepo{service: standardService()})

	_, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	notify.waitSent(t)
}

func TestExecute_ExclusionConstraintMapsToConflict(t *testing.T) {
	// Ограничение исключения в БД - последняя линия защиты от гонки
	bookingRepo := &fakeBookingRepo{createErr: bookingStore.ErrSlotTaken}
	uc, _, _ := newTestUseCase(bookingRepo, &fakeServiceRepo{service: standardService()})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestExecute_LeadTimeViolation(t *testing.T) {
	uc, _, _ := newTestUseCase(&fakeBookingRepo{}, &fakeServiceRepo{service: standardService()})

	// now = 08:00, бронирование на сегодня в 09:30 нарушает двухчасовое упреждение
	req := validRequest()
	req.Date = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	req.StartTime = "09:30"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_SameDayAfterLeadTimeAllowed(t *testing.T) {
	uc, _, notify := newTestUseCase(&fakeBookingRepo{}, &fakeServiceRepo{service: standardService()})

	// now = 08:00 + 2ч = 10:00, ровно на границе - допустимо
	req := validRequest()
	req.Date = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	req.StartTime = "10:00"

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	notify.waitSent(t)
}

func TestExecute_PastDateRejected(t *testing.T) {
	uc, _, _ := newTestUseCase(&fakeBookingRepo{}, &fakeServiceRepo{service: standardService()})

	req := validRequest()
	req.Date = time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_OutsideBusinessHours(t *testing.T) {
	uc, _, _ := newTestUseCase(&fakeBookingRepo{}, &fakeServiceRepo{service: standardService()})

	tests := []struct {
		name      string
		startTime string
	}{
		{"before open", "05:30"},
		{"ends after close", "19:00"}, // 19:00 + 1.5ч = 20:30
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			req.StartTime = types.TimeString(tt.startTime)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrOutsideBusinessHours)
		})
	}
}

func TestExecute_UnalignedStartTimeRejected(t *testing.T) {
	uc, _, _ := newTestUseCase(&fakeBookingRepo{}, &fakeServiceRepo{service: standardService()})

	req := validRequest()
	req.StartTime = "10:15"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_InactiveServiceNotFound(t *testing.T) {
	svc := standardService()
	svc.IsActive = false
	uc, _, _ := newTestUseCase(&fakeBookingRepo{}, &fakeServiceRepo{service: svc})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_RecurringTemplateCreated(t *testing.T) {
	bookingRepo := &fakeBookingRepo{}
	uc, recurringRepo, notify := newTestUseCase(bookingRepo, &fakeServiceRepo{service: standardService()})

	req := validRequest()
	req.Recurring = &RecurringRequest{FrequencyValue: 2, FrequencyType: "weeks"}

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, resp.RecurringID)
	assert.Equal(t, int64(77), *resp.RecurringID)

	require.NotNil(t, recurringRepo.created)
	assert.Equal(t, domain.FrequencyWeeks, recurringRepo.created.FrequencyType)
	assert.Equal(t, 2, recurringRepo.created.FrequencyValue)
	// Следующее срабатывание через 2 недели после даты бронирования
	assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), recurringRepo.created.NextDueDate)

	notify.waitSent(t)
}

func TestExecute_ContactValidation(t *testing.T) {
	uc, _, _ := newTestUseCase(&fakeBookingRepo{}, &fakeServiceRepo{service: standardService()})

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"empty name", func(r *Request) { r.CustomerName = "  " }},
		{"empty email", func(r *Request) { r.CustomerEmail = "" }},
		{"email without at", func(r *Request) { r.CustomerEmail = "jane.example.com" }},
		{"empty phone", func(r *Request) { r.CustomerPhone = "" }},
		{"empty address", func(r *Request) { r.ServiceAddress = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
