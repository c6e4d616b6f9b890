package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amrteam/AMR-BookingService/internal/domain"
	serviceStore "github.com/amrteam/AMR-BookingService/internal/infra/storage/service"
	"github.com/amrteam/AMR-BookingService/pkg/types"
)

type fakeBookingRepo struct {
	bookings []*domain.Booking
	filter   *domain.BookingsFilter
}

func (f *fakeBookingRepo) GetWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	f.filter = &filter
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

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newSlotsUseCase(t *testing.T, bookingRepo *fakeBookingRepo, svcRepo *fakeServiceRepo) *UseCase {
	t.Helper()

	uc := NewUseCase(bookingRepo, svcRepo, defaultSchedule(), nopLogger{})
	return uc.WithTimeProvider(&fixedTime{now: mustDateTime(t, "2024-03-01T08:00")})
}

func TestUseCase_Execute_ReturnsSlotsWithNominalDuration(t *testing.T) {
	bookingRepo := &fakeBookingRepo{}
	svcRepo := &fakeServiceRepo{service: &domain.ServiceType{
		ID:            1,
		Name:          "Standard Lawn Service",
		Category:      domain.CategoryLandscaping,
		DurationHours: 1.5,
		IsActive:      true,
	}}
	uc := newSlotsUseCase(t, bookingRepo, svcRepo)

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceID: 1,
		Date:      mustDate(t, "2024-03-02"),
	})

	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, int64(1), resp.ServiceID)
	assert.Equal(t, types.TimeString("06:00"), resp.Slots[0].StartTime)
	assert.Equal(t, 90, resp.Slots[0].DurationMinutes)

	// Запрашиваются только активные бронирования на дату
	require.NotNil(t, bookingRepo.filter)
	require.NotNil(t, bookingRepo.filter.Date)
	assert.Equal(t, mustDate(t, "2024-03-02"), *bookingRepo.filter.Date)
	assert.False(t, bookingRepo.filter.IncludeInactive)
}

func TestUseCase_Execute_CustomServiceBlocksBufferButReportsNominal(t *testing.T) {
	bookingRepo := &fakeBookingRepo{bookings: []*domain.Booking{
		activeBooking("11:00", "12:00"),
	}}
	svcRepo := &fakeServiceRepo{service: &domain.ServiceType{
		ID:            5,
		Name:          "Custom Landscaping",
		Category:      domain.CategoryLandscaping,
		DurationHours: 4.0,
		IsCustom:      true,
		IsActive:      true,
	}}
	uc := newSlotsUseCase(t, bookingRepo, svcRepo)

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceID: 5,
		Date:      mustDate(t, "2024-03-02"),
	})

	require.NoError(t, err)

	starts := make(map[types.TimeString]bool, len(resp.Slots))
	for _, s := range resp.Slots {
		starts[s.StartTime] = true
		assert.Equal(t, 240, s.DurationMinutes)
	}
	// Часовой буфер: слот 10:00 заканчивается ровно к началу бронирования
	assert.True(t, starts["10:00"])
	assert.False(t, starts["10:30"])
	// Номинальные 4 часа не ограничивают конец дня
	assert.True(t, starts["19:00"])
}

func TestUseCase_Execute_ServiceNotFound(t *testing.T) {
	uc := newSlotsUseCase(t, &fakeBookingRepo{}, &fakeServiceRepo{err: serviceStore.ErrServiceNotFound})

	_, err := uc.Execute(context.Background(), &Request{
		ServiceID: 99,
		Date:      mustDate(t, "2024-03-02"),
	})

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestUseCase_Execute_InactiveServiceHidden(t *testing.T) {
	svcRepo := &fakeServiceRepo{service: &domain.ServiceType{
		ID:            3,
		DurationHours: 1.5,
		IsActive:      false,
	}}
	uc := newSlotsUseCase(t, &fakeBookingRepo{}, svcRepo)

	_, err := uc.Execute(context.Background(), &Request{
		ServiceID: 3,
		Date:      mustDate(t, "2024-03-02"),
	})

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestUseCase_Execute_NonPositiveDurationFailsLoudly(t *testing.T) {
	svcRepo := &fakeServiceRepo{service: &domain.ServiceType{
		ID:            4,
		DurationHours: 0,
		IsActive:      true,
	}}
	uc := newSlotsUseCase(t, &fakeBookingRepo{}, svcRepo)

	_, err := uc.Execute(context.Background(), &Request{
		ServiceID: 4,
		Date:      mustDate(t, "2024-03-02"),
	})

	assert.ErrorIs(t, err, ErrInvalidService)
}

func TestUseCase_Execute_InvalidInput(t *testing.T) {
	uc := newSlotsUseCase(t, &fakeBookingRepo{}, &fakeServiceRepo{})

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 0, Date: mustDate(t, "2024-03-02")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ServiceID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
