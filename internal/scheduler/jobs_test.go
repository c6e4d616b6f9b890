package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amrteam/AMR-BookingService/internal/domain"
	serviceStore "github.com/amrteam/AMR-BookingService/internal/infra/storage/service"
	"github.com/amrteam/AMR-BookingService/internal/integrations/notifyservice"
	"github.com/amrteam/AMR-BookingService/pkg/types"
)

type fakeBookingRepo struct {
	byDate     map[string][]*domain.Booking
	history    []*domain.Booking
	historyErr error
	created    []*domain.Booking
	nextID     int64
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	f.nextID++
	out := *b
	out.ID = f.nextID
	f.created = append(f.created, &out)
	return &out, nil
}

func (f *fakeBookingRepo) GetWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	if filter.CustomerID != nil {
		if f.historyErr != nil {
			return nil, f.historyErr
		}
		return f.history, nil
	}
	if filter.Date != nil {
		return f.byDate[filter.Date.Format(domain.DateFormat)], nil
	}
	return nil, nil
}

type fakeRecurringRepo struct {
	due         []*domain.RecurringBooking
	advanced    map[int64]time.Time
	deactivated []int64
}

func (f *fakeRecurringRepo) GetDue(_ context.Context, _ time.Time) ([]*domain.RecurringBooking, error) {
	return f.due, nil
}

func (f *fakeRecurringRepo) UpdateNextDueDate(_ context.Context, id int64, next time.Time) error {
	if f.advanced == nil {
		f.advanced = make(map[int64]time.Time)
	}
	f.advanced[id] = next
	return nil
}

func (f *fakeRecurringRepo) Deactivate(_ context.Context, id int64) error {
	f.deactivated = append(f.deactivated, id)
	return nil
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

type fakeDraftRepo struct {
	deleted int64
}

func (f *fakeDraftRepo) DeleteExpired(_ context.Context, _ time.Time) (int64, error) {
	return f.deleted, nil
}

type fakeNotifyClient struct {
	confirmations []*notifyservice.BookingNotification
	reminders     []*notifyservice.BookingNotification
}

func (f *fakeNotifyClient) SendBookingConfirmation(_ context.Context, n *notifyservice.BookingNotification) error {
	f.confirmations = append(f.confirmations, n)
	return nil
}

func (f *fakeNotifyClient) SendBookingReminder(_ context.Context, n *notifyservice.BookingNotification) error {
	f.reminders = append(f.reminders, n)
	return nil
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

func lawnService() *domain.ServiceType {
	return &domain.ServiceType{
		ID:            1,
		Name:          "Lawn Mowing",
		Category:      domain.CategoryLandscaping,
		DurationHours: 1.5,
		IsActive:      true,
	}
}

func historyBooking() *domain.Booking {
	return &domain.Booking{
		ID:             100,
		ServiceID:      1,
		CustomerID:     10,
		CustomerName:   "Jane Smith",
		CustomerEmail:  "jane@example.com",
		CustomerPhone:  "+1-555-0100",
		ServiceAddress: "12 Oak Street",
		Status:         domain.StatusCompleted,
	}
}

func weeklyTemplate(due time.Time) *domain.RecurringBooking {
	return &domain.RecurringBooking{
		ID:             7,
		CustomerID:     10,
		ServiceID:      1,
		FrequencyValue: 1,
		FrequencyType:  domain.FrequencyWeeks,
		StartTime:      "10:00",
		StartDate:      due.AddDate(0, 0, -7),
		NextDueDate:    due,
		IsActive:       true,
	}
}

func newTestScheduler(
	bookingRepo *fakeBookingRepo,
	recurringRepo *fakeRecurringRepo,
	serviceRepo *fakeServiceRepo,
	notify *fakeNotifyClient,
	now time.Time,
) *Scheduler {
	return New(
		bookingRepo,
		recurringRepo,
		serviceRepo,
		&fakeDraftRepo{},
		notify,
		fakeTxManager{},
		domain.DefaultScheduleConfig(),
		nopLogger{},
	).WithTimeProvider(fixedTime{now})
}

func TestSpawnRecurringBookings_PreferredSlotFree(t *testing.T) {
	now := time.Date(2024, 3, 1, 5, 0, 0, 0, time.UTC)
	due := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	bookingRepo := &fakeBookingRepo{history: []*domain.Booking{historyBooking()}}
	recurringRepo := &fakeRecurringRepo{due: []*domain.RecurringBooking{weeklyTemplate(due)}}
	notify := &fakeNotifyClient{}

	sched := newTestScheduler(bookingRepo, recurringRepo, &fakeServiceRepo{service: lawnService()}, notify, now)
	sched.SpawnRecurringBookings()

	require.Len(t, bookingRepo.created, 1)
	created := bookingRepo.created[0]
	assert.Equal(t, types.TimeString("10:00"), created.StartTime)
	assert.Equal(t, types.TimeString("11:30"), created.EndTime)
	assert.Equal(t, domain.StatusConfirmed, created.Status)
	// Контакты скопированы из истории
	assert.Equal(t, "Jane Smith", created.CustomerName)
	assert.Equal(t, "12 Oak Street", created.ServiceAddress)

	// Срок сдвинут на неделю вперед
	assert.Equal(t, due.AddDate(0, 0, 7), recurringRepo.advanced[7])

	require.Len(t, notify.confirmations, 1)
	assert.Equal(t, created.ID, notify.confirmations[0].BookingID)
}

func TestSpawnRecurringBookings_PreferredTakenFallsBack(t *testing.T) {
	now := time.Date(2024, 3, 1, 5, 0, 0, 0, time.UTC)
	due := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	bookingRepo := &fakeBookingRepo{
		history: []*domain.Booking{historyBooking()},
		byDate: map[string][]*domain.Booking{
			"2024-03-08": {
				{StartTime: "09:30", EndTime: "11:00", Status: domain.StatusConfirmed},
			},
		},
	}
	recurringRepo := &fakeRecurringRepo{due: []*domain.RecurringBooking{weeklyTemplate(due)}}

	sched := newTestScheduler(bookingRepo, recurringRepo, &fakeServiceRepo{service: lawnService()}, &fakeNotifyClient{}, now)
	sched.SpawnRecurringBookings()

	require.Len(t, bookingRepo.created, 1)
	// 10:00 пересекается с 09:30-11:00, берем первый свободный слот дня
	assert.Equal(t, types.TimeString("06:00"), bookingRepo.created[0].StartTime)
}

func TestSpawnRecurringBookings_FullDaySkippedButAdvanced(t *testing.T) {
	now := time.Date(2024, 3, 1, 5, 0, 0, 0, time.UTC)
	due := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	bookingRepo := &fakeBookingRepo{
		history: []*domain.Booking{historyBooking()},
		byDate: map[string][]*domain.Booking{
			"2024-03-08": {
				{StartTime: "06:00", EndTime: "20:00", Status: domain.StatusConfirmed},
			},
		},
	}
	recurringRepo := &fakeRecurringRepo{due: []*domain.RecurringBooking{weeklyTemplate(due)}}
	notify := &fakeNotifyClient{}

	sched := newTestScheduler(bookingRepo, recurringRepo, &fakeServiceRepo{service: lawnService()}, notify, now)
	sched.SpawnRecurringBookings()

	assert.Empty(t, bookingRepo.created)
	assert.Empty(t, notify.confirmations)
	// Срок все равно сдвинут, иначе шаблон застрянет на занятом дне
	assert.Equal(t, due.AddDate(0, 0, 7), recurringRepo.advanced[7])
}

func TestSpawnRecurringBookings_InactiveServiceDeactivatesTemplate(t *testing.T) {
	now := time.Date(2024, 3, 1, 5, 0, 0, 0, time.UTC)
	due := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	svc := lawnService()
	svc.IsActive = false

	bookingRepo := &fakeBookingRepo{history: []*domain.Booking{historyBooking()}}
	recurringRepo := &fakeRecurringRepo{due: []*domain.RecurringBooking{weeklyTemplate(due)}}

	sched := newTestScheduler(bookingRepo, recurringRepo, &fakeServiceRepo{service: svc}, &fakeNotifyClient{}, now)
	sched.SpawnRecurringBookings()

	assert.Empty(t, bookingRepo.created)
	assert.Contains(t, recurringRepo.deactivated, int64(7))
}

func TestSpawnRecurringBookings_ServiceGoneDeactivatesTemplate(t *testing.T) {
	now := time.Date(2024, 3, 1, 5, 0, 0, 0, time.UTC)
	due := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	bookingRepo := &fakeBookingRepo{history: []*domain.Booking{historyBooking()}}
	recurringRepo := &fakeRecurringRepo{due: []*domain.RecurringBooking{weeklyTemplate(due)}}
	serviceRepo := &fakeServiceRepo{err: serviceStore.ErrServiceNotFound}

	sched := newTestScheduler(bookingRepo, recurringRepo, serviceRepo, &fakeNotifyClient{}, now)
	sched.SpawnRecurringBookings()

	assert.Empty(t, bookingRepo.created)
	assert.Contains(t, recurringRepo.deactivated, int64(7))
}

func TestSpawnRecurringBookings_TransientServiceErrorKeepsTemplate(t *testing.T) {
	now := time.Date(2024, 3, 1, 5, 0, 0, 0, time.UTC)
	due := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	bookingRepo := &fakeBookingRepo{history: []*domain.Booking{historyBooking()}}
	recurringRepo := &fakeRecurringRepo{due: []*domain.RecurringBooking{weeklyTemplate(due)}}
	serviceRepo := &fakeServiceRepo{err: errors.New("dial tcp: connection refused")}

	sched := newTestScheduler(bookingRepo, recurringRepo, serviceRepo, &fakeNotifyClient{}, now)
	sched.SpawnRecurringBookings()

	// Временный сбой не трогает шаблон: ни деактивации, ни сдвига срока
	assert.Empty(t, bookingRepo.created)
	assert.Empty(t, recurringRepo.deactivated)
	assert.Empty(t, recurringRepo.advanced)
}

func TestSpawnRecurringBookings_TransientHistoryErrorKeepsTemplate(t *testing.T) {
	now := time.Date(2024, 3, 1, 5, 0, 0, 0, time.UTC)
	due := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	bookingRepo := &fakeBookingRepo{historyErr: errors.New("dial tcp: connection refused")}
	recurringRepo := &fakeRecurringRepo{due: []*domain.RecurringBooking{weeklyTemplate(due)}}

	sched := newTestScheduler(bookingRepo, recurringRepo, &fakeServiceRepo{service: lawnService()}, &fakeNotifyClient{}, now)
	sched.SpawnRecurringBookings()

	assert.Empty(t, bookingRepo.created)
	assert.Empty(t, recurringRepo.deactivated)
	assert.Empty(t, recurringRepo.advanced)
}

func TestSpawnRecurringBookings_EmptyHistoryDeactivatesTemplate(t *testing.T) {
	now := time.Date(2024, 3, 1, 5, 0, 0, 0, time.UTC)
	due := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	bookingRepo := &fakeBookingRepo{}
	recurringRepo := &fakeRecurringRepo{due: []*domain.RecurringBooking{weeklyTemplate(due)}}

	sched := newTestScheduler(bookingRepo, recurringRepo, &fakeServiceRepo{service: lawnService()}, &fakeNotifyClient{}, now)
	sched.SpawnRecurringBookings()

	assert.Empty(t, bookingRepo.created)
	assert.Contains(t, recurringRepo.deactivated, int64(7))
}

func TestSpawnRecurringBookings_StrayDescriptionNotCopiedToStandardBooking(t *testing.T) {
	now := time.Date(2024, 3, 1, 5, 0, 0, 0, time.UTC)
	due := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	// Последнее бронирование клиента было кастомным и несет описание работ
	history := historyBooking()
	history.ServiceID = 5
	desc := "clear the back lot"
	history.CustomDescription = &desc

	bookingRepo := &fakeBookingRepo{history: []*domain.Booking{history}}
	recurringRepo := &fakeRecurringRepo{due: []*domain.RecurringBooking{weeklyTemplate(due)}}

	sched := newTestScheduler(bookingRepo, recurringRepo, &fakeServiceRepo{service: lawnService()}, &fakeNotifyClient{}, now)
	sched.SpawnRecurringBookings()

	require.Len(t, bookingRepo.created, 1)
	// Описание работ хранится только у кастомных бронирований
	assert.Nil(t, bookingRepo.created[0].CustomDescription)
}

func TestSendReminders_TomorrowOnly(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	b := historyBooking()
	b.Status = domain.StatusConfirmed
	b.BookingDate = time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	b.StartTime = "10:00"
	b.EndTime = "11:30"

	bookingRepo := &fakeBookingRepo{
		byDate: map[string][]*domain.Booking{"2024-03-02": {b}},
	}
	notify := &fakeNotifyClient{}

	sched := newTestScheduler(bookingRepo, &fakeRecurringRepo{}, &fakeServiceRepo{service: lawnService()}, notify, now)
	sched.SendReminders()

	require.Len(t, notify.reminders, 1)
	assert.Equal(t, "2024-03-02", notify.reminders[0].BookingDate)
	assert.Equal(t, "jane@example.com", notify.reminders[0].CustomerEmail)
}

func TestNextOccurrence_Monthly(t *testing.T) {
	tpl := &domain.RecurringBooking{
		FrequencyValue: 1,
		FrequencyType:  domain.FrequencyMonths,
		StartDate:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		NextDueDate:    time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	}

	next := nextOccurrence(tpl, time.Date(2024, 3, 15, 5, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), next)
}

func TestPickSlot(t *testing.T) {
	slots := []types.TimeString{"06:00", "10:00", "14:00"}

	got, ok := pickSlot(slots, "10:00")
	require.True(t, ok)
	assert.Equal(t, types.TimeString("10:00"), got)

	got, ok = pickSlot(slots, "11:00")
	require.True(t, ok)
	assert.Equal(t, types.TimeString("06:00"), got)

	_, ok = pickSlot(nil, "10:00")
	assert.False(t, ok)
}
