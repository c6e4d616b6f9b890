package drafts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amrteam/AMR-BookingService/internal/domain"
	draftRepo "github.com/amrteam/AMR-BookingService/internal/infra/storage/draft"
	"github.com/amrteam/AMR-BookingService/internal/service/drafts/models"
	"github.com/amrteam/AMR-BookingService/pkg/ptr"
)

type fakeDraftRepo struct {
	drafts  map[string]*domain.BookingDraft
	deleted []string
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{drafts: make(map[string]*domain.BookingDraft)}
}

func (f *fakeDraftRepo) Upsert(_ context.Context, d *domain.BookingDraft) (*domain.BookingDraft, error) {
	out := *d
	f.drafts[d.Token] = &out
	return &out, nil
}

func (f *fakeDraftRepo) GetByToken(_ context.Context, token string) (*domain.BookingDraft, error) {
	d, ok := f.drafts[token]
	if !ok {
		return nil, draftRepo.ErrDraftNotFound
	}
	return d, nil
}

func (f *fakeDraftRepo) Delete(_ context.Context, token string) error {
	delete(f.drafts, token)
	f.deleted = append(f.deleted, token)
	return nil
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestSave_GeneratesTokenAndExpiry(t *testing.T) {
	repo := newFakeDraftRepo()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(repo, time.Hour, nopLogger{}).WithTimeProvider(fixedTime{now})

	resp, err := svc.Save(context.Background(), &models.SaveDraftRequest{
		CustomerID: 10,
		ServiceID:  ptr.Ptr(int64(1)),
		Date:       ptr.Ptr("2024-03-05"),
		StartTime:  ptr.Ptr("10:00"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, now.Add(time.Hour), resp.ExpiresAt)
	require.NotNil(t, resp.Date)
	assert.Equal(t, "2024-03-05", *resp.Date)
}

func TestSave_ExistingTokenExtendsTTL(t *testing.T) {
	repo := newFakeDraftRepo()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(repo, time.Hour, nopLogger{}).WithTimeProvider(fixedTime{now})

	first, err := svc.Save(context.Background(), &models.SaveDraftRequest{CustomerID: 10})
	require.NoError(t, err)

	later := NewService(repo, time.Hour, nopLogger{}).
		WithTimeProvider(fixedTime{now.Add(30 * time.Minute)})

	second, err := later.Save(context.Background(), &models.SaveDraftRequest{
		Token:      first.Token,
		CustomerID: 10,
		ServiceID:  ptr.Ptr(int64(2)),
	})
	require.NoError(t, err)

	assert.Equal(t, first.Token, second.Token)
	assert.Equal(t, now.Add(90*time.Minute), second.ExpiresAt)
}

func TestGet_ExpiredDraftNotFoundAndCleaned(t *testing.T) {
	repo := newFakeDraftRepo()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.drafts["tok-1"] = &domain.BookingDraft{
		Token:      "tok-1",
		CustomerID: 10,
		ExpiresAt:  now.Add(-time.Minute),
	}
	svc := NewService(repo, time.Hour, nopLogger{}).WithTimeProvider(fixedTime{now})

	_, err := svc.Get(context.Background(), "tok-1", 10)
	assert.ErrorIs(t, err, ErrDraftNotFound)
	assert.Contains(t, repo.deleted, "tok-1")
}

func TestGet_ForeignDraftDenied(t *testing.T) {
	repo := newFakeDraftRepo()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.drafts["tok-1"] = &domain.BookingDraft{
		Token:      "tok-1",
		CustomerID: 10,
		ExpiresAt:  now.Add(time.Hour),
	}
	svc := NewService(repo, time.Hour, nopLogger{}).WithTimeProvider(fixedTime{now})

	_, err := svc.Get(context.Background(), "tok-1", 11)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestSave_InvalidDateRejected(t *testing.T) {
	svc := NewService(newFakeDraftRepo(), time.Hour, nopLogger{})

	_, err := svc.Save(context.Background(), &models.SaveDraftRequest{
		CustomerID: 10,
		Date:       ptr.Ptr("05-03-2024"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
