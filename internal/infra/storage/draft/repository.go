package draft

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/amrteam/AMR-BookingService/internal/domain"
	"github.com/amrteam/AMR-BookingService/pkg/dbmetrics"
	"github.com/amrteam/AMR-BookingService/pkg/psqlbuilder"
)

var draftColumns = []string{
	"token",
	"customer_id",
	"service_id",
	"booking_date",
	"start_time",
	"custom_description",
	"is_recurring",
	"frequency_value",
	"frequency_type",
	"expires_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий черновиков мастера бронирования
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория черновиков
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert сохраняет черновик по токену: создает новый или перезаписывает
// существующий (клиент шлет весь накопленный прогресс мастера целиком)
func (r *Repository) Upsert(ctx context.Context, d *domain.BookingDraft) (*domain.BookingDraft, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_drafts").
		Columns(
			"token",
			"customer_id",
			"service_id",
			"booking_date",
			"start_time",
			"custom_description",
			"is_recurring",
			"frequency_value",
			"frequency_type",
			"expires_at",
		).
		Values(
			d.Token,
			d.CustomerID,
			d.ServiceID,
			d.Date,
			d.StartTime,
			d.CustomDescription,
			d.IsRecurring,
			d.FrequencyValue,
			d.FrequencyType,
			d.ExpiresAt,
		).
		Suffix(`ON CONFLICT (token) DO UPDATE SET
			service_id = EXCLUDED.service_id,
			booking_date = EXCLUDED.booking_date,
			start_time = EXCLUDED.start_time,
			custom_description = EXCLUDED.custom_description,
			is_recurring = EXCLUDED.is_recurring,
			frequency_value = EXCLUDED.frequency_value,
			frequency_type = EXCLUDED.frequency_type,
			expires_at = EXCLUDED.expires_at,
			updated_at = NOW()
		RETURNING created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	d.CreatedAt = createdAt.Time
	d.UpdatedAt = updatedAt.Time

	return d, nil
}

// GetByToken получает черновик по токену (включая истекшие - фильтрация
// по TTL выполняется сервисным слоем)
func (r *Repository) GetByToken(ctx context.Context, token string) (*domain.BookingDraft, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(draftColumns...).
		From("booking_drafts").
		Where(squirrel.Eq{"token": token}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByToken - build select query: %v", ErrBuildQuery, err)
	}

	var d domain.BookingDraft
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&d.Token,
		&d.CustomerID,
		&d.ServiceID,
		&d.Date,
		&d.StartTime,
		&d.CustomDescription,
		&d.IsRecurring,
		&d.FrequencyValue,
		&d.FrequencyType,
		&d.ExpiresAt,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByToken - scan draft: %w", ErrScanRow, err)
	}

	d.CreatedAt = createdAt.Time
	d.UpdatedAt = updatedAt.Time

	return &d, nil
}

// Delete удаляет черновик (после успешного создания бронирования)
func (r *Repository) Delete(ctx context.Context, token string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booking_drafts").
		Where(squirrel.Eq{"token": token}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrDraftNotFound
	}

	return nil
}

// DeleteExpired удаляет все черновики с истекшим TTL, возвращает их количество
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booking_drafts").
		Where(squirrel.Lt{"expires_at": now}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected, nil
}
