package recurring

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

var templateColumns = []string{
	"id",
	"customer_id",
	"service_id",
	"frequency_value",
	"frequency_type",
	"start_time",
	"start_date",
	"next_due_date",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий шаблонов повторяющихся бронирований
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория шаблонов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает шаблон повторяющегося бронирования
func (r *Repository) Create(ctx context.Context, tpl *domain.RecurringBooking) (*domain.RecurringBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("recurring_bookings").
		Columns(
			"customer_id",
			"service_id",
			"frequency_value",
			"frequency_type",
			"start_time",
			"start_date",
			"next_due_date",
			"is_active",
		).
		Values(
			tpl.CustomerID,
			tpl.ServiceID,
			tpl.FrequencyValue,
			tpl.FrequencyType,
			tpl.StartTime,
			tpl.StartDate,
			tpl.NextDueDate,
			tpl.IsActive,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&tpl.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	tpl.CreatedAt = createdAt.Time
	tpl.UpdatedAt = updatedAt.Time

	return tpl, nil
}

// GetDue получает активные шаблоны, у которых next_due_date <= date
func (r *Repository) GetDue(ctx context.Context, date time.Time) ([]*domain.RecurringBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(templateColumns...).
		From("recurring_bookings").
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.LtOrEq{"next_due_date": date}).
		OrderBy("next_due_date ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetDue - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetDue - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	templates := make([]*domain.RecurringBooking, 0)
	for rows.Next() {
		var tpl domain.RecurringBooking
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&tpl.ID,
			&tpl.CustomerID,
			&tpl.ServiceID,
			&tpl.FrequencyValue,
			&tpl.FrequencyType,
			&tpl.StartTime,
			&tpl.StartDate,
			&tpl.NextDueDate,
			&tpl.IsActive,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetDue - scan row: %w", ErrScanRow, err)
		}

		tpl.CreatedAt = createdAt.Time
		tpl.UpdatedAt = updatedAt.Time

		templates = append(templates, &tpl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetDue - rows error: %w", ErrScanRow, err)
	}

	return templates, nil
}

// UpdateNextDueDate сдвигает next_due_date шаблона после порождения бронирования
func (r *Repository) UpdateNextDueDate(ctx context.Context, id int64, nextDueDate time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("recurring_bookings").
		Set("next_due_date", nextDueDate).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateNextDueDate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateNextDueDate - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateNextDueDate - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrTemplateNotFound
	}

	return nil
}

// Deactivate выключает шаблон (например, если услуга стала неактивной)
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("recurring_bookings").
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Deactivate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Deactivate - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrTemplateNotFound
	}

	return nil
}
