package hours

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

const midnight types.TimeString = "00:00"

// Repository репозиторий рабочих часов мастера (строка на каждый день недели)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория рабочих часов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByOwner возвращает сохраненные дни недели мастера.
// Дней, которые мастер не настраивал, в результате нет.
func (r *Repository) GetByOwner(ctx context.Context, ownerID int64) (domain.WeeklyHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("weekday", "enabled", "start_time", "end_time").
		From("business_hours").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByOwner - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOwner - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	hours := make(domain.WeeklyHours, 7)
	for rows.Next() {
		var (
			weekday int
			day     domain.DaySchedule
		)
		if err := rows.Scan(&weekday, &day.Enabled, &day.Start, &day.End); err != nil {
			return nil, fmt.Errorf("%w: GetByOwner - scan row: %w", ErrScanRow, err)
		}
		hours[time.Weekday(weekday)] = day
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByOwner - rows error: %w", ErrScanRow, err)
	}

	return hours, nil
}

// Upsert сохраняет переданные дни недели одним запросом
func (r *Repository) Upsert(ctx context.Context, ownerID int64, hours domain.WeeklyHours) error {
	if len(hours) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("business_hours").
		Columns("owner_id", "weekday", "enabled", "start_time", "end_time")

	for weekday := time.Sunday; weekday <= time.Saturday; weekday++ {
		day, ok := hours[weekday]
		if !ok {
			continue
		}
		insertBuilder = insertBuilder.Values(ownerID, int(weekday), day.Enabled, orMidnight(day.Start), orMidnight(day.End))
	}

	query, args, err := insertBuilder.
		Suffix("ON CONFLICT (owner_id, weekday) DO UPDATE SET " +
			"enabled = EXCLUDED.enabled, " +
			"start_time = EXCLUDED.start_time, " +
			"end_time = EXCLUDED.end_time, " +
			"updated_at = NOW()").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// orMidnight подставляет 00:00 для выключенных дней без времени (колонки NOT NULL)
func orMidnight(t types.TimeString) types.TimeString {
	if t.IsZero() {
		return midnight
	}
	return t
}
