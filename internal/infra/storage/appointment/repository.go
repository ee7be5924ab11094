package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Коды ошибок PostgreSQL, означающие гонку за слот
const (
	pgExclusionViolation = "23P01"
	pgSerializationError = "40001"
	pgDeadlockDetected   = "40P01"
)

var columns = []string{
	"id",
	"owner_id",
	"service_id",
	"service_name",
	"client_name",
	"appointment_date",
	"start_time",
	"end_time",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись.
// Если в контексте передана активная транзакция, использует её.
// Пересечение с активной записью отклоняется ограничением appointments_no_overlap
// и возвращается как ErrSlotConflict.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"owner_id",
			"service_id",
			"service_name",
			"client_name",
			"appointment_date",
			"start_time",
			"end_time",
			"status",
		).
		Values(
			appt.OwnerID,
			nullableID(appt.ServiceID),
			appt.ServiceName,
			appt.ClientName,
			appt.Date.Format(domain.DateFormat),
			appt.StartTime,
			appt.EndTime,
			appt.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, mapWriteError("Create", err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает запись мастера по ID
func (r *Repository) GetByID(ctx context.Context, ownerID, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("appointments").
		Where(squirrel.Eq{"id": id, "owner_id": ownerID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, mapReadError("GetByID - scan appointment", ErrScanRow, err)
	}

	return appt, nil
}

// GetWithFilter получает записи мастера с фильтрацией.
//
// Для конкретной даты записи сортируются по времени начала, иначе сначала новые.
// Внутри транзакции выборка по конкретной дате блокирует строки (FOR UPDATE),
// чтобы проверка пересечений и вставка шли без гонки.
func (r *Repository) GetWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("appointments").
		Where(squirrel.Eq{"owner_id": filter.OwnerID})

	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"appointment_date": filter.Date.Format(domain.DateFormat)})
	}
	if filter.FromDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"appointment_date": filter.FromDate.Format(domain.DateFormat)})
	}
	if filter.ClientName != nil {
		selectBuilder = selectBuilder.Where(squirrel.ILike{"client_name": "%" + escapeLike(*filter.ClientName) + "%"})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.InactiveStatuses})
	}

	if filter.Date != nil {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("appointment_date DESC", "start_time DESC")
	}

	if dbmetrics.IsInTransaction(ctx) && filter.Date != nil {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapReadError("GetWithFilter - execute query", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments := make([]domain.Appointment, 0)
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, mapReadError("GetWithFilter - scan row", ErrScanRow, err)
		}
		appointments = append(appointments, *appt)
	}

	if err := rows.Err(); err != nil {
		return nil, mapReadError("GetWithFilter - rows error", ErrScanRow, err)
	}

	return appointments, nil
}

// UpdateSchedule переносит запись на новые дату и время и меняет статус
func (r *Repository) UpdateSchedule(
	ctx context.Context,
	id int64,
	date time.Time,
	start, end types.TimeString,
	status domain.AppointmentStatus,
) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("appointment_date", date.Format(domain.DateFormat)).
		Set("start_time", start).
		Set("end_time", end).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateSchedule - build update query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, mapWriteError("UpdateSchedule", err)
	}

	return appt, nil
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError("UpdateStatus", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanAppointment сканирует одну строку в запись.
// Если услуга удалена, service_id равен NULL и название не показывается.
func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		appt                 domain.Appointment
		serviceID            sql.NullInt64
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&appt.ID,
		&appt.OwnerID,
		&serviceID,
		&appt.ServiceName,
		&appt.ClientName,
		&appt.Date,
		&appt.StartTime,
		&appt.EndTime,
		&appt.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if serviceID.Valid {
		appt.ServiceID = serviceID.Int64
	} else {
		appt.ServiceName = ""
	}
	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

// mapWriteError отделяет конфликт слота от прочих ошибок записи.
// Исходная ошибка драйвера остается в цепочке.
func mapWriteError(op string, err error) error {
	if IsSlotConflict(err) {
		return fmt.Errorf("%w: %s: %w", ErrSlotConflict, op, err)
	}
	return fmt.Errorf("%w: %s - execute: %w", ErrExecQuery, op, err)
}

// mapReadError то же для чтения: выборка FOR UPDATE в сериализуемой транзакции
// тоже может получить 40001 или 40P01
func mapReadError(op string, sentinel, err error) error {
	if IsSlotConflict(err) {
		return fmt.Errorf("%w: %s: %w", ErrSlotConflict, op, err)
	}
	return fmt.Errorf("%w: %s: %w", sentinel, op, err)
}

// IsSlotConflict сообщает, что ошибка означает гонку за слот: нарушение
// appointments_no_overlap, сбой сериализации или взаимоблокировка.
// Нужна и для ошибок фиксации транзакции, которые приходят не из репозитория.
func IsSlotConflict(err error) bool {
	if errors.Is(err, ErrSlotConflict) {
		return true
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case pgExclusionViolation, pgSerializationError, pgDeadlockDetected:
		return true
	}
	return false
}

func nullableID(id int64) interface{} {
	if id == 0 {
		return nil
	}
	return id
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike экранирует спецсимволы шаблона ILIKE
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
