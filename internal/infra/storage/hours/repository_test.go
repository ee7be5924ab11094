package hours

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// recordingExecutor запоминает запросы и отвечает заданной ошибкой
type recordingExecutor struct {
	queries []string
	args    [][]interface{}
	err     error
}

func (r *recordingExecutor) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	r.queries = append(r.queries, query)
	r.args = append(r.args, args)
	return nil, r.err
}

func (r *recordingExecutor) QueryContext(_ context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	r.queries = append(r.queries, query)
	r.args = append(r.args, args)
	return nil, r.err
}

func (r *recordingExecutor) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func TestUpsert(t *testing.T) {
	db := &recordingExecutor{}
	repo := NewRepository(db)

	err := repo.Upsert(context.Background(), 4, domain.WeeklyHours{
		time.Monday: {Enabled: true, Start: "09:00", End: "18:00"},
		time.Sunday: {Enabled: false},
	})
	require.NoError(t, err)
	require.Len(t, db.queries, 1)

	query := db.queries[0]
	assert.Contains(t, query, "INSERT INTO business_hours (owner_id,weekday,enabled,start_time,end_time)")
	assert.Contains(t, query, "ON CONFLICT (owner_id, weekday) DO UPDATE SET")
	assert.Contains(t, query, "updated_at = NOW()")

	// Дни идут по порядку недели, выключенный день без времени получает 00:00
	assert.Equal(t, []interface{}{
		int64(4), 0, false, types.TimeString("00:00"), types.TimeString("00:00"),
		int64(4), 1, true, types.TimeString("09:00"), types.TimeString("18:00"),
	}, db.args[0])
}

func TestUpsert_NothingToSave(t *testing.T) {
	db := &recordingExecutor{}

	require.NoError(t, NewRepository(db).Upsert(context.Background(), 4, domain.WeeklyHours{}))
	assert.Empty(t, db.queries)
}

func TestUpsert_ExecError(t *testing.T) {
	db := &recordingExecutor{err: &pq.Error{Code: "23514"}}

	err := NewRepository(db).Upsert(context.Background(), 4, domain.WeeklyHours{
		time.Monday: {Enabled: true, Start: "18:00", End: "09:00"},
	})

	assert.ErrorIs(t, err, ErrExecQuery)
	var pqErr *pq.Error
	require.ErrorAs(t, err, &pqErr)
	assert.Equal(t, pq.ErrorCode("23514"), pqErr.Code)
}

func TestGetByOwner_QueryError(t *testing.T) {
	db := &recordingExecutor{err: errors.New("connection refused")}

	_, err := NewRepository(db).GetByOwner(context.Background(), 4)

	assert.ErrorIs(t, err, ErrExecQuery)
	require.Len(t, db.queries, 1)
	assert.Equal(t, "SELECT weekday, enabled, start_time, end_time FROM business_hours WHERE owner_id = $1 ORDER BY weekday ASC", db.queries[0])
	assert.Equal(t, []interface{}{int64(4)}, db.args[0])
}

func TestOrMidnight(t *testing.T) {
	assert.Equal(t, types.TimeString("00:00"), orMidnight(""))
	assert.Equal(t, types.TimeString("09:30"), orMidnight("09:30"))
}
