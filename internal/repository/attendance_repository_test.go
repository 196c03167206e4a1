package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/smart-campus-api/internal/models"
)

func TestAttendanceRepositoryCount(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM attendance_records WHERE student_id = $1 AND class_schedule_id = $2")).
		WithArgs("stu-1", "cls-1", models.AttendanceStatusPresent).
		WillReturnRows(sqlmock.NewRows([]string{"total", "present"}).AddRow(0, 0))

	count, err := repo.Count(context.Background(), "stu-1", "cls-1")
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceCount{}, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryBulkUpsertOverwritesOnConflict(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2024, 10, 18, 15, 30, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (student_id, class_schedule_id, date) DO UPDATE SET status = EXCLUDED.status")).
		WithArgs(sqlmock.AnyArg(), "stu-1", "cls-1", time.Date(2024, 10, 18, 0, 0, 0, 0, time.UTC), models.AttendanceStatusAbsent, sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	records := []models.AttendanceRecord{{StudentID: "stu-1", ClassScheduleID: "cls-1", Date: date, Status: models.AttendanceStatusAbsent}}
	require.NoError(t, repo.BulkUpsert(context.Background(), records))
	assert.NotEmpty(t, records[0].ID)
	assert.False(t, records[0].RecordedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryBulkUpsert(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO attendance_records").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO attendance_records").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.BulkUpsert(context.Background(), []models.AttendanceRecord{
		{StudentID: "stu-1", ClassScheduleID: "cls-1", Status: models.AttendanceStatusPresent},
		{StudentID: "stu-2", ClassScheduleID: "cls-1", Status: models.AttendanceStatusLate},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryBulkUpsertRollsBack(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO attendance_records").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := repo.BulkUpsert(context.Background(), []models.AttendanceRecord{{StudentID: "stu-1", ClassScheduleID: "cls-1", Status: models.AttendanceStatusPresent}})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryTakenOn(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2024, 10, 18, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT class_schedule_id FROM attendance_records")).
		WithArgs(pq.Array([]string{"cls-1", "cls-2"}), date).
		WillReturnRows(sqlmock.NewRows([]string{"class_schedule_id"}).AddRow("cls-2"))

	taken, err := repo.TakenOn(context.Background(), []string{"cls-1", "cls-2"}, date)
	require.NoError(t, err)
	assert.False(t, taken["cls-1"])
	assert.True(t, taken["cls-2"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryCountsByClass(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY student_id")).
		WithArgs("cls-1", models.AttendanceStatusPresent).
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "total", "present"}).
			AddRow("stu-1", 4, 3).
			AddRow("stu-2", 4, 1))

	counts, err := repo.CountsByClass(context.Background(), "cls-1")
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceCount{Total: 4, Present: 3}, counts["stu-1"])
	assert.Equal(t, models.AttendanceCount{Total: 4, Present: 1}, counts["stu-2"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryHistoryByClass(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	day := time.Date(2024, 10, 18, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY ar.date DESC")).
		WithArgs("cls-1").
		WillReturnRows(sqlmock.NewRows([]string{"date", "student_id", "college_id", "full_name", "status"}).
			AddRow(day, "stu-1", "CS001", "Asha", "present"))

	rows, err := repo.HistoryByClass(context.Background(), "cls-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.AttendanceStatusPresent, rows[0].Status)
	assert.Equal(t, day, rows[0].Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}
