package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/smart-campus-api/internal/models"
)

const upsertAttendanceQuery = `INSERT INTO attendance_records (id, student_id, class_schedule_id, date, status, recorded_at, marked_by)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (student_id, class_schedule_id, date) DO UPDATE SET status = EXCLUDED.status, recorded_at = EXCLUDED.recorded_at, marked_by = EXCLUDED.marked_by`

// AttendanceRepository reads and writes the attendance ledger.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Count returns the total and present events for a student in a class. No rows yields zeros.
func (r *AttendanceRepository) Count(ctx context.Context, studentID, scheduleID string) (models.AttendanceCount, error) {
	query := `SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE status = $3) AS present
FROM attendance_records WHERE student_id = $1 AND class_schedule_id = $2`
	var count models.AttendanceCount
	if err := r.db.GetContext(ctx, &count, query, studentID, scheduleID, models.AttendanceStatusPresent); err != nil {
		return models.AttendanceCount{}, fmt.Errorf("count attendance: %w", err)
	}
	return count, nil
}

// CountsByClass returns per-student ledger totals for a class.
func (r *AttendanceRepository) CountsByClass(ctx context.Context, scheduleID string) (map[string]models.AttendanceCount, error) {
	query := `SELECT student_id, COUNT(*) AS total, COUNT(*) FILTER (WHERE status = $2) AS present
FROM attendance_records WHERE class_schedule_id = $1 GROUP BY student_id`
	var rows []struct {
		StudentID string `db:"student_id"`
		models.AttendanceCount
	}
	if err := r.db.SelectContext(ctx, &rows, query, scheduleID, models.AttendanceStatusPresent); err != nil {
		return nil, fmt.Errorf("count attendance by class: %w", err)
	}
	counts := make(map[string]models.AttendanceCount, len(rows))
	for _, row := range rows {
		counts[row.StudentID] = row.AttendanceCount
	}
	return counts, nil
}

// BulkUpsert writes all records in one transaction. An existing row for a
// (student, class, date) key is overwritten.
func (r *AttendanceRepository) BulkUpsert(ctx context.Context, records []models.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk attendance: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	for i := range records {
		rec := &records[i]
		prepareRecord(rec, now)
		if _, err := tx.ExecContext(ctx, upsertAttendanceQuery, rec.ID, rec.StudentID, rec.ClassScheduleID, rec.Date, rec.Status, rec.RecordedAt, rec.MarkedBy); err != nil {
			return fmt.Errorf("bulk upsert attendance for %s: %w", rec.StudentID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk attendance: %w", err)
	}
	commit = true
	return nil
}

// ListByClassAndDate returns recorded statuses for a class on a date.
func (r *AttendanceRepository) ListByClassAndDate(ctx context.Context, scheduleID string, date time.Time) ([]models.ClassAttendanceRow, error) {
	query := `SELECT s.id AS student_id, s.college_id, s.full_name, ar.status
FROM attendance_records ar JOIN students s ON s.id = ar.student_id
WHERE ar.class_schedule_id = $1 AND ar.date = $2 ORDER BY s.college_id`
	var rows []models.ClassAttendanceRow
	if err := r.db.SelectContext(ctx, &rows, query, scheduleID, dateOnly(date)); err != nil {
		return nil, fmt.Errorf("list class attendance: %w", err)
	}
	return rows, nil
}

// HistoryByClass returns every ledger row of a class, newest date first.
func (r *AttendanceRepository) HistoryByClass(ctx context.Context, scheduleID string) ([]models.AttendanceHistoryRow, error) {
	query := `SELECT ar.date, s.id AS student_id, s.college_id, s.full_name, ar.status
FROM attendance_records ar JOIN students s ON s.id = ar.student_id
WHERE ar.class_schedule_id = $1 ORDER BY ar.date DESC, s.college_id`
	var rows []models.AttendanceHistoryRow
	if err := r.db.SelectContext(ctx, &rows, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list class attendance history: %w", err)
	}
	return rows, nil
}

// TakenOn reports which of the classes already have attendance on date.
func (r *AttendanceRepository) TakenOn(ctx context.Context, scheduleIDs []string, date time.Time) (map[string]bool, error) {
	taken := make(map[string]bool, len(scheduleIDs))
	if len(scheduleIDs) == 0 {
		return taken, nil
	}
	query := `SELECT DISTINCT class_schedule_id FROM attendance_records WHERE class_schedule_id = ANY($1) AND date = $2`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, pq.Array(scheduleIDs), dateOnly(date)); err != nil {
		return nil, fmt.Errorf("list attendance taken: %w", err)
	}
	for _, id := range ids {
		taken[id] = true
	}
	return taken, nil
}

func prepareRecord(rec *models.AttendanceRecord, now time.Time) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = now
	}
	rec.Date = dateOnly(rec.Date)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
