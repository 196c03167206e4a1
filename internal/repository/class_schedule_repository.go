package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/smart-campus-api/internal/models"
)

const occurrenceSelect = `SELECT cs.id, cs.subject_id, cs.teacher_id, cs.room, cs.day_of_week, cs.start_time, cs.end_time, cs.active,
        sub.name AS subject_name, sub.code AS subject_code, sub.term_id
FROM class_schedules cs JOIN subjects sub ON sub.id = cs.subject_id`

// ClassScheduleRepository reads recurring weekly class slots.
type ClassScheduleRepository struct {
	db *sqlx.DB
}

// NewClassScheduleRepository constructs a ClassScheduleRepository.
func NewClassScheduleRepository(db *sqlx.DB) *ClassScheduleRepository {
	return &ClassScheduleRepository{db: db}
}

// ListBySubject returns the active templates of a subject.
func (r *ClassScheduleRepository) ListBySubject(ctx context.Context, subjectID string) ([]models.ClassSchedule, error) {
	query := `SELECT id, subject_id, teacher_id, room, day_of_week, start_time, end_time, active
FROM class_schedules WHERE subject_id = $1 AND active = TRUE ORDER BY day_of_week, start_time, id`
	var schedules []models.ClassSchedule
	if err := r.db.SelectContext(ctx, &schedules, query, subjectID); err != nil {
		return nil, fmt.Errorf("list class schedules by subject: %w", err)
	}
	return schedules, nil
}

// ListByTeacherAndDay returns a teacher's active templates on a weekday.
func (r *ClassScheduleRepository) ListByTeacherAndDay(ctx context.Context, teacherID string, day models.Weekday) ([]models.ClassOccurrence, error) {
	query := occurrenceSelect + ` WHERE cs.teacher_id = $1 AND cs.day_of_week = $2 AND cs.active = TRUE ORDER BY cs.start_time, cs.id`
	var occurrences []models.ClassOccurrence
	if err := r.db.SelectContext(ctx, &occurrences, query, teacherID, int(day)); err != nil {
		return nil, fmt.Errorf("list class schedules by teacher and day: %w", err)
	}
	return occurrences, nil
}

// ListByTeacher returns every active template a teacher runs.
func (r *ClassScheduleRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.ClassOccurrence, error) {
	query := occurrenceSelect + ` WHERE cs.teacher_id = $1 AND cs.active = TRUE ORDER BY cs.day_of_week, cs.start_time, cs.id`
	var occurrences []models.ClassOccurrence
	if err := r.db.SelectContext(ctx, &occurrences, query, teacherID); err != nil {
		return nil, fmt.Errorf("list class schedules by teacher: %w", err)
	}
	return occurrences, nil
}

// FindByID loads a template with its subject.
func (r *ClassScheduleRepository) FindByID(ctx context.Context, id string) (*models.ClassOccurrence, error) {
	var occurrence models.ClassOccurrence
	if err := r.db.GetContext(ctx, &occurrence, occurrenceSelect+` WHERE cs.id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get class schedule: %w", err)
	}
	return &occurrence, nil
}
