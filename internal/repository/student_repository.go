package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/smart-campus-api/internal/models"
)

const studentColumns = `s.id, s.college_id, s.full_name, s.institution_id, s.branch_id, s.current_term_id,
        s.career_goal, s.interests, s.weak_subjects, s.active, s.created_at, s.updated_at`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByID fetches a student. sql.ErrNoRows is returned untouched.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students s WHERE s.id = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	return &student, nil
}

// UpdateProfile rewrites the free-text suggestion profile.
func (r *StudentRepository) UpdateProfile(ctx context.Context, id string, profile models.StudentProfile) error {
	query := `UPDATE students SET career_goal = $1, interests = $2, weak_subjects = $3, updated_at = $4 WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query, profile.CareerGoal, profile.Interests, profile.WeakSubjects, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update student profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update student profile rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByTerm returns the active students enrolled in a term, ordered by college id.
func (r *StudentRepository) ListByTerm(ctx context.Context, termID string) ([]models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students s WHERE s.current_term_id = $1 AND s.active = TRUE ORDER BY s.college_id", studentColumns)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, termID); err != nil {
		return nil, fmt.Errorf("list students by term: %w", err)
	}
	return students, nil
}

// FindByCollegeIDs resolves recognition labels to students of an institution.
func (r *StudentRepository) FindByCollegeIDs(ctx context.Context, institutionID string, collegeIDs []string) ([]models.Student, error) {
	if len(collegeIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s FROM students s WHERE s.institution_id = $1 AND s.college_id = ANY($2) ORDER BY s.college_id", studentColumns)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, institutionID, pq.Array(collegeIDs)); err != nil {
		return nil, fmt.Errorf("find students by college id: %w", err)
	}
	return students, nil
}
