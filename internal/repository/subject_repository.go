package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/smart-campus-api/internal/models"
)

// SubjectRepository reads subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs a SubjectRepository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// ListByTerm returns the subjects of a term ordered by code.
func (r *SubjectRepository) ListByTerm(ctx context.Context, termID string) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, `SELECT id, term_id, code, name FROM subjects WHERE term_id = $1 ORDER BY code, id`, termID); err != nil {
		return nil, fmt.Errorf("list subjects by term: %w", err)
	}
	return subjects, nil
}
