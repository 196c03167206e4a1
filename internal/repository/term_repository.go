package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/smart-campus-api/internal/models"
)

// TermRepository reads terms and branches.
type TermRepository struct {
	db *sqlx.DB
}

// NewTermRepository constructs a TermRepository.
func NewTermRepository(db *sqlx.DB) *TermRepository {
	return &TermRepository{db: db}
}

// FindDetail loads a term with its branch name.
func (r *TermRepository) FindDetail(ctx context.Context, id string) (*models.TermDetail, error) {
	query := `SELECT t.id, t.branch_id, t.number, t.name, b.name AS branch_name
FROM terms t JOIN branches b ON b.id = t.branch_id WHERE t.id = $1`
	var term models.TermDetail
	if err := r.db.GetContext(ctx, &term, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get term: %w", err)
	}
	return &term, nil
}

// FindBranch loads a branch by id.
func (r *TermRepository) FindBranch(ctx context.Context, id string) (*models.Branch, error) {
	query := `SELECT id, institution_id, name, code FROM branches WHERE id = $1`
	var branch models.Branch
	if err := r.db.GetContext(ctx, &branch, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get branch: %w", err)
	}
	return &branch, nil
}
