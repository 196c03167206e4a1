package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/smart-campus-api/internal/models"
	appErrors "github.com/noah-isme/smart-campus-api/pkg/errors"
)

type studentProfileStore interface {
	studentReader
	UpdateProfile(ctx context.Context, id string, profile models.StudentProfile) error
}

// UpdateProfileRequest carries the editable suggestion profile.
type UpdateProfileRequest struct {
	CareerGoal   string `json:"career_goal" validate:"max=500"`
	Interests    string `json:"interests" validate:"max=500"`
	WeakSubjects string `json:"weak_subjects" validate:"max=500"`
}

// StudentService manages student self-service data.
type StudentService struct {
	repo      studentProfileStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentProfileStore, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// Get loads a student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	return loadStudent(ctx, s.repo, id)
}

// UpdateProfile stores trimmed profile fields and returns the refreshed student.
func (s *StudentService) UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err.Error())
	}
	profile := models.StudentProfile{
		CareerGoal:   strings.TrimSpace(req.CareerGoal),
		Interests:    strings.TrimSpace(req.Interests),
		WeakSubjects: strings.TrimSpace(req.WeakSubjects),
	}
	if err := s.repo.UpdateProfile(ctx, id, profile); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFound("student")
		}
		return nil, appErrors.Internal(err, "failed to update profile")
	}
	s.logger.Info("student profile updated", zap.String("student_id", id))
	return loadStudent(ctx, s.repo, id)
}
