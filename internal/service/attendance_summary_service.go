package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/smart-campus-api/internal/models"
	appErrors "github.com/noah-isme/smart-campus-api/pkg/errors"
)

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type subjectLister interface {
	ListByTerm(ctx context.Context, termID string) ([]models.Subject, error)
}

type subjectScheduleLister interface {
	ListBySubject(ctx context.Context, subjectID string) ([]models.ClassSchedule, error)
}

type attendanceCounter interface {
	Count(ctx context.Context, studentID, scheduleID string) (models.AttendanceCount, error)
}

// AttendanceSummaryService aggregates a student's attendance per subject.
type AttendanceSummaryService struct {
	students   studentReader
	subjects   subjectLister
	schedules  subjectScheduleLister
	ledger     attendanceCounter
	classifier AttendanceClassifier
	logger     *zap.Logger
}

// NewAttendanceSummaryService constructs the aggregator.
func NewAttendanceSummaryService(students studentReader, subjects subjectLister, schedules subjectScheduleLister, ledger attendanceCounter, classifier AttendanceClassifier, logger *zap.Logger) *AttendanceSummaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceSummaryService{
		students:   students,
		subjects:   subjects,
		schedules:  schedules,
		ledger:     ledger,
		classifier: classifier,
		logger:     logger,
	}
}

// Classifier exposes the classifier used for summaries.
func (s *AttendanceSummaryService) Classifier() AttendanceClassifier { return s.classifier }

// SummarizeStudent loads the student and aggregates their current term.
func (s *AttendanceSummaryService) SummarizeStudent(ctx context.Context, studentID string) (*models.AttendanceSummary, error) {
	student, err := loadStudent(ctx, s.students, studentID)
	if err != nil {
		return nil, err
	}
	return s.Summarize(ctx, student)
}

// Summarize aggregates an already loaded student. The overall figure is pooled
// from subject totals, not averaged across subject percentages.
func (s *AttendanceSummaryService) Summarize(ctx context.Context, student *models.Student) (*models.AttendanceSummary, error) {
	summary := &models.AttendanceSummary{StudentID: student.ID, Subjects: []models.SubjectSummary{}}
	if !student.HasTerm() {
		summary.Overall = s.classifier.Classify(0, 0)
		return summary, nil
	}

	subjects, err := s.subjects.ListByTerm(ctx, *student.CurrentTermID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load subjects")
	}

	var overall models.AttendanceCount
	for _, subject := range subjects {
		count := s.subjectCount(ctx, student.ID, subject)
		overall.Total += count.Total
		overall.Present += count.Present
		summary.Subjects = append(summary.Subjects, models.SubjectSummary{
			SubjectID:      subject.ID,
			SubjectCode:    subject.Code,
			SubjectName:    subject.Name,
			Classification: s.classifier.Classify(count.Total, count.Present),
		})
	}
	summary.Overall = s.classifier.Classify(overall.Total, overall.Present)
	return summary, nil
}

// subjectCount sums the ledger across a subject's templates. Failures are
// logged and skipped so one subject cannot abort the rest.
func (s *AttendanceSummaryService) subjectCount(ctx context.Context, studentID string, subject models.Subject) models.AttendanceCount {
	var count models.AttendanceCount
	schedules, err := s.schedules.ListBySubject(ctx, subject.ID)
	if err != nil {
		s.logger.Warn("skip subject schedules", zap.String("subject_id", subject.ID), zap.Error(err))
		return count
	}
	for _, schedule := range schedules {
		c, err := s.ledger.Count(ctx, studentID, schedule.ID)
		if err != nil {
			s.logger.Warn("skip class attendance count", zap.String("class_schedule_id", schedule.ID), zap.Error(err))
			continue
		}
		count.Total += c.Total
		count.Present += c.Present
	}
	return count
}

func loadStudent(ctx context.Context, students studentReader, id string) (*models.Student, error) {
	if id == "" {
		return nil, appErrors.Validation("student id is required")
	}
	student, err := students.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFound("student")
		}
		return nil, appErrors.Internal(err, "failed to load student")
	}
	return student, nil
}
