package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/smart-campus-api/internal/models"
)

const unknownLabel = "N/A"

type termDetailReader interface {
	FindDetail(ctx context.Context, id string) (*models.TermDetail, error)
	FindBranch(ctx context.Context, id string) (*models.Branch, error)
}

// RoutineConfig shapes the composed routine.
type RoutineConfig struct {
	Window    SlotWindow
	AlertLead time.Duration
}

// RoutineService composes a student's daily plan.
type RoutineService struct {
	students    studentReader
	terms       termDetailReader
	timetable   *TimetableService
	summary     *AttendanceSummaryService
	suggestions *TaskSuggestionService
	cfg         RoutineConfig
	logger      *zap.Logger
}

// NewRoutineService constructs the composer.
func NewRoutineService(students studentReader, terms termDetailReader, timetable *TimetableService, summary *AttendanceSummaryService, suggestions *TaskSuggestionService, cfg RoutineConfig, logger *zap.Logger) *RoutineService {
	if cfg.AlertLead <= 0 {
		cfg.AlertLead = 15 * time.Minute
	}
	if cfg.Window.Step <= 0 {
		cfg.Window = SlotWindow{Start: models.NewTimeOfDay(9, 0, 0), End: models.NewTimeOfDay(18, 0, 0), Step: time.Hour}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoutineService{
		students:    students,
		terms:       terms,
		timetable:   timetable,
		summary:     summary,
		suggestions: suggestions,
		cfg:         cfg,
		logger:      logger,
	}
}

// Compose builds the routine for the calendar day of now.
func (s *RoutineService) Compose(ctx context.Context, studentID string, now time.Time) (*models.Routine, error) {
	student, err := loadStudent(ctx, s.students, studentID)
	if err != nil {
		return nil, err
	}

	day := models.WeekdayOf(now)
	classes, err := s.timetable.ForStudentOn(ctx, student, day)
	if err != nil {
		return nil, err
	}

	summary, err := s.summary.Summarize(ctx, student)
	if err != nil {
		return nil, err
	}
	lowAttendance := LowAttendanceSubjects(summary)

	routine := &models.Routine{
		Alerts:                ClassAlerts(classes, models.TimeOfDayFrom(now), s.cfg.AlertLead),
		LowAttendanceSubjects: lowAttendance,
	}
	routine.BranchName, routine.TermLabel = s.labels(ctx, student)

	slots := FreeSlots(classes, s.cfg.Window)
	tasks := s.suggestions.Suggest(ctx, SuggestionRequest{
		Profile:          student.Profile(),
		AttendanceAlerts: lowAttendance,
		TargetPercent:    s.summary.Classifier().Target(),
		DayName:          day.String(),
		ClassCount:       len(classes),
		SlotCount:        len(slots),
	})
	routine.Entries = MergeRoutine(classes, tasks, slots)
	return routine, nil
}

// LowAttendanceSubjects lists below-target subjects that have attendance data.
func LowAttendanceSubjects(summary *models.AttendanceSummary) []string {
	subjects := []string{}
	if summary == nil {
		return subjects
	}
	for _, subject := range summary.Subjects {
		if subject.Total == 0 || !subject.BelowThreshold {
			continue
		}
		subjects = append(subjects, fmt.Sprintf("%s (%.1f%%)", subject.SubjectName, subject.Percentage))
	}
	return subjects
}

// ClassAlerts flags classes starting within lead of now, both ends inclusive.
func ClassAlerts(classes []models.ClassOccurrence, now models.TimeOfDay, lead time.Duration) []models.Alert {
	alerts := []models.Alert{}
	leadSeconds := int(lead / time.Second)
	for _, class := range classes {
		diff := int(class.StartTime - now)
		if diff < 0 || diff > leadSeconds {
			continue
		}
		room := class.Room
		if room == "" {
			room = "TBA"
		}
		alerts = append(alerts, models.Alert{
			Urgency: models.UrgencyHigh,
			Message: fmt.Sprintf("Your %s class starts in %d minutes at %s!", class.SubjectName, diff/60, room),
		})
	}
	return alerts
}

// MergeRoutine pairs the i-th task with the i-th free slot and orders all
// entries by time. Tasks beyond the available slots are dropped.
func MergeRoutine(classes []models.ClassOccurrence, tasks []models.SuggestedTask, slots []models.TimeOfDay) []models.RoutineEntry {
	entries := make([]models.RoutineEntry, 0, len(classes)+len(tasks))
	for _, class := range classes {
		entries = append(entries, models.ClassEntry{
			Time:        class.StartTime,
			Title:       class.SubjectName,
			Room:        class.Room,
			SubjectCode: class.SubjectCode,
		})
	}
	for i, task := range tasks {
		if i >= len(slots) {
			break
		}
		entries = append(entries, models.TaskEntry{Time: slots[i], Title: task.Title, Priority: task.Priority})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].At() < entries[j].At()
	})
	return entries
}

func (s *RoutineService) labels(ctx context.Context, student *models.Student) (string, string) {
	branch, term := unknownLabel, unknownLabel
	if student.HasTerm() {
		detail, err := s.terms.FindDetail(ctx, *student.CurrentTermID)
		switch {
		case err == nil:
			return detail.BranchName, detail.Label()
		case !errors.Is(err, sql.ErrNoRows):
			s.logger.Warn("term lookup failed", zap.String("term_id", *student.CurrentTermID), zap.Error(err))
		}
	}
	if student.BranchID != nil && *student.BranchID != "" {
		b, err := s.terms.FindBranch(ctx, *student.BranchID)
		if err == nil {
			branch = b.Name
		} else if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("branch lookup failed", zap.String("branch_id", *student.BranchID), zap.Error(err))
		}
	}
	return branch, term
}
