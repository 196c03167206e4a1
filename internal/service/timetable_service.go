package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/smart-campus-api/internal/models"
	appErrors "github.com/noah-isme/smart-campus-api/pkg/errors"
)

type teacherScheduleLister interface {
	ListByTeacherAndDay(ctx context.Context, teacherID string, day models.Weekday) ([]models.ClassOccurrence, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.ClassOccurrence, error)
}

type attendanceTakenChecker interface {
	TakenOn(ctx context.Context, scheduleIDs []string, date time.Time) (map[string]bool, error)
}

// TimetableService resolves class occurrences for students and teachers.
type TimetableService struct {
	students  studentReader
	subjects  subjectLister
	schedules subjectScheduleLister
	teachers  teacherScheduleLister
	taken     attendanceTakenChecker
	logger    *zap.Logger
}

// NewTimetableService constructs the resolver.
func NewTimetableService(students studentReader, subjects subjectLister, schedules subjectScheduleLister, teachers teacherScheduleLister, taken attendanceTakenChecker, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		students:  students,
		subjects:  subjects,
		schedules: schedules,
		teachers:  teachers,
		taken:     taken,
		logger:    logger,
	}
}

// StudentDay returns the student's classes on a weekday.
func (s *TimetableService) StudentDay(ctx context.Context, studentID string, day models.Weekday) ([]models.ClassOccurrence, error) {
	if !day.Valid() {
		return nil, appErrors.Validation("weekday must be between 0 and 6")
	}
	student, err := loadStudent(ctx, s.students, studentID)
	if err != nil {
		return nil, err
	}
	return s.studentOccurrences(ctx, student, &day)
}

// StudentWeek returns every class of the student's current term.
func (s *TimetableService) StudentWeek(ctx context.Context, student *models.Student) ([]models.ClassOccurrence, error) {
	return s.studentOccurrences(ctx, student, nil)
}

// ForStudentOn resolves classes for an already loaded student.
func (s *TimetableService) ForStudentOn(ctx context.Context, student *models.Student, day models.Weekday) ([]models.ClassOccurrence, error) {
	return s.studentOccurrences(ctx, student, &day)
}

func (s *TimetableService) studentOccurrences(ctx context.Context, student *models.Student, day *models.Weekday) ([]models.ClassOccurrence, error) {
	occurrences := []models.ClassOccurrence{}
	if !student.HasTerm() {
		return occurrences, nil
	}
	subjects, err := s.subjects.ListByTerm(ctx, *student.CurrentTermID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load subjects")
	}
	for _, subject := range subjects {
		schedules, err := s.schedules.ListBySubject(ctx, subject.ID)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to load class schedules")
		}
		for _, schedule := range schedules {
			if day != nil && schedule.DayOfWeek != *day {
				continue
			}
			occurrences = append(occurrences, models.ClassOccurrence{
				ClassSchedule: schedule,
				SubjectName:   subject.Name,
				SubjectCode:   subject.Code,
				TermID:        subject.TermID,
			})
		}
	}
	sortOccurrences(occurrences)
	return occurrences, nil
}

// TeacherDay returns a teacher's classes on a weekday.
func (s *TimetableService) TeacherDay(ctx context.Context, teacherID string, day models.Weekday) ([]models.ClassOccurrence, error) {
	if teacherID == "" {
		return nil, appErrors.Validation("teacher id is required")
	}
	if !day.Valid() {
		return nil, appErrors.Validation("weekday must be between 0 and 6")
	}
	occurrences, err := s.teachers.ListByTeacherAndDay(ctx, teacherID, day)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load teacher timetable")
	}
	if occurrences == nil {
		occurrences = []models.ClassOccurrence{}
	}
	sortOccurrences(occurrences)
	return occurrences, nil
}

// TeacherWeek returns all of a teacher's classes ordered by day then time.
func (s *TimetableService) TeacherWeek(ctx context.Context, teacherID string) ([]models.ClassOccurrence, error) {
	occurrences, err := s.teachers.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load teacher timetable")
	}
	sort.SliceStable(occurrences, func(i, j int) bool {
		if occurrences[i].DayOfWeek != occurrences[j].DayOfWeek {
			return occurrences[i].DayOfWeek < occurrences[j].DayOfWeek
		}
		return lessOccurrence(occurrences[i], occurrences[j])
	})
	return occurrences, nil
}

// TeacherDailyClasses lists a teacher's classes on date with attendance state.
func (s *TimetableService) TeacherDailyClasses(ctx context.Context, teacherID string, date time.Time) ([]models.TeacherClass, error) {
	occurrences, err := s.TeacherDay(ctx, teacherID, models.WeekdayOf(date))
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(occurrences))
	for i, occ := range occurrences {
		ids[i] = occ.ID
	}
	taken, err := s.taken.TakenOn(ctx, ids, date)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load attendance state")
	}
	classes := make([]models.TeacherClass, len(occurrences))
	for i, occ := range occurrences {
		classes[i] = models.TeacherClass{ClassOccurrence: occ, AttendanceTaken: taken[occ.ID]}
	}
	return classes, nil
}

func sortOccurrences(occurrences []models.ClassOccurrence) {
	sort.SliceStable(occurrences, func(i, j int) bool {
		return lessOccurrence(occurrences[i], occurrences[j])
	})
}

func lessOccurrence(a, b models.ClassOccurrence) bool {
	if a.StartTime != b.StartTime {
		return a.StartTime < b.StartTime
	}
	return a.ID < b.ID
}
