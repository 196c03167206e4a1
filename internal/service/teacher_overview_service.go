package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/smart-campus-api/internal/models"
	appErrors "github.com/noah-isme/smart-campus-api/pkg/errors"
)

type classCounter interface {
	CountsByClass(ctx context.Context, scheduleID string) (map[string]models.AttendanceCount, error)
}

type termRoster interface {
	ListByTerm(ctx context.Context, termID string) ([]models.Student, error)
}

// TeacherOverviewService reports semester attendance for a teacher's classes.
type TeacherOverviewService struct {
	timetable *TimetableService
	students  termRoster
	counts    classCounter
	logger    *zap.Logger
}

// NewTeacherOverviewService constructs the overview service.
func NewTeacherOverviewService(timetable *TimetableService, students termRoster, counts classCounter, logger *zap.Logger) *TeacherOverviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherOverviewService{timetable: timetable, students: students, counts: counts, logger: logger}
}

// Overview lists every class the teacher runs with per-student standing. The
// class average is the mean of student percentages, zero-record students included.
func (s *TeacherOverviewService) Overview(ctx context.Context, teacherID string) ([]models.ClassOverview, error) {
	if teacherID == "" {
		return nil, appErrors.Validation("teacher id is required")
	}
	classes, err := s.timetable.TeacherWeek(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	rosters := map[string][]models.Student{}
	overviews := make([]models.ClassOverview, 0, len(classes))
	for _, class := range classes {
		roster, ok := rosters[class.TermID]
		if !ok {
			roster, err = s.students.ListByTerm(ctx, class.TermID)
			if err != nil {
				return nil, appErrors.Internal(err, "failed to load class roster")
			}
			rosters[class.TermID] = roster
		}
		counts, err := s.counts.CountsByClass(ctx, class.ID)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to count class attendance")
		}

		overview := models.ClassOverview{ClassOccurrence: class, Students: make([]models.StudentClassAttendance, 0, len(roster))}
		var sum float64
		for _, student := range roster {
			count := counts[student.ID]
			row := models.StudentClassAttendance{
				StudentID: student.ID,
				CollegeID: student.CollegeID,
				FullName:  student.FullName,
				Total:     count.Total,
				Present:   count.Present,
			}
			if count.Total > 0 {
				row.Percentage = float64(count.Present) / float64(count.Total) * 100
			}
			sum += row.Percentage
			overview.Students = append(overview.Students, row)
		}
		if len(roster) > 0 {
			overview.AveragePercent = sum / float64(len(roster))
		}
		overviews = append(overviews, overview)
	}
	return overviews, nil
}
