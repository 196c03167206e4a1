package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/smart-campus-api/internal/models"
	appErrors "github.com/noah-isme/smart-campus-api/pkg/errors"
	"github.com/noah-isme/smart-campus-api/pkg/export"
)

// ExportFormat names a downloadable rendering.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
	ExportFormatICS ExportFormat = "ics"
)

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

type calendarRenderer interface {
	Render(name string, events []export.CalendarEvent, stamp time.Time) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportService renders attendance summaries and timetables as files.
type ExportService struct {
	students  studentReader
	summary   *AttendanceSummaryService
	timetable *TimetableService
	renderers map[ExportFormat]datasetRenderer
	calendar  calendarRenderer
	location  *time.Location
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(students studentReader, summary *AttendanceSummaryService, timetable *TimetableService, location *time.Location, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.Local
	}
	return &ExportService{
		students:  students,
		summary:   summary,
		timetable: timetable,
		renderers: map[ExportFormat]datasetRenderer{
			ExportFormatCSV: export.NewCSVExporter(),
			ExportFormatPDF: export.NewPDFExporter(),
		},
		calendar: export.NewICSExporter(""),
		location: location,
		logger:   logger,
	}
}

// AttendanceSummary renders a student's per-subject attendance.
func (s *ExportService) AttendanceSummary(ctx context.Context, studentID string, format ExportFormat) (*ExportFile, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Validation(fmt.Sprintf("unsupported export format %q", format))
	}
	student, err := loadStudent(ctx, s.students, studentID)
	if err != nil {
		return nil, err
	}
	summary, err := s.summary.Summarize(ctx, student)
	if err != nil {
		return nil, err
	}

	body, err := renderer.Render(attendanceDataset(student, summary))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render attendance export")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("attendance_%s.%s", sanitizeFilename(student.CollegeID), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

// StudentTimetable renders the student's weekly classes as iCalendar.
func (s *ExportService) StudentTimetable(ctx context.Context, studentID string, now time.Time) (*ExportFile, error) {
	student, err := loadStudent(ctx, s.students, studentID)
	if err != nil {
		return nil, err
	}
	classes, err := s.timetable.StudentWeek(ctx, student)
	if err != nil {
		return nil, err
	}
	return s.renderCalendar(fmt.Sprintf("%s timetable", student.FullName), "timetable_"+sanitizeFilename(student.CollegeID), classes, now)
}

// TeacherTimetable renders the teacher's weekly classes as iCalendar.
func (s *ExportService) TeacherTimetable(ctx context.Context, teacherID string, now time.Time) (*ExportFile, error) {
	if teacherID == "" {
		return nil, appErrors.Validation("teacher id is required")
	}
	classes, err := s.timetable.TeacherWeek(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return s.renderCalendar("Teaching timetable", "timetable_"+sanitizeFilename(teacherID), classes, now)
}

func (s *ExportService) renderCalendar(name, basename string, classes []models.ClassOccurrence, now time.Time) (*ExportFile, error) {
	monday := weekStart(now.In(s.location))
	events := make([]export.CalendarEvent, 0, len(classes))
	for _, class := range classes {
		day := monday.AddDate(0, 0, int(class.DayOfWeek))
		room := class.Room
		if room == "" {
			room = "TBA"
		}
		events = append(events, export.CalendarEvent{
			UID:         uuid.NewSHA1(uuid.NameSpaceURL, []byte("class-schedule:"+class.ID)).String(),
			Summary:     fmt.Sprintf("%s (%s)", class.SubjectName, class.SubjectCode),
			Location:    room,
			Description: fmt.Sprintf("%s %s-%s", class.DayOfWeek, class.StartTime, class.EndTime),
			Start:       class.StartTime.On(day),
			End:         class.EndTime.On(day),
			Weekly:      true,
		})
	}
	body, err := s.calendar.Render(name, events, now.UTC())
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render timetable export")
	}
	return &ExportFile{
		Filename:    basename + "." + s.calendar.Extension(),
		ContentType: s.calendar.ContentType(),
		Body:        body,
	}, nil
}

func attendanceDataset(student *models.Student, summary *models.AttendanceSummary) export.Dataset {
	headers := []string{"Code", "Subject", "Attended", "Total", "Percentage", "Status", "Classes Needed"}
	rows := make([]map[string]string, 0, len(summary.Subjects)+1)
	for _, subject := range summary.Subjects {
		rows = append(rows, classificationRow(headers, subject.SubjectCode, subject.SubjectName, subject.Classification))
	}
	rows = append(rows, classificationRow(headers, "", "Overall", summary.Overall))
	return export.Dataset{
		Title:   "Attendance Summary",
		Notes:   []string{fmt.Sprintf("Student: %s (%s)", student.FullName, student.CollegeID)},
		Headers: headers,
		Rows:    rows,
	}
}

func classificationRow(headers []string, code, name string, c models.Classification) map[string]string {
	values := []string{
		code,
		name,
		fmt.Sprintf("%d", c.Present),
		fmt.Sprintf("%d", c.Total),
		fmt.Sprintf("%.1f", models.RoundPercent(c.Percentage)),
		string(c.Tier),
		fmt.Sprintf("%d", c.ClassesNeeded),
	}
	row := make(map[string]string, len(headers))
	for i, header := range headers {
		row[header] = values[i]
	}
	return row
}

func weekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -int(models.WeekdayOf(day)))
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "\"", "")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
