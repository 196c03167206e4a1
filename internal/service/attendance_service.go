package service

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/smart-campus-api/internal/models"
	appErrors "github.com/noah-isme/smart-campus-api/pkg/errors"
)

var allowedImageExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

type classScheduleFinder interface {
	FindByID(ctx context.Context, id string) (*models.ClassOccurrence, error)
}

type rosterReader interface {
	ListByTerm(ctx context.Context, termID string) ([]models.Student, error)
	FindByCollegeIDs(ctx context.Context, institutionID string, collegeIDs []string) ([]models.Student, error)
}

type attendanceStore interface {
	BulkUpsert(ctx context.Context, records []models.AttendanceRecord) error
	ListByClassAndDate(ctx context.Context, scheduleID string, date time.Time) ([]models.ClassAttendanceRow, error)
	HistoryByClass(ctx context.Context, scheduleID string) ([]models.AttendanceHistoryRow, error)
}

// FaceMatcher recognises identity labels in a photo.
type FaceMatcher interface {
	Match(ctx context.Context, image []byte, filename string) ([]string, error)
}

// SaveAttendanceRequest is a class's attendance submission for one date.
type SaveAttendanceRequest struct {
	ClassScheduleID string                  `validate:"required"`
	Date            time.Time               `validate:"required"`
	MarkedBy        string                  `validate:"required"`
	Marks           []models.AttendanceMark `validate:"required,min=1,dive"`
}

// RecognitionUpload is a class photo submitted for face matching.
type RecognitionUpload struct {
	ClassScheduleID string
	InstitutionID   string
	Filename        string
	Image           []byte
}

// AttendanceService captures and reports class attendance.
type AttendanceService struct {
	schedules      classScheduleFinder
	students       rosterReader
	store          attendanceStore
	matcher        FaceMatcher
	maxUploadBytes int64
	validator      *validator.Validate
	metrics        *MetricsService
	logger         *zap.Logger
}

// NewAttendanceService constructs the attendance capture service.
func NewAttendanceService(schedules classScheduleFinder, students rosterReader, store attendanceStore, matcher FaceMatcher, maxUploadBytes int64, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = 8 << 20
	}
	return &AttendanceService{
		schedules:      schedules,
		students:       students,
		store:          store,
		matcher:        matcher,
		maxUploadBytes: maxUploadBytes,
		validator:      validate,
		metrics:        metrics,
		logger:         logger,
	}
}

// Roster lists the students enrolled in the class's term.
func (s *AttendanceService) Roster(ctx context.Context, scheduleID string) ([]models.Student, error) {
	class, err := s.class(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	return s.roster(ctx, class)
}

// ClassAttendance lists recorded statuses for a class on date.
func (s *AttendanceService) ClassAttendance(ctx context.Context, scheduleID string, date time.Time) ([]models.ClassAttendanceRow, error) {
	if _, err := s.class(ctx, scheduleID); err != nil {
		return nil, err
	}
	rows, err := s.store.ListByClassAndDate(ctx, scheduleID, date)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load class attendance")
	}
	if rows == nil {
		rows = []models.ClassAttendanceRow{}
	}
	return rows, nil
}

// Recognize matches faces in a class photo against the roster. Nothing is persisted.
func (s *AttendanceService) Recognize(ctx context.Context, upload RecognitionUpload) (*models.RecognitionResult, error) {
	if err := s.validateUpload(upload); err != nil {
		return nil, err
	}
	class, err := s.class(ctx, upload.ClassScheduleID)
	if err != nil {
		return nil, err
	}

	labels, err := s.matcher.Match(ctx, upload.Image, filepath.Base(upload.Filename))
	if err != nil {
		s.metrics.RecordRecognition(RecognitionFailed)
		s.logger.Error("face recognition failed", zap.String("class_schedule_id", class.ID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrRecognition.Code, appErrors.ErrRecognition.Status, appErrors.ErrRecognition.Message)
	}

	result := &models.RecognitionResult{
		ClassScheduleID: class.ID,
		MatchedLabels:   labels,
		Students:        []models.Student{},
		UnknownLabels:   []string{},
	}
	if len(labels) == 0 {
		s.metrics.RecordRecognition(RecognitionEmpty)
		return result, nil
	}
	s.metrics.RecordRecognition(RecognitionMatched)

	found, err := s.students.FindByCollegeIDs(ctx, upload.InstitutionID, labels)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to resolve recognised students")
	}
	enrolled := make(map[string]models.Student, len(found))
	for _, student := range found {
		if student.CurrentTermID != nil && *student.CurrentTermID == class.TermID {
			enrolled[student.CollegeID] = student
		}
	}
	for _, label := range labels {
		if student, ok := enrolled[label]; ok {
			result.Students = append(result.Students, student)
			continue
		}
		result.UnknownLabels = append(result.UnknownLabels, label)
	}
	return result, nil
}

// Save upserts the submitted statuses in one transaction. A student listed
// twice keeps the last status; students outside the roster are skipped.
func (s *AttendanceService) Save(ctx context.Context, req SaveAttendanceRequest) (*models.SaveAttendanceResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err.Error())
	}
	class, err := s.class(ctx, req.ClassScheduleID)
	if err != nil {
		return nil, err
	}
	roster, err := s.roster(ctx, class)
	if err != nil {
		return nil, err
	}
	enrolled := make(map[string]bool, len(roster))
	for _, student := range roster {
		enrolled[student.ID] = true
	}

	latest := make(map[string]models.AttendanceStatus, len(req.Marks))
	order := make([]string, 0, len(req.Marks))
	for _, mark := range req.Marks {
		if _, seen := latest[mark.StudentID]; !seen {
			order = append(order, mark.StudentID)
		}
		latest[mark.StudentID] = mark.Status
	}

	result := &models.SaveAttendanceResult{ClassScheduleID: class.ID, Date: dateOnly(req.Date), Skipped: []string{}}
	markedBy := req.MarkedBy
	records := make([]models.AttendanceRecord, 0, len(order))
	for _, studentID := range order {
		if !enrolled[studentID] {
			result.Skipped = append(result.Skipped, studentID)
			continue
		}
		records = append(records, models.AttendanceRecord{
			StudentID:       studentID,
			ClassScheduleID: class.ID,
			Date:            result.Date,
			Status:          latest[studentID],
			MarkedBy:        &markedBy,
		})
	}

	if err := s.store.BulkUpsert(ctx, records); err != nil {
		return nil, appErrors.Internal(err, "failed to save attendance")
	}
	result.Saved = len(records)
	s.metrics.RecordAttendanceSaved(result.Saved)
	if len(result.Skipped) > 0 {
		s.logger.Info("skipped students outside roster", zap.String("class_schedule_id", class.ID), zap.Strings("student_ids", result.Skipped))
	}
	return result, nil
}

// History groups a class's ledger by date, newest first.
func (s *AttendanceService) History(ctx context.Context, scheduleID string) ([]models.AttendanceHistoryDay, error) {
	if _, err := s.class(ctx, scheduleID); err != nil {
		return nil, err
	}
	rows, err := s.store.HistoryByClass(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load attendance history")
	}
	return GroupHistory(rows), nil
}

// GroupHistory folds ledger rows into per-date totals. Absent counts every
// non-present status.
func GroupHistory(rows []models.AttendanceHistoryRow) []models.AttendanceHistoryDay {
	days := []models.AttendanceHistoryDay{}
	index := map[string]int{}
	for _, row := range rows {
		key := row.Date.Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			i = len(days)
			index[key] = i
			days = append(days, models.AttendanceHistoryDay{Date: dateOnly(row.Date), Students: []models.ClassAttendanceRow{}})
		}
		day := &days[i]
		day.Total++
		if row.Status == models.AttendanceStatusPresent {
			day.Present++
		}
		day.Students = append(day.Students, row.ClassAttendanceRow)
	}
	for i := range days {
		days[i].Absent = days[i].Total - days[i].Present
		if days[i].Total > 0 {
			days[i].Percentage = float64(days[i].Present) / float64(days[i].Total) * 100
		}
	}
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Date.After(days[j].Date)
	})
	return days
}

func (s *AttendanceService) validateUpload(upload RecognitionUpload) error {
	if upload.ClassScheduleID == "" {
		return appErrors.Validation("class id is required")
	}
	if strings.TrimSpace(upload.Filename) == "" || len(upload.Image) == 0 {
		return appErrors.Validation("attendance photo is required")
	}
	if !allowedImageExt[strings.ToLower(filepath.Ext(upload.Filename))] {
		return appErrors.Validation("attendance photo must be a jpg or png image")
	}
	if int64(len(upload.Image)) > s.maxUploadBytes {
		return appErrors.Clone(appErrors.ErrTooLarge, "attendance photo exceeds upload limit")
	}
	return nil
}

func (s *AttendanceService) class(ctx context.Context, scheduleID string) (*models.ClassOccurrence, error) {
	if scheduleID == "" {
		return nil, appErrors.Validation("class id is required")
	}
	class, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFound("class")
		}
		return nil, appErrors.Internal(err, "failed to load class")
	}
	return class, nil
}

func (s *AttendanceService) roster(ctx context.Context, class *models.ClassOccurrence) ([]models.Student, error) {
	students, err := s.students.ListByTerm(ctx, class.TermID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load class roster")
	}
	if students == nil {
		students = []models.Student{}
	}
	return students, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
