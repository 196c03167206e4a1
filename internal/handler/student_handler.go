package handler

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/smart-campus-api/internal/dto"
	"github.com/noah-isme/smart-campus-api/internal/middleware"
	"github.com/noah-isme/smart-campus-api/internal/models"
	"github.com/noah-isme/smart-campus-api/internal/service"
	appErrors "github.com/noah-isme/smart-campus-api/pkg/errors"
	"github.com/noah-isme/smart-campus-api/pkg/response"
)

type studentProfileService interface {
	Get(ctx context.Context, id string) (*models.Student, error)
	UpdateProfile(ctx context.Context, id string, req service.UpdateProfileRequest) (*models.Student, error)
}

type routineComposer interface {
	Compose(ctx context.Context, studentID string, now time.Time) (*models.Routine, error)
}

type attendanceSummarizer interface {
	SummarizeStudent(ctx context.Context, studentID string) (*models.AttendanceSummary, error)
	Classifier() service.AttendanceClassifier
}

type studentTimetable interface {
	StudentDay(ctx context.Context, studentID string, day models.Weekday) ([]models.ClassOccurrence, error)
}

type studentExporter interface {
	AttendanceSummary(ctx context.Context, studentID string, format service.ExportFormat) (*service.ExportFile, error)
	StudentTimetable(ctx context.Context, studentID string, now time.Time) (*service.ExportFile, error)
}

// StudentHandler serves student self-service endpoints.
type StudentHandler struct {
	students  studentProfileService
	routines  routineComposer
	summaries attendanceSummarizer
	timetable studentTimetable
	exports   studentExporter
	clock     Clock
}

// NewStudentHandler constructs a StudentHandler.
func NewStudentHandler(students studentProfileService, routines routineComposer, summaries attendanceSummarizer, timetable studentTimetable, exports studentExporter, clock Clock) *StudentHandler {
	if clock == nil {
		clock = NewClock(nil)
	}
	return &StudentHandler{students: students, routines: routines, summaries: summaries, timetable: timetable, exports: exports, clock: clock}
}

// Get godoc
// @Summary Get student profile
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// UpdateProfile godoc
// @Summary Update career goal, interests and weak subjects
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.UpdateProfileRequest true "Profile"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/profile [put]
func (h *StudentHandler) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	student, err := h.students.UpdateProfile(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// Routine godoc
// @Summary Smart routine for today
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/routine [get]
func (h *StudentHandler) Routine(c *gin.Context) {
	routine, err := h.routines.Compose(c.Request.Context(), c.Param("id"), h.clock())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewRoutineResponse(routine), middleware.ExtractMeta(c))
}

// Attendance godoc
// @Summary Per-subject attendance summary
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/attendance [get]
func (h *StudentHandler) Attendance(c *gin.Context) {
	summary, err := h.summaries.SummarizeStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewAttendanceSummaryResponse(summary, h.summaries.Classifier().Target()))
}

// Timetable godoc
// @Summary Student classes for a weekday
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Param day query int false "Weekday 0 (Monday) to 6 (Sunday). Defaults to today"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/timetable [get]
func (h *StudentHandler) Timetable(c *gin.Context) {
	day, err := weekdayQuery(c, h.clock())
	if err != nil {
		response.Error(c, err)
		return
	}
	classes, err := h.timetable.StudentDay(c.Request.Context(), c.Param("id"), day)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "day", day.String())
	response.OK(c, dto.NewTimetableResponse(classes), middleware.ExtractMeta(c))
}

// ExportAttendance godoc
// @Summary Download attendance summary
// @Tags Students
// @Produce text/csv,application/pdf
// @Param id path string true "Student ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /students/{id}/attendance/export [get]
func (h *StudentHandler) ExportAttendance(c *gin.Context) {
	format := service.ExportFormat(strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", string(service.ExportFormatCSV)))))
	file, err := h.exports.AttendanceSummary(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// ExportTimetable godoc
// @Summary Download weekly timetable as iCalendar
// @Tags Students
// @Produce text/calendar
// @Param id path string true "Student ID"
// @Success 200 {file} file
// @Router /students/{id}/timetable/export [get]
func (h *StudentHandler) ExportTimetable(c *gin.Context) {
	file, err := h.exports.StudentTimetable(c.Request.Context(), c.Param("id"), h.clock())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
