package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/smart-campus-api/internal/dto"
	"github.com/noah-isme/smart-campus-api/internal/middleware"
	"github.com/noah-isme/smart-campus-api/internal/models"
	"github.com/noah-isme/smart-campus-api/internal/service"
	"github.com/noah-isme/smart-campus-api/pkg/response"
)

type teacherTimetable interface {
	TeacherDay(ctx context.Context, teacherID string, day models.Weekday) ([]models.ClassOccurrence, error)
	TeacherDailyClasses(ctx context.Context, teacherID string, date time.Time) ([]models.TeacherClass, error)
}

type teacherOverview interface {
	Overview(ctx context.Context, teacherID string) ([]models.ClassOverview, error)
}

type teacherExporter interface {
	TeacherTimetable(ctx context.Context, teacherID string, now time.Time) (*service.ExportFile, error)
}

// TeacherHandler serves a teacher's timetable and attendance overview.
type TeacherHandler struct {
	timetable teacherTimetable
	overview  teacherOverview
	exports   teacherExporter
	clock     Clock
}

// NewTeacherHandler constructs a TeacherHandler.
func NewTeacherHandler(timetable teacherTimetable, overview teacherOverview, exports teacherExporter, clock Clock) *TeacherHandler {
	if clock == nil {
		clock = NewClock(nil)
	}
	return &TeacherHandler{timetable: timetable, overview: overview, exports: exports, clock: clock}
}

// Classes godoc
// @Summary Teacher classes on a date with attendance state
// @Tags Teachers
// @Produce json
// @Param id path string true "Teacher ID"
// @Param date query string false "Date (YYYY-MM-DD). Defaults to today"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/classes [get]
func (h *TeacherHandler) Classes(c *gin.Context) {
	date, err := dateQuery(c, h.clock())
	if err != nil {
		response.Error(c, err)
		return
	}
	classes, err := h.timetable.TeacherDailyClasses(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "date", date.Format(dateLayout))
	middleware.SetMeta(c, "day", models.WeekdayOf(date).String())
	response.OK(c, dto.NewTeacherClassesResponse(classes), middleware.ExtractMeta(c))
}

// Timetable godoc
// @Summary Teacher classes for a weekday
// @Tags Teachers
// @Produce json
// @Param id path string true "Teacher ID"
// @Param day query int false "Weekday 0 (Monday) to 6 (Sunday). Defaults to today"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/timetable [get]
func (h *TeacherHandler) Timetable(c *gin.Context) {
	day, err := weekdayQuery(c, h.clock())
	if err != nil {
		response.Error(c, err)
		return
	}
	classes, err := h.timetable.TeacherDay(c.Request.Context(), c.Param("id"), day)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "day", day.String())
	response.OK(c, dto.NewTimetableResponse(classes), middleware.ExtractMeta(c))
}

// Overview godoc
// @Summary Semester attendance across the teacher's classes
// @Tags Teachers
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/overview [get]
func (h *TeacherHandler) Overview(c *gin.Context) {
	overview, err := h.overview.Overview(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewClassOverviewResponse(overview))
}

// ExportTimetable godoc
// @Summary Download teaching timetable as iCalendar
// @Tags Teachers
// @Produce text/calendar
// @Param id path string true "Teacher ID"
// @Success 200 {file} file
// @Router /teachers/{id}/timetable/export [get]
func (h *TeacherHandler) ExportTimetable(c *gin.Context) {
	file, err := h.exports.TeacherTimetable(c.Request.Context(), c.Param("id"), h.clock())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
