package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/smart-campus-api/internal/dto"
	"github.com/noah-isme/smart-campus-api/internal/middleware"
	"github.com/noah-isme/smart-campus-api/internal/models"
	"github.com/noah-isme/smart-campus-api/internal/service"
	appErrors "github.com/noah-isme/smart-campus-api/pkg/errors"
	"github.com/noah-isme/smart-campus-api/pkg/response"
)

const photoField = "image"

type classAttendance interface {
	Roster(ctx context.Context, scheduleID string) ([]models.Student, error)
	ClassAttendance(ctx context.Context, scheduleID string, date time.Time) ([]models.ClassAttendanceRow, error)
	Recognize(ctx context.Context, upload service.RecognitionUpload) (*models.RecognitionResult, error)
	Save(ctx context.Context, req service.SaveAttendanceRequest) (*models.SaveAttendanceResult, error)
	History(ctx context.Context, scheduleID string) ([]models.AttendanceHistoryDay, error)
}

// ClassHandler serves roster and attendance capture for one class.
type ClassHandler struct {
	attendance     classAttendance
	maxUploadBytes int64
	clock          Clock
}

// NewClassHandler constructs a ClassHandler.
func NewClassHandler(attendance classAttendance, maxUploadBytes int64, clock Clock) *ClassHandler {
	if clock == nil {
		clock = NewClock(nil)
	}
	return &ClassHandler{attendance: attendance, maxUploadBytes: maxUploadBytes, clock: clock}
}

// Roster godoc
// @Summary Students enrolled in the class term
// @Tags Classes
// @Produce json
// @Param id path string true "Class schedule ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/students [get]
func (h *ClassHandler) Roster(c *gin.Context) {
	students, err := h.attendance.Roster(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "total", len(students))
	response.OK(c, students, middleware.ExtractMeta(c))
}

// Attendance godoc
// @Summary Recorded attendance for a date
// @Tags Classes
// @Produce json
// @Param id path string true "Class schedule ID"
// @Param date query string false "Date (YYYY-MM-DD). Defaults to today"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/attendance [get]
func (h *ClassHandler) Attendance(c *gin.Context) {
	date, err := dateQuery(c, h.clock())
	if err != nil {
		response.Error(c, err)
		return
	}
	rows, err := h.attendance.ClassAttendance(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "date", date.Format(dateLayout))
	response.OK(c, rows, middleware.ExtractMeta(c))
}

// History godoc
// @Summary Attendance history grouped by date
// @Tags Classes
// @Produce json
// @Param id path string true "Class schedule ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/attendance/history [get]
func (h *ClassHandler) History(c *gin.Context) {
	days, err := h.attendance.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewHistoryResponse(days))
}

// Save godoc
// @Summary Save attendance marks
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path string true "Class schedule ID"
// @Param payload body dto.SaveAttendanceRequest true "Marks"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/attendance [post]
func (h *ClassHandler) Save(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SaveAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	date := h.clock()
	if req.Date != "" {
		parsed, err := time.ParseInLocation(dateLayout, req.Date, date.Location())
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD"))
			return
		}
		date = parsed
	}

	result, err := h.attendance.Save(c.Request.Context(), service.SaveAttendanceRequest{
		ClassScheduleID: c.Param("id"),
		Date:            date,
		MarkedBy:        claims.UserID,
		Marks:           req.Marks,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Recognize godoc
// @Summary Match faces in a class photo against the roster
// @Tags Classes
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Class schedule ID"
// @Param image formData file true "Class photo (jpg or png)"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /classes/{id}/attendance/recognize [post]
func (h *ClassHandler) Recognize(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+1<<20)
	}
	header, err := c.FormFile(photoField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, appErrors.Clone(appErrors.ErrTooLarge, "attendance photo exceeds upload limit"))
			return
		}
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "attendance photo is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Internal(err, "failed to read upload"))
		return
	}
	defer file.Close()
	image, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, appErrors.Internal(err, "failed to read upload"))
		return
	}

	result, err := h.attendance.Recognize(c.Request.Context(), service.RecognitionUpload{
		ClassScheduleID: c.Param("id"),
		InstitutionID:   claims.InstitutionID,
		Filename:        header.Filename,
		Image:           image,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
