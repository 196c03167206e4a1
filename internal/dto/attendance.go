package dto

import (
	"github.com/noah-isme/smart-campus-api/internal/models"
)

// SaveAttendanceRequest is the body of a class attendance submission.
type SaveAttendanceRequest struct {
	Date  string                  `json:"date"`
	Marks []models.AttendanceMark `json:"marks"`
}

// ClassificationResponse is a classification rounded for display.
type ClassificationResponse struct {
	Total          int                   `json:"total"`
	Present        int                   `json:"present"`
	Percentage     float64               `json:"percentage"`
	Tier           models.AttendanceTier `json:"tier"`
	ClassesNeeded  int                   `json:"classes_needed"`
	BelowThreshold bool                  `json:"below_threshold"`
}

// SubjectAttendanceResponse is one subject row of the summary.
type SubjectAttendanceResponse struct {
	SubjectID   string `json:"subject_id"`
	SubjectCode string `json:"subject_code"`
	SubjectName string `json:"subject_name"`
	ClassificationResponse
}

// AttendanceSummaryResponse is a student's attendance across the term.
type AttendanceSummaryResponse struct {
	StudentID     string                      `json:"student_id"`
	TargetPercent float64                     `json:"target_percent"`
	Subjects      []SubjectAttendanceResponse `json:"subjects"`
	Overall       ClassificationResponse      `json:"overall"`
}

// NewAttendanceSummaryResponse rounds percentages to one decimal place.
func NewAttendanceSummaryResponse(summary *models.AttendanceSummary, target float64) AttendanceSummaryResponse {
	resp := AttendanceSummaryResponse{
		StudentID:     summary.StudentID,
		TargetPercent: target,
		Subjects:      make([]SubjectAttendanceResponse, 0, len(summary.Subjects)),
		Overall:       newClassificationResponse(summary.Overall),
	}
	for _, subject := range summary.Subjects {
		resp.Subjects = append(resp.Subjects, SubjectAttendanceResponse{
			SubjectID:              subject.SubjectID,
			SubjectCode:            subject.SubjectCode,
			SubjectName:            subject.SubjectName,
			ClassificationResponse: newClassificationResponse(subject.Classification),
		})
	}
	return resp
}

func newClassificationResponse(c models.Classification) ClassificationResponse {
	return ClassificationResponse{
		Total:          c.Total,
		Present:        c.Present,
		Percentage:     models.RoundPercent(c.Percentage),
		Tier:           c.Tier,
		ClassesNeeded:  c.ClassesNeeded,
		BelowThreshold: c.BelowThreshold,
	}
}

// HistoryDayResponse is one date of a class's attendance history.
type HistoryDayResponse struct {
	Date       string                      `json:"date"`
	Total      int                         `json:"total"`
	Present    int                         `json:"present"`
	Absent     int                         `json:"absent"`
	Percentage float64                     `json:"percentage"`
	Students   []models.ClassAttendanceRow `json:"students"`
}

// NewHistoryResponse formats dates and rounds percentages.
func NewHistoryResponse(days []models.AttendanceHistoryDay) []HistoryDayResponse {
	out := make([]HistoryDayResponse, 0, len(days))
	for _, day := range days {
		out = append(out, HistoryDayResponse{
			Date:       day.Date.Format("2006-01-02"),
			Total:      day.Total,
			Present:    day.Present,
			Absent:     day.Absent,
			Percentage: models.RoundPercent(day.Percentage),
			Students:   day.Students,
		})
	}
	return out
}

// ClassOverviewResponse is one class in the teacher's semester overview.
type ClassOverviewResponse struct {
	ClassScheduleID string                          `json:"class_schedule_id"`
	SubjectName     string                          `json:"subject_name"`
	SubjectCode     string                          `json:"subject_code"`
	DayOfWeek       string                          `json:"day_of_week"`
	StartTime       string                          `json:"start_time"`
	EndTime         string                          `json:"end_time"`
	Room            string                          `json:"room"`
	AveragePercent  float64                         `json:"average_percent"`
	Students        []models.StudentClassAttendance `json:"students"`
}

// NewClassOverviewResponse formats overview rows for display.
func NewClassOverviewResponse(overviews []models.ClassOverview) []ClassOverviewResponse {
	out := make([]ClassOverviewResponse, 0, len(overviews))
	for _, o := range overviews {
		students := make([]models.StudentClassAttendance, len(o.Students))
		for i, s := range o.Students {
			s.Percentage = models.RoundPercent(s.Percentage)
			students[i] = s
		}
		out = append(out, ClassOverviewResponse{
			ClassScheduleID: o.ID,
			SubjectName:     o.SubjectName,
			SubjectCode:     o.SubjectCode,
			DayOfWeek:       o.DayOfWeek.String(),
			StartTime:       o.StartTime.String(),
			EndTime:         o.EndTime.String(),
			Room:            o.Room,
			AveragePercent:  models.RoundPercent(o.AveragePercent),
			Students:        students,
		})
	}
	return out
}
