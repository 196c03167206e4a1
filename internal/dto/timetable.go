package dto

import "github.com/noah-isme/smart-campus-api/internal/models"

// ClassSlotResponse is a timetable row.
type ClassSlotResponse struct {
	ClassScheduleID string `json:"class_schedule_id"`
	SubjectName     string `json:"subject_name"`
	SubjectCode     string `json:"subject_code"`
	DayOfWeek       int    `json:"day_of_week"`
	DayName         string `json:"day_name"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	Room            string `json:"room"`
	AttendanceTaken *bool  `json:"attendance_taken,omitempty"`
}

func newClassSlot(occ models.ClassOccurrence) ClassSlotResponse {
	return ClassSlotResponse{
		ClassScheduleID: occ.ID,
		SubjectName:     occ.SubjectName,
		SubjectCode:     occ.SubjectCode,
		DayOfWeek:       int(occ.DayOfWeek),
		DayName:         occ.DayOfWeek.String(),
		StartTime:       occ.StartTime.String(),
		EndTime:         occ.EndTime.String(),
		Room:            occ.Room,
	}
}

// NewTimetableResponse converts resolved occurrences.
func NewTimetableResponse(occurrences []models.ClassOccurrence) []ClassSlotResponse {
	out := make([]ClassSlotResponse, 0, len(occurrences))
	for _, occ := range occurrences {
		out = append(out, newClassSlot(occ))
	}
	return out
}

// NewTeacherClassesResponse converts a teacher's day with attendance state.
func NewTeacherClassesResponse(classes []models.TeacherClass) []ClassSlotResponse {
	out := make([]ClassSlotResponse, 0, len(classes))
	for _, class := range classes {
		row := newClassSlot(class.ClassOccurrence)
		taken := class.AttendanceTaken
		row.AttendanceTaken = &taken
		out = append(out, row)
	}
	return out
}
