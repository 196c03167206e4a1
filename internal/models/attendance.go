package models

import "time"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusLate    AttendanceStatus = "late"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate:
		return true
	default:
		return false
	}
}

// AttendanceRecord is the authoritative event for (student, class, date).
type AttendanceRecord struct {
	ID              string           `db:"id" json:"id"`
	StudentID       string           `db:"student_id" json:"student_id"`
	ClassScheduleID string           `db:"class_schedule_id" json:"class_schedule_id"`
	Date            time.Time        `db:"date" json:"date"`
	Status          AttendanceStatus `db:"status" json:"status"`
	RecordedAt      time.Time        `db:"recorded_at" json:"recorded_at"`
	MarkedBy        *string          `db:"marked_by" json:"marked_by,omitempty"`
}

// AttendanceCount holds raw ledger totals.
type AttendanceCount struct {
	Total   int `db:"total" json:"total"`
	Present int `db:"present" json:"present"`
}

// AttendanceMark is one submitted status for a student.
type AttendanceMark struct {
	StudentID string           `json:"student_id" validate:"required"`
	Status    AttendanceStatus `json:"status" validate:"required,oneof=present absent late"`
}

// SaveAttendanceResult reports what a save request wrote.
type SaveAttendanceResult struct {
	ClassScheduleID string    `json:"class_schedule_id"`
	Date            time.Time `json:"date"`
	Saved           int       `json:"saved"`
	Skipped         []string  `json:"skipped"`
}

// ClassAttendanceRow is a roster student's status on a date.
type ClassAttendanceRow struct {
	StudentID string           `db:"student_id" json:"student_id"`
	CollegeID string           `db:"college_id" json:"college_id"`
	FullName  string           `db:"full_name" json:"full_name"`
	Status    AttendanceStatus `db:"status" json:"status"`
}

// AttendanceHistoryRow is one ledger row used to build class history.
type AttendanceHistoryRow struct {
	Date time.Time `db:"date"`
	ClassAttendanceRow
}

// AttendanceHistoryDay groups a class's ledger rows for one date.
type AttendanceHistoryDay struct {
	Date       time.Time            `json:"date"`
	Total      int                  `json:"total"`
	Present    int                  `json:"present"`
	Absent     int                  `json:"absent"`
	Percentage float64              `json:"percentage"`
	Students   []ClassAttendanceRow `json:"students"`
}

// RecognitionResult is the outcome of a face-match attendance request.
type RecognitionResult struct {
	ClassScheduleID string    `json:"class_schedule_id"`
	MatchedLabels   []string  `json:"matched_labels"`
	Students        []Student `json:"students"`
	UnknownLabels   []string  `json:"unknown_labels"`
}
