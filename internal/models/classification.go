package models

import "math"

// AttendanceTier buckets an attendance percentage.
type AttendanceTier string

const (
	TierGood     AttendanceTier = "GOOD"
	TierWarning  AttendanceTier = "WARNING"
	TierCritical AttendanceTier = "CRITICAL"
	TierNoData   AttendanceTier = "NO_DATA"
)

// Classification is the classifier verdict for a (total, present) pair.
// Percentage is unrounded; callers round for display only.
type Classification struct {
	Total          int            `json:"total"`
	Present        int            `json:"present"`
	Percentage     float64        `json:"percentage"`
	Tier           AttendanceTier `json:"tier"`
	ClassesNeeded  int            `json:"classes_needed"`
	BelowThreshold bool           `json:"below_threshold"`
}

// SubjectSummary is the per-subject aggregate for a student.
type SubjectSummary struct {
	SubjectID   string `json:"subject_id"`
	SubjectCode string `json:"subject_code"`
	SubjectName string `json:"subject_name"`
	Classification
}

// AttendanceSummary rolls subjects up into an overall classification.
type AttendanceSummary struct {
	StudentID string           `json:"student_id"`
	Subjects  []SubjectSummary `json:"subjects"`
	Overall   Classification   `json:"overall"`
}

// StudentClassAttendance is one roster student's standing in a class.
type StudentClassAttendance struct {
	StudentID  string  `json:"student_id"`
	CollegeID  string  `json:"college_id"`
	FullName   string  `json:"full_name"`
	Total      int     `json:"total"`
	Present    int     `json:"present"`
	Percentage float64 `json:"percentage"`
}

// ClassOverview summarises a teacher's class across the semester.
type ClassOverview struct {
	ClassOccurrence
	Students       []StudentClassAttendance `json:"students"`
	AveragePercent float64                  `json:"average_percent"`
}

// RoundPercent rounds a percentage to one decimal place for display.
func RoundPercent(p float64) float64 {
	return math.Round(p*10) / 10
}
