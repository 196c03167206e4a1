package models

import (
	"fmt"
	"time"
)

// Weekday numbers days Monday=0 through Sunday=6.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeekdayOf converts a calendar date to the Monday-first convention.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// Valid reports whether the weekday is within 0..6.
func (d Weekday) Valid() bool { return d >= Monday && d <= Sunday }

func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// ClassSchedule is a recurring weekly class slot.
type ClassSchedule struct {
	ID        string    `db:"id" json:"id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	Room      string    `db:"room" json:"room"`
	DayOfWeek Weekday   `db:"day_of_week" json:"day_of_week"`
	StartTime TimeOfDay `db:"start_time" json:"start_time"`
	EndTime   TimeOfDay `db:"end_time" json:"end_time"`
	Active    bool      `db:"active" json:"active"`
}

// ClassOccurrence is a schedule joined with its subject for display.
type ClassOccurrence struct {
	ClassSchedule
	SubjectName string `db:"subject_name" json:"subject_name"`
	SubjectCode string `db:"subject_code" json:"subject_code"`
	TermID      string `db:"term_id" json:"term_id"`
}

// TeacherClass is a teacher's occurrence flagged with attendance state for a date.
type TeacherClass struct {
	ClassOccurrence
	AttendanceTaken bool `json:"attendance_taken"`
}
