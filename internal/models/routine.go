package models

// TaskPriority ranks suggested tasks.
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "HIGH"
	PriorityMedium TaskPriority = "MEDIUM"
)

// SuggestedTask is one parsed suggestion.
type SuggestedTask struct {
	Title    string       `json:"title"`
	Priority TaskPriority `json:"priority"`
}

// RoutineEntry is either a ClassEntry or a TaskEntry.
type RoutineEntry interface {
	At() TimeOfDay
	Heading() string
	routineEntry()
}

// ClassEntry is a scheduled class in the routine.
type ClassEntry struct {
	Time        TimeOfDay
	Title       string
	Room        string
	SubjectCode string
}

func (e ClassEntry) At() TimeOfDay   { return e.Time }
func (e ClassEntry) Heading() string { return e.Title }
func (ClassEntry) routineEntry()     {}

// TaskEntry is a suggested task placed in a free slot.
type TaskEntry struct {
	Time     TimeOfDay
	Title    string
	Priority TaskPriority
}

func (e TaskEntry) At() TimeOfDay   { return e.Time }
func (e TaskEntry) Heading() string { return e.Title }
func (TaskEntry) routineEntry()     {}

// AlertUrgency grades routine alerts.
type AlertUrgency string

const UrgencyHigh AlertUrgency = "HIGH"

// Alert notifies about an imminent class.
type Alert struct {
	Urgency AlertUrgency `json:"urgency"`
	Message string       `json:"message"`
}

// Routine is the composed plan for one student and day.
type Routine struct {
	BranchName            string
	TermLabel             string
	Entries               []RoutineEntry
	Alerts                []Alert
	LowAttendanceSubjects []string
}
