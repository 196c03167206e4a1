package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/smart-campus-api/internal/models"
	appErrors "github.com/noah-isme/smart-campus-api/pkg/errors"
)

func newRoutineFixture(gen TextGenerator, enabled bool) *RoutineService {
	students := newStubStudents(
		&models.Student{ID: "stu-1", CollegeID: "CS001", CurrentTermID: strPtr("term-1"), BranchID: strPtr("br-1"), CareerGoal: "ML engineer", WeakSubjects: "Maths"},
		&models.Student{ID: "stu-2", CollegeID: "CS002"},
		&models.Student{ID: "stu-3", CollegeID: "CS003", BranchID: strPtr("br-1")},
	)
	subjects := &stubSubjects{byTerm: map[string][]models.Subject{
		"term-1": {
			{ID: "sub-os", TermID: "term-1", Code: "CS301", Name: "Operating Systems"},
			{ID: "sub-db", TermID: "term-1", Code: "CS302", Name: "Databases"},
			{ID: "sub-ai", TermID: "term-1", Code: "CS303", Name: "AI"},
		},
	}}
	schedules := &stubSchedules{bySubject: map[string][]models.ClassSchedule{
		"sub-os": {{ID: "cls-os", SubjectID: "sub-os", DayOfWeek: models.Friday, StartTime: hm(10, 0), EndTime: hm(11, 0), Room: "301A"}},
		"sub-db": {{ID: "cls-db", SubjectID: "sub-db", DayOfWeek: models.Friday, StartTime: hm(14, 0), EndTime: hm(15, 0)}},
		"sub-ai": {{ID: "cls-ai", SubjectID: "sub-ai", DayOfWeek: models.Monday, StartTime: hm(9, 0), EndTime: hm(10, 0)}},
	}}
	ledger := &stubLedger{counts: map[string]models.AttendanceCount{
		"stu-1/cls-os": {Total: 10, Present: 9},
		"stu-1/cls-db": {Total: 3, Present: 2},
	}}
	terms := &stubTerms{
		details:  map[string]*models.TermDetail{"term-1": {Term: models.Term{ID: "term-1", Number: 5}, BranchName: "Computer Science"}},
		branches: map[string]*models.Branch{"br-1": {ID: "br-1", Name: "Computer Science"}},
	}

	classifier := NewAttendanceClassifier(75, 65)
	timetable := NewTimetableService(students, subjects, schedules, schedules, ledger, nil)
	summary := NewAttendanceSummaryService(students, subjects, schedules, ledger, classifier, nil)
	suggestions := NewTaskSuggestionService(gen, enabled, nil, 0, nil, nil)
	window, _ := NewSlotWindow("09:00", "18:00", 60)
	return NewRoutineService(students, terms, timetable, summary, suggestions, RoutineConfig{Window: window, AlertLead: 15 * time.Minute}, nil)
}

func TestComposeRoutine(t *testing.T) {
	gen := &stubGenerator{text: "1. Revise Databases to lift attendance.\n2. Practice maths.\n3. Read a paper."}
	svc := newRoutineFixture(gen, true)
	now := time.Date(2024, 10, 18, 9, 50, 0, 0, time.UTC)

	routine, err := svc.Compose(context.Background(), "stu-1", now)
	require.NoError(t, err)

	assert.Equal(t, "Computer Science", routine.BranchName)
	assert.Equal(t, "Semester 5", routine.TermLabel)
	assert.Equal(t, []string{"Databases (66.7%)"}, routine.LowAttendanceSubjects)

	require.Len(t, routine.Alerts, 1)
	assert.Equal(t, models.UrgencyHigh, routine.Alerts[0].Urgency)
	assert.Equal(t, "Your Operating Systems class starts in 10 minutes at 301A!", routine.Alerts[0].Message)

	require.Len(t, routine.Entries, 5)
	times := make([]models.TimeOfDay, len(routine.Entries))
	for i, e := range routine.Entries {
		times[i] = e.At()
	}
	assert.Equal(t, []models.TimeOfDay{hm(9, 0), hm(10, 0), hm(12, 0), hm(13, 0), hm(14, 0)}, times)

	task, ok := routine.Entries[0].(models.TaskEntry)
	require.True(t, ok)
	assert.Equal(t, "Revise Databases to lift attendance.", task.Title)
	assert.Equal(t, models.PriorityHigh, task.Priority)

	class, ok := routine.Entries[1].(models.ClassEntry)
	require.True(t, ok)
	assert.Equal(t, "CS301", class.SubjectCode)
	assert.Equal(t, "301A", class.Room)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Databases (66.7%)")
	assert.Contains(t, gen.prompts[0], "It's Friday and they have 2 classes today.")
}

func TestComposeRoutineWithoutTerm(t *testing.T) {
	svc := newRoutineFixture(nil, false)
	now := time.Date(2024, 10, 18, 8, 0, 0, 0, time.UTC)

	routine, err := svc.Compose(context.Background(), "stu-2", now)
	require.NoError(t, err)
	assert.Equal(t, "N/A", routine.BranchName)
	assert.Equal(t, "N/A", routine.TermLabel)
	assert.Empty(t, routine.Alerts)
	assert.Empty(t, routine.LowAttendanceSubjects)
	require.Len(t, routine.Entries, 2)
	for _, e := range routine.Entries {
		_, isTask := e.(models.TaskEntry)
		assert.True(t, isTask)
	}

	routine, err = svc.Compose(context.Background(), "stu-3", now)
	require.NoError(t, err)
	assert.Equal(t, "Computer Science", routine.BranchName)
	assert.Equal(t, "N/A", routine.TermLabel)
}

func TestComposeRoutineUnknownStudent(t *testing.T) {
	svc := newRoutineFixture(nil, false)
	_, err := svc.Compose(context.Background(), "ghost", time.Now())
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestClassAlertsBoundary(t *testing.T) {
	now := hm(9, 0)
	classes := []models.ClassOccurrence{
		occurrence("c1", "Exactly", models.Monday, now+900, now+3600, ""),
		occurrence("c2", "TooLate", models.Monday, now+901, now+3600, "B1"),
		occurrence("c3", "Started", models.Monday, now-1, now+3600, "B2"),
		occurrence("c4", "Now", models.Monday, now, now+3600, "B3"),
	}

	alerts := ClassAlerts(classes, now, 15*time.Minute)
	require.Len(t, alerts, 2)
	assert.Equal(t, "Your Exactly class starts in 15 minutes at TBA!", alerts[0].Message)
	assert.Equal(t, "Your Now class starts in 0 minutes at B3!", alerts[1].Message)
}

func TestMergeRoutineDropsTasksWithoutSlots(t *testing.T) {
	classes := []models.ClassOccurrence{occurrence("c1", "OS", models.Monday, hm(10, 0), hm(11, 0), "")}
	tasks := []models.SuggestedTask{{Title: "a"}, {Title: "b"}}

	entries := MergeRoutine(classes, tasks, nil)
	require.Len(t, entries, 1)
	_, isClass := entries[0].(models.ClassEntry)
	assert.True(t, isClass)

	entries = MergeRoutine(classes, tasks, []models.TimeOfDay{hm(12, 0)})
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[1].Heading())
}

func TestLowAttendanceSubjectsSkipsNoData(t *testing.T) {
	c := NewAttendanceClassifier(75, 65)
	summary := &models.AttendanceSummary{Subjects: []models.SubjectSummary{
		{SubjectName: "Empty", Classification: c.Classify(0, 0)},
		{SubjectName: "Low", Classification: c.Classify(4, 1)},
		{SubjectName: "Fine", Classification: c.Classify(4, 4)},
	}}
	assert.Equal(t, []string{"Low (25.0%)"}, LowAttendanceSubjects(summary))
}
