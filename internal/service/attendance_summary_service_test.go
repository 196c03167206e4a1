package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/smart-campus-api/internal/models"
	appErrors "github.com/noah-isme/smart-campus-api/pkg/errors"
)

func newSummaryFixture() (*AttendanceSummaryService, *stubSchedules, *stubLedger) {
	students := newStubStudents(
		&models.Student{ID: "stu-1", CollegeID: "CS001", FullName: "Asha", CurrentTermID: strPtr("term-1")},
		&models.Student{ID: "stu-2", CollegeID: "CS002", FullName: "Ravi"},
	)
	subjects := &stubSubjects{byTerm: map[string][]models.Subject{
		"term-1": {
			{ID: "sub-a", TermID: "term-1", Code: "A", Name: "Algorithms"},
			{ID: "sub-b", TermID: "term-1", Code: "B", Name: "Biology"},
		},
	}}
	schedules := &stubSchedules{bySubject: map[string][]models.ClassSchedule{
		"sub-a": {{ID: "cls-a1"}, {ID: "cls-a2"}},
		"sub-b": {{ID: "cls-b1"}},
	}}
	ledger := &stubLedger{counts: map[string]models.AttendanceCount{
		"stu-1/cls-a1": {Total: 12, Present: 12},
		"stu-1/cls-a2": {Total: 8, Present: 8},
		"stu-1/cls-b1": {Total: 5, Present: 0},
	}}
	svc := NewAttendanceSummaryService(students, subjects, schedules, ledger, NewAttendanceClassifier(75, 65), nil)
	return svc, schedules, ledger
}

func TestSummarizeStudentPoolsTotals(t *testing.T) {
	svc, _, _ := newSummaryFixture()

	summary, err := svc.SummarizeStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Len(t, summary.Subjects, 2)

	assert.Equal(t, 20, summary.Subjects[0].Total)
	assert.Equal(t, 100.0, summary.Subjects[0].Percentage)
	assert.Equal(t, models.TierCritical, summary.Subjects[1].Tier)

	assert.Equal(t, 25, summary.Overall.Total)
	assert.Equal(t, 20, summary.Overall.Present)
	assert.InDelta(t, 80.0, summary.Overall.Percentage, 1e-9)
	assert.Equal(t, models.TierGood, summary.Overall.Tier)
}

func TestSummarizeStudentWithoutTerm(t *testing.T) {
	svc, _, _ := newSummaryFixture()

	summary, err := svc.SummarizeStudent(context.Background(), "stu-2")
	require.NoError(t, err)
	assert.Empty(t, summary.Subjects)
	assert.NotNil(t, summary.Subjects)
	assert.Equal(t, 0, summary.Overall.Total)
	assert.Equal(t, models.TierNoData, summary.Overall.Tier)
}

func TestSummarizeStudentNotFound(t *testing.T) {
	svc, _, _ := newSummaryFixture()

	_, err := svc.SummarizeStudent(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestSummarizeStudentKeepsOtherSubjectsOnFailure(t *testing.T) {
	svc, schedules, ledger := newSummaryFixture()
	schedules.subjectErr = map[string]error{"sub-b": errors.New("db down")}
	ledger.countErr = map[string]error{"cls-a2": errors.New("timeout")}

	summary, err := svc.SummarizeStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Len(t, summary.Subjects, 2)
	assert.Equal(t, 12, summary.Subjects[0].Total)
	assert.Equal(t, 0, summary.Subjects[1].Total)
	assert.Equal(t, 12, summary.Overall.Total)
}
