package service

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/noah-isme/smart-campus-api/internal/models"
	appErrors "github.com/noah-isme/smart-campus-api/pkg/errors"
)

func strPtr(s string) *string { return &s }

type stubStudents struct {
	byID    map[string]*models.Student
	updated map[string]models.StudentProfile
	err     error
}

func newStubStudents(students ...*models.Student) *stubStudents {
	s := &stubStudents{byID: map[string]*models.Student{}, updated: map[string]models.StudentProfile{}}
	for _, st := range students {
		s.byID[st.ID] = st
	}
	return s
}

func (s *stubStudents) FindByID(_ context.Context, id string) (*models.Student, error) {
	if s.err != nil {
		return nil, s.err
	}
	st, ok := s.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *st
	return &clone, nil
}

func (s *stubStudents) UpdateProfile(_ context.Context, id string, profile models.StudentProfile) error {
	st, ok := s.byID[id]
	if !ok {
		return sql.ErrNoRows
	}
	s.updated[id] = profile
	st.CareerGoal, st.Interests, st.WeakSubjects = profile.CareerGoal, profile.Interests, profile.WeakSubjects
	return nil
}

func (s *stubStudents) ListByTerm(_ context.Context, termID string) ([]models.Student, error) {
	var out []models.Student
	for _, id := range sortedKeys(s.byID) {
		st := s.byID[id]
		if st.CurrentTermID != nil && *st.CurrentTermID == termID {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (s *stubStudents) FindByCollegeIDs(_ context.Context, institutionID string, collegeIDs []string) ([]models.Student, error) {
	wanted := map[string]bool{}
	for _, id := range collegeIDs {
		wanted[id] = true
	}
	var out []models.Student
	for _, id := range sortedKeys(s.byID) {
		st := s.byID[id]
		if st.InstitutionID == institutionID && wanted[st.CollegeID] {
			out = append(out, *st)
		}
	}
	return out, nil
}

func sortedKeys(m map[string]*models.Student) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type stubSubjects struct {
	byTerm map[string][]models.Subject
	err    error
}

func (s *stubSubjects) ListByTerm(_ context.Context, termID string) ([]models.Subject, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byTerm[termID], nil
}

type stubSchedules struct {
	bySubject  map[string][]models.ClassSchedule
	subjectErr map[string]error
	byTeacher  map[string][]models.ClassOccurrence
	byID       map[string]*models.ClassOccurrence
}

func (s *stubSchedules) ListBySubject(_ context.Context, subjectID string) ([]models.ClassSchedule, error) {
	if err := s.subjectErr[subjectID]; err != nil {
		return nil, err
	}
	return s.bySubject[subjectID], nil
}

func (s *stubSchedules) ListByTeacherAndDay(_ context.Context, teacherID string, day models.Weekday) ([]models.ClassOccurrence, error) {
	var out []models.ClassOccurrence
	for _, occ := range s.byTeacher[teacherID] {
		if occ.DayOfWeek == day {
			out = append(out, occ)
		}
	}
	return out, nil
}

func (s *stubSchedules) ListByTeacher(_ context.Context, teacherID string) ([]models.ClassOccurrence, error) {
	return append([]models.ClassOccurrence(nil), s.byTeacher[teacherID]...), nil
}

func (s *stubSchedules) FindByID(_ context.Context, id string) (*models.ClassOccurrence, error) {
	occ, ok := s.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return occ, nil
}

type stubLedger struct {
	counts   map[string]models.AttendanceCount
	countErr map[string]error
	taken    map[string]bool
	byClass  map[string]map[string]models.AttendanceCount
	saved    [][]models.AttendanceRecord
	saveErr  error
	rows     []models.ClassAttendanceRow
	history  []models.AttendanceHistoryRow
}

func (l *stubLedger) Count(_ context.Context, studentID, scheduleID string) (models.AttendanceCount, error) {
	if err := l.countErr[scheduleID]; err != nil {
		return models.AttendanceCount{}, err
	}
	return l.counts[studentID+"/"+scheduleID], nil
}

func (l *stubLedger) TakenOn(_ context.Context, scheduleIDs []string, _ time.Time) (map[string]bool, error) {
	out := map[string]bool{}
	for _, id := range scheduleIDs {
		if l.taken[id] {
			out[id] = true
		}
	}
	return out, nil
}

func (l *stubLedger) CountsByClass(_ context.Context, scheduleID string) (map[string]models.AttendanceCount, error) {
	return l.byClass[scheduleID], nil
}

func (l *stubLedger) BulkUpsert(_ context.Context, records []models.AttendanceRecord) error {
	if l.saveErr != nil {
		return l.saveErr
	}
	l.saved = append(l.saved, records)
	return nil
}

func (l *stubLedger) ListByClassAndDate(_ context.Context, _ string, _ time.Time) ([]models.ClassAttendanceRow, error) {
	return l.rows, nil
}

func (l *stubLedger) HistoryByClass(_ context.Context, _ string) ([]models.AttendanceHistoryRow, error) {
	return l.history, nil
}

type stubTerms struct {
	details  map[string]*models.TermDetail
	branches map[string]*models.Branch
}

func (t *stubTerms) FindDetail(_ context.Context, id string) (*models.TermDetail, error) {
	if d, ok := t.details[id]; ok {
		return d, nil
	}
	return nil, sql.ErrNoRows
}

func (t *stubTerms) FindBranch(_ context.Context, id string) (*models.Branch, error) {
	if b, ok := t.branches[id]; ok {
		return b, nil
	}
	return nil, sql.ErrNoRows
}

type stubGenerator struct {
	text    string
	err     error
	prompts []string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.text, g.err
}

type stubMatcher struct {
	labels []string
	err    error
	calls  int
}

func (m *stubMatcher) Match(_ context.Context, _ []byte, _ string) ([]string, error) {
	m.calls++
	return m.labels, m.err
}

type memoryCache struct {
	values map[string]interface{}
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	v, ok := c.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*(dest.(*string)) = v.(string)
	return nil
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.values[key] = value
	return nil
}

func occurrence(id, subject string, day models.Weekday, start, end models.TimeOfDay, room string) models.ClassOccurrence {
	return models.ClassOccurrence{
		ClassSchedule: models.ClassSchedule{ID: id, SubjectID: "sub-" + subject, DayOfWeek: day, StartTime: start, EndTime: end, Room: room, Active: true},
		SubjectName:   subject,
		SubjectCode:   "C-" + subject,
		TermID:        "term-1",
	}
}

func hm(h, m int) models.TimeOfDay { return models.NewTimeOfDay(h, m, 0) }
