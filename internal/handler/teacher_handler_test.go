package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/smart-campus-api/internal/models"
)

type fakeOverviewSrv struct {
	overview []models.ClassOverview
}

func (f *fakeOverviewSrv) Overview(context.Context, string) ([]models.ClassOverview, error) {
	return f.overview, nil
}

func TestTeacherClassesDefaultsToToday(t *testing.T) {
	timetable := &fakeTimetableSrv{taught: []models.TeacherClass{{
		ClassOccurrence: models.ClassOccurrence{ClassSchedule: models.ClassSchedule{ID: "cls-1", DayOfWeek: models.Friday}},
		AttendanceTaken: true,
	}}}
	h := NewTeacherHandler(timetable, nil, nil, fixedClock)

	c, rec := newTestContext(http.MethodGet, "/teachers/tch-1/classes", "")
	h.Classes(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, fixedNow, timetable.date)
	env := decode(t, rec)
	assert.Equal(t, "2024-10-18", env.Meta["date"])
	assert.Equal(t, "Friday", env.Meta["day"])
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, true, rows[0]["attendance_taken"])
}

func TestTeacherClassesExplicitDate(t *testing.T) {
	timetable := &fakeTimetableSrv{}
	h := NewTeacherHandler(timetable, nil, nil, fixedClock)

	c, rec := newTestContext(http.MethodGet, "/teachers/tch-1/classes?date=2024-10-14", "")
	h.Classes(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC), timetable.date)

	c, rec = newTestContext(http.MethodGet, "/teachers/tch-1/classes?date=14-10-2024", "")
	h.Classes(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTeacherOverviewRounds(t *testing.T) {
	overview := &fakeOverviewSrv{overview: []models.ClassOverview{{
		ClassOccurrence: models.ClassOccurrence{ClassSchedule: models.ClassSchedule{ID: "cls-1"}, SubjectName: "Operating Systems"},
		Students:        []models.StudentClassAttendance{{StudentID: "stu-1", Total: 3, Present: 2, Percentage: 200.0 / 3}},
		AveragePercent:  100.0 / 3,
	}}}
	h := NewTeacherHandler(nil, overview, nil, fixedClock)

	c, rec := newTestContext(http.MethodGet, "/teachers/tch-1/overview", "")
	h.Overview(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var rows []struct {
		AveragePercent float64 `json:"average_percent"`
		Students       []struct {
			Percentage float64 `json:"percentage"`
		} `json:"students"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, 33.3, rows[0].AveragePercent)
	assert.Equal(t, 66.7, rows[0].Students[0].Percentage)
}

func TestTeacherTimetableExport(t *testing.T) {
	h := NewTeacherHandler(nil, nil, &fakeExportSrv{}, fixedClock)

	c, rec := newTestContext(http.MethodGet, "/teachers/tch-1/timetable/export", "")
	h.ExportTimetable(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="timetable_tch-1.ics"`, rec.Header().Get("Content-Disposition"))
}
