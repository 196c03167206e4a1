package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Attendance summary",
		Notes:   []string{"Student: Test Student"},
		Headers: []string{"subject", "percentage"},
		Rows: []map[string]string{
			{"subject": "Operating Systems", "percentage": "80.0"},
			{"subject": "Databases, Lab", "percentage": "50.0"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "subject,percentage\nOperating Systems,80.0\n\"Databases, Lab\",50.0\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestICSExporterRender(t *testing.T) {
	start := time.Date(2024, 10, 18, 11, 0, 0, 0, time.UTC)
	out, err := NewICSExporter("").Render("Timetable", []CalendarEvent{{
		UID:      "class-1",
		Summary:  "Operating Systems",
		Location: "301A",
		Start:    start,
		End:      start.Add(time.Hour),
		Weekly:   true,
	}}, start)
	require.NoError(t, err)

	cal, err := ics.ParseCalendar(strings.NewReader(string(out)))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "Operating Systems", events[0].GetProperty(ics.ComponentPropertySummary).Value)
	assert.Contains(t, string(out), "FREQ=WEEKLY")
}

func TestICSExporterRejectsInvertedEvent(t *testing.T) {
	start := time.Date(2024, 10, 18, 11, 0, 0, 0, time.UTC)
	_, err := NewICSExporter("").Render("", []CalendarEvent{{UID: "x", Start: start, End: start}}, start)
	require.Error(t, err)
}
