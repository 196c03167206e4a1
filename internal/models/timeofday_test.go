package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, NewTimeOfDay(9, 30, 0), got)

	got, err = ParseTimeOfDay("23:59:59")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay(secondsPerDay-1), got)

	for _, raw := range []string{"", "9", "24:00", "12:60", "aa:bb", "1:2:3:4", "123:00"} {
		_, err := ParseTimeOfDay(raw)
		assert.Error(t, err, raw)
	}
}

func TestTimeOfDayFormatting(t *testing.T) {
	assert.Equal(t, "15:04", NewTimeOfDay(15, 4, 0).String())
	assert.Equal(t, "03:04 PM", NewTimeOfDay(15, 4, 0).Format12h())
	assert.Equal(t, "12:00 AM", NewTimeOfDay(0, 0, 0).Format12h())
	assert.Equal(t, "12:30 PM", NewTimeOfDay(12, 30, 0).Format12h())
	assert.Equal(t, "09:00 AM", NewTimeOfDay(9, 0, 0).Format12h())
}

func TestTimeOfDayScan(t *testing.T) {
	var tod TimeOfDay
	require.NoError(t, tod.Scan([]byte("10:15:00")))
	assert.Equal(t, NewTimeOfDay(10, 15, 0), tod)

	require.NoError(t, tod.Scan("08:00:00.000000"))
	assert.Equal(t, NewTimeOfDay(8, 0, 0), tod)

	require.NoError(t, tod.Scan(time.Date(0, 1, 1, 13, 45, 0, 0, time.UTC)))
	assert.Equal(t, NewTimeOfDay(13, 45, 0), tod)

	assert.Error(t, tod.Scan(nil))
	assert.Error(t, tod.Scan(3.5))

	v, err := NewTimeOfDay(7, 5, 9).Value()
	require.NoError(t, err)
	assert.Equal(t, "07:05:09", v)
}

func TestTimeOfDayOn(t *testing.T) {
	day := time.Date(2024, 10, 18, 22, 10, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 10, 18, 9, 30, 0, 0, time.UTC), NewTimeOfDay(9, 30, 0).On(day))
}

func TestWeekdayOf(t *testing.T) {
	// 2024-10-14 is a Monday.
	assert.Equal(t, Monday, WeekdayOf(time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, Sunday, WeekdayOf(time.Date(2024, 10, 20, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Friday", Friday.String())
	assert.False(t, Weekday(7).Valid())
}
