package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducpham-dev/xpilot/internal/types"
)

// 2026-08-31 is a Monday.
func monday(hour, minute int) time.Time {
	return time.Date(2026, 8, 31, hour, minute, 0, 0, time.UTC)
}

func TestWindowDisabledAlwaysOpen(t *testing.T) {
	w := Window{Enabled: false, Start: "09:00", End: "17:00", Days: []int{2}}
	assert.True(t, w.Within(monday(3, 0)))
}

func TestWindowDaytime(t *testing.T) {
	w := Window{Enabled: true, Start: "09:00", End: "17:00", Days: []int{1}}

	assert.False(t, w.Within(monday(8, 59)))
	assert.True(t, w.Within(monday(9, 0)))
	assert.True(t, w.Within(monday(16, 59)))
	assert.False(t, w.Within(monday(17, 0)))
}

func TestWindowDayFilter(t *testing.T) {
	w := Window{Enabled: true, Start: "09:00", End: "17:00", Days: []int{2, 3}}
	assert.False(t, w.Within(monday(12, 0)), "Monday is not in the day list")

	tuesday := monday(12, 0).AddDate(0, 0, 1)
	assert.True(t, w.Within(tuesday))
}

func TestWindowOvernight(t *testing.T) {
	w := Window{Enabled: true, Start: "22:00", End: "06:00", Days: []int{1}}

	assert.True(t, w.Within(monday(23, 0)))
	assert.False(t, w.Within(monday(12, 0)))

	// Early Tuesday still belongs to Monday's window.
	tuesdayMorning := monday(2, 0).AddDate(0, 0, 1)
	assert.True(t, w.Within(tuesdayMorning))

	// Early Monday belongs to Sunday's window, which is not scheduled.
	assert.False(t, w.Within(monday(2, 0)))
}

func TestWindowBadClockFailsOpen(t *testing.T) {
	w := Window{Enabled: true, Start: "not-a-time", End: "17:00"}
	assert.True(t, w.Within(monday(3, 0)))
}

func TestFromSettings(t *testing.T) {
	fs := types.DefaultFilterSettings()
	fs.ScheduleEnabled = true
	w := FromSettings(fs)
	assert.True(t, w.Enabled)
	assert.Equal(t, "09:00", w.Start)
	assert.Equal(t, "17:00", w.End)
	assert.Len(t, w.Days, 7)
}

func TestCronSpec(t *testing.T) {
	spec, err := cronSpec("09:30", []int{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, "30 9 * * 1,2,3", spec)

	spec, err = cronSpec("17:00", []int{0, 1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, "0 17 * * *", spec, "all seven days collapse to a wildcard")

	_, err = cronSpec("25:00", nil)
	require.Error(t, err)
}

func TestSchedulerBindUnbind(t *testing.T) {
	s := NewScheduler()
	fs := types.DefaultFilterSettings()
	fs.ScheduleEnabled = true

	require.NoError(t, s.Bind("p1", fs, func() {}, func() {}))
	s.mu.Lock()
	assert.Len(t, s.entries["p1"], 2)
	s.mu.Unlock()

	s.Unbind("p1")
	s.mu.Lock()
	assert.Empty(t, s.entries["p1"])
	s.mu.Unlock()
}

func TestSchedulerBindDisabledIsNoop(t *testing.T) {
	s := NewScheduler()
	fs := types.DefaultFilterSettings()

	require.NoError(t, s.Bind("p1", fs, func() {}, func() {}))
	s.mu.Lock()
	assert.Empty(t, s.entries["p1"])
	s.mu.Unlock()
}
