// Package schedule decides when a session is allowed to run and fires cron
// callbacks at the window edges.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ducpham-dev/xpilot/internal/types"
)

// Window is an operator-configured daily run window. Days use Go's weekday
// numbering, Sunday = 0.
type Window struct {
	Enabled bool
	Start   string // "09:00"
	End     string // "17:00"
	Days    []int
}

// FromSettings extracts the run window from account settings.
func FromSettings(fs types.FilterSettings) Window {
	return Window{
		Enabled: fs.ScheduleEnabled,
		Start:   fs.StartTime,
		End:     fs.EndTime,
		Days:    fs.ScheduleDays,
	}
}

// Within reports whether now falls inside the window. A disabled window is
// always open. An end before the start means the window crosses midnight; in
// that case the day check applies to the day the window opened.
func (w Window) Within(now time.Time) bool {
	if !w.Enabled {
		return true
	}

	start, err := parseClock(w.Start)
	if err != nil {
		return true
	}
	end, err := parseClock(w.End)
	if err != nil {
		return true
	}

	tod := now.Hour()*60 + now.Minute()

	if start <= end {
		return w.dayAllowed(now.Weekday()) && tod >= start && tod < end
	}

	// Overnight window.
	if tod >= start {
		return w.dayAllowed(now.Weekday())
	}
	if tod < end {
		return w.dayAllowed(now.AddDate(0, 0, -1).Weekday())
	}
	return false
}

func (w Window) dayAllowed(day time.Weekday) bool {
	if len(w.Days) == 0 {
		return true
	}
	for _, d := range w.Days {
		if d == int(day) {
			return true
		}
	}
	return false
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}
