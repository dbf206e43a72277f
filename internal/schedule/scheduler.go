package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/ducpham-dev/xpilot/internal/types"
)

// Scheduler fires start and stop callbacks at each account's window edges.
type Scheduler struct {
	c *cron.Cron

	mu      sync.Mutex
	entries map[string][]cron.EntryID
}

// NewScheduler creates a stopped scheduler; call Start once accounts are
// bound.
func NewScheduler() *Scheduler {
	return &Scheduler{
		c:       cron.New(),
		entries: make(map[string][]cron.EntryID),
	}
}

// Start begins firing callbacks.
func (s *Scheduler) Start() { s.c.Start() }

// Stop halts the cron loop and waits for already-running callbacks to finish,
// so nothing scheduled fires into a torn-down app.
func (s *Scheduler) Stop() { <-s.c.Stop().Done() }

// Bind registers the account's window edges. Rebinding replaces any previous
// registration. Accounts without a schedule are left unbound.
func (s *Scheduler) Bind(profileID string, fs types.FilterSettings, onStart, onStop func()) error {
	s.Unbind(profileID)
	if !fs.ScheduleEnabled {
		return nil
	}

	startSpec, err := cronSpec(fs.StartTime, fs.ScheduleDays)
	if err != nil {
		return fmt.Errorf("invalid start time: %w", err)
	}
	endSpec, err := cronSpec(fs.EndTime, fs.ScheduleDays)
	if err != nil {
		return fmt.Errorf("invalid end time: %w", err)
	}

	startID, err := s.c.AddFunc(startSpec, onStart)
	if err != nil {
		return err
	}
	endID, err := s.c.AddFunc(endSpec, onStop)
	if err != nil {
		s.c.Remove(startID)
		return err
	}

	s.mu.Lock()
	s.entries[profileID] = []cron.EntryID{startID, endID}
	s.mu.Unlock()
	return nil
}

// Unbind removes the account's registrations.
func (s *Scheduler) Unbind(profileID string) {
	s.mu.Lock()
	ids := s.entries[profileID]
	delete(s.entries, profileID)
	s.mu.Unlock()
	for _, id := range ids {
		s.c.Remove(id)
	}
}

// cronSpec converts "HH:MM" plus a day list into a five-field cron spec.
// Cron's day-of-week numbering matches ours, Sunday = 0.
func cronSpec(clock string, days []int) (string, error) {
	minutes, err := parseClock(clock)
	if err != nil {
		return "", err
	}
	dayField := "*"
	if len(days) > 0 && len(days) < 7 {
		parts := make([]string, 0, len(days))
		for _, d := range days {
			parts = append(parts, strconv.Itoa(d))
		}
		dayField = strings.Join(parts, ",")
	}
	return fmt.Sprintf("%d %d * * %s", minutes%60, minutes/60, dayField), nil
}
