// Package app coordinates sessions, scheduling and exports behind the tray
// menu.
package app

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ducpham-dev/xpilot/internal/browser"
	"github.com/ducpham-dev/xpilot/internal/config"
	"github.com/ducpham-dev/xpilot/internal/events"
	"github.com/ducpham-dev/xpilot/internal/schedule"
	"github.com/ducpham-dev/xpilot/internal/session"
	"github.com/ducpham-dev/xpilot/internal/store"
	"github.com/ducpham-dev/xpilot/internal/types"
)

// App holds the application state.
type App struct {
	cfg      *config.Config
	st       *store.Store
	reporter *events.Reporter
	control  *browser.ControlClient
	sched    *schedule.Scheduler

	mu       sync.Mutex
	sessions map[string]*session.Session
}

// New creates the App and binds schedules for every stored account.
func New(cfg *config.Config, st *store.Store, reporter *events.Reporter, control *browser.ControlClient) *App {
	a := &App{
		cfg:      cfg,
		st:       st,
		reporter: reporter,
		control:  control,
		sched:    schedule.NewScheduler(),
		sessions: make(map[string]*session.Session),
	}
	a.bindSchedules()
	a.sched.Start()
	return a
}

// Reporter exposes the event bus for UI subscriptions.
func (a *App) Reporter() *events.Reporter { return a.reporter }

// Accounts lists the stored accounts.
func (a *App) Accounts() ([]types.Account, error) {
	return a.st.ListAccounts()
}

// bindSchedules registers window-edge callbacks for accounts with a schedule.
func (a *App) bindSchedules() {
	accounts, err := a.st.ListAccounts()
	if err != nil {
		log.Printf("failed to list accounts for scheduling: %v", err)
		return
	}
	for _, acct := range accounts {
		fs, err := a.st.GetSettings(acct.ProfileID)
		if err != nil {
			log.Printf("failed to load settings for %s: %v", acct.ProfileID, err)
		}
		id := acct.ProfileID
		if err := a.sched.Bind(id, fs,
			func() {
				if err := a.StartSession(id); err != nil {
					a.reporter.Error("schedule", id, "scheduled start failed: %v", err)
				}
			},
			func() { a.StopSession(id) },
		); err != nil {
			log.Printf("failed to bind schedule for %s: %v", id, err)
		}
	}
}

// RebindSchedule refreshes the schedule registration after a settings change.
func (a *App) RebindSchedule(profileID string) error {
	fs, err := a.st.GetSettings(profileID)
	if err != nil {
		return err
	}
	return a.sched.Bind(profileID, fs,
		func() {
			if err := a.StartSession(profileID); err != nil {
				a.reporter.Error("schedule", profileID, "scheduled start failed: %v", err)
			}
		},
		func() { a.StopSession(profileID) },
	)
}

// StartSession starts or restarts the account's worker. The account is
// re-read from storage so key changes take effect.
func (a *App) StartSession(profileID string) error {
	acct, err := a.st.GetAccount(profileID)
	if err != nil {
		return fmt.Errorf("unknown account %s: %w", profileID, err)
	}

	a.mu.Lock()
	s, ok := a.sessions[profileID]
	if ok {
		switch s.State() {
		case session.StateConnecting, session.StateLoggedIn, session.StateScanning, session.StatePaused:
			a.mu.Unlock()
			return fmt.Errorf("session for %s already running", acct.Name)
		}
	}
	s = session.New(acct, a.st, a.control, a.reporter, a.cfg.Media.Dir, a.cfg.Media.Download)
	a.sessions[profileID] = s
	a.mu.Unlock()

	return s.Start(context.Background())
}

// PauseSession suspends the account's worker after its current pass.
func (a *App) PauseSession(profileID string) {
	if s := a.session(profileID); s != nil {
		s.Pause()
	}
}

// ResumeSession continues a paused worker without a fresh login.
func (a *App) ResumeSession(profileID string) {
	if s := a.session(profileID); s != nil {
		s.Resume()
	}
}

// StopSession stops the account's worker and waits for it to finish.
func (a *App) StopSession(profileID string) {
	if s := a.session(profileID); s != nil {
		s.Stop()
	}
}

// SessionState returns the worker's lifecycle position, idle when none
// exists.
func (a *App) SessionState(profileID string) session.State {
	if s := a.session(profileID); s != nil {
		return s.State()
	}
	return session.StateIdle
}

func (a *App) session(profileID string) *session.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessions[profileID]
}

// SetMode switches the account's scan mode. The running session picks it up
// on its next pass.
func (a *App) SetMode(profileID string, mode types.Mode) error {
	fs, err := a.st.GetSettings(profileID)
	if err != nil {
		return err
	}
	fs.ModeID = int(mode)
	if err := a.st.SaveSettings(profileID, fs); err != nil {
		return err
	}
	a.reporter.Info("app", profileID, "scan mode set to %s", mode)
	return nil
}

// ExportLogs writes all logs as JSON lines next to the database and returns
// the file path.
func (a *App) ExportLogs() (string, error) {
	dir := filepath.Dir(a.cfg.Storage.DBPath)
	path := filepath.Join(dir, fmt.Sprintf("logs-%s.jsonl", time.Now().Format("20060102-150405")))
	if err := a.st.ExportLogs(path, store.LogFilter{}); err != nil {
		return "", err
	}
	return path, nil
}

// Shutdown quiesces the scheduler first so no callback starts a session while
// we tear down, then stops every session in parallel and closes the reporter.
func (a *App) Shutdown() {
	a.sched.Stop()

	a.mu.Lock()
	sessions := make([]*session.Session, 0, len(a.sessions))
	for _, s := range a.sessions {
		sessions = append(sessions, s)
	}
	a.mu.Unlock()

	var g errgroup.Group
	for _, s := range sessions {
		g.Go(func() error {
			s.Stop()
			return nil
		})
	}
	_ = g.Wait()

	a.reporter.Close()
}
