// Package session drives one account end to end: start the profile browser,
// confirm login, then loop scan passes until stopped.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ducpham-dev/xpilot/internal/browser"
	"github.com/ducpham-dev/xpilot/internal/events"
	"github.com/ducpham-dev/xpilot/internal/executor"
	"github.com/ducpham-dev/xpilot/internal/retry"
	"github.com/ducpham-dev/xpilot/internal/rewriter"
	"github.com/ducpham-dev/xpilot/internal/scanner"
	"github.com/ducpham-dev/xpilot/internal/schedule"
	"github.com/ducpham-dev/xpilot/internal/store"
	"github.com/ducpham-dev/xpilot/internal/types"
)

// State is the session lifecycle position.
type State int32

const (
	StateIdle State = iota
	StateConnecting
	StateLoggedIn
	StateScanning
	StatePaused
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateLoggedIn:
		return "logged in"
	case StateScanning:
		return "scanning"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// scanBatch is how many posts one pass pulls from the page before filtering.
const scanBatch = 40

// Session is one account's worker. All exported methods are safe to call from
// the tray goroutine while the loop runs.
type Session struct {
	account types.Account
	st      *store.Store
	control *browser.ControlClient
	rep     *events.Reporter

	mediaDir      string
	downloadMedia bool

	state  atomic.Int32
	paused atomic.Bool

	// mu guards cancel and done so a Stop racing a Start always sees the
	// handles of the run it is stopping.
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	replied *RepliedSet
}

// New creates an idle session for the account.
func New(account types.Account, st *store.Store, control *browser.ControlClient, rep *events.Reporter, mediaDir string, downloadMedia bool) *Session {
	s := &Session{
		account:       account,
		st:            st,
		control:       control,
		rep:           rep,
		mediaDir:      mediaDir,
		downloadMedia: downloadMedia,
		done:          make(chan struct{}),
	}
	close(s.done)
	return s
}

// State returns the current lifecycle position.
func (s *Session) State() State {
	return State(s.state.Load())
}

func (s *Session) setState(st State) {
	s.state.Store(int32(st))
}

// Start launches the profile browser and begins the scan loop. It returns
// once the session is running; a connection or login failure leaves the
// session idle with no browser handle.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	switch s.State() {
	case StateConnecting, StateLoggedIn, StateScanning, StatePaused:
		s.mu.Unlock()
		return fmt.Errorf("session for %s already running", s.account.ProfileID)
	}
	s.setState(StateConnecting)
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	s.paused.Store(false)
	s.mu.Unlock()

	// A Stop arriving while we connect cancels runCtx; every step below
	// threads it, so the failure path runs and releases the Stop caller.
	fail := func(err error) error {
		s.setState(StateIdle)
		cancel()
		close(done)
		return err
	}

	port, err := s.control.StartProfile(runCtx, s.account.ProfileID)
	if err != nil {
		s.rep.Error("session", s.account.ProfileID, "failed to start profile: %v", err)
		return fail(err)
	}

	b, err := browser.Attach(runCtx, port)
	if err != nil {
		s.rep.Error("session", s.account.ProfileID, "failed to attach: %v", err)
		return fail(err)
	}

	rw, err := rewriter.ForAccount(s.account)
	if err != nil {
		b.Close()
		return fail(err)
	}

	sc := scanner.New(b.Ctx)
	if err := s.confirmLogin(runCtx, sc); err != nil {
		b.Close()
		s.rep.Error("session", s.account.ProfileID, "login check failed: %v", err)
		return fail(err)
	}
	s.setState(StateLoggedIn)
	s.rep.Info("session", s.account.ProfileID, "logged in, starting scan loop")

	if fs, err := s.st.GetSettings(s.account.ProfileID); err == nil && fs.MinimizeWindow {
		if err := b.Minimize(); err != nil {
			s.rep.Warn("session", s.account.ProfileID, "failed to minimize window: %v", err)
		}
	}

	ids, err := s.st.RepliedIDs(s.account.ProfileID)
	if err != nil {
		s.rep.Warn("session", s.account.ProfileID, "failed to load replied set: %v", err)
	}
	s.replied = NewRepliedSet(ids)

	exec := executor.New(b.Ctx, s.st, rw, s.rep, s.account, s.mediaDir, s.downloadMedia, s.replied.Add)

	go func() {
		defer close(done)
		defer b.Close()
		s.loop(runCtx, sc, exec)
		s.setState(StateStopped)
	}()
	return nil
}

// confirmLogin navigates home and polls for the signed-in chrome. A human may
// still be completing a login in the profile window, so this polls slowly.
func (s *Session) confirmLogin(ctx context.Context, sc *scanner.Scanner) error {
	if err := sc.Navigate(types.ModeFeed, s.account.Username, ""); err != nil {
		return err
	}
	return retry.Login.Do(ctx, func() error {
		if !sc.LoggedIn() {
			return errors.New("not logged in")
		}
		return nil
	})
}

// Pause suspends processing after the current pass.
func (s *Session) Pause() {
	if s.State() == StateScanning {
		s.paused.Store(true)
		s.setState(StatePaused)
		s.rep.Info("session", s.account.ProfileID, "paused")
	}
}

// Resume continues a paused session. Settings are re-read on the next pass;
// the browser stays attached so no second login is needed.
func (s *Session) Resume() {
	if s.State() == StatePaused {
		s.paused.Store(false)
		s.setState(StateScanning)
		s.rep.Info("session", s.account.ProfileID, "resumed")
	}
}

// Stop cancels the current run, whether it is still connecting or already
// looping, and waits for it to wind down.
func (s *Session) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	<-done
}

// loop runs scan passes until canceled. Settings are reloaded every pass so
// edits take effect without a restart.
func (s *Session) loop(ctx context.Context, sc *scanner.Scanner, exec *executor.Executor) {
	s.setState(StateScanning)
	repliesSent := 0

	for {
		if err := ctx.Err(); err != nil {
			return
		}

		fs, err := s.st.GetSettings(s.account.ProfileID)
		if err != nil {
			s.rep.Warn("session", s.account.ProfileID, "using default settings: %v", err)
		}

		if s.paused.Load() || !schedule.FromSettings(fs).Within(time.Now()) {
			if !sleepCtx(ctx, time.Minute) {
				return
			}
			continue
		}

		if repliesSent >= fs.MaxReplies {
			s.rep.Info("session", s.account.ProfileID, "reply budget reached (%d), stopping", fs.MaxReplies)
			return
		}

		sent, err := s.pass(ctx, sc, exec, fs, fs.MaxReplies-repliesSent)
		repliesSent += sent
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.rep.Error("session", s.account.ProfileID, "scan pass failed: %v", err)
		}

		if !sleepCtx(ctx, time.Duration(fs.Interval)*time.Second) {
			return
		}
	}
}

// pass performs one navigate-scan-process cycle and returns how many replies
// were sent.
func (s *Session) pass(ctx context.Context, sc *scanner.Scanner, exec *executor.Executor, fs types.FilterSettings, budget int) (int, error) {
	mode := fs.Mode()
	if err := sc.Navigate(mode, s.account.Username, fs.TargetKeywords); err != nil {
		return 0, err
	}

	posts, err := sc.Scan(scanBatch)
	if err != nil {
		return 0, err
	}
	s.rep.Info("session", s.account.ProfileID, "scanned %d posts in %s mode", len(posts), mode)

	sent := 0
	now := time.Now()
	for _, post := range posts {
		if ctx.Err() != nil || s.paused.Load() {
			break
		}
		if sent >= budget {
			break
		}

		ok, reason := scanner.ShouldProcess(post, fs, mode, s.account.Username, s.replied.Has, now)
		if !ok {
			if reason != "already replied" {
				s.rep.Info("session", s.account.ProfileID, "skipping %s: %s", post.ID, reason)
			}
			continue
		}

		if wait, ok := s.replyGate(fs); !ok {
			s.rep.Info("session", s.account.ProfileID, "reply interval active, %s remaining", wait.Round(time.Second))
			break
		}

		if _, err := exec.Process(post, fs); err != nil {
			var skipped executor.ErrSkipped
			if errors.As(err, &skipped) {
				s.rep.Info("session", s.account.ProfileID, "post %s %v", post.ID, err)
				continue
			}
			s.rep.Error("session", s.account.ProfileID, "failed to process %s: %v", post.ID, err)
			continue
		}
		sent++

		if fs.ReplyInterval > 0 {
			if !sleepCtx(ctx, time.Duration(fs.ReplyInterval)*time.Second) {
				break
			}
		}
	}
	return sent, nil
}

// replyGate enforces the minimum spacing between replies using the last
// persisted post time, so the gate survives restarts.
func (s *Session) replyGate(fs types.FilterSettings) (time.Duration, bool) {
	if fs.ReplyInterval <= 0 {
		return 0, true
	}
	last, err := s.st.LastPostedAt(s.account.ProfileID)
	if err != nil || last.IsZero() {
		return 0, true
	}
	elapsed := time.Since(last)
	gap := time.Duration(fs.ReplyInterval) * time.Second
	if elapsed < gap {
		return gap - elapsed, false
	}
	return 0, true
}

// sleepCtx sleeps unless the context is canceled first. Returns false on
// cancellation.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
