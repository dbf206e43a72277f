// Package events fans session activity out to persistence and any attached
// UI. Sessions publish fire-and-forget; a single drain goroutine writes rows
// so browser work never blocks on the database.
package events

import (
	"fmt"
	"log"
	"sync"

	"github.com/ducpham-dev/xpilot/internal/store"
	"github.com/ducpham-dev/xpilot/internal/types"
)

// Log levels as stored in the logs table.
const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// LogEvent is one line of session activity.
type LogEvent struct {
	Level   string
	Module  string
	Account string
	Message string
}

// Subscriber receives events as they happen. Implementations must not block;
// slow subscribers stall the drain loop for everyone.
type Subscriber interface {
	HandleLog(LogEvent)
	HandleOutcome(types.Outcome)
}

type event struct {
	log     *LogEvent
	outcome *types.Outcome
}

// Reporter buffers events from sessions and persists them in order. When the
// buffer is full events are dropped rather than blocking the publisher.
type Reporter struct {
	st *store.Store
	ch chan event

	mu   sync.RWMutex
	subs []Subscriber

	// closeMu makes publishing safe against a concurrent Close: a publisher
	// holding the read lock can never hit a channel that Close has closed.
	closeMu sync.RWMutex
	closed  bool

	done chan struct{}
}

const bufferSize = 256

// NewReporter starts the drain goroutine.
func NewReporter(st *store.Store) *Reporter {
	r := &Reporter{
		st:   st,
		ch:   make(chan event, bufferSize),
		done: make(chan struct{}),
	}
	go r.drain()
	return r
}

// Subscribe attaches a UI listener.
func (r *Reporter) Subscribe(s Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, s)
}

// publish hands the event to the drain goroutine. Returns false when the
// buffer is full or the reporter is already closed.
func (r *Reporter) publish(e event) bool {
	r.closeMu.RLock()
	defer r.closeMu.RUnlock()
	if r.closed {
		return false
	}
	select {
	case r.ch <- e:
		return true
	default:
		return false
	}
}

// Log publishes a log line.
func (r *Reporter) Log(level, module, account, format string, args ...any) {
	e := LogEvent{Level: level, Module: module, Account: account, Message: fmt.Sprintf(format, args...)}
	if !r.publish(event{log: &e}) {
		log.Printf("events: dropping log: %s", e.Message)
	}
}

// Info logs at INFO level.
func (r *Reporter) Info(module, account, format string, args ...any) {
	r.Log(LevelInfo, module, account, format, args...)
}

// Warn logs at WARN level.
func (r *Reporter) Warn(module, account, format string, args ...any) {
	r.Log(LevelWarn, module, account, format, args...)
}

// Error logs at ERROR level.
func (r *Reporter) Error(module, account, format string, args ...any) {
	r.Log(LevelError, module, account, format, args...)
}

// Outcome publishes one processed-post result. Stats counters are bumped by
// the drain loop.
func (r *Reporter) Outcome(o types.Outcome) {
	if !r.publish(event{outcome: &o}) {
		log.Printf("events: dropping outcome for %s", o.ProfileID)
	}
}

// Close drains remaining events and stops the goroutine. Safe to call more
// than once; publishes arriving after Close are dropped, not a panic.
func (r *Reporter) Close() {
	r.closeMu.Lock()
	if !r.closed {
		r.closed = true
		close(r.ch)
	}
	r.closeMu.Unlock()
	<-r.done
}

func (r *Reporter) drain() {
	defer close(r.done)
	for e := range r.ch {
		switch {
		case e.log != nil:
			if err := r.st.AddLog(e.log.Level, e.log.Module, e.log.Account, e.log.Message); err != nil {
				log.Printf("events: failed to persist log: %v", err)
			}
			r.fanOut(func(s Subscriber) { s.HandleLog(*e.log) })
		case e.outcome != nil:
			o := *e.outcome
			if err := r.st.RecordOutcome(o.ProfileID, o.ReplySuccess, o.LikeSuccess, o.FollowSuccess, false); err != nil {
				log.Printf("events: failed to record outcome: %v", err)
			}
			r.fanOut(func(s Subscriber) { s.HandleOutcome(o) })
		}
	}
}

func (r *Reporter) fanOut(fn func(Subscriber)) {
	r.mu.RLock()
	subs := make([]Subscriber, len(r.subs))
	copy(subs, r.subs)
	r.mu.RUnlock()
	for _, s := range subs {
		fn(s)
	}
}
