package events

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducpham-dev/xpilot/internal/store"
	"github.com/ducpham-dev/xpilot/internal/types"
)

type recordingSub struct {
	mu       sync.Mutex
	logs     []LogEvent
	outcomes []types.Outcome
}

func (r *recordingSub) HandleLog(e LogEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, e)
}

func (r *recordingSub) HandleOutcome(o types.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func newTestReporter(t *testing.T) (*Reporter, *store.Store) {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewReporter(st), st
}

func TestReporterPersistsLogs(t *testing.T) {
	r, st := newTestReporter(t)

	r.Info("session", "p1", "started pass %d", 3)
	r.Error("executor", "p1", "reply failed")
	r.Close()

	logs, err := st.Logs(store.LogFilter{Account: "p1"})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "reply failed", logs[0].Message, "newest first")
	assert.Equal(t, "started pass 3", logs[1].Message)
	assert.Equal(t, LevelInfo, logs[1].Level)
}

func TestReporterRecordsOutcomes(t *testing.T) {
	r, st := newTestReporter(t)

	r.Outcome(types.Outcome{ProfileID: "p1", ReplySuccess: true, LikeSuccess: true})
	r.Outcome(types.Outcome{ProfileID: "p1", ReplySuccess: true})
	r.Close()

	stats, err := st.GetStats("p1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.RepliesSent)
	assert.Equal(t, 1, stats.LikesGiven)
}

func TestReporterDropsPublishesAfterClose(t *testing.T) {
	r, st := newTestReporter(t)
	r.Close()

	// A shutdown race can leave a session publishing after teardown; both
	// entry points must drop silently rather than panic.
	r.Info("session", "p1", "late log line")
	r.Outcome(types.Outcome{ProfileID: "p1", ReplySuccess: true})
	r.Close() // second Close is a no-op

	logs, err := st.Logs(store.LogFilter{})
	require.NoError(t, err)
	assert.Empty(t, logs)

	stats, err := st.GetStats("p1")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.RepliesSent)
}

func TestReporterFansOutToSubscribers(t *testing.T) {
	r, _ := newTestReporter(t)
	sub := &recordingSub{}
	r.Subscribe(sub)

	r.Info("session", "p1", "hello")
	r.Outcome(types.Outcome{ProfileID: "p1", ReplySuccess: true})
	r.Close()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		sub.mu.Lock()
		done := len(sub.logs) == 1 && len(sub.outcomes) == 1
		sub.mu.Unlock()
		if done {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	sub.mu.Lock()
	defer sub.mu.Unlock()
	require.Len(t, sub.logs, 1)
	assert.Equal(t, "hello", sub.logs[0].Message)
	require.Len(t, sub.outcomes, 1)
	assert.True(t, sub.outcomes[0].ReplySuccess)
}
