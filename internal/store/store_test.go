package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducpham-dev/xpilot/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAccountLifecycle(t *testing.T) {
	s := newTestStore(t)

	a := &types.Account{Name: "Main", Username: "mainuser", UseGemini: true, GeminiKey: "key-1"}
	require.NoError(t, s.CreateAccount(a))
	assert.NotEmpty(t, a.ProfileID, "profile id should be generated")

	got, err := s.GetAccount(a.ProfileID)
	require.NoError(t, err)
	assert.Equal(t, "mainuser", got.Username)
	assert.Equal(t, "key-1", got.GeminiKey)

	got.Name = "Renamed"
	require.NoError(t, s.UpdateAccount(&got))

	list, err := s.ListAccounts()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Renamed", list[0].Name)

	require.NoError(t, s.DeleteAccount(a.ProfileID))
	list, err = s.ListAccounts()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGetSettingsMissingRowReturnsDefaults(t *testing.T) {
	s := newTestStore(t)

	fs, err := s.GetSettings("no-such-profile")
	require.NoError(t, err)

	assert.Equal(t, 50, fs.MaxReplies)
	assert.Equal(t, 0, fs.MinViews)
	assert.True(t, fs.SkipReplies)
	assert.True(t, fs.SkipRetweets)
	assert.True(t, fs.AutoLike)
	assert.False(t, fs.AutoFollowVerified)
	assert.Equal(t, 30, fs.Interval)
	assert.Equal(t, 24*time.Hour, fs.TimeLimit())
	assert.Equal(t, types.ModeFeed, fs.Mode())
}

func TestSettingsRoundTrip(t *testing.T) {
	s := newTestStore(t)

	a := &types.Account{Name: "A", Username: "a"}
	require.NoError(t, s.CreateAccount(a))

	fs := types.DefaultFilterSettings()
	fs.MaxReplies = 5
	fs.MinViews = 1000
	fs.AutoFollowVerified = true
	fs.ModeID = int(types.ModeTrending)
	fs.TargetKeywords = "golang"
	fs.ScheduleDays = []int{1, 3, 5}
	require.NoError(t, s.SaveSettings(a.ProfileID, fs))

	got, err := s.GetSettings(a.ProfileID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.MaxReplies)
	assert.Equal(t, 1000, got.MinViews)
	assert.True(t, got.AutoFollowVerified)
	assert.Equal(t, types.ModeTrending, got.Mode())
	assert.Equal(t, "golang", got.TargetKeywords)
	assert.Equal(t, []int{1, 3, 5}, got.ScheduleDays)
}

func TestRepliedSetUniqueness(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AddReplied("p1", "111", "alice", "nice post"))
	require.NoError(t, s.AddReplied("p1", "111", "alice", "nice post again"))
	require.NoError(t, s.AddReplied("p2", "111", "alice", "other account"))

	ok, err := s.HasReplied("p1", "111")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.HasReplied("p1", "222")
	require.NoError(t, err)
	assert.False(t, ok)

	ids, err := s.RepliedIDs("p1")
	require.NoError(t, err)
	assert.Len(t, ids, 1, "re-insert must not create a second row")

	replies, err := s.RecentReplies("p1", 10)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, "nice post", replies[0].ReplyText, "first insert wins")
}

func TestPostedTweets(t *testing.T) {
	s := newTestStore(t)

	last, err := s.LastPostedAt("p1")
	require.NoError(t, err)
	assert.True(t, last.IsZero())

	require.NoError(t, s.AddPosted("p1", "111", "original", "rewritten"))
	require.NoError(t, s.AddPosted("p1", "111", "original", "second attempt"))

	ok, err := s.HasPosted("p1", "111")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.PostedContentExists("p1", "rewritten")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.PostedContentExists("p1", "second attempt")
	require.NoError(t, err)
	assert.False(t, ok, "conflicting re-insert must be dropped")

	last, err = s.LastPostedAt("p1")
	require.NoError(t, err)
	assert.False(t, last.IsZero())

	hist, err := s.PostedHistory("p1", 10)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, "rewritten", hist[0].PostedContent)
}

func TestLogsFilterAndClear(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AddLog("INFO", "session", "p1", "started"))
	require.NoError(t, s.AddLog("ERROR", "executor", "p1", "reply failed"))
	require.NoError(t, s.AddLog("INFO", "session", "p2", "started"))

	all, err := s.Logs(LogFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	errs, err := s.Logs(LogFilter{Level: "ERROR"})
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "reply failed", errs[0].Message)

	p1, err := s.Logs(LogFilter{Account: "p1"})
	require.NoError(t, err)
	assert.Len(t, p1, 2)

	n, err := s.ClearLogs(time.Time{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestStatsAccumulate(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.RecordOutcome("p1", true, true, false, false))
	require.NoError(t, s.RecordOutcome("p1", true, false, true, false))

	st, err := s.GetStats("p1")
	require.NoError(t, err)
	assert.Equal(t, 2, st.RepliesSent)
	assert.Equal(t, 1, st.LikesGiven)
	assert.Equal(t, 1, st.FollowsMade)
	assert.Equal(t, 0, st.Retweets)
	assert.False(t, st.LastActivity.IsZero())

	empty, err := s.GetStats("p2")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.RepliesSent)

	require.NoError(t, s.ResetStats("p1"))
	st, err = s.GetStats("p1")
	require.NoError(t, err)
	assert.Equal(t, 0, st.RepliesSent)
}
