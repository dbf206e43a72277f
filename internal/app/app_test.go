package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducpham-dev/xpilot/internal/browser"
	"github.com/ducpham-dev/xpilot/internal/config"
	"github.com/ducpham-dev/xpilot/internal/events"
	"github.com/ducpham-dev/xpilot/internal/session"
	"github.com/ducpham-dev/xpilot/internal/store"
	"github.com/ducpham-dev/xpilot/internal/types"
)

func newTestApp(t *testing.T) (*App, *store.Store) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Storage.DBPath = filepath.Join(dir, "test.db")
	cfg.Media.Dir = filepath.Join(dir, "media")
	cfg.Control.Endpoint = "http://127.0.0.1:1"

	st, err := store.New(cfg.Storage.DBPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	reporter := events.NewReporter(st)
	a := New(cfg, st, reporter, browser.NewControlClient(cfg.Control.Endpoint))
	t.Cleanup(a.Shutdown)
	return a, st
}

func TestStartSessionUnknownAccount(t *testing.T) {
	a, _ := newTestApp(t)
	err := a.StartSession("no-such-profile")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown account")
}

func TestStartSessionControlFailureLeavesIdle(t *testing.T) {
	a, st := newTestApp(t)

	acct := &types.Account{Name: "Test", Username: "me", UseGemini: true, GeminiKey: "k"}
	require.NoError(t, st.CreateAccount(acct))

	err := a.StartSession(acct.ProfileID)
	require.Error(t, err, "unreachable control endpoint must fail the start")
	assert.Equal(t, session.StateIdle, a.SessionState(acct.ProfileID))
}

func TestSessionStateUnknownProfileIsIdle(t *testing.T) {
	a, _ := newTestApp(t)
	assert.Equal(t, session.StateIdle, a.SessionState("nobody"))
}

func TestSetMode(t *testing.T) {
	a, st := newTestApp(t)

	acct := &types.Account{Name: "Test", Username: "me", UseGemini: true, GeminiKey: "k"}
	require.NoError(t, st.CreateAccount(acct))

	require.NoError(t, a.SetMode(acct.ProfileID, types.ModeTrending))

	fs, err := st.GetSettings(acct.ProfileID)
	require.NoError(t, err)
	assert.Equal(t, types.ModeTrending, fs.Mode())
}

func TestExportLogs(t *testing.T) {
	a, st := newTestApp(t)

	require.NoError(t, st.AddLog("INFO", "session", "p1", "hello"))

	path, err := a.ExportLogs()
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}
