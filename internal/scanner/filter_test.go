package scanner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ducpham-dev/xpilot/internal/types"
)

func basePost() types.Post {
	return types.Post{
		ID:           "1234567890",
		AuthorHandle: "someuser",
		Text:         "An ordinary post about nothing in particular",
		Timestamp:    time.Now().Add(-time.Hour),
		Views:        500,
	}
}

func noneReplied(string) bool { return false }

func TestShouldProcessAccepts(t *testing.T) {
	fs := types.DefaultFilterSettings()
	ok, reason := ShouldProcess(basePost(), fs, types.ModeFeed, "me", noneReplied, time.Now())
	assert.True(t, ok, reason)
}

func TestShouldProcessIsPure(t *testing.T) {
	fs := types.DefaultFilterSettings()
	p := basePost()
	now := time.Now()

	first, _ := ShouldProcess(p, fs, types.ModeFeed, "me", noneReplied, now)
	second, _ := ShouldProcess(p, fs, types.ModeFeed, "me", noneReplied, now)
	assert.Equal(t, first, second)
}

func TestShouldProcessSkipsMissingID(t *testing.T) {
	p := basePost()
	p.ID = ""
	ok, reason := ShouldProcess(p, types.DefaultFilterSettings(), types.ModeFeed, "me", noneReplied, time.Now())
	assert.False(t, ok)
	assert.Equal(t, "missing post id", reason)
}

func TestShouldProcessSkipsReplied(t *testing.T) {
	p := basePost()
	replied := func(id string) bool { return id == p.ID }
	ok, reason := ShouldProcess(p, types.DefaultFilterSettings(), types.ModeFeed, "me", replied, time.Now())
	assert.False(t, ok)
	assert.Equal(t, "already replied", reason)
}

func TestShouldProcessSkipsOwnPost(t *testing.T) {
	p := basePost()
	p.AuthorHandle = "me"
	ok, _ := ShouldProcess(p, types.DefaultFilterSettings(), types.ModeFeed, "@Me", noneReplied, time.Now())
	assert.False(t, ok, "handle comparison must ignore case and the @ prefix")
}

func TestShouldProcessReplyHandling(t *testing.T) {
	p := basePost()
	p.IsReply = true
	fs := types.DefaultFilterSettings()

	ok, _ := ShouldProcess(p, fs, types.ModeFeed, "me", noneReplied, time.Now())
	assert.False(t, ok, "replies skipped in feed mode")

	ok, _ = ShouldProcess(p, fs, types.ModeComments, "me", noneReplied, time.Now())
	assert.True(t, ok, "replies are the whole point of comments mode")

	fs.SkipReplies = false
	ok, _ = ShouldProcess(p, fs, types.ModeFeed, "me", noneReplied, time.Now())
	assert.True(t, ok)
}

func TestShouldProcessSkipsRetweets(t *testing.T) {
	p := basePost()
	p.IsRetweet = true
	fs := types.DefaultFilterSettings()

	ok, _ := ShouldProcess(p, fs, types.ModeFeed, "me", noneReplied, time.Now())
	assert.False(t, ok)

	fs.SkipRetweets = false
	ok, _ = ShouldProcess(p, fs, types.ModeFeed, "me", noneReplied, time.Now())
	assert.True(t, ok)
}

func TestShouldProcessViewThreshold(t *testing.T) {
	p := basePost()
	p.Views = 99
	fs := types.DefaultFilterSettings()
	fs.MinViews = 100

	ok, reason := ShouldProcess(p, fs, types.ModeFeed, "me", noneReplied, time.Now())
	assert.False(t, ok)
	assert.Equal(t, "below view threshold", reason)

	p.Views = 100
	ok, _ = ShouldProcess(p, fs, types.ModeFeed, "me", noneReplied, time.Now())
	assert.True(t, ok)
}

func TestShouldProcessTimeLimit(t *testing.T) {
	now := time.Now()
	fs := types.DefaultFilterSettings()

	p := basePost()
	p.Timestamp = now.Add(-25 * time.Hour)
	ok, reason := ShouldProcess(p, fs, types.ModeFeed, "me", noneReplied, now)
	assert.False(t, ok)
	assert.Equal(t, "too old", reason)

	p.Timestamp = now.Add(-23 * time.Hour)
	ok, _ = ShouldProcess(p, fs, types.ModeFeed, "me", noneReplied, now)
	assert.True(t, ok)

	fs.TimeLimitHours = 0
	p.Timestamp = now.Add(-1000 * time.Hour)
	ok, _ = ShouldProcess(p, fs, types.ModeFeed, "me", noneReplied, now)
	assert.True(t, ok, "zero limit disables the age check")
}

func TestShouldProcessJapaneseGating(t *testing.T) {
	now := time.Now()
	ja := basePost()
	ja.Text = "今日はとても良い天気ですね。散歩に行きましょう。"
	en := basePost()

	fs := types.DefaultFilterSettings()
	fs.SkipJapanese = true
	ok, _ := ShouldProcess(ja, fs, types.ModeFeed, "me", noneReplied, now)
	assert.False(t, ok)
	ok, _ = ShouldProcess(en, fs, types.ModeFeed, "me", noneReplied, now)
	assert.True(t, ok)

	fs = types.DefaultFilterSettings()
	fs.JapaneseOnly = true
	ok, _ = ShouldProcess(ja, fs, types.ModeFeed, "me", noneReplied, now)
	assert.True(t, ok)
	ok, _ = ShouldProcess(en, fs, types.ModeFeed, "me", noneReplied, now)
	assert.False(t, ok)
}
