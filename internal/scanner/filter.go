package scanner

import (
	"time"

	"github.com/abadojack/whatlanggo"

	"github.com/ducpham-dev/xpilot/internal/types"
)

// ShouldProcess decides whether a scanned post is worth acting on. It is a
// pure predicate: the replied check is supplied by the caller and nothing here
// mutates state, so calling it twice with the same inputs gives the same
// answer.
func ShouldProcess(p types.Post, fs types.FilterSettings, mode types.Mode, ownHandle string, replied func(string) bool, now time.Time) (bool, string) {
	if p.ID == "" {
		return false, "missing post id"
	}
	if replied != nil && replied(p.ID) {
		return false, "already replied"
	}
	if p.AuthorHandle != "" && p.AuthorHandle == types.NormalizeHandle(ownHandle) {
		return false, "own post"
	}
	if p.IsReply && fs.SkipReplies && mode != types.ModeComments {
		return false, "is a reply"
	}
	if p.IsRetweet && fs.SkipRetweets {
		return false, "is a retweet"
	}
	if p.Text == "" && !p.HasMedia() {
		return false, "no content"
	}

	if fs.SkipJapanese || fs.JapaneseOnly {
		ja := isJapanese(p.Text)
		if fs.SkipJapanese && ja {
			return false, "japanese post"
		}
		if fs.JapaneseOnly && !ja {
			return false, "not japanese"
		}
	}

	if p.Views < fs.MinViews {
		return false, "below view threshold"
	}

	if limit := fs.TimeLimit(); limit > 0 && !p.Timestamp.IsZero() {
		if now.Sub(p.Timestamp) > limit {
			return false, "too old"
		}
	}

	return true, ""
}

func isJapanese(text string) bool {
	if text == "" {
		return false
	}
	info := whatlanggo.Detect(text)
	return info.Lang == whatlanggo.Jpn
}
