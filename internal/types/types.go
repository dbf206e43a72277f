package types

import (
	"strings"
	"time"
)

// Mode selects which page a session scans for posts.
type Mode int

const (
	ModeFeed     Mode = 1 // home timeline
	ModeUser     Mode = 2 // a target user's profile
	ModeComments Mode = 3 // replies under the account's own posts
	ModeTrending Mode = 4 // keyword search
)

func (m Mode) String() string {
	switch m {
	case ModeFeed:
		return "feed"
	case ModeUser:
		return "user"
	case ModeComments:
		return "comments"
	case ModeTrending:
		return "trending"
	default:
		return "unknown"
	}
}

// Account identifies one managed profile.
type Account struct {
	ProfileID  string    `json:"profile_id"`
	Name       string    `json:"name"`
	Username   string    `json:"username"`
	UseGemini  bool      `json:"use_gemini"`
	GeminiKey  string    `json:"gemini_key"`
	ChatGPTKey string    `json:"chatgpt_key"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Post is an immutable snapshot of a tweet, taken in a single DOM pass so
// later navigation cannot invalidate it.
type Post struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	AuthorHandle string    `json:"author_handle"`
	AuthorName   string    `json:"author_name"`
	Text         string    `json:"text"`
	MediaURLs    []string  `json:"media_urls"`
	Timestamp    time.Time `json:"timestamp"`
	Likes        int       `json:"likes"`
	Retweets     int       `json:"retweets"`
	Replies      int       `json:"replies"`
	Views        int       `json:"views"`
	Verified     bool      `json:"verified"`
	IsRetweet    bool      `json:"is_retweet"`
	IsReply      bool      `json:"is_reply"`
	ScrapedAt    time.Time `json:"scraped_at"`
}

// HasMedia reports whether the post carried photos or video.
func (p Post) HasMedia() bool { return len(p.MediaURLs) > 0 }

// FilterSettings is the per-account behavior snapshot loaded from the
// settings table. All numeric fields are non-negative; interval fields bound
// the executor's pacing.
type FilterSettings struct {
	MaxReplies         int
	MinViews           int
	SkipReplies        bool
	SkipRetweets       bool
	SkipJapanese       bool
	JapaneseOnly       bool
	AutoLike           bool
	AutoFollowVerified bool
	AutoRetweet        bool
	ReplyFirstOnly     bool
	MinimizeWindow     bool
	TimeLimitHours     int
	TimeLimitMinutes   int
	Interval           int // seconds between scan passes
	ReplyInterval      int // seconds between replies
	ScheduleEnabled    bool
	StartTime          string // "09:00"
	EndTime            string // "17:00"
	ScheduleDays       []int  // 0=Sunday .. 6=Saturday
	ModeID             int
	TargetKeywords     string
}

// DefaultFilterSettings returns the in-process defaults used when the
// settings row is missing or unreadable.
func DefaultFilterSettings() FilterSettings {
	return FilterSettings{
		MaxReplies:       50,
		MinViews:         0,
		SkipReplies:      true,
		SkipRetweets:     true,
		AutoLike:         true,
		TimeLimitHours:   24,
		TimeLimitMinutes: 0,
		Interval:         30,
		ReplyInterval:    0,
		StartTime:        "09:00",
		EndTime:          "17:00",
		ScheduleDays:     []int{0, 1, 2, 3, 4, 5, 6},
		ModeID:           int(ModeFeed),
	}
}

// Clamp forces numeric fields back into range after a load from storage.
func (fs *FilterSettings) Clamp() {
	if fs.MaxReplies < 0 {
		fs.MaxReplies = 0
	}
	if fs.MinViews < 0 {
		fs.MinViews = 0
	}
	if fs.TimeLimitHours < 0 {
		fs.TimeLimitHours = 0
	}
	if fs.TimeLimitMinutes < 0 {
		fs.TimeLimitMinutes = 0
	}
	if fs.Interval < 0 {
		fs.Interval = 0
	}
	if fs.ReplyInterval < 0 {
		fs.ReplyInterval = 0
	}
}

// TimeLimit is the maximum post age a session will still act on.
func (fs FilterSettings) TimeLimit() time.Duration {
	return time.Duration(fs.TimeLimitHours)*time.Hour + time.Duration(fs.TimeLimitMinutes)*time.Minute
}

// Mode returns the configured scan mode, defaulting to the feed.
func (fs FilterSettings) Mode() Mode {
	if fs.ModeID >= int(ModeFeed) && fs.ModeID <= int(ModeTrending) {
		return Mode(fs.ModeID)
	}
	return ModeFeed
}

// Outcome is the structured per-post result emitted after processing.
type Outcome struct {
	ProfileID     string    `json:"profile_id"`
	Username      string    `json:"username"`
	OriginalText  string    `json:"original_text"`
	ReplyText     string    `json:"reply_text"`
	Timestamp     time.Time `json:"timestamp"`
	ReplySuccess  bool      `json:"reply_success"`
	LikeSuccess   bool      `json:"like_success"`
	FollowSuccess bool      `json:"follow_success"`
	LatencyMS     int       `json:"latency_ms"`
	CharCount     int       `json:"char_count"`
	Verified      bool      `json:"verified"`
	HasMedia      bool      `json:"has_media"`
	ExtraJSON     string    `json:"extra_json"`
	PageURL       string    `json:"page_url"`
}

// NormalizeHandle lowercases a handle and strips the @ prefix so handles
// scraped from hrefs compare equal to operator-entered ones.
func NormalizeHandle(h string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(h)), "@")
}
