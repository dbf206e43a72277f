package store

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/ducpham-dev/xpilot/internal/types"
)

// GetSettings returns the latest settings row for the account, or the
// documented in-memory defaults when the row is missing. The error is non-nil
// only for real storage failures; callers are expected to substitute the
// defaults and keep processing in that case too.
func (s *Store) GetSettings(profileID string) (types.FilterSettings, error) {
	fs := types.DefaultFilterSettings()

	row := s.db.QueryRow(`
		SELECT max_replies, min_views, skip_replies, skip_retweets, skip_japanese,
			auto_like, auto_follow_verified, auto_retweet, japanese_only,
			reply_first_only, minimize_window, time_limit_hours, time_limit_minutes,
			interval, reply_interval, schedule_enabled, start_time, end_time,
			schedule_days, mode_id, target_keywords
		FROM settings WHERE profile_id = ?
	`, profileID)

	var days string
	var keywords sql.NullString
	err := row.Scan(
		&fs.MaxReplies, &fs.MinViews, &fs.SkipReplies, &fs.SkipRetweets, &fs.SkipJapanese,
		&fs.AutoLike, &fs.AutoFollowVerified, &fs.AutoRetweet, &fs.JapaneseOnly,
		&fs.ReplyFirstOnly, &fs.MinimizeWindow, &fs.TimeLimitHours, &fs.TimeLimitMinutes,
		&fs.Interval, &fs.ReplyInterval, &fs.ScheduleEnabled, &fs.StartTime, &fs.EndTime,
		&days, &fs.ModeID, &keywords,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return types.DefaultFilterSettings(), nil
	}
	if err != nil {
		return types.DefaultFilterSettings(), err
	}

	fs.ScheduleDays = parseScheduleDays(days)
	fs.TargetKeywords = keywords.String
	fs.Clamp()
	return fs, nil
}

// SaveSettings upserts the full settings row for the account.
func (s *Store) SaveSettings(profileID string, fs types.FilterSettings) error {
	fs.Clamp()
	_, err := s.db.Exec(`
		INSERT INTO settings (profile_id, max_replies, min_views, skip_replies, skip_retweets,
			skip_japanese, auto_like, auto_follow_verified, auto_retweet, japanese_only,
			reply_first_only, minimize_window, time_limit_hours, time_limit_minutes,
			interval, reply_interval, schedule_enabled, start_time, end_time,
			schedule_days, mode_id, target_keywords, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(profile_id) DO UPDATE SET
			max_replies = excluded.max_replies,
			min_views = excluded.min_views,
			skip_replies = excluded.skip_replies,
			skip_retweets = excluded.skip_retweets,
			skip_japanese = excluded.skip_japanese,
			auto_like = excluded.auto_like,
			auto_follow_verified = excluded.auto_follow_verified,
			auto_retweet = excluded.auto_retweet,
			japanese_only = excluded.japanese_only,
			reply_first_only = excluded.reply_first_only,
			minimize_window = excluded.minimize_window,
			time_limit_hours = excluded.time_limit_hours,
			time_limit_minutes = excluded.time_limit_minutes,
			interval = excluded.interval,
			reply_interval = excluded.reply_interval,
			schedule_enabled = excluded.schedule_enabled,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			schedule_days = excluded.schedule_days,
			mode_id = excluded.mode_id,
			target_keywords = excluded.target_keywords,
			updated_at = CURRENT_TIMESTAMP
	`, profileID, fs.MaxReplies, fs.MinViews, fs.SkipReplies, fs.SkipRetweets,
		fs.SkipJapanese, fs.AutoLike, fs.AutoFollowVerified, fs.AutoRetweet, fs.JapaneseOnly,
		fs.ReplyFirstOnly, fs.MinimizeWindow, fs.TimeLimitHours, fs.TimeLimitMinutes,
		fs.Interval, fs.ReplyInterval, fs.ScheduleEnabled, fs.StartTime, fs.EndTime,
		formatScheduleDays(fs.ScheduleDays), fs.ModeID, fs.TargetKeywords)
	return err
}

func parseScheduleDays(csv string) []int {
	var days []int
	for _, part := range strings.Split(csv, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || d < 0 || d > 6 {
			continue
		}
		days = append(days, d)
	}
	if len(days) == 0 {
		return types.DefaultFilterSettings().ScheduleDays
	}
	return days
}

func formatScheduleDays(days []int) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(d))
	}
	return strings.Join(parts, ",")
}
