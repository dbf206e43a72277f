package store

import (
	"database/sql"
	"errors"
	"time"
)

// Stats is the per-account activity counters row.
type Stats struct {
	ProfileID    string    `json:"profile_id"`
	RepliesSent  int       `json:"replies_sent"`
	LikesGiven   int       `json:"likes_given"`
	FollowsMade  int       `json:"follows_made"`
	Retweets     int       `json:"retweets"`
	LastActivity time.Time `json:"last_activity"`
}

// RecordOutcome bumps the account's counters from one processed post.
func (s *Store) RecordOutcome(profileID string, reply, like, follow, retweet bool) error {
	_, err := s.db.Exec(`
		INSERT INTO account_stats (profile_id, replies_sent, likes_given, follows_made, retweets, last_activity, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(profile_id) DO UPDATE SET
			replies_sent = replies_sent + excluded.replies_sent,
			likes_given = likes_given + excluded.likes_given,
			follows_made = follows_made + excluded.follows_made,
			retweets = retweets + excluded.retweets,
			last_activity = excluded.last_activity,
			updated_at = CURRENT_TIMESTAMP
	`, profileID, boolToInt(reply), boolToInt(like), boolToInt(follow), boolToInt(retweet), time.Now())
	return err
}

// GetStats returns the account's counters, zeroed when no activity exists yet.
func (s *Store) GetStats(profileID string) (Stats, error) {
	st := Stats{ProfileID: profileID}
	var last sql.NullTime
	err := s.db.QueryRow(`
		SELECT replies_sent, likes_given, follows_made, retweets, last_activity
		FROM account_stats WHERE profile_id = ?
	`, profileID).Scan(&st.RepliesSent, &st.LikesGiven, &st.FollowsMade, &st.Retweets, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return st, nil
	}
	if err != nil {
		return st, err
	}
	st.LastActivity = last.Time
	return st, nil
}

// ResetStats zeroes the account's counters.
func (s *Store) ResetStats(profileID string) error {
	_, err := s.db.Exec(`
		UPDATE account_stats SET replies_sent = 0, likes_given = 0, follows_made = 0,
			retweets = 0, updated_at = CURRENT_TIMESTAMP
		WHERE profile_id = ?
	`, profileID)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
