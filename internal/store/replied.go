package store

import "time"

// RepliedTweet is one row of the per-account replied set.
type RepliedTweet struct {
	ID        int64     `json:"id"`
	ProfileID string    `json:"profile_id"`
	TweetID   string    `json:"tweet_id"`
	Username  string    `json:"username"`
	ReplyText string    `json:"reply_text"`
	RepliedAt time.Time `json:"replied_at"`
}

// AddReplied records a reply. The (profile_id, tweet_id) uniqueness is
// enforced by the table constraint, so concurrent writers cannot produce
// duplicate rows; re-inserts are silently ignored.
func (s *Store) AddReplied(profileID, tweetID, username, replyText string) error {
	_, err := s.db.Exec(`
		INSERT INTO replied_tweets (profile_id, tweet_id, username, reply_text, replied_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(profile_id, tweet_id) DO NOTHING
	`, profileID, tweetID, username, replyText, time.Now())
	return err
}

// HasReplied checks whether the account already replied to the tweet.
func (s *Store) HasReplied(profileID, tweetID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM replied_tweets WHERE profile_id = ? AND tweet_id = ?)
	`, profileID, tweetID).Scan(&exists)
	return exists, err
}

// RepliedIDs loads the account's full replied set, used to seed the
// in-memory set at session start.
func (s *Store) RepliedIDs(profileID string) (map[string]struct{}, error) {
	rows, err := s.db.Query(`SELECT tweet_id FROM replied_tweets WHERE profile_id = ?`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// RecentReplies returns the newest replies for the account, for the
// reporting UI.
func (s *Store) RecentReplies(profileID string, limit int) ([]RepliedTweet, error) {
	rows, err := s.db.Query(`
		SELECT id, profile_id, tweet_id, username, reply_text, replied_at
		FROM replied_tweets WHERE profile_id = ?
		ORDER BY replied_at DESC LIMIT ?
	`, profileID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var replies []RepliedTweet
	for rows.Next() {
		var r RepliedTweet
		if err := rows.Scan(&r.ID, &r.ProfileID, &r.TweetID, &r.Username, &r.ReplyText, &r.RepliedAt); err != nil {
			return nil, err
		}
		replies = append(replies, r)
	}
	return replies, rows.Err()
}
