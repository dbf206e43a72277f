package store

import (
	"database/sql"
	"errors"
	"time"
)

// PostedTweet is one processed-post record: what was scraped and what was
// actually submitted.
type PostedTweet struct {
	ID              int64     `json:"id"`
	ProfileID       string    `json:"profile_id"`
	OriginalID      string    `json:"original_id"`
	OriginalContent string    `json:"original_content"`
	PostedContent   string    `json:"posted_content"`
	PostedAt        time.Time `json:"posted_at"`
}

// AddPosted persists one processed post. Duplicate (account, original id)
// pairs are rejected by the table constraint and ignored.
func (s *Store) AddPosted(profileID, originalID, originalContent, postedContent string) error {
	_, err := s.db.Exec(`
		INSERT INTO posted_tweets (profile_id, original_id, original_content, posted_content, posted_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(profile_id, original_id) DO NOTHING
	`, profileID, originalID, originalContent, postedContent, time.Now())
	return err
}

// HasPosted checks whether a source post was already processed.
func (s *Store) HasPosted(profileID, originalID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM posted_tweets WHERE profile_id = ? AND original_id = ?)
	`, profileID, originalID).Scan(&exists)
	return exists, err
}

// PostedContentExists checks whether identical rewritten content was already
// submitted by this account, to avoid posting the same reply twice.
func (s *Store) PostedContentExists(profileID, content string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM posted_tweets WHERE profile_id = ? AND posted_content = ?)
	`, profileID, content).Scan(&exists)
	return exists, err
}

// LastPostedAt returns the time of the account's most recent post, or the
// zero time when the account has never posted.
func (s *Store) LastPostedAt(profileID string) (time.Time, error) {
	var t time.Time
	err := s.db.QueryRow(`
		SELECT posted_at FROM posted_tweets WHERE profile_id = ?
		ORDER BY posted_at DESC LIMIT 1
	`, profileID).Scan(&t)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	return t, err
}

// PostedHistory returns the newest processed posts for the reporting UI.
func (s *Store) PostedHistory(profileID string, limit int) ([]PostedTweet, error) {
	rows, err := s.db.Query(`
		SELECT id, profile_id, original_id, original_content, posted_content, posted_at
		FROM posted_tweets WHERE profile_id = ?
		ORDER BY posted_at DESC LIMIT ?
	`, profileID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []PostedTweet
	for rows.Next() {
		var p PostedTweet
		if err := rows.Scan(&p.ID, &p.ProfileID, &p.OriginalID, &p.OriginalContent, &p.PostedContent, &p.PostedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
