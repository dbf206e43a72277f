package store

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// maxConns caps the underlying connection pool. Multiple account sessions
// read settings concurrently; callers block when the pool is exhausted.
const maxConns = 10

// Store handles all database operations. One Store is constructed in main and
// passed by reference to every component that needs persistence.
type Store struct {
	db *sql.DB
}

// New creates a new Store with SQLite backend
func New(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxConns)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS accounts (
		profile_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		username TEXT NOT NULL,
		use_gemini BOOLEAN DEFAULT 1,
		gemini_key TEXT,
		chatgpt_key TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS settings (
		profile_id TEXT PRIMARY KEY REFERENCES accounts(profile_id) ON DELETE CASCADE,
		max_replies INTEGER DEFAULT 50,
		min_views INTEGER DEFAULT 0,
		skip_replies BOOLEAN DEFAULT 1,
		skip_retweets BOOLEAN DEFAULT 1,
		skip_japanese BOOLEAN DEFAULT 0,
		auto_like BOOLEAN DEFAULT 1,
		auto_follow_verified BOOLEAN DEFAULT 0,
		auto_retweet BOOLEAN DEFAULT 0,
		japanese_only BOOLEAN DEFAULT 0,
		reply_first_only BOOLEAN DEFAULT 0,
		minimize_window BOOLEAN DEFAULT 0,
		time_limit_hours INTEGER DEFAULT 24,
		time_limit_minutes INTEGER DEFAULT 0,
		interval INTEGER DEFAULT 30,
		reply_interval INTEGER DEFAULT 0,
		schedule_enabled BOOLEAN DEFAULT 0,
		start_time TEXT DEFAULT '09:00',
		end_time TEXT DEFAULT '17:00',
		schedule_days TEXT DEFAULT '0,1,2,3,4,5,6',
		mode_id INTEGER DEFAULT 1,
		target_keywords TEXT,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS account_stats (
		profile_id TEXT PRIMARY KEY REFERENCES accounts(profile_id) ON DELETE CASCADE,
		replies_sent INTEGER DEFAULT 0,
		likes_given INTEGER DEFAULT 0,
		follows_made INTEGER DEFAULT 0,
		retweets INTEGER DEFAULT 0,
		last_activity DATETIME,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS replied_tweets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		profile_id TEXT NOT NULL,
		tweet_id TEXT NOT NULL,
		username TEXT,
		reply_text TEXT,
		replied_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(profile_id, tweet_id)
	);

	CREATE TABLE IF NOT EXISTS posted_tweets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		profile_id TEXT NOT NULL,
		original_id TEXT NOT NULL,
		original_content TEXT,
		posted_content TEXT,
		posted_at DATETIME NOT NULL,
		UNIQUE(profile_id, original_id)
	);

	CREATE TABLE IF NOT EXISTS logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		level TEXT NOT NULL,
		module TEXT NOT NULL,
		account TEXT,
		message TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_logs_timestamp ON logs(timestamp);
	CREATE INDEX IF NOT EXISTS idx_logs_level ON logs(level);
	CREATE INDEX IF NOT EXISTS idx_logs_account ON logs(account);
	CREATE INDEX IF NOT EXISTS idx_replied_profile ON replied_tweets(profile_id);
	CREATE INDEX IF NOT EXISTS idx_posted_profile ON posted_tweets(profile_id, posted_at);
	`

	_, err := s.db.Exec(schema)
	return err
}
