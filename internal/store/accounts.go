package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ducpham-dev/xpilot/internal/types"
)

// CreateAccount inserts a new account, generating a profile ID if the
// operator did not supply one. A default settings row is created alongside.
func (s *Store) CreateAccount(a *types.Account) error {
	if a.ProfileID == "" {
		a.ProfileID = uuid.NewString()
	}
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO accounts (profile_id, name, username, use_gemini, gemini_key, chatgpt_key, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ProfileID, a.Name, a.Username, a.UseGemini, a.GeminiKey, a.ChatGPTKey, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	_, err = s.db.Exec(`INSERT OR IGNORE INTO settings (profile_id) VALUES (?)`, a.ProfileID)
	if err != nil {
		return fmt.Errorf("failed to create default settings: %w", err)
	}
	return nil
}

// UpdateAccount overwrites the mutable fields of an existing account.
func (s *Store) UpdateAccount(a *types.Account) error {
	a.UpdatedAt = time.Now()
	_, err := s.db.Exec(`
		UPDATE accounts SET name = ?, username = ?, use_gemini = ?, gemini_key = ?, chatgpt_key = ?, updated_at = ?
		WHERE profile_id = ?
	`, a.Name, a.Username, a.UseGemini, a.GeminiKey, a.ChatGPTKey, a.UpdatedAt, a.ProfileID)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

// DeleteAccount removes an account; settings and stats cascade.
func (s *Store) DeleteAccount(profileID string) error {
	_, err := s.db.Exec(`DELETE FROM accounts WHERE profile_id = ?`, profileID)
	return err
}

// GetAccount returns one account or sql.ErrNoRows.
func (s *Store) GetAccount(profileID string) (types.Account, error) {
	row := s.db.QueryRow(`
		SELECT profile_id, name, username, use_gemini, gemini_key, chatgpt_key, created_at, updated_at
		FROM accounts WHERE profile_id = ?
	`, profileID)
	return scanAccount(row)
}

// ListAccounts returns all accounts ordered by display name.
func (s *Store) ListAccounts() ([]types.Account, error) {
	rows, err := s.db.Query(`
		SELECT profile_id, name, username, use_gemini, gemini_key, chatgpt_key, created_at, updated_at
		FROM accounts ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []types.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (types.Account, error) {
	var a types.Account
	var geminiKey, chatgptKey sql.NullString
	err := row.Scan(&a.ProfileID, &a.Name, &a.Username, &a.UseGemini, &geminiKey, &chatgptKey, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return types.Account{}, err
	}
	a.GeminiKey = geminiKey.String
	a.ChatGPTKey = chatgptKey.String
	return a, nil
}
