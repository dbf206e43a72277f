package store

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// LogEntry is one persisted activity log row.
type LogEntry struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Module    string    `json:"module"`
	Account   string    `json:"account"`
	Message   string    `json:"message"`
}

// LogFilter narrows Logs queries. Zero values mean no filtering on that field.
type LogFilter struct {
	Level   string
	Module  string
	Account string
	Since   time.Time
	Limit   int
}

// AddLog appends one activity log row.
func (s *Store) AddLog(level, module, account, message string) error {
	_, err := s.db.Exec(`
		INSERT INTO logs (timestamp, level, module, account, message)
		VALUES (?, ?, ?, ?, ?)
	`, time.Now(), level, module, account, message)
	return err
}

// Logs returns matching log rows, newest first.
func (s *Store) Logs(f LogFilter) ([]LogEntry, error) {
	query := `SELECT id, timestamp, level, module, account, message FROM logs`
	var conds []string
	var args []any
	if f.Level != "" {
		conds = append(conds, "level = ?")
		args = append(args, f.Level)
	}
	if f.Module != "" {
		conds = append(conds, "module = ?")
		args = append(args, f.Module)
	}
	if f.Account != "" {
		conds = append(conds, "account = ?")
		args = append(args, f.Account)
	}
	if !f.Since.IsZero() {
		conds = append(conds, "timestamp >= ?")
		args = append(args, f.Since)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY timestamp DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var e LogEntry
		var account *string
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Level, &e.Module, &account, &e.Message); err != nil {
			return nil, err
		}
		if account != nil {
			e.Account = *account
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ClearLogs deletes rows older than the cutoff. A zero cutoff clears all.
func (s *Store) ClearLogs(before time.Time) (int64, error) {
	var res interface {
		RowsAffected() (int64, error)
	}
	var err error
	if before.IsZero() {
		res, err = s.db.Exec(`DELETE FROM logs`)
	} else {
		res, err = s.db.Exec(`DELETE FROM logs WHERE timestamp < ?`, before)
	}
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ExportLogs writes matching log rows to path as JSON lines.
func (s *Store) ExportLogs(path string, f LogFilter) error {
	entries, err := s.Logs(f)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}
