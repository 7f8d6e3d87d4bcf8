package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrSlotNotFound is returned when no payload is stored under a key.
var ErrSlotNotFound = errors.New("slot not found")

func (s *Store) LoadSlot(key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM slots WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load slot %q: %w", key, err)
	}
	return data, nil
}

// SaveSlot replaces the payload stored under key.
func (s *Store) SaveSlot(key string, data []byte) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO slots (key, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, data, now,
	)
	if err != nil {
		return fmt.Errorf("save slot %q: %w", key, err)
	}
	return nil
}

// DeleteSlot removes a slot. Deleting an absent slot is not an error.
func (s *Store) DeleteSlot(key string) error {
	if _, err := s.db.Exec(`DELETE FROM slots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete slot %q: %w", key, err)
	}
	return nil
}

func (s *Store) SlotInfo(key string) (*SlotInfo, error) {
	info := &SlotInfo{Key: key}
	var updatedAt string
	err := s.db.QueryRow(`SELECT length(data), updated_at FROM slots WHERE key = ?`, key).Scan(&info.Size, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("slot info %q: %w", key, err)
	}
	info.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return info, nil
}

// BackupSlot keeps a copy of data for key, typically a payload that could
// not be decoded and is about to be replaced.
func (s *Store) BackupSlot(key string, data []byte, reason string) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO slot_backups (slot_key, data, reason, created_at) VALUES (?, ?, ?, ?)`,
		key, data, reason, now,
	)
	if err != nil {
		return 0, fmt.Errorf("backup slot %q: %w", key, err)
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// ListBackups returns the backups for key, newest first.
func (s *Store) ListBackups(key string) ([]Backup, error) {
	rows, err := s.db.Query(
		`SELECT id, slot_key, data, reason, created_at FROM slot_backups
		 WHERE slot_key = ? ORDER BY id DESC`, key,
	)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	defer rows.Close()

	var backups []Backup
	for rows.Next() {
		var b Backup
		var createdAt string
		if err := rows.Scan(&b.ID, &b.SlotKey, &b.Data, &b.Reason, &createdAt); err != nil {
			return nil, err
		}
		b.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		backups = append(backups, b)
	}
	return backups, rows.Err()
}
