package state

import (
	"fmt"
	"time"

	"github.com/danielpatrickdp/agit/internal/history"
)

// #region append-history
// AppendHistory mirrors one history entry into history_log and trims the
// table to history.Capacity rows, oldest first out.
func (s *Store) AppendHistory(e history.Entry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO history_log (timestamp, fitness, file_count, message) VALUES (?, ?, ?, ?)`,
		e.Timestamp.UTC().Format(time.RFC3339Nano), e.Fitness, e.FileCount, e.Message,
	)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}

	_, err = tx.Exec(
		`DELETE FROM history_log WHERE id NOT IN (
			SELECT id FROM history_log ORDER BY id DESC LIMIT ?
		)`, history.Capacity,
	)
	if err != nil {
		return fmt.Errorf("trim history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// #endregion append-history

// #region load-history
// LoadHistory returns the mirrored history, oldest first.
func (s *Store) LoadHistory() ([]history.Entry, error) {
	rows, err := s.db.Query(
		`SELECT timestamp, fitness, file_count, message FROM history_log ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	var entries []history.Entry
	for rows.Next() {
		var e history.Entry
		var ts string
		if err := rows.Scan(&ts, &e.Fitness, &e.FileCount, &e.Message); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion load-history
