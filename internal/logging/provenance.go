package logging

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// #region log-decision
// LogDecision writes a provenance entry to the provenance_log table.
func LogDecision(db *sql.DB, entry ProvenanceEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO provenance_log (version_id, context_hash, trigger_type, signals_json, evidence_refs, decision, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		nullIfEmpty(entry.VersionID),
		nullIfEmpty(entry.ContextHash),
		entry.TriggerType,
		nullIfEmpty(entry.SignalsJSON),
		nullIfEmpty(entry.EvidenceRefs),
		entry.Decision,
		nullIfEmpty(entry.Reason),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log decision: %w", err)
	}
	return nil
}

// RecordEntry wraps a DecisionRecord in an evaluate provenance entry for
// the given weight version.
func RecordEntry(versionID string, rec DecisionRecord) (ProvenanceEntry, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return ProvenanceEntry{}, fmt.Errorf("marshal decision record: %w", err)
	}
	return ProvenanceEntry{
		VersionID:   versionID,
		ContextHash: ContextHash(rec.ChangeText),
		TriggerType: TriggerEvaluate,
		SignalsJSON: string(data),
		Decision:    rec.GateAction,
		Reason:      rec.GateReason,
	}, nil
}

// LogRecord writes a DecisionRecord as an evaluate entry.
func LogRecord(db *sql.DB, versionID string, rec DecisionRecord) error {
	entry, err := RecordEntry(versionID, rec)
	if err != nil {
		return err
	}
	return LogDecision(db, entry)
}

// #endregion log-decision

// #region load-records
// LoadRecords returns every evaluate entry's DecisionRecord, oldest first.
// Rows whose signals_json does not decode are skipped.
func LoadRecords(db *sql.DB) ([]DecisionRecord, error) {
	rows, err := db.Query(
		`SELECT signals_json FROM provenance_log
		 WHERE trigger_type = ? AND signals_json IS NOT NULL ORDER BY id ASC`,
		TriggerEvaluate,
	)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []DecisionRecord
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		var rec DecisionRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// #endregion load-records

// #region helpers
// ContextHash is the hex SHA-256 of a change text.
func ContextHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
