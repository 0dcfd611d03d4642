package state

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/danielpatrickdp/agit/internal/logging"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS weight_versions (
	version_id    TEXT PRIMARY KEY,
	parent_id     TEXT,
	weights       BLOB NOT NULL,
	created_at    TEXT NOT NULL,
	metrics_json  TEXT,
	FOREIGN KEY (parent_id) REFERENCES weight_versions(version_id)
);

CREATE TABLE IF NOT EXISTS active_weights (
	id            INTEGER PRIMARY KEY CHECK (id = 1),
	version_id    TEXT NOT NULL,
	FOREIGN KEY (version_id) REFERENCES weight_versions(version_id)
);

CREATE TABLE IF NOT EXISTS history_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp     TEXT NOT NULL,
	fitness       REAL NOT NULL,
	file_count    INTEGER NOT NULL,
	message       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS provenance_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	version_id    TEXT,
	context_hash  TEXT,
	trigger_type  TEXT NOT NULL,
	signals_json  TEXT,
	evidence_refs TEXT,
	decision      TEXT NOT NULL,
	reason        TEXT,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (version_id) REFERENCES weight_versions(version_id)
);
`

// #endregion schema

// #region store-struct
// Store manages versioned weights, the decision history mirror and the
// provenance log in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion db-accessor

// #region create-initial
// CreateInitialWeights stores weights as a parentless version and makes it active.
func (s *Store) CreateInitialWeights(weights []float64) (WeightRecord, error) {
	rec := WeightRecord{
		VersionID: uuid.New().String(),
		Weights:   append([]float64(nil), weights...),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.CommitWeights(rec); err != nil {
		return WeightRecord{}, err
	}
	return rec, nil
}

// #endregion create-initial

// #region get-current
// GetCurrent reads the active weight version. It returns ErrNotInitialized
// when nothing has been committed yet.
func (s *Store) GetCurrent() (WeightRecord, error) {
	var versionID string
	err := s.db.QueryRow(`SELECT version_id FROM active_weights WHERE id = 1`).Scan(&versionID)
	if errors.Is(err, sql.ErrNoRows) {
		return WeightRecord{}, ErrNotInitialized
	}
	if err != nil {
		return WeightRecord{}, fmt.Errorf("get active: %w", err)
	}
	return s.GetVersion(versionID)
}

// #endregion get-current

// #region get-version
// GetVersion retrieves a specific weight version by ID.
func (s *Store) GetVersion(id string) (WeightRecord, error) {
	row := s.db.QueryRow(
		`SELECT version_id, parent_id, weights, created_at, metrics_json
		 FROM weight_versions WHERE version_id = ?`, id,
	)
	rec, err := scanWeightRecord(row)
	if err != nil {
		return WeightRecord{}, fmt.Errorf("get version %s: %w", id, err)
	}
	return rec, nil
}

// #endregion get-version

// #region commit-weights
// CommitWeights inserts a new version and points the active row at it atomically.
func (s *Store) CommitWeights(rec WeightRecord) error {
	if rec.VersionID == "" {
		return fmt.Errorf("commit weights: empty version id")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO weight_versions (version_id, parent_id, weights, created_at, metrics_json)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.VersionID, nullIfEmpty(rec.ParentID), encodeWeights(rec.Weights),
		rec.CreatedAt.Format(time.RFC3339Nano), nullIfEmpty(rec.MetricsJSON),
	)
	if err != nil {
		return fmt.Errorf("insert version: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO active_weights (id, version_id) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET version_id = excluded.version_id`,
		rec.VersionID,
	)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// SaveWeights commits weights as a child of the active version, or as the
// first version when none exists, and returns the new version ID.
func (s *Store) SaveWeights(weights []float64, metricsJSON string) (string, error) {
	var parent string
	cur, err := s.GetCurrent()
	switch {
	case err == nil:
		parent = cur.VersionID
	case !errors.Is(err, ErrNotInitialized):
		return "", err
	}

	rec := WeightRecord{
		VersionID:   uuid.New().String(),
		ParentID:    parent,
		Weights:     append([]float64(nil), weights...),
		CreatedAt:   time.Now().UTC(),
		MetricsJSON: metricsJSON,
	}
	if err := s.CommitWeights(rec); err != nil {
		return "", err
	}
	return rec.VersionID, nil
}

// #endregion commit-weights

// #region rollback
// Rollback sets the active pointer to a previous version.
func (s *Store) Rollback(targetVersionID string) error {
	var exists int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM weight_versions WHERE version_id = ?`, targetVersionID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check version: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("version %s not found", targetVersionID)
	}

	_, err = s.db.Exec(
		`INSERT INTO active_weights (id, version_id) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET version_id = excluded.version_id`,
		targetVersionID,
	)
	if err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

// #endregion rollback

// #region list-versions
// ListVersions returns the most recent weight versions, newest first.
func (s *Store) ListVersions(limit int) ([]WeightRecord, error) {
	rows, err := s.db.Query(
		`SELECT version_id, parent_id, weights, created_at, metrics_json
		 FROM weight_versions ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var records []WeightRecord
	for rows.Next() {
		rec, err := scanWeightRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListVersionsWithProvenance returns versions joined with the latest
// provenance row written for each, newest version first.
func (s *Store) ListVersionsWithProvenance(limit int) ([]VersionWithProvenance, error) {
	rows, err := s.db.Query(
		`SELECT v.version_id, v.parent_id, v.weights, v.created_at, v.metrics_json,
		        p.decision, p.reason, p.signals_json
		 FROM weight_versions v
		 LEFT JOIN provenance_log p ON p.id = (
			SELECT MAX(id) FROM provenance_log WHERE version_id = v.version_id
		 )
		 ORDER BY v.created_at DESC, v.rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list versions with provenance: %w", err)
	}
	defer rows.Close()

	var out []VersionWithProvenance
	for rows.Next() {
		var vp VersionWithProvenance
		var parentID, metricsJSON, decision, reason, signalsJSON sql.NullString
		var blob []byte
		var createdStr string
		if err := rows.Scan(&vp.VersionID, &parentID, &blob, &createdStr, &metricsJSON,
			&decision, &reason, &signalsJSON); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		vp.ParentID = parentID.String
		vp.Weights = decodeWeights(blob)
		vp.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		vp.MetricsJSON = metricsJSON.String
		vp.Decision = decision.String
		vp.Reason = reason.String
		vp.SignalsJSON = signalsJSON.String
		out = append(out, vp)
	}
	return out, rows.Err()
}

// #endregion list-versions

// #region scan
type rowScanner interface {
	Scan(dest ...any) error
}

func scanWeightRecord(row rowScanner) (WeightRecord, error) {
	var rec WeightRecord
	var parentID, metricsJSON sql.NullString
	var blob []byte
	var createdStr string
	if err := row.Scan(&rec.VersionID, &parentID, &blob, &createdStr, &metricsJSON); err != nil {
		return WeightRecord{}, err
	}
	rec.ParentID = parentID.String
	rec.Weights = decodeWeights(blob)
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	rec.MetricsJSON = metricsJSON.String
	return rec, nil
}

// #endregion scan

// #region weight-encoding
func encodeWeights(w []float64) []byte {
	buf := make([]byte, len(w)*8)
	for i, f := range w {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

func decodeWeights(b []byte) []float64 {
	w := make([]float64, len(b)/8)
	for i := range w {
		w[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return w
}

// #endregion weight-encoding

// #region helpers
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers

// #region provenance
// LogDecision appends a provenance row through the shared database handle.
func (s *Store) LogDecision(entry logging.ProvenanceEntry) error {
	return logging.LogDecision(s.db, entry)
}

// #endregion provenance
