package state

import (
	"errors"
	"time"
)

// ErrNotInitialized is returned when no weight version has been made active.
var ErrNotInitialized = errors.New("state not initialized")

// #region weight-record
// WeightRecord is a versioned snapshot of the fusion engine's attention weights.
type WeightRecord struct {
	VersionID   string
	ParentID    string
	Weights     []float64
	CreatedAt   time.Time
	MetricsJSON string
}

// #endregion weight-record

// #region version-with-provenance
// VersionWithProvenance pairs a weight version with the provenance row that
// produced it, when there is one.
type VersionWithProvenance struct {
	WeightRecord
	Decision    string
	Reason      string
	SignalsJSON string
}

// #endregion version-with-provenance
