package history

import (
	"math"
	"time"
)

// Capacity bounds the log; the oldest entry is evicted on overflow.
const Capacity = 100

// minBonusEntries is the history size that must be exceeded before a
// similarity bonus is offered.
const minBonusEntries = 5

// bonusScale is the largest bonus a perfectly typical change can earn.
const bonusScale = 0.05

// #region entry

// Entry is one recorded decision.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Fitness   float64   `json:"fitness"`
	FileCount int       `json:"file_count"`
	Message   string    `json:"message"`
}

// #endregion entry

// #region log

// Log is a FIFO of at most Capacity entries. It is not safe for concurrent
// use; the scoring context that owns it serializes access.
type Log struct {
	entries []Entry
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{entries: make([]Entry, 0, Capacity)}
}

// Add appends e, evicting the oldest entry when the log is full.
func (l *Log) Add(e Entry) {
	if len(l.entries) == Capacity {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:Capacity-1]
	}
	l.entries = append(l.entries, e)
}

// Restore replaces the contents with the newest Capacity entries of es.
func (l *Log) Restore(es []Entry) {
	if len(es) > Capacity {
		es = es[len(es)-Capacity:]
	}
	l.entries = append(l.entries[:0], es...)
}

// Entries returns a copy, oldest first.
func (l *Log) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Len returns the number of entries held.
func (l *Log) Len() int {
	return len(l.entries)
}

// #endregion log

// #region averages

// AverageFitness is 0 for an empty log.
func (l *Log) AverageFitness() float64 {
	if len(l.entries) == 0 {
		return 0
	}
	var sum float64
	for _, e := range l.entries {
		sum += e.Fitness
	}
	return sum / float64(len(l.entries))
}

// AverageFileCount is 0 for an empty log.
func (l *Log) AverageFileCount() float64 {
	if len(l.entries) == 0 {
		return 0
	}
	var sum int
	for _, e := range l.entries {
		sum += e.FileCount
	}
	return float64(sum) / float64(len(l.entries))
}

// Bonus rewards changes whose size matches what this repository usually
// commits. ok is false until the log holds more than five entries. The
// bonus goes negative for changes far larger than the average.
func (l *Log) Bonus(fileCount int) (bonus float64, ok bool) {
	if len(l.entries) <= minBonusEntries {
		return 0, false
	}
	avg := l.AverageFileCount()
	diff := math.Abs(float64(fileCount) - avg)
	return bonusScale * (1 - diff/math.Max(avg, 1)), true
}

// #endregion averages
