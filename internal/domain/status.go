// Package domain defines the core data model for the Episodeo sync engine.
package domain

import "fmt"

// WatchStatus describes a user's progress for a series.
type WatchStatus string

// Watch statuses. StatusNone is the absence of tracking: setting it deletes
// the status record rather than persisting a "none" value.
const (
	StatusPending   WatchStatus = "pending"
	StatusWatching  WatchStatus = "watching"
	StatusCompleted WatchStatus = "completed"
	StatusDropped   WatchStatus = "dropped"
	StatusNone      WatchStatus = "none"
)

// StatusOrder is the fixed display order for status-derived lists.
// Reconciliation emits system lists in exactly this order.
var StatusOrder = []WatchStatus{
	StatusWatching,
	StatusPending,
	StatusCompleted,
	StatusDropped,
}

var statusNames = map[WatchStatus]string{
	StatusWatching:  "Watching",
	StatusPending:   "Pending",
	StatusCompleted: "Completed",
	StatusDropped:   "Dropped",
}

// Valid reports whether s is a persistable watch status.
// StatusNone is not persistable; it is a deletion marker.
func (s WatchStatus) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// DisplayName returns the user-facing name for a status.
func (s WatchStatus) DisplayName() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return string(s)
}

// SeriesStatus is a user's per-series tracking record.
// Keyed by (user, SeriesID); the user is implicit in the storage partition.
type SeriesStatus struct {
	SeriesID int         `json:"series_id"`
	Status   WatchStatus `json:"status"`
	Rating   *int        `json:"rating,omitempty"` // 1-10, nil when unrated
}

// Validate checks the record's invariants.
func (s SeriesStatus) Validate() error {
	if !s.Status.Valid() {
		return fmt.Errorf("invalid watch status %q", s.Status)
	}
	if s.Rating != nil && (*s.Rating < 1 || *s.Rating > 10) {
		return fmt.Errorf("rating %d out of range 1-10", *s.Rating)
	}
	return nil
}
