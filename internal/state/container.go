// Package state holds the in-memory library snapshot that reads are
// served from between reconciliation passes. Mutations update it
// optimistically and revert it when the remote write fails; subscribers
// receive a fresh copy after every change.
package state

import (
	"log/slog"
	"maps"
	"sync"

	"github.com/episodeo/episodeo-server/internal/domain"
)

// Snapshot is one user's library state at a point in time. Consumers
// receive copies and must not share them across goroutines with writers.
type Snapshot struct {
	Statuses map[int]domain.SeriesStatus
	Lists    map[string]domain.CustomList
	Follows  map[string]domain.FollowedList
}

// NewSnapshot creates an empty snapshot with all maps initialized.
func NewSnapshot() Snapshot {
	return Snapshot{
		Statuses: map[int]domain.SeriesStatus{},
		Lists:    map[string]domain.CustomList{},
		Follows:  map[string]domain.FollowedList{},
	}
}

// Clone returns an independent copy. List membership slices are shared;
// mutation code replaces whole list values instead of editing slices in
// place.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Statuses: maps.Clone(s.Statuses),
		Lists:    maps.Clone(s.Lists),
		Follows:  maps.Clone(s.Follows),
	}
}

// Container keeps one snapshot per user and fans out change
// notifications to subscribers.
type Container struct {
	logger *slog.Logger

	mu        sync.RWMutex
	snapshots map[string]Snapshot
	subs      map[string]map[int]chan Snapshot
	nextSubID int
}

// NewContainer creates an empty state container.
func NewContainer(logger *slog.Logger) *Container {
	return &Container{
		logger:    logger,
		snapshots: map[string]Snapshot{},
		subs:      map[string]map[int]chan Snapshot{},
	}
}

// Get returns a copy of the user's current snapshot. Unknown users get
// an empty snapshot.
func (c *Container) Get(userID string) Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap, ok := c.snapshots[userID]
	if !ok {
		return NewSnapshot()
	}
	return snap.Clone()
}

// Replace swaps the user's snapshot wholesale and notifies subscribers.
// Reconciliation uses this after rebuilding state from a source of truth.
func (c *Container) Replace(userID string, snap Snapshot) {
	c.mu.Lock()
	c.snapshots[userID] = snap.Clone()
	c.notifyLocked(userID)
	c.mu.Unlock()
}

// Update applies fn to a copy of the user's snapshot, commits the result,
// and notifies subscribers. The copy-then-commit shape keeps readers from
// ever observing a half-applied change.
func (c *Container) Update(userID string, fn func(*Snapshot)) {
	c.mu.Lock()
	snap, ok := c.snapshots[userID]
	if !ok {
		snap = NewSnapshot()
	} else {
		snap = snap.Clone()
	}
	fn(&snap)
	c.snapshots[userID] = snap
	c.notifyLocked(userID)
	c.mu.Unlock()
}

// ClearUser drops the user's snapshot and notifies subscribers with the
// resulting empty state.
func (c *Container) ClearUser(userID string) {
	c.mu.Lock()
	delete(c.snapshots, userID)
	c.notifyLocked(userID)
	c.mu.Unlock()
}

// Subscribe registers for snapshot updates for one user. The returned
// cancel function must be called to release the subscription. Slow
// subscribers miss intermediate snapshots rather than blocking writers;
// the channel always carries the latest state eventually.
func (c *Container) Subscribe(userID string) (<-chan Snapshot, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextSubID++
	subID := c.nextSubID

	ch := make(chan Snapshot, 1)
	if c.subs[userID] == nil {
		c.subs[userID] = map[int]chan Snapshot{}
	}
	c.subs[userID][subID] = ch

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if subs, ok := c.subs[userID]; ok {
			delete(subs, subID)
			if len(subs) == 0 {
				delete(c.subs, userID)
			}
		}
	}
	return ch, cancel
}

// notifyLocked sends the user's current snapshot to every subscriber.
// Callers hold c.mu.
func (c *Container) notifyLocked(userID string) {
	subs := c.subs[userID]
	if len(subs) == 0 {
		return
	}

	snap, ok := c.snapshots[userID]
	if !ok {
		snap = NewSnapshot()
	}

	for _, ch := range subs {
		// Replace a pending stale snapshot with the current one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap.Clone():
		default:
		}
	}
}
