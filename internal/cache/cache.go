// Package cache defines the local cache store interface for the Episodeo
// sync engine. The cache mirrors the remote document store for offline
// reads; it holds no business logic and is never authoritative while the
// remote is reachable.
//
// Every table is partitioned by user ID except metadata snapshots, which
// are global (series metadata is not user-specific). The Replace
// operations swap a user's whole partition in one transaction
// (clear-then-reinsert) so reconciliation can never interleave stale rows
// with fresh ones.
package cache

import (
	"context"

	"github.com/episodeo/episodeo-server/internal/domain"
)

// Store is the persistence interface for the local mirror.
// Two implementations exist: cache/badger and cache/sqlite.
type Store interface {
	Close() error

	// Series statuses.
	Statuses(ctx context.Context, userID string) ([]domain.SeriesStatus, error)
	PutStatus(ctx context.Context, userID string, status domain.SeriesStatus) error
	DeleteStatus(ctx context.Context, userID string, seriesID int) error
	ReplaceStatuses(ctx context.Context, userID string, statuses []domain.SeriesStatus) error

	// Custom list mirror.
	Lists(ctx context.Context, userID string) ([]domain.CustomList, error)
	PutList(ctx context.Context, userID string, list domain.CustomList) error
	DeleteList(ctx context.Context, userID, listID string) error
	ReplaceLists(ctx context.Context, userID string, lists []domain.CustomList) error

	// Followed-list references. Only the reference is mirrored, never the
	// referenced list's content.
	Follows(ctx context.Context, userID string) ([]domain.FollowedList, error)
	PutFollow(ctx context.Context, userID string, ref domain.FollowedList) error
	DeleteFollow(ctx context.Context, userID, listID string) error
	ReplaceFollows(ctx context.Context, userID string, refs []domain.FollowedList) error

	// Metadata snapshots, global. Metadata returns nil, nil when no
	// snapshot exists; PutMetadata overwrites the whole snapshot
	// atomically so a reader never sees a partial write.
	Metadata(ctx context.Context, seriesID int) (*domain.SeriesMetadata, error)
	PutMetadata(ctx context.Context, meta *domain.SeriesMetadata) error

	// ClearUser removes every row in the user's partitions. Metadata
	// snapshots are left in place.
	ClearUser(ctx context.Context, userID string) error
}
