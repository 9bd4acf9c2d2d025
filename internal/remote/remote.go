// Package remote defines the client interface for the cloud document
// store that holds the authoritative copy of every user's watch data.
// The HTTP implementation lives in this package; an in-memory fake for
// tests lives in remote/memory.
package remote

import (
	"context"

	"github.com/episodeo/episodeo-server/internal/domain"
)

// Store is the remote document store interface. Lookups return nil, nil
// when the document does not exist. Implementations translate transport
// failures into offline domain errors so callers can distinguish "no
// connection" from a rejected request.
type Store interface {
	// Watch statuses. SetStatus and SetRating are merge-writes: each
	// updates its own field and leaves the other untouched.
	Statuses(ctx context.Context, userID string) ([]domain.SeriesStatus, error)
	SetStatus(ctx context.Context, userID string, seriesID int, status domain.WatchStatus) error
	SetRating(ctx context.Context, userID string, seriesID, rating int) error
	ClearRating(ctx context.Context, userID string, seriesID int) error
	DeleteStatus(ctx context.Context, userID string, seriesID int) error

	// Custom lists. Membership updates are server-side set operations:
	// AddListMembers unions, RemoveListMembers subtracts, and neither
	// needs the current membership to be known by the caller.
	Lists(ctx context.Context, userID string) ([]domain.CustomList, error)
	List(ctx context.Context, ownerID, listID string) (*domain.CustomList, error)
	CreateList(ctx context.Context, list domain.CustomList) error
	RenameList(ctx context.Context, ownerID, listID, name string) error
	AddListMembers(ctx context.Context, ownerID, listID string, seriesIDs []int) error
	RemoveListMembers(ctx context.Context, ownerID, listID string, seriesIDs []int) error
	DeleteList(ctx context.Context, ownerID, listID string) error

	// Followed-list references.
	Follows(ctx context.Context, userID string) ([]domain.FollowedList, error)
	PutFollow(ctx context.Context, userID string, ref domain.FollowedList) error
	DeleteFollow(ctx context.Context, userID, listID string) error

	// Share codes, keyed globally by the code itself.
	ShareCode(ctx context.Context, code string) (*domain.ShareCode, error)
	PutShareCode(ctx context.Context, sc domain.ShareCode) error
	DeleteShareCode(ctx context.Context, code string) error

	// DeleteUser removes every remote document owned by the user.
	DeleteUser(ctx context.Context, userID string) error
}
