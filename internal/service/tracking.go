package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/episodeo/episodeo-server/internal/cache"
	"github.com/episodeo/episodeo-server/internal/domain"
	"github.com/episodeo/episodeo-server/internal/errors"
	"github.com/episodeo/episodeo-server/internal/id"
	"github.com/episodeo/episodeo-server/internal/remote"
	"github.com/episodeo/episodeo-server/internal/state"
)

// TrackingService applies user mutations optimistically: the in-memory
// state and local cache are updated first, then the remote write is
// attempted, and the local change is reverted when the remote rejects it
// or cannot be reached. Mutations on the same entity are serialized so a
// revert can never clobber a later change.
type TrackingService struct {
	remote remote.Store
	cache  cache.Store
	state  *state.Container
	logger *slog.Logger

	lockMu sync.Mutex
	locks  map[string]*entityLock
}

type entityLock struct {
	mu   sync.Mutex
	refs int
}

// NewTrackingService creates a tracking service.
func NewTrackingService(remoteStore remote.Store, cacheStore cache.Store, container *state.Container, logger *slog.Logger) *TrackingService {
	return &TrackingService{
		remote: remoteStore,
		cache:  cacheStore,
		state:  container,
		logger: logger,
		locks:  map[string]*entityLock{},
	}
}

// lockEntity serializes mutations per (user, entity). Locks are created
// on demand and released when the last holder leaves.
func (s *TrackingService) lockEntity(key string) func() {
	s.lockMu.Lock()
	l := s.locks[key]
	if l == nil {
		l = &entityLock{}
		s.locks[key] = l
	}
	l.refs++
	s.lockMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.lockMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, key)
		}
		s.lockMu.Unlock()
	}
}

// mutate is the shared optimistic-mutation primitive. apply and revert
// run under the entity lock; revert runs only when remoteOp fails, and
// the remote error is returned unchanged so callers can distinguish
// offline from rejected.
func (s *TrackingService) mutate(ctx context.Context, userID, entityKey string, apply, revert func(), remoteOp func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if userID == "" {
		return errors.ErrUnauthorized
	}

	unlock := s.lockEntity(userID + "/" + entityKey)
	defer unlock()

	apply()
	if err := remoteOp(ctx); err != nil {
		revert()
		return err
	}
	return nil
}

// cachePut logs instead of failing: the cache is a mirror, and reads are
// served from the state container until the next reconciliation pass.
func (s *TrackingService) cacheWarn(op string, err error) {
	if err != nil {
		s.logger.Warn("cache write failed", "op", op, "error", err)
	}
}

func seriesEntity(seriesID int) string { return "series/" + strconv.Itoa(seriesID) }
func listEntity(listID string) string  { return "list/" + listID }

// SetStatus sets the watch status for a series, preserving any rating.
// Setting StatusNone clears the record entirely.
func (s *TrackingService) SetStatus(ctx context.Context, userID string, seriesID int, status domain.WatchStatus) error {
	if status == domain.StatusNone {
		return s.ClearStatus(ctx, userID, seriesID)
	}
	if !status.Valid() {
		return errors.Validation(fmt.Sprintf("invalid watch status %q", status))
	}

	prev, had := s.currentStatus(userID, seriesID)
	apply := func() {
		s.state.Update(userID, func(snap *state.Snapshot) {
			cur := snap.Statuses[seriesID]
			cur.SeriesID = seriesID
			cur.Status = status
			snap.Statuses[seriesID] = cur
		})
		merged, _ := s.currentStatus(userID, seriesID)
		s.cacheWarn("put status", s.cache.PutStatus(ctx, userID, merged))
	}
	revert := func() { s.revertStatus(ctx, userID, seriesID, prev, had) }

	return s.mutate(ctx, userID, seriesEntity(seriesID), apply, revert, func(ctx context.Context) error {
		return s.remote.SetStatus(ctx, userID, seriesID, status)
	})
}

// ClearStatus removes a series from tracking, rating included.
func (s *TrackingService) ClearStatus(ctx context.Context, userID string, seriesID int) error {
	prev, had := s.currentStatus(userID, seriesID)
	apply := func() {
		s.state.Update(userID, func(snap *state.Snapshot) {
			delete(snap.Statuses, seriesID)
		})
		s.cacheWarn("delete status", s.cache.DeleteStatus(ctx, userID, seriesID))
	}
	revert := func() { s.revertStatus(ctx, userID, seriesID, prev, had) }

	return s.mutate(ctx, userID, seriesEntity(seriesID), apply, revert, func(ctx context.Context) error {
		return s.remote.DeleteStatus(ctx, userID, seriesID)
	})
}

// SetRating sets a 1-10 rating for a series, preserving the status.
func (s *TrackingService) SetRating(ctx context.Context, userID string, seriesID, rating int) error {
	if rating < 1 || rating > 10 {
		return errors.Validation(fmt.Sprintf("rating %d out of range 1-10", rating))
	}

	prev, had := s.currentStatus(userID, seriesID)
	apply := func() {
		s.state.Update(userID, func(snap *state.Snapshot) {
			cur := snap.Statuses[seriesID]
			cur.SeriesID = seriesID
			r := rating
			cur.Rating = &r
			snap.Statuses[seriesID] = cur
		})
		merged, _ := s.currentStatus(userID, seriesID)
		s.cacheWarn("put status", s.cache.PutStatus(ctx, userID, merged))
	}
	revert := func() { s.revertStatus(ctx, userID, seriesID, prev, had) }

	return s.mutate(ctx, userID, seriesEntity(seriesID), apply, revert, func(ctx context.Context) error {
		return s.remote.SetRating(ctx, userID, seriesID, rating)
	})
}

// ClearRating removes the rating for a series, preserving the status.
func (s *TrackingService) ClearRating(ctx context.Context, userID string, seriesID int) error {
	prev, had := s.currentStatus(userID, seriesID)
	apply := func() {
		s.state.Update(userID, func(snap *state.Snapshot) {
			cur, ok := snap.Statuses[seriesID]
			if !ok {
				return
			}
			cur.Rating = nil
			snap.Statuses[seriesID] = cur
		})
		if merged, ok := s.currentStatus(userID, seriesID); ok {
			s.cacheWarn("put status", s.cache.PutStatus(ctx, userID, merged))
		}
	}
	revert := func() { s.revertStatus(ctx, userID, seriesID, prev, had) }

	return s.mutate(ctx, userID, seriesEntity(seriesID), apply, revert, func(ctx context.Context) error {
		return s.remote.ClearRating(ctx, userID, seriesID)
	})
}

func (s *TrackingService) currentStatus(userID string, seriesID int) (domain.SeriesStatus, bool) {
	snap := s.state.Get(userID)
	st, ok := snap.Statuses[seriesID]
	return st, ok
}

func (s *TrackingService) revertStatus(ctx context.Context, userID string, seriesID int, prev domain.SeriesStatus, had bool) {
	s.state.Update(userID, func(snap *state.Snapshot) {
		if had {
			snap.Statuses[seriesID] = prev
		} else {
			delete(snap.Statuses, seriesID)
		}
	})
	if had {
		s.cacheWarn("revert status", s.cache.PutStatus(ctx, userID, prev))
	} else {
		s.cacheWarn("revert status", s.cache.DeleteStatus(ctx, userID, seriesID))
	}
}

// CreateList creates a new custom list owned by the user.
func (s *TrackingService) CreateList(ctx context.Context, userID, name string) (domain.CustomList, error) {
	if name == "" {
		return domain.CustomList{}, errors.Validation("list name is required")
	}

	list := domain.CustomList{
		ID:      id.MustGenerate("lst"),
		Name:    name,
		OwnerID: userID,
	}

	apply := func() {
		s.state.Update(userID, func(snap *state.Snapshot) {
			snap.Lists[list.ID] = list
		})
		s.cacheWarn("put list", s.cache.PutList(ctx, userID, list))
	}
	revert := func() {
		s.state.Update(userID, func(snap *state.Snapshot) {
			delete(snap.Lists, list.ID)
		})
		s.cacheWarn("revert list", s.cache.DeleteList(ctx, userID, list.ID))
	}

	err := s.mutate(ctx, userID, listEntity(list.ID), apply, revert, func(ctx context.Context) error {
		return s.remote.CreateList(ctx, list)
	})
	if err != nil {
		return domain.CustomList{}, err
	}

	s.logger.Info("list created", "user_id", userID, "list_id", list.ID, "name", name)
	return list, nil
}

// RenameList changes a custom list's display name.
func (s *TrackingService) RenameList(ctx context.Context, userID, listID, name string) error {
	if name == "" {
		return errors.Validation("list name is required")
	}

	prev, had := s.currentList(userID, listID)
	if userID != "" && !had {
		return errors.NotFound("list not found")
	}

	apply := func() { s.putListLocal(ctx, userID, withName(prev, name)) }
	revert := func() { s.putListLocal(ctx, userID, prev) }

	return s.mutate(ctx, userID, listEntity(listID), apply, revert, func(ctx context.Context) error {
		return s.remote.RenameList(ctx, userID, listID, name)
	})
}

// AddToList adds a series to a custom list. Adding a series that is
// already a member is a successful no-op; membership is a set.
func (s *TrackingService) AddToList(ctx context.Context, userID, listID string, seriesID int) error {
	prev, had := s.currentList(userID, listID)
	if userID != "" && !had {
		return errors.NotFound("list not found")
	}

	apply := func() { s.putListLocal(ctx, userID, prev.WithMember(seriesID)) }
	revert := func() { s.putListLocal(ctx, userID, prev) }

	return s.mutate(ctx, userID, listEntity(listID), apply, revert, func(ctx context.Context) error {
		return s.remote.AddListMembers(ctx, userID, listID, []int{seriesID})
	})
}

// RemoveFromList removes a series from a custom list. Removing an absent
// member is a successful no-op.
func (s *TrackingService) RemoveFromList(ctx context.Context, userID, listID string, seriesID int) error {
	prev, had := s.currentList(userID, listID)
	if userID != "" && !had {
		return errors.NotFound("list not found")
	}

	apply := func() { s.putListLocal(ctx, userID, prev.WithoutMember(seriesID)) }
	revert := func() { s.putListLocal(ctx, userID, prev) }

	return s.mutate(ctx, userID, listEntity(listID), apply, revert, func(ctx context.Context) error {
		return s.remote.RemoveListMembers(ctx, userID, listID, []int{seriesID})
	})
}

// DeleteList removes a custom list entirely.
func (s *TrackingService) DeleteList(ctx context.Context, userID, listID string) error {
	prev, had := s.currentList(userID, listID)
	if userID != "" && !had {
		return errors.NotFound("list not found")
	}

	apply := func() {
		s.state.Update(userID, func(snap *state.Snapshot) {
			delete(snap.Lists, listID)
		})
		s.cacheWarn("delete list", s.cache.DeleteList(ctx, userID, listID))
	}
	revert := func() { s.putListLocal(ctx, userID, prev) }

	return s.mutate(ctx, userID, listEntity(listID), apply, revert, func(ctx context.Context) error {
		return s.remote.DeleteList(ctx, userID, listID)
	})
}

func (s *TrackingService) currentList(userID, listID string) (domain.CustomList, bool) {
	snap := s.state.Get(userID)
	l, ok := snap.Lists[listID]
	return l, ok
}

func (s *TrackingService) putListLocal(ctx context.Context, userID string, list domain.CustomList) {
	s.state.Update(userID, func(snap *state.Snapshot) {
		snap.Lists[list.ID] = list
	})
	s.cacheWarn("put list", s.cache.PutList(ctx, userID, list))
}

func withName(l domain.CustomList, name string) domain.CustomList {
	l.Name = name
	return l
}

// Unfollow drops a followed-list reference.
func (s *TrackingService) Unfollow(ctx context.Context, userID, listID string) error {
	prev, had := s.currentFollow(userID, listID)

	apply := func() {
		s.state.Update(userID, func(snap *state.Snapshot) {
			delete(snap.Follows, listID)
		})
		s.cacheWarn("delete follow", s.cache.DeleteFollow(ctx, userID, listID))
	}
	revert := func() {
		if !had {
			return
		}
		s.state.Update(userID, func(snap *state.Snapshot) {
			snap.Follows[listID] = prev
		})
		s.cacheWarn("revert follow", s.cache.PutFollow(ctx, userID, prev))
	}

	return s.mutate(ctx, userID, listEntity(listID), apply, revert, func(ctx context.Context) error {
		return s.remote.DeleteFollow(ctx, userID, listID)
	})
}

func (s *TrackingService) currentFollow(userID, listID string) (domain.FollowedList, bool) {
	snap := s.state.Get(userID)
	ref, ok := snap.Follows[listID]
	return ref, ok
}

// DeleteAccount removes every remote document owned by the user, then
// the local mirror and in-memory state. The remote delete goes first:
// if the cloud is unreachable the account must remain intact everywhere.
func (s *TrackingService) DeleteAccount(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if userID == "" {
		return errors.ErrUnauthorized
	}

	if err := s.remote.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("delete remote account data: %w", err)
	}

	if err := s.cache.ClearUser(ctx, userID); err != nil {
		return fmt.Errorf("clear local cache: %w", err)
	}
	s.state.ClearUser(userID)

	s.logger.Info("account data deleted", "user_id", userID)
	return nil
}
