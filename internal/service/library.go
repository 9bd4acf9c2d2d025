// Package service provides the business logic layer: reconciliation
// between the remote store and the local cache, optimistic mutations,
// list sharing, and catalog lookups.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/episodeo/episodeo-server/internal/cache"
	"github.com/episodeo/episodeo-server/internal/domain"
	"github.com/episodeo/episodeo-server/internal/remote"
	"github.com/episodeo/episodeo-server/internal/state"
)

// LibraryService reconciles the user's library between the remote store
// and the local cache. The remote copy wins whenever it is reachable and
// non-empty; otherwise reads fall back to the cached snapshot without
// surfacing an error.
type LibraryService struct {
	remote remote.Store
	cache  cache.Store
	state  *state.Container
	logger *slog.Logger
}

// NewLibraryService creates a library service.
func NewLibraryService(remoteStore remote.Store, cacheStore cache.Store, container *state.Container, logger *slog.Logger) *LibraryService {
	return &LibraryService{
		remote: remoteStore,
		cache:  cacheStore,
		state:  container,
		logger: logger,
	}
}

// LoadStatuses returns the user's watch statuses keyed by series ID.
//
// A reachable remote with at least one record is authoritative: the local
// partition is replaced wholesale so deletions made on other devices
// propagate. An unreachable or empty remote degrades silently to the
// cached snapshot; an empty remote is indistinguishable from a brand-new
// account, and wiping the cache on that signal would destroy the only
// surviving copy.
func (s *LibraryService) LoadStatuses(ctx context.Context, userID string) (map[int]domain.SeriesStatus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if userID == "" {
		return map[int]domain.SeriesStatus{}, nil
	}

	remoteStatuses, err := s.remote.Statuses(ctx, userID)
	if err == nil && len(remoteStatuses) > 0 {
		if cacheErr := s.cache.ReplaceStatuses(ctx, userID, remoteStatuses); cacheErr != nil {
			s.logger.Warn("failed to refresh status cache", "user_id", userID, "error", cacheErr)
		}
		statuses := statusMap(remoteStatuses)
		s.state.Update(userID, func(snap *state.Snapshot) {
			snap.Statuses = statuses
		})
		return statusMap(remoteStatuses), nil
	}
	if err != nil {
		s.logger.Warn("remote statuses unavailable, serving cached snapshot", "user_id", userID, "error", err)
	}

	cached, cacheErr := s.cache.Statuses(ctx, userID)
	if cacheErr != nil {
		return nil, fmt.Errorf("load cached statuses: %w", cacheErr)
	}
	statuses := statusMap(cached)
	s.state.Update(userID, func(snap *state.Snapshot) {
		snap.Statuses = statuses
	})
	return statusMap(cached), nil
}

// LoadLists returns the user's lists in display order: the status-derived
// system lists first, in fixed status order with empty buckets omitted,
// then the user's custom lists sorted by name.
func (s *LibraryService) LoadLists(ctx context.Context, userID string) ([]domain.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, nil
	}

	statuses, err := s.LoadStatuses(ctx, userID)
	if err != nil {
		return nil, err
	}

	customLists, err := s.loadCustomLists(ctx, userID)
	if err != nil {
		return nil, err
	}

	lists := SystemLists(statuses)
	for _, l := range customLists {
		lists = append(lists, l)
	}
	return lists, nil
}

// loadCustomLists reconciles the user's custom lists with the same
// remote-wins-when-non-empty policy as statuses.
func (s *LibraryService) loadCustomLists(ctx context.Context, userID string) ([]domain.CustomList, error) {
	remoteLists, err := s.remote.Lists(ctx, userID)
	if err == nil && len(remoteLists) > 0 {
		if cacheErr := s.cache.ReplaceLists(ctx, userID, remoteLists); cacheErr != nil {
			s.logger.Warn("failed to refresh list cache", "user_id", userID, "error", cacheErr)
		}
		s.publishLists(userID, remoteLists)
		return sortedLists(remoteLists), nil
	}
	if err != nil {
		s.logger.Warn("remote lists unavailable, serving cached snapshot", "user_id", userID, "error", err)
	}

	cached, cacheErr := s.cache.Lists(ctx, userID)
	if cacheErr != nil {
		return nil, fmt.Errorf("load cached lists: %w", cacheErr)
	}
	s.publishLists(userID, cached)
	return sortedLists(cached), nil
}

func (s *LibraryService) publishLists(userID string, lists []domain.CustomList) {
	byID := make(map[string]domain.CustomList, len(lists))
	for _, l := range lists {
		byID[l.ID] = l
	}
	s.state.Update(userID, func(snap *state.Snapshot) {
		snap.Lists = byID
	})
}

// LoadFollowedLists returns the user's followed-list references,
// reconciled with the remote store.
func (s *LibraryService) LoadFollowedLists(ctx context.Context, userID string) ([]domain.FollowedList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, nil
	}

	remoteRefs, err := s.remote.Follows(ctx, userID)
	if err == nil && len(remoteRefs) > 0 {
		if cacheErr := s.cache.ReplaceFollows(ctx, userID, remoteRefs); cacheErr != nil {
			s.logger.Warn("failed to refresh follow cache", "user_id", userID, "error", cacheErr)
		}
		s.publishFollows(userID, remoteRefs)
		return remoteRefs, nil
	}
	if err != nil {
		s.logger.Warn("remote follows unavailable, serving cached snapshot", "user_id", userID, "error", err)
	}

	cached, cacheErr := s.cache.Follows(ctx, userID)
	if cacheErr != nil {
		return nil, fmt.Errorf("load cached follows: %w", cacheErr)
	}
	s.publishFollows(userID, cached)
	return cached, nil
}

func (s *LibraryService) publishFollows(userID string, refs []domain.FollowedList) {
	byID := make(map[string]domain.FollowedList, len(refs))
	for _, ref := range refs {
		byID[ref.ListID] = ref
	}
	s.state.Update(userID, func(snap *state.Snapshot) {
		snap.Follows = byID
	})
}

// ResolveFollowedLists fetches the current content of every list the user
// follows. Lists that were deleted by their owner or cannot be fetched
// are dropped silently; following is a weak reference and one broken
// list must not take down the rest of the screen.
func (s *LibraryService) ResolveFollowedLists(ctx context.Context, userID string) ([]domain.CustomList, error) {
	refs, err := s.LoadFollowedLists(ctx, userID)
	if err != nil {
		return nil, err
	}

	resolved := make([]domain.CustomList, 0, len(refs))
	for _, ref := range refs {
		list, err := s.remote.List(ctx, ref.OwnerID, ref.ListID)
		if err != nil || list == nil {
			if err != nil {
				s.logger.Warn("skipping unresolvable followed list",
					"user_id", userID, "list_id", ref.ListID, "error", err)
			}
			continue
		}
		resolved = append(resolved, *list)
	}
	return resolved, nil
}

// Refresh runs a full reconciliation pass over statuses, lists, and
// follows.
func (s *LibraryService) Refresh(ctx context.Context, userID string) error {
	if _, err := s.LoadStatuses(ctx, userID); err != nil {
		return err
	}
	if _, err := s.loadCustomLists(ctx, userID); err != nil {
		return err
	}
	if _, err := s.LoadFollowedLists(ctx, userID); err != nil {
		return err
	}
	return nil
}

// SystemLists derives the status-bucket lists from a status map. Buckets
// appear in fixed order and empty buckets are omitted; members are sorted
// by series ID so repeated derivations are stable.
func SystemLists(statuses map[int]domain.SeriesStatus) []domain.List {
	buckets := map[domain.WatchStatus][]int{}
	for seriesID, st := range statuses {
		buckets[st.Status] = append(buckets[st.Status], seriesID)
	}

	var lists []domain.List
	for _, status := range domain.StatusOrder {
		ids := buckets[status]
		if len(ids) == 0 {
			continue
		}
		sort.Ints(ids)
		lists = append(lists, domain.SystemList{
			Status:    status,
			Name:      status.DisplayName(),
			SeriesIDs: ids,
		})
	}
	return lists
}

func statusMap(statuses []domain.SeriesStatus) map[int]domain.SeriesStatus {
	m := make(map[int]domain.SeriesStatus, len(statuses))
	for _, st := range statuses {
		m[st.SeriesID] = st
	}
	return m
}

func sortedLists(lists []domain.CustomList) []domain.CustomList {
	out := make([]domain.CustomList, len(lists))
	copy(out, lists)
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a == b {
			return out[i].ID < out[j].ID
		}
		return a < b
	})
	return out
}
