// Package memory provides an in-memory remote store fake for tests. It
// mirrors the HTTP client's semantics, including merge-write statuses and
// set-style list membership, and can simulate a lost connection.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/episodeo/episodeo-server/internal/domain"
	"github.com/episodeo/episodeo-server/internal/errors"
)

type statusDoc struct {
	status domain.WatchStatus
	rating *int
}

// Store is an in-memory implementation of remote.Store.
type Store struct {
	mu      sync.Mutex
	offline bool

	// Calls counts operations by name, for asserting call patterns.
	Calls map[string]int

	statuses map[string]map[int]*statusDoc           // userID -> seriesID -> doc
	lists    map[string]map[string]*domain.CustomList // ownerID -> listID -> list
	follows  map[string]map[string]domain.FollowedList
	codes    map[string]domain.ShareCode
}

// New creates an empty in-memory remote store.
func New() *Store {
	return &Store{
		Calls:    map[string]int{},
		statuses: map[string]map[int]*statusDoc{},
		lists:    map[string]map[string]*domain.CustomList{},
		follows:  map[string]map[string]domain.FollowedList{},
		codes:    map[string]domain.ShareCode{},
	}
}

// SetOffline toggles simulated connectivity. While offline every
// operation fails with an offline error and mutates nothing.
func (s *Store) SetOffline(offline bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offline = offline
}

// enter records the call and reports whether the store is reachable.
func (s *Store) enter(op string) error {
	s.Calls[op]++
	if s.offline {
		return errors.Offline("no connection, changes cannot be saved", nil)
	}
	return nil
}

// Statuses implements remote.Store.
func (s *Store) Statuses(_ context.Context, userID string) ([]domain.SeriesStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("Statuses"); err != nil {
		return nil, err
	}

	var out []domain.SeriesStatus
	for seriesID, doc := range s.statuses[userID] {
		st := domain.SeriesStatus{SeriesID: seriesID, Status: doc.status}
		if doc.rating != nil {
			r := *doc.rating
			st.Rating = &r
		}
		out = append(out, st)
	}
	slices.SortFunc(out, func(a, b domain.SeriesStatus) int { return a.SeriesID - b.SeriesID })
	return out, nil
}

// SetStatus implements remote.Store.
func (s *Store) SetStatus(_ context.Context, userID string, seriesID int, status domain.WatchStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("SetStatus"); err != nil {
		return err
	}

	doc := s.statusDoc(userID, seriesID)
	doc.status = status
	return nil
}

// SetRating implements remote.Store.
func (s *Store) SetRating(_ context.Context, userID string, seriesID, rating int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("SetRating"); err != nil {
		return err
	}

	doc := s.statusDoc(userID, seriesID)
	doc.rating = &rating
	return nil
}

// ClearRating implements remote.Store.
func (s *Store) ClearRating(_ context.Context, userID string, seriesID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ClearRating"); err != nil {
		return err
	}

	if docs := s.statuses[userID]; docs != nil {
		if doc := docs[seriesID]; doc != nil {
			doc.rating = nil
		}
	}
	return nil
}

// DeleteStatus implements remote.Store.
func (s *Store) DeleteStatus(_ context.Context, userID string, seriesID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteStatus"); err != nil {
		return err
	}

	delete(s.statuses[userID], seriesID)
	return nil
}

func (s *Store) statusDoc(userID string, seriesID int) *statusDoc {
	docs := s.statuses[userID]
	if docs == nil {
		docs = map[int]*statusDoc{}
		s.statuses[userID] = docs
	}
	doc := docs[seriesID]
	if doc == nil {
		doc = &statusDoc{}
		docs[seriesID] = doc
	}
	return doc
}

// Lists implements remote.Store.
func (s *Store) Lists(_ context.Context, userID string) ([]domain.CustomList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("Lists"); err != nil {
		return nil, err
	}

	var out []domain.CustomList
	for _, l := range s.lists[userID] {
		out = append(out, cloneList(*l))
	}
	slices.SortFunc(out, func(a, b domain.CustomList) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out, nil
}

// List implements remote.Store.
func (s *Store) List(_ context.Context, ownerID, listID string) (*domain.CustomList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("List"); err != nil {
		return nil, err
	}

	l := s.lists[ownerID][listID]
	if l == nil {
		return nil, nil
	}
	clone := cloneList(*l)
	return &clone, nil
}

// CreateList implements remote.Store.
func (s *Store) CreateList(_ context.Context, list domain.CustomList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreateList"); err != nil {
		return err
	}

	owner := s.lists[list.OwnerID]
	if owner == nil {
		owner = map[string]*domain.CustomList{}
		s.lists[list.OwnerID] = owner
	}
	clone := cloneList(list)
	owner[list.ID] = &clone
	return nil
}

// RenameList implements remote.Store.
func (s *Store) RenameList(_ context.Context, ownerID, listID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("RenameList"); err != nil {
		return err
	}

	l := s.lists[ownerID][listID]
	if l == nil {
		return errors.NotFound("list not found")
	}
	l.Name = name
	return nil
}

// AddListMembers implements remote.Store with set-union semantics.
func (s *Store) AddListMembers(_ context.Context, ownerID, listID string, seriesIDs []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("AddListMembers"); err != nil {
		return err
	}

	l := s.lists[ownerID][listID]
	if l == nil {
		return errors.NotFound("list not found")
	}
	for _, id := range seriesIDs {
		if !slices.Contains(l.SeriesIDs, id) {
			l.SeriesIDs = append(l.SeriesIDs, id)
		}
	}
	return nil
}

// RemoveListMembers implements remote.Store with set-difference semantics.
func (s *Store) RemoveListMembers(_ context.Context, ownerID, listID string, seriesIDs []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("RemoveListMembers"); err != nil {
		return err
	}

	l := s.lists[ownerID][listID]
	if l == nil {
		return errors.NotFound("list not found")
	}
	l.SeriesIDs = slices.DeleteFunc(l.SeriesIDs, func(id int) bool {
		return slices.Contains(seriesIDs, id)
	})
	return nil
}

// DeleteList implements remote.Store.
func (s *Store) DeleteList(_ context.Context, ownerID, listID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteList"); err != nil {
		return err
	}

	delete(s.lists[ownerID], listID)
	return nil
}

// Follows implements remote.Store.
func (s *Store) Follows(_ context.Context, userID string) ([]domain.FollowedList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("Follows"); err != nil {
		return nil, err
	}

	var out []domain.FollowedList
	for _, ref := range s.follows[userID] {
		out = append(out, ref)
	}
	slices.SortFunc(out, func(a, b domain.FollowedList) int {
		if a.ListID < b.ListID {
			return -1
		}
		if a.ListID > b.ListID {
			return 1
		}
		return 0
	})
	return out, nil
}

// PutFollow implements remote.Store.
func (s *Store) PutFollow(_ context.Context, userID string, ref domain.FollowedList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("PutFollow"); err != nil {
		return err
	}

	refs := s.follows[userID]
	if refs == nil {
		refs = map[string]domain.FollowedList{}
		s.follows[userID] = refs
	}
	refs[ref.ListID] = ref
	return nil
}

// DeleteFollow implements remote.Store.
func (s *Store) DeleteFollow(_ context.Context, userID, listID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteFollow"); err != nil {
		return err
	}

	delete(s.follows[userID], listID)
	return nil
}

// ShareCode implements remote.Store.
func (s *Store) ShareCode(_ context.Context, code string) (*domain.ShareCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ShareCode"); err != nil {
		return nil, err
	}

	sc, ok := s.codes[code]
	if !ok {
		return nil, nil
	}
	return &sc, nil
}

// PutShareCode implements remote.Store.
func (s *Store) PutShareCode(_ context.Context, sc domain.ShareCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("PutShareCode"); err != nil {
		return err
	}

	s.codes[sc.Code] = sc
	return nil
}

// DeleteShareCode implements remote.Store.
func (s *Store) DeleteShareCode(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteShareCode"); err != nil {
		return err
	}

	delete(s.codes, code)
	return nil
}

// DeleteUser implements remote.Store.
func (s *Store) DeleteUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteUser"); err != nil {
		return err
	}

	delete(s.statuses, userID)
	delete(s.lists, userID)
	delete(s.follows, userID)
	for code, sc := range s.codes {
		if sc.OwnerID == userID {
			delete(s.codes, code)
		}
	}
	return nil
}

func cloneList(l domain.CustomList) domain.CustomList {
	l.SeriesIDs = slices.Clone(l.SeriesIDs)
	return l
}
