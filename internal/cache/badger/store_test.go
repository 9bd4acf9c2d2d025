package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/episodeo/episodeo-server/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func intPtr(v int) *int { return &v }

func TestStatusRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutStatus(ctx, "u1", domain.SeriesStatus{SeriesID: 42, Status: domain.StatusWatching}))
	require.NoError(t, s.PutStatus(ctx, "u1", domain.SeriesStatus{SeriesID: 7, Status: domain.StatusCompleted, Rating: intPtr(9)}))

	got, err := s.Statuses(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	byID := map[int]domain.SeriesStatus{}
	for _, st := range got {
		byID[st.SeriesID] = st
	}
	assert.Equal(t, domain.StatusWatching, byID[42].Status)
	assert.Nil(t, byID[42].Rating)
	require.NotNil(t, byID[7].Rating)
	assert.Equal(t, 9, *byID[7].Rating)
}

func TestStatusesArePartitionedByUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutStatus(ctx, "alice", domain.SeriesStatus{SeriesID: 1, Status: domain.StatusPending}))
	require.NoError(t, s.PutStatus(ctx, "bob", domain.SeriesStatus{SeriesID: 2, Status: domain.StatusDropped}))

	alice, err := s.Statuses(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, alice, 1)
	assert.Equal(t, 1, alice[0].SeriesID)

	bob, err := s.Statuses(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bob, 1)
	assert.Equal(t, 2, bob[0].SeriesID)
}

func TestDeleteStatusIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutStatus(ctx, "u1", domain.SeriesStatus{SeriesID: 5, Status: domain.StatusWatching}))
	require.NoError(t, s.DeleteStatus(ctx, "u1", 5))
	require.NoError(t, s.DeleteStatus(ctx, "u1", 5))

	got, err := s.Statuses(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReplaceStatusesSwapsWholePartition(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutStatus(ctx, "u1", domain.SeriesStatus{SeriesID: 1, Status: domain.StatusWatching}))
	require.NoError(t, s.PutStatus(ctx, "u1", domain.SeriesStatus{SeriesID: 2, Status: domain.StatusPending}))
	require.NoError(t, s.PutStatus(ctx, "other", domain.SeriesStatus{SeriesID: 3, Status: domain.StatusDropped}))

	fresh := []domain.SeriesStatus{
		{SeriesID: 2, Status: domain.StatusCompleted, Rating: intPtr(8)},
		{SeriesID: 9, Status: domain.StatusWatching},
	}
	require.NoError(t, s.ReplaceStatuses(ctx, "u1", fresh))

	got, err := s.Statuses(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	ids := []int{got[0].SeriesID, got[1].SeriesID}
	assert.ElementsMatch(t, []int{2, 9}, ids)

	// Other users are untouched by the swap.
	other, err := s.Statuses(ctx, "other")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestReplaceStatusesWithEmptySliceClears(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutStatus(ctx, "u1", domain.SeriesStatus{SeriesID: 1, Status: domain.StatusWatching}))
	require.NoError(t, s.ReplaceStatuses(ctx, "u1", nil))

	got, err := s.Statuses(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	list := domain.CustomList{
		ID:        "lst_1",
		Name:      "Sci-Fi Favorites",
		OwnerID:   "u1",
		SeriesIDs: []int{10, 20, 30},
	}
	require.NoError(t, s.PutList(ctx, "u1", list))

	got, err := s.Lists(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, list, got[0])

	require.NoError(t, s.DeleteList(ctx, "u1", "lst_1"))
	got, err = s.Lists(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReplaceLists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutList(ctx, "u1", domain.CustomList{ID: "old", Name: "Old", OwnerID: "u1"}))

	fresh := []domain.CustomList{
		{ID: "a", Name: "Alpha", OwnerID: "u1", SeriesIDs: []int{1}},
		{ID: "b", Name: "Beta", OwnerID: "u1"},
	}
	require.NoError(t, s.ReplaceLists(ctx, "u1", fresh))

	got, err := s.Lists(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	names := []string{got[0].Name, got[1].Name}
	assert.ElementsMatch(t, []string{"Alpha", "Beta"}, names)
}

func TestFollowRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ref := domain.FollowedList{ListID: "lst_9", OwnerID: "owner", ListName: "Weekend Binge"}
	require.NoError(t, s.PutFollow(ctx, "u1", ref))

	got, err := s.Follows(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ref, got[0])

	require.NoError(t, s.DeleteFollow(ctx, "u1", "lst_9"))
	got, err = s.Follows(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMetadataAbsentReturnsNil(t *testing.T) {
	s := newTestStore(t)

	meta, err := s.Metadata(context.Background(), 12345)
	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestMetadataRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	meta := &domain.SeriesMetadata{
		SeriesID:   99,
		Title:      "The Expanse",
		PosterPath: "/poster.jpg",
		Synopsis:   "In the 24th century...",
		Cast: []domain.CastMember{
			{Name: "Steven Strait", Character: "James Holden"},
		},
		WatchProviders: map[string][]string{"US": {"Prime Video"}},
	}
	require.NoError(t, s.PutMetadata(ctx, meta))

	got, err := s.Metadata(ctx, 99)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, meta, got)
}

func TestClearUserLeavesMetadata(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutStatus(ctx, "u1", domain.SeriesStatus{SeriesID: 1, Status: domain.StatusWatching}))
	require.NoError(t, s.PutList(ctx, "u1", domain.CustomList{ID: "l1", Name: "L", OwnerID: "u1"}))
	require.NoError(t, s.PutFollow(ctx, "u1", domain.FollowedList{ListID: "f1", OwnerID: "o", ListName: "F"}))
	require.NoError(t, s.PutMetadata(ctx, &domain.SeriesMetadata{SeriesID: 1, Title: "Kept"}))
	require.NoError(t, s.PutStatus(ctx, "u2", domain.SeriesStatus{SeriesID: 2, Status: domain.StatusPending}))

	require.NoError(t, s.ClearUser(ctx, "u1"))

	statuses, err := s.Statuses(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, statuses)

	lists, err := s.Lists(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, lists)

	follows, err := s.Follows(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, follows)

	meta, err := s.Metadata(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, meta)

	others, err := s.Statuses(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, others, 1)
}
