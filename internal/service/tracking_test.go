package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/episodeo/episodeo-server/internal/domain"
	"github.com/episodeo/episodeo-server/internal/errors"
)

func TestSetStatusRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.tracking.SetStatus(ctx, "u1", 42, domain.StatusWatching))

	statuses, err := f.library.LoadStatuses(ctx, "u1")
	require.NoError(t, err)
	require.Contains(t, statuses, 42)
	assert.Equal(t, domain.StatusWatching, statuses[42].Status)
}

func TestSetStatusPreservesRating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.tracking.SetStatus(ctx, "u1", 42, domain.StatusWatching))
	require.NoError(t, f.tracking.SetRating(ctx, "u1", 42, 9))
	require.NoError(t, f.tracking.SetStatus(ctx, "u1", 42, domain.StatusCompleted))

	snap := f.state.Get("u1")
	st := snap.Statuses[42]
	assert.Equal(t, domain.StatusCompleted, st.Status)
	require.NotNil(t, st.Rating)
	assert.Equal(t, 9, *st.Rating)
}

func TestSetStatusNoneClearsRecordEvenOfflineLater(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.tracking.SetStatus(ctx, "u1", 42, domain.StatusWatching))
	require.NoError(t, f.tracking.SetStatus(ctx, "u1", 42, domain.StatusNone))

	// A later offline read must not resurrect the cleared series.
	f.remote.SetOffline(true)
	statuses, err := f.library.LoadStatuses(ctx, "u1")
	require.NoError(t, err)
	assert.NotContains(t, statuses, 42)
}

func TestSetRatingValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.tracking.SetRating(ctx, "u1", 1, 0)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	err = f.tracking.SetRating(ctx, "u1", 1, 11)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestClearRatingPreservesStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.tracking.SetStatus(ctx, "u1", 7, domain.StatusCompleted))
	require.NoError(t, f.tracking.SetRating(ctx, "u1", 7, 6))
	require.NoError(t, f.tracking.ClearRating(ctx, "u1", 7))

	st := f.state.Get("u1").Statuses[7]
	assert.Equal(t, domain.StatusCompleted, st.Status)
	assert.Nil(t, st.Rating)
}

func TestMutationsRequireIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.True(t, errors.Is(f.tracking.SetStatus(ctx, "", 1, domain.StatusWatching), errors.ErrUnauthorized))
	assert.True(t, errors.Is(f.tracking.SetRating(ctx, "", 1, 5), errors.ErrUnauthorized))
	_, err := f.tracking.CreateList(ctx, "", "L")
	assert.True(t, errors.Is(err, errors.ErrUnauthorized))
	assert.True(t, errors.Is(f.tracking.DeleteAccount(ctx, ""), errors.ErrUnauthorized))
}

func TestAddToListIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list, err := f.tracking.CreateList(ctx, "u1", "Sci-Fi")
	require.NoError(t, err)

	require.NoError(t, f.tracking.AddToList(ctx, "u1", list.ID, 42))
	require.NoError(t, f.tracking.AddToList(ctx, "u1", list.ID, 42))

	remoteList, err := f.remote.List(ctx, "u1", list.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{42}, remoteList.SeriesIDs)

	local := f.state.Get("u1").Lists[list.ID]
	assert.Equal(t, []int{42}, local.SeriesIDs)
}

func TestRemoveAbsentMemberIsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list, err := f.tracking.CreateList(ctx, "u1", "Sci-Fi")
	require.NoError(t, err)
	require.NoError(t, f.tracking.AddToList(ctx, "u1", list.ID, 1))

	require.NoError(t, f.tracking.RemoveFromList(ctx, "u1", list.ID, 99))
	assert.Equal(t, []int{1}, f.state.Get("u1").Lists[list.ID].SeriesIDs)
}

func TestRemoveFromListOfflineRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list, err := f.tracking.CreateList(ctx, "u1", "Sci-Fi")
	require.NoError(t, err)
	for _, id := range []int{1, 2, 3} {
		require.NoError(t, f.tracking.AddToList(ctx, "u1", list.ID, id))
	}

	f.remote.SetOffline(true)
	err = f.tracking.RemoveFromList(ctx, "u1", list.ID, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrOffline))

	// Local view rolled back to the pre-mutation membership.
	assert.Equal(t, []int{1, 2, 3}, f.state.Get("u1").Lists[list.ID].SeriesIDs)

	cached, err := f.cache.Lists(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, []int{1, 2, 3}, cached[0].SeriesIDs)
}

func TestEveryMutationKindRollsBackOnRemoteFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.tracking.SetStatus(ctx, "u1", 42, domain.StatusWatching))
	require.NoError(t, f.tracking.SetRating(ctx, "u1", 42, 9))
	list, err := f.tracking.CreateList(ctx, "u1", "Keep")
	require.NoError(t, err)
	require.NoError(t, f.tracking.AddToList(ctx, "u1", list.ID, 1))
	require.NoError(t, f.remote.PutFollow(ctx, "u1", domain.FollowedList{ListID: "fl", OwnerID: "o", ListName: "F"}))
	require.NoError(t, f.library.Refresh(ctx, "u1"))

	before := f.state.Get("u1")
	f.remote.SetOffline(true)

	mutations := map[string]func() error{
		"set status":   func() error { return f.tracking.SetStatus(ctx, "u1", 42, domain.StatusDropped) },
		"clear status": func() error { return f.tracking.ClearStatus(ctx, "u1", 42) },
		"set rating":   func() error { return f.tracking.SetRating(ctx, "u1", 42, 2) },
		"clear rating": func() error { return f.tracking.ClearRating(ctx, "u1", 42) },
		"rename list":  func() error { return f.tracking.RenameList(ctx, "u1", list.ID, "Renamed") },
		"add member":   func() error { return f.tracking.AddToList(ctx, "u1", list.ID, 2) },
		"drop member":  func() error { return f.tracking.RemoveFromList(ctx, "u1", list.ID, 1) },
		"delete list":  func() error { return f.tracking.DeleteList(ctx, "u1", list.ID) },
		"unfollow":     func() error { return f.tracking.Unfollow(ctx, "u1", "fl") },
		"create list": func() error {
			_, err := f.tracking.CreateList(ctx, "u1", "Doomed")
			return err
		},
	}

	for name, mutate := range mutations {
		err := mutate()
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, errors.ErrOffline), name)

		after := f.state.Get("u1")
		assert.Equal(t, before.Statuses, after.Statuses, name)
		assert.Equal(t, before.Lists, after.Lists, name)
		assert.Equal(t, before.Follows, after.Follows, name)
	}
}

func TestDeleteListRemovesItEverywhere(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list, err := f.tracking.CreateList(ctx, "u1", "Temp")
	require.NoError(t, err)
	require.NoError(t, f.tracking.DeleteList(ctx, "u1", list.ID))

	remoteList, err := f.remote.List(ctx, "u1", list.ID)
	require.NoError(t, err)
	assert.Nil(t, remoteList)
	assert.NotContains(t, f.state.Get("u1").Lists, list.ID)
}

func TestDeleteAccountOfflineLeavesEverythingIntact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.tracking.SetStatus(ctx, "u1", 1, domain.StatusWatching))

	f.remote.SetOffline(true)
	err := f.tracking.DeleteAccount(ctx, "u1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrOffline))

	assert.Contains(t, f.state.Get("u1").Statuses, 1)
	cached, err := f.cache.Statuses(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, cached, 1)
}

func TestDeleteAccountClearsRemoteAndLocal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.tracking.SetStatus(ctx, "u1", 1, domain.StatusWatching))
	_, err := f.tracking.CreateList(ctx, "u1", "L")
	require.NoError(t, err)

	require.NoError(t, f.tracking.DeleteAccount(ctx, "u1"))

	remoteStatuses, err := f.remote.Statuses(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, remoteStatuses)

	cached, err := f.cache.Statuses(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cached)
	assert.Empty(t, f.state.Get("u1").Statuses)
}
