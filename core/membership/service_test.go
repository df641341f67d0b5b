package membership_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/clubhub/core"
	"github.com/campushq/clubhub/core/membership"
	inmemdb "github.com/campushq/clubhub/storage/database/inmem"
)

func setup(t *testing.T) (*membership.Service, membership.Repository) {
	t.Helper()
	db, err := inmemdb.Open()
	require.NoError(t, err)
	repo := inmemdb.NewMembershipRepository(db)
	return membership.NewService(repo), repo
}

func TestService_Join(t *testing.T) {
	ctx := context.Background()
	clubID := "club-1"
	userID := "user-1"

	t.Run("first join is pending", func(t *testing.T) {
		svc, _ := setup(t)

		m, err := svc.Join(ctx, clubID, userID, 0)
		require.NoError(t, err)
		assert.Equal(t, membership.StatusPending, m.Status)
		assert.Nil(t, m.JoinedAt)
	})

	t.Run("live membership blocks rejoin", func(t *testing.T) {
		svc, _ := setup(t)

		_, err := svc.Join(ctx, clubID, userID, 0)
		require.NoError(t, err)

		_, err = svc.Join(ctx, clubID, userID, 0)
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("terminal membership is replaced", func(t *testing.T) {
		svc, _ := setup(t)

		first, err := svc.Join(ctx, clubID, userID, 0)
		require.NoError(t, err)
		_, err = svc.UpdateStatus(ctx, clubID, userID, membership.StatusRejected)
		require.NoError(t, err)

		second, err := svc.Join(ctx, clubID, userID, 0)
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, membership.StatusPending, second.Status)
	})

	t.Run("full club rejects new joins", func(t *testing.T) {
		svc, _ := setup(t)

		_, err := svc.AutoApprove(ctx, clubID, "founder-1")
		require.NoError(t, err)
		_, err = svc.AutoApprove(ctx, clubID, "founder-2")
		require.NoError(t, err)

		_, err = svc.Join(ctx, clubID, userID, 2)
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, membership.ErrClubFull.Error(), vErr.Fields[0].Error)
	})

	t.Run("zero max means unlimited", func(t *testing.T) {
		svc, _ := setup(t)

		_, err := svc.AutoApprove(ctx, clubID, "founder-1")
		require.NoError(t, err)

		m, err := svc.Join(ctx, clubID, userID, 0)
		require.NoError(t, err)
		assert.Equal(t, membership.StatusPending, m.Status)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	clubID := "club-1"
	userID := "user-1"

	t.Run("approval stamps JoinedAt", func(t *testing.T) {
		svc, _ := setup(t)

		_, err := svc.Join(ctx, clubID, userID, 0)
		require.NoError(t, err)

		m, err := svc.UpdateStatus(ctx, clubID, userID, membership.StatusApproved)
		require.NoError(t, err)
		assert.Equal(t, membership.StatusApproved, m.Status)
		require.NotNil(t, m.JoinedAt)

		// re-approval after suspension keeps the original JoinedAt
		joined := *m.JoinedAt
		_, err = svc.UpdateStatus(ctx, clubID, userID, membership.StatusSuspended)
		require.NoError(t, err)
		m, err = svc.UpdateStatus(ctx, clubID, userID, membership.StatusApproved)
		require.NoError(t, err)
		require.NotNil(t, m.JoinedAt)
		assert.Equal(t, joined, *m.JoinedAt)
	})

	t.Run("illegal transition is rejected", func(t *testing.T) {
		svc, _ := setup(t)

		_, err := svc.Join(ctx, clubID, userID, 0)
		require.NoError(t, err)

		_, err = svc.UpdateStatus(ctx, clubID, userID, membership.StatusLeft)
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("unknown membership", func(t *testing.T) {
		svc, _ := setup(t)

		_, err := svc.UpdateStatus(ctx, clubID, "nobody", membership.StatusApproved)
		assert.Equal(t, membership.ErrNotFound, err)
	})
}

func TestService_Leave(t *testing.T) {
	ctx := context.Background()
	clubID := "club-1"
	userID := "user-1"

	t.Run("approved member leaves", func(t *testing.T) {
		svc, _ := setup(t)

		_, err := svc.Join(ctx, clubID, userID, 0)
		require.NoError(t, err)
		_, err = svc.UpdateStatus(ctx, clubID, userID, membership.StatusApproved)
		require.NoError(t, err)

		require.NoError(t, svc.Leave(ctx, clubID, userID))

		m, err := svc.Get(ctx, clubID, userID)
		require.NoError(t, err)
		assert.Equal(t, membership.StatusLeft, m.Status)
	})

	t.Run("pending member cannot leave", func(t *testing.T) {
		svc, _ := setup(t)

		_, err := svc.Join(ctx, clubID, userID, 0)
		require.NoError(t, err)

		err = svc.Leave(ctx, clubID, userID)
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
	})
}

func TestService_AutoApprove(t *testing.T) {
	ctx := context.Background()
	svc, repo := setup(t)

	m, err := svc.AutoApprove(ctx, "club-1", "founder")
	require.NoError(t, err)
	assert.Equal(t, membership.StatusApproved, m.Status)
	assert.NotNil(t, m.JoinedAt)

	ok, err := repo.IsApprovedMember(ctx, "club-1", "founder")
	require.NoError(t, err)
	assert.True(t, ok)

	count, err := svc.CountMembers(ctx, "club-1", membership.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
