package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	member bool
	err    error
	calls  int
}

func (f *fakeChecker) IsMember(ctx context.Context, userID int64) (bool, error) {
	f.calls++
	return f.member, f.err
}

func TestCheckAndGrantMissingRow(t *testing.T) {
	users := newTestUserRepo(t)
	checker := &fakeChecker{member: true}
	svc := NewBonusService(users, checker, 5, 3)
	ctx := context.Background()

	result, err := svc.CheckAndGrant(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, BonusRestartRequired, result)
	assert.Zero(t, checker.calls)

	// The fallback row exists now with defaults.
	user, err := users.FindByID(ctx, 100)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, 5, user.FreeGenerations)
	assert.False(t, user.JoinedBonus)
}

func TestCheckAndGrantSubscribed(t *testing.T) {
	users := newTestUserRepo(t)
	svc := NewBonusService(users, &fakeChecker{member: true}, 5, 3)
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, 100, nil, 5))

	result, err := svc.CheckAndGrant(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, BonusGranted, result)

	user, err := users.FindByID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 8, user.FreeGenerations)
	assert.True(t, user.JoinedBonus)
}

func TestCheckAndGrantSecondTimeReportsAlreadyGranted(t *testing.T) {
	users := newTestUserRepo(t)
	checker := &fakeChecker{member: true}
	svc := NewBonusService(users, checker, 5, 3)
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, 100, nil, 5))

	_, err := svc.CheckAndGrant(ctx, 100)
	require.NoError(t, err)

	result, err := svc.CheckAndGrant(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, BonusAlreadyGranted, result)
	// No second membership check once the flag is set.
	assert.Equal(t, 1, checker.calls)

	user, err := users.FindByID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 8, user.FreeGenerations)
}

func TestCheckAndGrantNotSubscribedIsRetryable(t *testing.T) {
	users := newTestUserRepo(t)
	checker := &fakeChecker{member: false}
	svc := NewBonusService(users, checker, 5, 3)
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, 100, nil, 5))

	result, err := svc.CheckAndGrant(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, BonusNotSubscribed, result)

	user, err := users.FindByID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 5, user.FreeGenerations)
	assert.False(t, user.JoinedBonus)

	// Subscribing later still earns the bonus.
	checker.member = true
	result, err = svc.CheckAndGrant(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, BonusGranted, result)
}

func TestCheckAndGrantCheckerError(t *testing.T) {
	users := newTestUserRepo(t)
	checker := &fakeChecker{err: errors.New("bot is not a member of the channel")}
	svc := NewBonusService(users, checker, 5, 3)
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, 100, nil, 5))

	_, err := svc.CheckAndGrant(ctx, 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot is not a member")

	user, err := users.FindByID(ctx, 100)
	require.NoError(t, err)
	assert.False(t, user.JoinedBonus)
	assert.Equal(t, 5, user.FreeGenerations)
}
