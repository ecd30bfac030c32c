package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kontentus/contentbot/internal/models"
)

func TestGenerationLogCounts(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	generations := NewGenerationRepository(db)
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, 100, nil, 5))
	require.NoError(t, generations.Log(ctx, 100, models.ModeText, "напиши пост"))
	require.NoError(t, generations.Log(ctx, 100, models.ModeIdea, "кофе"))

	total, err := generations.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	forUser, err := generations.CountForUser(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(2), forUser)

	forOther, err := generations.CountForUser(ctx, 200)
	require.NoError(t, err)
	assert.Zero(t, forOther)
}
