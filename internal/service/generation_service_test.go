package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kontentus/contentbot/internal/models"
	"github.com/kontentus/contentbot/internal/repository"
)

type fakeCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newGenerationService(t *testing.T, completer Completer) (*GenerationService, *repository.UserRepository) {
	t.Helper()
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	generations := repository.NewGenerationRepository(db)
	quota := NewQuotaService(users, 5)
	return NewGenerationService(discardLogger(), quota, generations, completer), users
}

func TestGenerateConsumesQuota(t *testing.T) {
	completer := &fakeCompleter{reply: "Hello"}
	svc, users := newGenerationService(t, completer)
	ctx := context.Background()

	result, err := svc.Generate(ctx, GenerationRequest{UserID: 100, Mode: models.ModeText, Text: "скажи привет"})
	require.NoError(t, err)
	assert.Equal(t, "Hello", result.Text)
	assert.Equal(t, 4, result.Remaining)

	user, err := users.FindByID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 4, user.FreeGenerations)
}

func TestGenerateRejectsWhenExhausted(t *testing.T) {
	completer := &fakeCompleter{reply: "Hello"}
	svc, users := newGenerationService(t, completer)
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, 100, nil, 0))

	_, err := svc.Generate(ctx, GenerationRequest{UserID: 100, Mode: models.ModeFreeform, Text: "prompt"})
	require.ErrorIs(t, err, ErrQuotaExhausted)
	// Rejection happens before any provider call.
	assert.Empty(t, completer.prompts)

	user, err := users.FindByID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 0, user.FreeGenerations)
}

func TestGenerateProviderFailureKeepsQuota(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("quota exceeded for model")}
	svc, users := newGenerationService(t, completer)
	ctx := context.Background()

	_, err := svc.Generate(ctx, GenerationRequest{UserID: 100, Mode: models.ModeText, Text: "prompt"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrQuotaExhausted)

	user, err := users.FindByID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 5, user.FreeGenerations)
}

func TestGenerateIdeaWrapsTopic(t *testing.T) {
	completer := &fakeCompleter{reply: "Пост готов"}
	svc, _ := newGenerationService(t, completer)

	_, err := svc.Generate(context.Background(), GenerationRequest{UserID: 100, Mode: models.ModeIdea, Text: "утренний кофе"})
	require.NoError(t, err)
	require.Len(t, completer.prompts, 1)
	assert.Contains(t, completer.prompts[0], "утренний кофе")
	assert.Contains(t, completer.prompts[0], "пост для соцсетей")
}

func TestGenerateEmptyPrompt(t *testing.T) {
	svc, _ := newGenerationService(t, &fakeCompleter{reply: "x"})

	_, err := svc.Generate(context.Background(), GenerationRequest{UserID: 100, Mode: models.ModeText, Text: "   "})
	require.Error(t, err)
}

func TestQuotaServiceRemaining(t *testing.T) {
	users := newTestUserRepo(t)
	quota := NewQuotaService(users, 5)
	ctx := context.Background()

	remaining, err := quota.Remaining(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 5, remaining)

	consumed, err := quota.Consume(ctx, 100)
	require.NoError(t, err)
	assert.True(t, consumed)

	remaining, err = quota.Remaining(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 4, remaining)
}
