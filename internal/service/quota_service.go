package service

import (
	"context"
	"fmt"

	"github.com/kontentus/contentbot/internal/repository"
)

// QuotaService answers how many free generations a user has left and charges
// for completed ones. Unknown identities get a default row on first read.
type QuotaService struct {
	users           *repository.UserRepository
	freeGenerations int
}

func NewQuotaService(users *repository.UserRepository, freeGenerations int) *QuotaService {
	return &QuotaService{users: users, freeGenerations: freeGenerations}
}

func (s *QuotaService) Remaining(ctx context.Context, userID int64) (int, error) {
	user, _, err := s.users.GetOrCreate(ctx, userID, s.freeGenerations)
	if err != nil {
		return 0, fmt.Errorf("remaining quota: %w", err)
	}
	return user.FreeGenerations, nil
}

// Consume charges one generation. Reports false when the quota was already
// exhausted; the counter never goes below zero.
func (s *QuotaService) Consume(ctx context.Context, userID int64) (bool, error) {
	consumed, err := s.users.ConsumeGeneration(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("consume quota: %w", err)
	}
	return consumed, nil
}
