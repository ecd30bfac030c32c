package service

import (
	"context"
	"fmt"

	"github.com/kontentus/contentbot/internal/repository"
)

// Stats is the aggregate snapshot served by the admin endpoint.
type Stats struct {
	Users       int64 `json:"users"`
	Generations int64 `json:"generations"`
}

// UserService exposes the ledger-wide views the admin surface needs.
type UserService struct {
	users       *repository.UserRepository
	generations *repository.GenerationRepository
}

func NewUserService(users *repository.UserRepository, generations *repository.GenerationRepository) *UserService {
	return &UserService{users: users, generations: generations}
}

func (s *UserService) ListUserIDs(ctx context.Context) ([]int64, error) {
	ids, err := s.users.ListUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	return ids, nil
}

func (s *UserService) Stats(ctx context.Context) (Stats, error) {
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	generationCount, err := s.generations.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Users: userCount, Generations: generationCount}, nil
}
