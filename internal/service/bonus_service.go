package service

import (
	"context"
	"fmt"

	"github.com/kontentus/contentbot/internal/repository"
)

// MembershipChecker verifies that a user belongs to the configured channel.
type MembershipChecker interface {
	IsMember(ctx context.Context, userID int64) (bool, error)
}

// BonusResult is the outcome of a subscription bonus check.
type BonusResult int

const (
	// BonusRestartRequired means the user had no ledger row; one was created
	// and they should go through /start again.
	BonusRestartRequired BonusResult = iota
	BonusAlreadyGranted
	BonusNotSubscribed
	BonusGranted
)

// BonusService grants the one-time subscription bonus after a verified
// channel-membership check.
type BonusService struct {
	users           *repository.UserRepository
	checker         MembershipChecker
	freeGenerations int
	joinBonus       int
}

func NewBonusService(users *repository.UserRepository, checker MembershipChecker, freeGenerations, joinBonus int) *BonusService {
	return &BonusService{
		users:           users,
		checker:         checker,
		freeGenerations: freeGenerations,
		joinBonus:       joinBonus,
	}
}

// CheckAndGrant runs the bonus state machine. A returned error means the
// membership check itself failed (private channel, bot not admin); the bonus
// state is unchanged and the user may retry.
func (s *BonusService) CheckAndGrant(ctx context.Context, userID int64) (BonusResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return BonusRestartRequired, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		// Reached the bonus check without completing first contact.
		if err := s.users.Create(ctx, userID, nil, s.freeGenerations); err != nil {
			return BonusRestartRequired, fmt.Errorf("create user: %w", err)
		}
		return BonusRestartRequired, nil
	}
	if user.JoinedBonus {
		return BonusAlreadyGranted, nil
	}

	subscribed, err := s.checker.IsMember(ctx, userID)
	if err != nil {
		return BonusNotSubscribed, fmt.Errorf("check membership: %w", err)
	}
	if !subscribed {
		return BonusNotSubscribed, nil
	}

	granted, err := s.users.GrantJoinBonus(ctx, userID, s.joinBonus)
	if err != nil {
		return BonusNotSubscribed, fmt.Errorf("grant bonus: %w", err)
	}
	if !granted {
		// Lost a double-tap race; the other request already granted it.
		return BonusAlreadyGranted, nil
	}
	return BonusGranted, nil
}
