package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/kontentus/contentbot/internal/repository"
)

// ReferrerNotifier tells a referrer that someone joined through their link.
// Delivery is best effort; the caller treats failures as non-fatal.
type ReferrerNotifier interface {
	NotifyReferralJoined(ctx context.Context, referrerID int64) error
}

// OnboardResult describes what happened on a /start.
type OnboardResult struct {
	Created          bool
	Remaining        int
	ReferrerID       *int64
	ReferrerCredited bool
}

// ReferralService runs the first-contact flow: row creation, referrer
// attribution and the referrer's bonus credit.
type ReferralService struct {
	log             *slog.Logger
	users           *repository.UserRepository
	notifier        ReferrerNotifier
	freeGenerations int
	referralBonus   int
}

func NewReferralService(log *slog.Logger, users *repository.UserRepository, notifier ReferrerNotifier, freeGenerations, referralBonus int) *ReferralService {
	return &ReferralService{
		log:             log,
		users:           users,
		notifier:        notifier,
		freeGenerations: freeGenerations,
		referralBonus:   referralBonus,
	}
}

// Onboard handles a /start with an optional referral payload. For an already
// known user it only reports the current quota; referral state is immutable
// after first contact, so repeated starts never re-apply the credit.
func (s *ReferralService) Onboard(ctx context.Context, userID int64, payload string) (*OnboardResult, error) {
	existing, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		return &OnboardResult{Remaining: existing.FreeGenerations, ReferrerID: existing.ReferrerID}, nil
	}

	referrerID := parseReferrer(payload, userID)
	if err := s.users.Create(ctx, userID, referrerID, s.freeGenerations); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	result := &OnboardResult{Created: true, Remaining: s.freeGenerations, ReferrerID: referrerID}
	if referrerID == nil {
		return result, nil
	}

	credited, err := s.users.CreditReferrer(ctx, *referrerID, s.referralBonus)
	if err != nil {
		return nil, fmt.Errorf("credit referrer: %w", err)
	}
	if !credited {
		// The link pointed at an identity we have never seen; the new row keeps
		// the referrer_id but nobody gets paid for it.
		return result, nil
	}
	result.ReferrerCredited = true

	if err := s.notifier.NotifyReferralJoined(ctx, *referrerID); err != nil {
		s.log.Warn("referral notification failed", "referrer_id", *referrerID, "err", err)
	}
	return result, nil
}

// parseReferrer validates the /start payload. Malformed ids and self-referrals
// degrade to "no referrer".
func parseReferrer(payload string, userID int64) *int64 {
	if payload == "" {
		return nil
	}
	id, err := strconv.ParseInt(payload, 10, 64)
	if err != nil || id == userID || id <= 0 {
		return nil
	}
	return &id
}
