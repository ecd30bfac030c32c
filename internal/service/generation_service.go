package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/kontentus/contentbot/internal/models"
	"github.com/kontentus/contentbot/internal/repository"
)

var ErrQuotaExhausted = errors.New("free generations exhausted")

// Completer forwards a prompt to the text-generation provider.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type GenerationRequest struct {
	UserID int64
	Mode   models.GenerationMode
	Text   string
}

type GenerationResult struct {
	Text      string
	Remaining int
}

// GenerationService runs a quota-gated completion: check, generate, then
// charge. Requests for the same user are serialized so a double-tap cannot
// slip two generations past one quota check.
type GenerationService struct {
	log         *slog.Logger
	quota       *QuotaService
	generations *repository.GenerationRepository
	completer   Completer

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewGenerationService(log *slog.Logger, quota *QuotaService, generations *repository.GenerationRepository, completer Completer) *GenerationService {
	return &GenerationService{
		log:         log,
		quota:       quota,
		generations: generations,
		completer:   completer,
		locks:       make(map[int64]*sync.Mutex),
	}
}

func (s *GenerationService) Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("prompt cannot be empty")
	}

	lock := s.userLock(req.UserID)
	lock.Lock()
	defer lock.Unlock()

	remaining, err := s.quota.Remaining(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if remaining <= 0 {
		return nil, ErrQuotaExhausted
	}

	prompt := buildPrompt(req.Mode, text)
	requestID := uuid.NewString()
	s.log.Info("generation requested", "request_id", requestID, "user_id", req.UserID, "mode", req.Mode)

	completion, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		// Provider failures do not consume quota.
		s.log.Error("generation failed", "request_id", requestID, "user_id", req.UserID, "err", err)
		return nil, err
	}

	consumed, err := s.quota.Consume(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if consumed {
		remaining--
	}

	if err := s.generations.Log(ctx, req.UserID, req.Mode, text); err != nil {
		s.log.Error("failed to log generation", "request_id", requestID, "err", err)
	}

	return &GenerationResult{Text: completion, Remaining: remaining}, nil
}

// buildPrompt wraps the post-idea topic in its template; other modes pass the
// user's text through untouched.
func buildPrompt(mode models.GenerationMode, text string) string {
	if mode == models.ModeIdea {
		return fmt.Sprintf("Создай короткий и цепляющий пост для соцсетей на тему: %s. Не используй хэштеги, добавь 1-2 эмодзи.", text)
	}
	return text
}

func (s *GenerationService) userLock(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}
