package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kontentus/contentbot/internal/config"
	"github.com/kontentus/contentbot/internal/database"
	"github.com/kontentus/contentbot/internal/gemini"
	"github.com/kontentus/contentbot/internal/health"
	"github.com/kontentus/contentbot/internal/repository"
	"github.com/kontentus/contentbot/internal/service"
	"github.com/kontentus/contentbot/internal/telegram"
	"github.com/kontentus/contentbot/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logr := logger.New()

	db, err := database.Open(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("database open: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("database migrate: %v", err)
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("telegram bot: %v", err)
	}

	geminiClient := gemini.NewClient(cfg, logr)

	userRepo := repository.NewUserRepository(db)
	generationRepo := repository.NewGenerationRepository(db)

	checker := telegram.NewChannelChecker(botAPI, cfg)
	notifier := telegram.NewNotifier(botAPI, cfg.ReferralBonus)

	quotaService := service.NewQuotaService(userRepo, cfg.FreeGenerations)
	referralService := service.NewReferralService(logr, userRepo, notifier, cfg.FreeGenerations, cfg.ReferralBonus)
	bonusService := service.NewBonusService(userRepo, checker, cfg.FreeGenerations, cfg.JoinBonus)
	generationService := service.NewGenerationService(logr, quotaService, generationRepo, geminiClient)
	userService := service.NewUserService(userRepo, generationRepo)

	bot := telegram.NewBot(cfg, botAPI, logr, quotaService, referralService, bonusService, generationService)

	healthServer := health.NewServer(cfg.HealthListenAddr, cfg.AdminUsername, cfg.AdminPassword, logr, userService, botAPI)
	go func() {
		if err := healthServer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logr.Error("health server stopped", "err", err)
		}
	}()

	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logr.Error("bot stopped", "err", err)
	}
}
