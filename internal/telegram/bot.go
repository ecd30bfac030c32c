package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kontentus/contentbot/internal/config"
	"github.com/kontentus/contentbot/internal/models"
	"github.com/kontentus/contentbot/internal/service"
)

type Bot struct {
	cfg        config.Config
	api        *tgbotapi.BotAPI
	log        *slog.Logger
	quota      *service.QuotaService
	referral   *service.ReferralService
	bonus      *service.BonusService
	generation *service.GenerationService
	state      *StateManager
}

func NewBot(cfg config.Config, api *tgbotapi.BotAPI, log *slog.Logger, quota *service.QuotaService, referral *service.ReferralService, bonus *service.BonusService, generation *service.GenerationService) *Bot {
	return &Bot{
		cfg:        cfg,
		api:        api,
		log:        log,
		quota:      quota,
		referral:   referral,
		bonus:      bonus,
		generation: generation,
		state:      NewStateManager(),
	}
}

func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.log.Info("telegram bot started", "username", b.api.Self.UserName)

	for {
		select {
		case update := <-updates:
			if update.Message != nil {
				b.handleMessage(ctx, update.Message)
			} else if update.CallbackQuery != nil {
				b.handleCallback(ctx, update.CallbackQuery)
			}
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Text == "" {
		return
	}
	if msg.IsCommand() && msg.Command() == "start" {
		b.handleStart(ctx, msg)
		return
	}

	userID := msg.From.ID
	switch b.state.Get(userID) {
	case ModeAwaitingPrompt:
		b.state.Reset(userID)
		b.handleGeneration(ctx, msg.Chat.ID, userID, models.ModeText, msg.Text)
	case ModeAwaitingTopic:
		b.state.Reset(userID)
		b.handleGeneration(ctx, msg.Chat.ID, userID, models.ModeIdea, msg.Text)
	default:
		// Free text outside any dialog is a generic generation request.
		b.handleGeneration(ctx, msg.Chat.ID, userID, models.ModeFreeform, msg.Text)
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	result, err := b.referral.Onboard(ctx, userID, msg.CommandArguments())
	if err != nil {
		b.log.Error("onboard failed", "user_id", userID, "err", err)
		b.sendText(msg.Chat.ID, "⚠️ Что-то пошло не так, попробуйте ещё раз.")
		return
	}

	if result.Created {
		text := fmt.Sprintf(
			"👋 Привет! Добро пожаловать в <b>Контентус</b> — твой ИИ-помощник по контенту.\n\n"+
				"📢 Подпишись на наше сообщество, чтобы получать новости и бонусы.\n\n"+
				"🎁 За подписку — <b>+%d бесплатные генерации</b> (нажми «✅ Проверить подписку» после подписки).",
			b.cfg.JoinBonus,
		)
		b.sendHTML(msg.Chat.ID, text, joinChannelKeyboard(b.cfg.ChannelURL))
		return
	}

	text := fmt.Sprintf(
		"👋 С возвращением, <b>%s</b>!\n\n"+
			"✨ У тебя осталось <b>%d</b> бесплатных генераций.\n\n"+
			"💌 Поделись своей ссылкой и получи +%d генерации за каждого друга: %s",
		msg.From.FirstName, result.Remaining, b.cfg.ReferralBonus, b.inviteLink(userID),
	)
	b.sendHTML(msg.Chat.ID, text, mainKeyboard())
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.From == nil || cb.Message == nil {
		return
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Error("callback ack", "err", err)
	}

	userID := cb.From.ID
	chatID := cb.Message.Chat.ID

	switch cb.Data {
	case cbGenText:
		b.state.Set(userID, ModeAwaitingPrompt)
		b.send(chatID, "✍️ Введите запрос для генерации текста:", backToMenuKeyboard())
	case cbIdeaPost:
		b.state.Set(userID, ModeAwaitingTopic)
		b.send(chatID, "💡 Введите тему для поста — я создам короткий пост на эту тему:", backToMenuKeyboard())
	case cbInviteFriend:
		link := b.inviteLink(userID)
		b.send(chatID, fmt.Sprintf("💌 Поделись этой ссылкой и получай бонусы:\n\n%s", link), shareKeyboard(link))
	case cbMenu:
		b.state.Reset(userID)
		b.showMenu(ctx, chatID, userID)
	case cbJoinedChannel:
		b.handleJoinedChannel(ctx, chatID, userID)
	default:
		b.log.Warn("unknown callback", "data", cb.Data)
	}
}

func (b *Bot) showMenu(ctx context.Context, chatID, userID int64) {
	remaining, err := b.quota.Remaining(ctx, userID)
	if err != nil {
		b.log.Error("remaining quota", "user_id", userID, "err", err)
		b.sendText(chatID, "⚠️ Что-то пошло не так, попробуйте ещё раз.")
		return
	}
	var text string
	if remaining > 0 {
		text = fmt.Sprintf("🏠 <b>Главное меню</b>\n\n✨ У тебя осталось: <b>%d</b> бесплатных генераций 💫", remaining)
	} else {
		text = "🏠 <b>Главное меню</b>\n\n❌ Бесплатных генераций нет. Пригласи друга или подпишись на сообщество 🎁"
	}
	b.sendHTML(chatID, text, mainKeyboard())
}

func (b *Bot) handleJoinedChannel(ctx context.Context, chatID, userID int64) {
	result, err := b.bonus.CheckAndGrant(ctx, userID)
	if err != nil {
		b.log.Error("subscription check failed", "user_id", userID, "err", err)
		b.send(chatID, fmt.Sprintf("⚠️ Не удалось проверить подписку: %s\n\nЕсли канал приватный, убедитесь, что бот в нём является администратором.", err), joinChannelKeyboard(b.cfg.ChannelURL))
		return
	}

	switch result {
	case service.BonusRestartRequired:
		b.sendText(chatID, "⚠️ Пожалуйста, заново нажми /start и попробуй ещё раз.")
	case service.BonusAlreadyGranted:
		b.send(chatID, "✅ Ты уже получал бонус за подписку.", mainKeyboard())
	case service.BonusNotSubscribed:
		b.send(chatID, "❌ Вы ещё не подписаны на канал. Подпишитесь и нажмите «✅ Проверить подписку» снова.", joinChannelKeyboard(b.cfg.ChannelURL))
	case service.BonusGranted:
		b.send(chatID, fmt.Sprintf("🎉 Спасибо! Подписка подтверждена — тебе начислено +%d бесплатных генерации.", b.cfg.JoinBonus), mainKeyboard())
	}
}

func (b *Bot) handleGeneration(ctx context.Context, chatID, userID int64, mode models.GenerationMode, text string) {
	b.sendText(chatID, "⏳ Генерирую...")

	result, err := b.generation.Generate(ctx, service.GenerationRequest{
		UserID: userID,
		Mode:   mode,
		Text:   text,
	})
	if err != nil {
		if errors.Is(err, service.ErrQuotaExhausted) {
			b.send(chatID, "🚫 У тебя закончились бесплатные генерации.", backToMenuKeyboard())
			return
		}
		b.send(chatID, fmt.Sprintf("⚠️ Ошибка при генерации: %s", err), backToMenuKeyboard())
		return
	}

	reply := result.Text
	if mode == models.ModeIdea {
		reply = "💡 Вот короткий пост:\n\n" + reply
	}
	reply = fmt.Sprintf("%s\n\nОсталось бесплатных генераций: %d", reply, result.Remaining)
	b.send(chatID, reply, backToMenuKeyboard())
}

func (b *Bot) inviteLink(userID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%d", b.api.Self.UserName, userID)
}

func (b *Bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send text", "err", err)
	}
}

func (b *Bot) send(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "err", err)
	}
}

func (b *Bot) sendHTML(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "err", err)
	}
}
