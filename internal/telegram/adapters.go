package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kontentus/contentbot/internal/config"
)

// ChannelChecker verifies channel membership through getChatMember. It accepts
// either a public @username or a numeric chat id in CHANNEL_ID.
type ChannelChecker struct {
	api             *tgbotapi.BotAPI
	channelID       int64
	channelUsername string
}

func NewChannelChecker(api *tgbotapi.BotAPI, cfg config.Config) *ChannelChecker {
	raw := strings.TrimSpace(cfg.ChannelID)
	checker := &ChannelChecker{api: api}
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id != 0 {
		checker.channelID = id
	} else {
		checker.channelUsername = "@" + strings.TrimPrefix(raw, "@")
	}
	return checker
}

func (c *ChannelChecker) IsMember(ctx context.Context, userID int64) (bool, error) {
	cfg := tgbotapi.ChatConfigWithUser{UserID: userID}
	switch {
	case c.channelID != 0:
		cfg.ChatID = c.channelID
	case c.channelUsername != "":
		cfg.SuperGroupUsername = c.channelUsername
	default:
		return false, fmt.Errorf("subscription channel not configured")
	}

	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{ChatConfigWithUser: cfg})
	if err != nil {
		return false, err
	}

	switch strings.ToLower(member.Status) {
	case "creator", "administrator", "member":
		return true, nil
	default:
		return false, nil
	}
}

// Notifier delivers the referral congratulation to a referrer's private chat.
type Notifier struct {
	api           *tgbotapi.BotAPI
	referralBonus int
}

func NewNotifier(api *tgbotapi.BotAPI, referralBonus int) *Notifier {
	return &Notifier{api: api, referralBonus: referralBonus}
}

func (n *Notifier) NotifyReferralJoined(ctx context.Context, referrerID int64) error {
	text := fmt.Sprintf("🎉 По твоей ссылке зарегистрировался новый пользователь! Ты получил +%d бесплатных генераций 💫", n.referralBonus)
	msg := tgbotapi.NewMessage(referrerID, text)
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("notify referrer: %w", err)
	}
	return nil
}
