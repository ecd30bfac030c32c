package telegram

import (
	"fmt"
	"net/url"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	cbGenText       = "gen_text"
	cbIdeaPost      = "idea_post"
	cbInviteFriend  = "invite_friend"
	cbMenu          = "menu"
	cbJoinedChannel = "joined_channel"
)

func mainKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📝 Генерация текста", cbGenText)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("💡 Идея для поста", cbIdeaPost)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("👥 Пригласить друга", cbInviteFriend)),
	)
}

func backToMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🏠 Главное меню", cbMenu)),
	)
}

func joinChannelKeyboard(channelURL string) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	if channelURL != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL("📢 Вступить в сообщество", channelURL)))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("✅ Проверить подписку", cbJoinedChannel)))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func shareKeyboard(inviteLink string) tgbotapi.InlineKeyboardMarkup {
	shareText := fmt.Sprintf("🔥 Присоединяйся к боту Контентус!\nОн помогает придумывать идеи и тексты для постов 💡\n➡️ Моя ссылка-приглашение: %s", inviteLink)
	shareURL := fmt.Sprintf("https://t.me/share/url?url=%s&text=%s", url.QueryEscape(inviteLink), url.QueryEscape(shareText))
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL("📤 Поделиться ссылкой", shareURL)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🏠 Главное меню", cbMenu)),
	)
}
