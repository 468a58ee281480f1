package services

import (
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"smsportal/internal/models"
)

// TelegramSender is satisfied by *tgbotapi.BotAPI.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts signup notices into the admin chat.
type TelegramNotifier struct {
	bot     TelegramSender
	chatID  int64
	baseURL string
}

// NewTelegramNotifier connects to the Bot API. It returns nil, nil when the
// integration is not configured so callers can pass the result straight through.
func NewTelegramNotifier(token string, chatID int64, baseURL string) (*TelegramNotifier, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	log.Info().Str("bot", bot.Self.UserName).Int64("chat_id", chatID).Msg("[tg] admin notifications enabled")
	return NewTelegramNotifierWithSender(bot, chatID, baseURL), nil
}

func NewTelegramNotifierWithSender(bot TelegramSender, chatID int64, baseURL string) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatID: chatID, baseURL: baseURL}
}

func (t *TelegramNotifier) NotifyNewSignup(acc *models.Account) error {
	if t == nil || t.bot == nil {
		return nil
	}
	text := fmt.Sprintf(
		"New account awaiting approval: <b>%s</b> (id %d)\n%s/admin/users",
		html.EscapeString(acc.Email), acc.ID, t.baseURL,
	)
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
