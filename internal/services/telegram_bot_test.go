package services

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smsportal/internal/models"
)

func TestTelegramNotifier_NotifyNewSignup(t *testing.T) {
	bot := &fakeTelegram{}
	n := NewTelegramNotifierWithSender(bot, 42, "http://portal.test")

	require.NoError(t, n.NotifyNewSignup(&models.Account{ID: 7, Email: "a<b>@x.com"}))
	require.Len(t, bot.sent, 1)

	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.Contains(t, msg.Text, "a&lt;b&gt;@x.com")
	assert.Contains(t, msg.Text, "http://portal.test/admin/users")
}

func TestTelegramNotifier_Unconfigured(t *testing.T) {
	n, err := NewTelegramNotifier("", 0, "")
	require.NoError(t, err)
	assert.Nil(t, n)
	assert.NoError(t, n.NotifyNewSignup(&models.Account{}), "nil notifier is a no-op")
}
