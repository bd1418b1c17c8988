package messaging

import (
	"context"
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramChannel posts notifications to a fixed operations chat. It is the
// astrologer-facing channel rather than a customer one, so the message body
// is sent as-is with the subject as a bold header.
type TelegramChannel struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramChannel(token string, chatID int64) (*TelegramChannel, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram bot: %w", err)
	}
	return &TelegramChannel{bot: bot, chatID: chatID}, nil
}

func (c *TelegramChannel) Name() string { return "telegram" }

func (c *TelegramChannel) Send(_ context.Context, msg Message) (string, error) {
	text := fmt.Sprintf("<b>%s</b>\n\n%s", html.EscapeString(msg.Subject), html.EscapeString(msg.Body))
	m := tgbotapi.NewMessage(c.chatID, text)
	m.ParseMode = tgbotapi.ModeHTML

	sent, err := c.bot.Send(m)
	if err != nil {
		return "", fmt.Errorf("telegram send failed: %w", err)
	}
	return fmt.Sprintf("message %d", sent.MessageID), nil
}
