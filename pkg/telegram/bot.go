package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gopkg.in/telebot.v3"

	"internship-tracker/backend/config"
)

// Bot outbound-only Telegram client
type Bot struct {
	bot *telebot.Bot
}

// NewBot returns nil when no token is configured. Offline skips the getMe
// round trip; this process never polls for updates.
func NewBot(cfg *config.TelegramConfig) (*Bot, error) {
	if cfg.BotToken == "" {
		return nil, nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	b, err := telebot.NewBot(telebot.Settings{
		Token:   cfg.BotToken,
		Offline: true,
		Client:  &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("telegram init: %w", err)
	}
	return &Bot{bot: b}, nil
}

// SendMessage sends text to a chat id given in its decimal form
func (b *Bot) SendMessage(ctx context.Context, chatID, text string) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat id %q", chatID)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err = b.bot.Send(telebot.ChatID(id), text, &telebot.SendOptions{DisableWebPagePreview: true})
	return err
}
