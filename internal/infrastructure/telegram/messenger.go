// Package telegram delivers notifications to a Telegram chat through the Bot
// API.
package telegram

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Falleiro/Finova/internal/domain/notification"
)

type Messenger struct {
	bot *tgbotapi.BotAPI
}

var _ notification.Messenger = (*Messenger)(nil)

func NewMessenger(token string) (*Messenger, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram bot: %w", err)
	}
	return &Messenger{bot: bot}, nil
}

// Send posts text to the chat identified by destination. Markdown is enabled
// so report builders can bold headings and amounts.
func (m *Messenger) Send(ctx context.Context, destination, text string) error {
	chatID, err := strconv.ParseInt(destination, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat id %q: %w", destination, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := m.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

func (m *Messenger) SendPhoto(ctx context.Context, destination, imagePath, caption string) error {
	chatID, err := strconv.ParseInt(destination, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat id %q: %w", destination, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(imagePath))
	photo.Caption = caption
	if _, err := m.bot.Send(photo); err != nil {
		return fmt.Errorf("failed to send telegram photo: %w", err)
	}
	return nil
}
