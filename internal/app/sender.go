package app

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
)

// notifyTimeout ограничивает один вызов транспорта, чтобы зависшая отправка
// не остановила цикл сканирования
const notifyTimeout = 5 * time.Second

// TelegramSender доставляет уведомления планировщика через бот
type TelegramSender struct {
	bot *bot.Bot
}

func NewTelegramSender(b *bot.Bot) *TelegramSender {
	return &TelegramSender{bot: b}
}

func (s *TelegramSender) SendMessage(ctx context.Context, chatID int64, text string) error {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	_, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	return err
}
