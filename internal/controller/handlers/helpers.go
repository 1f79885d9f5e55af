package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// sendTimeout ограничивает время одного вызова транспорта: зависший вызов
// не должен блокировать обработку событий остальных пользователей
const sendTimeout = 5 * time.Second

// sendMessage отправляет текст и логирует сбой доставки. Ошибка транспорта
// не прерывает обработчик: пользователь не должен застрять в состоянии
// из-за разовой сетевой проблемы
func (h *Handlers) sendMessage(ctx context.Context, chatID int64, text string) {
	h.send(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
}

// sendMenu отправляет текст с inline клавиатурой
func (h *Handlers) sendMenu(ctx context.Context, chatID int64, text string, markup *models.InlineKeyboardMarkup) {
	h.send(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text, ReplyMarkup: markup})
}

func (h *Handlers) send(ctx context.Context, params *bot.SendMessageParams) {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if _, err := h.tg.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Any("chat_id", params.ChatID),
			zap.Error(err),
		)
	}
}

// chatID возвращает id чата события, 0 для событий без чата
func chatID(update *models.Update) int64 {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message.Message != nil:
		return update.CallbackQuery.Message.Message.Chat.ID
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID
	default:
		return 0
	}
}
