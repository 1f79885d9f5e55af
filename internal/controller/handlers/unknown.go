package handlers

import (
	"context"

	"github.com/go-telegram/bot/models"
	"github.com/supportdesk/support_bot/internal/controller/dispatch"
	"github.com/supportdesk/support_bot/internal/model"
)

// StartUnknown отвечает незнакомому пользователю. Незнакомая идентичность
// не ошибка: человеку нужно к администраторам, а не в логи
func (h *Handlers) StartUnknown(ctx context.Context, update *models.Update, _ *model.BotUser) (dispatch.StateLabel, error) {
	h.sendMessage(ctx, chatID(update),
		"К сожалению, мы вас не знаем. Свяжитесь с администратором, чтобы получить доступ к боту.")
	return dispatch.StateStart, nil
}
