package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"
	"github.com/supportdesk/support_bot/internal/controller/dispatch"
	"github.com/supportdesk/support_bot/internal/controller/keyboard"
	"github.com/supportdesk/support_bot/internal/model"
)

// Токены кнопок меню клиента
const (
	CallbackClientOrders = "client_orders"
	CallbackClientTariff = "client_tariff"
)

// StartClient показывает меню клиента
func (h *Handlers) StartClient(ctx context.Context, update *models.Update, _ *model.BotUser) (dispatch.StateLabel, error) {
	markup := keyboard.NewBuilder().
		Row(keyboard.Button("Мои заказы", CallbackClientOrders)).
		Row(keyboard.Button("Мой тариф", CallbackClientTariff)).
		Build()

	h.sendMenu(ctx, chatID(update), "Выберите действие", markup)
	return dispatch.StateHandleMenuClient, nil
}

// HandleMenuClient выполняет выбранное действие клиента
func (h *Handlers) HandleMenuClient(ctx context.Context, update *models.Update, user *model.BotUser) (dispatch.StateLabel, error) {
	payload, _ := dispatch.Payload(update)

	switch payload {
	case CallbackClientOrders:
		return h.clientOrders(ctx, update, user)
	case CallbackClientTariff:
		return h.clientTariff(ctx, update, user)
	default:
		h.sendMessage(ctx, chatID(update), "неизвестный ввод")
		return dispatch.StateStart, nil
	}
}

func (h *Handlers) clientOrders(ctx context.Context, update *models.Update, user *model.BotUser) (dispatch.StateLabel, error) {
	orders, err := h.orders.ByClient(ctx, user.TgNick)
	if err != nil {
		return "", err
	}

	if len(orders) == 0 {
		h.sendMessage(ctx, chatID(update), "У вас пока нет заказов")
		return dispatch.StateStart, nil
	}

	lines := make([]string, 0, len(orders))
	for _, order := range orders {
		lines = append(lines, fmt.Sprintf("%s — %s", order.Task, orderStatus(order)))
	}

	h.sendMessage(ctx, chatID(update), strings.Join(lines, "\n"))
	return dispatch.StateStart, nil
}

func (h *Handlers) clientTariff(ctx context.Context, update *models.Update, user *model.BotUser) (dispatch.StateLabel, error) {
	tariff, err := h.tariffs.ByClientNick(ctx, user.TgNick)
	if err != nil {
		return "", err
	}

	if tariff == nil {
		h.sendMessage(ctx, chatID(update), "Тариф не назначен, обратитесь к менеджеру")
		return dispatch.StateStart, nil
	}

	h.sendMessage(ctx, chatID(update),
		fmt.Sprintf("Тариф: %s\nЦена: %.2f ₽\nЗаказов в месяц: %d",
			tariff.Name, tariff.Price, tariff.OrdersLimit))
	return dispatch.StateStart, nil
}

func orderStatus(order *model.Order) string {
	switch {
	case order.Closed():
		return fmt.Sprintf("завершён %s", order.ClosedAt.Format("02.01.2006"))
	case order.ContractorNick != "":
		return fmt.Sprintf("в работе у @%s", order.ContractorNick)
	default:
		return "ожидает подрядчика"
	}
}
