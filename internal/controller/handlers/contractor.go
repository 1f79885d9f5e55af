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

// Токены кнопок меню подрядчика
const (
	CallbackWatchOrders   = "watch_orders"
	CallbackMessageClient = "send_message_to_client"
	CallbackCloseOrder    = "close_order"
	CallbackMySalary      = "my_salary"
)

// StartContractor показывает меню подрядчика
func (h *Handlers) StartContractor(ctx context.Context, update *models.Update, _ *model.BotUser) (dispatch.StateLabel, error) {
	markup := keyboard.NewBuilder().
		Row(keyboard.Button("Посмотреть заказы", CallbackWatchOrders)).
		Row(keyboard.Button("Написать заказчику", CallbackMessageClient)).
		Row(keyboard.Button("Завершить заказ", CallbackCloseOrder)).
		Row(keyboard.Button("Мой заработок за месяц", CallbackMySalary)).
		Build()

	h.sendMenu(ctx, chatID(update), "Выберите действие", markup)
	return dispatch.StateHandleMenuContractor, nil
}

// HandleMenuContractor выполняет выбранное действие подрядчика
func (h *Handlers) HandleMenuContractor(ctx context.Context, update *models.Update, user *model.BotUser) (dispatch.StateLabel, error) {
	payload, _ := dispatch.Payload(update)

	switch payload {
	case CallbackWatchOrders:
		return h.watchOrders(ctx, update, user)
	case CallbackMessageClient:
		return h.askClientMessage(ctx, update, user)
	case CallbackCloseOrder:
		return h.closeOrder(ctx, update, user)
	case CallbackMySalary:
		return h.mySalary(ctx, update, user)
	default:
		h.sendMessage(ctx, chatID(update), "неизвестный ввод")
		return dispatch.StateStart, nil
	}
}

// HandleClientMessage пересылает текст подрядчика заказчику его активного заказа
func (h *Handlers) HandleClientMessage(ctx context.Context, update *models.Update, user *model.BotUser) (dispatch.StateLabel, error) {
	if update.Message == nil || update.Message.Text == "" {
		h.sendMessage(ctx, chatID(update), "неизвестный ввод")
		return dispatch.StateStart, nil
	}

	orders, err := h.orders.ActiveByContractor(ctx, user.TgNick)
	if err != nil {
		return "", err
	}
	if len(orders) == 0 {
		h.sendMessage(ctx, chatID(update), "У вас нет заказов в работе")
		return dispatch.StateStart, nil
	}

	client, err := h.users.FindActiveByNick(ctx, orders[0].ClientNick)
	if err != nil {
		return "", err
	}
	if client == nil || client.TelegramID == 0 {
		// Клиент ещё не писал боту, доставить некуда
		h.sendMessage(ctx, chatID(update),
			fmt.Sprintf("Не удалось доставить сообщение: заказчик @%s не подключён к боту", orders[0].ClientNick))
		return dispatch.StateStart, nil
	}

	h.sendMessage(ctx, client.TelegramID,
		fmt.Sprintf("Сообщение от подрядчика @%s:\n%s", user.TgNick, update.Message.Text))
	h.sendMessage(ctx, chatID(update), "Сообщение отправлено заказчику")
	return dispatch.StateStart, nil
}

func (h *Handlers) watchOrders(ctx context.Context, update *models.Update, user *model.BotUser) (dispatch.StateLabel, error) {
	orders, err := h.orders.ActiveByContractor(ctx, user.TgNick)
	if err != nil {
		return "", err
	}

	if len(orders) == 0 {
		h.sendMessage(ctx, chatID(update), "У вас нет заказов в работе")
		return dispatch.StateStart, nil
	}

	parts := make([]string, 0, len(orders))
	for _, order := range orders {
		parts = append(parts, formatContractorOrder(order))
	}

	h.sendMessage(ctx, chatID(update), strings.Join(parts, "\n\n"))
	return dispatch.StateStart, nil
}

func (h *Handlers) askClientMessage(ctx context.Context, update *models.Update, user *model.BotUser) (dispatch.StateLabel, error) {
	orders, err := h.orders.ActiveByContractor(ctx, user.TgNick)
	if err != nil {
		return "", err
	}

	if len(orders) == 0 {
		h.sendMessage(ctx, chatID(update), "У вас нет заказов в работе")
		return dispatch.StateStart, nil
	}

	h.sendMessage(ctx, chatID(update),
		fmt.Sprintf("Введите сообщение для заказчика @%s", orders[0].ClientNick))
	return dispatch.StateWaitingClientMessage, nil
}

func (h *Handlers) closeOrder(ctx context.Context, update *models.Update, user *model.BotUser) (dispatch.StateLabel, error) {
	closed, err := h.orders.CloseActive(ctx, user.TgNick)
	if err != nil {
		return "", err
	}

	if closed == 0 {
		h.sendMessage(ctx, chatID(update), "У вас нет заказов в работе")
	} else {
		h.sendMessage(ctx, chatID(update), "Заказ завершён. Спасибо за работу!")
	}
	return dispatch.StateStart, nil
}

func (h *Handlers) mySalary(ctx context.Context, update *models.Update, user *model.BotUser) (dispatch.StateLabel, error) {
	hours, amount, err := h.orders.MonthEarnings(ctx, user.TgNick)
	if err != nil {
		return "", err
	}

	h.sendMessage(ctx, chatID(update),
		fmt.Sprintf("За текущий месяц закрыто %d ч работ, заработок %d ₽", hours, amount))
	return dispatch.StateStart, nil
}

func formatContractorOrder(order *model.Order) string {
	var sb strings.Builder
	sb.WriteString("Задача: ")
	sb.WriteString(order.Task)
	sb.WriteString("\nЗаказчик: @")
	sb.WriteString(order.ClientNick)
	if order.Creds != "" {
		sb.WriteString("\nДоступы: ")
		sb.WriteString(order.Creds)
	}
	if order.EstimatedHours != nil {
		sb.WriteString(fmt.Sprintf("\nОценка: %d ч", *order.EstimatedHours))
	}
	return sb.String()
}
