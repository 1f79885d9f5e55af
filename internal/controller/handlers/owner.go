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

// Токены кнопок меню владельца
const (
	CallbackBillingPrevMonth = "contractor_billing_prev_month"
	CallbackOrdersStats      = "orders_stats"
)

const reportRule = 50 // длина разделителя в отчётах

// StartOwner показывает меню владельца
func (h *Handlers) StartOwner(ctx context.Context, update *models.Update, _ *model.BotUser) (dispatch.StateLabel, error) {
	markup := keyboard.NewBuilder().
		Row(keyboard.Button("Биллинг подрядчиков за прошлый месяц", CallbackBillingPrevMonth)).
		Row(keyboard.Button("Статистика по заказам", CallbackOrdersStats)).
		Build()

	h.sendMenu(ctx, chatID(update), "Что вас интересует", markup)
	return dispatch.StateHandleButtons, nil
}

// HandleButtonsOwner отдаёт один из двух отчётов владельца
func (h *Handlers) HandleButtonsOwner(ctx context.Context, update *models.Update, _ *model.BotUser) (dispatch.StateLabel, error) {
	payload, _ := dispatch.Payload(update)

	var message string
	switch {
	case payload == CallbackBillingPrevMonth:
		billing, err := h.reports.ContractorBillingPrevMonth(ctx)
		if err != nil {
			return "", err
		}
		message = formatBillingReport(billing)

	case strings.HasPrefix(payload, CallbackOrdersStats):
		stats, err := h.reports.OrdersPerClient(ctx)
		if err != nil {
			return "", err
		}
		message = formatStatsReport(stats)

	default:
		message = "Я вас не понял, нажмите одну из предложенных кнопок"
	}

	h.sendMessage(ctx, chatID(update), message)
	return dispatch.StateStart, nil
}

func formatBillingReport(billing []model.ContractorBilling) string {
	lines := make([]string, 0, len(billing))
	for _, row := range billing {
		lines = append(lines, fmt.Sprintf("%s\t%d", row.ContractorNick, row.ClosedOrders))
	}

	return "Подрядчик\tВыполненных заказов\n" +
		strings.Repeat("-", reportRule) + "\n" +
		strings.Join(lines, "\n")
}

func formatStatsReport(stats []model.ClientOrdersStat) string {
	lines := make([]string, 0, len(stats))
	for _, row := range stats {
		lines = append(lines, fmt.Sprintf("%s\t%s\t%d",
			row.PeriodStart.Format("2006-01-02"), row.ClientNick, row.OrdersCount))
	}

	return "Начало биллинга\tКлиент\tЧисло заказов\n" +
		strings.Repeat("-", reportRule) + "\n" +
		strings.Join(lines, "\n")
}
