package handlers

import (
	"context"
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/supportdesk/support_bot/internal/model"
)

// Любой обработчик обязан вернуть метку, существующую в таблице его роли,
// и для текстового ввода, и для неожиданного токена кнопки
func TestEveryHandlerReturnsKnownState(t *testing.T) {
	h, env := newTestHandlers()
	env.contractors.available = []*model.Contractor{{TgNick: "ivan_fixit"}}
	env.orders.active = []*model.Order{{Task: "Поднять сервер", ClientNick: "acme"}}
	env.orders.byClient = []*model.Order{{Task: "Поднять сервер", ClientNick: "acme"}}
	env.tariffs.tariff = &model.Tariff{Name: "Базовый", Price: 1000, OrdersLimit: 5}
	env.users.byNick["acme"] = &model.BotUser{ID: 9, TelegramID: 900, TgNick: "acme", Role: model.RoleClient}

	table := h.Table()
	if err := table.Validate(); err != nil {
		t.Fatalf("table must validate: %v", err)
	}

	updates := map[string]*models.Update{
		"text":     messageUpdate(100, "привет"),
		"callback": callbackUpdate(100, "unexpected_token"),
	}

	for role, states := range table {
		user := &model.BotUser{ID: 1, TelegramID: 100, TgNick: "ivan_fixit", Role: role}

		for label, handler := range states {
			for name, update := range updates {
				next, err := handler(context.Background(), update, user)
				if err != nil {
					t.Errorf("%s/%s (%s): unexpected error: %v", role, label, name, err)
					continue
				}
				if _, ok := states[next]; !ok {
					t.Errorf("%s/%s (%s): returned unknown state %q", role, label, name, next)
				}
			}
		}
	}
}
