package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/supportdesk/support_bot/internal/model"
	"go.uber.org/zap"
)

type mockTransport struct {
	sent []*bot.SendMessageParams
}

func (m *mockTransport) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	m.sent = append(m.sent, params)
	return &models.Message{}, nil
}

func (m *mockTransport) lastText() string {
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1].Text
}

type mockContractors struct {
	available []*model.Contractor
}

func (m *mockContractors) Available(ctx context.Context) ([]*model.Contractor, error) {
	return m.available, nil
}

type mockOrders struct {
	active   []*model.Order
	byClient []*model.Order
	closed   int64
	hours    int
	amount   int
}

func (m *mockOrders) ActiveByContractor(ctx context.Context, tgNick string) ([]*model.Order, error) {
	return m.active, nil
}

func (m *mockOrders) ByClient(ctx context.Context, tgNick string) ([]*model.Order, error) {
	return m.byClient, nil
}

func (m *mockOrders) CloseActive(ctx context.Context, tgNick string) (int64, error) {
	return m.closed, nil
}

func (m *mockOrders) MonthEarnings(ctx context.Context, tgNick string) (int, int, error) {
	return m.hours, m.amount, nil
}

type mockReports struct {
	billing []model.ContractorBilling
	stats   []model.ClientOrdersStat
}

func (m *mockReports) ContractorBillingPrevMonth(ctx context.Context) ([]model.ContractorBilling, error) {
	return m.billing, nil
}

func (m *mockReports) OrdersPerClient(ctx context.Context) ([]model.ClientOrdersStat, error) {
	return m.stats, nil
}

type mockTariffs struct {
	tariff *model.Tariff
}

func (m *mockTariffs) ByClientNick(ctx context.Context, tgNick string) (*model.Tariff, error) {
	return m.tariff, nil
}

type mockUsers struct {
	byNick map[string]*model.BotUser
}

func (m *mockUsers) FindActiveByNick(ctx context.Context, tgNick string) (*model.BotUser, error) {
	return m.byNick[tgNick], nil
}

type testEnv struct {
	tg          *mockTransport
	contractors *mockContractors
	orders      *mockOrders
	reports     *mockReports
	tariffs     *mockTariffs
	users       *mockUsers
}

func newTestHandlers() (*Handlers, *testEnv) {
	env := &testEnv{
		tg:          &mockTransport{},
		contractors: &mockContractors{},
		orders:      &mockOrders{},
		reports:     &mockReports{},
		tariffs:     &mockTariffs{},
		users:       &mockUsers{byNick: make(map[string]*model.BotUser)},
	}

	h := NewHandlers(env.tg, env.contractors, env.orders, env.reports, env.tariffs, env.users, zap.NewNop())
	return h, env
}

func messageUpdate(chatID int64, text string) *models.Update {
	return &models.Update{
		Message: &models.Message{
			Text: text,
			Chat: models.Chat{ID: chatID},
			From: &models.User{ID: chatID},
		},
	}
}

func callbackUpdate(chatID int64, data string) *models.Update {
	return &models.Update{
		CallbackQuery: &models.CallbackQuery{
			ID:   "cb1",
			From: models.User{ID: chatID},
			Message: models.MaybeInaccessibleMessage{
				Message: &models.Message{Chat: models.Chat{ID: chatID}},
			},
			Data: data,
		},
	}
}
