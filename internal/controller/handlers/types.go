package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/supportdesk/support_bot/internal/model"
	"go.uber.org/zap"
)

// Transport исходящий канал обработчиков. *bot.Bot реализует его целиком
type Transport interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// ContractorDirectory доступные подрядчики для меню менеджера
type ContractorDirectory interface {
	Available(ctx context.Context) ([]*model.Contractor, error)
}

// Orders операции подрядчика и клиента над заказами
type Orders interface {
	ActiveByContractor(ctx context.Context, tgNick string) ([]*model.Order, error)
	ByClient(ctx context.Context, tgNick string) ([]*model.Order, error)
	CloseActive(ctx context.Context, tgNick string) (int64, error)
	MonthEarnings(ctx context.Context, tgNick string) (hours, amount int, err error)
}

// Reports отчёты владельца
type Reports interface {
	ContractorBillingPrevMonth(ctx context.Context) ([]model.ContractorBilling, error)
	OrdersPerClient(ctx context.Context) ([]model.ClientOrdersStat, error)
}

// Tariffs тариф клиента
type Tariffs interface {
	ByClientNick(ctx context.Context, tgNick string) (*model.Tariff, error)
}

// Users поиск пользователя-адресата при пересылке сообщений
type Users interface {
	FindActiveByNick(ctx context.Context, tgNick string) (*model.BotUser, error)
}

// Handlers наборы обработчиков состояний всех ролей и их зависимости
type Handlers struct {
	tg          Transport
	contractors ContractorDirectory
	orders      Orders
	reports     Reports
	tariffs     Tariffs
	users       Users
	logger      *zap.Logger
}

// NewHandlers создаёт обработчики состояний
func NewHandlers(
	tg Transport,
	contractors ContractorDirectory,
	orders Orders,
	reports Reports,
	tariffs Tariffs,
	users Users,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		tg:          tg,
		contractors: contractors,
		orders:      orders,
		reports:     reports,
		tariffs:     tariffs,
		users:       users,
		logger:      logger,
	}
}
