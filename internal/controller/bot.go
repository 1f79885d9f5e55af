package controller

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/supportdesk/support_bot/internal/controller/dispatch"
	"github.com/supportdesk/support_bot/internal/controller/handlers"
	"github.com/supportdesk/support_bot/internal/service"
	"go.uber.org/zap"
)

// BotController связывает транспорт с машиной состояний диалога
type BotController struct {
	bot        *bot.Bot
	dispatcher *dispatch.Dispatcher
	logger     *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	userService *service.UserService,
	contractorRepo handlers.ContractorDirectory,
	orderService *service.OrderService,
	reportService *service.ReportService,
	tariffRepo handlers.Tariffs,
	logger *zap.Logger,
) (*BotController, error) {
	// Создаём обработчики состояний всех ролей
	stateHandlers := handlers.NewHandlers(
		botInstance,
		contractorRepo,
		orderService,
		reportService,
		tariffRepo,
		userService,
		logger,
	)

	// Дыра в таблице состояний валит процесс на старте
	table := stateHandlers.Table()
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("state table: %w", err)
	}

	dispatcher := dispatch.NewDispatcher(userService, table, botInstance, logger)

	return &BotController{
		bot:        botInstance,
		dispatcher: dispatcher,
		logger:     logger,
	}, nil
}

// RegisterHandlers направляет все события чата в диспетчер машины состояний
func (c *BotController) RegisterHandlers() {
	c.bot.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		return update.Message != nil || update.CallbackQuery != nil
	}, c.dispatcher.HandleUpdate)

	c.logger.Info("Bot handlers registered")
}

// Start запускает long polling
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}
