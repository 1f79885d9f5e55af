package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/supportdesk/support_bot/internal/app"
	"github.com/supportdesk/support_bot/internal/config"
	"github.com/supportdesk/support_bot/internal/controller"
	"github.com/supportdesk/support_bot/internal/repository"
	"github.com/supportdesk/support_bot/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting support bot", zap.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Пул соединений с базой
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create db pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping db", zap.Error(err))
	}

	// Миграции
	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	migrator.Close()

	// Репозитории
	userRepo := repository.NewUserRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	contractorRepo := repository.NewContractorRepository(pool)
	tariffRepo := repository.NewTariffRepository(pool)
	settingsRepo := repository.NewSettingsRepository(pool)

	// Сервисы
	userService := service.NewUserService(userRepo, logger)
	settingsService := service.NewSettingsService(settingsRepo, logger)
	orderService := service.NewOrderService(orderRepo, settingsService, logger)
	reportService := service.NewReportService(orderRepo, logger)

	// Транспорт
	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController, err := controller.NewBotController(
		b,
		userService,
		contractorRepo,
		orderService,
		reportService,
		tariffRepo,
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to create bot controller", zap.Error(err))
	}
	botController.RegisterHandlers()

	// Фоновый сканер SLA
	slaService := service.NewSLAService(
		orderRepo,
		userService,
		settingsService,
		app.NewTelegramSender(b),
		logger,
	)
	scheduler := app.NewScheduler(slaService, logger)
	scheduler.Start(ctx)

	go botController.Start(ctx)

	// Ожидание сигнала завершения
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Shutting down...")
	cancel()
	scheduler.Stop()
	logger.Info("Support bot stopped")
}
