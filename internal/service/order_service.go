package service

import (
	"context"
	"fmt"
	"time"

	"github.com/supportdesk/support_bot/internal/model"
	"github.com/supportdesk/support_bot/internal/repository"
	"go.uber.org/zap"
)

const defaultHourRate = 500 // рублей за час, если параметр не задан

// OrderService операции подрядчика и клиента над заказами
type OrderService struct {
	orderRepo *repository.OrderRepository
	settings  *SettingsService
	logger    *zap.Logger
}

func NewOrderService(orderRepo *repository.OrderRepository, settings *SettingsService, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		settings:  settings,
		logger:    logger,
	}
}

// ActiveByContractor возвращает заказы подрядчика, находящиеся в работе
func (s *OrderService) ActiveByContractor(ctx context.Context, tgNick string) ([]*model.Order, error) {
	return s.orderRepo.ActiveByContractor(ctx, tgNick)
}

// ByClient возвращает все заказы клиента
func (s *OrderService) ByClient(ctx context.Context, tgNick string) ([]*model.Order, error) {
	return s.orderRepo.ByClient(ctx, tgNick)
}

// CloseActive завершает активные заказы подрядчика
func (s *OrderService) CloseActive(ctx context.Context, tgNick string) (int64, error) {
	closed, err := s.orderRepo.CloseActive(ctx, tgNick)
	if err != nil {
		return 0, fmt.Errorf("close orders: %w", err)
	}

	if closed > 0 {
		s.logger.Info("Contractor closed orders",
			zap.String("contractor", tgNick),
			zap.Int64("closed", closed),
		)
	}

	return closed, nil
}

// MonthEarnings считает заработок подрядчика с начала текущего месяца:
// сумма оценённых часов закрытых заказов, умноженная на почасовую ставку
func (s *OrderService) MonthEarnings(ctx context.Context, tgNick string) (hours, amount int, err error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	hours, err = s.orderRepo.MonthEstimatedHours(ctx, tgNick, monthStart)
	if err != nil {
		return 0, 0, fmt.Errorf("month earnings: %w", err)
	}

	rate := s.settings.Int(ctx, SettingContractorHourRate, defaultHourRate)
	return hours, hours * rate, nil
}
