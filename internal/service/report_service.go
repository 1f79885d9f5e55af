package service

import (
	"context"
	"time"

	"github.com/supportdesk/support_bot/internal/model"
	"github.com/supportdesk/support_bot/internal/repository"
	"go.uber.org/zap"
)

// ReportService отчёты владельца
type ReportService struct {
	orderRepo *repository.OrderRepository
	logger    *zap.Logger
}

func NewReportService(orderRepo *repository.OrderRepository, logger *zap.Logger) *ReportService {
	return &ReportService{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// ContractorBillingPrevMonth биллинг подрядчиков за прошлый календарный месяц
func (s *ReportService) ContractorBillingPrevMonth(ctx context.Context) ([]model.ContractorBilling, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevMonthStart := monthStart.AddDate(0, -1, 0)

	return s.orderRepo.ContractorBilling(ctx, prevMonthStart, monthStart)
}

// OrdersPerClient помесячная статистика заказов по клиентам
func (s *ReportService) OrdersPerClient(ctx context.Context) ([]model.ClientOrdersStat, error) {
	return s.orderRepo.OrdersPerClientByMonth(ctx)
}
