package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Интервалы сканирования SLA. Первые запуски разнесены по времени,
// чтобы обе задачи не ударили по базе одновременно на старте
const (
	scanInterval        = time.Minute
	notInWorkStartDelay = 10 * time.Second
	notClosedStartDelay = 20 * time.Second
)

// SLARunner периодические проверки заказов на нарушение сроков
type SLARunner interface {
	NotifyNotInWork(ctx context.Context) (int, error)
	NotifyNotClosed(ctx context.Context) (int, error)
}

// Scheduler управляет фоновыми задачами сканирования SLA
type Scheduler struct {
	sla      SLARunner
	logger   *zap.Logger
	stopChan chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(sla SLARunner, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		sla:      sla,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает обе задачи сканирования
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	go s.runScan(ctx, "orders_not_in_work", notInWorkStartDelay, s.sla.NotifyNotInWork)
	go s.runScan(ctx, "orders_not_closed", notClosedStartDelay, s.sla.NotifyNotClosed)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

func (s *Scheduler) runScan(ctx context.Context, name string, startDelay time.Duration, scan func(context.Context) (int, error)) {
	select {
	case <-time.After(startDelay):
	case <-s.stopChan:
		return
	case <-ctx.Done():
		return
	}

	s.scanOnce(ctx, name, scan)

	ticker := time.NewTicker(scanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.scanOnce(ctx, name, scan)
		case <-s.stopChan:
			s.logger.Info("Scan task stopped", zap.String("task", name))
			return
		case <-ctx.Done():
			s.logger.Info("Scan task cancelled", zap.String("task", name))
			return
		}
	}
}

func (s *Scheduler) scanOnce(ctx context.Context, name string, scan func(context.Context) (int, error)) {
	informed, err := scan(ctx)
	if err != nil {
		s.logger.Error("SLA scan failed",
			zap.String("task", name),
			zap.Error(err),
		)
		return
	}

	if informed > 0 {
		s.logger.Info("SLA scan completed",
			zap.String("task", name),
			zap.Int("orders_informed", informed),
		)
	}
}
