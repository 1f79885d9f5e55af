package service

import (
	"context"
	"fmt"
	"time"

	"github.com/supportdesk/support_bot/internal/model"
	"go.uber.org/zap"
)

// Дефолтные пороги SLA, если системные параметры не заданы
const (
	defaultNotInWorkWarning = 72 * time.Hour
	defaultNotClosedWarning = 24 * time.Hour
)

// Sender доставляет исходящие уведомления в чат
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// OrderScanner транзакционный скан заказов, нарушивших срок:
// notify вызывается на каждый заказ, флаг ставится только после успеха notify
type OrderScanner interface {
	ScanNotInWork(ctx context.Context, olderThan time.Duration, notify func(*model.Order) error) (int, error)
	ScanNotClosed(ctx context.Context, olderThan time.Duration, notify func(*model.Order) error) (int, error)
}

// ManagerDirectory список получателей SLA-уведомлений
type ManagerDirectory interface {
	ActiveManagers(ctx context.Context) ([]*model.BotUser, error)
}

// Thresholds читает пороги SLA из системных параметров
type Thresholds interface {
	Hours(ctx context.Context, name string, def time.Duration) time.Duration
}

// SLAService рассылает менеджерам уведомления о зависших заказах.
// Идемпотентность обеспечивает сканер: заказ помечается informed-флагом
// в той же транзакции и второй раз в выборку не попадает.
type SLAService struct {
	orders   OrderScanner
	managers ManagerDirectory
	settings Thresholds
	sender   Sender
	logger   *zap.Logger
}

func NewSLAService(orders OrderScanner, managers ManagerDirectory, settings Thresholds, sender Sender, logger *zap.Logger) *SLAService {
	return &SLAService{
		orders:   orders,
		managers: managers,
		settings: settings,
		sender:   sender,
		logger:   logger,
	}
}

// NotifyNotInWork уведомляет менеджеров о заказах, которые долго никто не берёт в работу
func (s *SLAService) NotifyNotInWork(ctx context.Context) (int, error) {
	threshold := s.settings.Hours(ctx, SettingNotInWorkWarningHours, defaultNotInWorkWarning)

	return s.scan(ctx, threshold, s.orders.ScanNotInWork, func(order *model.Order) string {
		return fmt.Sprintf("Заказ долго не берут в работу!\nЗадача: %s\nЗаказчик: @%s",
			order.Task, order.ClientNick)
	})
}

// NotifyNotClosed уведомляет менеджеров о заказах, не закрытых в срок
func (s *SLAService) NotifyNotClosed(ctx context.Context) (int, error) {
	threshold := s.settings.Hours(ctx, SettingNotClosedWarningHours, defaultNotClosedWarning)

	return s.scan(ctx, threshold, s.orders.ScanNotClosed, func(order *model.Order) string {
		return fmt.Sprintf("Заказ не закрыт в срок!\nЗадача: %s\nЗаказчик: @%s\nПодрядчик: @%s",
			order.Task, order.ClientNick, order.ContractorNick)
	})
}

type scanFunc func(ctx context.Context, olderThan time.Duration, notify func(*model.Order) error) (int, error)

func (s *SLAService) scan(ctx context.Context, threshold time.Duration, scan scanFunc, message func(*model.Order) string) (int, error) {
	managers, err := s.managers.ActiveManagers(ctx)
	if err != nil {
		return 0, fmt.Errorf("list managers: %w", err)
	}

	// Без получателей сканировать нельзя: заказы оказались бы помечены,
	// но никто бы о них не узнал. Флаги останутся снятыми до следующего цикла.
	if len(managers) == 0 {
		s.logger.Warn("No active managers, skipping SLA scan")
		return 0, nil
	}

	informed, err := scan(ctx, threshold, func(order *model.Order) error {
		return s.fanOut(ctx, managers, message(order))
	})
	if err != nil {
		return informed, fmt.Errorf("scan orders: %w", err)
	}

	if informed > 0 {
		s.logger.Info("SLA notifications sent", zap.Int("orders", informed))
	}

	return informed, nil
}

// fanOut рассылает текст всем менеджерам. Достаточно одной успешной доставки,
// чтобы считать заказ проинформированным
func (s *SLAService) fanOut(ctx context.Context, managers []*model.BotUser, text string) error {
	var delivered bool
	var lastErr error

	for _, manager := range managers {
		if manager.TelegramID == 0 {
			// Менеджер заведён по нику и ещё не писал боту
			continue
		}
		if err := s.sender.SendMessage(ctx, manager.TelegramID, text); err != nil {
			s.logger.Error("Failed to notify manager",
				zap.String("manager", manager.TgNick),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		delivered = true
	}

	if !delivered {
		if lastErr != nil {
			return fmt.Errorf("notify managers: %w", lastErr)
		}
		return fmt.Errorf("no manager reachable by telegram id")
	}

	return nil
}
