package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Имена системных параметров, которые читает бот
const (
	SettingNotInWorkWarningHours = "not_in_work_warning_hours"
	SettingNotClosedWarningHours = "not_closed_warning_hours"
	SettingContractorHourRate    = "contractor_hour_rate"
)

// SettingValues источник сырых значений системных параметров
type SettingValues interface {
	Value(ctx context.Context, name string) (string, error)
}

// SettingsService типизированный резолвер системных параметров.
// Значения хранятся свободным текстом: отсутствующее, пустое или
// нечитаемое значение заменяется дефолтом вызывающей стороны.
type SettingsService struct {
	values SettingValues
	logger *zap.Logger
}

func NewSettingsService(values SettingValues, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		values: values,
		logger: logger,
	}
}

// Hours читает параметр как число часов
func (s *SettingsService) Hours(ctx context.Context, name string, def time.Duration) time.Duration {
	hours, ok := s.intValue(ctx, name)
	if !ok {
		return def
	}
	return time.Duration(hours) * time.Hour
}

// Int читает параметр как целое число
func (s *SettingsService) Int(ctx context.Context, name string, def int) int {
	value, ok := s.intValue(ctx, name)
	if !ok {
		return def
	}
	return value
}

func (s *SettingsService) intValue(ctx context.Context, name string) (int, bool) {
	raw, err := s.values.Value(ctx, name)
	if err != nil {
		s.logger.Warn("Failed to read system setting",
			zap.String("name", name),
			zap.Error(err),
		)
		return 0, false
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		s.logger.Warn("Unparsable system setting, falling back to default",
			zap.String("name", name),
			zap.String("value", raw),
		)
		return 0, false
	}

	return value, true
}
