package service

import (
	"context"
	"fmt"

	"github.com/supportdesk/support_bot/internal/model"
	"github.com/supportdesk/support_bot/internal/repository"
	"go.uber.org/zap"
)

// UserService резолвит входящую идентичность чата в пользователя бота
// и хранит его состояние диалога
type UserService struct {
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

func NewUserService(userRepo *repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Resolve ищет активного пользователя по нику или telegram id.
// Незнакомая идентичность не ошибка: возвращается (nil, nil),
// дальше с ней работает ветка роли unknown.
func (s *UserService) Resolve(ctx context.Context, tgNick string, telegramID int64) (*model.BotUser, error) {
	return s.userRepo.FindActive(ctx, tgNick, telegramID)
}

// SetState сохраняет следующую метку состояния на записи пользователя
func (s *UserService) SetState(ctx context.Context, userID int64, state string) error {
	if err := s.userRepo.UpdateState(ctx, userID, state); err != nil {
		return fmt.Errorf("set bot state: %w", err)
	}
	return nil
}

// ActiveManagers возвращает менеджеров, которым рассылаются SLA-уведомления
func (s *UserService) ActiveManagers(ctx context.Context) ([]*model.BotUser, error) {
	return s.userRepo.ActiveByRole(ctx, model.RoleManager)
}

// FindActiveByNick ищет активного пользователя по нику, nil если не найден
func (s *UserService) FindActiveByNick(ctx context.Context, tgNick string) (*model.BotUser, error) {
	return s.userRepo.FindActiveByNick(ctx, tgNick)
}
