package dispatch

import (
	"context"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/supportdesk/support_bot/internal/model"
	"go.uber.org/zap"
)

const helpText = "Используйте /start для того, чтобы перезапустить бота"

// UserStore резолвит идентичность чата и хранит состояние диалога
type UserStore interface {
	Resolve(ctx context.Context, tgNick string, telegramID int64) (*model.BotUser, error)
	SetState(ctx context.Context, userID int64, state string) error
}

// Transport минимальный срез транспорта, нужный диспетчеру.
// *bot.Bot реализует его целиком.
type Transport interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

// Dispatcher прогоняет каждое входящее событие через машину состояний:
// резолв пользователя -> выбор обработчика по (роль, состояние) ->
// запуск обработчика -> сохранение следующего состояния.
type Dispatcher struct {
	users  UserStore
	table  Table
	tg     Transport
	logger *zap.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex // последовательная обработка событий одного чата
}

func NewDispatcher(users UserStore, table Table, tg Transport, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		users:  users,
		table:  table,
		tg:     tg,
		logger: logger,
		locks:  make(map[int64]*sync.Mutex),
	}
}

// HandleUpdate обрабатывает одно событие чата. Регистрируется в транспорте
// как обработчик всех событий; параметр b не используется, транспорт
// передаётся диспетчеру при создании.
func (d *Dispatcher) HandleUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	chatID, username, ok := Identity(update)
	if !ok {
		// Событие нераспознанной формы, молча пропускаем
		return
	}

	log := d.logger.With(
		zap.String("event_id", uuid.NewString()),
		zap.Int64("chat_id", chatID),
		zap.String("username", username),
	)

	// Чтение состояния, запуск обработчика и запись следующего состояния
	// должны быть атомарными для одного пользователя: иначе два параллельных
	// события потеряют одно из обновлений bot_state
	unlock := d.lockChat(chatID)
	defer unlock()

	if update.CallbackQuery != nil {
		// Гасим "часики" на кнопке независимо от исхода обработки
		if _, err := d.tg.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
		}); err != nil {
			log.Warn("Failed to answer callback query", zap.Error(err))
		}
	}

	// /help отвечает любой идентичности, в том числе незнакомой,
	// минуя машину состояний и резолв пользователя
	if payload, ok := Payload(update); ok && payload == "/help" {
		d.sendHelp(ctx, chatID, log)
		return
	}

	user, err := d.users.Resolve(ctx, username, chatID)
	if err != nil {
		// Отказ персистентности фатален для события: состояние не трогаем
		log.Error("Failed to resolve user", zap.Error(err))
		return
	}

	if user == nil {
		d.handleUnknown(ctx, update, log)
		return
	}

	payload, ok := Payload(update)
	if !ok {
		return
	}

	state := StateLabel(user.BotState)
	if payload == "/start" || state == "" {
		state = StateStart
	}

	handler, ok := d.table[user.Role][state]
	if !ok {
		// Дыра в таблице состояний. Событие останавливается и попадает
		// в алертинг, молча подменять состояние нельзя
		log.Error("No handler configured",
			zap.String("role", string(user.Role)),
			zap.String("state", string(state)),
		)
		return
	}

	next, err := handler(ctx, update, user)
	if err != nil {
		log.Error("Handler failed",
			zap.String("role", string(user.Role)),
			zap.String("state", string(state)),
			zap.Error(err),
		)
		return
	}

	if err := d.users.SetState(ctx, user.ID, string(next)); err != nil {
		log.Error("Failed to persist bot state",
			zap.String("next_state", string(next)),
			zap.Error(err),
		)
	}
}

// handleUnknown запускает START незнакомой роли. Состояние не сохраняется:
// записи пользователя нет
func (d *Dispatcher) handleUnknown(ctx context.Context, update *models.Update, log *zap.Logger) {
	handler, ok := d.table[model.RoleUnknown][StateStart]
	if !ok {
		log.Error("No handler configured for unknown role")
		return
	}
	if _, err := handler(ctx, update, nil); err != nil {
		log.Error("Unknown role handler failed", zap.Error(err))
	}
}

func (d *Dispatcher) sendHelp(ctx context.Context, chatID int64, log *zap.Logger) {
	_, err := d.tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   helpText,
	})
	if err != nil {
		log.Error("Failed to send help", zap.Error(err))
	}
}

// lockChat выдаёт мьютекс чата. Записи из карты не вычищаются: мьютекс
// чата живёт до рестарта процесса, размер карты ограничен числом
// активных пользователей бота
func (d *Dispatcher) lockChat(chatID int64) func() {
	d.mu.Lock()
	lock, ok := d.locks[chatID]
	if !ok {
		lock = &sync.Mutex{}
		d.locks[chatID] = lock
	}
	d.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
