package dispatch

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot/models"
	"github.com/supportdesk/support_bot/internal/model"
)

// StateLabel имя узла в машине состояний диалога роли
type StateLabel string

const (
	// StateStart единая точка входа для всех ролей
	StateStart StateLabel = "START"

	// Менеджер
	StateHandleContacts StateLabel = "HANDLE_CONTACTS"

	// Владелец
	StateHandleButtons StateLabel = "HANDLE_BUTTONS"

	// Подрядчик
	StateHandleMenuContractor StateLabel = "HANDLE_MENU_CONTRACTOR"
	StateWaitingClientMessage StateLabel = "WAITING_CLIENT_MESSAGE"

	// Клиент
	StateHandleMenuClient StateLabel = "HANDLE_MENU_CLIENT"
)

// HandlerFunc обработчик одного состояния: выполняет побочные эффекты
// (исходящие сообщения, меню) и возвращает метку следующего состояния.
// Для роли unknown user равен nil.
type HandlerFunc func(ctx context.Context, update *models.Update, user *model.BotUser) (StateLabel, error)

// Table таблица состояний: роль -> метка состояния -> обработчик
type Table map[model.Role]map[StateLabel]HandlerFunc

// Validate проверяет таблицу при старте: у каждой роли должна быть своя
// таблица состояний и в ней состояние START. Дыра в конфигурации валит
// процесс на старте, а не посреди диалога.
func (t Table) Validate() error {
	for _, role := range model.Roles() {
		states, ok := t[role]
		if !ok {
			return fmt.Errorf("role %q has no state table", role)
		}
		if _, ok := states[StateStart]; !ok {
			return fmt.Errorf("role %q has no %s state", role, StateStart)
		}
	}
	return nil
}

// Identity извлекает идентичность чата из события: id чата и ник отправителя.
// Событие без сообщения и без callback не несёт идентичности.
func Identity(update *models.Update) (chatID int64, username string, ok bool) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.Chat.ID, update.Message.From.Username, true
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID, update.CallbackQuery.From.Username, true
	default:
		return 0, "", false
	}
}

// Payload извлекает текстовую нагрузку события: текст сообщения
// или данные нажатой кнопки
func Payload(update *models.Update) (string, bool) {
	switch {
	case update.Message != nil && update.Message.Text != "":
		return update.Message.Text, true
	case update.CallbackQuery != nil && update.CallbackQuery.Data != "":
		return update.CallbackQuery.Data, true
	default:
		return "", false
	}
}
