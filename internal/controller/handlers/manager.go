package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot/models"
	"github.com/supportdesk/support_bot/internal/controller/dispatch"
	"github.com/supportdesk/support_bot/internal/controller/keyboard"
	"github.com/supportdesk/support_bot/internal/model"
)

// CallbackAvailableContractors токен кнопки меню менеджера
const CallbackAvailableContractors = "contacts_available_contractors"

// StartManager показывает меню менеджера
func (h *Handlers) StartManager(ctx context.Context, update *models.Update, _ *model.BotUser) (dispatch.StateLabel, error) {
	markup := keyboard.NewBuilder().
		Row(keyboard.Button("контакты доступных подрядчиков", CallbackAvailableContractors)).
		Build()

	h.sendMenu(ctx, chatID(update), "Нажмите", markup)
	return dispatch.StateHandleContacts, nil
}

// HandleContactsManager отвечает списком доступных подрядчиков
func (h *Handlers) HandleContactsManager(ctx context.Context, update *models.Update, _ *model.BotUser) (dispatch.StateLabel, error) {
	payload, _ := dispatch.Payload(update)
	if payload != CallbackAvailableContractors {
		h.sendMessage(ctx, chatID(update), "неизвестный ввод")
		return dispatch.StateStart, nil
	}

	contractors, err := h.contractors.Available(ctx)
	if err != nil {
		return "", err
	}

	if len(contractors) == 0 {
		h.sendMessage(ctx, chatID(update), "Нет доступных подрядчиков")
		return dispatch.StateStart, nil
	}

	var sb strings.Builder
	for _, contractor := range contractors {
		// В базе ники хранятся без @
		sb.WriteString("@")
		sb.WriteString(contractor.TgNick)
		sb.WriteString("\n")
	}

	h.sendMessage(ctx, chatID(update), sb.String())
	return dispatch.StateStart, nil
}
