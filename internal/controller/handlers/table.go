package handlers

import (
	"github.com/supportdesk/support_bot/internal/controller/dispatch"
	"github.com/supportdesk/support_bot/internal/model"
)

// Table собирает таблицу состояний всех ролей.
// Каждая роль владеет независимой таблицей, START — единая точка входа
func (h *Handlers) Table() dispatch.Table {
	return dispatch.Table{
		model.RoleUnknown: {
			dispatch.StateStart: h.StartUnknown,
		},
		model.RoleManager: {
			dispatch.StateStart:          h.StartManager,
			dispatch.StateHandleContacts: h.HandleContactsManager,
		},
		model.RoleOwner: {
			dispatch.StateStart:         h.StartOwner,
			dispatch.StateHandleButtons: h.HandleButtonsOwner,
		},
		model.RoleContractor: {
			dispatch.StateStart:                h.StartContractor,
			dispatch.StateHandleMenuContractor: h.HandleMenuContractor,
			dispatch.StateWaitingClientMessage: h.HandleClientMessage,
		},
		model.RoleClient: {
			dispatch.StateStart:            h.StartClient,
			dispatch.StateHandleMenuClient: h.HandleMenuClient,
		},
	}
}
