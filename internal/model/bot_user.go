package model

import "time"

// Role определяет, какая таблица состояний управляет диалогом пользователя
type Role string

const (
	RoleUnknown    Role = "unknown"
	RoleClient     Role = "client"
	RoleContractor Role = "contractor"
	RoleManager    Role = "manager"
	RoleOwner      Role = "owner"
)

// Roles перечисляет все роли, для которых должна существовать таблица состояний
func Roles() []Role {
	return []Role{RoleUnknown, RoleClient, RoleContractor, RoleManager, RoleOwner}
}

// UserStatus статус пользователя бота. Пользователей не удаляют, а деактивируют
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

type BotUser struct {
	ID         int64      `json:"id"`
	TelegramID int64      `json:"telegram_id"` // 0, если админ завёл пользователя только по нику
	TgNick     string     `json:"tg_nick"`
	Role       Role       `json:"role"`
	Status     UserStatus `json:"status"`
	BotState   string     `json:"bot_state"` // пустая строка означает START
	CreatedAt  time.Time  `json:"created_at"`
}
