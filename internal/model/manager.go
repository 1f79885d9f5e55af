package model

import "time"

// Manager профиль менеджера
type Manager struct {
	ID        int64     `json:"id"`
	TgNick    string    `json:"tg_nick"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
