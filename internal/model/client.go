package model

import "time"

// Client профиль заказчика
type Client struct {
	ID        int64     `json:"id"`
	TgNick    string    `json:"tg_nick"`
	Status    string    `json:"status"`
	TariffID  *int64    `json:"tariff_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
