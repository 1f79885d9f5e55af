package model

import "time"

// Contractor профиль подрядчика. Доступность подрядчика нигде не хранится:
// она выводится из отсутствия активного заказа и всегда вычисляется запросом.
type Contractor struct {
	ID        int64     `json:"id"`
	TgNick    string    `json:"tg_nick"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
