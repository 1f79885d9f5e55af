package model

import "time"

// Tariff тарифный план клиента
type Tariff struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"` // в рублях, не может быть отрицательной
	OrdersLimit int       `json:"orders_limit"`
	CreatedAt   time.Time `json:"created_at"`
}
