package model

import "time"

// ContractorBilling строка отчёта владельца: сколько заказов подрядчик закрыл за период
type ContractorBilling struct {
	ContractorNick string `json:"contractor_nick"`
	ClosedOrders   int    `json:"closed_orders"`
}

// ClientOrdersStat строка статистики заказов: число заказов клиента за месяц
type ClientOrdersStat struct {
	PeriodStart time.Time `json:"period_start"`
	ClientNick  string    `json:"client_nick"`
	OrdersCount int       `json:"orders_count"`
}
