package model

import "time"

// Order заказ на IT-поддержку.
// Флаги *_informed переходят только из false в true: это гарантия того,
// что менеджеры получат не больше одного уведомления на каждое нарушение срока.
type Order struct {
	ID             int64      `json:"id"`
	Task           string     `json:"task"`
	Creds          string     `json:"creds"` // доступы к сервису клиента
	EstimatedHours *int       `json:"estimated_hours,omitempty"`
	ClientID       int64      `json:"client_id"`
	ContractorID   *int64     `json:"contractor_id,omitempty"`
	ManagerID      *int64     `json:"manager_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	AssignedAt     *time.Time `json:"assigned_at,omitempty"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`

	NotInWorkInformed bool `json:"not_in_work_informed"`
	LateWorkInformed  bool `json:"late_work_informed"`

	// Ники подтягиваются join-ом, чтобы уведомления и списки не ходили в базу повторно
	ClientNick     string `json:"client_nick,omitempty"`
	ContractorNick string `json:"contractor_nick,omitempty"`
}

// Closed сообщает, завершён ли заказ
func (o *Order) Closed() bool {
	return o.ClosedAt != nil
}
