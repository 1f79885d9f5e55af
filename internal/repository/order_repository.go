package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/supportdesk/support_bot/internal/model"
	"github.com/supportdesk/support_bot/internal/repository/base"
)

type OrderRepository struct {
	*base.Repository
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{Repository: base.NewRepository(pool)}
}

// ActiveByContractor возвращает незакрытые заказы подрядчика
func (r *OrderRepository) ActiveByContractor(ctx context.Context, tgNick string) ([]*model.Order, error) {
	query := `
		SELECT o.id, o.task, o.creds, o.estimated_hours, o.client_id, o.contractor_id, o.manager_id,
		       o.created_at, o.assigned_at, o.closed_at, o.not_in_work_informed, o.late_work_informed,
		       cl.tg_nick, c.tg_nick
		FROM orders o
		JOIN contractors c ON c.id = o.contractor_id
		JOIN clients cl ON cl.id = o.client_id
		WHERE c.tg_nick = $1 AND o.closed_at IS NULL
		ORDER BY o.created_at
	`

	rows, err := r.Query(ctx, query, tgNick)
	if err != nil {
		return nil, fmt.Errorf("get active orders by contractor: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// ByClient возвращает все заказы клиента, свежие первыми
func (r *OrderRepository) ByClient(ctx context.Context, tgNick string) ([]*model.Order, error) {
	query := `
		SELECT o.id, o.task, o.creds, o.estimated_hours, o.client_id, o.contractor_id, o.manager_id,
		       o.created_at, o.assigned_at, o.closed_at, o.not_in_work_informed, o.late_work_informed,
		       cl.tg_nick, COALESCE(c.tg_nick, '')
		FROM orders o
		JOIN clients cl ON cl.id = o.client_id
		LEFT JOIN contractors c ON c.id = o.contractor_id
		WHERE cl.tg_nick = $1
		ORDER BY o.created_at DESC
	`

	rows, err := r.Query(ctx, query, tgNick)
	if err != nil {
		return nil, fmt.Errorf("get orders by client: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// CloseActive завершает незакрытые заказы подрядчика и возвращает их количество
func (r *OrderRepository) CloseActive(ctx context.Context, tgNick string) (int64, error) {
	query := `
		UPDATE orders
		SET closed_at = now()
		WHERE closed_at IS NULL
		  AND contractor_id = (SELECT id FROM contractors WHERE tg_nick = $1)
	`

	affected, err := r.ExecAffected(ctx, query, tgNick)
	if err != nil {
		return 0, fmt.Errorf("close active orders: %w", err)
	}

	return affected, nil
}

// MonthEstimatedHours суммирует оценённые часы заказов подрядчика, закрытых после since
func (r *OrderRepository) MonthEstimatedHours(ctx context.Context, tgNick string, since time.Time) (int, error) {
	query := `
		SELECT COALESCE(SUM(o.estimated_hours), 0)
		FROM orders o
		JOIN contractors c ON c.id = o.contractor_id
		WHERE c.tg_nick = $1 AND o.closed_at >= $2
	`

	var hours int
	if err := r.QueryRow(ctx, query, tgNick, since).Scan(&hours); err != nil {
		return 0, fmt.Errorf("sum estimated hours: %w", err)
	}

	return hours, nil
}

// ContractorBilling считает закрытые заказы по подрядчикам за период [from, to)
func (r *OrderRepository) ContractorBilling(ctx context.Context, from, to time.Time) ([]model.ContractorBilling, error) {
	query := `
		SELECT c.tg_nick, COUNT(*)
		FROM orders o
		JOIN contractors c ON c.id = o.contractor_id
		WHERE o.closed_at >= $1 AND o.closed_at < $2
		GROUP BY c.tg_nick
		ORDER BY COUNT(*) DESC, c.tg_nick
	`

	rows, err := r.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("calculate contractor billing: %w", err)
	}
	defer rows.Close()

	var billing []model.ContractorBilling
	for rows.Next() {
		var row model.ContractorBilling
		if err := rows.Scan(&row.ContractorNick, &row.ClosedOrders); err != nil {
			return nil, fmt.Errorf("scan billing row: %w", err)
		}
		billing = append(billing, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate billing rows: %w", err)
	}

	return billing, nil
}

// OrdersPerClientByMonth считает число заказов каждого клиента помесячно
func (r *OrderRepository) OrdersPerClientByMonth(ctx context.Context) ([]model.ClientOrdersStat, error) {
	query := `
		SELECT date_trunc('month', o.created_at), cl.tg_nick, COUNT(*)
		FROM orders o
		JOIN clients cl ON cl.id = o.client_id
		GROUP BY 1, cl.tg_nick
		ORDER BY 1, cl.tg_nick
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("calculate orders per client: %w", err)
	}
	defer rows.Close()

	var stats []model.ClientOrdersStat
	for rows.Next() {
		var row model.ClientOrdersStat
		if err := rows.Scan(&row.PeriodStart, &row.ClientNick, &row.OrdersCount); err != nil {
			return nil, fmt.Errorf("scan stats row: %w", err)
		}
		stats = append(stats, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stats rows: %w", err)
	}

	return stats, nil
}

// ScanNotInWork выбирает заказы, которые никто не взял в работу дольше olderThan,
// вызывает notify для каждого и помечает заказ not_in_work_informed только после
// успешного уведомления. Выборка и пометка идут в одной транзакции с блокировкой
// строк, поэтому параллельный запуск сканера не приведёт к повторным уведомлениям.
func (r *OrderRepository) ScanNotInWork(ctx context.Context, olderThan time.Duration, notify func(*model.Order) error) (int, error) {
	query := `
		SELECT o.id, o.task, cl.tg_nick, ''
		FROM orders o
		JOIN clients cl ON cl.id = o.client_id
		WHERE o.contractor_id IS NULL
		  AND o.closed_at IS NULL
		  AND NOT o.not_in_work_informed
		  AND o.created_at <= $1
		ORDER BY o.created_at
		FOR UPDATE OF o SKIP LOCKED
	`

	return r.scanAndFlag(ctx, query, `UPDATE orders SET not_in_work_informed = true WHERE id = $1`, olderThan, notify)
}

// ScanNotClosed выбирает заказы, не закрытые дольше olderThan с момента назначения,
// с теми же транзакционными гарантиями, что и ScanNotInWork.
func (r *OrderRepository) ScanNotClosed(ctx context.Context, olderThan time.Duration, notify func(*model.Order) error) (int, error) {
	query := `
		SELECT o.id, o.task, cl.tg_nick, c.tg_nick
		FROM orders o
		JOIN clients cl ON cl.id = o.client_id
		JOIN contractors c ON c.id = o.contractor_id
		WHERE o.closed_at IS NULL
		  AND NOT o.late_work_informed
		  AND o.assigned_at IS NOT NULL
		  AND o.assigned_at <= $1
		ORDER BY o.assigned_at
		FOR UPDATE OF o SKIP LOCKED
	`

	return r.scanAndFlag(ctx, query, `UPDATE orders SET late_work_informed = true WHERE id = $1`, olderThan, notify)
}

func (r *OrderRepository) scanAndFlag(ctx context.Context, selectQuery, flagQuery string, olderThan time.Duration, notify func(*model.Order) error) (int, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin scan tx: %w", err)
	}
	defer tx.Rollback(ctx)

	cutoff := time.Now().Add(-olderThan)

	rows, err := tx.Query(ctx, selectQuery, cutoff)
	if err != nil {
		return 0, fmt.Errorf("select breaching orders: %w", err)
	}

	var orders []*model.Order
	for rows.Next() {
		var order model.Order
		if err := rows.Scan(&order.ID, &order.Task, &order.ClientNick, &order.ContractorNick); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan breaching order: %w", err)
		}
		orders = append(orders, &order)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate breaching orders: %w", err)
	}

	informed := 0
	for _, order := range orders {
		// Заказ без доставленного уведомления остаётся непомеченным
		// и попадёт в следующий цикл сканирования
		if err := notify(order); err != nil {
			continue
		}
		if _, err := tx.Exec(ctx, flagQuery, order.ID); err != nil {
			return informed, fmt.Errorf("flag order %d: %w", order.ID, err)
		}
		informed++
	}

	if err := tx.Commit(ctx); err != nil {
		return informed, fmt.Errorf("commit scan tx: %w", err)
	}

	return informed, nil
}

func collectOrders(rows pgx.Rows) ([]*model.Order, error) {
	var orders []*model.Order
	for rows.Next() {
		var order model.Order
		err := rows.Scan(
			&order.ID,
			&order.Task,
			&order.Creds,
			&order.EstimatedHours,
			&order.ClientID,
			&order.ContractorID,
			&order.ManagerID,
			&order.CreatedAt,
			&order.AssignedAt,
			&order.ClosedAt,
			&order.NotInWorkInformed,
			&order.LateWorkInformed,
			&order.ClientNick,
			&order.ContractorNick,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, &order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return orders, nil
}
