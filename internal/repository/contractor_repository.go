package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/supportdesk/support_bot/internal/model"
	"github.com/supportdesk/support_bot/internal/repository/base"
)

type ContractorRepository struct {
	*base.Repository
}

func NewContractorRepository(pool *pgxpool.Pool) *ContractorRepository {
	return &ContractorRepository{Repository: base.NewRepository(pool)}
}

// Available возвращает активных подрядчиков без незакрытых заказов.
// Доступность всегда вычисляется запросом и нигде не кешируется.
func (r *ContractorRepository) Available(ctx context.Context) ([]*model.Contractor, error) {
	query := `
		SELECT c.id, c.tg_nick, c.status, c.created_at
		FROM contractors c
		WHERE c.status = 'active'
		  AND NOT EXISTS (
			SELECT 1 FROM orders o
			WHERE o.contractor_id = c.id AND o.closed_at IS NULL
		  )
		ORDER BY c.tg_nick
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get available contractors: %w", err)
	}
	defer rows.Close()

	var contractors []*model.Contractor
	for rows.Next() {
		var contractor model.Contractor
		err := rows.Scan(
			&contractor.ID,
			&contractor.TgNick,
			&contractor.Status,
			&contractor.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan contractor: %w", err)
		}
		contractors = append(contractors, &contractor)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contractors: %w", err)
	}

	return contractors, nil
}

// ByNick возвращает подрядчика по нику, nil если такого нет
func (r *ContractorRepository) ByNick(ctx context.Context, tgNick string) (*model.Contractor, error) {
	query := `
		SELECT id, tg_nick, status, created_at
		FROM contractors
		WHERE tg_nick = $1
	`

	var contractor model.Contractor
	err := r.QueryRow(ctx, query, tgNick).Scan(
		&contractor.ID,
		&contractor.TgNick,
		&contractor.Status,
		&contractor.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contractor by nick: %w", err)
	}

	return &contractor, nil
}
