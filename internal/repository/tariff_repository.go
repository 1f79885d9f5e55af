package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/supportdesk/support_bot/internal/model"
	"github.com/supportdesk/support_bot/internal/repository/base"
)

type TariffRepository struct {
	*base.Repository
}

func NewTariffRepository(pool *pgxpool.Pool) *TariffRepository {
	return &TariffRepository{Repository: base.NewRepository(pool)}
}

// ByClientNick возвращает тариф клиента, nil если тариф не назначен
func (r *TariffRepository) ByClientNick(ctx context.Context, tgNick string) (*model.Tariff, error) {
	query := `
		SELECT t.id, t.name, t.price, t.orders_limit, t.created_at
		FROM tariffs t
		JOIN clients cl ON cl.tariff_id = t.id
		WHERE cl.tg_nick = $1
	`

	var tariff model.Tariff
	err := r.QueryRow(ctx, query, tgNick).Scan(
		&tariff.ID,
		&tariff.Name,
		&tariff.Price,
		&tariff.OrdersLimit,
		&tariff.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tariff by client: %w", err)
	}

	return &tariff, nil
}
