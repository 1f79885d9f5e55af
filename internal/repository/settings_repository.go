package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/supportdesk/support_bot/internal/repository/base"
)

type SettingsRepository struct {
	*base.Repository
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{Repository: base.NewRepository(pool)}
}

// Value возвращает текстовое значение системного параметра.
// Отсутствующий параметр равнозначен пустому значению: дефолт подставляет потребитель.
func (r *SettingsRepository) Value(ctx context.Context, name string) (string, error) {
	query := `
		SELECT parameter_value
		FROM system_settings
		WHERE parameter_name = $1
	`

	var value string
	err := r.QueryRow(ctx, query, name).Scan(&value)
	if err != nil {
		if base.IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("get system setting %q: %w", name, err)
	}

	return value, nil
}
