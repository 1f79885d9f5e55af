package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/supportdesk/support_bot/internal/model"
	"github.com/supportdesk/support_bot/internal/repository/base"
)

const botUserColumns = `id, COALESCE(telegram_id, 0), tg_nick, role, status, COALESCE(bot_state, ''), created_at`

type UserRepository struct {
	*base.Repository
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{Repository: base.NewRepository(pool)}
}

// FindActive ищет единственного активного пользователя, у которого совпал ник
// или telegram id. Отсутствие пользователя не ошибка: возвращается (nil, nil).
// Уникальность активного ника и telegram id обеспечивают частичные индексы в схеме.
func (r *UserRepository) FindActive(ctx context.Context, tgNick string, telegramID int64) (*model.BotUser, error) {
	query := `
		SELECT ` + botUserColumns + `
		FROM bot_users
		WHERE status = 'active' AND (tg_nick = $1 OR telegram_id = $2)
		LIMIT 1
	`

	user, err := scanUser(r.QueryRow(ctx, query, tgNick, telegramID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active user: %w", err)
	}

	return user, nil
}

// FindActiveByNick ищет активного пользователя по нику
func (r *UserRepository) FindActiveByNick(ctx context.Context, tgNick string) (*model.BotUser, error) {
	query := `
		SELECT ` + botUserColumns + `
		FROM bot_users
		WHERE status = 'active' AND tg_nick = $1
	`

	user, err := scanUser(r.QueryRow(ctx, query, tgNick))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active user by nick: %w", err)
	}

	return user, nil
}

// ActiveByRole возвращает всех активных пользователей с заданной ролью
func (r *UserRepository) ActiveByRole(ctx context.Context, role model.Role) ([]*model.BotUser, error) {
	query := `
		SELECT ` + botUserColumns + `
		FROM bot_users
		WHERE status = 'active' AND role = $1
		ORDER BY tg_nick
	`

	rows, err := r.Query(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("get users by role: %w", err)
	}
	defer rows.Close()

	var users []*model.BotUser
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// UpdateState сохраняет метку состояния диалога на записи пользователя
func (r *UserRepository) UpdateState(ctx context.Context, userID int64, state string) error {
	affected, err := r.ExecAffected(ctx, `UPDATE bot_users SET bot_state = $1 WHERE id = $2`, state, userID)
	if err != nil {
		return fmt.Errorf("update bot state: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("bot user %d not found", userID)
	}
	return nil
}

// Create заводит нового пользователя бота
func (r *UserRepository) Create(ctx context.Context, user *model.BotUser) error {
	query := `
		INSERT INTO bot_users (telegram_id, tg_nick, role, status)
		VALUES (NULLIF($1, 0), $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, user.TelegramID, user.TgNick, user.Role, user.Status).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("create bot user: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*model.BotUser, error) {
	var user model.BotUser
	err := row.Scan(
		&user.ID,
		&user.TelegramID,
		&user.TgNick,
		&user.Role,
		&user.Status,
		&user.BotState,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
