package repositories

import (
	"context"
	"fmt"

	"github.com/exchange-ui/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MemberRepo struct {
	pool *pgxpool.Pool
}

func NewMemberRepo(pool *pgxpool.Pool) *MemberRepo {
	return &MemberRepo{pool: pool}
}

func (r *MemberRepo) Levels(ctx context.Context) (*models.MemberLevels, error) {
	rows, err := r.pool.Query(ctx, `SELECT operation, minimum_level FROM member_levels`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels models.MemberLevels
	for rows.Next() {
		var (
			op  string
			minimum int
		)
		if err := rows.Scan(&op, &minimum); err != nil {
			return nil, err
		}
		switch op {
		case "deposit":
			levels.Deposit.MinimumLevel = minimum
		case "withdraw":
			levels.Withdraw.MinimumLevel = minimum
		case "trading":
			levels.Trading.MinimumLevel = minimum
		default:
			return nil, fmt.Errorf("unknown member level operation %q", op)
		}
	}
	return &levels, rows.Err()
}

func (r *MemberRepo) GetUser(ctx context.Context, id uuid.UUID) (*models.UserInfo, error) {
	var u models.UserInfo
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, level, state FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.Level, &u.State)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}
