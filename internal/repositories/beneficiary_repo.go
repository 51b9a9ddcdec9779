package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/exchange-ui/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BeneficiaryRepo struct {
	pool *pgxpool.Pool
}

func NewBeneficiaryRepo(pool *pgxpool.Pool) *BeneficiaryRepo {
	return &BeneficiaryRepo{pool: pool}
}

const beneficiaryColumns = `id, user_id, currency, name, kind, state, data, description, created_at, updated_at`

// List returns the user's beneficiaries, oldest first. Empty currency means all.
func (r *BeneficiaryRepo) List(ctx context.Context, userID uuid.UUID, currency string) ([]models.Beneficiary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+beneficiaryColumns+`
		FROM beneficiaries
		WHERE user_id = $1 AND ($2 = '' OR currency = $2)
		ORDER BY id
	`, userID, currency)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Beneficiary
	for rows.Next() {
		b, err := scanBeneficiary(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *b)
	}
	return items, rows.Err()
}

func (r *BeneficiaryRepo) GetByID(ctx context.Context, userID uuid.UUID, id int64) (*models.Beneficiary, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+beneficiaryColumns+`
		FROM beneficiaries WHERE id = $1 AND user_id = $2
	`, id, userID)
	b, err := scanBeneficiary(row)
	if err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

func (r *BeneficiaryRepo) Count(ctx context.Context, userID uuid.UUID, currency string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM beneficiaries WHERE user_id = $1 AND currency = $2
	`, userID, currency).Scan(&n)
	return n, err
}

// Create inserts b as pending together with its confirmation pin.
func (r *BeneficiaryRepo) Create(ctx context.Context, b *models.Beneficiary, pin models.PinChallenge) error {
	data, err := json.Marshal(b.Data)
	if err != nil {
		return fmt.Errorf("marshal destination: %w", err)
	}

	var state string
	err = r.pool.QueryRow(ctx, `
		INSERT INTO beneficiaries (user_id, currency, name, kind, state, data, description, pin_hash, pin_expires_at, pin_sent_at)
		VALUES ($1, $2, $3, $4, 'pending', $5, $6, $7, $8, $9)
		RETURNING id, state, created_at, updated_at
	`, b.UserID, b.Currency, b.Name, string(b.Type()), data, b.Description, pin.Hash, pin.ExpiresAt, pin.SentAt,
	).Scan(&b.ID, &state, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return err
	}
	b.State = models.ParseBeneficiaryState(state)
	return nil
}

func (r *BeneficiaryRepo) GetPin(ctx context.Context, userID uuid.UUID, id int64) (*models.PinChallenge, error) {
	var (
		p         models.PinChallenge
		hash      *string
		expiresAt *time.Time
		sentAt    *time.Time
	)
	err := r.pool.QueryRow(ctx, `
		SELECT pin_hash, pin_expires_at, pin_sent_at, pin_attempts
		FROM beneficiaries WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(&hash, &expiresAt, &sentAt, &p.Attempts)
	if err != nil {
		return nil, notFound(err)
	}
	if hash == nil {
		return nil, ErrNotFound
	}
	p.Hash = *hash
	if expiresAt != nil {
		p.ExpiresAt = *expiresAt
	}
	if sentAt != nil {
		p.SentAt = *sentAt
	}
	return &p, nil
}

func (r *BeneficiaryRepo) UpdatePin(ctx context.Context, userID uuid.UUID, id int64, pin models.PinChallenge) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE beneficiaries
		SET pin_hash = $3, pin_expires_at = $4, pin_sent_at = $5, pin_attempts = 0, updated_at = now()
		WHERE id = $1 AND user_id = $2 AND state = 'pending'
	`, id, userID, pin.Hash, pin.ExpiresAt, pin.SentAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordPinFailure counts a wrong pin and returns the attempts so far.
func (r *BeneficiaryRepo) RecordPinFailure(ctx context.Context, userID uuid.UUID, id int64) (int, error) {
	var attempts int
	err := r.pool.QueryRow(ctx, `
		UPDATE beneficiaries
		SET pin_attempts = pin_attempts + 1, updated_at = now()
		WHERE id = $1 AND user_id = $2 AND state = 'pending'
		RETURNING pin_attempts
	`, id, userID).Scan(&attempts)
	if err != nil {
		return 0, notFound(err)
	}
	return attempts, nil
}

// Activate moves a pending beneficiary to active and drops its pin.
func (r *BeneficiaryRepo) Activate(ctx context.Context, userID uuid.UUID, id int64) (*models.Beneficiary, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE beneficiaries
		SET state = 'active', pin_hash = NULL, pin_expires_at = NULL, pin_sent_at = NULL, pin_attempts = 0, updated_at = now()
		WHERE id = $1 AND user_id = $2 AND state = 'pending'
		RETURNING `+beneficiaryColumns, id, userID)
	b, err := scanBeneficiary(row)
	if err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

func (r *BeneficiaryRepo) Delete(ctx context.Context, userID uuid.UUID, id int64) (*models.Beneficiary, error) {
	row := r.pool.QueryRow(ctx, `
		DELETE FROM beneficiaries WHERE id = $1 AND user_id = $2
		RETURNING `+beneficiaryColumns, id, userID)
	b, err := scanBeneficiary(row)
	if err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

func scanBeneficiary(row pgx.Row) (*models.Beneficiary, error) {
	var (
		b     models.Beneficiary
		kind  string
		state string
		data  []byte
	)
	err := row.Scan(&b.ID, &b.UserID, &b.Currency, &b.Name, &kind, &state, &data, &b.Description, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.State = models.ParseBeneficiaryState(state)
	dest, err := models.DecodeDestination(models.BeneficiaryType(kind), data)
	if err != nil {
		return nil, fmt.Errorf("beneficiary %d: %w", b.ID, err)
	}
	b.Data = dest
	return &b, nil
}
