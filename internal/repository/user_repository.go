package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kontentus/contentbot/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) DB() *sql.DB {
	return r.db
}

func (r *UserRepository) FindByID(ctx context.Context, userID int64) (*models.User, error) {
	const query = `
SELECT user_id, free_generations, referrer_id, invited_count, joined_bonus, created_at, updated_at
FROM users WHERE user_id = ?`
	row := r.db.QueryRowContext(ctx, query, userID)
	var u models.User
	var referrer sql.NullInt64
	var joined int
	if err := row.Scan(&u.UserID, &u.FreeGenerations, &referrer, &u.InvitedCount, &joined, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if referrer.Valid {
		id := referrer.Int64
		u.ReferrerID = &id
	}
	u.JoinedBonus = joined != 0
	return &u, nil
}

// Create inserts the row for a first-contact user. referrerID may be nil.
func (r *UserRepository) Create(ctx context.Context, userID int64, referrerID *int64, freeGenerations int) error {
	const query = `
INSERT INTO users (user_id, free_generations, referrer_id)
VALUES (?, ?, ?)`
	var ref sql.NullInt64
	if referrerID != nil {
		ref = sql.NullInt64{Int64: *referrerID, Valid: true}
	}
	if _, err := r.db.ExecContext(ctx, query, userID, freeGenerations, ref); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetOrCreate returns the existing row or inserts a default one. This is the
// fallback path for identities that reach any handler before /start.
func (r *UserRepository) GetOrCreate(ctx context.Context, userID int64, freeGenerations int) (*models.User, bool, error) {
	user, err := r.FindByID(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if user != nil {
		return user, false, nil
	}
	if err := r.Create(ctx, userID, nil, freeGenerations); err != nil {
		return nil, false, err
	}
	user, err = r.FindByID(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if user == nil {
		return nil, false, fmt.Errorf("user %d missing after insert", userID)
	}
	return user, true, nil
}

// CreditReferrer adds the referral bonus and bumps invited_count in one
// statement. Reports whether the credit applied, i.e. the referrer row exists.
func (r *UserRepository) CreditReferrer(ctx context.Context, referrerID int64, amount int) (bool, error) {
	const query = `
UPDATE users
SET free_generations = free_generations + ?, invited_count = invited_count + 1, updated_at = CURRENT_TIMESTAMP
WHERE user_id = ?`
	res, err := r.db.ExecContext(ctx, query, amount, referrerID)
	if err != nil {
		return false, fmt.Errorf("credit referrer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("credit referrer rows affected: %w", err)
	}
	return affected > 0, nil
}

// ConsumeGeneration decrements the free counter only while it is positive, so
// the quota can never go negative even under concurrent requests.
func (r *UserRepository) ConsumeGeneration(ctx context.Context, userID int64) (bool, error) {
	const query = `
UPDATE users SET free_generations = free_generations - 1, updated_at = CURRENT_TIMESTAMP
WHERE user_id = ? AND free_generations > 0`
	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return false, fmt.Errorf("consume generation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("consume rows affected: %w", err)
	}
	return affected > 0, nil
}

// GrantJoinBonus applies the one-time subscription bonus. The joined_bonus
// guard makes the grant idempotent.
func (r *UserRepository) GrantJoinBonus(ctx context.Context, userID int64, amount int) (bool, error) {
	const query = `
UPDATE users
SET free_generations = free_generations + ?, joined_bonus = 1, updated_at = CURRENT_TIMESTAMP
WHERE user_id = ? AND joined_bonus = 0`
	res, err := r.db.ExecContext(ctx, query, amount, userID)
	if err != nil {
		return false, fmt.Errorf("grant join bonus: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("join bonus rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (r *UserRepository) ListUserIDs(ctx context.Context) ([]int64, error) {
	const query = `SELECT user_id FROM users`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
