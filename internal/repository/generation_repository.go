package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kontentus/contentbot/internal/models"
)

type GenerationRepository struct {
	db *sql.DB
}

func NewGenerationRepository(db *sql.DB) *GenerationRepository {
	return &GenerationRepository{db: db}
}

func (r *GenerationRepository) Log(ctx context.Context, userID int64, mode models.GenerationMode, prompt string) error {
	const query = `
INSERT INTO generation_logs (user_id, mode, prompt)
VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, userID, mode, prompt); err != nil {
		return fmt.Errorf("insert generation log: %w", err)
	}
	return nil
}

func (r *GenerationRepository) Count(ctx context.Context) (int64, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM generation_logs`)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count generations: %w", err)
	}
	return count, nil
}

func (r *GenerationRepository) CountForUser(ctx context.Context, userID int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM generation_logs WHERE user_id = ?`
	row := r.db.QueryRowContext(ctx, query, userID)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count user generations: %w", err)
	}
	return count, nil
}
