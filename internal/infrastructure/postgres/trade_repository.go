package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/connectone/tradecore/internal/domain/trade"
)

// TradeStateRepository implements trade.Repository for direct trades.
type TradeStateRepository struct {
	pool *pgxpool.Pool
}

func NewTradeStateRepository(pool *pgxpool.Pool) *TradeStateRepository {
	return &TradeStateRepository{pool: pool}
}

func (r *TradeStateRepository) Create(ctx context.Context, s *trade.State) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO trade_states (chat_id, status, updated_by, updated_at, notes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, s.ChatID, s.Status, s.UpdatedBy, s.UpdatedAt, s.Notes, s.CreatedAt)
	return err
}

func (r *TradeStateRepository) GetByChatID(ctx context.Context, chatID uuid.UUID) (*trade.State, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, chat_id, status, updated_by, updated_at, notes, created_at
		FROM trade_states WHERE chat_id=$1
	`, chatID)

	var s trade.State
	if err := row.Scan(&s.ID, &s.ChatID, &s.Status, &s.UpdatedBy, &s.UpdatedAt, &s.Notes, &s.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *TradeStateRepository) Update(ctx context.Context, s *trade.State) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE trade_states
		SET status=$1, updated_by=$2, updated_at=$3, notes=$4
		WHERE chat_id=$5
	`, s.Status, s.UpdatedBy, s.UpdatedAt, s.Notes, s.ChatID)
	return err
}
