package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/connectone/tradecore/internal/domain/escrow"
	"github.com/connectone/tradecore/internal/domain/listing"
)

// EscrowRepository implements escrow.Repository.
type EscrowRepository struct {
	pool *pgxpool.Pool
}

func NewEscrowRepository(pool *pgxpool.Pool) *EscrowRepository {
	return &EscrowRepository{pool: pool}
}

const tradeColumns = `id, trade_id, listing_id, chat_id, buyer_id, seller_id, price, status, tracking_number, cancel_reason, created_at, updated_at, paid_at, shipped_at, delivered_at, confirmed_at, cancelled_at`

func (r *EscrowRepository) Create(ctx context.Context, t *escrow.Trade) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO trades
		(trade_id, listing_id, chat_id, buyer_id, seller_id, price, status, tracking_number, cancel_reason, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, t.TradeID, t.ListingID, t.ChatID, t.BuyerID, t.SellerID, t.Price, t.Status, t.TrackingNumber, t.CancelReason, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *EscrowRepository) GetByID(ctx context.Context, tradeID uuid.UUID) (*escrow.Trade, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+tradeColumns+`
		FROM trades WHERE trade_id=$1
	`, tradeID)
	return scanTrade(row)
}

func (r *EscrowRepository) GetByChatID(ctx context.Context, chatID uuid.UUID) (*escrow.Trade, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+tradeColumns+`
		FROM trades WHERE chat_id=$1
		ORDER BY created_at DESC LIMIT 1
	`, chatID)
	return scanTrade(row)
}

// GetOpenByListingID finds a trade on the listing that has not reached
// a terminal status.
func (r *EscrowRepository) GetOpenByListingID(ctx context.Context, listingID uuid.UUID) (*escrow.Trade, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE listing_id=$1 AND status NOT IN ($2, $3, $4)
		ORDER BY created_at DESC LIMIT 1
	`, listingID, listing.StatusSold, listing.StatusCancelled, listing.StatusDeleted)
	return scanTrade(row)
}

func (r *EscrowRepository) List(ctx context.Context, status *listing.Status, limit, offset int) ([]*escrow.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades`
	args := []interface{}{}
	idx := 1
	if status != nil {
		query += " WHERE status=$" + itoa(idx)
		args = append(args, *status)
		idx++
	}
	query += " ORDER BY created_at DESC LIMIT $" + itoa(idx) + " OFFSET $" + itoa(idx+1)
	args = append(args, clampLimit(limit), offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTrades(rows)
}

func (r *EscrowRepository) ListByParty(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*escrow.Trade, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+tradeColumns+`
		FROM trades WHERE buyer_id=$1 OR seller_id=$1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, clampLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTrades(rows)
}

// UpdateGuarded persists the trade with a compare-and-set on status.
func (r *EscrowRepository) UpdateGuarded(ctx context.Context, t *escrow.Trade, expected listing.Status) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE trades
		SET status=$1, tracking_number=$2, cancel_reason=$3, updated_at=$4,
		    paid_at=$5, shipped_at=$6, delivered_at=$7, confirmed_at=$8, cancelled_at=$9
		WHERE trade_id=$10 AND status=$11
	`, t.Status, t.TrackingNumber, t.CancelReason, t.UpdatedAt,
		t.PaidAt, t.ShippedAt, t.DeliveredAt, t.ConfirmedAt, t.CancelledAt,
		t.TradeID, expected)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: trade %s is no longer %s", escrow.ErrStatusConflict, t.TradeID, expected)
	}
	return nil
}

func (r *EscrowRepository) ListAutoConfirmable(ctx context.Context, before time.Time, limit int) ([]*escrow.Trade, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE status=$1 AND delivered_at IS NOT NULL AND delivered_at < $2
		ORDER BY delivered_at ASC LIMIT $3
	`, listing.StatusShipped, before, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTrades(rows)
}

func (r *EscrowRepository) RecordTransition(ctx context.Context, rec *escrow.TransitionRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO trade_transitions
		(record_id, trade_id, from_status, to_status, trigger_role, action, actor, reason, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, rec.RecordID, rec.TradeID, rec.FromStatus, rec.ToStatus, rec.Trigger, rec.Action, rec.Actor, rec.Reason, rec.CreatedAt)
	return err
}

func (r *EscrowRepository) ListTransitions(ctx context.Context, tradeID uuid.UUID) ([]*escrow.TransitionRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, record_id, trade_id, from_status, to_status, trigger_role, action, actor, reason, created_at
		FROM trade_transitions WHERE trade_id=$1
		ORDER BY created_at ASC, id ASC
	`, tradeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*escrow.TransitionRecord
	for rows.Next() {
		var rec escrow.TransitionRecord
		if err := rows.Scan(&rec.ID, &rec.RecordID, &rec.TradeID, &rec.FromStatus, &rec.ToStatus, &rec.Trigger, &rec.Action, &rec.Actor, &rec.Reason, &rec.CreatedAt); err != nil {
			return nil, err
		}
		recs = append(recs, &rec)
	}
	return recs, rows.Err()
}

func collectTrades(rows pgx.Rows) ([]*escrow.Trade, error) {
	var trades []*escrow.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func scanTrade(row pgx.Row) (*escrow.Trade, error) {
	var t escrow.Trade
	if err := row.Scan(&t.ID, &t.TradeID, &t.ListingID, &t.ChatID, &t.BuyerID, &t.SellerID, &t.Price, &t.Status,
		&t.TrackingNumber, &t.CancelReason, &t.CreatedAt, &t.UpdatedAt,
		&t.PaidAt, &t.ShippedAt, &t.DeliveredAt, &t.ConfirmedAt, &t.CancelledAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
