package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/connectone/tradecore/internal/domain/grading"
	"github.com/connectone/tradecore/internal/domain/listing"
)

// GradingRepository implements grading.Repository.
type GradingRepository struct {
	pool *pgxpool.Pool
}

func NewGradingRepository(pool *pgxpool.Pool) *GradingRepository {
	return &GradingRepository{pool: pool}
}

func (r *GradingRepository) Upsert(ctx context.Context, g *grading.SellerGrade) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO seller_grades
		(seller_id, grade, sold_count, cancelled_count, completion_rate, last_computed_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
		ON CONFLICT (seller_id) DO UPDATE SET
			grade=EXCLUDED.grade,
			sold_count=EXCLUDED.sold_count,
			cancelled_count=EXCLUDED.cancelled_count,
			completion_rate=EXCLUDED.completion_rate,
			last_computed_at=EXCLUDED.last_computed_at,
			updated_at=NOW()
	`, g.SellerID, g.Grade, g.SoldCount, g.CancelledCount, g.CompletionRate, g.LastComputedAt, g.CreatedAt)
	return err
}

func (r *GradingRepository) GetBySellerID(ctx context.Context, sellerID uuid.UUID) (*grading.SellerGrade, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, seller_id, grade, sold_count, cancelled_count, completion_rate, last_computed_at, created_at, updated_at
		FROM seller_grades WHERE seller_id=$1
	`, sellerID)
	return scanGrade(row)
}

// CountClosedTrades tallies a seller's terminal trades from the trades
// table; the grade record is a cache of this query.
func (r *GradingRepository) CountClosedTrades(ctx context.Context, sellerID uuid.UUID) (grading.TradeCounts, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status=$2),
			COUNT(*) FILTER (WHERE status=$3)
		FROM trades WHERE seller_id=$1
	`, sellerID, listing.StatusSold, listing.StatusCancelled)

	var counts grading.TradeCounts
	if err := row.Scan(&counts.Sold, &counts.Cancelled); err != nil {
		return grading.TradeCounts{}, err
	}
	return counts, nil
}

func (r *GradingRepository) ListTop(ctx context.Context, limit int) ([]*grading.SellerGrade, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, seller_id, grade, sold_count, cancelled_count, completion_rate, last_computed_at, created_at, updated_at
		FROM seller_grades
		ORDER BY sold_count DESC, completion_rate DESC LIMIT $1
	`, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grades []*grading.SellerGrade
	for rows.Next() {
		g, err := scanGrade(rows)
		if err != nil {
			return nil, err
		}
		grades = append(grades, g)
	}
	return grades, rows.Err()
}

func scanGrade(row pgx.Row) (*grading.SellerGrade, error) {
	var g grading.SellerGrade
	if err := row.Scan(&g.ID, &g.SellerID, &g.Grade, &g.SoldCount, &g.CancelledCount, &g.CompletionRate, &g.LastComputedAt, &g.CreatedAt, &g.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}
