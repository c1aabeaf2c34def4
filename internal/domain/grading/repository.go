package grading

import (
	"context"

	"github.com/google/uuid"
)

// TradeCounts holds closed-trade counts for a seller.
type TradeCounts struct {
	Sold      int
	Cancelled int
}

// Repository defines persistence for seller grades.
type Repository interface {
	// Upsert inserts or updates a seller's grade record
	Upsert(ctx context.Context, grade *SellerGrade) error

	// GetBySellerID retrieves a seller's grade record
	GetBySellerID(ctx context.Context, sellerID uuid.UUID) (*SellerGrade, error)

	// CountClosedTrades counts sold and cancelled trades for a seller
	CountClosedTrades(ctx context.Context, sellerID uuid.UUID) (TradeCounts, error)

	// ListTop retrieves the highest-graded sellers
	ListTop(ctx context.Context, limit int) ([]*SellerGrade, error)
}
