package grading

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domain "github.com/connectone/tradecore/internal/domain/grading"
)

// Service maintains seller grades from closed-trade history.
type Service struct {
	repo   domain.Repository
	logger zerolog.Logger
}

// NewService creates a grading service.
func NewService(repo domain.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("service", "grading").Logger(),
	}
}

// RefreshSeller recomputes a seller's grade from their closed trades.
func (s *Service) RefreshSeller(ctx context.Context, sellerID uuid.UUID) error {
	counts, err := s.repo.CountClosedTrades(ctx, sellerID)
	if err != nil {
		return fmt.Errorf("failed to count trades for seller %s: %w", sellerID, err)
	}

	grade, err := s.repo.GetBySellerID(ctx, sellerID)
	if err != nil {
		return err
	}
	if grade == nil {
		grade = domain.NewSellerGrade(sellerID)
	}

	before := grade.Grade
	grade.Recompute(counts.Sold, counts.Cancelled, time.Now().UTC())
	if err := s.repo.Upsert(ctx, grade); err != nil {
		return err
	}

	if grade.Grade != before {
		s.logger.Info().
			Str("seller_id", sellerID.String()).
			Str("from", string(before)).
			Str("to", string(grade.Grade)).
			Msg("seller grade changed")
	}
	return nil
}

// GetSellerGrade retrieves a seller's grade, computing it on first read.
func (s *Service) GetSellerGrade(ctx context.Context, sellerID uuid.UUID) (*domain.SellerGrade, error) {
	grade, err := s.repo.GetBySellerID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if grade == nil {
		if err := s.RefreshSeller(ctx, sellerID); err != nil {
			return nil, err
		}
		return s.repo.GetBySellerID(ctx, sellerID)
	}
	return grade, nil
}

// TopSellers lists the highest-graded sellers.
func (s *Service) TopSellers(ctx context.Context, limit int) ([]*domain.SellerGrade, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListTop(ctx, limit)
}
