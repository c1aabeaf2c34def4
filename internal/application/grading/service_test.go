package grading

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/connectone/tradecore/internal/domain/grading"
)

type fakeGradeRepo struct {
	grades map[uuid.UUID]*domain.SellerGrade
	counts map[uuid.UUID]domain.TradeCounts
}

func newFakeGradeRepo() *fakeGradeRepo {
	return &fakeGradeRepo{
		grades: map[uuid.UUID]*domain.SellerGrade{},
		counts: map[uuid.UUID]domain.TradeCounts{},
	}
}

func (r *fakeGradeRepo) Upsert(_ context.Context, g *domain.SellerGrade) error {
	r.grades[g.SellerID] = g
	return nil
}

func (r *fakeGradeRepo) GetBySellerID(_ context.Context, sellerID uuid.UUID) (*domain.SellerGrade, error) {
	return r.grades[sellerID], nil
}

func (r *fakeGradeRepo) CountClosedTrades(_ context.Context, sellerID uuid.UUID) (domain.TradeCounts, error) {
	return r.counts[sellerID], nil
}

func (r *fakeGradeRepo) ListTop(_ context.Context, limit int) ([]*domain.SellerGrade, error) {
	var out []*domain.SellerGrade
	for _, g := range r.grades {
		out = append(out, g)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func TestRefreshSeller(t *testing.T) {
	t.Run("computes the grade from closed trades", func(t *testing.T) {
		repo := newFakeGradeRepo()
		svc := NewService(repo, zerolog.Nop())
		sellerID := uuid.New()
		repo.counts[sellerID] = domain.TradeCounts{Sold: 60, Cancelled: 2}

		require.NoError(t, svc.RefreshSeller(context.Background(), sellerID))
		g := repo.grades[sellerID]
		require.NotNil(t, g)
		assert.Equal(t, domain.GradeGold, g.Grade)
		assert.Equal(t, 60, g.SoldCount)
	})

	t.Run("upgrades an existing grade in place", func(t *testing.T) {
		repo := newFakeGradeRepo()
		svc := NewService(repo, zerolog.Nop())
		sellerID := uuid.New()
		repo.counts[sellerID] = domain.TradeCounts{Sold: 6, Cancelled: 0}
		require.NoError(t, svc.RefreshSeller(context.Background(), sellerID))
		assert.Equal(t, domain.GradeBronze, repo.grades[sellerID].Grade)

		repo.counts[sellerID] = domain.TradeCounts{Sold: 120, Cancelled: 3}
		require.NoError(t, svc.RefreshSeller(context.Background(), sellerID))
		assert.Equal(t, domain.GradePlatinum, repo.grades[sellerID].Grade)
	})
}

func TestGetSellerGrade(t *testing.T) {
	t.Run("computes on first read", func(t *testing.T) {
		repo := newFakeGradeRepo()
		svc := NewService(repo, zerolog.Nop())
		sellerID := uuid.New()

		g, err := svc.GetSellerGrade(context.Background(), sellerID)
		require.NoError(t, err)
		require.NotNil(t, g)
		assert.Equal(t, domain.GradeNew, g.Grade)
	})

	t.Run("returns the stored grade afterwards", func(t *testing.T) {
		repo := newFakeGradeRepo()
		svc := NewService(repo, zerolog.Nop())
		sellerID := uuid.New()
		stored := domain.NewSellerGrade(sellerID)
		stored.Grade = domain.GradeSilver
		repo.grades[sellerID] = stored

		g, err := svc.GetSellerGrade(context.Background(), sellerID)
		require.NoError(t, err)
		assert.Equal(t, domain.GradeSilver, g.Grade)
	})
}

func TestTopSellers(t *testing.T) {
	repo := newFakeGradeRepo()
	svc := NewService(repo, zerolog.Nop())
	for i := 0; i < 5; i++ {
		id := uuid.New()
		repo.grades[id] = domain.NewSellerGrade(id)
	}

	got, err := svc.TopSellers(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// out-of-range limits fall back to the default
	got, err = svc.TopSellers(context.Background(), -1)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}
