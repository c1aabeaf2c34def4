package grading

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Grade represents a seller grade tier.
type Grade string

const (
	GradeNew      Grade = "NEW"
	GradeBronze   Grade = "BRONZE"
	GradeSilver   Grade = "SILVER"
	GradeGold     Grade = "GOLD"
	GradePlatinum Grade = "PLATINUM"
)

// String returns the string representation of Grade
func (g Grade) String() string {
	return string(g)
}

// DisplayName returns the Korean display name for a grade.
func (g Grade) DisplayName() string {
	switch g {
	case GradeNew:
		return "신규 판매자"
	case GradeBronze:
		return "브론즈"
	case GradeSilver:
		return "실버"
	case GradeGold:
		return "골드"
	case GradePlatinum:
		return "플래티넘"
	default:
		return string(g)
	}
}

// ParseGrade parses a string to Grade
func ParseGrade(s string) (Grade, error) {
	switch Grade(s) {
	case GradeNew, GradeBronze, GradeSilver, GradeGold, GradePlatinum:
		return Grade(s), nil
	default:
		return GradeNew, fmt.Errorf("invalid grade: %s", s)
	}
}

// SellerGrade holds a seller's aggregated trade record and current grade.
type SellerGrade struct {
	ID              int64     `json:"id"`
	SellerID        uuid.UUID `json:"sellerId"`
	Grade           Grade     `json:"grade"`
	SoldCount       int       `json:"soldCount"`
	CancelledCount  int       `json:"cancelledCount"`
	CompletionRate  float64   `json:"completionRate"`
	LastComputedAt  time.Time `json:"lastComputedAt"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NewSellerGrade creates a grade record for a seller with no trade history.
func NewSellerGrade(sellerID uuid.UUID) *SellerGrade {
	now := time.Now().UTC()
	return &SellerGrade{
		SellerID:       sellerID,
		Grade:          GradeNew,
		LastComputedAt: now,
		CreatedAt:      now,
	}
}

// completionRate returns the share of closed trades that completed as sold.
func completionRate(sold, cancelled int) float64 {
	total := sold + cancelled
	if total == 0 {
		return 0
	}
	return float64(sold) / float64(total)
}

// Compute derives the grade tier from the sold count and completion rate.
// Tiers require both volume and a minimum completion rate, so a seller
// with many cancellations cannot climb on volume alone.
func Compute(sold, cancelled int) Grade {
	rate := completionRate(sold, cancelled)
	switch {
	case sold >= 100 && rate >= 0.95:
		return GradePlatinum
	case sold >= 50 && rate >= 0.90:
		return GradeGold
	case sold >= 20 && rate >= 0.85:
		return GradeSilver
	case sold >= 5 && rate >= 0.70:
		return GradeBronze
	default:
		return GradeNew
	}
}

// Recompute updates the record from fresh trade counts.
func (s *SellerGrade) Recompute(sold, cancelled int, now time.Time) {
	s.SoldCount = sold
	s.CancelledCount = cancelled
	s.CompletionRate = completionRate(sold, cancelled)
	s.Grade = Compute(sold, cancelled)
	s.LastComputedAt = now
}
