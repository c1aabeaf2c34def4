package escrow

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/connectone/tradecore/internal/domain/listing"
)

// Role identifies which actor may trigger a transition.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleSystem Role = "system"
	RoleAdmin  Role = "admin"
)

var (
	ErrInvalidTransition  = errors.New("invalid trade status transition")
	ErrPreconditionNotMet = errors.New("transition precondition not met")
	ErrTradeNotFound      = errors.New("trade not found")
	// ErrStatusConflict signals a lost compare-and-swap race on the
	// trade row.
	ErrStatusConflict = errors.New("trade status changed concurrently")
)

// Trade represents one escrow trade over a listing. Its status is the
// canonical listing status; the trade row and the listing row are kept
// in step by the escrow service.
type Trade struct {
	ID             int64          `json:"id"`
	TradeID        uuid.UUID      `json:"tradeId"`
	ListingID      uuid.UUID      `json:"listingId"`
	ChatID         uuid.UUID      `json:"chatId"`
	BuyerID        uuid.UUID      `json:"buyerId"`
	SellerID       uuid.UUID      `json:"sellerId"`
	Price          int64          `json:"price"`
	Status         listing.Status `json:"status"`
	TrackingNumber *string        `json:"trackingNumber,omitempty"`
	CancelReason   *string        `json:"cancelReason,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	PaidAt         *time.Time     `json:"paidAt,omitempty"`
	ShippedAt      *time.Time     `json:"shippedAt,omitempty"`
	DeliveredAt    *time.Time     `json:"deliveredAt,omitempty"`
	ConfirmedAt    *time.Time     `json:"confirmedAt,omitempty"`
	CancelledAt    *time.Time     `json:"cancelledAt,omitempty"`
}

// NewTrade creates a trade in the reserved status: escrow is initiated
// the moment the buyer reserves the listing.
func NewTrade(listingID, chatID, buyerID, sellerID uuid.UUID, price int64) *Trade {
	now := time.Now().UTC()
	return &Trade{
		TradeID:   uuid.New(),
		ListingID: listingID,
		ChatID:    chatID,
		BuyerID:   buyerID,
		SellerID:  sellerID,
		Price:     price,
		Status:    listing.StatusReserved,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RoleOf derives the trigger role of an actor on this trade. Actors who
// are neither party get the empty role and fail table lookups.
func (t *Trade) RoleOf(actorID uuid.UUID) Role {
	switch actorID {
	case t.BuyerID:
		return RoleBuyer
	case t.SellerID:
		return RoleSeller
	default:
		return ""
	}
}

// CounterpartyOf returns the other party of the trade relative to userID.
func (t *Trade) CounterpartyOf(userID uuid.UUID) uuid.UUID {
	if userID == t.BuyerID {
		return t.SellerID
	}
	return t.BuyerID
}

// ApplyTransition mutates the trade for an already-validated transition,
// stamping the timestamp that belongs to the target status.
func (t *Trade) ApplyTransition(to listing.Status, at time.Time) {
	t.Status = to
	t.UpdatedAt = at
	switch to {
	case listing.StatusEscrowCompleted:
		t.PaidAt = &at
	case listing.StatusShipping:
		t.ShippedAt = &at
	case listing.StatusShipped:
		t.DeliveredAt = &at
	case listing.StatusSold:
		t.ConfirmedAt = &at
	case listing.StatusCancelled:
		t.CancelledAt = &at
	}
}

// TransitionRecord is one applied transition, kept as an append-only
// history per trade.
type TransitionRecord struct {
	ID         int64           `json:"id"`
	RecordID   uuid.UUID       `json:"recordId"`
	TradeID    uuid.UUID       `json:"tradeId"`
	FromStatus *listing.Status `json:"fromStatus,omitempty"`
	ToStatus   listing.Status  `json:"toStatus"`
	Trigger    Role            `json:"trigger"`
	Action     string          `json:"action,omitempty"`
	Actor      string          `json:"actor"`
	Reason     *string         `json:"reason,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// NewTransitionRecord creates a transition history record.
func NewTransitionRecord(tradeID uuid.UUID, from *listing.Status, to listing.Status, trigger Role, action, actor string) *TransitionRecord {
	return &TransitionRecord{
		RecordID:   uuid.New(),
		TradeID:    tradeID,
		FromStatus: from,
		ToStatus:   to,
		Trigger:    trigger,
		Action:     action,
		Actor:      actor,
		CreatedAt:  time.Now().UTC(),
	}
}
