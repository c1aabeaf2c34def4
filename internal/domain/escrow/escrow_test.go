package escrow

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connectone/tradecore/internal/domain/listing"
)

func TestNewTrade(t *testing.T) {
	listingID := uuid.New()
	chatID := uuid.New()
	buyerID := uuid.New()
	sellerID := uuid.New()

	tr := NewTrade(listingID, chatID, buyerID, sellerID, 450000)

	require.NotNil(t, tr)
	assert.NotEqual(t, uuid.Nil, tr.TradeID)
	assert.Equal(t, listing.StatusReserved, tr.Status)
	assert.Equal(t, int64(450000), tr.Price)
	assert.False(t, tr.CreatedAt.IsZero())
	assert.Nil(t, tr.PaidAt)
	assert.Nil(t, tr.CancelledAt)
}

func TestTrade_RoleOf(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()
	tr := NewTrade(uuid.New(), uuid.New(), buyerID, sellerID, 1000)

	assert.Equal(t, RoleBuyer, tr.RoleOf(buyerID))
	assert.Equal(t, RoleSeller, tr.RoleOf(sellerID))
	assert.Equal(t, Role(""), tr.RoleOf(uuid.New()))
}

func TestTrade_CounterpartyOf(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()
	tr := NewTrade(uuid.New(), uuid.New(), buyerID, sellerID, 1000)

	assert.Equal(t, sellerID, tr.CounterpartyOf(buyerID))
	assert.Equal(t, buyerID, tr.CounterpartyOf(sellerID))
}

func TestTrade_ApplyTransition(t *testing.T) {
	tr := NewTrade(uuid.New(), uuid.New(), uuid.New(), uuid.New(), 1000)
	at := time.Now().UTC()

	tr.ApplyTransition(listing.StatusEscrowCompleted, at)
	assert.Equal(t, listing.StatusEscrowCompleted, tr.Status)
	require.NotNil(t, tr.PaidAt)
	assert.Equal(t, at, *tr.PaidAt)

	tr.ApplyTransition(listing.StatusShipping, at)
	require.NotNil(t, tr.ShippedAt)

	tr.ApplyTransition(listing.StatusShipped, at)
	require.NotNil(t, tr.DeliveredAt)

	tr.ApplyTransition(listing.StatusSold, at)
	require.NotNil(t, tr.ConfirmedAt)
	assert.Nil(t, tr.CancelledAt)
}

func TestNewTransitionRecord(t *testing.T) {
	tradeID := uuid.New()
	from := listing.StatusShipped

	rec := NewTransitionRecord(tradeID, &from, listing.StatusSold, RoleSystem, ActionAutoConfirm, "system")

	require.NotNil(t, rec)
	assert.Equal(t, tradeID, rec.TradeID)
	require.NotNil(t, rec.FromStatus)
	assert.Equal(t, listing.StatusShipped, *rec.FromStatus)
	assert.Equal(t, listing.StatusSold, rec.ToStatus)
	assert.Equal(t, RoleSystem, rec.Trigger)
	assert.Equal(t, "system", rec.Actor)
	assert.False(t, rec.CreatedAt.IsZero())
}
