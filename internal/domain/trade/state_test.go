package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connectone/tradecore/internal/domain/escrow"
)

func TestNewState(t *testing.T) {
	chatID := uuid.New()
	userID := uuid.New()

	s := NewState(chatID, userID)

	require.NotNil(t, s)
	assert.Equal(t, chatID, s.ChatID)
	assert.Equal(t, StatusWaiting, s.Status)
	assert.Equal(t, userID, s.UpdatedBy)
	assert.False(t, s.CreatedAt.IsZero())
}

func TestValidTransitions_RoleScoped(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		role    Role
		want    []Status
	}{
		{name: "seller starts from waiting", current: StatusWaiting, role: escrow.RoleSeller, want: []Status{StatusTrading}},
		{name: "buyer cannot start", current: StatusWaiting, role: escrow.RoleBuyer, want: []Status{}},
		{name: "buyer completes from trading", current: StatusTrading, role: escrow.RoleBuyer, want: []Status{StatusCompleted}},
		{name: "seller cannot complete", current: StatusTrading, role: escrow.RoleSeller, want: []Status{}},
		{name: "admin starts", current: StatusWaiting, role: escrow.RoleAdmin, want: []Status{StatusTrading}},
		{name: "admin completes", current: StatusTrading, role: escrow.RoleAdmin, want: []Status{StatusCompleted}},
		{name: "completed is terminal", current: StatusCompleted, role: escrow.RoleAdmin, want: []Status{}},
		{name: "unknown status yields nothing", current: Status("weird"), role: escrow.RoleBuyer, want: []Status{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidTransitions(tc.current, tc.role))
		})
	}
}

func TestState_Advance(t *testing.T) {
	sellerID := uuid.New()
	buyerID := uuid.New()

	s := NewState(uuid.New(), buyerID)

	require.NoError(t, s.Advance(StatusTrading, escrow.RoleSeller, sellerID))
	assert.Equal(t, StatusTrading, s.Status)
	assert.Equal(t, sellerID, s.UpdatedBy)

	require.NoError(t, s.Advance(StatusCompleted, escrow.RoleBuyer, buyerID))
	assert.Equal(t, StatusCompleted, s.Status)

	// terminal: nobody advances further
	assert.ErrorIs(t, s.Advance(StatusTrading, escrow.RoleAdmin, sellerID), ErrInvalidTransition)
}

func TestState_Advance_Rejected(t *testing.T) {
	s := NewState(uuid.New(), uuid.New())

	// buyer cannot start the trade
	err := s.Advance(StatusTrading, escrow.RoleBuyer, uuid.New())
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusWaiting, s.Status)

	// skipping a state is not allowed
	err = s.Advance(StatusCompleted, escrow.RoleSeller, uuid.New())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPresentation(t *testing.T) {
	for _, s := range AllStatuses() {
		assert.NotEmpty(t, StatusColor(s), "status %s has no color", s)
		assert.NotEmpty(t, StatusDisplayName(s), "status %s has no display name", s)
		assert.NotEmpty(t, StatusDescription(s), "status %s has no description", s)
	}
	assert.Equal(t, "거래 완료", StatusDisplayName(StatusCompleted))
	assert.Equal(t, "weird", StatusDisplayName(Status("weird")))
}
