package escrow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connectone/tradecore/internal/domain/listing"
)

func TestMachine_CanTransition(t *testing.T) {
	m := NewMachine()

	assert.True(t, m.CanTransition(listing.StatusActive, listing.StatusReserved, RoleBuyer))
	assert.True(t, m.CanTransition(listing.StatusReserved, listing.StatusEscrowCompleted, RoleBuyer))
	assert.True(t, m.CanTransition(listing.StatusEscrowCompleted, listing.StatusShipping, RoleSeller))
	assert.True(t, m.CanTransition(listing.StatusShipping, listing.StatusShipped, RoleSystem))
	assert.True(t, m.CanTransition(listing.StatusShipped, listing.StatusSold, RoleBuyer))

	// wrong role
	assert.False(t, m.CanTransition(listing.StatusEscrowCompleted, listing.StatusShipping, RoleBuyer))
	// table lookup ignores conditions but not direction
	assert.False(t, m.CanTransition(listing.StatusShipped, listing.StatusShipping, RoleSeller))
	assert.False(t, m.CanTransition(listing.StatusActive, listing.StatusSold, RoleBuyer))
}

func TestMachine_ValidateTransition_ConditionGate(t *testing.T) {
	m := NewMachine()

	t.Run("purchase confirm requires condition", func(t *testing.T) {
		d := m.ValidateTransition(listing.StatusShipped, listing.StatusSold, RoleBuyer, map[string]bool{CondPurchaseConfirmed: true})
		assert.True(t, d.Valid)

		d = m.ValidateTransition(listing.StatusShipped, listing.StatusSold, RoleBuyer, map[string]bool{CondPurchaseConfirmed: false})
		require.False(t, d.Valid)
		assert.Contains(t, d.Reason, CondPurchaseConfirmed)
	})

	t.Run("missing condition map entry counts as false", func(t *testing.T) {
		d := m.ValidateTransition(listing.StatusShipped, listing.StatusSold, RoleBuyer, nil)
		require.False(t, d.Valid)
		assert.Equal(t, "Condition not met: purchase_confirmed", d.Reason)
	})

	t.Run("seller registers shipment from reserved", func(t *testing.T) {
		d := m.ValidateTransition(listing.StatusReserved, listing.StatusShipping, RoleSeller, map[string]bool{CondTrackingProvided: true})
		assert.True(t, d.Valid)
		assert.Empty(t, d.Reason)
	})

	t.Run("cancel without approval is rejected with reason", func(t *testing.T) {
		d := m.ValidateTransition(listing.StatusEscrowCompleted, listing.StatusCancelled, RoleBuyer, map[string]bool{CondCancelApproved: false})
		require.False(t, d.Valid)
		assert.Equal(t, "Condition not met: cancel_approved", d.Reason)
	})

	t.Run("row not in table", func(t *testing.T) {
		d := m.ValidateTransition(listing.StatusActive, listing.StatusSold, RoleBuyer, map[string]bool{CondPurchaseConfirmed: true})
		require.False(t, d.Valid)
		assert.Contains(t, d.Reason, "not allowed")
	})

	t.Run("unknown status is surfaced, not coerced", func(t *testing.T) {
		d := m.ValidateTransition(listing.Status("pending"), listing.StatusSold, RoleBuyer, nil)
		require.False(t, d.Valid)
		assert.Contains(t, d.Reason, "unknown status")
	})
}

func TestMachine_TerminalStatesHaveNoOutgoingRows(t *testing.T) {
	m := NewMachine()
	for _, row := range m.Table() {
		assert.False(t, listing.IsTerminal(row.From),
			"terminal status %s must have no outgoing transition (found %s -> %s)", row.From, row.From, row.To)
	}
}

func TestMachine_TableIsClosed(t *testing.T) {
	// Every non-terminal status reachable from the table has at least
	// one outgoing row.
	m := NewMachine()
	outgoing := map[listing.Status]int{}
	reachable := map[listing.Status]bool{listing.StatusActive: true}
	for _, row := range m.Table() {
		outgoing[row.From]++
		reachable[row.To] = true
	}
	for s := range reachable {
		if listing.IsTerminal(s) {
			continue
		}
		assert.Greater(t, outgoing[s], 0, "status %s is reachable but has no outgoing transition", s)
	}
}

func TestMachine_ForwardProgression(t *testing.T) {
	// Non-cancel, non-delete rows strictly increase catalog order.
	m := NewMachine()
	for _, row := range m.Table() {
		if row.To == listing.StatusCancelled || row.To == listing.StatusCancelRequested || row.To == listing.StatusDeleted {
			continue
		}
		fromInfo, err := listing.Catalog(row.From)
		require.NoError(t, err)
		toInfo, err := listing.Catalog(row.To)
		require.NoError(t, err)
		assert.Greater(t, toInfo.Order, fromInfo.Order, "%s -> %s must move forward", row.From, row.To)
	}
}

func TestMachine_ExhaustiveNonRowsAreInvalid(t *testing.T) {
	m := NewMachine()
	type key struct {
		from, to listing.Status
		trigger  Role
	}
	inTable := map[key]bool{}
	for _, row := range m.Table() {
		inTable[key{row.From, row.To, row.Trigger}] = true
	}
	roles := []Role{RoleBuyer, RoleSeller, RoleSystem, RoleAdmin}
	for _, from := range listing.AllStatuses() {
		for _, to := range listing.AllStatuses() {
			for _, role := range roles {
				if inTable[key{from, to, role}] {
					continue
				}
				d := m.ValidateTransition(from, to, role, map[string]bool{
					CondEscrowInitiated:   true,
					CondPaymentCompleted:  true,
					CondTrackingProvided:  true,
					CondDeliveryCompleted: true,
					CondPurchaseConfirmed: true,
					CondCancelRequested:   true,
					CondCancelApproved:    true,
				})
				assert.False(t, d.Valid, "(%s,%s,%s) is not in the table but validated", from, to, role)
			}
		}
	}
}

func TestMachine_AutoConfirmTimeout(t *testing.T) {
	m := NewMachine()

	d, ok := m.AutoConfirmTimeout(listing.StatusShipped)
	require.True(t, ok)
	assert.Equal(t, 72*time.Hour, d)
	assert.Equal(t, int64(72*60*60*1000), d.Milliseconds())

	for _, s := range listing.AllStatuses() {
		if s == listing.StatusShipped {
			continue
		}
		_, ok := m.AutoConfirmTimeout(s)
		assert.False(t, ok, "unexpected auto-confirm timeout for %s", s)
	}
}

func TestMachine_AllowedActions(t *testing.T) {
	m := NewMachine()

	assert.Equal(t, []string{ActionRegisterShipment}, m.AllowedActions(listing.StatusEscrowCompleted, RoleSeller))
	assert.ElementsMatch(t, []string{ActionRequestCancel, ActionApproveCancel}, m.AllowedActions(listing.StatusEscrowCompleted, RoleBuyer))
	assert.Equal(t, []string{ActionConfirmPurchase}, m.AllowedActions(listing.StatusShipped, RoleBuyer))

	// auto transitions never surface as user actions
	assert.Empty(t, m.AllowedActions(listing.StatusShipped, RoleSystem))
	// terminal statuses offer nothing
	assert.Empty(t, m.AllowedActions(listing.StatusSold, RoleBuyer))
	assert.Empty(t, m.AllowedActions(listing.StatusCancelled, RoleSeller))
}

func TestMachine_AllowedActionsMatchTable(t *testing.T) {
	// The action list is derived from the table, so every listed action
	// must resolve back to a row and vice versa.
	m := NewMachine()
	roles := []Role{RoleBuyer, RoleSeller}
	for _, s := range listing.AllStatuses() {
		for _, role := range roles {
			for _, action := range m.AllowedActions(s, role) {
				to, ok := m.TargetFor(s, role, action)
				require.True(t, ok, "action %s in %s for %s has no table row", action, s, role)
				assert.True(t, m.CanTransition(s, to, role))
			}
		}
	}
}

func TestMachine_TargetFor(t *testing.T) {
	m := NewMachine()

	to, ok := m.TargetFor(listing.StatusShipping, RoleBuyer, ActionRequestCancel)
	require.True(t, ok)
	assert.Equal(t, listing.StatusCancelRequested, to)

	_, ok = m.TargetFor(listing.StatusShipping, RoleSeller, ActionRequestCancel)
	assert.False(t, ok)

	// auto rows are not addressable as actions
	_, ok = m.TargetFor(listing.StatusShipped, RoleSystem, ActionAutoConfirm)
	assert.False(t, ok)
}

func TestMachine_DisplayName(t *testing.T) {
	m := NewMachine()
	assert.Equal(t, "판매중", m.DisplayName(listing.StatusActive))
	assert.Equal(t, "판매완료", m.DisplayName(listing.StatusSold))
	assert.Equal(t, "whatever", m.DisplayName(listing.Status("whatever")))
}
