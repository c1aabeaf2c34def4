package escrow

import (
	"fmt"
	"time"

	"github.com/connectone/tradecore/internal/domain/listing"
)

// AutoConfirmWindow is how long after delivery the system waits before
// confirming the purchase on the buyer's behalf.
const AutoConfirmWindow = 72 * time.Hour

// Action names for the UI, one per transition row.
const (
	ActionInitiatePayment  = "initiate_payment"
	ActionCompletePayment  = "complete_payment"
	ActionRegisterShipment = "register_shipment"
	ActionConfirmDelivery  = "confirm_delivery"
	ActionConfirmPurchase  = "confirm_purchase"
	ActionAutoConfirm      = "auto_confirm_purchase"
	ActionRequestCancel    = "request_cancel"
	ActionApproveCancel    = "approve_cancel"
	ActionDeleteListing    = "delete_listing"
)

// Condition names used across the transition table.
const (
	CondEscrowInitiated   = "escrow_initiated"
	CondPaymentCompleted  = "payment_completed"
	CondTrackingProvided  = "tracking_number_provided"
	CondDeliveryCompleted = "delivery_completed"
	CondPurchaseConfirmed = "purchase_confirmed"
	CondCancelRequested   = "cancel_requested"
	CondCancelApproved    = "cancel_approved"
)

// StateTransition is one row of the transition table.
type StateTransition struct {
	From           listing.Status
	To             listing.Status
	Trigger        Role
	Action         string
	Conditions     []string
	AutoTransition bool
	Timeout        time.Duration
}

// transitionTable is the single authority on legal trade moves. Allowed
// UI actions are derived from it per role; there is no parallel switch
// to keep in sync.
var transitionTable = []StateTransition{
	{From: listing.StatusActive, To: listing.StatusReserved, Trigger: RoleBuyer, Action: ActionInitiatePayment, Conditions: []string{CondEscrowInitiated}},
	{From: listing.StatusReserved, To: listing.StatusEscrowCompleted, Trigger: RoleBuyer, Action: ActionCompletePayment, Conditions: []string{CondPaymentCompleted}},
	// Card payments settle synchronously in the hosted widget, so a
	// reserved listing may already be paid and ship directly.
	{From: listing.StatusReserved, To: listing.StatusShipping, Trigger: RoleSeller, Action: ActionRegisterShipment, Conditions: []string{CondTrackingProvided}},
	{From: listing.StatusEscrowCompleted, To: listing.StatusShipping, Trigger: RoleSeller, Action: ActionRegisterShipment, Conditions: []string{CondTrackingProvided}},
	{From: listing.StatusShipping, To: listing.StatusShipped, Trigger: RoleSystem, Action: ActionConfirmDelivery, Conditions: []string{CondDeliveryCompleted}},
	{From: listing.StatusShipped, To: listing.StatusSold, Trigger: RoleBuyer, Action: ActionConfirmPurchase, Conditions: []string{CondPurchaseConfirmed}},
	{From: listing.StatusShipped, To: listing.StatusSold, Trigger: RoleSystem, Action: ActionAutoConfirm, AutoTransition: true, Timeout: AutoConfirmWindow},
	{From: listing.StatusReserved, To: listing.StatusCancelled, Trigger: RoleBuyer, Action: ActionRequestCancel, Conditions: []string{CondCancelRequested}},
	{From: listing.StatusEscrowCompleted, To: listing.StatusCancelRequested, Trigger: RoleBuyer, Action: ActionRequestCancel, Conditions: []string{CondCancelRequested}},
	{From: listing.StatusShipping, To: listing.StatusCancelRequested, Trigger: RoleBuyer, Action: ActionRequestCancel, Conditions: []string{CondCancelRequested}},
	{From: listing.StatusEscrowCompleted, To: listing.StatusCancelled, Trigger: RoleBuyer, Action: ActionApproveCancel, Conditions: []string{CondCancelApproved}},
	{From: listing.StatusShipping, To: listing.StatusCancelled, Trigger: RoleBuyer, Action: ActionApproveCancel, Conditions: []string{CondCancelApproved}},
	{From: listing.StatusCancelRequested, To: listing.StatusCancelled, Trigger: RoleSeller, Action: ActionApproveCancel, Conditions: []string{CondCancelApproved}},
	{From: listing.StatusActive, To: listing.StatusDeleted, Trigger: RoleSeller, Action: ActionDeleteListing},
}

// Decision is the outcome of a transition validation. Reason is a
// human-readable string suitable for API error responses.
type Decision struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// Machine validates escrow trade transitions against the table. It is
// pure: persistence, chat messages and notifications belong to callers.
type Machine struct {
	table []StateTransition
}

// NewMachine creates a machine over the canonical transition table.
func NewMachine() *Machine {
	return &Machine{table: transitionTable}
}

// Table returns a copy of the transition table, for invariant checks.
func (m *Machine) Table() []StateTransition {
	out := make([]StateTransition, len(m.table))
	copy(out, m.table)
	return out
}

func (m *Machine) find(from, to listing.Status, trigger Role) *StateTransition {
	for i := range m.table {
		t := &m.table[i]
		if t.From == from && t.To == to && t.Trigger == trigger {
			return t
		}
	}
	return nil
}

// CanTransition reports whether (from, to, trigger) is in the table.
// Preconditions are ignored.
func (m *Machine) CanTransition(from, to listing.Status, trigger Role) bool {
	return m.find(from, to, trigger) != nil
}

// ValidateTransition checks the table row and its named preconditions
// against the supplied condition map. Every named condition must
// evaluate truthy; otherwise the decision names the missing condition.
func (m *Machine) ValidateTransition(from, to listing.Status, trigger Role, conditions map[string]bool) Decision {
	if !listing.IsKnown(from) {
		return Decision{Reason: fmt.Sprintf("unknown status: %q", string(from))}
	}
	if !listing.IsKnown(to) {
		return Decision{Reason: fmt.Sprintf("unknown status: %q", string(to))}
	}
	t := m.find(from, to, trigger)
	if t == nil {
		return Decision{Reason: fmt.Sprintf("transition %s -> %s is not allowed for %s", from, to, trigger)}
	}
	for _, cond := range t.Conditions {
		ok, err := EvaluateCondition(cond, conditions)
		if err != nil {
			return Decision{Reason: fmt.Sprintf("Condition invalid: %s", cond)}
		}
		if !ok {
			return Decision{Reason: fmt.Sprintf("Condition not met: %s", cond)}
		}
	}
	return Decision{Valid: true}
}

// AutoConfirmTimeout returns the timeout of the auto-transition out of
// status, if one exists. The machine only exposes the policy value; the
// sweeper owns scheduling.
func (m *Machine) AutoConfirmTimeout(status listing.Status) (time.Duration, bool) {
	for i := range m.table {
		t := &m.table[i]
		if t.AutoTransition && t.From == status {
			return t.Timeout, true
		}
	}
	return 0, false
}

// AllowedActions returns the UI actions available in status for a role,
// derived from the transition table. Auto transitions never surface as
// user actions.
func (m *Machine) AllowedActions(status listing.Status, role Role) []string {
	actions := []string{}
	seen := map[string]bool{}
	for i := range m.table {
		t := &m.table[i]
		if t.From != status || t.Trigger != role || t.AutoTransition {
			continue
		}
		if !seen[t.Action] {
			seen[t.Action] = true
			actions = append(actions, t.Action)
		}
	}
	return actions
}

// TargetFor resolves the table row a role reaches from status via an
// action name. The transition endpoint accepts action names so UI
// buttons and the table stay aligned.
func (m *Machine) TargetFor(status listing.Status, role Role, action string) (listing.Status, bool) {
	for i := range m.table {
		t := &m.table[i]
		if t.From == status && t.Trigger == role && t.Action == action && !t.AutoTransition {
			return t.To, true
		}
	}
	return "", false
}

// DisplayName returns the display label of a status, or the raw value
// when it is outside the enum.
func (m *Machine) DisplayName(status listing.Status) string {
	info, err := listing.Catalog(status)
	if err != nil {
		return string(status)
	}
	return info.Label
}
