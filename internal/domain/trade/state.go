package trade

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/connectone/tradecore/internal/domain/escrow"
)

// Status represents the direct-trade progression. Direct trades have no
// payment gate, so the machine is deliberately looser than the escrow
// one: three states, forward only.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusTrading   Status = "trading"
	StatusCompleted Status = "completed"
)

// Role aliases the escrow trigger role; both machines share the actor
// vocabulary.
type Role = escrow.Role

var ErrInvalidTransition = errors.New("invalid direct trade transition")

// State is the direct-trade state of one chat room. Created on the
// first trade-status interaction and never deleted; it lives as long as
// the chat.
type State struct {
	ID        int64     `json:"id"`
	ChatID    uuid.UUID `json:"chatId"`
	Status    Status    `json:"status"`
	UpdatedBy uuid.UUID `json:"updatedBy"`
	UpdatedAt time.Time `json:"updatedAt"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewState creates a waiting state for a chat.
func NewState(chatID, createdBy uuid.UUID) *State {
	now := time.Now().UTC()
	return &State{
		ChatID:    chatID,
		Status:    StatusWaiting,
		UpdatedBy: createdBy,
		UpdatedAt: now,
		CreatedAt: now,
	}
}

// roleTransitions scopes who may advance a direct trade: the seller
// starts it, the buyer confirms completion, admins can do either.
var roleTransitions = map[Status]map[Role][]Status{
	StatusWaiting: {
		escrow.RoleSeller: {StatusTrading},
		escrow.RoleAdmin:  {StatusTrading},
	},
	StatusTrading: {
		escrow.RoleBuyer: {StatusCompleted},
		escrow.RoleAdmin: {StatusCompleted},
	},
	StatusCompleted: {},
}

// ValidTransitions returns the statuses role may move to from current.
func ValidTransitions(current Status, role Role) []Status {
	byRole, ok := roleTransitions[current]
	if !ok {
		return []Status{}
	}
	allowed, ok := byRole[role]
	if !ok {
		return []Status{}
	}
	out := make([]Status, len(allowed))
	copy(out, allowed)
	return out
}

// CanTransition reports whether role may move the state from current to
// target.
func CanTransition(current, target Status, role Role) bool {
	for _, s := range ValidTransitions(current, role) {
		if s == target {
			return true
		}
	}
	return false
}

// Advance moves the state to target on behalf of userID acting as role.
func (s *State) Advance(target Status, role Role, userID uuid.UUID) error {
	if !CanTransition(s.Status, target, role) {
		return ErrInvalidTransition
	}
	s.Status = target
	s.UpdatedBy = userID
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// AllStatuses returns the direct-trade statuses in progression order.
func AllStatuses() []Status {
	return []Status{StatusWaiting, StatusTrading, StatusCompleted}
}
