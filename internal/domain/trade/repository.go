package trade

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines direct-trade state persistence. States are keyed
// by chat and never deleted.
type Repository interface {
	Create(ctx context.Context, s *State) error
	GetByChatID(ctx context.Context, chatID uuid.UUID) (*State, error)
	Update(ctx context.Context, s *State) error
}
