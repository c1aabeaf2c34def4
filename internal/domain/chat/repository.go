package chat

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines chat persistence.
type Repository interface {
	CreateRoom(ctx context.Context, r *Room) error
	GetRoom(ctx context.Context, chatID uuid.UUID) (*Room, error)
	GetRoomByParties(ctx context.Context, listingID, buyerID uuid.UUID) (*Room, error)
	ListRoomsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Room, error)
	CreateMessage(ctx context.Context, m *Message) error
	ListMessages(ctx context.Context, chatID uuid.UUID, limit, offset int) ([]*Message, error)
}
