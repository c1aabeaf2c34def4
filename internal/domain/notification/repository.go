package notification

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

// Repository defines the interface for notification persistence
type Repository interface {
	// Create persists a new notification
	Create(ctx context.Context, n *Notification) error

	// GetByID retrieves a notification by its UUID
	GetByID(ctx context.Context, notificationID uuid.UUID) (*Notification, error)

	// GetByDedupeKey retrieves a notification by its dedupe key
	GetByDedupeKey(ctx context.Context, key string) (*Notification, error)

	// Update updates an existing notification
	Update(ctx context.Context, n *Notification) error

	// List retrieves notifications matching the filter
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Notification, error)

	// ListPending retrieves pending notifications ready for delivery
	ListPending(ctx context.Context, limit int) ([]*Notification, error)

	// ListRetryable retrieves failed notifications eligible for retry
	ListRetryable(ctx context.Context, limit int) ([]*Notification, error)

	// ExpireOverdue marks overdue pending notifications as expired
	ExpireOverdue(ctx context.Context) (int, error)

	// CountUnread counts undelivered notifications for a user
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

// SSEHub defines the interface for managing SSE connections
type SSEHub interface {
	// Register adds a client to the hub
	Register(client *SSEClient)

	// Unregister removes a client from the hub
	Unregister(clientID string)

	// SendToUser sends a message to all connections of a user
	SendToUser(userID uuid.UUID, msg *SSEMessage) error

	// Broadcast sends a message to all connected clients
	Broadcast(msg *SSEMessage)

	// ClientCount returns the number of connected clients
	ClientCount() int
}
