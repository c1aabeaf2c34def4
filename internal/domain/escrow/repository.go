package escrow

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/connectone/tradecore/internal/domain/listing"
)

// Repository defines trade persistence.
type Repository interface {
	Create(ctx context.Context, t *Trade) error
	GetByID(ctx context.Context, tradeID uuid.UUID) (*Trade, error)
	GetByChatID(ctx context.Context, chatID uuid.UUID) (*Trade, error)
	GetOpenByListingID(ctx context.Context, listingID uuid.UUID) (*Trade, error)
	List(ctx context.Context, status *listing.Status, limit, offset int) ([]*Trade, error)
	ListByParty(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Trade, error)
	// UpdateGuarded persists the trade only while its stored status still
	// equals expected; ErrStatusConflict otherwise.
	UpdateGuarded(ctx context.Context, t *Trade, expected listing.Status) error
	// ListAutoConfirmable returns shipped trades whose delivery timestamp
	// is older than before.
	ListAutoConfirmable(ctx context.Context, before time.Time, limit int) ([]*Trade, error)
	RecordTransition(ctx context.Context, rec *TransitionRecord) error
	ListTransitions(ctx context.Context, tradeID uuid.UUID) ([]*TransitionRecord, error)
}
