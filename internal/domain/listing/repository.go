package listing

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrStatusConflict signals that a compare-and-swap status update lost a
// race: the stored status no longer matched the expected one.
var ErrStatusConflict = errors.New("listing status changed concurrently")

// Repository defines listing persistence.
type Repository interface {
	Create(ctx context.Context, l *Listing) error
	GetByID(ctx context.Context, listingID uuid.UUID) (*Listing, error)
	List(ctx context.Context, statuses Group, limit, offset int) ([]*Listing, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]*Listing, error)
	// UpdateStatus applies a compare-and-swap status update. It returns
	// ErrStatusConflict when the stored status does not equal from.
	UpdateStatus(ctx context.Context, listingID uuid.UUID, from, to Status) error
	// ListRawStatuses returns every stored status value verbatim, for
	// drift diagnostics. Legacy values are not normalized here.
	ListRawStatuses(ctx context.Context) ([]string, error)
}
