package listing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appAudit "github.com/connectone/tradecore/internal/application/audit"
	"github.com/connectone/tradecore/internal/domain/audit"
	"github.com/connectone/tradecore/internal/domain/escrow"
	domain "github.com/connectone/tradecore/internal/domain/listing"
)

// Service handles listing operations.
type Service struct {
	repo     domain.Repository
	machine  *escrow.Machine
	auditSvc *appAudit.Service
	logger   zerolog.Logger
}

// NewService creates a listing service.
func NewService(repo domain.Repository, machine *escrow.Machine, auditSvc *appAudit.Service, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		machine:  machine,
		auditSvc: auditSvc,
		logger:   logger.With().Str("service", "listing").Logger(),
	}
}

// PublishInput defines listing creation input.
type PublishInput struct {
	SellerID    uuid.UUID
	Title       string
	Description string
	Category    string
	Brand       string
	Price       int64
	Condition   domain.Condition
}

// Publish creates a listing in the active state.
func (s *Service) Publish(ctx context.Context, input PublishInput) (*domain.Listing, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if input.Price <= 0 {
		return nil, fmt.Errorf("price must be positive")
	}

	l := domain.NewListing(input.SellerID, input.Title, input.Price)
	l.Description = input.Description
	l.Category = input.Category
	l.Brand = input.Brand
	if input.Condition != "" {
		l.Condition = input.Condition
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, &audit.AuditEntry{
		EntityType: audit.EntityTypeListing,
		EntityID:   l.ListingID.String(),
		Action:     audit.ActionCreate,
		Actor:      input.SellerID.String(),
		Reason:     "listing published",
	})

	s.logger.Info().Str("listing_id", l.ListingID.String()).Str("seller_id", input.SellerID.String()).Msg("listing published")
	return l, nil
}

// Get retrieves a listing by ID.
func (s *Service) Get(ctx context.Context, listingID uuid.UUID) (*domain.Listing, error) {
	return s.repo.GetByID(ctx, listingID)
}

// ListByFilter lists listings visible under a named status filter.
// Unknown filter names fall back to all non-hidden statuses.
func (s *Service) ListByFilter(ctx context.Context, filter string, limit, offset int) ([]*domain.Listing, error) {
	group := domain.ResolveFilter(filter)
	if !domain.KnownFilter(filter) && filter != "" {
		s.logger.Warn().Str("filter", filter).Msg("unknown listing filter, using default")
	}
	return s.repo.List(ctx, group, limit, offset)
}

// ListBySeller lists a seller's listings, including cancelled ones.
func (s *Service) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]*domain.Listing, error) {
	return s.repo.ListBySeller(ctx, sellerID, limit, offset)
}

// Delete soft-deletes an active listing. Only the owning seller may delete,
// and only while no trade is open on it.
func (s *Service) Delete(ctx context.Context, listingID, actorID uuid.UUID) error {
	l, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if l == nil {
		return fmt.Errorf("listing not found: %s", listingID)
	}
	if l.SellerID != actorID {
		return fmt.Errorf("only the seller can delete a listing")
	}

	decision := s.machine.ValidateTransition(l.Status, domain.StatusDeleted, escrow.RoleSeller, nil)
	if !decision.Valid {
		return fmt.Errorf("%w: %s", escrow.ErrInvalidTransition, decision.Reason)
	}

	if err := s.repo.UpdateStatus(ctx, listingID, l.Status, domain.StatusDeleted); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, &audit.AuditEntry{
		EntityType: audit.EntityTypeListing,
		EntityID:   listingID.String(),
		Action:     audit.ActionDelete,
		Actor:      actorID.String(),
		ActorRole:  string(escrow.RoleSeller),
		Reason:     "listing deleted by seller",
	})

	s.logger.Info().Str("listing_id", listingID.String()).Msg("listing deleted")
	return nil
}

// StatusReport summarizes listing status distribution for diagnostics.
type StatusReport struct {
	Stats       domain.StatusStats `json:"stats"`
	Drift       domain.Drift       `json:"drift"`
	GeneratedAt time.Time          `json:"generatedAt"`
}

// StatusReport builds a status distribution report over all stored listings,
// surfacing statuses in the database that the catalog does not know about.
func (s *Service) StatusReport(ctx context.Context) (*StatusReport, error) {
	raw, err := s.repo.ListRawStatuses(ctx)
	if err != nil {
		return nil, err
	}

	stats := domain.GenerateStatusStats(raw)
	drift := domain.DetectMissingStatuses(raw)
	if !drift.Empty() {
		s.logger.Warn().
			Int("missing", len(drift.Missing)).
			Strs("unexpected", drift.Unexpected).
			Msg("listing status drift detected")
	}

	return &StatusReport{
		Stats:       stats,
		Drift:       drift,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
