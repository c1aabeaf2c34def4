package escrow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appAudit "github.com/connectone/tradecore/internal/application/audit"
	"github.com/connectone/tradecore/internal/domain/audit"
	"github.com/connectone/tradecore/internal/domain/chat"
	domain "github.com/connectone/tradecore/internal/domain/escrow"
	"github.com/connectone/tradecore/internal/domain/listing"
)

// ChatPoster posts system messages into a chat room.
type ChatPoster interface {
	PostSystemMessage(ctx context.Context, chatID uuid.UUID, content string) error
}

// Notifier delivers trade event notifications to the parties.
type Notifier interface {
	TradeStatusChanged(ctx context.Context, t *domain.Trade, from, to listing.Status)
}

// GradeRefresher recomputes a seller's grade after a trade closes.
type GradeRefresher interface {
	RefreshSeller(ctx context.Context, sellerID uuid.UUID) error
}

// Service orchestrates escrow trades: it owns the transition machine
// and keeps the trade and listing rows moving in lockstep.
type Service struct {
	repo        domain.Repository
	listingRepo listing.Repository
	chatRepo    chat.Repository
	machine     *domain.Machine
	chatSvc     ChatPoster
	notifier    Notifier
	grading     GradeRefresher
	auditSvc    *appAudit.Service
	logger      zerolog.Logger
}

// NewService creates an escrow service.
func NewService(
	repo domain.Repository,
	listingRepo listing.Repository,
	chatRepo chat.Repository,
	machine *domain.Machine,
	chatSvc ChatPoster,
	notifier Notifier,
	grading GradeRefresher,
	auditSvc *appAudit.Service,
	logger zerolog.Logger,
) *Service {
	return &Service{
		repo:        repo,
		listingRepo: listingRepo,
		chatRepo:    chatRepo,
		machine:     machine,
		chatSvc:     chatSvc,
		notifier:    notifier,
		grading:     grading,
		auditSvc:    auditSvc,
		logger:      logger.With().Str("service", "escrow").Logger(),
	}
}

// StartTrade opens an escrow trade from a chat room. The buyer initiates
// payment, which reserves the listing.
func (s *Service) StartTrade(ctx context.Context, chatID, actorID uuid.UUID) (*domain.Trade, error) {
	room, err := s.chatRepo.GetRoom(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, chat.ErrRoomNotFound
	}
	if actorID != room.BuyerID {
		return nil, fmt.Errorf("only the buyer can initiate an escrow trade")
	}

	l, err := s.listingRepo.GetByID(ctx, room.ListingID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fmt.Errorf("listing not found: %s", room.ListingID)
	}

	open, err := s.repo.GetOpenByListingID(ctx, room.ListingID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, fmt.Errorf("%w: listing already has an open trade", domain.ErrStatusConflict)
	}

	decision := s.machine.ValidateTransition(l.Status, listing.StatusReserved, domain.RoleBuyer, map[string]bool{
		domain.CondEscrowInitiated: true,
	})
	if !decision.Valid {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidTransition, decision.Reason)
	}

	if err := s.listingRepo.UpdateStatus(ctx, l.ListingID, l.Status, listing.StatusReserved); err != nil {
		return nil, err
	}

	t := domain.NewTrade(room.ListingID, chatID, room.BuyerID, room.SellerID, l.Price)
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	from := listing.StatusActive
	rec := domain.NewTransitionRecord(t.TradeID, &from, listing.StatusReserved, domain.RoleBuyer, domain.ActionInitiatePayment, actorID.String())
	if err := s.repo.RecordTransition(ctx, rec); err != nil {
		s.logger.Error().Err(err).Str("trade_id", t.TradeID.String()).Msg("failed to record transition")
	}

	s.postStatusMessage(ctx, t, listing.StatusReserved)
	s.notifier.TradeStatusChanged(ctx, t, from, listing.StatusReserved)

	s.auditSvc.Log(ctx, &audit.AuditEntry{
		EntityType: audit.EntityTypeTrade,
		EntityID:   t.TradeID.String(),
		Action:     audit.ActionCreate,
		Actor:      actorID.String(),
		ActorRole:  string(domain.RoleBuyer),
		Reason:     "escrow trade started",
	})

	s.logger.Info().
		Str("trade_id", t.TradeID.String()).
		Str("listing_id", room.ListingID.String()).
		Msg("escrow trade started")
	return t, nil
}

// TransitionInput carries the facts accompanying a transition request.
type TransitionInput struct {
	TrackingNumber    string
	CancelReason      string
	PaymentConfirmed  bool
	DeliveryConfirmed bool
	IsAdmin           bool
}

// Transition applies a named action to a trade on behalf of an actor.
// The acting role is derived from the trade's parties; admins act with
// the buyer's or seller's permissions as the action requires.
func (s *Service) Transition(ctx context.Context, tradeID, actorID uuid.UUID, action string, input TransitionInput) (*domain.Trade, error) {
	t, err := s.repo.GetByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrTradeNotFound
	}

	role := t.RoleOf(actorID)
	if role == "" {
		if !input.IsAdmin {
			return nil, fmt.Errorf("actor %s is not a party to trade %s", actorID, tradeID)
		}
		role = s.adminActingRole(t.Status, action)
	}

	target, ok := s.machine.TargetFor(t.Status, role, action)
	if !ok {
		return nil, fmt.Errorf("%w: action %s is not available for %s in %s",
			domain.ErrInvalidTransition, action, role, t.Status)
	}

	facts := s.conditionFacts(t, action, input)
	decision := s.machine.ValidateTransition(t.Status, target, role, facts)
	if !decision.Valid {
		return nil, fmt.Errorf("%w: %s", domain.ErrPreconditionNotMet, decision.Reason)
	}

	from := t.Status
	if input.TrackingNumber != "" {
		t.TrackingNumber = &input.TrackingNumber
	}
	if input.CancelReason != "" {
		t.CancelReason = &input.CancelReason
	}
	t.ApplyTransition(target, time.Now().UTC())

	if err := s.repo.UpdateGuarded(ctx, t, from); err != nil {
		return nil, err
	}
	s.mirrorListingStatus(ctx, t, from, target)

	rec := domain.NewTransitionRecord(t.TradeID, &from, target, role, action, actorID.String())
	if err := s.repo.RecordTransition(ctx, rec); err != nil {
		s.logger.Error().Err(err).Str("trade_id", t.TradeID.String()).Msg("failed to record transition")
	}

	s.postStatusMessage(ctx, t, target)
	s.notifier.TradeStatusChanged(ctx, t, from, target)
	s.afterClose(ctx, t, target)

	auditAction := audit.ActionTransition
	if action == domain.ActionRequestCancel || action == domain.ActionApproveCancel {
		auditAction = audit.ActionCancel
	}
	s.auditSvc.Log(ctx, &audit.AuditEntry{
		EntityType: audit.EntityTypeTrade,
		EntityID:   t.TradeID.String(),
		Action:     auditAction,
		Actor:      actorID.String(),
		ActorRole:  string(role),
		OldValues:  map[string]string{"status": string(from)},
		NewValues:  map[string]string{"status": string(target)},
		Reason:     action,
	})

	s.logger.Info().
		Str("trade_id", t.TradeID.String()).
		Str("from", string(from)).
		Str("to", string(target)).
		Str("action", action).
		Msg("trade transitioned")
	return t, nil
}

// ConfirmDelivery records carrier-confirmed delivery for a trade. This
// is the system-role transition driven by the tracking webhook.
func (s *Service) ConfirmDelivery(ctx context.Context, tradeID uuid.UUID) (*domain.Trade, error) {
	return s.systemTransition(ctx, tradeID, domain.ActionConfirmDelivery, TransitionInput{DeliveryConfirmed: true})
}

// AutoConfirm finalizes a shipped trade whose confirmation window has
// lapsed. Safe to call repeatedly; a trade that already moved on is a
// no-op conflict.
func (s *Service) AutoConfirm(ctx context.Context, tradeID uuid.UUID) (*domain.Trade, error) {
	return s.systemTransition(ctx, tradeID, domain.ActionAutoConfirm, TransitionInput{})
}

func (s *Service) systemTransition(ctx context.Context, tradeID uuid.UUID, action string, input TransitionInput) (*domain.Trade, error) {
	t, err := s.repo.GetByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrTradeNotFound
	}

	target, ok := s.machine.TargetFor(t.Status, domain.RoleSystem, action)
	if !ok && action == domain.ActionAutoConfirm {
		// Auto rows are not addressable as UI actions; resolve directly.
		if t.Status != listing.StatusShipped {
			return nil, fmt.Errorf("%w: trade %s is %s, not shipped", domain.ErrStatusConflict, tradeID, t.Status)
		}
		target = listing.StatusSold
		ok = true
	}
	if !ok {
		return nil, fmt.Errorf("%w: system action %s not available in %s", domain.ErrInvalidTransition, action, t.Status)
	}

	facts := s.conditionFacts(t, action, input)
	decision := s.machine.ValidateTransition(t.Status, target, domain.RoleSystem, facts)
	if !decision.Valid {
		return nil, fmt.Errorf("%w: %s", domain.ErrPreconditionNotMet, decision.Reason)
	}

	from := t.Status
	t.ApplyTransition(target, time.Now().UTC())
	if err := s.repo.UpdateGuarded(ctx, t, from); err != nil {
		return nil, err
	}
	s.mirrorListingStatus(ctx, t, from, target)

	rec := domain.NewTransitionRecord(t.TradeID, &from, target, domain.RoleSystem, action, "system")
	if err := s.repo.RecordTransition(ctx, rec); err != nil {
		s.logger.Error().Err(err).Str("trade_id", t.TradeID.String()).Msg("failed to record transition")
	}

	s.postStatusMessage(ctx, t, target)
	s.notifier.TradeStatusChanged(ctx, t, from, target)
	s.afterClose(ctx, t, target)

	s.logger.Info().
		Str("trade_id", t.TradeID.String()).
		Str("from", string(from)).
		Str("to", string(target)).
		Str("action", action).
		Msg("system trade transition")
	return t, nil
}

// ForceTransition lets an admin move a trade to any known status,
// bypassing the machine. Every use is audited at critical risk.
func (s *Service) ForceTransition(ctx context.Context, tradeID, adminID uuid.UUID, to listing.Status, reason string) (*domain.Trade, error) {
	if !listing.IsKnown(to) {
		return nil, &listing.UnknownStatusError{Value: string(to)}
	}
	if reason == "" {
		return nil, fmt.Errorf("a reason is required to force a transition")
	}

	t, err := s.repo.GetByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrTradeNotFound
	}

	from := t.Status
	t.ApplyTransition(to, time.Now().UTC())
	if err := s.repo.UpdateGuarded(ctx, t, from); err != nil {
		return nil, err
	}
	s.mirrorListingStatus(ctx, t, from, to)

	rec := domain.NewTransitionRecord(t.TradeID, &from, to, domain.RoleAdmin, "force_transition", adminID.String())
	if err := s.repo.RecordTransition(ctx, rec); err != nil {
		s.logger.Error().Err(err).Str("trade_id", t.TradeID.String()).Msg("failed to record transition")
	}

	s.notifier.TradeStatusChanged(ctx, t, from, to)
	s.afterClose(ctx, t, to)

	s.auditSvc.Log(ctx, &audit.AuditEntry{
		EntityType: audit.EntityTypeTrade,
		EntityID:   t.TradeID.String(),
		Action:     audit.ActionForce,
		Actor:      adminID.String(),
		ActorRole:  string(domain.RoleAdmin),
		OldValues:  map[string]string{"status": string(from)},
		NewValues:  map[string]string{"status": string(to)},
		Reason:     reason,
	})

	s.logger.Warn().
		Str("trade_id", t.TradeID.String()).
		Str("from", string(from)).
		Str("to", string(to)).
		Str("admin_id", adminID.String()).
		Msg("trade force-transitioned")
	return t, nil
}

// GetTrade retrieves a trade by ID.
func (s *Service) GetTrade(ctx context.Context, tradeID uuid.UUID) (*domain.Trade, error) {
	return s.repo.GetByID(ctx, tradeID)
}

// GetTradeByChat retrieves the trade attached to a chat room.
func (s *Service) GetTradeByChat(ctx context.Context, chatID uuid.UUID) (*domain.Trade, error) {
	return s.repo.GetByChatID(ctx, chatID)
}

// ListTrades lists trades, optionally by status.
func (s *Service) ListTrades(ctx context.Context, status *listing.Status, limit, offset int) ([]*domain.Trade, error) {
	return s.repo.List(ctx, status, limit, offset)
}

// ListTradesByParty lists trades a user participates in.
func (s *Service) ListTradesByParty(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Trade, error) {
	return s.repo.ListByParty(ctx, userID, limit, offset)
}

// History lists the transition records of a trade in order.
func (s *Service) History(ctx context.Context, tradeID uuid.UUID) ([]*domain.TransitionRecord, error) {
	return s.repo.ListTransitions(ctx, tradeID)
}

// AllowedActions lists the actions an actor may take on a trade now.
func (s *Service) AllowedActions(ctx context.Context, tradeID, actorID uuid.UUID) ([]string, error) {
	t, err := s.repo.GetByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrTradeNotFound
	}
	role := t.RoleOf(actorID)
	if role == "" {
		return []string{}, nil
	}
	return s.machine.AllowedActions(t.Status, role), nil
}

// conditionFacts derives the condition map for a transition from the
// trade's state and the request payload.
func (s *Service) conditionFacts(t *domain.Trade, action string, input TransitionInput) map[string]bool {
	tracking := input.TrackingNumber != ""
	if t.TrackingNumber != nil && *t.TrackingNumber != "" {
		tracking = true
	}
	return map[string]bool{
		domain.CondEscrowInitiated:   true,
		domain.CondPaymentCompleted:  input.PaymentConfirmed,
		domain.CondTrackingProvided:  tracking,
		domain.CondDeliveryCompleted: input.DeliveryConfirmed,
		domain.CondPurchaseConfirmed: action == domain.ActionConfirmPurchase,
		domain.CondCancelRequested:   action == domain.ActionRequestCancel || t.Status == listing.StatusCancelRequested,
		domain.CondCancelApproved:    action == domain.ActionApproveCancel,
	}
}

// adminActingRole resolves which party role an admin impersonates for a
// given action, so admin requests flow through the same table.
func (s *Service) adminActingRole(status listing.Status, action string) domain.Role {
	for _, role := range []domain.Role{domain.RoleBuyer, domain.RoleSeller, domain.RoleSystem} {
		if _, ok := s.machine.TargetFor(status, role, action); ok {
			return role
		}
	}
	return domain.RoleAdmin
}

// mirrorListingStatus keeps the listing row on the same status as its
// trade. A conflict means the listing moved independently; that is
// logged and left for the status drift report.
func (s *Service) mirrorListingStatus(ctx context.Context, t *domain.Trade, from, to listing.Status) {
	if err := s.listingRepo.UpdateStatus(ctx, t.ListingID, from, to); err != nil {
		s.logger.Warn().Err(err).
			Str("listing_id", t.ListingID.String()).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("listing status mirror failed")
	}
}

func (s *Service) postStatusMessage(ctx context.Context, t *domain.Trade, to listing.Status) {
	msg := fmt.Sprintf("거래 상태가 '%s'(으)로 변경되었습니다.", s.machine.DisplayName(to))
	if err := s.chatSvc.PostSystemMessage(ctx, t.ChatID, msg); err != nil {
		s.logger.Warn().Err(err).Str("chat_id", t.ChatID.String()).Msg("failed to post status message")
	}
}

// afterClose refreshes the seller grade when a trade reaches a terminal
// status.
func (s *Service) afterClose(ctx context.Context, t *domain.Trade, to listing.Status) {
	if to != listing.StatusSold && to != listing.StatusCancelled {
		return
	}
	if err := s.grading.RefreshSeller(ctx, t.SellerID); err != nil {
		s.logger.Warn().Err(err).Str("seller_id", t.SellerID.String()).Msg("failed to refresh seller grade")
	}
}
