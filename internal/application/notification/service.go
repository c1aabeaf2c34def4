package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/connectone/tradecore/internal/domain/escrow"
	"github.com/connectone/tradecore/internal/domain/listing"
	domain "github.com/connectone/tradecore/internal/domain/notification"
)

// Service handles notification creation and delivery.
type Service struct {
	repo    domain.Repository
	hub     domain.SSEHub
	webhook *WebhookSender
	machine *escrow.Machine
	logger  zerolog.Logger
}

// NewService creates a notification service.
func NewService(repo domain.Repository, hub domain.SSEHub, webhook *WebhookSender, machine *escrow.Machine, logger zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		hub:     hub,
		webhook: webhook,
		machine: machine,
		logger:  logger.With().Str("service", "notification").Logger(),
	}
}

type tradeEventPayload struct {
	TradeID   string `json:"tradeId"`
	ListingID string `json:"listingId"`
	From      string `json:"from"`
	To        string `json:"to"`
}

// TradeStatusChanged enqueues notifications for both trade parties when
// the trade moves. Dedupe keys make redelivery of the same event a no-op.
func (s *Service) TradeStatusChanged(ctx context.Context, t *escrow.Trade, from, to listing.Status) {
	payload, err := json.Marshal(tradeEventPayload{
		TradeID:   t.TradeID.String(),
		ListingID: t.ListingID.String(),
		From:      string(from),
		To:        string(to),
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to marshal trade event payload")
		return
	}

	title := fmt.Sprintf("거래 상태 변경: %s", s.machine.DisplayName(to))
	body := fmt.Sprintf("거래 상태가 '%s'에서 '%s'(으)로 변경되었습니다.",
		s.machine.DisplayName(from), s.machine.DisplayName(to))

	priority := domain.PriorityMedium
	if to == listing.StatusSold || to == listing.StatusCancelled || to == listing.StatusCancelRequested {
		priority = domain.PriorityHigh
	}

	for _, target := range []uuid.UUID{t.BuyerID, t.SellerID} {
		n := domain.NewNotification(t.TradeID, target, domain.ChannelSSE, priority, title, body, payload)
		n.SetDedupeKey(fmt.Sprintf("trade:%s:%s:%s", t.TradeID, to, target))
		n.SetExpiry(time.Now().UTC().Add(7 * 24 * time.Hour))
		if err := s.enqueue(ctx, n); err != nil {
			s.logger.Error().Err(err).Str("trade_id", t.TradeID.String()).Msg("failed to enqueue notification")
		}
	}

	if s.webhook != nil && s.webhook.Enabled() {
		n := domain.NewNotification(t.TradeID, t.SellerID, domain.ChannelWebhook, priority, title, body, payload)
		n.SetDedupeKey(fmt.Sprintf("trade:%s:%s:webhook", t.TradeID, to))
		n.SetExpiry(time.Now().UTC().Add(24 * time.Hour))
		if err := s.enqueue(ctx, n); err != nil {
			s.logger.Error().Err(err).Str("trade_id", t.TradeID.String()).Msg("failed to enqueue webhook notification")
		}
	}
}

func (s *Service) enqueue(ctx context.Context, n *domain.Notification) error {
	if n.DedupeKey != nil {
		existing, err := s.repo.GetByDedupeKey(ctx, *n.DedupeKey)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}
	}
	return s.repo.Create(ctx, n)
}

// ProcessPending delivers pending notifications over their channel.
func (s *Service) ProcessPending(ctx context.Context, limit int) error {
	pending, err := s.repo.ListPending(ctx, limit)
	if err != nil {
		return err
	}

	for _, n := range pending {
		if err := s.deliver(ctx, n); err != nil {
			s.logger.Debug().Err(err).
				Str("notification_id", n.NotificationID.String()).
				Str("channel", string(n.Channel)).
				Msg("notification delivery failed")
		}
	}
	return nil
}

func (s *Service) deliver(ctx context.Context, n *domain.Notification) error {
	if n.IsExpired() {
		if err := n.MarkExpired(); err == nil {
			_ = s.repo.Update(ctx, n)
		}
		return domain.ErrExpired
	}

	if err := n.MarkSent(); err != nil {
		_ = s.repo.Update(ctx, n)
		return err
	}

	var sendErr error
	switch n.Channel {
	case domain.ChannelSSE:
		msg := domain.NewSSEMessage("notification", mustMarshal(n))
		sendErr = s.hub.SendToUser(n.TargetUserID, msg)
		// A user with no open connection is not a delivery failure;
		// they will see the notification on next poll.
		if errors.Is(sendErr, domain.ErrClientNotFound) {
			sendErr = nil
		}
	case domain.ChannelWebhook:
		sendErr = s.webhook.Send(ctx, n)
	default:
		sendErr = fmt.Errorf("unknown channel: %s", n.Channel)
	}

	if sendErr != nil {
		if err := n.MarkFailed(sendErr.Error()); err != nil {
			s.logger.Warn().Err(err).Str("notification_id", n.NotificationID.String()).Msg("failed to mark notification failed")
		}
		if err := s.repo.Update(ctx, n); err != nil {
			return err
		}
		return sendErr
	}

	if err := n.MarkDelivered(); err != nil {
		return err
	}
	return s.repo.Update(ctx, n)
}

// ProcessRetryable re-queues failed notifications that still have
// retries left.
func (s *Service) ProcessRetryable(ctx context.Context, limit int) error {
	retryable, err := s.repo.ListRetryable(ctx, limit)
	if err != nil {
		return err
	}
	for _, n := range retryable {
		if err := n.ResetForRetry(); err != nil {
			continue
		}
		if err := s.repo.Update(ctx, n); err != nil {
			s.logger.Error().Err(err).Str("notification_id", n.NotificationID.String()).Msg("failed to reset notification")
		}
	}
	return nil
}

// ExpireOverdue marks overdue pending notifications as expired.
func (s *Service) ExpireOverdue(ctx context.Context) error {
	count, err := s.repo.ExpireOverdue(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		s.logger.Info().Int("count", count).Msg("notifications expired")
	}
	return nil
}

// List retrieves a user's notifications.
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Notification, error) {
	return s.repo.List(ctx, domain.Filter{TargetUserID: &userID}, limit, offset)
}

// CountUnread counts a user's undelivered notifications.
func (s *Service) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

// SendNow delivers a single notification immediately, bypassing the
// background loop. Terminal notifications cannot be resent.
func (s *Service) SendNow(ctx context.Context, notificationID uuid.UUID) (*domain.Notification, error) {
	n, err := s.repo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("notification not found: %s", notificationID)
	}
	if n.IsTerminal() {
		return nil, domain.ErrCannotRetry
	}
	if n.Status == domain.StatusFailed {
		if err := n.ResetForRetry(); err != nil {
			return nil, err
		}
	}
	if err := s.deliver(ctx, n); err != nil {
		return n, err
	}
	return n, nil
}

// Subscribe registers an SSE client for a user and returns it.
func (s *Service) Subscribe(userID uuid.UUID) *domain.SSEClient {
	client := domain.NewSSEClient(uuid.New().String(), userID)
	s.hub.Register(client)
	return client
}

// Unsubscribe removes an SSE client from the hub.
func (s *Service) Unsubscribe(clientID string) {
	s.hub.Unregister(clientID)
}

func mustMarshal(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return data
}
