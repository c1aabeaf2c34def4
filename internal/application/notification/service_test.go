package notification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connectone/tradecore/internal/domain/escrow"
	"github.com/connectone/tradecore/internal/domain/listing"
	domain "github.com/connectone/tradecore/internal/domain/notification"
)

type memoryRepo struct {
	byID     map[uuid.UUID]*domain.Notification
	byDedupe map[string]*domain.Notification
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		byID:     map[uuid.UUID]*domain.Notification{},
		byDedupe: map[string]*domain.Notification{},
	}
}

func (r *memoryRepo) Create(_ context.Context, n *domain.Notification) error {
	r.byID[n.NotificationID] = n
	if n.DedupeKey != nil {
		r.byDedupe[*n.DedupeKey] = n
	}
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Notification, error) {
	return r.byID[id], nil
}

func (r *memoryRepo) GetByDedupeKey(_ context.Context, key string) (*domain.Notification, error) {
	return r.byDedupe[key], nil
}

func (r *memoryRepo) Update(_ context.Context, n *domain.Notification) error {
	r.byID[n.NotificationID] = n
	return nil
}

func (r *memoryRepo) List(_ context.Context, filter domain.Filter, _, _ int) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, n := range r.byID {
		if filter.TargetUserID != nil && n.TargetUserID != *filter.TargetUserID {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *memoryRepo) ListPending(_ context.Context, _ int) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, n := range r.byID {
		if n.Status == domain.StatusPending {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *memoryRepo) ListRetryable(_ context.Context, _ int) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, n := range r.byID {
		if n.Status == domain.StatusFailed && n.CanRetry() {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *memoryRepo) ExpireOverdue(_ context.Context) (int, error) {
	count := 0
	now := time.Now().UTC()
	for _, n := range r.byID {
		if n.Status == domain.StatusPending && n.ExpiresAt != nil && n.ExpiresAt.Before(now) {
			n.Status = domain.StatusExpired
			count++
		}
	}
	return count, nil
}

func (r *memoryRepo) CountUnread(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, n := range r.byID {
		if n.TargetUserID == userID && n.Status != domain.StatusDelivered && n.Status != domain.StatusExpired {
			count++
		}
	}
	return count, nil
}

type fakeHub struct {
	sent    []*domain.SSEMessage
	sendErr error
}

func (h *fakeHub) Register(_ *domain.SSEClient) {}
func (h *fakeHub) Unregister(_ string)          {}
func (h *fakeHub) Broadcast(_ *domain.SSEMessage) {
}
func (h *fakeHub) ClientCount() int { return 0 }

func (h *fakeHub) SendToUser(_ uuid.UUID, msg *domain.SSEMessage) error {
	if h.sendErr != nil {
		return h.sendErr
	}
	h.sent = append(h.sent, msg)
	return nil
}

func newTestService(hub *fakeHub) (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	svc := NewService(repo, hub, nil, escrow.NewMachine(), zerolog.Nop())
	return svc, repo
}

func sampleTrade() *escrow.Trade {
	return escrow.NewTrade(uuid.New(), uuid.New(), uuid.New(), uuid.New(), 500000)
}

func TestTradeStatusChanged(t *testing.T) {
	t.Run("notifies both parties once", func(t *testing.T) {
		svc, repo := newTestService(&fakeHub{})
		trade := sampleTrade()

		svc.TradeStatusChanged(context.Background(), trade, listing.StatusActive, listing.StatusReserved)
		assert.Len(t, repo.byID, 2)

		// redelivery of the same event is a no-op
		svc.TradeStatusChanged(context.Background(), trade, listing.StatusActive, listing.StatusReserved)
		assert.Len(t, repo.byID, 2)
	})

	t.Run("terminal statuses are high priority", func(t *testing.T) {
		svc, repo := newTestService(&fakeHub{})
		trade := sampleTrade()

		svc.TradeStatusChanged(context.Background(), trade, listing.StatusShipped, listing.StatusSold)
		for _, n := range repo.byID {
			assert.Equal(t, domain.PriorityHigh, n.Priority)
		}
	})

	t.Run("intermediate statuses are medium priority", func(t *testing.T) {
		svc, repo := newTestService(&fakeHub{})
		trade := sampleTrade()

		svc.TradeStatusChanged(context.Background(), trade, listing.StatusReserved, listing.StatusEscrowCompleted)
		for _, n := range repo.byID {
			assert.Equal(t, domain.PriorityMedium, n.Priority)
		}
	})
}

func TestProcessPending(t *testing.T) {
	t.Run("delivers queued notifications over SSE", func(t *testing.T) {
		hub := &fakeHub{}
		svc, repo := newTestService(hub)
		trade := sampleTrade()
		svc.TradeStatusChanged(context.Background(), trade, listing.StatusActive, listing.StatusReserved)

		require.NoError(t, svc.ProcessPending(context.Background(), 50))
		assert.Len(t, hub.sent, 2)
		for _, n := range repo.byID {
			assert.Equal(t, domain.StatusDelivered, n.Status)
		}
	})

	t.Run("offline users still count as delivered", func(t *testing.T) {
		hub := &fakeHub{sendErr: domain.ErrClientNotFound}
		svc, repo := newTestService(hub)
		trade := sampleTrade()
		svc.TradeStatusChanged(context.Background(), trade, listing.StatusActive, listing.StatusReserved)

		require.NoError(t, svc.ProcessPending(context.Background(), 50))
		for _, n := range repo.byID {
			assert.Equal(t, domain.StatusDelivered, n.Status)
		}
	})

	t.Run("full client buffers queue a retry", func(t *testing.T) {
		hub := &fakeHub{sendErr: domain.ErrChannelFull}
		svc, repo := newTestService(hub)
		trade := sampleTrade()
		svc.TradeStatusChanged(context.Background(), trade, listing.StatusActive, listing.StatusReserved)

		_ = svc.ProcessPending(context.Background(), 50)
		for _, n := range repo.byID {
			assert.Equal(t, domain.StatusFailed, n.Status)
			assert.Equal(t, 1, n.RetryCount)
			assert.True(t, n.CanRetry())
		}

		// the retry loop re-queues them, the next pending pass delivers
		hub.sendErr = nil
		require.NoError(t, svc.ProcessRetryable(context.Background(), 50))
		for _, n := range repo.byID {
			assert.Equal(t, domain.StatusPending, n.Status)
		}
		require.NoError(t, svc.ProcessPending(context.Background(), 50))
		for _, n := range repo.byID {
			assert.Equal(t, domain.StatusDelivered, n.Status)
		}
	})

	t.Run("expired notifications are not delivered", func(t *testing.T) {
		hub := &fakeHub{}
		svc, repo := newTestService(hub)
		n := domain.NewNotification(uuid.New(), uuid.New(), domain.ChannelSSE, domain.PriorityLow, "t", "b", nil)
		n.SetExpiry(time.Now().UTC().Add(-time.Minute))
		require.NoError(t, repo.Create(context.Background(), n))

		_ = svc.ProcessPending(context.Background(), 50)
		assert.Empty(t, hub.sent)
		assert.Equal(t, domain.StatusExpired, n.Status)
	})
}

func TestSendNow(t *testing.T) {
	t.Run("delivers a pending notification immediately", func(t *testing.T) {
		hub := &fakeHub{}
		svc, repo := newTestService(hub)
		n := domain.NewNotification(uuid.New(), uuid.New(), domain.ChannelSSE, domain.PriorityMedium, "t", "b", nil)
		require.NoError(t, repo.Create(context.Background(), n))

		got, err := svc.SendNow(context.Background(), n.NotificationID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusDelivered, got.Status)
	})

	t.Run("delivered notifications cannot be resent", func(t *testing.T) {
		hub := &fakeHub{}
		svc, repo := newTestService(hub)
		n := domain.NewNotification(uuid.New(), uuid.New(), domain.ChannelSSE, domain.PriorityMedium, "t", "b", nil)
		require.NoError(t, repo.Create(context.Background(), n))
		_, err := svc.SendNow(context.Background(), n.NotificationID)
		require.NoError(t, err)

		_, err = svc.SendNow(context.Background(), n.NotificationID)
		assert.ErrorIs(t, err, domain.ErrCannotRetry)
	})

	t.Run("unknown notification", func(t *testing.T) {
		svc, _ := newTestService(&fakeHub{})
		_, err := svc.SendNow(context.Background(), uuid.New())
		assert.Error(t, err)
	})
}

func TestCountUnread(t *testing.T) {
	hub := &fakeHub{}
	svc, _ := newTestService(hub)
	trade := sampleTrade()
	svc.TradeStatusChanged(context.Background(), trade, listing.StatusActive, listing.StatusReserved)

	count, err := svc.CountUnread(context.Background(), trade.BuyerID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, svc.ProcessPending(context.Background(), 50))
	count, err = svc.CountUnread(context.Background(), trade.BuyerID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
