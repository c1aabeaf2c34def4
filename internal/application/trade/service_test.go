package trade

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appChat "github.com/connectone/tradecore/internal/application/chat"
	"github.com/connectone/tradecore/internal/domain/chat"
	domain "github.com/connectone/tradecore/internal/domain/trade"
)

type fakeStateRepo struct {
	states map[uuid.UUID]*domain.State
}

func (f *fakeStateRepo) Create(_ context.Context, s *domain.State) error {
	f.states[s.ChatID] = s
	return nil
}

func (f *fakeStateRepo) GetByChatID(_ context.Context, chatID uuid.UUID) (*domain.State, error) {
	return f.states[chatID], nil
}

func (f *fakeStateRepo) Update(_ context.Context, s *domain.State) error {
	f.states[s.ChatID] = s
	return nil
}

type fakeChatRepo struct {
	chat.Repository
	rooms    map[uuid.UUID]*chat.Room
	messages []*chat.Message
}

func (f *fakeChatRepo) GetRoom(_ context.Context, chatID uuid.UUID) (*chat.Room, error) {
	return f.rooms[chatID], nil
}

func (f *fakeChatRepo) CreateMessage(_ context.Context, m *chat.Message) error {
	f.messages = append(f.messages, m)
	return nil
}

func newFixture() (*Service, *fakeStateRepo, *fakeChatRepo, *chat.Room) {
	stateRepo := &fakeStateRepo{states: map[uuid.UUID]*domain.State{}}
	chatRepo := &fakeChatRepo{rooms: map[uuid.UUID]*chat.Room{}}
	room := chat.NewRoom(uuid.New(), uuid.New(), uuid.New())
	chatRepo.rooms[room.ChatID] = room

	chatSvc := appChat.NewService(chatRepo, nil, zerolog.Nop())
	svc := NewService(stateRepo, chatRepo, chatSvc, zerolog.Nop())
	return svc, stateRepo, chatRepo, room
}

func TestGetOrCreate(t *testing.T) {
	t.Run("first access creates a waiting state", func(t *testing.T) {
		svc, repo, _, room := newFixture()
		state, err := svc.GetOrCreate(context.Background(), room.ChatID, room.BuyerID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusWaiting, state.Status)
		assert.NotNil(t, repo.states[room.ChatID])
	})

	t.Run("subsequent access returns the same state", func(t *testing.T) {
		svc, _, _, room := newFixture()
		first, err := svc.GetOrCreate(context.Background(), room.ChatID, room.SellerID)
		require.NoError(t, err)
		second, err := svc.GetOrCreate(context.Background(), room.ChatID, room.BuyerID)
		require.NoError(t, err)
		assert.Equal(t, first.ChatID, second.ChatID)
	})

	t.Run("strangers are rejected", func(t *testing.T) {
		svc, _, _, room := newFixture()
		_, err := svc.GetOrCreate(context.Background(), room.ChatID, uuid.New())
		assert.ErrorIs(t, err, chat.ErrNotParticipant)
	})

	t.Run("unknown chat", func(t *testing.T) {
		svc, _, _, _ := newFixture()
		_, err := svc.GetOrCreate(context.Background(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, chat.ErrRoomNotFound)
	})
}

func TestAdvance(t *testing.T) {
	t.Run("seller starts and buyer completes", func(t *testing.T) {
		svc, _, chatRepo, room := newFixture()
		_, err := svc.GetOrCreate(context.Background(), room.ChatID, room.SellerID)
		require.NoError(t, err)

		state, err := svc.Advance(context.Background(), room.ChatID, room.SellerID, domain.StatusTrading, false)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusTrading, state.Status)

		state, err = svc.Advance(context.Background(), room.ChatID, room.BuyerID, domain.StatusCompleted, false)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, state.Status)

		// each advance posts one system message into the chat
		require.Len(t, chatRepo.messages, 2)
		assert.Equal(t, chat.KindSystem, chatRepo.messages[0].Kind)
	})

	t.Run("buyer cannot start the trade", func(t *testing.T) {
		svc, _, _, room := newFixture()
		_, err := svc.GetOrCreate(context.Background(), room.ChatID, room.BuyerID)
		require.NoError(t, err)

		_, err = svc.Advance(context.Background(), room.ChatID, room.BuyerID, domain.StatusTrading, false)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("admin may act as either side", func(t *testing.T) {
		svc, _, _, room := newFixture()
		_, err := svc.GetOrCreate(context.Background(), room.ChatID, room.SellerID)
		require.NoError(t, err)

		admin := uuid.New()
		state, err := svc.Advance(context.Background(), room.ChatID, admin, domain.StatusTrading, true)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusTrading, state.Status)
	})

	t.Run("completed is terminal", func(t *testing.T) {
		svc, repo, _, room := newFixture()
		state := domain.NewState(room.ChatID, room.SellerID)
		state.Status = domain.StatusCompleted
		repo.states[room.ChatID] = state

		_, err := svc.Advance(context.Background(), room.ChatID, room.BuyerID, domain.StatusTrading, false)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestAvailableTransitions(t *testing.T) {
	svc, repo, _, room := newFixture()

	// no state yet: offers the waiting-state transitions for the role
	targets, err := svc.AvailableTransitions(context.Background(), room.ChatID, room.SellerID, false)
	require.NoError(t, err)
	assert.Equal(t, []domain.Status{domain.StatusTrading}, targets)

	targets, err = svc.AvailableTransitions(context.Background(), room.ChatID, room.BuyerID, false)
	require.NoError(t, err)
	assert.Empty(t, targets)

	state := domain.NewState(room.ChatID, room.SellerID)
	state.Status = domain.StatusTrading
	repo.states[room.ChatID] = state

	targets, err = svc.AvailableTransitions(context.Background(), room.ChatID, room.BuyerID, false)
	require.NoError(t, err)
	assert.Equal(t, []domain.Status{domain.StatusCompleted}, targets)
}
