package chat

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domain "github.com/connectone/tradecore/internal/domain/chat"
	"github.com/connectone/tradecore/internal/domain/listing"
	lmocks "github.com/connectone/tradecore/internal/domain/listing/mocks"
)

type memoryChatRepo struct {
	rooms    map[uuid.UUID]*domain.Room
	messages map[uuid.UUID][]*domain.Message
}

func newMemoryChatRepo() *memoryChatRepo {
	return &memoryChatRepo{
		rooms:    map[uuid.UUID]*domain.Room{},
		messages: map[uuid.UUID][]*domain.Message{},
	}
}

func (r *memoryChatRepo) CreateRoom(_ context.Context, room *domain.Room) error {
	r.rooms[room.ChatID] = room
	return nil
}

func (r *memoryChatRepo) GetRoom(_ context.Context, chatID uuid.UUID) (*domain.Room, error) {
	return r.rooms[chatID], nil
}

func (r *memoryChatRepo) GetRoomByParties(_ context.Context, listingID, buyerID uuid.UUID) (*domain.Room, error) {
	for _, room := range r.rooms {
		if room.ListingID == listingID && room.BuyerID == buyerID {
			return room, nil
		}
	}
	return nil, nil
}

func (r *memoryChatRepo) ListRoomsByUser(_ context.Context, userID uuid.UUID, _, _ int) ([]*domain.Room, error) {
	var out []*domain.Room
	for _, room := range r.rooms {
		if room.HasParticipant(userID) {
			out = append(out, room)
		}
	}
	return out, nil
}

func (r *memoryChatRepo) CreateMessage(_ context.Context, m *domain.Message) error {
	r.messages[m.ChatID] = append(r.messages[m.ChatID], m)
	return nil
}

func (r *memoryChatRepo) ListMessages(_ context.Context, chatID uuid.UUID, _, _ int) ([]*domain.Message, error) {
	return r.messages[chatID], nil
}

func newChatFixture(t *testing.T) (*Service, *memoryChatRepo, *lmocks.MockRepository) {
	ctrl := gomock.NewController(t)
	listings := lmocks.NewMockRepository(ctrl)
	repo := newMemoryChatRepo()
	return NewService(repo, listings, zerolog.Nop()), repo, listings
}

func TestOpenRoom(t *testing.T) {
	t.Run("creates a room on first contact", func(t *testing.T) {
		svc, _, listings := newChatFixture(t)
		l := listing.NewListing(uuid.New(), "Roland TD-17", 900000)
		buyerID := uuid.New()
		listings.EXPECT().GetByID(gomock.Any(), l.ListingID).Return(l, nil).Times(2)

		room, err := svc.OpenRoom(context.Background(), l.ListingID, buyerID)
		require.NoError(t, err)
		assert.Equal(t, l.SellerID, room.SellerID)
		assert.Equal(t, buyerID, room.BuyerID)

		// reopening returns the same room
		again, err := svc.OpenRoom(context.Background(), l.ListingID, buyerID)
		require.NoError(t, err)
		assert.Equal(t, room.ChatID, again.ChatID)
	})

	t.Run("seller cannot chat with themselves", func(t *testing.T) {
		svc, _, listings := newChatFixture(t)
		l := listing.NewListing(uuid.New(), "Roland TD-17", 900000)
		listings.EXPECT().GetByID(gomock.Any(), l.ListingID).Return(l, nil)

		_, err := svc.OpenRoom(context.Background(), l.ListingID, l.SellerID)
		assert.Error(t, err)
	})

	t.Run("unknown listing", func(t *testing.T) {
		svc, _, listings := newChatFixture(t)
		id := uuid.New()
		listings.EXPECT().GetByID(gomock.Any(), id).Return(nil, nil)

		_, err := svc.OpenRoom(context.Background(), id, uuid.New())
		assert.Error(t, err)
	})
}

func TestMessages(t *testing.T) {
	t.Run("participants exchange messages", func(t *testing.T) {
		svc, repo, _ := newChatFixture(t)
		room := domain.NewRoom(uuid.New(), uuid.New(), uuid.New())
		repo.rooms[room.ChatID] = room

		msg, err := svc.SendMessage(context.Background(), room.ChatID, room.BuyerID, "아직 판매 중인가요?")
		require.NoError(t, err)
		assert.Equal(t, domain.KindUser, msg.Kind)

		msgs, err := svc.ListMessages(context.Background(), room.ChatID, room.SellerID, 100, 0)
		require.NoError(t, err)
		assert.Len(t, msgs, 1)
	})

	t.Run("blank messages are rejected", func(t *testing.T) {
		svc, repo, _ := newChatFixture(t)
		room := domain.NewRoom(uuid.New(), uuid.New(), uuid.New())
		repo.rooms[room.ChatID] = room

		_, err := svc.SendMessage(context.Background(), room.ChatID, room.BuyerID, "   ")
		assert.Error(t, err)
	})

	t.Run("non-participants cannot read", func(t *testing.T) {
		svc, repo, _ := newChatFixture(t)
		room := domain.NewRoom(uuid.New(), uuid.New(), uuid.New())
		repo.rooms[room.ChatID] = room

		_, err := svc.ListMessages(context.Background(), room.ChatID, uuid.New(), 100, 0)
		assert.ErrorIs(t, err, domain.ErrNotParticipant)
	})

	t.Run("system messages carry no sender", func(t *testing.T) {
		svc, repo, _ := newChatFixture(t)
		room := domain.NewRoom(uuid.New(), uuid.New(), uuid.New())
		repo.rooms[room.ChatID] = room

		require.NoError(t, svc.PostSystemMessage(context.Background(), room.ChatID, "거래가 시작되었습니다."))
		msgs := repo.messages[room.ChatID]
		require.Len(t, msgs, 1)
		assert.Equal(t, domain.KindSystem, msgs[0].Kind)
		assert.Nil(t, msgs[0].SenderID)
	})
}
