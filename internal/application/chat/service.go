package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domain "github.com/connectone/tradecore/internal/domain/chat"
	"github.com/connectone/tradecore/internal/domain/listing"
)

// Service handles chat rooms and messages.
type Service struct {
	repo        domain.Repository
	listingRepo listing.Repository
	logger      zerolog.Logger
}

// NewService creates a chat service.
func NewService(repo domain.Repository, listingRepo listing.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:        repo,
		listingRepo: listingRepo,
		logger:      logger.With().Str("service", "chat").Logger(),
	}
}

// OpenRoom returns the room between a buyer and the listing's seller,
// creating it on first contact.
func (s *Service) OpenRoom(ctx context.Context, listingID, buyerID uuid.UUID) (*domain.Room, error) {
	l, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fmt.Errorf("listing not found: %s", listingID)
	}
	if l.SellerID == buyerID {
		return nil, fmt.Errorf("cannot open a chat with yourself")
	}

	existing, err := s.repo.GetRoomByParties(ctx, listingID, buyerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	room := domain.NewRoom(listingID, buyerID, l.SellerID)
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("chat_id", room.ChatID.String()).
		Str("listing_id", listingID.String()).
		Msg("chat room opened")
	return room, nil
}

// GetRoom retrieves a room, checking the requester participates in it.
func (s *Service) GetRoom(ctx context.Context, chatID, userID uuid.UUID) (*domain.Room, error) {
	room, err := s.repo.GetRoom(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, domain.ErrRoomNotFound
	}
	if !room.HasParticipant(userID) {
		return nil, domain.ErrNotParticipant
	}
	return room, nil
}

// ListRooms lists the rooms a user participates in.
func (s *Service) ListRooms(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Room, error) {
	return s.repo.ListRoomsByUser(ctx, userID, limit, offset)
}

// SendMessage posts a user message to a room.
func (s *Service) SendMessage(ctx context.Context, chatID, senderID uuid.UUID, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("message content is required")
	}

	room, err := s.GetRoom(ctx, chatID, senderID)
	if err != nil {
		return nil, err
	}

	msg := domain.NewUserMessage(room.ChatID, senderID, content)
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// PostSystemMessage posts a system message to a room. Used by trade
// state changes so both parties see the progress in the conversation.
func (s *Service) PostSystemMessage(ctx context.Context, chatID uuid.UUID, content string) error {
	room, err := s.repo.GetRoom(ctx, chatID)
	if err != nil {
		return err
	}
	if room == nil {
		return domain.ErrRoomNotFound
	}

	msg := domain.NewSystemMessage(room.ChatID, content)
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		s.logger.Error().Err(err).Str("chat_id", chatID.String()).Msg("failed to post system message")
		return err
	}
	return nil
}

// ListMessages lists messages in a room, newest last.
func (s *Service) ListMessages(ctx context.Context, chatID, userID uuid.UUID, limit, offset int) ([]*domain.Message, error) {
	if _, err := s.GetRoom(ctx, chatID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, chatID, limit, offset)
}
