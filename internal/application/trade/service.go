package trade

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appChat "github.com/connectone/tradecore/internal/application/chat"
	"github.com/connectone/tradecore/internal/domain/chat"
	"github.com/connectone/tradecore/internal/domain/escrow"
	domain "github.com/connectone/tradecore/internal/domain/trade"
)

// Service handles direct (non-escrow) trade progress per chat room.
type Service struct {
	repo     domain.Repository
	chatRepo chat.Repository
	chatSvc  *appChat.Service
	logger   zerolog.Logger
}

// NewService creates a direct-trade service.
func NewService(repo domain.Repository, chatRepo chat.Repository, chatSvc *appChat.Service, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		chatRepo: chatRepo,
		chatSvc:  chatSvc,
		logger:   logger.With().Str("service", "trade").Logger(),
	}
}

// GetOrCreate returns the trade state for a chat, creating the initial
// waiting state on first access.
func (s *Service) GetOrCreate(ctx context.Context, chatID, userID uuid.UUID) (*domain.State, error) {
	room, err := s.chatRepo.GetRoom(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, chat.ErrRoomNotFound
	}
	if !room.HasParticipant(userID) {
		return nil, chat.ErrNotParticipant
	}

	state, err := s.repo.GetByChatID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if state != nil {
		return state, nil
	}

	state = domain.NewState(chatID, userID)
	if err := s.repo.Create(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// roleInRoom resolves what role a user plays in a chat room.
func roleInRoom(room *chat.Room, userID uuid.UUID, isAdmin bool) (domain.Role, error) {
	if isAdmin {
		return escrow.RoleAdmin, nil
	}
	switch userID {
	case room.BuyerID:
		return escrow.RoleBuyer, nil
	case room.SellerID:
		return escrow.RoleSeller, nil
	default:
		return "", chat.ErrNotParticipant
	}
}

// Advance moves the trade state forward for the acting user's role and
// posts a system message into the chat.
func (s *Service) Advance(ctx context.Context, chatID, userID uuid.UUID, target domain.Status, isAdmin bool) (*domain.State, error) {
	room, err := s.chatRepo.GetRoom(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, chat.ErrRoomNotFound
	}

	role, err := roleInRoom(room, userID, isAdmin)
	if err != nil {
		return nil, err
	}

	state, err := s.repo.GetByChatID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, fmt.Errorf("trade state not found for chat %s", chatID)
	}

	if err := state.Advance(target, role, userID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, state); err != nil {
		return nil, err
	}

	if err := s.chatSvc.PostSystemMessage(ctx, chatID, domain.StatusDescription(target)); err != nil {
		s.logger.Warn().Err(err).Str("chat_id", chatID.String()).Msg("failed to post trade status message")
	}

	s.logger.Info().
		Str("chat_id", chatID.String()).
		Str("status", string(target)).
		Str("role", string(role)).
		Msg("direct trade advanced")
	return state, nil
}

// AvailableTransitions lists the statuses the acting user may move to.
func (s *Service) AvailableTransitions(ctx context.Context, chatID, userID uuid.UUID, isAdmin bool) ([]domain.Status, error) {
	room, err := s.chatRepo.GetRoom(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, chat.ErrRoomNotFound
	}

	role, err := roleInRoom(room, userID, isAdmin)
	if err != nil {
		return nil, err
	}

	state, err := s.repo.GetByChatID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return domain.ValidTransitions(domain.StatusWaiting, role), nil
	}
	return domain.ValidTransitions(state.Status, role), nil
}
