package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/connectone/tradecore/internal/domain/chat"
)

// ChatRepository implements chat.Repository.
type ChatRepository struct {
	pool *pgxpool.Pool
}

func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

func (r *ChatRepository) CreateRoom(ctx context.Context, room *chat.Room) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat_rooms (chat_id, listing_id, buyer_id, seller_id, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, room.ChatID, room.ListingID, room.BuyerID, room.SellerID, room.CreatedAt)
	return err
}

func (r *ChatRepository) GetRoom(ctx context.Context, chatID uuid.UUID) (*chat.Room, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT chat_id, listing_id, buyer_id, seller_id, created_at
		FROM chat_rooms WHERE chat_id=$1
	`, chatID)
	return scanRoom(row)
}

func (r *ChatRepository) GetRoomByParties(ctx context.Context, listingID, buyerID uuid.UUID) (*chat.Room, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT chat_id, listing_id, buyer_id, seller_id, created_at
		FROM chat_rooms WHERE listing_id=$1 AND buyer_id=$2
	`, listingID, buyerID)
	return scanRoom(row)
}

func (r *ChatRepository) ListRoomsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*chat.Room, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT chat_id, listing_id, buyer_id, seller_id, created_at
		FROM chat_rooms WHERE buyer_id=$1 OR seller_id=$1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, clampLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []*chat.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (r *ChatRepository) CreateMessage(ctx context.Context, m *chat.Message) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat_messages (message_id, chat_id, sender_id, kind, body, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, m.MessageID, m.ChatID, m.SenderID, m.Kind, m.Body, m.CreatedAt)
	return err
}

func (r *ChatRepository) ListMessages(ctx context.Context, chatID uuid.UUID, limit, offset int) ([]*chat.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, message_id, chat_id, sender_id, kind, body, created_at
		FROM chat_messages WHERE chat_id=$1
		ORDER BY created_at ASC, id ASC LIMIT $2 OFFSET $3
	`, chatID, clampLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*chat.Message
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.MessageID, &m.ChatID, &m.SenderID, &m.Kind, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

func scanRoom(row pgx.Row) (*chat.Room, error) {
	var room chat.Room
	if err := row.Scan(&room.ChatID, &room.ListingID, &room.BuyerID, &room.SellerID, &room.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}
