package chat

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrRoomNotFound   = errors.New("chat room not found")
	ErrNotParticipant = errors.New("user is not a participant of this chat")
)

// Room is the buyer/seller conversation attached to a listing. Trade
// state (direct trades) and system messages (escrow transitions) hang
// off the room.
type Room struct {
	ID        int64     `json:"id"`
	ChatID    uuid.UUID `json:"chatId"`
	ListingID uuid.UUID `json:"listingId"`
	BuyerID   uuid.UUID `json:"buyerId"`
	SellerID  uuid.UUID `json:"sellerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewRoom creates a chat room between a buyer and a seller.
func NewRoom(listingID, buyerID, sellerID uuid.UUID) *Room {
	return &Room{
		ChatID:    uuid.New(),
		ListingID: listingID,
		BuyerID:   buyerID,
		SellerID:  sellerID,
		CreatedAt: time.Now().UTC(),
	}
}

// HasParticipant reports whether userID is a party of the room.
func (r *Room) HasParticipant(userID uuid.UUID) bool {
	return userID == r.BuyerID || userID == r.SellerID
}

// MessageKind distinguishes user messages from machine-posted ones.
type MessageKind string

const (
	KindUser   MessageKind = "user"
	KindSystem MessageKind = "system"
)

// Message is one chat message. System messages have no sender.
type Message struct {
	ID        int64       `json:"id"`
	MessageID uuid.UUID   `json:"messageId"`
	ChatID    uuid.UUID   `json:"chatId"`
	SenderID  *uuid.UUID  `json:"senderId,omitempty"`
	Kind      MessageKind `json:"kind"`
	Body      string      `json:"body"`
	CreatedAt time.Time   `json:"createdAt"`
}

// NewUserMessage creates a message sent by a participant.
func NewUserMessage(chatID, senderID uuid.UUID, body string) *Message {
	return &Message{
		MessageID: uuid.New(),
		ChatID:    chatID,
		SenderID:  &senderID,
		Kind:      KindUser,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
}

// NewSystemMessage creates a machine-posted message, e.g. a trade
// status announcement.
func NewSystemMessage(chatID uuid.UUID, body string) *Message {
	return &Message{
		MessageID: uuid.New(),
		ChatID:    chatID,
		Kind:      KindSystem,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
}
