package chat

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoom(t *testing.T) {
	listingID := uuid.New()
	buyerID := uuid.New()
	sellerID := uuid.New()

	r := NewRoom(listingID, buyerID, sellerID)

	require.NotNil(t, r)
	assert.NotEqual(t, uuid.Nil, r.ChatID)
	assert.True(t, r.HasParticipant(buyerID))
	assert.True(t, r.HasParticipant(sellerID))
	assert.False(t, r.HasParticipant(uuid.New()))
}

func TestMessages(t *testing.T) {
	chatID := uuid.New()
	senderID := uuid.New()

	m := NewUserMessage(chatID, senderID, "네고 가능한가요?")
	require.NotNil(t, m.SenderID)
	assert.Equal(t, senderID, *m.SenderID)
	assert.Equal(t, KindUser, m.Kind)

	sys := NewSystemMessage(chatID, "상품 상태가 배송중으로 변경되었습니다.")
	assert.Nil(t, sys.SenderID)
	assert.Equal(t, KindSystem, sys.Kind)
	assert.Equal(t, chatID, sys.ChatID)
}
