package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/connectone/tradecore/internal/domain/trade"
)

type openChatRequest struct {
	ListingID uuid.UUID `json:"listing_id"`
}

type postMessageRequest struct {
	Body string `json:"body"`
}

type tradeStateRequest struct {
	Target string `json:"target"`
}

func (s *Server) openChat(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	var req openChatRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if req.ListingID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "listing_id is required")
		return
	}
	room, err := s.chatSvc.OpenRoom(r.Context(), req.ListingID, auth.UserID)
	if err != nil {
		respondTradeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, room)
}

func (s *Server) listChats(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	limit, offset := parseLimitOffset(r, 50, 200)
	rooms, err := s.chatSvc.ListRooms(r.Context(), auth.UserID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"chats": rooms})
}

func (s *Server) getChat(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	chatID, err := parseUUIDParam(r, "chatId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid chat id")
		return
	}
	room, err := s.chatSvc.GetRoom(r.Context(), chatID, auth.UserID)
	if err != nil {
		respondTradeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, room)
}

func (s *Server) getTradeState(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	chatID, err := parseUUIDParam(r, "chatId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid chat id")
		return
	}
	state, err := s.tradeSvc.GetOrCreate(r.Context(), chatID, auth.UserID)
	if err != nil {
		respondTradeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) putTradeState(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	chatID, err := parseUUIDParam(r, "chatId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid chat id")
		return
	}
	var req tradeStateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if req.Target == "" {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "target is required")
		return
	}
	state, err := s.tradeSvc.Advance(r.Context(), chatID, auth.UserID, trade.Status(req.Target), auth.IsAdmin())
	if err != nil {
		respondTradeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) tradeStateTransitions(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	chatID, err := parseUUIDParam(r, "chatId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid chat id")
		return
	}
	targets, err := s.tradeSvc.AvailableTransitions(r.Context(), chatID, auth.UserID, auth.IsAdmin())
	if err != nil {
		respondTradeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"transitions": targets})
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	chatID, err := parseUUIDParam(r, "chatId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid chat id")
		return
	}
	limit, offset := parseLimitOffset(r, 100, 500)
	messages, err := s.chatSvc.ListMessages(r.Context(), chatID, auth.UserID, limit, offset)
	if err != nil {
		respondTradeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	chatID, err := parseUUIDParam(r, "chatId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid chat id")
		return
	}
	var req postMessageRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	msg, err := s.chatSvc.SendMessage(r.Context(), chatID, auth.UserID, req.Body)
	if err != nil {
		respondTradeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, msg)
}

// chatStream streams the caller's notifications for the duration of a chat
// view. Participation in the chat is checked before the stream opens.
func (s *Server) chatStream(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	chatID, err := parseUUIDParam(r, "chatId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid chat id")
		return
	}
	if _, err := s.chatSvc.GetRoom(r.Context(), chatID, auth.UserID); err != nil {
		respondTradeError(w, err)
		return
	}
	s.streamSSE(w, r, auth.UserID)
}

func (s *Server) streamSSE(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "streaming not supported")
		return
	}

	client := s.notificationSvc.Subscribe(userID)
	defer s.notificationSvc.Unsubscribe(client.ClientID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Send an initial comment to flush headers and keep the connection alive.
	_, _ = w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case msg := <-client.MessageChan:
			if msg == nil {
				return
			}
			payload, _ := json.Marshal(msg)
			_, _ = w.Write([]byte("data: "))
			_, _ = w.Write(payload)
			_, _ = w.Write([]byte("\n\n"))
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}
