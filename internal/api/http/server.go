package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	appAudit "github.com/connectone/tradecore/internal/application/audit"
	appAuth "github.com/connectone/tradecore/internal/application/auth"
	appChat "github.com/connectone/tradecore/internal/application/chat"
	appEscrow "github.com/connectone/tradecore/internal/application/escrow"
	appGrading "github.com/connectone/tradecore/internal/application/grading"
	appListing "github.com/connectone/tradecore/internal/application/listing"
	appNotification "github.com/connectone/tradecore/internal/application/notification"
	appTrade "github.com/connectone/tradecore/internal/application/trade"
	appUser "github.com/connectone/tradecore/internal/application/user"
	"github.com/connectone/tradecore/internal/domain/chat"
	domainEscrow "github.com/connectone/tradecore/internal/domain/escrow"
	domainListing "github.com/connectone/tradecore/internal/domain/listing"
	domainUser "github.com/connectone/tradecore/internal/domain/user"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	listingSvc          *appListing.Service
	escrowSvc           *appEscrow.Service
	tradeSvc            *appTrade.Service
	chatSvc             *appChat.Service
	notificationSvc     *appNotification.Service
	gradingSvc          *appGrading.Service
	auditSvc            *appAudit.Service
	authSvc             *appAuth.Service
	userSvc             *appUser.Service
	machine             *domainEscrow.Machine
	sessionCookieName   string
	sessionCookieSecure bool
}

func NewServer(
	listingSvc *appListing.Service,
	escrowSvc *appEscrow.Service,
	tradeSvc *appTrade.Service,
	chatSvc *appChat.Service,
	notificationSvc *appNotification.Service,
	gradingSvc *appGrading.Service,
	auditSvc *appAudit.Service,
	authSvc *appAuth.Service,
	userSvc *appUser.Service,
	machine *domainEscrow.Machine,
	sessionCookieName string,
	sessionCookieSecure bool,
) *Server {
	return &Server{
		listingSvc:          listingSvc,
		escrowSvc:           escrowSvc,
		tradeSvc:            tradeSvc,
		chatSvc:             chatSvc,
		notificationSvc:     notificationSvc,
		gradingSvc:          gradingSvc,
		auditSvc:            auditSvc,
		authSvc:             authSvc,
		userSvc:             userSvc,
		machine:             machine,
		sessionCookieName:   sessionCookieName,
		sessionCookieSecure: sessionCookieSecure,
	}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.login)
			r.Post("/bootstrap", s.bootstrapAdmin)
			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/logout", s.logout)
				r.Get("/me", s.me)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Route("/listings", func(r chi.Router) {
				r.Post("/", s.publishListing)
				r.Get("/", s.listListings)
				r.Get("/{listingId}", s.getListing)
				r.Delete("/{listingId}", s.deleteListing)
				r.Get("/{listingId}/actions", s.listingActions)
			})

			r.Route("/trades", func(r chi.Router) {
				r.Post("/", s.startTrade)
				r.Get("/", s.listTrades)
				r.Get("/{tradeId}", s.getTrade)
				r.Post("/{tradeId}/transition", s.transitionTrade)
				r.Get("/{tradeId}/history", s.tradeHistory)
				r.Get("/{tradeId}/actions", s.tradeActions)
			})

			r.Route("/chats", func(r chi.Router) {
				r.Post("/", s.openChat)
				r.Get("/", s.listChats)
				r.Get("/{chatId}", s.getChat)
				r.Get("/{chatId}/trade-state", s.getTradeState)
				r.Put("/{chatId}/trade-state", s.putTradeState)
				r.Get("/{chatId}/trade-state/transitions", s.tradeStateTransitions)
				r.Get("/{chatId}/messages", s.listMessages)
				r.Post("/{chatId}/messages", s.postMessage)
				r.Get("/{chatId}/stream", s.chatStream)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", s.listNotifications)
				r.Get("/unread-count", s.unreadCount)
				r.Post("/{notificationId}/send", s.sendNotification)
				r.Get("/sse", s.sseEndpoint)
			})

			r.Route("/sellers", func(r chi.Router) {
				r.Get("/top", s.topSellers)
				r.Get("/{sellerId}/grade", s.getSellerGrade)
				r.Get("/{sellerId}/listings", s.listSellerListings)
			})

			r.Route("/users", func(r chi.Router) {
				r.With(s.requireRole(string(domainUser.RoleAdmin))).Post("/", s.createUser)
				r.With(s.requireRole(string(domainUser.RoleAdmin))).Get("/", s.listUsers)
				r.Get("/{userId}", s.getUser)
				r.With(s.requireRole(string(domainUser.RoleAdmin))).Patch("/{userId}", s.updateUser)
				r.With(s.requireRole(string(domainUser.RoleAdmin))).Put("/{userId}/password", s.setUserPassword)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(s.requireRole(string(domainUser.RoleAdmin)))
				r.Get("/status-report", s.statusReport)
				r.Get("/audit", s.queryAudit)
				r.Get("/audit/{auditId}", s.getAudit)
				r.Post("/audit/{auditId}/verify", s.verifyAudit)
				r.Get("/audit/entity/{entityType}/{entityId}", s.auditEntityHistory)
				r.Post("/trades/{tradeId}/force", s.forceTransition)
				r.Post("/trades/{tradeId}/confirm-delivery", s.confirmDelivery)
			})
		})
	})

	return r
}

// Helpers
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}

func parseUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	val := chi.URLParam(r, key)
	return uuid.Parse(val)
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func parseLimitOffset(r *http.Request, defaultLimit, maxLimit int) (int, int) {
	limit := defaultLimit
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil {
			limit = l
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if o, err := strconv.Atoi(v); err == nil {
			offset = o
		}
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// respondTradeError maps escrow errors onto HTTP statuses. Rejected
// transitions come back as 400 with the machine's reason, concurrent
// status changes as 409.
func respondTradeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainEscrow.ErrStatusConflict),
		errors.Is(err, domainListing.ErrStatusConflict):
		respondError(w, http.StatusConflict, "STATUS_CONFLICT", err.Error())
	case errors.Is(err, domainEscrow.ErrTradeNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domainEscrow.ErrInvalidTransition),
		errors.Is(err, domainEscrow.ErrPreconditionNotMet):
		respondError(w, http.StatusBadRequest, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, chat.ErrRoomNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, chat.ErrNotParticipant):
		respondError(w, http.StatusForbidden, "FORBIDDEN", err.Error())
	default:
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
	}
}
