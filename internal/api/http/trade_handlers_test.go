package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	appAudit "github.com/connectone/tradecore/internal/application/audit"
	appEscrow "github.com/connectone/tradecore/internal/application/escrow"
	"github.com/connectone/tradecore/internal/domain/audit"
	"github.com/connectone/tradecore/internal/domain/chat"
	domainEscrow "github.com/connectone/tradecore/internal/domain/escrow"
	emocks "github.com/connectone/tradecore/internal/domain/escrow/mocks"
	"github.com/connectone/tradecore/internal/domain/listing"
	lmocks "github.com/connectone/tradecore/internal/domain/listing/mocks"
	"github.com/connectone/tradecore/internal/domain/user"
)

type fakeChatRepo struct {
	chat.Repository
}

func (f *fakeChatRepo) GetRoom(_ context.Context, _ uuid.UUID) (*chat.Room, error) {
	return nil, nil
}

type fakePoster struct{}

func (f *fakePoster) PostSystemMessage(_ context.Context, _ uuid.UUID, _ string) error { return nil }

type fakeNotifier struct{}

func (f *fakeNotifier) TradeStatusChanged(_ context.Context, _ *domainEscrow.Trade, _, _ listing.Status) {
}

type fakeGrading struct{}

func (f *fakeGrading) RefreshSeller(_ context.Context, _ uuid.UUID) error { return nil }

type fakeAuditRepo struct {
	audit.Repository
}

func (f *fakeAuditRepo) Create(_ context.Context, _ *audit.AuditLog) error { return nil }

func newTradeServer(t *testing.T) (*Server, *emocks.MockRepository, *lmocks.MockRepository) {
	ctrl := gomock.NewController(t)
	repo := emocks.NewMockRepository(ctrl)
	listings := lmocks.NewMockRepository(ctrl)
	auditSvc := appAudit.NewService(&fakeAuditRepo{}, zerolog.Nop(), nil)
	escrowSvc := appEscrow.NewService(repo, listings, &fakeChatRepo{}, domainEscrow.NewMachine(),
		&fakePoster{}, &fakeNotifier{}, &fakeGrading{}, auditSvc, zerolog.Nop())
	return &Server{escrowSvc: escrowSvc, machine: domainEscrow.NewMachine()}, repo, listings
}

func transitionRequest(tradeID uuid.UUID, actor *AuthUser, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/v1/trades/"+tradeID.String()+"/transition", strings.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("tradeId", tradeID.String())
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	return req.WithContext(withAuthUser(ctx, actor))
}

func TestTransitionTrade(t *testing.T) {
	t.Run("seller registers shipment with tracking number", func(t *testing.T) {
		srv, repo, listings := newTradeServer(t)
		tr := domainEscrow.NewTrade(uuid.New(), uuid.New(), uuid.New(), uuid.New(), 150000)
		tr.Status = listing.StatusEscrowCompleted

		repo.EXPECT().GetByID(gomock.Any(), tr.TradeID).Return(tr, nil)
		repo.EXPECT().UpdateGuarded(gomock.Any(), tr, listing.StatusEscrowCompleted).Return(nil)
		listings.EXPECT().UpdateStatus(gomock.Any(), tr.ListingID, listing.StatusEscrowCompleted, listing.StatusShipping).Return(nil)
		repo.EXPECT().RecordTransition(gomock.Any(), gomock.Any()).Return(nil)

		actor := &AuthUser{UserID: tr.SellerID, Username: "seller", Role: user.RoleUser}
		body := `{"action":"register_shipment","tracking_number":"CJ1234567890"}`
		rec := httptest.NewRecorder()
		srv.transitionTrade(rec, transitionRequest(tr.TradeID, actor, body))

		require.Equal(t, http.StatusOK, rec.Code)
		var got domainEscrow.Trade
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, listing.StatusShipping, got.Status)
		require.NotNil(t, got.TrackingNumber)
		assert.Equal(t, "CJ1234567890", *got.TrackingNumber)
	})

	t.Run("missing tracking number is rejected with the reason", func(t *testing.T) {
		srv, repo, _ := newTradeServer(t)
		tr := domainEscrow.NewTrade(uuid.New(), uuid.New(), uuid.New(), uuid.New(), 150000)
		tr.Status = listing.StatusEscrowCompleted

		repo.EXPECT().GetByID(gomock.Any(), tr.TradeID).Return(tr, nil)

		actor := &AuthUser{UserID: tr.SellerID, Username: "seller", Role: user.RoleUser}
		rec := httptest.NewRecorder()
		srv.transitionTrade(rec, transitionRequest(tr.TradeID, actor, `{"action":"register_shipment"}`))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Condition not met: tracking_number_provided")
	})

	t.Run("buyer cancels with a reason", func(t *testing.T) {
		srv, repo, listings := newTradeServer(t)
		tr := domainEscrow.NewTrade(uuid.New(), uuid.New(), uuid.New(), uuid.New(), 150000)
		tr.Status = listing.StatusReserved

		repo.EXPECT().GetByID(gomock.Any(), tr.TradeID).Return(tr, nil)
		repo.EXPECT().UpdateGuarded(gomock.Any(), tr, listing.StatusReserved).Return(nil)
		listings.EXPECT().UpdateStatus(gomock.Any(), tr.ListingID, listing.StatusReserved, listing.StatusCancelled).Return(nil)
		repo.EXPECT().RecordTransition(gomock.Any(), gomock.Any()).Return(nil)

		actor := &AuthUser{UserID: tr.BuyerID, Username: "buyer", Role: user.RoleUser}
		body := `{"action":"request_cancel","cancel_reason":"changed my mind"}`
		rec := httptest.NewRecorder()
		srv.transitionTrade(rec, transitionRequest(tr.TradeID, actor, body))

		require.Equal(t, http.StatusOK, rec.Code)
		var got domainEscrow.Trade
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, listing.StatusCancelled, got.Status)
		require.NotNil(t, got.CancelReason)
		assert.Equal(t, "changed my mind", *got.CancelReason)
	})

	t.Run("missing action is rejected", func(t *testing.T) {
		srv, _, _ := newTradeServer(t)
		actor := &AuthUser{UserID: uuid.New(), Username: "buyer", Role: user.RoleUser}
		rec := httptest.NewRecorder()
		srv.transitionTrade(rec, transitionRequest(uuid.New(), actor, `{"tracking_number":"CJ1"}`))

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
