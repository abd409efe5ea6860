package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "orderflow/internal/adapters/in/http"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/generated/servers/bonusapi"
	"orderflow/internal/generated/servers/workflowapi"
	"orderflow/internal/pkg/errs"

	"github.com/govalues/decimal"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCommandHandler[C any] struct {
	mock.Mock
}

func (m *MockCommandHandler[C]) Handle(ctx context.Context, cmd C) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

type MockQueryHandler[Q, R any] struct {
	mock.Mock
}

func (m *MockQueryHandler[Q, R]) Handle(ctx context.Context, query Q) (R, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(R), args.Error(1)
}

type workflowMocks struct {
	initOrder *MockCommandHandler[commands.InitOrderCommand]
	respond   *MockCommandHandler[commands.RespondToInvitationCommand]
	mark      *MockCommandHandler[commands.MarkStageCompletionCommand]
	confirm   *MockCommandHandler[commands.ConfirmStageCompletionCommand]
	cancel    *MockCommandHandler[commands.CancelOrderCommand]
	edit      *MockCommandHandler[commands.EditRequestCommand]
	getOrder  *MockQueryHandler[queries.GetOrderQuery, queries.GetOrderQueryResponse]
	dead      *MockQueryHandler[queries.GetDeadOutboxMessagesQuery, queries.GetDeadOutboxMessagesQueryResponse]
}

func newWorkflowEcho() (*echo.Echo, workflowMocks) {
	m := workflowMocks{
		initOrder: &MockCommandHandler[commands.InitOrderCommand]{},
		respond:   &MockCommandHandler[commands.RespondToInvitationCommand]{},
		mark:      &MockCommandHandler[commands.MarkStageCompletionCommand]{},
		confirm:   &MockCommandHandler[commands.ConfirmStageCompletionCommand]{},
		cancel:    &MockCommandHandler[commands.CancelOrderCommand]{},
		edit:      &MockCommandHandler[commands.EditRequestCommand]{},
		getOrder:  &MockQueryHandler[queries.GetOrderQuery, queries.GetOrderQueryResponse]{},
		dead:      &MockQueryHandler[queries.GetDeadOutboxMessagesQuery, queries.GetDeadOutboxMessagesQueryResponse]{},
	}
	server := httpadapter.NewWorkflowServer(httpadapter.WorkflowHandlers{
		InitOrder:              m.initOrder,
		RespondToInvitation:    m.respond,
		MarkStageCompletion:    m.mark,
		ConfirmStageCompletion: m.confirm,
		CancelOrder:            m.cancel,
		EditRequest:            m.edit,
		GetOrder:               m.getOrder,
		GetDeadOutboxMessages:  m.dead,
	})
	e := echo.New()
	workflowapi.RegisterHandlers(e, server)
	return e, m
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httpadapter.Error {
	t.Helper()
	var body httpadapter.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestInitOrder(t *testing.T) {
	e, m := newWorkflowEcho()
	commissionerID := kernel.NewUUID()
	body := `{
		"commissionerId": "` + commissionerID.String() + `",
		"title": "Oak table",
		"deadline": "2026-03-05T10:00:00Z",
		"budget": "1500.50",
		"workshopIds": ["` + kernel.NewUUID().String() + `"],
		"stages": ["Design", "Delivery"]
	}`
	m.initOrder.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.InitOrderCommand) bool {
		return cmd.CommissionerID() == commissionerID &&
			cmd.Title() == "Oak table" &&
			cmd.Budget().String() == "1500.50" &&
			len(cmd.WorkshopIDs()) == 1
	})).Return(nil).Once()

	rec := do(e, http.MethodPost, "/api/v1/orders", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	var created workflowapi.OrderCreated
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEqual(t, [16]byte{}, [16]byte(created.OrderId))
	m.initOrder.AssertExpectations(t)
}

func TestInitOrderRejectsBadBudget(t *testing.T) {
	e, m := newWorkflowEcho()
	body := `{"commissionerId": "` + kernel.NewUUID().String() + `", "title": "t",
		"deadline": "2026-03-05T10:00:00Z", "budget": "lots", "workshopIds": [], "stages": ["s"]}`

	rec := do(e, http.MethodPost, "/api/v1/orders", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	m.initOrder.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestGetOrder(t *testing.T) {
	e, m := newWorkflowEcho()
	orderID, workshopID := kernel.NewUUID(), kernel.NewUUID()
	m.getOrder.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetOrderQuery) bool {
		return q.OrderID() == orderID
	})).Return(queries.GetOrderQueryResponse{
		ID:             orderID,
		CommissionerID: kernel.NewUUID(),
		State:          order.AwaitingStageConfirmations.String(),
		Version:        3,
		Request:        queries.RequestView{Title: "Oak table", Budget: decimal.MustParse("1500.50"), Version: 1},
		Invitations: queries.InvitationsView{Total: 1, Responses: 1, Items: []queries.InvitationView{
			{WorkshopID: workshopID, Status: "Accepted"},
		}},
		Stages: []queries.StageView{{Name: "Design", MarkedBy: &workshopID}},
	}, nil).Once()

	rec := do(e, http.MethodGet, "/api/v1/orders/"+orderID.String(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got workflowapi.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "AwaitingStageConfirmations", got.State)
	assert.Equal(t, "1500.50", got.Request.Budget)
	require.Len(t, got.Stages, 1)
	require.NotNil(t, got.Stages[0].MarkedBy)
	assert.Equal(t, workshopID.Google(), *got.Stages[0].MarkedBy)
	assert.Nil(t, got.CancelledBy)
}

func TestGetOrderNotFound(t *testing.T) {
	e, m := newWorkflowEcho()
	orderID := kernel.NewUUID()
	m.getOrder.On("Handle", mock.Anything, mock.Anything).
		Return(queries.GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", orderID.String())).Once()

	rec := do(e, http.MethodGet, "/api/v1/orders/"+orderID.String(), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, decodeError(t, rec).Code)
}

func TestMalformedPathParameter(t *testing.T) {
	e, _ := newWorkflowEcho()

	rec := do(e, http.MethodGet, "/api/v1/orders/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAcceptInvitationConflict(t *testing.T) {
	e, m := newWorkflowEcho()
	orderID, workshopID := kernel.NewUUID(), kernel.NewUUID()
	m.respond.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.RespondToInvitationCommand) bool {
		return cmd.ExpectedVersion() == 4 && cmd.WorkshopID() == workshopID
	})).Return(errs.NewConcurrencyConflictError("order", orderID.String(), 4)).Once()

	path := "/api/v1/orders/" + orderID.String() + "/invitations/" + workshopID.String() + "/accept"
	rec := do(e, http.MethodPost, path, `{"expectedVersion": 4}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	m.respond.AssertExpectations(t)
}

func TestCancelOrderPreconditionFailed(t *testing.T) {
	e, m := newWorkflowEcho()
	orderID, actorID := kernel.NewUUID(), kernel.NewUUID()
	m.cancel.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CancelOrderCommand) bool {
		return cmd.Party() == order.PartyCommissioner && cmd.ActorID() == actorID && cmd.Reason() == "changed plans"
	})).Return(errs.NewPreconditionFailedError("cancel", "order is terminated")).Once()

	body := `{"party": "Commissioner", "actorId": "` + actorID.String() + `", "reason": "changed plans"}`
	rec := do(e, http.MethodPost, "/api/v1/orders/"+orderID.String()+"/cancel", body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	m.cancel.AssertExpectations(t)
}

func TestCancelOrderRejectsSystemParty(t *testing.T) {
	e, m := newWorkflowEcho()
	body := `{"party": "System", "actorId": "` + kernel.NewUUID().String() + `"}`

	rec := do(e, http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/cancel", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	m.cancel.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestEditRequest(t *testing.T) {
	e, m := newWorkflowEcho()
	orderID, commissionerID := kernel.NewUUID(), kernel.NewUUID()
	path := "/api/v1/orders/" + orderID.String() + "/request"

	t.Run("one field", func(t *testing.T) {
		m.edit.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.EditRequestCommand) bool {
			return cmd.Field() == commands.RequestFieldBudget && cmd.Budget().String() == "2000"
		})).Return(nil).Once()

		body := `{"commissionerId": "` + commissionerID.String() + `", "budget": "2000"}`
		rec := do(e, http.MethodPatch, path, body)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("two fields", func(t *testing.T) {
		body := `{"commissionerId": "` + commissionerID.String() + `", "budget": "2000", "description": "x"}`
		rec := do(e, http.MethodPatch, path, body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	m.edit.AssertNumberOfCalls(t, "Handle", 1)
}

func TestMarkAndConfirmStage(t *testing.T) {
	e, m := newWorkflowEcho()
	orderID, workshopID, commissionerID := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	m.mark.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.MarkStageCompletionCommand) bool {
		return cmd.Stage() == "Design" && cmd.WorkshopID() == workshopID
	})).Return(nil).Once()
	m.confirm.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ConfirmStageCompletionCommand) bool {
		return cmd.Stage() == "Design" && cmd.CommissionerID() == commissionerID
	})).Return(errs.NewTransientError("commit", errors.New("connection reset"))).Once()

	base := "/api/v1/orders/" + orderID.String() + "/stages/Design"
	rec := do(e, http.MethodPost, base+"/mark", `{"workshopId": "`+workshopID.String()+`"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodPost, base+"/confirm", `{"commissionerId": "`+commissionerID.String()+`"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Service Unavailable", decodeError(t, rec).Message)
}

func TestGetDeadOutboxMessages(t *testing.T) {
	e, m := newWorkflowEcho()
	eventID, orderID := kernel.NewUUID(), kernel.NewUUID()
	m.dead.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetDeadOutboxMessagesQuery) bool {
		return q.Limit() == 5
	})).Return(queries.GetDeadOutboxMessagesQueryResponse{Messages: []queries.DeadMessageView{{
		Seq: 7, EventID: eventID, EventName: "OrderCancelled", AggregateID: orderID,
		LastError: "no topic for event", DeadAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}}}, nil).Once()

	rec := do(e, http.MethodGet, "/api/v1/outbox/dead?limit=5", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []workflowapi.DeadMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].Seq)
	assert.Equal(t, eventID.Google(), got[0].EventId)
}

func TestBonusServer(t *testing.T) {
	profiles := &MockQueryHandler[queries.GetBonusProfileQuery, queries.GetBonusProfileQueryResponse]{}
	orders := &MockQueryHandler[queries.GetCommissionerOrdersQuery, queries.GetCommissionerOrdersQueryResponse]{}
	policy := &MockCommandHandler[commands.UpdateVipPolicyCommand]{}
	e := echo.New()
	bonusapi.RegisterHandlers(e, httpadapter.NewBonusServer(profiles, orders, policy))
	commissionerID := kernel.NewUUID()

	t.Run("profile", func(t *testing.T) {
		profiles.On("Handle", mock.Anything, mock.Anything).Return(queries.GetBonusProfileQueryResponse{
			CommissionerID: commissionerID, Points: 150, Grade: "Bronze", Version: 1,
		}, nil).Once()

		rec := do(e, http.MethodGet, "/api/v1/commissioners/"+commissionerID.String()+"/bonus-profile", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var got bonusapi.BonusProfile
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, int64(150), got.Points)
		assert.Equal(t, "Bronze", got.Grade)
	})

	t.Run("orders with unknown state", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/api/v1/commissioners/"+commissionerID.String()+"/orders?state=Archived", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		orders.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("orders", func(t *testing.T) {
		orders.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetCommissionerOrdersQuery) bool {
			return q.State() == "Completed" && q.Limit() == queries.DefaultPageLimit
		})).Return(queries.GetCommissionerOrdersQueryResponse{Orders: []queries.CommissionerOrderView{{
			OrderID: kernel.NewUUID(), State: "Completed", Budget: decimal.MustParse("900"), Workshops: []string{"w-1"},
		}}}, nil).Once()

		rec := do(e, http.MethodGet, "/api/v1/commissioners/"+commissionerID.String()+"/orders?state=Completed", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var got []bonusapi.CommissionerOrder
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "900", got[0].Budget)
	})

	t.Run("replace policy", func(t *testing.T) {
		policy.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.UpdateVipPolicyCommand) bool {
			return cmd.Name() == "spring" && cmd.VipThreshold() == 500
		})).Return(nil).Once()

		rec := do(e, http.MethodPut, "/api/v1/vip-policy", `{"name": "spring", "vipThreshold": 500}`)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("invalid policy", func(t *testing.T) {
		rec := do(e, http.MethodPut, "/api/v1/vip-policy", `{"name": "", "vipThreshold": 500}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errs.NewValueIsRequiredError("title"), http.StatusBadRequest},
		{errs.NewValueIsOutOfRangeError("limit", 0, 1, 500), http.StatusBadRequest},
		{errs.NewObjectNotFoundError("order", "o-1"), http.StatusNotFound},
		{errs.NewAlreadyExistsError("order", "o-1"), http.StatusConflict},
		{errs.NewConcurrencyConflictError("order", "o-1", 2), http.StatusConflict},
		{errs.NewPreconditionFailedError("cancel", "terminated"), http.StatusUnprocessableEntity},
		{errs.NewTransientError("commit", nil), http.StatusServiceUnavailable},
		{errs.NewInvariantViolationError("negative points"), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.want, httpadapter.StatusFor(tc.err))
		})
	}
}
